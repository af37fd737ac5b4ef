package token

import (
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("secret", time.Hour)

	tok, err := m.Issue("u1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	userID, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if userID != "u1" {
		t.Errorf("userID = %q, want u1", userID)
	}
}

func TestVerifyRejections(t *testing.T) {
	m := NewManager("secret", time.Hour)
	good, err := m.Issue("u1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not.a.jwt"},
		{name: "empty", token: ""},
		{name: "tampered", token: good + "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Verify(tt.token); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	tok, err := NewManager("secret-a", time.Hour).Issue("u1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := NewManager("secret-b", time.Hour).Verify(tok); err == nil {
		t.Error("token signed with another secret must not verify")
	}
}

func TestVerifyExpired(t *testing.T) {
	m := NewManager("secret", -time.Minute)
	tok, err := m.Issue("u1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := m.Verify(tok); err == nil {
		t.Error("expired token must not verify")
	}
}

func TestZeroTTLFallsBack(t *testing.T) {
	m := NewManager("secret", 0)
	tok, err := m.Issue("u1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := m.Verify(tok); err != nil {
		t.Errorf("token with default TTL must verify, got %v", err)
	}
}
