package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/galleryhub/galleryhub/internal/models"
	"github.com/galleryhub/galleryhub/internal/repository"
	"github.com/galleryhub/galleryhub/internal/server/token"
	"github.com/galleryhub/galleryhub/internal/service"
)

// newTestServer wires the full router over in-memory storage, the way
// the server binary does.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := repository.NewMemoryStore()
	ids := func() func() string {
		n := 0
		return func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}
	}()
	auth := service.NewAuthService(store, ids)
	media := service.NewMediaService(store)
	tokens := token.NewManager("test-secret", time.Hour)
	uploadsDir := t.TempDir()

	router := NewRouter(
		&AuthHandler{AuthService: auth, Tokens: tokens},
		DefaultMediaHandlers(media, uploadsDir),
		&ProfileHandler{ProfileService: auth, UploadsDir: uploadsDir},
		&ChatHandler{},
		tokens,
		zap.NewNop(),
	)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func registerUser(t *testing.T, srv *httptest.Server) models.Session {
	t.Helper()
	body := `{"name":"Alice","email":"alice@example.com","password":"secret"}`
	resp, err := http.Post(srv.URL+"/api/users/register", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register status = %d", resp.StatusCode)
	}
	var sess models.Session
	if err := json.NewDecoder(resp.Body).Decode(&sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return sess
}

func doAuthed(t *testing.T, method, url, tok string, body io.Reader, contentType string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func TestRouter_FullImageFlow(t *testing.T) {
	srv := newTestServer(t)
	sess := registerUser(t, srv)

	// Empty collection first.
	resp := doAuthed(t, "GET", srv.URL+"/api/images", sess.Token, nil, "")
	var items []models.MediaItem
	json.NewDecoder(resp.Body).Decode(&items)
	resp.Body.Close()
	if len(items) != 0 {
		t.Fatalf("items = %v, want empty", items)
	}

	// Single upload.
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="image"; filename="cat.png"`},
		"Content-Type":        {"image/png"},
	})
	part.Write([]byte("png-bytes"))
	mw.Close()

	resp = doAuthed(t, "POST", srv.URL+"/api/images/upload", sess.Token, &buf, mw.FormDataContentType())
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload status = %d", resp.StatusCode)
	}
	var created models.MediaItem
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	// The stored bytes are reachable under /uploads/.
	resp = doAuthed(t, "GET", srv.URL+"/uploads/"+created.Filename, sess.Token, nil, "")
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(data) != "png-bytes" {
		t.Errorf("served bytes = %q", data)
	}

	// The collection now lists it.
	resp = doAuthed(t, "GET", srv.URL+"/api/images", sess.Token, nil, "")
	json.NewDecoder(resp.Body).Decode(&items)
	resp.Body.Close()
	if len(items) != 1 || items[0].ID != created.ID {
		t.Fatalf("items = %v", items)
	}

	// Zip download of the item.
	resp = doAuthed(t, "POST", srv.URL+"/api/images/download-zip", sess.Token,
		bytes.NewBufferString(`{"imageIds":["`+created.ID+`"]}`), "application/json")
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "application/zip" {
		t.Fatalf("zip status = %d, type %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	// Delete it.
	resp = doAuthed(t, "DELETE", srv.URL+"/api/images/"+created.ID, sess.Token, nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doAuthed(t, "GET", srv.URL+"/api/images", sess.Token, nil, "")
	json.NewDecoder(resp.Body).Decode(&items)
	resp.Body.Close()
	if len(items) != 0 {
		t.Errorf("items after delete = %v", items)
	}
}

func TestRouter_AuthBoundary(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		do   func() (*http.Response, error)
		want int
	}{
		{
			name: "list without token",
			do:   func() (*http.Response, error) { return http.Get(srv.URL + "/api/images") },
			want: http.StatusUnauthorized,
		},
		{
			name: "chat without token",
			do: func() (*http.Response, error) {
				return http.Post(srv.URL+"/api/chatbot", "application/json", bytes.NewBufferString(`{"message":"hi"}`))
			},
			want: http.StatusUnauthorized,
		},
		{
			name: "login without token is allowed through auth",
			do: func() (*http.Response, error) {
				return http.Post(srv.URL+"/api/users/login", "application/json", bytes.NewBufferString(`{"email":"x@y.z","password":"pw"}`))
			},
			want: http.StatusUnauthorized, // wrong credentials, not a missing token
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := tt.do()
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}

	t.Run("garbage token", func(t *testing.T) {
		resp := doAuthed(t, "GET", srv.URL+"/api/images", "not-a-jwt", nil, "")
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})
}

func TestRouter_NoSingleUploadForVideos(t *testing.T) {
	srv := newTestServer(t)
	sess := registerUser(t, srv)

	resp := doAuthed(t, "POST", srv.URL+"/api/videos/upload", sess.Token, bytes.NewBufferString(""), "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound && resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want the route to be absent", resp.StatusCode)
	}
}

func TestRouter_ProfileFlow(t *testing.T) {
	srv := newTestServer(t)
	sess := registerUser(t, srv)

	// Read the profile back.
	resp := doAuthed(t, "GET", srv.URL+"/api/users/profile", sess.Token, nil, "")
	var user models.User
	json.NewDecoder(resp.Body).Decode(&user)
	resp.Body.Close()
	if user.Name != "Alice" || user.Email != "alice@example.com" {
		t.Fatalf("profile = %+v", user)
	}

	// Update name and change the password.
	body := `{"name":"Alice B","email":"alice@example.com","currentPassword":"secret","newPassword":"better"}`
	resp = doAuthed(t, "PUT", srv.URL+"/api/users/profile", sess.Token, bytes.NewBufferString(body), "application/json")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The new password logs in, the old one no longer does.
	login := func(password string) int {
		resp, err := http.Post(srv.URL+"/api/users/login", "application/json",
			bytes.NewBufferString(`{"email":"alice@example.com","password":"`+password+`"}`))
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		defer resp.Body.Close()
		return resp.StatusCode
	}
	if code := login("better"); code != http.StatusOK {
		t.Errorf("new password login = %d", code)
	}
	if code := login("secret"); code != http.StatusUnauthorized {
		t.Errorf("old password login = %d", code)
	}

	// Avatar upload lands on disk and in the profile.
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="profilePicture"; filename="avatar.jpeg"`},
		"Content-Type":        {"image/jpeg"},
	})
	part.Write([]byte("jpeg-bytes"))
	mw.Close()

	resp = doAuthed(t, "PUT", srv.URL+"/api/users/profile/picture", sess.Token, &buf, mw.FormDataContentType())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("picture status = %d", resp.StatusCode)
	}
	var reply map[string]string
	json.NewDecoder(resp.Body).Decode(&reply)
	resp.Body.Close()
	if reply["profilePicture"] == "" {
		t.Fatalf("reply = %v", reply)
	}

	resp = doAuthed(t, "GET", srv.URL+"/api/users/profile", sess.Token, nil, "")
	json.NewDecoder(resp.Body).Decode(&user)
	resp.Body.Close()
	if user.ProfilePicture != reply["profilePicture"] {
		t.Errorf("profile picture = %q, want %q", user.ProfilePicture, reply["profilePicture"])
	}
}

func TestRouter_DuplicateRegistration(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv)

	body := `{"name":"Other","email":"alice@example.com","password":"pw"}`
	resp, err := http.Post(srv.URL+"/api/users/register", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
}
