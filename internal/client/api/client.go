// Package api implements the HTTP client for the Gallery Hub backend.
// Every request carries the bearer token supplied by the token source;
// a 401 from any endpoint is reported as ErrSessionExpired so callers
// can drop the session and return to the entry screen.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrSessionExpired is returned for any 401 response.
var ErrSessionExpired = errors.New("session expired")

// Error is a server-reported failure: a non-2xx status with the message
// body surfaced verbatim where the server provided one.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// TokenSource supplies the current bearer token. An empty string means
// the request is sent unauthenticated.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed-token TokenSource, used in tests and for
// one-shot calls.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// Client calls the Gallery Hub REST API.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// New constructs a client for the given base URL. tokens may be nil for
// a client that only performs unauthenticated calls.
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) token() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

// doJSON performs a JSON request and decodes a JSON response into out
// (skipped when out is nil). Transport failures are wrapped; non-2xx
// responses become *Error, with 401 mapped to ErrSessionExpired.
func (c *Client) doJSON(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// doMultipart sends a prepared multipart body and decodes the JSON
// response into out.
func (c *Client) doMultipart(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// checkStatus maps non-2xx responses to errors. The server error message
// is taken from a {"message": ...} body when present, with the HTTP
// status text as fallback.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrSessionExpired
	}

	var errBody struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&errBody)
	msg := errBody.Message
	if msg == "" {
		msg = resp.Status
	}
	return &Error{Status: resp.StatusCode, Message: msg}
}
