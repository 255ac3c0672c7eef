package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxResponseBytes = 4 << 20

// TokenSource hands out a bearer token that is still valid, or "" when there is none.
type TokenSource interface {
	ValidToken(ctx context.Context) string
}

// APIClient talks JSON to the backend REST API.
type APIClient struct {
	baseURL string
	http    *http.Client
}

// NewAPIClient builds a client for baseURL. Sources are consulted in order for the bearer
// token, so pass the admin session before the tenant session.
func NewAPIClient(baseURL string, timeout time.Duration, sources ...TokenSource) *APIClient {
	base := strings.TrimRight(baseURL, "/")
	return &APIClient{
		baseURL: base,
		http: &http.Client{
			Timeout:   timeout,
			Transport: &bearerTransport{base: base, sources: sources, next: http.DefaultTransport},
		},
	}
}

func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// Do sends body as JSON to path and decodes the answer into out (when out is non-nil).
func (c *APIClient) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// bearerTransport attaches the session token to requests aimed at the backend.
type bearerTransport struct {
	base    string
	sources []TokenSource
	next    http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Authorization") != "" || !t.targetsBackend(req.URL.String()) {
		return t.next.RoundTrip(req)
	}

	for _, src := range t.sources {
		if token := src.ValidToken(req.Context()); token != "" {
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
			break
		}
	}
	return t.next.RoundTrip(req)
}

func (t *bearerTransport) targetsBackend(url string) bool {
	if !strings.HasPrefix(url, t.base) {
		return false
	}
	rest := url[len(t.base):]
	return rest == "" || rest[0] == '/' || rest[0] == '?'
}
