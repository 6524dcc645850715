// ABOUTME: HTTP client for the GCDL REST API
// ABOUTME: Attaches the stored bearer credential to every request and normalizes errors

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KayembaIsaacFrank/gcdl/internal/storage"
)

// CredentialSource supplies the bearer token. It is consulted before every
// request so a logout in another process takes effect immediately.
type CredentialSource interface {
	Get(ctx context.Context, key string) (string, bool, error)
}

// DialContextFunc matches net.Dialer.DialContext.
type DialContextFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Client is the API client for the GCDL backend
type Client struct {
	baseURL    string
	creds      CredentialSource
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithDialContext routes connections through a custom dialer, such as an
// SSH-tunnelled SOCKS5 proxy.
func WithDialContext(dial DialContextFunc) Option {
	return func(c *Client) {
		if dial == nil {
			return
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.DialContext = dial
		c.httpClient.Transport = transport
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a new API client. baseURL is the API root (for example
// http://localhost:5000/api); a trailing slash is ignored.
func New(baseURL string, creds CredentialSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		creds:      creds,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends a JSON request and returns the raw response body on 2xx.
// body may be nil. Failures are returned as *APIError.
func (c *Client) Do(ctx context.Context, method, path string, body any, query url.Values) (json.RawMessage, error) {
	data, _, err := c.send(ctx, method, path, body, query)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

// getJSON performs a GET and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	data, err := c.Do(ctx, http.MethodGet, path, nil, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// send performs the request and returns the body and response headers.
func (c *Client) send(ctx context.Context, method, path string, body any, query url.Values) ([]byte, http.Header, error) {
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.credential(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	slog.Debug("Request started", "request_id", requestID, "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &APIError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	slog.Debug("Request completed",
		"request_id", requestID,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := handleErrorResponse(resp.StatusCode, data)
		slog.Warn("Request failed", "request_id", requestID, "method", method, "path", path, "status", resp.StatusCode, "error", apiErr.Message)
		return nil, resp.Header, apiErr
	}

	return data, resp.Header, nil
}

// credential reads the current token. A storage failure is logged and the
// request proceeds unauthenticated; the server then answers 401.
func (c *Client) credential(ctx context.Context) string {
	if c.creds == nil {
		return ""
	}
	token, ok, err := c.creds.Get(ctx, storage.TokenKey)
	if err != nil {
		slog.Warn("Failed to read stored credential", "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return token
}

// handleRequestError converts transport errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) *APIError {
	if errors.Is(ctx.Err(), context.Canceled) {
		return &APIError{Err: fmt.Errorf("request canceled")}
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &APIError{Err: fmt.Errorf("request timed out")}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &APIError{Err: fmt.Errorf("request timed out")}
	}
	return &APIError{Err: fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)}
}
