package client

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"dbconsole/logger"
	"dbconsole/models"
)

var (
	// ErrUnauthorized is returned for HTTP 401/403 after OnUnauthorized has run.
	ErrUnauthorized = errors.New("session expired or not authorized, please log in again")
	// ErrTimeout is returned when the backend does not answer within the client timeout.
	ErrTimeout = errors.New("request to backend timed out")
)

// StatusError is a non-2xx backend answer other than 401/403.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned HTTP %d: %s", e.StatusCode, e.Body)
}

// TokenSource yields the session token attached to every request ("" for none).
type TokenSource func() string

// Client is the transport to the monitoring backend. It only speaks the
// envelope; it never interprets tabular payloads.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Token   TokenSource
	// OnUnauthorized runs once per 401/403 answer, e.g. to clear the stored token.
	OnUnauthorized func()
}

// New returns a client for baseURL with the given request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) resolve(path string, query url.Values) (string, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid backend base URL %q: %w", c.BaseURL, err)
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", path, err)
	}
	u := base.ResolveReference(ref)
	if !ref.IsAbs() && strings.HasPrefix(path, "/") && base.Path != "" && base.Path != "/" {
		u.Path = strings.TrimRight(base.Path, "/") + path
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Get issues a GET with query params and decodes the envelope.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*models.Envelope, error) {
	target, err := c.resolve(path, query)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", path, err)
	}
	return c.do(req)
}

// Post issues a POST with a JSON body and decodes the envelope.
func (c *Client) Post(ctx context.Context, path string, body any) (*models.Envelope, error) {
	target, err := c.resolve(path, nil)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request body for %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*models.Envelope, error) {
	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "br, gzip")
	req.Header.Set("X-Request-ID", requestID)
	if c.Token != nil {
		if token := c.Token(); token != "" {
			req.Header.Set("Authorization", token)
		}
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			logger.Error("client: %s %s timed out after %s (request %s)", req.Method, req.URL.Path, time.Since(start), requestID)
			return nil, ErrTimeout
		}
		logger.Error("client: %s %s failed (request %s): %v", req.Method, req.URL.Path, requestID, err)
		return nil, fmt.Errorf("request to backend failed: %w", err)
	}
	defer resp.Body.Close()
	logger.Debug("client: %s %s -> %d in %s (request %s)", req.Method, req.URL.Path, resp.StatusCode, time.Since(start), requestID)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		if c.OnUnauthorized != nil {
			c.OnUnauthorized()
		}
		return nil, ErrUnauthorized
	}

	body, err := readBody(resp)
	if err != nil {
		if isTimeout(err) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("reading backend response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: snippet(body)}
	}
	return decodeEnvelope(body)
}

func readBody(resp *http.Response) ([]byte, error) {
	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "br":
		return io.ReadAll(brotli.NewReader(resp.Body))
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		return io.ReadAll(gz)
	default:
		return io.ReadAll(resp.Body)
	}
}

// decodeEnvelope accepts the standard envelope and, for count endpoints, a body
// that is not an envelope at all (a bare integer or {data: n}); the latter is
// treated as a successful envelope carrying the whole body.
func decodeEnvelope(body []byte) (*models.Envelope, error) {
	trimmed := bytes.TrimSpace(body)
	if !gjson.ValidBytes(trimmed) {
		return nil, fmt.Errorf("backend response is not valid JSON: %s", snippet(trimmed))
	}
	root := gjson.ParseBytes(trimmed)
	if !root.IsObject() || !root.Get("success").Exists() {
		return &models.Envelope{Success: true, Data: json.RawMessage(trimmed)}, nil
	}

	var env models.Envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("decoding backend envelope: %w", err)
	}
	return &env, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
