package backend

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

const defaultTimeout = 30 * time.Second

type tokenContextKey struct{}

// WithToken returns a context carrying the bearer token for backend calls.
// The auth middleware sets it from the session; the client attaches it to
// every outgoing request when present.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// TokenFromContext returns the bearer token carried by ctx, if any
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey{}).(string)
	return token
}

// Client is the single configured HTTP client for the upstream API.
// Every request attaches the bearer token from the context when present;
// a 401 response surfaces as ErrUnauthorized. One attempt per call, no retry.
type Client struct {
	baseURL    string
	httpClient *http.Client
	observer   CallObserver
}

// CallObserver is notified after each upstream call, for metrics.
// The endpoint is always one of the Endpoint constants, never the raw
// request path, so ids and query strings stay out of metric labels.
type CallObserver interface {
	RecordBackendCall(endpoint string, statusCode int)
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithObserver registers a call observer
func WithObserver(o CallObserver) Option {
	return func(c *Client) { c.observer = o }
}

// NewClient creates a new backend client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do performs one request and decodes a 2xx JSON body into out (when non-nil).
// Extra headers are applied after the defaults so callers can add gateway
// credentials to specific calls. The endpoint labels the call for the
// observer; path carries the full request path and defaults to the endpoint
// when empty.
func (c *Client) do(ctx context.Context, method, endpoint, path string, body interface{}, headers map[string]string, out interface{}) error {
	if path == "" {
		path = endpoint
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	url := c.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if c.observer != nil {
		c.observer.RecordBackendCall(endpoint, resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope errorEnvelope
		if len(respBody) > 0 {
			// Best effort; an unparseable body still yields a generic APIError
			json.Unmarshal(respBody, &envelope)
		}
		return envelope.toAPIError(resp.StatusCode)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, endpoint, path, nil, nil, out)
}

func (c *Client) post(ctx context.Context, endpoint string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, endpoint, "", body, nil, out)
}
