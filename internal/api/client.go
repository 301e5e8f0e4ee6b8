package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pittsix/cmsctl/internal/log"
)

// TokenSource yields the bearer token for outgoing requests. It is read
// at call time, never captured at client construction, so a login or
// logout between construction and a later call is honored.
type TokenSource interface {
	Token() string
}

// AuthRejectHandler is invoked whenever any call returns 401 or 403.
type AuthRejectHandler func(status int)

// Client is the CMS backend API client. All requests go through a single
// interceptor that attaches the current bearer token and classifies
// failures.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	tokens   TokenSource
	onReject AuthRejectHandler
	logger   *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// WithTokenSource sets the bearer token source.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a new CMS API client.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTokenSource sets the bearer token source after construction. This
// exists because the session store both feeds the client its token and
// uses the client to fetch the profile.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// OnAuthReject registers the handler called on any 401/403 response.
func (c *Client) OnAuthReject(h AuthRejectHandler) {
	c.onReject = h
}

// do performs a JSON request and returns the raw response body on
// success. Failures are returned as a classified *Error; the client
// never retries.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.send(req)
}

// send applies the interceptor (bearer token, request id) and
// classifies the response.
func (c *Client) send(req *http.Request) ([]byte, error) {
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	// Read the token at dispatch time, not construction time. Omit the
	// header entirely when no token is held.
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.logger.Debug("api request",
		"method", req.Method,
		"path", req.URL.Path,
		"request_id", requestID)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.logger.Debug("api transport failure", "request_id", requestID, "error", err.Error())
		return nil, &Error{Kind: KindNetwork, cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, cause: err}
	}

	c.logger.Debug("api response",
		"status", resp.StatusCode,
		"request_id", requestID)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, nil
	}

	apiErr := classify(resp.StatusCode, data)
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		if c.onReject != nil {
			c.onReject(resp.StatusCode)
		}
	}
	return nil, apiErr
}

// Get issues a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return decode(data, out)
}

// Post issues a POST request and decodes the JSON response into out.
// out may be nil when the response body is irrelevant.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	data, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	return decode(data, out)
}

// Put issues a PUT request and decodes the JSON response into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	data, err := c.do(ctx, http.MethodPut, path, body)
	if err != nil {
		return err
	}
	return decode(data, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil)
	return err
}

func decode(data []byte, out any) error {
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
