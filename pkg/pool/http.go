package pool

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout is the HTTP timeout adapters use unless configured otherwise.
const DefaultTimeout = 30 * time.Second

// maxBodySize caps how much of a response body is read.
const maxBodySize = 4 << 20

// ClientConfig holds the transport settings shared by all pool adapters.
type ClientConfig struct {
	BaseURL    string
	HTTPClient *http.Client
}

// ClientOption is a function that configures a ClientConfig.
type ClientOption func(*ClientConfig)

// WithBaseURL overrides the pool's API base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *ClientConfig) {
		if baseURL != "" {
			c.BaseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *ClientConfig) {
		if client != nil {
			c.HTTPClient = client
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientConfig) {
		if timeout > 0 {
			c.HTTPClient.Timeout = timeout
		}
	}
}

// NewClientConfig applies opts over a config pointing at defaultBaseURL.
func NewClientConfig(defaultBaseURL string, opts ...ClientOption) ClientConfig {
	c := ClientConfig{
		BaseURL: defaultBaseURL,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// Response is a raw HTTP response whose status has not been interpreted yet.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK returns true for a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// NotFound returns true for a 404 status.
func (r *Response) NotFound() bool {
	return r.StatusCode == http.StatusNotFound
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v interface{}) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// Snippet returns the start of the body for error messages.
func (r *Response) Snippet() string {
	s := strings.TrimSpace(string(r.Body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	if s == "" {
		return http.StatusText(r.StatusCode)
	}
	return s
}

// Get performs an HTTP GET and returns the raw response for any status.
// Only transport-level failures are returned as errors.
func (c ClientConfig) Get(ctx context.Context, endpoint string) (*Response, error) {
	fullURL := c.BaseURL + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}
