// Package supportxmr implements the pool adapter for SupportXMR.
package supportxmr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/powerhive/poolwatch/pkg/pool"
)

const (
	// DefaultBaseURL is the public SupportXMR API.
	DefaultBaseURL = "https://supportxmr.com/api"

	name    = "SupportXMR"
	website = "https://supportxmr.com"
)

// Client is the HTTP implementation of pool.Adapter for SupportXMR.
type Client struct {
	cfg pool.ClientConfig
}

// NewClient creates a new SupportXMR client.
func NewClient(opts ...pool.ClientOption) *Client {
	return &Client{cfg: pool.NewClientConfig(DefaultBaseURL, opts...)}
}

// FetchStats returns the wallet's stats from a single request.
func (c *Client) FetchStats(ctx context.Context, wallet string) (pool.Stats, error) {
	endpoint := fmt.Sprintf("/miner/%s/stats", url.PathEscape(wallet))

	resp, err := c.cfg.Get(ctx, endpoint)
	if err != nil {
		return pool.Stats{}, pool.Unavailable(name, endpoint, 0, "", err)
	}

	if notFound(resp) {
		return pool.Stats{}, nil
	}

	if !resp.OK() {
		return pool.Stats{}, pool.Unavailable(name, endpoint, resp.StatusCode, resp.Snippet(), nil)
	}

	stats, err := parseStats(resp.Body)
	if err != nil {
		return pool.Stats{}, pool.Unavailable(name, endpoint, resp.StatusCode, "", err)
	}

	return stats.ToStats(), nil
}

// notFound reports whether the response means the wallet is unknown.
func notFound(resp *pool.Response) bool {
	return resp.NotFound()
}

// parseStats decodes the payload, which may or may not be wrapped in "stats".
func parseStats(body []byte) (*MinerStats, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if envelope == nil {
		return nil, errors.New("response is not a JSON object")
	}

	payload := body
	if inner, ok := envelope["stats"]; ok && bytes.HasPrefix(bytes.TrimSpace(inner), []byte("{")) {
		payload = inner
	}

	var stats MinerStats
	if err := json.Unmarshal(payload, &stats); err != nil {
		return nil, fmt.Errorf("failed to parse stats: %w", err)
	}
	return &stats, nil
}

// ValidateAddress checks the Monero address format.
func (c *Client) ValidateAddress(wallet string) bool {
	return pool.ValidMoneroAddress(wallet)
}

// Name returns the pool's display name.
func (c *Client) Name() string {
	return name
}

// WebsiteURL returns the pool's public website.
func (c *Client) WebsiteURL() string {
	return website
}

// Ensure Client implements pool.Adapter.
var _ pool.Adapter = (*Client)(nil)
