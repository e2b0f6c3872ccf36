// Package xmrpooleu implements the pool adapter for XMRPool.eu.
package xmrpooleu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/powerhive/poolwatch/pkg/pool"
)

const (
	// DefaultBaseURL is the public XMRPool.eu API host.
	DefaultBaseURL = "https://api.xmrpool.eu"

	name    = "XMRPool.eu"
	website = "https://xmrpool.eu"
)

// Client is the HTTP implementation of pool.Adapter for XMRPool.eu.
type Client struct {
	cfg pool.ClientConfig
}

// NewClient creates a new XMRPool.eu client.
func NewClient(opts ...pool.ClientOption) *Client {
	return &Client{cfg: pool.NewClientConfig(DefaultBaseURL, opts...)}
}

// FetchStats returns the wallet's stats from a single request.
// The pool answers unknown wallets with a 404 or a body that is not a
// stats object; both yield a zero record.
func (c *Client) FetchStats(ctx context.Context, wallet string) (pool.Stats, error) {
	endpoint := fmt.Sprintf("/pool/miner/%s/stats", url.PathEscape(wallet))

	resp, err := c.cfg.Get(ctx, endpoint)
	if err != nil {
		return pool.Stats{}, pool.Unavailable(name, endpoint, 0, "", err)
	}

	var stats *MinerStats
	if resp.OK() {
		stats = decodeStats(resp.Body)
	}

	if notFound(resp, stats) {
		return pool.Stats{}, nil
	}

	if !resp.OK() {
		return pool.Stats{}, pool.Unavailable(name, endpoint, resp.StatusCode, resp.Snippet(), nil)
	}

	return stats.ToStats(), nil
}

// notFound reports whether the response means the wallet is unknown: a 404,
// or a successful response whose body is not a stats object.
func notFound(resp *pool.Response, stats *MinerStats) bool {
	if resp.NotFound() {
		return true
	}
	return resp.OK() && stats == nil
}

// decodeStats parses the body, returning nil when it is not a JSON object.
func decodeStats(body []byte) *MinerStats {
	var stats *MinerStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil
	}
	return stats
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
