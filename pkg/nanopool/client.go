// Package nanopool implements the pool adapter for Nanopool's XMR API.
package nanopool

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/powerhive/poolwatch/pkg/pool"
)

const (
	// DefaultBaseURL is the public Nanopool XMR API.
	DefaultBaseURL = "https://api.nanopool.org/v1/xmr"

	name    = "Nanopool"
	website = "https://xmr.nanopool.org"

	accountNotFound = "account not found"
)

// Client is the HTTP implementation of pool.Adapter for Nanopool.
type Client struct {
	cfg pool.ClientConfig
}

// NewClient creates a new Nanopool client.
func NewClient(opts ...pool.ClientOption) *Client {
	return &Client{cfg: pool.NewClientConfig(DefaultBaseURL, opts...)}
}

// FetchStats returns the wallet's stats from /user/{wallet}.
func (c *Client) FetchStats(ctx context.Context, wallet string) (pool.Stats, error) {
	endpoint := fmt.Sprintf("/user/%s", url.PathEscape(wallet))

	resp, err := c.cfg.Get(ctx, endpoint)
	if err != nil {
		return pool.Stats{}, pool.Unavailable(name, endpoint, 0, "", err)
	}

	env, decodeErr := decodeEnvelope(resp)
	if notFound(resp, env) {
		return pool.Stats{}, nil
	}

	if !resp.OK() {
		return pool.Stats{}, pool.Unavailable(name, endpoint, resp.StatusCode, resp.Snippet(), nil)
	}

	if decodeErr != nil {
		return pool.Stats{}, pool.Unavailable(name, endpoint, resp.StatusCode, "", decodeErr)
	}

	if !env.Status {
		msg := env.Error
		if msg == "" {
			msg = "failed to fetch data from Nanopool"
		}
		return pool.Stats{}, pool.Unavailable(name, endpoint, resp.StatusCode, msg, nil)
	}

	return env.Data.ToStats(), nil
}

// decodeEnvelope parses the response envelope. The envelope is nil when the
// body is not a JSON object of the expected shape.
func decodeEnvelope(resp *pool.Response) (*Envelope, error) {
	var env *Envelope
	if err := resp.Decode(&env); err != nil {
		return nil, err
	}
	if env == nil {
		return nil, errors.New("response is not a JSON object")
	}
	return env, nil
}

// notFound reports whether the response means the account is unknown:
// a 404, or status=false with an "account not found" error.
func notFound(resp *pool.Response, env *Envelope) bool {
	if resp.NotFound() {
		return true
	}
	return env != nil && !env.Status &&
		strings.Contains(strings.ToLower(env.Error), accountNotFound)
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
