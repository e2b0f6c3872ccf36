// Package moneroocean implements the pool adapter for MoneroOcean.
// MoneroOcean splits live stats and payment history across two endpoints,
// so each fetch issues both requests concurrently and merges the results.
package moneroocean

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/powerhive/poolwatch/pkg/pool"
)

const (
	// DefaultBaseURL is the public MoneroOcean API.
	DefaultBaseURL = "https://api.moneroocean.stream"

	name    = "MoneroOcean"
	website = "https://moneroocean.stream"
)

// Client is the HTTP implementation of pool.Adapter for MoneroOcean.
type Client struct {
	cfg pool.ClientConfig
}

// NewClient creates a new MoneroOcean client.
func NewClient(opts ...pool.ClientOption) *Client {
	return &Client{cfg: pool.NewClientConfig(DefaultBaseURL, opts...)}
}

// FetchStats fetches live stats and payments in parallel. It returns only
// after both requests settle; a failure of either fails the call.
func (c *Client) FetchStats(ctx context.Context, wallet string) (pool.Stats, error) {
	escaped := url.PathEscape(wallet)
	statsEndpoint := fmt.Sprintf("/miner/%s/stats/allWorkers", escaped)
	paymentsEndpoint := fmt.Sprintf("/miner/%s/payments", escaped)

	var statsResp, paymentsResp *pool.Response

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := c.cfg.Get(gctx, statsEndpoint)
		if err != nil {
			return pool.Unavailable(name, statsEndpoint, 0, "", err)
		}
		statsResp = resp
		return nil
	})
	g.Go(func() error {
		resp, err := c.cfg.Get(gctx, paymentsEndpoint)
		if err != nil {
			return pool.Unavailable(name, paymentsEndpoint, 0, "", err)
		}
		paymentsResp = resp
		return nil
	})
	if err := g.Wait(); err != nil {
		return pool.Stats{}, err
	}

	if notFound(statsResp, paymentsResp) {
		return pool.Stats{}, nil
	}

	if !statsResp.OK() {
		return pool.Stats{}, pool.Unavailable(name, statsEndpoint, statsResp.StatusCode, statsResp.Snippet(), nil)
	}
	if !paymentsResp.OK() {
		return pool.Stats{}, pool.Unavailable(name, paymentsEndpoint, paymentsResp.StatusCode, paymentsResp.Snippet(), nil)
	}

	var stats *WorkerStats
	if err := statsResp.Decode(&stats); err != nil {
		return pool.Stats{}, pool.Unavailable(name, statsEndpoint, statsResp.StatusCode, "", err)
	}
	if stats == nil {
		return pool.Stats{}, pool.Unavailable(name, statsEndpoint, statsResp.StatusCode, "",
			errors.New("response is not a JSON object"))
	}

	var payments []Payment
	if err := paymentsResp.Decode(&payments); err != nil {
		return pool.Stats{}, pool.Unavailable(name, paymentsEndpoint, paymentsResp.StatusCode, "", err)
	}

	return toStats(stats, payments), nil
}

// notFound reports whether either endpoint says the wallet is unknown.
func notFound(statsResp, paymentsResp *pool.Response) bool {
	return statsResp.NotFound() || paymentsResp.NotFound()
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
