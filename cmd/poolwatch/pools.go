package main

import (
	"fmt"

	"github.com/powerhive/poolwatch/pkg/moneroocean"
	"github.com/powerhive/poolwatch/pkg/nanopool"
	"github.com/powerhive/poolwatch/pkg/pool"
	"github.com/powerhive/poolwatch/pkg/registry"
	"github.com/powerhive/poolwatch/pkg/supportxmr"
	"github.com/powerhive/poolwatch/pkg/xmrpooleu"
)

// poolFactory builds the adapter registered under id.
type poolFactory struct {
	id  string
	new func(opts ...pool.ClientOption) pool.Adapter
}

// poolFactories lists the supported pools in display order.
var poolFactories = []poolFactory{
	{"supportxmr", func(opts ...pool.ClientOption) pool.Adapter { return supportxmr.NewClient(opts...) }},
	{"nanopool", func(opts ...pool.ClientOption) pool.Adapter { return nanopool.NewClient(opts...) }},
	{"moneroocean", func(opts ...pool.ClientOption) pool.Adapter { return moneroocean.NewClient(opts...) }},
	{"xmrpool-eu", func(opts ...pool.ClientOption) pool.Adapter { return xmrpooleu.NewClient(opts...) }},
}

// registerPools registers every supported pool with reg, applying the
// configured timeout and base URL overrides. A nil metrics skips
// instrumentation.
func registerPools(reg *registry.Registry, cfg *Config, metrics *pool.Metrics) error {
	for _, f := range poolFactories {
		opts := []pool.ClientOption{
			pool.WithTimeout(cfg.HTTPTimeout),
			pool.WithBaseURL(cfg.BaseURL(f.id)),
		}
		adapter := metrics.Instrument(f.id, f.new(opts...))
		if err := reg.Register(f.id, adapter); err != nil {
			return fmt.Errorf("failed to register %s: %w", f.id, err)
		}
	}
	return nil
}
