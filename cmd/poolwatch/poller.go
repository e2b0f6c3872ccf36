package main

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/powerhive/poolwatch/pkg/pool"
)

// StatsFetcher is the part of the registry the poller needs.
type StatsFetcher interface {
	GetStats(ctx context.Context, wallet string) (pool.Stats, error)
}

// Poller refreshes a wallet's stats on an interval. At most one fetch is in
// flight at a time; a tick that finds the previous fetch still running is
// skipped.
type Poller struct {
	fetcher  StatsFetcher
	wallet   string
	interval time.Duration
	onStats  func(pool.Stats)
	logger   *slog.Logger

	busy atomic.Bool
	wg   sync.WaitGroup
}

// NewPoller creates a poller for wallet. onStats receives every successful
// refresh.
func NewPoller(fetcher StatsFetcher, wallet string, interval time.Duration, onStats func(pool.Stats), logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	if onStats == nil {
		onStats = func(pool.Stats) {}
	}
	return &Poller{
		fetcher:  fetcher,
		wallet:   wallet,
		interval: interval,
		onStats:  onStats,
		logger:   logger,
	}
}

// Poll performs one fetch unless another is in flight, in which case it
// returns ok=false without contacting the pool.
func (p *Poller) Poll(ctx context.Context) (stats pool.Stats, ok bool, err error) {
	if !p.busy.CompareAndSwap(false, true) {
		p.logger.Debug("fetch still in flight, skipping refresh")
		return pool.Stats{}, false, nil
	}
	defer p.busy.Store(false)

	stats, err = p.fetcher.GetStats(ctx, p.wallet)
	if err != nil {
		return pool.Stats{}, true, err
	}
	p.onStats(stats)
	return stats, true, nil
}

// Run fetches immediately and then on every tick until ctx is cancelled or
// a fetch fails. The first fetch error stops polling and is returned.
func (p *Poller) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	defer p.wg.Wait()

	p.launch(ctx, errCh)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			return err
		case <-ticker.C:
			p.launch(ctx, errCh)
		}
	}
}

func (p *Poller) launch(ctx context.Context, errCh chan<- error) {
	if p.busy.Load() {
		p.logger.Debug("fetch still in flight, skipping refresh")
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if _, _, err := p.Poll(ctx); err != nil {
			// Shutting down; the failure is the cancellation itself.
			if ctx.Err() != nil {
				return
			}
			p.logger.Error("refresh failed, polling stopped", "wallet", shortWallet(p.wallet), "error", err)
			select {
			case errCh <- err:
			default:
			}
		}
	}()
}
