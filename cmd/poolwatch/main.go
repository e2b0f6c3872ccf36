// poolwatch is a terminal dashboard for Monero mining pools. It fetches a
// wallet's paid and pending balance, hashrate and share counts from the
// selected pool and can keep refreshing them on an interval.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/powerhive/poolwatch/pkg/pool"
	"github.com/powerhive/poolwatch/pkg/registry"
	"github.com/powerhive/poolwatch/pkg/store"
)

// walletKey is the store key holding the last wallet address used.
const walletKey = "wallet"

const usage = `poolwatch - Monero mining pool dashboard

Usage:
  poolwatch <command> [arguments]

Commands:
  pools                List supported pools (* marks the active one)

  use <pool>           Select and remember the active pool
                       Example: poolwatch use moneroocean

  wallet <address>     Remember the wallet address to watch

  stats [address]      Fetch stats once from the active pool

  watch [address]      Refresh stats every POLL_INTERVAL until Ctrl+C or an error

  compare [address]    Fetch stats from every pool concurrently

The address defaults to the one saved with "wallet".

Environment Variables:
  POOLWATCH_CONFIG     YAML config file (default: poolwatch.yaml if present)
  POOLWATCH_STORE      Settings store: sqlite, redis or memory (default: sqlite)
  POOLWATCH_DB         SQLite database path (default: poolwatch.db)
  REDIS_ADDR           Redis address (default: localhost:6379)
  REDIS_PASSWORD       Redis password
  REDIS_DB             Redis database number (default: 0)
  DEFAULT_POOL         Pool used when none is saved (default: supportxmr)
  POLL_INTERVAL        Refresh interval for watch (default: 30s)
  HTTP_TIMEOUT         Per-request timeout (default: 30s)
  METRICS_ADDR         Serve Prometheus metrics on this address (e.g. :9090)
  LOG_LEVEL            debug, info, warn or error (default: info)
  LOG_FORMAT           text or json (default: text)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		fmt.Print(usage)
		return
	}

	// Load configuration
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	promRegistry := prometheus.NewRegistry()
	a, err := newApp(ctx, cfg, logger, os.Stdout, promRegistry)
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if cfg.MetricsAddr != "" {
		go func() {
			if err := serveMetrics(ctx, cfg.MetricsAddr, promRegistry, logger); err != nil {
				logger.Error("metrics listener failed", "error", err)
			}
		}()
	}

	if err := a.run(ctx, cmd, os.Args[2:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
			fmt.Print(usage)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		a.Close()
		os.Exit(1)
	}
}

// errUsage marks errors caused by a malformed command line.
var errUsage = errors.New("invalid usage")

// app wires the settings store, the pool registry and the terminal output.
type app struct {
	cfg      *Config
	logger   *slog.Logger
	out      io.Writer
	store    store.Store
	registry *registry.Registry
	closed   bool
}

// newApp opens the configured store, registers every pool and restores the
// saved pool selection. A nil promRegistry disables fetch metrics.
func newApp(ctx context.Context, cfg *Config, logger *slog.Logger, out io.Writer, promRegistry prometheus.Registerer) (*app, error) {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var metrics *pool.Metrics
	if promRegistry != nil {
		metrics, err = pool.NewMetrics(promRegistry)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	reg := registry.New(st, logger)
	if err := registerPools(reg, cfg, metrics); err != nil {
		st.Close()
		return nil, err
	}
	if err := reg.Initialize(ctx, cfg.DefaultPool); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to initialize pool selection: %w", err)
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		out:      out,
		store:    st,
		registry: reg,
	}, nil
}

// openStore opens the settings store named by cfg.Store.
func openStore(ctx context.Context, cfg *Config) (store.Store, error) {
	switch cfg.Store {
	case storeMemory:
		return store.NewMemoryStore(), nil
	case storeRedis:
		rs := store.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := rs.Ping(ctx); err != nil {
			rs.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		return rs, nil
	default:
		s, err := store.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return s, nil
	}
}

// Close releases the settings store.
func (a *app) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	return a.store.Close()
}

// run dispatches one CLI command.
func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "pools":
		return a.cmdPools()
	case "use":
		return a.cmdUse(ctx, args)
	case "wallet":
		return a.cmdWallet(ctx, args)
	case "stats":
		return a.cmdStats(ctx, args)
	case "watch":
		return a.cmdWatch(ctx, args)
	case "compare":
		return a.cmdCompare(ctx, args)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func (a *app) cmdPools() error {
	active, _ := a.registry.Active()
	renderPools(a.out, a.registry.ListAvailable(), active.ID)
	return nil
}

func (a *app) cmdUse(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: use <pool>", errUsage)
	}
	if err := a.registry.SetActive(ctx, args[0]); err != nil {
		return err
	}
	active, _ := a.registry.Active()
	fmt.Fprintf(a.out, "Active pool: %s (%s)\n", active.Name, active.WebsiteURL)
	return nil
}

func (a *app) cmdWallet(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: wallet <address>", errUsage)
	}
	wallet := strings.TrimSpace(args[0])

	active, _ := a.registry.Active()
	if adapter, ok := a.registry.Adapter(active.ID); ok && !adapter.ValidateAddress(wallet) {
		return fmt.Errorf("%w for %s", pool.ErrInvalidAddress, adapter.Name())
	}

	if err := a.store.Set(ctx, walletKey, wallet); err != nil {
		return fmt.Errorf("failed to save wallet: %w", err)
	}
	fmt.Fprintf(a.out, "Wallet saved: %s\n", shortWallet(wallet))
	return nil
}

func (a *app) cmdStats(ctx context.Context, args []string) error {
	wallet, err := a.resolveWallet(ctx, args)
	if err != nil {
		return err
	}

	stats, err := a.registry.GetStats(ctx, wallet)
	if err != nil {
		return err
	}
	active, _ := a.registry.Active()
	renderStats(a.out, active, wallet, stats, time.Now())
	return nil
}

func (a *app) cmdWatch(ctx context.Context, args []string) error {
	wallet, err := a.resolveWallet(ctx, args)
	if err != nil {
		return err
	}

	active, _ := a.registry.Active()
	a.logger.Info("watching wallet", "pool", active.ID, "wallet", shortWallet(wallet), "interval", a.cfg.PollInterval)

	poller := NewPoller(a.registry, wallet, a.cfg.PollInterval, func(stats pool.Stats) {
		current, _ := a.registry.Active()
		renderStats(a.out, current, wallet, stats, time.Now())
	}, a.logger)

	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// comparison is one pool's result in a compare run.
type comparison struct {
	pool  pool.Descriptor
	stats pool.Stats
	err   error
}

func (a *app) cmdCompare(ctx context.Context, args []string) error {
	wallet, err := a.resolveWallet(ctx, args)
	if err != nil {
		return err
	}

	pools := a.registry.ListAvailable()
	results := make([]comparison, len(pools))

	// Failures are recorded per pool and never returned, so one pool being
	// down does not cancel the others.
	var g errgroup.Group
	for i, p := range pools {
		i, p := i, p
		g.Go(func() error {
			results[i] = a.fetchFrom(ctx, p, wallet)
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		if r.err != nil {
			fmt.Fprintf(a.out, "%-12s error: %v\n", r.pool.ID, r.err)
			continue
		}
		fmt.Fprintf(a.out, "%-12s paid %s  pending %s  %s\n",
			r.pool.ID, formatCoins(r.stats.AmountPaid), formatCoins(r.stats.AmountDue), formatShares(r.stats))
	}
	return nil
}

// fetchFrom queries one pool directly, bypassing the active selection.
func (a *app) fetchFrom(ctx context.Context, p pool.Descriptor, wallet string) comparison {
	adapter, ok := a.registry.Adapter(p.ID)
	if !ok {
		return comparison{pool: p, err: fmt.Errorf("%w: %q", pool.ErrUnknownPool, p.ID)}
	}
	if !adapter.ValidateAddress(wallet) {
		return comparison{pool: p, err: fmt.Errorf("%w for %s", pool.ErrInvalidAddress, adapter.Name())}
	}
	stats, err := adapter.FetchStats(ctx, wallet)
	return comparison{pool: p, stats: stats, err: err}
}

// resolveWallet returns the address given on the command line or, failing
// that, the saved one.
func (a *app) resolveWallet(ctx context.Context, args []string) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(args[0]), nil
	}
	wallet, err := a.store.Get(ctx, walletKey)
	if err != nil {
		return "", fmt.Errorf("failed to load saved wallet: %w", err)
	}
	if wallet == "" {
		return "", fmt.Errorf("%w: no wallet address given and none saved (run: poolwatch wallet <address>)", errUsage)
	}
	return wallet, nil
}
