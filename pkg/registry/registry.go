// Package registry owns the set of pool adapters, tracks which one is
// active, persists that choice and funnels stats requests through address
// validation.
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/powerhive/poolwatch/pkg/pool"
)

// SelectedPoolKey is the store key holding the last selected pool id.
const SelectedPoolKey = "selectedPool"

// Logger defines a standard interface for structured, leveled logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SelectionStore is the durable key-value store the registry persists the
// active pool id to. Get returns "" when the key is absent.
type SelectionStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Registry maps pool ids to adapters in registration order.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]pool.Adapter
	order    []string
	active   string
	ready    bool

	store  SelectionStore
	logger Logger
}

// New creates an empty registry backed by store. A nil logger discards
// log output.
func New(store SelectionStore, logger Logger) *Registry {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Registry{
		adapters: make(map[string]pool.Adapter),
		store:    store,
		logger:   logger,
	}
}

// Register binds adapter to id. The first registration becomes the active
// pool when nothing is selected yet; that bootstrap choice is not persisted.
func (r *Registry) Register(id string, adapter pool.Adapter) error {
	if id == "" {
		return fmt.Errorf("%w: empty pool id", pool.ErrDuplicateOrInvalid)
	}
	if adapter == nil {
		return fmt.Errorf("%w: pool %q has no adapter", pool.ErrDuplicateOrInvalid, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.adapters[id]; exists {
		return fmt.Errorf("%w: pool %q already registered", pool.ErrDuplicateOrInvalid, id)
	}

	r.adapters[id] = adapter
	r.order = append(r.order, id)

	if r.active == "" {
		r.active = id
		r.ready = true
	}

	r.logger.Debug("registered pool", "id", id, "name", adapter.Name())
	return nil
}

// Initialize restores the persisted selection if it still names a registered
// pool, falling back to defaultID. The resolved id is persisted.
func (r *Registry) Initialize(ctx context.Context, defaultID string) error {
	saved := r.loadSelection(ctx)

	r.mu.Lock()
	resolved := defaultID
	if _, ok := r.adapters[saved]; saved != "" && ok {
		resolved = saved
	}
	if _, ok := r.adapters[resolved]; !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %q", pool.ErrUnknownPool, resolved)
	}
	r.active = resolved
	r.ready = true
	r.mu.Unlock()

	r.logger.Info("pool selection initialized", "pool", resolved, "restored", resolved == saved)
	r.saveSelection(ctx, resolved)
	return nil
}

// SetActive selects the pool registered under id and persists the choice.
// An unknown id leaves the current selection unchanged.
func (r *Registry) SetActive(ctx context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.adapters[id]; !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %q", pool.ErrUnknownPool, id)
	}
	r.active = id
	r.ready = true
	r.mu.Unlock()

	r.logger.Info("active pool changed", "pool", id)
	r.saveSelection(ctx, id)
	return nil
}

// ListAvailable returns all registered pools in registration order.
func (r *Registry) ListAvailable() []pool.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descriptors := make([]pool.Descriptor, 0, len(r.order))
	for _, id := range r.order {
		descriptors = append(descriptors, pool.Describe(id, r.adapters[id]))
	}
	return descriptors
}

// Active returns the descriptor of the active pool.
func (r *Registry) Active() (pool.Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, ok := r.adapters[r.active]
	if !ok {
		return pool.Descriptor{}, false
	}
	return pool.Describe(r.active, adapter), true
}

// Adapter returns the adapter registered under id.
func (r *Registry) Adapter(id string) (pool.Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, ok := r.adapters[id]
	return adapter, ok
}

// Ready reports whether a pool has been selected, either explicitly or by
// the first registration.
func (r *Registry) Ready() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ready
}

// GetStats validates wallet against the active pool and fetches its stats.
// Validation failures return before any network request is made; adapter
// errors are returned unchanged.
func (r *Registry) GetStats(ctx context.Context, wallet string) (pool.Stats, error) {
	r.mu.RLock()
	id := r.active
	adapter, ok := r.adapters[id]
	r.mu.RUnlock()

	if !ok {
		return pool.Stats{}, pool.ErrNoActivePool
	}

	if !adapter.ValidateAddress(wallet) {
		return pool.Stats{}, fmt.Errorf("%w for %s", pool.ErrInvalidAddress, adapter.Name())
	}

	return adapter.FetchStats(ctx, wallet)
}

func (r *Registry) loadSelection(ctx context.Context) string {
	if r.store == nil {
		return ""
	}
	saved, err := r.store.Get(ctx, SelectedPoolKey)
	if err != nil {
		r.logger.Warn("failed to load saved pool selection", "error", err)
		return ""
	}
	return saved
}

func (r *Registry) saveSelection(ctx context.Context, id string) {
	if r.store == nil {
		return
	}
	if err := r.store.Set(ctx, SelectedPoolKey, id); err != nil {
		r.logger.Warn("failed to persist pool selection", "pool", id, "error", err)
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
