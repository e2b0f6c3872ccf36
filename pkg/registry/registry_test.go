package registry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powerhive/poolwatch/pkg/pool"
	"github.com/powerhive/poolwatch/pkg/supportxmr"
)

const testWallet = "44AFFq5kSiGBoZ4NMDwYtN18obc8AemS33DBLWs3H7otXft3XjrpDtQGv7SqSsaBYBb98uNbr2VBBEt7f2wfn3RVGQBEP3A"

// fakeAdapter counts fetches and returns canned results.
type fakeAdapter struct {
	name  string
	stats pool.Stats
	err   error
	calls int32
}

func (f *fakeAdapter) FetchStats(context.Context, string) (pool.Stats, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.stats, f.err
}

func (f *fakeAdapter) ValidateAddress(w string) bool { return pool.ValidMoneroAddress(w) }
func (f *fakeAdapter) Name() string                  { return f.name }
func (f *fakeAdapter) WebsiteURL() string            { return "https://" + f.name + ".example" }

// fakeStore is an in-memory SelectionStore with injectable failures.
type fakeStore struct {
	values map[string]string
	getErr error
	setErr error
	sets   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: make(map[string]string)}
}

func (s *fakeStore) Get(_ context.Context, key string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	return s.values[key], nil
}

func (s *fakeStore) Set(_ context.Context, key, value string) error {
	s.sets++
	if s.setErr != nil {
		return s.setErr
	}
	s.values[key] = value
	return nil
}

func newRegistry(t *testing.T, store SelectionStore, ids ...string) (*Registry, map[string]*fakeAdapter) {
	t.Helper()
	r := New(store, nil)
	adapters := make(map[string]*fakeAdapter)
	for _, id := range ids {
		a := &fakeAdapter{name: id}
		require.NoError(t, r.Register(id, a))
		adapters[id] = a
	}
	return r, adapters
}

func TestRegistry_Register(t *testing.T) {
	t.Run("ListsInRegistrationOrder", func(t *testing.T) {
		r, _ := newRegistry(t, nil, "supportxmr", "nanopool", "moneroocean", "xmrpool-eu")

		var ids []string
		for _, d := range r.ListAvailable() {
			ids = append(ids, d.ID)
		}
		assert.Equal(t, []string{"supportxmr", "nanopool", "moneroocean", "xmrpool-eu"}, ids)

		first := r.ListAvailable()[0]
		assert.Equal(t, pool.Descriptor{ID: "supportxmr", Name: "supportxmr", WebsiteURL: "https://supportxmr.example"}, first)
	})

	t.Run("DuplicateKeepsOriginal", func(t *testing.T) {
		r, adapters := newRegistry(t, nil, "a", "b")

		err := r.Register("a", &fakeAdapter{name: "impostor"})
		require.Error(t, err)
		assert.ErrorIs(t, err, pool.ErrDuplicateOrInvalid)

		bound, ok := r.Adapter("a")
		require.True(t, ok)
		assert.Same(t, adapters["a"], bound)
		assert.Len(t, r.ListAvailable(), 2)
	})

	t.Run("RejectsInvalid", func(t *testing.T) {
		r := New(nil, nil)
		assert.ErrorIs(t, r.Register("", &fakeAdapter{}), pool.ErrDuplicateOrInvalid)
		assert.ErrorIs(t, r.Register("x", nil), pool.ErrDuplicateOrInvalid)
		assert.Empty(t, r.ListAvailable())
		assert.False(t, r.Ready())
	})

	t.Run("FirstRegistrationBootstrapsSelection", func(t *testing.T) {
		store := newFakeStore()
		r := New(store, nil)
		assert.False(t, r.Ready())

		require.NoError(t, r.Register("a", &fakeAdapter{name: "a"}))
		require.NoError(t, r.Register("b", &fakeAdapter{name: "b"}))

		assert.True(t, r.Ready())
		active, ok := r.Active()
		require.True(t, ok)
		assert.Equal(t, "a", active.ID)
		assert.Equal(t, 0, store.sets, "bootstrap selection is not persisted")
	})
}

func TestRegistry_Initialize(t *testing.T) {
	ctx := context.Background()

	t.Run("FallsBackToDefault", func(t *testing.T) {
		store := newFakeStore()
		r, _ := newRegistry(t, store, "poolB", "poolA")

		require.NoError(t, r.Initialize(ctx, "poolA"))

		active, _ := r.Active()
		assert.Equal(t, "poolA", active.ID)
		assert.Equal(t, "poolA", store.values[SelectedPoolKey])
	})

	t.Run("RestoresPersistedSelection", func(t *testing.T) {
		store := newFakeStore()
		store.values[SelectedPoolKey] = "poolB"
		r, _ := newRegistry(t, store, "poolA", "poolB")

		require.NoError(t, r.Initialize(ctx, "poolA"))

		active, _ := r.Active()
		assert.Equal(t, "poolB", active.ID)
		assert.Equal(t, "poolB", store.values[SelectedPoolKey])
	})

	t.Run("IgnoresStaleSelection", func(t *testing.T) {
		store := newFakeStore()
		store.values[SelectedPoolKey] = "retired-pool"
		r, _ := newRegistry(t, store, "poolA")

		require.NoError(t, r.Initialize(ctx, "poolA"))

		active, _ := r.Active()
		assert.Equal(t, "poolA", active.ID)
		assert.Equal(t, "poolA", store.values[SelectedPoolKey])
	})

	t.Run("UnknownDefault", func(t *testing.T) {
		store := newFakeStore()
		r, _ := newRegistry(t, store, "poolA", "poolB")
		require.NoError(t, r.SetActive(ctx, "poolB"))
		store.values[SelectedPoolKey] = "gone"

		err := r.Initialize(ctx, "missing")
		require.Error(t, err)
		assert.ErrorIs(t, err, pool.ErrUnknownPool)

		active, _ := r.Active()
		assert.Equal(t, "poolB", active.ID, "failed initialize leaves selection unchanged")
		assert.Equal(t, "gone", store.values[SelectedPoolKey])
	})

	t.Run("StoreFailuresAreNotFatal", func(t *testing.T) {
		store := newFakeStore()
		store.getErr = errors.New("disk on fire")
		store.setErr = errors.New("disk on fire")
		r, _ := newRegistry(t, store, "poolA", "poolB")

		require.NoError(t, r.Initialize(ctx, "poolB"))
		active, _ := r.Active()
		assert.Equal(t, "poolB", active.ID)
		assert.Equal(t, 1, store.sets)
	})

	t.Run("WithoutStore", func(t *testing.T) {
		r, _ := newRegistry(t, nil, "poolA")
		require.NoError(t, r.Initialize(ctx, "poolA"))
		assert.True(t, r.Ready())
	})
}

func TestRegistry_SetActive(t *testing.T) {
	ctx := context.Background()

	t.Run("PersistsSelection", func(t *testing.T) {
		store := newFakeStore()
		r, _ := newRegistry(t, store, "a", "b")

		require.NoError(t, r.SetActive(ctx, "b"))

		active, _ := r.Active()
		assert.Equal(t, "b", active.ID)
		assert.Equal(t, "b", store.values[SelectedPoolKey])
	})

	t.Run("UnknownLeavesPointer", func(t *testing.T) {
		store := newFakeStore()
		r, _ := newRegistry(t, store, "a", "b")
		require.NoError(t, r.SetActive(ctx, "b"))

		err := r.SetActive(ctx, "c")
		require.Error(t, err)
		assert.ErrorIs(t, err, pool.ErrUnknownPool)

		active, _ := r.Active()
		assert.Equal(t, "b", active.ID)
		assert.Equal(t, "b", store.values[SelectedPoolKey])
	})
}

func TestRegistry_GetStats(t *testing.T) {
	ctx := context.Background()

	t.Run("NoActivePool", func(t *testing.T) {
		r := New(nil, nil)

		_, err := r.GetStats(ctx, testWallet)
		assert.ErrorIs(t, err, pool.ErrNoActivePool)
	})

	t.Run("DelegatesToActive", func(t *testing.T) {
		r, adapters := newRegistry(t, nil, "a", "b")
		adapters["b"].stats = pool.Stats{Hashrate: 42}
		require.NoError(t, r.SetActive(ctx, "b"))

		stats, err := r.GetStats(ctx, testWallet)
		require.NoError(t, err)
		assert.Equal(t, float64(42), stats.Hashrate)
		assert.Equal(t, int32(0), atomic.LoadInt32(&adapters["a"].calls))
		assert.Equal(t, int32(1), atomic.LoadInt32(&adapters["b"].calls))
	})

	t.Run("InvalidAddressSkipsFetch", func(t *testing.T) {
		r, adapters := newRegistry(t, nil, "a")

		_, err := r.GetStats(ctx, "4not-a-wallet")
		require.Error(t, err)
		assert.ErrorIs(t, err, pool.ErrInvalidAddress)
		assert.Equal(t, int32(0), atomic.LoadInt32(&adapters["a"].calls))
	})

	t.Run("PropagatesUnavailable", func(t *testing.T) {
		r, adapters := newRegistry(t, nil, "a")
		cause := pool.Unavailable("a", "/stats", 503, "maintenance", nil)
		adapters["a"].err = cause

		_, err := r.GetStats(ctx, testWallet)
		assert.Same(t, cause, err)
	})
}

func TestRegistry_GetStatsOverHTTP(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	r := New(newFakeStore(), nil)
	require.NoError(t, r.Register("supportxmr", supportxmr.NewClient(pool.WithBaseURL(srv.URL))))
	require.NoError(t, r.Initialize(context.Background(), "supportxmr"))

	t.Run("NotFoundWalletIsZeroRecord", func(t *testing.T) {
		stats, err := r.GetStats(context.Background(), testWallet)
		require.NoError(t, err)
		assert.Equal(t, pool.Stats{}, stats)
		assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
	})

	t.Run("InvalidAddressMakesNoRequest", func(t *testing.T) {
		before := atomic.LoadInt32(&requests)

		_, err := r.GetStats(context.Background(), testWallet[:94])
		assert.ErrorIs(t, err, pool.ErrInvalidAddress)
		assert.Equal(t, before, atomic.LoadInt32(&requests))
	})
}
