package moneroocean

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powerhive/poolwatch/pkg/pool"
)

const testWallet = "44AFFq5kSiGBoZ4NMDwYtN18obc8AemS33DBLWs3H7otXft3XjrpDtQGv7SqSsaBYBb98uNbr2VBBEt7f2wfn3RVGQBEP3A"

type endpoint struct {
	status int
	body   string
}

// newTestServer serves the two MoneroOcean endpoints for testWallet.
func newTestServer(t *testing.T, stats, payments endpoint) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ep endpoint
		switch r.URL.Path {
		case "/miner/" + testWallet + "/stats/allWorkers":
			ep = stats
		case "/miner/" + testWallet + "/payments":
			ep = payments
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.WriteHeader(ep.status)
		w.Write([]byte(ep.body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FetchStats(t *testing.T) {
	ctx := context.Background()
	okStats := endpoint{http.StatusOK, `{"due": 4500000000, "hash": 812.25, "validShares": 10, "invalidShares": 1, "hashes": 123456}`}

	t.Run("MergesStatsAndPayments", func(t *testing.T) {
		srv := newTestServer(t, okStats, endpoint{http.StatusOK, `[
			{"amount": 3000000000, "txnHash": "a"},
			{"amount": "1500000000", "txnHash": "b"},
			{"txnHash": "c"}
		]`})

		stats, err := NewClient(pool.WithBaseURL(srv.URL)).FetchStats(ctx, testWallet)
		require.NoError(t, err)
		assert.Equal(t, pool.Stats{
			AmountPaid:    4500000000,
			AmountDue:     4500000000,
			Hashrate:      812.25,
			ValidShares:   10,
			InvalidShares: 1,
			TotalHashes:   123456,
		}, stats)
	})

	t.Run("NoPayments", func(t *testing.T) {
		for _, body := range []string{`[]`, `null`} {
			srv := newTestServer(t, okStats, endpoint{http.StatusOK, body})

			stats, err := NewClient(pool.WithBaseURL(srv.URL)).FetchStats(ctx, testWallet)
			require.NoError(t, err, body)
			assert.Equal(t, uint64(0), stats.AmountPaid)
			assert.Equal(t, uint64(4500000000), stats.AmountDue)
		}
	})

	t.Run("NotFoundOnEither", func(t *testing.T) {
		cases := []struct {
			stats, payments endpoint
		}{
			{endpoint{http.StatusNotFound, ``}, endpoint{http.StatusOK, `[]`}},
			{okStats, endpoint{http.StatusNotFound, ``}},
			{endpoint{http.StatusNotFound, ``}, endpoint{http.StatusInternalServerError, ``}},
		}
		for _, tc := range cases {
			srv := newTestServer(t, tc.stats, tc.payments)

			stats, err := NewClient(pool.WithBaseURL(srv.URL)).FetchStats(ctx, testWallet)
			require.NoError(t, err)
			assert.True(t, stats.IsZero())
		}
	})

	t.Run("ServerErrorOnEither", func(t *testing.T) {
		srv := newTestServer(t, okStats, endpoint{http.StatusServiceUnavailable, `maintenance`})

		_, err := NewClient(pool.WithBaseURL(srv.URL)).FetchStats(ctx, testWallet)
		require.Error(t, err)
		assert.ErrorIs(t, err, pool.ErrPoolUnavailable)
		assert.Contains(t, err.Error(), "payments")
	})

	t.Run("MalformedPayloads", func(t *testing.T) {
		cases := []struct {
			stats, payments endpoint
		}{
			{endpoint{http.StatusOK, `nope`}, endpoint{http.StatusOK, `[]`}},
			{endpoint{http.StatusOK, `null`}, endpoint{http.StatusOK, `[]`}},
			{okStats, endpoint{http.StatusOK, `{"amount": 1}`}},
		}
		for _, tc := range cases {
			srv := newTestServer(t, tc.stats, tc.payments)

			_, err := NewClient(pool.WithBaseURL(srv.URL)).FetchStats(ctx, testWallet)
			assert.ErrorIs(t, err, pool.ErrPoolUnavailable)
		}
	})

	t.Run("TransportFailure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		_, err := NewClient(pool.WithBaseURL(srv.URL)).FetchStats(ctx, testWallet)
		assert.ErrorIs(t, err, pool.ErrPoolUnavailable)
	})
}

func TestClient_FetchStatsIssuesRequestsConcurrently(t *testing.T) {
	var mu sync.Mutex
	arrived := 0
	both := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		arrived++
		if arrived == 2 {
			close(both)
		}
		mu.Unlock()

		// Each handler waits for the other request to arrive.
		select {
		case <-both:
		case <-time.After(2 * time.Second):
			t.Error("requests were not issued concurrently")
		}

		if strings.HasSuffix(r.URL.Path, "/payments") {
			w.Write([]byte(`[{"amount": 1}]`))
			return
		}
		w.Write([]byte(`{"due": 2}`))
	}))
	defer srv.Close()

	stats, err := NewClient(pool.WithBaseURL(srv.URL)).FetchStats(context.Background(), testWallet)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.AmountPaid)
	assert.Equal(t, uint64(2), stats.AmountDue)
}

func TestClient_Descriptor(t *testing.T) {
	c := NewClient()
	assert.Equal(t, "MoneroOcean", c.Name())
	assert.Equal(t, "https://moneroocean.stream", c.WebsiteURL())
	assert.False(t, c.ValidateAddress(""))
}
