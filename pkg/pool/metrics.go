package pool

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records per-pool fetch outcomes and latency.
type Metrics struct {
	fetchTotal    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
}

// Fetch outcome label values.
const (
	OutcomeOK          = "ok"
	OutcomeEmpty       = "empty"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

// NewMetrics creates the pool metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		return nil, errors.New("metrics: registerer cannot be nil")
	}

	m := &Metrics{
		fetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "poolwatch",
			Name:      "pool_fetch_total",
			Help:      "Stats fetches by pool and outcome.",
		}, []string{"pool", "outcome"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "poolwatch",
			Name:      "pool_fetch_duration_seconds",
			Help:      "Stats fetch latency by pool.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"pool"}),
	}

	for _, c := range []prometheus.Collector{m.fetchTotal, m.fetchDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Instrument wraps a so every FetchStats call is counted and timed under id.
func (m *Metrics) Instrument(id string, a Adapter) Adapter {
	if m == nil || a == nil {
		return a
	}
	return &instrumented{Adapter: a, id: id, metrics: m}
}

// Observe records one fetch result.
func (m *Metrics) Observe(id string, stats Stats, err error, elapsed time.Duration) {
	m.fetchDuration.WithLabelValues(id).Observe(elapsed.Seconds())
	m.fetchTotal.WithLabelValues(id, outcome(stats, err)).Inc()
}

func outcome(stats Stats, err error) string {
	switch {
	case err == nil && stats.IsZero():
		return OutcomeEmpty
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrPoolUnavailable):
		return OutcomeUnavailable
	default:
		return OutcomeError
	}
}

type instrumented struct {
	Adapter
	id      string
	metrics *Metrics
}

func (i *instrumented) FetchStats(ctx context.Context, wallet string) (Stats, error) {
	start := time.Now()
	stats, err := i.Adapter.FetchStats(ctx, wallet)
	i.metrics.Observe(i.id, stats, err, time.Since(start))
	return stats, err
}
