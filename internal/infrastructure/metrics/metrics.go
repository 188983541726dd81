package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "billsplit"

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Sheet metrics
	SheetMutations *prometheus.CounterVec

	// Settlement metrics
	Settlements         *prometheus.CounterVec
	SettlementTransfers *prometheus.HistogramVec
	SettlementDuration  *prometheus.HistogramVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Idempotency metrics
	IdempotencyReplays prometheus.Counter

	// Rate limiting metrics
	RateLimitHits prometheus.Counter

	registerer prometheus.Registerer
}

// New creates all metrics and registers them with reg. A nil reg uses the
// default Prometheus registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		SheetMutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sheet_mutations_total",
				Help:      "Total sheet mutations by operation",
			},
			[]string{"operation"},
		),

		Settlements: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "settlements_total",
				Help:      "Total settlement computations by strategy and outcome",
			},
			[]string{"strategy", "status"},
		),
		SettlementTransfers: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "settlement_transfers",
				Help:      "Number of transfers in a settled plan",
				Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21, 34},
			},
			[]string{"strategy"},
		),
		SettlementDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "settlement_duration_seconds",
				Help:      "Duration of settlement computations",
				Buckets:   []float64{.00001, .0001, .001, .01, .1, 1},
			},
			[]string{"strategy"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		}),

		IdempotencyReplays: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "idempotency_replays_total",
			Help:      "Total responses replayed for a repeated idempotency key",
		}),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_hits_total",
			Help:      "Total requests rejected by the rate limiter",
		}),

		registerer: reg,
	}
}

// RecordMutation implements usecase.MetricsRecorder.
func (m *Metrics) RecordMutation(operation string) {
	m.SheetMutations.WithLabelValues(operation).Inc()
}

// RecordSettlement implements usecase.MetricsRecorder.
func (m *Metrics) RecordSettlement(strategy, status string, transfers int, duration time.Duration) {
	m.Settlements.WithLabelValues(strategy, status).Inc()
	m.SettlementDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	if status == "settled" {
		m.SettlementTransfers.WithLabelValues(strategy).Observe(float64(transfers))
	}
}

// TrackSheets exposes the current number of stored sheets as a gauge.
func (m *Metrics) TrackSheets(count func() int) error {
	return m.registerer.Register(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sheets",
			Help:      "Number of sheets currently stored",
		},
		func() float64 { return float64(count()) },
	))
}
