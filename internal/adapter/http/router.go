package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/billsplit/internal/adapter/http/handler"
	"github.com/iho/billsplit/internal/adapter/http/middleware"
	"github.com/iho/billsplit/internal/infrastructure/metrics"
	"github.com/iho/billsplit/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	SheetHandler       *handler.SheetHandler
	ParticipantHandler *handler.ParticipantHandler
	SettlementHandler  *handler.SettlementHandler
	HealthHandler      *handler.HealthHandler

	// IdempotencyStore enables Idempotency-Key handling when set.
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration

	// Metrics enables request instrumentation and the /metrics endpoint.
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	RateLimiter *middleware.RateLimiter
	Logger      zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	if cfg.Metrics != nil {
		gatherer := cfg.Gatherer
		if gatherer == nil {
			gatherer = prometheus.DefaultGatherer
		}
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			var replays prometheus.Counter
			if cfg.Metrics != nil {
				replays = cfg.Metrics.IdempotencyReplays
			}
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, replays, cfg.Logger)
			r.Use(idempotencyMiddleware.Wrap)
		}

		r.Route("/sheets", func(r chi.Router) {
			r.Post("/", cfg.SheetHandler.Create)
			r.Get("/", cfg.SheetHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", cfg.SheetHandler.Get)
				r.Delete("/", cfg.SheetHandler.Delete)
				r.Get("/balances", cfg.SettlementHandler.Balances)
				r.Get("/settlement", cfg.SettlementHandler.Settlement)

				r.Post("/participants", cfg.ParticipantHandler.Add)
				r.Route("/participants/{pid}", func(r chi.Router) {
					r.Delete("/", cfg.ParticipantHandler.Remove)
					r.Post("/items", cfg.ParticipantHandler.AddExpense)
					r.Delete("/items/{index}", cfg.ParticipantHandler.RemoveExpense)
					r.Post("/payments", cfg.ParticipantHandler.AddPayment)
					r.Delete("/payments/{index}", cfg.ParticipantHandler.RemovePayment)
				})
			})
		})
	})

	return r
}
