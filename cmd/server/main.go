package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/billsplit/internal/adapter/http"
	"github.com/iho/billsplit/internal/adapter/http/handler"
	"github.com/iho/billsplit/internal/adapter/http/middleware"
	"github.com/iho/billsplit/internal/adapter/repository/memory"
	redisRepo "github.com/iho/billsplit/internal/adapter/repository/redis"
	"github.com/iho/billsplit/internal/infrastructure/config"
	"github.com/iho/billsplit/internal/infrastructure/logger"
	"github.com/iho/billsplit/internal/infrastructure/metrics"
	"github.com/iho/billsplit/internal/infrastructure/redis"
	"github.com/iho/billsplit/internal/settlement"
	"github.com/iho/billsplit/internal/usecase"
)

// limiterIdleTimeout is how long a client's rate limiter survives without traffic.
const limiterIdleTimeout = 10 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// application is the wired object graph of the server.
type application struct {
	handler     http.Handler
	rateLimiter *middleware.RateLimiter
	redis       *goredis.Client
}

// Close releases external connections.
func (a *application) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

// newApplication wires repositories, use cases and handlers. Metrics are
// registered with reg.
func newApplication(ctx context.Context, cfg *config.Config, log zerolog.Logger, reg *prometheus.Registry) (*application, error) {
	app := &application{}

	var m *metrics.Metrics
	var recorder usecase.MetricsRecorder
	if cfg.MetricsEnabled {
		m = metrics.New(reg)
		recorder = m
	}

	// Redis is optional and only backs idempotency keys.
	var idempotencyStore usecase.IdempotencyStore
	var pinger handler.Pinger
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, redis.Options{
			URL:            cfg.RedisURL,
			ConnectTimeout: cfg.RedisConnectTimeout,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		app.redis = client
		store := redisRepo.NewIdempotencyStore(client)
		idempotencyStore = store
		pinger = store
	} else {
		log.Info().Msg("redis disabled, idempotency keys are ignored")
	}

	// Initialize repositories
	sheetRepo := memory.NewSheetRepository()
	idGen := memory.NewULIDGenerator()
	if m != nil {
		if err := m.TrackSheets(sheetRepo.Count); err != nil {
			return nil, fmt.Errorf("register sheet gauge: %w", err)
		}
	}

	// Initialize use cases
	engine := settlement.New(cfg.SettlementOptions()...)
	sheetUC := usecase.NewSheetUseCase(sheetRepo, idGen, engine, recorder, log)

	if cfg.RateLimitRPS > 0 {
		var rejected prometheus.Counter
		if m != nil {
			rejected = m.RateLimitHits
		}
		app.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, rejected)
	}

	routerCfg := httpAdapter.RouterConfig{
		SheetHandler:       handler.NewSheetHandler(sheetUC),
		ParticipantHandler: handler.NewParticipantHandler(sheetUC),
		SettlementHandler:  handler.NewSettlementHandler(sheetUC),
		HealthHandler:      handler.NewHealthHandler(pinger),
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		Metrics:            m,
		RateLimiter:        app.rateLimiter,
		Logger:             log,
	}
	if reg != nil {
		routerCfg.Gatherer = reg
	}
	app.handler = httpAdapter.NewRouter(routerCfg)

	log.Info().
		Str("strategy", engine.Strategy().String()).
		Str("tolerance", engine.Tolerance().String()).
		Msg("settlement engine configured")

	return app, nil
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app, err := newApplication(ctx, cfg, log, reg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis client")
		}
	}()

	if app.rateLimiter != nil {
		go cleanupLimiters(ctx, app.rateLimiter, log)
	}

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      app.handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

// cleanupLimiters drops idle per-client limiters until ctx is done.
func cleanupLimiters(ctx context.Context, rl *middleware.RateLimiter, log zerolog.Logger) {
	ticker := time.NewTicker(limiterIdleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := rl.CleanupLimiters(limiterIdleTimeout); removed > 0 {
				log.Debug().Int("removed", removed).Int("remaining", rl.Size()).Msg("cleaned up idle rate limiters")
			}
		}
	}
}
