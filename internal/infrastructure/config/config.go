package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/shopspring/decimal"

	"github.com/iho/billsplit/internal/settlement"
)

// Config holds all application configuration.
type Config struct {
	// Redis (optional - leave empty to disable idempotency keys)
	RedisURL            string        `env:"REDIS_URL"             envDefault:""`
	RedisConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"10s"`

	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Idempotency
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`

	// Settlement
	SettlementStrategy settlement.Strategy `env:"SETTLEMENT_STRATEGY" envDefault:"pairwise"`
	BalanceTolerance   decimal.Decimal     `env:"BALANCE_TOLERANCE"   envDefault:"0.01"`

	// Rate limiting (0 disables)
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"0"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// Metrics
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that the env parser cannot.
func (c *Config) Validate() error {
	if c.BalanceTolerance.IsNegative() {
		return fmt.Errorf("BALANCE_TOLERANCE must not be negative, got %s", c.BalanceTolerance)
	}
	if c.RateLimitRPS < 0 {
		return errors.New("RATE_LIMIT_RPS must not be negative")
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_BURST must be positive when rate limiting is enabled")
	}
	if c.IdempotencyTTL <= 0 {
		return errors.New("IDEMPOTENCY_TTL must be positive")
	}
	return nil
}

// SettlementOptions returns the engine options described by the config.
func (c *Config) SettlementOptions() []settlement.Option {
	return []settlement.Option{
		settlement.WithStrategy(c.SettlementStrategy),
		settlement.WithTolerance(c.BalanceTolerance),
	}
}
