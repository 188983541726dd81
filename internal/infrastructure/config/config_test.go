package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/billsplit/internal/infrastructure/config"
	"github.com/iho/billsplit/internal/settlement"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REDIS_URL", "")
	t.Setenv("SETTLEMENT_STRATEGY", "")
	t.Setenv("BALANCE_TOLERANCE", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.RedisURL != "" {
		t.Fatalf("expected redis to be disabled by default, got %q", cfg.RedisURL)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.SettlementStrategy != settlement.StrategyPairwise {
		t.Fatalf("expected pairwise strategy, got %s", cfg.SettlementStrategy)
	}

	if !cfg.BalanceTolerance.Equal(decimal.RequireFromString("0.01")) {
		t.Fatalf("expected tolerance 0.01, got %s", cfg.BalanceTolerance)
	}

	if !cfg.MetricsEnabled || cfg.RateLimitRPS != 0 {
		t.Fatalf("unexpected defaults: metrics=%v rps=%v", cfg.MetricsEnabled, cfg.RateLimitRPS)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REDIS_CONNECT_TIMEOUT", "45s")
	t.Setenv("SETTLEMENT_STRATEGY", "Largest-First")
	t.Setenv("BALANCE_TOLERANCE", "0.05")
	t.Setenv("RATE_LIMIT_RPS", "12.5")
	t.Setenv("RATE_LIMIT_BURST", "30")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.RedisConnectTimeout != 45*time.Second {
		t.Fatalf("expected redis timeout override, got %s", cfg.RedisConnectTimeout)
	}

	if cfg.SettlementStrategy != settlement.StrategyLargestFirst {
		t.Fatalf("expected largest-first, got %s", cfg.SettlementStrategy)
	}

	if cfg.RateLimitRPS != 12.5 || cfg.RateLimitBurst != 30 {
		t.Fatalf("expected rate limit overrides, got rps=%v burst=%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	engine := settlement.New(cfg.SettlementOptions()...)
	if engine.Strategy() != settlement.StrategyLargestFirst {
		t.Fatalf("expected engine strategy largest-first, got %s", engine.Strategy())
	}
	if !engine.Tolerance().Equal(decimal.RequireFromString("0.05")) {
		t.Fatalf("expected engine tolerance 0.05, got %s", engine.Tolerance())
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"invalid duration", "HTTP_READ_TIMEOUT", "not-a-duration"},
		{"unknown strategy", "SETTLEMENT_STRATEGY", "cheapest"},
		{"invalid tolerance", "BALANCE_TOLERANCE", "abc"},
		{"negative tolerance", "BALANCE_TOLERANCE", "-0.01"},
		{"negative rps", "RATE_LIMIT_RPS", "-1"},
		{"zero idempotency ttl", "IDEMPOTENCY_TTL", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			if _, err := config.Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoadIgnoresUnrelatedEnv(t *testing.T) {
	original := os.Getenv("DATABASE_URL")
	t.Setenv("DATABASE_URL", "postgres://ignored")
	t.Cleanup(func() {
		t.Setenv("DATABASE_URL", original)
	})

	if _, err := config.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
