package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Options controls how the client connects at startup.
type Options struct {
	URL            string
	ConnectTimeout time.Duration
	InitialBackoff time.Duration
}

// NewClient creates a Redis client and pings it until it answers or
// ConnectTimeout elapses.
func NewClient(ctx context.Context, opts Options, logger zerolog.Logger) (*redis.Client, error) {
	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(redisOpts)

	b := backoff.NewExponentialBackOff()
	if opts.InitialBackoff > 0 {
		b.InitialInterval = opts.InitialBackoff
	}
	b.MaxElapsedTime = opts.ConnectTimeout

	attempt := 0
	err = backoff.Retry(func() error {
		attempt++
		pingErr := client.Ping(ctx).Err()
		if pingErr != nil {
			logger.Warn().
				Err(pingErr).
				Int("attempt", attempt).
				Str("addr", redisOpts.Addr).
				Msg("redis not reachable, retrying")
		}
		return pingErr
	}, backoff.WithContext(b, ctx))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info().Str("addr", redisOpts.Addr).Int("attempts", attempt).Msg("connected to redis")
	return client, nil
}
