package usecase

import (
	"context"
	"time"

	"github.com/iho/billsplit/internal/domain"
)

// SheetRepository defines data access for sheets.
type SheetRepository interface {
	Create(ctx context.Context, sheet *domain.Sheet) error
	GetByID(ctx context.Context, id string) (*domain.Sheet, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Sheet, error)
	// Update applies fn to the stored sheet under the repository's single
	// writer lock. The sheet is saved only if fn returns nil.
	Update(ctx context.Context, id string, fn func(sheet *domain.Sheet) error) (*domain.Sheet, error)
	Delete(ctx context.Context, id string) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// MetricsRecorder records use case metrics.
type MetricsRecorder interface {
	RecordMutation(operation string)
	RecordSettlement(strategy, status string, transfers int, duration time.Duration)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so the request can be retried.
	Release(ctx context.Context, key string) error
}

type noopRecorder struct{}

func (noopRecorder) RecordMutation(string) {}

func (noopRecorder) RecordSettlement(string, string, int, time.Duration) {}
