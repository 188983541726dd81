package usecase

import (
	"time"

	"github.com/iho/billsplit/internal/domain"
)

const (
	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultListLimit is the page size used when none is requested.
	DefaultListLimit = domain.DefaultPageSize

	// MaxListLimit caps the page size of sheet listings.
	MaxListLimit = domain.MaxPageSize
)

// Mutation operation names reported to MetricsRecorder.
const (
	OpCreateSheet       = "create_sheet"
	OpDeleteSheet       = "delete_sheet"
	OpAddParticipant    = "add_participant"
	OpRemoveParticipant = "remove_participant"
	OpAddExpense        = "add_expense"
	OpRemoveExpense     = "remove_expense"
	OpAddPayment        = "add_payment"
	OpRemovePayment     = "remove_payment"
)
