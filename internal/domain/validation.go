package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidParticipantName = errors.New("invalid participant name")
	ErrInvalidExpenseName     = errors.New("invalid expense name")
	ErrInvalidSheetName       = errors.New("invalid sheet name")
	ErrAmountTooLarge         = errors.New("amount exceeds maximum allowed")
)

// Validation constants
const (
	MaxNameLength = 255
	MinNameLength = 1
	MaxAmount     = "1000000000000" // 1 trillion

	// MaxAmountScale is the most decimal places an amount may carry.
	MaxAmountScale = 8
	// maxAmountExponent is the exponent of MaxAmount.
	maxAmountExponent = 12

	// DefaultPageSize is the page size used when none is requested.
	DefaultPageSize = 20
	// MaxPageSize caps the page size of listings.
	MaxPageSize = 100
)

var maxAmount = decimal.RequireFromString(MaxAmount)

// ValidateParticipantName validates a participant display name.
func ValidateParticipantName(name string) error {
	return validateName(name, ErrInvalidParticipantName)
}

// ValidateExpenseName validates an expense label.
func ValidateExpenseName(name string) error {
	return validateName(name, ErrInvalidExpenseName)
}

// ValidateSheetName validates a sheet name.
func ValidateSheetName(name string) error {
	return validateName(name, ErrInvalidSheetName)
}

func validateName(name string, sentinel error) error {
	name = strings.TrimSpace(name)

	if len(name) < MinNameLength {
		return fmt.Errorf("%w: name cannot be empty", sentinel)
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", sentinel, MaxNameLength)
	}

	return nil
}

// ValidateAmount validates an expense value or payment amount.
func ValidateAmount(amount decimal.Decimal) error {
	// Bound the exponent first: comparisons rescale to it.
	if amount.Exponent() > maxAmountExponent {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}
	if amount.Exponent() < -MaxAmountScale {
		return fmt.Errorf("%w: more than %d decimal places", ErrInvalidAmount, MaxAmountScale)
	}

	if amount.IsNegative() {
		return fmt.Errorf("%w: %s is negative", ErrInvalidAmount, amount.String())
	}

	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	return nil
}

// ParseAmount converts user-entered text into a validated amount.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted.
// Empty, non-numeric, non-finite and negative input is rejected with
// ErrInvalidAmount; nothing is silently coerced to zero.
func ParseAmount(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", ErrInvalidAmount)
	}

	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, text)
	}

	if err := ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}

	return amount, nil
}

// ValidatePagination clamps listing parameters: a non-positive limit
// becomes DefaultPageSize, limits above MaxPageSize are capped and a
// negative offset becomes zero.
func ValidatePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
