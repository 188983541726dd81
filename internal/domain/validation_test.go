package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateParticipantName(t *testing.T) {
	t.Parallel()

	t.Run("valid name", func(t *testing.T) {
		if err := ValidateParticipantName("Alice"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("empty name rejected", func(t *testing.T) {
		err := ValidateParticipantName("   ")
		if !errors.Is(err, ErrInvalidParticipantName) {
			t.Fatalf("expected ErrInvalidParticipantName, got %v", err)
		}
	})

	t.Run("name too long", func(t *testing.T) {
		tooLong := strings.Repeat("a", MaxNameLength+1)
		err := ValidateParticipantName(tooLong)
		if !errors.Is(err, ErrInvalidParticipantName) {
			t.Fatalf("expected ErrInvalidParticipantName, got %v", err)
		}
	})
}

func TestValidateExpenseAndSheetName(t *testing.T) {
	t.Parallel()

	if err := ValidateExpenseName(""); !errors.Is(err, ErrInvalidExpenseName) {
		t.Fatalf("expected ErrInvalidExpenseName, got %v", err)
	}

	if err := ValidateSheetName("\t"); !errors.Is(err, ErrInvalidSheetName) {
		t.Fatalf("expected ErrInvalidSheetName, got %v", err)
	}

	if err := ValidateSheetName("Ski trip"); err != nil {
		t.Fatalf("expected valid sheet name, got %v", err)
	}
}

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	if err := ValidateAmount(decimal.NewFromFloat(100.25)); err != nil {
		t.Fatalf("expected valid amount, got %v", err)
	}

	if err := ValidateAmount(decimal.Zero); err != nil {
		t.Fatalf("expected zero to be accepted, got %v", err)
	}

	if err := ValidateAmount(decimal.NewFromInt(-1)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative, got %v", err)
	}

	tooLarge := decimal.RequireFromString(MaxAmount).Add(decimal.NewFromInt(1))
	if err := ValidateAmount(tooLarge); !errors.Is(err, ErrAmountTooLarge) {
		t.Fatalf("expected ErrAmountTooLarge, got %v", err)
	}
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    string
		wantErr error
	}{
		{input: "12.34", want: "12.34"},
		{input: " 12,34 ", want: "12.34"},
		{input: "0", want: "0"},
		{input: "20", want: "20"},
		{input: "", wantErr: ErrInvalidAmount},
		{input: "abc", wantErr: ErrInvalidAmount},
		{input: "NaN", wantErr: ErrInvalidAmount},
		{input: "Inf", wantErr: ErrInvalidAmount},
		{input: "-5", wantErr: ErrInvalidAmount},
		{input: "1,2,3", wantErr: ErrInvalidAmount},
		{input: "1e20", wantErr: ErrAmountTooLarge},
		{input: "1e12", want: "1000000000000"},
		{input: "0.00000001", want: "0.00000001"},
		{input: "0.000000001", wantErr: ErrInvalidAmount},
		{input: "1e-99999999", wantErr: ErrInvalidAmount},
		{input: "1e99999999", wantErr: ErrAmountTooLarge},
		{input: "-1e99999999", wantErr: ErrAmountTooLarge},
		{input: "0e2147483647", wantErr: ErrAmountTooLarge},
	}

	for _, tt := range tests {
		got, err := ParseAmount(tt.input)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseAmount(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.input, err)
		}
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Fatalf("ParseAmount(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestValidatePagination(t *testing.T) {
	t.Parallel()

	limit, offset := ValidatePagination(0, -10)
	if limit != DefaultPageSize || offset != 0 {
		t.Fatalf("expected defaults, got limit=%d offset=%d", limit, offset)
	}

	limit, offset = ValidatePagination(5000, 7)
	if limit != MaxPageSize || offset != 7 {
		t.Fatalf("expected limit capped at %d, got limit=%d offset=%d", MaxPageSize, limit, offset)
	}
}
