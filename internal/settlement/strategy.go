package settlement

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidStrategy is returned for an unknown strategy name.
var ErrInvalidStrategy = errors.New("invalid settlement strategy")

// Strategy selects how debtors are matched against creditors.
type Strategy string

const (
	// StrategyPairwise scans debtors then creditors in ledger order.
	StrategyPairwise Strategy = "pairwise"
	// StrategyLargestFirst matches the largest debtor with the largest creditor.
	StrategyLargestFirst Strategy = "largest-first"
)

// Strategies lists every supported strategy.
func Strategies() []Strategy {
	return []Strategy{StrategyPairwise, StrategyLargestFirst}
}

// Valid reports whether s is a supported strategy.
func (s Strategy) Valid() bool {
	return s == StrategyPairwise || s == StrategyLargestFirst
}

func (s Strategy) String() string {
	return string(s)
}

// ParseStrategy parses a strategy name. The empty string yields the pairwise strategy.
func ParseStrategy(name string) (Strategy, error) {
	s := Strategy(strings.ToLower(strings.TrimSpace(name)))
	if s == "" {
		return StrategyPairwise, nil
	}
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q (want %s or %s)", ErrInvalidStrategy, name, StrategyPairwise, StrategyLargestFirst)
	}
	return s, nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
