package settlement

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/billsplit/internal/domain"
)

const (
	// DisplayPlaces is the currency display precision of transfer amounts.
	DisplayPlaces = 2

	// DefaultTolerance is the largest |totalPaid - totalSpent| of a balanced ledger.
	DefaultTolerance = "0.01"
)

// Status is the outcome of a settlement computation.
type Status int

const (
	// StatusSettled means the ledger is balanced; Transfers may be empty.
	StatusSettled Status = iota
	// StatusUnbalanced means payments and expenses differ beyond tolerance.
	StatusUnbalanced
)

func (s Status) String() string {
	switch s {
	case StatusSettled:
		return "settled"
	case StatusUnbalanced:
		return "unbalanced"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is the settlement plan for one ledger snapshot.
type Result struct {
	Status    Status
	Strategy  Strategy
	Transfers []domain.Transfer
	Totals    Totals
}

// Unbalanced reports whether the ledger could not be settled.
func (r Result) Unbalanced() bool {
	return r.Status == StatusUnbalanced
}

// Err returns ErrUnbalancedLedger with the totals for an unbalanced result, nil otherwise.
func (r Result) Err() error {
	if !r.Unbalanced() {
		return nil
	}
	return fmt.Errorf(
		"%w: spent=%s paid=%s difference=%s",
		domain.ErrUnbalancedLedger,
		r.Totals.Spent.StringFixed(DisplayPlaces),
		r.Totals.Paid.StringFixed(DisplayPlaces),
		r.Totals.Difference().StringFixed(DisplayPlaces),
	)
}

// Engine computes balances and settlement plans. It holds configuration
// only, so a single Engine may be shared by any number of goroutines.
type Engine struct {
	strategy  Strategy
	tolerance decimal.Decimal
}

// Option configures an Engine.
type Option func(*Engine)

// WithStrategy selects the debt-matching strategy.
func WithStrategy(strategy Strategy) Option {
	return func(e *Engine) {
		e.strategy = strategy
	}
}

// WithTolerance sets the balanced-ledger tolerance. Negative values are ignored.
func WithTolerance(tolerance decimal.Decimal) Option {
	return func(e *Engine) {
		if !tolerance.IsNegative() {
			e.tolerance = tolerance
		}
	}
}

// New creates an Engine. The default is the pairwise strategy with a 0.01 tolerance.
func New(opts ...Option) *Engine {
	e := &Engine{
		strategy:  StrategyPairwise,
		tolerance: decimal.RequireFromString(DefaultTolerance),
	}
	for _, opt := range opts {
		opt(e)
	}
	if !e.strategy.Valid() {
		e.strategy = StrategyPairwise
	}
	return e
}

// Strategy returns the configured strategy.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// Tolerance returns the configured balanced-ledger tolerance.
func (e *Engine) Tolerance() decimal.Decimal {
	return e.tolerance
}

// WithStrategy returns a copy of e using the given strategy.
func (e *Engine) WithStrategy(strategy Strategy) *Engine {
	clone := *e
	if strategy.Valid() {
		clone.strategy = strategy
	}
	return &clone
}

// IsBalanced reports whether |totalSpent - totalPaid| <= tolerance.
func (e *Engine) IsBalanced(ledger domain.Ledger) bool {
	return e.withinTolerance(ComputeTotals(ledger))
}

func (e *Engine) withinTolerance(totals Totals) bool {
	return totals.Difference().Abs().LessThanOrEqual(e.tolerance)
}

// ComputeSettlement returns the transfers that bring every balance to zero,
// or an unbalanced result when the ledger fails the IsBalanced gate.
func (e *Engine) ComputeSettlement(ledger domain.Ledger) Result {
	totals := ComputeTotals(ledger)
	result := Result{
		Status:    StatusSettled,
		Strategy:  e.strategy,
		Transfers: []domain.Transfer{},
		Totals:    totals,
	}

	if !e.withinTolerance(totals) {
		result.Status = StatusUnbalanced
		return result
	}

	balances := ComputeAllBalances(ledger)
	switch e.strategy {
	case StrategyLargestFirst:
		result.Transfers = settleLargestFirst(balances)
	default:
		result.Transfers = settlePairwise(balances)
	}

	return result
}

var defaultEngine = New()

// IsBalanced reports whether the ledger is balanced within DefaultTolerance.
func IsBalanced(ledger domain.Ledger) bool {
	return defaultEngine.IsBalanced(ledger)
}

// ComputeSettlement settles the ledger with the default pairwise engine.
func ComputeSettlement(ledger domain.Ledger) Result {
	return defaultEngine.ComputeSettlement(ledger)
}

// settlePairwise scans debtors in ledger order and, for each, creditors in
// ledger order, moving min(debt, credit) per pair. Matching runs on the
// cent balances of centBalances, so every emitted amount is exact.
func settlePairwise(balances []Balance) []domain.Transfer {
	remaining := centBalances(balances)
	transfers := []domain.Transfer{}

	for i := range balances {
		if !remaining[i].IsNegative() {
			continue
		}

		for j := range balances {
			if i == j || !remaining[j].IsPositive() {
				continue
			}

			amount := decimal.Min(remaining[j], remaining[i].Neg())
			transfers = append(transfers, domain.Transfer{
				From:   balances[i].Participant,
				To:     balances[j].Participant,
				Amount: amount,
			})

			remaining[i] = remaining[i].Add(amount)
			remaining[j] = remaining[j].Sub(amount)

			if !remaining[i].IsNegative() {
				break
			}
		}
	}

	return transfers
}

// settleLargestFirst repeatedly matches the largest remaining debtor with the
// largest remaining creditor. Ties go to the earlier ledger position.
func settleLargestFirst(balances []Balance) []domain.Transfer {
	remaining := centBalances(balances)
	transfers := []domain.Transfer{}

	for {
		debtor := largest(remaining, decimal.Decimal.IsNegative)
		creditor := largest(remaining, decimal.Decimal.IsPositive)
		if debtor < 0 || creditor < 0 {
			break
		}

		amount := decimal.Min(remaining[creditor], remaining[debtor].Neg())
		transfers = append(transfers, domain.Transfer{
			From:   balances[debtor].Participant,
			To:     balances[creditor].Participant,
			Amount: amount,
		})

		remaining[debtor] = remaining[debtor].Add(amount)
		remaining[creditor] = remaining[creditor].Sub(amount)
	}

	return transfers
}

// centBalances rounds every balance to DisplayPlaces and hands the rounding
// residue out one cent at a time, so the cent balances add up to the exact
// total rounded to cents. A cent is taken from the participant rounded up
// the most, or given to the one rounded down the most, earliest first.
// Each participant then stays within one cent of their exact balance.
func centBalances(balances []Balance) []decimal.Decimal {
	cent := decimal.New(1, -DisplayPlaces)
	cents := make([]decimal.Decimal, len(balances))
	exactSum := decimal.Zero
	centSum := decimal.Zero

	for i, b := range balances {
		cents[i] = b.Amount.Round(DisplayPlaces)
		exactSum = exactSum.Add(b.Amount)
		centSum = centSum.Add(cents[i])
	}

	residue := centSum.Sub(exactSum.Round(DisplayPlaces)).Div(cent).IntPart()
	for ; residue != 0; residue -= sign(residue) {
		pick := -1
		for i, b := range balances {
			drift := cents[i].Sub(b.Amount)
			if pick < 0 {
				pick = i
				continue
			}
			best := cents[pick].Sub(balances[pick].Amount)
			if (residue > 0 && drift.GreaterThan(best)) || (residue < 0 && drift.LessThan(best)) {
				pick = i
			}
		}
		if residue > 0 {
			cents[pick] = cents[pick].Sub(cent)
		} else {
			cents[pick] = cents[pick].Add(cent)
		}
	}

	return cents
}

func sign(n int64) int64 {
	if n < 0 {
		return -1
	}
	return 1
}

// largest returns the index of the largest |amount| accepted by keep, or -1.
func largest(amounts []decimal.Decimal, keep func(decimal.Decimal) bool) int {
	best := -1
	for i, amount := range amounts {
		if !keep(amount) {
			continue
		}
		if best < 0 || amount.Abs().GreaterThan(amounts[best].Abs()) {
			best = i
		}
	}
	return best
}
