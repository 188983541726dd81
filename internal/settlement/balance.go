package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/iho/billsplit/internal/domain"
)

// Balance is the signed net amount of one participant.
// Positive means the participant is owed money, negative means they owe.
type Balance struct {
	Participant domain.ParticipantRef
	Amount      decimal.Decimal
}

// Totals are the ledger-wide sums of expenses and payments.
type Totals struct {
	Spent decimal.Decimal
	Paid  decimal.Decimal
}

// Difference returns Paid - Spent, which equals the sum of all balances.
func (t Totals) Difference() decimal.Decimal {
	return t.Paid.Sub(t.Spent)
}

// ComputeBalance returns sum(payments) - sum(item values).
func ComputeBalance(p domain.Participant) decimal.Decimal {
	return sumPayments(p).Sub(sumItems(p))
}

// ComputeAllBalances maps ComputeBalance over the ledger, preserving order.
func ComputeAllBalances(ledger domain.Ledger) []Balance {
	balances := make([]Balance, ledger.Len())
	for i, p := range ledger.Participants() {
		balances[i] = Balance{
			Participant: ledger.Ref(i),
			Amount:      ComputeBalance(p),
		}
	}
	return balances
}

// ComputeTotals sums expenses and payments over every participant.
func ComputeTotals(ledger domain.Ledger) Totals {
	totals := Totals{Spent: decimal.Zero, Paid: decimal.Zero}
	for _, p := range ledger.Participants() {
		totals.Spent = totals.Spent.Add(sumItems(p))
		totals.Paid = totals.Paid.Add(sumPayments(p))
	}
	return totals
}

func sumItems(p domain.Participant) decimal.Decimal {
	total := decimal.Zero
	for _, item := range p.Items {
		total = total.Add(item.Value)
	}
	return total
}

func sumPayments(p domain.Participant) decimal.Decimal {
	total := decimal.Zero
	for _, payment := range p.Payments {
		total = total.Add(payment.Amount)
	}
	return total
}
