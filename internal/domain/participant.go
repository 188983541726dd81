package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Expense is an amount a participant spent on behalf of the group.
type Expense struct {
	Name  string
	Value decimal.Decimal
}

// Payment is an amount a participant contributed toward their share.
type Payment struct {
	Amount decimal.Decimal
}

// Participant is one member of a ledger with their recorded expenses and payments.
type Participant struct {
	ID       string
	Name     string
	Items    []Expense
	Payments []Payment
}

// ParticipantRef identifies a participant by stable ID and ledger position.
// Names are carried for display only and may collide.
type ParticipantRef struct {
	ID    string
	Name  string
	Index int
}

// Validate checks the participant name and every recorded amount.
func (p *Participant) Validate() error {
	if err := ValidateParticipantName(p.Name); err != nil {
		return err
	}

	for i, item := range p.Items {
		if err := ValidateExpenseName(item.Name); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		if err := ValidateAmount(item.Value); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}

	for i, payment := range p.Payments {
		if err := ValidateAmount(payment.Amount); err != nil {
			return fmt.Errorf("payment %d: %w", i, err)
		}
	}

	return nil
}

// Clone returns a deep copy that shares no slices with p.
func (p Participant) Clone() Participant {
	clone := Participant{
		ID:   p.ID,
		Name: strings.TrimSpace(p.Name),
	}

	if len(p.Items) > 0 {
		clone.Items = make([]Expense, len(p.Items))
		copy(clone.Items, p.Items)
	}

	if len(p.Payments) > 0 {
		clone.Payments = make([]Payment, len(p.Payments))
		copy(clone.Payments, p.Payments)
	}

	return clone
}
