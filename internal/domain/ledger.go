package domain

import (
	"fmt"
	"strings"
)

// Ledger is an immutable, ordered snapshot of participants.
//
// Order is insertion order. Mutating methods return a new Ledger and never
// write into storage shared with the receiver, so a snapshot handed to the
// settlement engine stays valid while the owner keeps editing.
type Ledger struct {
	participants []Participant
}

// NewLedger validates and copies the given participants into a ledger.
// Participants without an ID are allowed; non-empty IDs must be unique.
func NewLedger(participants ...Participant) (Ledger, error) {
	seen := make(map[string]struct{}, len(participants))
	copied := make([]Participant, 0, len(participants))

	for i, p := range participants {
		if err := p.Validate(); err != nil {
			return Ledger{}, fmt.Errorf("participant %d: %w", i, err)
		}

		if p.ID != "" {
			if _, dup := seen[p.ID]; dup {
				return Ledger{}, fmt.Errorf("%w: %s", ErrDuplicateParticipant, p.ID)
			}
			seen[p.ID] = struct{}{}
		}

		copied = append(copied, p.Clone())
	}

	return Ledger{participants: copied}, nil
}

// Len returns the number of participants.
func (l Ledger) Len() int {
	return len(l.participants)
}

// Participants returns a deep copy of the participants in ledger order.
func (l Ledger) Participants() []Participant {
	result := make([]Participant, len(l.participants))
	for i, p := range l.participants {
		result[i] = p.Clone()
	}
	return result
}

// At returns a copy of the participant at position i.
func (l Ledger) At(i int) Participant {
	return l.participants[i].Clone()
}

// Ref returns the reference of the participant at position i.
func (l Ledger) Ref(i int) ParticipantRef {
	p := l.participants[i]
	return ParticipantRef{ID: p.ID, Name: p.Name, Index: i}
}

// IndexOf returns the position of the participant with the given ID, or -1.
func (l Ledger) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, p := range l.participants {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Participant returns a copy of the participant with the given ID.
func (l Ledger) Participant(id string) (Participant, error) {
	i := l.IndexOf(id)
	if i < 0 {
		return Participant{}, fmt.Errorf("%w: %s", ErrParticipantNotFound, id)
	}
	return l.participants[i].Clone(), nil
}

// AddParticipant appends a participant with no expenses or payments.
func (l Ledger) AddParticipant(id, name string) (Ledger, error) {
	name = strings.TrimSpace(name)
	if err := ValidateParticipantName(name); err != nil {
		return l, err
	}

	if l.IndexOf(id) >= 0 {
		return l, fmt.Errorf("%w: %s", ErrDuplicateParticipant, id)
	}

	next := make([]Participant, len(l.participants), len(l.participants)+1)
	copy(next, l.participants)
	next = append(next, Participant{ID: id, Name: name})

	return Ledger{participants: next}, nil
}

// RemoveParticipant removes the participant with the given ID.
func (l Ledger) RemoveParticipant(id string) (Ledger, error) {
	i := l.IndexOf(id)
	if i < 0 {
		return l, fmt.Errorf("%w: %s", ErrParticipantNotFound, id)
	}

	next := make([]Participant, 0, len(l.participants)-1)
	next = append(next, l.participants[:i]...)
	next = append(next, l.participants[i+1:]...)

	return Ledger{participants: next}, nil
}

// AddExpense appends an expense to the participant with the given ID.
func (l Ledger) AddExpense(id string, expense Expense) (Ledger, error) {
	expense.Name = strings.TrimSpace(expense.Name)
	if err := ValidateExpenseName(expense.Name); err != nil {
		return l, err
	}
	if err := ValidateAmount(expense.Value); err != nil {
		return l, err
	}

	return l.update(id, func(p *Participant) error {
		items := make([]Expense, len(p.Items), len(p.Items)+1)
		copy(items, p.Items)
		p.Items = append(items, expense)
		return nil
	})
}

// RemoveExpense removes the expense at position index.
func (l Ledger) RemoveExpense(id string, index int) (Ledger, error) {
	return l.update(id, func(p *Participant) error {
		if index < 0 || index >= len(p.Items) {
			return fmt.Errorf("%w: index %d", ErrExpenseNotFound, index)
		}
		items := make([]Expense, 0, len(p.Items)-1)
		items = append(items, p.Items[:index]...)
		p.Items = append(items, p.Items[index+1:]...)
		return nil
	})
}

// AddPayment appends a payment to the participant with the given ID.
func (l Ledger) AddPayment(id string, payment Payment) (Ledger, error) {
	if err := ValidateAmount(payment.Amount); err != nil {
		return l, err
	}

	return l.update(id, func(p *Participant) error {
		payments := make([]Payment, len(p.Payments), len(p.Payments)+1)
		copy(payments, p.Payments)
		p.Payments = append(payments, payment)
		return nil
	})
}

// RemovePayment removes the payment at position index.
func (l Ledger) RemovePayment(id string, index int) (Ledger, error) {
	return l.update(id, func(p *Participant) error {
		if index < 0 || index >= len(p.Payments) {
			return fmt.Errorf("%w: index %d", ErrPaymentNotFound, index)
		}
		payments := make([]Payment, 0, len(p.Payments)-1)
		payments = append(payments, p.Payments[:index]...)
		p.Payments = append(payments, p.Payments[index+1:]...)
		return nil
	})
}

// update copies the participant list, applies fn to the copy of one
// participant and returns the new ledger. fn must replace, not modify, the
// participant's slices.
func (l Ledger) update(id string, fn func(p *Participant) error) (Ledger, error) {
	i := l.IndexOf(id)
	if i < 0 {
		return l, fmt.Errorf("%w: %s", ErrParticipantNotFound, id)
	}

	next := make([]Participant, len(l.participants))
	copy(next, l.participants)

	if err := fn(&next[i]); err != nil {
		return l, err
	}

	return Ledger{participants: next}, nil
}
