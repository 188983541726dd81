package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/billsplit/internal/domain"
	"github.com/iho/billsplit/internal/usecase"
)

// AmountText is a money amount as written by the client. JSON accepts both
// numbers and strings so that "12.50" and 12.5 are equivalent.
type AmountText string

// UnmarshalJSON implements json.Unmarshaler.
func (a *AmountText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = AmountText(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidAmount, string(data))
	}
	*a = AmountText(n.String())
	return nil
}

// Decimal parses the amount with domain.ParseAmount.
func (a AmountText) Decimal() (decimal.Decimal, error) {
	if strings.TrimSpace(string(a)) == "" {
		return decimal.Zero, fmt.Errorf("%w: missing amount", domain.ErrInvalidAmount)
	}
	return domain.ParseAmount(string(a))
}

// ExpenseDocument is one purchased item.
type ExpenseDocument struct {
	Name  string     `json:"name"  yaml:"name"`
	Value AmountText `json:"value" yaml:"value"`
}

// ParticipantDocument is one participant with their items and payments.
type ParticipantDocument struct {
	Name     string            `json:"name"               yaml:"name"`
	Items    []ExpenseDocument `json:"items,omitempty"    yaml:"items,omitempty"`
	Payments []AmountText      `json:"payments,omitempty" yaml:"payments,omitempty"`
}

// SheetDocument is the portable form of a sheet. It is the body of
// POST /sheets and the format of CLI sheet files.
type SheetDocument struct {
	Name         string                `json:"name"                   yaml:"name"`
	Participants []ParticipantDocument `json:"participants,omitempty" yaml:"participants,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (d *SheetDocument) ToUseCaseInput() (usecase.CreateSheetInput, error) {
	input := usecase.CreateSheetInput{
		Name:         d.Name,
		Participants: make([]usecase.ParticipantInput, len(d.Participants)),
	}

	for i, p := range d.Participants {
		participant := usecase.ParticipantInput{Name: p.Name}
		for j, item := range p.Items {
			value, err := item.Value.Decimal()
			if err != nil {
				return usecase.CreateSheetInput{}, fmt.Errorf("participant %d item %d: %w", i, j, err)
			}
			participant.Items = append(participant.Items, usecase.ExpenseInput{Name: item.Name, Value: value})
		}
		for j, payment := range p.Payments {
			amount, err := payment.Decimal()
			if err != nil {
				return usecase.CreateSheetInput{}, fmt.Errorf("participant %d payment %d: %w", i, j, err)
			}
			participant.Payments = append(participant.Payments, amount)
		}
		input.Participants[i] = participant
	}

	return input, nil
}

// ToLedger builds a ledger directly, for offline use without a repository.
// Participants are identified by their position.
func (d *SheetDocument) ToLedger() (domain.Ledger, error) {
	input, err := d.ToUseCaseInput()
	if err != nil {
		return domain.Ledger{}, err
	}

	participants := make([]domain.Participant, len(input.Participants))
	for i, p := range input.Participants {
		participants[i] = domain.Participant{ID: fmt.Sprintf("p%d", i+1), Name: p.Name}
		for _, item := range p.Items {
			participants[i].Items = append(participants[i].Items, domain.Expense{Name: item.Name, Value: item.Value})
		}
		for _, amount := range p.Payments {
			participants[i].Payments = append(participants[i].Payments, domain.Payment{Amount: amount})
		}
	}

	return domain.NewLedger(participants...)
}

// AddParticipantRequest represents a request to add a participant.
type AddParticipantRequest struct {
	Name string `json:"name"`
}

// ToUseCaseInput converts to use case input.
func (r *AddParticipantRequest) ToUseCaseInput(sheetID string) usecase.AddParticipantInput {
	return usecase.AddParticipantInput{SheetID: sheetID, Name: r.Name}
}

// AddExpenseRequest represents a request to record an item.
type AddExpenseRequest struct {
	Name  string     `json:"name"`
	Value AmountText `json:"value"`
}

// ToUseCaseInput converts to use case input.
func (r *AddExpenseRequest) ToUseCaseInput(sheetID, participantID string) (usecase.AddExpenseInput, error) {
	value, err := r.Value.Decimal()
	if err != nil {
		return usecase.AddExpenseInput{}, err
	}
	return usecase.AddExpenseInput{
		SheetID:       sheetID,
		ParticipantID: participantID,
		Name:          r.Name,
		Value:         value,
	}, nil
}

// AddPaymentRequest represents a request to record a payment.
type AddPaymentRequest struct {
	Amount AmountText `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *AddPaymentRequest) ToUseCaseInput(sheetID, participantID string) (usecase.AddPaymentInput, error) {
	amount, err := r.Amount.Decimal()
	if err != nil {
		return usecase.AddPaymentInput{}, err
	}
	return usecase.AddPaymentInput{
		SheetID:       sheetID,
		ParticipantID: participantID,
		Amount:        amount,
	}, nil
}
