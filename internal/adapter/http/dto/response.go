package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/billsplit/internal/domain"
	"github.com/iho/billsplit/internal/settlement"
	"github.com/iho/billsplit/internal/usecase"
)

const (
	// MessageNoDebts accompanies a settled plan without transfers.
	MessageNoDebts = "there are no debts to show"

	BalanceOwed    = "owed"
	BalanceOwes    = "owes"
	BalanceSettled = "settled"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Money formats an amount with two decimal places.
func Money(d decimal.Decimal) string {
	return d.StringFixed(settlement.DisplayPlaces)
}

// ExpenseResponse represents an item in API responses.
type ExpenseResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ParticipantResponse represents a participant in API responses.
type ParticipantResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Items    []ExpenseResponse `json:"items"`
	Payments []string          `json:"payments"`
}

// SheetResponse represents a sheet in API responses.
type SheetResponse struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Version      int64                 `json:"version"`
	Participants []ParticipantResponse `json:"participants"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// SheetFromDomain converts a domain sheet to a response.
func SheetFromDomain(s *domain.Sheet) *SheetResponse {
	participants := s.Ledger.Participants()
	resp := &SheetResponse{
		ID:           s.ID,
		Name:         s.Name,
		Version:      s.Version,
		Participants: make([]ParticipantResponse, len(participants)),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}

	for i, p := range participants {
		pr := ParticipantResponse{
			ID:       p.ID,
			Name:     p.Name,
			Items:    make([]ExpenseResponse, len(p.Items)),
			Payments: make([]string, len(p.Payments)),
		}
		for j, item := range p.Items {
			pr.Items[j] = ExpenseResponse{Name: item.Name, Value: item.Value.String()}
		}
		for j, payment := range p.Payments {
			pr.Payments[j] = payment.Amount.String()
		}
		resp.Participants[i] = pr
	}

	return resp
}

// SheetsFromDomain converts domain sheets to responses.
func SheetsFromDomain(sheets []*domain.Sheet) []*SheetResponse {
	result := make([]*SheetResponse, len(sheets))
	for i, s := range sheets {
		result[i] = SheetFromDomain(s)
	}
	return result
}

// ListSheetsResponse is a page of sheets.
type ListSheetsResponse struct {
	Sheets []*SheetResponse `json:"sheets"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// BalanceResponse is one participant's balance.
type BalanceResponse struct {
	ParticipantID string `json:"participant_id"`
	Name          string `json:"name"`
	Balance       string `json:"balance"`
	Status        string `json:"status"`
	Amount        string `json:"amount"`
}

// BalanceFromDomain converts a balance. Status is "owed" for a creditor,
// "owes" for a debtor, and "settled" when the balance rounds to zero.
func BalanceFromDomain(b settlement.Balance) BalanceResponse {
	rounded := b.Amount.Round(settlement.DisplayPlaces)
	status := BalanceSettled
	switch {
	case rounded.IsPositive():
		status = BalanceOwed
	case rounded.IsNegative():
		status = BalanceOwes
	}

	return BalanceResponse{
		ParticipantID: b.Participant.ID,
		Name:          b.Participant.Name,
		Balance:       Money(b.Amount),
		Status:        status,
		Amount:        Money(b.Amount.Abs()),
	}
}

// BalancesResponse is the balance view of a sheet.
type BalancesResponse struct {
	SheetID    string            `json:"sheet_id"`
	Version    int64             `json:"version"`
	Balanced   bool              `json:"balanced"`
	TotalSpent string            `json:"total_spent"`
	TotalPaid  string            `json:"total_paid"`
	Balances   []BalanceResponse `json:"balances"`
}

// BalancesFromReport converts a use case balance report.
func BalancesFromReport(r *usecase.BalanceReport) *BalancesResponse {
	resp := &BalancesResponse{
		SheetID:    r.SheetID,
		Version:    r.Version,
		Balanced:   r.Balanced,
		TotalSpent: Money(r.Totals.Spent),
		TotalPaid:  Money(r.Totals.Paid),
		Balances:   make([]BalanceResponse, len(r.Balances)),
	}
	for i, b := range r.Balances {
		resp.Balances[i] = BalanceFromDomain(b)
	}
	return resp
}

// TransferResponse is one instruction of a settlement plan.
type TransferResponse struct {
	FromID string `json:"from_id"`
	From   string `json:"from"`
	ToID   string `json:"to_id"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

// SettlementResponse is the settlement plan of a sheet.
type SettlementResponse struct {
	SheetID    string             `json:"sheet_id,omitempty"`
	Status     string             `json:"status"`
	Strategy   string             `json:"strategy"`
	Message    string             `json:"message,omitempty"`
	TotalSpent string             `json:"total_spent"`
	TotalPaid  string             `json:"total_paid"`
	Transfers  []TransferResponse `json:"transfers"`
}

// SettlementFromResult converts a settlement result.
func SettlementFromResult(sheetID string, r *settlement.Result) *SettlementResponse {
	resp := &SettlementResponse{
		SheetID:    sheetID,
		Status:     r.Status.String(),
		Strategy:   r.Strategy.String(),
		TotalSpent: Money(r.Totals.Spent),
		TotalPaid:  Money(r.Totals.Paid),
		Transfers:  make([]TransferResponse, len(r.Transfers)),
	}

	for i, t := range r.Transfers {
		resp.Transfers[i] = TransferResponse{
			FromID: t.From.ID,
			From:   t.From.Name,
			ToID:   t.To.ID,
			To:     t.To.Name,
			Amount: Money(t.Amount),
		}
	}

	switch {
	case r.Unbalanced():
		resp.Message = domain.ErrUnbalancedLedger.Error()
	case len(r.Transfers) == 0:
		resp.Message = MessageNoDebts
	}

	return resp
}
