package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/billsplit/internal/domain"
	"github.com/iho/billsplit/internal/settlement"
)

// SheetUseCase owns sheets and applies ledger mutations under the
// repository's single-writer discipline.
type SheetUseCase struct {
	sheetRepo SheetRepository
	idGen     IDGenerator
	engine    *settlement.Engine
	metrics   MetricsRecorder
	logger    zerolog.Logger
	now       func() time.Time
}

// NewSheetUseCase creates a new SheetUseCase. A nil engine uses the
// settlement defaults and a nil recorder disables metrics.
func NewSheetUseCase(
	sheetRepo SheetRepository,
	idGen IDGenerator,
	engine *settlement.Engine,
	metrics MetricsRecorder,
	logger zerolog.Logger,
) *SheetUseCase {
	if engine == nil {
		engine = settlement.New()
	}
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &SheetUseCase{
		sheetRepo: sheetRepo,
		idGen:     idGen,
		engine:    engine,
		metrics:   metrics,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ExpenseInput is one expense of an imported participant.
type ExpenseInput struct {
	Name  string
	Value decimal.Decimal
}

// ParticipantInput is one participant of an imported ledger.
type ParticipantInput struct {
	Name     string
	Items    []ExpenseInput
	Payments []decimal.Decimal
}

// CreateSheetInput represents input for creating a sheet.
type CreateSheetInput struct {
	Name         string
	Participants []ParticipantInput
}

// CreateSheet creates a sheet, optionally seeded with participants.
func (uc *SheetUseCase) CreateSheet(ctx context.Context, input CreateSheetInput) (*domain.Sheet, error) {
	name := strings.TrimSpace(input.Name)
	if err := domain.ValidateSheetName(name); err != nil {
		return nil, err
	}

	participants := make([]domain.Participant, len(input.Participants))
	for i, p := range input.Participants {
		participants[i] = domain.Participant{
			ID:   uc.idGen.Generate(),
			Name: p.Name,
		}
		for _, item := range p.Items {
			participants[i].Items = append(participants[i].Items, domain.Expense{Name: item.Name, Value: item.Value})
		}
		for _, amount := range p.Payments {
			participants[i].Payments = append(participants[i].Payments, domain.Payment{Amount: amount})
		}
	}

	ledger, err := domain.NewLedger(participants...)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	sheet := &domain.Sheet{
		ID:        uc.idGen.Generate(),
		Name:      name,
		Ledger:    ledger,
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.sheetRepo.Create(ctx, sheet); err != nil {
		return nil, err
	}

	uc.metrics.RecordMutation(OpCreateSheet)
	uc.logger.Debug().
		Str("sheet_id", sheet.ID).
		Int("participants", ledger.Len()).
		Msg("sheet created")

	return sheet, nil
}

// GetSheet retrieves a sheet by ID.
func (uc *SheetUseCase) GetSheet(ctx context.Context, id string) (*domain.Sheet, error) {
	return uc.sheetRepo.GetByID(ctx, id)
}

// ListSheetsInput represents input for listing sheets.
type ListSheetsInput struct {
	Limit  int
	Offset int
}

// ListSheets lists sheets with pagination.
func (uc *SheetUseCase) ListSheets(ctx context.Context, input ListSheetsInput) ([]*domain.Sheet, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.sheetRepo.List(ctx, limit, offset)
}

// DeleteSheet removes a sheet.
func (uc *SheetUseCase) DeleteSheet(ctx context.Context, id string) error {
	if err := uc.sheetRepo.Delete(ctx, id); err != nil {
		return err
	}
	uc.metrics.RecordMutation(OpDeleteSheet)
	return nil
}

// AddParticipantInput represents input for adding a participant.
type AddParticipantInput struct {
	SheetID string
	Name    string
}

// AddParticipant appends a participant and returns the updated sheet.
func (uc *SheetUseCase) AddParticipant(ctx context.Context, input AddParticipantInput) (*domain.Sheet, error) {
	id := uc.idGen.Generate()
	return uc.mutate(ctx, input.SheetID, OpAddParticipant, func(l domain.Ledger) (domain.Ledger, error) {
		return l.AddParticipant(id, input.Name)
	})
}

// RemoveParticipant removes a participant with all their entries.
func (uc *SheetUseCase) RemoveParticipant(ctx context.Context, sheetID, participantID string) (*domain.Sheet, error) {
	return uc.mutate(ctx, sheetID, OpRemoveParticipant, func(l domain.Ledger) (domain.Ledger, error) {
		return l.RemoveParticipant(participantID)
	})
}

// AddExpenseInput represents input for recording an expense.
type AddExpenseInput struct {
	SheetID       string
	ParticipantID string
	Name          string
	Value         decimal.Decimal
}

// AddExpense appends an expense to a participant.
func (uc *SheetUseCase) AddExpense(ctx context.Context, input AddExpenseInput) (*domain.Sheet, error) {
	return uc.mutate(ctx, input.SheetID, OpAddExpense, func(l domain.Ledger) (domain.Ledger, error) {
		return l.AddExpense(input.ParticipantID, domain.Expense{Name: input.Name, Value: input.Value})
	})
}

// AddPaymentInput represents input for recording a payment.
type AddPaymentInput struct {
	SheetID       string
	ParticipantID string
	Amount        decimal.Decimal
}

// AddPayment appends a payment to a participant.
func (uc *SheetUseCase) AddPayment(ctx context.Context, input AddPaymentInput) (*domain.Sheet, error) {
	return uc.mutate(ctx, input.SheetID, OpAddPayment, func(l domain.Ledger) (domain.Ledger, error) {
		return l.AddPayment(input.ParticipantID, domain.Payment{Amount: input.Amount})
	})
}

// RemoveEntryInput addresses one expense or payment by position.
type RemoveEntryInput struct {
	SheetID       string
	ParticipantID string
	Index         int
}

// RemoveExpense removes the expense at the given position.
func (uc *SheetUseCase) RemoveExpense(ctx context.Context, input RemoveEntryInput) (*domain.Sheet, error) {
	return uc.mutate(ctx, input.SheetID, OpRemoveExpense, func(l domain.Ledger) (domain.Ledger, error) {
		return l.RemoveExpense(input.ParticipantID, input.Index)
	})
}

// RemovePayment removes the payment at the given position.
func (uc *SheetUseCase) RemovePayment(ctx context.Context, input RemoveEntryInput) (*domain.Sheet, error) {
	return uc.mutate(ctx, input.SheetID, OpRemovePayment, func(l domain.Ledger) (domain.Ledger, error) {
		return l.RemovePayment(input.ParticipantID, input.Index)
	})
}

func (uc *SheetUseCase) mutate(
	ctx context.Context,
	sheetID, operation string,
	fn func(domain.Ledger) (domain.Ledger, error),
) (*domain.Sheet, error) {
	sheet, err := uc.sheetRepo.Update(ctx, sheetID, func(s *domain.Sheet) error {
		next, err := fn(s.Ledger)
		if err != nil {
			return err
		}
		s.Ledger = next
		s.Touch(uc.now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.RecordMutation(operation)
	uc.logger.Debug().
		Str("sheet_id", sheetID).
		Str("operation", operation).
		Int64("version", sheet.Version).
		Msg("sheet updated")

	return sheet, nil
}

// BalanceReport is the balance view of one sheet.
type BalanceReport struct {
	SheetID  string
	Version  int64
	Balances []settlement.Balance
	Totals   settlement.Totals
	Balanced bool
}

// GetBalances computes every participant's balance for a sheet.
func (uc *SheetUseCase) GetBalances(ctx context.Context, sheetID string) (*BalanceReport, error) {
	sheet, err := uc.sheetRepo.GetByID(ctx, sheetID)
	if err != nil {
		return nil, err
	}

	totals := settlement.ComputeTotals(sheet.Ledger)
	return &BalanceReport{
		SheetID:  sheet.ID,
		Version:  sheet.Version,
		Balances: settlement.ComputeAllBalances(sheet.Ledger),
		Totals:   totals,
		Balanced: uc.engine.IsBalanced(sheet.Ledger),
	}, nil
}

// GetSettlementInput represents input for computing a settlement.
type GetSettlementInput struct {
	SheetID string
	// Strategy overrides the configured strategy when non-empty.
	Strategy string
}

// GetSettlement computes the settlement plan of a sheet. An unbalanced
// ledger is reported through the result status, not as an error.
func (uc *SheetUseCase) GetSettlement(ctx context.Context, input GetSettlementInput) (*settlement.Result, error) {
	engine := uc.engine
	if input.Strategy != "" {
		strategy, err := settlement.ParseStrategy(input.Strategy)
		if err != nil {
			return nil, err
		}
		engine = engine.WithStrategy(strategy)
	}

	sheet, err := uc.sheetRepo.GetByID(ctx, input.SheetID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := engine.ComputeSettlement(sheet.Ledger)
	uc.metrics.RecordSettlement(result.Strategy.String(), result.Status.String(), len(result.Transfers), time.Since(start))

	if result.Unbalanced() {
		uc.logger.Debug().
			Str("sheet_id", sheet.ID).
			Str("spent", result.Totals.Spent.String()).
			Str("paid", result.Totals.Paid.String()).
			Msg("settlement requested for unbalanced sheet")
	}

	return &result, nil
}

// Engine returns the settlement engine used by the use case.
func (uc *SheetUseCase) Engine() *settlement.Engine {
	return uc.engine
}
