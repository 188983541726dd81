package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/billsplit/internal/domain"
	"github.com/iho/billsplit/internal/settlement"
	"github.com/iho/billsplit/internal/usecase"
)

type sheetServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateSheetInput) (*domain.Sheet, error)
	getFn    func(ctx context.Context, id string) (*domain.Sheet, error)
	listFn   func(ctx context.Context, input usecase.ListSheetsInput) ([]*domain.Sheet, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *sheetServiceStub) CreateSheet(ctx context.Context, input usecase.CreateSheetInput) (*domain.Sheet, error) {
	return s.createFn(ctx, input)
}

func (s *sheetServiceStub) GetSheet(ctx context.Context, id string) (*domain.Sheet, error) {
	return s.getFn(ctx, id)
}

func (s *sheetServiceStub) ListSheets(ctx context.Context, input usecase.ListSheetsInput) ([]*domain.Sheet, error) {
	return s.listFn(ctx, input)
}

func (s *sheetServiceStub) DeleteSheet(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

type ledgerServiceStub struct {
	addParticipantFn    func(ctx context.Context, input usecase.AddParticipantInput) (*domain.Sheet, error)
	removeParticipantFn func(ctx context.Context, sheetID, participantID string) (*domain.Sheet, error)
	addExpenseFn        func(ctx context.Context, input usecase.AddExpenseInput) (*domain.Sheet, error)
	removeExpenseFn     func(ctx context.Context, input usecase.RemoveEntryInput) (*domain.Sheet, error)
	addPaymentFn        func(ctx context.Context, input usecase.AddPaymentInput) (*domain.Sheet, error)
	removePaymentFn     func(ctx context.Context, input usecase.RemoveEntryInput) (*domain.Sheet, error)
}

func (s *ledgerServiceStub) AddParticipant(ctx context.Context, input usecase.AddParticipantInput) (*domain.Sheet, error) {
	return s.addParticipantFn(ctx, input)
}

func (s *ledgerServiceStub) RemoveParticipant(ctx context.Context, sheetID, participantID string) (*domain.Sheet, error) {
	return s.removeParticipantFn(ctx, sheetID, participantID)
}

func (s *ledgerServiceStub) AddExpense(ctx context.Context, input usecase.AddExpenseInput) (*domain.Sheet, error) {
	return s.addExpenseFn(ctx, input)
}

func (s *ledgerServiceStub) RemoveExpense(ctx context.Context, input usecase.RemoveEntryInput) (*domain.Sheet, error) {
	return s.removeExpenseFn(ctx, input)
}

func (s *ledgerServiceStub) AddPayment(ctx context.Context, input usecase.AddPaymentInput) (*domain.Sheet, error) {
	return s.addPaymentFn(ctx, input)
}

func (s *ledgerServiceStub) RemovePayment(ctx context.Context, input usecase.RemoveEntryInput) (*domain.Sheet, error) {
	return s.removePaymentFn(ctx, input)
}

type settlementServiceStub struct {
	balancesFn   func(ctx context.Context, sheetID string) (*usecase.BalanceReport, error)
	settlementFn func(ctx context.Context, input usecase.GetSettlementInput) (*settlement.Result, error)
}

func (s *settlementServiceStub) GetBalances(ctx context.Context, sheetID string) (*usecase.BalanceReport, error) {
	return s.balancesFn(ctx, sheetID)
}

func (s *settlementServiceStub) GetSettlement(ctx context.Context, input usecase.GetSettlementInput) (*settlement.Result, error) {
	return s.settlementFn(ctx, input)
}

func setChiURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
