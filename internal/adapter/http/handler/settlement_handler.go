package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/billsplit/internal/adapter/http/dto"
	"github.com/iho/billsplit/internal/settlement"
	"github.com/iho/billsplit/internal/usecase"
)

// SettlementService defines the read models needed by SettlementHandler.
type SettlementService interface {
	GetBalances(ctx context.Context, sheetID string) (*usecase.BalanceReport, error)
	GetSettlement(ctx context.Context, input usecase.GetSettlementInput) (*settlement.Result, error)
}

// SettlementHandler serves balances and settlement plans.
type SettlementHandler struct {
	settlementUC SettlementService
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(settlementUC SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementUC: settlementUC}
}

// Balances returns every participant's balance.
func (h *SettlementHandler) Balances(w http.ResponseWriter, r *http.Request) {
	report, err := h.settlementUC.GetBalances(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to compute balances", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromReport(report))
}

// Settlement returns the transfers that settle the sheet. An unbalanced
// sheet is answered with 409 and the plan body carrying the mismatch message.
func (h *SettlementHandler) Settlement(w http.ResponseWriter, r *http.Request) {
	sheetID := chi.URLParam(r, "id")

	result, err := h.settlementUC.GetSettlement(r.Context(), usecase.GetSettlementInput{
		SheetID:  sheetID,
		Strategy: r.URL.Query().Get("strategy"),
	})
	if err != nil {
		writeDomainError(w, "failed to compute settlement", err)
		return
	}

	status := http.StatusOK
	if result.Unbalanced() {
		status = http.StatusConflict
	}

	writeJSON(w, status, dto.SettlementFromResult(sheetID, result))
}
