package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/billsplit/internal/adapter/http/dto"
	"github.com/iho/billsplit/internal/domain"
	"github.com/iho/billsplit/internal/usecase"
)

// LedgerService defines the ledger mutations needed by ParticipantHandler.
type LedgerService interface {
	AddParticipant(ctx context.Context, input usecase.AddParticipantInput) (*domain.Sheet, error)
	RemoveParticipant(ctx context.Context, sheetID, participantID string) (*domain.Sheet, error)
	AddExpense(ctx context.Context, input usecase.AddExpenseInput) (*domain.Sheet, error)
	RemoveExpense(ctx context.Context, input usecase.RemoveEntryInput) (*domain.Sheet, error)
	AddPayment(ctx context.Context, input usecase.AddPaymentInput) (*domain.Sheet, error)
	RemovePayment(ctx context.Context, input usecase.RemoveEntryInput) (*domain.Sheet, error)
}

// ParticipantHandler handles participants and their items and payments.
// Every mutation responds with the updated sheet.
type ParticipantHandler struct {
	ledgerUC LedgerService
}

// NewParticipantHandler creates a new ParticipantHandler.
func NewParticipantHandler(ledgerUC LedgerService) *ParticipantHandler {
	return &ParticipantHandler{ledgerUC: ledgerUC}
}

// Add adds a participant.
func (h *ParticipantHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req dto.AddParticipantRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	sheet, err := h.ledgerUC.AddParticipant(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "failed to add participant", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.SheetFromDomain(sheet))
}

// Remove removes a participant with all their items and payments.
func (h *ParticipantHandler) Remove(w http.ResponseWriter, r *http.Request) {
	sheet, err := h.ledgerUC.RemoveParticipant(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "pid"))
	if err != nil {
		writeDomainError(w, "failed to remove participant", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SheetFromDomain(sheet))
}

// AddExpense records an item for a participant.
func (h *ParticipantHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	var req dto.AddExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "id"), chi.URLParam(r, "pid"))
	if err != nil {
		writeDomainError(w, "invalid item", err)
		return
	}

	sheet, err := h.ledgerUC.AddExpense(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to add item", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.SheetFromDomain(sheet))
}

// RemoveExpense removes an item by position.
func (h *ParticipantHandler) RemoveExpense(w http.ResponseWriter, r *http.Request) {
	input, ok := removeEntryInput(w, r)
	if !ok {
		return
	}

	sheet, err := h.ledgerUC.RemoveExpense(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to remove item", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SheetFromDomain(sheet))
}

// AddPayment records a payment for a participant.
func (h *ParticipantHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.AddPaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "id"), chi.URLParam(r, "pid"))
	if err != nil {
		writeDomainError(w, "invalid payment", err)
		return
	}

	sheet, err := h.ledgerUC.AddPayment(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to add payment", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.SheetFromDomain(sheet))
}

// RemovePayment removes a payment by position.
func (h *ParticipantHandler) RemovePayment(w http.ResponseWriter, r *http.Request) {
	input, ok := removeEntryInput(w, r)
	if !ok {
		return
	}

	sheet, err := h.ledgerUC.RemovePayment(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to remove payment", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SheetFromDomain(sheet))
}

func removeEntryInput(w http.ResponseWriter, r *http.Request) (usecase.RemoveEntryInput, bool) {
	index, err := indexParam(r, "index")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid index", err.Error())
		return usecase.RemoveEntryInput{}, false
	}

	return usecase.RemoveEntryInput{
		SheetID:       chi.URLParam(r, "id"),
		ParticipantID: chi.URLParam(r, "pid"),
		Index:         index,
	}, true
}
