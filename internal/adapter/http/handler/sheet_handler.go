package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/billsplit/internal/adapter/http/dto"
	"github.com/iho/billsplit/internal/domain"
	"github.com/iho/billsplit/internal/usecase"
)

// SheetService defines the behavior needed by SheetHandler.
type SheetService interface {
	CreateSheet(ctx context.Context, input usecase.CreateSheetInput) (*domain.Sheet, error)
	GetSheet(ctx context.Context, id string) (*domain.Sheet, error)
	ListSheets(ctx context.Context, input usecase.ListSheetsInput) ([]*domain.Sheet, error)
	DeleteSheet(ctx context.Context, id string) error
}

// SheetHandler handles sheet-related HTTP requests.
type SheetHandler struct {
	sheetUC SheetService
}

// NewSheetHandler creates a new SheetHandler.
func NewSheetHandler(sheetUC SheetService) *SheetHandler {
	return &SheetHandler{sheetUC: sheetUC}
}

// Create creates a sheet, optionally importing participants.
func (h *SheetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.SheetDocument
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid sheet", err.Error())
		return
	}

	sheet, err := h.sheetUC.CreateSheet(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to create sheet", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.SheetFromDomain(sheet))
}

// Get retrieves a sheet by ID.
func (h *SheetHandler) Get(w http.ResponseWriter, r *http.Request) {
	sheet, err := h.sheetUC.GetSheet(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get sheet", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SheetFromDomain(sheet))
}

// List lists sheets.
func (h *SheetHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", usecase.DefaultListLimit)
	offset := parseIntQuery(r, "offset", 0)

	sheets, err := h.sheetUC.ListSheets(r.Context(), usecase.ListSheetsInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeDomainError(w, "failed to list sheets", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListSheetsResponse{
		Sheets: dto.SheetsFromDomain(sheets),
		Limit:  limit,
		Offset: offset,
	})
}

// Delete removes a sheet.
func (h *SheetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sheetUC.DeleteSheet(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "failed to delete sheet", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
