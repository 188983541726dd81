package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iho/billsplit/internal/adapter/http/dto"
	"github.com/iho/billsplit/internal/domain"
	"github.com/iho/billsplit/internal/settlement"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError writes err with the status chosen by mapDomainError.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	writeError(w, mapDomainError(err), message, err.Error())
}

// decodeJSON decodes a bounded request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrSheetNotFound),
		errors.Is(err, domain.ErrParticipantNotFound),
		errors.Is(err, domain.ErrExpenseNotFound),
		errors.Is(err, domain.ErrPaymentNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateParticipant),
		errors.Is(err, domain.ErrUnbalancedLedger):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrSameParticipant),
		errors.Is(err, domain.ErrInvalidParticipantName),
		errors.Is(err, domain.ErrInvalidExpenseName),
		errors.Is(err, domain.ErrInvalidSheetName),
		errors.Is(err, settlement.ErrInvalidStrategy):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// indexParam parses a non-negative position from the URL.
func indexParam(r *http.Request, key string) (int, error) {
	raw := chi.URLParam(r, key)
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return i, nil
}
