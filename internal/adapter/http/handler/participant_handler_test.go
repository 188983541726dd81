package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/billsplit/internal/domain"
	"github.com/iho/billsplit/internal/usecase"
)

func TestParticipantHandler_Add(t *testing.T) {
	var captured usecase.AddParticipantInput
	handler := NewParticipantHandler(&ledgerServiceStub{
		addParticipantFn: func(ctx context.Context, input usecase.AddParticipantInput) (*domain.Sheet, error) {
			captured = input
			return testSheet(t), nil
		},
	})

	req := setChiURLParams(httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name":"Carol"}`)), map[string]string{"id": "s1"})
	rec := httptest.NewRecorder()
	handler.Add(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured != (usecase.AddParticipantInput{SheetID: "s1", Name: "Carol"}) {
		t.Fatalf("unexpected input: %+v", captured)
	}
}

func TestParticipantHandler_Remove(t *testing.T) {
	handler := NewParticipantHandler(&ledgerServiceStub{
		removeParticipantFn: func(ctx context.Context, sheetID, participantID string) (*domain.Sheet, error) {
			if participantID != "a" {
				return nil, domain.ErrParticipantNotFound
			}
			return testSheet(t), nil
		},
	})

	rec := httptest.NewRecorder()
	handler.Remove(rec, setChiURLParams(httptest.NewRequest(http.MethodDelete, "/", nil), map[string]string{"id": "s1", "pid": "a"}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.Remove(rec, setChiURLParams(httptest.NewRequest(http.MethodDelete, "/", nil), map[string]string{"id": "s1", "pid": "zz"}))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestParticipantHandler_AddExpense(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantValue  string
	}{
		{"number value", `{"name":"Pizza","value":12.5}`, http.StatusCreated, "12.5"},
		{"string value with comma", `{"name":"Pizza","value":"12,50"}`, http.StatusCreated, "12.5"},
		{"negative value", `{"name":"Pizza","value":-1}`, http.StatusBadRequest, ""},
		{"missing value", `{"name":"Pizza"}`, http.StatusBadRequest, ""},
		{"malformed", `{"name":`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured usecase.AddExpenseInput
			handler := NewParticipantHandler(&ledgerServiceStub{
				addExpenseFn: func(ctx context.Context, input usecase.AddExpenseInput) (*domain.Sheet, error) {
					captured = input
					return testSheet(t), nil
				},
			})

			req := setChiURLParams(httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(tt.body)), map[string]string{"id": "s1", "pid": "a"})
			rec := httptest.NewRecorder()
			handler.AddExpense(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantValue != "" {
				if captured.SheetID != "s1" || captured.ParticipantID != "a" || captured.Name != "Pizza" {
					t.Fatalf("unexpected input: %+v", captured)
				}
				if !captured.Value.Equal(decimal.RequireFromString(tt.wantValue)) {
					t.Fatalf("expected value %s, got %s", tt.wantValue, captured.Value)
				}
			}
		})
	}
}

func TestParticipantHandler_AddPayment(t *testing.T) {
	var captured usecase.AddPaymentInput
	handler := NewParticipantHandler(&ledgerServiceStub{
		addPaymentFn: func(ctx context.Context, input usecase.AddPaymentInput) (*domain.Sheet, error) {
			captured = input
			return testSheet(t), nil
		},
	})

	req := setChiURLParams(httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"amount":"40"}`)), map[string]string{"id": "s1", "pid": "b"})
	rec := httptest.NewRecorder()
	handler.AddPayment(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.ParticipantID != "b" || !captured.Amount.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("unexpected input: %+v", captured)
	}
}

func TestParticipantHandler_RemoveEntries(t *testing.T) {
	var expenseInput, paymentInput usecase.RemoveEntryInput
	handler := NewParticipantHandler(&ledgerServiceStub{
		removeExpenseFn: func(ctx context.Context, input usecase.RemoveEntryInput) (*domain.Sheet, error) {
			expenseInput = input
			return testSheet(t), nil
		},
		removePaymentFn: func(ctx context.Context, input usecase.RemoveEntryInput) (*domain.Sheet, error) {
			paymentInput = input
			return nil, domain.ErrPaymentNotFound
		},
	})

	rec := httptest.NewRecorder()
	handler.RemoveExpense(rec, setChiURLParams(httptest.NewRequest(http.MethodDelete, "/", nil), map[string]string{"id": "s1", "pid": "b", "index": "0"}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if expenseInput != (usecase.RemoveEntryInput{SheetID: "s1", ParticipantID: "b", Index: 0}) {
		t.Fatalf("unexpected input: %+v", expenseInput)
	}

	rec = httptest.NewRecorder()
	handler.RemovePayment(rec, setChiURLParams(httptest.NewRequest(http.MethodDelete, "/", nil), map[string]string{"id": "s1", "pid": "a", "index": "3"}))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if paymentInput.Index != 3 {
		t.Fatalf("expected index 3, got %d", paymentInput.Index)
	}

	rec = httptest.NewRecorder()
	handler.RemovePayment(rec, setChiURLParams(httptest.NewRequest(http.MethodDelete, "/", nil), map[string]string{"id": "s1", "pid": "a", "index": "abc"}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid index, got %d", rec.Code)
	}
}
