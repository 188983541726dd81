package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/billsplit/internal/adapter/http/dto"
	"github.com/iho/billsplit/internal/domain"
	"github.com/iho/billsplit/internal/usecase"
)

func testSheet(t *testing.T) *domain.Sheet {
	t.Helper()
	ledger, err := domain.NewLedger(
		domain.Participant{ID: "a", Name: "Alice", Payments: []domain.Payment{{Amount: decimal.NewFromInt(30)}}},
		domain.Participant{ID: "b", Name: "Bob", Items: []domain.Expense{{Name: "Steak", Value: decimal.NewFromInt(30)}}},
	)
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}
	return &domain.Sheet{ID: "s1", Name: "Dinner", Ledger: ledger, Version: 1}
}

func TestSheetHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateSheetInput
	sheet := testSheet(t)
	handler := NewSheetHandler(&sheetServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateSheetInput) (*domain.Sheet, error) {
			captured = input
			return sheet, nil
		},
	})

	body := []byte(`{"name":"Dinner","participants":[{"name":"Alice","payments":[30]},{"name":"Bob","items":[{"name":"Steak","value":"30.00"}]}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sheets", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Name != "Dinner" || len(captured.Participants) != 2 {
		t.Fatalf("unexpected input: %+v", captured)
	}
	if !captured.Participants[1].Items[0].Value.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("unexpected item value: %s", captured.Participants[1].Items[0].Value)
	}

	var resp dto.SheetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "s1" || len(resp.Participants) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSheetHandler_Create_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
	}{
		{"malformed body", `{`, nil, http.StatusBadRequest},
		{"invalid amount", `{"name":"x","participants":[{"name":"A","payments":["abc"]}]}`, nil, http.StatusBadRequest},
		{"negative amount", `{"name":"x","participants":[{"name":"A","payments":[-3]}]}`, nil, http.StatusBadRequest},
		{"invalid name", `{"name":""}`, domain.ErrInvalidSheetName, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewSheetHandler(&sheetServiceStub{
				createFn: func(ctx context.Context, input usecase.CreateSheetInput) (*domain.Sheet, error) {
					if tt.serviceErr == nil {
						t.Fatalf("service should not be called")
					}
					return nil, tt.serviceErr
				},
			})

			rec := httptest.NewRecorder()
			handler.Create(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sheets", bytes.NewBufferString(tt.body)))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSheetHandler_Get(t *testing.T) {
	handler := NewSheetHandler(&sheetServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Sheet, error) {
			if id == "s1" {
				return testSheet(t), nil
			}
			return nil, domain.ErrSheetNotFound
		},
	})

	rec := httptest.NewRecorder()
	handler.Get(rec, setChiURLParams(httptest.NewRequest(http.MethodGet, "/api/v1/sheets/s1", nil), map[string]string{"id": "s1"}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.Get(rec, setChiURLParams(httptest.NewRequest(http.MethodGet, "/api/v1/sheets/zz", nil), map[string]string{"id": "zz"}))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSheetHandler_List(t *testing.T) {
	var captured usecase.ListSheetsInput
	handler := NewSheetHandler(&sheetServiceStub{
		listFn: func(ctx context.Context, input usecase.ListSheetsInput) ([]*domain.Sheet, error) {
			captured = input
			return []*domain.Sheet{testSheet(t)}, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sheets?limit=5&offset=10", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.Limit != 5 || captured.Offset != 10 {
		t.Fatalf("unexpected pagination: %+v", captured)
	}

	var resp dto.ListSheetsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Sheets) != 1 {
		t.Fatalf("expected 1 sheet, got %d", len(resp.Sheets))
	}
}

func TestSheetHandler_Delete(t *testing.T) {
	handler := NewSheetHandler(&sheetServiceStub{
		deleteFn: func(ctx context.Context, id string) error {
			if id == "s1" {
				return nil
			}
			return domain.ErrSheetNotFound
		},
	})

	rec := httptest.NewRecorder()
	handler.Delete(rec, setChiURLParams(httptest.NewRequest(http.MethodDelete, "/api/v1/sheets/s1", nil), map[string]string{"id": "s1"}))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.Delete(rec, setChiURLParams(httptest.NewRequest(http.MethodDelete, "/api/v1/sheets/zz", nil), map[string]string{"id": "zz"}))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
