package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRecovery_ReturnsJSON500(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/sheets", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "internal server error") {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
	if !strings.Contains(buf.String(), "panic recovered") || !strings.Contains(buf.String(), "boom") {
		t.Fatalf("expected panic to be logged, got %s", buf.String())
	}
}

func TestLoggingMiddleware_LevelsByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, `"level":"info"`},
		{http.StatusNotFound, `"level":"warn"`},
		{http.StatusInternalServerError, `"level":"error"`},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		mw := NewLoggingMiddleware(zerolog.New(&buf))

		handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			_, _ = w.Write([]byte("body"))
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

		out := buf.String()
		if !strings.Contains(out, tt.level) {
			t.Fatalf("status %d: expected %s in %s", tt.status, tt.level, out)
		}
		if !strings.Contains(out, `"bytes":4`) {
			t.Fatalf("status %d: expected byte count in %s", tt.status, out)
		}
	}
}
