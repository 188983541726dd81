package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/iho/billsplit/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayHeader marks a response served from the store.
	IdempotencyReplayHeader = "X-Idempotency-Replay"
)

// storedResponse is the cached form of a completed request.
type storedResponse struct {
	StatusCode  int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
}

// IdempotencyMiddleware replays the response of a repeated mutating request
// carrying the same Idempotency-Key.
type IdempotencyMiddleware struct {
	store   usecase.IdempotencyStore
	ttl     time.Duration
	replays prometheus.Counter
	logger  zerolog.Logger
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware. A zero ttl
// uses usecase.IdempotencyKeyTTL and replays may be nil.
func NewIdempotencyMiddleware(
	store usecase.IdempotencyStore,
	ttl time.Duration,
	replays prometheus.Counter,
	logger zerolog.Logger,
) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = usecase.IdempotencyKeyTTL
	}
	return &IdempotencyMiddleware{store: store, ttl: ttl, replays: replays, logger: logger}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only apply to mutating requests
		if r.Method != http.MethodPost && r.Method != http.MethodDelete {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get(IdempotencyKeyHeader)
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		key := r.Method + ":" + r.URL.Path + ":" + header

		exists, cached, err := m.store.CheckAndSet(r.Context(), key, nil, m.ttl)
		if err != nil {
			m.logger.Error().Err(err).Str("key", header).Msg("idempotency check failed")
			writeJSONError(w, http.StatusInternalServerError, "idempotency check failed")
			return
		}

		if exists {
			var stored storedResponse
			if cached == nil || json.Unmarshal(cached, &stored) != nil || stored.StatusCode == 0 {
				writeJSONError(w, http.StatusConflict, "request with this idempotency key is in progress")
				return
			}

			if m.replays != nil {
				m.replays.Inc()
			}
			if stored.ContentType != "" {
				w.Header().Set("Content-Type", stored.ContentType)
			}
			w.Header().Set(IdempotencyReplayHeader, "true")
			w.WriteHeader(stored.StatusCode)
			_, _ = w.Write(stored.Body)
			return
		}

		// The claim must outlive the client: release or store it on a
		// context that is not cancelled with the request.
		storeCtx := context.WithoutCancel(r.Context())
		completed := false
		defer func() {
			if completed {
				return
			}
			if err := m.store.Release(storeCtx, key); err != nil {
				m.logger.Warn().Err(err).Str("key", header).Msg("failed to release idempotency key")
			}
		}()

		// Capture response
		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		if recorder.statusCode < 200 || recorder.statusCode >= 300 {
			return
		}

		payload, err := json.Marshal(storedResponse{
			StatusCode:  recorder.statusCode,
			ContentType: recorder.Header().Get("Content-Type"),
			Body:        recorder.body.Bytes(),
		})
		if err == nil {
			err = m.store.Update(storeCtx, key, payload, m.ttl)
		}
		if err != nil {
			m.logger.Warn().Err(err).Str("key", header).Msg("failed to store idempotent response")
			return
		}
		completed = true
	})
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
