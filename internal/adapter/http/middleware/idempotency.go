package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dafeanyi/kobowallet/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	idempotencyTTL       = 24 * time.Hour
)

// storedResponse is the envelope cached per idempotency key once the first
// execution completes, so a replay can restore the original status code.
type storedResponse struct {
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body"`
}

// IdempotencyMiddleware lets clients retry deposits and transfers safely.
// A request carrying an Idempotency-Key that was already completed gets the
// original response back instead of moving money twice; a duplicate that
// arrives while the first execution is still running is rejected with 409.
type IdempotencyMiddleware struct {
	store usecase.IdempotencyStore
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore) *IdempotencyMiddleware {
	return &IdempotencyMiddleware{store: store}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only mutating requests can double-spend.
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		exists, cachedResponse, err := m.store.CheckAndSet(r.Context(), key, nil, idempotencyTTL)
		if err != nil {
			http.Error(w, "idempotency check failed", http.StatusInternalServerError)
			return
		}

		if exists {
			// The first execution has not finished yet. Running the
			// handler again here would move the money twice.
			if cachedResponse == nil || string(cachedResponse) == usecase.IdempotencyProcessing {
				http.Error(w, "request with this idempotency key is still in progress", http.StatusConflict)
				return
			}

			replayResponse(w, cachedResponse)
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		// Only successful outcomes are worth replaying. A failed transfer
		// should be retryable with the same key.
		if recorder.statusCode >= 200 && recorder.statusCode < 300 {
			envelope, err := json.Marshal(storedResponse{
				StatusCode: recorder.statusCode,
				Body:       recorder.body.Bytes(),
			})
			if err == nil {
				m.store.Update(r.Context(), key, envelope, idempotencyTTL)
			}
		}
	})
}

func replayResponse(w http.ResponseWriter, cached []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Idempotency-Replay", "true")

	var stored storedResponse
	if err := json.Unmarshal(cached, &stored); err == nil && stored.StatusCode != 0 {
		w.WriteHeader(stored.StatusCode)
		_, _ = w.Write(stored.Body)
		return
	}

	_, _ = w.Write(cached)
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
