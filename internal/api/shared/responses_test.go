package shared

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	RespondWithJSON(rec, req, http.StatusCreated, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"hello":"world"}`, rec.Body.String())
}

func TestRespondWithError(t *testing.T) {
	t.Run("includes the trace ID when present", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		ctx := SetTraceID(req.Context())
		req = req.WithContext(ctx)

		RespondWithError(rec, req, http.StatusBadRequest, "Invalid task data")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid task data")
		assert.Contains(t, rec.Body.String(), GetTraceID(ctx))
	})

	t.Run("omits the trace ID when absent", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)

		RespondWithError(rec, req, http.StatusNotFound, "Task not found")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.NotContains(t, rec.Body.String(), "trace_id")
	})
}

func TestRespondWithErrorAndLog(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)

	RespondWithErrorAndLog(rec, req, http.StatusInternalServerError, "Failed to list tasks",
		errors.New("pq: connection reset by peer"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to list tasks")
	// The raw error never reaches the client.
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestRespondUnauthorized(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondUnauthorized(rec)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestTraceID(t *testing.T) {
	t.Run("set and get round trip", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := SetTraceID(req.Context())

		traceID := GetTraceID(ctx)
		require.NotEmpty(t, traceID)
		assert.Len(t, traceID, 32)
	})

	t.Run("missing trace ID yields empty string", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Empty(t, GetTraceID(req.Context()))
	})

	t.Run("trace IDs are unique per request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		first := GetTraceID(SetTraceID(req.Context()))
		second := GetTraceID(SetTraceID(req.Context()))
		assert.NotEqual(t, first, second)
	})
}
