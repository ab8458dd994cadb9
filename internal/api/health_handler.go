package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taskboard/taskboard-api/internal/api/shared"
)

// Pinger abstracts the database liveness probe used by the health endpoints.
// *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// dbPingTimeout bounds the health-check probe so a hung database cannot
// stall the endpoint.
const dbPingTimeout = 5 * time.Second

// HealthHandler serves the liveness and store-connectivity endpoints.
type HealthHandler struct {
	db     Pinger
	logger *slog.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger, log *slog.Logger) *HealthHandler {
	if log == nil {
		log = slog.Default()
	}

	return &HealthHandler{
		db:     db,
		logger: log.With(slog.String("component", "health_handler")),
	}
}

// Liveness handles GET /health.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// Database handles GET /health/db, probing store connectivity.
func (h *HealthHandler) Database(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dbPingTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Error("database health check failed", "error", err)
		shared.RespondWithJSON(w, r, http.StatusInternalServerError, map[string]string{"db": "disconnected"})
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"db": "connected"})
}
