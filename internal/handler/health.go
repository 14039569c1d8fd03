package handler

import (
	"net/http"

	"sortd/internal/httputil"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HealthHandler reports liveness and database reachability
type HealthHandler struct {
	pool *pgxpool.Pool
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(pool *pgxpool.Pool) *HealthHandler {
	return &HealthHandler{pool: pool}
}

// Check pings the database
// GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.pool.Ping(r.Context()); err != nil {
		httputil.RespondError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
