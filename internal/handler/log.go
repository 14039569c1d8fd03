package handler

import (
	"log/slog"
	"net/http"

	"sortd/internal/domain/models"
	"sortd/internal/domain/services"
	"sortd/internal/httputil"
)

const (
	defaultLogLimit  = 100
	defaultUndoLimit = 50
	maxPageLimit     = 1000
)

// LogHandler handles execution-log and undo HTTP requests
type LogHandler struct {
	ledger    services.LedgerService
	analytics services.AnalyticsService
	logger    *slog.Logger
}

// NewLogHandler creates a new log handler
func NewLogHandler(ledger services.LedgerService, analytics services.AnalyticsService, logger *slog.Logger) *LogHandler {
	return &LogHandler{
		ledger:    ledger,
		analytics: analytics,
		logger:    logger,
	}
}

// AppendLog records an executed action reported by the executor
// POST /api/logs
func (h *LogHandler) AppendLog(w http.ResponseWriter, r *http.Request) {
	var req models.AppendLogRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.ledger.Append(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, entry)
}

// ListLog retrieves log entries newest first
// GET /api/logs?limit=&offset=
func (h *LogHandler) ListLog(w http.ResponseWriter, r *http.Request) {
	limit := clampLimit(httputil.QueryInt(r, "limit", defaultLogLimit))
	offset := httputil.QueryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	entries, err := h.ledger.ListLog(r.Context(), limit, offset)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, entries)
}

// ClearLog deletes all log entries
// DELETE /api/logs
func (h *LogHandler) ClearLog(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.ClearLog(r.Context()); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetReport computes the activity report from the current log snapshot
// GET /api/logs/stats
func (h *LogHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.analytics.Report(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, report)
}

// ListUndo retrieves undo entries newest first
// GET /api/undo?limit=
func (h *LogHandler) ListUndo(w http.ResponseWriter, r *http.Request) {
	limit := clampLimit(httputil.QueryInt(r, "limit", defaultUndoLimit))

	entries, err := h.ledger.ListUndo(r.Context(), limit)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, entries)
}

// ExecuteUndo restores a reversible action and returns the reversal entry
// POST /api/undo/{id}
func (h *LogHandler) ExecuteUndo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	reversal, err := h.ledger.ExecuteUndo(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, reversal)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLogLimit
	}
	if limit > maxPageLimit {
		return maxPageLimit
	}
	return limit
}
