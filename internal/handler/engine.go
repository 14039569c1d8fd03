package handler

import (
	"log/slog"
	"net/http"

	"sortd/internal/domain/services"
	"sortd/internal/httputil"
)

// EngineHandler handles engine status, pause and preview HTTP requests
type EngineHandler struct {
	engineService services.EngineService
	logger        *slog.Logger
}

// NewEngineHandler creates a new engine handler
func NewEngineHandler(engineService services.EngineService, logger *slog.Logger) *EngineHandler {
	return &EngineHandler{
		engineService: engineService,
		logger:        logger,
	}
}

// GetStatus reads the engine snapshot
// GET /api/engine/status
func (h *EngineHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.engineService.Status(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, status)
}

// SetPaused pauses or resumes the engine
// PUT /api/engine/paused
func (h *EngineHandler) SetPaused(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Paused bool `json:"paused"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status, err := h.engineService.SetPaused(r.Context(), req.Paused)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, status)
}

// TogglePaused flips the paused flag
// POST /api/engine/toggle
func (h *EngineHandler) TogglePaused(w http.ResponseWriter, r *http.Request) {
	status, err := h.engineService.TogglePaused(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, status)
}

// PreviewRule lists the files that would currently match a rule
// GET /api/rules/{id}/preview
func (h *EngineHandler) PreviewRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	paths, err := h.engineService.PreviewRule(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"rule_id": id,
		"matches": paths,
	})
}

// PreviewFile reports whether one file currently matches a rule
// GET /api/rules/{id}/preview/file?path=
func (h *EngineHandler) PreviewFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	path := r.URL.Query().Get("path")
	if path == "" {
		httputil.RespondError(w, http.StatusBadRequest, "path query parameter is required")
		return
	}

	matched, err := h.engineService.PreviewFile(r.Context(), id, path)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"rule_id": id,
		"path":    path,
		"matches": matched,
	})
}
