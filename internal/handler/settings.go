package handler

import (
	"log/slog"
	"net/http"

	"sortd/internal/domain/models"
	"sortd/internal/domain/services"
	"sortd/internal/httputil"
)

// SettingsHandler handles settings HTTP requests
type SettingsHandler struct {
	settingsService services.SettingsService
	logger          *slog.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService services.SettingsService, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		logger:          logger,
	}
}

// GetSettings returns defaults merged with stored values
// GET /api/settings
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.Get(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, settings)
}

// UpdateSettings overlays the given values onto the stored document. A null
// value removes its key.
// PATCH /api/settings
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var values models.JSONMap
	if err := httputil.ParseJSON(w, r, &values); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	settings, err := h.settingsService.Update(r.Context(), values)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, settings)
}
