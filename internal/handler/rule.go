package handler

import (
	"io"
	"log/slog"
	"net/http"

	"sortd/internal/domain/models"
	"sortd/internal/domain/services"
	"sortd/internal/httputil"
	"sortd/internal/match"
)

// RuleHandler handles rule HTTP requests
type RuleHandler struct {
	ruleService services.RuleService
	logger      *slog.Logger
}

// NewRuleHandler creates a new rule handler
func NewRuleHandler(ruleService services.RuleService, logger *slog.Logger) *RuleHandler {
	return &RuleHandler{
		ruleService: ruleService,
		logger:      logger,
	}
}

// ListRules retrieves a folder's rules in position order
// GET /api/folders/{id}/rules
func (h *RuleHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	folderID, ok := pathID(w, r)
	if !ok {
		return
	}

	rules, err := h.ruleService.ListRules(r.Context(), folderID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, rules)
}

// GetRule retrieves a rule by ID
// GET /api/rules/{id}
func (h *RuleHandler) GetRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	rule, err := h.ruleService.GetRule(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, rule)
}

// CreateRule creates a rule at the end of its folder's list
// POST /api/rules
func (h *RuleHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRuleRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rule, err := h.ruleService.CreateRule(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, rule)
}

// UpdateRule replaces the named parts of a rule
// PATCH /api/rules/{id}
func (h *RuleHandler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.UpdateRuleRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rule, err := h.ruleService.UpdateRule(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, rule)
}

// DeleteRule removes a rule
// DELETE /api/rules/{id}
func (h *RuleHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.ruleService.DeleteRule(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleRule flips the enabled flag
// POST /api/rules/{id}/toggle
func (h *RuleHandler) ToggleRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.ruleService.ToggleRule(r.Context(), id, req.Enabled); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DuplicateRule deep-copies a rule to the end of its folder's list
// POST /api/rules/{id}/duplicate
func (h *RuleHandler) DuplicateRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	rule, err := h.ruleService.DuplicateRule(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, rule)
}

// ReorderRules reassigns positions from the caller's complete ordering
// PUT /api/folders/{id}/rules/order
func (h *RuleHandler) ReorderRules(w http.ResponseWriter, r *http.Request) {
	folderID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.ReorderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.ruleService.ReorderRules(r.Context(), folderID, req.OrderedIDs); err != nil {
		handleError(w, err)
		return
	}

	rules, err := h.ruleService.ListRules(r.Context(), folderID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, rules)
}

// ExportRules serializes a folder's rules
// GET /api/folders/{id}/rules/export
func (h *RuleHandler) ExportRules(w http.ResponseWriter, r *http.Request) {
	folderID, ok := pathID(w, r)
	if !ok {
		return
	}

	payload, err := h.ruleService.ExportRules(r.Context(), folderID)
	if err != nil {
		handleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="rules.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// ImportRules normalizes and imports a rule payload. The body is the raw
// exported document, either a single rule object or a list.
// POST /api/folders/{id}/rules/import
func (h *RuleHandler) ImportRules(w http.ResponseWriter, r *http.Request) {
	folderID, ok := pathID(w, r)
	if !ok {
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 8<<20))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	rules, err := h.ruleService.ImportRules(r.Context(), folderID, payload)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, rules)
}

// DescribeRule renders a rule's conditions as human-readable text
// GET /api/rules/{id}/describe
func (h *RuleHandler) DescribeRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	rule, err := h.ruleService.GetRule(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	lines, err := match.DescribeGroup(&rule.Conditions)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"match_type": rule.Conditions.MatchType,
		"conditions": lines,
	})
}
