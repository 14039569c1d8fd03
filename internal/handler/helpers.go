package handler

import (
	"errors"
	"net/http"

	"sortd/internal/domain"
	"sortd/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var conflictErr *domain.ConflictError
	var transportErr *domain.TransportError

	switch {
	case errors.Is(err, domain.ErrEmptyPayload),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, domain.ErrInvalidShape),
		errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	case errors.As(err, &transportErr):
		httputil.RespondError(w, http.StatusBadGateway, transportErr.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// pathID reads the {id} segment; an empty segment is a routing mistake and
// reported as 400.
func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "id is required")
		return "", false
	}
	return id, true
}
