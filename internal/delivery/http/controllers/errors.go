package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventpass/internal/delivery/http/helpers"
	"eventpass/internal/domain"
)

// writeServiceError maps service errors to an API error response. notFoundMsg is the
// message used for domain.ErrNotFound. Unexpected errors are logged and reported as 500.
func writeServiceError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeValidation, verr.Error())
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, notFoundMsg)
	case errors.Is(err, domain.ErrDuplicateEmail):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "this email is already registered")
	case errors.Is(err, domain.ErrRegistrationClosed):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeRegistrationClosed, "registrations are currently closed")
	case errors.Is(err, domain.ErrInvalidCredentials):
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrUnauthorized):
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
	}
}
