package controllers

import (
	"errors"
	"net/http"

	"github.com/pinpoint-collective/pinpoint/modules/notifications/infrastructure/persistence"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/httpapi"
	"github.com/pinpoint-collective/pinpoint/pkg/serrors"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	_ = httpapi.WriteJSON(w, status, payload)
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	_ = httpapi.WriteError(w, status, code, message, nil)
}

func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var baseErr *serrors.BaseError
	switch {
	case errors.Is(err, persistence.ErrNotificationNotFound):
		writeJSONError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.As(err, &baseErr) && baseErr.Code == "AUTHZ_FORBIDDEN":
		writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "permission denied")
	default:
		composables.UseLogger(r.Context()).WithError(err).Error("unhandled service error")
		writeJSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
