package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pinpoint-collective/pinpoint/modules/machines/infrastructure/persistence"
	"github.com/pinpoint-collective/pinpoint/modules/machines/services"
	"github.com/pinpoint-collective/pinpoint/pkg/boundary"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/httpapi"
	"github.com/pinpoint-collective/pinpoint/pkg/serrors"
	"github.com/pinpoint-collective/pinpoint/pkg/shared"
)

func decodeInto(r *http.Request, dst any) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return json.NewDecoder(r.Body).Decode(dst)
	}
	if err := r.ParseForm(); err != nil {
		return err
	}
	return shared.Decoder.Decode(dst, r.PostForm)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	_ = httpapi.WriteJSON(w, status, payload)
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	_ = httpapi.WriteError(w, status, code, message, nil)
}

func writeValidationErrors(w http.ResponseWriter, errs serrors.ValidationErrors) {
	_ = httpapi.WriteValidationErrors(w, errs)
}

// respondServiceError maps machines service failures onto the API error
// envelope. Cross-organization reads surface as NOT_FOUND via the boundary
// result.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var vErrs serrors.ValidationErrors
	var bErr *boundary.Error
	var baseErr *serrors.BaseError
	switch {
	case errors.As(err, &vErrs):
		_ = httpapi.WriteValidationErrors(w, vErrs)
	case errors.As(err, &bErr):
		_ = httpapi.WriteBoundaryError(w, bErr.Result)
	case errors.Is(err, composables.ErrForbidden):
		writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "permission denied")
	case errors.Is(err, services.ErrLocationInUse):
		writeJSONError(w, http.StatusConflict, "LOCATION_IN_USE", err.Error())
	case errors.Is(err, persistence.ErrModelNotFound),
		errors.Is(err, persistence.ErrLocationNotFound),
		errors.Is(err, persistence.ErrMachineNotFound):
		writeJSONError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.As(err, &baseErr) && baseErr.Code == "AUTHZ_FORBIDDEN":
		writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "permission denied")
	default:
		composables.UseLogger(r.Context()).WithError(err).Error("unhandled service error")
		writeJSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
