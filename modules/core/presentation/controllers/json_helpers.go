package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/aggregates/organization"
	"github.com/pinpoint-collective/pinpoint/modules/core/infrastructure/persistence"
	"github.com/pinpoint-collective/pinpoint/modules/core/services"
	"github.com/pinpoint-collective/pinpoint/pkg/boundary"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/httpapi"
	"github.com/pinpoint-collective/pinpoint/pkg/serrors"
	"github.com/pinpoint-collective/pinpoint/pkg/shared"
)

// decodeInto fills dst from the request body, accepting JSON and classic
// form posts.
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

// respondServiceError maps service failures onto the API error envelope.
// Cross-organization reads surface as NOT_FOUND via the boundary result, so
// callers cannot probe what exists in other organizations.
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
	case errors.Is(err, composables.ErrInvalidPassword):
		writeJSONError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
	case errors.Is(err, composables.ErrSessionExpired):
		writeJSONError(w, http.StatusUnauthorized, "SESSION_EXPIRED", "session has expired")
	case errors.Is(err, services.ErrEmailTaken):
		writeJSONError(w, http.StatusConflict, "EMAIL_TAKEN", "email is already in use")
	case errors.Is(err, services.ErrSubdomainTaken):
		writeJSONError(w, http.StatusConflict, "SUBDOMAIN_TAKEN", "subdomain is already in use")
	case errors.Is(err, organization.ErrInvalidSubdomain):
		writeJSONError(w, http.StatusUnprocessableEntity, "INVALID_SUBDOMAIN", err.Error())
	case errors.Is(err, services.ErrAlreadyMember):
		writeJSONError(w, http.StatusConflict, "ALREADY_MEMBER", err.Error())
	case errors.Is(err, services.ErrInvitationPending):
		writeJSONError(w, http.StatusConflict, "INVITATION_PENDING", err.Error())
	case errors.Is(err, services.ErrLastAdmin):
		writeJSONError(w, http.StatusConflict, "LAST_ADMIN", err.Error())
	case errors.Is(err, services.ErrInvitationNotAcceptable):
		writeJSONError(w, http.StatusGone, "INVITATION_UNAVAILABLE", err.Error())
	case errors.Is(err, persistence.ErrOrganizationNotFound),
		errors.Is(err, persistence.ErrUserNotFound),
		errors.Is(err, persistence.ErrRoleNotFound),
		errors.Is(err, persistence.ErrMembershipNotFound),
		errors.Is(err, persistence.ErrInvitationNotFound),
		errors.Is(err, persistence.ErrSessionNotFound):
		writeJSONError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.As(err, &baseErr) && baseErr.Code == "AUTHZ_FORBIDDEN":
		writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "permission denied")
	default:
		composables.UseLogger(r.Context()).WithError(err).Error("unhandled service error")
		writeJSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
