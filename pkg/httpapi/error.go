package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/pinpoint-collective/pinpoint/pkg/boundary"
	"github.com/pinpoint-collective/pinpoint/pkg/serrors"
)

// ErrorEnvelope standardizes JSON error responses for API namespaces.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// WriteBoundaryError renders a failed boundary check. The boundary code picks
// the HTTP status; uncoded validation failures answer 400 with a VALIDATION
// code.
func WriteBoundaryError(w http.ResponseWriter, res boundary.Result) error {
	code := string(res.Code)
	if code == "" {
		code = "VALIDATION"
	}
	return WriteError(w, res.Code.HTTPStatus(), code, res.Error, nil)
}

// WriteValidationErrors renders per-field validation failures as meta entries
// under a single VALIDATION envelope.
func WriteValidationErrors(w http.ResponseWriter, errs serrors.ValidationErrors) error {
	meta := make(map[string]string, len(errs))
	for field, err := range errs {
		meta[field] = err.Message
	}
	return WriteError(w, http.StatusUnprocessableEntity, "VALIDATION", "validation failed", meta)
}
