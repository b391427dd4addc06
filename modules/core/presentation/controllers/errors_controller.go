package controllers

import (
	"net/http"
	"strings"

	"github.com/pinpoint-collective/pinpoint/pkg/httpapi"
)

// NotFound answers unmatched routes with the standard JSON error envelope.
func NotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meta := map[string]string{"path": r.URL.Path}
		if requestID := requestIDFrom(w, r); requestID != "" {
			meta["request_id"] = requestID
		}
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "not found", meta)
	}
}

func MethodNotAllowed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meta := map[string]string{
			"method": r.Method,
			"path":   r.URL.Path,
		}
		if requestID := requestIDFrom(w, r); requestID != "" {
			meta["request_id"] = requestID
		}
		_ = httpapi.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", meta)
	}
}

func requestIDFrom(w http.ResponseWriter, r *http.Request) string {
	if w != nil {
		if requestID := strings.TrimSpace(w.Header().Get("X-Request-Id")); requestID != "" {
			return requestID
		}
	}
	if r != nil {
		return strings.TrimSpace(r.Header.Get("X-Request-Id"))
	}
	return ""
}
