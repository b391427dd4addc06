package routinggates

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	corecontrollers "github.com/pinpoint-collective/pinpoint/modules/core/presentation/controllers"
	"github.com/pinpoint-collective/pinpoint/pkg/middleware"
)

func TestAPIErrorContracts_JSONOnly_For404And405(t *testing.T) {
	notFound := corecontrollers.NotFound()
	methodNotAllowed := corecontrollers.MethodNotAllowed()

	t.Run("404_session_api_is_json", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "http://example.com/api/issues/__nonexistent__", nil)
		req.Header.Set("X-Request-ID", "req-404-api")
		notFound(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
		require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

		var payload apiError
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
		require.Equal(t, "NOT_FOUND", payload.Code)
		require.Equal(t, "not found", payload.Message)
		require.Equal(t, "/api/issues/__nonexistent__", payload.Meta["path"])
		require.Equal(t, "req-404-api", payload.Meta["request_id"])
	})

	t.Run("404_public_api_is_json", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "http://example.com/api/qr/__nonexistent__", nil)
		notFound(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
		require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

		var payload apiError
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
		require.Equal(t, "NOT_FOUND", payload.Code)
		require.Equal(t, "not found", payload.Message)
		require.Equal(t, "/api/qr/__nonexistent__", payload.Meta["path"])
	})

	t.Run("405_session_api_is_json", func(t *testing.T) {
		r := mux.NewRouter()
		r.MethodNotAllowedHandler = methodNotAllowed
		r.HandleFunc("/api/issues", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}).Methods(http.MethodGet)

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "http://example.com/api/issues", nil)
		r.ServeHTTP(rr, req)

		require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
		require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

		var payload apiError
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
		require.Equal(t, "METHOD_NOT_ALLOWED", payload.Code)
		require.Equal(t, "method not allowed", payload.Message)
		require.Equal(t, http.MethodDelete, payload.Meta["method"])
		require.Equal(t, "/api/issues", payload.Meta["path"])
	})

	t.Run("405_public_api_is_json", func(t *testing.T) {
		r := mux.NewRouter()
		r.MethodNotAllowedHandler = methodNotAllowed
		r.HandleFunc("/api/qr/{token}/report", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}).Methods(http.MethodPost)

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "http://example.com/api/qr/abc/report", nil)
		r.ServeHTTP(rr, req)

		require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
		require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

		var payload apiError
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
		require.Equal(t, "METHOD_NOT_ALLOWED", payload.Code)
		require.Equal(t, "method not allowed", payload.Message)
		require.Equal(t, http.MethodGet, payload.Meta["method"])
		require.Equal(t, "/api/qr/abc/report", payload.Meta["path"])
	})
}

func TestAPIErrorContracts_PanicRecovery_IsJSON(t *testing.T) {
	logger := logrus.New()
	opts := middleware.DefaultLoggerOptions()
	opts.Entrypoint = "server"

	h := middleware.WithLogger(logger, opts)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "http://example.com/api/issues/panic", nil)
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var payload panicError
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
	require.Equal(t, "INTERNAL_SERVER_ERROR", payload.Code)
	require.Equal(t, "internal server error", payload.Message)
	require.Equal(t, "/api/issues/panic", payload.Meta["path"])
	require.NotEmpty(t, payload.Meta["request_id"])
}

type apiError struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta"`
}

type panicError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Meta    map[string]string `json:"meta"`
}
