package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"

	"github.com/pinpoint-collective/pinpoint/modules/core/infrastructure/persistence"
	"github.com/pinpoint-collective/pinpoint/modules/core/presentation/controllers/dtos"
	"github.com/pinpoint-collective/pinpoint/modules/core/services"
	"github.com/pinpoint-collective/pinpoint/pkg/application"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/configuration"
	"github.com/pinpoint-collective/pinpoint/pkg/middleware"
)

type AuthController struct {
	app         application.Application
	authService *services.AuthService
	basePath    string
}

func NewAuthController(app application.Application) application.Controller {
	return &AuthController{
		app:         app,
		authService: app.Service(services.AuthService{}).(*services.AuthService),
		basePath:    "/auth",
	}
}

func (c *AuthController) Key() string {
	return c.basePath
}

func (c *AuthController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()

	router.Handle("/login", middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerPeriod: 10,
		Period:            time.Minute,
	})(http.HandlerFunc(c.Login))).Methods(http.MethodPost)
	router.HandleFunc("/logout", c.Logout).Methods(http.MethodPost)
	router.HandleFunc("/me", c.Me).Methods(http.MethodGet)
	router.HandleFunc("/google", c.Google).Methods(http.MethodGet)
	router.HandleFunc("/google/callback", c.GoogleCallback).Methods(http.MethodGet)
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	dto := &dtos.LoginDTO{}
	if err := decodeInto(r, dto); err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to parse request body")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, errs)
		return
	}

	u, sess, err := c.authService.Authenticate(r.Context(), dto.Email, dto.Password)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	http.SetCookie(w, c.authService.SessionCookie(sess))
	writeJSON(w, http.StatusOK, dtos.SessionResponse{
		User:      dtos.NewUserResponse(u),
		ExpiresAt: sess.ExpiresAt.Format(time.RFC3339),
	})
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	cookie, err := r.Cookie(conf.SidCookieKey)
	if err == nil && cookie.Value != "" {
		if err := c.authService.Logout(r.Context(), cookie.Value); err != nil &&
			!errors.Is(err, persistence.ErrSessionNotFound) {
			respondServiceError(w, r, err)
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     conf.SidCookieKey,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusNoContent, nil)
}

func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	u, err := composables.UseUser(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewUserResponse(u))
}

func (c *AuthController) Google(w http.ResponseWriter, r *http.Request) {
	codeURL, err := c.authService.GoogleAuthenticate(w)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	http.Redirect(w, r, codeURL, http.StatusFound)
}

func (c *AuthController) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	redirectWithError := func(code string) {
		params := url.Values{"error": []string{code}}
		http.Redirect(w, r, "/login?"+params.Encode(), http.StatusFound)
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		redirectWithError("oauth_code_missing")
		return
	}
	state := r.URL.Query().Get("state")
	if state == "" {
		redirectWithError("oauth_state_missing")
		return
	}
	conf := configuration.Use()
	stateCookie, err := r.Cookie(conf.OauthStateCookieKey)
	if err != nil || stateCookie.Value != state {
		redirectWithError("oauth_state_invalid")
		return
	}

	cookie, err := c.authService.CookieGoogleAuthenticate(r.Context(), code)
	if err != nil {
		if errors.Is(err, persistence.ErrUserNotFound) {
			redirectWithError("user_not_found")
		} else {
			composables.UseLogger(r.Context()).WithError(err).Error("google authentication failed")
			redirectWithError("internal")
		}
		return
	}
	http.SetCookie(w, cookie)
	http.Redirect(w, r, "/", http.StatusFound)
}
