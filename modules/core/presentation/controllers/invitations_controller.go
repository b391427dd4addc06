package controllers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/pinpoint-collective/pinpoint/modules/core/presentation/controllers/dtos"
	"github.com/pinpoint-collective/pinpoint/modules/core/services"
	"github.com/pinpoint-collective/pinpoint/pkg/application"
	"github.com/pinpoint-collective/pinpoint/pkg/middleware"
	"github.com/pinpoint-collective/pinpoint/pkg/shared"
)

type InvitationsController struct {
	app               application.Application
	invitationService *services.InvitationService
	authService       *services.AuthService
	basePath          string
}

func NewInvitationsController(app application.Application) application.Controller {
	return &InvitationsController{
		app:               app,
		invitationService: app.Service(services.InvitationService{}).(*services.InvitationService),
		authService:       app.Service(services.AuthService{}).(*services.AuthService),
		basePath:          "/api/invitations",
	}
}

func (c *InvitationsController) Key() string {
	return c.basePath
}

func (c *InvitationsController) Register(r *mux.Router) {
	// Accept is reached from an email link; the caller has no session yet.
	r.Handle(
		c.basePath+"/accept",
		middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerPeriod: 10,
			Period:            time.Minute,
		})(http.HandlerFunc(c.Accept)),
	).Methods(http.MethodPost)

	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(
		middleware.RequireOrganization(c.app),
		middleware.RequireAuthenticated(),
		middleware.ResolveMembership(c.app),
	)
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.Revoke).Methods(http.MethodDelete)
}

func (c *InvitationsController) List(w http.ResponseWriter, r *http.Request) {
	invitations, err := c.invitationService.GetByOrganization(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	resp := dtos.InvitationListResponse{Data: make([]dtos.InvitationResponse, 0, len(invitations))}
	for _, inv := range invitations {
		resp.Data = append(resp.Data, dtos.NewInvitationResponse(inv))
	}
	resp.Total = len(resp.Data)
	writeJSON(w, http.StatusOK, resp)
}

func (c *InvitationsController) Create(w http.ResponseWriter, r *http.Request) {
	dto := &dtos.CreateInvitationDTO{}
	if err := decodeInto(r, dto); err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to parse request body")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, errs)
		return
	}

	inv, err := c.invitationService.Create(r.Context(), dto.Email, dto.RoleID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dtos.NewInvitationResponse(inv))
}

func (c *InvitationsController) Revoke(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing invitation id")
		return
	}
	if err := c.invitationService.Revoke(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// Accept redeems an invitation token, creating the user account when needed,
// and signs the new member in.
func (c *InvitationsController) Accept(w http.ResponseWriter, r *http.Request) {
	dto := &dtos.AcceptInvitationDTO{}
	if err := decodeInto(r, dto); err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to parse request body")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, errs)
		return
	}

	u, err := c.invitationService.Accept(r.Context(), dto.Token, dto.FirstName, dto.LastName, dto.Password)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	sess, err := c.authService.CreateSessionFor(r.Context(), u)
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
