package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pinpoint-collective/pinpoint/modules/core/presentation/controllers/dtos"
	"github.com/pinpoint-collective/pinpoint/modules/core/services"
	"github.com/pinpoint-collective/pinpoint/pkg/application"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/middleware"
)

type OrganizationsController struct {
	app               application.Application
	orgService        *services.OrganizationService
	membershipService *services.MembershipService
	basePath          string
}

func NewOrganizationsController(app application.Application) application.Controller {
	return &OrganizationsController{
		app:               app,
		orgService:        app.Service(services.OrganizationService{}).(*services.OrganizationService),
		membershipService: app.Service(services.MembershipService{}).(*services.MembershipService),
		basePath:          "/api/organizations",
	}
}

func (c *OrganizationsController) Key() string {
	return c.basePath
}

func (c *OrganizationsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireAuthenticated())
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)

	// Routes below act on the organization resolved from the request host.
	current := r.PathPrefix(c.basePath + "/current").Subrouter()
	current.Use(
		middleware.RequireOrganization(c.app),
		middleware.ResolveMembership(c.app),
	)
	current.HandleFunc("", c.Current).Methods(http.MethodGet)
	current.Handle("", http.HandlerFunc(c.Update)).Methods(http.MethodPatch)
	current.Handle("", http.HandlerFunc(c.Deactivate)).Methods(http.MethodDelete)
}

// List returns the organizations the caller belongs to.
func (c *OrganizationsController) List(w http.ResponseWriter, r *http.Request) {
	u, err := composables.UseUser(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	memberships, err := c.membershipService.GetByUser(r.Context(), u.ID())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	resp := dtos.OrganizationListResponse{Data: make([]dtos.OrganizationResponse, 0, len(memberships))}
	for _, m := range memberships {
		org, err := c.orgService.GetByID(r.Context(), m.OrganizationID())
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		resp.Data = append(resp.Data, dtos.NewOrganizationResponse(org))
	}
	resp.Total = len(resp.Data)
	writeJSON(w, http.StatusOK, resp)
}

// Create provisions a new organization with the caller as its first admin.
func (c *OrganizationsController) Create(w http.ResponseWriter, r *http.Request) {
	dto := &dtos.CreateOrganizationDTO{}
	if err := decodeInto(r, dto); err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to parse request body")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, errs)
		return
	}

	org, err := c.orgService.Create(r.Context(), dto.Name, dto.Subdomain)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dtos.NewOrganizationResponse(org))
}

func (c *OrganizationsController) Current(w http.ResponseWriter, r *http.Request) {
	orgID, err := composables.UseOrgID(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "ORG_REQUIRED", "organization could not be resolved from request")
		return
	}
	org, err := c.orgService.GetByID(r.Context(), orgID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewOrganizationResponse(org))
}

func (c *OrganizationsController) Update(w http.ResponseWriter, r *http.Request) {
	orgID, err := composables.UseOrgID(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "ORG_REQUIRED", "organization could not be resolved from request")
		return
	}

	dto := &dtos.UpdateOrganizationDTO{}
	if err := decodeInto(r, dto); err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to parse request body")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, errs)
		return
	}

	org, err := c.orgService.Update(r.Context(), orgID, dto.Name)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewOrganizationResponse(org))
}

func (c *OrganizationsController) Deactivate(w http.ResponseWriter, r *http.Request) {
	orgID, err := composables.UseOrgID(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "ORG_REQUIRED", "organization could not be resolved from request")
		return
	}

	if _, err := c.orgService.Deactivate(r.Context(), orgID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
