package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pinpoint-collective/pinpoint/modules/core/presentation/controllers/dtos"
	"github.com/pinpoint-collective/pinpoint/modules/core/services"
	"github.com/pinpoint-collective/pinpoint/pkg/application"
	"github.com/pinpoint-collective/pinpoint/pkg/middleware"
	"github.com/pinpoint-collective/pinpoint/pkg/shared"
)

type MembersController struct {
	app               application.Application
	membershipService *services.MembershipService
	basePath          string
}

func NewMembersController(app application.Application) application.Controller {
	return &MembersController{
		app:               app,
		membershipService: app.Service(services.MembershipService{}).(*services.MembershipService),
		basePath:          "/api/members",
	}
}

func (c *MembersController) Key() string {
	return c.basePath
}

func (c *MembersController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(
		middleware.RequireOrganization(c.app),
		middleware.RequireAuthenticated(),
		middleware.ResolveMembership(c.app),
	)
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Add).Methods(http.MethodPost)
	router.HandleFunc("/{id}/role", c.ChangeRole).Methods(http.MethodPut)
	router.HandleFunc("/{id}", c.Remove).Methods(http.MethodDelete)
}

func (c *MembersController) List(w http.ResponseWriter, r *http.Request) {
	members, err := c.membershipService.GetByOrganization(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	resp := dtos.MemberListResponse{Data: make([]dtos.MemberResponse, 0, len(members))}
	for _, m := range members {
		resp.Data = append(resp.Data, dtos.NewMemberResponse(m))
	}
	resp.Total = len(resp.Data)
	writeJSON(w, http.StatusOK, resp)
}

func (c *MembersController) Add(w http.ResponseWriter, r *http.Request) {
	dto := &dtos.AddMemberDTO{}
	if err := decodeInto(r, dto); err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to parse request body")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, errs)
		return
	}

	member, err := c.membershipService.Add(r.Context(), dto.UserID, dto.RoleID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dtos.NewMemberResponse(member))
}

func (c *MembersController) ChangeRole(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing member id")
		return
	}

	dto := &dtos.ChangeMemberRoleDTO{}
	if err := decodeInto(r, dto); err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to parse request body")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, errs)
		return
	}

	member, err := c.membershipService.ChangeRole(r.Context(), id, dto.RoleID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewMemberResponse(member))
}

func (c *MembersController) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing member id")
		return
	}

	if err := c.membershipService.Remove(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
