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

type RolesController struct {
	app         application.Application
	roleService *services.RoleService
	basePath    string
}

func NewRolesController(app application.Application) application.Controller {
	return &RolesController{
		app:         app,
		roleService: app.Service(services.RoleService{}).(*services.RoleService),
		basePath:    "/api/roles",
	}
}

func (c *RolesController) Key() string {
	return c.basePath
}

func (c *RolesController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(
		middleware.RequireOrganization(c.app),
		middleware.RequireAuthenticated(),
		middleware.ResolveMembership(c.app),
	)
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.GetByID).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)

	// The permission catalog is global and read-only; roles reference it by id.
	perms := r.PathPrefix("/api/permissions").Subrouter()
	perms.Use(
		middleware.RequireOrganization(c.app),
		middleware.RequireAuthenticated(),
		middleware.ResolveMembership(c.app),
	)
	perms.HandleFunc("", c.Permissions).Methods(http.MethodGet)
}

func (c *RolesController) List(w http.ResponseWriter, r *http.Request) {
	roles, err := c.roleService.GetAll(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	resp := dtos.RoleListResponse{Data: make([]dtos.RoleResponse, 0, len(roles))}
	for _, entity := range roles {
		resp.Data = append(resp.Data, dtos.NewRoleResponse(entity))
	}
	resp.Total = len(resp.Data)
	writeJSON(w, http.StatusOK, resp)
}

func (c *RolesController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing role id")
		return
	}
	entity, err := c.roleService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewRoleResponse(entity))
}

func (c *RolesController) Create(w http.ResponseWriter, r *http.Request) {
	dto := &dtos.CreateRoleDTO{}
	if err := decodeInto(r, dto); err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to parse request body")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, errs)
		return
	}

	entity, err := c.roleService.Create(r.Context(), dto.Name, dto.PermissionIDs)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dtos.NewRoleResponse(entity))
}

func (c *RolesController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing role id")
		return
	}

	dto := &dtos.UpdateRoleDTO{}
	if err := decodeInto(r, dto); err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to parse request body")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, errs)
		return
	}

	entity, err := c.roleService.Update(r.Context(), id, dto.Name, dto.PermissionIDs)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewRoleResponse(entity))
}

func (c *RolesController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing role id")
		return
	}
	if err := c.roleService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (c *RolesController) Permissions(w http.ResponseWriter, r *http.Request) {
	perms, err := c.roleService.Permissions(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	resp := dtos.PermissionListResponse{Data: make([]dtos.PermissionResponse, 0, len(perms))}
	for _, p := range perms {
		resp.Data = append(resp.Data, dtos.NewPermissionResponse(p))
	}
	resp.Total = len(resp.Data)
	writeJSON(w, http.StatusOK, resp)
}
