package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/entities/status"
	"github.com/pinpoint-collective/pinpoint/modules/issues/presentation/controllers/dtos"
	"github.com/pinpoint-collective/pinpoint/modules/issues/services"
	"github.com/pinpoint-collective/pinpoint/pkg/application"
	"github.com/pinpoint-collective/pinpoint/pkg/middleware"
	"github.com/pinpoint-collective/pinpoint/pkg/shared"
)

type StatusesController struct {
	app           application.Application
	statusService *services.StatusService
	basePath      string
}

func NewStatusesController(app application.Application) application.Controller {
	return &StatusesController{
		app:           app,
		statusService: app.Service(services.StatusService{}).(*services.StatusService),
		basePath:      "/api/statuses",
	}
}

func (c *StatusesController) Key() string {
	return c.basePath
}

func (c *StatusesController) Register(r *mux.Router) {
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
	router.HandleFunc("/{id}/default", c.SetDefault).Methods(http.MethodPost)
}

func (c *StatusesController) List(w http.ResponseWriter, r *http.Request) {
	statuses, err := c.statusService.GetAll(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	resp := dtos.StatusListResponse{Data: make([]dtos.StatusResponse, 0, len(statuses))}
	for _, st := range statuses {
		resp.Data = append(resp.Data, dtos.NewStatusResponse(st))
	}
	resp.Total = len(resp.Data)
	writeJSON(w, http.StatusOK, resp)
}

func (c *StatusesController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing status id")
		return
	}

	st, err := c.statusService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewStatusResponse(st))
}

func (c *StatusesController) Create(w http.ResponseWriter, r *http.Request) {
	dto := &dtos.CreateStatusDTO{}
	if err := decodeInto(r, dto); err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to parse request body")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, errs)
		return
	}

	st, err := c.statusService.Create(r.Context(), dto.Name, status.Category(dto.Category), dto.SortOrder)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dtos.NewStatusResponse(st))
}

func (c *StatusesController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing status id")
		return
	}

	dto := &dtos.UpdateStatusDTO{}
	if err := decodeInto(r, dto); err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to parse request body")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, errs)
		return
	}

	st, err := c.statusService.Update(r.Context(), id, dto.Name, status.Category(dto.Category), dto.SortOrder)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewStatusResponse(st))
}

func (c *StatusesController) SetDefault(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing status id")
		return
	}

	st, err := c.statusService.SetDefault(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewStatusResponse(st))
}

func (c *StatusesController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing status id")
		return
	}

	if err := c.statusService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
