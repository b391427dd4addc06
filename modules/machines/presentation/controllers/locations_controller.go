package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pinpoint-collective/pinpoint/modules/machines/presentation/controllers/dtos"
	"github.com/pinpoint-collective/pinpoint/modules/machines/services"
	"github.com/pinpoint-collective/pinpoint/pkg/application"
	"github.com/pinpoint-collective/pinpoint/pkg/middleware"
	"github.com/pinpoint-collective/pinpoint/pkg/shared"
)

type LocationsController struct {
	app             application.Application
	locationService *services.LocationService
	machineService  *services.MachineService
	basePath        string
}

func NewLocationsController(app application.Application) application.Controller {
	return &LocationsController{
		app:             app,
		locationService: app.Service(services.LocationService{}).(*services.LocationService),
		machineService:  app.Service(services.MachineService{}).(*services.MachineService),
		basePath:        "/api/locations",
	}
}

func (c *LocationsController) Key() string {
	return c.basePath
}

func (c *LocationsController) Register(r *mux.Router) {
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
	router.HandleFunc("/{id}/machines", c.Machines).Methods(http.MethodGet)
}

func (c *LocationsController) List(w http.ResponseWriter, r *http.Request) {
	locations, err := c.locationService.GetAll(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	resp := dtos.LocationListResponse{Data: make([]dtos.LocationResponse, 0, len(locations))}
	for _, l := range locations {
		resp.Data = append(resp.Data, dtos.NewLocationResponse(l))
	}
	resp.Total = len(resp.Data)
	writeJSON(w, http.StatusOK, resp)
}

func (c *LocationsController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing location id")
		return
	}

	loc, err := c.locationService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewLocationResponse(loc))
}

func (c *LocationsController) Create(w http.ResponseWriter, r *http.Request) {
	dto := &dtos.CreateLocationDTO{}
	if err := decodeInto(r, dto); err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to parse request body")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, errs)
		return
	}

	loc, err := c.locationService.Create(r.Context(), dto.Name, dto.Street, dto.City)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dtos.NewLocationResponse(loc))
}

func (c *LocationsController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing location id")
		return
	}

	dto := &dtos.UpdateLocationDTO{}
	if err := decodeInto(r, dto); err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to parse request body")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, errs)
		return
	}

	loc, err := c.locationService.Update(r.Context(), id, dto.Name, dto.Street, dto.City)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewLocationResponse(loc))
}

func (c *LocationsController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing location id")
		return
	}

	if err := c.locationService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (c *LocationsController) Machines(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing location id")
		return
	}

	machines, err := c.machineService.GetByLocation(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	resp := dtos.MachineListResponse{Data: make([]dtos.MachineResponse, 0, len(machines))}
	for _, m := range machines {
		resp.Data = append(resp.Data, dtos.NewMachineResponse(m))
	}
	resp.Total = len(resp.Data)
	writeJSON(w, http.StatusOK, resp)
}
