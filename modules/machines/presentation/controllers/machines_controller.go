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

type MachinesController struct {
	app            application.Application
	machineService *services.MachineService
	basePath       string
}

func NewMachinesController(app application.Application) application.Controller {
	return &MachinesController{
		app:            app,
		machineService: app.Service(services.MachineService{}).(*services.MachineService),
		basePath:       "/api/machines",
	}
}

func (c *MachinesController) Key() string {
	return c.basePath
}

func (c *MachinesController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(
		middleware.RequireOrganization(c.app),
		middleware.RequireAuthenticated(),
		middleware.ResolveMembership(c.app),
	)
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.GetByID).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
	router.HandleFunc("/{id}/location", c.Move).Methods(http.MethodPut)
	router.HandleFunc("/{id}/owner", c.AssignOwner).Methods(http.MethodPut)
	router.HandleFunc("/{id}/qr/rotate", c.RotateQRToken).Methods(http.MethodPost)
}

func (c *MachinesController) List(w http.ResponseWriter, r *http.Request) {
	machines, err := c.machineService.GetAll(r.Context())
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

func (c *MachinesController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing machine id")
		return
	}

	m, err := c.machineService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewMachineResponse(m))
}

func (c *MachinesController) Create(w http.ResponseWriter, r *http.Request) {
	dto := &dtos.CreateMachineDTO{}
	if err := decodeInto(r, dto); err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to parse request body")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, errs)
		return
	}

	m, err := c.machineService.Create(r.Context(), dto.ModelID, dto.LocationID, dto.OwnerID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dtos.NewMachineResponse(m))
}

func (c *MachinesController) Move(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing machine id")
		return
	}

	dto := &dtos.MoveMachineDTO{}
	if err := decodeInto(r, dto); err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to parse request body")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, errs)
		return
	}

	m, err := c.machineService.Move(r.Context(), id, dto.LocationID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewMachineResponse(m))
}

func (c *MachinesController) AssignOwner(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing machine id")
		return
	}

	dto := &dtos.AssignOwnerDTO{}
	if err := decodeInto(r, dto); err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to parse request body")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, errs)
		return
	}

	m, err := c.machineService.AssignOwner(r.Context(), id, dto.UserID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewMachineResponse(m))
}

func (c *MachinesController) RotateQRToken(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing machine id")
		return
	}

	m, err := c.machineService.RotateQRToken(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewMachineResponse(m))
}

func (c *MachinesController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing machine id")
		return
	}

	if err := c.machineService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
