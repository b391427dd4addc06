package controllers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pinpoint-collective/pinpoint/modules/machines/presentation/controllers/dtos"
	"github.com/pinpoint-collective/pinpoint/modules/machines/services"
	"github.com/pinpoint-collective/pinpoint/pkg/application"
	"github.com/pinpoint-collective/pinpoint/pkg/middleware"
	"github.com/pinpoint-collective/pinpoint/pkg/shared"
)

// ModelsController exposes the shared machine catalog. The catalog is
// global and read-only over HTTP; imports go through the ops CLI.
type ModelsController struct {
	app          application.Application
	modelService *services.ModelService
	basePath     string
}

func NewModelsController(app application.Application) application.Controller {
	return &ModelsController{
		app:          app,
		modelService: app.Service(services.ModelService{}).(*services.ModelService),
		basePath:     "/api/models",
	}
}

func (c *ModelsController) Key() string {
	return c.basePath
}

func (c *ModelsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(
		middleware.RequireOrganization(c.app),
		middleware.RequireAuthenticated(),
		middleware.ResolveMembership(c.app),
	)
	router.HandleFunc("", c.Search).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.GetByID).Methods(http.MethodGet)
}

func (c *ModelsController) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := c.modelService.Search(r.Context(), query, limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	resp := dtos.ModelListResponse{Data: make([]dtos.ModelResponse, 0, len(entries))}
	for _, entry := range entries {
		resp.Data = append(resp.Data, dtos.NewModelResponse(entry))
	}
	resp.Total = len(resp.Data)
	writeJSON(w, http.StatusOK, resp)
}

func (c *ModelsController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing model id")
		return
	}

	entry, err := c.modelService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewModelResponse(entry))
}
