package controllers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/pinpoint-collective/pinpoint/modules/machines/presentation/controllers/dtos"
	"github.com/pinpoint-collective/pinpoint/modules/machines/services"
	"github.com/pinpoint-collective/pinpoint/pkg/application"
	"github.com/pinpoint-collective/pinpoint/pkg/middleware"
)

// QRController resolves cabinet sticker tokens. The route is public: a
// player scanning a sticker has no account, no session and no organization
// context, so it only gets the rate limiter.
type QRController struct {
	app            application.Application
	machineService *services.MachineService
	basePath       string
}

func NewQRController(app application.Application) application.Controller {
	return &QRController{
		app:            app,
		machineService: app.Service(services.MachineService{}).(*services.MachineService),
		basePath:       "/api/qr",
	}
}

func (c *QRController) Key() string {
	return c.basePath
}

func (c *QRController) Register(r *mux.Router) {
	limited := middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerPeriod: 30,
		Period:            time.Minute,
	})
	r.Handle(c.basePath+"/{token}", limited(http.HandlerFunc(c.Resolve))).Methods(http.MethodGet)
}

func (c *QRController) Resolve(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	if token == "" {
		writeJSONError(w, http.StatusBadRequest, "INVALID_TOKEN", "missing qr token")
		return
	}

	qr, err := c.machineService.ResolveQR(r.Context(), token)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewQRResolveResponse(qr))
}
