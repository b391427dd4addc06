package controllers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pinpoint-collective/pinpoint/modules/notifications/presentation/controllers/dtos"
	"github.com/pinpoint-collective/pinpoint/modules/notifications/services"
	"github.com/pinpoint-collective/pinpoint/pkg/application"
	"github.com/pinpoint-collective/pinpoint/pkg/middleware"
	"github.com/pinpoint-collective/pinpoint/pkg/shared"
)

type NotificationsController struct {
	app                 application.Application
	notificationService *services.NotificationService
	basePath            string
}

func NewNotificationsController(app application.Application) application.Controller {
	return &NotificationsController{
		app:                 app,
		notificationService: app.Service(services.NotificationService{}).(*services.NotificationService),
		basePath:            "/api/notifications",
	}
}

func (c *NotificationsController) Key() string {
	return c.basePath
}

func (c *NotificationsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(
		middleware.RequireOrganization(c.app),
		middleware.RequireAuthenticated(),
		middleware.ResolveMembership(c.app),
	)
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/read-all", c.MarkAllRead).Methods(http.MethodPost)
	router.HandleFunc("/{id}/read", c.MarkRead).Methods(http.MethodPost)
}

func (c *NotificationsController) listParams(r *http.Request) *services.ListParams {
	params := &services.ListParams{Limit: 50}
	q := r.URL.Query()
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		if limit > 200 {
			limit = 200
		}
		params.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil && offset > 0 {
		params.Offset = offset
	}
	params.UnreadOnly = q.Get("unread") == "true"
	return params
}

func (c *NotificationsController) List(w http.ResponseWriter, r *http.Request) {
	params := c.listParams(r)

	items, err := c.notificationService.GetPaginated(r.Context(), params)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	total, err := c.notificationService.Count(r.Context(), params)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	unread, err := c.notificationService.CountUnread(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	resp := dtos.NotificationListResponse{
		Data:   make([]dtos.NotificationResponse, 0, len(items)),
		Total:  total,
		Unread: unread,
	}
	for _, n := range items {
		resp.Data = append(resp.Data, dtos.NewNotificationResponse(n))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (c *NotificationsController) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing notification id")
		return
	}

	n, err := c.notificationService.MarkRead(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewNotificationResponse(n))
}

func (c *NotificationsController) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	updated, err := c.notificationService.MarkAllRead(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.MarkAllReadResponse{Updated: updated})
}
