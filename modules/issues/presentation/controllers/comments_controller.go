package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pinpoint-collective/pinpoint/modules/issues/presentation/controllers/dtos"
	"github.com/pinpoint-collective/pinpoint/modules/issues/services"
	"github.com/pinpoint-collective/pinpoint/pkg/application"
	"github.com/pinpoint-collective/pinpoint/pkg/middleware"
	"github.com/pinpoint-collective/pinpoint/pkg/shared"
)

// CommentsController serves an issue's comment thread. Listing and posting
// hang off the issue path; editing and removal address the comment itself.
type CommentsController struct {
	app            application.Application
	commentService *services.CommentService
	basePath       string
}

func NewCommentsController(app application.Application) application.Controller {
	return &CommentsController{
		app:            app,
		commentService: app.Service(services.CommentService{}).(*services.CommentService),
		basePath:       "/api/comments",
	}
}

func (c *CommentsController) Key() string {
	return c.basePath
}

func (c *CommentsController) Register(r *mux.Router) {
	guarded := []mux.MiddlewareFunc{
		middleware.RequireOrganization(c.app),
		middleware.RequireAuthenticated(),
		middleware.ResolveMembership(c.app),
	}

	thread := r.PathPrefix("/api/issues/{id}/comments").Subrouter()
	thread.Use(guarded...)
	thread.HandleFunc("", c.ListByIssue).Methods(http.MethodGet)
	thread.HandleFunc("", c.Add).Methods(http.MethodPost)

	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(guarded...)
	router.HandleFunc("/{id}", c.Edit).Methods(http.MethodPut)
	router.HandleFunc("/{id}", c.Remove).Methods(http.MethodDelete)
}

func (c *CommentsController) ListByIssue(w http.ResponseWriter, r *http.Request) {
	issueID, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing issue id")
		return
	}

	comments, err := c.commentService.GetByIssue(r.Context(), issueID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	resp := dtos.CommentListResponse{Data: make([]dtos.CommentResponse, 0, len(comments))}
	for _, cm := range comments {
		resp.Data = append(resp.Data, dtos.NewCommentResponse(cm))
	}
	resp.Total = len(resp.Data)
	writeJSON(w, http.StatusOK, resp)
}

func (c *CommentsController) Add(w http.ResponseWriter, r *http.Request) {
	issueID, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing issue id")
		return
	}

	dto := &dtos.CreateCommentDTO{}
	if err := decodeInto(r, dto); err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to parse request body")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, errs)
		return
	}

	cm, err := c.commentService.Add(r.Context(), issueID, dto.Content)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dtos.NewCommentResponse(cm))
}

func (c *CommentsController) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing comment id")
		return
	}

	dto := &dtos.UpdateCommentDTO{}
	if err := decodeInto(r, dto); err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to parse request body")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, errs)
		return
	}

	cm, err := c.commentService.Edit(r.Context(), id, dto.Content)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewCommentResponse(cm))
}

func (c *CommentsController) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing comment id")
		return
	}

	if err := c.commentService.Remove(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
