package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/aggregates/issue"
	"github.com/pinpoint-collective/pinpoint/modules/issues/presentation/controllers/dtos"
	"github.com/pinpoint-collective/pinpoint/modules/issues/services"
	"github.com/pinpoint-collective/pinpoint/pkg/application"
	"github.com/pinpoint-collective/pinpoint/pkg/middleware"
	"github.com/pinpoint-collective/pinpoint/pkg/repo"
	"github.com/pinpoint-collective/pinpoint/pkg/shared"
)

const (
	defaultIssuePageSize = 50
	maxIssuePageSize     = 200
)

// issueSortKeys maps query-string sort names onto domain fields.
var issueSortKeys = map[string]issue.Field{
	"title":      issue.TitleField,
	"priority":   issue.PriorityField,
	"created_at": issue.CreatedAtField,
	"updated_at": issue.UpdatedAtField,
}

type IssuesController struct {
	app          application.Application
	issueService *services.IssueService
	basePath     string
}

func NewIssuesController(app application.Application) application.Controller {
	return &IssuesController{
		app:          app,
		issueService: app.Service(services.IssueService{}).(*services.IssueService),
		basePath:     "/api/issues",
	}
}

func (c *IssuesController) Key() string {
	return c.basePath
}

func (c *IssuesController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(
		middleware.RequireOrganization(c.app),
		middleware.RequireAuthenticated(),
		middleware.ResolveMembership(c.app),
	)
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/export", c.Export).Methods(http.MethodGet)
	router.HandleFunc("/bulk/status", c.BulkChangeStatus).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.GetByID).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
	router.HandleFunc("/{id}/assignee", c.Assign).Methods(http.MethodPut)
	router.HandleFunc("/{id}/status", c.ChangeStatus).Methods(http.MethodPut)
	router.HandleFunc("/{id}/activity", c.Activity).Methods(http.MethodGet)
	router.HandleFunc("/{id}/activity/{activityId}/revert", c.Revert).Methods(http.MethodPost)
}

// parseFindParams turns the listing query string into repository find
// params: paging, free-text search, column filters and sorting.
func parseFindParams(r *http.Request) *issue.FindParams {
	query := r.URL.Query()

	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit <= 0 || limit > maxIssuePageSize {
		limit = defaultIssuePageSize
	}
	offset, _ := strconv.Atoi(query.Get("offset"))
	if offset < 0 {
		offset = 0
	}

	params := &issue.FindParams{
		Limit:  limit,
		Offset: offset,
		Search: query.Get("search"),
	}
	if v := query.Get("status_id"); v != "" {
		params.Filters = append(params.Filters, issue.Filter{Column: issue.StatusField, Filter: repo.Eq(v)})
	}
	if v := query.Get("machine_id"); v != "" {
		params.Filters = append(params.Filters, issue.Filter{Column: issue.MachineField, Filter: repo.Eq(v)})
	}
	if v := query.Get("assignee_id"); v != "" {
		params.Filters = append(params.Filters, issue.Filter{Column: issue.AssigneeField, Filter: repo.Eq(v)})
	}
	if v := query.Get("priority"); v != "" {
		params.Filters = append(params.Filters, issue.Filter{Column: issue.PriorityField, Filter: repo.Eq(v)})
	}
	if field, ok := issueSortKeys[query.Get("sort")]; ok {
		sorted := repo.Desc(field)
		if query.Get("order") == "asc" {
			sorted = repo.Asc(field)
		}
		params.SortBy = repo.SortBy[issue.Field]{Fields: []repo.SortByField[issue.Field]{sorted}}
	}
	return params
}

func (c *IssuesController) List(w http.ResponseWriter, r *http.Request) {
	params := parseFindParams(r)

	issues, err := c.issueService.GetPaginated(r.Context(), params)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	total, err := c.issueService.Count(r.Context(), params)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	resp := dtos.IssueListResponse{Data: make([]dtos.IssueResponse, 0, len(issues)), Total: total}
	for _, i := range issues {
		resp.Data = append(resp.Data, dtos.NewIssueResponse(i))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (c *IssuesController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing issue id")
		return
	}

	i, err := c.issueService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewIssueResponse(i))
}

func (c *IssuesController) Create(w http.ResponseWriter, r *http.Request) {
	dto := &dtos.CreateIssueDTO{}
	if err := decodeInto(r, dto); err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to parse request body")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, errs)
		return
	}

	i, err := c.issueService.Create(r.Context(), services.IssueDraft{
		MachineID:   dto.MachineID,
		StatusID:    dto.StatusID,
		Title:       dto.Title,
		Description: dto.Description,
		Priority:    issue.Priority(dto.Priority),
		Severity:    issue.Severity(dto.Severity),
		Consistency: issue.Consistency(dto.Consistency),
		AssigneeID:  dto.AssigneeID,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dtos.NewIssueResponse(i))
}

func (c *IssuesController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing issue id")
		return
	}

	dto := &dtos.UpdateIssueDTO{}
	if err := decodeInto(r, dto); err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to parse request body")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, errs)
		return
	}

	i, err := c.issueService.Update(r.Context(), id, services.IssueChanges{
		Title:       dto.Title,
		Description: dto.Description,
		Priority:    issue.Priority(dto.Priority),
		Severity:    issue.Severity(dto.Severity),
		Consistency: issue.Consistency(dto.Consistency),
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewIssueResponse(i))
}

func (c *IssuesController) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing issue id")
		return
	}

	dto := &dtos.AssignIssueDTO{}
	if err := decodeInto(r, dto); err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to parse request body")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, errs)
		return
	}

	i, err := c.issueService.Assign(r.Context(), id, dto.UserID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewIssueResponse(i))
}

func (c *IssuesController) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing issue id")
		return
	}

	dto := &dtos.ChangeStatusDTO{}
	if err := decodeInto(r, dto); err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to parse request body")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, errs)
		return
	}

	i, err := c.issueService.ChangeStatus(r.Context(), id, dto.StatusID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewIssueResponse(i))
}

func (c *IssuesController) BulkChangeStatus(w http.ResponseWriter, r *http.Request) {
	dto := &dtos.BulkChangeStatusDTO{}
	if err := decodeInto(r, dto); err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to parse request body")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, errs)
		return
	}

	issues, err := c.issueService.BulkChangeStatus(r.Context(), dto.IssueIDs, dto.StatusID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	resp := dtos.IssueListResponse{Data: make([]dtos.IssueResponse, 0, len(issues)), Total: int64(len(issues))}
	for _, i := range issues {
		resp.Data = append(resp.Data, dtos.NewIssueResponse(i))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (c *IssuesController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing issue id")
		return
	}

	if err := c.issueService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (c *IssuesController) Activity(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing issue id")
		return
	}

	feed, err := c.issueService.GetActivity(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	resp := dtos.ActivityListResponse{Data: make([]dtos.ActivityResponse, 0, len(feed))}
	for _, a := range feed {
		resp.Data = append(resp.Data, dtos.NewActivityResponse(a))
	}
	resp.Total = len(resp.Data)
	writeJSON(w, http.StatusOK, resp)
}

func (c *IssuesController) Revert(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	activityID := vars["activityId"]
	if id == "" || activityID == "" {
		writeJSONError(w, http.StatusBadRequest, "INVALID_ID", "missing issue or activity id")
		return
	}

	i, err := c.issueService.Revert(r.Context(), id, activityID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewIssueResponse(i))
}

func (c *IssuesController) Export(w http.ResponseWriter, r *http.Request) {
	workbook, err := c.issueService.Export(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	filename := fmt.Sprintf("issues-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(workbook)
}
