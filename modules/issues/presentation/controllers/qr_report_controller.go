package controllers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/aggregates/issue"
	"github.com/pinpoint-collective/pinpoint/modules/issues/presentation/controllers/dtos"
	"github.com/pinpoint-collective/pinpoint/modules/issues/services"
	"github.com/pinpoint-collective/pinpoint/pkg/application"
	"github.com/pinpoint-collective/pinpoint/pkg/middleware"
)

// QRReportController files anonymous issues from scanned stickers. The
// route is public: no session, no organization context, just a tighter rate
// limit than the resolve endpoint.
type QRReportController struct {
	app          application.Application
	issueService *services.IssueService
	basePath     string
}

func NewQRReportController(app application.Application) application.Controller {
	return &QRReportController{
		app:          app,
		issueService: app.Service(services.IssueService{}).(*services.IssueService),
		basePath:     "/api/qr/{token}/report",
	}
}

func (c *QRReportController) Key() string {
	return c.basePath
}

func (c *QRReportController) Register(r *mux.Router) {
	limited := middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerPeriod: 10,
		Period:            time.Minute,
	})
	r.Handle(c.basePath, limited(http.HandlerFunc(c.Report))).Methods(http.MethodPost)
}

func (c *QRReportController) Report(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	if token == "" {
		writeJSONError(w, http.StatusBadRequest, "INVALID_TOKEN", "missing qr token")
		return
	}

	dto := &dtos.ReportIssueDTO{}
	if err := decodeInto(r, dto); err != nil {
		writeJSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to parse request body")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeValidationErrors(w, errs)
		return
	}

	i, err := c.issueService.ReportAnonymous(r.Context(), token, services.AnonymousReport{
		Title:        dto.Title,
		Description:  dto.Description,
		ReporterName: dto.ReporterName,
		Severity:     issue.Severity(dto.Severity),
		Consistency:  issue.Consistency(dto.Consistency),
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dtos.NewIssueResponse(i))
}
