package dtos

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/aggregates/issue"
	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/entities/activity"
	"github.com/pinpoint-collective/pinpoint/pkg/constants"
	"github.com/pinpoint-collective/pinpoint/pkg/serrors"
)

type CreateIssueDTO struct {
	MachineID   string `json:"machine_id" validate:"required,uuid4"`
	StatusID    string `json:"status_id" validate:"omitempty,uuid4"`
	Title       string `json:"title" validate:"required,min=3,max=255"`
	Description string `json:"description" validate:"max=5000"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	Severity    string `json:"severity" validate:"omitempty,oneof=cosmetic minor major unplayable"`
	Consistency string `json:"consistency" validate:"omitempty,oneof=always intermittent once"`
	AssigneeID  string `json:"assignee_id" validate:"omitempty,uuid4"`
}

func (dto *CreateIssueDTO) Ok(_ context.Context) (serrors.ValidationErrors, bool) {
	errs := constants.Validate.Struct(dto)
	if errs == nil {
		return nil, true
	}
	out := serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors), constants.Translator)
	return out, len(out) == 0
}

type UpdateIssueDTO struct {
	Title       string `json:"title" validate:"required,min=3,max=255"`
	Description string `json:"description" validate:"max=5000"`
	Priority    string `json:"priority" validate:"required,oneof=low medium high critical"`
	Severity    string `json:"severity" validate:"required,oneof=cosmetic minor major unplayable"`
	Consistency string `json:"consistency" validate:"required,oneof=always intermittent once"`
}

func (dto *UpdateIssueDTO) Ok(_ context.Context) (serrors.ValidationErrors, bool) {
	errs := constants.Validate.Struct(dto)
	if errs == nil {
		return nil, true
	}
	out := serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors), constants.Translator)
	return out, len(out) == 0
}

// AssignIssueDTO hands the issue to a member; an empty user id clears the
// assignment.
type AssignIssueDTO struct {
	UserID string `json:"user_id" validate:"omitempty,uuid4"`
}

func (dto *AssignIssueDTO) Ok(_ context.Context) (serrors.ValidationErrors, bool) {
	errs := constants.Validate.Struct(dto)
	if errs == nil {
		return nil, true
	}
	out := serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors), constants.Translator)
	return out, len(out) == 0
}

type ChangeStatusDTO struct {
	StatusID string `json:"status_id" validate:"required,uuid4"`
}

func (dto *ChangeStatusDTO) Ok(_ context.Context) (serrors.ValidationErrors, bool) {
	errs := constants.Validate.Struct(dto)
	if errs == nil {
		return nil, true
	}
	out := serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors), constants.Translator)
	return out, len(out) == 0
}

type BulkChangeStatusDTO struct {
	IssueIDs []string `json:"issue_ids" validate:"required,min=1,max=100,dive,uuid4"`
	StatusID string   `json:"status_id" validate:"required,uuid4"`
}

func (dto *BulkChangeStatusDTO) Ok(_ context.Context) (serrors.ValidationErrors, bool) {
	errs := constants.Validate.Struct(dto)
	if errs == nil {
		return nil, true
	}
	out := serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors), constants.Translator)
	return out, len(out) == 0
}

// ReportIssueDTO is the anonymous QR report form. No account fields; the
// reporter may leave a free-text name or nothing at all.
type ReportIssueDTO struct {
	Title        string `json:"title" validate:"required,min=3,max=255"`
	Description  string `json:"description" validate:"max=5000"`
	ReporterName string `json:"reporter_name" validate:"max=255"`
	Severity     string `json:"severity" validate:"omitempty,oneof=cosmetic minor major unplayable"`
	Consistency  string `json:"consistency" validate:"omitempty,oneof=always intermittent once"`
}

func (dto *ReportIssueDTO) Ok(_ context.Context) (serrors.ValidationErrors, bool) {
	errs := constants.Validate.Struct(dto)
	if errs == nil {
		return nil, true
	}
	out := serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors), constants.Translator)
	return out, len(out) == 0
}

// IssueMachineResponse is the slice of the machine an issue listing needs:
// which cabinet, by name.
type IssueMachineResponse struct {
	ID    string `json:"id"`
	Model string `json:"model,omitempty"`
}

type IssueResponse struct {
	ID           string                `json:"id"`
	Title        string                `json:"title"`
	Description  string                `json:"description,omitempty"`
	Priority     string                `json:"priority"`
	Severity     string                `json:"severity"`
	Consistency  string                `json:"consistency"`
	Status       *StatusResponse       `json:"status,omitempty"`
	StatusID     string                `json:"status_id"`
	Machine      *IssueMachineResponse `json:"machine,omitempty"`
	MachineID    string                `json:"machine_id"`
	ReporterID   string                `json:"reporter_id,omitempty"`
	ReporterName string                `json:"reporter_name,omitempty"`
	AssigneeID   string                `json:"assignee_id,omitempty"`
	ResolvedAt   *string               `json:"resolved_at,omitempty"`
	CreatedAt    string                `json:"created_at"`
	UpdatedAt    string                `json:"updated_at"`
}

func NewIssueResponse(i *issue.Issue) IssueResponse {
	resp := IssueResponse{
		ID:           i.ID(),
		Title:        i.Title(),
		Description:  i.Description(),
		Priority:     string(i.Priority()),
		Severity:     string(i.Severity()),
		Consistency:  string(i.Consistency()),
		StatusID:     i.StatusID(),
		MachineID:    i.MachineID(),
		ReporterID:   i.ReporterID(),
		ReporterName: i.ReporterName(),
		AssigneeID:   i.AssigneeID(),
		CreatedAt:    i.CreatedAt().Format(time.RFC3339),
		UpdatedAt:    i.UpdatedAt().Format(time.RFC3339),
	}
	if st := i.Status(); st != nil {
		sr := NewStatusResponse(st)
		resp.Status = &sr
	}
	if m := i.Machine(); m != nil {
		mr := IssueMachineResponse{ID: m.ID()}
		if mdl := m.Model(); mdl != nil {
			mr.Model = mdl.Name()
		}
		resp.Machine = &mr
	}
	if resolvedAt := i.ResolvedAt(); resolvedAt != nil {
		formatted := resolvedAt.Format(time.RFC3339)
		resp.ResolvedAt = &formatted
	}
	return resp
}

type IssueListResponse struct {
	Data  []IssueResponse `json:"data"`
	Total int64           `json:"total"`
}

type ActivityResponse struct {
	ID        string          `json:"id"`
	ActorID   string          `json:"actor_id,omitempty"`
	Action    string          `json:"action"`
	Changes   json.RawMessage `json:"changes"`
	CreatedAt string          `json:"created_at"`
}

func NewActivityResponse(a *activity.Activity) ActivityResponse {
	return ActivityResponse{
		ID:        a.ID(),
		ActorID:   a.ActorID(),
		Action:    string(a.Action()),
		Changes:   a.Changes(),
		CreatedAt: a.CreatedAt().Format(time.RFC3339),
	}
}

type ActivityListResponse struct {
	Data  []ActivityResponse `json:"data"`
	Total int                `json:"total"`
}
