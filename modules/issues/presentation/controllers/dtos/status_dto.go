package dtos

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/entities/status"
	"github.com/pinpoint-collective/pinpoint/pkg/constants"
	"github.com/pinpoint-collective/pinpoint/pkg/serrors"
)

type CreateStatusDTO struct {
	Name      string `json:"name" validate:"required,min=2,max=255"`
	Category  string `json:"category" validate:"required,oneof=NEW IN_PROGRESS RESOLVED"`
	SortOrder int    `json:"sort_order" validate:"min=0"`
}

func (dto *CreateStatusDTO) Ok(_ context.Context) (serrors.ValidationErrors, bool) {
	errs := constants.Validate.Struct(dto)
	if errs == nil {
		return nil, true
	}
	out := serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors), constants.Translator)
	return out, len(out) == 0
}

type UpdateStatusDTO struct {
	Name      string `json:"name" validate:"required,min=2,max=255"`
	Category  string `json:"category" validate:"required,oneof=NEW IN_PROGRESS RESOLVED"`
	SortOrder int    `json:"sort_order" validate:"min=0"`
}

func (dto *UpdateStatusDTO) Ok(_ context.Context) (serrors.ValidationErrors, bool) {
	errs := constants.Validate.Struct(dto)
	if errs == nil {
		return nil, true
	}
	out := serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors), constants.Translator)
	return out, len(out) == 0
}

type StatusResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	IsDefault bool   `json:"is_default"`
	SortOrder int    `json:"sort_order"`
	CreatedAt string `json:"created_at"`
}

func NewStatusResponse(s *status.Status) StatusResponse {
	return StatusResponse{
		ID:        s.ID(),
		Name:      s.Name(),
		Category:  string(s.Category()),
		IsDefault: s.IsDefault(),
		SortOrder: s.SortOrder(),
		CreatedAt: s.CreatedAt().Format(time.RFC3339),
	}
}

type StatusListResponse struct {
	Data  []StatusResponse `json:"data"`
	Total int              `json:"total"`
}
