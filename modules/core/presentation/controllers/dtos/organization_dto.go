package dtos

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/aggregates/organization"
	"github.com/pinpoint-collective/pinpoint/pkg/constants"
	"github.com/pinpoint-collective/pinpoint/pkg/serrors"
)

type CreateOrganizationDTO struct {
	Name      string `json:"name" validate:"required"`
	Subdomain string `json:"subdomain" validate:"required"`
}

func (dto *CreateOrganizationDTO) Ok(_ context.Context) (serrors.ValidationErrors, bool) {
	errs := constants.Validate.Struct(dto)
	if errs == nil {
		return nil, true
	}
	out := serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors), constants.Translator)
	return out, len(out) == 0
}

type UpdateOrganizationDTO struct {
	Name string `json:"name" validate:"required"`
}

func (dto *UpdateOrganizationDTO) Ok(_ context.Context) (serrors.ValidationErrors, bool) {
	errs := constants.Validate.Struct(dto)
	if errs == nil {
		return nil, true
	}
	out := serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors), constants.Translator)
	return out, len(out) == 0
}

type OrganizationResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Subdomain string `json:"subdomain"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func NewOrganizationResponse(org organization.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:        org.ID(),
		Name:      org.Name(),
		Subdomain: org.Subdomain(),
		IsActive:  org.IsActive(),
		CreatedAt: org.CreatedAt().Format(time.RFC3339),
		UpdatedAt: org.UpdatedAt().Format(time.RFC3339),
	}
}

type OrganizationListResponse struct {
	Data  []OrganizationResponse `json:"data"`
	Total int                    `json:"total"`
}
