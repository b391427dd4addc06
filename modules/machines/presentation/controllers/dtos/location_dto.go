package dtos

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/entities/location"
	"github.com/pinpoint-collective/pinpoint/pkg/constants"
	"github.com/pinpoint-collective/pinpoint/pkg/serrors"
)

type CreateLocationDTO struct {
	Name   string `json:"name" validate:"required,min=2,max=255"`
	Street string `json:"street" validate:"max=255"`
	City   string `json:"city" validate:"max=255"`
}

func (dto *CreateLocationDTO) Ok(_ context.Context) (serrors.ValidationErrors, bool) {
	errs := constants.Validate.Struct(dto)
	if errs == nil {
		return nil, true
	}
	out := serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors), constants.Translator)
	return out, len(out) == 0
}

type UpdateLocationDTO struct {
	Name   string `json:"name" validate:"required,min=2,max=255"`
	Street string `json:"street" validate:"max=255"`
	City   string `json:"city" validate:"max=255"`
}

func (dto *UpdateLocationDTO) Ok(_ context.Context) (serrors.ValidationErrors, bool) {
	errs := constants.Validate.Struct(dto)
	if errs == nil {
		return nil, true
	}
	out := serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors), constants.Translator)
	return out, len(out) == 0
}

type LocationResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Street    string `json:"street"`
	City      string `json:"city"`
	CreatedAt string `json:"created_at"`
}

func NewLocationResponse(l *location.Location) LocationResponse {
	return LocationResponse{
		ID:        l.ID(),
		Name:      l.Name(),
		Street:    l.Street(),
		City:      l.City(),
		CreatedAt: l.CreatedAt().Format(time.RFC3339),
	}
}

type LocationListResponse struct {
	Data  []LocationResponse `json:"data"`
	Total int                `json:"total"`
}
