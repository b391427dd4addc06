package dtos

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/aggregates/machine"
	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/entities/model"
	"github.com/pinpoint-collective/pinpoint/pkg/constants"
	"github.com/pinpoint-collective/pinpoint/pkg/serrors"
)

type CreateMachineDTO struct {
	ModelID    string `json:"model_id" validate:"required,uuid4"`
	LocationID string `json:"location_id" validate:"required,uuid4"`
	OwnerID    string `json:"owner_id" validate:"omitempty,uuid4"`
}

func (dto *CreateMachineDTO) Ok(_ context.Context) (serrors.ValidationErrors, bool) {
	errs := constants.Validate.Struct(dto)
	if errs == nil {
		return nil, true
	}
	out := serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors), constants.Translator)
	return out, len(out) == 0
}

type MoveMachineDTO struct {
	LocationID string `json:"location_id" validate:"required,uuid4"`
}

func (dto *MoveMachineDTO) Ok(_ context.Context) (serrors.ValidationErrors, bool) {
	errs := constants.Validate.Struct(dto)
	if errs == nil {
		return nil, true
	}
	out := serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors), constants.Translator)
	return out, len(out) == 0
}

// AssignOwnerDTO changes cabinet ownership; an empty user id hands the
// machine back to the collective.
type AssignOwnerDTO struct {
	UserID string `json:"user_id" validate:"omitempty,uuid4"`
}

func (dto *AssignOwnerDTO) Ok(_ context.Context) (serrors.ValidationErrors, bool) {
	errs := constants.Validate.Struct(dto)
	if errs == nil {
		return nil, true
	}
	out := serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors), constants.Translator)
	return out, len(out) == 0
}

type ModelResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer"`
	Year         int    `json:"year"`
	MachineType  string `json:"machine_type"`
	OPDBID       string `json:"opdb_id,omitempty"`
}

func NewModelResponse(m *model.Model) ModelResponse {
	return ModelResponse{
		ID:           m.ID(),
		Name:         m.Name(),
		Manufacturer: m.Manufacturer(),
		Year:         m.Year(),
		MachineType:  string(m.MachineType()),
		OPDBID:       m.OPDBID(),
	}
}

type ModelListResponse struct {
	Data  []ModelResponse `json:"data"`
	Total int             `json:"total"`
}

type MachineResponse struct {
	ID        string            `json:"id"`
	Model     *ModelResponse    `json:"model,omitempty"`
	ModelID   string            `json:"model_id"`
	Location  *LocationResponse `json:"location,omitempty"`
	OwnerID   string            `json:"owner_id,omitempty"`
	QRToken   string            `json:"qr_token"`
	CreatedAt string            `json:"created_at"`
}

func NewMachineResponse(m *machine.Machine) MachineResponse {
	resp := MachineResponse{
		ID:        m.ID(),
		ModelID:   m.ModelID(),
		OwnerID:   m.OwnerID(),
		QRToken:   m.QRToken(),
		CreatedAt: m.CreatedAt().Format(time.RFC3339),
	}
	if mdl := m.Model(); mdl != nil {
		mr := NewModelResponse(mdl)
		resp.Model = &mr
	}
	if loc := m.Location(); loc != nil {
		lr := NewLocationResponse(loc)
		resp.Location = &lr
	}
	return resp
}

type MachineListResponse struct {
	Data  []MachineResponse `json:"data"`
	Total int               `json:"total"`
}
