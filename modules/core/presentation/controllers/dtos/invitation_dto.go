package dtos

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/invitation"
	"github.com/pinpoint-collective/pinpoint/pkg/constants"
	"github.com/pinpoint-collective/pinpoint/pkg/serrors"
)

type CreateInvitationDTO struct {
	Email  string `json:"email" validate:"required,email"`
	RoleID string `json:"role_id" validate:"required,uuid4"`
}

func (dto *CreateInvitationDTO) Ok(_ context.Context) (serrors.ValidationErrors, bool) {
	errs := constants.Validate.Struct(dto)
	if errs == nil {
		return nil, true
	}
	out := serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors), constants.Translator)
	return out, len(out) == 0
}

// AcceptInvitationDTO redeems an invite token. The profile fields matter only
// when the invited email has no account yet.
type AcceptInvitationDTO struct {
	Token     string `json:"token" form:"token" validate:"required"`
	FirstName string `json:"first_name" form:"first_name" validate:"omitempty,max=100"`
	LastName  string `json:"last_name" form:"last_name" validate:"omitempty,max=100"`
	Password  string `json:"password" form:"password" validate:"omitempty,min=8"`
}

func (dto *AcceptInvitationDTO) Ok(_ context.Context) (serrors.ValidationErrors, bool) {
	errs := constants.Validate.Struct(dto)
	if errs == nil {
		return nil, true
	}
	out := serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors), constants.Translator)
	return out, len(out) == 0
}

type InvitationResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	RoleID    string `json:"role_id"`
	Token     string `json:"token"`
	Status    string `json:"status"`
	ExpiresAt string `json:"expires_at"`
	CreatedAt string `json:"created_at"`
}

func NewInvitationResponse(inv *invitation.Invitation) InvitationResponse {
	return InvitationResponse{
		ID:        inv.ID(),
		Email:     inv.Email().Value(),
		RoleID:    inv.RoleID(),
		Token:     inv.Token(),
		Status:    string(inv.Status()),
		ExpiresAt: inv.ExpiresAt().Format(time.RFC3339),
		CreatedAt: inv.CreatedAt().Format(time.RFC3339),
	}
}

type InvitationListResponse struct {
	Data  []InvitationResponse `json:"data"`
	Total int                  `json:"total"`
}
