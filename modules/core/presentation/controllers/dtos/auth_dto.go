package dtos

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/pinpoint-collective/pinpoint/pkg/constants"
	"github.com/pinpoint-collective/pinpoint/pkg/serrors"
)

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (dto *LoginDTO) Ok(_ context.Context) (serrors.ValidationErrors, bool) {
	errs := constants.Validate.Struct(dto)
	if errs == nil {
		return nil, true
	}
	out := serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors), constants.Translator)
	return out, len(out) == 0
}

type SessionResponse struct {
	User      UserResponse `json:"user"`
	ExpiresAt string       `json:"expires_at"`
}
