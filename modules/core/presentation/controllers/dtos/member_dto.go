package dtos

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/membership"
	"github.com/pinpoint-collective/pinpoint/pkg/constants"
	"github.com/pinpoint-collective/pinpoint/pkg/serrors"
)

type AddMemberDTO struct {
	UserID string `json:"user_id" validate:"required,uuid4"`
	RoleID string `json:"role_id" validate:"required,uuid4"`
}

func (dto *AddMemberDTO) Ok(_ context.Context) (serrors.ValidationErrors, bool) {
	errs := constants.Validate.Struct(dto)
	if errs == nil {
		return nil, true
	}
	out := serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors), constants.Translator)
	return out, len(out) == 0
}

type ChangeMemberRoleDTO struct {
	RoleID string `json:"role_id" validate:"required,uuid4"`
}

func (dto *ChangeMemberRoleDTO) Ok(_ context.Context) (serrors.ValidationErrors, bool) {
	errs := constants.Validate.Struct(dto)
	if errs == nil {
		return nil, true
	}
	out := serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors), constants.Translator)
	return out, len(out) == 0
}

type MemberRoleResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type MemberResponse struct {
	ID        string             `json:"id"`
	UserID    string             `json:"user_id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Role      MemberRoleResponse `json:"role"`
	CreatedAt string             `json:"created_at"`
}

func NewMemberResponse(m *membership.Membership) MemberResponse {
	resp := MemberResponse{
		ID:        m.ID(),
		UserID:    m.UserID(),
		CreatedAt: m.CreatedAt().Format(time.RFC3339),
	}
	if u := m.User(); u != nil {
		resp.Name = u.FullName()
		resp.Email = u.Email().Value()
	}
	if r := m.Role(); r != nil {
		resp.Role = MemberRoleResponse{
			ID:   r.ID(),
			Name: r.Name(),
			Slug: r.Slug(),
		}
	}
	return resp
}

type MemberListResponse struct {
	Data  []MemberResponse `json:"data"`
	Total int              `json:"total"`
}
