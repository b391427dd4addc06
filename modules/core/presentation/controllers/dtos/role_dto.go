package dtos

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/permission"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/role"
	"github.com/pinpoint-collective/pinpoint/pkg/constants"
	"github.com/pinpoint-collective/pinpoint/pkg/serrors"
)

type CreateRoleDTO struct {
	Name          string   `json:"name" validate:"required,max=100"`
	PermissionIDs []string `json:"permission_ids" validate:"omitempty,dive,uuid4"`
}

func (dto *CreateRoleDTO) Ok(_ context.Context) (serrors.ValidationErrors, bool) {
	errs := constants.Validate.Struct(dto)
	if errs == nil {
		return nil, true
	}
	out := serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors), constants.Translator)
	return out, len(out) == 0
}

type UpdateRoleDTO struct {
	Name          string   `json:"name" validate:"omitempty,max=100"`
	PermissionIDs []string `json:"permission_ids" validate:"omitempty,dive,uuid4"`
}

func (dto *UpdateRoleDTO) Ok(_ context.Context) (serrors.ValidationErrors, bool) {
	errs := constants.Validate.Struct(dto)
	if errs == nil {
		return nil, true
	}
	out := serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors), constants.Translator)
	return out, len(out) == 0
}

type PermissionResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Modifier string `json:"modifier"`
}

func NewPermissionResponse(p *permission.Permission) PermissionResponse {
	return PermissionResponse{
		ID:       p.ID.String(),
		Name:     p.Name,
		Resource: string(p.Resource),
		Action:   string(p.Action),
		Modifier: string(p.Modifier),
	}
}

type RoleResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Slug        string               `json:"slug"`
	System      bool                 `json:"system"`
	Permissions []PermissionResponse `json:"permissions"`
	CreatedAt   string               `json:"created_at"`
}

func NewRoleResponse(r *role.Role) RoleResponse {
	perms := make([]PermissionResponse, 0, len(r.Permissions()))
	for _, p := range r.Permissions() {
		perms = append(perms, NewPermissionResponse(p))
	}
	return RoleResponse{
		ID:          r.ID(),
		Name:        r.Name(),
		Slug:        r.Slug(),
		System:      r.IsSystem(),
		Permissions: perms,
		CreatedAt:   r.CreatedAt().Format(time.RFC3339),
	}
}

type RoleListResponse struct {
	Data  []RoleResponse `json:"data"`
	Total int            `json:"total"`
}

type PermissionListResponse struct {
	Data  []PermissionResponse `json:"data"`
	Total int                  `json:"total"`
}
