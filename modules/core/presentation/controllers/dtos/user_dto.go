package dtos

import (
	"time"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/aggregates/user"
)

type UserResponse struct {
	ID         string `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	UILanguage string `json:"ui_language"`
	LastLogin  string `json:"last_login,omitempty"`
	CreatedAt  string `json:"created_at"`
}

func NewUserResponse(u user.User) UserResponse {
	resp := UserResponse{
		ID:         u.ID(),
		FirstName:  u.FirstName(),
		LastName:   u.LastName(),
		Email:      u.Email().Value(),
		UILanguage: string(u.UILanguage()),
		CreatedAt:  u.CreatedAt().Format(time.RFC3339),
	}
	if !u.LastLogin().IsZero() {
		resp.LastLogin = u.LastLogin().Format(time.RFC3339)
	}
	return resp
}

type UserListResponse struct {
	Data  []UserResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
