package user

import (
	"context"

	"github.com/pinpoint-collective/pinpoint/pkg/repo"
)

type Field int

const (
	FirstNameField Field = iota
	LastNameField
	EmailField
	LastLoginField
	CreatedAtField
	UpdatedAtField
)

type Filter struct {
	Column Field
	Filter repo.Filter
}

type FindParams struct {
	Limit   int
	Offset  int
	Search  string
	SortBy  repo.SortBy[Field]
	Filters []Filter
}

type Repository interface {
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetAll(ctx context.Context) ([]User, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, data User) (User, error)
	Update(ctx context.Context, data User) error
	UpdateLastLogin(ctx context.Context, id string) error
	UpdateLastAction(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
