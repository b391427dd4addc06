package organization

import "context"

type Field int

const (
	NameField Field = iota
	SubdomainField
	CreatedAtField
)

type FindParams struct {
	Limit  int
	Offset int
	Search string
}

type Repository interface {
	Count(ctx context.Context) (int64, error)
	GetAll(ctx context.Context) ([]Organization, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]Organization, error)
	GetByID(ctx context.Context, id string) (Organization, error)
	GetBySubdomain(ctx context.Context, subdomain string) (Organization, error)
	SubdomainTaken(ctx context.Context, subdomain string) (bool, error)
	Create(ctx context.Context, data Organization) (Organization, error)
	Update(ctx context.Context, data Organization) (Organization, error)
	Delete(ctx context.Context, id string) error
}
