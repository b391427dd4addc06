package role

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/permission"
)

// Slugs of the roles every organization is provisioned with. They double as
// the grouping subjects in the policy model.
const (
	SlugAdmin      = "admin"
	SlugMember     = "member"
	SlugTechnician = "technician"
)

type Option func(r *Role)

func WithID(id string) Option {
	return func(r *Role) {
		r.id = id
	}
}

func WithSlug(slug string) Option {
	return func(r *Role) {
		r.slug = slug
	}
}

func WithOrganizationID(orgID string) Option {
	return func(r *Role) {
		r.organizationID = orgID
	}
}

func WithPermissions(permissions []*permission.Permission) Option {
	return func(r *Role) {
		r.permissions = permissions
	}
}

func WithSystem(system bool) Option {
	return func(r *Role) {
		r.system = system
	}
}

func WithCreatedAt(t time.Time) Option {
	return func(r *Role) {
		r.createdAt = t
	}
}

func WithUpdatedAt(t time.Time) Option {
	return func(r *Role) {
		r.updatedAt = t
	}
}

// Role is an organization-scoped bundle of permissions. System roles are
// provisioned alongside the organization and cannot be deleted.
type Role struct {
	id             string
	organizationID string
	name           string
	slug           string
	system         bool
	permissions    []*permission.Permission
	createdAt      time.Time
	updatedAt      time.Time
}

func New(name string, opts ...Option) *Role {
	r := &Role{
		id:        uuid.NewString(),
		name:      name,
		slug:      Slugify(name),
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Role) ID() string {
	return r.id
}

func (r *Role) OrganizationID() string {
	return r.organizationID
}

func (r *Role) Name() string {
	return r.name
}

func (r *Role) Slug() string {
	return r.slug
}

func (r *Role) IsSystem() bool {
	return r.system
}

func (r *Role) Permissions() []*permission.Permission {
	return r.permissions
}

func (r *Role) CreatedAt() time.Time {
	return r.createdAt
}

func (r *Role) UpdatedAt() time.Time {
	return r.updatedAt
}

// CanUpdate reports whether the role's name and permission set may change.
// System roles are the provisioning baseline and stay fixed.
func (r *Role) CanUpdate() bool {
	return !r.system
}

func (r *Role) CanDelete() bool {
	return !r.system
}

// SetName changes the display name only. The slug is a policy subject and
// stays fixed for the lifetime of the role.
func (r *Role) SetName(name string) {
	r.name = name
	r.updatedAt = time.Now()
}

func (r *Role) SetPermissions(permissions []*permission.Permission) {
	r.permissions = permissions
	r.updatedAt = time.Now()
}

// Slugify folds a display name into the form used for policy subjects.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	return slug
}

type Repository interface {
	GetAll(ctx context.Context) ([]*Role, error)
	GetByID(ctx context.Context, id string) (*Role, error)
	GetBySlug(ctx context.Context, slug string) (*Role, error)
	Create(ctx context.Context, data *Role) (*Role, error)
	Update(ctx context.Context, data *Role) error
	Delete(ctx context.Context, id string) error
}
