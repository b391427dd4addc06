package membership

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/aggregates/user"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/role"
	"github.com/pinpoint-collective/pinpoint/pkg/boundary"
)

type Option func(m *Membership)

func WithID(id string) Option {
	return func(m *Membership) {
		m.id = id
	}
}

func WithUser(u user.User) Option {
	return func(m *Membership) {
		m.user = u
	}
}

func WithRole(r *role.Role) Option {
	return func(m *Membership) {
		m.role = r
	}
}

func WithCreatedAt(t time.Time) Option {
	return func(m *Membership) {
		m.createdAt = t
	}
}

func WithUpdatedAt(t time.Time) Option {
	return func(m *Membership) {
		m.updatedAt = t
	}
}

// Membership binds a user to an organization under a role. It is the record
// the organization boundary checks run against.
type Membership struct {
	id             string
	organizationID string
	userID         string
	roleID         string
	user           user.User
	role           *role.Role
	createdAt      time.Time
	updatedAt      time.Time
}

func New(organizationID, userID, roleID string, opts ...Option) *Membership {
	m := &Membership{
		id:             uuid.NewString(),
		organizationID: organizationID,
		userID:         userID,
		roleID:         roleID,
		createdAt:      time.Now(),
		updatedAt:      time.Now(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Membership) ID() string {
	return m.id
}

func (m *Membership) OrganizationID() string {
	return m.organizationID
}

func (m *Membership) UserID() string {
	return m.userID
}

func (m *Membership) RoleID() string {
	return m.roleID
}

// User returns the member's user when the repository loaded it, nil
// otherwise.
func (m *Membership) User() user.User {
	return m.user
}

// Role returns the member's role when the repository loaded it, nil
// otherwise.
func (m *Membership) Role() *role.Role {
	return m.role
}

func (m *Membership) CreatedAt() time.Time {
	return m.createdAt
}

func (m *Membership) UpdatedAt() time.Time {
	return m.updatedAt
}

func (m *Membership) SetRole(r *role.Role) {
	m.role = r
	m.roleID = r.ID()
	m.updatedAt = time.Now()
}

// Boundary projects the record into the shape the boundary validators
// consume, including the user and role snapshots when loaded.
func (m *Membership) Boundary() *boundary.Membership {
	out := &boundary.Membership{
		ID:             m.id,
		UserID:         m.userID,
		OrganizationID: m.organizationID,
		RoleID:         m.roleID,
	}
	if m.user != nil {
		out.User = boundary.MemberUser{
			ID:    m.user.ID(),
			Name:  m.user.FullName(),
			Email: m.user.Email().Value(),
		}
	}
	if m.role != nil {
		out.Role = boundary.MemberRole{
			ID:   m.role.ID(),
			Name: m.role.Name(),
		}
	}
	return out
}

type Repository interface {
	CountByOrganization(ctx context.Context, orgID string) (int64, error)
	GetByOrganization(ctx context.Context, orgID string) ([]*Membership, error)
	GetByUser(ctx context.Context, userID string) ([]*Membership, error)
	GetByID(ctx context.Context, id string) (*Membership, error)
	GetByUserAndOrganization(ctx context.Context, userID, orgID string) (*Membership, error)
	Create(ctx context.Context, data *Membership) (*Membership, error)
	Update(ctx context.Context, data *Membership) error
	Delete(ctx context.Context, id string) error
}
