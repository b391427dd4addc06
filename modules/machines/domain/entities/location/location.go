package location

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Option func(l *Location)

func WithID(id string) Option {
	return func(l *Location) {
		l.id = id
	}
}

func WithCreatedAt(t time.Time) Option {
	return func(l *Location) {
		l.createdAt = t
	}
}

func WithUpdatedAt(t time.Time) Option {
	return func(l *Location) {
		l.updatedAt = t
	}
}

// Location is a venue where an organization keeps machines: an arcade, a
// bar, a member's basement.
type Location struct {
	id             string
	organizationID string
	name           string
	street         string
	city           string
	createdAt      time.Time
	updatedAt      time.Time
}

func New(organizationID, name, street, city string, opts ...Option) *Location {
	l := &Location{
		id:             uuid.NewString(),
		organizationID: organizationID,
		name:           name,
		street:         street,
		city:           city,
		createdAt:      time.Now(),
		updatedAt:      time.Now(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Location) ID() string {
	return l.id
}

func (l *Location) OrganizationID() string {
	return l.organizationID
}

func (l *Location) Name() string {
	return l.name
}

func (l *Location) Street() string {
	return l.street
}

func (l *Location) City() string {
	return l.city
}

func (l *Location) CreatedAt() time.Time {
	return l.createdAt
}

func (l *Location) UpdatedAt() time.Time {
	return l.updatedAt
}

func (l *Location) SetName(name string) {
	l.name = name
	l.updatedAt = time.Now()
}

func (l *Location) SetAddress(street, city string) {
	l.street = street
	l.city = city
	l.updatedAt = time.Now()
}

type Repository interface {
	GetAll(ctx context.Context) ([]*Location, error)
	GetByID(ctx context.Context, id string) (*Location, error)
	Create(ctx context.Context, data *Location) (*Location, error)
	Update(ctx context.Context, data *Location) error
	Delete(ctx context.Context, id string) error
}
