package status

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Category groups statuses by what they mean for an issue's lifecycle.
// Moving an issue into a RESOLVED status stamps its resolution time; moving
// it back out clears it again.
type Category string

const (
	CategoryNew        Category = "NEW"
	CategoryInProgress Category = "IN_PROGRESS"
	CategoryResolved   Category = "RESOLVED"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryNew, CategoryInProgress, CategoryResolved:
		return true
	}
	return false
}

type Option func(s *Status)

func WithID(id string) Option {
	return func(s *Status) {
		s.id = id
	}
}

func WithDefault(isDefault bool) Option {
	return func(s *Status) {
		s.isDefault = isDefault
	}
}

func WithSortOrder(order int) Option {
	return func(s *Status) {
		s.sortOrder = order
	}
}

func WithCreatedAt(t time.Time) Option {
	return func(s *Status) {
		s.createdAt = t
	}
}

func WithUpdatedAt(t time.Time) Option {
	return func(s *Status) {
		s.updatedAt = t
	}
}

// Status is an organization's own name for a stage an issue can be in. Every
// organization gets the stock set at creation and may rename or extend it;
// exactly one status per organization is the default for new reports.
type Status struct {
	id             string
	organizationID string
	name           string
	category       Category
	isDefault      bool
	sortOrder      int
	createdAt      time.Time
	updatedAt      time.Time
}

func New(organizationID, name string, category Category, opts ...Option) *Status {
	s := &Status{
		id:             uuid.NewString(),
		organizationID: organizationID,
		name:           name,
		category:       category,
		createdAt:      time.Now(),
		updatedAt:      time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Status) ID() string {
	return s.id
}

func (s *Status) OrganizationID() string {
	return s.organizationID
}

func (s *Status) Name() string {
	return s.name
}

func (s *Status) Category() Category {
	return s.category
}

func (s *Status) IsDefault() bool {
	return s.isDefault
}

func (s *Status) SortOrder() int {
	return s.sortOrder
}

func (s *Status) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Status) UpdatedAt() time.Time {
	return s.updatedAt
}

func (s *Status) Rename(name string) {
	s.name = name
	s.updatedAt = time.Now()
}

func (s *Status) SetCategory(category Category) {
	s.category = category
	s.updatedAt = time.Now()
}

func (s *Status) SetSortOrder(order int) {
	s.sortOrder = order
	s.updatedAt = time.Now()
}

func (s *Status) MarkDefault() {
	s.isDefault = true
	s.updatedAt = time.Now()
}

type Repository interface {
	GetAll(ctx context.Context) ([]*Status, error)
	GetByID(ctx context.Context, id string) (*Status, error)
	GetDefault(ctx context.Context) (*Status, error)
	Create(ctx context.Context, data *Status) (*Status, error)
	Update(ctx context.Context, data *Status) error
	// ClearDefault removes the default flag from every status of the
	// organization, so a new default can be marked in the same transaction.
	ClearDefault(ctx context.Context) error
	Delete(ctx context.Context, id string) error
}
