package organization

import (
	"time"

	"github.com/google/uuid"
)

type Option func(o *org)

// ---- Options ----

func WithID(id string) Option {
	return func(o *org) {
		o.id = id
	}
}

func WithSubdomain(subdomain string) Option {
	return func(o *org) {
		o.subdomain = subdomain
	}
}

func WithIsActive(active bool) Option {
	return func(o *org) {
		o.isActive = active
	}
}

func WithCreatedAt(t time.Time) Option {
	return func(o *org) {
		o.createdAt = t
	}
}

func WithUpdatedAt(t time.Time) Option {
	return func(o *org) {
		o.updatedAt = t
	}
}

// ---- Interface ----

type Organization interface {
	ID() string
	Name() string
	Subdomain() string
	IsActive() bool
	CreatedAt() time.Time
	UpdatedAt() time.Time

	SetName(name string) Organization
	SetSubdomain(subdomain string) Organization
	SetIsActive(active bool) Organization
}

// New creates an organization with sensible defaults. The zero subdomain is
// invalid for persistence; callers set it via WithSubdomain or SetSubdomain.
func New(name string, opts ...Option) Organization {
	o := &org{
		id:        uuid.NewString(),
		name:      name,
		isActive:  true,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type org struct {
	id        string
	name      string
	subdomain string
	isActive  bool
	createdAt time.Time
	updatedAt time.Time
}

func (o *org) ID() string {
	return o.id
}

func (o *org) Name() string {
	return o.name
}

func (o *org) Subdomain() string {
	return o.subdomain
}

func (o *org) IsActive() bool {
	return o.isActive
}

func (o *org) CreatedAt() time.Time {
	return o.createdAt
}

func (o *org) UpdatedAt() time.Time {
	return o.updatedAt
}

func (o *org) SetName(name string) Organization {
	out := *o
	out.name = name
	out.updatedAt = time.Now()
	return &out
}

func (o *org) SetSubdomain(subdomain string) Organization {
	out := *o
	out.subdomain = subdomain
	out.updatedAt = time.Now()
	return &out
}

func (o *org) SetIsActive(active bool) Organization {
	out := *o
	out.isActive = active
	out.updatedAt = time.Now()
	return &out
}
