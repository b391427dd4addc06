package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type is the machine generation as OPDB classifies it.
type Type string

const (
	TypeEM      Type = "em"
	TypeSS      Type = "ss"
	TypeDigital Type = "digital"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeEM, TypeSS, TypeDigital:
		return true
	default:
		return false
	}
}

type Option func(m *Model)

func WithID(id string) Option {
	return func(m *Model) {
		m.id = id
	}
}

func WithOPDBID(opdbID string) Option {
	return func(m *Model) {
		m.opdbID = opdbID
	}
}

func WithCreatedAt(t time.Time) Option {
	return func(m *Model) {
		m.createdAt = t
	}
}

func WithUpdatedAt(t time.Time) Option {
	return func(m *Model) {
		m.updatedAt = t
	}
}

// Model is a catalog entry describing a machine title, e.g. "Medieval
// Madness (Williams, 1997)". The catalog is shared by every organization;
// machines reference it but never change it.
type Model struct {
	id           string
	name         string
	manufacturer string
	year         int
	machineType  Type
	opdbID       string
	createdAt    time.Time
	updatedAt    time.Time
}

func New(name, manufacturer string, year int, machineType Type, opts ...Option) *Model {
	m := &Model{
		id:           uuid.NewString(),
		name:         name,
		manufacturer: manufacturer,
		year:         year,
		machineType:  machineType,
		createdAt:    time.Now(),
		updatedAt:    time.Now(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Model) ID() string {
	return m.id
}

func (m *Model) Name() string {
	return m.name
}

func (m *Model) Manufacturer() string {
	return m.manufacturer
}

func (m *Model) Year() int {
	return m.year
}

func (m *Model) MachineType() Type {
	return m.machineType
}

// OPDBID returns the Open Pinball Database identifier, empty for homebrew
// or otherwise uncatalogued titles.
func (m *Model) OPDBID() string {
	return m.opdbID
}

func (m *Model) CreatedAt() time.Time {
	return m.createdAt
}

func (m *Model) UpdatedAt() time.Time {
	return m.updatedAt
}

// Label renders the display form used in search results and exports.
func (m *Model) Label() string {
	return m.name
}

type Repository interface {
	Count(ctx context.Context) (int64, error)
	GetAll(ctx context.Context) ([]*Model, error)
	GetByID(ctx context.Context, id string) (*Model, error)
	GetByOPDBID(ctx context.Context, opdbID string) (*Model, error)
	Create(ctx context.Context, data *Model) (*Model, error)
	Upsert(ctx context.Context, data *Model) (*Model, error)
}
