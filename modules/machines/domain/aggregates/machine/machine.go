package machine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/entities/location"
	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/entities/model"
)

type Option func(m *Machine)

func WithID(id string) Option {
	return func(m *Machine) {
		m.id = id
	}
}

func WithOwnerID(ownerID string) Option {
	return func(m *Machine) {
		m.ownerID = ownerID
	}
}

func WithQRToken(token string) Option {
	return func(m *Machine) {
		m.qrToken = token
	}
}

func WithModel(mdl *model.Model) Option {
	return func(m *Machine) {
		m.model = mdl
	}
}

func WithLocation(loc *location.Location) Option {
	return func(m *Machine) {
		m.location = loc
	}
}

func WithCreatedAt(t time.Time) Option {
	return func(m *Machine) {
		m.createdAt = t
	}
}

func WithUpdatedAt(t time.Time) Option {
	return func(m *Machine) {
		m.updatedAt = t
	}
}

// Machine is a physical unit of a catalog model placed at one of the
// organization's locations. Each machine carries a QR token; the sticker on
// the cabinet resolves to it for anonymous problem reports.
type Machine struct {
	id             string
	organizationID string
	modelID        string
	locationID     string
	ownerID        string
	qrToken        string
	model          *model.Model
	location       *location.Location
	createdAt      time.Time
	updatedAt      time.Time
}

func New(organizationID, modelID, locationID string, opts ...Option) *Machine {
	m := &Machine{
		id:             uuid.NewString(),
		organizationID: organizationID,
		modelID:        modelID,
		locationID:     locationID,
		qrToken:        uuid.NewString(),
		createdAt:      time.Now(),
		updatedAt:      time.Now(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Machine) ID() string {
	return m.id
}

func (m *Machine) OrganizationID() string {
	return m.organizationID
}

func (m *Machine) ModelID() string {
	return m.modelID
}

func (m *Machine) LocationID() string {
	return m.locationID
}

// OwnerID returns the user who owns the cabinet, empty when the collective
// itself does.
func (m *Machine) OwnerID() string {
	return m.ownerID
}

func (m *Machine) QRToken() string {
	return m.qrToken
}

// Model returns the catalog model when the repository loaded it, nil
// otherwise.
func (m *Machine) Model() *model.Model {
	return m.model
}

// Location returns the venue when the repository loaded it, nil otherwise.
func (m *Machine) Location() *location.Location {
	return m.location
}

func (m *Machine) CreatedAt() time.Time {
	return m.createdAt
}

func (m *Machine) UpdatedAt() time.Time {
	return m.updatedAt
}

// MoveTo points the machine at another location. The loaded location
// snapshot is dropped; the repository reloads it on the next fetch.
func (m *Machine) MoveTo(locationID string) {
	m.locationID = locationID
	m.location = nil
	m.updatedAt = time.Now()
}

func (m *Machine) AssignOwner(userID string) {
	m.ownerID = userID
	m.updatedAt = time.Now()
}

func (m *Machine) ClearOwner() {
	m.ownerID = ""
	m.updatedAt = time.Now()
}

// RotateQRToken invalidates the printed sticker by minting a fresh token,
// for when a cabinet changes hands or a sticker is damaged.
func (m *Machine) RotateQRToken() {
	m.qrToken = uuid.NewString()
	m.updatedAt = time.Now()
}

type Repository interface {
	CountByLocation(ctx context.Context, locationID string) (int64, error)
	GetAll(ctx context.Context) ([]*Machine, error)
	GetByLocation(ctx context.Context, locationID string) ([]*Machine, error)
	GetByID(ctx context.Context, id string) (*Machine, error)
	// GetByQRToken looks the token up across all organizations; the QR
	// check-in flow runs before any organization context exists.
	GetByQRToken(ctx context.Context, token string) (*Machine, error)
	Create(ctx context.Context, data *Machine) (*Machine, error)
	Update(ctx context.Context, data *Machine) error
	Delete(ctx context.Context, id string) error
}
