package invitation

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/google/uuid"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/value_objects/internet"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRevoked  Status = "revoked"
	StatusExpired  Status = "expired"
)

const DefaultTTL = 7 * 24 * time.Hour

type Option func(i *Invitation)

func WithID(id string) Option {
	return func(i *Invitation) {
		i.id = id
	}
}

func WithToken(token string) Option {
	return func(i *Invitation) {
		i.token = token
	}
}

func WithStatus(status Status) Option {
	return func(i *Invitation) {
		i.status = status
	}
}

func WithExpiresAt(t time.Time) Option {
	return func(i *Invitation) {
		i.expiresAt = t
	}
}

func WithAcceptedAt(t time.Time) Option {
	return func(i *Invitation) {
		i.acceptedAt = t
	}
}

func WithCreatedAt(t time.Time) Option {
	return func(i *Invitation) {
		i.createdAt = t
	}
}

// Invitation lets an organization admin pull a user into the collective by
// email. The token travels in the invite link and is single use.
type Invitation struct {
	id             string
	organizationID string
	email          internet.Email
	roleID         string
	token          string
	status         Status
	expiresAt      time.Time
	acceptedAt     time.Time
	createdAt      time.Time
}

func New(organizationID string, email internet.Email, roleID string, opts ...Option) *Invitation {
	i := &Invitation{
		id:             uuid.NewString(),
		organizationID: organizationID,
		email:          email,
		roleID:         roleID,
		token:          newToken(),
		status:         StatusPending,
		expiresAt:      time.Now().Add(DefaultTTL),
		createdAt:      time.Now(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Invitation) ID() string {
	return i.id
}

func (i *Invitation) OrganizationID() string {
	return i.organizationID
}

func (i *Invitation) Email() internet.Email {
	return i.email
}

func (i *Invitation) RoleID() string {
	return i.roleID
}

func (i *Invitation) Token() string {
	return i.token
}

func (i *Invitation) Status() Status {
	return i.status
}

func (i *Invitation) ExpiresAt() time.Time {
	return i.expiresAt
}

func (i *Invitation) AcceptedAt() time.Time {
	return i.acceptedAt
}

func (i *Invitation) CreatedAt() time.Time {
	return i.createdAt
}

// IsAcceptable reports whether the invitation can still be redeemed.
func (i *Invitation) IsAcceptable() bool {
	return i.status == StatusPending && time.Now().Before(i.expiresAt)
}

func (i *Invitation) Accept() {
	i.status = StatusAccepted
	i.acceptedAt = time.Now()
}

func (i *Invitation) Revoke() {
	i.status = StatusRevoked
}

func newToken() string {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

type Repository interface {
	GetByOrganization(ctx context.Context, orgID string) ([]*Invitation, error)
	GetByID(ctx context.Context, id string) (*Invitation, error)
	GetByToken(ctx context.Context, token string) (*Invitation, error)
	Create(ctx context.Context, data *Invitation) (*Invitation, error)
	Update(ctx context.Context, data *Invitation) error
}
