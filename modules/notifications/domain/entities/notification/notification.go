package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Option func(n *Notification)

func WithID(id string) Option {
	return func(n *Notification) {
		n.id = id
	}
}

func WithReadAt(t *time.Time) Option {
	return func(n *Notification) {
		n.readAt = t
	}
}

func WithCreatedAt(t time.Time) Option {
	return func(n *Notification) {
		n.createdAt = t
	}
}

// Notification is one in-app message addressed to one member. Rows are
// written by the outbox consumer, never directly by request handlers, so
// the issue data inside is a snapshot taken at event time.
type Notification struct {
	id             string
	organizationID string
	userID         string
	topic          string
	issueID        string
	title          string
	message        string
	readAt         *time.Time
	createdAt      time.Time
}

func New(organizationID, userID, topic, issueID, title, message string, opts ...Option) *Notification {
	n := &Notification{
		id:             uuid.NewString(),
		organizationID: organizationID,
		userID:         userID,
		topic:          topic,
		issueID:        issueID,
		title:          title,
		message:        message,
		createdAt:      time.Now(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Notification) ID() string {
	return n.id
}

func (n *Notification) OrganizationID() string {
	return n.organizationID
}

func (n *Notification) UserID() string {
	return n.userID
}

func (n *Notification) Topic() string {
	return n.topic
}

func (n *Notification) IssueID() string {
	return n.issueID
}

func (n *Notification) Title() string {
	return n.title
}

func (n *Notification) Message() string {
	return n.message
}

func (n *Notification) ReadAt() *time.Time {
	return n.readAt
}

func (n *Notification) IsRead() bool {
	return n.readAt != nil
}

func (n *Notification) CreatedAt() time.Time {
	return n.createdAt
}

func (n *Notification) MarkRead() {
	if n.readAt != nil {
		return
	}
	now := time.Now()
	n.readAt = &now
}

type FindParams struct {
	UserID     string
	UnreadOnly bool
	Limit      int
	Offset     int
}

type Repository interface {
	// GetPaginated returns the user's notifications, newest first.
	GetPaginated(ctx context.Context, params *FindParams) ([]*Notification, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetByID(ctx context.Context, id string) (*Notification, error)
	Create(ctx context.Context, data *Notification) (*Notification, error)
	MarkRead(ctx context.Context, id string) error
	// MarkAllRead stamps every unread notification of the user in one
	// statement and reports how many rows it touched.
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}
