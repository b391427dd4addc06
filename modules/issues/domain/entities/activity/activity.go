package activity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Action names what happened to the issue in one feed entry.
type Action string

const (
	ActionCreated       Action = "created"
	ActionUpdated       Action = "updated"
	ActionStatusChanged Action = "status_changed"
	ActionAssigned      Action = "assigned"
	ActionReverted      Action = "reverted"
)

type Option func(a *Activity)

func WithID(id string) Option {
	return func(a *Activity) {
		a.id = id
	}
}

func WithCreatedAt(t time.Time) Option {
	return func(a *Activity) {
		a.createdAt = t
	}
}

// Activity is one entry in an issue's change feed. Changes holds the
// RFC 6902 patch from the issue's image before the write to its image after
// it; Rollback holds the reverse patch, which Revert applies to undo the
// entry.
type Activity struct {
	id             string
	organizationID string
	issueID        string
	actorID        string
	action         Action
	changes        json.RawMessage
	rollback       json.RawMessage
	createdAt      time.Time
}

func New(organizationID, issueID, actorID string, action Action, changes, rollback json.RawMessage, opts ...Option) *Activity {
	a := &Activity{
		id:             uuid.NewString(),
		organizationID: organizationID,
		issueID:        issueID,
		actorID:        actorID,
		action:         action,
		changes:        changes,
		rollback:       rollback,
		createdAt:      time.Now(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Activity) ID() string {
	return a.id
}

func (a *Activity) OrganizationID() string {
	return a.organizationID
}

func (a *Activity) IssueID() string {
	return a.issueID
}

// ActorID returns the user who made the change, empty for anonymous reports.
func (a *Activity) ActorID() string {
	return a.actorID
}

func (a *Activity) Action() Action {
	return a.action
}

func (a *Activity) Changes() json.RawMessage {
	return a.changes
}

func (a *Activity) Rollback() json.RawMessage {
	return a.rollback
}

func (a *Activity) CreatedAt() time.Time {
	return a.createdAt
}

type Repository interface {
	// GetByIssue returns the feed of an issue, newest entry first.
	GetByIssue(ctx context.Context, issueID string) ([]*Activity, error)
	GetByID(ctx context.Context, id string) (*Activity, error)
	Create(ctx context.Context, data *Activity) (*Activity, error)
}
