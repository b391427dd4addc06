package comment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Option func(c *Comment)

func WithID(id string) Option {
	return func(c *Comment) {
		c.id = id
	}
}

func WithCreatedAt(t time.Time) Option {
	return func(c *Comment) {
		c.createdAt = t
	}
}

func WithUpdatedAt(t time.Time) Option {
	return func(c *Comment) {
		c.updatedAt = t
	}
}

func WithDeletedAt(t *time.Time) Option {
	return func(c *Comment) {
		c.deletedAt = t
	}
}

// Comment is a member's note on an issue. Comments are soft deleted: the row
// stays so the thread keeps its shape, but the content no longer leaves the
// repository.
type Comment struct {
	id             string
	organizationID string
	issueID        string
	authorID       string
	content        string
	createdAt      time.Time
	updatedAt      time.Time
	deletedAt      *time.Time
}

func New(organizationID, issueID, authorID, content string, opts ...Option) *Comment {
	c := &Comment{
		id:             uuid.NewString(),
		organizationID: organizationID,
		issueID:        issueID,
		authorID:       authorID,
		content:        content,
		createdAt:      time.Now(),
		updatedAt:      time.Now(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Comment) ID() string {
	return c.id
}

func (c *Comment) OrganizationID() string {
	return c.organizationID
}

func (c *Comment) IssueID() string {
	return c.issueID
}

func (c *Comment) AuthorID() string {
	return c.authorID
}

func (c *Comment) Content() string {
	return c.content
}

func (c *Comment) CreatedAt() time.Time {
	return c.createdAt
}

func (c *Comment) UpdatedAt() time.Time {
	return c.updatedAt
}

func (c *Comment) DeletedAt() *time.Time {
	return c.deletedAt
}

func (c *Comment) IsDeleted() bool {
	return c.deletedAt != nil
}

func (c *Comment) Edit(content string) {
	c.content = content
	c.updatedAt = time.Now()
}

type Repository interface {
	// GetByIssue returns the live comments of an issue, oldest first.
	GetByIssue(ctx context.Context, issueID string) ([]*Comment, error)
	GetByID(ctx context.Context, id string) (*Comment, error)
	Create(ctx context.Context, data *Comment) (*Comment, error)
	Update(ctx context.Context, data *Comment) error
	// SoftDelete stamps the comment deleted without removing the row.
	SoftDelete(ctx context.Context, id string) error
}
