package comment_test

import (
	"testing"
	"time"

	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/entities/comment"
)

func TestNew(t *testing.T) {
	t.Parallel()

	c := comment.New("org-1", "issue-1", "user-1", "left flipper is sticky")
	if c.ID() == "" {
		t.Error("expected a minted id")
	}
	if c.IsDeleted() {
		t.Error("new comment should not be deleted")
	}
	if c.Content() != "left flipper is sticky" {
		t.Errorf("unexpected content: %q", c.Content())
	}
}

func TestEdit(t *testing.T) {
	t.Parallel()

	c := comment.New("org-1", "issue-1", "user-1", "first draft",
		comment.WithUpdatedAt(time.Now().Add(-time.Hour)))
	before := c.UpdatedAt()

	c.Edit("second draft")
	if c.Content() != "second draft" {
		t.Errorf("unexpected content: %q", c.Content())
	}
	if !c.UpdatedAt().After(before) {
		t.Error("Edit should bump the updated timestamp")
	}
}

func TestSoftDeleteMarker(t *testing.T) {
	t.Parallel()

	now := time.Now()
	c := comment.New("org-1", "issue-1", "user-1", "gone", comment.WithDeletedAt(&now))
	if !c.IsDeleted() {
		t.Error("comment with a deleted stamp should report deleted")
	}
}
