package services

import (
	"context"

	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/aggregates/issue"
	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/entities/comment"
	"github.com/pinpoint-collective/pinpoint/pkg/authz"
	"github.com/pinpoint-collective/pinpoint/pkg/boundary"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/outbox"
)

var commentsAuthzObject = authz.ObjectName("issues", "comments")

func authorizeComments(ctx context.Context, action string) error {
	return authorizeIssues(ctx, commentsAuthzObject, action)
}

type CommentService struct {
	repo      comment.Repository
	issueRepo issue.Repository
	outbox    outbox.Publisher
}

func NewCommentService(repo comment.Repository, issueRepo issue.Repository, publisher outbox.Publisher) *CommentService {
	return &CommentService{
		repo:      repo,
		issueRepo: issueRepo,
		outbox:    publisher,
	}
}

// GetByIssue returns the live comments of an issue, oldest first.
func (s *CommentService) GetByIssue(ctx context.Context, issueID string) ([]*comment.Comment, error) {
	if err := authorizeComments(ctx, "list"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}

	i, err := s.issueRepo.GetByID(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if err := boundary.ValidateIssueOrganizationBoundary(i.ID(), i.OrganizationID(), orgID).Err(); err != nil {
		return nil, err
	}
	return s.repo.GetByIssue(ctx, issueID)
}

// Add posts a comment on an issue and announces it to the outbox in the
// same transaction.
func (s *CommentService) Add(ctx context.Context, issueID, content string) (*comment.Comment, error) {
	if err := authorizeComments(ctx, "create"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}
	currentUser, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}

	var created *comment.Comment
	err = composables.InOrgTx(ctx, func(txCtx context.Context) error {
		i, err := s.issueRepo.GetByID(txCtx, issueID)
		if err != nil {
			return err
		}
		if err := boundary.ValidateIssueOrganizationBoundary(i.ID(), i.OrganizationID(), orgID).Err(); err != nil {
			return err
		}

		created, err = s.repo.Create(txCtx, comment.New(orgID, issueID, currentUser.ID(), content))
		if err != nil {
			return err
		}

		payload := issuePayload(i, currentUser.ID())
		payload.CommentID = created.ID()
		return enqueueIssueEvent(txCtx, s.outbox, issue.TopicCommented, payload)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Edit rewrites a comment's content. Only the author may edit their own
// words.
func (s *CommentService) Edit(ctx context.Context, id, content string) (*comment.Comment, error) {
	if err := authorizeComments(ctx, "update"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}
	currentUser, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}

	var updated *comment.Comment
	err = composables.InOrgTx(ctx, func(txCtx context.Context) error {
		c, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := boundary.ValidateCommentOrganizationBoundary(c.ID(), c.OrganizationID(), orgID).Err(); err != nil {
			return err
		}
		if c.AuthorID() != currentUser.ID() {
			return composables.ErrForbidden
		}

		c.Edit(content)
		if err := s.repo.Update(txCtx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Remove soft-deletes a comment. Authors can always take back their own;
// anyone else needs the delete permission.
func (s *CommentService) Remove(ctx context.Context, id string) error {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return err
	}
	currentUser, err := composables.UseUser(ctx)
	if err != nil {
		return err
	}

	return composables.InOrgTx(ctx, func(txCtx context.Context) error {
		c, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := boundary.ValidateCommentOrganizationBoundary(c.ID(), c.OrganizationID(), orgID).Err(); err != nil {
			return err
		}
		if c.AuthorID() != currentUser.ID() {
			if err := authorizeComments(txCtx, "delete"); err != nil {
				return err
			}
		}
		return s.repo.SoftDelete(txCtx, id)
	})
}
