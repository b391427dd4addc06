package persistence

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/entities/comment"
	"github.com/pinpoint-collective/pinpoint/modules/issues/infrastructure/persistence/models"
	"github.com/pinpoint-collective/pinpoint/pkg/boundary"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/repo"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
)

// commentScopeColumns resolves scope-map fields to columns for writes.
var commentScopeColumns = map[string]string{
	"id":             "id",
	"organizationId": "organization_id",
}

const (
	commentFindQuery = `
		SELECT id, organization_id, issue_id, author_id, content, created_at, updated_at, deleted_at
		FROM issue_comments`

	commentInsertQuery = `
		INSERT INTO issue_comments (id, organization_id, issue_id, author_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
)

type CommentRepository struct{}

func NewCommentRepository() comment.Repository {
	return &CommentRepository{}
}

func (r *CommentRepository) GetByIssue(ctx context.Context, issueID string) ([]*comment.Comment, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get organization from context")
	}
	return r.queryComments(
		ctx,
		commentFindQuery+" WHERE issue_id = $1 AND organization_id = $2 AND deleted_at IS NULL ORDER BY created_at ASC",
		issueID,
		orgID,
	)
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (*comment.Comment, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get organization from context")
	}
	comments, err := r.queryComments(
		ctx,
		commentFindQuery+" WHERE id = $1 AND organization_id = $2 AND deleted_at IS NULL",
		id,
		orgID,
	)
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return nil, ErrCommentNotFound
	}
	return comments[0], nil
}

func (r *CommentRepository) Create(ctx context.Context, data *comment.Comment) (*comment.Comment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(
		ctx,
		commentInsertQuery,
		data.ID(),
		data.OrganizationID(),
		data.IssueID(),
		data.AuthorID(),
		data.Content(),
		data.CreatedAt(),
		data.UpdatedAt(),
	); err != nil {
		return nil, errors.Wrap(err, "failed to create comment")
	}
	return data, nil
}

func (r *CommentRepository) Update(ctx context.Context, data *comment.Comment) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}

	fields := []string{"content", "updated_at"}
	scope := boundary.CreateEntityUpdateQuery(data.ID(), data.OrganizationID())
	conditions, whereArgs, err := repo.ScopeConditions(scope.Where, commentScopeColumns, len(fields))
	if err != nil {
		return errors.Wrap(err, "failed to build update scope")
	}

	args := []interface{}{
		data.Content(),
		data.UpdatedAt(),
	}
	args = append(args, whereArgs...)

	query := repo.Update("issue_comments", fields, strings.Join(conditions, " AND "))
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return errors.Wrap(err, "failed to update comment")
	}
	return nil
}

// SoftDelete keeps the row so the thread holds its shape; the content stops
// being served.
func (r *CommentRepository) SoftDelete(ctx context.Context, id string) error {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get organization from context")
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}

	scope := boundary.CreateEntityDeleteQuery(id, orgID)
	conditions, args, err := repo.ScopeConditions(scope.Where, commentScopeColumns, 0)
	if err != nil {
		return errors.Wrap(err, "failed to build delete scope")
	}

	query := "UPDATE issue_comments SET deleted_at = now() " + repo.JoinWhere(conditions...)
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return errors.Wrap(err, "failed to delete comment")
	}
	return nil
}

func (r *CommentRepository) queryComments(ctx context.Context, query string, args ...interface{}) ([]*comment.Comment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	comments := make([]*comment.Comment, 0)
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(
			&c.ID,
			&c.OrganizationID,
			&c.IssueID,
			&c.AuthorID,
			&c.Content,
			&c.CreatedAt,
			&c.UpdatedAt,
			&c.DeletedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan comment row")
		}
		comments = append(comments, ToDomainComment(&c))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return comments, nil
}
