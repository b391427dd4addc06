package persistence

import (
	"context"

	"github.com/pkg/errors"

	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/entities/activity"
	"github.com/pinpoint-collective/pinpoint/modules/issues/infrastructure/persistence/models"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/mapping"
)

var (
	ErrActivityNotFound = errors.New("activity not found")
)

const (
	activityFindQuery = `
		SELECT id, organization_id, issue_id, actor_id, action, changes, rollback, created_at
		FROM issue_activities`

	activityInsertQuery = `
		INSERT INTO issue_activities (id, organization_id, issue_id, actor_id, action, changes, rollback, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
)

// ActivityRepository is append only: feed entries are never edited or
// removed, a revert adds a new entry instead.
type ActivityRepository struct{}

func NewActivityRepository() activity.Repository {
	return &ActivityRepository{}
}

func (r *ActivityRepository) GetByIssue(ctx context.Context, issueID string) ([]*activity.Activity, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get organization from context")
	}
	return r.queryActivities(
		ctx,
		activityFindQuery+" WHERE issue_id = $1 AND organization_id = $2 ORDER BY created_at DESC",
		issueID,
		orgID,
	)
}

func (r *ActivityRepository) GetByID(ctx context.Context, id string) (*activity.Activity, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get organization from context")
	}
	activities, err := r.queryActivities(ctx, activityFindQuery+" WHERE id = $1 AND organization_id = $2", id, orgID)
	if err != nil {
		return nil, err
	}
	if len(activities) == 0 {
		return nil, ErrActivityNotFound
	}
	return activities[0], nil
}

func (r *ActivityRepository) Create(ctx context.Context, data *activity.Activity) (*activity.Activity, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(
		ctx,
		activityInsertQuery,
		data.ID(),
		data.OrganizationID(),
		data.IssueID(),
		mapping.ValueToSQLNullString(data.ActorID()),
		string(data.Action()),
		[]byte(data.Changes()),
		[]byte(data.Rollback()),
		data.CreatedAt(),
	); err != nil {
		return nil, errors.Wrap(err, "failed to create activity")
	}
	return data, nil
}

func (r *ActivityRepository) queryActivities(ctx context.Context, query string, args ...interface{}) ([]*activity.Activity, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	activities := make([]*activity.Activity, 0)
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(
			&a.ID,
			&a.OrganizationID,
			&a.IssueID,
			&a.ActorID,
			&a.Action,
			&a.Changes,
			&a.Rollback,
			&a.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan activity row")
		}
		activities = append(activities, ToDomainActivity(&a))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return activities, nil
}
