package persistence

import (
	"context"

	"github.com/pkg/errors"

	"github.com/pinpoint-collective/pinpoint/modules/notifications/domain/entities/notification"
	"github.com/pinpoint-collective/pinpoint/modules/notifications/infrastructure/persistence/models"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/repo"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
)

const (
	notificationFindQuery = `
		SELECT id, organization_id, user_id, topic, issue_id, title, message, read_at, created_at
		FROM notifications`

	notificationCountQuery = `SELECT COUNT(*) FROM notifications`

	notificationInsertQuery = `
		INSERT INTO notifications (id, organization_id, user_id, topic, issue_id, title, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
)

type NotificationRepository struct{}

func NewNotificationRepository() notification.Repository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) buildFilters(params *notification.FindParams, orgID string) ([]string, []interface{}) {
	where := []string{"organization_id = $1", "user_id = $2"}
	args := []interface{}{orgID, params.UserID}
	if params.UnreadOnly {
		where = append(where, "read_at IS NULL")
	}
	return where, args
}

func (r *NotificationRepository) GetPaginated(ctx context.Context, params *notification.FindParams) ([]*notification.Notification, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get organization from context")
	}

	where, args := r.buildFilters(params, orgID)
	query := repo.Join(
		notificationFindQuery,
		repo.JoinWhere(where...),
		"ORDER BY created_at DESC",
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	return r.queryNotifications(ctx, query, args...)
}

func (r *NotificationRepository) Count(ctx context.Context, params *notification.FindParams) (int64, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get organization from context")
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get transaction")
	}

	where, args := r.buildFilters(params, orgID)
	query := repo.Join(notificationCountQuery, repo.JoinWhere(where...))

	var count int64
	if err := tx.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count notifications")
	}
	return count, nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*notification.Notification, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get organization from context")
	}
	rows, err := r.queryNotifications(
		ctx,
		notificationFindQuery+" WHERE id = $1 AND organization_id = $2",
		id,
		orgID,
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotificationNotFound
	}
	return rows[0], nil
}

func (r *NotificationRepository) Create(ctx context.Context, data *notification.Notification) (*notification.Notification, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(
		ctx,
		notificationInsertQuery,
		data.ID(),
		data.OrganizationID(),
		data.UserID(),
		data.Topic(),
		data.IssueID(),
		data.Title(),
		data.Message(),
		data.CreatedAt(),
	); err != nil {
		return nil, errors.Wrap(err, "failed to create notification")
	}
	return data, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get organization from context")
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}

	query := `UPDATE notifications SET read_at = now() WHERE id = $1 AND organization_id = $2 AND read_at IS NULL`
	if _, err := tx.Exec(ctx, query, id, orgID); err != nil {
		return errors.Wrap(err, "failed to mark notification read")
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get organization from context")
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get transaction")
	}

	query := `UPDATE notifications SET read_at = now() WHERE organization_id = $1 AND user_id = $2 AND read_at IS NULL`
	tag, err := tx.Exec(ctx, query, orgID, userID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to mark notifications read")
	}
	return tag.RowsAffected(), nil
}

func (r *NotificationRepository) queryNotifications(ctx context.Context, query string, args ...interface{}) ([]*notification.Notification, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	notifications := make([]*notification.Notification, 0)
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(
			&n.ID,
			&n.OrganizationID,
			&n.UserID,
			&n.Topic,
			&n.IssueID,
			&n.Title,
			&n.Message,
			&n.ReadAt,
			&n.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan notification row")
		}
		notifications = append(notifications, ToDomainNotification(&n))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return notifications, nil
}
