package persistence

import (
	"github.com/pinpoint-collective/pinpoint/modules/notifications/domain/entities/notification"
	"github.com/pinpoint-collective/pinpoint/modules/notifications/infrastructure/persistence/models"
)

func ToDomainNotification(dbRow *models.Notification) *notification.Notification {
	opts := []notification.Option{
		notification.WithID(dbRow.ID),
		notification.WithCreatedAt(dbRow.CreatedAt),
	}
	if dbRow.ReadAt.Valid {
		readAt := dbRow.ReadAt.Time
		opts = append(opts, notification.WithReadAt(&readAt))
	}
	return notification.New(
		dbRow.OrganizationID,
		dbRow.UserID,
		dbRow.Topic,
		dbRow.IssueID,
		dbRow.Title,
		dbRow.Message,
		opts...,
	)
}
