package permissions

import (
	"github.com/google/uuid"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/permission"
)

var (
	NotificationRead = &permission.Permission{
		ID:       uuid.MustParse("2c7e90b5-64af-4d12-8f39-e58c01d7a631"),
		Name:     "Notification.Read",
		Resource: permission.ResourceNotification,
		Action:   permission.ActionRead,
		Modifier: permission.ModifierAll,
	}
	NotificationUpdate = &permission.Permission{
		ID:       uuid.MustParse("9f04d6c2-81be-4750-a3d8-26c09e54bf32"),
		Name:     "Notification.Update",
		Resource: permission.ResourceNotification,
		Action:   permission.ActionUpdate,
		Modifier: permission.ModifierAll,
	}
)

var Permissions = []*permission.Permission{
	NotificationRead,
	NotificationUpdate,
}
