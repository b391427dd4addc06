package defaults

import (
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/permission"

	corePerms "github.com/pinpoint-collective/pinpoint/modules/core/permissions"
	issuePerms "github.com/pinpoint-collective/pinpoint/modules/issues/permissions"
	machinePerms "github.com/pinpoint-collective/pinpoint/modules/machines/permissions"
	notificationPerms "github.com/pinpoint-collective/pinpoint/modules/notifications/permissions"
)

// AllPermissions returns the full cross-module permission catalog. Seeding
// upserts it and organization provisioning grants it to the admin role.
func AllPermissions() []*permission.Permission {
	totalCapacity := len(corePerms.Permissions) +
		len(machinePerms.Permissions) +
		len(issuePerms.Permissions) +
		len(notificationPerms.Permissions)

	permissions := make([]*permission.Permission, 0, totalCapacity)
	permissions = append(permissions, corePerms.Permissions...)
	permissions = append(permissions, machinePerms.Permissions...)
	permissions = append(permissions, issuePerms.Permissions...)
	permissions = append(permissions, notificationPerms.Permissions...)
	return permissions
}
