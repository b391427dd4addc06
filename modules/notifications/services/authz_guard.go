package services

import (
	"context"

	"github.com/pinpoint-collective/pinpoint/pkg/authz"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
)

var notificationsAuthzObject = authz.ObjectName("notifications", "notifications")

func authorizeNotifications(ctx context.Context, action string) error {
	currentUser, err := composables.UseUser(ctx)
	if err != nil || currentUser == nil {
		return nil
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		orgID = ""
	}

	req := authz.NewRequest(
		authz.SubjectForUser(orgID, currentUser.ID()),
		authz.DomainFromOrg(orgID),
		notificationsAuthzObject,
		authz.NormalizeAction(action),
	)
	return authz.Use().Authorize(ctx, req)
}
