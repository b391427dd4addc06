package services

import (
	"context"

	"github.com/pinpoint-collective/pinpoint/pkg/authz"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
)

// authorizeIssues runs the policy check for an issues object. Anonymous
// callers pass; endpoints that require authentication gate that at the
// router.
func authorizeIssues(ctx context.Context, object, action string, opts ...authz.RequestOption) error {
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
		object,
		authz.NormalizeAction(action),
		opts...,
	)
	return authz.Use().Authorize(ctx, req)
}
