package seed

import (
	"context"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/permission"
	"github.com/pinpoint-collective/pinpoint/modules/core/infrastructure/persistence"
	"github.com/pinpoint-collective/pinpoint/pkg/application"
	"github.com/pinpoint-collective/pinpoint/pkg/authz"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
)

// SyncAuthzGrants rebuilds the in-memory policy engine from the database:
// policy rules for each custom role's permission set, and role grants for
// every membership. The server runs it on boot since the policy file only
// carries the static system-role rules.
func SyncAuthzGrants(ctx context.Context, app application.Application) error {
	svc := authz.Use()
	orgRepository := persistence.NewOrganizationRepository()
	roleRepository := persistence.NewRoleRepository()
	membershipRepository := persistence.NewMembershipRepository(persistence.NewUserRepository())

	orgs, err := orgRepository.GetAll(ctx)
	if err != nil {
		return err
	}
	for _, org := range orgs {
		domain := authz.DomainFromOrg(org.ID())
		orgCtx := composables.WithOrgID(ctx, org.ID())

		roles, err := roleRepository.GetAll(orgCtx)
		if err != nil {
			return err
		}
		slugByRoleID := make(map[string]string, len(roles))
		for _, r := range roles {
			slugByRoleID[r.ID()] = r.Slug()
			if r.IsSystem() {
				continue
			}
			if err := svc.SetRolePolicies(
				authz.SubjectForRole(r.Slug()),
				domain,
				permission.PolicyPairs(r.Permissions()),
			); err != nil {
				return err
			}
		}

		members, err := membershipRepository.GetByOrganization(orgCtx, org.ID())
		if err != nil {
			return err
		}
		for _, m := range members {
			slug, ok := slugByRoleID[m.RoleID()]
			if !ok {
				continue
			}
			if err := svc.GrantRole(
				authz.SubjectForUser(org.ID(), m.UserID()),
				authz.SubjectForRole(slug),
				domain,
			); err != nil {
				return err
			}
		}
	}
	return nil
}
