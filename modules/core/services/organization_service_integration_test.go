package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinpoint-collective/pinpoint/modules"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/aggregates/organization"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/aggregates/user"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/role"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/value_objects/internet"
	corepersistence "github.com/pinpoint-collective/pinpoint/modules/core/infrastructure/persistence"
	"github.com/pinpoint-collective/pinpoint/modules/core/services"
	issuespersistence "github.com/pinpoint-collective/pinpoint/modules/issues/infrastructure/persistence"
	"github.com/pinpoint-collective/pinpoint/pkg/authz"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/itf"
)

type provisioningFixture struct {
	env     *itf.TestEnvironment
	creator user.User
	other   user.User
	orgs    *services.OrganizationService
	members *services.MembershipService
}

func setupProvisioningFixture(t *testing.T) *provisioningFixture {
	t.Helper()

	creatorEmail, err := internet.NewEmail("ada@pinpoint.test")
	require.NoError(t, err)
	creator := user.New("Ada", "Flint", creatorEmail, user.UILanguageEN)

	env := itf.NewTestContext().
		WithModules(modules.BuiltInModules...).
		WithUser(creator).
		Build(t)

	userRepo := corepersistence.NewUserRepository()
	_, err = userRepo.Create(env.Ctx, creator)
	require.NoError(t, err)

	otherEmail, err := internet.NewEmail("noah@pinpoint.test")
	require.NoError(t, err)
	other := user.New("Noah", "Petrov", otherEmail, user.UILanguageEN)
	_, err = userRepo.Create(env.Ctx, other)
	require.NoError(t, err)

	return &provisioningFixture{
		env:     env,
		creator: creator,
		other:   other,
		orgs:    itf.GetService[services.OrganizationService](env),
		members: itf.GetService[services.MembershipService](env),
	}
}

// provision creates an organization through the service and schedules the
// policy-engine grant cleanup for every user this suite touches.
func (f *provisioningFixture) provision(t *testing.T, name, subdomain string) (organization.Organization, context.Context) {
	t.Helper()
	created, err := f.orgs.Create(f.env.Ctx, name, subdomain)
	require.NoError(t, err)

	domain := authz.DomainFromOrg(created.ID())
	t.Cleanup(func() {
		for _, uid := range []string{f.creator.ID(), f.other.ID()} {
			subject := authz.SubjectForUser(created.ID(), uid)
			for _, slug := range []string{role.SlugAdmin, role.SlugMember, role.SlugTechnician} {
				_ = authz.Use().RevokeRole(subject, authz.SubjectForRole(slug), domain)
			}
		}
	})

	return created, composables.WithOrgID(f.env.Ctx, created.ID())
}

func TestProvisionOrganization(t *testing.T) {
	t.Parallel()
	f := setupProvisioningFixture(t)

	created, orgCtx := f.provision(t, "Flipper Hall Collective", "Flipper-Hall")

	t.Run("the subdomain is normalized", func(t *testing.T) {
		assert.Equal(t, "flipper-hall", created.Subdomain())
		assert.True(t, created.IsActive())
	})

	t.Run("the three system roles exist", func(t *testing.T) {
		roleRepo := corepersistence.NewRoleRepository()
		for _, slug := range []string{role.SlugAdmin, role.SlugMember, role.SlugTechnician} {
			r, err := roleRepo.GetBySlug(orgCtx, slug)
			require.NoError(t, err, slug)
			assert.True(t, r.IsSystem(), slug)
		}
	})

	t.Run("the creator holds the admin membership", func(t *testing.T) {
		m, err := f.members.GetByUserAndOrganization(orgCtx, f.creator.ID(), created.ID())
		require.NoError(t, err)
		require.NotNil(t, m.Role())
		assert.Equal(t, role.SlugAdmin, m.Role().Slug())
	})

	t.Run("stock statuses ride the creation event", func(t *testing.T) {
		statuses, err := issuespersistence.NewStatusRepository().GetAll(orgCtx)
		require.NoError(t, err)
		assert.Len(t, statuses, 6)
	})

	t.Run("the subdomain cannot be claimed twice", func(t *testing.T) {
		_, err := f.orgs.Create(f.env.Ctx, "Copy Cat", "flipper-hall")
		require.ErrorIs(t, err, services.ErrSubdomainTaken)
	})

	t.Run("reserved labels are rejected", func(t *testing.T) {
		_, err := f.orgs.Create(f.env.Ctx, "Sneaky", "api")
		require.ErrorIs(t, err, organization.ErrInvalidSubdomain)
	})
}

func TestMembershipLifecycle(t *testing.T) {
	t.Parallel()
	f := setupProvisioningFixture(t)

	created, orgCtx := f.provision(t, "Tilt Town", "tilt-town")

	roleRepo := corepersistence.NewRoleRepository()
	adminRole, err := roleRepo.GetBySlug(orgCtx, role.SlugAdmin)
	require.NoError(t, err)
	memberRole, err := roleRepo.GetBySlug(orgCtx, role.SlugMember)
	require.NoError(t, err)

	added, err := f.members.Add(orgCtx, f.other.ID(), memberRole.ID())
	require.NoError(t, err)
	assert.Equal(t, memberRole.ID(), added.RoleID())

	t.Run("a second membership for the same user is rejected", func(t *testing.T) {
		_, err := f.members.Add(orgCtx, f.other.ID(), memberRole.ID())
		require.ErrorIs(t, err, services.ErrAlreadyMember)
	})

	t.Run("a role from another organization is invisible", func(t *testing.T) {
		ghost, err := roleRepo.Create(f.env.Ctx, role.New("Ghost", role.WithOrganizationID(f.env.OrgID())))
		require.NoError(t, err)
		_, err = f.members.Add(orgCtx, f.creator.ID(), ghost.ID())
		require.ErrorIs(t, err, corepersistence.ErrRoleNotFound)
	})

	t.Run("the last admin cannot step down or leave", func(t *testing.T) {
		creatorMembership, err := f.members.GetByUserAndOrganization(orgCtx, f.creator.ID(), created.ID())
		require.NoError(t, err)
		_, err = f.members.ChangeRole(orgCtx, creatorMembership.ID(), memberRole.ID())
		require.ErrorIs(t, err, services.ErrLastAdmin)
		require.ErrorIs(t, f.members.Remove(orgCtx, creatorMembership.ID()), services.ErrLastAdmin)
	})

	t.Run("handover works once a second admin exists", func(t *testing.T) {
		_, err := f.members.ChangeRole(orgCtx, added.ID(), adminRole.ID())
		require.NoError(t, err)

		creatorMembership, err := f.members.GetByUserAndOrganization(orgCtx, f.creator.ID(), created.ID())
		require.NoError(t, err)
		demoted, err := f.members.ChangeRole(orgCtx, creatorMembership.ID(), memberRole.ID())
		require.NoError(t, err)
		require.NotNil(t, demoted.Role())
		assert.Equal(t, role.SlugMember, demoted.Role().Slug())
	})

	t.Run("the new admin can remove a member but not themselves", func(t *testing.T) {
		adminCtx := composables.WithUser(orgCtx, f.other)

		require.ErrorIs(t, f.members.Remove(adminCtx, added.ID()), services.ErrLastAdmin)

		creatorMembership, err := f.members.GetByUserAndOrganization(adminCtx, f.creator.ID(), created.ID())
		require.NoError(t, err)
		require.NoError(t, f.members.Remove(adminCtx, creatorMembership.ID()))

		remaining, err := f.members.GetByOrganization(adminCtx)
		require.NoError(t, err)
		assert.Len(t, remaining, 1)
	})
}
