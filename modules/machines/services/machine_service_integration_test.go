package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinpoint-collective/pinpoint/modules"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/aggregates/user"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/membership"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/role"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/value_objects/internet"
	corepersistence "github.com/pinpoint-collective/pinpoint/modules/core/infrastructure/persistence"
	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/entities/location"
	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/entities/model"
	machinespersistence "github.com/pinpoint-collective/pinpoint/modules/machines/infrastructure/persistence"
	"github.com/pinpoint-collective/pinpoint/modules/machines/services"
	"github.com/pinpoint-collective/pinpoint/pkg/authz"
	"github.com/pinpoint-collective/pinpoint/pkg/boundary"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/itf"
)

// fleetFixture is a migrated database with one admin member, a catalog model
// and two venues to shuttle cabinets between.
type fleetFixture struct {
	env   *itf.TestEnvironment
	ctx   context.Context
	actor user.User
	mdl   *model.Model
	locA  *location.Location
	locB  *location.Location
	fleet *services.MachineService
}

func setupFleetFixture(t *testing.T) *fleetFixture {
	t.Helper()

	email, err := internet.NewEmail("casey@pinpoint.test")
	require.NoError(t, err)
	actor := user.New("Casey", "Morgan", email, user.UILanguageEN)

	env := itf.NewTestContext().
		WithModules(modules.BuiltInModules...).
		WithUser(actor).
		Build(t)

	userRepo := corepersistence.NewUserRepository()
	_, err = userRepo.Create(env.Ctx, actor)
	require.NoError(t, err)

	roleRepo := corepersistence.NewRoleRepository()
	adminRole, err := roleRepo.Create(env.Ctx, role.New(
		"Admin",
		role.WithOrganizationID(env.OrgID()),
		role.WithSlug(role.SlugAdmin),
		role.WithSystem(true),
	))
	require.NoError(t, err)

	membershipRepo := corepersistence.NewMembershipRepository(userRepo)
	member, err := membershipRepo.Create(env.Ctx, membership.New(env.OrgID(), actor.ID(), adminRole.ID()))
	require.NoError(t, err)

	grantRole(t, env.OrgID(), actor.ID(), role.SlugAdmin)

	ctx := composables.WithMembership(env.Ctx, &boundary.Membership{
		ID:             member.ID(),
		UserID:         actor.ID(),
		OrganizationID: env.OrgID(),
		RoleID:         adminRole.ID(),
	})

	mdl, err := machinespersistence.NewModelRepository().Create(
		env.Ctx, model.New("Attack from Mars", "Bally", 1995, model.TypeSS))
	require.NoError(t, err)

	locationRepo := machinespersistence.NewLocationRepository()
	locA, err := locationRepo.Create(ctx, location.New(env.OrgID(), "Flipper Hall", "Main St 1", "Portland"))
	require.NoError(t, err)
	locB, err := locationRepo.Create(ctx, location.New(env.OrgID(), "Backroom Workshop", "Dock Rd 9", "Portland"))
	require.NoError(t, err)

	return &fleetFixture{
		env:   env,
		ctx:   ctx,
		actor: actor,
		mdl:   mdl,
		locA:  locA,
		locB:  locB,
		fleet: itf.GetService[services.MachineService](env),
	}
}

func grantRole(t *testing.T, orgID, userID, slug string) {
	t.Helper()
	subject := authz.SubjectForUser(orgID, userID)
	domain := authz.DomainFromOrg(orgID)
	require.NoError(t, authz.Use().GrantRole(subject, authz.SubjectForRole(slug), domain))
	t.Cleanup(func() {
		_ = authz.Use().RevokeRole(subject, authz.SubjectForRole(slug), domain)
	})
}

func TestMachineFleet(t *testing.T) {
	t.Parallel()
	f := setupFleetFixture(t)

	registered, err := f.fleet.Create(f.ctx, f.mdl.ID(), f.locA.ID(), "")
	require.NoError(t, err)

	t.Run("registration mints a sticker token", func(t *testing.T) {
		assert.NotEmpty(t, registered.QRToken())
		assert.Equal(t, f.env.OrgID(), registered.OrganizationID())
		assert.Equal(t, f.locA.ID(), registered.LocationID())
		assert.Empty(t, registered.OwnerID())
	})

	t.Run("moving relocates the cabinet", func(t *testing.T) {
		moved, err := f.fleet.Move(f.ctx, registered.ID(), f.locB.ID())
		require.NoError(t, err)
		assert.Equal(t, f.locB.ID(), moved.LocationID())
	})

	t.Run("a venue from another organization is invisible", func(t *testing.T) {
		other, err := itf.CreateTestOrganization(f.ctx, f.env.Pool)
		require.NoError(t, err)
		foreign, err := machinespersistence.NewLocationRepository().Create(
			f.ctx, location.New(other.ID(), "Rival Arcade", "Far Ave 7", "Salem"))
		require.NoError(t, err)

		_, err = f.fleet.Move(f.ctx, registered.ID(), foreign.ID())
		require.ErrorIs(t, err, machinespersistence.ErrLocationNotFound)
	})

	t.Run("ownership requires membership", func(t *testing.T) {
		strangerEmail, err := internet.NewEmail("drew@pinpoint.test")
		require.NoError(t, err)
		stranger := user.New("Drew", "Sato", strangerEmail, user.UILanguageEN)
		_, err = corepersistence.NewUserRepository().Create(f.env.Ctx, stranger)
		require.NoError(t, err)

		_, err = f.fleet.AssignOwner(f.ctx, registered.ID(), stranger.ID())
		var bErr *boundary.Error
		require.ErrorAs(t, err, &bErr)
		assert.Equal(t, boundary.CodeNotFound, bErr.Result.Code)

		owned, err := f.fleet.AssignOwner(f.ctx, registered.ID(), f.actor.ID())
		require.NoError(t, err)
		assert.Equal(t, f.actor.ID(), owned.OwnerID())

		released, err := f.fleet.AssignOwner(f.ctx, registered.ID(), "")
		require.NoError(t, err)
		assert.Empty(t, released.OwnerID())
	})

	t.Run("rotating the sticker invalidates the printed token", func(t *testing.T) {
		stale := registered.QRToken()
		rotated, err := f.fleet.RotateQRToken(f.ctx, registered.ID())
		require.NoError(t, err)
		require.NotEqual(t, stale, rotated.QRToken())

		_, err = f.fleet.ResolveQR(f.env.Ctx, stale)
		require.ErrorIs(t, err, machinespersistence.ErrMachineNotFound)

		resolved, err := f.fleet.ResolveQR(f.env.Ctx, rotated.QRToken())
		require.NoError(t, err)
		assert.Equal(t, registered.ID(), resolved.Machine.ID())
		require.NotNil(t, resolved.Organization)
		assert.Equal(t, f.env.Organization.Name(), resolved.Organization.Name)
	})

	t.Run("retiring takes it off the floor", func(t *testing.T) {
		require.NoError(t, f.fleet.Delete(f.ctx, registered.ID()))
		_, err := f.fleet.GetByID(f.ctx, registered.ID())
		require.ErrorIs(t, err, machinespersistence.ErrMachineNotFound)
	})
}

func TestMachineCrossOrganizationReads(t *testing.T) {
	t.Parallel()
	f := setupFleetFixture(t)

	registered, err := f.fleet.Create(f.ctx, f.mdl.ID(), f.locA.ID(), "")
	require.NoError(t, err)

	other, err := itf.CreateTestOrganization(f.ctx, f.env.Pool)
	require.NoError(t, err)
	grantRole(t, other.ID(), f.actor.ID(), role.SlugAdmin)
	otherCtx := composables.WithOrgID(f.ctx, other.ID())

	_, err = f.fleet.GetByID(otherCtx, registered.ID())
	require.ErrorIs(t, err, machinespersistence.ErrMachineNotFound)

	_, err = f.fleet.GetByLocation(otherCtx, f.locA.ID())
	require.ErrorIs(t, err, machinespersistence.ErrLocationNotFound)
}
