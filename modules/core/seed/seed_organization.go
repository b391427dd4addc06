package seed

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/aggregates/organization"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/permission"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/role"
	"github.com/pinpoint-collective/pinpoint/modules/core/infrastructure/persistence"
	corePerms "github.com/pinpoint-collective/pinpoint/modules/core/permissions"
	"github.com/pinpoint-collective/pinpoint/pkg/application"
	"github.com/pinpoint-collective/pinpoint/pkg/configuration"
)

// DefaultOrganizationID is the fixed id of the organization the seeder
// provisions for local development and tests.
const (
	DefaultOrganizationID        = "00000000-0000-0000-0000-000000000001"
	defaultOrganizationName      = "Flip City Collective"
	defaultOrganizationSubdomain = "flipcity"
)

// OrganizationSeedFunc provisions the default organization together with its
// three system roles. adminPermissions becomes the admin role's permission
// set; pass the full catalog.
func OrganizationSeedFunc(adminPermissions []*permission.Permission) application.SeedFunc {
	return func(ctx context.Context, app application.Application) error {
		logger := configuration.Use().Logger()
		orgRepository := persistence.NewOrganizationRepository()

		existing, err := orgRepository.GetByID(ctx, DefaultOrganizationID)
		if err != nil && !errors.Is(err, persistence.ErrOrganizationNotFound) {
			return err
		}
		if existing != nil {
			logger.Infof("Default organization already exists")
			return nil
		}

		logger.Infof("Creating default organization %s", defaultOrganizationSubdomain)
		org := organization.New(
			defaultOrganizationName,
			organization.WithID(DefaultOrganizationID),
			organization.WithSubdomain(defaultOrganizationSubdomain),
		)
		if _, err := orgRepository.Create(ctx, org); err != nil {
			return err
		}
		return provisionSystemRoles(ctx, org.ID(), adminPermissions)
	}
}

func provisionSystemRoles(ctx context.Context, orgID string, adminPermissions []*permission.Permission) error {
	roleRepository := persistence.NewRoleRepository()
	memberPermissions := []*permission.Permission{
		corePerms.OrganizationRead,
		corePerms.MemberRead,
		corePerms.RoleRead,
	}

	systemRoles := []*role.Role{
		role.New(
			"Admin",
			role.WithOrganizationID(orgID),
			role.WithSlug(role.SlugAdmin),
			role.WithSystem(true),
			role.WithPermissions(adminPermissions),
		),
		role.New(
			"Member",
			role.WithOrganizationID(orgID),
			role.WithSlug(role.SlugMember),
			role.WithSystem(true),
			role.WithPermissions(memberPermissions),
		),
		role.New(
			"Technician",
			role.WithOrganizationID(orgID),
			role.WithSlug(role.SlugTechnician),
			role.WithSystem(true),
			role.WithPermissions(memberPermissions),
		),
	}
	for _, r := range systemRoles {
		if _, err := roleRepository.Create(ctx, r); err != nil {
			return errors.Wrapf(err, "failed to create system role %s", r.Slug())
		}
	}
	return nil
}
