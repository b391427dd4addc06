package seed

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/aggregates/user"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/membership"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/role"
	"github.com/pinpoint-collective/pinpoint/modules/core/infrastructure/persistence"
	"github.com/pinpoint-collective/pinpoint/pkg/application"
	"github.com/pinpoint-collective/pinpoint/pkg/authz"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/configuration"
)

type userSeeder struct {
	user user.User
}

// UserSeedFunc creates the given user if missing and enrolls them as an
// admin of the default organization.
func UserSeedFunc(usr user.User) application.SeedFunc {
	s := &userSeeder{user: usr}
	return s.CreateUser
}

func (s *userSeeder) CreateUser(ctx context.Context, app application.Application) error {
	usr, err := s.getOrCreateUser(ctx)
	if err != nil {
		return err
	}
	return s.ensureAdminMembership(ctx, usr)
}

func (s *userSeeder) getOrCreateUser(ctx context.Context) (user.User, error) {
	userRepository := persistence.NewUserRepository()
	logger := configuration.Use().Logger()

	found, err := userRepository.GetByEmail(ctx, s.user.Email().Value())
	if err != nil && !errors.Is(err, persistence.ErrUserNotFound) {
		return nil, err
	}
	if found != nil {
		logger.Infof("User %s already exists", s.user.Email().Value())
		return found, nil
	}

	logger.Infof("Creating user %s", s.user.Email().Value())
	return userRepository.Create(ctx, s.user)
}

func (s *userSeeder) ensureAdminMembership(ctx context.Context, usr user.User) error {
	logger := configuration.Use().Logger()
	membershipRepository := persistence.NewMembershipRepository(persistence.NewUserRepository())

	existing, err := membershipRepository.GetByUserAndOrganization(ctx, usr.ID(), DefaultOrganizationID)
	if err != nil && !errors.Is(err, persistence.ErrMembershipNotFound) {
		return err
	}
	if existing == nil {
		orgCtx := composables.WithOrgID(ctx, DefaultOrganizationID)
		adminRole, err := persistence.NewRoleRepository().GetBySlug(orgCtx, role.SlugAdmin)
		if err != nil {
			return err
		}
		logger.Infof("Enrolling %s as admin of the default organization", s.user.Email().Value())
		m := membership.New(DefaultOrganizationID, usr.ID(), adminRole.ID())
		if _, err := membershipRepository.Create(orgCtx, m); err != nil {
			return err
		}
	}

	return authz.Use().GrantRole(
		authz.SubjectForUser(DefaultOrganizationID, usr.ID()),
		authz.SubjectForRole(role.SlugAdmin),
		authz.DomainFromOrg(DefaultOrganizationID),
	)
}
