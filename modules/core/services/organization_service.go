package services

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/aggregates/organization"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/membership"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/permission"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/role"
	"github.com/pinpoint-collective/pinpoint/modules/core/permissions"
	"github.com/pinpoint-collective/pinpoint/pkg/authz"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/eventbus"
)

var organizationsAuthzObject = authz.ObjectName("core", "organizations")

var ErrSubdomainTaken = errors.New("subdomain already taken")

func authorizeOrganizations(ctx context.Context, action string) error {
	return authorizeCore(ctx, organizationsAuthzObject, action)
}

type OrganizationService struct {
	repo             organization.Repository
	roleRepo         role.Repository
	membershipRepo   membership.Repository
	adminPermissions []*permission.Permission
	publisher        eventbus.EventBus
}

// NewOrganizationService wires the provisioning dependencies.
// adminPermissions is the full cross-module catalog granted to each new
// organization's admin role.
func NewOrganizationService(
	repo organization.Repository,
	roleRepo role.Repository,
	membershipRepo membership.Repository,
	adminPermissions []*permission.Permission,
	publisher eventbus.EventBus,
) *OrganizationService {
	return &OrganizationService{
		repo:             repo,
		roleRepo:         roleRepo,
		membershipRepo:   membershipRepo,
		adminPermissions: adminPermissions,
		publisher:        publisher,
	}
}

func (s *OrganizationService) GetByID(ctx context.Context, id string) (organization.Organization, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *OrganizationService) GetBySubdomain(ctx context.Context, subdomain string) (organization.Organization, error) {
	return s.repo.GetBySubdomain(ctx, subdomain)
}

func (s *OrganizationService) GetPaginated(ctx context.Context, params *organization.FindParams) ([]organization.Organization, error) {
	return s.repo.GetPaginated(ctx, params)
}

// Create provisions a new collective: the organization row, its three system
// roles, and an admin membership for the creating user. Everything commits
// or nothing does.
func (s *OrganizationService) Create(ctx context.Context, name, subdomain string) (organization.Organization, error) {
	currentUser, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}

	normalized, err := organization.NormalizeSubdomain(subdomain)
	if err != nil {
		return nil, err
	}

	createdEvent := organization.NewCreatedEvent(ctx, nil)

	var created organization.Organization
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		taken, err := s.repo.SubdomainTaken(txCtx, normalized)
		if err != nil {
			return err
		}
		if taken {
			return ErrSubdomainTaken
		}

		created, err = s.repo.Create(txCtx, organization.New(name, organization.WithSubdomain(normalized)))
		if err != nil {
			return err
		}

		adminRole, err := s.provisionSystemRoles(txCtx, created.ID())
		if err != nil {
			return err
		}

		m := membership.New(created.ID(), currentUser.ID(), adminRole.ID())
		if _, err := s.membershipRepo.Create(txCtx, m); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := authz.Use().GrantRole(
		authz.SubjectForUser(created.ID(), currentUser.ID()),
		authz.SubjectForRole(role.SlugAdmin),
		authz.DomainFromOrg(created.ID()),
	); err != nil {
		return nil, err
	}

	createdEvent.Result = created
	s.publisher.Publish(createdEvent)
	return created, nil
}

func (s *OrganizationService) Update(ctx context.Context, id, name string) (organization.Organization, error) {
	if err := authorizeOrganizations(ctx, "update"); err != nil {
		return nil, err
	}

	updatedEvent := organization.NewUpdatedEvent(ctx, nil)

	var updated organization.Organization
	err := composables.InOrgTx(ctx, func(txCtx context.Context) error {
		current, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		updated, err = s.repo.Update(txCtx, current.SetName(name))
		return err
	})
	if err != nil {
		return nil, err
	}

	updatedEvent.Result = updated
	s.publisher.Publish(updatedEvent)
	return updated, nil
}

// Deactivate turns the organization off without deleting its data. Requests
// scoped to a deactivated organization are rejected at resolution time.
func (s *OrganizationService) Deactivate(ctx context.Context, id string) (organization.Organization, error) {
	if err := authorizeOrganizations(ctx, "delete"); err != nil {
		return nil, err
	}

	var updated organization.Organization
	err := composables.InOrgTx(ctx, func(txCtx context.Context) error {
		current, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		updated, err = s.repo.Update(txCtx, current.SetIsActive(false))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(organization.NewDeactivatedEvent(ctx, updated))
	return updated, nil
}

// provisionSystemRoles creates the three built-in roles and returns the
// admin role.
func (s *OrganizationService) provisionSystemRoles(ctx context.Context, orgID string) (*role.Role, error) {
	adminRole := role.New(
		"Admin",
		role.WithOrganizationID(orgID),
		role.WithSlug(role.SlugAdmin),
		role.WithSystem(true),
		role.WithPermissions(s.adminPermissions),
	)
	if _, err := s.roleRepo.Create(ctx, adminRole); err != nil {
		return nil, errors.Wrap(err, "failed to create admin role")
	}

	memberRole := role.New(
		"Member",
		role.WithOrganizationID(orgID),
		role.WithSlug(role.SlugMember),
		role.WithSystem(true),
		role.WithPermissions(memberRolePermissions()),
	)
	if _, err := s.roleRepo.Create(ctx, memberRole); err != nil {
		return nil, errors.Wrap(err, "failed to create member role")
	}

	technicianRole := role.New(
		"Technician",
		role.WithOrganizationID(orgID),
		role.WithSlug(role.SlugTechnician),
		role.WithSystem(true),
		role.WithPermissions(memberRolePermissions()),
	)
	if _, err := s.roleRepo.Create(ctx, technicianRole); err != nil {
		return nil, errors.Wrap(err, "failed to create technician role")
	}

	return adminRole, nil
}

func memberRolePermissions() []*permission.Permission {
	return []*permission.Permission{
		permissions.OrganizationRead,
		permissions.MemberRead,
		permissions.RoleRead,
	}
}
