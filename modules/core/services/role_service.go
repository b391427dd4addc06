package services

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/permission"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/role"
	"github.com/pinpoint-collective/pinpoint/pkg/authz"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/eventbus"
)

var rolesAuthzObject = authz.ObjectName("core", "roles")

func authorizeRoles(ctx context.Context, action string) error {
	return authorizeCore(ctx, rolesAuthzObject, action)
}

type RoleService struct {
	repo      role.Repository
	permRepo  permission.Repository
	publisher eventbus.EventBus
}

func NewRoleService(repo role.Repository, permRepo permission.Repository, publisher eventbus.EventBus) *RoleService {
	return &RoleService{
		repo:      repo,
		permRepo:  permRepo,
		publisher: publisher,
	}
}

func (s *RoleService) GetAll(ctx context.Context) ([]*role.Role, error) {
	if err := authorizeRoles(ctx, "list"); err != nil {
		return nil, err
	}
	return s.repo.GetAll(ctx)
}

func (s *RoleService) GetByID(ctx context.Context, id string) (*role.Role, error) {
	if err := authorizeRoles(ctx, "view"); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Permissions returns the permission catalog roles are assembled from.
func (s *RoleService) Permissions(ctx context.Context) ([]*permission.Permission, error) {
	if err := authorizeRoles(ctx, "list"); err != nil {
		return nil, err
	}
	return s.permRepo.GetAll(ctx)
}

// Create adds a custom role to the active organization and installs its
// permission set as policies for the role's subject.
func (s *RoleService) Create(ctx context.Context, name string, permissionIDs []string) (*role.Role, error) {
	if err := authorizeRoles(ctx, "create"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}

	perms, err := s.resolvePermissions(ctx, permissionIDs)
	if err != nil {
		return nil, err
	}

	data := role.New(name, role.WithOrganizationID(orgID), role.WithPermissions(perms))
	createdEvent := role.NewCreatedEvent(ctx, data)

	var created *role.Role
	err = composables.InOrgTx(ctx, func(txCtx context.Context) error {
		created, err = s.repo.Create(txCtx, data)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := authz.Use().SetRolePolicies(
		authz.SubjectForRole(created.Slug()),
		authz.DomainFromOrg(orgID),
		permission.PolicyPairs(perms),
	); err != nil {
		return nil, err
	}

	createdEvent.Result = created
	s.publisher.Publish(createdEvent)
	return created, nil
}

// Update renames a custom role and replaces its permission set, resyncing
// the policy engine. System roles reject updates.
func (s *RoleService) Update(ctx context.Context, id, name string, permissionIDs []string) (*role.Role, error) {
	if err := authorizeRoles(ctx, "update"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}

	perms, err := s.resolvePermissions(ctx, permissionIDs)
	if err != nil {
		return nil, err
	}

	var updated *role.Role
	err = composables.InOrgTx(ctx, func(txCtx context.Context) error {
		entity, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if !entity.CanUpdate() {
			return composables.ErrForbidden
		}
		if name != "" {
			entity.SetName(name)
		}
		entity.SetPermissions(perms)
		if err := s.repo.Update(txCtx, entity); err != nil {
			return err
		}
		updated = entity
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := authz.Use().SetRolePolicies(
		authz.SubjectForRole(updated.Slug()),
		authz.DomainFromOrg(orgID),
		permission.PolicyPairs(perms),
	); err != nil {
		return nil, err
	}

	updatedEvent := role.NewUpdatedEvent(ctx, updated)
	updatedEvent.Result = updated
	s.publisher.Publish(updatedEvent)
	return updated, nil
}

// Delete removes a custom role. Roles still attached to members cannot be
// deleted; the membership foreign key rejects the delete.
func (s *RoleService) Delete(ctx context.Context, id string) error {
	if err := authorizeRoles(ctx, "delete"); err != nil {
		return err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return err
	}

	var deleted *role.Role
	err = composables.InOrgTx(ctx, func(txCtx context.Context) error {
		entity, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if !entity.CanDelete() {
			return composables.ErrForbidden
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return err
		}
		deleted = entity
		return nil
	})
	if err != nil {
		return err
	}

	if err := authz.Use().RemoveRolePolicies(
		authz.SubjectForRole(deleted.Slug()),
		authz.DomainFromOrg(orgID),
	); err != nil {
		return err
	}

	s.publisher.Publish(role.NewDeletedEvent(ctx, deleted))
	return nil
}

func (s *RoleService) resolvePermissions(ctx context.Context, ids []string) ([]*permission.Permission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	catalog, err := s.permRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*permission.Permission, len(catalog))
	for _, p := range catalog {
		byID[p.ID.String()] = p
	}
	perms := make([]*permission.Permission, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, errors.Errorf("unknown permission: %s", id)
		}
		perms = append(perms, p)
	}
	return perms, nil
}
