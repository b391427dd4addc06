package services

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/membership"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/role"
	"github.com/pinpoint-collective/pinpoint/pkg/authz"
	"github.com/pinpoint-collective/pinpoint/pkg/boundary"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/eventbus"
)

var membersAuthzObject = authz.ObjectName("core", "members")

var (
	ErrAlreadyMember = errors.New("user is already a member of this organization")
	ErrLastAdmin     = errors.New("cannot remove the last admin of an organization")
)

func authorizeMembers(ctx context.Context, action string) error {
	return authorizeCore(ctx, membersAuthzObject, action)
}

type MembershipService struct {
	repo      membership.Repository
	roleRepo  role.Repository
	publisher eventbus.EventBus
}

func NewMembershipService(repo membership.Repository, roleRepo role.Repository, publisher eventbus.EventBus) *MembershipService {
	return &MembershipService{
		repo:      repo,
		roleRepo:  roleRepo,
		publisher: publisher,
	}
}

// GetByUserAndOrganization is the middleware lookup that attaches the
// caller's membership to the request context.
func (s *MembershipService) GetByUserAndOrganization(ctx context.Context, userID, orgID string) (*membership.Membership, error) {
	return s.repo.GetByUserAndOrganization(ctx, userID, orgID)
}

func (s *MembershipService) GetByOrganization(ctx context.Context) ([]*membership.Membership, error) {
	if err := authorizeMembers(ctx, "list"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByOrganization(ctx, orgID)
}

func (s *MembershipService) GetByUser(ctx context.Context, userID string) ([]*membership.Membership, error) {
	return s.repo.GetByUser(ctx, userID)
}

func (s *MembershipService) GetByID(ctx context.Context, id string) (*membership.Membership, error) {
	if err := authorizeMembers(ctx, "view"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := membershipBoundary(m, orgID); err != nil {
		return nil, err
	}
	return m, nil
}

// Add places a user into the active organization under the given role. The
// role must belong to the active organization; a second membership for the
// same user is rejected.
func (s *MembershipService) Add(ctx context.Context, userID, roleID string) (*membership.Membership, error) {
	if err := authorizeMembers(ctx, "create"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}

	var created *membership.Membership
	var grantSlug string
	err = composables.InOrgTx(ctx, func(txCtx context.Context) error {
		r, err := s.roleRepo.GetByID(txCtx, roleID)
		if err != nil {
			return err
		}
		if err := roleBoundary(r, orgID); err != nil {
			return err
		}

		if _, err := s.repo.GetByUserAndOrganization(txCtx, userID, orgID); err == nil {
			return ErrAlreadyMember
		}

		created, err = s.repo.Create(txCtx, membership.New(orgID, userID, roleID))
		if err != nil {
			return err
		}
		grantSlug = r.Slug()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := authz.Use().GrantRole(
		authz.SubjectForUser(orgID, userID),
		authz.SubjectForRole(grantSlug),
		authz.DomainFromOrg(orgID),
	); err != nil {
		return nil, err
	}
	return created, nil
}

// ChangeRole swaps a member's role, keeping the policy engine's grouping
// policies in sync.
func (s *MembershipService) ChangeRole(ctx context.Context, membershipID, roleID string) (*membership.Membership, error) {
	if err := authorizeMembers(ctx, "update"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}

	var updated *membership.Membership
	var oldSlug, newSlug string
	err = composables.InOrgTx(ctx, func(txCtx context.Context) error {
		m, err := s.repo.GetByID(txCtx, membershipID)
		if err != nil {
			return err
		}
		if err := membershipBoundary(m, orgID); err != nil {
			return err
		}

		newRole, err := s.roleRepo.GetByID(txCtx, roleID)
		if err != nil {
			return err
		}
		if err := roleBoundary(newRole, orgID); err != nil {
			return err
		}

		if m.Role() != nil && m.Role().Slug() == role.SlugAdmin && newRole.Slug() != role.SlugAdmin {
			admins, err := s.countAdmins(txCtx, orgID)
			if err != nil {
				return err
			}
			if admins <= 1 {
				return ErrLastAdmin
			}
		}

		if m.Role() != nil {
			oldSlug = m.Role().Slug()
		}
		newSlug = newRole.Slug()

		m.SetRole(newRole)
		if err := s.repo.Update(txCtx, m); err != nil {
			return err
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	subject := authz.SubjectForUser(orgID, updated.UserID())
	domain := authz.DomainFromOrg(orgID)
	if oldSlug != "" && oldSlug != newSlug {
		if err := authz.Use().RevokeRole(subject, authz.SubjectForRole(oldSlug), domain); err != nil {
			return nil, err
		}
	}
	if err := authz.Use().GrantRole(subject, authz.SubjectForRole(newSlug), domain); err != nil {
		return nil, err
	}
	return updated, nil
}

// Remove deletes a membership and revokes the matching policy grant. The
// last admin of an organization cannot be removed.
func (s *MembershipService) Remove(ctx context.Context, membershipID string) error {
	if err := authorizeMembers(ctx, "delete"); err != nil {
		return err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return err
	}

	var removedUserID, removedSlug string
	err = composables.InOrgTx(ctx, func(txCtx context.Context) error {
		m, err := s.repo.GetByID(txCtx, membershipID)
		if err != nil {
			return err
		}
		if err := membershipBoundary(m, orgID); err != nil {
			return err
		}

		if m.Role() != nil && m.Role().Slug() == role.SlugAdmin {
			admins, err := s.countAdmins(txCtx, orgID)
			if err != nil {
				return err
			}
			if admins <= 1 {
				return ErrLastAdmin
			}
		}

		removedUserID = m.UserID()
		if m.Role() != nil {
			removedSlug = m.Role().Slug()
		}
		return s.repo.Delete(txCtx, membershipID)
	})
	if err != nil {
		return err
	}

	if removedSlug != "" {
		if err := authz.Use().RevokeRole(
			authz.SubjectForUser(orgID, removedUserID),
			authz.SubjectForRole(removedSlug),
			authz.DomainFromOrg(orgID),
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *MembershipService) countAdmins(ctx context.Context, orgID string) (int, error) {
	members, err := s.repo.GetByOrganization(ctx, orgID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, m := range members {
		if m.Role() != nil && m.Role().Slug() == role.SlugAdmin {
			count++
		}
	}
	return count, nil
}

func membershipBoundary(m *membership.Membership, orgID string) error {
	return boundary.ValidateResourceOrganizationBoundary(boundary.ResourceOwnership{
		ResourceID:             m.ID(),
		ResourceOrganizationID: m.OrganizationID(),
		ExpectedOrganizationID: orgID,
		ResourceType:           "Membership",
	}).Err()
}

func roleBoundary(r *role.Role, orgID string) error {
	return boundary.ValidateResourceOrganizationBoundary(boundary.ResourceOwnership{
		ResourceID:             r.ID(),
		ResourceOrganizationID: r.OrganizationID(),
		ExpectedOrganizationID: orgID,
		ResourceType:           "Role",
	}).Err()
}
