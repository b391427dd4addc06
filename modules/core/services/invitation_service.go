package services

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/aggregates/user"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/invitation"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/membership"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/role"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/value_objects/internet"
	"github.com/pinpoint-collective/pinpoint/modules/core/infrastructure/persistence"
	"github.com/pinpoint-collective/pinpoint/pkg/authz"
	"github.com/pinpoint-collective/pinpoint/pkg/boundary"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/eventbus"
)

var invitationsAuthzObject = authz.ObjectName("core", "invitations")

var (
	ErrInvitationNotAcceptable = errors.New("invitation is no longer acceptable")
	ErrInvitationPending       = errors.New("a pending invitation already exists for this email")
)

func authorizeInvitations(ctx context.Context, action string) error {
	return authorizeCore(ctx, invitationsAuthzObject, action)
}

type InvitationService struct {
	repo           invitation.Repository
	roleRepo       role.Repository
	membershipRepo membership.Repository
	usersService   *UserService
	publisher      eventbus.EventBus
}

func NewInvitationService(
	repo invitation.Repository,
	roleRepo role.Repository,
	membershipRepo membership.Repository,
	usersService *UserService,
	publisher eventbus.EventBus,
) *InvitationService {
	return &InvitationService{
		repo:           repo,
		roleRepo:       roleRepo,
		membershipRepo: membershipRepo,
		usersService:   usersService,
		publisher:      publisher,
	}
}

func (s *InvitationService) GetByOrganization(ctx context.Context) ([]*invitation.Invitation, error) {
	if err := authorizeInvitations(ctx, "list"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByOrganization(ctx, orgID)
}

// GetByToken serves the public invite landing page. Callers get the
// invitation regardless of state and decide what to render.
func (s *InvitationService) GetByToken(ctx context.Context, token string) (*invitation.Invitation, error) {
	return s.repo.GetByToken(ctx, token)
}

// Create issues an invitation for an email address under the given role.
// Users who already belong to the organization cannot be invited again, and
// one pending invitation per email is the limit.
func (s *InvitationService) Create(ctx context.Context, email, roleID string) (*invitation.Invitation, error) {
	if err := authorizeInvitations(ctx, "create"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}

	addr, err := internet.NewEmail(email)
	if err != nil {
		return nil, err
	}

	var created *invitation.Invitation
	err = composables.InOrgTx(ctx, func(txCtx context.Context) error {
		r, err := s.roleRepo.GetByID(txCtx, roleID)
		if err != nil {
			return err
		}
		if err := roleBoundary(r, orgID); err != nil {
			return err
		}

		existing, err := s.usersService.GetByEmail(txCtx, addr.Value())
		if err != nil && !errors.Is(err, persistence.ErrUserNotFound) {
			return err
		}
		if existing != nil {
			if _, err := s.membershipRepo.GetByUserAndOrganization(txCtx, existing.ID(), orgID); err == nil {
				return ErrAlreadyMember
			}
		}

		open, err := s.repo.GetByOrganization(txCtx, orgID)
		if err != nil {
			return err
		}
		for _, inv := range open {
			if inv.Status() == invitation.StatusPending && inv.Email().Value() == addr.Value() {
				return ErrInvitationPending
			}
		}

		created, err = s.repo.Create(txCtx, invitation.New(orgID, addr, roleID))
		return err
	})
	if err != nil {
		return nil, err
	}

	createdEvent := invitation.NewCreatedEvent(ctx, created)
	createdEvent.Result = created
	s.publisher.Publish(createdEvent)
	return created, nil
}

// Revoke cancels a pending invitation so its token stops working.
func (s *InvitationService) Revoke(ctx context.Context, id string) error {
	if err := authorizeInvitations(ctx, "delete"); err != nil {
		return err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return err
	}

	var revoked *invitation.Invitation
	err = composables.InOrgTx(ctx, func(txCtx context.Context) error {
		inv, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := invitationBoundary(inv, orgID); err != nil {
			return err
		}
		inv.Revoke()
		if err := s.repo.Update(txCtx, inv); err != nil {
			return err
		}
		revoked = inv
		return nil
	})
	if err != nil {
		return err
	}

	s.publisher.Publish(invitation.NewRevokedEvent(ctx, revoked))
	return nil
}

// Accept redeems an invitation token. An unknown email becomes a fresh user
// account with the supplied profile; a known one is linked as-is and the
// profile arguments are ignored. The new member comes back so the caller can
// open a session.
func (s *InvitationService) Accept(ctx context.Context, token, firstName, lastName, password string) (user.User, error) {
	inv, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !inv.IsAcceptable() {
		return nil, ErrInvitationNotAcceptable
	}

	ctx = composables.WithOrgID(ctx, inv.OrganizationID())

	var member user.User
	var grantSlug string
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		r, err := s.roleRepo.GetByID(txCtx, inv.RoleID())
		if err != nil {
			return err
		}

		member, err = s.usersService.GetByEmail(txCtx, inv.Email().Value())
		if errors.Is(err, persistence.ErrUserNotFound) {
			fresh := user.New(firstName, lastName, inv.Email(), user.UILanguageEN)
			fresh, err = fresh.SetPassword(password)
			if err != nil {
				return err
			}
			member, err = s.usersService.Register(txCtx, fresh)
		}
		if err != nil {
			return err
		}

		if _, err := s.membershipRepo.GetByUserAndOrganization(txCtx, member.ID(), inv.OrganizationID()); err == nil {
			return ErrAlreadyMember
		}

		if _, err := s.membershipRepo.Create(txCtx, membership.New(inv.OrganizationID(), member.ID(), inv.RoleID())); err != nil {
			return err
		}

		inv.Accept()
		if err := s.repo.Update(txCtx, inv); err != nil {
			return err
		}
		grantSlug = r.Slug()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := authz.Use().GrantRole(
		authz.SubjectForUser(inv.OrganizationID(), member.ID()),
		authz.SubjectForRole(grantSlug),
		authz.DomainFromOrg(inv.OrganizationID()),
	); err != nil {
		return nil, err
	}

	acceptedEvent := invitation.NewAcceptedEvent(ctx, inv)
	acceptedEvent.UserID = member.ID()
	s.publisher.Publish(acceptedEvent)
	return member, nil
}

func invitationBoundary(inv *invitation.Invitation, orgID string) error {
	return boundary.ValidateResourceOrganizationBoundary(boundary.ResourceOwnership{
		ResourceID:             inv.ID(),
		ResourceOrganizationID: inv.OrganizationID(),
		ExpectedOrganizationID: orgID,
		ResourceType:           "Invitation",
	}).Err()
}
