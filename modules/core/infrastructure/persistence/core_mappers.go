package persistence

import (
	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/aggregates/organization"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/aggregates/user"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/invitation"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/membership"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/permission"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/role"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/session"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/value_objects/internet"
	"github.com/pinpoint-collective/pinpoint/modules/core/infrastructure/persistence/models"
)

func ToDomainOrganization(dbOrg *models.Organization) organization.Organization {
	return organization.New(
		dbOrg.Name,
		organization.WithID(dbOrg.ID),
		organization.WithSubdomain(dbOrg.Subdomain),
		organization.WithIsActive(dbOrg.IsActive),
		organization.WithCreatedAt(dbOrg.CreatedAt),
		organization.WithUpdatedAt(dbOrg.UpdatedAt),
	)
}

func ToDomainUser(dbUser *models.User) (user.User, error) {
	email, err := internet.NewEmail(dbUser.Email)
	if err != nil {
		return nil, errors.Wrap(err, "invalid stored email")
	}

	uiLanguage := user.UILanguage(dbUser.UILanguage)
	if !uiLanguage.IsValid() {
		uiLanguage = user.UILanguageEN
	}

	options := []user.Option{
		user.WithID(dbUser.ID),
		user.WithPasswordHash(dbUser.Password.String),
		user.WithCreatedAt(dbUser.CreatedAt),
		user.WithUpdatedAt(dbUser.UpdatedAt),
	}
	if dbUser.LastLogin.Valid {
		options = append(options, user.WithLastLogin(dbUser.LastLogin.Time))
	}
	if dbUser.LastAction.Valid {
		options = append(options, user.WithLastAction(dbUser.LastAction.Time))
	}

	return user.New(
		dbUser.FirstName,
		dbUser.LastName,
		email,
		uiLanguage,
		options...,
	), nil
}

func ToDomainSession(dbSession *models.Session) *session.Session {
	return &session.Session{
		Token:     dbSession.Token,
		UserID:    dbSession.UserID,
		IP:        dbSession.IP,
		UserAgent: dbSession.UserAgent,
		ExpiresAt: dbSession.ExpiresAt,
		CreatedAt: dbSession.CreatedAt,
	}
}

func ToDBSession(s *session.Session) *models.Session {
	return &models.Session{
		Token:     s.Token,
		UserID:    s.UserID,
		IP:        s.IP,
		UserAgent: s.UserAgent,
		ExpiresAt: s.ExpiresAt,
		CreatedAt: s.CreatedAt,
	}
}

func ToDomainRole(dbRole *models.Role, permissions []*permission.Permission) *role.Role {
	return role.New(
		dbRole.Name,
		role.WithID(dbRole.ID),
		role.WithOrganizationID(dbRole.OrganizationID),
		role.WithSlug(dbRole.Slug),
		role.WithSystem(dbRole.IsSystem),
		role.WithPermissions(permissions),
		role.WithCreatedAt(dbRole.CreatedAt),
		role.WithUpdatedAt(dbRole.UpdatedAt),
	)
}

func ToDomainPermission(dbPermission *models.Permission) (*permission.Permission, error) {
	id, err := uuid.Parse(dbPermission.ID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid permission id")
	}
	return &permission.Permission{
		ID:       id,
		Name:     dbPermission.Name,
		Resource: permission.Resource(dbPermission.Resource),
		Action:   permission.Action(dbPermission.Action),
		Modifier: permission.Modifier(dbPermission.Modifier),
	}, nil
}

func ToDomainMembership(dbMembership *models.Membership, u user.User, r *role.Role) *membership.Membership {
	options := []membership.Option{
		membership.WithID(dbMembership.ID),
		membership.WithCreatedAt(dbMembership.CreatedAt),
		membership.WithUpdatedAt(dbMembership.UpdatedAt),
	}
	if u != nil {
		options = append(options, membership.WithUser(u))
	}
	if r != nil {
		options = append(options, membership.WithRole(r))
	}
	return membership.New(
		dbMembership.OrganizationID,
		dbMembership.UserID,
		dbMembership.RoleID,
		options...,
	)
}

func ToDomainInvitation(dbInvitation *models.Invitation) (*invitation.Invitation, error) {
	email, err := internet.NewEmail(dbInvitation.Email)
	if err != nil {
		return nil, errors.Wrap(err, "invalid stored invitation email")
	}

	options := []invitation.Option{
		invitation.WithID(dbInvitation.ID),
		invitation.WithToken(dbInvitation.Token),
		invitation.WithStatus(invitation.Status(dbInvitation.Status)),
		invitation.WithExpiresAt(dbInvitation.ExpiresAt),
		invitation.WithCreatedAt(dbInvitation.CreatedAt),
	}
	if dbInvitation.AcceptedAt.Valid {
		options = append(options, invitation.WithAcceptedAt(dbInvitation.AcceptedAt.Time))
	}

	return invitation.New(
		dbInvitation.OrganizationID,
		email,
		dbInvitation.RoleID,
		options...,
	), nil
}
