package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/invitation"
	"github.com/pinpoint-collective/pinpoint/modules/core/infrastructure/persistence/models"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/mapping"
)

var (
	ErrInvitationNotFound = errors.New("invitation not found")
)

const (
	invitationFindQuery = `
		SELECT i.id, i.organization_id, i.email, i.role_id, i.token, i.status, i.expires_at, i.accepted_at, i.created_at
		FROM invitations i`

	invitationInsertQuery = `
		INSERT INTO invitations (id, organization_id, email, role_id, token, status, expires_at, accepted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	invitationUpdateQuery = `
		UPDATE invitations
		SET status = $1, accepted_at = $2
		WHERE id = $3`
)

type InvitationRepository struct{}

func NewInvitationRepository() invitation.Repository {
	return &InvitationRepository{}
}

func (r *InvitationRepository) GetByOrganization(ctx context.Context, orgID string) ([]*invitation.Invitation, error) {
	return r.queryInvitations(ctx, invitationFindQuery+" WHERE i.organization_id = $1 ORDER BY i.created_at DESC", orgID)
}

func (r *InvitationRepository) GetByID(ctx context.Context, id string) (*invitation.Invitation, error) {
	invitations, err := r.queryInvitations(ctx, invitationFindQuery+" WHERE i.id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(invitations) == 0 {
		return nil, ErrInvitationNotFound
	}
	return invitations[0], nil
}

func (r *InvitationRepository) GetByToken(ctx context.Context, token string) (*invitation.Invitation, error) {
	invitations, err := r.queryInvitations(ctx, invitationFindQuery+" WHERE i.token = $1", token)
	if err != nil {
		return nil, err
	}
	if len(invitations) == 0 {
		return nil, ErrInvitationNotFound
	}
	return invitations[0], nil
}

func (r *InvitationRepository) Create(ctx context.Context, data *invitation.Invitation) (*invitation.Invitation, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(
		ctx,
		invitationInsertQuery,
		data.ID(),
		data.OrganizationID(),
		data.Email().Value(),
		data.RoleID(),
		data.Token(),
		string(data.Status()),
		data.ExpiresAt(),
		mapping.ValueToSQLNullTime(data.AcceptedAt()),
		data.CreatedAt(),
	); err != nil {
		return nil, errors.Wrap(err, "failed to create invitation")
	}
	return r.GetByID(ctx, data.ID())
}

func (r *InvitationRepository) Update(ctx context.Context, data *invitation.Invitation) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(
		ctx,
		invitationUpdateQuery,
		string(data.Status()),
		mapping.ValueToSQLNullTime(data.AcceptedAt()),
		data.ID(),
	); err != nil {
		return errors.Wrap(err, "failed to update invitation")
	}
	return nil
}

func (r *InvitationRepository) queryInvitations(ctx context.Context, query string, args ...interface{}) ([]*invitation.Invitation, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var invitations []*invitation.Invitation
	for rows.Next() {
		var m models.Invitation
		if err := rows.Scan(
			&m.ID,
			&m.OrganizationID,
			&m.Email,
			&m.RoleID,
			&m.Token,
			&m.Status,
			&m.ExpiresAt,
			&m.AcceptedAt,
			&m.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan invitation row")
		}
		entity, err := ToDomainInvitation(&m)
		if err != nil {
			return nil, errors.Wrap(err, "failed to map invitation row")
		}
		invitations = append(invitations, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return invitations, nil
}
