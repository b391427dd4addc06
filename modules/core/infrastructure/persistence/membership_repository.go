package persistence

import (
	"context"
	"database/sql"

	"github.com/go-faster/errors"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/aggregates/user"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/membership"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/role"
	"github.com/pinpoint-collective/pinpoint/modules/core/infrastructure/persistence/models"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
)

var (
	ErrMembershipNotFound = errors.New("membership not found")
)

const (
	// Role columns ride along so member listings do not need an extra query
	// per row.
	membershipFindQuery = `
		SELECT
			m.id, m.organization_id, m.user_id, m.role_id, m.created_at, m.updated_at,
			r.name, r.slug, r.is_system, r.created_at, r.updated_at
		FROM memberships m
		LEFT JOIN roles r ON m.role_id = r.id`

	membershipCountQuery = `SELECT COUNT(m.id) FROM memberships m WHERE m.organization_id = $1`

	membershipInsertQuery = `
		INSERT INTO memberships (id, organization_id, user_id, role_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	membershipUpdateQuery = `
		UPDATE memberships
		SET role_id = $1, updated_at = $2
		WHERE id = $3`

	membershipDeleteQuery = `DELETE FROM memberships WHERE id = $1`
)

type MembershipRepository struct {
	userRepo user.Repository
}

func NewMembershipRepository(userRepo user.Repository) membership.Repository {
	return &MembershipRepository{
		userRepo: userRepo,
	}
}

func (r *MembershipRepository) CountByOrganization(ctx context.Context, orgID string) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get transaction")
	}

	var count int64
	if err := tx.QueryRow(ctx, membershipCountQuery, orgID).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count memberships")
	}
	return count, nil
}

func (r *MembershipRepository) GetByOrganization(ctx context.Context, orgID string) ([]*membership.Membership, error) {
	return r.queryMemberships(ctx, membershipFindQuery+" WHERE m.organization_id = $1 ORDER BY m.created_at ASC", orgID)
}

func (r *MembershipRepository) GetByUser(ctx context.Context, userID string) ([]*membership.Membership, error) {
	return r.queryMemberships(ctx, membershipFindQuery+" WHERE m.user_id = $1 ORDER BY m.created_at ASC", userID)
}

func (r *MembershipRepository) GetByID(ctx context.Context, id string) (*membership.Membership, error) {
	memberships, err := r.queryMemberships(ctx, membershipFindQuery+" WHERE m.id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return nil, ErrMembershipNotFound
	}
	return memberships[0], nil
}

func (r *MembershipRepository) GetByUserAndOrganization(ctx context.Context, userID, orgID string) (*membership.Membership, error) {
	memberships, err := r.queryMemberships(
		ctx,
		membershipFindQuery+" WHERE m.user_id = $1 AND m.organization_id = $2",
		userID,
		orgID,
	)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return nil, ErrMembershipNotFound
	}
	return memberships[0], nil
}

func (r *MembershipRepository) Create(ctx context.Context, data *membership.Membership) (*membership.Membership, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(
		ctx,
		membershipInsertQuery,
		data.ID(),
		data.OrganizationID(),
		data.UserID(),
		data.RoleID(),
		data.CreatedAt(),
		data.UpdatedAt(),
	); err != nil {
		return nil, errors.Wrap(err, "failed to create membership")
	}
	return r.GetByID(ctx, data.ID())
}

func (r *MembershipRepository) Update(ctx context.Context, data *membership.Membership) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(
		ctx,
		membershipUpdateQuery,
		data.RoleID(),
		data.UpdatedAt(),
		data.ID(),
	); err != nil {
		return errors.Wrap(err, "failed to update membership")
	}
	return nil
}

func (r *MembershipRepository) Delete(ctx context.Context, id string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(ctx, membershipDeleteQuery, id); err != nil {
		return errors.Wrap(err, "failed to delete membership")
	}
	return nil
}

type membershipRow struct {
	membership  models.Membership
	roleName    sql.NullString
	roleSlug    sql.NullString
	roleSystem  sql.NullBool
	roleCreated sql.NullTime
	roleUpdated sql.NullTime
}

func (r *MembershipRepository) queryMemberships(ctx context.Context, query string, args ...interface{}) ([]*membership.Membership, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var scanned []membershipRow
	for rows.Next() {
		var row membershipRow
		if err := rows.Scan(
			&row.membership.ID,
			&row.membership.OrganizationID,
			&row.membership.UserID,
			&row.membership.RoleID,
			&row.membership.CreatedAt,
			&row.membership.UpdatedAt,
			&row.roleName,
			&row.roleSlug,
			&row.roleSystem,
			&row.roleCreated,
			&row.roleUpdated,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan membership row")
		}
		scanned = append(scanned, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}

	memberships := make([]*membership.Membership, 0, len(scanned))
	for _, row := range scanned {
		u, err := r.userRepo.GetByID(ctx, row.membership.UserID)
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			return nil, err
		}

		var rl *role.Role
		if row.roleName.Valid {
			rl = ToDomainRole(&models.Role{
				ID:             row.membership.RoleID,
				OrganizationID: row.membership.OrganizationID,
				Name:           row.roleName.String,
				Slug:           row.roleSlug.String,
				IsSystem:       row.roleSystem.Bool,
				CreatedAt:      row.roleCreated.Time,
				UpdatedAt:      row.roleUpdated.Time,
			}, nil)
		}
		memberships = append(memberships, ToDomainMembership(&row.membership, u, rl))
	}
	return memberships, nil
}
