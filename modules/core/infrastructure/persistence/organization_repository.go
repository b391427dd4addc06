package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/aggregates/organization"
	"github.com/pinpoint-collective/pinpoint/modules/core/infrastructure/persistence/models"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/repo"
)

var (
	ErrOrganizationNotFound = fmt.Errorf("organization not found")
)

const (
	organizationFindQuery = `
		SELECT o.id, o.name, o.subdomain, o.is_active, o.created_at, o.updated_at
		FROM organizations o`

	organizationCountQuery = `SELECT COUNT(o.id) FROM organizations o`

	organizationExistsQuery = `SELECT EXISTS (SELECT 1 FROM organizations WHERE subdomain = $1)`

	organizationInsertQuery = `
		INSERT INTO organizations (id, name, subdomain, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	organizationUpdateQuery = `
		UPDATE organizations
		SET name = $1, subdomain = $2, is_active = $3, updated_at = $4
		WHERE id = $5`

	organizationDeleteQuery = `DELETE FROM organizations WHERE id = $1`
)

type OrganizationRepository struct{}

func NewOrganizationRepository() organization.Repository {
	return &OrganizationRepository{}
}

func (r *OrganizationRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get transaction")
	}

	var count int64
	if err := tx.QueryRow(ctx, organizationCountQuery).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count organizations")
	}
	return count, nil
}

func (r *OrganizationRepository) GetAll(ctx context.Context) ([]organization.Organization, error) {
	return r.queryOrganizations(ctx, organizationFindQuery+" ORDER BY o.name ASC")
}

func (r *OrganizationRepository) GetPaginated(ctx context.Context, params *organization.FindParams) ([]organization.Organization, error) {
	where := []string{}
	args := []interface{}{}
	if params.Search != "" {
		where = append(where, fmt.Sprintf("(o.name ILIKE $%d OR o.subdomain ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+params.Search+"%")
	}

	query := repo.Join(
		organizationFindQuery,
		repo.JoinWhere(where...),
		"ORDER BY o.name ASC",
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	return r.queryOrganizations(ctx, query, args...)
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id string) (organization.Organization, error) {
	organizations, err := r.queryOrganizations(ctx, organizationFindQuery+" WHERE o.id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(organizations) == 0 {
		return nil, ErrOrganizationNotFound
	}
	return organizations[0], nil
}

func (r *OrganizationRepository) GetBySubdomain(ctx context.Context, subdomain string) (organization.Organization, error) {
	subdomain = strings.ToLower(strings.TrimSpace(subdomain))
	organizations, err := r.queryOrganizations(ctx, organizationFindQuery+" WHERE o.subdomain = $1", subdomain)
	if err != nil {
		return nil, err
	}
	if len(organizations) == 0 {
		return nil, ErrOrganizationNotFound
	}
	return organizations[0], nil
}

func (r *OrganizationRepository) SubdomainTaken(ctx context.Context, subdomain string) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, errors.Wrap(err, "failed to get transaction")
	}

	var taken bool
	if err := tx.QueryRow(ctx, organizationExistsQuery, strings.ToLower(strings.TrimSpace(subdomain))).Scan(&taken); err != nil {
		return false, errors.Wrap(err, "failed to check subdomain")
	}
	return taken, nil
}

func (r *OrganizationRepository) Create(ctx context.Context, data organization.Organization) (organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(
		ctx,
		organizationInsertQuery,
		data.ID(),
		data.Name(),
		strings.ToLower(strings.TrimSpace(data.Subdomain())),
		data.IsActive(),
		data.CreatedAt(),
		data.UpdatedAt(),
	); err != nil {
		return nil, errors.Wrap(err, "failed to create organization")
	}
	return r.GetByID(ctx, data.ID())
}

func (r *OrganizationRepository) Update(ctx context.Context, data organization.Organization) (organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(
		ctx,
		organizationUpdateQuery,
		data.Name(),
		strings.ToLower(strings.TrimSpace(data.Subdomain())),
		data.IsActive(),
		data.UpdatedAt(),
		data.ID(),
	); err != nil {
		return nil, errors.Wrap(err, "failed to update organization")
	}
	return r.GetByID(ctx, data.ID())
}

func (r *OrganizationRepository) Delete(ctx context.Context, id string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(ctx, organizationDeleteQuery, id); err != nil {
		return errors.Wrap(err, "failed to delete organization")
	}
	return nil
}

func (r *OrganizationRepository) queryOrganizations(ctx context.Context, query string, args ...interface{}) ([]organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var organizations []organization.Organization
	for rows.Next() {
		var o models.Organization
		if err := rows.Scan(
			&o.ID,
			&o.Name,
			&o.Subdomain,
			&o.IsActive,
			&o.CreatedAt,
			&o.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan organization row")
		}
		organizations = append(organizations, ToDomainOrganization(&o))
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return organizations, nil
}
