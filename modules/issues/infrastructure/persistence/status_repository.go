package persistence

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/entities/status"
	"github.com/pinpoint-collective/pinpoint/modules/issues/infrastructure/persistence/models"
	"github.com/pinpoint-collective/pinpoint/pkg/boundary"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/repo"
)

var (
	ErrStatusNotFound = errors.New("status not found")
)

// statusScopeColumns resolves scope-map fields to columns for writes.
var statusScopeColumns = map[string]string{
	"id":             "id",
	"organizationId": "organization_id",
}

const (
	statusFindQuery = `
		SELECT id, organization_id, name, category, is_default, sort_order, created_at, updated_at
		FROM issue_statuses`

	statusInsertQuery = `
		INSERT INTO issue_statuses (id, organization_id, name, category, is_default, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
)

type StatusRepository struct{}

func NewStatusRepository() status.Repository {
	return &StatusRepository{}
}

func (r *StatusRepository) GetAll(ctx context.Context) ([]*status.Status, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get organization from context")
	}
	return r.queryStatuses(
		ctx,
		statusFindQuery+" WHERE organization_id = $1 ORDER BY sort_order ASC, created_at ASC",
		orgID,
	)
}

func (r *StatusRepository) GetByID(ctx context.Context, id string) (*status.Status, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get organization from context")
	}
	statuses, err := r.queryStatuses(ctx, statusFindQuery+" WHERE id = $1 AND organization_id = $2", id, orgID)
	if err != nil {
		return nil, err
	}
	if len(statuses) == 0 {
		return nil, ErrStatusNotFound
	}
	return statuses[0], nil
}

func (r *StatusRepository) GetDefault(ctx context.Context) (*status.Status, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get organization from context")
	}
	statuses, err := r.queryStatuses(ctx, statusFindQuery+" WHERE organization_id = $1 AND is_default", orgID)
	if err != nil {
		return nil, err
	}
	if len(statuses) == 0 {
		return nil, ErrStatusNotFound
	}
	return statuses[0], nil
}

func (r *StatusRepository) Create(ctx context.Context, data *status.Status) (*status.Status, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(
		ctx,
		statusInsertQuery,
		data.ID(),
		data.OrganizationID(),
		data.Name(),
		string(data.Category()),
		data.IsDefault(),
		data.SortOrder(),
		data.CreatedAt(),
		data.UpdatedAt(),
	); err != nil {
		return nil, errors.Wrap(err, "failed to create status")
	}
	return data, nil
}

func (r *StatusRepository) Update(ctx context.Context, data *status.Status) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}

	fields := []string{"name", "category", "is_default", "sort_order", "updated_at"}
	scope := boundary.CreateEntityUpdateQuery(data.ID(), data.OrganizationID())
	conditions, whereArgs, err := repo.ScopeConditions(scope.Where, statusScopeColumns, len(fields))
	if err != nil {
		return errors.Wrap(err, "failed to build update scope")
	}

	args := []interface{}{
		data.Name(),
		string(data.Category()),
		data.IsDefault(),
		data.SortOrder(),
		data.UpdatedAt(),
	}
	args = append(args, whereArgs...)

	query := repo.Update("issue_statuses", fields, strings.Join(conditions, " AND "))
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return errors.Wrap(err, "failed to update status")
	}
	return nil
}

func (r *StatusRepository) ClearDefault(ctx context.Context) error {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get organization from context")
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}

	scope := boundary.CreateOrganizationScope(orgID)
	conditions, args, err := repo.ScopeConditions(scope, statusScopeColumns, 0)
	if err != nil {
		return errors.Wrap(err, "failed to build scope")
	}

	query := "UPDATE issue_statuses SET is_default = FALSE " + repo.JoinWhere(conditions...)
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return errors.Wrap(err, "failed to clear default status")
	}
	return nil
}

func (r *StatusRepository) Delete(ctx context.Context, id string) error {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get organization from context")
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}

	scope := boundary.CreateEntityDeleteQuery(id, orgID)
	conditions, args, err := repo.ScopeConditions(scope.Where, statusScopeColumns, 0)
	if err != nil {
		return errors.Wrap(err, "failed to build delete scope")
	}

	query := "DELETE FROM issue_statuses " + repo.JoinWhere(conditions...)
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return errors.Wrap(err, "failed to delete status")
	}
	return nil
}

func (r *StatusRepository) queryStatuses(ctx context.Context, query string, args ...interface{}) ([]*status.Status, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	statuses := make([]*status.Status, 0)
	for rows.Next() {
		var s models.Status
		if err := rows.Scan(
			&s.ID,
			&s.OrganizationID,
			&s.Name,
			&s.Category,
			&s.IsDefault,
			&s.SortOrder,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan status row")
		}
		statuses = append(statuses, ToDomainStatus(&s))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return statuses, nil
}
