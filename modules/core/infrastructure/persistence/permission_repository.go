package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/permission"
	"github.com/pinpoint-collective/pinpoint/modules/core/infrastructure/persistence/models"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
)

const (
	permissionFindQuery = `SELECT id, name, resource, action, modifier FROM permissions`

	permissionUpsertQuery = `
		INSERT INTO permissions (id, name, resource, action, modifier)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, resource = EXCLUDED.resource, action = EXCLUDED.action, modifier = EXCLUDED.modifier`
)

// PermissionRepository persists the static permission catalog so role grants
// can reference it by foreign key.
type PermissionRepository struct{}

func NewPermissionRepository() *PermissionRepository {
	return &PermissionRepository{}
}

func (r *PermissionRepository) GetAll(ctx context.Context) ([]*permission.Permission, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, permissionFindQuery)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query permissions")
	}
	defer rows.Close()

	var permissions []*permission.Permission
	for rows.Next() {
		var m models.Permission
		if err := rows.Scan(&m.ID, &m.Name, &m.Resource, &m.Action, &m.Modifier); err != nil {
			return nil, errors.Wrap(err, "failed to scan permission row")
		}
		p, err := ToDomainPermission(&m)
		if err != nil {
			return nil, err
		}
		permissions = append(permissions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return permissions, nil
}

// Save upserts the catalog rows. Seeding calls it with the module constants
// on every boot so new permissions appear without a migration.
func (r *PermissionRepository) Save(ctx context.Context, permissions []*permission.Permission) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}

	for _, p := range permissions {
		if _, err := tx.Exec(
			ctx,
			permissionUpsertQuery,
			p.ID.String(),
			p.Name,
			string(p.Resource),
			string(p.Action),
			string(p.Modifier),
		); err != nil {
			return errors.Wrap(err, "failed to upsert permission")
		}
	}
	return nil
}
