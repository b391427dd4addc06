package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/permission"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/role"
	"github.com/pinpoint-collective/pinpoint/modules/core/infrastructure/persistence/models"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/repo"
)

var (
	ErrRoleNotFound = errors.New("role not found")
)

const (
	roleFindQuery = `
		SELECT r.id, r.organization_id, r.name, r.slug, r.is_system, r.created_at, r.updated_at
		FROM roles r`

	roleInsertQuery = `
		INSERT INTO roles (id, organization_id, name, slug, is_system, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	roleUpdateQuery = `
		UPDATE roles
		SET name = $1, slug = $2, updated_at = $3
		WHERE id = $4 AND organization_id = $5`

	roleDeleteQuery = `DELETE FROM roles WHERE id = $1 AND organization_id = $2`

	rolePermissionsQuery = `
		SELECT p.id, p.name, p.resource, p.action, p.modifier
		FROM role_permissions rp
		LEFT JOIN permissions p ON rp.permission_id = p.id
		WHERE rp.role_id = $1`

	rolePermissionDeleteQuery = `DELETE FROM role_permissions WHERE role_id = $1`
	rolePermissionInsertQuery = `INSERT INTO role_permissions (role_id, permission_id) VALUES`
)

type RoleRepository struct{}

func NewRoleRepository() role.Repository {
	return &RoleRepository{}
}

func (r *RoleRepository) GetAll(ctx context.Context) ([]*role.Role, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get organization from context")
	}
	return r.queryRoles(ctx, roleFindQuery+" WHERE r.organization_id = $1 ORDER BY r.name ASC", orgID)
}

func (r *RoleRepository) GetByID(ctx context.Context, id string) (*role.Role, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get organization from context")
	}
	roles, err := r.queryRoles(ctx, roleFindQuery+" WHERE r.id = $1 AND r.organization_id = $2", id, orgID)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, ErrRoleNotFound
	}
	return roles[0], nil
}

func (r *RoleRepository) GetBySlug(ctx context.Context, slug string) (*role.Role, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get organization from context")
	}
	roles, err := r.queryRoles(ctx, roleFindQuery+" WHERE r.slug = $1 AND r.organization_id = $2", slug, orgID)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, ErrRoleNotFound
	}
	return roles[0], nil
}

func (r *RoleRepository) Create(ctx context.Context, data *role.Role) (*role.Role, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(
		ctx,
		roleInsertQuery,
		data.ID(),
		data.OrganizationID(),
		data.Name(),
		data.Slug(),
		data.IsSystem(),
		data.CreatedAt(),
		data.UpdatedAt(),
	); err != nil {
		return nil, errors.Wrap(err, "failed to create role")
	}

	if err := r.syncPermissions(ctx, data.ID(), data.Permissions()); err != nil {
		return nil, err
	}
	return data, nil
}

func (r *RoleRepository) Update(ctx context.Context, data *role.Role) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(
		ctx,
		roleUpdateQuery,
		data.Name(),
		data.Slug(),
		data.UpdatedAt(),
		data.ID(),
		data.OrganizationID(),
	); err != nil {
		return errors.Wrap(err, "failed to update role")
	}
	return r.syncPermissions(ctx, data.ID(), data.Permissions())
}

func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get organization from context")
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(ctx, roleDeleteQuery, id, orgID); err != nil {
		return errors.Wrap(err, "failed to delete role")
	}
	return nil
}

func (r *RoleRepository) syncPermissions(ctx context.Context, roleID string, permissions []*permission.Permission) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(ctx, rolePermissionDeleteQuery, roleID); err != nil {
		return errors.Wrap(err, "failed to clear role permissions")
	}
	if len(permissions) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(permissions))
	for _, p := range permissions {
		rows = append(rows, []interface{}{roleID, p.ID.String()})
	}
	query, args := repo.BatchInsertQueryN(rolePermissionInsertQuery, rows)
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return errors.Wrap(err, "failed to insert role permissions")
	}
	return nil
}

func (r *RoleRepository) queryRoles(ctx context.Context, query string, args ...interface{}) ([]*role.Role, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var dbRoles []*models.Role
	for rows.Next() {
		var m models.Role
		if err := rows.Scan(
			&m.ID,
			&m.OrganizationID,
			&m.Name,
			&m.Slug,
			&m.IsSystem,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan role row")
		}
		dbRoles = append(dbRoles, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}

	roles := make([]*role.Role, 0, len(dbRoles))
	for _, m := range dbRoles {
		permissions, err := r.queryPermissions(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		roles = append(roles, ToDomainRole(m, permissions))
	}
	return roles, nil
}

func (r *RoleRepository) queryPermissions(ctx context.Context, roleID string) ([]*permission.Permission, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, rolePermissionsQuery, roleID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query role permissions")
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
