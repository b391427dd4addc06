package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/aggregates/user"
	"github.com/pinpoint-collective/pinpoint/modules/core/infrastructure/persistence/models"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/mapping"
	"github.com/pinpoint-collective/pinpoint/pkg/repo"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

const (
	userFindQuery = `
		SELECT
			u.id,
			u.first_name,
			u.last_name,
			u.email,
			u.ui_language,
			u.password,
			u.last_login,
			u.last_action,
			u.created_at,
			u.updated_at
		FROM users u`

	userCountQuery = `SELECT COUNT(u.id) FROM users u`

	userExistsByEmailQuery = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`

	userInsertQuery = `
		INSERT INTO users (id, first_name, last_name, email, ui_language, password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	userUpdateQuery = `
		UPDATE users
		SET first_name = $1, last_name = $2, email = $3, ui_language = $4, password = $5, updated_at = $6
		WHERE id = $7`

	userUpdateLastLoginQuery = `UPDATE users SET last_login = now() WHERE id = $1`

	userUpdateLastActionQuery = `UPDATE users SET last_action = now() WHERE id = $1`

	userDeleteQuery = `DELETE FROM users WHERE id = $1`
)

type PgUserRepository struct {
	fieldMap map[user.Field]string
}

func NewUserRepository() user.Repository {
	return &PgUserRepository{
		fieldMap: map[user.Field]string{
			user.FirstNameField: "u.first_name",
			user.LastNameField:  "u.last_name",
			user.EmailField:     "u.email",
			user.LastLoginField: "u.last_login",
			user.CreatedAtField: "u.created_at",
			user.UpdatedAtField: "u.updated_at",
		},
	}
}

func (g *PgUserRepository) buildUserFilters(params *user.FindParams) ([]string, []interface{}, error) {
	where := []string{}
	args := []interface{}{}

	for _, filter := range params.Filters {
		column, ok := g.fieldMap[filter.Column]
		if !ok {
			return nil, nil, errors.Wrap(fmt.Errorf("unknown filter field: %v", filter.Column), "invalid filter")
		}
		where = append(where, filter.Filter.String(column, len(args)+1))
		args = append(args, filter.Filter.Value()...)
	}

	if params.Search != "" {
		index := len(args) + 1
		where = append(
			where,
			fmt.Sprintf(
				"(u.first_name ILIKE $%d OR u.last_name ILIKE $%d OR u.email ILIKE $%d)",
				index,
				index,
				index,
			),
		)
		args = append(args, "%"+params.Search+"%")
	}

	return where, args, nil
}

func (g *PgUserRepository) Count(ctx context.Context, params *user.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get transaction")
	}

	where, args, err := g.buildUserFilters(params)
	if err != nil {
		return 0, err
	}

	query := repo.Join(userCountQuery, repo.JoinWhere(where...))

	var count int64
	if err := tx.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count users")
	}
	return count, nil
}

func (g *PgUserRepository) GetAll(ctx context.Context) ([]user.User, error) {
	users, err := g.queryUsers(ctx, userFindQuery+" ORDER BY u.last_name ASC, u.first_name ASC")
	if err != nil {
		return nil, errors.Wrap(err, "failed to get all users")
	}
	return users, nil
}

func (g *PgUserRepository) GetPaginated(ctx context.Context, params *user.FindParams) ([]user.User, error) {
	where, args, err := g.buildUserFilters(params)
	if err != nil {
		return nil, err
	}

	query := repo.Join(
		userFindQuery,
		repo.JoinWhere(where...),
		params.SortBy.ToSQL(g.fieldMap),
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	users, err := g.queryUsers(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get paginated users")
	}
	return users, nil
}

func (g *PgUserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	users, err := g.queryUsers(ctx, userFindQuery+" WHERE u.id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	return users[0], nil
}

func (g *PgUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	users, err := g.queryUsers(ctx, userFindQuery+" WHERE u.email = $1", strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	return users[0], nil
}

func (g *PgUserRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, errors.Wrap(err, "failed to get transaction")
	}

	var taken bool
	if err := tx.QueryRow(ctx, userExistsByEmailQuery, strings.ToLower(strings.TrimSpace(email))).Scan(&taken); err != nil {
		return false, errors.Wrap(err, "failed to check email")
	}
	return taken, nil
}

func (g *PgUserRepository) Create(ctx context.Context, data user.User) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(
		ctx,
		userInsertQuery,
		data.ID(),
		data.FirstName(),
		data.LastName(),
		data.Email().Value(),
		string(data.UILanguage()),
		mapping.ValueToSQLNullString(data.PasswordHash()),
		data.CreatedAt(),
		data.UpdatedAt(),
	); err != nil {
		return nil, errors.Wrap(err, "failed to create user")
	}
	return g.GetByID(ctx, data.ID())
}

func (g *PgUserRepository) Update(ctx context.Context, data user.User) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(
		ctx,
		userUpdateQuery,
		data.FirstName(),
		data.LastName(),
		data.Email().Value(),
		string(data.UILanguage()),
		mapping.ValueToSQLNullString(data.PasswordHash()),
		data.UpdatedAt(),
		data.ID(),
	); err != nil {
		return errors.Wrap(err, "failed to update user")
	}
	return nil
}

func (g *PgUserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(ctx, userUpdateLastLoginQuery, id); err != nil {
		return errors.Wrap(err, "failed to update last login")
	}
	return nil
}

func (g *PgUserRepository) UpdateLastAction(ctx context.Context, id string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(ctx, userUpdateLastActionQuery, id); err != nil {
		return errors.Wrap(err, "failed to update last action")
	}
	return nil
}

func (g *PgUserRepository) Delete(ctx context.Context, id string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(ctx, userDeleteQuery, id); err != nil {
		return errors.Wrap(err, "failed to delete user")
	}
	return nil
}

func (g *PgUserRepository) queryUsers(ctx context.Context, query string, args ...interface{}) ([]user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID,
			&u.FirstName,
			&u.LastName,
			&u.Email,
			&u.UILanguage,
			&u.Password,
			&u.LastLogin,
			&u.LastAction,
			&u.CreatedAt,
			&u.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan user row")
		}
		entity, err := ToDomainUser(&u)
		if err != nil {
			return nil, errors.Wrap(err, "failed to map user row")
		}
		users = append(users, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return users, nil
}
