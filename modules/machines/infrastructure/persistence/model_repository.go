package persistence

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/entities/model"
	"github.com/pinpoint-collective/pinpoint/modules/machines/infrastructure/persistence/models"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
)

var (
	ErrModelNotFound = errors.New("model not found")
)

const (
	modelFindQuery = `
		SELECT m.id, m.name, m.manufacturer, m.year, m.machine_type, m.opdb_id, m.created_at, m.updated_at
		FROM machine_models m`

	modelCountQuery = `SELECT COUNT(m.id) FROM machine_models m`

	modelInsertQuery = `
		INSERT INTO machine_models (id, name, manufacturer, year, machine_type, opdb_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	modelUpsertQuery = `
		INSERT INTO machine_models (id, name, manufacturer, year, machine_type, opdb_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (opdb_id) WHERE opdb_id IS NOT NULL DO UPDATE
		SET name = EXCLUDED.name,
			manufacturer = EXCLUDED.manufacturer,
			year = EXCLUDED.year,
			machine_type = EXCLUDED.machine_type,
			updated_at = EXCLUDED.updated_at`
)

// ModelRepository stores the machine model catalog. Rows are global; no
// organization scoping applies here.
type ModelRepository struct{}

func NewModelRepository() model.Repository {
	return &ModelRepository{}
}

func (r *ModelRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get transaction")
	}

	var count int64
	if err := tx.QueryRow(ctx, modelCountQuery).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count models")
	}
	return count, nil
}

func (r *ModelRepository) GetAll(ctx context.Context) ([]*model.Model, error) {
	return r.queryModels(ctx, modelFindQuery+" ORDER BY m.name ASC")
}

func (r *ModelRepository) GetByID(ctx context.Context, id string) (*model.Model, error) {
	entries, err := r.queryModels(ctx, modelFindQuery+" WHERE m.id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrModelNotFound
	}
	return entries[0], nil
}

func (r *ModelRepository) GetByOPDBID(ctx context.Context, opdbID string) (*model.Model, error) {
	entries, err := r.queryModels(ctx, modelFindQuery+" WHERE m.opdb_id = $1", opdbID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrModelNotFound
	}
	return entries[0], nil
}

func (r *ModelRepository) Create(ctx context.Context, data *model.Model) (*model.Model, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(
		ctx,
		modelInsertQuery,
		data.ID(),
		data.Name(),
		data.Manufacturer(),
		data.Year(),
		string(data.MachineType()),
		nullString(data.OPDBID()),
		data.CreatedAt(),
		data.UpdatedAt(),
	); err != nil {
		return nil, errors.Wrap(err, "failed to create model")
	}
	return r.GetByID(ctx, data.ID())
}

// Upsert inserts the catalog row or refreshes it when one with the same
// OPDB id already exists. Rows without an OPDB id always insert.
func (r *ModelRepository) Upsert(ctx context.Context, data *model.Model) (*model.Model, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(
		ctx,
		modelUpsertQuery,
		data.ID(),
		data.Name(),
		data.Manufacturer(),
		data.Year(),
		string(data.MachineType()),
		nullString(data.OPDBID()),
		data.CreatedAt(),
		data.UpdatedAt(),
	); err != nil {
		return nil, errors.Wrap(err, "failed to upsert model")
	}
	if data.OPDBID() != "" {
		return r.GetByOPDBID(ctx, data.OPDBID())
	}
	return r.GetByID(ctx, data.ID())
}

func (r *ModelRepository) queryModels(ctx context.Context, query string, args ...interface{}) ([]*model.Model, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	entries := make([]*model.Model, 0)
	for rows.Next() {
		var m models.Model
		if err := rows.Scan(
			&m.ID,
			&m.Name,
			&m.Manufacturer,
			&m.Year,
			&m.MachineType,
			&m.OPDBID,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan model row")
		}
		entries = append(entries, ToDomainModel(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return entries, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
