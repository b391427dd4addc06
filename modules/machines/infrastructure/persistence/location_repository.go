package persistence

import (
	"context"

	"github.com/pkg/errors"

	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/entities/location"
	"github.com/pinpoint-collective/pinpoint/modules/machines/infrastructure/persistence/models"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
)

var (
	ErrLocationNotFound = errors.New("location not found")
)

const (
	locationFindQuery = `
		SELECT l.id, l.organization_id, l.name, l.street, l.city, l.created_at, l.updated_at
		FROM locations l`

	locationInsertQuery = `
		INSERT INTO locations (id, organization_id, name, street, city, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	locationUpdateQuery = `
		UPDATE locations
		SET name = $1, street = $2, city = $3, updated_at = $4
		WHERE id = $5 AND organization_id = $6`

	locationDeleteQuery = `DELETE FROM locations WHERE id = $1 AND organization_id = $2`
)

type LocationRepository struct{}

func NewLocationRepository() location.Repository {
	return &LocationRepository{}
}

func (r *LocationRepository) GetAll(ctx context.Context) ([]*location.Location, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get organization from context")
	}
	return r.queryLocations(ctx, locationFindQuery+" WHERE l.organization_id = $1 ORDER BY l.name ASC", orgID)
}

func (r *LocationRepository) GetByID(ctx context.Context, id string) (*location.Location, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get organization from context")
	}
	locations, err := r.queryLocations(ctx, locationFindQuery+" WHERE l.id = $1 AND l.organization_id = $2", id, orgID)
	if err != nil {
		return nil, err
	}
	if len(locations) == 0 {
		return nil, ErrLocationNotFound
	}
	return locations[0], nil
}

func (r *LocationRepository) Create(ctx context.Context, data *location.Location) (*location.Location, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(
		ctx,
		locationInsertQuery,
		data.ID(),
		data.OrganizationID(),
		data.Name(),
		data.Street(),
		data.City(),
		data.CreatedAt(),
		data.UpdatedAt(),
	); err != nil {
		return nil, errors.Wrap(err, "failed to create location")
	}
	return r.GetByID(ctx, data.ID())
}

func (r *LocationRepository) Update(ctx context.Context, data *location.Location) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(
		ctx,
		locationUpdateQuery,
		data.Name(),
		data.Street(),
		data.City(),
		data.UpdatedAt(),
		data.ID(),
		data.OrganizationID(),
	); err != nil {
		return errors.Wrap(err, "failed to update location")
	}
	return nil
}

func (r *LocationRepository) Delete(ctx context.Context, id string) error {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get organization from context")
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(ctx, locationDeleteQuery, id, orgID); err != nil {
		return errors.Wrap(err, "failed to delete location")
	}
	return nil
}

func (r *LocationRepository) queryLocations(ctx context.Context, query string, args ...interface{}) ([]*location.Location, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	locations := make([]*location.Location, 0)
	for rows.Next() {
		var l models.Location
		if err := rows.Scan(
			&l.ID,
			&l.OrganizationID,
			&l.Name,
			&l.Street,
			&l.City,
			&l.CreatedAt,
			&l.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan location row")
		}
		locations = append(locations, ToDomainLocation(&l))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return locations, nil
}
