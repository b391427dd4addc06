package persistence

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/aggregates/machine"
	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/entities/location"
	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/entities/model"
	"github.com/pinpoint-collective/pinpoint/modules/machines/infrastructure/persistence/models"
	"github.com/pinpoint-collective/pinpoint/pkg/boundary"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/repo"
)

var (
	ErrMachineNotFound = errors.New("machine not found")
)

// machineScopeColumns resolves scope-map fields to columns for writes.
var machineScopeColumns = map[string]string{
	"id":             "id",
	"organizationId": "organization_id",
}

const (
	// Model and location ride along so listings render without extra
	// queries per row.
	machineFindQuery = `
		SELECT
			mc.id, mc.organization_id, mc.model_id, mc.location_id, mc.owner_id, mc.qr_token, mc.created_at, mc.updated_at,
			md.name, md.manufacturer, md.year, md.machine_type, md.opdb_id, md.created_at, md.updated_at,
			l.name, l.street, l.city, l.created_at, l.updated_at
		FROM machines mc
		LEFT JOIN machine_models md ON mc.model_id = md.id
		LEFT JOIN locations l ON mc.location_id = l.id`

	machineCountByLocationQuery = `SELECT COUNT(mc.id) FROM machines mc WHERE mc.location_id = $1`

	machineInsertQuery = `
		INSERT INTO machines (id, organization_id, model_id, location_id, owner_id, qr_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
)

type MachineRepository struct{}

func NewMachineRepository() machine.Repository {
	return &MachineRepository{}
}

func (r *MachineRepository) CountByLocation(ctx context.Context, locationID string) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get transaction")
	}

	var count int64
	if err := tx.QueryRow(ctx, machineCountByLocationQuery, locationID).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count machines")
	}
	return count, nil
}

func (r *MachineRepository) GetAll(ctx context.Context) ([]*machine.Machine, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get organization from context")
	}
	return r.queryMachines(ctx, machineFindQuery+" WHERE mc.organization_id = $1 ORDER BY mc.created_at ASC", orgID)
}

func (r *MachineRepository) GetByLocation(ctx context.Context, locationID string) ([]*machine.Machine, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get organization from context")
	}
	return r.queryMachines(
		ctx,
		machineFindQuery+" WHERE mc.location_id = $1 AND mc.organization_id = $2 ORDER BY mc.created_at ASC",
		locationID,
		orgID,
	)
}

func (r *MachineRepository) GetByID(ctx context.Context, id string) (*machine.Machine, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get organization from context")
	}
	machines, err := r.queryMachines(ctx, machineFindQuery+" WHERE mc.id = $1 AND mc.organization_id = $2", id, orgID)
	if err != nil {
		return nil, err
	}
	if len(machines) == 0 {
		return nil, ErrMachineNotFound
	}
	return machines[0], nil
}

// GetByQRToken resolves a sticker token without organization scoping. The
// public check-in flow has no organization context until the machine is
// found.
func (r *MachineRepository) GetByQRToken(ctx context.Context, token string) (*machine.Machine, error) {
	machines, err := r.queryMachines(ctx, machineFindQuery+" WHERE mc.qr_token = $1", token)
	if err != nil {
		return nil, err
	}
	if len(machines) == 0 {
		return nil, ErrMachineNotFound
	}
	return machines[0], nil
}

func (r *MachineRepository) Create(ctx context.Context, data *machine.Machine) (*machine.Machine, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(
		ctx,
		machineInsertQuery,
		data.ID(),
		data.OrganizationID(),
		data.ModelID(),
		data.LocationID(),
		nullString(data.OwnerID()),
		data.QRToken(),
		data.CreatedAt(),
		data.UpdatedAt(),
	); err != nil {
		return nil, errors.Wrap(err, "failed to create machine")
	}
	return r.GetByID(ctx, data.ID())
}

func (r *MachineRepository) Update(ctx context.Context, data *machine.Machine) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}

	fields := []string{"location_id", "owner_id", "qr_token", "updated_at"}
	scope := boundary.CreateEntityUpdateQuery(data.ID(), data.OrganizationID())
	conditions, whereArgs, err := repo.ScopeConditions(scope.Where, machineScopeColumns, len(fields))
	if err != nil {
		return errors.Wrap(err, "failed to build update scope")
	}

	args := []interface{}{
		data.LocationID(),
		nullString(data.OwnerID()),
		data.QRToken(),
		data.UpdatedAt(),
	}
	args = append(args, whereArgs...)

	query := repo.Update("machines", fields, strings.Join(conditions, " AND "))
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return errors.Wrap(err, "failed to update machine")
	}
	return nil
}

func (r *MachineRepository) Delete(ctx context.Context, id string) error {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get organization from context")
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}

	scope := boundary.CreateEntityDeleteQuery(id, orgID)
	conditions, args, err := repo.ScopeConditions(scope.Where, machineScopeColumns, 0)
	if err != nil {
		return errors.Wrap(err, "failed to build delete scope")
	}

	query := "DELETE FROM machines " + repo.JoinWhere(conditions...)
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return errors.Wrap(err, "failed to delete machine")
	}
	return nil
}

type machineRow struct {
	machine      models.Machine
	modelName    sql.NullString
	modelMaker   sql.NullString
	modelYear    sql.NullInt64
	modelType    sql.NullString
	modelOPDBID  sql.NullString
	modelCreated sql.NullTime
	modelUpdated sql.NullTime
	locName      sql.NullString
	locStreet    sql.NullString
	locCity      sql.NullString
	locCreated   sql.NullTime
	locUpdated   sql.NullTime
}

func (r *MachineRepository) queryMachines(ctx context.Context, query string, args ...interface{}) ([]*machine.Machine, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	machines := make([]*machine.Machine, 0)
	for rows.Next() {
		var row machineRow
		if err := rows.Scan(
			&row.machine.ID,
			&row.machine.OrganizationID,
			&row.machine.ModelID,
			&row.machine.LocationID,
			&row.machine.OwnerID,
			&row.machine.QRToken,
			&row.machine.CreatedAt,
			&row.machine.UpdatedAt,
			&row.modelName,
			&row.modelMaker,
			&row.modelYear,
			&row.modelType,
			&row.modelOPDBID,
			&row.modelCreated,
			&row.modelUpdated,
			&row.locName,
			&row.locStreet,
			&row.locCity,
			&row.locCreated,
			&row.locUpdated,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan machine row")
		}

		var mdl *model.Model
		if row.modelName.Valid {
			mdl = ToDomainModel(&models.Model{
				ID:           row.machine.ModelID,
				Name:         row.modelName.String,
				Manufacturer: row.modelMaker.String,
				Year:         int(row.modelYear.Int64),
				MachineType:  row.modelType.String,
				OPDBID:       row.modelOPDBID,
				CreatedAt:    row.modelCreated.Time,
				UpdatedAt:    row.modelUpdated.Time,
			})
		}
		var loc *location.Location
		if row.locName.Valid {
			loc = ToDomainLocation(&models.Location{
				ID:             row.machine.LocationID,
				OrganizationID: row.machine.OrganizationID,
				Name:           row.locName.String,
				Street:         row.locStreet.String,
				City:           row.locCity.String,
				CreatedAt:      row.locCreated.Time,
				UpdatedAt:      row.locUpdated.Time,
			})
		}
		machines = append(machines, ToDomainMachine(&row.machine, mdl, loc))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return machines, nil
}
