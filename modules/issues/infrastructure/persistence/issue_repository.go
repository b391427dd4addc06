package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/aggregates/issue"
	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/entities/status"
	"github.com/pinpoint-collective/pinpoint/modules/issues/infrastructure/persistence/models"
	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/aggregates/machine"
	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/entities/model"
	"github.com/pinpoint-collective/pinpoint/pkg/boundary"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/mapping"
	"github.com/pinpoint-collective/pinpoint/pkg/repo"
)

var (
	ErrIssueNotFound = errors.New("issue not found")
)

// issueScopeColumns resolves scope-map fields to columns for writes.
var issueScopeColumns = map[string]string{
	"id":             "id",
	"organizationId": "organization_id",
}

const (
	// Status and machine (with its catalog model) ride along so listings
	// render without extra queries per row.
	issueFindQuery = `
		SELECT
			i.id, i.organization_id, i.machine_id, i.status_id, i.priority, i.severity, i.consistency,
			i.title, i.description, i.reporter_id, i.reporter_name, i.assignee_id, i.resolved_at,
			i.created_at, i.updated_at,
			st.name, st.category, st.is_default, st.sort_order, st.created_at, st.updated_at,
			mc.model_id, mc.location_id, mc.owner_id, mc.qr_token, mc.created_at, mc.updated_at,
			md.name, md.manufacturer, md.year, md.machine_type, md.opdb_id, md.created_at, md.updated_at
		FROM issues i
		LEFT JOIN issue_statuses st ON i.status_id = st.id
		LEFT JOIN machines mc ON i.machine_id = mc.id
		LEFT JOIN machine_models md ON mc.model_id = md.id`

	issueCountQuery = `SELECT COUNT(i.id) FROM issues i`

	issueCountByStatusQuery = `SELECT COUNT(i.id) FROM issues i WHERE i.status_id = $1`

	issueInsertQuery = `
		INSERT INTO issues (
			id, organization_id, machine_id, status_id, priority, severity, consistency,
			title, description, reporter_id, reporter_name, assignee_id, resolved_at,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
)

type IssueRepository struct {
	fieldMap map[issue.Field]string
}

func NewIssueRepository() issue.Repository {
	return &IssueRepository{
		fieldMap: map[issue.Field]string{
			issue.TitleField:      "i.title",
			issue.PriorityField:   "i.priority",
			issue.SeverityField:   "i.severity",
			issue.StatusField:     "i.status_id",
			issue.MachineField:    "i.machine_id",
			issue.AssigneeField:   "i.assignee_id",
			issue.ReporterField:   "i.reporter_id",
			issue.CreatedAtField:  "i.created_at",
			issue.UpdatedAtField:  "i.updated_at",
			issue.ResolvedAtField: "i.resolved_at",
		},
	}
}

func (r *IssueRepository) buildIssueFilters(params *issue.FindParams) ([]string, []interface{}, error) {
	where := []string{}
	args := []interface{}{}

	for _, filter := range params.Filters {
		column, ok := r.fieldMap[filter.Column]
		if !ok {
			return nil, nil, errors.Errorf("unknown filter field: %v", filter.Column)
		}
		where = append(where, filter.Filter.String(column, len(args)+1))
		args = append(args, filter.Filter.Value()...)
	}

	if params.Search != "" {
		index := len(args) + 1
		where = append(
			where,
			fmt.Sprintf("(i.title ILIKE $%d OR i.description ILIKE $%d)", index, index),
		)
		args = append(args, "%"+params.Search+"%")
	}

	return where, args, nil
}

func (r *IssueRepository) Count(ctx context.Context, params *issue.FindParams) (int64, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get organization from context")
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get transaction")
	}

	where, args, err := r.buildIssueFilters(params)
	if err != nil {
		return 0, err
	}
	where = append(where, fmt.Sprintf("i.organization_id = $%d", len(args)+1))
	args = append(args, orgID)

	query := repo.Join(issueCountQuery, repo.JoinWhere(where...))

	var count int64
	if err := tx.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count issues")
	}
	return count, nil
}

func (r *IssueRepository) CountByStatus(ctx context.Context, statusID string) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get transaction")
	}

	var count int64
	if err := tx.QueryRow(ctx, issueCountByStatusQuery, statusID).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count issues")
	}
	return count, nil
}

func (r *IssueRepository) GetPaginated(ctx context.Context, params *issue.FindParams) ([]*issue.Issue, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get organization from context")
	}

	where, args, err := r.buildIssueFilters(params)
	if err != nil {
		return nil, err
	}
	where = append(where, fmt.Sprintf("i.organization_id = $%d", len(args)+1))
	args = append(args, orgID)

	sortBy := params.SortBy.ToSQL(r.fieldMap)
	if sortBy == "" {
		sortBy = "ORDER BY i.created_at DESC"
	}

	query := repo.Join(
		issueFindQuery,
		repo.JoinWhere(where...),
		sortBy,
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	return r.queryIssues(ctx, query, args...)
}

func (r *IssueRepository) GetByID(ctx context.Context, id string) (*issue.Issue, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get organization from context")
	}
	issues, err := r.queryIssues(ctx, issueFindQuery+" WHERE i.id = $1 AND i.organization_id = $2", id, orgID)
	if err != nil {
		return nil, err
	}
	if len(issues) == 0 {
		return nil, ErrIssueNotFound
	}
	return issues[0], nil
}

// GetByIDs fetches without organization scoping so bulk validation can tell
// a missing target from one owned by another organization.
func (r *IssueRepository) GetByIDs(ctx context.Context, ids []string) ([]*issue.Issue, error) {
	return r.queryIssues(ctx, issueFindQuery+" WHERE i.id = ANY($1)", ids)
}

func (r *IssueRepository) GetByMachine(ctx context.Context, machineID string) ([]*issue.Issue, error) {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get organization from context")
	}
	return r.queryIssues(
		ctx,
		issueFindQuery+" WHERE i.machine_id = $1 AND i.organization_id = $2 ORDER BY i.created_at DESC",
		machineID,
		orgID,
	)
}

func (r *IssueRepository) Create(ctx context.Context, data *issue.Issue) (*issue.Issue, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(
		ctx,
		issueInsertQuery,
		data.ID(),
		data.OrganizationID(),
		data.MachineID(),
		data.StatusID(),
		string(data.Priority()),
		string(data.Severity()),
		string(data.Consistency()),
		data.Title(),
		data.Description(),
		mapping.ValueToSQLNullString(data.ReporterID()),
		mapping.ValueToSQLNullString(data.ReporterName()),
		mapping.ValueToSQLNullString(data.AssigneeID()),
		mapping.PointerToSQLNullTime(data.ResolvedAt()),
		data.CreatedAt(),
		data.UpdatedAt(),
	); err != nil {
		return nil, errors.Wrap(err, "failed to create issue")
	}
	return r.GetByID(ctx, data.ID())
}

func (r *IssueRepository) Update(ctx context.Context, data *issue.Issue) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}

	fields := []string{
		"status_id", "priority", "severity", "consistency",
		"title", "description", "assignee_id", "resolved_at", "updated_at",
	}
	scope := boundary.CreateEntityUpdateQuery(data.ID(), data.OrganizationID())
	conditions, whereArgs, err := repo.ScopeConditions(scope.Where, issueScopeColumns, len(fields))
	if err != nil {
		return errors.Wrap(err, "failed to build update scope")
	}

	args := []interface{}{
		data.StatusID(),
		string(data.Priority()),
		string(data.Severity()),
		string(data.Consistency()),
		data.Title(),
		data.Description(),
		mapping.ValueToSQLNullString(data.AssigneeID()),
		mapping.PointerToSQLNullTime(data.ResolvedAt()),
		data.UpdatedAt(),
	}
	args = append(args, whereArgs...)

	query := repo.Update("issues", fields, strings.Join(conditions, " AND "))
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return errors.Wrap(err, "failed to update issue")
	}
	return nil
}

func (r *IssueRepository) Delete(ctx context.Context, id string) error {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get organization from context")
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}

	scope := boundary.CreateEntityDeleteQuery(id, orgID)
	conditions, args, err := repo.ScopeConditions(scope.Where, issueScopeColumns, 0)
	if err != nil {
		return errors.Wrap(err, "failed to build delete scope")
	}

	query := "DELETE FROM issues " + repo.JoinWhere(conditions...)
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return errors.Wrap(err, "failed to delete issue")
	}
	return nil
}

type issueRow struct {
	issue        models.Issue
	statusName   sql.NullString
	statusCat    sql.NullString
	statusDef    sql.NullBool
	statusOrder  sql.NullInt64
	statusCreate sql.NullTime
	statusUpdate sql.NullTime
	mcModelID    sql.NullString
	mcLocationID sql.NullString
	mcOwnerID    sql.NullString
	mcQRToken    sql.NullString
	mcCreated    sql.NullTime
	mcUpdated    sql.NullTime
	modelName    sql.NullString
	modelMaker   sql.NullString
	modelYear    sql.NullInt64
	modelType    sql.NullString
	modelOPDBID  sql.NullString
	modelCreated sql.NullTime
	modelUpdated sql.NullTime
}

func (r *IssueRepository) queryIssues(ctx context.Context, query string, args ...interface{}) ([]*issue.Issue, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	issues := make([]*issue.Issue, 0)
	for rows.Next() {
		var row issueRow
		if err := rows.Scan(
			&row.issue.ID,
			&row.issue.OrganizationID,
			&row.issue.MachineID,
			&row.issue.StatusID,
			&row.issue.Priority,
			&row.issue.Severity,
			&row.issue.Consistency,
			&row.issue.Title,
			&row.issue.Description,
			&row.issue.ReporterID,
			&row.issue.ReporterName,
			&row.issue.AssigneeID,
			&row.issue.ResolvedAt,
			&row.issue.CreatedAt,
			&row.issue.UpdatedAt,
			&row.statusName,
			&row.statusCat,
			&row.statusDef,
			&row.statusOrder,
			&row.statusCreate,
			&row.statusUpdate,
			&row.mcModelID,
			&row.mcLocationID,
			&row.mcOwnerID,
			&row.mcQRToken,
			&row.mcCreated,
			&row.mcUpdated,
			&row.modelName,
			&row.modelMaker,
			&row.modelYear,
			&row.modelType,
			&row.modelOPDBID,
			&row.modelCreated,
			&row.modelUpdated,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan issue row")
		}

		issues = append(issues, toDomainIssueRow(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return issues, nil
}

func toDomainIssueRow(row *issueRow) *issue.Issue {
	var st *status.Status
	if row.statusName.Valid {
		st = ToDomainStatus(&models.Status{
			ID:             row.issue.StatusID,
			OrganizationID: row.issue.OrganizationID,
			Name:           row.statusName.String,
			Category:       row.statusCat.String,
			IsDefault:      row.statusDef.Bool,
			SortOrder:      int(row.statusOrder.Int64),
			CreatedAt:      row.statusCreate.Time,
			UpdatedAt:      row.statusUpdate.Time,
		})
	}

	var mch *machine.Machine
	if row.mcModelID.Valid {
		var mdl *model.Model
		if row.modelName.Valid {
			mdlOpts := []model.Option{
				model.WithID(row.mcModelID.String),
				model.WithCreatedAt(row.modelCreated.Time),
				model.WithUpdatedAt(row.modelUpdated.Time),
			}
			if row.modelOPDBID.Valid {
				mdlOpts = append(mdlOpts, model.WithOPDBID(row.modelOPDBID.String))
			}
			mdl = model.New(
				row.modelName.String,
				row.modelMaker.String,
				int(row.modelYear.Int64),
				model.Type(row.modelType.String),
				mdlOpts...,
			)
		}
		opts := []machine.Option{
			machine.WithID(row.issue.MachineID),
			machine.WithQRToken(row.mcQRToken.String),
			machine.WithCreatedAt(row.mcCreated.Time),
			machine.WithUpdatedAt(row.mcUpdated.Time),
		}
		if row.mcOwnerID.Valid {
			opts = append(opts, machine.WithOwnerID(row.mcOwnerID.String))
		}
		if mdl != nil {
			opts = append(opts, machine.WithModel(mdl))
		}
		mch = machine.New(
			row.issue.OrganizationID,
			row.mcModelID.String,
			row.mcLocationID.String,
			opts...,
		)
	}

	return ToDomainIssue(&row.issue, mch, st)
}
