package excel

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DataSource supplies tabular data for export.
type DataSource interface {
	SheetName() string
	Query(ctx context.Context) (Rows, error)
}

// Rows iterates a result set. The shape mirrors pgx rows so database-backed
// sources stream without buffering.
type Rows interface {
	Columns() []string
	Next() bool
	Values() ([]any, error)
	Err() error
	Close()
}

// PgxDataSource streams the result of a SQL query.
type PgxDataSource struct {
	pool      *pgxpool.Pool
	query     string
	args      []any
	sheetName string
}

func NewPgxDataSource(pool *pgxpool.Pool, query string, args ...any) *PgxDataSource {
	return &PgxDataSource{
		pool:      pool,
		query:     query,
		args:      args,
		sheetName: defaultSheetName,
	}
}

// WithSheetName overrides the sheet the rows land on.
func (d *PgxDataSource) WithSheetName(name string) *PgxDataSource {
	if name != "" {
		d.sheetName = name
	}
	return d
}

func (d *PgxDataSource) SheetName() string {
	return d.sheetName
}

func (d *PgxDataSource) Query(ctx context.Context) (Rows, error) {
	rows, err := d.pool.Query(ctx, d.query, d.args...)
	if err != nil {
		return nil, err
	}
	return &pgxRows{rows: rows}, nil
}

type pgxRows struct {
	rows pgx.Rows
}

func (r *pgxRows) Columns() []string {
	fields := r.rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}
	return cols
}

func (r *pgxRows) Next() bool {
	return r.rows.Next()
}

func (r *pgxRows) Values() ([]any, error) {
	return r.rows.Values()
}

func (r *pgxRows) Err() error {
	return r.rows.Err()
}

func (r *pgxRows) Close() {
	r.rows.Close()
}

// SliceDataSource serves in-memory rows. Used by tests and small fixed
// reports.
type SliceDataSource struct {
	sheetName string
	columns   []string
	data      [][]any
}

func NewSliceDataSource(columns []string, data [][]any) *SliceDataSource {
	return &SliceDataSource{
		sheetName: defaultSheetName,
		columns:   columns,
		data:      data,
	}
}

func (d *SliceDataSource) WithSheetName(name string) *SliceDataSource {
	if name != "" {
		d.sheetName = name
	}
	return d
}

func (d *SliceDataSource) SheetName() string {
	return d.sheetName
}

func (d *SliceDataSource) Query(_ context.Context) (Rows, error) {
	return &sliceRows{columns: d.columns, data: d.data, idx: -1}, nil
}

type sliceRows struct {
	columns []string
	data    [][]any
	idx     int
}

func (r *sliceRows) Columns() []string {
	return r.columns
}

func (r *sliceRows) Next() bool {
	r.idx++
	return r.idx < len(r.data)
}

func (r *sliceRows) Values() ([]any, error) {
	return r.data[r.idx], nil
}

func (r *sliceRows) Err() error {
	return nil
}

func (r *sliceRows) Close() {}
