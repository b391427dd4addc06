package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pinpoint-collective/pinpoint/pkg/excel"
)

// ExcelExportService renders SQL query results into XLSX workbooks. Callers
// enforce their own authorization before invoking it.
type ExcelExportService struct {
	db *pgxpool.Pool
}

func NewExcelExportService(db *pgxpool.Pool) *ExcelExportService {
	return &ExcelExportService{db: db}
}

// ExportFromQuery runs the query and returns the serialized workbook.
func (s *ExcelExportService) ExportFromQuery(ctx context.Context, query string, args []any, sheetName string) ([]byte, error) {
	datasource := excel.NewPgxDataSource(s.db, query, args...)
	if sheetName != "" {
		if len(sheetName) > 31 { // Excel sheet name limit
			sheetName = sheetName[:31]
		}
		datasource.WithSheetName(sheetName)
	}
	return s.export(ctx, datasource)
}

// ExportFromDataSource renders a prepared data source.
func (s *ExcelExportService) ExportFromDataSource(ctx context.Context, datasource excel.DataSource) ([]byte, error) {
	return s.export(ctx, datasource)
}

func (s *ExcelExportService) export(ctx context.Context, datasource excel.DataSource) ([]byte, error) {
	exporter := excel.NewExcelExporter(excel.DefaultExportOptions(), excel.DefaultStyleOptions())
	data, err := exporter.Export(ctx, datasource)
	if err != nil {
		return nil, fmt.Errorf("failed to export to Excel: %w", err)
	}
	return data, nil
}
