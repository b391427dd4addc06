// Package excel renders tabular data sources into XLSX workbooks.
package excel

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const defaultSheetName = "Sheet1"

// ExportOptions controls what lands in the workbook.
type ExportOptions struct {
	IncludeHeaders bool
	// MaxRows caps exported data rows; zero means unlimited.
	MaxRows    int
	DateFormat string
}

func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		IncludeHeaders: true,
		DateFormat:     "2006-01-02 15:04:05",
	}
}

// StyleOptions controls workbook presentation.
type StyleOptions struct {
	BoldHeaders  bool
	FreezeHeader bool
	AutoFilter   bool
}

func DefaultStyleOptions() StyleOptions {
	return StyleOptions{
		BoldHeaders:  true,
		FreezeHeader: true,
		AutoFilter:   true,
	}
}

type ExcelExporter struct {
	opts  ExportOptions
	style StyleOptions
}

func NewExcelExporter(opts ExportOptions, style StyleOptions) *ExcelExporter {
	return &ExcelExporter{opts: opts, style: style}
}

// Export drains the data source into a single-sheet workbook and returns the
// serialized file.
func (e *ExcelExporter) Export(ctx context.Context, ds DataSource) ([]byte, error) {
	rows, err := ds.Query(ctx)
	if err != nil {
		return nil, fmt.Errorf("excel: query data source: %w", err)
	}
	defer rows.Close()

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	sheet := ds.SheetName()
	if sheet == "" {
		sheet = defaultSheetName
	}
	if sheet != defaultSheetName {
		if err := f.SetSheetName(defaultSheetName, sheet); err != nil {
			return nil, fmt.Errorf("excel: rename sheet: %w", err)
		}
	}

	columns := rows.Columns()
	rowIdx := 1
	if e.opts.IncludeHeaders {
		header := make([]any, len(columns))
		for i, col := range columns {
			header[i] = col
		}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return nil, fmt.Errorf("excel: write header: %w", err)
		}
		rowIdx = 2
	}

	exported := 0
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.opts.MaxRows > 0 && exported >= e.opts.MaxRows {
			break
		}
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("excel: read row: %w", err)
		}
		cells := make([]any, len(values))
		for i, v := range values {
			cells[i] = e.cellValue(v)
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", rowIdx), &cells); err != nil {
			return nil, fmt.Errorf("excel: write row: %w", err)
		}
		rowIdx++
		exported++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("excel: iterate rows: %w", err)
	}

	if err := e.applyStyles(f, sheet, len(columns), rowIdx-1); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *ExcelExporter) cellValue(v any) any {
	switch val := v.(type) {
	case nil:
		return ""
	case time.Time:
		format := e.opts.DateFormat
		if format == "" {
			format = time.RFC3339
		}
		return val.Format(format)
	default:
		return v
	}
}

func (e *ExcelExporter) applyStyles(f *excelize.File, sheet string, cols, lastRow int) error {
	if cols == 0 || !e.opts.IncludeHeaders {
		return nil
	}
	lastCol, err := excelize.ColumnNumberToName(cols)
	if err != nil {
		return fmt.Errorf("excel: resolve column name: %w", err)
	}

	if e.style.BoldHeaders {
		styleID, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return fmt.Errorf("excel: header style: %w", err)
		}
		if err := f.SetCellStyle(sheet, "A1", lastCol+"1", styleID); err != nil {
			return fmt.Errorf("excel: apply header style: %w", err)
		}
	}
	if e.style.FreezeHeader {
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("excel: freeze header: %w", err)
		}
	}
	if e.style.AutoFilter && lastRow >= 1 {
		ref := fmt.Sprintf("A1:%s%d", lastCol, lastRow)
		if err := f.AutoFilter(sheet, ref, nil); err != nil {
			return fmt.Errorf("excel: auto filter: %w", err)
		}
	}
	return nil
}
