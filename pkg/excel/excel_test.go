package excel

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportWritesHeaderAndRows(t *testing.T) {
	t.Parallel()

	ds := NewSliceDataSource(
		[]string{"title", "priority", "created_at"},
		[][]any{
			{"Left flipper dead", "high", time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)},
			{"Display flickers", "low", time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)},
		},
	).WithSheetName("Issues")

	exporter := NewExcelExporter(DefaultExportOptions(), DefaultStyleOptions())
	data, err := exporter.Export(context.Background(), ds)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() {
		require.NoError(t, f.Close())
	}()

	require.Equal(t, []string{"Issues"}, f.GetSheetList())

	rows, err := f.GetRows("Issues")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"title", "priority", "created_at"}, rows[0])
	require.Equal(t, "Left flipper dead", rows[1][0])
	require.Equal(t, "high", rows[1][1])
	require.Equal(t, "2025-03-01 10:30:00", rows[1][2])
	require.Equal(t, "Display flickers", rows[2][0])
}

func TestExportWithoutHeaders(t *testing.T) {
	t.Parallel()

	ds := NewSliceDataSource([]string{"a", "b"}, [][]any{{"1", "2"}})
	exporter := NewExcelExporter(ExportOptions{}, StyleOptions{})

	data, err := exporter.Export(context.Background(), ds)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() {
		require.NoError(t, f.Close())
	}()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, []string{"1", "2"}, rows[0])
}

func TestExportCapsRows(t *testing.T) {
	t.Parallel()

	ds := NewSliceDataSource([]string{"n"}, [][]any{{"1"}, {"2"}, {"3"}})
	opts := DefaultExportOptions()
	opts.MaxRows = 2
	exporter := NewExcelExporter(opts, StyleOptions{})

	data, err := exporter.Export(context.Background(), ds)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() {
		require.NoError(t, f.Close())
	}()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"n"}, rows[0])
	require.Equal(t, []string{"2"}, rows[2][0:1])
}

func TestExportNilBecomesEmptyCell(t *testing.T) {
	t.Parallel()

	ds := NewSliceDataSource([]string{"a", "b"}, [][]any{{nil, "x"}})
	exporter := NewExcelExporter(DefaultExportOptions(), StyleOptions{})

	data, err := exporter.Export(context.Background(), ds)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() {
		require.NoError(t, f.Close())
	}()

	val, err := f.GetCellValue("Sheet1", "A2")
	require.NoError(t, err)
	require.Equal(t, "", val)

	val, err = f.GetCellValue("Sheet1", "B2")
	require.NoError(t, err)
	require.Equal(t, "x", val)
}
