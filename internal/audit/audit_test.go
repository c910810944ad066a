package audit

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeExporter struct{}

func (fakeExporter) GetTableNames(ctx context.Context) ([]string, error) {
	return []string{"appointments", "holidays"}, nil
}

func (fakeExporter) GetTableData(ctx context.Context, tableName string) ([]map[string]interface{}, []string, error) {
	switch tableName {
	case "appointments":
		return []map[string]interface{}{
			{"id": int64(1), "patient_name": "Laura Núñez", "date": "2024-06-10"},
			{"id": int64(2), "patient_name": "Pedro Gómez", "date": "2024-06-11"},
		}, []string{"id", "patient_name", "date"}, nil
	default:
		return []map[string]interface{}{
			{"date": "2024-07-09", "name": "Día de la Independencia"},
		}, []string{"date", "name"}, nil
	}
}

type fakeCleaner struct {
	deleted int64
}

func (f *fakeCleaner) DeleteOldAppointments(ctx context.Context, olderThan time.Duration) (int64, error) {
	return f.deleted, nil
}

func TestExportWritesWorkbook(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(Config{ExportDir: dir}, fakeExporter{}, &fakeCleaner{}, nil, zerolog.Nop())

	path, err := svc.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	_, err = os.Stat(path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"appointments", "holidays"}, f.GetSheetList())

	rows, err := f.GetRows("appointments")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"id", "patient_name", "date"}, rows[0])
	assert.Equal(t, "Laura Núñez", rows[1][1])
}

func TestReportFilename(t *testing.T) {
	now := time.Date(2024, 7, 1, 3, 0, 0, 0, time.Local)
	assert.Equal(t, "Agenda_Junio_2024.xlsx", ReportFilename(now))

	january := time.Date(2025, 1, 1, 3, 0, 0, 0, time.Local)
	assert.Equal(t, "Agenda_Diciembre_2024.xlsx", ReportFilename(january))
}

func TestShouldRunOncePerMonth(t *testing.T) {
	svc := NewService(Config{}, fakeExporter{}, &fakeCleaner{}, nil, zerolog.Nop())

	mid := time.Date(2024, 6, 15, 1, 0, 0, 0, time.Local)
	assert.False(t, svc.shouldRun(mid))

	first := time.Date(2024, 7, 1, 1, 0, 0, 0, time.Local)
	assert.True(t, svc.shouldRun(first))
	assert.False(t, svc.shouldRun(first.Add(time.Hour)))

	nextMonth := time.Date(2024, 8, 1, 1, 0, 0, 0, time.Local)
	assert.True(t, svc.shouldRun(nextMonth))
}
