package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"leafscan/internal/domain/entity"
	"leafscan/internal/infrastructure/storage"
)

func TestDatasetService_Analyze(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, storage.DatasetFileName), []byte("id,severity\n1,0\n2,2\n"), 0o644))

	svc := NewDatasetService(storage.NewCSVDatasetLoader(dir), zaptest.NewLogger(t))
	table, summary, err := svc.Analyze(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	require.Equal(t, 2, summary.Total)
	require.Equal(t, 50.0, summary.HealthyPct)
}

func TestDatasetService_MissingFile(t *testing.T) {
	svc := NewDatasetService(storage.NewCSVDatasetLoader(t.TempDir()), zaptest.NewLogger(t))
	_, _, err := svc.Analyze(context.Background())
	require.ErrorIs(t, err, entity.ErrFileNotFound)
}

func TestDatasetService_EmptyTable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, storage.DatasetFileName), []byte("id,severity\n"), 0o644))

	svc := NewDatasetService(storage.NewCSVDatasetLoader(dir), zaptest.NewLogger(t))
	table, _, err := svc.Analyze(context.Background())
	require.ErrorIs(t, err, entity.ErrEmptyDataset)
	require.NotNil(t, table)
}
