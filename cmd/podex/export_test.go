package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mfreitas/podex/internal/model"
	"github.com/mfreitas/podex/internal/service"
	"github.com/mfreitas/podex/internal/storage"
)

func seedExportBatch(t *testing.T) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "podex.db")
	viper.Set("database.path", dbPath)
	t.Cleanup(func() { viper.Set("database.path", "") })

	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.SaveBatch(ctx, &service.Batch{
		ID:         "batch-1",
		SourcePath: "/data/scan.pdf",
		Pages:      3,
		Documents:  2,
		CreatedAt:  time.Now().UTC(),
	}))
	require.NoError(t, store.SaveDocumentRecords(ctx, []model.DocumentRecord{
		{
			CreatedAt:      time.Now().UTC(),
			BatchID:        "batch-1",
			DocID:          "doc-ok",
			PageStart:      0,
			PageEnd:        1,
			DecidedPrimary: "50001234",
			MatchStatus:    model.MatchOK,
			FinalStatus:    model.StatusOK,
			NextAction:     model.ActionAutoOK,
		},
		{
			CreatedAt:    time.Now().UTC(),
			BatchID:      "batch-1",
			DocID:        "doc-reject",
			PageStart:    2,
			PageEnd:      2,
			MatchStatus:  model.NeedsReview,
			FinalStatus:  model.StatusNotOK,
			NextAction:   model.ActionSendToReview,
			RejectReason: "both pipelines returned no code",
		},
	}))

	return dbPath
}

func readIndexRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Document Index")
	require.NoError(t, err)
	return rows
}

func TestExportCmdAllRecords(t *testing.T) {
	seedExportBatch(t)
	outPath := filepath.Join(t.TempDir(), "index.xlsx")

	cmd := exportCmd()
	cmd.SetArgs([]string{"batch-1", "--out", outPath})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	rows := readIndexRows(t, outPath)
	require.Len(t, rows, 3, "header plus both records")
	assert.Equal(t, "doc-ok", rows[1][1])
	assert.Equal(t, "doc-reject", rows[2][1])
}

func TestExportCmdRejectsOnly(t *testing.T) {
	seedExportBatch(t)
	outPath := filepath.Join(t.TempDir(), "rejects.xlsx")

	cmd := exportCmd()
	cmd.SetArgs([]string{"batch-1", "--out", outPath, "--rejects-only"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	rows := readIndexRows(t, outPath)
	require.Len(t, rows, 2, "header plus the reject only")
	assert.Equal(t, "doc-reject", rows[1][1])
	assert.Equal(t, "NOT_OK", rows[1][17])
}

func TestExportCmdUnknownBatch(t *testing.T) {
	seedExportBatch(t)

	cmd := exportCmd()
	cmd.SetArgs([]string{"missing", "--out", filepath.Join(t.TempDir(), "index.xlsx")})
	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown batch")
}
