package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mfreitas/podex/internal/model"
)

func TestWriteIndex(t *testing.T) {
	records := []model.DocumentRecord{
		{
			BatchID:        "batch-1",
			DocID:          "doc-1",
			PageStart:      0,
			PageEnd:        2,
			PrimaryA:       "50001234",
			ConfidenceA:    0.85,
			MethodA:        model.MethodHybrid,
			PrimaryB:       "50001234",
			ConfidenceB:    0.9,
			MethodB:        model.MethodOracle,
			MatchStatus:    model.MatchOK,
			DecidedPrimary: "50001234",
			FinalStatus:    model.StatusOK,
			NextAction:     model.ActionAutoOK,
		},
		{
			BatchID:      "batch-1",
			DocID:        "doc-2",
			PageStart:    3,
			PageEnd:      3,
			MatchStatus:  model.NeedsReview,
			FinalStatus:  model.StatusNotOK,
			NextAction:   model.ActionSendToReview,
			RejectReason: "both pipelines returned no code",
		},
	}

	path := filepath.Join(t.TempDir(), "index.xlsx")
	exporter := NewExporter(nil)
	require.NoError(t, exporter.WriteIndex(path, records))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per record")

	assert.Equal(t, "batch_id", rows[0][0])
	assert.Equal(t, "reject_reason", rows[0][len(columns)-1])

	assert.Equal(t, "doc-1", rows[1][1])
	assert.Equal(t, "50001234", rows[1][5])
	assert.Equal(t, "OK", rows[1][17])

	assert.Equal(t, "doc-2", rows[2][1])
	assert.Equal(t, "both pipelines returned no code", rows[2][19])
}

func TestWriteIndexEmptyBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.xlsx")
	exporter := NewExporter(nil)
	require.NoError(t, exporter.WriteIndex(path, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
