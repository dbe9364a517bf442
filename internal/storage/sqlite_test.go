package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreitas/podex/internal/common"
	"github.com/mfreitas/podex/internal/model"
	"github.com/mfreitas/podex/internal/service"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "podex.db")
	s, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testBatch(id string) *service.Batch {
	return &service.Batch{
		ID:         id,
		SourcePath: "/data/inbox/scan.pdf",
		Pages:      12,
		Documents:  3,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
}

func testRecord(batchID, docID string, start, end int, status model.FinalStatus) model.DocumentRecord {
	return model.DocumentRecord{
		CreatedAt:      time.Now().UTC().Truncate(time.Second),
		BatchID:        batchID,
		DocID:          docID,
		PageStart:      start,
		PageEnd:        end,
		PrimaryA:       "50001234",
		CodesA:         []string{"50001234"},
		ConfidenceA:    0.85,
		MethodA:        model.MethodPattern,
		PrimaryB:       "50001234",
		CodesB:         []string{"50001234"},
		ConfidenceB:    0.9,
		MethodB:        model.MethodOracle,
		MatchStatus:    model.MatchOK,
		DecidedPrimary: "50001234",
		DecidedCodes:   []string{"50001234"},
		FinalStatus:    status,
		NextAction:     model.ActionAutoOK,
	}
}

func TestSQLiteStorageBatchRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	batch := testBatch("batch-1")
	require.NoError(t, s.SaveBatch(ctx, batch))

	got, err := s.GetBatch(ctx, "batch-1")
	require.NoError(t, err)
	assert.Equal(t, batch.SourcePath, got.SourcePath)
	assert.Equal(t, batch.Pages, got.Pages)
	assert.Equal(t, batch.Documents, got.Documents)
}

func TestSQLiteStorageGetBatchNotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.GetBatch(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteStorageSaveBatchUpsert(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	batch := testBatch("batch-1")
	require.NoError(t, s.SaveBatch(ctx, batch))

	batch.Documents = 5
	require.NoError(t, s.SaveBatch(ctx, batch))

	got, err := s.GetBatch(ctx, "batch-1")
	require.NoError(t, err)
	assert.Equal(t, 5, got.Documents)
}

func TestSQLiteStorageListBatches(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	older := testBatch("batch-old")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, s.SaveBatch(ctx, older))
	require.NoError(t, s.SaveBatch(ctx, testBatch("batch-new")))

	batches, err := s.ListBatches(ctx)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, "batch-new", batches[0].ID)
}

func TestSQLiteStorageDocumentRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveBatch(ctx, testBatch("batch-1")))

	record := testRecord("batch-1", "doc-1", 0, 2, model.StatusOK)
	record.DecidedCodes = []string{"50001234", "80005678"}
	require.NoError(t, s.SaveDocumentRecords(ctx, []model.DocumentRecord{record}))

	records, err := s.GetDocumentRecords(ctx, service.RecordFilter{BatchID: "batch-1"})
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.Equal(t, "doc-1", got.DocID)
	assert.Equal(t, 0, got.PageStart)
	assert.Equal(t, 2, got.PageEnd)
	assert.Equal(t, model.MethodPattern, got.MethodA)
	assert.Equal(t, model.MethodOracle, got.MethodB)
	assert.Equal(t, []string{"50001234", "80005678"}, got.DecidedCodes)
	assert.Equal(t, model.MatchOK, got.MatchStatus)
	assert.InDelta(t, 0.85, got.ConfidenceA, 0.001)
}

func TestSQLiteStorageEmptyCodeListsStayNil(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	record := testRecord("batch-1", "doc-1", 0, 0, model.StatusNotOK)
	record.CodesA = nil
	record.CodesB = nil
	record.DecidedCodes = nil
	require.NoError(t, s.SaveDocumentRecords(ctx, []model.DocumentRecord{record}))

	records, err := s.GetDocumentRecords(ctx, service.RecordFilter{BatchID: "batch-1"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].CodesA)
	assert.Nil(t, records[0].DecidedCodes)
}

func TestSQLiteStorageGetRejects(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	records := []model.DocumentRecord{
		testRecord("batch-1", "doc-ok", 0, 1, model.StatusOK),
		testRecord("batch-1", "doc-reject", 2, 3, model.StatusNotOK),
		testRecord("batch-2", "doc-other", 0, 0, model.StatusNotOK),
	}
	require.NoError(t, s.SaveDocumentRecords(ctx, records))

	rejects, err := s.GetRejects(ctx, "batch-1")
	require.NoError(t, err)
	require.Len(t, rejects, 1)
	assert.Equal(t, "doc-reject", rejects[0].DocID)
}

func TestSQLiteStorageRecordFilterOrdering(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	records := []model.DocumentRecord{
		testRecord("batch-1", "doc-b", 5, 7, model.StatusOK),
		testRecord("batch-1", "doc-a", 0, 4, model.StatusOK),
	}
	require.NoError(t, s.SaveDocumentRecords(ctx, records))

	got, err := s.GetDocumentRecords(ctx, service.RecordFilter{BatchID: "batch-1"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "doc-a", got[0].DocID)
	assert.Equal(t, "doc-b", got[1].DocID)
}

func TestSQLiteStorageMigrateIdempotent(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, s.Migrate(context.Background()))
}
