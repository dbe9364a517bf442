package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/mfreitas/podex/internal/common"
	"github.com/mfreitas/podex/internal/model"
	"github.com/mfreitas/podex/internal/service"
)

// codeSeparator joins code lists for storage. PO codes never contain
// pipes, so the encoding is unambiguous.
const codeSeparator = "|"

func joinCodes(codes []string) string {
	return strings.Join(codes, codeSeparator)
}

func splitCodes(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, codeSeparator)
}

// SaveDocumentRecords persists a slice of document records in one
// transaction. Existing rows with the same doc ID are replaced.
func (s *SQLiteStorage) SaveDocumentRecords(ctx context.Context, records []model.DocumentRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO documents (
			doc_id, batch_id, page_start, page_end,
			supplier_a, primary_a, secondary_a, codes_a, confidence_a, method_a,
			supplier_b, primary_b, secondary_b, codes_b, confidence_b, method_b,
			match_status, decided_primary, decided_secondary, decided_codes,
			final_status, next_action, reject_reason, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		if r.DocID == "" {
			return fmt.Errorf("%w: document record without doc ID", common.ErrInvalidConfig)
		}
		_, err := stmt.ExecContext(ctx,
			r.DocID, r.BatchID, r.PageStart, r.PageEnd,
			r.SupplierA, r.PrimaryA, r.SecondaryA, joinCodes(r.CodesA), r.ConfidenceA, string(r.MethodA),
			r.SupplierB, r.PrimaryB, r.SecondaryB, joinCodes(r.CodesB), r.ConfidenceB, string(r.MethodB),
			string(r.MatchStatus), r.DecidedPrimary, r.DecidedSecondary, joinCodes(r.DecidedCodes),
			string(r.FinalStatus), string(r.NextAction), r.RejectReason, r.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to save document %s: %w", r.DocID, err)
		}
	}
	return tx.Commit()
}

const documentColumns = `
	doc_id, batch_id, page_start, page_end,
	supplier_a, primary_a, secondary_a, codes_a, confidence_a, method_a,
	supplier_b, primary_b, secondary_b, codes_b, confidence_b, method_b,
	match_status, decided_primary, decided_secondary, decided_codes,
	final_status, next_action, reject_reason, created_at`

// GetDocumentRecords returns records matching the filter, ordered by
// page range within each batch.
func (s *SQLiteStorage) GetDocumentRecords(ctx context.Context, filter service.RecordFilter) ([]model.DocumentRecord, error) {
	query := "SELECT" + documentColumns + " FROM documents WHERE 1=1"
	var args []any

	if filter.BatchID != "" {
		query += " AND batch_id = ?"
		args = append(args, filter.BatchID)
	}
	if filter.FinalStatus != "" {
		query += " AND final_status = ?"
		args = append(args, string(filter.FinalStatus))
	}
	query += " ORDER BY batch_id, page_start"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.DocumentRecord
	for rows.Next() {
		r, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// GetRejects returns the records of a batch that did not auto-approve.
func (s *SQLiteStorage) GetRejects(ctx context.Context, batchID string) ([]model.DocumentRecord, error) {
	return s.GetDocumentRecords(ctx, service.RecordFilter{
		BatchID:     batchID,
		FinalStatus: model.StatusNotOK,
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (model.DocumentRecord, error) {
	var (
		r                              model.DocumentRecord
		codesA, codesB, decidedCodes   string
		methodA, methodB               string
		matchStatus, finalStatus, next string
	)
	err := row.Scan(
		&r.DocID, &r.BatchID, &r.PageStart, &r.PageEnd,
		&r.SupplierA, &r.PrimaryA, &r.SecondaryA, &codesA, &r.ConfidenceA, &methodA,
		&r.SupplierB, &r.PrimaryB, &r.SecondaryB, &codesB, &r.ConfidenceB, &methodB,
		&matchStatus, &r.DecidedPrimary, &r.DecidedSecondary, &decidedCodes,
		&finalStatus, &next, &r.RejectReason, &r.CreatedAt)
	if err != nil {
		return model.DocumentRecord{}, fmt.Errorf("failed to scan document: %w", err)
	}
	r.CodesA = splitCodes(codesA)
	r.CodesB = splitCodes(codesB)
	r.DecidedCodes = splitCodes(decidedCodes)
	r.MethodA = model.Method(methodA)
	r.MethodB = model.Method(methodB)
	r.MatchStatus = model.MatchStatus(matchStatus)
	r.FinalStatus = model.FinalStatus(finalStatus)
	r.NextAction = model.NextAction(next)
	return r, nil
}
