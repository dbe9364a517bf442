// Package storage persists batches and reconciled document records in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mfreitas/podex/internal/common"
	"github.com/mfreitas/podex/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements the service.Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: database path is required", common.ErrInvalidConfig)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// SaveBatch inserts or updates a batch row.
func (s *SQLiteStorage) SaveBatch(ctx context.Context, batch *service.Batch) error {
	if batch == nil || batch.ID == "" {
		return fmt.Errorf("%w: batch with ID is required", common.ErrInvalidConfig)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO batches (id, source_path, pages, documents, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_path = excluded.source_path,
			pages = excluded.pages,
			documents = excluded.documents`,
		batch.ID, batch.SourcePath, batch.Pages, batch.Documents, batch.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save batch: %w", err)
	}
	return nil
}

// GetBatch returns one batch by ID.
func (s *SQLiteStorage) GetBatch(ctx context.Context, id string) (*service.Batch, error) {
	var batch service.Batch
	err := s.db.QueryRowContext(ctx, `
		SELECT id, source_path, pages, documents, created_at
		FROM batches WHERE id = ?`, id).
		Scan(&batch.ID, &batch.SourcePath, &batch.Pages, &batch.Documents, &batch.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("batch %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}
	return &batch, nil
}

// ListBatches returns all batches, most recent first.
func (s *SQLiteStorage) ListBatches(ctx context.Context) ([]service.Batch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_path, pages, documents, created_at
		FROM batches ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var batches []service.Batch
	for rows.Next() {
		var b service.Batch
		if err := rows.Scan(&b.ID, &b.SourcePath, &b.Pages, &b.Documents, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}
