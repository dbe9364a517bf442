package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// Migration represents a single schema change.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

// migrations holds every schema change in order.
var migrations = []Migration{
	{
		Version:     1,
		Description: "Create batches table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS batches (
					id TEXT PRIMARY KEY,
					source_path TEXT NOT NULL,
					pages INTEGER NOT NULL DEFAULT 0,
					documents INTEGER NOT NULL DEFAULT 0,
					created_at TIMESTAMP NOT NULL
				)`)
			return err
		},
	},
	{
		Version:     2,
		Description: "Create documents table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS documents (
					doc_id TEXT PRIMARY KEY,
					batch_id TEXT NOT NULL REFERENCES batches(id),
					page_start INTEGER NOT NULL,
					page_end INTEGER NOT NULL,
					supplier_a TEXT NOT NULL DEFAULT '',
					primary_a TEXT NOT NULL DEFAULT '',
					secondary_a TEXT NOT NULL DEFAULT '',
					codes_a TEXT NOT NULL DEFAULT '',
					confidence_a REAL NOT NULL DEFAULT 0,
					method_a TEXT NOT NULL DEFAULT '',
					supplier_b TEXT NOT NULL DEFAULT '',
					primary_b TEXT NOT NULL DEFAULT '',
					secondary_b TEXT NOT NULL DEFAULT '',
					codes_b TEXT NOT NULL DEFAULT '',
					confidence_b REAL NOT NULL DEFAULT 0,
					method_b TEXT NOT NULL DEFAULT '',
					match_status TEXT NOT NULL DEFAULT '',
					decided_primary TEXT NOT NULL DEFAULT '',
					decided_secondary TEXT NOT NULL DEFAULT '',
					decided_codes TEXT NOT NULL DEFAULT '',
					final_status TEXT NOT NULL DEFAULT '',
					next_action TEXT NOT NULL DEFAULT '',
					reject_reason TEXT NOT NULL DEFAULT '',
					created_at TIMESTAMP NOT NULL
				)`)
			return err
		},
	},
	{
		Version:     3,
		Description: "Add indexes for document lookups",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE INDEX IF NOT EXISTS idx_documents_batch ON documents(batch_id);
				CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(final_status)`)
			return err
		},
	},
}

// Migrate runs all pending migrations inside transactions.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var current int
	err = s.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := s.applyMigration(ctx, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
	}
	return nil
}

func (s *SQLiteStorage) applyMigration(ctx context.Context, m Migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := m.Up(tx); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.Version); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return tx.Commit()
}
