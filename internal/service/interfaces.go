// Package service defines the interfaces shared across application services.
package service

import (
	"context"
	"time"

	"github.com/mfreitas/podex/internal/model"
)

// RecordFilter defines filtering options for document record queries.
type RecordFilter struct {
	BatchID     string
	FinalStatus model.FinalStatus
	Limit       int
	Offset      int
}

// Batch describes one processed batch file.
type Batch struct {
	CreatedAt  time.Time
	ID         string
	SourcePath string
	Pages      int
	Documents  int
}

// Storage defines the contract for the persistence layer.
type Storage interface {
	// Batch operations
	SaveBatch(ctx context.Context, batch *Batch) error
	GetBatch(ctx context.Context, id string) (*Batch, error)
	ListBatches(ctx context.Context) ([]Batch, error)

	// Document record operations
	SaveDocumentRecords(ctx context.Context, records []model.DocumentRecord) error
	GetDocumentRecords(ctx context.Context, filter RecordFilter) ([]model.DocumentRecord, error)
	GetRejects(ctx context.Context, batchID string) ([]model.DocumentRecord, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for oracle calls.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
