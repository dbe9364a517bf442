// Package engine orchestrates batch processing: page text extraction,
// boundary detection, the two extraction arms, reconciliation,
// persistence, splitting and index export.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/mfreitas/podex/internal/boundary"
	"github.com/mfreitas/podex/internal/model"
	"github.com/mfreitas/podex/internal/pipeline"
	"github.com/mfreitas/podex/internal/reconcile"
	"github.com/mfreitas/podex/internal/service"
)

// TextExtractor provides per-page plain text for a PDF file.
type TextExtractor interface {
	ExtractPages(path string) ([]model.PageText, error)
}

// Splitter writes one PDF per page range.
type Splitter interface {
	Split(srcPath, outDir string, ranges []model.PageRange, docIDs []string) ([]string, error)
}

// IndexWriter writes the batch index workbook.
type IndexWriter interface {
	WriteIndex(path string, records []model.DocumentRecord) error
}

// Config holds engine settings.
type Config struct {
	ProgressWriter io.Writer
	OutputDir      string
	MaxWorkers     int
	Reconcile      reconcile.Options
	SplitDocuments bool
	WriteIndex     bool
}

// BatchResult summarizes one processed batch.
type BatchResult struct {
	BatchID   string
	IndexPath string
	DocPaths  []string
	Records   []model.DocumentRecord
	Pages     int
	Approved  int
	Rejected  int
}

// Engine runs the full batch flow. The oracle client behind the arms
// is the only shared stateful resource; everything else is pure.
type Engine struct {
	text    TextExtractor
	armA    pipeline.Arm
	armB    pipeline.Arm
	storage service.Storage
	split   Splitter
	index   IndexWriter
	logger  *slog.Logger
	config  Config
}

// New creates a processing engine.
func New(text TextExtractor, armA, armB pipeline.Arm, storage service.Storage, split Splitter, index IndexWriter, config Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = 4
	}
	if config.Reconcile.MinConfidence == 0 {
		config.Reconcile = reconcile.DefaultOptions()
	}
	return &Engine{
		text:    text,
		armA:    armA,
		armB:    armB,
		storage: storage,
		split:   split,
		index:   index,
		logger:  logger,
		config:  config,
	}
}

// ProcessBatch runs the full flow for one batch PDF.
func (e *Engine) ProcessBatch(ctx context.Context, pdfPath string) (*BatchResult, error) {
	start := time.Now()
	batchID := uuid.New().String()

	pages, err := e.text.ExtractPages(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to extract page text: %w", err)
	}

	ranges := boundary.Detect(pages)
	e.logger.Info("boundaries detected",
		"batch_id", batchID,
		"pages", len(pages),
		"documents", len(ranges))

	records, err := e.processRanges(ctx, batchID, pages, ranges)
	if err != nil {
		return nil, err
	}

	if e.storage != nil {
		if err := e.persist(ctx, batchID, pdfPath, len(pages), records); err != nil {
			return nil, err
		}
	}

	result := &BatchResult{
		BatchID: batchID,
		Records: records,
		Pages:   len(pages),
	}
	for _, r := range records {
		if r.FinalStatus == model.StatusOK {
			result.Approved++
		} else {
			result.Rejected++
		}
	}

	if e.config.SplitDocuments && e.split != nil {
		docIDs := make([]string, len(records))
		for i, r := range records {
			docIDs[i] = r.DocID
		}
		paths, err := e.split.Split(pdfPath, filepath.Join(e.config.OutputDir, batchID), ranges, docIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to split batch: %w", err)
		}
		result.DocPaths = paths
	}

	if e.config.WriteIndex && e.index != nil {
		batchDir := filepath.Join(e.config.OutputDir, batchID)
		if err := os.MkdirAll(batchDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create batch directory: %w", err)
		}
		indexPath := filepath.Join(batchDir, "index.xlsx")
		if err := e.index.WriteIndex(indexPath, records); err != nil {
			return nil, fmt.Errorf("failed to write index: %w", err)
		}
		result.IndexPath = indexPath
	}

	e.logger.Info("batch complete",
		"batch_id", batchID,
		"documents", len(records),
		"approved", result.Approved,
		"rejected", result.Rejected,
		"elapsed", time.Since(start))
	return result, nil
}

// processRanges runs both arms and reconciliation for every detected
// sub-document, bounded by the worker pool.
func (e *Engine) processRanges(ctx context.Context, batchID string, pages []model.PageText, ranges []model.PageRange) ([]model.DocumentRecord, error) {
	records := make([]model.DocumentRecord, len(ranges))
	errs := make([]error, len(ranges))

	bar := e.newProgressBar(len(ranges))

	sem := make(chan struct{}, e.config.MaxWorkers)
	var wg sync.WaitGroup

	for i, rng := range ranges {
		wg.Add(1)
		go func(idx int, rng model.PageRange) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				errs[idx] = ctx.Err()
				return
			}

			records[idx] = e.processRange(ctx, batchID, pages, rng)
			if bar != nil {
				_ = bar.Add(1)
			}
		}(i, rng)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("failed to process document %d: %w", i, err)
		}
	}
	return records, nil
}

// processRange runs both arms and reconciles one sub-document.
func (e *Engine) processRange(ctx context.Context, batchID string, pages []model.PageText, rng model.PageRange) model.DocumentRecord {
	docID := uuid.New().String()
	docPages := rng.PagesIn(pages)

	resultA := e.armA.Run(ctx, docPages)
	resultB := e.armB.Run(ctx, docPages)
	outcome := reconcile.Reconcile(resultA, resultB, e.config.Reconcile)

	e.logger.Debug("document reconciled",
		"batch_id", batchID,
		"doc_id", docID,
		"pages", rng.String(),
		"match_status", outcome.MatchStatus,
		"final_status", outcome.FinalStatus)

	return model.NewDocumentRecord(batchID, docID, rng, resultA, resultB, outcome)
}

func (e *Engine) persist(ctx context.Context, batchID, pdfPath string, pageCount int, records []model.DocumentRecord) error {
	batch := &service.Batch{
		ID:         batchID,
		SourcePath: pdfPath,
		Pages:      pageCount,
		Documents:  len(records),
		CreatedAt:  time.Now().UTC(),
	}
	if err := e.storage.SaveBatch(ctx, batch); err != nil {
		return fmt.Errorf("failed to save batch: %w", err)
	}
	if err := e.storage.SaveDocumentRecords(ctx, records); err != nil {
		return fmt.Errorf("failed to save document records: %w", err)
	}
	return nil
}

func (e *Engine) newProgressBar(total int) *progressbar.ProgressBar {
	if e.config.ProgressWriter == nil || total == 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(e.config.ProgressWriter),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Processing documents..."))
}
