// Package split writes per-document PDFs out of a batch file using the
// detected page ranges.
package split

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfcpumodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/mfreitas/podex/internal/model"
)

// Splitter cuts a batch PDF into one file per sub-document.
type Splitter struct {
	conf   *pdfcpumodel.Configuration
	logger *slog.Logger
}

// NewSplitter creates a splitter with relaxed validation, matching the
// tolerance of the text extraction side.
func NewSplitter(logger *slog.Logger) *Splitter {
	if logger == nil {
		logger = slog.Default()
	}
	conf := pdfcpumodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfcpumodel.ValidationRelaxed
	return &Splitter{conf: conf, logger: logger}
}

// PageCount returns the number of pages in the PDF at path.
func (s *Splitter) PageCount(path string) (int, error) {
	count, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages in %s: %w", path, err)
	}
	return count, nil
}

// Split writes one PDF per range into outDir, named by document ID.
// Returns the written file paths in range order.
func (s *Splitter) Split(srcPath, outDir string, ranges []model.PageRange, docIDs []string) ([]string, error) {
	if len(ranges) != len(docIDs) {
		return nil, fmt.Errorf("ranges and document IDs must align: %d vs %d", len(ranges), len(docIDs))
	}
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	total, err := s.PageCount(srcPath)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(ranges))
	for i, rng := range ranges {
		outPath := filepath.Join(outDir, docIDs[i]+".pdf")
		if err := s.extractRange(srcPath, outPath, rng, total); err != nil {
			return nil, fmt.Errorf("failed to split document %s: %w", docIDs[i], err)
		}
		paths = append(paths, outPath)
	}

	s.logger.Info("batch split complete",
		"source", srcPath,
		"documents", len(paths))
	return paths, nil
}

// extractRange trims a copy of the source down to one page range.
// Ranges are 0-based internally; pdfcpu selections are 1-based.
func (s *Splitter) extractRange(srcPath, outPath string, rng model.PageRange, totalPages int) error {
	if err := rng.Validate(); err != nil {
		return err
	}

	start := rng.StartPage + 1
	end := rng.EndPage + 1
	if end > totalPages {
		end = totalPages
	}
	if start > end {
		return fmt.Errorf("range starts past end of document: page %d of %d", start, totalPages)
	}

	selection := []string{fmt.Sprintf("%d-%d", start, end)}
	if err := api.TrimFile(srcPath, outPath, selection, s.conf); err != nil {
		return fmt.Errorf("failed to trim pages %d-%d: %w", start, end, err)
	}
	return nil
}
