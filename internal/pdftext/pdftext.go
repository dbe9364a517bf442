// Package pdftext extracts per-page plain text from PDF files.
package pdftext

import (
	"fmt"
	"log/slog"

	"github.com/ledongthuc/pdf"

	"github.com/mfreitas/podex/internal/model"
)

// Extractor reads page text out of PDF files.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates a PDF text extractor.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// ExtractPages reads every page of the PDF at path and returns its
// plain text in order. Pages whose text cannot be decoded come back
// empty rather than failing the whole batch; downstream treats them as
// continuation pages.
func (e *Extractor) ExtractPages(path string) ([]model.PageText, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	total := reader.NumPage()
	pages := make([]model.PageText, 0, total)

	for num := 1; num <= total; num++ {
		text, err := e.pageText(reader, num)
		if err != nil {
			e.logger.Warn("failed to extract page text",
				"path", path,
				"page", num,
				"error", err)
			text = ""
		}
		pages = append(pages, model.PageText{Page: num - 1, Text: text})
	}

	return pages, nil
}

// pageText extracts one page's text, recovering from parser panics.
// ledongthuc/pdf panics on some malformed content streams.
func (e *Extractor) pageText(reader *pdf.Reader, num int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("page parser panic: %v", r)
		}
	}()

	page := reader.Page(num)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d is null", num)
	}
	return page.GetPlainText(nil)
}
