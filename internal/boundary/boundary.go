// Package boundary partitions an ordered page-text sequence into
// sub-document page ranges using multilingual first-page heuristics.
package boundary

import (
	"log/slog"
	"regexp"

	"github.com/mfreitas/podex/internal/model"
)

// firstPagePatterns match pagination markers and document-type headers
// that indicate the first page of a document. Portuguese, English,
// German, French and Spanish forms are covered.
var firstPagePatterns = []*regexp.Regexp{
	// "Albarán Página 1XXXXXXX" — page 1 with the albarán number concatenated
	regexp.MustCompile(`(?i)Albar[aá]n\s+P[aá]g(?:ina)?\s*1\d{5,}`),
	// "Página 1 de N", "Pagina 1 de N", "Pág. 1 de N"
	regexp.MustCompile(`(?i)P[aá]g(?:ina)?\.?\s*[:\-]?\s*1\s+de\s+\d+`),
	// "Página 1" standalone — must not be followed by further digits
	regexp.MustCompile(`(?i)P[aá]g(?:ina)?\.?\s*[:\-]?\s*1(?:\s|$|[^0-9])`),
	// "Page 1 of N", "Page 1"
	regexp.MustCompile(`(?i)Page\s+1\s+of\s+\d+`),
	regexp.MustCompile(`(?i)Page\s*[:\-]?\s*1(?:\s|$|[^0-9])`),
	// "Seite 1 von N", "Seite 1"
	regexp.MustCompile(`(?i)Seite\s+1\s+von\s+\d+`),
	regexp.MustCompile(`(?i)Seite\s*[:\-]?\s*1(?:\s|$|[^0-9])`),
	// "1 / N" or "1/N" pagination fraction
	regexp.MustCompile(`(?m)(?:^|\s)1\s*/\s*\d+(?:\s|$)`),
	// "Folha 1 de N"
	regexp.MustCompile(`(?i)Folha\s+1\s+de\s+\d+`),
	// "Feuille 1 / N" or "Feuille 1 sur N"
	regexp.MustCompile(`(?i)Feuille\s+1\s+(?:sur|/)\s*\d+`),
	// "Hoja 1 de N"
	regexp.MustCompile(`(?i)Hoja\s+1\s+de\s+\d+`),
	// "GUIA DE REMESSA" header — each occurrence starts a new document
	regexp.MustCompile(`(?i)GUIA\s+DE\s+REMESSA`),
}

// continuationPatterns match page-2-and-beyond pagination markers.
// A page matching any of these is never treated as a first page, even
// when a first-page pattern also fires on it.
var continuationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Albar[aá]n\s+\d+\s*P[aá]g(?:ina)?\s*[2-9]\d*\s+desde`),
	regexp.MustCompile(`(?i)P[aá]g(?:ina)?\.?\s*[:\-]?\s*[2-9]\d*\s+de\s+\d+`),
	regexp.MustCompile(`(?i)Page\s+[2-9]\d*\s+of\s+\d+`),
}

func isContinuationPage(text string) bool {
	for _, p := range continuationPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

func isFirstPage(text string) bool {
	if isContinuationPage(text) {
		return false
	}
	for _, p := range firstPagePatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// Detect partitions the ordered page sequence into document ranges.
// The result is always an ascending, non-overlapping, contiguous
// partition of 0..N-1. When no page carries a first-page marker the
// whole input is treated as a single document. Pure and idempotent.
func Detect(pages []model.PageText) []model.PageRange {
	if len(pages) == 0 {
		return nil
	}

	var breaks []int
	for _, pt := range pages {
		if isFirstPage(pt.Text) {
			breaks = append(breaks, pt.Page)
		}
	}

	slog.Debug("boundary detection scanned batch",
		"total_pages", len(pages),
		"first_pages_found", len(breaks))

	if len(breaks) == 0 {
		return []model.PageRange{{StartPage: 0, EndPage: len(pages) - 1}}
	}

	// Page 0 always starts a document, marker or not.
	if breaks[0] != 0 {
		breaks = append([]int{0}, breaks...)
	}

	ranges := make([]model.PageRange, 0, len(breaks))
	for i, start := range breaks {
		end := len(pages) - 1
		if i+1 < len(breaks) {
			end = breaks[i+1] - 1
		}
		ranges = append(ranges, model.PageRange{StartPage: start, EndPage: end})
	}

	slog.Debug("boundaries detected", "documents", len(ranges))
	return ranges
}
