package extract

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/mfreitas/podex/internal/model"
)

const (
	// contextRunes is how far the code search window reaches on each
	// side of a keyword occurrence.
	contextRunes = 200
	// nearbyLines is how many lines following the window start are
	// scanned in addition to the character window.
	nearbyLines = 5
	// snippetRunes caps the evidence snippet length.
	snippetRunes = 150

	// Confidence tiers. These are the only values this extractor emits.
	confidenceKeywordMatch = 0.85
	confidenceBareCode     = 0.5
)

// pageExtraction is the per-page intermediate result.
type pageExtraction struct {
	codes    []string
	keywords []string
	evidence []model.Evidence
}

// extractNearKeywords finds codes tied to keyword occurrences on one
// page. For each occurrence a window of ±contextRunes around the
// keyword plus the next nearbyLines lines is scanned; the first
// maxCodes globally-unique values are kept, with an evidence snippet
// recorded on first sighting of each value.
func extractNearKeywords(text string, page int) pageExtraction {
	hits := findKeywords(text)
	if len(hits) == 0 {
		return pageExtraction{}
	}

	runes := []rune(text)
	var out pageExtraction
	seenCodes := make(map[string]bool)
	seenKeywords := make(map[string]bool)

	for _, hit := range hits {
		if !seenKeywords[hit.keyword] {
			seenKeywords[hit.keyword] = true
			out.keywords = append(out.keywords, hit.keyword)
		}

		// Keyword positions come from the normalized text, so the
		// window is anchored approximately in the original; the wide
		// margins absorb the drift.
		pos := hit.pos
		if pos > len(runes) {
			pos = len(runes)
		}
		winStart := pos - contextRunes
		if winStart < 0 {
			winStart = 0
		}
		winEnd := pos + utf8.RuneCountInString(hit.keyword) + contextRunes
		if winEnd > len(runes) {
			winEnd = len(runes)
		}
		window := string(runes[winStart:winEnd])

		lines := strings.Split(string(runes[winStart:]), "\n")
		if len(lines) > nearbyLines {
			lines = lines[:nearbyLines]
		}
		nearText := strings.Join(lines, "\n")

		for _, code := range matchCodes(window + " " + nearText) {
			if seenCodes[code] {
				continue
			}
			seenCodes[code] = true
			out.codes = append(out.codes, code)
			out.evidence = append(out.evidence, model.Evidence{
				Page:    page,
				Snippet: strings.TrimSpace(truncateRunes(nearText, snippetRunes)),
			})
		}
	}

	if len(out.codes) > maxCodes {
		out.codes = out.codes[:maxCodes]
	}
	return out
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// Extract runs keyword+pattern extraction across the pages of one
// sub-document and folds the per-page findings into a single result
// tagged MethodPattern. Pure; safe for concurrent use.
func Extract(pages []model.PageText) model.ExtractionResult {
	var codes, keywords []string
	var evidence []model.Evidence
	seenCodes := make(map[string]bool)
	seenKeywords := make(map[string]bool)

	for _, pt := range pages {
		pe := extractNearKeywords(pt.Text, pt.Page)
		for _, code := range pe.codes {
			if !seenCodes[code] {
				seenCodes[code] = true
				codes = append(codes, code)
			}
		}
		for _, kw := range pe.keywords {
			if !seenKeywords[kw] {
				seenKeywords[kw] = true
				keywords = append(keywords, kw)
			}
		}
		evidence = append(evidence, pe.evidence...)
	}

	if len(codes) > maxCodes {
		codes = codes[:maxCodes]
	}

	var confidence float64
	switch {
	case len(codes) >= 1 && len(keywords) >= 1:
		confidence = confidenceKeywordMatch
	case len(codes) >= 1:
		confidence = confidenceBareCode
	default:
		confidence = 0.0
	}

	result := model.ExtractionResult{
		Codes:           codes,
		Method:          model.MethodPattern,
		MatchedKeywords: keywords,
		Evidence:        evidence,
		Confidence:      confidence,
	}
	if len(codes) >= 1 {
		result.Primary = codes[0]
	}
	if len(codes) >= 2 {
		result.Secondary = codes[1]
	}

	slog.Debug("pattern extraction complete",
		"codes", len(codes),
		"keywords", len(keywords),
		"confidence", confidence)
	return result
}
