// Package oracle implements the external inference collaborator used
// by the extraction pipelines: a black-box text-understanding service
// invoked with one of two fixed natural-language policies.
package oracle

import (
	"context"
	"fmt"
	"strings"

	"github.com/mfreitas/podex/internal/model"
)

// Policy selects which extraction behavior the oracle is asked for.
type Policy string

// Oracle policy constants.
const (
	// PolicyFlexible accepts codes anywhere plausibly associated with a
	// keyword, with graded confidence bands.
	PolicyFlexible Policy = "flexible"
	// PolicyConservative accepts only codes immediately adjacent to a
	// keyword and returns null with low confidence for ambiguous cases.
	PolicyConservative Policy = "conservative"
)

// MaxDocumentChars caps the text sent to the oracle in one call.
const MaxDocumentChars = 60000

// truncationMarker is appended when the document text is cut.
const truncationMarker = "\n\n[... text truncated ...]"

// Request is one oracle invocation.
type Request struct {
	Policy       Policy
	DocumentText string
}

// Response is the oracle's structured answer. On exhausted retries the
// contract guarantees this shape with all fields empty and confidence
// zero, never an error.
type Response struct {
	Primary         string           `json:"po_primary"`
	Secondary       string           `json:"po_secondary"`
	Supplier        string           `json:"supplier"`
	Codes           []string         `json:"po_numbers"`
	MatchedKeywords []string         `json:"found_keywords"`
	Evidence        []model.Evidence `json:"evidence"`
	Confidence      float64          `json:"confidence"`
}

// Result converts the response into an extraction result with the
// given method tag.
func (r Response) Result(method model.Method) model.ExtractionResult {
	return model.ExtractionResult{
		Primary:         r.Primary,
		Secondary:       r.Secondary,
		Supplier:        r.Supplier,
		Codes:           r.Codes,
		MatchedKeywords: r.MatchedKeywords,
		Evidence:        r.Evidence,
		Confidence:      r.Confidence,
		Method:          method,
	}
}

// EmptyResponse is the degraded zero-confidence shape.
func EmptyResponse() Response {
	return Response{
		Codes:           []string{},
		MatchedKeywords: []string{},
		Evidence:        []model.Evidence{},
	}
}

// Client defines the interface for oracle providers.
type Client interface {
	Extract(ctx context.Context, req Request) (Response, error)
}

// BuildDocumentText joins per-page text with page markers and applies
// the contract's truncation limit.
func BuildDocumentText(pages []model.PageText) string {
	parts := make([]string, len(pages))
	for i, pt := range pages {
		parts[i] = fmt.Sprintf("--- PAGE %d ---\n%s", pt.Page, pt.Text)
	}
	text := strings.Join(parts, "\n\n")

	if len(text) > MaxDocumentChars {
		text = text[:MaxDocumentChars] + truncationMarker
	}
	return text
}
