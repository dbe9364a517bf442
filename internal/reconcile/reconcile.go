// Package reconcile compares the two extraction arms' results for one
// sub-document and decides a single outcome, escalating ambiguity to
// human review instead of failing.
package reconcile

import (
	"fmt"

	"github.com/mfreitas/podex/internal/model"
	"github.com/mfreitas/podex/internal/normalize"
)

// Options tune the reconciliation decision.
type Options struct {
	MinConfidence    float64
	AllowLeadingZero bool
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{MinConfidence: 0.6, AllowLeadingZero: true}
}

// Reconcile decides a final outcome from the two arms' results. It is
// a pure function: identical inputs always produce identical outcomes.
func Reconcile(a, b model.ExtractionResult, opts Options) model.ReconciliationOutcome {
	if opts.MinConfidence == 0 {
		opts.MinConfidence = DefaultOptions().MinConfidence
	}

	aSet := candidateSet(a)
	bSet := candidateSet(b)
	lowConfidence := a.Confidence < opts.MinConfidence && b.Confidence < opts.MinConfidence

	// Rule 3: neither arm found anything.
	if len(aSet) == 0 && len(bSet) == 0 {
		return model.ReconciliationOutcome{
			MatchStatus:  model.NeedsReview,
			FinalStatus:  model.StatusNotOK,
			NextAction:   model.ActionSendToReview,
			RejectReason: "both pipelines returned no code",
		}
	}

	// Rule 4: exactly one arm found codes. Always review; the reason
	// distinguishes whether its confidence would have sufficed.
	if len(aSet) == 0 || len(bSet) == 0 {
		source := a
		if len(aSet) == 0 {
			source = b
		}
		reason := "only one pipeline found a code"
		if source.Confidence < opts.MinConfidence {
			reason = "only one pipeline found a code, with low confidence"
		}
		return model.ReconciliationOutcome{
			MatchStatus:      model.NeedsReview,
			DecidedPrimary:   source.Primary,
			DecidedSecondary: source.Secondary,
			DecidedCodes:     source.CodesOrScalars(),
			FinalStatus:      model.StatusNotOK,
			NextAction:       model.ActionSendToReview,
			RejectReason:     reason,
		}
	}

	// Rule 5: both arms found codes.
	setsEqual := setsEquivalent(aSet, bSet, opts.AllowLeadingZero) &&
		setsEquivalent(bSet, aSet, opts.AllowLeadingZero)
	intersects := setsIntersect(aSet, bSet, opts.AllowLeadingZero)

	switch {
	case setsEqual && lowConfidence:
		return model.ReconciliationOutcome{
			MatchStatus:      model.NeedsReview,
			DecidedPrimary:   a.Primary,
			DecidedSecondary: firstNonEmpty(a.Secondary, b.Secondary),
			DecidedCodes:     unionByNormalized(a.Codes, b.Codes),
			FinalStatus:      model.StatusNotOK,
			NextAction:       model.ActionSendToReview,
			RejectReason:     "codes match but both pipelines have low confidence",
		}

	case setsEqual:
		decided := distinctByNormalized(a.Primary, b.Primary, a.Secondary, b.Secondary)
		codes := unionByNormalized(a.Codes, b.Codes)
		if len(codes) == 0 {
			codes = decided
		}
		outcome := model.ReconciliationOutcome{
			MatchStatus:  model.MatchOK,
			DecidedCodes: codes,
			FinalStatus:  model.StatusOK,
			NextAction:   model.ActionAutoOK,
		}
		if len(decided) >= 1 {
			outcome.DecidedPrimary = decided[0]
		}
		if len(decided) >= 2 {
			outcome.DecidedSecondary = decided[1]
		}
		return outcome

	case intersects:
		primary := firstNonEmpty(a.Primary, b.Primary)
		secondary := firstNonEmpty(a.Secondary, b.Secondary)
		codes := unionByNormalized(a.Codes, b.Codes)
		if len(codes) == 0 {
			codes = nonEmpty(primary, secondary)
		}
		return model.ReconciliationOutcome{
			MatchStatus:      model.NeedsReview,
			DecidedPrimary:   primary,
			DecidedSecondary: secondary,
			DecidedCodes:     codes,
			FinalStatus:      model.StatusNotOK,
			NextAction:       model.ActionSendToReview,
			RejectReason:     "partial match: pipelines agree on some codes but not all",
		}

	default:
		return model.ReconciliationOutcome{
			MatchStatus:  model.Mismatch,
			FinalStatus:  model.StatusNotOK,
			NextAction:   model.ActionSendToReview,
			RejectReason: fmt.Sprintf("pipeline A=%q, pipeline B=%q: no match", a.Primary, b.Primary),
		}
	}
}

// candidateSet builds one side's normalized candidate values: the full
// code list when present, otherwise the primary/secondary scalars.
// Duplicates (by normalized value) are collapsed, order preserved.
func candidateSet(r model.ExtractionResult) []string {
	source := r.Codes
	if len(source) == 0 {
		source = nonEmpty(r.Primary, r.Secondary)
	}
	var out []string
	seen := make(map[string]bool)
	for _, raw := range source {
		n := normalize.Code(raw)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// setsEquivalent reports whether every value in from has an equivalent
// in to. Called both ways for full bidirectional equality, because
// leading-zero equivalence can map many values onto one.
func setsEquivalent(from, to []string, allowLeadingZero bool) bool {
	for _, v := range from {
		if !hasEquivalent(to, v, allowLeadingZero) {
			return false
		}
	}
	return true
}

func setsIntersect(a, b []string, allowLeadingZero bool) bool {
	for _, v := range a {
		if hasEquivalent(b, v, allowLeadingZero) {
			return true
		}
	}
	return false
}

func hasEquivalent(set []string, value string, allowLeadingZero bool) bool {
	for _, candidate := range set {
		if normalize.Equivalent(candidate, value, allowLeadingZero) {
			return true
		}
	}
	return false
}

// distinctByNormalized scans the values in order and keeps the first
// occurrence of each distinct normalized value, preserving original
// formatting.
func distinctByNormalized(values ...string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, v := range values {
		if v == "" {
			continue
		}
		n := normalize.Code(v)
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, v)
	}
	return out
}

// unionByNormalized concatenates both raw code lists (a first) and
// drops later entries whose normalized value was already seen.
func unionByNormalized(a, b []string) []string {
	return distinctByNormalized(append(append([]string{}, a...), b...)...)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
