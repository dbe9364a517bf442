// Package normalize provides comparison-only transforms for extracted
// order-reference codes. Normalized and canonical forms are never used
// for display; callers keep the original formatting for that.
package normalize

import "strings"

// Code strips every non-digit character from a raw code. It returns
// the empty string when the input is empty or contains no digits.
func Code(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Canonical produces the equivalence-comparison form of an already
// normalized code. With allowLeadingZero, leading zeros are stripped;
// an all-zero code canonicalizes to "0", never to the empty string.
func Canonical(normalized string, allowLeadingZero bool) string {
	if normalized == "" {
		return ""
	}
	if !allowLeadingZero {
		return normalized
	}
	stripped := strings.TrimLeft(normalized, "0")
	if stripped == "" {
		return "0"
	}
	return stripped
}

// Equivalent reports whether two raw codes denote the same value after
// normalization and canonicalization. Two values that both normalize
// to nothing are defined as equivalent; exactly one empty side is not.
func Equivalent(a, b string, allowLeadingZero bool) bool {
	na, nb := Code(a), Code(b)
	if na == "" && nb == "" {
		return true
	}
	if na == "" || nb == "" {
		return false
	}
	return Canonical(na, allowLeadingZero) == Canonical(nb, allowLeadingZero)
}
