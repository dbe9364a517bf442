package extract

import "regexp"

// Code shape rules, in precedence order. A candidate digit run must
// not be preceded or followed by another digit; a maximal digit run
// satisfies that by construction, so each rule is anchored against the
// whole run. A plain word boundary would be wrong here: digits glued
// to letters ("53681855Numéro") still count as bounded.
var shapeRules = []struct {
	re   *regexp.Regexp
	name string
}{
	{regexp.MustCompile(`^5[0-9]{7}$`), "5XXXXXXX"},
	{regexp.MustCompile(`^8[0-9]{7}$`), "8XXXXXXX"},
	{regexp.MustCompile(`^2[0-9]{7}$`), "2XXXXXXX"},
	{regexp.MustCompile(`^0[0-9]{7}$`), "0XXXXXXX"},
	{regexp.MustCompile(`^4[0-9]{3,7}$`), "4XXX-4XXXXXXX"},
	{regexp.MustCompile(`^2[0-9]{4,5}$`), "2XXXX-2XXXXX"},
}

var digitRun = regexp.MustCompile(`[0-9]+`)

// negativeContext lists labels that introduce numbers which are never
// order codes: client/customer ids, tax and bank identifiers, GLN,
// company-registry codes. Each pattern is matched against the end of
// the trimmed 40-character prefix before a candidate.
var negativeContext = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Cliente[:\s]*$`),
	regexp.MustCompile(`(?i)Client[:\s]*$`),
	regexp.MustCompile(`(?i)Customer[:\s]*$`),
	regexp.MustCompile(`(?i)Kunden(?:nummer)?[:\s]*$`),
	regexp.MustCompile(`(?i)GLN[:\s]*$`),
	regexp.MustCompile(`(?i)N[°º]?\s*GLN[:\s]*$`),
	regexp.MustCompile(`(?i)NIF[:\s]*$`),
	regexp.MustCompile(`(?i)IBAN\s`),
	regexp.MustCompile(`(?i)SWIFT[:\s]*$`),
	regexp.MustCompile(`(?i)Cuenta[:\s]*$`),
	regexp.MustCompile(`(?i)C[oó]digo\s+banc[aá]rio[:\s]*$`),
	regexp.MustCompile(`(?i)HRB\s*$`),
	regexp.MustCompile(`(?i)VAT\s+number[:\s]*$`),
	regexp.MustCompile(`(?i)Albar[aá]n\s+P[aá]g(?:ina)?\s*$`),
}

const negativeLookback = 40

// isNegativeContext reports whether the text immediately preceding a
// candidate ends with a non-code label.
func isNegativeContext(text string, matchStart int) bool {
	from := matchStart - negativeLookback
	if from < 0 {
		from = 0
	}
	prefix := trimTrailingSpace(text[from:matchStart])
	for _, p := range negativeContext {
		if p.MatchString(prefix) {
			return true
		}
	}
	return false
}

func trimTrailingSpace(s string) string {
	end := len(s)
	for end > 0 {
		switch s[end-1] {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			end--
		default:
			return s[:end]
		}
	}
	return s[:end]
}

// maxCodes caps how many distinct codes one extraction keeps.
const maxCodes = 2

// matchCodes finds valid code values in the text: shape rules applied
// in precedence order over maximal digit runs, negative-context
// candidates discarded, duplicates collapsed, at most maxCodes kept.
func matchCodes(text string) []string {
	runs := digitRun.FindAllStringIndex(text, -1)

	var candidates []string
	seen := make(map[string]bool)

	for _, rule := range shapeRules {
		for _, loc := range runs {
			value := text[loc[0]:loc[1]]
			if !rule.re.MatchString(value) {
				continue
			}
			if seen[value] {
				continue
			}
			if isNegativeContext(text, loc[0]) {
				continue
			}
			seen[value] = true
			candidates = append(candidates, value)
		}
	}

	if len(candidates) > maxCodes {
		candidates = candidates[:maxCodes]
	}
	return candidates
}
