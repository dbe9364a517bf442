package model

// Method indicates which strategy produced an extraction result.
type Method string

// Extraction method constants.
const (
	MethodPattern Method = "PATTERN"
	MethodOracle  Method = "ORACLE"
	MethodHybrid  Method = "HYBRID"
)

// Evidence is a snippet of page text supporting an extracted code.
type Evidence struct {
	Snippet string
	Page    int
}

// ExtractionResult is the outcome of running one extraction strategy
// over one sub-document. Empty strings stand for absent values.
type ExtractionResult struct {
	Primary         string
	Secondary       string
	Supplier        string
	Method          Method
	Codes           []string
	MatchedKeywords []string
	Evidence        []Evidence
	Confidence      float64
}

// HasCodes reports whether the result carries at least one code,
// either in the full code list or in the primary/secondary slots.
func (r ExtractionResult) HasCodes() bool {
	return len(r.Codes) > 0 || r.Primary != "" || r.Secondary != ""
}

// CodesOrScalars returns the full code list when populated, otherwise
// the non-empty primary/secondary values in order.
func (r ExtractionResult) CodesOrScalars() []string {
	if len(r.Codes) > 0 {
		return r.Codes
	}
	var out []string
	for _, c := range []string{r.Primary, r.Secondary} {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// EmptyResult returns a well-formed zero-confidence result for the
// given method, used when a strategy finds nothing or degrades.
func EmptyResult(method Method) ExtractionResult {
	return ExtractionResult{Method: method}
}
