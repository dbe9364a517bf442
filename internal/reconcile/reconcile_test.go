package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreitas/podex/internal/model"
)

func makeResult(primary, secondary string, confidence float64) model.ExtractionResult {
	return model.ExtractionResult{
		Primary:    primary,
		Secondary:  secondary,
		Confidence: confidence,
		Method:     model.MethodOracle,
	}
}

func TestReconcileMatchOKSamePrimary(t *testing.T) {
	a := makeResult("50001234", "", 0.9)
	b := makeResult("50001234", "", 0.85)

	outcome := Reconcile(a, b, DefaultOptions())

	assert.Equal(t, model.MatchOK, outcome.MatchStatus)
	assert.Equal(t, model.StatusOK, outcome.FinalStatus)
	assert.Equal(t, model.ActionAutoOK, outcome.NextAction)
	assert.Equal(t, "50001234", outcome.DecidedPrimary)
	assert.Empty(t, outcome.RejectReason)
}

func TestReconcileMismatch(t *testing.T) {
	a := makeResult("50001111", "", 0.9)
	b := makeResult("80002222", "", 0.9)

	outcome := Reconcile(a, b, DefaultOptions())

	assert.Equal(t, model.Mismatch, outcome.MatchStatus)
	assert.Equal(t, model.StatusNotOK, outcome.FinalStatus)
	assert.Equal(t, model.ActionSendToReview, outcome.NextAction)
	assert.Contains(t, outcome.RejectReason, "50001111")
	assert.Contains(t, outcome.RejectReason, "80002222")
	assert.Empty(t, outcome.DecidedPrimary)
	assert.Empty(t, outcome.DecidedCodes)
}

func TestReconcileBothEmpty(t *testing.T) {
	a := makeResult("", "", 0.0)
	b := makeResult("", "", 0.0)

	outcome := Reconcile(a, b, DefaultOptions())

	assert.Equal(t, model.NeedsReview, outcome.MatchStatus)
	assert.Equal(t, model.StatusNotOK, outcome.FinalStatus)
	assert.Equal(t, model.ActionSendToReview, outcome.NextAction)
	assert.Contains(t, outcome.RejectReason, "no code")
	assert.Empty(t, outcome.DecidedPrimary)
	assert.Empty(t, outcome.DecidedSecondary)
	assert.Empty(t, outcome.DecidedCodes)
}

func TestReconcileOneEmpty(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
	}{
		{name: "confidence sufficient", confidence: 0.9},
		{name: "confidence insufficient", confidence: 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := makeResult("50001234", "", tt.confidence)
			b := makeResult("", "", 0.0)

			outcome := Reconcile(a, b, DefaultOptions())

			// The outcome category is identical regardless of
			// confidence; only the reason text differs.
			assert.Equal(t, model.NeedsReview, outcome.MatchStatus)
			assert.Equal(t, model.StatusNotOK, outcome.FinalStatus)
			assert.Equal(t, model.ActionSendToReview, outcome.NextAction)
			assert.Equal(t, "50001234", outcome.DecidedPrimary)
			assert.Equal(t, []string{"50001234"}, outcome.DecidedCodes)
		})
	}
}

func TestReconcileOneEmptyKeepsOriginalFormatting(t *testing.T) {
	a := makeResult("", "", 0.0)
	b := makeResult("PO-5000/1234", "", 0.9)

	outcome := Reconcile(a, b, DefaultOptions())

	assert.Equal(t, "PO-5000/1234", outcome.DecidedPrimary, "decided values keep the source formatting")
}

func TestReconcileLeadingZeroEquivalence(t *testing.T) {
	a := makeResult("00050001234", "", 0.9)
	b := makeResult("50001234", "", 0.85)

	outcome := Reconcile(a, b, DefaultOptions())
	assert.Equal(t, model.MatchOK, outcome.MatchStatus)
	assert.Equal(t, model.StatusOK, outcome.FinalStatus)

	strict := DefaultOptions()
	strict.AllowLeadingZero = false
	outcome = Reconcile(a, b, strict)
	assert.Equal(t, model.Mismatch, outcome.MatchStatus)
}

func TestReconcileLowConfidenceMatch(t *testing.T) {
	a := makeResult("50001234", "", 0.3)
	b := makeResult("50001234", "", 0.4)

	outcome := Reconcile(a, b, DefaultOptions())

	assert.Equal(t, model.NeedsReview, outcome.MatchStatus)
	assert.Equal(t, model.StatusNotOK, outcome.FinalStatus)
	assert.Contains(t, outcome.RejectReason, "low confidence")
}

func TestReconcileOneSideConfidentMatchIsOK(t *testing.T) {
	// lowConfidence requires BOTH sides below the threshold.
	a := makeResult("50001234", "", 0.3)
	b := makeResult("50001234", "", 0.9)

	outcome := Reconcile(a, b, DefaultOptions())
	assert.Equal(t, model.MatchOK, outcome.MatchStatus)
}

func TestReconcileMatchWithSecondaries(t *testing.T) {
	a := makeResult("50001234", "80005678", 0.9)
	b := makeResult("50001234", "80005678", 0.9)

	outcome := Reconcile(a, b, DefaultOptions())

	assert.Equal(t, model.MatchOK, outcome.MatchStatus)
	assert.Equal(t, "50001234", outcome.DecidedPrimary)
	assert.Equal(t, "80005678", outcome.DecidedSecondary)
}

func TestReconcilePartialIntersection(t *testing.T) {
	a := model.ExtractionResult{
		Primary:    "50001234",
		Secondary:  "80005678",
		Codes:      []string{"50001234", "80005678"},
		Confidence: 0.9,
		Method:     model.MethodHybrid,
	}
	b := model.ExtractionResult{
		Primary:    "50001234",
		Codes:      []string{"50001234", "41299"},
		Confidence: 0.9,
		Method:     model.MethodOracle,
	}

	outcome := Reconcile(a, b, DefaultOptions())

	assert.Equal(t, model.NeedsReview, outcome.MatchStatus)
	assert.Equal(t, model.StatusNotOK, outcome.FinalStatus)
	assert.Contains(t, outcome.RejectReason, "partial match")
	assert.Equal(t, "50001234", outcome.DecidedPrimary)
	assert.Equal(t, "80005678", outcome.DecidedSecondary)
	assert.Equal(t, []string{"50001234", "80005678", "41299"}, outcome.DecidedCodes)
}

func TestReconcileFullSetEqualityIsBidirectional(t *testing.T) {
	// B's list is a subset of A's: intersecting but not equal.
	a := model.ExtractionResult{
		Primary:    "50001234",
		Codes:      []string{"50001234", "80005678"},
		Confidence: 0.9,
		Method:     model.MethodHybrid,
	}
	b := model.ExtractionResult{
		Primary:    "50001234",
		Codes:      []string{"50001234"},
		Confidence: 0.9,
		Method:     model.MethodOracle,
	}

	outcome := Reconcile(a, b, DefaultOptions())
	assert.Equal(t, model.NeedsReview, outcome.MatchStatus)
	assert.Contains(t, outcome.RejectReason, "partial match")
}

func TestReconcileSetEqualityManyToOne(t *testing.T) {
	// Leading-zero variants of one value on side A all map onto B's
	// single value: sets are equal despite different sizes.
	a := model.ExtractionResult{
		Primary:    "050001234",
		Codes:      []string{"050001234", "0050001234"},
		Confidence: 0.9,
		Method:     model.MethodHybrid,
	}
	b := model.ExtractionResult{
		Primary:    "50001234",
		Codes:      []string{"50001234"},
		Confidence: 0.9,
		Method:     model.MethodOracle,
	}

	outcome := Reconcile(a, b, DefaultOptions())
	assert.Equal(t, model.MatchOK, outcome.MatchStatus)
	assert.Equal(t, "050001234", outcome.DecidedPrimary)
}

func TestReconcileDecidedScanOrder(t *testing.T) {
	// Scan order is A.primary, B.primary, A.secondary, B.secondary
	// with duplicates (by normalized value) collapsed.
	a := makeResult("50001234", "80005678", 0.9)
	b := makeResult("80005678", "50001234", 0.9)

	outcome := Reconcile(a, b, DefaultOptions())

	require.Equal(t, model.MatchOK, outcome.MatchStatus)
	assert.Equal(t, "50001234", outcome.DecidedPrimary)
	assert.Equal(t, "80005678", outcome.DecidedSecondary)
	assert.Equal(t, []string{"50001234", "80005678"}, outcome.DecidedCodes)
}

func TestReconcileSymmetricCategories(t *testing.T) {
	cases := []struct {
		name string
		a    model.ExtractionResult
		b    model.ExtractionResult
	}{
		{name: "both empty", a: makeResult("", "", 0), b: makeResult("", "", 0)},
		{name: "mismatch", a: makeResult("50001111", "", 0.9), b: makeResult("80002222", "", 0.9)},
		{name: "match", a: makeResult("50001234", "", 0.9), b: makeResult("50001234", "", 0.9)},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			forward := Reconcile(tt.a, tt.b, DefaultOptions())
			backward := Reconcile(tt.b, tt.a, DefaultOptions())
			assert.Equal(t, forward.MatchStatus, backward.MatchStatus)
			assert.Equal(t, forward.FinalStatus, backward.FinalStatus)
		})
	}
}

func TestReconcileDeterministic(t *testing.T) {
	a := model.ExtractionResult{
		Primary:    "50001234",
		Codes:      []string{"50001234", "41299"},
		Confidence: 0.7,
		Method:     model.MethodHybrid,
	}
	b := makeResult("50001234", "", 0.8)

	first := Reconcile(a, b, DefaultOptions())
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Reconcile(a, b, DefaultOptions()))
	}
}

func TestReconcileCodesListDrivesCandidates(t *testing.T) {
	// When the codes list is populated it overrides the scalar slots
	// for set comparison.
	a := model.ExtractionResult{
		Primary:    "99999999", // not a candidate: codes list wins
		Codes:      []string{"50001234"},
		Confidence: 0.9,
		Method:     model.MethodHybrid,
	}
	b := model.ExtractionResult{
		Primary:    "50001234",
		Codes:      []string{"50001234"},
		Confidence: 0.9,
		Method:     model.MethodOracle,
	}

	outcome := Reconcile(a, b, DefaultOptions())
	assert.Equal(t, model.MatchOK, outcome.MatchStatus)
}
