package model

// MatchStatus classifies how the two extraction arms relate.
type MatchStatus string

// Match status constants.
const (
	MatchOK     MatchStatus = "MATCH_OK"
	Mismatch    MatchStatus = "MISMATCH"
	NeedsReview MatchStatus = "NEEDS_REVIEW"
)

// FinalStatus is the overall verdict for one sub-document.
type FinalStatus string

// Final status constants.
const (
	StatusOK    FinalStatus = "OK"
	StatusNotOK FinalStatus = "NOT_OK"
)

// NextAction tells downstream consumers what to do with the document.
type NextAction string

// Next action constants.
const (
	ActionAutoOK       NextAction = "AUTO_OK"
	ActionSendToReview NextAction = "SEND_TO_REVIEW"
)

// ReconciliationOutcome is the decision derived from two extraction
// results. It has no lifecycle of its own; it is recomputed whenever
// its inputs change.
type ReconciliationOutcome struct {
	MatchStatus      MatchStatus
	DecidedPrimary   string
	DecidedSecondary string
	RejectReason     string
	FinalStatus      FinalStatus
	NextAction       NextAction
	DecidedCodes     []string
}
