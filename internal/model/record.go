package model

import "time"

// DocumentRecord is the full persisted record for one sub-document:
// its page range, both arms' extraction results, and the reconciled
// decision. This is the row shape consumed by storage and export.
type DocumentRecord struct {
	CreatedAt        time.Time
	BatchID          string
	DocID            string
	SupplierA        string
	PrimaryA         string
	SecondaryA       string
	MethodA          Method
	SupplierB        string
	PrimaryB         string
	SecondaryB       string
	MethodB          Method
	MatchStatus      MatchStatus
	DecidedPrimary   string
	DecidedSecondary string
	FinalStatus      FinalStatus
	NextAction       NextAction
	RejectReason     string
	CodesA           []string
	CodesB           []string
	DecidedCodes     []string
	ConfidenceA      float64
	ConfidenceB      float64
	PageStart        int
	PageEnd          int
}

// NewDocumentRecord assembles a record from the per-range pipeline outputs.
func NewDocumentRecord(batchID, docID string, rng PageRange, a, b ExtractionResult, outcome ReconciliationOutcome) DocumentRecord {
	return DocumentRecord{
		CreatedAt:        time.Now().UTC(),
		BatchID:          batchID,
		DocID:            docID,
		PageStart:        rng.StartPage,
		PageEnd:          rng.EndPage,
		SupplierA:        a.Supplier,
		PrimaryA:         a.Primary,
		SecondaryA:       a.Secondary,
		CodesA:           a.Codes,
		ConfidenceA:      a.Confidence,
		MethodA:          a.Method,
		SupplierB:        b.Supplier,
		PrimaryB:         b.Primary,
		SecondaryB:       b.Secondary,
		CodesB:           b.Codes,
		ConfidenceB:      b.Confidence,
		MethodB:          b.Method,
		MatchStatus:      outcome.MatchStatus,
		DecidedPrimary:   outcome.DecidedPrimary,
		DecidedSecondary: outcome.DecidedSecondary,
		DecidedCodes:     outcome.DecidedCodes,
		FinalStatus:      outcome.FinalStatus,
		NextAction:       outcome.NextAction,
		RejectReason:     outcome.RejectReason,
	}
}
