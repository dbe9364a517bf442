// Package pipeline wires the two independently-designed extraction
// arms that the reconciliation engine later compares: a flexible
// oracle-first arm and a hybrid pattern-first arm with a conservative
// oracle fallback.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/mfreitas/podex/internal/extract"
	"github.com/mfreitas/podex/internal/model"
	"github.com/mfreitas/podex/internal/oracle"
)

// StrongThreshold is the pattern-extractor confidence at which the
// hybrid arm trusts the deterministic result without consulting the
// oracle.
const StrongThreshold = 0.75

// hybridConfidenceCap bounds the merged confidence when the pattern
// extractor found a code the oracle could not confirm.
const hybridConfidenceCap = 0.6

// Arm is one extraction strategy run per sub-document.
type Arm interface {
	Run(ctx context.Context, pages []model.PageText) model.ExtractionResult
}

// FlexibleArm sends the whole sub-document to the oracle with the
// flexible policy. It is the comparison partner of the hybrid arm,
// not a fallback.
type FlexibleArm struct {
	oracle oracle.Client
	logger *slog.Logger
}

// NewFlexibleArm creates the oracle-first arm.
func NewFlexibleArm(client oracle.Client, logger *slog.Logger) *FlexibleArm {
	if logger == nil {
		logger = slog.Default()
	}
	return &FlexibleArm{oracle: client, logger: logger}
}

// Run executes the flexible oracle extraction for one sub-document.
func (a *FlexibleArm) Run(ctx context.Context, pages []model.PageText) model.ExtractionResult {
	resp, err := a.oracle.Extract(ctx, oracle.Request{
		Policy:       oracle.PolicyFlexible,
		DocumentText: oracle.BuildDocumentText(pages),
	})
	if err != nil {
		// Retrying clients degrade instead of erroring; a raw client
		// error still maps to the well-formed empty result.
		a.logger.Error("flexible oracle call failed", "error", err)
		resp = oracle.EmptyResponse()
	}

	result := resp.Result(model.MethodOracle)
	a.logger.Debug("flexible arm complete",
		"primary", result.Primary,
		"confidence", result.Confidence)
	return result
}

// HybridArm runs the deterministic pattern extractor first and only
// consults the oracle (conservative policy) when the pattern result is
// weak, merging the two outputs.
type HybridArm struct {
	oracle oracle.Client
	logger *slog.Logger
}

// NewHybridArm creates the pattern-first arm.
func NewHybridArm(client oracle.Client, logger *slog.Logger) *HybridArm {
	if logger == nil {
		logger = slog.Default()
	}
	return &HybridArm{oracle: client, logger: logger}
}

// Run executes the hybrid extraction for one sub-document.
func (a *HybridArm) Run(ctx context.Context, pages []model.PageText) model.ExtractionResult {
	pattern := extract.Extract(pages)

	if pattern.Primary != "" && pattern.Confidence >= StrongThreshold {
		a.logger.Debug("pattern result is strong, skipping oracle",
			"primary", pattern.Primary,
			"confidence", pattern.Confidence)
		return pattern
	}

	resp, err := a.oracle.Extract(ctx, oracle.Request{
		Policy:       oracle.PolicyConservative,
		DocumentText: oracle.BuildDocumentText(pages),
	})
	if err != nil {
		a.logger.Error("conservative oracle call failed", "error", err)
		resp = oracle.EmptyResponse()
	}
	oracleResult := resp.Result(model.MethodOracle)

	merged := merge(pattern, oracleResult)
	a.logger.Debug("hybrid arm complete",
		"primary", merged.Primary,
		"confidence", merged.Confidence,
		"method", merged.Method)
	return merged
}

// merge combines a weak pattern result with the conservative oracle
// answer. Whoever found a primary code leads the unions; when only the
// pattern side found one, confidence is capped because the oracle
// could not confirm it.
func merge(pattern, oracleResult model.ExtractionResult) model.ExtractionResult {
	switch {
	case pattern.Primary != "" && oracleResult.Primary == "":
		conf := pattern.Confidence
		if conf > hybridConfidenceCap {
			conf = hybridConfidenceCap
		}
		return model.ExtractionResult{
			Primary:         pattern.Primary,
			Secondary:       pattern.Secondary,
			Supplier:        firstNonEmpty(oracleResult.Supplier, pattern.Supplier),
			Codes:           unionStrings(pattern.Codes, oracleResult.Codes),
			MatchedKeywords: unionStrings(pattern.MatchedKeywords, oracleResult.MatchedKeywords),
			Evidence:        append(append([]model.Evidence{}, pattern.Evidence...), oracleResult.Evidence...),
			Confidence:      conf,
			Method:          model.MethodHybrid,
		}

	case pattern.Primary != "" && oracleResult.Primary != "":
		merged := oracleResult
		merged.Method = model.MethodHybrid
		merged.Codes = unionStrings(oracleResult.Codes, pattern.Codes)
		merged.MatchedKeywords = unionStrings(oracleResult.MatchedKeywords, pattern.MatchedKeywords)
		merged.Evidence = append(append([]model.Evidence{}, oracleResult.Evidence...), pattern.Evidence...)
		return merged

	case oracleResult.Primary != "":
		return oracleResult

	default:
		return oracleResult
	}
}

func unionStrings(first, second []string) []string {
	seen := make(map[string]bool, len(first)+len(second))
	var out []string
	for _, s := range append(append([]string{}, first...), second...) {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
