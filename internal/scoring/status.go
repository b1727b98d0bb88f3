package scoring

import (
	"time"

	"clausegrade/internal/domain"
)

// Coverage describes how much policy content reached the engine.
type Coverage struct {
	Expected     int
	Obtained     int
	TextProvided bool
}

// PartialMediumThreshold is the coverage fraction at or above which a partial
// analysis is reported with medium confidence instead of low.
const PartialMediumThreshold = 0.5

// Classify is the single source of analysis status and confidence.
func Classify(c Coverage) (domain.Status, domain.Confidence) {
	switch {
	case c.TextProvided:
		return domain.StatusTextProvided, domain.ConfidenceHigh
	case c.Obtained <= 0 || c.Expected <= 0:
		return domain.StatusNoContent, domain.ConfidenceNone
	case c.Obtained >= c.Expected:
		return domain.StatusComplete, domain.ConfidenceHigh
	case float64(c.Obtained)/float64(c.Expected) >= PartialMediumThreshold:
		return domain.StatusPartial, domain.ConfidenceMedium
	default:
		return domain.StatusPartial, domain.ConfidenceLow
	}
}

// Finalize assembles an AnalysisResult. A no_content coverage always yields
// nil scores regardless of the factors passed in.
func Finalize(factors []domain.RiskFactor, positives []domain.Positive, c Coverage, method domain.Method, at time.Time) domain.AnalysisResult {
	status, confidence := Classify(c)
	if status == domain.StatusNoContent {
		return domain.NoContent(at)
	}
	if factors == nil {
		factors = []domain.RiskFactor{}
	}
	if positives == nil {
		positives = []domain.Positive{}
	}
	s := Compute(factors)
	flags := make([]string, 0, len(factors))
	for _, f := range factors {
		flags = append(flags, f.Factor)
	}
	risk, grade, protection := s.RiskScore, s.Grade, s.BuyerProtectionScore
	return domain.AnalysisResult{
		RiskScore:             &risk,
		RiskLevel:             s.Level,
		BuyerProtectionRating: &grade,
		BuyerProtectionScore:  &protection,
		RiskFactors:           factors,
		Positives:             positives,
		Status:                status,
		Confidence:            confidence,
		Method:                method,
		Flags:                 flags,
		AnalyzedAt:            domain.FormatTime(at),
	}
}

// Rescore recomputes the score fields of r from its own factors, keeping
// status, confidence and timestamps. Used after the hybrid merge.
func Rescore(r domain.AnalysisResult, method domain.Method) domain.AnalysisResult {
	if r.Status == domain.StatusNoContent {
		return r
	}
	s := Compute(r.RiskFactors)
	risk, grade, protection := s.RiskScore, s.Grade, s.BuyerProtectionScore
	r.RiskScore = &risk
	r.RiskLevel = s.Level
	r.BuyerProtectionRating = &grade
	r.BuyerProtectionScore = &protection
	r.Method = method
	r.Flags = make([]string, 0, len(r.RiskFactors))
	for _, f := range r.RiskFactors {
		r.Flags = append(r.Flags, f.Factor)
	}
	return r
}
