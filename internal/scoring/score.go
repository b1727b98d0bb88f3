// Package scoring turns risk factors into a score, level and grade, applies
// the boilerplate discount, and classifies analysis coverage.
package scoring

import (
	"math"

	"clausegrade/internal/domain"
)

const MaxScore = 10.0

var weights = map[domain.Severity]float64{
	domain.SeverityHigh:   2.0,
	domain.SeverityMedium: 1.0,
	domain.SeverityLow:    0.5,
}

// Weight is the score contribution of one factor at severity s.
func Weight(s domain.Severity) float64 { return weights[s] }

type Score struct {
	RiskScore            float64
	Level                domain.RiskLevel
	Grade                string
	BuyerProtectionScore int
}

// Compute sums factor weights, caps at MaxScore, and buckets the result.
func Compute(factors []domain.RiskFactor) Score {
	var sum float64
	for _, f := range factors {
		sum += Weight(f.Severity)
	}
	s := math.Min(sum, MaxScore)
	s = math.Round(s*10) / 10
	return Score{
		RiskScore:            s,
		Level:                Level(s),
		Grade:                Grade(s),
		BuyerProtectionScore: BuyerProtection(s),
	}
}

// Level buckets: [0,2] low, (2,6] medium, (6,8] high, (8,10] critical.
func Level(score float64) domain.RiskLevel {
	switch {
	case score <= 2:
		return domain.RiskLow
	case score <= 6:
		return domain.RiskMedium
	case score <= 8:
		return domain.RiskHigh
	default:
		return domain.RiskCritical
	}
}

type gradeBand struct {
	upper float64
	grade string
}

var gradeBands = []gradeBand{
	{1, "A+"},
	{2, "A"},
	{3, "B+"},
	{4, "B"},
	{5, "C+"},
	{6, "C"},
	{7, "D+"},
	{8, "D"},
}

// Grades lists every grade from best to worst.
var Grades = []string{"A+", "A", "B+", "B", "C+", "C", "D+", "D", "F"}

// Grade maps a score to one of nine grades; each band is closed above.
func Grade(score float64) string {
	for _, b := range gradeBands {
		if score <= b.upper {
			return b.grade
		}
	}
	return "F"
}

// BuyerProtection is clamp(100 - score*10, 0, 100).
func BuyerProtection(score float64) int {
	v := int(math.Round(100 - score*10))
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
