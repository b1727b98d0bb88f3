package scoring

import "clausegrade/internal/domain"

// Clauses that show up in nearly every commercial terms of service. Scoring
// them at full weight when found on a fetched ToS page says little about the
// seller.
var boilerplate = map[string]bool{
	"binding_arbitration": true,
	"class_action_waiver": true,
	"at_will_termination": true,
	"liability_cap":       true,
}

const DiscountNote = "discounted: standard terms-of-service boilerplate"

// IsBoilerplate reports whether clause is in the discount set.
func IsBoilerplate(clause string) bool { return boilerplate[clause] }

// Discount lowers boilerplate factors to low severity when they come from a
// terms-of-service document fetched by URL. Caller-supplied text is never
// discounted.
func Discount(f domain.RiskFactor, doc domain.Document) domain.RiskFactor {
	if doc.Provenance != domain.ProvenanceFetched || doc.Source != domain.SourceTerms {
		return f
	}
	if !boilerplate[f.Factor] {
		return f
	}
	note := DiscountNote
	if f.Severity != domain.SeverityLow {
		note = DiscountNote + " (typical severity " + string(f.Severity) + ")"
	}
	f.Severity = domain.SeverityLow
	f.SeverityNote = &note
	return f
}
