package domain

import "time"

// Core domain models shared by the engine packages and the adapters. JSON tags
// are the public wire names; keep them stable within a schema version.

type Category string

const (
	CategoryLegal    Category = "legal"
	CategoryReturns  Category = "returns"
	CategoryPricing  Category = "pricing"
	CategoryPrivacy  Category = "privacy"
	CategoryShipping Category = "shipping"
)

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Valid reports whether s is one of the three severity tiers.
func (s Severity) Valid() bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// PolicySource is the kind of policy document a finding was located in.
type PolicySource string

const (
	SourceReturnPolicy   PolicySource = "return_policy"
	SourceShippingPolicy PolicySource = "shipping_policy"
	SourceTerms          PolicySource = "terms_of_service"
	SourcePrivacyPolicy  PolicySource = "privacy_policy"
	SourceUnknown        PolicySource = "unknown"
)

// FetchedSources is the set of categories the fetcher tries for a subject URL,
// in merge order.
var FetchedSources = []PolicySource{SourceReturnPolicy, SourceShippingPolicy, SourceTerms, SourcePrivacyPolicy}

// Provenance records how a document reached the engine.
type Provenance string

const (
	ProvenanceSupplied Provenance = "supplied"
	ProvenanceFetched  Provenance = "fetched"
)

// Document is one unit of policy text handed to the extractor.
type Document struct {
	Source     PolicySource
	Provenance Provenance
	URL        string
	Text       string
}

// Detector names the layer that produced a risk factor.
type Detector string

const (
	DetectorDeterministic Detector = "deterministic"
	DetectorGenerative    Detector = "generative"
)

type ClauseType struct {
	ID              string   `json:"id" yaml:"id"`
	Category        Category `json:"category" yaml:"category"`
	Description     string   `json:"description" yaml:"description"`
	TypicalSeverity Severity `json:"typical_severity" yaml:"typical_severity"`
}

// RiskFactor is one detected clause instance.
type RiskFactor struct {
	Factor   string       `json:"factor"`
	Severity Severity     `json:"severity"`
	Detail   string       `json:"detail"`
	Source   Detector     `json:"source"`
	FoundIn  PolicySource `json:"found_in"`
	// SeverityNote is set when the scorer discounted the typical severity.
	SeverityNote *string `json:"severity_note"`
	// SuggestedSeverity is a re-classification request from the generative
	// layer. It is informational and never changes the score.
	SuggestedSeverity *Severity `json:"suggested_severity,omitempty"`
}

type Positive = string

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
	RiskUnknown  RiskLevel = "unknown"
)

type Status string

const (
	StatusComplete     Status = "complete"
	StatusPartial      Status = "partial"
	StatusNoContent    Status = "no_content"
	StatusTextProvided Status = "text_provided"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceNone   Confidence = "none"
)

type Method string

const (
	MethodDeterministic           Method = "deterministic"
	MethodDeterministicGenerative Method = "deterministic_plus_generative"
	MethodNone                    Method = "none"
)

// AnalysisResult is the response body of an analysis. Scores are nil when the
// status is no_content; callers must branch on Status before reading them.
type AnalysisResult struct {
	RiskScore             *float64     `json:"risk_score"`
	RiskLevel             RiskLevel    `json:"risk_level"`
	BuyerProtectionRating *string      `json:"buyer_protection_rating"`
	BuyerProtectionScore  *int         `json:"buyer_protection_score"`
	RiskFactors           []RiskFactor `json:"risk_factors"`
	Positives             []Positive   `json:"positives"`
	Status                Status       `json:"analysis_status"`
	Confidence            Confidence   `json:"confidence"`
	Method                Method       `json:"analysis_method"`
	Flags                 []string     `json:"flags"`
	AnalyzedAt            string       `json:"analyzed_at"`
}

// SellerAnalysis is an analysis result labelled with the seller it describes.
type SellerAnalysis struct {
	AnalysisResult
	SellerDomain string `json:"seller_domain,omitempty"`
}

// NoContent returns the result for a request where no usable text was found.
func NoContent(at time.Time) AnalysisResult {
	return AnalysisResult{
		RiskLevel:   RiskUnknown,
		RiskFactors: []RiskFactor{},
		Positives:   []Positive{},
		Status:      StatusNoContent,
		Confidence:  ConfidenceNone,
		Method:      MethodNone,
		Flags:       []string{},
		AnalyzedAt:  FormatTime(at),
	}
}

// Subject identifies who an assessment is about.
type Subject struct {
	SellerDomain string `json:"seller_domain"`
	URL          string `json:"url,omitempty"`
}

// TimeLayout is the fixed timestamp format used on the wire and in signed payloads.
const TimeLayout = "2006-01-02T15:04:05Z"

func FormatTime(t time.Time) string { return t.UTC().Format(TimeLayout) }

func ParseTime(s string) (time.Time, error) { return time.Parse(TimeLayout, s) }
