package hybrid

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"clausegrade/internal/clauses"
	"clausegrade/internal/domain"
	"clausegrade/internal/ports"
)

type reply struct {
	Validated  []validation `json:"validated"`
	Additional []addition   `json:"additional"`
	Positives  []string     `json:"positives"`
}

type validation struct {
	Factor            string          `json:"factor"`
	Confirmed         bool            `json:"confirmed"`
	Note              string          `json:"note"`
	SuggestedSeverity domain.Severity `json:"suggested_severity"`
}

type addition struct {
	Factor   string              `json:"factor"`
	Severity domain.Severity     `json:"severity"`
	Detail   string              `json:"detail"`
	FoundIn  domain.PolicySource `json:"found_in"`
}

const schemaURL = "https://clausegrade.local/schemas/hybrid-reply.schema.json"

func compileSchema(reg *clauses.Registry) (*jsonschema.Schema, error) {
	severities := []string{string(domain.SeverityHigh), string(domain.SeverityMedium), string(domain.SeverityLow)}
	sources := []string{
		string(domain.SourceReturnPolicy), string(domain.SourceShippingPolicy),
		string(domain.SourceTerms), string(domain.SourcePrivacyPolicy), string(domain.SourceUnknown),
	}
	ids := reg.IDs()
	// empty strings are accepted for optional enum fields
	optSeverities := append([]string{""}, severities...)
	optSources := append([]string{""}, sources...)
	doc := map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"type":                 "object",
		"required":             []string{"validated", "additional"},
		"additionalProperties": false,
		"properties": map[string]any{
			"validated": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"factor", "confirmed"},
					"properties": map[string]any{
						"factor":             map[string]any{"enum": ids},
						"confirmed":          map[string]any{"type": "boolean"},
						"note":               map[string]any{"type": "string", "maxLength": 500},
						"suggested_severity": map[string]any{"enum": optSeverities},
					},
				},
			},
			"additional": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"factor", "severity"},
					"properties": map[string]any{
						"factor":   map[string]any{"enum": ids},
						"severity": map[string]any{"enum": severities},
						"detail":   map[string]any{"type": "string", "maxLength": 500},
						"found_in": map[string]any{"enum": optSources},
					},
				},
			},
			"positives": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string", "maxLength": 200},
			},
		},
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("hybrid: schema marshal: %w", err)
	}
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(schemaURL, strings.NewReader(string(b))); err != nil {
		return nil, fmt.Errorf("hybrid: schema load: %w", err)
	}
	s, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("hybrid: schema compile: %w", err)
	}
	return s, nil
}

const instructions = `You review consumer policy text for a risk assessment service.
You receive the policy text and the clauses a rule-based extractor already found.
1. For every existing finding, say whether the text supports it (confirmed) and optionally
   suggest a different severity. You cannot remove findings.
2. List clauses the extractor missed under "additional". Only report clauses clearly present.
3. List consumer-favorable terms under "positives" as short phrases.
Use only these clause identifiers:
%s
Severity must be one of: high, medium, low.
found_in must be one of: return_policy, shipping_policy, terms_of_service, privacy_policy, unknown.
Reply with a single JSON object and nothing else, shaped exactly like:
{"validated":[{"factor":"<id>","confirmed":true,"note":"","suggested_severity":"high"}],
 "additional":[{"factor":"<id>","severity":"medium","detail":"","found_in":"unknown"}],
 "positives":["..."]}`

type seed struct {
	Factor   string              `json:"factor"`
	Severity domain.Severity     `json:"severity"`
	Detail   string              `json:"detail"`
	FoundIn  domain.PolicySource `json:"found_in"`
}

func (v *Validator) prompt(text string, r domain.AnalysisResult) ([]ports.Message, error) {
	var ids strings.Builder
	for _, ct := range v.registry.List() {
		fmt.Fprintf(&ids, "- %s (%s): %s\n", ct.ID, ct.Category, ct.Description)
	}
	seeds := make([]seed, 0, len(r.RiskFactors))
	for _, f := range r.RiskFactors {
		seeds = append(seeds, seed{Factor: f.Factor, Severity: f.Severity, Detail: f.Detail, FoundIn: f.FoundIn})
	}
	findings, err := json.Marshal(seeds)
	if err != nil {
		return nil, fmt.Errorf("hybrid: marshal findings: %w", err)
	}
	user := fmt.Sprintf("Existing findings:\n%s\n\nPolicy text:\n%s", findings, truncate(text, v.cfg.MaxPromptText))
	return []ports.Message{
		{Role: "system", Content: fmt.Sprintf(instructions, strings.TrimRight(ids.String(), "\n"))},
		{Role: "user", Content: user},
	}, nil
}

// truncate cuts s to at most n bytes on a rune boundary.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + " [truncated]"
}
