// Package extract is the deterministic clause extractor. It is a table of
// independent detectors keyed by clause id; each detector owns its patterns
// and fact extractors so adding a clause never touches another one.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"clausegrade/internal/clauses"
	"clausegrade/internal/domain"
)

// Clean normalizes policy text: NFKC folds non-breaking spaces and other
// compatibility forms, then whitespace runs collapse to one space.
func Clean(s string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}

// Facts are the values pulled out of a matched clause. Nil means the value
// was absent or could not be normalized.
type Facts struct {
	Amount     *float64 `json:"amount,omitempty"`
	Days       *int     `json:"days,omitempty"`
	Percent    *float64 `json:"percent,omitempty"`
	Provider   string   `json:"provider,omitempty"`
	OptOutDays *int     `json:"opt_out_days,omitempty"`
}

// merge fills fields of f that are still empty from g. Earlier rules win.
func (f Facts) merge(g Facts) Facts {
	if f.Amount == nil {
		f.Amount = g.Amount
	}
	if f.Days == nil {
		f.Days = g.Days
	}
	if f.Percent == nil {
		f.Percent = g.Percent
	}
	if f.Provider == "" {
		f.Provider = g.Provider
	}
	if f.OptOutDays == nil {
		f.OptOutDays = g.OptOutDays
	}
	return f
}

func (f Facts) String() string {
	var parts []string
	if f.Provider != "" {
		parts = append(parts, "provider "+f.Provider)
	}
	if f.Amount != nil {
		parts = append(parts, "amount $"+strconv.FormatFloat(*f.Amount, 'f', -1, 64))
	}
	if f.Percent != nil {
		parts = append(parts, strconv.FormatFloat(*f.Percent, 'f', -1, 64)+"%")
	}
	if f.Days != nil {
		parts = append(parts, strconv.Itoa(*f.Days)+" days")
	}
	if f.OptOutDays != nil {
		parts = append(parts, "opt-out within "+strconv.Itoa(*f.OptOutDays)+" days")
	}
	return strings.Join(parts, ", ")
}

// Rule is one pattern for a clause. Facts reads submatches; Require, when
// set, can veto a match based on the extracted facts.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Facts   func(m []string) Facts
	Require func(Facts) bool
}

// Detector finds a single clause type. Rules are in priority order. Unless
// patterns suppress the clause entirely when any of them match anywhere;
// UnlessSentence patterns only discard a match whose own sentence matches.
// UnlessRules suppress the clause when one of them matches with its Require
// satisfied. FactRules never establish presence; they only contribute facts
// after Rules.
type Detector struct {
	Clause         string
	Rules          []Rule
	FactRules      []Rule
	Unless         []*regexp.Regexp
	UnlessSentence []*regexp.Regexp
	UnlessRules    []Rule
}

// PositiveRule describes consumer-favorable language. Describe may reject a
// match (for example a return window that is too short to be a plus).
type PositiveRule struct {
	Pattern  *regexp.Regexp
	Describe func(m []string) (string, bool)
}

// Finding is one detected clause in one text.
type Finding struct {
	Clause string `json:"clause"`
	Rule   string `json:"rule"`
	Offset int    `json:"offset"`
	Facts  Facts  `json:"facts"`
}

type Extraction struct {
	Findings  []Finding
	Positives []domain.Positive
}

// Extractor is immutable after New and safe for concurrent use.
type Extractor struct {
	registry  *clauses.Registry
	detectors []Detector
	positives []PositiveRule
}

// New builds an extractor over the default rule table. Every detector must
// name a clause in the registry.
func New(reg *clauses.Registry) (*Extractor, error) {
	return NewWithRules(reg, DefaultDetectors(), DefaultPositives())
}

func NewWithRules(reg *clauses.Registry, detectors []Detector, positives []PositiveRule) (*Extractor, error) {
	byClause := make(map[string]Detector, len(detectors))
	for _, d := range detectors {
		if _, ok := reg.Lookup(d.Clause); !ok {
			return nil, fmt.Errorf("extract: detector for unknown clause %q", d.Clause)
		}
		if _, dup := byClause[d.Clause]; dup {
			return nil, fmt.Errorf("extract: duplicate detector for %q", d.Clause)
		}
		if len(d.Rules) == 0 {
			return nil, fmt.Errorf("extract: detector %q has no rules", d.Clause)
		}
		byClause[d.Clause] = d
	}
	ordered := make([]Detector, 0, len(byClause))
	for _, id := range reg.IDs() {
		if d, ok := byClause[id]; ok {
			ordered = append(ordered, d)
		}
	}
	return &Extractor{registry: reg, detectors: ordered, positives: positives}, nil
}

// Extract scans cleaned text. Output order follows the registry, at most one
// finding per clause, and is identical for identical input.
func (e *Extractor) Extract(text string) Extraction {
	out := Extraction{Findings: []Finding{}, Positives: []domain.Positive{}}
	if text == "" {
		return out
	}
	for _, d := range e.detectors {
		if f, ok := d.detect(text); ok {
			out.Findings = append(out.Findings, f)
		}
	}
	seen := make(map[string]bool)
	for _, p := range e.positives {
		for _, m := range p.Pattern.FindAllStringSubmatch(text, -1) {
			desc := m[0]
			ok := true
			if p.Describe != nil {
				desc, ok = p.Describe(m)
			}
			if ok && !seen[desc] {
				seen[desc] = true
				out.Positives = append(out.Positives, desc)
				break
			}
		}
	}
	return out
}

func (d Detector) detect(text string) (Finding, bool) {
	for _, u := range d.Unless {
		if u.MatchString(text) {
			return Finding{}, false
		}
	}
	for _, r := range d.UnlessRules {
		if _, _, ok := d.match(r, text); ok {
			return Finding{}, false
		}
	}
	var (
		found Finding
		ok    bool
	)
	for _, r := range d.Rules {
		loc, facts, hit := d.match(r, text)
		if !hit {
			continue
		}
		if !ok {
			found = Finding{Clause: d.Clause, Rule: r.Name, Offset: loc[0], Facts: facts}
			ok = true
			continue
		}
		found.Facts = found.Facts.merge(facts)
	}
	if !ok {
		return Finding{}, false
	}
	for _, r := range d.FactRules {
		if loc := r.Pattern.FindStringSubmatchIndex(text); loc != nil {
			found.Facts = found.Facts.merge(r.facts(text, loc))
		}
	}
	return found, true
}

// match returns the first occurrence of r that survives the sentence guards
// and the rule's Require.
func (d Detector) match(r Rule, text string) ([]int, Facts, bool) {
	for _, loc := range r.Pattern.FindAllStringSubmatchIndex(text, -1) {
		if d.guarded(text, loc[0], loc[1]) {
			continue
		}
		facts := r.facts(text, loc)
		if r.Require != nil && !r.Require(facts) {
			continue
		}
		return loc, facts, true
	}
	return nil, Facts{}, false
}

func (d Detector) guarded(text string, start, end int) bool {
	if len(d.UnlessSentence) == 0 {
		return false
	}
	s := sentence(text, start, end)
	for _, u := range d.UnlessSentence {
		if u.MatchString(s) {
			return true
		}
	}
	return false
}

// sentence widens [start,end) to the enclosing sentence of cleaned text.
func sentence(text string, start, end int) string {
	from := strings.LastIndexAny(text[:start], ".!?") + 1
	to := strings.IndexAny(text[end:], ".!?")
	if to < 0 {
		return text[from:]
	}
	return text[from : end+to]
}

func (r Rule) facts(text string, loc []int) Facts {
	if r.Facts == nil {
		return Facts{}
	}
	m := make([]string, len(loc)/2)
	for i := range m {
		if loc[2*i] >= 0 {
			m[i] = text[loc[2*i]:loc[2*i+1]]
		}
	}
	return r.Facts(m)
}

// Factors runs Extract over a document and converts findings into risk
// factors at their typical severity. Discounting is the scorer's job.
func (e *Extractor) Factors(doc domain.Document) ([]domain.RiskFactor, []domain.Positive) {
	ex := e.Extract(Clean(doc.Text))
	factors := make([]domain.RiskFactor, 0, len(ex.Findings))
	for _, f := range ex.Findings {
		ct, _ := e.registry.Lookup(f.Clause)
		detail := ct.Description
		if s := f.Facts.String(); s != "" {
			detail += " (" + s + ")"
		}
		factors = append(factors, domain.RiskFactor{
			Factor:   f.Clause,
			Severity: ct.TypicalSeverity,
			Detail:   detail,
			Source:   domain.DetectorDeterministic,
			FoundIn:  doc.Source,
		})
	}
	return factors, ex.Positives
}
