// Package hybrid is the optional generative second pass. It can only add to
// or annotate the deterministic result; on any failure the deterministic
// result is returned unchanged.
package hybrid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"clausegrade/internal/clauses"
	"clausegrade/internal/domain"
	"clausegrade/internal/ports"
	"clausegrade/internal/scoring"
)

var tracer = otel.Tracer("clausegrade/hybrid")

var ErrInvalidReply = errors.New("hybrid: reply does not match schema")

type Config struct {
	// MinFindings triggers the pass when the deterministic layer found fewer.
	MinFindings int
	// LongText triggers the pass for texts longer than this many characters.
	LongText int
	// MaxPromptText bounds the source text copied into the prompt.
	MaxPromptText int
	// MaxAdditions bounds how many new findings a reply may contribute.
	MaxAdditions int
}

func DefaultConfig() Config {
	return Config{MinFindings: 2, LongText: 8000, MaxPromptText: 12000, MaxAdditions: 10}
}

// Clauses whose false positives or negatives are expensive enough to double-check.
var doubleCheck = map[string]bool{
	"binding_arbitration": true,
	"liability_cap":       true,
	"class_action_waiver": true,
}

type Validator struct {
	model    ports.ChatModel
	registry *clauses.Registry
	schema   *jsonschema.Schema
	cfg      Config
	log      *slog.Logger
}

func New(model ports.ChatModel, reg *clauses.Registry, cfg Config, log *slog.Logger) (*Validator, error) {
	if log == nil {
		log = slog.Default()
	}
	schema, err := compileSchema(reg)
	if err != nil {
		return nil, err
	}
	return &Validator{model: model, registry: reg, schema: schema, cfg: cfg, log: log.With("component", "hybrid")}, nil
}

// ShouldEnhance reports whether the generative pass is worth its cost for this result.
func (v *Validator) ShouldEnhance(text string, r domain.AnalysisResult) bool {
	if v == nil || v.model == nil || r.Status == domain.StatusNoContent {
		return false
	}
	if len(r.RiskFactors) < v.cfg.MinFindings {
		return true
	}
	if len(text) > v.cfg.LongText {
		return true
	}
	for _, f := range r.RiskFactors {
		if doubleCheck[f.Factor] {
			return true
		}
	}
	return false
}

// Enhance asks the model to validate and extend r. It never fails: errors
// produce the input result unchanged.
func (v *Validator) Enhance(ctx context.Context, text string, r domain.AnalysisResult) domain.AnalysisResult {
	ctx, span := tracer.Start(ctx, "hybrid.enhance")
	defer span.End()

	rep, err := v.ask(ctx, text, r)
	if err != nil {
		span.RecordError(err)
		v.log.WarnContext(ctx, "generative validation failed, using deterministic result", "error", err)
		return r
	}
	out := v.merge(r, rep)
	span.SetAttributes(attribute.Int("hybrid.added", len(out.RiskFactors)-len(r.RiskFactors)))
	return out
}

func (v *Validator) ask(ctx context.Context, text string, r domain.AnalysisResult) (reply, error) {
	msgs, err := v.prompt(text, r)
	if err != nil {
		return reply{}, err
	}
	raw, err := v.model.Chat(ctx, msgs)
	if err != nil {
		return reply{}, fmt.Errorf("hybrid: model call: %w", err)
	}
	return v.parse(raw)
}

func (v *Validator) parse(raw string) (reply, error) {
	body := stripFence(raw)
	var generic any
	if err := json.Unmarshal([]byte(body), &generic); err != nil {
		return reply{}, fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}
	if err := v.schema.Validate(generic); err != nil {
		return reply{}, fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}
	var rep reply
	if err := json.Unmarshal([]byte(body), &rep); err != nil {
		return reply{}, fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}
	return rep, nil
}

// merge keeps every deterministic factor. The model may annotate them, ask
// for a different severity, and add clauses the rules did not find.
func (v *Validator) merge(r domain.AnalysisResult, rep reply) domain.AnalysisResult {
	factors := make([]domain.RiskFactor, len(r.RiskFactors))
	copy(factors, r.RiskFactors)
	index := make(map[string]int, len(factors))
	for i, f := range factors {
		index[f.Factor] = i
	}

	for _, val := range rep.Validated {
		i, ok := index[val.Factor]
		if !ok {
			continue
		}
		f := factors[i]
		if !val.Confirmed {
			f.Detail += " [model could not confirm this clause]"
		}
		if note := strings.TrimSpace(val.Note); note != "" {
			f.Detail += " [model: " + note + "]"
		}
		if val.SuggestedSeverity != "" && val.SuggestedSeverity != f.Severity {
			s := val.SuggestedSeverity
			f.SuggestedSeverity = &s
		}
		factors[i] = f
	}

	added := 0
	for _, a := range rep.Additional {
		if added >= v.cfg.MaxAdditions {
			break
		}
		if _, dup := index[a.Factor]; dup {
			continue
		}
		ct, _ := v.registry.Lookup(a.Factor)
		detail := strings.TrimSpace(a.Detail)
		if detail == "" {
			detail = ct.Description
		}
		foundIn := a.FoundIn
		if foundIn == "" {
			foundIn = domain.SourceUnknown
		}
		index[a.Factor] = len(factors)
		factors = append(factors, domain.RiskFactor{
			Factor:   a.Factor,
			Severity: a.Severity,
			Detail:   detail,
			Source:   domain.DetectorGenerative,
			FoundIn:  foundIn,
		})
		added++
	}

	positives := make([]domain.Positive, len(r.Positives))
	copy(positives, r.Positives)
	seen := make(map[string]bool, len(positives))
	for _, p := range positives {
		seen[strings.ToLower(p)] = true
	}
	for _, p := range rep.Positives {
		p = strings.TrimSpace(p)
		if p == "" || seen[strings.ToLower(p)] {
			continue
		}
		seen[strings.ToLower(p)] = true
		positives = append(positives, p)
	}

	r.RiskFactors = factors
	r.Positives = positives
	return scoring.Rescore(r, domain.MethodDeterministicGenerative)
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
