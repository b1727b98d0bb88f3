// Package analyzer runs the analysis pipeline: resolve text, extract, discount,
// score, then optionally hand the result to the generative validator.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"clausegrade/internal/domain"
	"clausegrade/internal/extract"
	"clausegrade/internal/fetch"
	"clausegrade/internal/hybrid"
	"clausegrade/internal/ports"
	"clausegrade/internal/scoring"
)

var tracer = otel.Tracer("clausegrade/analyzer")

var (
	ErrEmptyRequest = errors.New("analyzer: url or policy_text is required")
	ErrNoFetcher    = errors.New("analyzer: url analysis is not configured")
)

type Service struct {
	extractor *extract.Extractor
	fetcher   ports.PolicyFetcher
	validator *hybrid.Validator
	hybridOn  bool
	cache     ports.ResultCache
	now       func() time.Time
	log       *slog.Logger
}

type Option func(*Service)

func WithFetcher(f ports.PolicyFetcher) Option { return func(s *Service) { s.fetcher = f } }

// WithValidator enables the generative pass. enabled is the default when a
// request does not say.
func WithValidator(v *hybrid.Validator, enabled bool) Option {
	return func(s *Service) { s.validator, s.hybridOn = v, enabled }
}

// WithCache stores URL-only results. Supplied-text analyses are never cached.
func WithCache(c ports.ResultCache) Option { return func(s *Service) { s.cache = c } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func New(ex *extract.Extractor, log *slog.Logger, opts ...Option) *Service {
	if log == nil {
		log = slog.Default()
	}
	s := &Service{extractor: ex, now: time.Now, log: log.With("component", "analyzer")}
	for _, o := range opts {
		o(s)
	}
	return s
}

var _ ports.Analyzer = (*Service)(nil)

func (s *Service) Analyze(ctx context.Context, req ports.AnalysisRequest) (ports.Analysis, error) {
	ctx, span := tracer.Start(ctx, "analyzer.analyze")
	defer span.End()

	text := strings.TrimSpace(req.PolicyText)
	rawurl := strings.TrimSpace(req.URL)
	if text == "" && rawurl == "" {
		return ports.Analysis{}, ErrEmptyRequest
	}
	var subject domain.Subject
	if rawurl != "" {
		sub, err := fetch.SubjectFor(rawurl)
		if err != nil {
			return ports.Analysis{}, err
		}
		subject = sub
		span.SetAttributes(attribute.String("seller.domain", subject.SellerDomain))
	}
	useHybrid := s.validator != nil && s.hybridOn
	if req.Hybrid != nil {
		useHybrid = s.validator != nil && *req.Hybrid
	}

	var (
		docs     []domain.Document
		coverage scoring.Coverage
		cacheKey string
	)
	if text != "" {
		// Supplied text bypasses fetching even when a URL is present.
		docs = []domain.Document{{Source: domain.SourceUnknown, Provenance: domain.ProvenanceSupplied, Text: text}}
		coverage.TextProvided = true
	} else {
		if s.fetcher == nil {
			return ports.Analysis{}, ErrNoFetcher
		}
		cacheKey = cacheKeyFor(subject, useHybrid)
		if r, ok := s.cached(ctx, cacheKey); ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return ports.Analysis{Result: r, Subject: subject}, nil
		}
		res, err := s.fetcher.FetchPolicies(ctx, rawurl)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return ports.Analysis{}, fmt.Errorf("analyzer: fetch: %w", err)
		}
		docs = res.Documents
		coverage = scoring.Coverage{Expected: res.Attempted, Obtained: len(res.Documents)}
	}

	result := s.analyzeDocs(docs, coverage)
	if useHybrid {
		joined := joinText(docs)
		if s.validator.ShouldEnhance(joined, result) {
			result = s.validator.Enhance(ctx, joined, result)
		}
	}
	span.SetAttributes(
		attribute.String("analysis.status", string(result.Status)),
		attribute.Int("analysis.factors", len(result.RiskFactors)),
	)
	s.log.InfoContext(ctx, "analysis complete",
		"seller", subject.SellerDomain,
		"status", result.Status,
		"method", result.Method,
		"factors", len(result.RiskFactors),
	)
	if s.cache != nil && cacheKey != "" && result.Status != domain.StatusNoContent {
		if err := s.cache.Set(ctx, cacheKey, result); err != nil {
			s.log.WarnContext(ctx, "cache write failed", "error", err)
		}
	}
	return ports.Analysis{Result: result, Subject: subject}, nil
}

// analyzeDocs extracts every document in order. A clause found in more than
// one document is kept once, from the first document it appears in.
func (s *Service) analyzeDocs(docs []domain.Document, c scoring.Coverage) domain.AnalysisResult {
	var (
		factors   []domain.RiskFactor
		positives []domain.Positive
		seen      = map[string]bool{}
		seenPos   = map[string]bool{}
	)
	for _, doc := range docs {
		fs, ps := s.extractor.Factors(doc)
		for _, f := range fs {
			if seen[f.Factor] {
				continue
			}
			seen[f.Factor] = true
			factors = append(factors, scoring.Discount(f, doc))
		}
		for _, p := range ps {
			if !seenPos[p] {
				seenPos[p] = true
				positives = append(positives, p)
			}
		}
	}
	return scoring.Finalize(factors, positives, c, domain.MethodDeterministic, s.now())
}

func (s *Service) cached(ctx context.Context, key string) (domain.AnalysisResult, bool) {
	if s.cache == nil {
		return domain.AnalysisResult{}, false
	}
	r, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.WarnContext(ctx, "cache read failed", "error", err)
		return domain.AnalysisResult{}, false
	}
	return r, ok
}

// cacheKeyFor keys by host: policy pages are fetched from the URL's origin,
// so two subdomains of one seller can differ.
func cacheKeyFor(sub domain.Subject, hybrid bool) string {
	key := sub.SellerDomain
	if u, err := url.Parse(sub.URL); err == nil && u.Hostname() != "" {
		key = strings.ToLower(u.Hostname())
	}
	if hybrid {
		key += ":hybrid"
	}
	return key
}

func joinText(docs []domain.Document) string {
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		parts = append(parts, d.Text)
	}
	return strings.Join(parts, "\n\n")
}
