// Package assessments issues signed assessments for analysis requests and
// verifies envelopes presented by third parties.
package assessments

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"clausegrade/internal/assessment"
	"clausegrade/internal/domain"
	"clausegrade/internal/ports"
)

var tracer = otel.Tracer("clausegrade/assessments")

type Service struct {
	analyzer ports.Analyzer
	signer   *assessment.Signer
	keys     assessment.KeySet
	records  ports.AssessmentLog
	baseURL  string
	now      func() time.Time
	log      *slog.Logger
}

type Option func(*Service)

// WithLog records every issued assessment.
func WithLog(l ports.AssessmentLog) Option { return func(s *Service) { s.records = l } }

// WithKeys adds verification keys beyond the signer's own, e.g. retired keys.
func WithKeys(ks assessment.KeySet) Option {
	return func(s *Service) {
		for id, k := range ks {
			s.keys[id] = k
		}
	}
}

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// New builds the service. baseURL is the public origin used for the
// verification and JWKS links in each envelope.
func New(an ports.Analyzer, signer *assessment.Signer, baseURL string, log *slog.Logger, opts ...Option) *Service {
	if log == nil {
		log = slog.Default()
	}
	s := &Service{
		analyzer: an,
		signer:   signer,
		keys:     signer.KeySet(),
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      time.Now,
		log:      log.With("component", "assessments"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

var _ ports.Assessor = (*Service)(nil)

func (s *Service) Issue(ctx context.Context, req ports.AnalysisRequest) (domain.Envelope, error) {
	ctx, span := tracer.Start(ctx, "assessments.issue")
	defer span.End()

	a, err := s.analyzer.Analyze(ctx, req)
	if err != nil {
		return domain.Envelope{}, err
	}
	signed, err := s.signer.Sign(a.Result, a.Subject)
	if err != nil {
		return domain.Envelope{}, fmt.Errorf("assessments: sign: %w", err)
	}
	span.SetAttributes(attribute.String("assessment.id", signed.Payload.AssessmentID))

	if s.records != nil {
		issued, _ := domain.ParseTime(signed.Payload.IssuedAt)
		expires, _ := domain.ParseTime(signed.Payload.ExpiresAt)
		rec := ports.AssessmentRecord{
			AssessmentID: signed.Payload.AssessmentID,
			SellerDomain: a.Subject.SellerDomain,
			PayloadHash:  signed.PayloadHash,
			IssuedAt:     issued,
			ExpiresAt:    expires,
			Payload:      signed.Canonical,
		}
		// The envelope is valid without the log entry.
		if err := s.records.Record(ctx, rec); err != nil {
			s.log.WarnContext(ctx, "assessment log write failed", "assessment_id", rec.AssessmentID, "error", err)
		}
	}
	s.log.InfoContext(ctx, "assessment issued",
		"assessment_id", signed.Payload.AssessmentID,
		"seller", a.Subject.SellerDomain,
		"expires_at", signed.Payload.ExpiresAt,
	)
	return domain.Envelope{
		SignedAssessment:  json.RawMessage(signed.Canonical),
		Signature:         signed.Signature,
		SignedPayloadHash: signed.PayloadHash,
		VerificationURL:   s.baseURL + "/v1/assessments/verify",
		JWKSURL:           s.baseURL + "/.well-known/jwks.json",
	}, nil
}

func (s *Service) Verify(ctx context.Context, req domain.VerifyRequest) domain.Verification {
	_, span := tracer.Start(ctx, "assessments.verify")
	defer span.End()
	v := assessment.Verify(req.SignedAssessment, req.Signature, req.SignedPayloadHash, s.keys, s.now())
	span.SetAttributes(attribute.Bool("assessment.valid", v.Valid), attribute.String("assessment.reason", v.Reason))
	return v
}

// JWKS is the published key set.
func (s *Service) JWKS() assessment.JWKS { return s.keys.JWKS() }
