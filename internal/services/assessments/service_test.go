package assessments

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clausegrade/internal/assessment"
	"clausegrade/internal/domain"
	"clausegrade/internal/ports"
	"clausegrade/internal/scoring"
)

var issued = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type stubAnalyzer struct{ err error }

func (a stubAnalyzer) Analyze(context.Context, ports.AnalysisRequest) (ports.Analysis, error) {
	if a.err != nil {
		return ports.Analysis{}, a.err
	}
	r := scoring.Finalize([]domain.RiskFactor{{Factor: "no_returns", Severity: domain.SeverityHigh, Detail: "No returns."}},
		nil, scoring.Coverage{TextProvided: true}, domain.MethodDeterministic, issued)
	return ports.Analysis{Result: r, Subject: domain.Subject{SellerDomain: "example.com", URL: "https://example.com"}}, nil
}

type recordLog struct {
	recs []ports.AssessmentRecord
	err  error
}

func (l *recordLog) Record(_ context.Context, rec ports.AssessmentRecord) error {
	l.recs = append(l.recs, rec)
	return l.err
}

func newService(t *testing.T, an ports.Analyzer, now *time.Time, opts ...Option) *Service {
	t.Helper()
	key, err := assessment.GenerateKey()
	require.NoError(t, err)
	clock := func() time.Time { return *now }
	signer, err := assessment.NewSigner(key, "k1", "https://grade.example", assessment.WithClock(clock))
	require.NoError(t, err)
	return New(an, signer, "https://grade.example/", nil, append([]Option{WithClock(clock)}, opts...)...)
}

func TestIssueAndVerify(t *testing.T) {
	now := issued
	log := &recordLog{}
	s := newService(t, stubAnalyzer{}, &now, WithLog(log))

	env, err := s.Issue(context.Background(), ports.AnalysisRequest{PolicyText: "No returns."})
	require.NoError(t, err)
	assert.Equal(t, "https://grade.example/v1/assessments/verify", env.VerificationURL)
	assert.Equal(t, "https://grade.example/.well-known/jwks.json", env.JWKSURL)

	var p domain.Payload
	require.NoError(t, json.Unmarshal(env.SignedAssessment, &p))
	assert.Equal(t, domain.SchemaVersion, p.SchemaVersion)
	assert.Equal(t, "k1", p.KeyID)
	assert.Equal(t, "example.com", p.Subject.SellerDomain)

	require.Len(t, log.recs, 1)
	rec := log.recs[0]
	assert.Equal(t, p.AssessmentID, rec.AssessmentID)
	assert.Equal(t, env.SignedPayloadHash, rec.PayloadHash)
	assert.Equal(t, issued.Add(assessment.DefaultTTL), rec.ExpiresAt)

	now = issued.Add(time.Minute)
	v := s.Verify(context.Background(), domain.VerifyRequest{
		SignedAssessment:  env.SignedAssessment,
		Signature:         env.Signature,
		SignedPayloadHash: env.SignedPayloadHash,
	})
	assert.True(t, v.Valid)
	assert.Equal(t, p.AssessmentID, v.AssessmentID)

	now = issued.Add(6 * time.Minute)
	v = s.Verify(context.Background(), domain.VerifyRequest{SignedAssessment: env.SignedAssessment, Signature: env.Signature})
	assert.False(t, v.Valid)
	assert.Equal(t, domain.ReasonExpired, v.Reason)
}

func TestIssueSurvivesLogFailure(t *testing.T) {
	now := issued
	s := newService(t, stubAnalyzer{}, &now, WithLog(&recordLog{err: errors.New("db down")}))
	_, err := s.Issue(context.Background(), ports.AnalysisRequest{PolicyText: "No returns."})
	assert.NoError(t, err)
}

func TestIssuePropagatesAnalyzerError(t *testing.T) {
	now := issued
	boom := errors.New("boom")
	s := newService(t, stubAnalyzer{err: boom}, &now)
	_, err := s.Issue(context.Background(), ports.AnalysisRequest{})
	assert.ErrorIs(t, err, boom)
}

func TestVerifyWithRetiredKey(t *testing.T) {
	now := issued
	old, err := assessment.GenerateKey()
	require.NoError(t, err)
	oldSigner, err := assessment.NewSigner(old, "k0", "x", assessment.WithClock(func() time.Time { return issued }))
	require.NoError(t, err)
	signed, err := oldSigner.Sign(domain.NoContent(issued), domain.Subject{SellerDomain: "example.com"})
	require.NoError(t, err)

	s := newService(t, stubAnalyzer{}, &now, WithKeys(oldSigner.KeySet()))
	v := s.Verify(context.Background(), domain.VerifyRequest{SignedAssessment: signed.Canonical, Signature: signed.Signature})
	assert.True(t, v.Valid)
	assert.Len(t, s.JWKS().Keys, 2)
}
