package analyzer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clausegrade/internal/clauses"
	"clausegrade/internal/domain"
	"clausegrade/internal/extract"
	"clausegrade/internal/hybrid"
	"clausegrade/internal/ports"
)

const arbitration = "Disputes shall be resolved by binding arbitration administered by JAMS."

var fixed = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

type stubFetcher struct {
	res   ports.FetchResult
	err   error
	calls int
}

func (f *stubFetcher) FetchPolicies(context.Context, string) (ports.FetchResult, error) {
	f.calls++
	return f.res, f.err
}

type memCache struct {
	m    map[string]domain.AnalysisResult
	sets int
}

func (c *memCache) Get(_ context.Context, key string) (domain.AnalysisResult, bool, error) {
	r, ok := c.m[key]
	return r, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, r domain.AnalysisResult) error {
	c.m[key] = r
	c.sets++
	return nil
}

type stubModel struct {
	reply string
	calls int
}

func (m *stubModel) Chat(context.Context, []ports.Message) (string, error) {
	m.calls++
	return m.reply, nil
}

func newService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	ex, err := extract.New(clauses.Default())
	require.NoError(t, err)
	return New(ex, nil, append([]Option{WithClock(func() time.Time { return fixed })}, opts...)...)
}

func fetched(src domain.PolicySource, text string) domain.Document {
	return domain.Document{Source: src, Provenance: domain.ProvenanceFetched, URL: "https://shop.example.com/x", Text: text}
}

func TestSuppliedTextIsNotDiscounted(t *testing.T) {
	s := newService(t)
	out, err := s.Analyze(context.Background(), ports.AnalysisRequest{PolicyText: arbitration})
	require.NoError(t, err)

	r := out.Result
	require.Len(t, r.RiskFactors, 1)
	f := r.RiskFactors[0]
	assert.Equal(t, "binding_arbitration", f.Factor)
	assert.Equal(t, domain.SeverityHigh, f.Severity)
	assert.Nil(t, f.SeverityNote)
	assert.Equal(t, domain.SourceUnknown, f.FoundIn)
	assert.Equal(t, domain.StatusTextProvided, r.Status)
	assert.Equal(t, domain.ConfidenceHigh, r.Confidence)
	assert.Equal(t, 2.0, *r.RiskScore)
	assert.Equal(t, "2026-03-01T09:30:00Z", r.AnalyzedAt)
	assert.Empty(t, out.Subject.SellerDomain)
}

func TestFetchedTermsAreDiscounted(t *testing.T) {
	fx := &stubFetcher{res: ports.FetchResult{Attempted: 4, Documents: []domain.Document{fetched(domain.SourceTerms, arbitration)}}}
	s := newService(t, WithFetcher(fx))

	out, err := s.Analyze(context.Background(), ports.AnalysisRequest{URL: "https://shop.example.com/cart"})
	require.NoError(t, err)

	r := out.Result
	require.Len(t, r.RiskFactors, 1)
	f := r.RiskFactors[0]
	assert.Equal(t, domain.SeverityLow, f.Severity)
	require.NotNil(t, f.SeverityNote)
	assert.Contains(t, *f.SeverityNote, "typical severity high")
	assert.Equal(t, domain.SourceTerms, f.FoundIn)
	assert.Equal(t, 0.5, *r.RiskScore)
	assert.Equal(t, domain.StatusPartial, r.Status)
	assert.Equal(t, domain.ConfidenceLow, r.Confidence, "one of four categories")
	assert.Equal(t, "example.com", out.Subject.SellerDomain)
}

func TestTextWinsOverURL(t *testing.T) {
	fx := &stubFetcher{}
	s := newService(t, WithFetcher(fx))

	out, err := s.Analyze(context.Background(), ports.AnalysisRequest{URL: "https://shop.example.com", PolicyText: arbitration})
	require.NoError(t, err)
	assert.Zero(t, fx.calls)
	assert.Equal(t, domain.StatusTextProvided, out.Result.Status)
	assert.Equal(t, "example.com", out.Subject.SellerDomain)
}

func TestNoContent(t *testing.T) {
	fx := &stubFetcher{res: ports.FetchResult{Attempted: 4}}
	s := newService(t, WithFetcher(fx))

	out, err := s.Analyze(context.Background(), ports.AnalysisRequest{URL: "https://example.com"})
	require.NoError(t, err)
	r := out.Result
	assert.Equal(t, domain.StatusNoContent, r.Status)
	assert.Equal(t, domain.ConfidenceNone, r.Confidence)
	assert.Equal(t, domain.MethodNone, r.Method)
	assert.Equal(t, domain.RiskUnknown, r.RiskLevel)
	assert.Nil(t, r.RiskScore)
	assert.Nil(t, r.BuyerProtectionRating)
	assert.Nil(t, r.BuyerProtectionScore)
}

func TestCrossDocumentDedupe(t *testing.T) {
	fx := &stubFetcher{res: ports.FetchResult{Attempted: 4, Documents: []domain.Document{
		fetched(domain.SourceReturnPolicy, "All sales are final. "+arbitration+" We offer free shipping on all orders."),
		fetched(domain.SourceShippingPolicy, "We offer free shipping on all orders."),
		fetched(domain.SourceTerms, arbitration+" All sales are final."),
	}}}
	s := newService(t, WithFetcher(fx))

	out, err := s.Analyze(context.Background(), ports.AnalysisRequest{URL: "https://example.com"})
	require.NoError(t, err)
	r := out.Result

	counts := map[string]int{}
	for _, f := range r.RiskFactors {
		counts[f.Factor]++
		if f.Factor == "binding_arbitration" {
			assert.Equal(t, domain.SourceReturnPolicy, f.FoundIn, "first document wins")
			assert.Equal(t, domain.SeverityHigh, f.Severity)
		}
	}
	for id, n := range counts {
		assert.Equal(t, 1, n, id)
	}
	assert.Equal(t, 1, counts["binding_arbitration"])
	assert.Equal(t, 1, counts["final_sale"])
	assert.Equal(t, []domain.Positive{"Free shipping"}, r.Positives)
	assert.Equal(t, domain.StatusPartial, r.Status)
	assert.Equal(t, domain.ConfidenceMedium, r.Confidence)
}

func TestRequestErrors(t *testing.T) {
	s := newService(t)
	_, err := s.Analyze(context.Background(), ports.AnalysisRequest{PolicyText: "   "})
	assert.ErrorIs(t, err, ErrEmptyRequest)

	_, err = s.Analyze(context.Background(), ports.AnalysisRequest{URL: "https://example.com"})
	assert.ErrorIs(t, err, ErrNoFetcher)

	_, err = s.Analyze(context.Background(), ports.AnalysisRequest{URL: "example.com"})
	assert.Error(t, err)

	boom := errors.New("boom")
	s = newService(t, WithFetcher(&stubFetcher{err: boom}))
	_, err = s.Analyze(context.Background(), ports.AnalysisRequest{URL: "https://example.com"})
	assert.ErrorIs(t, err, boom)
}

func TestCachesURLResults(t *testing.T) {
	fx := &stubFetcher{res: ports.FetchResult{Attempted: 4, Documents: []domain.Document{fetched(domain.SourceTerms, arbitration)}}}
	cache := &memCache{m: map[string]domain.AnalysisResult{}}
	s := newService(t, WithFetcher(fx), WithCache(cache))

	first, err := s.Analyze(context.Background(), ports.AnalysisRequest{URL: "https://Shop.Example.com/a"})
	require.NoError(t, err)
	second, err := s.Analyze(context.Background(), ports.AnalysisRequest{URL: "https://shop.example.com/b"})
	require.NoError(t, err)

	assert.Equal(t, 1, fx.calls)
	assert.Equal(t, 1, cache.sets)
	assert.Contains(t, cache.m, "shop.example.com")
	assert.Equal(t, first.Result, second.Result)

	_, err = s.Analyze(context.Background(), ports.AnalysisRequest{PolicyText: arbitration})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets, "supplied text is not cached")
}

func TestHybridToggle(t *testing.T) {
	m := &stubModel{reply: `{"validated":[],"additional":[{"factor":"auto_renewal","severity":"medium"}]}`}
	v, err := hybrid.New(m, clauses.Default(), hybrid.DefaultConfig(), nil)
	require.NoError(t, err)
	s := newService(t, WithValidator(v, false))

	out, err := s.Analyze(context.Background(), ports.AnalysisRequest{PolicyText: arbitration})
	require.NoError(t, err)
	assert.Equal(t, domain.MethodDeterministic, out.Result.Method)
	assert.Zero(t, m.calls)

	on := true
	out, err = s.Analyze(context.Background(), ports.AnalysisRequest{PolicyText: arbitration, Hybrid: &on})
	require.NoError(t, err)
	assert.Equal(t, 1, m.calls)
	assert.Equal(t, domain.MethodDeterministicGenerative, out.Result.Method)
	assert.Equal(t, []string{"binding_arbitration", "auto_renewal"}, out.Result.Flags)
	assert.Equal(t, 3.0, *out.Result.RiskScore)
}
