package assessment

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clausegrade/internal/domain"
	"clausegrade/internal/scoring"
)

var issued = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testSigner(t *testing.T, opts ...Option) *Signer {
	t.Helper()
	key, err := KeyFromSeed("AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8")
	require.NoError(t, err)
	opts = append([]Option{WithClock(func() time.Time { return issued })}, opts...)
	s, err := NewSigner(key, "", "https://clausegrade.test", opts...)
	require.NoError(t, err)
	return s
}

func testResult() domain.AnalysisResult {
	return scoring.Finalize([]domain.RiskFactor{
		{Factor: "final_sale", Severity: domain.SeverityHigh, Detail: "All sales are final.", Source: domain.DetectorDeterministic, FoundIn: domain.SourceUnknown},
		{Factor: "restocking_fee", Severity: domain.SeverityMedium, Detail: "Restocking fee (15%)", Source: domain.DetectorDeterministic, FoundIn: domain.SourceUnknown},
	}, []domain.Positive{"Free shipping"}, scoring.Coverage{TextProvided: true}, domain.MethodDeterministic, issued)
}

func sign(t *testing.T, s *Signer) Signed {
	t.Helper()
	out, err := s.Sign(testResult(), domain.Subject{SellerDomain: "example.com", URL: "https://shop.example.com"})
	require.NoError(t, err)
	return out
}

func mutate(t *testing.T, raw []byte, fn func(m map[string]any)) []byte {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	fn(m)
	b, err := json.Marshal(m)
	require.NoError(t, err)
	return b
}

func TestSignVerifyRoundTrip(t *testing.T) {
	s := testSigner(t)
	sig := sign(t, s)

	assert.Equal(t, "2026-03-01T12:00:00Z", sig.Payload.IssuedAt)
	assert.Equal(t, "2026-03-01T12:05:00Z", sig.Payload.ExpiresAt)
	assert.Equal(t, s.KeyID(), sig.Payload.KeyID)
	assert.Len(t, s.KeyID(), 16)
	assert.Equal(t, HashHex(sig.Canonical), sig.PayloadHash)

	v := Verify(sig.Canonical, sig.Signature, sig.PayloadHash, s.KeySet(), issued.Add(time.Minute))
	assert.True(t, v.Valid)
	assert.Empty(t, v.Reason)
	assert.Equal(t, sig.Payload.AssessmentID, v.AssessmentID)
	assert.Equal(t, "example.com", v.SellerDomain)
	assert.Equal(t, "2026-03-01T12:05:00Z", v.ExpiresAt)
	assert.Equal(t, "2026-03-01T12:01:00Z", v.VerifiedAt)
}

func TestVerifyAcceptsReorderedKeys(t *testing.T) {
	s := testSigner(t)
	sig := sign(t, s)
	reordered := mutate(t, sig.Canonical, func(map[string]any) {})

	v := Verify(reordered, sig.Signature, "", s.KeySet(), issued)
	assert.True(t, v.Valid)
}

func TestVerifyDetectsTampering(t *testing.T) {
	s := testSigner(t)
	sig := sign(t, s)

	cases := map[string]func(m map[string]any){
		"risk score": func(m map[string]any) {
			m["result"].(map[string]any)["risk_score"] = 1.0
		},
		"seller domain": func(m map[string]any) {
			m["subject"].(map[string]any)["seller_domain"] = "evil.example"
		},
		"extended expiry": func(m map[string]any) { m["expires_at"] = "2030-01-01T00:00:00Z" },
		"added field":     func(m map[string]any) { m["note"] = "trust me" },
		"dropped factor": func(m map[string]any) {
			r := m["result"].(map[string]any)
			r["risk_factors"] = r["risk_factors"].([]any)[:1]
		},
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			raw := mutate(t, sig.Canonical, fn)
			v := Verify(raw, sig.Signature, "", s.KeySet(), issued.Add(time.Minute))
			assert.False(t, v.Valid)
			assert.Equal(t, domain.ReasonSignatureMismatch, v.Reason)
		})
	}
}

func TestVerifyExpiry(t *testing.T) {
	s := testSigner(t)
	sig := sign(t, s)

	v := Verify(sig.Canonical, sig.Signature, "", s.KeySet(), issued.Add(4*time.Minute+59*time.Second))
	assert.True(t, v.Valid)

	v = Verify(sig.Canonical, sig.Signature, "", s.KeySet(), issued.Add(5*time.Minute))
	assert.False(t, v.Valid)
	assert.Equal(t, domain.ReasonExpired, v.Reason)
	assert.Equal(t, sig.Payload.AssessmentID, v.AssessmentID, "expired results still identify the assessment")
}

func TestVerifyRejections(t *testing.T) {
	s := testSigner(t)
	sig := sign(t, s)
	now := issued.Add(time.Minute)

	other, err := GenerateKey()
	require.NoError(t, err)
	foreign, err := NewSigner(other, "", "x", WithClock(func() time.Time { return issued }))
	require.NoError(t, err)

	backwards := testSigner(t, WithTTL(-time.Minute))
	bad := sign(t, backwards)

	wrongSchema := mutate(t, sig.Canonical, func(m map[string]any) { m["schema_version"] = "clausegrade.assessment/v0" })

	cases := []struct {
		name      string
		raw       []byte
		signature string
		hash      string
		keys      KeySet
		want      string
	}{
		{"empty", nil, sig.Signature, "", s.KeySet(), domain.ReasonMalformedAssessment},
		{"not json", []byte("hello"), sig.Signature, "", s.KeySet(), domain.ReasonMalformedAssessment},
		{"json array", []byte(`[1,2]`), sig.Signature, "", s.KeySet(), domain.ReasonMalformedAssessment},
		{"wrong types", []byte(`{"schema_version":7}`), sig.Signature, "", s.KeySet(), domain.ReasonMalformedAssessment},
		{"schema version", wrongSchema, sig.Signature, "", s.KeySet(), domain.ReasonUnsupportedSchema},
		{"no signature", sig.Canonical, "  ", "", s.KeySet(), domain.ReasonMissingSignature},
		{"garbage signature", sig.Canonical, "!!!not-base64!!!", "", s.KeySet(), domain.ReasonMalformedSignature},
		{"short signature", sig.Canonical, "AAAA", "", s.KeySet(), domain.ReasonMalformedSignature},
		{"unknown key", sig.Canonical, sig.Signature, "", foreign.KeySet(), domain.ReasonUnknownKey},
		{"hash mismatch", sig.Canonical, sig.Signature, "sha256:00", s.KeySet(), domain.ReasonPayloadHashMismatch},
		{"other signer", sig.Canonical, sign(t, foreign).Signature, "", KeySet{s.KeyID(): foreign.PublicKey()}, domain.ReasonSignatureMismatch},
		{"expiry before issue", bad.Canonical, bad.Signature, "", backwards.KeySet(), domain.ReasonInvalidTimestamps},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := Verify(tc.raw, tc.signature, tc.hash, tc.keys, now)
			assert.False(t, v.Valid)
			assert.Equal(t, tc.want, v.Reason)
			assert.NotEmpty(t, v.VerifiedAt)
		})
	}
}

func TestJWKSRoundTrip(t *testing.T) {
	s := testSigner(t)
	doc := s.KeySet().JWKS()
	require.Len(t, doc.Keys, 1)
	assert.Equal(t, "OKP", doc.Keys[0].Kty)
	assert.Equal(t, "Ed25519", doc.Keys[0].Crv)
	assert.Equal(t, s.KeyID(), doc.Keys[0].Kid)

	b, err := json.Marshal(doc)
	require.NoError(t, err)
	ks, err := ParseJWKS(b)
	require.NoError(t, err)
	assert.Equal(t, s.KeySet(), ks)

	sig := sign(t, s)
	assert.True(t, Verify(sig.Canonical, sig.Signature, sig.PayloadHash, ks, issued).Valid)
}

func TestKeyFromSeed(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)
	back, err := KeyFromSeed(EncodeSeed(key))
	require.NoError(t, err)
	assert.Equal(t, key, back)

	_, err = KeyFromSeed("c2hvcnQ")
	assert.ErrorIs(t, err, ErrInvalidKey)
}
