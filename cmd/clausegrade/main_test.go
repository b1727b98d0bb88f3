package main

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clausegrade/internal/assessment"
	"clausegrade/internal/domain"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	analyzeFlags.file, analyzeFlags.url = "", ""
	verifyFlags.envelope, verifyFlags.jwks = "", ""
	keygenFlags.jwksPath = ""
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o600))
	return p
}

func TestAnalyzeFile(t *testing.T) {
	path := writeFile(t, "returns.txt", []byte("All sales are final. No returns or exchanges accepted."))
	out, err := execute(t, "analyze", "-f", path)
	require.NoError(t, err)

	var r domain.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, domain.StatusTextProvided, r.Status)
	require.NotNil(t, r.RiskScore)
	assert.Equal(t, 8.0, *r.RiskScore)
	assert.Contains(t, r.Flags, "final_sale")
}

func TestKeygen(t *testing.T) {
	jwksPath := filepath.Join(t.TempDir(), "jwks.json")
	out, err := execute(t, "keygen", "--jwks", jwksPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	seed, ok := strings.CutPrefix(lines[0], "SIGNING_KEY=")
	require.True(t, ok)
	kid, ok := strings.CutPrefix(lines[1], "SIGNING_KEY_ID=")
	require.True(t, ok)

	key, err := assessment.KeyFromSeed(seed)
	require.NoError(t, err)
	assert.Equal(t, assessment.DeriveKeyID(key.Public().(ed25519.PublicKey)), kid)

	b, err := os.ReadFile(jwksPath)
	require.NoError(t, err)
	ks, err := assessment.ParseJWKS(b)
	require.NoError(t, err)
	assert.Contains(t, ks, kid)
}

func TestVerifyEnvelope(t *testing.T) {
	key, err := assessment.GenerateKey()
	require.NoError(t, err)
	signer, err := assessment.NewSigner(key, "", "https://grade.test")
	require.NoError(t, err)
	signed, err := signer.Sign(domain.NoContent(time.Now()), domain.Subject{SellerDomain: "example.com"})
	require.NoError(t, err)

	jwks, err := json.Marshal(signer.KeySet().JWKS())
	require.NoError(t, err)
	jwksPath := writeFile(t, "jwks.json", jwks)

	envelope := func(payload []byte) string {
		b, err := json.Marshal(domain.Envelope{
			SignedAssessment:  payload,
			Signature:         signed.Signature,
			SignedPayloadHash: signed.PayloadHash,
		})
		require.NoError(t, err)
		return writeFile(t, "envelope.json", b)
	}

	out, err := execute(t, "verify", "-f", envelope(signed.Canonical), "--jwks", jwksPath)
	require.NoError(t, err)
	var v domain.Verification
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.True(t, v.Valid)
	assert.Equal(t, "example.com", v.SellerDomain)

	tampered := bytes.Replace(signed.Canonical, []byte(`"example.com"`), []byte(`"evil.com"`), 1)
	out, err = execute(t, "verify", "-f", envelope(tampered), "--jwks", jwksPath)
	require.Error(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.False(t, v.Valid)
	assert.Equal(t, domain.ReasonPayloadHashMismatch, v.Reason)
}

func TestVerifyRequiresJWKS(t *testing.T) {
	_, err := execute(t, "verify", "-f", "envelope.json")
	assert.ErrorContains(t, err, "jwks")
}

func TestClauses(t *testing.T) {
	out, err := execute(t, "clauses")
	require.NoError(t, err)
	assert.Contains(t, out, "no_returns")
	assert.Contains(t, out, "binding_arbitration")
}
