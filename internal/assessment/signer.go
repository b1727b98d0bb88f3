// Package assessment signs analysis results into verifiable assessments and
// verifies them. Payloads are canonicalized with RFC 8785 (JCS), hashed with
// SHA-256 and signed with Ed25519.
package assessment

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gowebpki/jcs"

	"clausegrade/internal/domain"
)

// DefaultTTL is how long an assessment stays valid after issuance.
const DefaultTTL = 5 * time.Minute

var ErrInvalidKey = errors.New("assessment: invalid signing key")

// Signer issues signed assessments with a single Ed25519 key.
type Signer struct {
	key    ed25519.PrivateKey
	keyID  string
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Signer)

func WithTTL(d time.Duration) Option { return func(s *Signer) { s.ttl = d } }

func WithClock(now func() time.Time) Option { return func(s *Signer) { s.now = now } }

// NewSigner builds a signer. An empty keyID is derived from the public key.
func NewSigner(key ed25519.PrivateKey, keyID, issuer string, opts ...Option) (*Signer, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, ErrInvalidKey
	}
	if keyID == "" {
		keyID = DeriveKeyID(key.Public().(ed25519.PublicKey))
	}
	s := &Signer{key: key, keyID: keyID, issuer: issuer, ttl: DefaultTTL, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// GenerateKey returns a fresh Ed25519 private key.
func GenerateKey() (ed25519.PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("assessment: key generation failed: %w", err)
	}
	return priv, nil
}

// KeyFromSeed decodes a base64 (standard or URL, padded or not) 32-byte seed.
func KeyFromSeed(encoded string) (ed25519.PrivateKey, error) {
	seed, err := decodeBase64(encoded)
	if err != nil || len(seed) != ed25519.SeedSize {
		return nil, ErrInvalidKey
	}
	return ed25519.NewKeyFromSeed(seed), nil
}

// EncodeSeed is the inverse of KeyFromSeed.
func EncodeSeed(key ed25519.PrivateKey) string {
	return base64.StdEncoding.EncodeToString(key.Seed())
}

// DeriveKeyID is the first 16 hex characters of SHA-256 over the public key.
func DeriveKeyID(pub ed25519.PublicKey) string {
	sum := sha256.Sum256(pub)
	return hex.EncodeToString(sum[:8])
}

func (s *Signer) KeyID() string { return s.keyID }

func (s *Signer) Issuer() string { return s.issuer }

func (s *Signer) PublicKey() ed25519.PublicKey { return s.key.Public().(ed25519.PublicKey) }

// KeySet returns the verification keys for this signer.
func (s *Signer) KeySet() KeySet { return KeySet{s.keyID: s.PublicKey()} }

// Signed is a signed payload before it is wrapped with URLs for transport.
type Signed struct {
	Payload     domain.Payload
	Canonical   []byte
	Signature   string
	PayloadHash string
}

// Sign builds the payload for result and subject, stamps issue and expiry
// times, and signs the canonical bytes.
func (s *Signer) Sign(result domain.AnalysisResult, subject domain.Subject) (Signed, error) {
	issued := s.now().UTC().Truncate(time.Second)
	p := domain.Payload{
		SchemaVersion: domain.SchemaVersion,
		Issuer:        s.issuer,
		KeyID:         s.keyID,
		AssessmentID:  uuid.NewString(),
		IssuedAt:      domain.FormatTime(issued),
		ExpiresAt:     domain.FormatTime(issued.Add(s.ttl)),
		Subject:       subject,
		Result:        result,
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return Signed{}, fmt.Errorf("assessment: marshal payload: %w", err)
	}
	canon, err := Canonicalize(raw)
	if err != nil {
		return Signed{}, err
	}
	sig := ed25519.Sign(s.key, canon)
	return Signed{
		Payload:     p,
		Canonical:   canon,
		Signature:   base64.RawURLEncoding.EncodeToString(sig),
		PayloadHash: HashHex(canon),
	}, nil
}

// Canonicalize returns the RFC 8785 form of a JSON document.
func Canonicalize(raw []byte) ([]byte, error) {
	out, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("assessment: canonicalize: %w", err)
	}
	return out, nil
}

// HashHex is the "sha256:"-prefixed hex digest of canonical bytes.
func HashHex(canon []byte) string {
	sum := sha256.Sum256(canon)
	return "sha256:" + hex.EncodeToString(sum[:])
}

func decodeBase64(s string) ([]byte, error) {
	for _, enc := range []*base64.Encoding{base64.RawURLEncoding, base64.URLEncoding, base64.RawStdEncoding, base64.StdEncoding} {
		if b, err := enc.DecodeString(s); err == nil {
			return b, nil
		}
	}
	return nil, errors.New("invalid base64")
}
