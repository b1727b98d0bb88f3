package assessment

import (
	"bytes"
	"crypto/ed25519"
	"crypto/subtle"
	"encoding/json"
	"strings"
	"time"

	"clausegrade/internal/domain"
)

// KeySet maps key ids to Ed25519 public keys.
type KeySet map[string]ed25519.PublicKey

// Verify checks a signed assessment. It is total: every input yields a
// Verification, never a panic or error. The signature is checked before
// expiry so a tampered expires_at reports signature_mismatch.
func Verify(raw json.RawMessage, signature string, payloadHash string, keys KeySet, now time.Time) domain.Verification {
	now = now.UTC()
	reject := func(reason string) domain.Verification {
		return domain.Verification{Valid: false, Reason: reason, VerifiedAt: domain.FormatTime(now)}
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return reject(domain.ReasonMalformedAssessment)
	}
	var p domain.Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return reject(domain.ReasonMalformedAssessment)
	}
	if p.SchemaVersion != domain.SchemaVersion {
		return reject(domain.ReasonUnsupportedSchema)
	}
	if strings.TrimSpace(signature) == "" {
		return reject(domain.ReasonMissingSignature)
	}
	sig, err := decodeBase64(strings.TrimSpace(signature))
	if err != nil || len(sig) != ed25519.SignatureSize {
		return reject(domain.ReasonMalformedSignature)
	}
	pub, ok := keys[p.KeyID]
	if !ok || len(pub) != ed25519.PublicKeySize {
		return reject(domain.ReasonUnknownKey)
	}

	// Canonicalize what was received, not a re-marshalled struct, so added
	// or reordered fields are covered too.
	canon, err := Canonicalize(raw)
	if err != nil {
		return reject(domain.ReasonMalformedAssessment)
	}
	if payloadHash != "" {
		want := HashHex(canon)
		if subtle.ConstantTimeCompare([]byte(want), []byte(strings.TrimSpace(payloadHash))) != 1 {
			return reject(domain.ReasonPayloadHashMismatch)
		}
	}
	if !ed25519.Verify(pub, canon, sig) {
		return reject(domain.ReasonSignatureMismatch)
	}

	issued, err1 := domain.ParseTime(p.IssuedAt)
	expires, err2 := domain.ParseTime(p.ExpiresAt)
	if err1 != nil || err2 != nil || !expires.After(issued) {
		return reject(domain.ReasonInvalidTimestamps)
	}
	out := domain.Verification{
		AssessmentID: p.AssessmentID,
		SellerDomain: p.Subject.SellerDomain,
		ExpiresAt:    p.ExpiresAt,
		VerifiedAt:   domain.FormatTime(now),
	}
	if !now.Before(expires) {
		out.Reason = domain.ReasonExpired
		return out
	}
	out.Valid = true
	return out
}
