package domain

import "encoding/json"

// SchemaVersion identifies the signed payload layout.
const SchemaVersion = "clausegrade.assessment/v1"

// Payload is the signed body of an assessment. Its canonical (RFC 8785) form
// is what gets hashed and signed; any field change invalidates the signature.
type Payload struct {
	SchemaVersion string         `json:"schema_version"`
	Issuer        string         `json:"issuer"`
	KeyID         string         `json:"key_id"`
	AssessmentID  string         `json:"assessment_id"`
	IssuedAt      string         `json:"issued_at"`
	ExpiresAt     string         `json:"expires_at"`
	Subject       Subject        `json:"subject"`
	Result        AnalysisResult `json:"result"`
}

// Envelope is the issuance response.
type Envelope struct {
	SignedAssessment  json.RawMessage `json:"signed_assessment"`
	Signature         string          `json:"signature"`
	SignedPayloadHash string          `json:"signed_payload_hash"`
	VerificationURL   string          `json:"verification_url"`
	JWKSURL           string          `json:"jwks_url"`
}

type VerifyRequest struct {
	SignedAssessment  json.RawMessage `json:"signed_assessment"`
	Signature         string          `json:"signature"`
	SignedPayloadHash string          `json:"signed_payload_hash,omitempty"`
}

// Rejection reasons. Expiry is distinct from tampering: the first calls for a
// fresh assessment, the second for distrust.
const (
	ReasonMalformedAssessment = "malformed_assessment"
	ReasonUnsupportedSchema   = "unsupported_schema_version"
	ReasonMissingSignature    = "missing_signature"
	ReasonMalformedSignature  = "malformed_signature"
	ReasonUnknownKey          = "unknown_key"
	ReasonSignatureMismatch   = "signature_mismatch"
	ReasonPayloadHashMismatch = "payload_hash_mismatch"
	ReasonInvalidTimestamps   = "invalid_timestamps"
	ReasonExpired             = "expired"
)

type Verification struct {
	Valid        bool   `json:"valid"`
	AssessmentID string `json:"assessment_id,omitempty"`
	SellerDomain string `json:"seller_domain,omitempty"`
	ExpiresAt    string `json:"expires_at,omitempty"`
	VerifiedAt   string `json:"verified_at,omitempty"`
	Reason       string `json:"reason,omitempty"`
}
