package assessment

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
)

// JWK is an OKP Ed25519 public key (RFC 8037).
type JWK struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	Kid string `json:"kid"`
	X   string `json:"x"`
	Use string `json:"use,omitempty"`
	Alg string `json:"alg,omitempty"`
}

type JWKS struct {
	Keys []JWK `json:"keys"`
}

// JWKS renders the set sorted by key id.
func (ks KeySet) JWKS() JWKS {
	ids := make([]string, 0, len(ks))
	for id := range ks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := JWKS{Keys: make([]JWK, 0, len(ids))}
	for _, id := range ids {
		out.Keys = append(out.Keys, JWK{
			Kty: "OKP",
			Crv: "Ed25519",
			Kid: id,
			X:   base64.RawURLEncoding.EncodeToString(ks[id]),
			Use: "sig",
			Alg: "EdDSA",
		})
	}
	return out
}

// ParseJWKS reads Ed25519 keys from a JWKS document. Keys of other types are skipped.
func ParseJWKS(b []byte) (KeySet, error) {
	var doc JWKS
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("assessment: parse jwks: %w", err)
	}
	ks := make(KeySet, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Kty != "OKP" || k.Crv != "Ed25519" || k.Kid == "" {
			continue
		}
		x, err := base64.RawURLEncoding.DecodeString(k.X)
		if err != nil || len(x) != ed25519.PublicKeySize {
			return nil, fmt.Errorf("assessment: key %q: invalid x", k.Kid)
		}
		ks[k.Kid] = ed25519.PublicKey(x)
	}
	return ks, nil
}
