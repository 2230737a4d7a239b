package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/riskforge/compliance/internal/crypto/domain"
)

// signingKeyInfo versions the HKDF derivation so the signing algorithm can
// change without silently invalidating historical signatures.
const signingKeyInfo = "audit-record-signing-v1"

// IntegritySigner implements the Signer interface using HMAC-SHA256 over
// canonical byte representations, with the signing key derived from the
// configured signing secret via HKDF-SHA256.
//
// Deriving a dedicated key separates signing-key usage from the raw secret
// and keeps the signer independent from the encryption master secret, so a
// compromise of one never exposes the other.
type IntegritySigner struct {
	signingKey []byte
}

// NewIntegritySigner creates a new IntegritySigner from the configured signing
// secret. An empty secret is a fatal configuration error.
func NewIntegritySigner(signingSecret []byte) (*IntegritySigner, error) {
	if len(signingSecret) == 0 {
		return nil, cryptoDomain.ErrSigningSecretNotSet
	}

	key, err := deriveSigningKey(signingSecret)
	if err != nil {
		return nil, err
	}

	return &IntegritySigner{signingKey: key}, nil
}

// deriveSigningKey uses HKDF-SHA256 to derive a 32-byte signing key.
func deriveSigningKey(secret []byte) ([]byte, error) {
	kdf := hkdf.New(sha256.New, secret, nil, []byte(signingKeyInfo))

	key := make([]byte, cryptoDomain.KeySize)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, err
	}

	return key, nil
}

// Sign computes the HMAC-SHA256 signature of canonical with the derived
// process-wide signing key. Deterministic for identical input.
func (s *IntegritySigner) Sign(canonical []byte) []byte {
	return s.SignWithKey(canonical, s.signingKey)
}

// SignWithKey computes the HMAC-SHA256 signature of canonical with a
// caller-supplied key instead of the process-wide one.
func (s *IntegritySigner) SignWithKey(canonical, key []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(canonical)
	return mac.Sum(nil)
}

// Verify recomputes the signature and compares it with hmac.Equal.
//
// hmac.Equal is a constant-time comparison; a naive bytes.Equal here would be
// a timing side channel letting an attacker recover a valid signature byte by
// byte.
func (s *IntegritySigner) Verify(canonical, signature []byte) bool {
	expected := s.Sign(canonical)
	return hmac.Equal(signature, expected)
}

// Close zeroes the derived signing key.
func (s *IntegritySigner) Close() {
	cryptoDomain.Zero(s.signingKey)
}
