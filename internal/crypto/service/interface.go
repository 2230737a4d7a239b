// Package service provides the cryptographic services of the compliance core:
// PBKDF2 key derivation, tenant-bound AES-256-GCM encryption, and HMAC-SHA256
// integrity signing over canonical byte representations.
package service

import (
	cryptoDomain "github.com/riskforge/compliance/internal/crypto/domain"
)

// Cipher defines tenant-bound authenticated encryption of byte payloads.
type Cipher interface {
	// Encrypt encrypts plaintext bound to tenantTag and returns the opaque blob.
	Encrypt(plaintext []byte, tenantTag string) (*cryptoDomain.EncryptedBlob, error)

	// Decrypt authenticates and decrypts a blob produced by Encrypt with the
	// same tenantTag. Never returns plaintext on a verification failure.
	Decrypt(blob *cryptoDomain.EncryptedBlob, tenantTag string) ([]byte, error)
}

// Signer defines keyed-MAC signing and verification over canonical bytes.
type Signer interface {
	// Sign computes the MAC of canonical using the process-wide signing key.
	Sign(canonical []byte) []byte

	// SignWithKey computes the MAC of canonical using a caller-supplied key,
	// bypassing the process-wide key. Used for re-verification against
	// historical keys.
	SignWithKey(canonical, key []byte) []byte

	// Verify recomputes the MAC and compares it to signature in constant time.
	Verify(canonical, signature []byte) bool
}
