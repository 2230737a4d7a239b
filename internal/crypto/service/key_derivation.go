package service

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/riskforge/compliance/internal/crypto/domain"
)

// DeriveKey derives a 32-byte symmetric key from the master secret and a
// per-operation random salt using PBKDF2-SHA256 with a fixed, deliberately
// slow iteration count.
//
// The derivation is deterministic for identical inputs: decryption re-derives
// the same key from the salt stored in the blob. The salt must come from
// crypto/rand and must never be reused across encrypt calls.
func DeriveKey(masterSecret, salt []byte) []byte {
	return pbkdf2.Key(
		masterSecret,
		salt,
		cryptoDomain.KDFIterations,
		cryptoDomain.KeySize,
		sha256.New,
	)
}
