package domain

import (
	"github.com/riskforge/compliance/internal/errors"
)

// Cryptographic operation error definitions.
var (
	// ErrMasterSecretNotSet indicates the MASTER_ENCRYPTION_SECRET environment
	// variable is missing. This is a fatal configuration error raised when the
	// cipher is first built, not a per-call error.
	ErrMasterSecretNotSet = errors.Wrap(
		errors.ErrConfiguration,
		"MASTER_ENCRYPTION_SECRET environment variable not set",
	)

	// ErrSigningSecretNotSet indicates the AUDIT_SIGNING_SECRET environment
	// variable is missing. Fatal configuration error, same as above.
	ErrSigningSecretNotSet = errors.Wrap(
		errors.ErrConfiguration,
		"AUDIT_SIGNING_SECRET environment variable not set",
	)

	// ErrInvalidSecretBase64 indicates a configured secret is not valid base64.
	ErrInvalidSecretBase64 = errors.Wrap(
		errors.ErrConfiguration,
		"secret must be base64-encoded",
	)

	// ErrDecryptionFailed indicates a decryption operation failed.
	//
	// This single error covers tag mismatch, wrong tenant tag, corrupted
	// ciphertext, and malformed/truncated blobs. The specific cause is never
	// disclosed: distinguishing them would give an attacker a padding/tag
	// oracle. Callers must treat the payload as unreadable.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrSignatureInvalid indicates an HMAC signature did not verify against
	// the canonical representation of the signed fields.
	ErrSignatureInvalid = errors.Wrap(errors.ErrInvalidInput, "signature invalid")
)
