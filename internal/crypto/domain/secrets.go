package domain

import (
	"encoding/base64"
	"fmt"
	"os"
)

// Secrets holds the two process-wide secrets consumed by the compliance core:
// the master encryption secret (input to key derivation) and the audit signing
// secret (input to HMAC signing-key derivation).
//
// The two secrets are deliberately independent so that compromising the audit
// trail's signing key never exposes encrypted payloads, and vice versa.
type Secrets struct {
	MasterSecret  []byte
	SigningSecret []byte
}

// Close zeroes both secrets in memory. Call on application shutdown.
func (s *Secrets) Close() {
	zero(s.MasterSecret)
	zero(s.SigningSecret)
	s.MasterSecret = nil
	s.SigningSecret = nil
}

// LoadSecretsFromEnv loads the compliance core secrets from environment variables.
//
// Required variables:
//   - MASTER_ENCRYPTION_SECRET: base64-encoded master secret for key derivation
//   - AUDIT_SIGNING_SECRET: base64-encoded secret for audit record signing
//
// A missing variable is a fatal configuration error (ErrMasterSecretNotSet /
// ErrSigningSecretNotSet); callers are expected to fail process startup rather
// than retry. Secrets may be any non-zero length since PBKDF2 and HKDF accept
// arbitrary-length input keying material.
func LoadSecretsFromEnv() (*Secrets, error) {
	master, err := loadBase64Secret("MASTER_ENCRYPTION_SECRET", ErrMasterSecretNotSet)
	if err != nil {
		return nil, err
	}

	signing, err := loadBase64Secret("AUDIT_SIGNING_SECRET", ErrSigningSecretNotSet)
	if err != nil {
		zero(master)
		return nil, err
	}

	return &Secrets{MasterSecret: master, SigningSecret: signing}, nil
}

// loadBase64Secret reads and decodes one base64 secret from the environment.
func loadBase64Secret(envVar string, notSetErr error) ([]byte, error) {
	raw := os.Getenv(envVar)
	if raw == "" {
		return nil, notSetErr
	}

	secret, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSecretBase64, envVar, err)
	}
	if len(secret) == 0 {
		return nil, notSetErr
	}

	return secret, nil
}
