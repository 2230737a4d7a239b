package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/riskforge/compliance/internal/crypto/domain"
)

// TenantCipher implements the Cipher interface using AES-256-GCM with a
// per-operation PBKDF2-derived key.
//
// Every Encrypt call generates a fresh random salt and nonce, derives a key
// from the master secret and salt, and binds the tenant tag as additional
// authenticated data. Binding the tenant means ciphertext produced for one
// tenant cannot be replayed or decrypted under another tenant's context even
// though all tenants share the same master secret.
//
// The cipher instance is stateless apart from the master secret and is safe
// for concurrent use from multiple goroutines.
type TenantCipher struct {
	masterSecret []byte
}

// NewTenantCipher creates a new TenantCipher from the configured master secret.
// An empty master secret is a fatal configuration error.
func NewTenantCipher(masterSecret []byte) (*TenantCipher, error) {
	if len(masterSecret) == 0 {
		return nil, cryptoDomain.ErrMasterSecretNotSet
	}
	return &TenantCipher{masterSecret: masterSecret}, nil
}

// Encrypt encrypts plaintext bound to tenantTag.
//
// A fresh 16-byte salt and 12-byte nonce are drawn from crypto/rand per call;
// neither is ever cached or reused, which is what keeps nonce reuse under a
// derived key structurally impossible. The returned blob packs
// salt ‖ nonce ‖ tag ‖ ciphertext at fixed offsets.
func (c *TenantCipher) Encrypt(plaintext []byte, tenantTag string) (*cryptoDomain.EncryptedBlob, error) {
	salt := make([]byte, cryptoDomain.SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, cryptoDomain.NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	key := DeriveKey(c.masterSecret, salt)
	defer cryptoDomain.Zero(key)

	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	// Seal appends the 16-byte tag to the ciphertext; split it back out so
	// the blob carries the tag at its fixed offset.
	sealed := aead.Seal(nil, nonce, plaintext, []byte(tenantTag))
	tagStart := len(sealed) - cryptoDomain.TagSize

	return &cryptoDomain.EncryptedBlob{
		Salt:       salt,
		Nonce:      nonce,
		Tag:        sealed[tagStart:],
		Ciphertext: sealed[:tagStart],
	}, nil
}

// Decrypt authenticates and decrypts a blob under the same tenantTag it was
// encrypted with. The key is re-derived from the blob's embedded salt.
//
// Any failure (tag mismatch, wrong tenant tag, malformed components) returns
// the uniform ErrDecryptionFailed and never partial plaintext.
func (c *TenantCipher) Decrypt(blob *cryptoDomain.EncryptedBlob, tenantTag string) ([]byte, error) {
	if blob == nil ||
		len(blob.Salt) != cryptoDomain.SaltSize ||
		len(blob.Nonce) != cryptoDomain.NonceSize ||
		len(blob.Tag) != cryptoDomain.TagSize {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	key := DeriveKey(c.masterSecret, blob.Salt)
	defer cryptoDomain.Zero(key)

	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	// Reassemble ciphertext ‖ tag for Open.
	sealed := make([]byte, 0, len(blob.Ciphertext)+cryptoDomain.TagSize)
	sealed = append(sealed, blob.Ciphertext...)
	sealed = append(sealed, blob.Tag...)

	plaintext, err := aead.Open(nil, blob.Nonce, sealed, []byte(tenantTag))
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	return plaintext, nil
}

// newGCM builds an AES-256-GCM AEAD from a derived key.
func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return aead, nil
}
