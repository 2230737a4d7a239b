// Package domain defines the cryptographic value types and secret loading for
// the compliance core: encrypted blobs, configured secrets, and their errors.
package domain

import (
	"encoding/base64"
)

// EncryptedBlob is the opaque transport representation of one encrypted payload.
//
// A blob is created once per encrypt call and consumed once by a matching
// decrypt call; it is never mutated. The salt is the key-derivation input
// stored alongside the ciphertext so decryption can re-derive the same key.
//
// Binary layout (fixed offsets): salt ‖ nonce ‖ tag ‖ ciphertext.
type EncryptedBlob struct {
	Salt       []byte
	Nonce      []byte
	Tag        []byte
	Ciphertext []byte
}

// Pack concatenates the blob components into the canonical binary layout.
func (b *EncryptedBlob) Pack() []byte {
	packed := make([]byte, 0, len(b.Salt)+len(b.Nonce)+len(b.Tag)+len(b.Ciphertext))
	packed = append(packed, b.Salt...)
	packed = append(packed, b.Nonce...)
	packed = append(packed, b.Tag...)
	packed = append(packed, b.Ciphertext...)
	return packed
}

// Encode returns the base64 transport encoding of the packed blob.
func (b *EncryptedBlob) Encode() string {
	return base64.StdEncoding.EncodeToString(b.Pack())
}

// UnpackBlob splits a packed binary blob back into its components.
// Returns ErrDecryptionFailed if the input is too short to contain all
// fixed-size components; a truncated blob is indistinguishable from a
// tampered one by design.
func UnpackBlob(packed []byte) (*EncryptedBlob, error) {
	if len(packed) < MinBlobSize {
		return nil, ErrDecryptionFailed
	}

	return &EncryptedBlob{
		Salt:       packed[:SaltSize],
		Nonce:      packed[SaltSize : SaltSize+NonceSize],
		Tag:        packed[SaltSize+NonceSize : MinBlobSize],
		Ciphertext: packed[MinBlobSize:],
	}, nil
}

// DecodeBlob decodes the base64 transport encoding and unpacks the blob.
func DecodeBlob(encoded string) (*EncryptedBlob, error) {
	packed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return UnpackBlob(packed)
}
