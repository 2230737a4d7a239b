package domain

// Binary layout constants for EncryptedBlob. The blob is self-describing
// without a length header because every component except the ciphertext has
// a fixed, algorithm-defined size.
const (
	// SaltSize is the size in bytes of the random salt fed into key derivation.
	SaltSize = 16

	// NonceSize is the size in bytes of the AES-GCM nonce (96 bits).
	NonceSize = 12

	// TagSize is the size in bytes of the GCM authentication tag (128 bits).
	TagSize = 16

	// KeySize is the size in bytes of derived symmetric keys (AES-256).
	KeySize = 32

	// MinBlobSize is the smallest valid packed blob: all fixed components
	// with an empty ciphertext.
	MinBlobSize = SaltSize + NonceSize + TagSize
)

// KDFIterations is the PBKDF2 iteration count used for key derivation.
// Changing this value invalidates every previously produced blob, since
// decryption re-derives the key with the same parameters.
const KDFIterations = 100_000
