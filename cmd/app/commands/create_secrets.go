package commands

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// secretLength is the byte length of each generated secret. Both PBKDF2 and
// HKDF accept arbitrary-length input keying material; 32 bytes gives 256 bits
// of entropy.
const secretLength = 32

// RunCreateSecrets generates the two process secrets the compliance core
// requires: the master encryption secret and the audit signing secret. The
// secrets are independent so that compromising one never exposes data
// protected by the other.
//
// Output is a pair of environment variable lines ready for a .env file or a
// secrets manager. Raw key material is zeroed from memory after encoding.
func RunCreateSecrets(writer io.Writer) error {
	master := make([]byte, secretLength)
	if _, err := rand.Read(master); err != nil {
		return fmt.Errorf("failed to generate master secret: %w", err)
	}

	signing := make([]byte, secretLength)
	if _, err := rand.Read(signing); err != nil {
		return fmt.Errorf("failed to generate signing secret: %w", err)
	}

	_, _ = fmt.Fprintln(writer, "# Compliance core secrets")
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "MASTER_ENCRYPTION_SECRET=\"%s\"\n", base64.StdEncoding.EncodeToString(master))
	_, _ = fmt.Fprintf(writer, "AUDIT_SIGNING_SECRET=\"%s\"\n", base64.StdEncoding.EncodeToString(signing))

	for i := range master {
		master[i] = 0
	}
	for i := range signing {
		signing[i] = 0
	}

	return nil
}
