package commands

import (
	"bytes"
	"encoding/base64"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunCreateSecrets(t *testing.T) {
	var out bytes.Buffer
	err := RunCreateSecrets(&out)
	require.NoError(t, err)

	output := out.String()
	require.Contains(t, output, "MASTER_ENCRYPTION_SECRET=")
	require.Contains(t, output, "AUDIT_SIGNING_SECRET=")

	// Both values decode to the expected secret length.
	re := regexp.MustCompile(`(?m)^(MASTER_ENCRYPTION_SECRET|AUDIT_SIGNING_SECRET)="([^"]+)"$`)
	matches := re.FindAllStringSubmatch(output, -1)
	require.Len(t, matches, 2)

	for _, match := range matches {
		decoded, err := base64.StdEncoding.DecodeString(match[2])
		require.NoError(t, err)
		require.Len(t, decoded, secretLength)
	}

	// The two secrets are independent.
	require.NotEqual(t, matches[0][2], matches[1][2])
}
