package domain

// zero overwrites sensitive data in memory with zeros.
// Prevents key material from lingering in memory after use.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Zero overwrites sensitive data in memory with zeros. Exported for use by
// the service layer when discarding derived keys.
func Zero(b []byte) {
	zero(b)
}
