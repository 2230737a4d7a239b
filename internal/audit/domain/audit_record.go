// Package domain defines the audit trail entities: immutable audit records,
// their canonical signature input, query filters, and compliance reports.
package domain

import (
	"encoding/binary"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"
)

// EncryptedDetailsKey is the single key present in the Details map once the
// plaintext detail payload has been replaced by its encrypted blob.
const EncryptedDetailsKey = "encrypted"

// AuditRecord is one immutable fact about a system action.
//
// A record is created once per audited action, appended to an append-only
// store, and never updated or deleted. The signature covers the canonical
// serialization of {actor, tenant, action, resource type, resource ID,
// timestamp}; the detail map is stored only in encrypted form when non-empty
// and is not part of the signed fields, so verification never needs the
// plaintext details.
type AuditRecord struct {
	ID           uuid.UUID
	Actor        string
	Tenant       string
	Action       string
	ResourceType string
	ResourceID   string
	Details      map[string]any
	IPAddress    string
	UserAgent    string
	CreatedAt    time.Time
	Signature    []byte
}

// CanonicalBytes serializes the signed fields into the canonical byte
// representation for signing and verification.
//
// Format v1 (fixed, versioned — reordering fields silently invalidates every
// previously issued signature): length-prefixed UTF-8 strings in the order
// actor ‖ tenant ‖ action ‖ resourceType ‖ resourceID, followed by the
// timestamp as 8-byte big-endian Unix nanoseconds. Length prefixes are
// 4-byte big-endian, which prevents ambiguity between adjacent
// variable-length fields.
func (r *AuditRecord) CanonicalBytes() []byte {
	// Typical record is well under 1KB
	buf := make([]byte, 0, 1024)

	buf = appendLengthPrefixed(buf, []byte(r.Actor))
	buf = appendLengthPrefixed(buf, []byte(r.Tenant))
	buf = appendLengthPrefixed(buf, []byte(r.Action))
	buf = appendLengthPrefixed(buf, []byte(r.ResourceType))
	buf = appendLengthPrefixed(buf, []byte(r.ResourceID))

	timeBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(timeBytes, uint64(r.CreatedAt.UnixNano()))
	buf = append(buf, timeBytes...)

	return buf
}

// HasEncryptedDetails reports whether the detail map has been replaced by its
// encrypted transport form.
func (r *AuditRecord) HasEncryptedDetails() bool {
	if len(r.Details) != 1 {
		return false
	}
	_, ok := r.Details[EncryptedDetailsKey]
	return ok
}

// appendLengthPrefixed adds a 4-byte big-endian length prefix followed by data.
func appendLengthPrefixed(buf []byte, data []byte) []byte {
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))
	buf = append(buf, length...)
	buf = append(buf, data...)
	return buf
}

// RecordInput carries the caller-supplied facts for one audit record.
// Identifiers are validated for basic non-emptiness only; action names are
// free-form strings such as "scenario.create" or "compliance.check".
type RecordInput struct {
	Actor        string
	Tenant       string
	Action       string
	ResourceType string
	ResourceID   string
	Details      map[string]any
	IPAddress    string
	UserAgent    string
}

// Validate checks the basic non-emptiness of the identifying fields. The
// detail map and network context are caller-supplied and deliberately not
// validated beyond this.
func (i *RecordInput) Validate() error {
	return validation.ValidateStruct(i,
		validation.Field(&i.Actor, validation.Required),
		validation.Field(&i.Tenant, validation.Required),
		validation.Field(&i.Action, validation.Required),
		validation.Field(&i.ResourceType, validation.Required),
		validation.Field(&i.ResourceID, validation.Required),
	)
}
