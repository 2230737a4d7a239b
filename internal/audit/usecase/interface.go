// Package usecase implements the audit trail: building, signing, encrypting,
// persisting, verifying, and querying audit records.
package usecase

import (
	"context"
	"time"

	auditDomain "github.com/riskforge/compliance/internal/audit/domain"
)

// AuditRecordRepository defines persistence for the append-only audit store.
// There are deliberately no update or delete operations.
type AuditRecordRepository interface {
	// Create appends a new audit record to the store.
	Create(ctx context.Context, record *auditDomain.AuditRecord) error

	// List retrieves a tenant's records matching the filters, ordered by
	// creation time descending. A Limit <= 0 means no limit.
	List(
		ctx context.Context,
		tenant string,
		filters *auditDomain.QueryFilters,
	) ([]*auditDomain.AuditRecord, error)
}

// AuditTrail defines the audit logging operations of the compliance core.
type AuditTrail interface {
	// Record builds, signs, and persists an audit record from caller-supplied
	// facts, encrypting any non-empty detail map under the tenant tag first.
	//
	// Record never propagates failures: a broken audit backend must not block
	// the primary business operation it is describing. Persistence errors are
	// logged and discarded, and the signed record is still returned. A nil
	// return means the record could not even be built (invalid input or
	// crypto failure), which is likewise only observable through logs.
	Record(ctx context.Context, input *auditDomain.RecordInput) *auditDomain.AuditRecord

	// Verify recomputes the canonical signature input from the record's core
	// fields and checks it against the stored signature. Pure, no side effects.
	Verify(record *auditDomain.AuditRecord) bool

	// Query returns a tenant's matching records if the requester role is
	// privileged; otherwise fails with ErrUnauthorizedRole.
	Query(
		ctx context.Context,
		tenant string,
		filters *auditDomain.QueryFilters,
		role auditDomain.RequesterRole,
	) ([]*auditDomain.AuditRecord, error)

	// ComplianceReport aggregates action and actor counts for the window and
	// re-verifies every record in range to produce the integrity status.
	ComplianceReport(
		ctx context.Context,
		tenant string,
		start, end time.Time,
	) (*auditDomain.ComplianceReport, error)
}
