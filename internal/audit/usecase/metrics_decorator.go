package usecase

import (
	"context"
	"errors"
	"time"

	auditDomain "github.com/riskforge/compliance/internal/audit/domain"
	"github.com/riskforge/compliance/internal/metrics"
)

// auditTrailWithMetrics decorates AuditTrail with metrics instrumentation.
type auditTrailWithMetrics struct {
	next    AuditTrail
	metrics metrics.BusinessMetrics
}

// NewAuditTrailWithMetrics wraps an AuditTrail with metrics recording.
func NewAuditTrailWithMetrics(trail AuditTrail, m metrics.BusinessMetrics) AuditTrail {
	return &auditTrailWithMetrics{
		next:    trail,
		metrics: m,
	}
}

// Record records metrics for audit record creation. A nil record means the
// inner trail could not build one, which counts as an error here even though
// the call itself never fails.
func (a *auditTrailWithMetrics) Record(
	ctx context.Context,
	input *auditDomain.RecordInput,
) *auditDomain.AuditRecord {
	start := time.Now()
	record := a.next.Record(ctx, input)

	status := "success"
	if record == nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "audit", "record_create", status)
	a.metrics.RecordDuration(ctx, "audit", "record_create", time.Since(start), status)

	return record
}

// Verify records metrics for signature verification.
func (a *auditTrailWithMetrics) Verify(record *auditDomain.AuditRecord) bool {
	start := time.Now()
	ok := a.next.Verify(record)

	status := "success"
	if !ok {
		status = "error"
	}

	ctx := context.Background()
	a.metrics.RecordOperation(ctx, "audit", "record_verify", status)
	a.metrics.RecordDuration(ctx, "audit", "record_verify", time.Since(start), status)

	return ok
}

// Query records metrics for audit record queries, distinguishing role denials
// from other errors.
func (a *auditTrailWithMetrics) Query(
	ctx context.Context,
	tenant string,
	filters *auditDomain.QueryFilters,
	role auditDomain.RequesterRole,
) ([]*auditDomain.AuditRecord, error) {
	start := time.Now()
	records, err := a.next.Query(ctx, tenant, filters, role)

	status := "success"
	switch {
	case errors.Is(err, auditDomain.ErrUnauthorizedRole):
		status = "denied"
	case err != nil:
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "audit", "record_query", status)
	a.metrics.RecordDuration(ctx, "audit", "record_query", time.Since(start), status)

	return records, err
}

// ComplianceReport records metrics for report generation.
func (a *auditTrailWithMetrics) ComplianceReport(
	ctx context.Context,
	tenant string,
	start, end time.Time,
) (*auditDomain.ComplianceReport, error) {
	began := time.Now()
	report, err := a.next.ComplianceReport(ctx, tenant, start, end)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "audit", "compliance_report", status)
	a.metrics.RecordDuration(ctx, "audit", "compliance_report", time.Since(began), status)

	return report, err
}
