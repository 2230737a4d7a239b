package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	auditDomain "github.com/riskforge/compliance/internal/audit/domain"
	cryptoService "github.com/riskforge/compliance/internal/crypto/service"
	apperrors "github.com/riskforge/compliance/internal/errors"
)

// verifyConcurrency bounds the goroutines re-verifying records in a report.
const verifyConcurrency = 8

// auditTrail implements the AuditTrail interface.
type auditTrail struct {
	repo   AuditRecordRepository
	cipher cryptoService.Cipher
	signer cryptoService.Signer
	logger *slog.Logger
}

// NewAuditTrail creates a new AuditTrail with the provided dependencies.
func NewAuditTrail(
	repo AuditRecordRepository,
	cipher cryptoService.Cipher,
	signer cryptoService.Signer,
	logger *slog.Logger,
) AuditTrail {
	return &auditTrail{
		repo:   repo,
		cipher: cipher,
		signer: signer,
		logger: logger,
	}
}

// Record builds, signs, and persists an audit record.
//
// The build-and-sign step and the persistence step fail independently: a
// record that could be built and signed is returned to the caller even when
// the append to the store fails, because audit-trail failure must never block
// the primary operation. Both failure paths are logged and swallowed here at
// the boundary.
func (a *auditTrail) Record(
	ctx context.Context,
	input *auditDomain.RecordInput,
) *auditDomain.AuditRecord {
	record, err := a.buildRecord(input)
	if err != nil {
		a.logger.Error("failed to build audit record",
			slog.String("tenant", input.Tenant),
			slog.String("action", input.Action),
			slog.Any("error", err),
		)
		return nil
	}

	if err := a.repo.Create(ctx, record); err != nil {
		// Swallowed: observable only through this log line.
		a.logger.Error("failed to persist audit record",
			slog.String("tenant", record.Tenant),
			slog.String("action", record.Action),
			slog.String("record_id", record.ID.String()),
			slog.Any("error", err),
		)
	}

	return record
}

// buildRecord assembles and signs a record, encrypting non-empty details
// under the tenant tag. This is the error-returning inner path whose error
// variant Record logs and discards.
func (a *auditTrail) buildRecord(
	input *auditDomain.RecordInput,
) (*auditDomain.AuditRecord, error) {
	if err := input.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
	}

	record := &auditDomain.AuditRecord{
		ID:           uuid.Must(uuid.NewV7()),
		Actor:        input.Actor,
		Tenant:       input.Tenant,
		Action:       input.Action,
		ResourceType: input.ResourceType,
		ResourceID:   input.ResourceID,
		IPAddress:    input.IPAddress,
		UserAgent:    input.UserAgent,
		CreatedAt:    time.Now().UTC(),
	}

	if len(input.Details) > 0 {
		encrypted, err := a.encryptDetails(input.Details, input.Tenant)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to encrypt audit details")
		}
		record.Details = encrypted
	}

	record.Signature = a.signer.Sign(record.CanonicalBytes())

	return record, nil
}

// encryptDetails replaces a plaintext detail map with its encrypted transport
// form {"encrypted": <base64 blob>}, keyed to the tenant.
func (a *auditTrail) encryptDetails(
	details map[string]any,
	tenant string,
) (map[string]any, error) {
	plaintext, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}

	blob, err := a.cipher.Encrypt(plaintext, tenant)
	if err != nil {
		return nil, err
	}

	return map[string]any{auditDomain.EncryptedDetailsKey: blob.Encode()}, nil
}

// Verify checks the stored signature against the record's signed fields.
func (a *auditTrail) Verify(record *auditDomain.AuditRecord) bool {
	if record == nil || len(record.Signature) == 0 {
		return false
	}
	return a.signer.Verify(record.CanonicalBytes(), record.Signature)
}

// Query returns matching records for privileged roles only.
func (a *auditTrail) Query(
	ctx context.Context,
	tenant string,
	filters *auditDomain.QueryFilters,
	role auditDomain.RequesterRole,
) ([]*auditDomain.AuditRecord, error) {
	if !role.CanQueryAuditRecords() {
		return nil, auditDomain.ErrUnauthorizedRole
	}

	if filters == nil {
		filters = &auditDomain.QueryFilters{}
	}
	if filters.CreatedAtFrom != nil && filters.CreatedAtTo != nil &&
		filters.CreatedAtTo.Before(*filters.CreatedAtFrom) {
		return nil, auditDomain.ErrInvalidTimeRange
	}

	records, err := a.repo.List(ctx, tenant, filters)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to query audit records")
	}

	return records, nil
}

// ComplianceReport aggregates the window's records and re-verifies each one.
func (a *auditTrail) ComplianceReport(
	ctx context.Context,
	tenant string,
	start, end time.Time,
) (*auditDomain.ComplianceReport, error) {
	if end.Before(start) {
		return nil, auditDomain.ErrInvalidTimeRange
	}

	records, err := a.repo.List(ctx, tenant, &auditDomain.QueryFilters{
		CreatedAtFrom: &start,
		CreatedAtTo:   &end,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit records for report")
	}

	report := &auditDomain.ComplianceReport{
		Tenant:          tenant,
		PeriodStart:     start,
		PeriodEnd:       end,
		TotalRecords:    len(records),
		ActionCounts:    make(map[string]int),
		ActorCounts:     make(map[string]int),
		IntegrityStatus: auditDomain.IntegrityVerified,
	}

	for _, record := range records {
		report.ActionCounts[record.Action]++
		report.ActorCounts[record.Actor]++
	}

	// Re-verify signatures concurrently; verification is CPU-bound and
	// independent per record.
	var compromised atomic.Bool
	group, _ := errgroup.WithContext(ctx)
	group.SetLimit(verifyConcurrency)

	for _, record := range records {
		group.Go(func() error {
			if !a.Verify(record) {
				compromised.Store(true)
			}
			return nil
		})
	}
	_ = group.Wait()

	if compromised.Load() {
		report.IntegrityStatus = auditDomain.IntegrityCompromised
	}

	return report, nil
}
