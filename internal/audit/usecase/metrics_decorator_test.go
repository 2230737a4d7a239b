package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	auditDomain "github.com/riskforge/compliance/internal/audit/domain"
	"github.com/riskforge/compliance/internal/metrics"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

// mockAuditTrail is a mock implementation of AuditTrail for decorator tests.
type mockAuditTrail struct {
	mock.Mock
}

func (m *mockAuditTrail) Record(ctx context.Context, input *auditDomain.RecordInput) *auditDomain.AuditRecord {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*auditDomain.AuditRecord)
}

func (m *mockAuditTrail) Verify(record *auditDomain.AuditRecord) bool {
	args := m.Called(record)
	return args.Bool(0)
}

func (m *mockAuditTrail) Query(
	ctx context.Context,
	tenant string,
	filters *auditDomain.QueryFilters,
	role auditDomain.RequesterRole,
) ([]*auditDomain.AuditRecord, error) {
	args := m.Called(ctx, tenant, filters, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.AuditRecord), args.Error(1)
}

func (m *mockAuditTrail) ComplianceReport(
	ctx context.Context,
	tenant string,
	start, end time.Time,
) (*auditDomain.ComplianceReport, error) {
	args := m.Called(ctx, tenant, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auditDomain.ComplianceReport), args.Error(1)
}

var _ AuditTrail = (*mockAuditTrail)(nil)

// TestNewAuditTrailWithMetrics tests the metrics decorator constructor.
func TestNewAuditTrailWithMetrics(t *testing.T) {
	t.Parallel()

	decorator := NewAuditTrailWithMetrics(&mockAuditTrail{}, &mockBusinessMetrics{})

	assert.NotNil(t, decorator)
	assert.Implements(t, (*AuditTrail)(nil), decorator)
}

// TestAuditTrailMetricsDecorator_Record tests the Record method with metrics.
func TestAuditTrailMetricsDecorator_Record(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("RecordBuilt_RecordsSuccessMetrics", func(t *testing.T) {
		t.Parallel()
		mockTrail := &mockAuditTrail{}
		mockMetrics := &mockBusinessMetrics{}

		input := validRecordInput()
		expected := &auditDomain.AuditRecord{ID: uuid.Must(uuid.NewV7())}

		mockTrail.On("Record", ctx, input).Return(expected).Once()
		mockMetrics.On("RecordOperation", ctx, "audit", "record_create", "success").
			Return().
			Once()
		mockMetrics.On("RecordDuration", ctx, "audit", "record_create", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		decorator := NewAuditTrailWithMetrics(mockTrail, mockMetrics)
		record := decorator.Record(ctx, input)

		assert.Equal(t, expected, record)
		mockTrail.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("NilRecord_RecordsErrorMetrics", func(t *testing.T) {
		t.Parallel()
		mockTrail := &mockAuditTrail{}
		mockMetrics := &mockBusinessMetrics{}

		input := validRecordInput()

		mockTrail.On("Record", ctx, input).Return(nil).Once()
		mockMetrics.On("RecordOperation", ctx, "audit", "record_create", "error").
			Return().
			Once()
		mockMetrics.On("RecordDuration", ctx, "audit", "record_create", mock.AnythingOfType("time.Duration"), "error").
			Return().
			Once()

		decorator := NewAuditTrailWithMetrics(mockTrail, mockMetrics)
		record := decorator.Record(ctx, input)

		assert.Nil(t, record)
		mockMetrics.AssertExpectations(t)
	})
}

// TestAuditTrailMetricsDecorator_Query tests the Query method with metrics.
func TestAuditTrailMetricsDecorator_Query(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("Success_RecordsSuccessMetrics", func(t *testing.T) {
		t.Parallel()
		mockTrail := &mockAuditTrail{}
		mockMetrics := &mockBusinessMetrics{}

		expected := []*auditDomain.AuditRecord{{ID: uuid.Must(uuid.NewV7())}}

		mockTrail.On("Query", ctx, "org-acme", (*auditDomain.QueryFilters)(nil), auditDomain.RoleAdmin).
			Return(expected, nil).
			Once()
		mockMetrics.On("RecordOperation", ctx, "audit", "record_query", "success").
			Return().
			Once()
		mockMetrics.On("RecordDuration", ctx, "audit", "record_query", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		decorator := NewAuditTrailWithMetrics(mockTrail, mockMetrics)
		records, err := decorator.Query(ctx, "org-acme", nil, auditDomain.RoleAdmin)

		assert.NoError(t, err)
		assert.Equal(t, expected, records)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("UnauthorizedRole_RecordsDeniedMetrics", func(t *testing.T) {
		t.Parallel()
		mockTrail := &mockAuditTrail{}
		mockMetrics := &mockBusinessMetrics{}

		mockTrail.On("Query", ctx, "org-acme", (*auditDomain.QueryFilters)(nil), auditDomain.RequesterRole("analyst")).
			Return(nil, auditDomain.ErrUnauthorizedRole).
			Once()
		mockMetrics.On("RecordOperation", ctx, "audit", "record_query", "denied").
			Return().
			Once()
		mockMetrics.On("RecordDuration", ctx, "audit", "record_query", mock.AnythingOfType("time.Duration"), "denied").
			Return().
			Once()

		decorator := NewAuditTrailWithMetrics(mockTrail, mockMetrics)
		records, err := decorator.Query(ctx, "org-acme", nil, "analyst")

		assert.ErrorIs(t, err, auditDomain.ErrUnauthorizedRole)
		assert.Nil(t, records)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("RepositoryError_RecordsErrorMetrics", func(t *testing.T) {
		t.Parallel()
		mockTrail := &mockAuditTrail{}
		mockMetrics := &mockBusinessMetrics{}

		mockTrail.On("Query", ctx, "org-acme", (*auditDomain.QueryFilters)(nil), auditDomain.RoleAdmin).
			Return(nil, assert.AnError).
			Once()
		mockMetrics.On("RecordOperation", ctx, "audit", "record_query", "error").
			Return().
			Once()
		mockMetrics.On("RecordDuration", ctx, "audit", "record_query", mock.AnythingOfType("time.Duration"), "error").
			Return().
			Once()

		decorator := NewAuditTrailWithMetrics(mockTrail, mockMetrics)
		records, err := decorator.Query(ctx, "org-acme", nil, auditDomain.RoleAdmin)

		assert.Error(t, err)
		assert.Nil(t, records)
		mockMetrics.AssertExpectations(t)
	})
}

// TestAuditTrailMetricsDecorator_ComplianceReport tests the report method with metrics.
func TestAuditTrailMetricsDecorator_ComplianceReport(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	start := time.Now().UTC().Add(-time.Hour)
	end := time.Now().UTC()

	t.Run("Success_RecordsSuccessMetrics", func(t *testing.T) {
		t.Parallel()
		mockTrail := &mockAuditTrail{}
		mockMetrics := &mockBusinessMetrics{}

		expected := &auditDomain.ComplianceReport{
			Tenant:          "org-acme",
			IntegrityStatus: auditDomain.IntegrityVerified,
		}

		mockTrail.On("ComplianceReport", ctx, "org-acme", start, end).
			Return(expected, nil).
			Once()
		mockMetrics.On("RecordOperation", ctx, "audit", "compliance_report", "success").
			Return().
			Once()
		mockMetrics.On("RecordDuration", ctx, "audit", "compliance_report", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		decorator := NewAuditTrailWithMetrics(mockTrail, mockMetrics)
		report, err := decorator.ComplianceReport(ctx, "org-acme", start, end)

		assert.NoError(t, err)
		assert.Equal(t, expected, report)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Error_RecordsErrorMetrics", func(t *testing.T) {
		t.Parallel()
		mockTrail := &mockAuditTrail{}
		mockMetrics := &mockBusinessMetrics{}

		mockTrail.On("ComplianceReport", ctx, "org-acme", start, end).
			Return(nil, assert.AnError).
			Once()
		mockMetrics.On("RecordOperation", ctx, "audit", "compliance_report", "error").
			Return().
			Once()
		mockMetrics.On("RecordDuration", ctx, "audit", "compliance_report", mock.AnythingOfType("time.Duration"), "error").
			Return().
			Once()

		decorator := NewAuditTrailWithMetrics(mockTrail, mockMetrics)
		report, err := decorator.ComplianceReport(ctx, "org-acme", start, end)

		assert.Error(t, err)
		assert.Nil(t, report)
		mockMetrics.AssertExpectations(t)
	})
}

// TestAuditTrailMetricsDecorator_Verify tests the Verify method with metrics.
func TestAuditTrailMetricsDecorator_Verify(t *testing.T) {
	t.Parallel()

	record := &auditDomain.AuditRecord{ID: uuid.Must(uuid.NewV7())}

	t.Run("Valid_RecordsSuccessMetrics", func(t *testing.T) {
		t.Parallel()
		mockTrail := &mockAuditTrail{}
		mockMetrics := &mockBusinessMetrics{}

		mockTrail.On("Verify", record).Return(true).Once()
		mockMetrics.On("RecordOperation", mock.Anything, "audit", "record_verify", "success").
			Return().
			Once()
		mockMetrics.On("RecordDuration", mock.Anything, "audit", "record_verify", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		decorator := NewAuditTrailWithMetrics(mockTrail, mockMetrics)
		assert.True(t, decorator.Verify(record))
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Invalid_RecordsErrorMetrics", func(t *testing.T) {
		t.Parallel()
		mockTrail := &mockAuditTrail{}
		mockMetrics := &mockBusinessMetrics{}

		mockTrail.On("Verify", record).Return(false).Once()
		mockMetrics.On("RecordOperation", mock.Anything, "audit", "record_verify", "error").
			Return().
			Once()
		mockMetrics.On("RecordDuration", mock.Anything, "audit", "record_verify", mock.AnythingOfType("time.Duration"), "error").
			Return().
			Once()

		decorator := NewAuditTrailWithMetrics(mockTrail, mockMetrics)
		assert.False(t, decorator.Verify(record))
		mockMetrics.AssertExpectations(t)
	})
}
