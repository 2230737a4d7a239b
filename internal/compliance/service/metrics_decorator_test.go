package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	complianceDomain "github.com/riskforge/compliance/internal/compliance/domain"
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

func expectMetrics(m *mockBusinessMetrics, operation, status string) {
	m.On("RecordOperation", mock.Anything, "compliance", operation, status).
		Return().
		Once()
	m.On("RecordDuration", mock.Anything, "compliance", operation, mock.AnythingOfType("time.Duration"), status).
		Return().
		Once()
}

// TestResidencyPolicyMetricsDecorator tests the policy decorator statuses.
func TestResidencyPolicyMetricsDecorator(t *testing.T) {
	t.Parallel()

	t.Run("Evaluate_Allowed_RecordsSuccess", func(t *testing.T) {
		t.Parallel()
		mockMetrics := &mockBusinessMetrics{}
		expectMetrics(mockMetrics, "policy_evaluate", "success")

		policy := NewResidencyPolicyWithMetrics(newTestPolicy(), mockMetrics)
		verdict, err := policy.Evaluate(
			"org-acme", "telemetry", complianceDomain.OperationStore, "US", nil,
		)

		require.NoError(t, err)
		assert.True(t, verdict.Allowed)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Evaluate_Denied_RecordsDenied", func(t *testing.T) {
		t.Parallel()
		mockMetrics := &mockBusinessMetrics{}
		expectMetrics(mockMetrics, "policy_evaluate", "denied")

		policy := NewResidencyPolicyWithMetrics(newTestPolicy(), mockMetrics)
		verdict, err := policy.Evaluate(
			"org-acme", "financial", complianceDomain.OperationTransfer, "CN", nil,
		)

		require.NoError(t, err)
		assert.False(t, verdict.Allowed)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Evaluate_InvalidOperation_RecordsError", func(t *testing.T) {
		t.Parallel()
		mockMetrics := &mockBusinessMetrics{}
		expectMetrics(mockMetrics, "policy_evaluate", "error")

		policy := NewResidencyPolicyWithMetrics(newTestPolicy(), mockMetrics)
		verdict, err := policy.Evaluate(
			"org-acme", "financial", "purge", "US", nil,
		)

		assert.Error(t, err)
		assert.Nil(t, verdict)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("RegisterTenantRules_RecordsStatus", func(t *testing.T) {
		t.Parallel()
		mockMetrics := &mockBusinessMetrics{}
		expectMetrics(mockMetrics, "rules_register", "success")
		expectMetrics(mockMetrics, "rules_register", "error")

		policy := NewResidencyPolicyWithMetrics(newTestPolicy(), mockMetrics)

		err := policy.RegisterTenantRules("org-acme", []complianceDomain.ResidencyRule{
			{Scope: "acme", DataTypes: []string{"telemetry"}},
		})
		require.NoError(t, err)

		err = policy.RegisterTenantRules("", nil)
		assert.Error(t, err)

		mockMetrics.AssertExpectations(t)
	})

	t.Run("RetentionPeriod_RecordsSuccess", func(t *testing.T) {
		t.Parallel()
		mockMetrics := &mockBusinessMetrics{}
		expectMetrics(mockMetrics, "retention_lookup", "success")

		policy := NewResidencyPolicyWithMetrics(newTestPolicy(), mockMetrics)
		assert.Equal(t, 2555, policy.RetentionPeriod("org-acme", "financial"))
		mockMetrics.AssertExpectations(t)
	})
}

// TestClassifierMetricsDecorator tests the classifier decorator.
func TestClassifierMetricsDecorator(t *testing.T) {
	t.Parallel()

	mockMetrics := &mockBusinessMetrics{}
	expectMetrics(mockMetrics, "classify", "success")

	classifier := NewClassifierWithMetrics(NewKeywordClassifier(), mockMetrics)
	classification := classifier.Classify(map[string]any{"email": "a@b.com"})

	assert.True(t, classification.PersonalData)
	mockMetrics.AssertExpectations(t)
}
