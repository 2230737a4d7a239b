package service

import (
	"context"
	"time"

	complianceDomain "github.com/riskforge/compliance/internal/compliance/domain"
	"github.com/riskforge/compliance/internal/metrics"
)

// residencyPolicyWithMetrics decorates ResidencyPolicy with metrics instrumentation.
type residencyPolicyWithMetrics struct {
	next    ResidencyPolicy
	metrics metrics.BusinessMetrics
}

// NewResidencyPolicyWithMetrics wraps a ResidencyPolicy with metrics recording.
func NewResidencyPolicyWithMetrics(policy ResidencyPolicy, m metrics.BusinessMetrics) ResidencyPolicy {
	return &residencyPolicyWithMetrics{
		next:    policy,
		metrics: m,
	}
}

// RegisterTenantRules records metrics for tenant rule registration.
func (p *residencyPolicyWithMetrics) RegisterTenantRules(
	tenant string,
	rules []complianceDomain.ResidencyRule,
) error {
	start := time.Now()
	err := p.next.RegisterTenantRules(tenant, rules)

	status := "success"
	if err != nil {
		status = "error"
	}

	ctx := context.Background()
	p.metrics.RecordOperation(ctx, "compliance", "rules_register", status)
	p.metrics.RecordDuration(ctx, "compliance", "rules_register", time.Since(start), status)

	return err
}

// Evaluate records metrics for policy evaluations, counting denials
// separately from invalid-input errors.
func (p *residencyPolicyWithMetrics) Evaluate(
	tenant string,
	dataType string,
	operation complianceDomain.Operation,
	targetRegion string,
	classification *complianceDomain.DataClassification,
) (*complianceDomain.Verdict, error) {
	start := time.Now()
	verdict, err := p.next.Evaluate(tenant, dataType, operation, targetRegion, classification)

	status := "success"
	switch {
	case err != nil:
		status = "error"
	case !verdict.Allowed:
		status = "denied"
	}

	ctx := context.Background()
	p.metrics.RecordOperation(ctx, "compliance", "policy_evaluate", status)
	p.metrics.RecordDuration(ctx, "compliance", "policy_evaluate", time.Since(start), status)

	return verdict, err
}

// RetentionPeriod records metrics for retention lookups.
func (p *residencyPolicyWithMetrics) RetentionPeriod(tenant, dataType string) int {
	start := time.Now()
	days := p.next.RetentionPeriod(tenant, dataType)

	ctx := context.Background()
	p.metrics.RecordOperation(ctx, "compliance", "retention_lookup", "success")
	p.metrics.RecordDuration(ctx, "compliance", "retention_lookup", time.Since(start), "success")

	return days
}

// TenantRules is a passthrough; rule reads are not instrumented.
func (p *residencyPolicyWithMetrics) TenantRules(tenant string) []complianceDomain.ResidencyRule {
	return p.next.TenantRules(tenant)
}

// classifierWithMetrics decorates Classifier with metrics instrumentation.
type classifierWithMetrics struct {
	next    Classifier
	metrics metrics.BusinessMetrics
}

// NewClassifierWithMetrics wraps a Classifier with metrics recording.
func NewClassifierWithMetrics(classifier Classifier, m metrics.BusinessMetrics) Classifier {
	return &classifierWithMetrics{
		next:    classifier,
		metrics: m,
	}
}

// Classify records metrics for payload classification.
func (c *classifierWithMetrics) Classify(payload map[string]any) *complianceDomain.DataClassification {
	start := time.Now()
	classification := c.next.Classify(payload)

	ctx := context.Background()
	c.metrics.RecordOperation(ctx, "compliance", "classify", "success")
	c.metrics.RecordDuration(ctx, "compliance", "classify", time.Since(start), "success")

	return classification
}
