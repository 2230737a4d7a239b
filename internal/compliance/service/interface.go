// Package service implements data classification and residency policy
// evaluation: keyword-based payload inspection, the process-wide rule
// registry, and the allow/deny verdict logic.
package service

import (
	complianceDomain "github.com/riskforge/compliance/internal/compliance/domain"
)

// Classifier infers a sensitivity classification from a structured payload.
type Classifier interface {
	// Classify recursively inspects the payload's field names and returns the
	// inferred sensitivity level and category tags. Deterministic, pure, no I/O.
	Classify(payload map[string]any) *complianceDomain.DataClassification
}

// ResidencyPolicy evaluates whether a proposed data operation into a target
// region is permitted.
type ResidencyPolicy interface {
	// RegisterTenantRules installs or replaces the tenant-specific rule set.
	// Idempotent; last write wins.
	RegisterTenantRules(tenant string, rules []complianceDomain.ResidencyRule) error

	// Evaluate returns the verdict for one proposed operation. A denial is a
	// normal verdict, not an error; the error return covers invalid input only
	// (unknown operation kind).
	Evaluate(
		tenant string,
		dataType string,
		operation complianceDomain.Operation,
		targetRegion string,
		classification *complianceDomain.DataClassification,
	) (*complianceDomain.Verdict, error)

	// RetentionPeriod returns the minimum retention period in days across all
	// rules applicable to the data type, falling back to
	// DefaultRetentionDays when none applies.
	RetentionPeriod(tenant, dataType string) int

	// TenantRules returns a copy of the tenant's registered rule set.
	TenantRules(tenant string) []complianceDomain.ResidencyRule
}
