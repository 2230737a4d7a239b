package service

import (
	"fmt"

	complianceDomain "github.com/riskforge/compliance/internal/compliance/domain"
)

// residencyPolicy implements ResidencyPolicy on top of a RuleRegistry.
type residencyPolicy struct {
	registry *RuleRegistry
}

// NewResidencyPolicy creates a ResidencyPolicy backed by the given registry.
// The registry is passed in explicitly so callers control seeding and
// lifetime; the policy itself holds no other state.
func NewResidencyPolicy(registry *RuleRegistry) ResidencyPolicy {
	return &residencyPolicy{registry: registry}
}

// RegisterTenantRules installs or replaces the tenant's rule set.
func (p *residencyPolicy) RegisterTenantRules(
	tenant string,
	rules []complianceDomain.ResidencyRule,
) error {
	return p.registry.SetTenantRules(tenant, rules)
}

// TenantRules returns a copy of the tenant's registered rule set.
func (p *residencyPolicy) TenantRules(tenant string) []complianceDomain.ResidencyRule {
	return p.registry.TenantRules(tenant)
}

// Evaluate decides whether the proposed operation into targetRegion is
// permitted.
//
// Applicable rules are the tenant's own rules matching the data type plus
// every global rule matching the data type or intersecting the
// classification's category tags. Any applicable rule can veto: prohibited
// regions are checked across all rules first, then allowed-region
// restrictions, so a prohibition always dominates regardless of rule order.
// An allowed verdict carries the deduplicated union of safeguards required
// by the applicable rules and the classification.
func (p *residencyPolicy) Evaluate(
	tenant string,
	dataType string,
	operation complianceDomain.Operation,
	targetRegion string,
	classification *complianceDomain.DataClassification,
) (*complianceDomain.Verdict, error) {
	if !operation.IsValid() {
		return nil, complianceDomain.ErrUnknownOperation
	}
	if classification == nil {
		classification = &complianceDomain.DataClassification{}
	}

	applicable := p.applicableRules(tenant, dataType, classification.RuleCategories())

	for _, rule := range applicable {
		if rule.ProhibitsRegion(targetRegion) {
			return &complianceDomain.Verdict{
				Allowed: false,
				Reason: fmt.Sprintf(
					"%s to region %q is prohibited by rule %q",
					operation, targetRegion, rule.Scope,
				),
			}, nil
		}
	}

	for _, rule := range applicable {
		if rule.RestrictsRegion(targetRegion) {
			return &complianceDomain.Verdict{
				Allowed: false,
				Reason: fmt.Sprintf(
					"region %q is not in the allowed regions of rule %q",
					targetRegion, rule.Scope,
				),
			}, nil
		}
	}

	var safeguards []string
	for _, rule := range applicable {
		if rule.RequireEncryption {
			safeguards = append(safeguards, complianceDomain.SafeguardEncryption)
			break
		}
	}
	if classification.PersonalData {
		safeguards = append(safeguards, complianceDomain.SafeguardConsent)
	}
	if classification.Level == complianceDomain.LevelRestricted {
		safeguards = append(safeguards, complianceDomain.SafeguardEnhancedAccessControl)
	}

	return &complianceDomain.Verdict{
		Allowed:            true,
		RequiredSafeguards: safeguards,
	}, nil
}

// RetentionPeriod returns the shortest retention period across rules
// applicable to the data type; the most restrictive period wins. Rules
// without a retention period are skipped, and DefaultRetentionDays is the
// fallback when nothing applies.
func (p *residencyPolicy) RetentionPeriod(tenant, dataType string) int {
	minDays := 0

	for _, rule := range p.applicableRules(tenant, dataType, nil) {
		if rule.RetentionDays <= 0 {
			continue
		}
		if minDays == 0 || rule.RetentionDays < minDays {
			minDays = rule.RetentionDays
		}
	}

	if minDays == 0 {
		return complianceDomain.DefaultRetentionDays
	}
	return minDays
}

// applicableRules gathers the tenant rules matching dataType plus the global
// rules matching dataType or any of the classification categories.
func (p *residencyPolicy) applicableRules(
	tenant string,
	dataType string,
	categories []string,
) []complianceDomain.ResidencyRule {
	var applicable []complianceDomain.ResidencyRule

	for _, rule := range p.registry.TenantRules(tenant) {
		if rule.AppliesToDataType(dataType) {
			applicable = append(applicable, rule)
		}
	}

	for _, rule := range p.registry.GlobalRules() {
		if rule.AppliesToDataType(dataType) || rule.AppliesToCategories(categories) {
			applicable = append(applicable, rule)
		}
	}

	return applicable
}
