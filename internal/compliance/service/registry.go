package service

import (
	"slices"
	"sync"

	complianceDomain "github.com/riskforge/compliance/internal/compliance/domain"
	apperrors "github.com/riskforge/compliance/internal/errors"
)

// RuleRegistry holds the process-wide residency rule sets: global defaults
// seeded at construction plus tenant-specific overrides registered at
// runtime.
//
// Reads are safe under unbounded concurrent readers; writes are mutually
// exclusive, and a completed write is observed by every subsequent read.
// Tenant rule sets are replaced wholesale, never patched in place.
type RuleRegistry struct {
	mu          sync.RWMutex
	globalRules []complianceDomain.ResidencyRule
	tenantRules map[string][]complianceDomain.ResidencyRule
}

// builtinRules are the global defaults covering the common regulatory regimes.
func builtinRules() []complianceDomain.ResidencyRule {
	return []complianceDomain.ResidencyRule{
		{
			Scope:             "gdpr-personal-data",
			DataTypes:         []string{"personal"},
			AllowedRegions:    []string{"EU", "EEA", "UK", "CH"},
			RequireEncryption: true,
			RetentionDays:     1095,
		},
		{
			Scope:             "financial-services",
			DataTypes:         []string{"financial"},
			ProhibitedRegions: []string{"CN", "RU", "IR", "KP"},
			RequireEncryption: true,
			RetentionDays:     2555,
		},
		{
			Scope:             "health-records",
			DataTypes:         []string{"health"},
			RequireEncryption: true,
			RetentionDays:     2190,
		},
		{
			Scope:             "security-data",
			DataTypes:         []string{"security"},
			RequireEncryption: true,
			RetentionDays:     365,
		},
	}
}

// NewRuleRegistry creates a registry seeded with the built-in global rules.
func NewRuleRegistry() *RuleRegistry {
	return &RuleRegistry{
		globalRules: builtinRules(),
		tenantRules: make(map[string][]complianceDomain.ResidencyRule),
	}
}

// SetTenantRules validates and installs the tenant's rule set, replacing any
// previously registered set. Last write wins.
func (r *RuleRegistry) SetTenantRules(tenant string, rules []complianceDomain.ResidencyRule) error {
	if tenant == "" {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "tenant is required")
	}
	for _, rule := range rules {
		if err := rule.Validate(); err != nil {
			return apperrors.Wrap(complianceDomain.ErrInvalidRule, err.Error())
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tenantRules[tenant] = slices.Clone(rules)

	return nil
}

// GlobalRules returns a copy of the seeded global rule set.
func (r *RuleRegistry) GlobalRules() []complianceDomain.ResidencyRule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.globalRules)
}

// TenantRules returns a copy of the tenant's registered rule set, nil when
// the tenant has none.
func (r *RuleRegistry) TenantRules(tenant string) []complianceDomain.ResidencyRule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.tenantRules[tenant])
}
