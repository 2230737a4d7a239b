// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	complianceDomain "github.com/riskforge/compliance/internal/compliance/domain"
	customValidation "github.com/riskforge/compliance/internal/validation"
)

// CheckRequest contains the parameters for one residency check.
type CheckRequest struct {
	Tenant       string         `json:"tenant"`
	DataType     string         `json:"data_type"`
	Operation    string         `json:"operation"`
	TargetRegion string         `json:"target_region"`
	Payload      map[string]any `json:"payload"`
}

// Validate checks the request fields.
func (r CheckRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Tenant, validation.Required, customValidation.NotBlank),
		validation.Field(&r.DataType, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Operation, validation.Required),
		validation.Field(&r.TargetRegion, validation.Required, customValidation.RegionCode),
	)
}

// RuleRequest is one residency rule in a registration request.
type RuleRequest struct {
	Scope             string   `json:"scope"`
	DataTypes         []string `json:"data_types"`
	AllowedRegions    []string `json:"allowed_regions"`
	ProhibitedRegions []string `json:"prohibited_regions"`
	RequireEncryption bool     `json:"require_encryption"`
	RetentionDays     int      `json:"retention_days"`
}

// RegisterRulesRequest contains a tenant's replacement rule set.
type RegisterRulesRequest struct {
	Tenant string        `json:"tenant"`
	Rules  []RuleRequest `json:"rules"`
}

// Validate checks the request fields; per-rule validation happens in the
// domain when the set is installed.
func (r RegisterRulesRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Tenant, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Rules, validation.Required),
	)
}

// MapRulesToDomain converts the request rules to domain rules.
func (r RegisterRulesRequest) MapRulesToDomain() []complianceDomain.ResidencyRule {
	rules := make([]complianceDomain.ResidencyRule, 0, len(r.Rules))
	for _, rule := range r.Rules {
		rules = append(rules, complianceDomain.ResidencyRule{
			Scope:             rule.Scope,
			DataTypes:         rule.DataTypes,
			AllowedRegions:    rule.AllowedRegions,
			ProhibitedRegions: rule.ProhibitedRegions,
			RequireEncryption: rule.RequireEncryption,
			RetentionDays:     rule.RetentionDays,
		})
	}
	return rules
}
