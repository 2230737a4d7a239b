package dto

import (
	complianceDomain "github.com/riskforge/compliance/internal/compliance/domain"
)

// ClassificationResponse represents a data classification in API responses.
type ClassificationResponse struct {
	Level         string   `json:"level"`
	Categories    []string `json:"categories"`
	PersonalData  bool     `json:"personal_data"`
	FinancialData bool     `json:"financial_data"`
	HealthData    bool     `json:"health_data"`
}

// VerdictResponse represents a residency verdict in API responses.
type VerdictResponse struct {
	Allowed            bool     `json:"allowed"`
	Reason             string   `json:"reason,omitempty"`
	RequiredSafeguards []string `json:"required_safeguards,omitempty"`
}

// CheckResponse is the result of one residency check.
type CheckResponse struct {
	Classification ClassificationResponse `json:"classification"`
	Verdict        VerdictResponse        `json:"verdict"`
}

// MapCheckResponse converts a classification and verdict to the API response.
func MapCheckResponse(
	classification *complianceDomain.DataClassification,
	verdict *complianceDomain.Verdict,
) CheckResponse {
	return CheckResponse{
		Classification: ClassificationResponse{
			Level:         string(classification.Level),
			Categories:    classification.Categories,
			PersonalData:  classification.PersonalData,
			FinancialData: classification.FinancialData,
			HealthData:    classification.HealthData,
		},
		Verdict: VerdictResponse{
			Allowed:            verdict.Allowed,
			Reason:             verdict.Reason,
			RequiredSafeguards: verdict.RequiredSafeguards,
		},
	}
}

// RetentionResponse is the retention period for a tenant and data type.
type RetentionResponse struct {
	Tenant        string `json:"tenant"`
	DataType      string `json:"data_type"`
	RetentionDays int    `json:"retention_days"`
}

// RegisterRulesResponse reports how many rules a registration installed.
type RegisterRulesResponse struct {
	Tenant    string `json:"tenant"`
	RuleCount int    `json:"rule_count"`
}
