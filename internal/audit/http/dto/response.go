// Package dto provides data transfer objects for the audit trail HTTP API.
package dto

import (
	"encoding/base64"
	"time"

	auditDomain "github.com/riskforge/compliance/internal/audit/domain"
)

// AuditRecordResponse represents one audit record in API responses.
// Details are the encrypted transport form; signatures are base64-encoded.
type AuditRecordResponse struct {
	ID           string         `json:"id"`
	Actor        string         `json:"actor"`
	Tenant       string         `json:"tenant"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	Details      map[string]any `json:"details,omitempty"`
	IPAddress    string         `json:"ip_address,omitempty"`
	UserAgent    string         `json:"user_agent,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	Signature    string         `json:"signature"`
}

// ListAuditRecordsResponse wraps a page of audit records.
type ListAuditRecordsResponse struct {
	Data []AuditRecordResponse `json:"data"`
}

// ComplianceReportResponse represents an aggregated compliance report.
type ComplianceReportResponse struct {
	Tenant          string         `json:"tenant"`
	PeriodStart     time.Time      `json:"period_start"`
	PeriodEnd       time.Time      `json:"period_end"`
	TotalRecords    int            `json:"total_records"`
	ActionCounts    map[string]int `json:"action_counts"`
	ActorCounts     map[string]int `json:"actor_counts"`
	IntegrityStatus string         `json:"integrity_status"`
}

// MapAuditRecordResponse converts a domain audit record to the API response.
func MapAuditRecordResponse(record *auditDomain.AuditRecord) AuditRecordResponse {
	return AuditRecordResponse{
		ID:           record.ID.String(),
		Actor:        record.Actor,
		Tenant:       record.Tenant,
		Action:       record.Action,
		ResourceType: record.ResourceType,
		ResourceID:   record.ResourceID,
		Details:      record.Details,
		IPAddress:    record.IPAddress,
		UserAgent:    record.UserAgent,
		CreatedAt:    record.CreatedAt,
		Signature:    base64.StdEncoding.EncodeToString(record.Signature),
	}
}

// MapListAuditRecordsResponse converts a page of domain records to the API response.
func MapListAuditRecordsResponse(records []*auditDomain.AuditRecord) ListAuditRecordsResponse {
	data := make([]AuditRecordResponse, 0, len(records))
	for _, record := range records {
		data = append(data, MapAuditRecordResponse(record))
	}
	return ListAuditRecordsResponse{Data: data}
}

// MapComplianceReportResponse converts a domain report to the API response.
func MapComplianceReportResponse(report *auditDomain.ComplianceReport) ComplianceReportResponse {
	return ComplianceReportResponse{
		Tenant:          report.Tenant,
		PeriodStart:     report.PeriodStart,
		PeriodEnd:       report.PeriodEnd,
		TotalRecords:    report.TotalRecords,
		ActionCounts:    report.ActionCounts,
		ActorCounts:     report.ActorCounts,
		IntegrityStatus: string(report.IntegrityStatus),
	}
}
