package domain

import (
	"time"
)

// QueryFilters narrows an audit trail query. Zero values mean "no filter";
// all supplied filters are combined with AND. Time boundaries are inclusive.
type QueryFilters struct {
	Actor         string
	Action        string
	ResourceType  string
	CreatedAtFrom *time.Time
	CreatedAtTo   *time.Time
	Offset        int
	Limit         int
}

// Matches reports whether a record satisfies every supplied filter.
// Used by in-memory stores and report aggregation; SQL repositories apply
// the same semantics in their WHERE clauses.
func (f *QueryFilters) Matches(record *AuditRecord) bool {
	if f.Actor != "" && record.Actor != f.Actor {
		return false
	}
	if f.Action != "" && record.Action != f.Action {
		return false
	}
	if f.ResourceType != "" && record.ResourceType != f.ResourceType {
		return false
	}
	if f.CreatedAtFrom != nil && record.CreatedAt.Before(*f.CreatedAtFrom) {
		return false
	}
	if f.CreatedAtTo != nil && record.CreatedAt.After(*f.CreatedAtTo) {
		return false
	}
	return true
}

// ComplianceReport aggregates audit activity for one tenant over a window.
type ComplianceReport struct {
	Tenant          string
	PeriodStart     time.Time
	PeriodEnd       time.Time
	TotalRecords    int
	ActionCounts    map[string]int
	ActorCounts     map[string]int
	IntegrityStatus IntegrityStatus
}
