package domain

// RequesterRole identifies the privilege level of a caller querying the
// audit trail.
type RequesterRole string

// Roles permitted to query audit records.
const (
	RoleAdmin             RequesterRole = "admin"
	RoleComplianceOfficer RequesterRole = "compliance_officer"
	RoleSecurityAdmin     RequesterRole = "security_admin"
)

// privilegedRoles is the allow-list for audit queries. Any role outside this
// set is rejected with ErrUnauthorizedRole.
var privilegedRoles = map[RequesterRole]struct{}{
	RoleAdmin:             {},
	RoleComplianceOfficer: {},
	RoleSecurityAdmin:     {},
}

// CanQueryAuditRecords reports whether the role may read the audit trail.
func (r RequesterRole) CanQueryAuditRecords() bool {
	_, ok := privilegedRoles[r]
	return ok
}

// IntegrityStatus summarizes whether every audit record in a report window
// still verifies against its stored signature.
type IntegrityStatus string

const (
	// IntegrityVerified means every record in range re-verified.
	IntegrityVerified IntegrityStatus = "verified"

	// IntegrityCompromised means at least one record failed verification.
	IntegrityCompromised IntegrityStatus = "compromised"
)
