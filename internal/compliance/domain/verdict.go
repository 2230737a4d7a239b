package domain

// Operation is the kind of data operation a residency check covers.
type Operation string

// Supported data operations.
const (
	OperationStore    Operation = "store"
	OperationProcess  Operation = "process"
	OperationTransfer Operation = "transfer"
)

// IsValid reports whether the operation is one of the supported kinds.
func (o Operation) IsValid() bool {
	switch o {
	case OperationStore, OperationProcess, OperationTransfer:
		return true
	}
	return false
}

// Safeguards a verdict can require.
const (
	SafeguardEncryption            = "encryption"
	SafeguardConsent               = "consent"
	SafeguardEnhancedAccessControl = "enhanced_access_control"
)

// Verdict is the outcome of a residency evaluation. A denial is an expected
// business outcome carried in the Allowed and Reason fields, not an error:
// callers branch on it as part of regular control flow.
type Verdict struct {
	Allowed            bool     `json:"allowed"`
	Reason             string   `json:"reason,omitempty"`
	RequiredSafeguards []string `json:"required_safeguards,omitempty"`
}
