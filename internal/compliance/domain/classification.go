// Package domain defines the data residency entities: sensitivity
// classifications, residency rules, and policy verdicts.
package domain

// SensitivityLevel is an ordered sensitivity tier governing which safeguards
// apply to a payload.
type SensitivityLevel string

// Sensitivity levels, ordered public < internal < confidential < restricted.
const (
	LevelPublic       SensitivityLevel = "public"
	LevelInternal     SensitivityLevel = "internal"
	LevelConfidential SensitivityLevel = "confidential"
	LevelRestricted   SensitivityLevel = "restricted"
)

// levelRank orders sensitivity levels for escalation comparisons.
var levelRank = map[SensitivityLevel]int{
	LevelPublic:       0,
	LevelInternal:     1,
	LevelConfidential: 2,
	LevelRestricted:   3,
}

// AtLeast reports whether l is at or above the other level in the ordering.
func (l SensitivityLevel) AtLeast(other SensitivityLevel) bool {
	return levelRank[l] >= levelRank[other]
}

// Max returns the higher of the two levels.
func (l SensitivityLevel) Max(other SensitivityLevel) SensitivityLevel {
	if levelRank[other] > levelRank[l] {
		return other
	}
	return l
}

// Category tags attached to a classification by the keyword scan.
const (
	CategoryPersonal  = "personal"
	CategoryFinancial = "financial"
	CategoryHealth    = "health"
	CategorySecurity  = "security"
)

// DataClassification is the result of inspecting a payload: a sensitivity
// level, the matched category tags, and the three booleans residency rules
// select on. It is a derived value, always attached to the operation it
// classified, never persisted on its own.
type DataClassification struct {
	Level         SensitivityLevel `json:"level"`
	Categories    []string         `json:"categories"`
	PersonalData  bool             `json:"personal_data"`
	FinancialData bool             `json:"financial_data"`
	HealthData    bool             `json:"health_data"`
}

// RuleCategories returns the category tags residency rules match against.
// Security is a labeling category only; it never selects a rule by itself.
func (c *DataClassification) RuleCategories() []string {
	var categories []string
	if c.PersonalData {
		categories = append(categories, CategoryPersonal)
	}
	if c.FinancialData {
		categories = append(categories, CategoryFinancial)
	}
	if c.HealthData {
		categories = append(categories, CategoryHealth)
	}
	return categories
}
