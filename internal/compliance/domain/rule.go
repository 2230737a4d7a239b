package domain

import (
	"slices"

	validation "github.com/jellydator/validation"
)

// DefaultRetentionDays is the fallback retention period when no residency
// rule applies to a data type.
const DefaultRetentionDays = 2555

// ResidencyRule is a named policy scope: a jurisdiction, a regulatory regime,
// or a tenant override.
//
// An empty AllowedRegions list means unrestricted; ProhibitedRegions always
// override AllowedRegions for the same rule. Rules are read-mostly and are
// replaced wholesale rather than patched in place.
type ResidencyRule struct {
	Scope             string   `json:"scope"`
	DataTypes         []string `json:"data_types"`
	AllowedRegions    []string `json:"allowed_regions"`
	ProhibitedRegions []string `json:"prohibited_regions"`
	RequireEncryption bool     `json:"require_encryption"`
	RetentionDays     int      `json:"retention_days"`
}

// Validate checks that the rule names a scope, covers at least one data type,
// and carries a non-negative retention period.
func (r ResidencyRule) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Scope, validation.Required),
		validation.Field(&r.DataTypes, validation.Required),
		validation.Field(&r.RetentionDays, validation.Min(0)),
	)
}

// AppliesToDataType reports whether the rule's data-type list includes dataType.
func (r *ResidencyRule) AppliesToDataType(dataType string) bool {
	return slices.Contains(r.DataTypes, dataType)
}

// AppliesToCategories reports whether the rule's data-type list intersects
// the classification's category tags.
func (r *ResidencyRule) AppliesToCategories(categories []string) bool {
	for _, category := range categories {
		if slices.Contains(r.DataTypes, category) {
			return true
		}
	}
	return false
}

// ProhibitsRegion reports whether the rule explicitly prohibits the region.
func (r *ResidencyRule) ProhibitsRegion(region string) bool {
	return slices.Contains(r.ProhibitedRegions, region)
}

// RestrictsRegion reports whether the rule declares a non-empty allowed-region
// list that does not contain the region. An empty list is unrestricted.
func (r *ResidencyRule) RestrictsRegion(region string) bool {
	return len(r.AllowedRegions) > 0 && !slices.Contains(r.AllowedRegions, region)
}
