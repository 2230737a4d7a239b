// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/riskforge/compliance/internal/errors"
)

// regionCodeRegex matches short uppercase region codes such as "US", "EU",
// "EEA", or "APAC".
var regionCodeRegex = regexp.MustCompile(`^[A-Z]{2,4}$`)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// RegionCode validates a region identifier: 2-4 uppercase letters.
var RegionCode = validation.NewStringRuleWithError(
	func(s string) bool {
		return regionCodeRegex.MatchString(s)
	},
	validation.NewError("validation_region_code", "must be a 2-4 letter uppercase region code"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace.
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
