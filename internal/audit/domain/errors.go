package domain

import (
	"github.com/riskforge/compliance/internal/errors"
)

// Audit trail error definitions.
var (
	// ErrUnauthorizedRole indicates the requester's role is not in the
	// allow-list of privileged roles permitted to query audit records.
	ErrUnauthorizedRole = errors.Wrap(
		errors.ErrForbidden,
		"role is not permitted to query audit records",
	)

	// ErrInvalidTimeRange indicates a query or report window where the end
	// precedes the start.
	ErrInvalidTimeRange = errors.Wrap(
		errors.ErrInvalidInput,
		"end of time range precedes start",
	)
)
