package domain

import (
	apperrors "github.com/riskforge/compliance/internal/errors"
)

var (
	// ErrInvalidRule indicates a residency rule failed validation.
	ErrInvalidRule = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid residency rule")

	// ErrUnknownOperation indicates an operation kind outside store/process/transfer.
	ErrUnknownOperation = apperrors.Wrap(apperrors.ErrInvalidInput, "unknown operation")
)
