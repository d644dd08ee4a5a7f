package domain

import (
	"errors"

	apperrors "github.com/utafrali/StallReview/pkg/errors"
)

// WriteOutcome classifies the result of a create operation so callers can
// tell a rejected write from an unreachable store.
type WriteOutcome string

const (
	OutcomeCreated     WriteOutcome = "created"
	OutcomeConflict    WriteOutcome = "conflict"
	OutcomeInvalid     WriteOutcome = "invalid"
	OutcomeUnavailable WriteOutcome = "unavailable"
	OutcomeFailed      WriteOutcome = "failed"
)

// OutcomeFromError maps a create error to its outcome. A nil error is a
// successful create.
func OutcomeFromError(err error) WriteOutcome {
	switch {
	case err == nil:
		return OutcomeCreated
	case errors.Is(err, apperrors.ErrAlreadyExists),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrNotFound):
		return OutcomeConflict
	case errors.Is(err, apperrors.ErrInvalidInput):
		return OutcomeInvalid
	case errors.Is(err, apperrors.ErrServiceUnavail):
		return OutcomeUnavailable
	default:
		return OutcomeFailed
	}
}

// Success reports whether the write persisted.
func (o WriteOutcome) Success() bool {
	return o == OutcomeCreated
}

// WriteResult is the body returned by create endpoints. IsSuccess keeps the
// boolean contract older clients rely on.
type WriteResult struct {
	IsSuccess bool         `json:"is_success"`
	Outcome   WriteOutcome `json:"outcome"`
	ID        int64        `json:"id,omitempty"`
	Message   string       `json:"message,omitempty"`
}
