package service

import (
	"errors"
	"fmt"

	"github.com/storybridge/storybridge-api/internal/domain/tprs"
)

// Common service errors.
var (
	// ErrForbidden is returned when a caller with a valid identity lacks
	// the role or ownership an operation requires.
	ErrForbidden = errors.New("forbidden: caller is neither owner nor admin")

	// ErrValidationFailed is returned when a story fails the vocabulary
	// repetition check on create or edit. The compliance gate is a hard
	// gate: non-compliant stories are not accepted in any status.
	ErrValidationFailed = errors.New("story does not meet vocabulary repetition requirements")

	// ErrReviewNotesRequired is returned when a reject action carries no
	// notes. Creators need to know why their content was turned down.
	ErrReviewNotesRequired = errors.New("rejection requires non-empty notes")

	// ErrAdminSignupNotAllowed is returned when public signup requests
	// the admin role. Admin accounts are created only by the bootstrap
	// seeding path.
	ErrAdminSignupNotAllowed = errors.New("public signup cannot create admin accounts")

	// ErrInvalidCredentials is returned on login with an unknown email or
	// wrong password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("incorrect email or password")
)

// ComplianceError wraps a failed compliance check with its diagnostics
// so handlers can report which terms under-counted. It unwraps to
// ErrValidationFailed for errors.Is checks.
type ComplianceError struct {
	Result tprs.Result
}

// Error implements the error interface for ComplianceError.
func (e *ComplianceError) Error() string {
	return fmt.Sprintf("%v: %s", ErrValidationFailed, e.Result.Reason)
}

// Unwrap returns ErrValidationFailed to support errors.Is.
func (e *ComplianceError) Unwrap() error {
	return ErrValidationFailed
}
