package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/storybridge/storybridge-api/internal/api/shared"
	"github.com/storybridge/storybridge-api/internal/domain"
	"github.com/storybridge/storybridge-api/internal/service"
	"github.com/storybridge/storybridge-api/internal/service/auth"
	"github.com/storybridge/storybridge-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrAdminSignupNotAllowed):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrStoryNotFound),
		errors.Is(err, store.ErrNarrationNotFound),
		errors.Is(err, store.ErrProgressNotFound),
		errors.Is(err, store.ErrAssetNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrBadgeExists),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict

	// Compliance gate failures
	case errors.Is(err, service.ErrValidationFailed):
		return http.StatusUnprocessableEntity

	// Bad request errors
	case errors.Is(err, service.ErrReviewNotesRequired),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrInvalidContentType),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrValidation),
		isEntityValidationError(err):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// entityValidationErrors are the domain constructor errors that indicate
// bad input rather than a server fault.
var entityValidationErrors = []error{
	domain.ErrEmptyEmail,
	domain.ErrInvalidEmail,
	domain.ErrEmptyPassword,
	domain.ErrPasswordTooShort,
	domain.ErrPasswordTooLong,
	domain.ErrEmptyStoryTitle,
	domain.ErrEmptyStoryText,
	domain.ErrEmptyStoryAgeGroup,
	domain.ErrEmptyVocabularyTerm,
	domain.ErrNegativeTimeSpent,
	domain.ErrNegativeCoins,
}

func isEntityValidationError(err error) bool {
	for _, target := range entityValidationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Incorrect email or password"

	// Authorization errors
	case errors.Is(err, service.ErrAdminSignupNotAllowed):
		return "Cannot sign up with admin role"

	case errors.Is(err, service.ErrForbidden):
		return "You do not have permission to perform this action"

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrStoryNotFound):
		return "Story not found"

	case errors.Is(err, store.ErrNarrationNotFound):
		return "Narration not found"

	case errors.Is(err, store.ErrProgressNotFound):
		return "Progress not found"

	case errors.Is(err, store.ErrAssetNotFound):
		return "Audio not found"

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, store.ErrBadgeExists):
		return "Badge already awarded"

	case errors.Is(err, domain.ErrInvalidTransition):
		return "Content is not in a state that allows this action"

	// Compliance gate failures carry their diagnostics
	case errors.Is(err, service.ErrValidationFailed):
		var complianceErr *service.ComplianceError
		if errors.As(err, &complianceErr) && complianceErr.Result.Reason != "" {
			return "Story does not meet repetition requirements: " + complianceErr.Result.Reason
		}
		return "Story does not meet repetition requirements"

	// Bad request errors
	case errors.Is(err, service.ErrReviewNotesRequired):
		return "Rejection requires notes"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, domain.ErrInvalidContentType):
		return "Content type must be 'story' or 'narration'"

	case errors.Is(err, domain.ErrInvalidRole):
		return "Invalid role"

	case errors.Is(err, domain.ErrValidation):
		return "Validation error"

	case isEntityValidationError(err):
		for _, target := range entityValidationErrors {
			if errors.Is(err, target) {
				return target.Error()
			}
		}
		return "Validation error"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps the error to a status code and safe message and
// writes the response, logging the underlying error. An explicit
// userMessage overrides the mapped safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	status := MapErrorToStatusCode(err)
	if userMessage == "" {
		userMessage = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, userMessage, err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'SignupRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
