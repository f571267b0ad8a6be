package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTransition is returned when a status change is not legal
	// from the content item's current status.
	ErrInvalidTransition = errors.New("transition not legal from current status")

	// ErrInvalidRole is returned when a user role is not one of the
	// recognized roles.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidContentStatus is returned when a content status is not valid.
	ErrInvalidContentStatus = errors.New("invalid content status")

	// ErrInvalidContentType is returned when a content type is neither
	// story nor narration.
	ErrInvalidContentType = errors.New("invalid content type")
)
