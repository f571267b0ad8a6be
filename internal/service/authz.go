package service

import (
	"github.com/google/uuid"
	"github.com/storybridge/storybridge-api/internal/domain"
)

// Caller is the authenticated identity performing an operation, as
// returned by the identity collaborator.
type Caller struct {
	ID   uuid.UUID
	Role domain.Role
}

// Action names an operation for the capability check.
type Action string

// Actions subject to authorization.
const (
	ActionSubmit  Action = "submit"
	ActionEdit    Action = "edit"
	ActionDelete  Action = "delete"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// Authorize is the single capability check for content operations:
// given the caller, the action, and the content item's owner, it
// returns nil or ErrForbidden. Submit is owner-only (an admin cannot
// submit someone else's draft), edit and delete extend to admins, and
// review decisions are admin-only.
func Authorize(caller Caller, action Action, ownerID uuid.UUID) error {
	switch action {
	case ActionApprove, ActionReject:
		if caller.Role == domain.RoleAdmin {
			return nil
		}
	case ActionSubmit:
		if caller.ID == ownerID {
			return nil
		}
	case ActionEdit, ActionDelete:
		if caller.ID == ownerID || caller.Role == domain.RoleAdmin {
			return nil
		}
	}
	return ErrForbidden
}
