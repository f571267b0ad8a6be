package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// BadgeType identifies an achievement a user can unlock. Each type is
// awarded at most once per user and never revoked.
type BadgeType string

// Badge types derived from accumulated progress.
const (
	// BadgeStoryStarter is awarded on the first completed story.
	BadgeStoryStarter BadgeType = "story_starter"

	// BadgeWordWizard is awarded once enough vocabulary words are learned
	// across all stories.
	BadgeWordWizard BadgeType = "word_wizard"

	// BadgeQuizMaster is awarded once enough quiz questions are answered
	// correctly across all stories.
	BadgeQuizMaster BadgeType = "quiz_master"
)

// Common validation errors for Badge
var (
	ErrEmptyBadgeID     = errors.New("badge ID cannot be empty")
	ErrEmptyBadgeUserID = errors.New("badge user ID cannot be empty")
	ErrInvalidBadgeType = errors.New("invalid badge type")
)

// Badge records that a user unlocked an achievement.
type Badge struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Type      BadgeType `json:"type"`
	AwardedAt time.Time `json:"awarded_at"`
}

// NewBadge creates a Badge of the given type for the user.
// Returns an error if validation fails.
func NewBadge(userID uuid.UUID, badgeType BadgeType) (*Badge, error) {
	badge := &Badge{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      badgeType,
		AwardedAt: time.Now().UTC(),
	}

	if err := badge.Validate(); err != nil {
		return nil, err
	}

	return badge, nil
}

// Validate checks if the Badge has valid data.
func (b *Badge) Validate() error {
	if b.ID == uuid.Nil {
		return ErrEmptyBadgeID
	}

	if b.UserID == uuid.Nil {
		return ErrEmptyBadgeUserID
	}

	if !b.Type.Valid() {
		return ErrInvalidBadgeType
	}

	return nil
}

// Valid reports whether the badge type is recognized.
func (t BadgeType) Valid() bool {
	switch t {
	case BadgeStoryStarter, BadgeWordWizard, BadgeQuizMaster:
		return true
	default:
		return false
	}
}
