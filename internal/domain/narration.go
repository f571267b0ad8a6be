package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Narration
var (
	ErrEmptyNarrationID         = errors.New("narration ID cannot be empty")
	ErrEmptyNarrationStoryID    = errors.New("narration story ID cannot be empty")
	ErrEmptyNarrationNarratorID = errors.New("narration narrator ID cannot be empty")
)

// Narration is a narrator's audio recording of an existing story. The
// AudioID references the uploaded asset in the blob store; Transcript
// is the optional read-along text. On approval the audio reference
// propagates to the parent story.
type Narration struct {
	ID          uuid.UUID     `json:"id"`
	StoryID     uuid.UUID     `json:"story_id"`
	NarratorID  uuid.UUID     `json:"narrator_id"`
	AudioID     *uuid.UUID    `json:"audio_id,omitempty"`
	Transcript  string        `json:"transcript,omitempty"`
	Status      ContentStatus `json:"status"`
	ReviewNotes string        `json:"review_notes,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// NewNarration creates a new draft Narration for the given story.
// It generates a new UUID for the narration ID and sets the
// creation/update timestamps. Returns an error if validation fails.
func NewNarration(storyID, narratorID uuid.UUID, audioID *uuid.UUID, transcript string) (*Narration, error) {
	narration := &Narration{
		ID:         uuid.New(),
		StoryID:    storyID,
		NarratorID: narratorID,
		AudioID:    audioID,
		Transcript: transcript,
		Status:     ContentStatusDraft,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	if err := narration.Validate(); err != nil {
		return nil, err
	}

	return narration, nil
}

// Validate checks if the Narration has valid data.
// Returns an error if any field fails validation.
func (n *Narration) Validate() error {
	if n.ID == uuid.Nil {
		return ErrEmptyNarrationID
	}

	if n.StoryID == uuid.Nil {
		return ErrEmptyNarrationStoryID
	}

	if n.NarratorID == uuid.Nil {
		return ErrEmptyNarrationNarratorID
	}

	if !n.Status.Valid() {
		return ErrInvalidContentStatus
	}

	return nil
}

// Submit moves the narration from draft into the review queue.
// Returns ErrInvalidTransition if the narration is not a draft.
func (n *Narration) Submit() error {
	if !n.Status.CanSubmit() {
		return ErrInvalidTransition
	}

	n.Status = ContentStatusPending
	n.UpdatedAt = time.Now().UTC()
	return nil
}

// Publish marks a pending narration as published.
// Returns ErrInvalidTransition if the narration is not pending.
func (n *Narration) Publish() error {
	if !n.Status.CanReview() {
		return ErrInvalidTransition
	}

	n.Status = ContentStatusPublished
	n.ReviewNotes = ""
	n.UpdatedAt = time.Now().UTC()
	return nil
}

// Reject marks a pending narration as rejected with the reviewer's notes.
// Returns ErrInvalidTransition if the narration is not pending.
func (n *Narration) Reject(notes string) error {
	if !n.Status.CanReview() {
		return ErrInvalidTransition
	}

	n.Status = ContentStatusRejected
	n.ReviewNotes = notes
	n.UpdatedAt = time.Now().UTC()
	return nil
}

// ApplyEdit replaces the narration's audio and transcript and resets the
// status to draft. Returns ErrInvalidTransition unless the narration is
// in draft or rejected.
func (n *Narration) ApplyEdit(audioID *uuid.UUID, transcript string) error {
	if !n.Status.CanEdit() {
		return ErrInvalidTransition
	}

	n.AudioID = audioID
	n.Transcript = transcript
	n.Status = ContentStatusDraft
	n.ReviewNotes = ""
	n.UpdatedAt = time.Now().UTC()

	return n.Validate()
}
