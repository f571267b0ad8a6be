package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Story
var (
	ErrEmptyStoryID        = errors.New("story ID cannot be empty")
	ErrEmptyStoryCreatorID = errors.New("story creator ID cannot be empty")
	ErrEmptyStoryTitle     = errors.New("story title cannot be empty")
	ErrEmptyStoryText      = errors.New("story text cannot be empty")
	ErrEmptyStoryAgeGroup  = errors.New("story age group cannot be empty")
	ErrEmptyVocabularyTerm = errors.New("vocabulary terms cannot be empty strings")
)

// Story is a short illustrated story submitted by a creator. It moves
// through the review lifecycle before end users can read it. AudioID,
// when set, references the asset of a published Narration for this
// story; the lifecycle engine is the only writer of that field.
type Story struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Text        string            `json:"text"`
	Language    string            `json:"language"`
	AgeGroup    string            `json:"age_group"`
	Vocabulary  []string          `json:"vocabulary"`
	Quizzes     []json.RawMessage `json:"quizzes"`
	CreatorID   uuid.UUID         `json:"creator_id"`
	Status      ContentStatus     `json:"status"`
	AudioID     *uuid.UUID        `json:"audio_id,omitempty"`
	ReviewNotes string            `json:"review_notes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// NewStory creates a new draft Story owned by the given creator.
// It generates a new UUID for the story ID and sets the
// creation/update timestamps. Returns an error if validation fails.
func NewStory(
	creatorID uuid.UUID,
	title, text, language, ageGroup string,
	vocabulary []string,
	quizzes []json.RawMessage,
) (*Story, error) {
	if language == "" {
		language = "en"
	}

	story := &Story{
		ID:         uuid.New(),
		Title:      title,
		Text:       text,
		Language:   language,
		AgeGroup:   ageGroup,
		Vocabulary: vocabulary,
		Quizzes:    quizzes,
		CreatorID:  creatorID,
		Status:     ContentStatusDraft,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	if err := story.Validate(); err != nil {
		return nil, err
	}

	return story, nil
}

// Validate checks if the Story has valid data.
// Returns an error if any field fails validation.
func (s *Story) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptyStoryID
	}

	if s.CreatorID == uuid.Nil {
		return ErrEmptyStoryCreatorID
	}

	if s.Title == "" {
		return ErrEmptyStoryTitle
	}

	if s.Text == "" {
		return ErrEmptyStoryText
	}

	if s.AgeGroup == "" {
		return ErrEmptyStoryAgeGroup
	}

	for _, term := range s.Vocabulary {
		if term == "" {
			return ErrEmptyVocabularyTerm
		}
	}

	if !s.Status.Valid() {
		return ErrInvalidContentStatus
	}

	return nil
}

// Submit moves the story from draft into the review queue.
// Returns ErrInvalidTransition if the story is not a draft.
func (s *Story) Submit() error {
	if !s.Status.CanSubmit() {
		return ErrInvalidTransition
	}

	s.Status = ContentStatusPending
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Publish marks a pending story as published.
// Returns ErrInvalidTransition if the story is not pending.
func (s *Story) Publish() error {
	if !s.Status.CanReview() {
		return ErrInvalidTransition
	}

	s.Status = ContentStatusPublished
	s.ReviewNotes = ""
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Reject marks a pending story as rejected and records the reviewer's
// notes on the story so the creator can see why.
// Returns ErrInvalidTransition if the story is not pending.
func (s *Story) Reject(notes string) error {
	if !s.Status.CanReview() {
		return ErrInvalidTransition
	}

	s.Status = ContentStatusRejected
	s.ReviewNotes = notes
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// ApplyEdit replaces the story's editable content and resets the status
// to draft. Editing is legal from draft and rejected, and from
// published, in which case the story drops out of the library until it
// passes review again. Returns ErrInvalidTransition while pending.
func (s *Story) ApplyEdit(
	title, text, language, ageGroup string,
	vocabulary []string,
	quizzes []json.RawMessage,
) error {
	if !s.Status.CanEdit() && s.Status != ContentStatusPublished {
		return ErrInvalidTransition
	}

	s.Title = title
	s.Text = text
	if language != "" {
		s.Language = language
	}
	s.AgeGroup = ageGroup
	s.Vocabulary = vocabulary
	s.Quizzes = quizzes
	s.Status = ContentStatusDraft
	s.ReviewNotes = ""
	s.UpdatedAt = time.Now().UTC()

	return s.Validate()
}
