package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Progress
var (
	ErrEmptyProgressID      = errors.New("progress ID cannot be empty")
	ErrEmptyProgressUserID  = errors.New("progress user ID cannot be empty")
	ErrEmptyProgressStoryID = errors.New("progress story ID cannot be empty")
	ErrNegativeTimeSpent    = errors.New("time spent cannot be negative")
	ErrNegativeCoins        = errors.New("coins earned cannot be negative")
)

// VocabularyEntry records a reader's exposure to a single target word.
type VocabularyEntry struct {
	Word        string `json:"word"`
	Repetitions int    `json:"repetitions"`
	Learned     bool   `json:"learned"`
}

// QuizResult records the outcome of one quiz question.
type QuizResult struct {
	Question string `json:"question,omitempty"`
	Correct  bool   `json:"correct"`
}

// Progress tracks one user's reading progress on one story. There is
// exactly one record per (user, story) pair; repeated sync calls upsert
// by that composite key.
type Progress struct {
	ID          uuid.UUID         `json:"id"`
	UserID      uuid.UUID         `json:"user_id"`
	StoryID     uuid.UUID         `json:"story_id"`
	Completed   bool              `json:"completed"`
	TimeSpent   int               `json:"time_spent"` // seconds
	Vocabulary  []VocabularyEntry `json:"vocabulary_learned"`
	QuizResults []QuizResult      `json:"quiz_results"`
	CoinsEarned int               `json:"coins_earned"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// NewProgress creates a Progress record for the given user and story.
// Returns an error if validation fails.
func NewProgress(userID, storyID uuid.UUID) (*Progress, error) {
	progress := &Progress{
		ID:        uuid.New(),
		UserID:    userID,
		StoryID:   storyID,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := progress.Validate(); err != nil {
		return nil, err
	}

	return progress, nil
}

// Validate checks if the Progress has valid data.
func (p *Progress) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyProgressID
	}

	if p.UserID == uuid.Nil {
		return ErrEmptyProgressUserID
	}

	if p.StoryID == uuid.Nil {
		return ErrEmptyProgressStoryID
	}

	if p.TimeSpent < 0 {
		return ErrNegativeTimeSpent
	}

	if p.CoinsEarned < 0 {
		return ErrNegativeCoins
	}

	return nil
}

// LearnedWordCount returns how many vocabulary entries in this record
// are marked learned.
func (p *Progress) LearnedWordCount() int {
	count := 0
	for _, entry := range p.Vocabulary {
		if entry.Learned {
			count++
		}
	}
	return count
}

// CorrectQuizCount returns how many quiz results in this record are
// marked correct.
func (p *Progress) CorrectQuizCount() int {
	count := 0
	for _, result := range p.QuizResults {
		if result.Correct {
			count++
		}
	}
	return count
}
