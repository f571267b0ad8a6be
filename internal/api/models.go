package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/storybridge/storybridge-api/internal/domain"
)

// Common request/response structures

// SignupRequest defines the payload for the signup endpoint.
type SignupRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role"     validate:"required,oneof=end_user creator narrator"`
	Language string `json:"language" validate:"omitempty,min=2,max=8"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// Role is the account's role, echoed so clients can route to the
	// right workspace without decoding the token
	Role string `json:"role"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`
}

// UserResponse represents the response data for a user account.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

// StoryRequest defines the payload for creating or editing a story.
type StoryRequest struct {
	Title      string            `json:"title"      validate:"required,min=1,max=200"`
	Text       string            `json:"text"       validate:"required,min=1"`
	Language   string            `json:"language"   validate:"omitempty,min=2,max=8"`
	AgeGroup   string            `json:"age_group"  validate:"required,min=1,max=32"`
	Vocabulary []string          `json:"vocabulary" validate:"omitempty,dive,min=1"`
	Quizzes    []json.RawMessage `json:"quizzes"`
}

// StoryResponse represents the response data for a story.
type StoryResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Text        string            `json:"text"`
	Language    string            `json:"language"`
	AgeGroup    string            `json:"age_group"`
	Vocabulary  []string          `json:"vocabulary"`
	Quizzes     []json.RawMessage `json:"quizzes"`
	CreatorID   string            `json:"creator_id"`
	Status      string            `json:"status"`
	AudioID     *string           `json:"audio_id,omitempty"`
	ReviewNotes string            `json:"review_notes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// NarrationResponse represents the response data for a narration.
type NarrationResponse struct {
	ID          string    `json:"id"`
	StoryID     string    `json:"story_id"`
	NarratorID  string    `json:"narrator_id"`
	AudioID     *string   `json:"audio_id,omitempty"`
	Transcript  string    `json:"transcript,omitempty"`
	Status      string    `json:"status"`
	ReviewNotes string    `json:"review_notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RejectRequest defines the payload for the content rejection endpoint.
type RejectRequest struct {
	Notes string `json:"notes" validate:"required,min=1"`
}

// PendingContentResponse is the admin review queue.
type PendingContentResponse struct {
	Stories    []StoryResponse     `json:"stories"`
	Narrations []NarrationResponse `json:"narrations"`
}

// ProgressRequest defines the payload for the progress sync endpoint.
type ProgressRequest struct {
	StoryID     string                   `json:"story_id" validate:"required,uuid"`
	Completed   bool                     `json:"completed"`
	TimeSpent   int                      `json:"time_spent"   validate:"gte=0"`
	Vocabulary  []domain.VocabularyEntry `json:"vocabulary_learned"`
	QuizResults []domain.QuizResult      `json:"quiz_results"`
	CoinsEarned int                      `json:"coins_earned" validate:"gte=0"`
}

// ProgressResponse represents the response data for a progress record.
type ProgressResponse struct {
	ID          string                   `json:"id"`
	UserID      string                   `json:"user_id"`
	StoryID     string                   `json:"story_id"`
	Completed   bool                     `json:"completed"`
	TimeSpent   int                      `json:"time_spent"`
	Vocabulary  []domain.VocabularyEntry `json:"vocabulary_learned"`
	QuizResults []domain.QuizResult      `json:"quiz_results"`
	CoinsEarned int                      `json:"coins_earned"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// BadgeResponse represents the response data for an awarded badge.
type BadgeResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	AwardedAt time.Time `json:"awarded_at"`
}

// SyncProgressResponse is the outcome of one progress sync.
type SyncProgressResponse struct {
	Progress      ProgressResponse `json:"progress"`
	AwardedBadges []BadgeResponse  `json:"awarded_badges"`
}

// SnapshotResponse represents one analytics rollup.
type SnapshotResponse struct {
	ID                 string    `json:"id"`
	WindowStart        time.Time `json:"window_start"`
	WindowEnd          time.Time `json:"window_end"`
	ActiveUsers        int       `json:"active_users"`
	CompletedStories   int       `json:"completed_stories"`
	AvgSessionSeconds  float64   `json:"avg_session_seconds"`
	VocabRetentionRate float64   `json:"vocab_retention_rate"`
	QuizSuccessRate    float64   `json:"quiz_success_rate"`
	CreatedAt          time.Time `json:"created_at"`
}

// DTO conversion helpers

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Role:      string(user.Role),
		Language:  user.Language,
		CreatedAt: user.CreatedAt,
	}
}

func storyToResponse(story *domain.Story) StoryResponse {
	resp := StoryResponse{
		ID:          story.ID.String(),
		Title:       story.Title,
		Text:        story.Text,
		Language:    story.Language,
		AgeGroup:    story.AgeGroup,
		Vocabulary:  story.Vocabulary,
		Quizzes:     story.Quizzes,
		CreatorID:   story.CreatorID.String(),
		Status:      string(story.Status),
		ReviewNotes: story.ReviewNotes,
		CreatedAt:   story.CreatedAt,
		UpdatedAt:   story.UpdatedAt,
	}
	if story.AudioID != nil {
		audioID := story.AudioID.String()
		resp.AudioID = &audioID
	}
	return resp
}

func storiesToResponse(stories []*domain.Story) []StoryResponse {
	responses := make([]StoryResponse, 0, len(stories))
	for _, story := range stories {
		responses = append(responses, storyToResponse(story))
	}
	return responses
}

func narrationToResponse(narration *domain.Narration) NarrationResponse {
	resp := NarrationResponse{
		ID:          narration.ID.String(),
		StoryID:     narration.StoryID.String(),
		NarratorID:  narration.NarratorID.String(),
		Transcript:  narration.Transcript,
		Status:      string(narration.Status),
		ReviewNotes: narration.ReviewNotes,
		CreatedAt:   narration.CreatedAt,
		UpdatedAt:   narration.UpdatedAt,
	}
	if narration.AudioID != nil {
		audioID := narration.AudioID.String()
		resp.AudioID = &audioID
	}
	return resp
}

func narrationsToResponse(narrations []*domain.Narration) []NarrationResponse {
	responses := make([]NarrationResponse, 0, len(narrations))
	for _, narration := range narrations {
		responses = append(responses, narrationToResponse(narration))
	}
	return responses
}

func progressToResponse(progress *domain.Progress) ProgressResponse {
	return ProgressResponse{
		ID:          progress.ID.String(),
		UserID:      progress.UserID.String(),
		StoryID:     progress.StoryID.String(),
		Completed:   progress.Completed,
		TimeSpent:   progress.TimeSpent,
		Vocabulary:  progress.Vocabulary,
		QuizResults: progress.QuizResults,
		CoinsEarned: progress.CoinsEarned,
		UpdatedAt:   progress.UpdatedAt,
	}
}

func badgeToResponse(badge *domain.Badge) BadgeResponse {
	return BadgeResponse{
		ID:        badge.ID.String(),
		Type:      string(badge.Type),
		AwardedAt: badge.AwardedAt,
	}
}

func badgesToResponse(badges []*domain.Badge) []BadgeResponse {
	responses := make([]BadgeResponse, 0, len(badges))
	for _, badge := range badges {
		responses = append(responses, badgeToResponse(badge))
	}
	return responses
}

func snapshotToResponse(snapshot *domain.MetricsSnapshot) SnapshotResponse {
	return SnapshotResponse{
		ID:                 snapshot.ID.String(),
		WindowStart:        snapshot.WindowStart,
		WindowEnd:          snapshot.WindowEnd,
		ActiveUsers:        snapshot.ActiveUsers,
		CompletedStories:   snapshot.CompletedStories,
		AvgSessionSeconds:  snapshot.AvgSessionSeconds,
		VocabRetentionRate: snapshot.VocabRetentionRate,
		QuizSuccessRate:    snapshot.QuizSuccessRate,
		CreatedAt:          snapshot.CreatedAt,
	}
}
