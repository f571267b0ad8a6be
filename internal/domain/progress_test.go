package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProgress(t *testing.T) {
	userID, storyID := uuid.New(), uuid.New()
	progress, err := NewProgress(userID, storyID)
	require.NoError(t, err)

	assert.Equal(t, userID, progress.UserID)
	assert.Equal(t, storyID, progress.StoryID)
	assert.False(t, progress.Completed)

	_, err = NewProgress(uuid.Nil, storyID)
	assert.ErrorIs(t, err, ErrEmptyProgressUserID)

	_, err = NewProgress(userID, uuid.Nil)
	assert.ErrorIs(t, err, ErrEmptyProgressStoryID)
}

func TestProgressValidateRejectsNegatives(t *testing.T) {
	progress, err := NewProgress(uuid.New(), uuid.New())
	require.NoError(t, err)

	progress.TimeSpent = -1
	assert.ErrorIs(t, progress.Validate(), ErrNegativeTimeSpent)

	progress.TimeSpent = 0
	progress.CoinsEarned = -5
	assert.ErrorIs(t, progress.Validate(), ErrNegativeCoins)
}

func TestProgressCounts(t *testing.T) {
	progress, err := NewProgress(uuid.New(), uuid.New())
	require.NoError(t, err)

	progress.Vocabulary = []VocabularyEntry{
		{Word: "cat", Repetitions: 4, Learned: true},
		{Word: "dog", Repetitions: 2, Learned: false},
		{Word: "sun", Repetitions: 5, Learned: true},
	}
	progress.QuizResults = []QuizResult{
		{Question: "q1", Correct: true},
		{Question: "q2", Correct: false},
	}

	assert.Equal(t, 2, progress.LearnedWordCount())
	assert.Equal(t, 1, progress.CorrectQuizCount())
}

func TestNewBadge(t *testing.T) {
	userID := uuid.New()
	badge, err := NewBadge(userID, BadgeWordWizard)
	require.NoError(t, err)
	assert.Equal(t, userID, badge.UserID)
	assert.Equal(t, BadgeWordWizard, badge.Type)
	assert.False(t, badge.AwardedAt.IsZero())

	_, err = NewBadge(userID, BadgeType("participation"))
	assert.ErrorIs(t, err, ErrInvalidBadgeType)

	_, err = NewBadge(uuid.Nil, BadgeStoryStarter)
	assert.ErrorIs(t, err, ErrEmptyBadgeUserID)
}

func TestNewMetricsSnapshot(t *testing.T) {
	end := time.Now().UTC()
	start := end.Add(-7 * 24 * time.Hour)

	snapshot, err := NewMetricsSnapshot(start, end)
	require.NoError(t, err)
	assert.Equal(t, start, snapshot.WindowStart)
	assert.Equal(t, end, snapshot.WindowEnd)

	_, err = NewMetricsSnapshot(end, start)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestNewContentReview(t *testing.T) {
	contentID, reviewerID := uuid.New(), uuid.New()

	review, err := NewContentReview(ContentTypeStory, contentID, reviewerID, ReviewDecisionApproved, "")
	require.NoError(t, err)
	assert.Equal(t, ContentTypeStory, review.ContentType)
	assert.Equal(t, ReviewDecisionApproved, review.Decision)

	_, err = NewContentReview(ContentType("quiz"), contentID, reviewerID, ReviewDecisionApproved, "")
	assert.ErrorIs(t, err, ErrInvalidContentType)

	_, err = NewContentReview(ContentTypeStory, contentID, reviewerID, ReviewDecision("maybe"), "")
	assert.ErrorIs(t, err, ErrInvalidReviewDecision)
}
