package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storybridge/storybridge-api/internal/config"
	"github.com/storybridge/storybridge-api/internal/domain"
	"github.com/storybridge/storybridge-api/internal/service"
	"github.com/storybridge/storybridge-api/internal/testutils"
)

func newProgressService(t *testing.T) (*service.ProgressService, *testutils.FakeProgressStore, *testutils.FakeBadgeStore) {
	t.Helper()
	progressStore := testutils.NewFakeProgressStore()
	badgeStore := testutils.NewFakeBadgeStore()
	svc := service.NewProgressService(progressStore, badgeStore, config.BadgeConfig{
		WordWizardWords:   10,
		QuizMasterAnswers: 5,
	}, testutils.NewTestLogger())
	return svc, progressStore, badgeStore
}

func learnedWords(n int) []domain.VocabularyEntry {
	entries := make([]domain.VocabularyEntry, n)
	for i := range entries {
		entries[i] = domain.VocabularyEntry{Word: uuid.NewString(), Learned: true}
	}
	return entries
}

func correctAnswers(n int) []domain.QuizResult {
	results := make([]domain.QuizResult, n)
	for i := range results {
		results[i] = domain.QuizResult{Correct: true}
	}
	return results
}

func TestSyncProgressUpserts(t *testing.T) {
	svc, progressStore, _ := newProgressService(t)
	caller := service.Caller{ID: uuid.New(), Role: domain.RoleEndUser}
	storyID := uuid.New()
	ctx := context.Background()

	first, err := svc.SyncProgress(ctx, caller, service.ProgressInput{
		StoryID:   storyID,
		TimeSpent: 120,
	})
	require.NoError(t, err)

	// Replaying with new values updates the same record.
	second, err := svc.SyncProgress(ctx, caller, service.ProgressInput{
		StoryID:   storyID,
		Completed: true,
		TimeSpent: 300,
	})
	require.NoError(t, err)

	assert.Equal(t, first.Progress.ID, second.Progress.ID, "upsert must preserve record identity")
	assert.Equal(t, first.Progress.CreatedAt, second.Progress.CreatedAt)
	assert.True(t, second.Progress.Completed)
	assert.Equal(t, 300, second.Progress.TimeSpent)

	history, err := progressStore.FindByUser(ctx, caller.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestSyncProgressValidatesInput(t *testing.T) {
	svc, _, _ := newProgressService(t)
	caller := service.Caller{ID: uuid.New(), Role: domain.RoleEndUser}

	_, err := svc.SyncProgress(context.Background(), caller, service.ProgressInput{
		StoryID:   uuid.New(),
		TimeSpent: -10,
	})
	assert.ErrorIs(t, err, domain.ErrNegativeTimeSpent)

	_, err = svc.SyncProgress(context.Background(), caller, service.ProgressInput{
		StoryID:     uuid.New(),
		CoinsEarned: -1,
	})
	assert.ErrorIs(t, err, domain.ErrNegativeCoins)
}

func TestSyncProgressAwardsStoryStarter(t *testing.T) {
	svc, _, badgeStore := newProgressService(t)
	caller := service.Caller{ID: uuid.New(), Role: domain.RoleEndUser}
	ctx := context.Background()

	// An incomplete story earns nothing.
	result, err := svc.SyncProgress(ctx, caller, service.ProgressInput{StoryID: uuid.New()})
	require.NoError(t, err)
	assert.Empty(t, result.AwardedBadges)

	result, err = svc.SyncProgress(ctx, caller, service.ProgressInput{
		StoryID:   uuid.New(),
		Completed: true,
	})
	require.NoError(t, err)
	require.Len(t, result.AwardedBadges, 1)
	assert.Equal(t, domain.BadgeStoryStarter, result.AwardedBadges[0].Type)

	held, err := badgeStore.FindByUser(ctx, caller.ID)
	require.NoError(t, err)
	assert.Len(t, held, 1)
}

func TestSyncProgressBadgeIdempotence(t *testing.T) {
	svc, _, badgeStore := newProgressService(t)
	caller := service.Caller{ID: uuid.New(), Role: domain.RoleEndUser}
	ctx := context.Background()

	input := service.ProgressInput{StoryID: uuid.New(), Completed: true}

	first, err := svc.SyncProgress(ctx, caller, input)
	require.NoError(t, err)
	require.Len(t, first.AwardedBadges, 1)

	// Replaying the same sync reports no new badges and stores none.
	replay, err := svc.SyncProgress(ctx, caller, input)
	require.NoError(t, err)
	assert.Empty(t, replay.AwardedBadges)

	held, err := badgeStore.FindByUser(ctx, caller.ID)
	require.NoError(t, err)
	assert.Len(t, held, 1)
}

func TestSyncProgressThresholdBadges(t *testing.T) {
	svc, _, _ := newProgressService(t)
	caller := service.Caller{ID: uuid.New(), Role: domain.RoleEndUser}
	ctx := context.Background()

	// 9 learned words across history: below the word-wizard threshold.
	_, err := svc.SyncProgress(ctx, caller, service.ProgressInput{
		StoryID:    uuid.New(),
		Vocabulary: learnedWords(9),
	})
	require.NoError(t, err)

	// One more word crosses it; 5 correct answers cross quiz-master too.
	result, err := svc.SyncProgress(ctx, caller, service.ProgressInput{
		StoryID:     uuid.New(),
		Vocabulary:  learnedWords(1),
		QuizResults: correctAnswers(5),
	})
	require.NoError(t, err)

	types := make([]domain.BadgeType, 0, len(result.AwardedBadges))
	for _, badge := range result.AwardedBadges {
		types = append(types, badge.Type)
	}
	assert.ElementsMatch(t, []domain.BadgeType{domain.BadgeWordWizard, domain.BadgeQuizMaster}, types)
}

func TestSyncProgressUnlearnedWordsDoNotCount(t *testing.T) {
	svc, _, _ := newProgressService(t)
	caller := service.Caller{ID: uuid.New(), Role: domain.RoleEndUser}

	entries := make([]domain.VocabularyEntry, 20)
	for i := range entries {
		entries[i] = domain.VocabularyEntry{Word: uuid.NewString(), Learned: false}
	}

	result, err := svc.SyncProgress(context.Background(), caller, service.ProgressInput{
		StoryID:    uuid.New(),
		Vocabulary: entries,
	})
	require.NoError(t, err)
	assert.Empty(t, result.AwardedBadges)
}

func TestGetUserProgressAndBadges(t *testing.T) {
	svc, _, _ := newProgressService(t)
	caller := service.Caller{ID: uuid.New(), Role: domain.RoleEndUser}
	other := service.Caller{ID: uuid.New(), Role: domain.RoleEndUser}
	ctx := context.Background()

	_, err := svc.SyncProgress(ctx, caller, service.ProgressInput{StoryID: uuid.New(), Completed: true})
	require.NoError(t, err)

	history, err := svc.GetUserProgress(ctx, caller)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	badges, err := svc.GetUserBadges(ctx, caller)
	require.NoError(t, err)
	assert.Len(t, badges, 1)

	// Another user sees nothing.
	history, err = svc.GetUserProgress(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, history)
	badges, err = svc.GetUserBadges(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, badges)
}
