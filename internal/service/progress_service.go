package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/storybridge/storybridge-api/internal/config"
	"github.com/storybridge/storybridge-api/internal/domain"
	"github.com/storybridge/storybridge-api/internal/platform/logger"
	"github.com/storybridge/storybridge-api/internal/store"
)

// ProgressInput carries one progress sync payload.
type ProgressInput struct {
	StoryID     uuid.UUID
	Completed   bool
	TimeSpent   int
	Vocabulary  []domain.VocabularyEntry
	QuizResults []domain.QuizResult
	CoinsEarned int
}

// SyncResult is the outcome of one progress sync: the stored record and
// any badges the sync newly unlocked.
type SyncResult struct {
	Progress      *domain.Progress `json:"progress"`
	AwardedBadges []*domain.Badge  `json:"awarded_badges"`
}

// ProgressService upserts progress records and evaluates badge
// eligibility over the caller's entire history. Badge awards are
// idempotent: eligibility is re-checked against the store and the badge
// store's uniqueness guarantee absorbs concurrent syncs.
type ProgressService struct {
	progressStore store.ProgressStore
	badgeStore    store.BadgeStore
	cfg           config.BadgeConfig
	logger        *slog.Logger
}

// NewProgressService creates a new ProgressService.
func NewProgressService(
	progressStore store.ProgressStore,
	badgeStore store.BadgeStore,
	cfg config.BadgeConfig,
	log *slog.Logger,
) *ProgressService {
	if log == nil {
		log = slog.Default()
	}
	return &ProgressService{
		progressStore: progressStore,
		badgeStore:    badgeStore,
		cfg:           cfg,
		logger:        log.With(slog.String("component", "progress_service")),
	}
}

// SyncProgress upserts the caller's progress for one story, then
// evaluates every badge rule against the caller's full history. The
// upsert always happens regardless of badge outcome, and replaying the
// same payload never creates duplicate rows or badges.
func (s *ProgressService) SyncProgress(ctx context.Context, caller Caller, input ProgressInput) (*SyncResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	progress, err := domain.NewProgress(caller.ID, input.StoryID)
	if err != nil {
		return nil, err
	}
	progress.Completed = input.Completed
	progress.TimeSpent = input.TimeSpent
	progress.Vocabulary = input.Vocabulary
	progress.QuizResults = input.QuizResults
	progress.CoinsEarned = input.CoinsEarned

	if err := progress.Validate(); err != nil {
		return nil, err
	}

	if err := s.progressStore.Upsert(ctx, progress); err != nil {
		return nil, err
	}

	history, err := s.progressStore.FindByUser(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	awarded, err := s.evaluateBadges(ctx, caller.ID, history)
	if err != nil {
		return nil, err
	}

	if len(awarded) > 0 {
		types := make([]string, len(awarded))
		for i, badge := range awarded {
			types[i] = string(badge.Type)
		}
		log.Info("badges awarded",
			slog.String("user_id", caller.ID.String()),
			slog.Any("badge_types", types))
	}

	stored, err := s.progressStore.GetByUserAndStory(ctx, caller.ID, input.StoryID)
	if err != nil {
		return nil, err
	}

	return &SyncResult{Progress: stored, AwardedBadges: awarded}, nil
}

// evaluateBadges awards every badge whose criteria the history now
// meets and the user does not hold yet.
func (s *ProgressService) evaluateBadges(
	ctx context.Context,
	userID uuid.UUID,
	history []*domain.Progress,
) ([]*domain.Badge, error) {
	completed := 0
	learnedWords := 0
	correctAnswers := 0
	for _, record := range history {
		if record.Completed {
			completed++
		}
		learnedWords += record.LearnedWordCount()
		correctAnswers += record.CorrectQuizCount()
	}

	eligible := map[domain.BadgeType]bool{
		domain.BadgeStoryStarter: completed >= 1,
		domain.BadgeWordWizard:   learnedWords >= s.cfg.WordWizardWords,
		domain.BadgeQuizMaster:   correctAnswers >= s.cfg.QuizMasterAnswers,
	}

	var awarded []*domain.Badge
	for _, badgeType := range []domain.BadgeType{
		domain.BadgeStoryStarter, domain.BadgeWordWizard, domain.BadgeQuizMaster,
	} {
		if !eligible[badgeType] {
			continue
		}

		exists, err := s.badgeStore.Exists(ctx, userID, badgeType)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		badge, err := domain.NewBadge(userID, badgeType)
		if err != nil {
			return nil, err
		}

		if err := s.badgeStore.Create(ctx, badge); err != nil {
			// A concurrent sync won the race; the badge exists, which is
			// all the rule requires.
			if errors.Is(err, store.ErrBadgeExists) {
				continue
			}
			return nil, err
		}
		awarded = append(awarded, badge)
	}

	return awarded, nil
}

// GetUserProgress returns the caller's entire progress history.
func (s *ProgressService) GetUserProgress(ctx context.Context, caller Caller) ([]*domain.Progress, error) {
	return s.progressStore.FindByUser(ctx, caller.ID)
}

// GetUserBadges returns the caller's badges.
func (s *ProgressService) GetUserBadges(ctx context.Context, caller Caller) ([]*domain.Badge, error) {
	return s.badgeStore.FindByUser(ctx, caller.ID)
}
