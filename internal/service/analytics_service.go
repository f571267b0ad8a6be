package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/storybridge/storybridge-api/internal/config"
	"github.com/storybridge/storybridge-api/internal/domain"
	"github.com/storybridge/storybridge-api/internal/platform/logger"
	"github.com/storybridge/storybridge-api/internal/store"
)

// AnalyticsService rolls progress records up into windowed metrics. It
// reads content state but never modifies it; each invocation persists
// one snapshot for history and export.
type AnalyticsService struct {
	progressStore store.ProgressStore
	snapshotStore store.SnapshotStore
	window        time.Duration
	timeFunc      func() time.Time // Injectable for testing
	logger        *slog.Logger
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(
	progressStore store.ProgressStore,
	snapshotStore store.SnapshotStore,
	cfg config.AnalyticsConfig,
	log *slog.Logger,
) *AnalyticsService {
	if log == nil {
		log = slog.Default()
	}
	return &AnalyticsService{
		progressStore: progressStore,
		snapshotStore: snapshotStore,
		window:        time.Duration(cfg.WindowDays) * 24 * time.Hour,
		timeFunc:      time.Now,
		logger:        log.With(slog.String("component", "analytics_service")),
	}
}

// ComputeWindowMetrics aggregates all progress records updated inside
// the trailing window, persists the resulting snapshot, and returns it.
// Admin only.
func (s *AnalyticsService) ComputeWindowMetrics(ctx context.Context, caller Caller) (*domain.MetricsSnapshot, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := Authorize(caller, ActionApprove, uuid.Nil); err != nil {
		return nil, err
	}

	windowEnd := s.timeFunc().UTC()
	windowStart := windowEnd.Add(-s.window)

	records, err := s.progressStore.FindUpdatedBetween(ctx, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	snapshot, err := domain.NewMetricsSnapshot(windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	activeUsers := make(map[uuid.UUID]struct{}, len(records))
	totalSeconds := 0
	vocabTotal, vocabLearned := 0, 0
	quizTotal, quizCorrect := 0, 0
	for _, record := range records {
		activeUsers[record.UserID] = struct{}{}
		if record.Completed {
			snapshot.CompletedStories++
		}
		totalSeconds += record.TimeSpent
		vocabTotal += len(record.Vocabulary)
		vocabLearned += record.LearnedWordCount()
		quizTotal += len(record.QuizResults)
		quizCorrect += record.CorrectQuizCount()
	}

	snapshot.ActiveUsers = len(activeUsers)
	if len(records) > 0 {
		snapshot.AvgSessionSeconds = float64(totalSeconds) / float64(len(records))
	}
	if vocabTotal > 0 {
		snapshot.VocabRetentionRate = float64(vocabLearned) / float64(vocabTotal)
	}
	if quizTotal > 0 {
		snapshot.QuizSuccessRate = float64(quizCorrect) / float64(quizTotal)
	}

	if err := snapshot.Validate(); err != nil {
		return nil, err
	}

	if err := s.snapshotStore.Create(ctx, snapshot); err != nil {
		return nil, err
	}

	log.Info("analytics snapshot persisted",
		slog.String("snapshot_id", snapshot.ID.String()),
		slog.Int("active_users", snapshot.ActiveUsers),
		slog.Int("records", len(records)))
	return snapshot, nil
}

// RecentSnapshots returns the most recent persisted snapshots. Admin
// only.
func (s *AnalyticsService) RecentSnapshots(ctx context.Context, caller Caller, limit int) ([]*domain.MetricsSnapshot, error) {
	if err := Authorize(caller, ActionApprove, uuid.Nil); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	return s.snapshotStore.FindRecent(ctx, limit)
}
