package testutils

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/storybridge/storybridge-api/internal/domain"
	"github.com/storybridge/storybridge-api/internal/store"
)

// FakeProgressStore is an in-memory store.ProgressStore keyed by
// (user, story), matching the composite uniqueness of the SQL store.
type FakeProgressStore struct {
	mu      sync.Mutex
	records map[progressKey]domain.Progress
}

type progressKey struct {
	userID  uuid.UUID
	storyID uuid.UUID
}

var _ store.ProgressStore = (*FakeProgressStore)(nil)

// NewFakeProgressStore creates an empty fake progress store.
func NewFakeProgressStore() *FakeProgressStore {
	return &FakeProgressStore{records: make(map[progressKey]domain.Progress)}
}

func (s *FakeProgressStore) Upsert(ctx context.Context, progress *domain.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := progressKey{userID: progress.UserID, storyID: progress.StoryID}
	record := cloneProgress(progress)
	if existing, ok := s.records[key]; ok {
		// The composite key wins: preserve the original identity.
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		progress.ID = existing.ID
		progress.CreatedAt = existing.CreatedAt
	}
	s.records[key] = record
	return nil
}

func (s *FakeProgressStore) GetByUserAndStory(ctx context.Context, userID, storyID uuid.UUID) (*domain.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[progressKey{userID: userID, storyID: storyID}]
	if !ok {
		return nil, store.ErrProgressNotFound
	}
	out := cloneProgress(&record)
	return &out, nil
}

func (s *FakeProgressStore) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Progress
	for key := range s.records {
		if key.userID != userID {
			continue
		}
		record := s.records[key]
		c := cloneProgress(&record)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *FakeProgressStore) FindUpdatedBetween(ctx context.Context, start, end time.Time) ([]*domain.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Progress
	for key := range s.records {
		record := s.records[key]
		if record.UpdatedAt.Before(start) || !record.UpdatedAt.Before(end) {
			continue
		}
		c := cloneProgress(&record)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	return out, nil
}

// FakeBadgeStore is an in-memory store.BadgeStore enforcing the
// create-once (user, type) constraint.
type FakeBadgeStore struct {
	mu     sync.Mutex
	badges map[badgeKey]domain.Badge
}

type badgeKey struct {
	userID    uuid.UUID
	badgeType domain.BadgeType
}

var _ store.BadgeStore = (*FakeBadgeStore)(nil)

// NewFakeBadgeStore creates an empty fake badge store.
func NewFakeBadgeStore() *FakeBadgeStore {
	return &FakeBadgeStore{badges: make(map[badgeKey]domain.Badge)}
}

func (s *FakeBadgeStore) Create(ctx context.Context, badge *domain.Badge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := badgeKey{userID: badge.UserID, badgeType: badge.Type}
	if _, ok := s.badges[key]; ok {
		return store.ErrBadgeExists
	}
	s.badges[key] = *badge
	return nil
}

func (s *FakeBadgeStore) Exists(ctx context.Context, userID uuid.UUID, badgeType domain.BadgeType) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.badges[badgeKey{userID: userID, badgeType: badgeType}]
	return ok, nil
}

func (s *FakeBadgeStore) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Badge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Badge
	for key := range s.badges {
		if key.userID != userID {
			continue
		}
		badge := s.badges[key]
		out = append(out, &badge)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AwardedAt.Before(out[j].AwardedAt) })
	return out, nil
}

// FakeSnapshotStore is an in-memory store.SnapshotStore.
type FakeSnapshotStore struct {
	mu        sync.Mutex
	snapshots []domain.MetricsSnapshot
}

var _ store.SnapshotStore = (*FakeSnapshotStore)(nil)

// NewFakeSnapshotStore creates an empty fake snapshot store.
func NewFakeSnapshotStore() *FakeSnapshotStore {
	return &FakeSnapshotStore{}
}

func (s *FakeSnapshotStore) Create(ctx context.Context, snapshot *domain.MetricsSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, *snapshot)
	return nil
}

func (s *FakeSnapshotStore) FindRecent(ctx context.Context, limit int) ([]*domain.MetricsSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.MetricsSnapshot, 0, len(s.snapshots))
	for i := range s.snapshots {
		snapshot := s.snapshots[i]
		out = append(out, &snapshot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, 0), nil
}

func cloneProgress(progress *domain.Progress) domain.Progress {
	c := *progress
	c.Vocabulary = append([]domain.VocabularyEntry(nil), progress.Vocabulary...)
	c.QuizResults = append([]domain.QuizResult(nil), progress.QuizResults...)
	return c
}
