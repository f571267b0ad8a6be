package testutils

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/storybridge/storybridge-api/internal/domain"
	"github.com/storybridge/storybridge-api/internal/store"
)

// FakeStoryStore is an in-memory store.StoryStore.
type FakeStoryStore struct {
	mu      sync.Mutex
	stories map[uuid.UUID]domain.Story
}

var _ store.StoryStore = (*FakeStoryStore)(nil)

// NewFakeStoryStore creates an empty fake story store.
func NewFakeStoryStore() *FakeStoryStore {
	return &FakeStoryStore{stories: make(map[uuid.UUID]domain.Story)}
}

func (s *FakeStoryStore) Create(ctx context.Context, story *domain.Story) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stories[story.ID] = cloneStory(story)
	return nil
}

func (s *FakeStoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Story, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	story, ok := s.stories[id]
	if !ok {
		return nil, store.ErrStoryNotFound
	}
	out := cloneStory(&story)
	return &out, nil
}

func (s *FakeStoryStore) Update(ctx context.Context, story *domain.Story) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stories[story.ID]; !ok {
		return store.ErrStoryNotFound
	}
	s.stories[story.ID] = cloneStory(story)
	return nil
}

func (s *FakeStoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stories[id]; !ok {
		return store.ErrStoryNotFound
	}
	delete(s.stories, id)
	return nil
}

func (s *FakeStoryStore) FindByCreator(ctx context.Context, creatorID uuid.UUID) ([]*domain.Story, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Story
	for id := range s.stories {
		story := s.stories[id]
		if story.CreatorID == creatorID {
			c := cloneStory(&story)
			out = append(out, &c)
		}
	}
	sortStoriesNewestFirst(out)
	return out, nil
}

func (s *FakeStoryStore) Find(ctx context.Context, filter store.StoryFilter, limit, offset int) ([]*domain.Story, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Story
	for id := range s.stories {
		story := s.stories[id]
		if filter.Status != "" && story.Status != filter.Status {
			continue
		}
		if filter.Language != "" && story.Language != filter.Language {
			continue
		}
		if filter.AgeGroup != "" && story.AgeGroup != filter.AgeGroup {
			continue
		}
		if filter.NarratedOnly && story.AudioID == nil {
			continue
		}
		c := cloneStory(&story)
		out = append(out, &c)
	}
	sortStoriesNewestFirst(out)
	return paginate(out, limit, offset), nil
}

func (s *FakeStoryStore) WithTx(tx *sql.Tx) store.StoryStore { return s }

// FakeNarrationStore is an in-memory store.NarrationStore.
type FakeNarrationStore struct {
	mu         sync.Mutex
	narrations map[uuid.UUID]domain.Narration
}

var _ store.NarrationStore = (*FakeNarrationStore)(nil)

// NewFakeNarrationStore creates an empty fake narration store.
func NewFakeNarrationStore() *FakeNarrationStore {
	return &FakeNarrationStore{narrations: make(map[uuid.UUID]domain.Narration)}
}

func (s *FakeNarrationStore) Create(ctx context.Context, narration *domain.Narration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.narrations[narration.ID] = cloneNarration(narration)
	return nil
}

func (s *FakeNarrationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Narration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	narration, ok := s.narrations[id]
	if !ok {
		return nil, store.ErrNarrationNotFound
	}
	out := cloneNarration(&narration)
	return &out, nil
}

func (s *FakeNarrationStore) Update(ctx context.Context, narration *domain.Narration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.narrations[narration.ID]; !ok {
		return store.ErrNarrationNotFound
	}
	s.narrations[narration.ID] = cloneNarration(narration)
	return nil
}

func (s *FakeNarrationStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.narrations[id]; !ok {
		return store.ErrNarrationNotFound
	}
	delete(s.narrations, id)
	return nil
}

func (s *FakeNarrationStore) FindByNarrator(ctx context.Context, narratorID uuid.UUID) ([]*domain.Narration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Narration
	for id := range s.narrations {
		narration := s.narrations[id]
		if narration.NarratorID == narratorID {
			c := cloneNarration(&narration)
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *FakeNarrationStore) FindByStory(ctx context.Context, storyID uuid.UUID, status domain.ContentStatus) ([]*domain.Narration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Narration
	for id := range s.narrations {
		narration := s.narrations[id]
		if narration.StoryID != storyID {
			continue
		}
		if status != "" && narration.Status != status {
			continue
		}
		c := cloneNarration(&narration)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *FakeNarrationStore) FindByStatus(ctx context.Context, status domain.ContentStatus, limit, offset int) ([]*domain.Narration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Narration
	for id := range s.narrations {
		narration := s.narrations[id]
		if narration.Status == status {
			c := cloneNarration(&narration)
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

func (s *FakeNarrationStore) WithTx(tx *sql.Tx) store.NarrationStore { return s }

// FakeReviewStore is an in-memory store.ReviewStore.
type FakeReviewStore struct {
	mu      sync.Mutex
	reviews []domain.ContentReview
}

var _ store.ReviewStore = (*FakeReviewStore)(nil)

// NewFakeReviewStore creates an empty fake review store.
func NewFakeReviewStore() *FakeReviewStore {
	return &FakeReviewStore{}
}

func (s *FakeReviewStore) Create(ctx context.Context, review *domain.ContentReview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews = append(s.reviews, *review)
	return nil
}

func (s *FakeReviewStore) FindByContent(ctx context.Context, contentType domain.ContentType, contentID uuid.UUID) ([]*domain.ContentReview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.ContentReview
	for i := range s.reviews {
		review := s.reviews[i]
		if review.ContentType == contentType && review.ContentID == contentID {
			out = append(out, &review)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// All returns every audit record, in insertion order.
func (s *FakeReviewStore) All() []domain.ContentReview {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ContentReview, len(s.reviews))
	copy(out, s.reviews)
	return out
}

func (s *FakeReviewStore) WithTx(tx *sql.Tx) store.ReviewStore { return s }

// FakeBlobStore is an in-memory store.BlobStore.
type FakeBlobStore struct {
	mu     sync.Mutex
	assets map[uuid.UUID]fakeAsset
}

type fakeAsset struct {
	data        []byte
	contentType string
}

var _ store.BlobStore = (*FakeBlobStore)(nil)

// NewFakeBlobStore creates an empty fake blob store.
func NewFakeBlobStore() *FakeBlobStore {
	return &FakeBlobStore{assets: make(map[uuid.UUID]fakeAsset)}
}

func (s *FakeBlobStore) Put(ctx context.Context, data []byte, contentType string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	stored := make([]byte, len(data))
	copy(stored, data)
	s.assets[id] = fakeAsset{data: stored, contentType: contentType}
	return id, nil
}

func (s *FakeBlobStore) Get(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	asset, ok := s.assets[id]
	if !ok {
		return nil, "", store.ErrAssetNotFound
	}
	out := make([]byte, len(asset.data))
	copy(out, asset.data)
	return out, asset.contentType, nil
}

func (s *FakeBlobStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assets[id]; !ok {
		return store.ErrAssetNotFound
	}
	delete(s.assets, id)
	return nil
}

// Len reports how many assets are stored.
func (s *FakeBlobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.assets)
}

func cloneStory(story *domain.Story) domain.Story {
	c := *story
	c.Vocabulary = append([]string(nil), story.Vocabulary...)
	c.Quizzes = append([]json.RawMessage(nil), story.Quizzes...)
	if story.AudioID != nil {
		id := *story.AudioID
		c.AudioID = &id
	}
	return c
}

func cloneNarration(narration *domain.Narration) domain.Narration {
	c := *narration
	if narration.AudioID != nil {
		id := *narration.AudioID
		c.AudioID = &id
	}
	return c
}

func sortStoriesNewestFirst(stories []*domain.Story) {
	sort.Slice(stories, func(i, j int) bool {
		return stories[i].CreatedAt.After(stories[j].CreatedAt)
	})
}

// paginate applies limit/offset semantics matching the SQL stores:
// a non-positive limit means no limit.
func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
