package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/storybridge/storybridge-api/internal/domain"
	"github.com/storybridge/storybridge-api/internal/domain/tprs"
	"github.com/storybridge/storybridge-api/internal/platform/logger"
	"github.com/storybridge/storybridge-api/internal/store"
)

// StoryInput carries the editable fields of a story.
type StoryInput struct {
	Title      string
	Text       string
	Language   string
	AgeGroup   string
	Vocabulary []string
	Quizzes    []json.RawMessage
}

// PendingContent is the admin review queue: every story and narration
// currently awaiting a decision.
type PendingContent struct {
	Stories    []*domain.Story     `json:"stories"`
	Narrations []*domain.Narration `json:"narrations"`
}

// ContentService is the lifecycle engine. It enforces legal status
// transitions, gates stories on the compliance check, and keeps the
// story's audio reference consistent with its narrations. Multi-write
// side effects run in a single store transaction.
type ContentService struct {
	db             *sql.DB
	storyStore     store.StoryStore
	narrationStore store.NarrationStore
	reviewStore    store.ReviewStore
	blobStore      store.BlobStore
	validator      *tprs.Validator
	logger         *slog.Logger
}

// NewContentService creates a new ContentService. db may be nil in
// tests backed by in-memory stores; side-effect groups then run without
// a transaction, which the fakes tolerate.
func NewContentService(
	db *sql.DB,
	storyStore store.StoryStore,
	narrationStore store.NarrationStore,
	reviewStore store.ReviewStore,
	blobStore store.BlobStore,
	validator *tprs.Validator,
	log *slog.Logger,
) *ContentService {
	if validator == nil {
		validator = tprs.NewValidator()
	}
	if log == nil {
		log = slog.Default()
	}
	return &ContentService{
		db:             db,
		storyStore:     storyStore,
		narrationStore: narrationStore,
		reviewStore:    reviewStore,
		blobStore:      blobStore,
		validator:      validator,
		logger:         log.With(slog.String("component", "content_service")),
	}
}

// runInTx executes fn inside a database transaction when a database is
// present, and directly otherwise.
func (s *ContentService) runInTx(ctx context.Context, fn store.TxFn) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return store.RunInTransaction(ctx, s.db, fn)
}

// checkCompliance runs the repetition gate and converts a failed result
// into a ComplianceError.
func (s *ContentService) checkCompliance(text string, vocabulary []string) error {
	result := s.validator.Validate(text, vocabulary)
	if !result.Valid {
		return &ComplianceError{Result: result}
	}
	return nil
}

// CreateStory validates the input against the compliance gate and saves
// a new draft story owned by the caller. Only creators may create
// stories.
func (s *ContentService) CreateStory(ctx context.Context, caller Caller, input StoryInput) (*domain.Story, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if caller.Role != domain.RoleCreator && caller.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}

	if err := s.checkCompliance(input.Text, input.Vocabulary); err != nil {
		log.Debug("story rejected by compliance gate",
			slog.String("creator_id", caller.ID.String()))
		return nil, err
	}

	story, err := domain.NewStory(
		caller.ID,
		input.Title, input.Text, input.Language, input.AgeGroup,
		input.Vocabulary, input.Quizzes,
	)
	if err != nil {
		return nil, err
	}

	if err := s.storyStore.Create(ctx, story); err != nil {
		return nil, err
	}

	log.Info("story created",
		slog.String("story_id", story.ID.String()),
		slog.String("creator_id", caller.ID.String()))
	return story, nil
}

// UpdateStory re-validates compliance and applies an edit, resetting the
// story to draft. Editing a published story pulls it out of the library
// until it passes review again.
func (s *ContentService) UpdateStory(
	ctx context.Context,
	caller Caller,
	storyID uuid.UUID,
	input StoryInput,
) (*domain.Story, error) {
	story, err := s.storyStore.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}

	if err := Authorize(caller, ActionEdit, story.CreatorID); err != nil {
		return nil, err
	}

	if err := s.checkCompliance(input.Text, input.Vocabulary); err != nil {
		return nil, err
	}

	if err := story.ApplyEdit(
		input.Title, input.Text, input.Language, input.AgeGroup,
		input.Vocabulary, input.Quizzes,
	); err != nil {
		return nil, err
	}

	if err := s.storyStore.Update(ctx, story); err != nil {
		return nil, err
	}

	return story, nil
}

// SubmitStory moves a draft story into the review queue. Submit is
// owner-only.
func (s *ContentService) SubmitStory(ctx context.Context, caller Caller, storyID uuid.UUID) (*domain.Story, error) {
	story, err := s.storyStore.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}

	if err := Authorize(caller, ActionSubmit, story.CreatorID); err != nil {
		return nil, err
	}

	if err := story.Submit(); err != nil {
		return nil, err
	}

	if err := s.storyStore.Update(ctx, story); err != nil {
		return nil, err
	}

	return story, nil
}

// DeleteStory removes a draft story and all narrations attached to it,
// then best-effort deletes their audio assets. Deleting from any other
// status is an invalid transition.
func (s *ContentService) DeleteStory(ctx context.Context, caller Caller, storyID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	story, err := s.storyStore.GetByID(ctx, storyID)
	if err != nil {
		return err
	}

	if err := Authorize(caller, ActionDelete, story.CreatorID); err != nil {
		return err
	}

	if !story.Status.CanDelete() {
		return domain.ErrInvalidTransition
	}

	var orphanedAudio []uuid.UUID
	removed := 0
	err = s.runInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		stories := s.storyStore.WithTx(tx)
		narrations := s.narrationStore.WithTx(tx)

		attached, err := narrations.FindByStory(ctx, storyID, "")
		if err != nil {
			return err
		}
		removed = len(attached)
		for _, narration := range attached {
			if err := narrations.Delete(ctx, narration.ID); err != nil {
				return err
			}
			if narration.AudioID != nil {
				orphanedAudio = append(orphanedAudio, *narration.AudioID)
			}
		}

		return stories.Delete(ctx, storyID)
	})
	if err != nil {
		return err
	}

	// Asset cleanup is best-effort: a blob that is already gone is not
	// worth failing the delete over.
	for _, audioID := range orphanedAudio {
		if err := s.blobStore.Delete(ctx, audioID); err != nil {
			log.Warn("failed to delete orphaned audio asset",
				slog.String("asset_id", audioID.String()),
				slog.String("error", err.Error()))
		}
	}

	log.Info("story deleted",
		slog.String("story_id", storyID.String()),
		slog.Int("narrations_removed", removed))
	return nil
}

// ListCreatorStories returns every story owned by the caller.
func (s *ContentService) ListCreatorStories(ctx context.Context, caller Caller) ([]*domain.Story, error) {
	return s.storyStore.FindByCreator(ctx, caller.ID)
}

// ListPublishedStories returns the reader-facing library: published
// stories matching the optional language/age-group/narrated filters.
func (s *ContentService) ListPublishedStories(
	ctx context.Context,
	language, ageGroup string,
	narratedOnly bool,
	limit, offset int,
) ([]*domain.Story, error) {
	filter := store.StoryFilter{
		Status:       domain.ContentStatusPublished,
		Language:     language,
		AgeGroup:     ageGroup,
		NarratedOnly: narratedOnly,
	}
	return s.storyStore.Find(ctx, filter, limit, offset)
}

// GetPublishedStory returns one story as readers see it. Stories in any
// other status are reported as not found rather than revealed.
func (s *ContentService) GetPublishedStory(ctx context.Context, storyID uuid.UUID) (*domain.Story, error) {
	story, err := s.storyStore.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story.Status != domain.ContentStatusPublished {
		return nil, store.ErrStoryNotFound
	}
	return story, nil
}

// CreateNarration stores the uploaded audio (if any) and attaches a new
// draft narration to an existing story. Only narrators may create
// narrations.
func (s *ContentService) CreateNarration(
	ctx context.Context,
	caller Caller,
	storyID uuid.UUID,
	audio []byte,
	audioContentType string,
	transcript string,
) (*domain.Narration, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if caller.Role != domain.RoleNarrator {
		return nil, ErrForbidden
	}

	if _, err := s.storyStore.GetByID(ctx, storyID); err != nil {
		return nil, err
	}

	var audioID *uuid.UUID
	if len(audio) > 0 {
		id, err := s.blobStore.Put(ctx, audio, audioContentType)
		if err != nil {
			return nil, fmt.Errorf("failed to store audio asset: %w", err)
		}
		audioID = &id
	}

	narration, err := domain.NewNarration(storyID, caller.ID, audioID, transcript)
	if err != nil {
		return nil, err
	}

	if err := s.narrationStore.Create(ctx, narration); err != nil {
		return nil, err
	}

	log.Info("narration created",
		slog.String("narration_id", narration.ID.String()),
		slog.String("story_id", storyID.String()),
		slog.Bool("has_audio", audioID != nil))
	return narration, nil
}

// UpdateNarration replaces a narration's audio and/or transcript and
// resets it to draft. The previous audio asset is deleted best-effort
// once the new one is in place.
func (s *ContentService) UpdateNarration(
	ctx context.Context,
	caller Caller,
	narrationID uuid.UUID,
	audio []byte,
	audioContentType string,
	transcript string,
) (*domain.Narration, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	narration, err := s.narrationStore.GetByID(ctx, narrationID)
	if err != nil {
		return nil, err
	}

	if err := Authorize(caller, ActionEdit, narration.NarratorID); err != nil {
		return nil, err
	}

	// Gate on the state machine before storing the replacement audio;
	// a rejected edit must not leave an orphaned asset behind.
	if !narration.Status.CanEdit() {
		return nil, domain.ErrInvalidTransition
	}

	previousAudio := narration.AudioID
	audioID := narration.AudioID
	if len(audio) > 0 {
		id, err := s.blobStore.Put(ctx, audio, audioContentType)
		if err != nil {
			return nil, fmt.Errorf("failed to store audio asset: %w", err)
		}
		audioID = &id
	}

	if err := narration.ApplyEdit(audioID, transcript); err != nil {
		return nil, err
	}

	if err := s.narrationStore.Update(ctx, narration); err != nil {
		return nil, err
	}

	if len(audio) > 0 && previousAudio != nil {
		if err := s.blobStore.Delete(ctx, *previousAudio); err != nil {
			log.Warn("failed to delete replaced audio asset",
				slog.String("asset_id", previousAudio.String()),
				slog.String("error", err.Error()))
		}
	}

	return narration, nil
}

// SubmitNarration moves a draft narration into the review queue.
func (s *ContentService) SubmitNarration(
	ctx context.Context,
	caller Caller,
	narrationID uuid.UUID,
) (*domain.Narration, error) {
	narration, err := s.narrationStore.GetByID(ctx, narrationID)
	if err != nil {
		return nil, err
	}

	if err := Authorize(caller, ActionSubmit, narration.NarratorID); err != nil {
		return nil, err
	}

	if err := narration.Submit(); err != nil {
		return nil, err
	}

	if err := s.narrationStore.Update(ctx, narration); err != nil {
		return nil, err
	}

	return narration, nil
}

// DeleteNarration removes a draft narration and best-effort deletes its
// audio asset.
func (s *ContentService) DeleteNarration(ctx context.Context, caller Caller, narrationID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	narration, err := s.narrationStore.GetByID(ctx, narrationID)
	if err != nil {
		return err
	}

	if err := Authorize(caller, ActionDelete, narration.NarratorID); err != nil {
		return err
	}

	if !narration.Status.CanDelete() {
		return domain.ErrInvalidTransition
	}

	if err := s.narrationStore.Delete(ctx, narrationID); err != nil {
		return err
	}

	if narration.AudioID != nil {
		if err := s.blobStore.Delete(ctx, *narration.AudioID); err != nil {
			log.Warn("failed to delete audio asset of removed narration",
				slog.String("asset_id", narration.AudioID.String()),
				slog.String("error", err.Error()))
		}
	}

	return nil
}

// ListNarratorNarrations returns every narration owned by the caller.
func (s *ContentService) ListNarratorNarrations(ctx context.Context, caller Caller) ([]*domain.Narration, error) {
	return s.narrationStore.FindByNarrator(ctx, caller.ID)
}

// ListPendingContent returns the review queue. Admin only.
func (s *ContentService) ListPendingContent(ctx context.Context, caller Caller) (*PendingContent, error) {
	if err := Authorize(caller, ActionApprove, uuid.Nil); err != nil {
		return nil, err
	}

	stories, err := s.storyStore.Find(ctx, store.StoryFilter{Status: domain.ContentStatusPending}, 0, 0)
	if err != nil {
		return nil, err
	}

	narrations, err := s.narrationStore.FindByStatus(ctx, domain.ContentStatusPending, 0, 0)
	if err != nil {
		return nil, err
	}

	return &PendingContent{Stories: stories, Narrations: narrations}, nil
}

// ApproveContent publishes a pending story or narration and writes one
// audit record. Approving a narration also patches the parent story's
// audio reference; all writes happen in a single transaction so the
// audio link can never be observed half-applied.
func (s *ContentService) ApproveContent(
	ctx context.Context,
	caller Caller,
	contentType domain.ContentType,
	contentID uuid.UUID,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := Authorize(caller, ActionApprove, uuid.Nil); err != nil {
		return err
	}

	if !contentType.Valid() {
		return domain.ErrInvalidContentType
	}

	err := s.runInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		stories := s.storyStore.WithTx(tx)
		narrations := s.narrationStore.WithTx(tx)
		reviews := s.reviewStore.WithTx(tx)

		switch contentType {
		case domain.ContentTypeStory:
			story, err := stories.GetByID(ctx, contentID)
			if err != nil {
				return err
			}
			if err := story.Publish(); err != nil {
				return err
			}
			if err := stories.Update(ctx, story); err != nil {
				return err
			}

		case domain.ContentTypeNarration:
			narration, err := narrations.GetByID(ctx, contentID)
			if err != nil {
				return err
			}
			if err := narration.Publish(); err != nil {
				return err
			}
			if err := narrations.Update(ctx, narration); err != nil {
				return err
			}

			// Linkage propagation: the newest approval wins.
			if narration.AudioID != nil {
				story, err := stories.GetByID(ctx, narration.StoryID)
				if err != nil {
					return err
				}
				story.AudioID = narration.AudioID
				if err := stories.Update(ctx, story); err != nil {
					return err
				}
			}
		}

		review, err := domain.NewContentReview(
			contentType, contentID, caller.ID, domain.ReviewDecisionApproved, "",
		)
		if err != nil {
			return err
		}
		return reviews.Create(ctx, review)
	})
	if err != nil {
		return err
	}

	log.Info("content approved",
		slog.String("content_type", string(contentType)),
		slog.String("content_id", contentID.String()),
		slog.String("reviewer_id", caller.ID.String()))
	return nil
}

// RejectContent rejects a pending story or narration with the
// reviewer's notes and writes one audit record.
func (s *ContentService) RejectContent(
	ctx context.Context,
	caller Caller,
	contentType domain.ContentType,
	contentID uuid.UUID,
	notes string,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := Authorize(caller, ActionReject, uuid.Nil); err != nil {
		return err
	}

	if !contentType.Valid() {
		return domain.ErrInvalidContentType
	}

	if notes == "" {
		return ErrReviewNotesRequired
	}

	err := s.runInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		stories := s.storyStore.WithTx(tx)
		narrations := s.narrationStore.WithTx(tx)
		reviews := s.reviewStore.WithTx(tx)

		switch contentType {
		case domain.ContentTypeStory:
			story, err := stories.GetByID(ctx, contentID)
			if err != nil {
				return err
			}
			if err := story.Reject(notes); err != nil {
				return err
			}
			if err := stories.Update(ctx, story); err != nil {
				return err
			}

		case domain.ContentTypeNarration:
			narration, err := narrations.GetByID(ctx, contentID)
			if err != nil {
				return err
			}
			if err := narration.Reject(notes); err != nil {
				return err
			}
			if err := narrations.Update(ctx, narration); err != nil {
				return err
			}
		}

		review, err := domain.NewContentReview(
			contentType, contentID, caller.ID, domain.ReviewDecisionRejected, notes,
		)
		if err != nil {
			return err
		}
		return reviews.Create(ctx, review)
	})
	if err != nil {
		return err
	}

	log.Info("content rejected",
		slog.String("content_type", string(contentType)),
		slog.String("content_id", contentID.String()),
		slog.String("reviewer_id", caller.ID.String()))
	return nil
}
