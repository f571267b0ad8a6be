package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReviewDecision is the outcome an admin recorded for a content item.
type ReviewDecision string

// Possible review decisions.
const (
	ReviewDecisionApproved ReviewDecision = "approved"
	ReviewDecisionRejected ReviewDecision = "rejected"
)

// Common validation errors for ContentReview
var (
	ErrEmptyReviewID         = errors.New("review ID cannot be empty")
	ErrEmptyReviewContentID  = errors.New("review content ID cannot be empty")
	ErrEmptyReviewReviewerID = errors.New("review reviewer ID cannot be empty")
	ErrInvalidReviewDecision = errors.New("invalid review decision")
)

// ContentReview is an immutable audit record written exactly once per
// approve/reject action. It is never updated or deleted.
type ContentReview struct {
	ID          uuid.UUID      `json:"id"`
	ContentType ContentType    `json:"content_type"`
	ContentID   uuid.UUID      `json:"content_id"`
	ReviewerID  uuid.UUID      `json:"reviewer_id"`
	Decision    ReviewDecision `json:"decision"`
	Notes       string         `json:"notes,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// NewContentReview creates the audit record for a single review action.
// Returns an error if validation fails.
func NewContentReview(
	contentType ContentType,
	contentID, reviewerID uuid.UUID,
	decision ReviewDecision,
	notes string,
) (*ContentReview, error) {
	review := &ContentReview{
		ID:          uuid.New(),
		ContentType: contentType,
		ContentID:   contentID,
		ReviewerID:  reviewerID,
		Decision:    decision,
		Notes:       notes,
		CreatedAt:   time.Now().UTC(),
	}

	if err := review.Validate(); err != nil {
		return nil, err
	}

	return review, nil
}

// Validate checks if the ContentReview has valid data.
func (r *ContentReview) Validate() error {
	if r.ID == uuid.Nil {
		return ErrEmptyReviewID
	}

	if !r.ContentType.Valid() {
		return ErrInvalidContentType
	}

	if r.ContentID == uuid.Nil {
		return ErrEmptyReviewContentID
	}

	if r.ReviewerID == uuid.Nil {
		return ErrEmptyReviewReviewerID
	}

	if r.Decision != ReviewDecisionApproved && r.Decision != ReviewDecisionRejected {
		return ErrInvalidReviewDecision
	}

	return nil
}
