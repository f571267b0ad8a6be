package domain

// ContentType distinguishes the two entities subject to the review
// lifecycle.
type ContentType string

// Reviewable content types.
const (
	ContentTypeStory     ContentType = "story"
	ContentTypeNarration ContentType = "narration"
)

// ContentStatus represents the review state of a story or narration.
type ContentStatus string

// Possible content status values. The legal transitions are:
// draft -> pending (submit), pending -> published (approve),
// pending -> rejected (reject), rejected -> draft (edit), and
// published -> draft (edit, which forces re-review).
const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusPending   ContentStatus = "pending"
	ContentStatusPublished ContentStatus = "published"
	ContentStatusRejected  ContentStatus = "rejected"
)

// Valid reports whether the status is one of the recognized states.
func (s ContentStatus) Valid() bool {
	switch s {
	case ContentStatusDraft, ContentStatusPending, ContentStatusPublished, ContentStatusRejected:
		return true
	default:
		return false
	}
}

// CanSubmit reports whether content in this state may enter the review
// queue. Only drafts can be submitted.
func (s ContentStatus) CanSubmit() bool {
	return s == ContentStatusDraft
}

// CanReview reports whether an approve/reject decision is legal from
// this state. Only pending content can be decided on; retrying an
// approve on already-published content is an invalid transition, not a
// no-op.
func (s ContentStatus) CanReview() bool {
	return s == ContentStatusPending
}

// CanEdit reports whether the owner may modify content in this state.
// Published content is edit-locked at this level; editing it is a
// separate transition that forces the item back to draft.
func (s ContentStatus) CanEdit() bool {
	return s == ContentStatusDraft || s == ContentStatusRejected
}

// CanDelete reports whether content in this state may be removed.
// Deletion is permitted only from draft.
func (s ContentStatus) CanDelete() bool {
	return s == ContentStatusDraft
}

// Valid reports whether the content type is recognized.
func (t ContentType) Valid() bool {
	return t == ContentTypeStory || t == ContentTypeNarration
}
