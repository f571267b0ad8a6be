package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for MetricsSnapshot
var (
	ErrEmptySnapshotID    = errors.New("snapshot ID cannot be empty")
	ErrInvalidWindow      = errors.New("window end must be after window start")
	ErrNegativeMetric     = errors.New("metric counts cannot be negative")
	ErrRateOutOfRange     = errors.New("rate metrics must be between 0 and 1")
	ErrNegativeAvgSeconds = errors.New("average session seconds cannot be negative")
)

// MetricsSnapshot is one windowed rollup of progress records, persisted
// per aggregator invocation for history and export.
type MetricsSnapshot struct {
	ID                 uuid.UUID `json:"id"`
	WindowStart        time.Time `json:"window_start"`
	WindowEnd          time.Time `json:"window_end"`
	ActiveUsers        int       `json:"active_users"`
	CompletedStories   int       `json:"completed_stories"`
	AvgSessionSeconds  float64   `json:"avg_session_seconds"`
	VocabRetentionRate float64   `json:"vocab_retention_rate"`
	QuizSuccessRate    float64   `json:"quiz_success_rate"`
	CreatedAt          time.Time `json:"created_at"`
}

// NewMetricsSnapshot creates a snapshot for the given window.
// Returns an error if validation fails.
func NewMetricsSnapshot(windowStart, windowEnd time.Time) (*MetricsSnapshot, error) {
	snapshot := &MetricsSnapshot{
		ID:          uuid.New(),
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		CreatedAt:   time.Now().UTC(),
	}

	if err := snapshot.Validate(); err != nil {
		return nil, err
	}

	return snapshot, nil
}

// Validate checks if the MetricsSnapshot has valid data.
func (m *MetricsSnapshot) Validate() error {
	if m.ID == uuid.Nil {
		return ErrEmptySnapshotID
	}

	if !m.WindowEnd.After(m.WindowStart) {
		return ErrInvalidWindow
	}

	if m.ActiveUsers < 0 || m.CompletedStories < 0 {
		return ErrNegativeMetric
	}

	if m.AvgSessionSeconds < 0 {
		return ErrNegativeAvgSeconds
	}

	if m.VocabRetentionRate < 0 || m.VocabRetentionRate > 1 ||
		m.QuizSuccessRate < 0 || m.QuizSuccessRate > 1 {
		return ErrRateOutOfRange
	}

	return nil
}
