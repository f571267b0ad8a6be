package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "generic error",
			err:      errors.New("some error"),
			expected: false,
		},
		{
			name:     "ErrNotFound",
			err:      ErrNotFound,
			expected: true,
		},
		{
			name:     "wrapped ErrNotFound",
			err:      fmt.Errorf("failed to load: %w", ErrNotFound),
			expected: true,
		},
		{
			name:     "ErrUserNotFound",
			err:      ErrUserNotFound,
			expected: true,
		},
		{
			name:     "ErrStoryNotFound",
			err:      ErrStoryNotFound,
			expected: true,
		},
		{
			name:     "ErrNarrationNotFound",
			err:      ErrNarrationNotFound,
			expected: true,
		},
		{
			name:     "ErrProgressNotFound",
			err:      ErrProgressNotFound,
			expected: true,
		},
		{
			name:     "ErrAssetNotFound",
			err:      ErrAssetNotFound,
			expected: true,
		},
		{
			name:     "duplicate error is not a not-found error",
			err:      ErrEmailExists,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "generic error",
			err:      errors.New("some error"),
			expected: false,
		},
		{
			name:     "ErrDuplicate",
			err:      ErrDuplicate,
			expected: true,
		},
		{
			name:     "ErrEmailExists",
			err:      ErrEmailExists,
			expected: true,
		},
		{
			name:     "ErrBadgeExists",
			err:      ErrBadgeExists,
			expected: true,
		},
		{
			name:     "wrapped ErrBadgeExists",
			err:      fmt.Errorf("award failed: %w", ErrBadgeExists),
			expected: true,
		},
		{
			name:     "not found error is not a duplicate error",
			err:      ErrStoryNotFound,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsDuplicateError(tt.err))
		})
	}
}

func TestEntitySpecificErrorsUnwrap(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, ErrUserNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrStoryNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrNarrationNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrProgressNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrAssetNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrEmailExists, ErrDuplicate)
	assert.ErrorIs(t, ErrBadgeExists, ErrDuplicate)

	// The two families never overlap
	assert.NotErrorIs(t, ErrEmailExists, ErrNotFound)
	assert.NotErrorIs(t, ErrUserNotFound, ErrDuplicate)
}
