package tprs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatorDefaults(t *testing.T) {
	v := NewValidator()
	assert.Equal(t, DefaultMinRepetitions, v.MinRepetitions())

	v = NewValidatorWithParams(nil)
	assert.Equal(t, DefaultMinRepetitions, v.MinRepetitions())

	v = NewValidatorWithParams(&Params{MinRepetitions: 5})
	assert.Equal(t, 5, v.MinRepetitions())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		minReps     int
		text        string
		vocabulary  []string
		wantValid   bool
		wantFailed  []string
		wantCounts  map[string]int
	}{
		{
			name:       "every term meets the threshold",
			minReps:    3,
			text:       "cat cat cat",
			vocabulary: []string{"cat"},
			wantValid:  true,
			wantCounts: map[string]int{"cat": 3},
		},
		{
			name:       "term below threshold fails",
			minReps:    3,
			text:       "cat cat",
			vocabulary: []string{"cat"},
			wantValid:  false,
			wantFailed: []string{"cat"},
			wantCounts: map[string]int{"cat": 2},
		},
		{
			name:       "counting is case-insensitive",
			minReps:    3,
			text:       "Cat CAT cAt",
			vocabulary: []string{"cat"},
			wantValid:  true,
			wantCounts: map[string]int{"cat": 3},
		},
		{
			name:       "substring match counts inflected forms",
			minReps:    2,
			text:       "the cats chased other cats",
			vocabulary: []string{"cat"},
			wantValid:  true,
			wantCounts: map[string]int{"cat": 2},
		},
		{
			name:       "multi-word terms are counted",
			minReps:    2,
			text:       "ran away. She ran away again. He ran away too? No.",
			vocabulary: []string{"ran away"},
			wantValid:  true,
			wantCounts: map[string]int{"ran away": 3},
		},
		{
			name:       "empty vocabulary passes with non-empty text",
			minReps:    3,
			text:       "just some text",
			vocabulary: nil,
			wantValid:  true,
			wantCounts: map[string]int{},
		},
		{
			name:       "empty text is invalid even with empty vocabulary",
			minReps:    3,
			text:       "",
			vocabulary: nil,
			wantValid:  false,
			wantCounts: map[string]int{},
		},
		{
			name:       "punctuation-only text is invalid",
			minReps:    3,
			text:       "... !!! ---",
			vocabulary: nil,
			wantValid:  false,
			wantCounts: map[string]int{},
		},
		{
			name:       "failed terms preserve input order",
			minReps:    2,
			text:       "dog",
			vocabulary: []string{"zebra", "ant"},
			wantValid:  false,
			wantFailed: []string{"zebra", "ant"},
			wantCounts: map[string]int{"zebra": 0, "ant": 0},
		},
		{
			name:       "empty vocabulary term counts as zero",
			minReps:    1,
			text:       "some words here",
			vocabulary: []string{""},
			wantValid:  false,
			wantFailed: []string{""},
			wantCounts: map[string]int{"": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidatorWithParams(&Params{MinRepetitions: tt.minReps})
			result := v.Validate(tt.text, tt.vocabulary)

			assert.Equal(t, tt.wantValid, result.Valid)
			assert.Equal(t, tt.wantFailed, result.FailedTerms)
			assert.Equal(t, tt.wantCounts, result.Counts)
			if !tt.wantValid {
				assert.NotEmpty(t, result.Reason)
			} else {
				assert.Empty(t, result.Reason)
			}
		})
	}
}
