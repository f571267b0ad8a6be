// Package tprs implements the TPRS linguistic-compliance check: every
// target vocabulary term must reappear a minimum number of times in a
// story's text before the story is accepted.
package tprs

import (
	"regexp"
	"strings"
)

// wordTokenRe extracts lowercase word tokens. It is used to decide
// whether the text contains any words at all; term counting itself is a
// substring count, so multi-word vocabulary entries still match.
var wordTokenRe = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Result is the outcome of a compliance check.
type Result struct {
	// Valid is true iff every vocabulary term meets the repetition
	// minimum and the text contains at least one word token.
	Valid bool `json:"valid"`

	// Reason is a human-readable explanation when Valid is false.
	Reason string `json:"reason,omitempty"`

	// FailedTerms are the vocabulary terms that under-count, in input
	// order.
	FailedTerms []string `json:"failed_terms,omitempty"`

	// Counts maps every vocabulary term to its occurrence count.
	Counts map[string]int `json:"repetition_counts"`
}

// Validator performs the repetition check with a fixed set of Params.
// It is a pure computation with no side effects.
type Validator struct {
	params *Params
}

// NewValidator creates a Validator with default parameters.
func NewValidator() *Validator {
	return &Validator{params: NewDefaultParams()}
}

// NewValidatorWithParams creates a Validator with custom parameters.
func NewValidatorWithParams(params *Params) *Validator {
	if params == nil {
		params = NewDefaultParams()
	}
	return &Validator{params: params}
}

// MinRepetitions returns the configured repetition threshold.
func (v *Validator) MinRepetitions() int {
	return v.params.MinRepetitions
}

// Validate counts case-insensitive occurrences of each vocabulary term
// in text. Counting is by substring, not token, so "cats" satisfies
// "cat". Text with zero word tokens is always invalid, even with an
// empty vocabulary.
func (v *Validator) Validate(text string, vocabulary []string) Result {
	lowered := strings.ToLower(text)

	if len(wordTokenRe.FindStringIndex(lowered)) == 0 {
		return Result{
			Valid:  false,
			Reason: "story text is empty",
			Counts: map[string]int{},
		}
	}

	counts := make(map[string]int, len(vocabulary))
	var failed []string

	for _, term := range vocabulary {
		loweredTerm := strings.ToLower(term)
		count := 0
		if loweredTerm != "" {
			count = strings.Count(lowered, loweredTerm)
		}
		counts[term] = count

		if count < v.params.MinRepetitions {
			failed = append(failed, term)
		}
	}

	if len(failed) > 0 {
		return Result{
			Valid:       false,
			Reason:      "vocabulary terms below minimum repetitions: " + strings.Join(failed, ", "),
			FailedTerms: failed,
			Counts:      counts,
		}
	}

	return Result{Valid: true, Counts: counts}
}
