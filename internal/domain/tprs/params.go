package tprs

// Params defines the configurable knobs of the repetition check. The
// minimum repetition count is deliberately configuration, not a
// constant: different deployments of the platform have run with
// different thresholds.
type Params struct {
	// MinRepetitions is the number of times each vocabulary term must
	// appear in the story text.
	MinRepetitions int
}

// DefaultMinRepetitions is the threshold used when none is configured.
const DefaultMinRepetitions = 3

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		MinRepetitions: DefaultMinRepetitions,
	}
}
