package solver

import (
	"time"

	"github.com/windyasd/lightsim2grid/pkg/matrix"
)

// State is the solver's persistent iterate: V/θ/|V| and the last factored
// Jacobian, owned by the facade and passed by pointer into RunAC/RunDC
// (spec.md §9 "Mutable solver state across calls"). Cleared on Reset.
type State struct {
	V          []complex128
	Theta      []float64
	VMag       []float64
	Jacobian   *matrix.RealSparse
	Converged  bool
	Iterations int
	Elapsed    time.Duration
}

// Reset clears the iterate and releases the last Jacobian, matching
// spec.md §5: "the solver's V iterate are rebuilt from scratch on every
// solve."
func (s *State) Reset() {
	if s.Jacobian != nil {
		s.Jacobian.Destroy()
	}
	*s = State{}
}
