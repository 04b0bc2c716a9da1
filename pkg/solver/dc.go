package solver

import (
	"math/cmplx"
	"time"

	"github.com/rs/zerolog"

	"github.com/windyasd/lightsim2grid/pkg/gferr"
	"github.com/windyasd/lightsim2grid/pkg/matrix"
)

// RunDC solves the linearized DC approximation of spec.md §4.6: strip the
// slack row/column from Y's susceptance (imaginary) component, solve
// B'·θ = P for the remaining buses, reinsert the slack angle, and set
// every |V| to its bus-type voltage.
func RunDC(y *matrix.Y, s []complex128, v0 []complex128, slackSolverID int, state *State, log zerolog.Logger) error {
	k := y.Size()
	if len(v0) != k {
		return gferr.New(gferr.InputSizeMismatch, "V0 length %d != %d solver buses", len(v0), k)
	}

	start := time.Now()

	// Map every non-slack solver bus to a dense row/col in the reduced
	// system, preserving solver order.
	red := make([]int, 0, k-1)
	pos := make(map[int]int, k-1)
	for i := 0; i < k; i++ {
		if i == slackSolverID {
			continue
		}
		pos[i] = len(red)
		red = append(red, i)
	}

	n := len(red)
	sys, err := matrix.NewRealSparse(n)
	if err != nil {
		return err
	}
	defer sys.Destroy()

	for ri, i := range red {
		row := y.Row(i)
		for j, yij := range row {
			b := imag(yij)
			if cj, ok := pos[j]; ok {
				sys.AddElement(ri+1, cj+1, b)
			}
		}
		sys.AddRHS(ri+1, real(s[i]))
	}

	theta := make([]float64, k)
	theta[slackSolverID] = cmplx.Phase(v0[slackSolverID])

	if n > 0 {
		delta, err := sys.Solve()
		if err != nil {
			return gferr.Wrap(gferr.DcSingular, err, "dc reduced system")
		}
		for ri, i := range red {
			theta[i] = delta[ri+1]
		}
	}

	vmag := make([]float64, k)
	for i := range vmag {
		vmag[i] = cmplx.Abs(v0[i])
	}

	v := polarToRect(theta, vmag)

	state.V = v
	state.Theta = theta
	state.VMag = vmag
	state.Converged = true
	state.Iterations = 1
	state.Elapsed = time.Since(start)
	log.Info().Dur("elapsed", state.Elapsed).Msg("dc power flow solved")
	return nil
}
