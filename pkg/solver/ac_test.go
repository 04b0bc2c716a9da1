package solver_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windyasd/lightsim2grid/pkg/matrix"
	"github.com/windyasd/lightsim2grid/pkg/solver"
)

// buildTwoBusY constructs the admittance matrix for a single series branch
// 1/(r+jx) between bus 0 (slack) and bus 1, per spec.md scenario (a).
func buildTwoBusY(r, x float64) *matrix.Y {
	b := matrix.NewYBuilder(2, 4)
	y := 1 / complex(r, x)
	b.AddY(0, 0, y)
	b.AddY(1, 1, y)
	b.AddY(0, 1, -y)
	b.AddY(1, 0, -y)
	yy, _ := b.Build()
	return yy
}

func TestRunAC_TwoBusResistiveLine(t *testing.T) {
	y := buildTwoBusY(0.01, 0.1)
	s := []complex128{0, complex(-0.5, -0.2)}
	v0 := []complex128{complex(1.02, 0), complex(1, 0)}

	var state solver.State
	err := solver.RunAC(y, s, v0, nil, []int{1}, 0, 20, 1e-8, &state, zerolog.Nop())
	require.NoError(t, err)

	assert.LessOrEqual(t, state.Iterations, 4)
	assert.InDelta(t, 1.0118, real(state.V[1]), 5e-4)
	assert.InDelta(t, -0.0516, imag(state.V[1]), 5e-4)
}

func TestRunAC_IslandedBusIsSingular(t *testing.T) {
	b := matrix.NewYBuilder(3, 4)
	y01 := 1 / complex(0.01, 0.1)
	b.AddY(0, 0, y01)
	b.AddY(1, 1, y01)
	b.AddY(0, 1, -y01)
	b.AddY(1, 0, -y01)
	// bus 2 isolated: no admittance row at all.
	y, _ := b.Build()

	s := []complex128{0, complex(-0.1, -0.05), complex(-0.05, -0.02)}
	v0 := []complex128{complex(1, 0), complex(1, 0), complex(1, 0)}

	var state solver.State
	err := solver.RunAC(y, s, v0, nil, []int{1, 2}, 0, 20, 1e-8, &state, zerolog.Nop())
	require.Error(t, err)
}
