package gridio_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windyasd/lightsim2grid/pkg/element"
	"github.com/windyasd/lightsim2grid/pkg/grid"
	"github.com/windyasd/lightsim2grid/pkg/gridio"
)

func TestRoundTrip_StateProducesIdenticalSolve(t *testing.T) {
	cfg := grid.Config{Logger: zerolog.Nop()}
	g := grid.New(2, []float64{138, 138}, cfg)
	g.AddGenerator(element.NewGenerator("G1", 0, 0, 1.02, 0, 0))
	g.AddLine(element.NewLine("L1", 0, 1, 0.01, 0.1, 0))
	g.AddLoad(element.NewLoad("LD1", 1, 50, 20))
	g.SetSlackGenerator(0)

	require.NoError(t, g.ACPowerFlow())
	v1Before := g.V()[g.BusMap().ToSolver(1)]

	state := gridio.GetState(g)
	g2 := gridio.Rebuild(state, grid.Config{Logger: zerolog.Nop()})

	require.NoError(t, g2.ACPowerFlow())
	v1After := g2.V()[g2.BusMap().ToSolver(1)]

	assert.InDelta(t, real(v1Before), real(v1After), 1e-9)
	assert.InDelta(t, imag(v1Before), imag(v1After), 1e-9)
	assert.Equal(t, g.SlackGenIdx(), g2.SlackGenIdx())
}
