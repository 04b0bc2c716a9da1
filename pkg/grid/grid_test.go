package grid_test

import (
	"math/cmplx"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windyasd/lightsim2grid/pkg/element"
	"github.com/windyasd/lightsim2grid/pkg/gferr"
	"github.com/windyasd/lightsim2grid/pkg/grid"
	"github.com/windyasd/lightsim2grid/pkg/result"
)

func newTwoBusGrid() *grid.Grid {
	cfg := grid.Config{Logger: zerolog.Nop()}
	g := grid.New(2, []float64{138, 138}, cfg)
	g.AddGenerator(element.NewGenerator("G1", 0, 0, 1.02, 0, 0))
	g.AddLine(element.NewLine("L1", 0, 1, 0.01, 0.1, 0))
	g.AddLoad(element.NewLoad("LD1", 1, 50, 20))
	g.SetSlackGenerator(0)
	return g
}

// (a) Two-bus resistive line.
func TestACPowerFlow_TwoBusResistiveLine(t *testing.T) {
	g := newTwoBusGrid()
	require.NoError(t, g.ACPowerFlow())

	assert.True(t, g.Converged())
	assert.LessOrEqual(t, g.Iterations(), 4)

	v1 := g.V()[g.BusMap().ToSolver(1)]
	assert.InDelta(t, 1.0118, real(v1), 5e-4)
	assert.InDelta(t, -0.0516, imag(v1), 5e-4)
}

// (b) Slack disconnect.
func TestACPowerFlow_SlackDisconnected(t *testing.T) {
	g := newTwoBusGrid()
	g.UpdateBusStatus(0, false)

	err := g.ACPowerFlow()
	require.Error(t, err)
	assert.ErrorIs(t, err, gferr.ErrSlackDisconnected)
}

// Slack generator deactivated: distinct from a disconnected bus.
func TestACPowerFlow_SlackGeneratorInactiveIsSlackInvalid(t *testing.T) {
	g := newTwoBusGrid()
	g.Generators()[0].Active = false

	err := g.ACPowerFlow()
	require.Error(t, err)
	assert.ErrorIs(t, err, gferr.ErrSlackInvalid)
}

// Slack generator id out of range.
func TestACPowerFlow_SlackGeneratorOutOfRangeIsSlackInvalid(t *testing.T) {
	g := newTwoBusGrid()
	g.SetSlackGenerator(5)

	err := g.ACPowerFlow()
	require.Error(t, err)
	assert.ErrorIs(t, err, gferr.ErrSlackInvalid)
}

// (c) PV limit respected: reported only, not enforced in iteration.
func TestACPowerFlow_PVLimitReportedOnly(t *testing.T) {
	cfg := grid.Config{Logger: zerolog.Nop()}
	g := grid.New(2, []float64{138, 138}, cfg)
	g.AddGenerator(element.NewGenerator("SLACK", 0, 0, 1.05, 0, 0))
	pv := element.NewGenerator("G2", 1, 0, 1.0, -10, 10)
	g.AddGenerator(pv)
	g.AddLine(element.NewLine("L1", 0, 1, 0.01, 0.1, 0))
	g.AddLoad(element.NewLoad("LD1", 1, 0, 100))
	g.SetSlackGenerator(0)

	require.NoError(t, g.ACPowerFlow())
	result.ReconstructGeneratorQ(g)

	assert.InDelta(t, 10.0, pv.QMVAr, 1e-6)
	assert.True(t, pv.QLimitHit)
}

// (e) Islanded network.
func TestACPowerFlow_IslandedBusIsSingular(t *testing.T) {
	cfg := grid.Config{Logger: zerolog.Nop()}
	g := grid.New(3, []float64{138, 138, 138}, cfg)
	g.AddGenerator(element.NewGenerator("G1", 0, 0, 1.0, 0, 0))
	g.AddLine(element.NewLine("L1", 0, 1, 0.01, 0.1, 0))
	g.AddLoad(element.NewLoad("LD1", 1, 10, 5))
	g.AddLoad(element.NewLoad("LD2", 2, 5, 2))
	g.SetSlackGenerator(0)

	err := g.ACPowerFlow()
	require.Error(t, err)
	assert.ErrorIs(t, err, gferr.ErrJacobianSingular)
}

func TestDCPowerFlow_IslandedBusIsSingular(t *testing.T) {
	cfg := grid.Config{Logger: zerolog.Nop()}
	g := grid.New(3, []float64{138, 138, 138}, cfg)
	g.AddGenerator(element.NewGenerator("G1", 0, 0, 1.0, 0, 0))
	g.AddLine(element.NewLine("L1", 0, 1, 0, 0.1, 0))
	g.AddLoad(element.NewLoad("LD1", 1, 10, 5))
	g.AddLoad(element.NewLoad("LD2", 2, 5, 2))
	g.SetSlackGenerator(0)

	err := g.DCPowerFlow()
	require.Error(t, err)
	assert.ErrorIs(t, err, gferr.ErrDcSingular)
}

// (d) DC matches AC angles for a lossless line.
func TestDCPowerFlow_MatchesACAngleForLosslessLine(t *testing.T) {
	cfg := grid.Config{Logger: zerolog.Nop()}
	gAC := grid.New(2, []float64{138, 138}, cfg)
	gAC.AddGenerator(element.NewGenerator("G1", 0, 0, 1.0, 0, 0))
	gAC.AddLine(element.NewLine("L1", 0, 1, 0, 0.1, 0))
	gAC.AddLoad(element.NewLoad("LD1", 1, 5, 0))
	gAC.SetSlackGenerator(0)
	require.NoError(t, gAC.ACPowerFlow())

	gDC := grid.New(2, []float64{138, 138}, cfg)
	gDC.AddGenerator(element.NewGenerator("G1", 0, 0, 1.0, 0, 0))
	gDC.AddLine(element.NewLine("L1", 0, 1, 0, 0.1, 0))
	gDC.AddLoad(element.NewLoad("LD1", 1, 5, 0))
	gDC.SetSlackGenerator(0)
	require.NoError(t, gDC.DCPowerFlow())

	acSolver1 := gAC.BusMap().ToSolver(1)
	dcSolver1 := gDC.BusMap().ToSolver(1)

	acAngle := cmplx.Phase(gAC.V()[acSolver1])
	dcAngle := cmplx.Phase(gDC.V()[dcSolver1])
	assert.InDelta(t, acAngle, dcAngle, 1e-6)
}

// (f) Topology split: splitting a busbar into two halves with half the
// load on each must converge and leave total load unchanged.
func TestACPowerFlow_TopologySplitPreservesTotalLoad(t *testing.T) {
	cfg := grid.Config{Logger: zerolog.Nop()}
	// Bus 0: slack. Bus 1: original substation busbar carrying a 40MW
	// load. Bus 2: the busbar's other half, initially inactive together
	// with every element attached to it.
	g := grid.New(3, []float64{138, 138, 138}, cfg)
	g.AddGenerator(element.NewGenerator("G1", 0, 0, 1.0, 0, 0))
	g.AddLine(element.NewLine("L1", 0, 1, 0.01, 0.1, 0))
	l2 := element.NewLine("L2", 0, 2, 0.01, 0.1, 0)
	tie := element.NewLine("TIE", 1, 2, 0.001, 0.01, 0)
	l2.Active, tie.Active = false, false
	g.AddLine(l2)
	g.AddLine(tie)
	ld1 := element.NewLoad("LD1", 1, 40, 10)
	ld2 := element.NewLoad("LD2", 2, 0, 0)
	ld2.Active = false
	g.AddLoad(ld1)
	g.AddLoad(ld2)
	g.UpdateBusStatus(2, false)
	g.SetSlackGenerator(0)

	require.NoError(t, g.ACPowerFlow())
	totalBefore := ld1.PMW + ld2.PMW

	// Split the busbar: bus 2 and its elements go active, half the load
	// moves over.
	g.UpdateBusStatus(2, true)
	l2.Active, tie.Active, ld2.Active = true, true, true
	ld1.PMW = 20
	ld2.PMW = 20

	require.NoError(t, g.ACPowerFlow())
	assert.LessOrEqual(t, g.Iterations(), 6)
	assert.InDelta(t, totalBefore, ld1.PMW+ld2.PMW, 1e-9)
}
