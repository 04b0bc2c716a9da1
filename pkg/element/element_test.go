package element_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windyasd/lightsim2grid/pkg/busmap"
	"github.com/windyasd/lightsim2grid/pkg/element"
	"github.com/windyasd/lightsim2grid/pkg/gferr"
	"github.com/windyasd/lightsim2grid/pkg/matrix"
)

func twoBusContext(ac bool) *element.Context {
	return &element.Context{
		Bus:       busmap.Build([]bool{true, true}),
		AC:        ac,
		SnMVA:     100,
		BaseKV:    []float64{138, 138},
		BusActive: []bool{true, true},
	}
}

func TestLine_StampY_SymmetricSeriesAdmittance(t *testing.T) {
	ctx := twoBusContext(true)
	l := element.NewLine("L1", 0, 1, 0.01, 0.1, 0)

	b := matrix.NewYBuilder(2, 8)
	require.NoError(t, l.StampY(b, ctx))
	y, _ := b.Build()

	assert.Equal(t, y.At(0, 1), y.At(1, 0))
	assert.Equal(t, -y.At(0, 1), y.At(0, 0))
}

func TestLine_StampY_DisconnectedBusErrors(t *testing.T) {
	ctx := twoBusContext(true)
	ctx.BusActive = []bool{true, false}
	l := element.NewLine("L1", 0, 1, 0.01, 0.1, 0)

	b := matrix.NewYBuilder(1, 8)
	err := l.StampY(b, ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, gferr.ErrDisconnectedBusReferenced)
}

func TestLine_DC_SusceptanceOnly(t *testing.T) {
	ctx := twoBusContext(false)
	l := element.NewLine("L1", 0, 1, 0, 0.1, 0)

	b := matrix.NewYBuilder(2, 8)
	require.NoError(t, l.StampY(b, ctx))
	y, _ := b.Build()

	assert.InDelta(t, 0.0, real(y.At(0, 0)), 1e-9)
	assert.InDelta(t, 10.0, imag(y.At(0, 0)), 1e-9)
}

func TestGenerator_ClassifyPV_SkipsSlack(t *testing.T) {
	ctx := twoBusContext(true)
	gen := element.NewGenerator("G1", 0, 50, 1.02, -10, 10)

	pv := make(map[int]bool)
	gen.ClassifyPV(pv, 0, ctx)
	assert.False(t, pv[0], "slack bus must not be marked PV")

	pv2 := make(map[int]bool)
	gen2 := element.NewGenerator("G2", 1, 50, 1.02, -10, 10)
	gen2.ClassifyPV(pv2, 0, ctx)
	assert.True(t, pv2[1])
}

func TestShunt_StampsYInAC_SInDC(t *testing.T) {
	acCtx := twoBusContext(true)
	dcCtx := twoBusContext(false)
	sh := element.NewShunt("SH1", 0, 10, 5)

	bAC := matrix.NewYBuilder(2, 4)
	require.NoError(t, sh.StampY(bAC, acCtx))
	yAC, _ := bAC.Build()
	assert.NotEqual(t, complex128(0), yAC.At(0, 0))

	bDC := matrix.NewYBuilder(2, 4)
	require.NoError(t, sh.StampY(bDC, dcCtx))
	yDC, sDC := bDC.Build()
	assert.Equal(t, complex128(0), yDC.At(0, 0))
	require.NoError(t, sh.StampS(bDC, dcCtx))
	_, sDC = bDC.Build()
	assert.InDelta(t, -0.1, real(sDC[0]), 1e-9)
}

func TestLoad_StampS_SubtractsPQ(t *testing.T) {
	ctx := twoBusContext(true)
	ld := element.NewLoad("LD1", 1, 50, 20)

	b := matrix.NewYBuilder(2, 4)
	require.NoError(t, ld.StampS(b, ctx))
	_, s := b.Build()
	assert.InDelta(t, -0.5, real(s[1]), 1e-9)
	assert.InDelta(t, -0.2, imag(s[1]), 1e-9)
}
