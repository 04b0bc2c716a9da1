package element

import (
	"math/cmplx"

	"github.com/windyasd/lightsim2grid/pkg/matrix"
)

// Load is a constant-power PQ load: it subtracts P+jQ from its bus's
// injection.
type Load struct {
	Base
	Bus   int
	PMW   float64
	QMVAr float64

	VPU float64 // post-solve bus voltage magnitude
}

func NewLoad(name string, bus int, pMW, qMVAr float64) *Load {
	return &Load{Base: Base{ElemName: name, Active: true}, Bus: bus, PMW: pMW, QMVAr: qMVAr}
}

func (l *Load) Type() string { return "Load" }

func (l *Load) StampY(*matrix.YBuilder, *Context) error { return nil }

func (l *Load) StampS(b *matrix.YBuilder, ctx *Context) error {
	if !l.Active {
		return nil
	}
	if !ctx.active(l.Bus) {
		return disconnectedErr("Load", l.ElemName, l.Bus)
	}
	id := ctx.solverID(l.Bus)
	if ctx.AC {
		b.AddS(id, complex(-l.PMW/ctx.SnMVA, -l.QMVAr/ctx.SnMVA))
	} else {
		b.AddS(id, complex(-l.PMW/ctx.SnMVA, 0))
	}
	return nil
}

func (l *Load) ComputeResults(v []complex128, ctx *Context) {
	if !l.Active || !ctx.active(l.Bus) {
		return
	}
	l.VPU = cmplx.Abs(v[ctx.solverID(l.Bus)])
}
