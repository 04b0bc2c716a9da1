package element

import (
	"math/cmplx"

	"github.com/windyasd/lightsim2grid/pkg/matrix"
)

// StaticGen is a constant-power injection, treated as a negative load. Its
// Q limits are stored (and serialized by pkg/gridio) but are not enforced
// during iteration and are not read by any result or report.
type StaticGen struct {
	Base
	Bus      int
	PMW      float64
	QMVAr    float64
	QMinMVAr float64
	QMaxMVAr float64

	VPU float64
}

func NewStaticGen(name string, bus int, pMW, qMVAr float64) *StaticGen {
	return &StaticGen{Base: Base{ElemName: name, Active: true}, Bus: bus, PMW: pMW, QMVAr: qMVAr}
}

func (s *StaticGen) Type() string { return "StaticGen" }

func (s *StaticGen) StampY(*matrix.YBuilder, *Context) error { return nil }

func (s *StaticGen) StampS(b *matrix.YBuilder, ctx *Context) error {
	if !s.Active {
		return nil
	}
	if !ctx.active(s.Bus) {
		return disconnectedErr("StaticGen", s.ElemName, s.Bus)
	}
	id := ctx.solverID(s.Bus)
	if ctx.AC {
		b.AddS(id, complex(s.PMW/ctx.SnMVA, s.QMVAr/ctx.SnMVA))
	} else {
		b.AddS(id, complex(s.PMW/ctx.SnMVA, 0))
	}
	return nil
}

func (s *StaticGen) ComputeResults(v []complex128, ctx *Context) {
	if !s.Active || !ctx.active(s.Bus) {
		return
	}
	s.VPU = cmplx.Abs(v[ctx.solverID(s.Bus)])
}
