package element

import (
	"math/cmplx"

	"github.com/windyasd/lightsim2grid/pkg/matrix"
)

// Storage injects P (positive = discharging) and Q at its bus. Per
// spec.md §9's resolved open question, storage is always active: no
// implicit deactivation on P==0.
type Storage struct {
	Base
	Bus   int
	PMW   float64
	QMVAr float64

	VPU float64
}

func NewStorage(name string, bus int, pMW, qMVAr float64) *Storage {
	return &Storage{Base: Base{ElemName: name, Active: true}, Bus: bus, PMW: pMW, QMVAr: qMVAr}
}

func (s *Storage) Type() string { return "Storage" }

func (s *Storage) StampY(*matrix.YBuilder, *Context) error { return nil }

func (s *Storage) StampS(b *matrix.YBuilder, ctx *Context) error {
	if !s.Active {
		return nil
	}
	if !ctx.active(s.Bus) {
		return disconnectedErr("Storage", s.ElemName, s.Bus)
	}
	id := ctx.solverID(s.Bus)
	if ctx.AC {
		b.AddS(id, complex(s.PMW/ctx.SnMVA, s.QMVAr/ctx.SnMVA))
	} else {
		b.AddS(id, complex(s.PMW/ctx.SnMVA, 0))
	}
	return nil
}

func (s *Storage) ComputeResults(v []complex128, ctx *Context) {
	if !s.Active || !ctx.active(s.Bus) {
		return
	}
	s.VPU = cmplx.Abs(v[ctx.solverID(s.Bus)])
}
