package element

import "github.com/windyasd/lightsim2grid/pkg/matrix"

// Shunt is a fixed bus shunt specified as P,Q at 1pu voltage; its
// admittance contribution is -(P+jQ)/sn_mva on the Y diagonal (positive Q
// is inductive), per spec.md §3.
type Shunt struct {
	Base
	Bus   int
	PMW   float64
	QMVAr float64
}

func NewShunt(name string, bus int, pMW, qMVAr float64) *Shunt {
	return &Shunt{Base: Base{ElemName: name, Active: true}, Bus: bus, PMW: pMW, QMVAr: qMVAr}
}

func (s *Shunt) Type() string { return "Shunt" }

func (s *Shunt) connected(ctx *Context) (solverID int, ok bool, err error) {
	if !s.Active {
		return 0, false, nil
	}
	if !ctx.active(s.Bus) {
		return 0, false, disconnectedErr("Shunt", s.ElemName, s.Bus)
	}
	return ctx.solverID(s.Bus), true, nil
}

func (s *Shunt) StampY(b *matrix.YBuilder, ctx *Context) error {
	id, ok, err := s.connected(ctx)
	if err != nil {
		return err
	}
	if !ok || !ctx.AC {
		return nil
	}
	y := complex(-s.PMW/ctx.SnMVA, -s.QMVAr/ctx.SnMVA)
	b.AddY(id, id, y)
	return nil
}

func (s *Shunt) StampS(b *matrix.YBuilder, ctx *Context) error {
	id, ok, err := s.connected(ctx)
	if err != nil {
		return err
	}
	if !ok || ctx.AC {
		return nil
	}
	// DC: the shunt's admittance-at-1pu model degenerates to a constant
	// real power draw.
	b.AddS(id, complex(-s.PMW/ctx.SnMVA, 0))
	return nil
}

func (s *Shunt) ComputeResults(v []complex128, ctx *Context) {}
