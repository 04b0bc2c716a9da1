package element

import (
	"math"
	"math/cmplx"

	"github.com/windyasd/lightsim2grid/pkg/matrix"
)

// Line is a π-equivalent transmission branch: series impedance r+jx plus
// total shunt charging susceptance h, distributed half to each end.
type Line struct {
	Base
	FromBus int
	ToBus   int
	R       float64
	X       float64
	H       complex128 // total line charging, split h/2 per end

	// post-solve results, populated by ComputeResults
	IFromKA, IToKA     float64
	PFromMW, QFromMVAr float64
	PToMW, QToMVAr     float64
}

func NewLine(name string, fromBus, toBus int, r, x float64, h complex128) *Line {
	return &Line{
		Base:    Base{ElemName: name, Active: true},
		FromBus: fromBus,
		ToBus:   toBus,
		R:       r,
		X:       x,
		H:       h,
	}
}

func (l *Line) Type() string { return "Line" }

func (l *Line) endpoints(ctx *Context) (fromSolver, toSolver int, ok bool, err error) {
	if !l.Active {
		return 0, 0, false, nil
	}
	if !ctx.active(l.FromBus) {
		return 0, 0, false, disconnectedErr("Line", l.ElemName, l.FromBus)
	}
	if !ctx.active(l.ToBus) {
		return 0, 0, false, disconnectedErr("Line", l.ElemName, l.ToBus)
	}
	return ctx.solverID(l.FromBus), ctx.solverID(l.ToBus), true, nil
}

func (l *Line) StampY(b *matrix.YBuilder, ctx *Context) error {
	f, t, ok, err := l.endpoints(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if ctx.AC {
		ySeries := 1 / complex(l.R, l.X)
		yShunt := l.H / 2
		b.AddY(f, f, ySeries+yShunt)
		b.AddY(t, t, ySeries+yShunt)
		b.AddY(f, t, -ySeries)
		b.AddY(t, f, -ySeries)
		return nil
	}

	// DC: susceptance-only B = 1/x, stamped into Y's imaginary component
	// (the convention pkg/solver.RunDC reads the reduced B-matrix from).
	bSeries := complex(0, 1/l.X)
	b.AddY(f, f, bSeries)
	b.AddY(t, t, bSeries)
	b.AddY(f, t, -bSeries)
	b.AddY(t, f, -bSeries)
	return nil
}

func (l *Line) StampS(*matrix.YBuilder, *Context) error { return nil }

func (l *Line) ComputeResults(v []complex128, ctx *Context) {
	if !l.Active || !ctx.active(l.FromBus) || !ctx.active(l.ToBus) {
		return
	}
	f, t := ctx.solverID(l.FromBus), ctx.solverID(l.ToBus)

	ySeries := 1 / complex(l.R, l.X)
	yShunt := l.H / 2

	vf, vt := v[f], v[t]
	iFrom := (vf-vt)*ySeries + vf*yShunt
	iTo := (vt-vf)*ySeries + vt*yShunt

	sFrom := vf * cmplx.Conj(iFrom)
	sTo := vt * cmplx.Conj(iTo)

	l.PFromMW = real(sFrom) * ctx.SnMVA
	l.QFromMVAr = imag(sFrom) * ctx.SnMVA
	l.PToMW = real(sTo) * ctx.SnMVA
	l.QToMVAr = imag(sTo) * ctx.SnMVA

	baseKVFrom := ctx.baseKV(l.FromBus)
	baseKVTo := ctx.baseKV(l.ToBus)
	iBaseFrom := ctx.SnMVA / (math.Sqrt(3) * baseKVFrom)
	iBaseTo := ctx.SnMVA / (math.Sqrt(3) * baseKVTo)
	l.IFromKA = cmplx.Abs(iFrom) * iBaseFrom
	l.IToKA = cmplx.Abs(iTo) * iBaseTo
}
