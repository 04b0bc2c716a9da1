package element

import (
	"math"
	"math/cmplx"

	"github.com/windyasd/lightsim2grid/pkg/matrix"
)

// TapSide identifies which winding carries the off-nominal tap ratio.
type TapSide int

const (
	TapHV TapSide = iota
	TapLV
)

// Transformer is a two-winding π-equivalent with an off-nominal complex
// turns ratio t = N*e^{jφ} placed on the tap side, per spec.md §3/§6.
type Transformer struct {
	Base
	HVBus        int
	LVBus        int
	R            float64
	X            float64
	B            complex128 // magnetizing admittance, stamped at the tap side
	TapPos       float64
	TapStepPct   float64
	PhaseShiftDeg float64
	TapSide      TapSide

	PHVMW, QHVMVAr float64
	PLVMW, QLVMVAr float64
	IHVKA, ILVKA   float64
}

func NewTransformer(name string, hvBus, lvBus int, r, x float64, b complex128, tapPos, tapStepPct, phaseShiftDeg float64, tapSide TapSide) *Transformer {
	return &Transformer{
		Base:          Base{ElemName: name, Active: true},
		HVBus:         hvBus,
		LVBus:         lvBus,
		R:             r,
		X:             x,
		B:             b,
		TapPos:        tapPos,
		TapStepPct:    tapStepPct,
		PhaseShiftDeg: phaseShiftDeg,
		TapSide:       tapSide,
	}
}

func (t *Transformer) Type() string { return "Transformer" }

// ratio returns the effective complex off-nominal ratio t = N*e^{jφ}.
func (t *Transformer) ratio() complex128 {
	n := 1 + t.TapPos*t.TapStepPct/100
	phi := t.PhaseShiftDeg * math.Pi / 180
	return complex(n*math.Cos(phi), n*math.Sin(phi))
}

// tapExt/otherExt returns the (tap-side, other-side) external bus ids.
func (t *Transformer) tapExt() (tap, other int) {
	if t.TapSide == TapHV {
		return t.HVBus, t.LVBus
	}
	return t.LVBus, t.HVBus
}

func (t *Transformer) endpoints(ctx *Context) (tapSolver, otherSolver int, ok bool, err error) {
	if !t.Active {
		return 0, 0, false, nil
	}
	tapExt, otherExt := t.tapExt()
	if !ctx.active(tapExt) {
		return 0, 0, false, disconnectedErr("Transformer", t.ElemName, tapExt)
	}
	if !ctx.active(otherExt) {
		return 0, 0, false, disconnectedErr("Transformer", t.ElemName, otherExt)
	}
	return ctx.solverID(tapExt), ctx.solverID(otherExt), true, nil
}

func (t *Transformer) StampY(bld *matrix.YBuilder, ctx *Context) error {
	tapID, otherID, ok, err := t.endpoints(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if ctx.AC {
		y := 1 / complex(t.R, t.X)
		tRatio := t.ratio()
		tConj := cmplx.Conj(tRatio)
		tMagSq := complex(real(tRatio)*real(tRatio)+imag(tRatio)*imag(tRatio), 0)

		bld.AddY(tapID, tapID, y/tMagSq+t.B)
		bld.AddY(otherID, otherID, y)
		bld.AddY(tapID, otherID, -y/tConj)
		bld.AddY(otherID, tapID, -y/tRatio)
		return nil
	}

	// DC: susceptance-only, scaled by the tap magnitude and stamped into
	// Y's imaginary component (pkg/solver.RunDC's B-matrix convention);
	// the phase shift is injected as a constant power offset in StampS.
	n := 1 + t.TapPos*t.TapStepPct/100
	if n == 0 {
		n = 1
	}
	b := complex(0, 1/t.X)
	bld.AddY(tapID, tapID, b/complex(n*n, 0))
	bld.AddY(otherID, otherID, b)
	bld.AddY(tapID, otherID, -b/complex(n, 0))
	bld.AddY(otherID, tapID, -b/complex(n, 0))
	return nil
}

func (t *Transformer) StampS(bld *matrix.YBuilder, ctx *Context) error {
	if ctx.AC || !t.Active || t.PhaseShiftDeg == 0 {
		return nil
	}
	tapID, otherID, ok, _ := t.endpoints(ctx)
	if !ok {
		return nil
	}
	phi := t.PhaseShiftDeg * math.Pi / 180
	shift := complex(1/t.X*phi, 0)
	bld.AddS(tapID, -shift)
	bld.AddS(otherID, shift)
	return nil
}

func (t *Transformer) ComputeResults(v []complex128, ctx *Context) {
	tapExt, otherExt := t.tapExt()
	if !t.Active || !ctx.active(tapExt) || !ctx.active(otherExt) {
		return
	}
	tapID, otherID, ok, _ := t.endpoints(ctx)
	if !ok {
		return
	}

	y := 1 / complex(t.R, t.X)
	tRatio := t.ratio()
	tConj := cmplx.Conj(tRatio)

	vTap, vOther := v[tapID], v[otherID]
	iTap := (vTap/tRatio-vOther)*y/tConj + vTap*t.B
	iOther := (vOther - vTap/tRatio) * y

	sTap := vTap * cmplx.Conj(iTap)
	sOther := vOther * cmplx.Conj(iOther)

	pTapMW, qTapMVAr := real(sTap)*ctx.SnMVA, imag(sTap)*ctx.SnMVA
	pOtherMW, qOtherMVAr := real(sOther)*ctx.SnMVA, imag(sOther)*ctx.SnMVA

	iBaseTap := ctx.SnMVA / (math.Sqrt(3) * ctx.baseKV(tapExt))
	iBaseOther := ctx.SnMVA / (math.Sqrt(3) * ctx.baseKV(otherExt))
	iTapKA := cmplx.Abs(iTap) * iBaseTap
	iOtherKA := cmplx.Abs(iOther) * iBaseOther

	if t.TapSide == TapHV {
		t.PHVMW, t.QHVMVAr = pTapMW, qTapMVAr
		t.PLVMW, t.QLVMVAr = pOtherMW, qOtherMVAr
		t.IHVKA, t.ILVKA = iTapKA, iOtherKA
	} else {
		t.PLVMW, t.QLVMVAr = pTapMW, qTapMVAr
		t.PHVMW, t.QHVMVAr = pOtherMW, qOtherMVAr
		t.ILVKA, t.IHVKA = iTapKA, iOtherKA
	}
}
