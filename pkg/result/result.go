// Package result projects a converged grid's solver-indexed voltage vector
// into per-element physical-unit quantities, including the generator
// reactive-power reconstruction of spec.md §4.7.
package result

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"github.com/windyasd/lightsim2grid/pkg/element"
	"github.com/windyasd/lightsim2grid/pkg/grid"
	"github.com/windyasd/lightsim2grid/pkg/pu"
)

// ReconstructGeneratorQ fills in every generator's post-solve Q. At a
// generator bus, the total complex power the network actually exchanged
// there is recovered from the converged voltage as V_i*conj((Y*V)_i) (the
// generator's Q was never stamped into S, so this total already carries
// it). Subtracting every other element's known reactive contribution at
// that bus leaves the combined generator Q, split proportionally to
// reactive capacity across generators sharing a bus and clamped to
// [QMin, QMax] with QLimitHit set on clamp. Per spec.md §9's resolved open
// question, the clamp is reporting-only: it does not feed back into the
// solve.
func ReconstructGeneratorQ(g *grid.Grid) {
	v := g.V()
	y := g.Y()
	bm := g.BusMap()
	if v == nil || y == nil || bm == nil {
		return
	}

	busQOther := make(map[int]float64) // solver bus -> MVAr already accounted for by non-generator elements
	busGens := make(map[int][]*element.Generator)

	for _, l := range g.Loads() {
		if !l.Active || !bm.Connected(l.Bus) {
			continue
		}
		busQOther[bm.ToSolver(l.Bus)] += l.QMVAr
	}
	for _, sg := range g.StaticGens() {
		if !sg.Active || !bm.Connected(sg.Bus) {
			continue
		}
		busQOther[bm.ToSolver(sg.Bus)] -= sg.QMVAr
	}
	for _, st := range g.Storages() {
		if !st.Active || !bm.Connected(st.Bus) {
			continue
		}
		busQOther[bm.ToSolver(st.Bus)] -= st.QMVAr
	}
	for _, gen := range g.Generators() {
		if !gen.Active || !bm.Connected(gen.Bus) {
			continue
		}
		id := bm.ToSolver(gen.Bus)
		busGens[id] = append(busGens[id], gen)
	}

	iy := y.MulVec(v)
	snMVA := g.SnMVA()

	for id, gens := range busGens {
		netInjection := v[id] * cmplx.Conj(iy[id])
		netQMVAr := imag(netInjection)*snMVA + busQOther[id]

		totalCap := 0.0
		for _, gen := range gens {
			totalCap += gen.QMaxMVAr - gen.QMinMVAr
		}
		for _, gen := range gens {
			var share float64
			if totalCap > 0 {
				share = netQMVAr * (gen.QMaxMVAr - gen.QMinMVAr) / totalCap
			} else {
				share = netQMVAr / float64(len(gens))
			}
			limitHit := false
			if share > gen.QMaxMVAr {
				share = gen.QMaxMVAr
				limitHit = true
			} else if share < gen.QMinMVAr {
				share = gen.QMinMVAr
				limitHit = true
			}
			gen.ApplyQ(share, limitHit)
		}
	}
}

// ReconstructSlackP recovers the slack generator's true active-power
// output from the converged solve, per spec.md §4.7: since the slack bus
// is excluded from the mismatch equations, its stamped injection was
// never enforced, and the true net injection there (V_i*conj((Y*V)_i))
// carries whatever branch losses plus load/generation imbalance the rest
// of the network didn't account for. Subtracting every other element's
// known contribution at that bus leaves the slack generator's output.
func ReconstructSlackP(g *grid.Grid) {
	v := g.V()
	y := g.Y()
	bm := g.BusMap()
	if v == nil || y == nil || bm == nil {
		return
	}

	gens := g.Generators()
	idx := g.SlackGenIdx()
	if idx < 0 || idx >= len(gens) {
		return
	}
	slack := gens[idx]
	if !slack.Active || !bm.Connected(slack.Bus) {
		return
	}
	id := bm.ToSolver(slack.Bus)

	otherMW := 0.0
	for i, gen := range gens {
		if i == idx || !gen.Active || !bm.Connected(gen.Bus) || bm.ToSolver(gen.Bus) != id {
			continue
		}
		otherMW += gen.PMW
	}
	for _, l := range g.Loads() {
		if !l.Active || !bm.Connected(l.Bus) || bm.ToSolver(l.Bus) != id {
			continue
		}
		otherMW -= l.PMW
	}
	for _, sg := range g.StaticGens() {
		if !sg.Active || !bm.Connected(sg.Bus) || bm.ToSolver(sg.Bus) != id {
			continue
		}
		otherMW += sg.PMW
	}
	for _, st := range g.Storages() {
		if !st.Active || !bm.Connected(st.Bus) || bm.ToSolver(st.Bus) != id {
			continue
		}
		otherMW += st.PMW
	}

	iy := y.MulVec(v)
	netInjection := v[id] * cmplx.Conj(iy[id])
	netMW := real(netInjection) * g.SnMVA()

	slack.ApplyP(netMW - otherMW)
}

// Report formats a human-readable summary of a converged grid's bus
// voltages and branch flows.
func Report(g *grid.Grid) string {
	var b strings.Builder
	bm := g.BusMap()
	v := g.V()

	fmt.Fprintf(&b, "power flow: converged=%v iterations=%d\n", g.Converged(), g.Iterations())
	for solverID, vi := range v {
		ext := bm.ToExt(solverID)
		mag, ang := cmplx.Abs(vi), cmplx.Phase(vi)*180/math.Pi
		fmt.Fprintf(&b, "  bus %d: %s\n", ext, pu.FormatMagnitudeAngle(fmt.Sprintf("V[%d]", ext), mag, ang))
	}
	for _, l := range g.Lines() {
		fmt.Fprintf(&b, "  line %s: P_from=%s Q_from=%s P_to=%s Q_to=%s I_from=%s I_to=%s\n",
			l.Name(),
			pu.FormatValue(l.PFromMW*1e6, "W"), pu.FormatValue(l.QFromMVAr*1e6, "VAr"),
			pu.FormatValue(l.PToMW*1e6, "W"), pu.FormatValue(l.QToMVAr*1e6, "VAr"),
			pu.FormatValue(l.IFromKA*1000, "A"), pu.FormatValue(l.IToKA*1000, "A"))
	}
	for _, gen := range g.Generators() {
		fmt.Fprintf(&b, "  gen %s: P=%s Q=%s V=%.4fpu limit_hit=%v\n",
			gen.Name(), pu.FormatValue(gen.POutputMW*1e6, "W"), pu.FormatValue(gen.QMVAr*1e6, "VAr"), gen.VPU, gen.QLimitHit)
	}
	return b.String()
}
