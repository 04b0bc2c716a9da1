package element

import (
	"math/cmplx"

	"github.com/windyasd/lightsim2grid/pkg/matrix"
)

// Generator is a voltage-controlled (PV) unit: P and |V| are given, Q is
// solved for. Its presence marks the bus PV unless the bus is slack.
type Generator struct {
	Base
	Bus    int
	PMW    float64
	VSetPU float64
	QMinMVAr float64
	QMaxMVAr float64

	// QMVAr is the post-solve reactive output, reconstructed by
	// pkg/result (spec.md §4.7) since it depends on every other element
	// at the bus, not just this generator.
	QMVAr        float64
	QLimitHit    bool
	VPU          float64

	// POutputMW is the post-solve active-power output. For every
	// generator but the slack it equals PMW; the slack's is reconstructed
	// by pkg/result from the converged power balance (spec.md §4.7), since
	// it absorbs the network's real losses and any load/generation
	// imbalance.
	POutputMW float64
}

func NewGenerator(name string, bus int, pMW, vSetPU, qMinMVAr, qMaxMVAr float64) *Generator {
	return &Generator{
		Base: Base{ElemName: name, Active: true}, Bus: bus,
		PMW: pMW, VSetPU: vSetPU, QMinMVAr: qMinMVAr, QMaxMVAr: qMaxMVAr,
	}
}

func (g *Generator) Type() string { return "Generator" }

func (g *Generator) StampY(*matrix.YBuilder, *Context) error { return nil }

func (g *Generator) StampS(b *matrix.YBuilder, ctx *Context) error {
	if !g.Active {
		return nil
	}
	if !ctx.active(g.Bus) {
		return disconnectedErr("Generator", g.ElemName, g.Bus)
	}
	b.AddS(ctx.solverID(g.Bus), complex(g.PMW/ctx.SnMVA, 0))
	return nil
}

func (g *Generator) ClassifyPV(pv map[int]bool, slackSolverID int, ctx *Context) {
	if !g.Active || !ctx.active(g.Bus) {
		return
	}
	id := ctx.solverID(g.Bus)
	if id == slackSolverID {
		return
	}
	pv[id] = true
}

func (g *Generator) ComputeResults(v []complex128, ctx *Context) {
	if !g.Active || !ctx.active(g.Bus) {
		return
	}
	g.VPU = cmplx.Abs(v[ctx.solverID(g.Bus)])
	g.POutputMW = g.PMW
}

// ApplyQ is called by pkg/result with the reconstructed reactive output
// and whether a configured limit was hit.
func (g *Generator) ApplyQ(qMVAr float64, limitHit bool) {
	g.QMVAr = qMVAr
	g.QLimitHit = limitHit
}

// ApplyP is called by pkg/result with the slack generator's reconstructed
// active-power output (spec.md §4.7); every other generator keeps PMW as
// computed by ComputeResults.
func (g *Generator) ApplyP(pMW float64) {
	g.POutputMW = pMW
}
