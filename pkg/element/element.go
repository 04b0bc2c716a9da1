// Package element implements the typed grid elements (Line, Transformer,
// Shunt, Load, Generator, StaticGen, Storage) and the stamping contract
// spec.md §4.1 requires of each: contribute to Y, contribute to S, mark PV
// buses, and compute post-solve per-element results.
package element

import (
	"github.com/windyasd/lightsim2grid/pkg/busmap"
	"github.com/windyasd/lightsim2grid/pkg/gferr"
	"github.com/windyasd/lightsim2grid/pkg/matrix"
)

// Context carries everything an element needs to stamp itself or compute
// results, without holding a back-reference into the grid (spec.md §9:
// "Replace with an interface abstraction; elements store only external bus
// ids").
type Context struct {
	Bus       *busmap.Map
	AC        bool // true: full complex stamp. false: DC linearization.
	SnMVA     float64
	BaseKV    []float64 // indexed by external bus id
	BusActive []bool    // indexed by external bus id
}

func (c *Context) solverID(ext int) int { return c.Bus.ToSolver(ext) }

func (c *Context) active(ext int) bool {
	if ext < 0 || ext >= len(c.BusActive) {
		return false
	}
	return c.BusActive[ext]
}

func (c *Context) baseKV(ext int) float64 {
	if ext < 0 || ext >= len(c.BaseKV) {
		return 0
	}
	return c.BaseKV[ext]
}

// Element is the stamping contract every grid element family implements.
type Element interface {
	Name() string
	Type() string
	IsActive() bool
	// StampY appends this element's admittance contribution to the Y
	// builder. Returns DisconnectedBusReferenced if the element is active
	// but one of its endpoint buses is not. Elements that stamp nothing
	// into Y (Load, Generator, StaticGen, Storage) return nil here and make
	// that check in StampS instead.
	StampY(b *matrix.YBuilder, ctx *Context) error
	// StampS appends this element's injection contribution.
	StampS(b *matrix.YBuilder, ctx *Context) error
	// ClassifyPV marks its bus as PV in pv, unless that bus is the slack.
	// Non-generator elements are no-ops.
	ClassifyPV(pv map[int]bool, slackSolverID int, ctx *Context)
	// ComputeResults recomputes this element's post-solve quantities from
	// the converged solver-indexed voltage vector.
	ComputeResults(v []complex128, ctx *Context)
}

// Base holds the fields common to every element family.
type Base struct {
	ElemName string
	Active   bool
}

func (b *Base) Name() string    { return b.ElemName }
func (b *Base) IsActive() bool  { return b.Active }

// ClassifyPV default: only Generator overrides this.
func (b *Base) ClassifyPV(map[int]bool, int, *Context) {}

func disconnectedErr(elemType, name string, bus int) error {
	return gferr.New(gferr.DisconnectedBusReferenced,
		"%s %q references inactive bus %d", elemType, name, bus)
}
