// Package grid is the facade over bus/branch data, the Y/S assembler, and
// the AC/DC solvers: the single entry point spec.md §6 describes for
// building a network and running power flow against it.
package grid

import (
	"github.com/rs/zerolog"

	"github.com/windyasd/lightsim2grid/internal/consts"
	"github.com/windyasd/lightsim2grid/pkg/busmap"
	"github.com/windyasd/lightsim2grid/pkg/element"
	"github.com/windyasd/lightsim2grid/pkg/gferr"
	"github.com/windyasd/lightsim2grid/pkg/matrix"
	"github.com/windyasd/lightsim2grid/pkg/solver"
)

// lifecycle tracks the state machine spec.md §5 describes: a topology or
// injection mutation dirties the grid; a solve assembles it and leaves it
// converged or diverged; either one keeps the bus map and element slices
// usable for the next mutation.
type lifecycle int

const (
	lifecycleClean lifecycle = iota
	lifecycleDirty
	lifecycleConverged
	lifecycleDiverged
)

// Config holds the tunables a grid is built with, defaulted from
// internal/consts when zero-valued.
type Config struct {
	SnMVA    float64
	InitVmPU float64
	Tol      float64
	MaxIter  int
	Logger   zerolog.Logger
}

func (c *Config) defaults() {
	if c.SnMVA == 0 {
		c.SnMVA = consts.DefaultSnMVA
	}
	if c.InitVmPU == 0 {
		c.InitVmPU = consts.DefaultInitVmPU
	}
	if c.Tol == 0 {
		c.Tol = consts.DefaultTol
	}
	if c.MaxIter == 0 {
		c.MaxIter = consts.DefaultMaxIter
	}
}

// Grid owns bus data, typed elements, and solver state across repeated
// AC/DC solves and topology/injection mutations.
type Grid struct {
	cfg Config

	busVnKV     []float64
	busStatus   []bool
	slackGenIdx int // index into generators naming the slack unit, per spec.md §3
	slackBus    int // external bus id resolved from the slack generator by validateSlack

	lines        []*element.Line
	transformers []*element.Transformer
	shunts       []*element.Shunt
	loads        []*element.Load
	generators   []*element.Generator
	staticGens   []*element.StaticGen
	storages     []*element.Storage

	bus   *busmap.Map
	state solver.State
	life  lifecycle
	y     *matrix.Y
}

// New builds an empty grid with numBuses buses (all active by default).
// The slack generator must be designated separately with
// SetSlackGenerator once it has been added.
func New(numBuses int, busVnKV []float64, cfg Config) *Grid {
	cfg.defaults()
	status := make([]bool, numBuses)
	for i := range status {
		status[i] = true
	}
	return &Grid{
		cfg:         cfg,
		busVnKV:     busVnKV,
		busStatus:   status,
		slackGenIdx: -1,
		life:        lifecycleDirty,
	}
}

// SetSlackGenerator designates generators[idx] as the slack unit, per
// spec.md §3: a single generator id is slack, and its bus becomes the
// slack bus. idx is validated lazily, at the next solve.
func (g *Grid) SetSlackGenerator(idx int) {
	g.slackGenIdx = idx
	g.dirty()
}

func (g *Grid) AddLine(l *element.Line)               { g.lines = append(g.lines, l); g.dirty() }
func (g *Grid) AddTransformer(t *element.Transformer)  { g.transformers = append(g.transformers, t); g.dirty() }
func (g *Grid) AddShunt(s *element.Shunt)              { g.shunts = append(g.shunts, s); g.dirty() }
func (g *Grid) AddLoad(l *element.Load)                { g.loads = append(g.loads, l); g.dirty() }
func (g *Grid) AddGenerator(gen *element.Generator)    { g.generators = append(g.generators, gen); g.dirty() }
func (g *Grid) AddStaticGen(sg *element.StaticGen)     { g.staticGens = append(g.staticGens, sg); g.dirty() }
func (g *Grid) AddStorage(st *element.Storage)         { g.storages = append(g.storages, st); g.dirty() }

func (g *Grid) dirty() {
	if g.life != lifecycleDirty {
		g.life = lifecycleDirty
	}
}

// UpdateBusStatus sets bus ext's connectivity, per spec.md §6
// update_bus_status.
func (g *Grid) UpdateBusStatus(ext int, active bool) {
	if ext < 0 || ext >= len(g.busStatus) {
		return
	}
	g.busStatus[ext] = active
	g.dirty()
}

// UpdateTopo replaces bus connectivity wholesale, per spec.md §6
// update_topo.
func (g *Grid) UpdateTopo(busStatus []bool) {
	g.busStatus = append([]bool(nil), busStatus...)
	g.dirty()
}

// UpdateGenP sets generator idx's active-power setpoint.
func (g *Grid) UpdateGenP(idx int, pMW float64) {
	if idx < 0 || idx >= len(g.generators) {
		return
	}
	g.generators[idx].PMW = pMW
	g.dirty()
}

// UpdateGenV sets generator idx's voltage setpoint.
func (g *Grid) UpdateGenV(idx int, vSetPU float64) {
	if idx < 0 || idx >= len(g.generators) {
		return
	}
	g.generators[idx].VSetPU = vSetPU
	g.dirty()
}

// UpdateLoadP sets load idx's active-power draw.
func (g *Grid) UpdateLoadP(idx int, pMW float64) {
	if idx < 0 || idx >= len(g.loads) {
		return
	}
	g.loads[idx].PMW = pMW
	g.dirty()
}

// UpdateLoadQ sets load idx's reactive-power draw.
func (g *Grid) UpdateLoadQ(idx int, qMVAr float64) {
	if idx < 0 || idx >= len(g.loads) {
		return
	}
	g.loads[idx].QMVAr = qMVAr
	g.dirty()
}

// UpdateStorageP sets storage idx's active-power injection.
func (g *Grid) UpdateStorageP(idx int, pMW float64) {
	if idx < 0 || idx >= len(g.storages) {
		return
	}
	g.storages[idx].PMW = pMW
	g.dirty()
}

func (g *Grid) allElements() []element.Element {
	all := make([]element.Element, 0, len(g.lines)+len(g.transformers)+len(g.shunts)+len(g.loads)+len(g.generators)+len(g.staticGens)+len(g.storages))
	for _, e := range g.lines {
		all = append(all, e)
	}
	for _, e := range g.transformers {
		all = append(all, e)
	}
	for _, e := range g.shunts {
		all = append(all, e)
	}
	for _, e := range g.loads {
		all = append(all, e)
	}
	for _, e := range g.generators {
		all = append(all, e)
	}
	for _, e := range g.staticGens {
		all = append(all, e)
	}
	for _, e := range g.storages {
		all = append(all, e)
	}
	return all
}

// validateSlack checks the slack preconditions spec.md §7 demands before
// any solve: the designated slack generator must exist and be active
// (SlackInvalid otherwise), and its bus must be connected
// (SlackDisconnected otherwise). On success it resolves g.slackBus from
// the slack generator's bus.
func (g *Grid) validateSlack() error {
	if g.slackGenIdx < 0 || g.slackGenIdx >= len(g.generators) {
		return gferr.New(gferr.SlackInvalid, "slack generator id %d out of range", g.slackGenIdx)
	}
	gen := g.generators[g.slackGenIdx]
	if !gen.IsActive() {
		return gferr.New(gferr.SlackInvalid, "slack generator %q is inactive", gen.Name())
	}
	bus := gen.Bus
	if bus < 0 || bus >= len(g.busStatus) {
		return gferr.New(gferr.SlackInvalid, "slack generator %q references out-of-range bus %d", gen.Name(), bus)
	}
	g.slackBus = bus
	if !g.busStatus[bus] {
		return gferr.New(gferr.SlackDisconnected, "slack bus %d is inactive", bus)
	}
	return nil
}

func (g *Grid) buildContext(ac bool) *element.Context {
	return &element.Context{
		Bus:       g.bus,
		AC:        ac,
		SnMVA:     g.cfg.SnMVA,
		BaseKV:    g.busVnKV,
		BusActive: g.busStatus,
	}
}

func (g *Grid) flatStart(k int) []complex128 {
	v0 := make([]complex128, k)
	for i := range v0 {
		v0[i] = complex(g.cfg.InitVmPU, 0)
	}
	slackSolver := g.bus.ToSolver(g.slackBus)
	if slackSolver >= 0 {
		v0[slackSolver] = complex(g.cfg.InitVmPU, 0)
	}
	return v0
}

func (g *Grid) seedGeneratorVoltages(v0 []complex128, ctx *element.Context) {
	for _, gen := range g.generators {
		if !gen.Active || !ctx.active(gen.Bus) {
			continue
		}
		id := g.bus.ToSolver(gen.Bus)
		v0[id] = complex(gen.VSetPU, imag(v0[id]))
	}
}

// ACPowerFlow assembles Y/S and runs Newton-Raphson to convergence, per
// spec.md §4.5.
func (g *Grid) ACPowerFlow() error {
	if err := g.validateSlack(); err != nil {
		g.life = lifecycleDiverged
		return err
	}

	g.bus = busmap.Build(g.busStatus)
	k := g.bus.NumConnected()
	slackSolver := g.bus.ToSolver(g.slackBus)

	ctx := g.buildContext(true)
	elements := g.allElements()

	y, s, err := assemble(elements, ctx, k)
	if err != nil {
		g.life = lifecycleDiverged
		return err
	}
	g.y = y

	pv, pq := solver.Classify(elements, ctx, slackSolver, k)

	v0 := g.flatStart(k)
	g.seedGeneratorVoltages(v0, ctx)

	g.state.Reset()
	if err := solver.RunAC(y, s, v0, pv, pq, slackSolver, g.cfg.MaxIter, g.cfg.Tol, &g.state, g.cfg.Logger); err != nil {
		g.life = lifecycleDiverged
		return err
	}

	for _, e := range elements {
		e.ComputeResults(g.state.V, ctx)
	}

	g.life = lifecycleConverged
	return nil
}

// DCPowerFlow assembles the linearized Y/S and solves the reduced real
// system, per spec.md §4.6.
func (g *Grid) DCPowerFlow() error {
	if err := g.validateSlack(); err != nil {
		g.life = lifecycleDiverged
		return err
	}

	g.bus = busmap.Build(g.busStatus)
	k := g.bus.NumConnected()
	slackSolver := g.bus.ToSolver(g.slackBus)

	ctx := g.buildContext(false)
	elements := g.allElements()

	y, s, err := assemble(elements, ctx, k)
	if err != nil {
		g.life = lifecycleDiverged
		return err
	}
	g.y = y

	v0 := g.flatStart(k)
	g.seedGeneratorVoltages(v0, ctx)

	g.state.Reset()
	if err := solver.RunDC(y, s, v0, slackSolver, &g.state, g.cfg.Logger); err != nil {
		g.life = lifecycleDiverged
		return err
	}

	for _, e := range elements {
		e.ComputeResults(g.state.V, ctx)
	}

	g.life = lifecycleConverged
	return nil
}

// Converged reports whether the last solve succeeded.
func (g *Grid) Converged() bool { return g.life == lifecycleConverged }

// Iterations returns the last AC solve's iteration count (1 for DC).
func (g *Grid) Iterations() int { return g.state.Iterations }

// V returns the last solve's solver-indexed complex voltage vector.
func (g *Grid) V() []complex128 { return g.state.V }

// Y returns the last solve's assembled nodal admittance matrix.
func (g *Grid) Y() *matrix.Y { return g.y }

// Jacobian returns the last AC iteration's factored Jacobian, retained per
// spec.md §4.8's accessor contract. Nil after a DC solve.
func (g *Grid) Jacobian() *matrix.RealSparse { return g.state.Jacobian }

// BusMap exposes the external/solver bus bijection built by the last solve.
func (g *Grid) BusMap() *busmap.Map { return g.bus }

// Elements exposes every typed element for result reporting.
func (g *Grid) Elements() []element.Element { return g.allElements() }

func (g *Grid) Lines() []*element.Line               { return g.lines }
func (g *Grid) Transformers() []*element.Transformer { return g.transformers }
func (g *Grid) Generators() []*element.Generator     { return g.generators }
func (g *Grid) Loads() []*element.Load               { return g.loads }
func (g *Grid) StaticGens() []*element.StaticGen      { return g.staticGens }
func (g *Grid) Storages() []*element.Storage          { return g.storages }
func (g *Grid) Shunts() []*element.Shunt              { return g.shunts }

// SlackBus returns the external bus id last resolved from the slack
// generator by validateSlack (valid only after a solve attempt).
func (g *Grid) SlackBus() int { return g.slackBus }

// SlackGenIdx returns the designated slack generator's index.
func (g *Grid) SlackGenIdx() int { return g.slackGenIdx }
func (g *Grid) SnMVA() float64 { return g.cfg.SnMVA }
func (g *Grid) InitVmPU() float64 { return g.cfg.InitVmPU }
func (g *Grid) BusVnKV() []float64 { return g.busVnKV }
func (g *Grid) BusStatus() []bool { return g.busStatus }
