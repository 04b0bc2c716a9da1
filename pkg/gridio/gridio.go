// Package gridio serializes and restores a grid's full state, per
// spec.md §6's get_state/set_state contract: every element family
// serializes its own fields opaquely, and a grid rebuilt with
// Rebuild(GetState(g), cfg) solves to the same voltages as g, up to
// floating-point rounding.
package gridio

import (
	"github.com/windyasd/lightsim2grid/pkg/element"
	"github.com/windyasd/lightsim2grid/pkg/grid"
)

const stateVersion = "1"

// LineState is the opaque serialization of one Line.
type LineState struct {
	Name    string
	Active  bool
	FromBus int
	ToBus   int
	R, X    float64
	H       complex128
}

// TransformerState is the opaque serialization of one Transformer.
type TransformerState struct {
	Name          string
	Active        bool
	HVBus, LVBus  int
	R, X          float64
	B             complex128
	TapPos        float64
	TapStepPct    float64
	PhaseShiftDeg float64
	TapSide       element.TapSide
}

// ShuntState is the opaque serialization of one Shunt.
type ShuntState struct {
	Name        string
	Active      bool
	Bus         int
	PMW, QMVAr  float64
}

// GeneratorState is the opaque serialization of one Generator.
type GeneratorState struct {
	Name               string
	Active             bool
	Bus                int
	PMW, VSetPU        float64
	QMinMVAr, QMaxMVAr float64
}

// LoadState is the opaque serialization of one Load.
type LoadState struct {
	Name       string
	Active     bool
	Bus        int
	PMW, QMVAr float64
}

// StaticGenState is the opaque serialization of one StaticGen.
type StaticGenState struct {
	Name       string
	Active     bool
	Bus        int
	PMW, QMVAr float64
	QMinMVAr   float64
	QMaxMVAr   float64
}

// StorageState is the opaque serialization of one Storage.
type StorageState struct {
	Name       string
	Active     bool
	Bus        int
	PMW, QMVAr float64
}

// State is the full snapshot spec.md §6 names, each *_state field being
// the element collection's own serialization.
type State struct {
	Version      string
	InitVmPU     float64
	SnMVA        float64
	BusVnKV      []float64
	BusStatus    []bool
	LinesState   []LineState
	ShuntsState  []ShuntState
	TrafosState  []TransformerState
	GensState    []GeneratorState
	LoadsState   []LoadState
	SgensState   []StaticGenState
	StoragesState []StorageState
	SlackGenID   int
}

// GetState captures every mutable field of g into a State value, safe to
// hold across further mutations of g.
func GetState(g *grid.Grid) State {
	s := State{
		Version:   stateVersion,
		InitVmPU:  g.InitVmPU(),
		SnMVA:     g.SnMVA(),
		BusVnKV:   append([]float64(nil), g.BusVnKV()...),
		BusStatus: append([]bool(nil), g.BusStatus()...),
	}

	for _, l := range g.Lines() {
		s.LinesState = append(s.LinesState, LineState{
			Name: l.Name(), Active: l.IsActive(), FromBus: l.FromBus, ToBus: l.ToBus,
			R: l.R, X: l.X, H: l.H,
		})
	}
	for _, sh := range g.Shunts() {
		s.ShuntsState = append(s.ShuntsState, ShuntState{
			Name: sh.Name(), Active: sh.IsActive(), Bus: sh.Bus, PMW: sh.PMW, QMVAr: sh.QMVAr,
		})
	}
	for _, t := range g.Transformers() {
		s.TrafosState = append(s.TrafosState, TransformerState{
			Name: t.Name(), Active: t.IsActive(), HVBus: t.HVBus, LVBus: t.LVBus,
			R: t.R, X: t.X, B: t.B, TapPos: t.TapPos, TapStepPct: t.TapStepPct,
			PhaseShiftDeg: t.PhaseShiftDeg, TapSide: t.TapSide,
		})
	}
	for _, gen := range g.Generators() {
		s.GensState = append(s.GensState, GeneratorState{
			Name: gen.Name(), Active: gen.IsActive(), Bus: gen.Bus,
			PMW: gen.PMW, VSetPU: gen.VSetPU, QMinMVAr: gen.QMinMVAr, QMaxMVAr: gen.QMaxMVAr,
		})
	}
	for _, l := range g.Loads() {
		s.LoadsState = append(s.LoadsState, LoadState{
			Name: l.Name(), Active: l.IsActive(), Bus: l.Bus, PMW: l.PMW, QMVAr: l.QMVAr,
		})
	}
	for _, sg := range g.StaticGens() {
		s.SgensState = append(s.SgensState, StaticGenState{
			Name: sg.Name(), Active: sg.IsActive(), Bus: sg.Bus, PMW: sg.PMW, QMVAr: sg.QMVAr,
			QMinMVAr: sg.QMinMVAr, QMaxMVAr: sg.QMaxMVAr,
		})
	}
	for _, st := range g.Storages() {
		s.StoragesState = append(s.StoragesState, StorageState{
			Name: st.Name(), Active: st.IsActive(), Bus: st.Bus, PMW: st.PMW, QMVAr: st.QMVAr,
		})
	}

	s.SlackGenID = g.SlackGenIdx()
	return s
}

// Rebuild constructs a fresh grid from a captured State, the inverse of
// GetState. The returned grid shares no memory with the one State was
// captured from.
func Rebuild(s State, cfg grid.Config) *grid.Grid {
	cfg.InitVmPU = s.InitVmPU
	cfg.SnMVA = s.SnMVA
	g := grid.New(len(s.BusStatus), append([]float64(nil), s.BusVnKV...), cfg)
	g.UpdateTopo(s.BusStatus)

	for _, l := range s.LinesState {
		line := element.NewLine(l.Name, l.FromBus, l.ToBus, l.R, l.X, l.H)
		line.Active = l.Active
		g.AddLine(line)
	}
	for _, sh := range s.ShuntsState {
		shunt := element.NewShunt(sh.Name, sh.Bus, sh.PMW, sh.QMVAr)
		shunt.Active = sh.Active
		g.AddShunt(shunt)
	}
	for _, t := range s.TrafosState {
		trafo := element.NewTransformer(t.Name, t.HVBus, t.LVBus, t.R, t.X, t.B, t.TapPos, t.TapStepPct, t.PhaseShiftDeg, t.TapSide)
		trafo.Active = t.Active
		g.AddTransformer(trafo)
	}
	for _, gen := range s.GensState {
		generator := element.NewGenerator(gen.Name, gen.Bus, gen.PMW, gen.VSetPU, gen.QMinMVAr, gen.QMaxMVAr)
		generator.Active = gen.Active
		g.AddGenerator(generator)
	}
	for _, l := range s.LoadsState {
		load := element.NewLoad(l.Name, l.Bus, l.PMW, l.QMVAr)
		load.Active = l.Active
		g.AddLoad(load)
	}
	for _, sg := range s.SgensState {
		staticGen := element.NewStaticGen(sg.Name, sg.Bus, sg.PMW, sg.QMVAr)
		staticGen.Active = sg.Active
		g.AddStaticGen(staticGen)
	}
	for _, st := range s.StoragesState {
		storage := element.NewStorage(st.Name, st.Bus, st.PMW, st.QMVAr)
		storage.Active = st.Active
		g.AddStorage(storage)
	}

	g.SetSlackGenerator(s.SlackGenID)
	return g
}
