// Package busmap maintains the bijection between external bus ids (stable,
// may include disconnected buses) and solver bus ids (dense, connected
// buses only).
package busmap

// Map holds the two parallel sequences spec.md §3 describes.
type Map struct {
	extToSolver []int // length N_ext, -1 for disconnected buses
	solverToExt []int // length N_solver
}

// Build scans bus status in external-id order and assigns the next dense
// solver id to each connected bus, exactly as spec.md §4.2 describes.
func Build(busStatus []bool) *Map {
	extToSolver := make([]int, len(busStatus))
	solverToExt := make([]int, 0, len(busStatus))

	next := 0
	for ext, active := range busStatus {
		if !active {
			extToSolver[ext] = -1
			continue
		}
		extToSolver[ext] = next
		solverToExt = append(solverToExt, ext)
		next++
	}

	return &Map{extToSolver: extToSolver, solverToExt: solverToExt}
}

// ToSolver returns the dense solver id for an external bus id, or -1 if
// that bus is disconnected.
func (m *Map) ToSolver(ext int) int {
	if ext < 0 || ext >= len(m.extToSolver) {
		return -1
	}
	return m.extToSolver[ext]
}

// ToExt returns the external bus id for a solver id.
func (m *Map) ToExt(solver int) int {
	if solver < 0 || solver >= len(m.solverToExt) {
		return -1
	}
	return m.solverToExt[solver]
}

// NumConnected returns the solver-side bus count K.
func (m *Map) NumConnected() int { return len(m.solverToExt) }

// NumExternal returns N_ext.
func (m *Map) NumExternal() int { return len(m.extToSolver) }

// Connected reports whether an external bus id maps to a solver bus.
func (m *Map) Connected(ext int) bool { return m.ToSolver(ext) >= 0 }
