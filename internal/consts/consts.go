// Package consts holds the small set of immutable numeric constants shared
// across the power-flow engine.
package consts

const (
	// DefaultSnMVA is the system base apparent power used to convert
	// MW/MVAr quantities to per-unit when a grid is built without an
	// explicit base.
	DefaultSnMVA = 100.0

	// DefaultInitVmPU is the flat-start voltage magnitude (pu) used to
	// seed PQ buses before the first Newton-Raphson iteration.
	DefaultInitVmPU = 1.0

	// DefaultTol is the infinity-norm mismatch tolerance, in per-unit
	// MW/MVAr, that the AC solver drives the real mismatch vector below.
	DefaultTol = 1e-8

	// DefaultMaxIter bounds the Newton-Raphson iteration count.
	DefaultMaxIter = 20

	// SingularPivotEps is a pivot-magnitude threshold. No solver in this
	// module reads it: singular systems are reported from the sparse
	// library's own factorization error.
	SingularPivotEps = 1e-12
)
