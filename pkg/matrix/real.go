package matrix

import (
	"fmt"

	"github.com/edp1096/sparse"
)

// RealSparse wraps github.com/edp1096/sparse for a real-valued square
// linear system A*x = b, 1-based indexing (the library's convention).
// It backs both the DC linearized solve (A = susceptance, imag(Y), with
// the slack row/column stripped) and the AC Newton-Raphson Jacobian
// solve.
type RealSparse struct {
	Size     int
	mat      *sparse.Matrix
	rhs      []float64
	solution []float64
}

// NewRealSparse allocates a size×size real sparse system.
func NewRealSparse(size int) (*RealSparse, error) {
	config := &sparse.Configuration{
		Real:           true,
		Expandable:     true,
		ModifiedNodal:  true,
		TiesMultiplier: 5,
		PrinterWidth:   140,
	}

	mat, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, fmt.Errorf("creating sparse matrix: %w", err)
	}

	return &RealSparse{
		Size: size,
		mat:  mat,
		rhs:  make([]float64, size+1), // 1-based indexing
	}, nil
}

// AddElement accumulates A[i][j] += value (1-based).
func (m *RealSparse) AddElement(i, j int, value float64) {
	if i <= 0 || j <= 0 || i > m.Size || j > m.Size {
		return
	}
	m.mat.GetElement(int64(i), int64(j)).Real += value
}

// AddRHS accumulates b[i] += value (1-based).
func (m *RealSparse) AddRHS(i int, value float64) {
	if i <= 0 || i > m.Size {
		return
	}
	m.rhs[i] += value
}

// Clear zeroes the matrix and RHS for reuse across Newton-Raphson
// iterations without reallocating.
func (m *RealSparse) Clear() {
	m.mat.Clear()
	for i := range m.rhs {
		m.rhs[i] = 0
	}
}

// Factor LU-factorizes the matrix with column approximate minimum degree
// ordering. A singular pivot surfaces as an error for the caller to map
// onto JacobianSingular/DcSingular.
func (m *RealSparse) Factor() error {
	if err := m.mat.Factor(); err != nil {
		return fmt.Errorf("factorization failed: %w", err)
	}
	return nil
}

// Solve factors the matrix (on every call, even if the caller already
// called Factor) and solves for x given the accumulated RHS.
func (m *RealSparse) Solve() ([]float64, error) {
	if err := m.Factor(); err != nil {
		return nil, err
	}

	solution, err := m.mat.Solve(m.rhs)
	if err != nil {
		return nil, fmt.Errorf("solve failed: %w", err)
	}
	m.solution = solution
	return solution, nil
}

// Solution returns the last solve's result (1-based, length Size+1).
func (m *RealSparse) Solution() []float64 { return m.solution }

// Destroy releases the underlying sparse matrix.
func (m *RealSparse) Destroy() {
	if m.mat != nil {
		m.mat.Destroy()
	}
}
