// Package matrix assembles the sparse nodal admittance matrix Y (this
// file's hand-rolled map-based Y/YBuilder, used for mismatch evaluation)
// and wraps github.com/edp1096/sparse in real.go's RealSparse for the two
// real linear solves the engine needs: the DC linearized solve and the AC
// Newton-Raphson Jacobian solve.
package matrix

// Stamper is the interface elements use to contribute admittance and
// injection entries. Coordinates are 0-based solver bus ids; duplicate
// coordinates accumulate (summed), never overwritten.
type Stamper interface {
	AddY(row, col int, value complex128)
	AddS(row int, value complex128)
}

// YBuilder accumulates (row, col, value) admittance triplets and
// (row, value) injection entries for a K-bus network, then produces an
// immutable Y usable for mismatch evaluation.
type YBuilder struct {
	size int
	y    map[int64]complex128 // key = row*size+col
	s    []complex128
}

// NewYBuilder pre-sizes the injection vector and reserves triplet capacity
// roughly proportional to bus + branch-stamp count, per spec.
func NewYBuilder(size int, expectedTriplets int) *YBuilder {
	return &YBuilder{
		size: size,
		y:    make(map[int64]complex128, expectedTriplets),
		s:    make([]complex128, size),
	}
}

func (b *YBuilder) AddY(row, col int, value complex128) {
	if row < 0 || row >= b.size || col < 0 || col >= b.size {
		return
	}
	key := int64(row)*int64(b.size) + int64(col)
	b.y[key] += value
}

func (b *YBuilder) AddS(row int, value complex128) {
	if row < 0 || row >= b.size {
		return
	}
	b.s[row] += value
}

// Build finalizes the admittance map into row-indexed adjacency for fast
// matrix-vector products, and returns the summed injection vector alongside
// it.
func (b *YBuilder) Build() (*Y, []complex128) {
	rows := make([]map[int]complex128, b.size)
	for key, value := range b.y {
		row := int(key / int64(b.size))
		col := int(key % int64(b.size))
		if rows[row] == nil {
			rows[row] = make(map[int]complex128, 4)
		}
		rows[row][col] = value
	}
	return &Y{size: b.size, rows: rows}, b.s
}

// Y is the assembled K×K sparse nodal admittance matrix.
type Y struct {
	size int
	rows []map[int]complex128
}

func (y *Y) Size() int { return y.size }

// At returns Y[i][j], zero if no element was stamped there.
func (y *Y) At(i, j int) complex128 {
	if i < 0 || i >= y.size || y.rows[i] == nil {
		return 0
	}
	return y.rows[i][j]
}

// MulVec computes Y*v.
func (y *Y) MulVec(v []complex128) []complex128 {
	out := make([]complex128, y.size)
	for i, row := range y.rows {
		var sum complex128
		for j, value := range row {
			sum += value * v[j]
		}
		out[i] = sum
	}
	return out
}

// Row iterates the nonzero (col, value) pairs of row i.
func (y *Y) Row(i int) map[int]complex128 {
	if i < 0 || i >= y.size {
		return nil
	}
	return y.rows[i]
}

// IsSymmetric reports whether Y[i][j] == Y[j][i] for every stamped pair,
// the sign-symmetry invariant spec.md §8 requires of a pure-line network.
func (y *Y) IsSymmetric(tol float64) bool {
	for i, row := range y.rows {
		for j, v := range row {
			other := y.At(j, i)
			if abs(real(v)-real(other)) > tol || abs(imag(v)-imag(other)) > tol {
				return false
			}
		}
	}
	return true
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
