package busmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/windyasd/lightsim2grid/pkg/busmap"
)

func TestBuild_MutualInverse(t *testing.T) {
	m := busmap.Build([]bool{true, false, true, true})

	assert.Equal(t, 3, m.NumConnected())
	assert.Equal(t, 4, m.NumExternal())

	for ext := 0; ext < 4; ext++ {
		solver := m.ToSolver(ext)
		if !m.Connected(ext) {
			assert.Equal(t, -1, solver)
			continue
		}
		assert.Equal(t, ext, m.ToExt(solver))
	}
}

func TestBuild_DenseAssignmentOrder(t *testing.T) {
	m := busmap.Build([]bool{false, true, true})
	assert.Equal(t, -1, m.ToSolver(0))
	assert.Equal(t, 0, m.ToSolver(1))
	assert.Equal(t, 1, m.ToSolver(2))
	assert.Equal(t, 1, m.ToExt(0))
	assert.Equal(t, 2, m.ToExt(1))
}

func TestToSolver_OutOfRange(t *testing.T) {
	m := busmap.Build([]bool{true})
	assert.Equal(t, -1, m.ToSolver(-1))
	assert.Equal(t, -1, m.ToSolver(5))
	assert.Equal(t, -1, m.ToExt(5))
}
