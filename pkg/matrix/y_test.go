package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windyasd/lightsim2grid/pkg/matrix"
)

func TestYBuilder_AccumulatesDuplicateCoordinates(t *testing.T) {
	b := matrix.NewYBuilder(2, 4)
	b.AddY(0, 0, complex(1, 1))
	b.AddY(0, 0, complex(2, -1))
	b.AddS(0, complex(5, 0))
	b.AddS(0, complex(1, 1))

	y, s := b.Build()
	assert.Equal(t, complex(3, 0), y.At(0, 0))
	assert.Equal(t, complex(6, 1), s[0])
}

func TestYBuilder_OutOfRangeCoordinatesIgnored(t *testing.T) {
	b := matrix.NewYBuilder(2, 4)
	b.AddY(-1, 0, 1)
	b.AddY(0, 5, 1)
	b.AddS(9, 1)

	y, s := b.Build()
	assert.Equal(t, complex128(0), y.At(0, 0))
	assert.Equal(t, complex128(0), s[0])
}

func TestY_MulVec(t *testing.T) {
	b := matrix.NewYBuilder(2, 4)
	b.AddY(0, 0, complex(2, 0))
	b.AddY(0, 1, complex(-1, 0))
	b.AddY(1, 0, complex(-1, 0))
	b.AddY(1, 1, complex(2, 0))
	y, _ := b.Build()

	out := y.MulVec([]complex128{complex(1, 0), complex(1, 0)})
	assert.Equal(t, complex(1, 0), out[0])
	assert.Equal(t, complex(1, 0), out[1])
}

func TestY_IsSymmetric(t *testing.T) {
	b := matrix.NewYBuilder(2, 4)
	b.AddY(0, 1, complex(-1, 0.5))
	b.AddY(1, 0, complex(-1, 0.5))
	y, _ := b.Build()
	assert.True(t, y.IsSymmetric(1e-12))

	b2 := matrix.NewYBuilder(2, 4)
	b2.AddY(0, 1, complex(-1, 0.5))
	b2.AddY(1, 0, complex(-1, 0.4))
	y2, _ := b2.Build()
	assert.False(t, y2.IsSymmetric(1e-12))
}

func TestRealSparse_SolvesSimpleSystem(t *testing.T) {
	// [2 -1; -1 2] x = [1; 0] -> x = [2/3; 1/3]
	m, err := matrix.NewRealSparse(2)
	require.NoError(t, err)
	defer m.Destroy()

	m.AddElement(1, 1, 2)
	m.AddElement(1, 2, -1)
	m.AddElement(2, 1, -1)
	m.AddElement(2, 2, 2)
	m.AddRHS(1, 1)

	x, err := m.Solve()
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, x[1], 1e-9)
	assert.InDelta(t, 1.0/3.0, x[2], 1e-9)
}
