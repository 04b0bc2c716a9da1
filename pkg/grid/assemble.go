package grid

import (
	"github.com/windyasd/lightsim2grid/pkg/element"
	"github.com/windyasd/lightsim2grid/pkg/matrix"
)

// assemble builds the sparse Y and injection vector S for the given mode
// (AC/DC) by stamping every element in turn, per spec.md §4.3. Triplet
// capacity is reserved at bus count plus four entries per element of any
// family (four being the size of a π-model/transformer stamp).
func assemble(elements []element.Element, ctx *element.Context, numSolverBuses int) (*matrix.Y, []complex128, error) {
	expected := numSolverBuses + 4*len(elements)
	builder := matrix.NewYBuilder(numSolverBuses, expected)

	for _, e := range elements {
		if !e.IsActive() {
			continue
		}
		if err := e.StampY(builder, ctx); err != nil {
			return nil, nil, err
		}
	}
	for _, e := range elements {
		if !e.IsActive() {
			continue
		}
		if err := e.StampS(builder, ctx); err != nil {
			return nil, nil, err
		}
	}

	y, s := builder.Build()
	return y, s, nil
}
