// Package solver implements the bus classifier, the AC Newton-Raphson
// iteration, and the DC linearized solve (spec.md §4.4-§4.6).
package solver

import (
	"sort"

	"github.com/windyasd/lightsim2grid/pkg/element"
)

// Classify partitions the K connected solver buses into {slack, pv, pq},
// per spec.md §4.4: pv hosts at least one active voltage-controlled
// generator and isn't the slack; pq is every other connected bus.
func Classify(elements []element.Element, ctx *element.Context, slackSolverID, numSolverBuses int) (pv, pq []int) {
	pvSet := make(map[int]bool)
	for _, e := range elements {
		e.ClassifyPV(pvSet, slackSolverID, ctx)
	}

	pv = make([]int, 0, len(pvSet))
	for id := range pvSet {
		pv = append(pv, id)
	}
	sort.Ints(pv)

	pq = make([]int, 0, numSolverBuses)
	for id := 0; id < numSolverBuses; id++ {
		if id == slackSolverID || pvSet[id] {
			continue
		}
		pq = append(pq, id)
	}
	return pv, pq
}
