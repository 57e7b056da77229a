package periodic

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/micromech/rvekit/mesh"
	"github.com/micromech/rvekit/rveinfo"
)

// SortingMatcher pairs opposite regions by rank: both node sets are sorted
// on the non-periodic coordinates (ascending axis priority) and paired
// position by position. Node counts must agree and every rank-paired node
// must lie within tolerance of its translated partner; there is no fallback
// search. Cheaper than ClosestMatcher and guarantees rank-consistent
// ordering, but only valid when opposite discretizations are conforming.
type SortingMatcher struct{}

// Name returns the strategy name
func (SortingMatcher) Name() string { return "BySorting" }

// Match implements Matcher
func (sm SortingMatcher) Match(msh *mesh.Mesh, rp rveinfo.RegionPair,
	master, slave []int, tol float64) ([]NodePair, error) {

	if len(master) != len(slave) {
		// Count mismatch is a hard failure; report the surplus side
		var unmatched []Unmatched
		surplus, region := master, rp.Master
		if len(slave) > len(master) {
			surplus, region = slave, rp.Slave
		}
		n := len(master)
		if len(slave) < n {
			n = len(slave)
		}
		for _, id := range surplus[n:] {
			unmatched = append(unmatched, Unmatched{Node: id, Region: region, Residual: math.Inf(1)})
		}
		return nil, &MeshNotPeriodicError{Unmatched: unmatched}
	}

	// Free axes: the directions the region pairing does not translate along
	var free []int
	for d, s := range rp.Shift {
		if s == 0 {
			free = append(free, d)
		}
	}

	ms := sortByKey(msh, master, free, tol)
	ss := sortByKey(msh, slave, free, tol)

	pairs := make([]NodePair, 0, len(ms))
	for i := range ms {
		mn, _ := msh.Node(ms[i])
		sn, _ := msh.Node(ss[i])
		translated := make([]float64, len(mn.Coords))
		floats.AddTo(translated, mn.Coords, rp.Shift)
		residual := floats.Distance(sn.Coords, translated, 2)
		if residual > tol {
			return nil, &ToleranceExceededError{
				Master: ms[i], Slave: ss[i], Region: rp.Master + "->" + rp.Slave,
				Residual: residual, Tol: tol,
			}
		}
		pairs = append(pairs, NodePair{Master: ms[i], Slave: ss[i], Shift: rp.Shift})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Slave < pairs[j].Slave })
	return pairs, nil
}

// sortByKey orders node ids by their coordinates on the free axes,
// lexicographically with fixed axis priority. Coordinates closer than tol
// compare equal; exact ties fall back to node id for determinism.
func sortByKey(msh *mesh.Mesh, ids []int, free []int, tol float64) []int {
	out := make([]int, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool {
		a, _ := msh.Node(out[i])
		b, _ := msh.Node(out[j])
		for _, d := range free {
			if a.Coords[d] < b.Coords[d]-tol {
				return true
			}
			if a.Coords[d] > b.Coords[d]+tol {
				return false
			}
		}
		return out[i] < out[j]
	})
	return out
}
