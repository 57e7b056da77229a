package periodic

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/micromech/rvekit/mesh"
	"github.com/micromech/rvekit/rveinfo"
)

// ClosestMatcher pairs each master-region node with the nearest slave-region
// node after translation by the periodicity vector. Candidates are collected
// from a kd-tree over the slave region, so the search is O(N log N) instead
// of quadratic. Assignment is greedy and deterministic: the winning
// candidate is the one at minimum distance, ties broken by lower node id,
// and a claimed slave stays with its closer claimant.
type ClosestMatcher struct{}

// Name returns the strategy name
func (ClosestMatcher) Name() string { return "ByClosest" }

// nodePoint adapts a mesh node to the kd-tree Comparable interface.
// Distance is the squared Euclidean distance.
type nodePoint struct {
	id int
	c  []float64
}

func (p nodePoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(nodePoint)
	return p.c[d] - q.c[d]
}

func (p nodePoint) Dims() int { return len(p.c) }

func (p nodePoint) Distance(c kdtree.Comparable) float64 {
	q := c.(nodePoint)
	var sum float64
	for i := range p.c {
		d := p.c[i] - q.c[i]
		sum += d * d
	}
	return sum
}

// nodePoints implements kdtree.Interface over a slice of nodePoints
type nodePoints []nodePoint

func (p nodePoints) Index(i int) kdtree.Comparable { return p[i] }
func (p nodePoints) Len() int                      { return len(p) }
func (p nodePoints) Pivot(d kdtree.Dim) int {
	return nodePlane{points: p, Dim: d}.Pivot()
}
func (p nodePoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// nodePlane is the per-dimension sort helper required by the kd-tree
type nodePlane struct {
	points nodePoints
	kdtree.Dim
}

func (p nodePlane) Len() int { return len(p.points) }
func (p nodePlane) Less(i, j int) bool {
	return p.points[i].c[p.Dim] < p.points[j].c[p.Dim]
}
func (p nodePlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p nodePlane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}
func (p nodePlane) Swap(i, j int) {
	p.points[i], p.points[j] = p.points[j], p.points[i]
}

type claim struct {
	master int
	dist   float64 // squared
}

// Match implements Matcher
func (cm ClosestMatcher) Match(msh *mesh.Mesh, rp rveinfo.RegionPair,
	master, slave []int, tol float64) ([]NodePair, error) {

	pts := make(nodePoints, 0, len(slave))
	for _, id := range slave {
		n, _ := msh.Node(id)
		pts = append(pts, nodePoint{id: id, c: n.Coords})
	}
	var tree *kdtree.Tree
	if len(pts) > 0 {
		tree = kdtree.New(pts, false)
	}

	tol2 := tol * tol
	claims := make(map[int]claim, len(master))
	var unmatched []Unmatched

	// Ascending master id order keeps claim resolution reproducible
	ms := make([]int, len(master))
	copy(ms, master)
	sort.Ints(ms)

	for _, id := range ms {
		n, _ := msh.Node(id)
		q := nodePoint{id: -1, c: make([]float64, len(n.Coords))}
		for d := range q.c {
			q.c[d] = n.Coords[d] + rp.Shift[d]
		}

		if len(pts) == 0 {
			unmatched = append(unmatched, Unmatched{Node: id, Region: rp.Master, Residual: math.Inf(1)})
			continue
		}

		keeper := kdtree.NewDistKeeper(tol2)
		tree.NearestSet(keeper, q)

		best, bestDist := -1, math.Inf(1)
		for _, cd := range keeper.Heap {
			if cd.Comparable == nil {
				continue
			}
			cand := cd.Comparable.(nodePoint)
			if cd.Dist < bestDist || (cd.Dist == bestDist && cand.id < best) {
				best, bestDist = cand.id, cd.Dist
			}
		}
		if best < 0 {
			// Nothing within tolerance: report the true nearest residual
			_, d := tree.Nearest(q)
			unmatched = append(unmatched, Unmatched{Node: id, Region: rp.Master, Residual: math.Sqrt(d)})
			continue
		}

		prev, taken := claims[best]
		switch {
		case !taken:
			claims[best] = claim{master: id, dist: bestDist}
		case bestDist < prev.dist || (bestDist == prev.dist && id < prev.master):
			// Current claimant is closer: previous master loses its match
			claims[best] = claim{master: id, dist: bestDist}
			unmatched = append(unmatched, Unmatched{Node: prev.master, Region: rp.Master, Residual: math.Sqrt(prev.dist)})
		default:
			unmatched = append(unmatched, Unmatched{Node: id, Region: rp.Master, Residual: math.Sqrt(bestDist)})
		}
	}

	// Slaves never claimed break the bijection as well
	for _, id := range slave {
		if _, ok := claims[id]; !ok {
			unmatched = append(unmatched, Unmatched{
				Node: id, Region: rp.Slave, Residual: nearestTranslated(msh, id, ms, rp.Shift),
			})
		}
	}

	if len(unmatched) > 0 {
		return nil, &MeshNotPeriodicError{Unmatched: unmatched}
	}

	pairs := make([]NodePair, 0, len(claims))
	for _, id := range slave {
		cl := claims[id]
		pairs = append(pairs, NodePair{Master: cl.master, Slave: id, Shift: rp.Shift})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Slave < pairs[j].Slave })
	return pairs, nil
}

// nearestTranslated linearly scans the translated master nodes for the
// closest one to slave node id. Only runs on the failure path.
func nearestTranslated(msh *mesh.Mesh, id int, masters []int, shift []float64) float64 {
	n, _ := msh.Node(id)
	best := math.Inf(1)
	for _, mid := range masters {
		mn, _ := msh.Node(mid)
		var sum float64
		for d := range n.Coords {
			diff := n.Coords[d] - (mn.Coords[d] + shift[d])
			sum += diff * diff
		}
		if sum < best {
			best = sum
		}
	}
	return math.Sqrt(best)
}
