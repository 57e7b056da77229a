// Package rveinfo computes the geometric metadata of a representative
// volume element mesh: bounding box, periodicity vectors, and the
// classification of boundary nodes into face, edge and vertex regions.
package rveinfo

import (
	"fmt"
	"sort"

	"github.com/micromech/rvekit/mesh"
)

// RegionKind distinguishes the topological dimension of a boundary region
type RegionKind uint8

const (
	Face RegionKind = iota
	Edge
	Vertex
)

// String returns the string representation of a RegionKind
func (k RegionKind) String() string {
	switch k {
	case Face:
		return "Face"
	case Edge:
		return "Edge"
	case Vertex:
		return "Vertex"
	}
	return fmt.Sprintf("RegionKind(%d)", k)
}

// InvalidDimensionError reports a node whose coordinate arity does not match
// the declared RVE dimension. Construction aborts on the first offender.
type InvalidDimensionError struct {
	NodeID int
	Want   int
	Got    int
}

func (e *InvalidDimensionError) Error() string {
	return fmt.Sprintf("node %d has %d coordinates, RVE dimension is %d",
		e.NodeID, e.Got, e.Want)
}

// Region is a named subset of boundary nodes. Sides records, per axis,
// whether the region lies on the min plane (-1), the max plane (+1) or
// neither (0). A node belongs to exactly one region: vertices take
// precedence over edges, edges over faces.
type Region struct {
	Name  string
	Kind  RegionKind
	Sides []int
	Nodes []int // ascending node ids
}

// RegionPair relates a master region to its periodic image. Shift is the
// translation carrying master-region coordinates onto the slave region.
type RegionPair struct {
	Master string
	Slave  string
	Shift  []float64
}

// Info is the geometric metadata of one RVE mesh
type Info struct {
	Dim     int
	Tol     float64
	Bounds  mesh.BoundingBox
	Lattice [][]float64 // one periodicity vector per axis

	regions map[string]*Region
	order   []string // region names in deterministic order
}

// Classify computes the Info of a mesh: bounding box, axis-aligned lattice
// vectors and the disjoint face/edge/vertex region decomposition of the
// boundary nodes.
func Classify(m *mesh.Mesh, dim int, tol float64) (*Info, error) {
	if dim != 2 && dim != 3 {
		return nil, fmt.Errorf("unsupported RVE dimension %d", dim)
	}
	if tol <= 0 {
		return nil, fmt.Errorf("tolerance must be positive, got %g", tol)
	}
	for _, n := range m.Nodes() {
		if len(n.Coords) != dim {
			return nil, &InvalidDimensionError{NodeID: n.ID, Want: dim, Got: len(n.Coords)}
		}
	}
	bb, err := mesh.Bounds(m)
	if err != nil {
		return nil, err
	}

	info := &Info{
		Dim:     dim,
		Tol:     tol,
		Bounds:  bb,
		Lattice: make([][]float64, dim),
		regions: make(map[string]*Region),
	}
	for d := 0; d < dim; d++ {
		v := make([]float64, dim)
		v[d] = bb.Max[d] - bb.Min[d]
		info.Lattice[d] = v
	}

	for _, n := range m.Nodes() {
		sides := make([]int, dim)
		onPlanes := 0
		for d := 0; d < dim; d++ {
			switch {
			case n.Coords[d] <= bb.Min[d]+tol:
				sides[d] = -1
				onPlanes++
			case n.Coords[d] >= bb.Max[d]-tol:
				sides[d] = +1
				onPlanes++
			}
		}
		if onPlanes == 0 {
			continue // interior node
		}
		kind := kindFor(dim, onPlanes)
		name := regionName(sides)
		r, ok := info.regions[name]
		if !ok {
			r = &Region{Name: name, Kind: kind, Sides: sides}
			info.regions[name] = r
			info.order = append(info.order, name)
		}
		r.Nodes = append(r.Nodes, n.ID)
	}

	for _, name := range info.order {
		sort.Ints(info.regions[name].Nodes)
	}
	sort.Strings(info.order)
	return info, nil
}

// kindFor maps the number of extremal planes a node sits on to the
// minimal-dimension region kind. In 2D two planes already make a vertex.
func kindFor(dim, onPlanes int) RegionKind {
	switch {
	case onPlanes >= dim:
		return Vertex
	case dim == 3 && onPlanes == 2:
		return Edge
	default:
		return Face
	}
}

// regionName derives the canonical region name from per-axis sides:
// "X0" is the x=min face, "X1Y0" the edge at x=max, y=min, "X0Y0Z0" the
// all-min vertex.
func regionName(sides []int) string {
	axes := "XYZ"
	name := ""
	for d, s := range sides {
		switch s {
		case -1:
			name += string(axes[d]) + "0"
		case +1:
			name += string(axes[d]) + "1"
		}
	}
	return name
}

// Region returns the named region, if any nodes were classified into it
func (in *Info) Region(name string) (*Region, bool) {
	r, ok := in.regions[name]
	return r, ok
}

// RegionNames returns all non-empty region names in sorted order
func (in *Info) RegionNames() []string {
	names := make([]string, len(in.order))
	copy(names, in.order)
	return names
}

// RegionNodes returns the node ids of a region, or nil for an absent region
func (in *Info) RegionNodes(name string) []int {
	if r, ok := in.regions[name]; ok {
		return r.Nodes
	}
	return nil
}

// shiftFor sums the lattice vectors of the axes listed in axes
func (in *Info) shiftFor(axes ...int) []float64 {
	s := make([]float64, in.Dim)
	for _, a := range axes {
		for d := 0; d < in.Dim; d++ {
			s[d] += in.Lattice[a][d]
		}
	}
	return s
}

// RegionPairs enumerates every master/slave region pairing of the RVE in a
// fixed deterministic order: faces across each axis, then (3D) edge groups,
// then vertices. Within an edge or vertex group, each region touching a max
// plane is slave exactly once: it pairs across its lowest max axis with the
// sibling region on the min side of that axis, under that axis' lattice
// vector. The chains this forms (e.g. X1Y1 -> X0Y1 -> X0Y0) constrain every
// shared edge/corner node through a single pairing, which is what prevents
// double constraints, while still relating opposite regions direction by
// direction.
func (in *Info) RegionPairs() []RegionPair {
	var pairs []RegionPair
	axes := "XYZ"

	// Opposite faces (boundary sides in 2D)
	for a := 0; a < in.Dim; a++ {
		pairs = append(pairs, RegionPair{
			Master: string(axes[a]) + "0",
			Slave:  string(axes[a]) + "1",
			Shift:  in.shiftFor(a),
		})
	}

	// Edge groups, 3D only: four parallel edges per axis pair
	if in.Dim == 3 {
		for a := 0; a < 3; a++ {
			for b := a + 1; b < 3; b++ {
				for _, sides := range [][2]int{{+1, -1}, {-1, +1}, {+1, +1}} {
					slave := make([]int, 3)
					slave[a], slave[b] = sides[0], sides[1]
					pairs = append(pairs, in.chainPair(slave))
				}
			}
		}
	}

	// Vertices: every corner touching a max plane is slave exactly once
	for c := 1; c < 1<<in.Dim; c++ {
		sides := make([]int, in.Dim)
		for d := 0; d < in.Dim; d++ {
			if c&(1<<d) != 0 {
				sides[d] = +1
			} else {
				sides[d] = -1
			}
		}
		pairs = append(pairs, in.chainPair(sides))
	}
	return pairs
}

// chainPair pairs the slave region with given sides across its lowest max
// axis: the master has that side flipped to min and the shift is that
// axis' lattice vector.
func (in *Info) chainPair(slave []int) RegionPair {
	a := -1
	for d, s := range slave {
		if s == +1 {
			a = d
			break
		}
	}
	master := make([]int, len(slave))
	copy(master, slave)
	master[a] = -1
	return RegionPair{
		Master: regionName(master),
		Slave:  regionName(slave),
		Shift:  in.shiftFor(a),
	}
}

// ApplySets exports every classified region as a named node set on the mesh
func (in *Info) ApplySets(m *mesh.Mesh) {
	for _, name := range in.order {
		m.SetNodeSet(name, in.regions[name].Nodes)
	}
}
