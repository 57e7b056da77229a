package mesh

import (
	"fmt"
	"sort"
)

// ElementFamily identifies the shape of an element
type ElementFamily uint8

const (
	// 3D element families
	Tet   ElementFamily = iota // Tetrahedron
	Hex                        // Hexahedron
	Prism                      // Triangular prism

	// 2D element families
	Tri  // Triangle
	Quad // Quadrilateral

	// 1D element families
	Line // Line segment
	Beam // Two-node strut/beam
)

// String returns the string representation of an ElementFamily
func (f ElementFamily) String() string {
	names := map[ElementFamily]string{
		Tet:   "Tet",
		Hex:   "Hex",
		Prism: "Prism",
		Tri:   "Tri",
		Quad:  "Quad",
		Line:  "Line",
		Beam:  "Beam",
	}
	if name, ok := names[f]; ok {
		return name
	}
	return fmt.Sprintf("ElementFamily(%d)", f)
}

// Node is a mesh node with a stable identifier and its coordinate vector.
// Coords has 2 or 3 components depending on the mesh dimension.
type Node struct {
	ID     int
	Coords []float64
}

// Element is a finite element: an ordered node connectivity list plus a
// family tag. The family is opaque to the periodicity engine; only
// connectivity matters there.
type Element struct {
	ID     int
	Nodes  []int
	Family ElementFamily
}

// Mesh holds nodes and elements in insertion order with id lookup,
// plus named node/element sets for downstream model builders.
type Mesh struct {
	nodes     []Node
	nodeIndex map[int]int // node id -> position in nodes
	elements  []Element
	elemIndex map[int]int // element id -> position in elements

	// Named sets, region name -> sorted id list
	NodeSets    map[string][]int
	ElementSets map[string][]int
}

// New creates an empty mesh
func New() *Mesh {
	return &Mesh{
		nodeIndex:   make(map[int]int),
		elemIndex:   make(map[int]int),
		NodeSets:    make(map[string][]int),
		ElementSets: make(map[string][]int),
	}
}

// AddNode inserts a node. Node ids must be unique for the mesh lifetime.
func (m *Mesh) AddNode(id int, coords ...float64) error {
	if _, exists := m.nodeIndex[id]; exists {
		return fmt.Errorf("duplicate node id %d", id)
	}
	if len(coords) < 2 || len(coords) > 3 {
		return fmt.Errorf("node %d has %d coordinates, want 2 or 3", id, len(coords))
	}
	c := make([]float64, len(coords))
	copy(c, coords)
	m.nodeIndex[id] = len(m.nodes)
	m.nodes = append(m.nodes, Node{ID: id, Coords: c})
	return nil
}

// AddElement inserts an element. All referenced nodes must already exist.
func (m *Mesh) AddElement(id int, family ElementFamily, nodes ...int) error {
	if _, exists := m.elemIndex[id]; exists {
		return fmt.Errorf("duplicate element id %d", id)
	}
	if len(nodes) == 0 {
		return fmt.Errorf("element %d has no nodes", id)
	}
	conn := make([]int, len(nodes))
	for i, n := range nodes {
		if _, ok := m.nodeIndex[n]; !ok {
			return fmt.Errorf("element %d references unknown node %d", id, n)
		}
		conn[i] = n
	}
	m.elemIndex[id] = len(m.elements)
	m.elements = append(m.elements, Element{ID: id, Nodes: conn, Family: family})
	return nil
}

// Node returns the node with the given id
func (m *Mesh) Node(id int) (Node, bool) {
	i, ok := m.nodeIndex[id]
	if !ok {
		return Node{}, false
	}
	return m.nodes[i], true
}

// Nodes returns all nodes in insertion order. The returned slice is the
// mesh's own storage and must not be appended to by callers.
func (m *Mesh) Nodes() []Node {
	return m.nodes
}

// Element returns the element with the given id
func (m *Mesh) Element(id int) (Element, bool) {
	i, ok := m.elemIndex[id]
	if !ok {
		return Element{}, false
	}
	return m.elements[i], true
}

// Elements returns all elements in insertion order
func (m *Mesh) Elements() []Element {
	return m.elements
}

// NumNodes returns the node count
func (m *Mesh) NumNodes() int { return len(m.nodes) }

// NumElements returns the element count
func (m *Mesh) NumElements() int { return len(m.elements) }

// MaxNodeID returns the largest node id in use, or 0 for an empty mesh
func (m *Mesh) MaxNodeID() int {
	max := 0
	for _, n := range m.nodes {
		if n.ID > max {
			max = n.ID
		}
	}
	return max
}

// SetNodeCoords overwrites the coordinates of an existing node. Used by the
// mesh generators to snap boundary nodes onto exact lattice planes; it never
// changes connectivity.
func (m *Mesh) SetNodeCoords(id int, coords []float64) error {
	i, ok := m.nodeIndex[id]
	if !ok {
		return fmt.Errorf("unknown node id %d", id)
	}
	if len(coords) != len(m.nodes[i].Coords) {
		return fmt.Errorf("node %d coordinate arity change from %d to %d",
			id, len(m.nodes[i].Coords), len(coords))
	}
	copy(m.nodes[i].Coords, coords)
	return nil
}

// SetNodeSet stores a named node set, sorted by id
func (m *Mesh) SetNodeSet(name string, ids []int) {
	s := make([]int, len(ids))
	copy(s, ids)
	sort.Ints(s)
	m.NodeSets[name] = s
}

// NodeSet returns a named node set
func (m *Mesh) NodeSet(name string) ([]int, bool) {
	s, ok := m.NodeSets[name]
	return s, ok
}

// SetElementSet stores a named element set, sorted by id
func (m *Mesh) SetElementSet(name string, ids []int) {
	s := make([]int, len(ids))
	copy(s, ids)
	sort.Ints(s)
	m.ElementSets[name] = s
}
