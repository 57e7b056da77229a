package generator

import (
	"fmt"
	"math"

	"github.com/micromech/rvekit/mesh"
)

// meshBuilder accumulates nodes and elements with coordinate-keyed node
// deduplication, so sub-generators sharing a seam emit each interface node
// once. Node and element ids are sequential from 1.
type meshBuilder struct {
	m        *mesh.Mesh
	dim      int
	quant    float64
	nodeKeys map[string]int
	beams    map[[2]int]bool
	nextNode int
	nextElem int
	err      error
}

func newMeshBuilder(dim int, tol float64) *meshBuilder {
	return &meshBuilder{
		m:        mesh.New(),
		dim:      dim,
		quant:    tol / 4,
		nodeKeys: make(map[string]int),
		beams:    make(map[[2]int]bool),
		nextNode: 1,
		nextElem: 1,
	}
}

func (b *meshBuilder) key(coords []float64) string {
	k := ""
	for _, c := range coords {
		k += fmt.Sprintf("%d:", int64(math.Round(c/b.quant)))
	}
	return k
}

// node returns the id of the node at coords, creating it if unseen
func (b *meshBuilder) node(coords ...float64) int {
	k := b.key(coords)
	if id, ok := b.nodeKeys[k]; ok {
		return id
	}
	id := b.nextNode
	b.nextNode++
	if err := b.m.AddNode(id, coords...); err != nil && b.err == nil {
		b.err = err
	}
	b.nodeKeys[k] = id
	return id
}

// element appends an element with the next free id
func (b *meshBuilder) element(family mesh.ElementFamily, nodes ...int) {
	id := b.nextElem
	b.nextElem++
	if err := b.m.AddElement(id, family, nodes...); err != nil && b.err == nil {
		b.err = err
	}
}

// beam appends a two-node strut unless the same strut was emitted before
func (b *meshBuilder) beam(n1, n2 int) {
	if n1 == n2 {
		return
	}
	k := [2]int{n1, n2}
	if n2 < n1 {
		k = [2]int{n2, n1}
	}
	if b.beams[k] {
		return
	}
	b.beams[k] = true
	b.element(mesh.Beam, n1, n2)
}

// finish hands the mesh over, surfacing any deferred construction error
func (b *meshBuilder) finish() (*mesh.Mesh, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.m, nil
}
