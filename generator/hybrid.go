package generator

import (
	"fmt"

	"github.com/micromech/rvekit/mesh"
)

// HybridS1 partitions the box into two slabs along the last axis and
// delegates generation per slab: a Simple hex grid below, an S1 strut
// lattice above. Plain composition of the two sibling generators; interface
// nodes on the seam plane are shared through the mesh builder's coordinate
// dedup, and the checker validates that the seam does not break boundary
// periodicity.
type HybridS1 struct {
	p      Params
	simple *Simple
	s1     *S1
}

// NewHybridS1 creates the hybrid generator. 3D only, and the last axis
// needs at least two cells so each sub-generator owns at least one layer.
func NewHybridS1(p Params) (*HybridS1, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Dim != 3 {
		return nil, fmt.Errorf("HybridS1 requires dimension 3, got %d", p.Dim)
	}
	if p.Cells[2] < 2 {
		return nil, fmt.Errorf("HybridS1 needs >= 2 cells along the split axis, got %d", p.Cells[2])
	}
	simple, err := NewSimple(p)
	if err != nil {
		return nil, err
	}
	s1, err := NewS1(p)
	if err != nil {
		return nil, err
	}
	return &HybridS1{p: p, simple: simple, s1: s1}, nil
}

// Name returns the strategy name
func (g *HybridS1) Name() string { return "HybridS1" }

// Params returns the generation parameters
func (g *HybridS1) Params() Params { return g.p }

// Generate implements Generator
func (g *HybridS1) Generate() (*mesh.Mesh, error) {
	b := newMeshBuilder(g.p.Dim, g.p.Tol)
	delta := make([]float64, g.p.Dim)
	for d := 0; d < g.p.Dim; d++ {
		delta[d] = g.p.Size[d] / float64(g.p.Cells[d])
	}

	lower := g.p.Cells[2] / 2
	upper := g.p.Cells[2] - lower

	g.simple.emit(b,
		[]float64{0, 0, 0},
		[]int{g.p.Cells[0], g.p.Cells[1], lower}, delta)
	g.s1.emit(b,
		[]float64{0, 0, float64(lower) * delta[2]},
		[]int{g.p.Cells[0], g.p.Cells[1], upper}, delta)

	return b.finish()
}
