package generator

import (
	"github.com/micromech/rvekit/mesh"
)

// S1 generates a strut-lattice unit-cell family: each cell carries its
// corner nodes, a body-center node, center-to-corner struts and the cell
// edge struts, all as two-node Beam elements. Cell plane positions are
// accumulated along each axis, so opposite boundary coordinates can drift
// by floating-point round-off; correspondence is not automatic and must be
// verified (and snap-repaired) by the checker pipeline.
type S1 struct {
	p Params
}

// NewS1 creates an S1 lattice generator
func NewS1(p Params) (*S1, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &S1{p: p}, nil
}

// Name returns the strategy name
func (g *S1) Name() string { return "S1" }

// Params returns the generation parameters
func (g *S1) Params() Params { return g.p }

// Generate implements Generator
func (g *S1) Generate() (*mesh.Mesh, error) {
	b := newMeshBuilder(g.p.Dim, g.p.Tol)
	delta := make([]float64, g.p.Dim)
	origin := make([]float64, g.p.Dim)
	for d := 0; d < g.p.Dim; d++ {
		delta[d] = g.p.Size[d] / float64(g.p.Cells[d])
	}
	g.emit(b, origin, g.p.Cells, delta)
	return b.finish()
}

// planes accumulates the cell plane coordinates along one axis
func planes(origin, delta float64, cells int) []float64 {
	xs := make([]float64, cells+1)
	xs[0] = origin
	for i := 1; i <= cells; i++ {
		xs[i] = xs[i-1] + delta
	}
	return xs
}

// emit writes the strut cells of one block into b
func (g *S1) emit(b *meshBuilder, origin []float64, cells []int, delta []float64) {
	if g.p.Dim == 2 {
		xs := planes(origin[0], delta[0], cells[0])
		ys := planes(origin[1], delta[1], cells[1])
		for i := 0; i < cells[0]; i++ {
			for j := 0; j < cells[1]; j++ {
				c00 := b.node(xs[i], ys[j])
				c10 := b.node(xs[i+1], ys[j])
				c11 := b.node(xs[i+1], ys[j+1])
				c01 := b.node(xs[i], ys[j+1])
				ctr := b.node(xs[i]+delta[0]/2, ys[j]+delta[1]/2)
				for _, c := range []int{c00, c10, c11, c01} {
					b.beam(ctr, c)
				}
				b.beam(c00, c10)
				b.beam(c10, c11)
				b.beam(c11, c01)
				b.beam(c01, c00)
			}
		}
		return
	}

	xs := planes(origin[0], delta[0], cells[0])
	ys := planes(origin[1], delta[1], cells[1])
	zs := planes(origin[2], delta[2], cells[2])
	for i := 0; i < cells[0]; i++ {
		for j := 0; j < cells[1]; j++ {
			for k := 0; k < cells[2]; k++ {
				var corners [2][2][2]int
				for di := 0; di < 2; di++ {
					for dj := 0; dj < 2; dj++ {
						for dk := 0; dk < 2; dk++ {
							corners[di][dj][dk] = b.node(xs[i+di], ys[j+dj], zs[k+dk])
						}
					}
				}
				ctr := b.node(xs[i]+delta[0]/2, ys[j]+delta[1]/2, zs[k]+delta[2]/2)

				// Body-centered struts
				for di := 0; di < 2; di++ {
					for dj := 0; dj < 2; dj++ {
						for dk := 0; dk < 2; dk++ {
							b.beam(ctr, corners[di][dj][dk])
						}
					}
				}
				// Cell edge struts
				for dj := 0; dj < 2; dj++ {
					for dk := 0; dk < 2; dk++ {
						b.beam(corners[0][dj][dk], corners[1][dj][dk])
					}
				}
				for di := 0; di < 2; di++ {
					for dk := 0; dk < 2; dk++ {
						b.beam(corners[di][0][dk], corners[di][1][dk])
					}
				}
				for di := 0; di < 2; di++ {
					for dj := 0; dj < 2; dj++ {
						b.beam(corners[di][dj][0], corners[di][dj][1])
					}
				}
			}
		}
	}
}
