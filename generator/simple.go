package generator

import (
	"github.com/micromech/rvekit/mesh"
)

// Simple generates a structured grid of quads (2D) or hexes (3D) by
// replicating one base cell along each lattice direction. Opposite boundary
// layouts are produced in lockstep, so the mesh is periodic by construction
// and the checker acts purely as a safety net.
type Simple struct {
	p Params
}

// NewSimple creates a Simple grid generator
func NewSimple(p Params) (*Simple, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Simple{p: p}, nil
}

// Name returns the strategy name
func (g *Simple) Name() string { return "Simple" }

// Params returns the generation parameters
func (g *Simple) Params() Params { return g.p }

// Generate implements Generator
func (g *Simple) Generate() (*mesh.Mesh, error) {
	b := newMeshBuilder(g.p.Dim, g.p.Tol)
	delta := make([]float64, g.p.Dim)
	origin := make([]float64, g.p.Dim)
	for d := 0; d < g.p.Dim; d++ {
		delta[d] = g.p.Size[d] / float64(g.p.Cells[d])
	}
	g.emit(b, origin, g.p.Cells, delta)
	return b.finish()
}

// emit writes the grid cells into b. origin is the min corner of the block,
// cells the per-axis cell counts, delta the per-axis cell edge lengths.
// Node positions are i*delta from the origin, never accumulated, so
// opposite boundary coordinates agree exactly.
func (g *Simple) emit(b *meshBuilder, origin []float64, cells []int, delta []float64) {
	if g.p.Dim == 2 {
		nx, ny := cells[0], cells[1]
		grid := make([][]int, nx+1)
		for i := 0; i <= nx; i++ {
			grid[i] = make([]int, ny+1)
			for j := 0; j <= ny; j++ {
				grid[i][j] = b.node(origin[0]+float64(i)*delta[0], origin[1]+float64(j)*delta[1])
			}
		}
		for i := 0; i < nx; i++ {
			for j := 0; j < ny; j++ {
				b.element(mesh.Quad, grid[i][j], grid[i+1][j], grid[i+1][j+1], grid[i][j+1])
			}
		}
		return
	}

	nx, ny, nz := cells[0], cells[1], cells[2]
	grid := make([][][]int, nx+1)
	for i := 0; i <= nx; i++ {
		grid[i] = make([][]int, ny+1)
		for j := 0; j <= ny; j++ {
			grid[i][j] = make([]int, nz+1)
			for k := 0; k <= nz; k++ {
				grid[i][j][k] = b.node(
					origin[0]+float64(i)*delta[0],
					origin[1]+float64(j)*delta[1],
					origin[2]+float64(k)*delta[2])
			}
		}
	}
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				b.element(mesh.Hex,
					grid[i][j][k], grid[i+1][j][k], grid[i+1][j+1][k], grid[i][j+1][k],
					grid[i][j][k+1], grid[i+1][j][k+1], grid[i+1][j+1][k+1], grid[i][j+1][k+1])
			}
		}
	}
}
