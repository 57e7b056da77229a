package mesh

import (
	"fmt"
	"math"
)

// BoundingBox is the axis-aligned extent of a mesh
type BoundingBox struct {
	Min []float64
	Max []float64
}

// Bounds computes the bounding box of all mesh nodes
func Bounds(m *Mesh) (BoundingBox, error) {
	if m.NumNodes() == 0 {
		return BoundingBox{}, fmt.Errorf("cannot compute bounds of empty mesh")
	}
	dim := len(m.Nodes()[0].Coords)
	bb := BoundingBox{
		Min: make([]float64, dim),
		Max: make([]float64, dim),
	}
	for d := 0; d < dim; d++ {
		bb.Min[d] = math.Inf(1)
		bb.Max[d] = math.Inf(-1)
	}
	for _, n := range m.Nodes() {
		for d := 0; d < dim && d < len(n.Coords); d++ {
			if n.Coords[d] < bb.Min[d] {
				bb.Min[d] = n.Coords[d]
			}
			if n.Coords[d] > bb.Max[d] {
				bb.Max[d] = n.Coords[d]
			}
		}
	}
	return bb, nil
}

// Dim returns the spatial dimension of the box
func (b BoundingBox) Dim() int { return len(b.Min) }

// Lengths returns the edge lengths of the box
func (b BoundingBox) Lengths() []float64 {
	l := make([]float64, len(b.Min))
	for d := range l {
		l[d] = b.Max[d] - b.Min[d]
	}
	return l
}
