// Package pbc derives the linear multi-point constraint equations that
// enforce an affine periodic displacement field on a verified RVE node
// correspondence.
package pbc

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/micromech/rvekit/periodic"
)

// DOF references one scalar displacement unknown: component Comp of node
// Node. Components are 0-based spatial axes.
type DOF struct {
	Node int
	Comp int
}

// Term is one coefficient of a constraint equation
type Term struct {
	DOF   DOF
	Coeff float64
}

// Equation is a linear relation Σ Term = 0. The first term always
// references the slave DOF with coefficient +1.
type Equation struct {
	Terms []Term
}

// Slave returns the constrained DOF of the equation
func (e Equation) Slave() DOF { return e.Terms[0].DOF }

// ConstraintRedundancyError reports a slave DOF that would receive two
// equations. This indicates a region-classification defect and is always
// fatal, never retried.
type ConstraintRedundancyError struct {
	DOF DOF
}

func (e *ConstraintRedundancyError) Error() string {
	return fmt.Sprintf("slave DOF (node %d, component %d) constrained twice",
		e.DOF.Node, e.DOF.Comp)
}

// Constraints is the ordered equation set of one RVE, a read-only product
// of a successful build.
type Constraints struct {
	Equations []Equation
	Refs      []int // reference node per lattice direction; component c of
	// Refs[k] carries the displacement-gradient entry H[c,k]
	Dim int

	refIndex map[int]int // ref node id -> lattice direction
}

// Builder turns verified node pairs plus one reference node per lattice
// direction into constraint equations of the form
//
//	u_slave[c] - u_master[c] - Σ_k H[c,k]·Δx[k] = 0
//
// with the H entries carried as DOFs of the reference nodes.
type Builder struct {
	dim  int
	refs []int
}

// NewBuilder creates a constraint builder. refs holds one reference node id
// per lattice direction; the ids must be distinct and must not collide with
// mesh nodes appearing in the pairs.
func NewBuilder(dim int, refs []int) (*Builder, error) {
	if dim != 2 && dim != 3 {
		return nil, fmt.Errorf("unsupported dimension %d", dim)
	}
	if len(refs) != dim {
		return nil, fmt.Errorf("need %d reference nodes, got %d", dim, len(refs))
	}
	seen := make(map[int]bool, dim)
	for _, r := range refs {
		if seen[r] {
			return nil, fmt.Errorf("duplicate reference node id %d", r)
		}
		seen[r] = true
	}
	return &Builder{dim: dim, refs: refs}, nil
}

// Build emits one equation per node pair per spatial component
func (b *Builder) Build(ps *periodic.PairSet) (*Constraints, error) {
	cs := &Constraints{
		Equations: make([]Equation, 0, ps.NumPairs()*b.dim),
		Refs:      b.refs,
		Dim:       b.dim,
		refIndex:  make(map[int]int, b.dim),
	}
	for k, r := range b.refs {
		cs.refIndex[r] = k
	}

	bySlave := make(map[DOF]bool, ps.NumPairs()*b.dim)
	for _, p := range ps.Pairs {
		if _, isRef := cs.refIndex[p.Slave]; isRef {
			return nil, fmt.Errorf("reference node %d appears as slave in the correspondence", p.Slave)
		}
		for c := 0; c < b.dim; c++ {
			slave := DOF{Node: p.Slave, Comp: c}
			if bySlave[slave] {
				return nil, &ConstraintRedundancyError{DOF: slave}
			}
			bySlave[slave] = true

			terms := []Term{
				{DOF: slave, Coeff: +1},
				{DOF: DOF{Node: p.Master, Comp: c}, Coeff: -1},
			}
			for k := 0; k < b.dim; k++ {
				if p.Shift[k] != 0 {
					terms = append(terms, Term{DOF: DOF{Node: b.refs[k], Comp: c}, Coeff: -p.Shift[k]})
				}
			}
			cs.Equations = append(cs.Equations, Equation{Terms: terms})
		}
	}
	return cs, nil
}

// NumEquations returns the equation count
func (cs *Constraints) NumEquations() int { return len(cs.Equations) }

// Residual evaluates every equation against the displacement field u
// (node id -> displacement vector) and the macroscopic displacement
// gradient H (Dim x Dim, H[c][k] carried by component c of reference node
// k). Used by property tests and downstream sanity checks.
func (cs *Constraints) Residual(u map[int][]float64, H mat.Matrix) ([]float64, error) {
	r, c := H.Dims()
	if r != cs.Dim || c != cs.Dim {
		return nil, fmt.Errorf("H is %dx%d, want %dx%d", r, c, cs.Dim, cs.Dim)
	}
	res := make([]float64, len(cs.Equations))
	for i, eq := range cs.Equations {
		var sum float64
		for _, t := range eq.Terms {
			var val float64
			if k, isRef := cs.refIndex[t.DOF.Node]; isRef {
				val = H.At(t.DOF.Comp, k)
			} else {
				uv, ok := u[t.DOF.Node]
				if !ok {
					return nil, fmt.Errorf("no displacement for node %d", t.DOF.Node)
				}
				val = uv[t.DOF.Comp]
			}
			sum += t.Coeff * val
		}
		res[i] = sum
	}
	return res, nil
}
