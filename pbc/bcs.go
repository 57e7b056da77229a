package pbc

// BoundaryConditions aggregates the periodic constraint set of one RVE and
// exposes it to the surrounding model builder. Purely compositional.
type BoundaryConditions struct {
	cs *Constraints
}

// NewBoundaryConditions wraps a built constraint set
func NewBoundaryConditions(cs *Constraints) *BoundaryConditions {
	return &BoundaryConditions{cs: cs}
}

// Constraints returns the constraint equations
func (b *BoundaryConditions) Constraints() *Constraints { return b.cs }
