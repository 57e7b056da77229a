// Package rve is the top-level aggregate of the unit-cell engine: it owns
// one mesh generator and one boundary-condition set and walks a build
// pipeline of mesh generation, periodicity verification and constraint
// derivation. Only fully initialized RVEs ever leave the builder.
package rve

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/micromech/rvekit/mesh"
	"github.com/micromech/rvekit/pbc"
	"github.com/micromech/rvekit/periodic"
	"github.com/micromech/rvekit/rveinfo"
)

// State is the build stage an RVE instance has reached
type State uint8

const (
	Created State = iota
	MeshGenerated
	PeriodicityVerified
	ConstraintsBuilt
	Initialized
)

// String returns the string representation of a State
func (s State) String() string {
	switch s {
	case Created:
		return "Created"
	case MeshGenerated:
		return "MeshGenerated"
	case PeriodicityVerified:
		return "PeriodicityVerified"
	case ConstraintsBuilt:
		return "ConstraintsBuilt"
	case Initialized:
		return "Initialized"
	}
	return fmt.Sprintf("State(%d)", s)
}

// MatchStrategy selects the node correspondence algorithm
type MatchStrategy uint8

const (
	ByClosest MatchStrategy = iota
	BySorting
)

// String returns the string representation of a MatchStrategy
func (s MatchStrategy) String() string {
	switch s {
	case ByClosest:
		return "ByClosest"
	case BySorting:
		return "BySorting"
	}
	return fmt.Sprintf("MatchStrategy(%d)", s)
}

// GenStrategy selects the mesh generation algorithm
type GenStrategy uint8

const (
	Simple GenStrategy = iota
	S1
	HybridS1
)

// String returns the string representation of a GenStrategy
func (s GenStrategy) String() string {
	switch s {
	case Simple:
		return "Simple"
	case S1:
		return "S1"
	case HybridS1:
		return "HybridS1"
	}
	return fmt.Sprintf("GenStrategy(%d)", s)
}

// Config are the construction parameters of one RVE
type Config struct {
	Dim        int
	Cells      []int
	Size       []float64
	Tol        float64
	Generation GenStrategy
	Matching   MatchStrategy
	MaxRetries int         // periodicity-check retries, default 3
	Logger     *zap.Logger // default no-op
}

// RVE is a fully built representative volume element: its periodic mesh,
// region classification, node correspondence and boundary conditions.
type RVE struct {
	id    uuid.UUID
	cfg   Config
	state State
	log   *zap.Logger

	mesh  *mesh.Mesh
	info  *rveinfo.Info
	pairs *periodic.PairSet
	refs  []int
	bcs   *pbc.BoundaryConditions
}

// ID returns the build identifier of this instance
func (r *RVE) ID() uuid.UUID { return r.id }

// State returns the build stage
func (r *RVE) State() State { return r.state }

// Mesh returns the periodic mesh, including the reference nodes
func (r *RVE) Mesh() *mesh.Mesh { return r.mesh }

// Info returns the geometric metadata of the mesh
func (r *RVE) Info() *rveinfo.Info { return r.info }

// Pairs returns the verified node correspondence
func (r *RVE) Pairs() *periodic.PairSet { return r.pairs }

// ReferenceNodes returns the reference node ids, one per lattice direction
func (r *RVE) ReferenceNodes() []int { return r.refs }

// BoundaryConditions returns the periodic boundary condition aggregate
func (r *RVE) BoundaryConditions() *pbc.BoundaryConditions { return r.bcs }

// Constraints returns the constraint equation set
func (r *RVE) Constraints() *pbc.Constraints { return r.bcs.Constraints() }

// RegionSets returns the boundary region node sets by name, for the
// external model builder to place loads and boundary conditions
func (r *RVE) RegionSets() map[string][]int {
	sets := make(map[string][]int, len(r.mesh.NodeSets))
	for name, ids := range r.mesh.NodeSets {
		s := make([]int, len(ids))
		copy(s, ids)
		sets[name] = s
	}
	return sets
}
