package rve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func config3D() Config {
	return Config{
		Dim:        3,
		Cells:      []int{2, 2, 2},
		Size:       []float64{1, 1, 1},
		Tol:        1e-6,
		Generation: Simple,
		Matching:   ByClosest,
	}
}

func TestBuildInitializesFully(t *testing.T) {
	r, err := Build(config3D())
	require.NoError(t, err)
	assert.Equal(t, Initialized, r.State())

	// 2x2x2 hex grid plus the three reference nodes
	assert.Equal(t, 27+3, r.Mesh().NumNodes())
	assert.Len(t, r.ReferenceNodes(), 3)

	sets := r.RegionSets()
	for _, name := range []string{"X0", "X1", "Z1", "X0Y0Z0", "REFPOINT_X", "REFPOINT_Z"} {
		assert.Contains(t, sets, name)
	}

	cs := r.Constraints()
	assert.Equal(t, r.Pairs().NumPairs()*3, cs.NumEquations())
}

func TestBuildAllStrategyCombinations(t *testing.T) {
	for _, gen := range []GenStrategy{Simple, S1, HybridS1} {
		for _, match := range []MatchStrategy{ByClosest, BySorting} {
			t.Run(gen.String()+"_"+match.String(), func(t *testing.T) {
				cfg := config3D()
				cfg.Generation = gen
				cfg.Matching = match
				r, err := Build(cfg)
				require.NoError(t, err)
				assert.Equal(t, Initialized, r.State())
				require.NoError(t, r.Pairs().Verify())
			})
		}
	}
}

func TestBuild2D(t *testing.T) {
	cfg := Config{
		Dim:        2,
		Cells:      []int{3, 3},
		Size:       []float64{2, 1},
		Tol:        1e-6,
		Generation: Simple,
		Matching:   BySorting,
	}
	r, err := Build(cfg)
	require.NoError(t, err)
	assert.Len(t, r.ReferenceNodes(), 2)
	assert.InDelta(t, 2, r.Info().Lattice[0][0], 1e-12)
	assert.InDelta(t, 1, r.Info().Lattice[1][1], 1e-12)
	assert.Zero(t, r.Info().Lattice[0][1])
}

func TestBuiltConstraintsSatisfyAffineField(t *testing.T) {
	r, err := Build(config3D())
	require.NoError(t, err)

	H := mat.NewDense(3, 3, []float64{
		0.10, 0.01, 0.00,
		0.02, -0.05, 0.03,
		0.00, 0.04, 0.08,
	})
	u := make(map[int][]float64)
	for _, n := range r.Mesh().Nodes() {
		v := make([]float64, 3)
		for c := 0; c < 3; c++ {
			for k := 0; k < 3; k++ {
				v[c] += H.At(c, k) * n.Coords[k]
			}
		}
		u[n.ID] = v
	}

	res, err := r.Constraints().Residual(u, H)
	require.NoError(t, err)
	for i, v := range res {
		assert.InDelta(t, 0, v, 1e-12, "equation %d", i)
	}
}

func TestBuildRejectsBadConfig(t *testing.T) {
	cfg := config3D()
	cfg.Cells = []int{2, 2} // arity mismatch
	r, err := Build(cfg)
	assert.Error(t, err)
	assert.Nil(t, r)

	cfg = config3D()
	cfg.Tol = 0
	_, err = Build(cfg)
	assert.Error(t, err)
}

func TestStateAndStrategyStrings(t *testing.T) {
	assert.Equal(t, "Created", Created.String())
	assert.Equal(t, "Initialized", Initialized.String())
	assert.Equal(t, "ByClosest", ByClosest.String())
	assert.Equal(t, "BySorting", BySorting.String())
	assert.Equal(t, "HybridS1", HybridS1.String())
}
