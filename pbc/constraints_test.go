package pbc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/micromech/rvekit/mesh"
	"github.com/micromech/rvekit/periodic"
	"github.com/micromech/rvekit/rveinfo"
)

// gridPairs builds an n x n unit-square node grid and its verified
// correspondence
func gridPairs(t *testing.T, n int) (*mesh.Mesh, *periodic.PairSet) {
	t.Helper()
	m := mesh.New()
	h := 1.0 / float64(n)
	id := 1
	for i := 0; i <= n; i++ {
		for j := 0; j <= n; j++ {
			require.NoError(t, m.AddNode(id, float64(i)*h, float64(j)*h))
			id++
		}
	}
	info, err := rveinfo.Classify(m, 2, 1e-9)
	require.NoError(t, err)
	ps, err := periodic.NewChecker(periodic.ClosestMatcher{}).Check(m, info)
	require.NoError(t, err)
	return m, ps
}

func TestBuildEmitsOneEquationPerPairComponent(t *testing.T) {
	_, ps := gridPairs(t, 4)

	b, err := NewBuilder(2, []int{1000, 1001})
	require.NoError(t, err)
	cs, err := b.Build(ps)
	require.NoError(t, err)

	// Constraint count = slave nodes x dimension
	assert.Equal(t, ps.NumPairs()*2, cs.NumEquations())

	// Every slave DOF appears exactly once, with coefficient +1 first
	seen := make(map[DOF]bool)
	for _, eq := range cs.Equations {
		require.NotEmpty(t, eq.Terms)
		assert.Equal(t, 1.0, eq.Terms[0].Coeff)
		s := eq.Slave()
		assert.False(t, seen[s], "slave DOF %v twice", s)
		seen[s] = true
	}
}

func TestAffineFieldRoundTrip(t *testing.T) {
	msh, ps := gridPairs(t, 3)

	refs := []int{500, 501}
	b, err := NewBuilder(2, refs)
	require.NoError(t, err)
	cs, err := b.Build(ps)
	require.NoError(t, err)

	H := mat.NewDense(2, 2, []float64{0.10, 0.02, -0.03, 0.05})

	// u = H*x plus a constant offset: an affine periodic field, so every
	// constraint must evaluate to zero
	u := make(map[int][]float64)
	for _, n := range msh.Nodes() {
		u[n.ID] = []float64{
			H.At(0, 0)*n.Coords[0] + H.At(0, 1)*n.Coords[1] + 0.7,
			H.At(1, 0)*n.Coords[0] + H.At(1, 1)*n.Coords[1] - 1.3,
		}
	}

	res, err := cs.Residual(u, H)
	require.NoError(t, err)
	for i, r := range res {
		assert.InDelta(t, 0, r, 1e-12, "equation %d", i)
	}
}

func TestRedundantSlaveRejected(t *testing.T) {
	ps := &periodic.PairSet{
		Pairs: []periodic.NodePair{
			{Master: 1, Slave: 2, Shift: []float64{1, 0}},
			{Master: 3, Slave: 2, Shift: []float64{0, 1}},
		},
	}
	b, err := NewBuilder(2, []int{100, 101})
	require.NoError(t, err)

	_, err = b.Build(ps)
	var red *ConstraintRedundancyError
	require.True(t, errors.As(err, &red))
	assert.Equal(t, 2, red.DOF.Node)
}

func TestBuilderValidation(t *testing.T) {
	_, err := NewBuilder(4, []int{1, 2, 3, 4})
	assert.Error(t, err)
	_, err = NewBuilder(3, []int{1, 2})
	assert.Error(t, err)
	_, err = NewBuilder(2, []int{7, 7})
	assert.Error(t, err)
}

func TestReferenceNodeCannotBeSlave(t *testing.T) {
	ps := &periodic.PairSet{
		Pairs: []periodic.NodePair{{Master: 1, Slave: 100, Shift: []float64{1, 0}}},
	}
	b, err := NewBuilder(2, []int{100, 101})
	require.NoError(t, err)
	_, err = b.Build(ps)
	assert.Error(t, err)
}

func TestBoundaryConditionsAggregate(t *testing.T) {
	_, ps := gridPairs(t, 2)
	b, err := NewBuilder(2, []int{900, 901})
	require.NoError(t, err)
	cs, err := b.Build(ps)
	require.NoError(t, err)

	bcs := NewBoundaryConditions(cs)
	assert.Same(t, cs, bcs.Constraints())
}
