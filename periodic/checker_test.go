package periodic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micromech/rvekit/mesh"
	"github.com/micromech/rvekit/rveinfo"
)

// stripMesh is the unit-square scenario mesh: three nodes on x=0 and three
// on x=1, with the middle right node at (1, yMid).
func stripMesh(t *testing.T, yMid float64) *mesh.Mesh {
	t.Helper()
	m := mesh.New()
	require.NoError(t, m.AddNode(1, 0, 0))
	require.NoError(t, m.AddNode(2, 0, 0.5))
	require.NoError(t, m.AddNode(3, 0, 1))
	require.NoError(t, m.AddNode(4, 1, 0))
	require.NoError(t, m.AddNode(5, 1, yMid))
	require.NoError(t, m.AddNode(6, 1, 1))
	return m
}

// masterOf maps each slave back to its master; slaves are unique by the
// bijection invariant, masters may serve several pairings
func masterOf(ps *PairSet) map[int]int {
	mp := make(map[int]int)
	for _, p := range ps.Pairs {
		mp[p.Slave] = p.Master
	}
	return mp
}

func TestStripPairsBothStrategies(t *testing.T) {
	for _, matcher := range []Matcher{ClosestMatcher{}, SortingMatcher{}} {
		t.Run(matcher.Name(), func(t *testing.T) {
			m := stripMesh(t, 0.5)
			info, err := rveinfo.Classify(m, 2, 1e-6)
			require.NoError(t, err)

			ps, err := NewChecker(matcher).Check(m, info)
			require.NoError(t, err)
			require.NoError(t, ps.Verify())

			// (0,y) pairs with (1,y) for y in {0, 0.5, 1}
			mp := masterOf(ps)
			assert.Equal(t, 1, mp[4])
			assert.Equal(t, 2, mp[5])
			assert.Equal(t, 3, mp[6])

			// The x=1 pairs all carry the x periodicity vector
			for _, p := range ps.Pairs {
				if p.Slave == 4 || p.Slave == 5 || p.Slave == 6 {
					assert.Equal(t, []float64{1, 0}, p.Shift)
				}
			}
		})
	}
}

func TestStrategiesAgreeOnRegularGrid(t *testing.T) {
	m := mesh.New()
	id := 1
	for i := 0; i <= 4; i++ {
		for j := 0; j <= 4; j++ {
			require.NoError(t, m.AddNode(id, float64(i)*0.25, float64(j)*0.25))
			id++
		}
	}
	info, err := rveinfo.Classify(m, 2, 1e-6)
	require.NoError(t, err)

	byClosest, err := NewChecker(ClosestMatcher{}).Check(m, info)
	require.NoError(t, err)
	bySorting, err := NewChecker(SortingMatcher{}).Check(m, info)
	require.NoError(t, err)

	assert.Equal(t, bySorting.Pairs, byClosest.Pairs)
}

func TestPerturbedNodeBreaksPeriodicity(t *testing.T) {
	for _, matcher := range []Matcher{ClosestMatcher{}, SortingMatcher{}} {
		t.Run(matcher.Name(), func(t *testing.T) {
			m := stripMesh(t, 0.51)
			info, err := rveinfo.Classify(m, 2, 1e-3)
			require.NoError(t, err)

			_, err = NewChecker(matcher).Check(m, info)
			require.Error(t, err)

			var mnp *MeshNotPeriodicError
			var tolErr *ToleranceExceededError
			switch {
			case errors.As(err, &mnp):
				require.NotEmpty(t, mnp.Unmatched)
				found := false
				for _, u := range mnp.Unmatched {
					if u.Node == 2 || u.Node == 5 {
						found = true
						assert.InDelta(t, 0.01, u.Residual, 1e-9)
					}
				}
				assert.True(t, found, "neither node 2 nor node 5 reported: %v", mnp.Unmatched)
			case errors.As(err, &tolErr):
				assert.InDelta(t, 0.01, tolErr.Residual, 1e-9)
			default:
				t.Fatalf("unexpected error type: %v", err)
			}
		})
	}
}

func TestCubeCornersConstrainedOnce(t *testing.T) {
	m := mesh.New()
	id := 1
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				require.NoError(t, m.AddNode(id, float64(i), float64(j), float64(k)))
				id++
			}
		}
	}
	info, err := rveinfo.Classify(m, 3, 1e-6)
	require.NoError(t, err)

	ps, err := NewChecker(ClosestMatcher{}).Check(m, info)
	require.NoError(t, err)
	require.NoError(t, ps.Verify())

	// Seven corners are slaves of exactly one pairing each; the all-min
	// corner is never a slave
	assert.Equal(t, 7, ps.NumPairs())
	slaveCount := make(map[int]int)
	for _, p := range ps.Pairs {
		slaveCount[p.Slave]++
		assert.NotEqual(t, 1, p.Slave, "all-min corner must not be a slave")
	}
	for n, c := range slaveCount {
		assert.Equal(t, 1, c, "corner %d", n)
	}
}

func TestSortingCountMismatch(t *testing.T) {
	m := stripMesh(t, 0.5)
	require.NoError(t, m.AddNode(7, 1, 0.25)) // extra node on x=1 only
	info, err := rveinfo.Classify(m, 2, 1e-6)
	require.NoError(t, err)

	_, err = NewChecker(SortingMatcher{}).Check(m, info)
	var mnp *MeshNotPeriodicError
	require.True(t, errors.As(err, &mnp))
}

func TestClosestMatchesDenseFace(t *testing.T) {
	// A face population large enough that the kd-tree build recurses and
	// partitions interior slices on every axis
	rp := rveinfo.RegionPair{Master: "X0", Slave: "X1", Shift: []float64{1, 0, 0}}
	msh := mesh.New()
	var masters, slaves []int
	id := 1
	for j := 0; j < 9; j++ {
		for k := 0; k < 9; k++ {
			y, z := float64(j)*0.125, float64(k)*0.125
			require.NoError(t, msh.AddNode(id, 0, y, z))
			masters = append(masters, id)
			require.NoError(t, msh.AddNode(100+id, 1, y, z))
			slaves = append(slaves, 100+id)
			id++
		}
	}

	pairs, err := ClosestMatcher{}.Match(msh, rp, masters, slaves, 1e-6)
	require.NoError(t, err)
	require.Len(t, pairs, 81)
	for _, p := range pairs {
		assert.Equal(t, p.Master+100, p.Slave)
	}
}

func TestClosestTieBreakPrefersLowerID(t *testing.T) {
	// Two slave candidates equidistant from the translated master
	rp := rveinfo.RegionPair{Master: "X0", Slave: "X1", Shift: []float64{1, 0}}
	msh := mesh.New()
	require.NoError(t, msh.AddNode(10, 0, 0.5))
	require.NoError(t, msh.AddNode(20, 1, 0.4))
	require.NoError(t, msh.AddNode(30, 1, 0.6))

	pairs, err := ClosestMatcher{}.Match(msh, rp, []int{10}, []int{20, 30}, 0.5)
	require.Error(t, err) // node 30 stays unmatched, bijection impossible
	assert.Nil(t, pairs)

	var mnp *MeshNotPeriodicError
	require.True(t, errors.As(err, &mnp))
	require.Len(t, mnp.Unmatched, 1)
	assert.Equal(t, 30, mnp.Unmatched[0].Node)
}
