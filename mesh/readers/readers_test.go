package readers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micromech/rvekit/mesh"
)

// unitTetNeu is a minimal Gambit neutral file: the four corner nodes of a
// unit tetrahedron and one element referencing them.
const unitTetNeu = `        CONTROL INFO 2.0.0
** GAMBIT NEUTRAL FILE
unit tetrahedron
PROGRAM:                  Test     VERSION:  1.0
Mon Jan  1 00:00:00 2025
     NUMNP     NELEM     NGRPS    NBSETS     NDFCD     NDFVL
         4         1         1         0         3         3
ENDOFSECTION
   NODAL COORDINATES 2.0.0
         1   0.00000000000e+00   0.00000000000e+00   0.00000000000e+00
         2   1.00000000000e+00   0.00000000000e+00   0.00000000000e+00
         3   0.00000000000e+00   1.00000000000e+00   0.00000000000e+00
         4   0.00000000000e+00   0.00000000000e+00   1.00000000000e+00
ENDOFSECTION
   ELEMENTS/CELLS 2.0.0
         1         6         4         1         2         3         4
ENDOFSECTION
`

func writeNeu(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mesh.neu")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadMeshFileGambitTet(t *testing.T) {
	m, err := ReadMeshFile(writeNeu(t, unitTetNeu))
	require.NoError(t, err)

	assert.Equal(t, 4, m.NumNodes())
	assert.Equal(t, 1, m.NumElements())

	// Ids are 1-based in file order and coordinates carry over verbatim
	n, ok := m.Node(2)
	require.True(t, ok)
	assert.Equal(t, []float64{1, 0, 0}, n.Coords)

	e, ok := m.Element(1)
	require.True(t, ok)
	assert.Equal(t, mesh.Tet, e.Family)
	assert.Equal(t, []int{1, 2, 3, 4}, e.Nodes)
}

func TestReadMeshFileMissing(t *testing.T) {
	_, err := ReadMeshFile(filepath.Join(t.TempDir(), "absent.neu"))
	assert.Error(t, err)
}

func TestFamilyForNodeCount(t *testing.T) {
	cases := []struct {
		n      int
		family mesh.ElementFamily
	}{
		{4, mesh.Tet},
		{6, mesh.Prism},
		{8, mesh.Hex},
	}
	for _, tc := range cases {
		f, err := familyForNodeCount(tc.n)
		require.NoError(t, err)
		assert.Equal(t, tc.family, f)
	}

	// 5-node pyramids are rejected, never mislabeled
	_, err := familyForNodeCount(5)
	assert.Error(t, err)
}
