// Package readers adapts externally generated mesh files to the rvekit
// mesh model. Import is the external collaborator's side of the interface:
// the periodicity engine itself never touches files.
package readers

import (
	"fmt"

	gcfd "github.com/notargets/gocfd/DG3D/mesh/readers"

	"github.com/micromech/rvekit/mesh"
)

// ReadMeshFile imports a 3D mesh file (Gambit neutral and the other formats
// gocfd dispatches on by extension) into a Mesh. Node and element ids are
// 1-based in file order; element grouping and boundary tags are left to the
// region classifier, which derives them from geometry alone.
func ReadMeshFile(path string) (*mesh.Mesh, error) {
	src, err := gcfd.ReadMeshFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	m := mesh.New()
	for i, v := range src.Vertices {
		if err := m.AddNode(i+1, v[0], v[1], v[2]); err != nil {
			return nil, err
		}
	}
	for k, conn := range src.EtoV {
		nodes := make([]int, len(conn))
		for i, v := range conn {
			nodes[i] = v + 1
		}
		family, err := familyForNodeCount(len(nodes))
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", k+1, err)
		}
		if err := m.AddElement(k+1, family, nodes...); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// familyForNodeCount infers the 3D element family from the connectivity
// arity. 5-node pyramids have no family in the mesh model and are rejected
// rather than mislabeled.
func familyForNodeCount(n int) (mesh.ElementFamily, error) {
	switch n {
	case 4:
		return mesh.Tet, nil
	case 6:
		return mesh.Prism, nil
	case 8:
		return mesh.Hex, nil
	default:
		return 0, fmt.Errorf("unsupported element with %d nodes", n)
	}
}
