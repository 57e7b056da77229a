package periodic

import (
	"fmt"

	"github.com/micromech/rvekit/rveinfo"
)

// NodePair ties a slave boundary node to its master image. Shift is the
// translation carrying the master coordinates onto the slave, i.e. the
// periodicity vector of the region pairing that produced the pair.
type NodePair struct {
	Master int
	Slave  int
	Shift  []float64
}

// MatchedRegion holds the verified pairs of one master/slave region pairing
type MatchedRegion struct {
	Pair  rveinfo.RegionPair
	Pairs []NodePair
}

// PairSet is the merged correspondence over all region pairings of an RVE.
// It is a derived, read-only product of a successful periodicity check.
type PairSet struct {
	Regions []MatchedRegion
	Pairs   []NodePair // all pairs, region pairing order
}

// NumPairs returns the total pair count
func (ps *PairSet) NumPairs() int { return len(ps.Pairs) }

// Verify checks the structural invariants of the correspondence: no node id
// appears as slave twice (a node may master one pairing and be slave of
// another, as edge/vertex chains do), and per-region pair counts are
// conserved in the merged list.
func (ps *PairSet) Verify() error {
	slaves := make(map[int]string, len(ps.Pairs))
	total := 0
	for _, mr := range ps.Regions {
		total += len(mr.Pairs)
		for _, p := range mr.Pairs {
			if prev, dup := slaves[p.Slave]; dup {
				return fmt.Errorf("node %d is slave in both %s and %s->%s",
					p.Slave, prev, mr.Pair.Master, mr.Pair.Slave)
			}
			slaves[p.Slave] = mr.Pair.Master + "->" + mr.Pair.Slave
		}
	}
	if total != len(ps.Pairs) {
		return fmt.Errorf("pair conservation error: regions hold %d pairs, merged list %d",
			total, len(ps.Pairs))
	}
	return nil
}
