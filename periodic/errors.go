package periodic

import (
	"fmt"
	"strings"
)

// Unmatched reports one boundary node the checker could not pair, with the
// smallest residual distance measured while searching for its image.
type Unmatched struct {
	Node     int
	Region   string
	Residual float64
}

// MeshNotPeriodicError is returned when no bijective correspondence between
// opposite boundary regions exists within tolerance. It carries every
// unmatched node so the caller can regenerate the mesh or adjust tolerance.
type MeshNotPeriodicError struct {
	Unmatched []Unmatched
}

func (e *MeshNotPeriodicError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("mesh is not periodic: %d unmatched node(s)", len(e.Unmatched)))
	limit := len(e.Unmatched)
	if limit > 8 {
		limit = 8
	}
	for _, u := range e.Unmatched[:limit] {
		sb.WriteString(fmt.Sprintf("; node %d in %s (residual %.3g)", u.Node, u.Region, u.Residual))
	}
	if len(e.Unmatched) > limit {
		sb.WriteString("; ...")
	}
	return sb.String()
}

// ToleranceExceededError reports a node pair whose residual exceeds the
// tolerance even though an overall correspondence was established. Raised by
// the sorting matcher when rank-paired keys disagree.
type ToleranceExceededError struct {
	Master   int
	Slave    int
	Region   string
	Residual float64
	Tol      float64
}

func (e *ToleranceExceededError) Error() string {
	return fmt.Sprintf("pair (%d, %d) in %s exceeds tolerance: residual %.3g > %.3g",
		e.Master, e.Slave, e.Region, e.Residual, e.Tol)
}
