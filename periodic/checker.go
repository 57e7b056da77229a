// Package periodic establishes the bijective correspondence between nodes
// on opposite periodic boundaries of an RVE mesh.
package periodic

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/micromech/rvekit/mesh"
	"github.com/micromech/rvekit/rveinfo"
)

// Matcher is one correspondence-finding strategy for a single region
// pairing. master and slave are the node ids of the two regions; a returned
// pair list covers every node of both regions exactly once.
type Matcher interface {
	Name() string
	Match(msh *mesh.Mesh, rp rveinfo.RegionPair, master, slave []int, tol float64) ([]NodePair, error)
}

// Checker runs a Matcher over every region pairing of an RVE and merges the
// results into one verified PairSet. The strategy is fixed at construction.
type Checker struct {
	matcher Matcher
	log     *zap.Logger
}

// Option configures a Checker
type Option func(*Checker)

// WithLogger injects a structured logger; the default is a no-op logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Checker) { c.log = l }
}

// NewChecker creates a checker with the given matching strategy
func NewChecker(matcher Matcher, opts ...Option) *Checker {
	c := &Checker{matcher: matcher, log: zap.NewNop()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Strategy returns the name of the configured matcher
func (c *Checker) Strategy() string { return c.matcher.Name() }

// Check matches every region pairing of the mesh. Pairings are independent
// of each other, so they run concurrently and merge in deterministic pairing
// order. On failure all unmatched nodes across pairings are reported in a
// single MeshNotPeriodicError; a ToleranceExceededError from the sorting
// strategy is surfaced as-is.
func (c *Checker) Check(msh *mesh.Mesh, info *rveinfo.Info) (*PairSet, error) {
	rps := info.RegionPairs()
	results := make([][]NodePair, len(rps))
	errs := make([]error, len(rps))

	var g errgroup.Group
	for i, rp := range rps {
		i, rp := i, rp
		master := info.RegionNodes(rp.Master)
		slave := info.RegionNodes(rp.Slave)
		if len(master) == 0 && len(slave) == 0 {
			continue
		}
		g.Go(func() error {
			pairs, err := c.matcher.Match(msh, rp, master, slave, info.Tol)
			if err != nil {
				errs[i] = fmt.Errorf("region pair %s->%s: %w", rp.Master, rp.Slave, err)
				return errs[i]
			}
			results[i] = pairs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, c.mergeErrors(errs)
	}

	ps := &PairSet{}
	for i, rp := range rps {
		if results[i] == nil {
			continue
		}
		ps.Regions = append(ps.Regions, MatchedRegion{Pair: rp, Pairs: results[i]})
		ps.Pairs = append(ps.Pairs, results[i]...)
		c.log.Debug("matched region pair",
			zap.String("master", rp.Master),
			zap.String("slave", rp.Slave),
			zap.Int("pairs", len(results[i])),
			zap.String("strategy", c.matcher.Name()))
	}
	if err := ps.Verify(); err != nil {
		return nil, fmt.Errorf("correspondence verification failed: %w", err)
	}
	c.log.Info("periodicity check passed",
		zap.Int("regionPairs", len(ps.Regions)),
		zap.Int("nodePairs", ps.NumPairs()),
		zap.String("strategy", c.matcher.Name()))
	return ps, nil
}

// mergeErrors folds the per-pairing failures into one error. All
// MeshNotPeriodicErrors merge into a single one carrying every unmatched
// node; any other failure kind wins in pairing order.
func (c *Checker) mergeErrors(errs []error) error {
	merged := &MeshNotPeriodicError{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		var mnp *MeshNotPeriodicError
		if errors.As(err, &mnp) {
			merged.Unmatched = append(merged.Unmatched, mnp.Unmatched...)
			continue
		}
		return err
	}
	return merged
}
