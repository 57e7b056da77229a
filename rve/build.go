package rve

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/micromech/rvekit/generator"
	"github.com/micromech/rvekit/pbc"
	"github.com/micromech/rvekit/periodic"
)

// Reference node set names, one per lattice direction
var refSetNames = []string{"REFPOINT_X", "REFPOINT_Y", "REFPOINT_Z"}

// Build constructs a fully initialized RVE from cfg. Construction is
// two-phase: a creator takes the instance from Created to MeshGenerated,
// an initializer walks the remaining stages. Any stage failure surfaces the
// originating error together with the last successful state, and no
// partially constructed RVE is returned.
func Build(cfg Config) (*RVE, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	r := &RVE{
		id:    uuid.New(),
		cfg:   cfg,
		state: Created,
	}
	r.log = log.With(zap.String("rveID", r.id.String()))

	c := &creator{r: r}
	if err := c.run(); err != nil {
		return nil, fmt.Errorf("rve build stopped in state %s: %w", r.state, err)
	}
	in := &initializer{r: r, builder: c.builder}
	if err := in.run(); err != nil {
		return nil, fmt.Errorf("rve build stopped in state %s: %w", r.state, err)
	}
	return r, nil
}

// creator performs Created -> MeshGenerated: it instantiates the configured
// generation strategy and runs it.
type creator struct {
	r       *RVE
	builder *generator.Builder
}

func (c *creator) run() error {
	r := c.r
	p := generator.Params{Dim: r.cfg.Dim, Cells: r.cfg.Cells, Size: r.cfg.Size, Tol: r.cfg.Tol}

	var gen generator.Generator
	var err error
	switch r.cfg.Generation {
	case Simple:
		gen, err = generator.NewSimple(p)
	case S1:
		gen, err = generator.NewS1(p)
	case HybridS1:
		gen, err = generator.NewHybridS1(p)
	default:
		err = fmt.Errorf("unknown generation strategy %d", r.cfg.Generation)
	}
	if err != nil {
		return err
	}

	var matcher periodic.Matcher
	switch r.cfg.Matching {
	case ByClosest:
		matcher = periodic.ClosestMatcher{}
	case BySorting:
		matcher = periodic.SortingMatcher{}
	default:
		return fmt.Errorf("unknown matching strategy %d", r.cfg.Matching)
	}

	opts := []generator.BuilderOption{generator.WithLogger(r.log)}
	if r.cfg.MaxRetries > 0 {
		opts = append(opts, generator.WithMaxRetries(r.cfg.MaxRetries))
	}
	c.builder, err = generator.NewBuilder(gen,
		periodic.NewChecker(matcher, periodic.WithLogger(r.log)), opts...)
	if err != nil {
		return err
	}

	msh, err := c.builder.Generate()
	if err != nil {
		return err
	}
	r.mesh = msh
	r.state = MeshGenerated
	r.log.Info("stage complete", zap.Stringer("state", r.state))
	return nil
}

// initializer performs MeshGenerated -> Initialized: periodicity check,
// constraint derivation and boundary-condition assembly, in that order.
type initializer struct {
	r       *RVE
	builder *generator.Builder
}

func (in *initializer) run() error {
	r := in.r

	res, err := in.builder.Verify(r.mesh)
	if err != nil {
		return err
	}
	r.info = res.Info
	r.pairs = res.Pairs
	r.state = PeriodicityVerified
	r.log.Info("stage complete", zap.Stringer("state", r.state),
		zap.Int("nodePairs", r.pairs.NumPairs()))

	if err := in.addReferenceNodes(); err != nil {
		return err
	}
	pb, err := pbc.NewBuilder(r.cfg.Dim, r.refs)
	if err != nil {
		return err
	}
	cs, err := pb.Build(r.pairs)
	if err != nil {
		return err
	}
	r.state = ConstraintsBuilt
	r.log.Info("stage complete", zap.Stringer("state", r.state),
		zap.Int("equations", cs.NumEquations()))

	r.bcs = pbc.NewBoundaryConditions(cs)
	r.state = Initialized
	r.log.Info("stage complete", zap.Stringer("state", r.state))
	return nil
}

// addReferenceNodes appends one reference node per lattice direction to the
// mesh and exports each as a named single-node set. They are created after
// classification on purpose, so they never join a boundary region.
func (in *initializer) addReferenceNodes() error {
	r := in.r
	base := r.mesh.MaxNodeID()
	r.refs = make([]int, r.cfg.Dim)
	for k := 0; k < r.cfg.Dim; k++ {
		id := base + 1 + k
		if err := r.mesh.AddNode(id, r.info.Bounds.Min...); err != nil {
			return err
		}
		r.mesh.SetNodeSet(refSetNames[k], []int{id})
		r.refs[k] = id
	}
	return nil
}
