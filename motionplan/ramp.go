package motionplan

import (
	"context"
	"math/rand"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.viam.com/utils"
	"gonum.org/v1/gonum/floats"

	"go.viam.com/ramp/trajectory"
)

// rampPlanner is an object able to solve kinodynamic planning problems between two
// states of a decoupled-axis system. It grows two trees, one rooted at the start's
// maximum-braking rest state and one at the goal's, connecting them with time-optimal
// bang-bang segments. Tree edges are validated lazily: collision checking happens
// only when a bridge between the trees is proposed, and a discovered collision is
// handled by migrating the affected subtree to the opposite tree instead of
// discarding it.
type rampPlanner struct {
	start       trajectory.State
	goal        trajectory.State
	checker     CollisionChecker
	limits      *trajectory.Limits
	solver      *trajectory.Solver
	opts        *PlannerOptions
	logger      golog.Logger
	randseed    *rand.Rand
	sqrtWeights []float64

	// per-invocation search state, reset at the top of every planRunner call
	nodes      *nodeSet
	startBrake *trajectory.Segment
	goalBrake  *trajectory.Segment
}

type planReturn struct {
	steps []trajectory.State
	err   error
}

// NewRAMPPlanner creates a planner connecting the given start and goal states, each of
// length twice the number of axes (positions then velocities). A nil opt uses defaults.
func NewRAMPPlanner(
	start, goal trajectory.State,
	checker CollisionChecker,
	limits *trajectory.Limits,
	logger golog.Logger,
	opt *PlannerOptions,
) (MotionPlanner, error) {
	//nolint:gosec
	return NewRAMPPlannerWithSeed(start, goal, checker, limits, rand.New(rand.NewSource(1)), logger, opt)
}

// NewRAMPPlannerWithSeed creates a rampPlanner object with a user specified random seed.
func NewRAMPPlannerWithSeed(
	start, goal trajectory.State,
	checker CollisionChecker,
	limits *trajectory.Limits,
	seed *rand.Rand,
	logger golog.Logger,
	opt *PlannerOptions,
) (MotionPlanner, error) {
	if checker == nil {
		return nil, errNilChecker
	}
	solver, err := trajectory.NewSolver(limits)
	if err != nil {
		return nil, err
	}
	if len(start) != 2*limits.Dim() || len(goal) != 2*limits.Dim() {
		return nil, errBadStateLength
	}
	if opt == nil {
		opt = NewBasicPlannerOptions()
	}
	if err := opt.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid planner options")
	}

	// Weights normalize position and velocity units before distance comparison:
	// inverse square of the position range, inverse square of the symmetric velocity
	// range.
	n := limits.Dim()
	sqrtWeights := make([]float64, 2*n)
	for i := 0; i < n; i++ {
		sqrtWeights[i] = 1 / (limits.Max[i] - limits.Min[i])
		sqrtWeights[n+i] = 1 / (2 * limits.VMax[i])
	}

	return &rampPlanner{
		start:       start.Clone(),
		goal:        goal.Clone(),
		checker:     checker,
		limits:      limits,
		solver:      solver,
		opts:        opt,
		logger:      logger,
		randseed:    seed,
		sqrtWeights: sqrtWeights,
	}, nil
}

// weightedDistance is the weighted Euclidean distance between two states.
func (mp *rampPlanner) weightedDistance(from, to trajectory.State) float64 {
	diff := make([]float64, len(from))
	floats.SubTo(diff, to, from)
	floats.Mul(diff, mp.sqrtWeights)
	return floats.Norm(diff, 2)
}

// Plan will take a context and return a series of states leading from the planner's
// start to its goal, or ErrNoPath if no collision-free path exists within the
// iteration budget.
func (mp *rampPlanner) Plan(ctx context.Context) ([]trajectory.State, error) {
	solutionChan := make(chan *planReturn, 1)
	utils.PanicCapturingGo(func() {
		mp.planRunner(ctx, solutionChan)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case plan := <-solutionChan:
		return plan.steps, plan.err
	}
}

// planRunner will execute the plan. When Plan() is called, it will call planRunner in
// a separate thread and wait for the results. No search state persists across calls.
func (mp *rampPlanner) planRunner(ctx context.Context, solutionChan chan *planReturn) {
	defer close(solutionChan)

	mp.nodes = newNodeSet()
	if err := mp.seedTrees(); err != nil {
		mp.logger.Debugf("failed to seed trees: %s", err)
		solutionChan <- &planReturn{err: ErrNoPath}
		return
	}

	nm := &neighborManager{nCPU: mp.opts.NumThreads, parallelNeighbors: defaultParallelNeighbors}

	for i := 0; i < mp.opts.PlanIter; i++ {
		select {
		case <-ctx.Done():
			solutionChan <- &planReturn{err: ctx.Err()}
			return
		default:
		}

		// Alternate which tree is grown so both explore evenly.
		current := forwardTree
		if i%2 == 1 {
			current = backwardTree
		}

		extended, ok := mp.extendTree(current)
		if !ok {
			continue
		}

		// Attempt to connect the new node to the other tree.
		near, dist := nm.nearestNeighbor(ctx, mp, mp.nodes.node(extended).state, mp.nodes.members[current.other()])
		if near == noParent || dist > mp.opts.ConnectDist {
			continue
		}

		path1 := mp.nodes.pathToRoot(near)
		path2 := mp.nodes.pathToRoot(extended)
		if edge := mp.checkBridgeAndPaths(path1, path2); edge != nil {
			mp.repair(edge)
			continue
		}

		mp.logger.Debugf("RAMP found a bridge after %d iterations (%d nodes)",
			i, mp.nodes.size(forwardTree)+mp.nodes.size(backwardTree))

		steps := mp.reconstructPath(path1, path2)
		if mp.opts.Smoother != nil {
			smoothed, err := mp.opts.Smoother(steps, mp.limits, mp.checker, mp.opts.SmoothIter)
			if err != nil {
				solutionChan <- &planReturn{err: errors.Wrap(err, "path smoothing failed")}
				return
			}
			steps = smoothed
		}
		solutionChan <- &planReturn{steps: steps}
		return
	}

	mp.logger.Debugf("RAMP exhausted %d iterations without a path", mp.opts.PlanIter)
	solutionChan <- &planReturn{err: ErrNoPath}
}

// seedTrees roots each tree at the maximum-braking rest state of its attachment
// state. Seeding fails if a rest state falls outside the position limits, collides,
// or its braking trajectory is not collision-free.
func (mp *rampPlanner) seedTrees() error {
	for _, seed := range []struct {
		state trajectory.State
		label treeLabel
	}{
		{mp.start, forwardTree},
		{mp.goal, backwardTree},
	} {
		brake := mp.solver.BrakingSegment(seed.state)
		if !mp.limits.InBounds(brake.Start) {
			return errors.Errorf("%s tree braking state is out of bounds", seed.label)
		}
		if !mp.checker(brake.Start) {
			return errors.Errorf("%s tree braking state is in collision", seed.label)
		}
		if !mp.edgeIsFree(brake) {
			return errors.Errorf("%s tree braking trajectory is in collision", seed.label)
		}
		mp.nodes.add(brake.Start, seed.label, noParent, nil)
		if seed.label == forwardTree {
			mp.startBrake = brake
		} else {
			mp.goalBrake = brake
		}
	}
	return nil
}

// extendTree grows the given tree by one lazily-validated edge: a uniformly chosen
// existing node is connected to a uniformly sampled rest state. Sampling a colliding
// state or failing to solve a segment simply skips the extension.
func (mp *rampPlanner) extendTree(label treeLabel) (nodeHandle, bool) {
	parent := mp.nodes.randomMember(label, mp.randseed)
	sample := mp.sampleState()
	if !mp.checker(sample) {
		return noParent, false
	}

	seg, err := mp.solver.Segment(mp.nodes.node(parent).state, sample)
	if err != nil {
		// Expected to happen during search; the sample is discarded.
		return noParent, false
	}

	h := mp.nodes.add(sample, label, parent, seg)
	if obs := mp.opts.Observer; obs != nil {
		obs.EdgeAdded(mp.nodes.node(parent).state, sample)
	}
	return h, true
}

// sampleState returns a uniformly random in-bounds position with zero velocity.
func (mp *rampPlanner) sampleState() trajectory.State {
	n := mp.limits.Dim()
	positions := make([]float64, n)
	for i := range positions {
		positions[i] = mp.limits.Min[i] + mp.randseed.Float64()*(mp.limits.Max[i]-mp.limits.Min[i])
	}
	return trajectory.NewState(positions, make([]float64, n))
}

// reconstructPath stitches the two validated root-to-tip paths into one ordered
// state sequence from start to goal, splicing the original attachment states onto
// the braked roots at either end.
func (mp *rampPlanner) reconstructPath(path1, path2 []nodeHandle) []trajectory.State {
	forward, backward := path1, path2
	if mp.nodes.node(path1[0]).label != forwardTree {
		forward, backward = path2, path1
	}

	steps := make([]trajectory.State, 0, len(forward)+len(backward)+2)
	for _, h := range forward {
		steps = append(steps, mp.nodes.node(h).state.Clone())
	}
	for i := len(backward) - 1; i >= 0; i-- {
		steps = append(steps, mp.nodes.node(backward[i]).state.Clone())
	}

	// The anchors coincide with their braked roots only when they are already at
	// rest, which shows up as a zero-duration braking ramp.
	if mp.startBrake.Time > 0 {
		steps = append([]trajectory.State{mp.start.Clone()}, steps...)
	}
	if mp.goalBrake.Time > 0 {
		steps = append(steps, mp.goal.Clone())
	}
	return steps
}
