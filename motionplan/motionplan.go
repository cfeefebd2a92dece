// Package motionplan plans collision-free, dynamically feasible motion for a point
// with decoupled per-axis dynamics bounded by velocity and acceleration limits.
// Obstacles are known only through a caller-supplied collision predicate.
package motionplan

import (
	"context"

	"go.viam.com/ramp/trajectory"
)

// MotionPlanner provides an interface to path planning methods, providing ways to request
// a path to be planned between a start and a goal state fixed at construction.
type MotionPlanner interface {
	// Plan will return an ordered sequence of states from start to goal whose connecting
	// trajectories are collision-free at the configured time resolution, or ErrNoPath if
	// planning did not succeed within the iteration budget.
	Plan(ctx context.Context) ([]trajectory.State, error)
}

// CollisionChecker reports whether a state is in free space (true = free). The planner
// treats it as a pure, side-effect-free function of position; velocity components of the
// state are passed through but not interpreted.
type CollisionChecker func(trajectory.State) bool

// Smoother refines a coarse, dynamically connected path. It receives the axis limits,
// the same collision predicate the planner uses, and an iteration count, and returns a
// refined state sequence. The planner calls it at most once per successful plan.
type Smoother func(
	path []trajectory.State,
	limits *trajectory.Limits,
	checker CollisionChecker,
	iterations int,
) ([]trajectory.State, error)

// Observer receives tree mutation events as the planner runs. All methods are invoked
// synchronously from the planning goroutine; implementations must be fast and must not
// call back into the planner.
type Observer interface {
	// EdgeAdded is called when a new edge connects a parent state to a child state.
	EdgeAdded(parent, child trajectory.State)
	// EdgeRemoved is called when an edge is detached during tree repair.
	EdgeRemoved(parent, child trajectory.State)
	// NodeMigrated is called when a node changes tree membership during repair.
	NodeMigrated(state trajectory.State)
}
