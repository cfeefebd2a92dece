package motionplan

import (
	"encoding/json"
	"runtime"

	"github.com/pkg/errors"
)

// default values for planning options.
const (
	// Number of planner iterations before giving up.
	defaultPlanIter = 20000

	// Trajectory-time spacing, in seconds, between collision samples along an edge.
	defaultTimeStep = 0.01

	// Weighted-distance threshold below which two trees are close enough to propose
	// a bridge.
	defaultConnectDist = 0.1

	// Default number of iterations handed to the smoother.
	defaultSmoothIter = 10

	// Tree size above which nearest-neighbor scans are spread across workers.
	defaultParallelNeighbors = 1000
)

var defaultNumThreads = runtime.NumCPU() / 2

// PlannerOptions are a set of options to be passed to a planner specifying how to
// solve a planning problem.
type PlannerOptions struct {
	// Number of planner iterations before giving up.
	PlanIter int `json:"plan_iter"`

	// Check edges for collision every this many seconds of trajectory time.
	TimeStep float64 `json:"time_step"`

	// Maximum weighted distance at which a bridge between the trees is proposed.
	ConnectDist float64 `json:"connect_dist"`

	// Number of times the smoother should iterate over a found path.
	SmoothIter int `json:"smooth_iter"`

	// Number of cpu cores to use for nearest-neighbor scans.
	NumThreads int `json:"num_threads"`

	// Smoother refines the coarse path after a successful plan. Nil skips smoothing
	// and the coarse path is returned as-is.
	Smoother Smoother

	// Observer, if set, receives tree mutation events.
	Observer Observer
}

// NewBasicPlannerOptions specifies a set of default options for the planner.
func NewBasicPlannerOptions() *PlannerOptions {
	opt := &PlannerOptions{}
	opt.PlanIter = defaultPlanIter
	opt.TimeStep = defaultTimeStep
	opt.ConnectDist = defaultConnectDist
	opt.SmoothIter = defaultSmoothIter
	opt.NumThreads = defaultNumThreads
	if opt.NumThreads < 1 {
		opt.NumThreads = 1
	}
	return opt
}

// NewPlannerOptionsFromExtra creates planner options pre-set to defaults, then
// overridden by any matching keys in the given map.
func NewPlannerOptionsFromExtra(extra map[string]interface{}) (*PlannerOptions, error) {
	opt := NewBasicPlannerOptions()
	if len(extra) == 0 {
		return opt, nil
	}
	// convert map to json
	jsonString, err := json.Marshal(extra)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(jsonString, opt); err != nil {
		return nil, err
	}
	return opt, opt.validate()
}

func (opt *PlannerOptions) validate() error {
	if opt.PlanIter <= 0 {
		return errors.Errorf("plan_iter must be positive, got %d", opt.PlanIter)
	}
	if opt.TimeStep <= 0 {
		return errors.Errorf("time_step must be positive, got %f", opt.TimeStep)
	}
	if opt.ConnectDist <= 0 {
		return errors.Errorf("connect_dist must be positive, got %f", opt.ConnectDist)
	}
	if opt.NumThreads < 1 {
		return errors.Errorf("num_threads must be at least 1, got %d", opt.NumThreads)
	}
	return nil
}
