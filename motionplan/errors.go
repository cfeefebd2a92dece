package motionplan

import "errors"

// ErrNoPath is returned by Plan when no collision-free path was found: either the
// iteration budget was exhausted or the braking seeds could not be placed. It is a
// normal planning outcome, not a fault in the caller's inputs.
var ErrNoPath = errors.New("no collision-free path found")

var (
	errNilChecker     = errors.New("motion planner requires a collision checker")
	errBadStateLength = errors.New("start and goal states must have length twice the number of axes")
)
