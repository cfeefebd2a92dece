package trajectory

import "errors"

var (
	// ErrNoFeasiblePrimitive is returned when no motion-primitive class can connect
	// two axis states within the velocity and acceleration limits.
	ErrNoFeasiblePrimitive = errors.New("no feasible motion primitive for axis states")

	// ErrSegmentInfeasible is returned when a segment cannot be realized in a given
	// duration without exceeding the acceleration limit. This is expected when the
	// duration was sized by a different axis.
	ErrSegmentInfeasible = errors.New("segment infeasible within acceleration limit for given duration")
)
