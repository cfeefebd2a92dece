package trajectory

import (
	"math"

	"github.com/pkg/errors"
)

// The shared segment duration gets a small pad past the slowest axis's optimal time
// so every axis retains a strictly feasible fixed-time solution.
const timeMargin = 1e-6

// Profile describes the closed-form motion of a single axis over a segment: the
// acceleration magnitude used and the primitive class realizing it.
type Profile struct {
	Accel float64
	Class Class
}

// Segment is a time-parameterized multi-axis trajectory between two states. All
// axes share the duration Time; Profiles holds the per-axis closed form.
type Segment struct {
	Start    State
	End      State
	Time     float64
	Profiles []Profile
}

// Solver computes trajectory segments under a fixed set of axis limits.
type Solver struct {
	limits *Limits
}

// NewSolver returns a Solver bound to the given limits.
func NewSolver(limits *Limits) (*Solver, error) {
	if err := limits.Validate(); err != nil {
		return nil, errors.Wrap(err, "cannot create trajectory solver")
	}
	return &Solver{limits: limits}, nil
}

// Limits returns the axis limits the solver was built with.
func (s *Solver) Limits() *Limits {
	return s.limits
}

// Segment connects two states with a shared-duration trajectory: the duration is
// the maximum per-axis time-optimal duration plus a safety margin, and each axis
// then gets its minimum-acceleration primitive for that duration.
func (s *Solver) Segment(start, end State) (*Segment, error) {
	n := s.limits.Dim()
	duration := 0.
	for i := 0; i < n; i++ {
		t, err := minimumTime(
			start.Positions()[i], end.Positions()[i],
			start.Velocities()[i], end.Velocities()[i],
			s.limits.VMax[i], s.limits.AMax[i],
		)
		if err != nil {
			return nil, err
		}
		duration = math.Max(duration, t)
	}
	duration += timeMargin

	profiles := make([]Profile, 0, n)
	for i := 0; i < n; i++ {
		profile, err := minimumAcceleration(
			start.Positions()[i], end.Positions()[i],
			start.Velocities()[i], end.Velocities()[i],
			s.limits.VMax[i], s.limits.AMax[i], duration,
		)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return &Segment{Start: start, End: end, Time: duration, Profiles: profiles}, nil
}

// BrakingSegment returns the maximum-braking trajectory arriving at the given
// state: constant per-axis deceleration from the unique zero-velocity state that
// reaches it. The segment runs from the rest state to the given state; a state
// already at rest yields a zero-duration segment.
func (s *Solver) BrakingSegment(state State) *Segment {
	n := s.limits.Dim()
	tMax := 0.
	for i, v := range state.Velocities() {
		tMax = math.Max(tMax, math.Abs(v)/s.limits.AMax[i])
	}

	restPos := make([]float64, n)
	profiles := make([]Profile, n)
	for i := 0; i < n; i++ {
		restPos[i] = state.Positions()[i]
		profiles[i] = Profile{Accel: 0, Class: ClassAccelDecel}
		if tMax > 0 {
			a := state.Velocities()[i] / tMax
			restPos[i] += -0.5 * a * tMax * tMax
			profiles[i].Accel = math.Abs(a)
		}
	}
	rest := NewState(restPos, make([]float64, n))
	return &Segment{Start: rest, End: state.Clone(), Time: tMax, Profiles: profiles}
}

// StateAt evaluates the segment at relative time t in [0, Time].
func (s *Solver) StateAt(seg *Segment, t float64) State {
	n := s.limits.Dim()
	positions := make([]float64, n)
	velocities := make([]float64, n)
	for i := 0; i < n; i++ {
		positions[i], velocities[i] = univariateState(
			seg.Start.Positions()[i],
			seg.Start.Velocities()[i], seg.End.Velocities()[i],
			seg.Profiles[i].Accel, s.limits.VMax[i], seg.Time,
			seg.Profiles[i].Class, t,
		)
	}
	return NewState(positions, velocities)
}
