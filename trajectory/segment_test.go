package trajectory

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func makeLimits(t *testing.T) *Limits {
	t.Helper()
	return &Limits{
		Min:  []float64{-10, -10},
		Max:  []float64{10, 10},
		VMax: []float64{2, 2},
		AMax: []float64{1, 1},
	}
}

func TestLimitsValidate(t *testing.T) {
	limits := makeLimits(t)
	test.That(t, limits.Validate(), test.ShouldBeNil)

	bad := &Limits{Min: []float64{0}, Max: []float64{1}, VMax: []float64{1}, AMax: []float64{0}}
	test.That(t, bad.Validate(), test.ShouldNotBeNil)

	bad = &Limits{Min: []float64{2}, Max: []float64{1}, VMax: []float64{1}, AMax: []float64{1}}
	test.That(t, bad.Validate(), test.ShouldNotBeNil)

	bad = &Limits{Min: []float64{0, 0}, Max: []float64{1}, VMax: []float64{1}, AMax: []float64{1}}
	test.That(t, bad.Validate(), test.ShouldNotBeNil)

	bad = &Limits{}
	test.That(t, bad.Validate(), test.ShouldNotBeNil)
}

func TestLimitsInBounds(t *testing.T) {
	limits := makeLimits(t)
	test.That(t, limits.InBounds(NewState([]float64{0, 0}, []float64{0, 0})), test.ShouldBeTrue)
	test.That(t, limits.InBounds(NewState([]float64{-11, 0}, []float64{0, 0})), test.ShouldBeFalse)
	test.That(t, limits.InBounds(NewState([]float64{0, 10.5}, []float64{0, 0})), test.ShouldBeFalse)
}

func TestStateAccessors(t *testing.T) {
	state := NewState([]float64{1, 2}, []float64{3, 4})
	test.That(t, state.Dim(), test.ShouldEqual, 2)
	test.That(t, state.Positions(), test.ShouldResemble, []float64{1, 2})
	test.That(t, state.Velocities(), test.ShouldResemble, []float64{3, 4})

	clone := state.Clone()
	clone[0] = 99
	test.That(t, state[0], test.ShouldAlmostEqual, 1)
}

func TestSolverSegment(t *testing.T) {
	solver, err := NewSolver(makeLimits(t))
	test.That(t, err, test.ShouldBeNil)

	start := NewState([]float64{0, 0}, []float64{0, 0})
	end := NewState([]float64{5, 0.1}, []float64{0, 0})

	seg, err := solver.Segment(start, end)
	test.That(t, err, test.ShouldBeNil)

	// The first axis needs 4.5s and dominates the shared duration.
	test.That(t, seg.Time, test.ShouldAlmostEqual, 4.5+timeMargin, 1e-9)
	test.That(t, seg.Profiles, test.ShouldHaveLength, 2)
	test.That(t, seg.Profiles[0].Class, test.ShouldEqual, ClassAccelCruiseDecel)
	test.That(t, seg.Profiles[0].Accel, test.ShouldAlmostEqual, 1, 1e-5)

	// Both endpoints must be reproduced by evaluation.
	atStart := solver.StateAt(seg, 0)
	atEnd := solver.StateAt(seg, seg.Time)
	for i := range start {
		test.That(t, atStart[i], test.ShouldAlmostEqual, start[i], 1e-6)
		test.That(t, atEnd[i], test.ShouldAlmostEqual, end[i], 1e-6)
	}
}

func TestSolverSegmentInfeasible(t *testing.T) {
	solver, err := NewSolver(makeLimits(t))
	test.That(t, err, test.ShouldBeNil)

	// The first axis forces a long duration the second axis cannot stall
	// through at full velocity without exceeding its acceleration limit.
	start := NewState([]float64{0, 0}, []float64{0, 2})
	end := NewState([]float64{5, 0.5}, []float64{0, 2})
	_, err = solver.Segment(start, end)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSolverSegmentVelocityBounds(t *testing.T) {
	solver, err := NewSolver(makeLimits(t))
	test.That(t, err, test.ShouldBeNil)

	start := NewState([]float64{-5, 0}, []float64{1, 0})
	end := NewState([]float64{5, 2}, []float64{-1, 0.5})
	seg, err := solver.Segment(start, end)
	test.That(t, err, test.ShouldBeNil)

	// Sampled velocities never exceed vmax, sampled positions follow a
	// continuous curve between the endpoints.
	prev := solver.StateAt(seg, 0)
	for i := 1; i <= 100; i++ {
		at := seg.Time * float64(i) / 100
		state := solver.StateAt(seg, at)
		for axis := 0; axis < 2; axis++ {
			test.That(t, math.Abs(state.Velocities()[axis]), test.ShouldBeLessThanOrEqualTo, 2+1e-6)
			test.That(t, math.Abs(state.Positions()[axis]-prev.Positions()[axis]), test.ShouldBeLessThan, 0.5)
		}
		prev = state
	}
}

func TestBrakingSegment(t *testing.T) {
	limits := &Limits{Min: []float64{-10}, Max: []float64{10}, VMax: []float64{4}, AMax: []float64{1}}
	solver, err := NewSolver(limits)
	test.That(t, err, test.ShouldBeNil)

	seg := solver.BrakingSegment(NewState([]float64{0}, []float64{3}))
	test.That(t, seg.Time, test.ShouldAlmostEqual, 3)
	test.That(t, seg.Start.Positions()[0], test.ShouldAlmostEqual, -4.5)
	test.That(t, seg.Start.Velocities()[0], test.ShouldAlmostEqual, 0)
	test.That(t, seg.Profiles[0].Accel, test.ShouldAlmostEqual, 1)

	// Evaluating the braking ramp from rest recovers the attachment state.
	atEnd := solver.StateAt(seg, seg.Time)
	test.That(t, atEnd.Positions()[0], test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, atEnd.Velocities()[0], test.ShouldAlmostEqual, 3, 1e-9)
}

func TestBrakingSegmentMixedAxes(t *testing.T) {
	solver, err := NewSolver(makeLimits(t))
	test.That(t, err, test.ShouldBeNil)

	// The second axis is already at rest and must hold its position for the
	// whole ramp.
	seg := solver.BrakingSegment(NewState([]float64{0, 5}, []float64{2, 0}))
	test.That(t, seg.Time, test.ShouldAlmostEqual, 2)
	test.That(t, seg.Start.Positions()[0], test.ShouldAlmostEqual, -2)
	test.That(t, seg.Start.Positions()[1], test.ShouldAlmostEqual, 5)

	mid := solver.StateAt(seg, 1)
	test.That(t, mid.Positions()[1], test.ShouldAlmostEqual, 5)
	test.That(t, mid.Velocities()[1], test.ShouldAlmostEqual, 0)
}

func TestBrakingSegmentAtRest(t *testing.T) {
	solver, err := NewSolver(makeLimits(t))
	test.That(t, err, test.ShouldBeNil)

	state := NewState([]float64{1, 2}, []float64{0, 0})
	seg := solver.BrakingSegment(state)
	test.That(t, seg.Time, test.ShouldAlmostEqual, 0)
	test.That(t, seg.Start.Positions(), test.ShouldResemble, state.Positions())
}
