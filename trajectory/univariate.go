package trajectory

import (
	"math"
)

// Class identifies one of the four closed-form univariate motion primitives.
// P denotes a constant-acceleration parabola (+ accelerating, - decelerating),
// L a constant-velocity cruise at the velocity limit.
type Class string

// The four primitive classes.
const (
	ClassAccelDecel       Class = "P+P-"   // accelerate then decelerate
	ClassDecelAccel       Class = "P-P+"   // decelerate then accelerate
	ClassAccelCruiseDecel Class = "P+L+P-" // accelerate to vmax, cruise, decelerate
	ClassDecelCruiseAccel Class = "P-L-P+" // decelerate to -vmax, cruise, accelerate
)

const (
	// Extra time slack allowed when checking a switch time against the segment duration.
	tMargin = 1e-4
	// Acceleration slack before a solution is rejected as over the limit.
	aMargin = 1e-6
)

// solveQuadratic returns the real roots of ax^2 + bx + c = 0, larger root first.
// An empty slice is returned when the discriminant is negative.
func solveQuadratic(a, b, c float64) []float64 {
	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return nil
	}
	sqrtDiscriminant := math.Sqrt(discriminant)
	return []float64{(-b + sqrtDiscriminant) / (2 * a), (-b - sqrtDiscriminant) / (2 * a)}
}

// minimumTime computes the time-optimal duration connecting (x1, v1) to (x2, v2)
// on one axis. All four primitive classes are evaluated and the fastest feasible
// one wins; ErrNoFeasiblePrimitive is returned if none apply.
func minimumTime(x1, x2, v1, v2, vmax, amax float64) (float64, error) {
	best := math.Inf(1)
	found := false

	// P+P-: solve for the duration of the accelerating parabola. The root must leave
	// room to reach v2 and must not exceed vmax at the switch.
	for _, tp := range solveQuadratic(amax, 2*v1, (v1*v1-v2*v2)/(2*amax)+x1-x2) {
		if tp >= math.Max((v2-v1)/amax, 0) && tp <= (vmax-v1)/amax {
			if t := 2*tp + (v1-v2)/amax; t < best {
				best = t
				found = true
			}
			break
		}
	}

	// P-P+: mirror case with the roles of the velocities reversed.
	for _, tp := range solveQuadratic(amax, -2*v1, (v1*v1-v2*v2)/(2*amax)+x2-x1) {
		if tp >= math.Max((v1-v2)/amax, 0) && tp <= (vmax+v1)/amax {
			if t := 2*tp + (v2-v1)/amax; t < best {
				best = t
				found = true
			}
			break
		}
	}

	// P+L+P-: accelerate to vmax, cruise, decelerate. All three phases need
	// non-negative duration.
	tp1 := (vmax - v1) / amax
	tp2 := (vmax - v2) / amax
	tl := (v2*v2+v1*v1-2*vmax*vmax)/(2*vmax*amax) + (x2-x1)/vmax
	if tp1 >= 0 && tp2 >= 0 && tl >= 0 {
		if t := tp1 + tl + tp2; t < best {
			best = t
			found = true
		}
	}

	// P-L-P+: cruise at -vmax.
	tp1 = (vmax + v1) / amax
	tp2 = (vmax + v2) / amax
	tl = (v2*v2+v1*v1-2*vmax*vmax)/(2*vmax*amax) - (x2-x1)/vmax
	if tp1 >= 0 && tp2 >= 0 && tl >= 0 {
		if t := tp1 + tl + tp2; t < best {
			best = t
			found = true
		}
	}

	if !found {
		return 0, ErrNoFeasiblePrimitive
	}
	return best, nil
}

// minimumAcceleration computes the smallest acceleration magnitude realizing the
// axis motion in exactly duration T without exceeding vmax. The winning class tag
// is returned alongside. A result over amax (beyond a small numeric margin) means
// the segment cannot be realized in T on this axis and ErrSegmentInfeasible is
// returned; results within the margin are clamped into [0, amax].
func minimumAcceleration(x1, x2, v1, v2, vmax, amax, T float64) (Profile, error) {
	best := math.Inf(1)
	var bestClass Class

	consider := func(a float64, class Class) {
		if a < best {
			best = a
			bestClass = class
		}
	}

	// P+P-: quadratic in a; a valid root must yield a switch time inside the segment
	// and a peak velocity within vmax.
	for _, a := range solveQuadratic(T*T, 2*T*(v1+v2)+4*(x1-x2), -(v2-v1)*(v2-v1)) {
		if a <= 0 {
			continue
		}
		ts := 0.5 * (T + (v2-v1)/a)
		if 0 < ts && ts < T+tMargin && math.Abs(v1+a*ts) <= vmax {
			consider(a, ClassAccelDecel)
		}
	}

	// P-P+.
	for _, a := range solveQuadratic(T*T, -2*T*(v1+v2)-4*(x1-x2), -(v2-v1)*(v2-v1)) {
		if a <= 0 {
			continue
		}
		ts := 0.5 * (T + (v1-v2)/a)
		if 0 < ts && ts < T+tMargin && math.Abs(v1-a*ts) <= vmax {
			consider(a, ClassDecelAccel)
		}
	}

	// P+L+P-: closed form for a; phase durations must all be non-negative.
	if a := (vmax*vmax - vmax*(v1+v2) + 0.5*(v1*v1+v2*v2)) / (T*vmax - (x2 - x1)); a > 0 {
		tp1 := (vmax - v1) / a
		tp2 := (vmax - v2) / a
		tl := T - tp1 - tp2
		if tp1 >= 0 && tp2 >= 0 && tl >= 0 {
			consider(a, ClassAccelCruiseDecel)
		}
	}

	// P-L-P+.
	if a := (vmax*vmax + vmax*(v1+v2) + 0.5*(v1*v1+v2*v2)) / (T*vmax + (x2 - x1)); a > 0 {
		tp1 := (vmax + v1) / a
		tp2 := (vmax + v2) / a
		tl := T - tp1 - tp2
		if tp1 >= 0 && tp2 >= 0 && tl >= 0 {
			consider(a, ClassDecelCruiseAccel)
		}
	}

	if math.IsInf(best, 1) {
		return Profile{}, ErrSegmentInfeasible
	}
	if best > amax+aMargin {
		return Profile{}, ErrSegmentInfeasible
	}
	return Profile{Accel: math.Min(math.Max(best, 0), amax), Class: bestClass}, nil
}

// univariateState evaluates the closed-form position and velocity of one axis at
// relative time t within a segment of duration T, branching on the primitive class.
// Position and velocity are continuous at phase boundaries.
func univariateState(x1, v1, v2, a, vmax, T float64, class Class, t float64) (float64, float64) {
	// Zero acceleration means the axis holds constant velocity.
	if a == 0 {
		return x1 + v1*t, v1
	}

	switch class {
	case ClassAccelDecel:
		ts := 0.5 * (T + (v2-v1)/a)
		if t <= ts {
			return x1 + v1*t + 0.5*a*t*t, v1 + a*t
		}
		dt := t - ts
		vPeak := v1 + a*ts
		x := x1 + v1*ts + 0.5*a*ts*ts + vPeak*dt - 0.5*a*dt*dt
		return x, vPeak - a*dt
	case ClassDecelAccel:
		ts := 0.5 * (T + (v1-v2)/a)
		if t <= ts {
			return x1 + v1*t - 0.5*a*t*t, v1 - a*t
		}
		dt := t - ts
		vValley := v1 - a*ts
		x := x1 + v1*ts - 0.5*a*ts*ts + vValley*dt + 0.5*a*dt*dt
		return x, vValley + a*dt
	case ClassAccelCruiseDecel:
		tp1 := (vmax - v1) / a
		tp2 := (vmax - v2) / a
		tl := T - tp1 - tp2
		switch {
		case t <= tp1:
			return x1 + v1*t + 0.5*a*t*t, v1 + a*t
		case t <= tp1+tl:
			dt := t - tp1
			return x1 + v1*tp1 + 0.5*a*tp1*tp1 + vmax*dt, vmax
		default:
			dt := t - tp1 - tl
			x := x1 + v1*tp1 + 0.5*a*tp1*tp1 + vmax*tl + vmax*dt - 0.5*a*dt*dt
			return x, vmax - a*dt
		}
	case ClassDecelCruiseAccel:
		tp1 := (vmax + v1) / a
		tp2 := (vmax + v2) / a
		tl := T - tp1 - tp2
		switch {
		case t <= tp1:
			return x1 + v1*t - 0.5*a*t*t, v1 - a*t
		case t <= tp1+tl:
			dt := t - tp1
			return x1 + v1*tp1 - 0.5*a*tp1*tp1 - vmax*dt, -vmax
		default:
			dt := t - tp1 - tl
			x := x1 + v1*tp1 - 0.5*a*tp1*tp1 - vmax*tl - vmax*dt + 0.5*a*dt*dt
			return x, -vmax + a*dt
		}
	}
	return math.NaN(), math.NaN()
}
