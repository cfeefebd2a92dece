// Package trajectory computes time-optimal and minimum-acceleration motion primitives
// for decoupled axes bounded by velocity and acceleration limits. Axes are solved
// independently and combined by sharing the slowest axis's traversal time.
package trajectory

import (
	"math"

	"github.com/pkg/errors"
)

// State is a kinodynamic state: a vector of length 2n whose first n components are
// positions and last n are velocities. The core attaches no unit or frame semantics.
type State []float64

// NewState concatenates per-axis positions and velocities into a State.
func NewState(positions, velocities []float64) State {
	s := make(State, 0, len(positions)+len(velocities))
	s = append(s, positions...)
	s = append(s, velocities...)
	return s
}

// Dim returns the number of independent axes.
func (s State) Dim() int {
	return len(s) / 2
}

// Positions returns the position half of the state. The returned slice aliases the state.
func (s State) Positions() []float64 {
	return s[:len(s)/2]
}

// Velocities returns the velocity half of the state. The returned slice aliases the state.
func (s State) Velocities() []float64 {
	return s[len(s)/2:]
}

// Clone returns a copy of the state.
func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// Limits bounds each axis of a kinodynamic state: position range plus symmetric
// velocity and acceleration magnitudes.
type Limits struct {
	Min  []float64 // minimum position per axis
	Max  []float64 // maximum position per axis
	VMax []float64 // maximum velocity magnitude per axis
	AMax []float64 // maximum acceleration magnitude per axis
}

// Dim returns the number of axes the limits describe.
func (l *Limits) Dim() int {
	return len(l.VMax)
}

// Validate checks that the limits are internally consistent and usable for planning.
func (l *Limits) Validate() error {
	n := len(l.VMax)
	if n == 0 {
		return errors.New("limits must cover at least one axis")
	}
	if len(l.Min) != n || len(l.Max) != n || len(l.AMax) != n {
		return errors.Errorf("mismatched limit lengths: min %d max %d vmax %d amax %d",
			len(l.Min), len(l.Max), n, len(l.AMax))
	}
	for i := 0; i < n; i++ {
		if l.Min[i] >= l.Max[i] {
			return errors.Errorf("axis %d has empty position range [%f, %f]", i, l.Min[i], l.Max[i])
		}
		if l.VMax[i] <= 0 || math.IsInf(l.VMax[i], 0) {
			return errors.Errorf("axis %d has invalid velocity limit %f", i, l.VMax[i])
		}
		if l.AMax[i] <= 0 || math.IsInf(l.AMax[i], 0) {
			return errors.Errorf("axis %d has invalid acceleration limit %f", i, l.AMax[i])
		}
	}
	return nil
}

// InBounds reports whether the position components of the state fall within the
// position limits. Velocity components are not checked.
func (l *Limits) InBounds(s State) bool {
	for i, p := range s.Positions() {
		if p < l.Min[i] || p > l.Max[i] {
			return false
		}
	}
	return true
}
