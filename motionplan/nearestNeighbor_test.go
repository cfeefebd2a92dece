package motionplan

import (
	"context"
	"math"
	"runtime"
	"testing"

	"go.viam.com/test"

	"go.viam.com/ramp/trajectory"
)

func TestNearestNeighbor(t *testing.T) {
	mp := newTestPlanner(
		t, rest1(-9), rest1(9), func(trajectory.State) bool { return true }, lineLimits(), nil,
	)
	mp.nodes = newNodeSet()
	for i := 0; i < 50; i++ {
		mp.nodes.add(rest1(float64(i)*0.2), forwardTree, noParent, nil)
	}
	target := rest1(3.05)
	members := mp.nodes.members[forwardTree]

	// Serial scan.
	nm := &neighborManager{nCPU: 4, parallelNeighbors: defaultParallelNeighbors}
	near, dist := nm.nearestNeighbor(context.Background(), mp, target, members)
	test.That(t, mp.nodes.node(near).state.Positions()[0], test.ShouldAlmostEqual, 3.0)
	test.That(t, dist, test.ShouldAlmostEqual, 0.05/20)

	// Parallel scan over the same members must agree.
	nm = &neighborManager{nCPU: 4, parallelNeighbors: 10}
	pNear, pDist := nm.nearestNeighbor(context.Background(), mp, target, members)
	test.That(t, pNear, test.ShouldEqual, near)
	test.That(t, pDist, test.ShouldAlmostEqual, dist)
}

func TestNearestNeighborEmpty(t *testing.T) {
	mp := newTestPlanner(
		t, rest1(-9), rest1(9), func(trajectory.State) bool { return true }, lineLimits(), nil,
	)
	mp.nodes = newNodeSet()

	nm := &neighborManager{nCPU: 2, parallelNeighbors: defaultParallelNeighbors}
	near, dist := nm.nearestNeighbor(context.Background(), mp, rest1(0), nil)
	test.That(t, near, test.ShouldEqual, noParent)
	test.That(t, math.IsInf(dist, 1), test.ShouldBeTrue)
}

func TestNearestNeighborParallelSingleProc(t *testing.T) {
	// The parallel scan must keep making progress when only one OS thread is
	// available to the scheduler.
	defer runtime.GOMAXPROCS(runtime.GOMAXPROCS(1))

	mp := newTestPlanner(
		t, rest1(-9), rest1(9), func(trajectory.State) bool { return true }, lineLimits(), nil,
	)
	mp.nodes = newNodeSet()
	for i := 0; i < 1200; i++ {
		mp.nodes.add(rest1(-9+float64(i)*0.015), forwardTree, noParent, nil)
	}
	members := mp.nodes.members[forwardTree]

	nm := &neighborManager{nCPU: 2, parallelNeighbors: 1000}
	for i := 0; i < 50; i++ {
		target := rest1(-9 + float64(i)*0.3)
		near, dist := nm.nearestNeighbor(context.Background(), mp, target, members)
		test.That(t, near, test.ShouldNotEqual, noParent)
		// Member spacing is 0.015, so the nearest is never further than half that.
		test.That(t, dist, test.ShouldBeLessThanOrEqualTo, 0.0075/20+1e-12)
	}
}

func TestNearestNeighborCancelled(t *testing.T) {
	mp := newTestPlanner(
		t, rest1(-9), rest1(9), func(trajectory.State) bool { return true }, lineLimits(), nil,
	)
	mp.nodes = newNodeSet()
	for i := 0; i < 50; i++ {
		mp.nodes.add(rest1(float64(i)*0.2), forwardTree, noParent, nil)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	nm := &neighborManager{nCPU: 2, parallelNeighbors: 10}
	near, _ := nm.nearestNeighbor(ctx, mp, rest1(3), mp.nodes.members[forwardTree])
	test.That(t, near, test.ShouldEqual, noParent)
}
