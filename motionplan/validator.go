package motionplan

import (
	"go.viam.com/ramp/trajectory"
)

// infeasibleEdge identifies a lazily discovered collision: the failing edge's
// endpoints plus the two bridge tips whose proposed connection triggered the check.
// The bridge context is what repair needs to splice the trees back together.
type infeasibleEdge struct {
	segStart nodeHandle
	segEnd   nodeHandle
	bridge1  nodeHandle
	bridge2  nodeHandle
}

// edgeIsFree samples the segment at the configured time resolution and queries the
// collision predicate at each sample. A zero-duration segment is trivially free.
func (mp *rampPlanner) edgeIsFree(seg *trajectory.Segment) bool {
	if seg == nil || seg.Time == 0 {
		return true
	}
	samples := int(seg.Time/mp.opts.TimeStep) + 1
	if samples == 1 {
		return mp.checker(mp.solver.StateAt(seg, 0))
	}
	for i := 0; i < samples; i++ {
		t := seg.Time * float64(i) / float64(samples-1)
		if !mp.checker(mp.solver.StateAt(seg, t)) {
			return false
		}
	}
	return true
}

// checkPath validates each parent-to-child edge of a root-to-leaf node sequence in
// order, returning the first offending pair, or ok if the whole path is free.
func (mp *rampPlanner) checkPath(path []nodeHandle) (nodeHandle, nodeHandle, bool) {
	for i := 0; i+1 < len(path); i++ {
		if !mp.edgeIsFree(mp.nodes.node(path[i+1]).seg) {
			return path[i], path[i+1], false
		}
	}
	return noParent, noParent, true
}

// checkBridgeAndPaths validates the two root-to-tip paths of a proposed connection,
// then the bridge segment between their tips. It returns nil when everything is
// collision-free, otherwise the failing edge with its bridge context. A bridge
// segment that cannot be solved at all is reported the same way as a colliding one,
// so the proposal is simply discarded.
func (mp *rampPlanner) checkBridgeAndPaths(path1, path2 []nodeHandle) *infeasibleEdge {
	tip1, tip2 := path1[len(path1)-1], path2[len(path2)-1]

	if start, end, ok := mp.checkPath(path1); !ok {
		return &infeasibleEdge{start, end, tip1, tip2}
	}
	if start, end, ok := mp.checkPath(path2); !ok {
		return &infeasibleEdge{start, end, tip1, tip2}
	}

	bridge, err := mp.solver.Segment(mp.nodes.node(tip1).state, mp.nodes.node(tip2).state)
	if err != nil || !mp.edgeIsFree(bridge) {
		return &infeasibleEdge{tip1, tip2, tip1, tip2}
	}
	return nil
}
