package motionplan

import (
	"context"
	"math"

	"go.viam.com/utils"

	"go.viam.com/ramp/trajectory"
)

type neighborManager struct {
	nnKeys            chan nodeHandle
	neighbors         chan *neighbor
	nCPU              int
	parallelNeighbors int
}

type neighbor struct {
	dist   float64
	handle nodeHandle
}

// nearestNeighbor returns the member of the given tree closest to the target under
// the planner's weighted metric, together with its distance. Large trees are scanned
// in parallel; the scan is read-only, so tree mutation stays serialized in the
// planning loop.
func (nm *neighborManager) nearestNeighbor(
	ctx context.Context,
	mp *rampPlanner,
	target trajectory.State,
	members []nodeHandle,
) (nodeHandle, float64) {
	if len(members) > nm.parallelNeighbors {
		// If the tree is large, calculate distances in parallel
		return nm.parallelNearestNeighbor(ctx, mp, target, members)
	}
	bestDist := math.Inf(1)
	best := noParent
	for _, h := range members {
		dist := mp.weightedDistance(mp.nodes.node(h).state, target)
		if dist < bestDist {
			bestDist = dist
			best = h
		}
	}
	return best, bestDist
}

// parallelNearestNeighbor fans the distance scan out over nCPU workers. Workers
// block on the key channel and treat its closure as the completion signal, so the
// scan cannot spin against the feeder on a single-CPU host, and every worker sends
// exactly one candidate back regardless of how it exits.
func (nm *neighborManager) parallelNearestNeighbor(
	ctx context.Context,
	mp *rampPlanner,
	target trajectory.State,
	members []nodeHandle,
) (nodeHandle, float64) {
	nm.neighbors = make(chan *neighbor, nm.nCPU)
	nm.nnKeys = make(chan nodeHandle, nm.nCPU)
	for i := 0; i < nm.nCPU; i++ {
		utils.PanicCapturingGo(func() {
			nm.nnWorker(ctx, mp, target)
		})
	}

	// Stop feeding on cancellation; the close below still releases the workers.
feed:
	for _, h := range members {
		select {
		case <-ctx.Done():
			break feed
		case nm.nnKeys <- h:
		}
	}
	close(nm.nnKeys)

	best := noParent
	bestDist := math.Inf(1)
	for i := 0; i < nm.nCPU; i++ {
		nn := <-nm.neighbors
		if nn.dist < bestDist {
			bestDist = nn.dist
			best = nn.handle
		}
	}
	return best, bestDist
}

func (nm *neighborManager) nnWorker(ctx context.Context, mp *rampPlanner, target trajectory.State) {
	best := noParent
	bestDist := math.Inf(1)

	for h := range nm.nnKeys {
		if ctx.Err() != nil {
			break
		}
		dist := mp.weightedDistance(mp.nodes.node(h).state, target)
		if dist < bestDist {
			bestDist = dist
			best = h
		}
	}
	nm.neighbors <- &neighbor{bestDist, best}
}
