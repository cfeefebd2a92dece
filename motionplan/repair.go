package motionplan

// repair consolidates the trees after a lazily discovered collision. If the failing
// edge is the bridge itself there is no tree structure to fix and the proposal is
// simply dropped. Otherwise the failing edge is internal to one tree: the portion of
// that tree between the bridge tip and the collision point is inverted and spliced
// onto the other tree, so already-explored samples survive the repair.
func (mp *rampPlanner) repair(edge *infeasibleEdge) {
	ns := mp.nodes

	// Bridge failure: the endpoints live in different trees.
	if ns.node(edge.segStart).label != ns.node(edge.segEnd).label {
		return
	}

	// Identify which bridge tip shares a tree with the failing edge.
	sameTree, otherTree := edge.bridge1, edge.bridge2
	if ns.node(sameTree).label != ns.node(edge.segEnd).label {
		sameTree, otherTree = otherTree, sameTree
	}
	newLabel := ns.node(otherTree).label

	mp.logger.Debugf("repairing %s tree after internal edge collision", newLabel.other())

	// Walk from the same-tree bridge tip up toward the old root, re-hanging each node
	// under the node processed in the previous step (initially the other tree's bridge
	// tip) and migrating its whole subtree. The walk stops at the failing edge's
	// parent-side endpoint, which removes the failing edge from the forest: its child
	// side ends up parented within the other tree.
	current := sameTree
	newParent := otherTree
	for current != edge.segStart {
		oldParent := ns.node(current).parent

		seg, err := mp.solver.Segment(ns.node(newParent).state, ns.node(current).state)
		if err != nil {
			// No primitive connects the new parent to this node. Abandon the rest of
			// the walk: nodes not yet visited keep their old, still-consistent links.
			mp.logger.Debugf("tree repair stopped early: %s", err)
			return
		}

		if obs := mp.opts.Observer; obs != nil {
			if oldParent != noParent {
				obs.EdgeRemoved(ns.node(oldParent).state, ns.node(current).state)
			}
			obs.EdgeAdded(ns.node(newParent).state, ns.node(current).state)
		}

		ns.reparent(current, newParent, seg)
		migrated := ns.relabelSubtree(current, newLabel)
		if obs := mp.opts.Observer; obs != nil {
			for _, h := range migrated {
				obs.NodeMigrated(ns.node(h).state)
			}
		}

		newParent = current
		current = oldParent
	}
}
