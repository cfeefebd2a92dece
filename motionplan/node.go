package motionplan

import (
	"math/rand"

	"go.viam.com/ramp/trajectory"
)

// treeLabel identifies which of the two trees owns a node. It is plain data used for
// bookkeeping; all trajectory math is label-agnostic.
type treeLabel int

const (
	forwardTree treeLabel = iota
	backwardTree
)

func (l treeLabel) other() treeLabel {
	if l == forwardTree {
		return backwardTree
	}
	return forwardTree
}

func (l treeLabel) String() string {
	if l == forwardTree {
		return "forward"
	}
	return "backward"
}

// nodeHandle indexes a node within the arena. Handles are assigned sequentially, so
// uniqueness is structural rather than randomized.
type nodeHandle int

// noParent marks a tree root.
const noParent nodeHandle = -1

// node is one sampled or seeded state within one of the two trees. The parent link
// points upward toward the tree's root; children are derived back-references. seg is
// the trajectory from the parent's state to this node's state, nil for roots.
type node struct {
	state    trajectory.State
	label    treeLabel
	parent   nodeHandle
	children []nodeHandle
	seg      *trajectory.Segment
}

// nodeSet is an arena holding every node of both trees, with per-tree membership
// lists. Storing links as handles rather than pointers keeps the forest free of
// ownership cycles: ownership lives in the arena, structure in the handles.
type nodeSet struct {
	nodes   []*node
	members [2][]nodeHandle
}

func newNodeSet() *nodeSet {
	return &nodeSet{}
}

// add appends a new node to the arena and its tree's membership list, wiring the
// parent's child back-reference when the node is not a root.
func (ns *nodeSet) add(state trajectory.State, label treeLabel, parent nodeHandle, seg *trajectory.Segment) nodeHandle {
	h := nodeHandle(len(ns.nodes))
	ns.nodes = append(ns.nodes, &node{state: state, label: label, parent: parent, seg: seg})
	ns.members[label] = append(ns.members[label], h)
	if parent != noParent {
		p := ns.nodes[parent]
		p.children = append(p.children, h)
	}
	return h
}

func (ns *nodeSet) node(h nodeHandle) *node {
	return ns.nodes[h]
}

func (ns *nodeSet) size(label treeLabel) int {
	return len(ns.members[label])
}

// randomMember returns a uniformly chosen node of the given tree.
func (ns *nodeSet) randomMember(label treeLabel, randseed *rand.Rand) nodeHandle {
	return ns.members[label][randseed.Intn(len(ns.members[label]))]
}

// reparent detaches h from its current parent and attaches it under newParent with
// the given connecting segment.
func (ns *nodeSet) reparent(h, newParent nodeHandle, seg *trajectory.Segment) {
	n := ns.nodes[h]
	if n.parent != noParent {
		removeHandle(&ns.nodes[n.parent].children, h)
	}
	n.parent = newParent
	n.seg = seg
	p := ns.nodes[newParent]
	p.children = append(p.children, h)
}

// relabelSubtree moves h and every node reachable through children into the given
// tree's membership set, returning the migrated handles.
func (ns *nodeSet) relabelSubtree(h nodeHandle, label treeLabel) []nodeHandle {
	var migrated []nodeHandle
	stack := []nodeHandle{h}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := ns.nodes[cur]
		if n.label != label {
			removeHandle(&ns.members[n.label], cur)
			n.label = label
			ns.members[label] = append(ns.members[label], cur)
			migrated = append(migrated, cur)
		}
		stack = append(stack, n.children...)
	}
	return migrated
}

// pathToRoot traces parent links from h and returns the node sequence ordered from
// the tree's root down to h.
func (ns *nodeSet) pathToRoot(h nodeHandle) []nodeHandle {
	var path []nodeHandle
	for cur := h; cur != noParent; cur = ns.nodes[cur].parent {
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func removeHandle(handles *[]nodeHandle, h nodeHandle) {
	for i, cur := range *handles {
		if cur == h {
			*handles = append((*handles)[:i], (*handles)[i+1:]...)
			return
		}
	}
}
