package hierarchy

import (
	"github.com/blktree/blktree/internal/device"
)

// Node wraps one device record together with its ordered children. A node is
// owned by its parent, or by the forest when it is a root.
type Node struct {
	Record   device.Record
	Children []*Node
}

// Forest holds the root nodes of the reconstructed device hierarchy, ordered
// by name ascending.
type Forest struct {
	Roots []*Node
}

// Walk visits every node pre-order: a node first, then its children in child
// order. The callback receives the node and its depth (roots are depth 0).
func (f *Forest) Walk(visit func(n *Node, depth int)) {
	for _, root := range f.Roots {
		walkNode(root, 0, visit)
	}
}

func walkNode(n *Node, depth int, visit func(n *Node, depth int)) {
	visit(n, depth)
	for _, child := range n.Children {
		walkNode(child, depth+1, visit)
	}
}

// Len returns the total number of nodes in the forest.
func (f *Forest) Len() int {
	count := 0
	f.Walk(func(*Node, int) { count++ })
	return count
}
