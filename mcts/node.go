package mcts

// Node is a single state of a search problem.
// K identifies the node inside the tree; two nodes with the same key share
// all bookkeeping.
type Node[K comparable] interface {
	// Key returns the identity of the node.
	Key() K

	// FindChildren returns every successor of the node.
	FindChildren() ([]Node[K], error)

	// FindRandomChild returns one successor picked at random, used by rollouts.
	FindRandomChild() (Node[K], error)

	// IsTerminal reports whether the node has no successors.
	IsTerminal() bool

	// IsFinished reports whether the node reached the goal of the search.
	IsFinished() bool

	// Reward returns the value of the node at the end of a simulation.
	Reward() float64
}

// Explorer is implemented by nodes that record their expansion outside the tree.
type Explorer interface {
	MarkExplored()
}
