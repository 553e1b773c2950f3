/*
Package mcts implements Monte Carlo Tree Search over any state space that
satisfies the Node interface.

A Tree keeps, per node key, the accumulated reward (Q), the visit count (N)
and the successors found when the node was expanded. Every rollout walks
the tree with UCT, expands one new node, plays a random simulation from it
and feeds the simulation reward back to every node on the walked path.

A Tree is scoped to one search session and is not safe for concurrent use.
*/
package mcts

import (
	"errors"
	"fmt"
	"math"
)

const (
	defaultExplorationWeight  = 1.0
	defaultMaxSimulationSteps = 10_000
)

var (
	ErrChooseOnTerminal            = errors.New("choose called on a terminal node")
	ErrUctPrecondition             = errors.New("uct selection needs a parent with at least one visit")
	ErrSimulationStepLimitExceeded = errors.New("simulation exceeded its step limit")
	ErrNoChildren                  = errors.New("expanded node has no children")
)

// Options configures a Tree.
type Options struct {
	// ExplorationWeight is the C constant of the UCT formula.
	// Non-positive values fall back to 1.
	ExplorationWeight float64

	// MaxSimulationSteps bounds the random walk of a single simulation.
	// Non-positive values fall back to 10 000.
	MaxSimulationSteps int
}

// Tree holds the search bookkeeping of one session.
type Tree[K comparable] struct {
	q        map[K]float64   // total reward of each node, zero when absent
	n        map[K]int       // total visit count of each node, zero when absent
	children map[K][]Node[K] // successors of every expanded node
	opts     Options
}

// New creates an empty tree.
func New[K comparable](opts *Options) *Tree[K] {
	if opts == nil {
		opts = &Options{}
	}

	o := *opts
	if o.ExplorationWeight <= 0 {
		o.ExplorationWeight = defaultExplorationWeight
	}
	if o.MaxSimulationSteps <= 0 {
		o.MaxSimulationSteps = defaultMaxSimulationSteps
	}

	return &Tree[K]{
		q:        make(map[K]float64),
		n:        make(map[K]int),
		children: make(map[K][]Node[K]),
		opts:     o,
	}
}

// Choose returns the best known successor of node, the one with the highest
// average reward. Successors that were never visited are only returned when
// nothing else is available. An unexpanded node yields a random successor.
func (t *Tree[K]) Choose(node Node[K]) (Node[K], error) {
	if node.IsTerminal() {
		return nil, fmt.Errorf("%w: %v", ErrChooseOnTerminal, node.Key())
	}

	children, expanded := t.children[node.Key()]
	if !expanded {
		return node.FindRandomChild()
	}
	if len(children) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoChildren, node.Key())
	}

	best, bestScore := children[0], t.meanReward(children[0])
	for _, child := range children[1:] {
		if score := t.meanReward(child); score > bestScore {
			best, bestScore = child, score
		}
	}
	return best, nil
}

// DoRollout makes the tree one layer better: select, expand, simulate and
// backpropagate starting at node.
func (t *Tree[K]) DoRollout(node Node[K]) error {
	path, err := t.selectPath(node)
	if err != nil {
		return fmt.Errorf("select: %w", err)
	}

	leaf := path[len(path)-1]
	if err := t.expand(leaf); err != nil {
		return fmt.Errorf("expand: %w", err)
	}

	reward, err := t.simulate(leaf)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	t.backpropagate(path, reward)
	return nil
}

// Visits returns how many rollouts went through node.
func (t *Tree[K]) Visits(node Node[K]) int {
	return t.n[node.Key()]
}

// Value returns the total reward accumulated by node.
func (t *Tree[K]) Value(node Node[K]) float64 {
	return t.q[node.Key()]
}

// Children returns the successors stored when node was expanded.
func (t *Tree[K]) Children(node Node[K]) ([]Node[K], bool) {
	children, ok := t.children[node.Key()]
	return children, ok
}

// Size returns the number of expanded nodes.
func (t *Tree[K]) Size() int {
	return len(t.children)
}

// selectPath descends from node until it finds a node that is not expanded
// yet or is terminal. The first unexpanded child of an expanded node is
// preferred over a UCT descent.
func (t *Tree[K]) selectPath(node Node[K]) ([]Node[K], error) {
	var path []Node[K]
	for {
		path = append(path, node)

		children, expanded := t.children[node.Key()]
		if !expanded || node.IsTerminal() {
			return path, nil
		}

		for _, child := range children {
			if _, ok := t.children[child.Key()]; !ok {
				return append(path, child), nil
			}
		}

		next, err := t.uctSelect(node)
		if err != nil {
			return nil, err
		}
		node = next
	}
}

// expand stores the children of node, marking it explored first.
func (t *Tree[K]) expand(node Node[K]) error {
	key := node.Key()
	if _, ok := t.children[key]; ok {
		return nil
	}

	if e, ok := node.(Explorer); ok {
		e.MarkExplored()
	}

	children, err := node.FindChildren()
	if err != nil {
		return err
	}
	t.children[key] = children
	return nil
}

// simulate plays random moves from node until it finishes or gets stuck
// and returns the reward of the last node.
func (t *Tree[K]) simulate(node Node[K]) (float64, error) {
	for steps := 0; ; steps++ {
		if node.IsFinished() || node.IsTerminal() {
			return node.Reward(), nil
		}
		if steps >= t.opts.MaxSimulationSteps {
			return 0, fmt.Errorf("%w: %d steps", ErrSimulationStepLimitExceeded, steps)
		}

		next, err := node.FindRandomChild()
		if err != nil {
			return 0, err
		}
		node = next
	}
}

// backpropagate sends the reward back up to the ancestors of the leaf.
func (t *Tree[K]) backpropagate(path []Node[K], reward float64) {
	for i := len(path) - 1; i >= 0; i-- {
		key := path[i].Key()
		t.n[key]++
		t.q[key] += reward
	}
}

// uctSelect picks a child of node balancing exploitation and exploration.
func (t *Tree[K]) uctSelect(node Node[K]) (Node[K], error) {
	parentVisits := t.n[node.Key()]
	if parentVisits == 0 {
		return nil, fmt.Errorf("%w: %v", ErrUctPrecondition, node.Key())
	}

	children := t.children[node.Key()]
	if len(children) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoChildren, node.Key())
	}

	logParent := math.Log(float64(parentVisits))
	best, bestScore := children[0], t.uctScore(logParent, children[0])
	for _, child := range children[1:] {
		if score := t.uctScore(logParent, child); score > bestScore {
			best, bestScore = child, score
		}
	}
	return best, nil
}

// uctScore is Q/N + C*sqrt(logParent/N) for child, +Inf when it was never
// visited. logParent is the natural log of the parent's visit count.
func (t *Tree[K]) uctScore(logParent float64, child Node[K]) float64 {
	visits := t.n[child.Key()]
	if visits == 0 {
		return math.Inf(1)
	}
	return t.q[child.Key()]/float64(visits) +
		t.opts.ExplorationWeight*math.Sqrt(logParent/float64(visits))
}

// meanReward is the average reward of node, -Inf when it was never visited.
func (t *Tree[K]) meanReward(node Node[K]) float64 {
	visits := t.n[node.Key()]
	if visits == 0 {
		return math.Inf(-1)
	}
	return t.q[node.Key()] / float64(visits)
}
