package behavior

import "fmt"

// Node is a unit of a behavior tree. Act advances the node by one tick
// against the given traversal and never blocks.
//
// Nodes hold no mutable progress of their own: anything that must survive
// between ticks lives in the Context, keyed by ID. A built tree may
// therefore be shared read-only across goroutines, as long as each Context
// is driven by one goroutine at a time.
type Node interface {
	ID() NodeID
	Act(c *Context) Status
}

// Parent is implemented by composites and decorators.
type Parent interface {
	Node
	// Children returns a copy of the node's direct children, in tick order.
	Children() []Node
}

// Children returns the direct children of n, or nil for leaves.
func Children(n Node) []Node {
	if p, ok := n.(Parent); ok {
		return p.Children()
	}
	return nil
}

// Walk visits n and its descendants depth-first, in tick order. Returning
// false from fn skips the visited node's subtree.
func Walk(n Node, fn func(n Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int) bool) {
	if !fn(n, depth) {
		return
	}
	for _, child := range Children(n) {
		walk(child, depth+1, fn)
	}
}

// identity is embedded by every built-in node.
type identity struct {
	id NodeID
}

func newIdentity() identity { return identity{id: NextID()} }

// ID implements Node.
func (x identity) ID() NodeID { return x.id }

func requireChild(op string, child Node) {
	if child == nil {
		violate(op, ErrNilChild)
	}
}

func requireChildren(op string, children []Node) {
	for i, child := range children {
		if child == nil {
			violate(fmt.Sprintf("%s: child %d", op, i), ErrNilChild)
		}
	}
}

// checkStatus panics unless s is one of the three defined statuses.
func checkStatus(child Node, s Status) Status {
	switch s {
	case Success, Failure, Running:
		return s
	default:
		violate(fmt.Sprintf("act node %s", child.ID()), fmt.Errorf("%w: %d", ErrInvalidStatus, int(s)))
		return 0
	}
}
