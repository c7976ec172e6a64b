package behavior

// compositeState is the progress shared by Sequence and Selector. The child
// ids are captured once, on the first tick, and only drive cascading resets.
type compositeState struct {
	children []NodeID
	captured bool
	index    int
}

func (s *compositeState) capture(children []Node) {
	if s.captured {
		return
	}
	s.children = make([]NodeID, len(children))
	for i, child := range children {
		s.children[i] = child.ID()
	}
	s.captured = true
}

func (s *compositeState) reset(c *Context) {
	if !s.captured {
		violate("reset composite", ErrNotCaptured)
	}
	s.index = 0
	for _, id := range s.children {
		c.ResetNode(id)
	}
}

type sequenceState struct {
	compositeState
	failed bool
}

func (s *sequenceState) Reset(c *Context) {
	s.reset(c)
	s.failed = false
}

type selectorState struct {
	compositeState
	succeeded bool
}

func (s *selectorState) Reset(c *Context) {
	s.reset(c)
	s.succeeded = false
}

// Sequence ticks its children in order until one of them does not succeed.
//
// Within a single tick, each successful child immediately hands over to the
// next, so a sequence of instantly succeeding children completes in one
// tick. A Running child suspends the sequence at that position. A Failure
// fails the sequence, which keeps reporting Failure without ticking any
// child until it is reset. After every child has succeeded, the sequence
// keeps reporting Success, again without touching its children.
//
// A sequence without children always succeeds and allocates no state.
type Sequence struct {
	identity
	children []Node
}

// NewSequence builds a Sequence. A nil child panics with a *ContractError.
func NewSequence(children ...Node) *Sequence {
	requireChildren("new sequence", children)
	return &Sequence{
		identity: newIdentity(),
		children: append([]Node(nil), children...),
	}
}

// Children implements Parent.
func (n *Sequence) Children() []Node { return append([]Node(nil), n.children...) }

// Act implements Node.
func (n *Sequence) Act(c *Context) Status {
	if len(n.children) == 0 {
		return Success
	}
	s := StateOf[sequenceState](c, n.id)
	s.capture(n.children)
	if s.failed {
		return Failure
	}
	for s.index < len(n.children) {
		child := n.children[s.index]
		switch checkStatus(child, child.Act(c)) {
		case Success:
			s.index++
		case Failure:
			s.failed = true
			return Failure
		default:
			return Running
		}
	}
	return Success
}

// Selector tries its children in order until one succeeds.
//
// Each tick visits at most one child. A failing child moves the selector on
// to the next child and the tick reports Running, unless that was the last
// child, in which case the selector fails and stays failed until reset. The
// first success is latched: later ticks report Success straight away,
// without consulting any child.
//
// A selector without children always succeeds and allocates no state.
type Selector struct {
	identity
	children []Node
}

// NewSelector builds a Selector. A nil child panics with a *ContractError.
func NewSelector(children ...Node) *Selector {
	requireChildren("new selector", children)
	return &Selector{
		identity: newIdentity(),
		children: append([]Node(nil), children...),
	}
}

// Children implements Parent.
func (n *Selector) Children() []Node { return append([]Node(nil), n.children...) }

// Act implements Node.
func (n *Selector) Act(c *Context) Status {
	if len(n.children) == 0 {
		return Success
	}
	s := StateOf[selectorState](c, n.id)
	s.capture(n.children)
	if s.succeeded {
		return Success
	}
	if s.index >= len(n.children) {
		return Failure
	}
	child := n.children[s.index]
	switch checkStatus(child, child.Act(c)) {
	case Success:
		s.succeeded = true
		return Success
	case Failure:
		s.index++
		if s.index >= len(n.children) {
			return Failure
		}
		return Running
	default:
		return Running
	}
}
