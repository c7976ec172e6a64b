package behavior

// linkState is the only state of Inverter and Succeeder. It holds no
// progress, just the child id, so that a reset cascading from an ancestor
// reaches the subtree below the decorator.
type linkState struct {
	child NodeID
}

func (s *linkState) Reset(c *Context) { c.ResetNode(s.child) }

func link(c *Context, id NodeID, child Node) {
	StateOf[linkState](c, id).child = child.ID()
}

// Inverter swaps its child's Success and Failure. Running passes through.
type Inverter struct {
	identity
	child Node
}

// NewInverter builds an Inverter. A nil child panics with a *ContractError.
func NewInverter(child Node) *Inverter {
	requireChild("new inverter", child)
	return &Inverter{identity: newIdentity(), child: child}
}

// Children implements Parent.
func (n *Inverter) Children() []Node { return []Node{n.child} }

// Act implements Node.
func (n *Inverter) Act(c *Context) Status {
	link(c, n.id, n.child)
	switch checkStatus(n.child, n.child.Act(c)) {
	case Success:
		return Failure
	case Failure:
		return Success
	default:
		return Running
	}
}

// Succeeder reports Success for any terminal child result. Running passes
// through.
type Succeeder struct {
	identity
	child Node
}

// NewSucceeder builds a Succeeder. A nil child panics with a *ContractError.
func NewSucceeder(child Node) *Succeeder {
	requireChild("new succeeder", child)
	return &Succeeder{identity: newIdentity(), child: child}
}

// Children implements Parent.
func (n *Succeeder) Children() []Node { return []Node{n.child} }

// Act implements Node.
func (n *Succeeder) Act(c *Context) Status {
	link(c, n.id, n.child)
	if checkStatus(n.child, n.child.Act(c)) == Running {
		return Running
	}
	return Success
}

// Unlimited is the repeat count of a Repeater that never runs out.
const Unlimited = -1

// RepeatPolicy selects how a Repeater treats a failing child.
type RepeatPolicy int

const (
	// RepeatRegardless consumes a repetition on any terminal child result.
	RepeatRegardless RepeatPolicy = iota
	// RepeatUntilFailure consumes a repetition on child Success and aborts
	// with Failure as soon as the child fails.
	RepeatUntilFailure
)

// String implements fmt.Stringer.
func (p RepeatPolicy) String() string {
	if p == RepeatUntilFailure {
		return "until-failure"
	}
	return "regardless"
}

type repeaterState struct {
	count int
	child NodeID
}

// Reset clears the counter and the child's progress, which matters when the
// repeater is reset while its child is still running.
func (s *repeaterState) Reset(c *Context) {
	s.count = 0
	if s.child != 0 {
		c.ResetNode(s.child)
	}
}

// Repeater re-runs its child a fixed number of times, or forever.
//
// Every consumed repetition resets the child's state, so the next iteration
// starts fresh, and the tick reports Running. The tick that consumes the
// last repetition of a bounded repeater reports Success instead, as does
// any later tick until the repeater is reset. A Running child passes
// through without touching the counter.
type Repeater struct {
	identity
	child  Node
	limit  int
	policy RepeatPolicy
}

// NewRepeater builds a repeater that repeats its child n times regardless of
// the child's outcome. n must be >= 1 or Unlimited.
func NewRepeater(n int, child Node) *Repeater {
	return newRepeater("new repeater", n, RepeatRegardless, child)
}

// NewRepeaterForever is NewRepeater(Unlimited, child).
func NewRepeaterForever(child Node) *Repeater {
	return newRepeater("new repeater", Unlimited, RepeatRegardless, child)
}

// NewRepeatUntilFailure builds a repeater that repeats its child n times, or
// until the child fails. n must be >= 1 or Unlimited.
func NewRepeatUntilFailure(n int, child Node) *Repeater {
	return newRepeater("new repeat-until-failure", n, RepeatUntilFailure, child)
}

// NewRepeatUntilFailureForever is NewRepeatUntilFailure(Unlimited, child).
func NewRepeatUntilFailureForever(child Node) *Repeater {
	return newRepeater("new repeat-until-failure", Unlimited, RepeatUntilFailure, child)
}

func newRepeater(op string, n int, policy RepeatPolicy, child Node) *Repeater {
	requireChild(op, child)
	if n < 1 && n != Unlimited {
		violate(op, ErrRepeatCount)
	}
	return &Repeater{
		identity: newIdentity(),
		child:    child,
		limit:    n,
		policy:   policy,
	}
}

// Limit returns the repeat count, or Unlimited.
func (n *Repeater) Limit() int { return n.limit }

// Policy returns the repeater's failure policy.
func (n *Repeater) Policy() RepeatPolicy { return n.policy }

// Children implements Parent.
func (n *Repeater) Children() []Node { return []Node{n.child} }

// Act implements Node.
func (n *Repeater) Act(c *Context) Status {
	s := StateOf[repeaterState](c, n.id)
	s.child = n.child.ID()
	if n.exhausted(s.count) {
		return Success
	}
	switch checkStatus(n.child, n.child.Act(c)) {
	case Running:
		return Running
	case Failure:
		if n.policy == RepeatUntilFailure {
			return Failure
		}
	}
	c.ResetNode(n.child.ID())
	s.count++
	if n.exhausted(s.count) {
		return Success
	}
	return Running
}

func (n *Repeater) exhausted(count int) bool {
	return n.limit != Unlimited && count >= n.limit
}
