package behavior

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Action is a side-effecting leaf callback. It receives the traversal's
// payload, which the engine never inspects.
type Action func(payload any)

// Predicate is a leaf test over the traversal's payload.
type Predicate func(payload any) bool

// Execute invokes its action once per tick and always succeeds. Panics
// raised by the action are not recovered.
type Execute struct {
	identity
	action Action
}

// NewExecute builds an Execute leaf. A nil action panics with a *ContractError.
func NewExecute(action Action) *Execute {
	if action == nil {
		violate("new execute", ErrNilCallback)
	}
	return &Execute{identity: newIdentity(), action: action}
}

// Act implements Node.
func (n *Execute) Act(c *Context) Status {
	n.action(c.Payload())
	return Success
}

// Conditional maps its predicate to Success (true) or Failure (false). The
// predicate is evaluated on every tick, nothing is memoized.
type Conditional struct {
	identity
	predicate Predicate
}

// NewConditional builds a Conditional leaf. A nil predicate panics with a
// *ContractError.
func NewConditional(predicate Predicate) *Conditional {
	if predicate == nil {
		violate("new conditional", ErrNilCallback)
	}
	return &Conditional{identity: newIdentity(), predicate: predicate}
}

// Act implements Node.
func (n *Conditional) Act(c *Context) Status {
	if n.predicate(c.Payload()) {
		return Success
	}
	return Failure
}

type waitState struct {
	deadline time.Time
	armed    bool
}

func (s *waitState) Reset(*Context) {
	s.deadline = time.Time{}
	s.armed = false
}

// Wait reports Running until its duration has elapsed, measured from the
// first tick after creation or reset, then Success until reset. Time is
// sampled from the Context's clock. A non-positive duration succeeds on the
// first tick.
type Wait struct {
	identity
	duration time.Duration
}

// NewWait builds a Wait leaf.
func NewWait(d time.Duration) *Wait {
	return &Wait{identity: newIdentity(), duration: d}
}

// Duration returns the configured wait.
func (n *Wait) Duration() time.Duration { return n.duration }

// Act implements Node.
func (n *Wait) Act(c *Context) Status {
	s := StateOf[waitState](c, n.id)
	now := c.Now()
	if !s.armed {
		s.deadline = now.Add(n.duration)
		s.armed = true
	}
	if now.Before(s.deadline) {
		return Running
	}
	return Success
}

// Print writes its text, followed by a newline, once per tick and always
// succeeds. Write errors are ignored.
type Print struct {
	identity
	text string
	out  io.Writer
}

// PrintOption configures a Print leaf.
type PrintOption func(n *Print)

// PrintTo redirects output, which defaults to os.Stdout.
func PrintTo(w io.Writer) PrintOption {
	return func(n *Print) {
		if w != nil {
			n.out = w
		}
	}
}

// NewPrint builds a Print leaf.
func NewPrint(text string, opts ...PrintOption) *Print {
	n := &Print{identity: newIdentity(), text: text, out: os.Stdout}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Text returns the printed text.
func (n *Print) Text() string { return n.text }

// Act implements Node.
func (n *Print) Act(*Context) Status {
	_, _ = fmt.Fprintln(n.out, n.text)
	return Success
}
