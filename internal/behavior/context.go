package behavior

import (
	"fmt"
	"time"
)

// State is the resettable progress record of a single node, held by a
// Context rather than by the node itself.
type State interface {
	// Reset returns the state to its initial progress. Implementations that
	// track descendant ids must cascade into them via Context.ResetNode.
	Reset(c *Context)
}

// Context is the per-traversal state store (the execution context). It maps
// node ids to their State, populated lazily on first access.
//
// A tree is immutable and may be shared by any number of Contexts, one per
// agent or traversal. A single Context must only be driven by one goroutine
// at a time; it performs no locking of its own.
//
// Reaching a terminal status never resets anything implicitly. The host
// decides when to call Reset or ResetNode.
type Context struct {
	states  map[NodeID]State
	payload any
	clock   Clock
}

// ContextOption configures a Context.
type ContextOption func(c *Context)

// WithClock sets the clock sampled by time-aware leaves. Defaults to SystemClock.
func WithClock(clock Clock) ContextOption {
	return func(c *Context) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// NewContext creates an empty Context carrying the given payload. The payload
// is passed, uninterpreted, to leaf callbacks.
func NewContext(payload any, opts ...ContextOption) *Context {
	c := &Context{
		states:  make(map[NodeID]State),
		payload: payload,
		clock:   SystemClock,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Payload returns the opaque value leaf callbacks operate on.
func (c *Context) Payload() any { return c.payload }

// Now samples the context's clock.
func (c *Context) Now() time.Time { return c.clock.Now() }

// Len returns the number of allocated states.
func (c *Context) Len() int { return len(c.states) }

// Has reports whether a state has been allocated for id.
func (c *Context) Has(id NodeID) bool {
	_, ok := c.states[id]
	return ok
}

// Reset resets every stored state, restarting the whole traversal. The
// state records are kept, only their progress is cleared.
func (c *Context) Reset() {
	for _, s := range c.states {
		s.Reset(c)
	}
}

// ResetNode resets the state stored for id, if any. Composites and
// decorators cascade the reset into every descendant they have ticked.
func (c *Context) ResetNode(id NodeID) {
	if s, ok := c.states[id]; ok {
		s.Reset(c)
	}
}

// StateOf returns the state of type T stored for id, creating a zero T if
// none exists yet.
//
// Fetching an existing state under a different type is a contract violation
// and panics with a *ContractError wrapping ErrStateType.
func StateOf[T any, PT interface {
	*T
	State
}](c *Context, id NodeID) PT {
	if s, ok := c.states[id]; ok {
		p, ok := s.(PT)
		if !ok {
			violate("state of node "+id.String(), fmt.Errorf("%w: stored %T, requested %T", ErrStateType, s, PT(nil)))
		}
		return p
	}
	p := PT(new(T))
	c.states[id] = p
	return p
}
