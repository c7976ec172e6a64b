package behavior

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// scripted replays a fixed list of statuses, cycling once exhausted.
type scripted struct {
	identity
	statuses []Status
	calls    int
}

func newScripted(statuses ...Status) *scripted {
	return &scripted{identity: newIdentity(), statuses: statuses}
}

func (n *scripted) Act(*Context) Status {
	s := n.statuses[n.calls%len(n.statuses)]
	n.calls++
	return s
}

type tallyState struct {
	acts   int
	resets int
}

func (s *tallyState) Reset(*Context) {
	s.acts = 0
	s.resets++
}

// tally keeps its progress in the Context, so resets can be observed.
type tally struct {
	identity
	result Status
}

func newTally(result Status) *tally {
	return &tally{identity: newIdentity(), result: result}
}

func (n *tally) Act(c *Context) Status {
	StateOf[tallyState](c, n.id).acts++
	return n.result
}

func counter(n *int) Action {
	return func(any) { *n++ }
}

func constant(v bool, evaluated *int) Predicate {
	return func(any) bool {
		*evaluated++
		return v
	}
}

func actN(c *Context, n Node, ticks int) []Status {
	out := make([]Status, ticks)
	for i := range out {
		out[i] = n.Act(c)
	}
	return out
}

func requireContract(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected a contract violation panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value should be an error, got %T", r)
		var ce *ContractError
		require.ErrorAs(t, err, &ce)
		require.ErrorIs(t, err, target)
	}()
	fn()
}
