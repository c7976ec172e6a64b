package behavior

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposite_NoChildren(t *testing.T) {
	t.Parallel()
	for _, n := range []Node{NewSequence(), NewSelector()} {
		c := NewContext(nil)
		require.Equal(t, []Status{Success, Success, Success}, actN(c, n, 3))
		require.Zero(t, c.Len(), "no state should be allocated")
	}
}

func TestComposite_NilChildPanics(t *testing.T) {
	t.Parallel()
	requireContract(t, ErrNilChild, func() { NewSequence(newScripted(Success), nil) })
	requireContract(t, ErrNilChild, func() { NewSelector(nil) })
}

func TestSequence_FailureIsLatched(t *testing.T) {
	t.Parallel()
	c0 := newScripted(Success)
	c1 := newScripted(Running, Running, Success)
	c2 := newScripted(Failure)
	c3 := newScripted(Success)
	seq := NewSequence(c0, c1, c2, c3)
	c := NewContext(nil)

	require.Equal(t, []Status{Running, Running, Failure, Failure, Failure}, actN(c, seq, 5))
	assert.Equal(t, 1, c0.calls, "earlier children are not re-invoked")
	assert.Equal(t, 3, c1.calls)
	assert.Equal(t, 1, c2.calls)
	assert.Zero(t, c3.calls)

	s := StateOf[sequenceState](c, seq.ID())
	assert.Equal(t, 2, s.index, "index stays on the failed child")
}

func TestSequence_SuccessIsIdempotent(t *testing.T) {
	t.Parallel()
	a := newScripted(Success)
	b := newScripted(Success)
	seq := NewSequence(a, b)
	c := NewContext(nil)

	require.Equal(t, []Status{Success, Success, Success}, actN(c, seq, 3))
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}

func TestSequence_ExecuteWaitZeroExecuteInOneTick(t *testing.T) {
	t.Parallel()
	var a, b int
	seq := NewSequence(NewExecute(counter(&a)), NewWait(0), NewExecute(counter(&b)))
	c := NewContext(nil)

	require.Equal(t, Success, seq.Act(c))
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}

func TestSelector_FirstSuccessWins(t *testing.T) {
	t.Parallel()
	evaluated := make([]int, 5)
	results := []bool{false, false, false, true, false}
	children := make([]Node, len(results))
	for i, v := range results {
		children[i] = NewConditional(constant(v, &evaluated[i]))
	}
	sel := NewSelector(children...)
	c := NewContext(nil)

	require.Equal(t, []Status{Running, Running, Running, Success, Success}, actN(c, sel, 5))
	assert.Equal(t, []int{1, 1, 1, 1, 0}, evaluated)

	// latched: many more ticks never reach any child
	actN(c, sel, 10)
	assert.Equal(t, []int{1, 1, 1, 1, 0}, evaluated)
}

func TestSelector_AllFail(t *testing.T) {
	t.Parallel()
	a := newScripted(Failure)
	b := newScripted(Failure)
	sel := NewSelector(a, b)
	c := NewContext(nil)

	require.Equal(t, []Status{Running, Failure, Failure, Failure}, actN(c, sel, 4))
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}

func TestSelector_RunningHoldsPosition(t *testing.T) {
	t.Parallel()
	a := newScripted(Failure)
	b := newScripted(Running, Running, Success)
	sel := NewSelector(a, b)
	c := NewContext(nil)

	require.Equal(t, []Status{Running, Running, Running, Success}, actN(c, sel, 4))
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 3, b.calls)
}

func TestComposite_ResetCascades(t *testing.T) {
	t.Parallel()
	first := newTally(Success)
	failing := newTally(Failure)
	running := newTally(Running)
	sel := NewSelector(failing, running)
	seq := NewSequence(first, sel)
	c := NewContext(nil)

	require.Equal(t, []Status{Running, Running}, actN(c, seq, 2))
	require.Equal(t, 1, StateOf[selectorState](c, sel.ID()).index)
	require.Equal(t, 1, StateOf[tallyState](c, running.ID()).acts)

	c.ResetNode(seq.ID())

	assert.Zero(t, StateOf[sequenceState](c, seq.ID()).index)
	assert.Zero(t, StateOf[selectorState](c, sel.ID()).index)
	for _, leaf := range []*tally{first, failing, running} {
		s := StateOf[tallyState](c, leaf.ID())
		assert.Zero(t, s.acts)
		assert.Equal(t, 1, s.resets, "leaf %s should be reset exactly once", leaf.ID())
	}

	// the traversal starts over from the first child
	require.Equal(t, Running, seq.Act(c))
	assert.Equal(t, 1, StateOf[tallyState](c, first.ID()).acts)
	assert.Equal(t, 1, StateOf[tallyState](c, failing.ID()).acts)
}

func TestComposite_ResetClearsLatches(t *testing.T) {
	t.Parallel()
	var evaluated int
	sel := NewSelector(NewConditional(constant(true, &evaluated)))
	fail := newScripted(Failure, Success)
	seq := NewSequence(fail)
	c := NewContext(nil)

	require.Equal(t, Success, sel.Act(c))
	require.Equal(t, Failure, seq.Act(c))

	c.Reset()
	assert.False(t, StateOf[selectorState](c, sel.ID()).succeeded)
	assert.False(t, StateOf[sequenceState](c, seq.ID()).failed)

	require.Equal(t, Success, sel.Act(c))
	assert.Equal(t, 2, evaluated)
	require.Equal(t, Success, seq.Act(c))
	assert.Equal(t, 2, fail.calls)
}

func TestComposite_ResetBeforeCapturePanics(t *testing.T) {
	t.Parallel()
	seq := NewSequence(newScripted(Success))
	sel := NewSelector(newScripted(Success))
	c := NewContext(nil)
	seqState := StateOf[sequenceState](c, seq.ID())
	selState := StateOf[selectorState](c, sel.ID())

	requireContract(t, ErrNotCaptured, func() { seqState.Reset(c) })
	requireContract(t, ErrNotCaptured, func() { selState.Reset(c) })
}

func TestComposite_InvalidChildStatusPanics(t *testing.T) {
	t.Parallel()
	bad := newScripted(Status(42))
	requireContract(t, ErrInvalidStatus, func() { NewSequence(bad).Act(NewContext(nil)) })
	requireContract(t, ErrInvalidStatus, func() { NewSelector(bad).Act(NewContext(nil)) })
}

func TestComposite_CallbackPanicPropagates(t *testing.T) {
	t.Parallel()
	boom := NewExecute(func(any) { panic("boom") })
	seq := NewSequence(boom)
	require.PanicsWithValue(t, "boom", func() { seq.Act(NewContext(nil)) })
}

func TestComposite_Children(t *testing.T) {
	t.Parallel()
	a, b := newScripted(Success), newScripted(Success)
	seq := NewSequence(a, b)
	got := seq.Children()
	require.Equal(t, []Node{a, b}, got)
	got[0] = nil
	assert.Equal(t, []Node{a, b}, seq.Children(), "children are returned as a copy")
}
