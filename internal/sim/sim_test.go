package sim

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exectails/Yggdrasil-sub001/internal/behavior"
	"github.com/exectails/Yggdrasil-sub001/internal/blackboard"
	"github.com/exectails/Yggdrasil-sub001/internal/testutil"
)

var errCursed = errors.New("cursed")

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func board(payload any) *blackboard.Blackboard {
	return payload.(*blackboard.Blackboard)
}

func incr(key string) behavior.Action {
	return func(payload any) {
		if _, err := board(payload).Incr(key, 1); err != nil {
			panic(err)
		}
	}
}

// countOrPanic increments "n" and panics on the given count for agents
// seeded as victims.
func countOrPanic(at int, value any) behavior.Action {
	return func(payload any) {
		b := board(payload)
		n, err := b.Incr("n", 1)
		if err != nil {
			panic(err)
		}
		if b.Has("victim") && n == at {
			panic(value)
		}
	}
}

func victim(index int) func(a *Agent) {
	return func(a *Agent) {
		if a.Index == index {
			a.Board.Set("victim", true)
		}
	}
}

func runWithTimeout(t *testing.T, w *World, ctx context.Context, interval time.Duration) error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, interval) }()
	select {
	case err := <-done:
		return err
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return")
		return nil
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, Options{})
	require.Error(t, err)

	root := behavior.NewExecute(func(any) {})
	_, err = New(root, Options{Agents: -1})
	require.Error(t, err)
	_, err = New(root, Options{Frames: -1})
	require.Error(t, err)

	w, err := New(root, Options{Logger: quiet()})
	require.NoError(t, err)
	require.Len(t, w.Agents(), 1)
}

func TestNew_AgentsAreIndependent(t *testing.T) {
	root := behavior.NewExecute(func(any) {})
	seeded := 0
	w, err := New(root, Options{
		Agents: 3,
		Logger: quiet(),
		Seed: func(a *Agent) {
			seeded++
			a.Board.Set("index", a.Index)
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, seeded)

	agents := w.Agents()
	ids := map[string]bool{}
	for i, a := range agents {
		assert.Equal(t, i, a.Index)
		assert.Equal(t, i, a.Board.Get("index"))
		assert.Same(t, a.Board, a.Context.Payload())
		ids[a.ID.String()] = true
	}
	assert.Len(t, ids, 3)
	assert.NotSame(t, agents[0].Context, agents[1].Context)
}

func TestStep_ResetOnTerminal(t *testing.T) {
	clock := testutil.NewManualClock(time.Time{})
	root := behavior.NewSequence(
		behavior.NewExecute(incr("n")),
		behavior.NewWait(2*time.Second),
		behavior.NewExecute(incr("done")),
	)
	w, err := New(root, Options{
		Agents:          3,
		ResetOnTerminal: true,
		Clock:           clock,
		Logger:          quiet(),
	})
	require.NoError(t, err)

	require.NoError(t, w.Step())
	for _, a := range w.Agents() {
		assert.Equal(t, behavior.Running, a.Stats().Last)
		assert.Equal(t, 1, a.Board.Get("n"))
		assert.False(t, a.Board.Has("done"))
	}

	clock.Advance(2 * time.Second)
	require.NoError(t, w.Step())
	for _, a := range w.Agents() {
		st := a.Stats()
		assert.Equal(t, behavior.Success, st.Last)
		assert.Equal(t, 2, st.Ticks)
		assert.Equal(t, 1, st.Successes)
		assert.Equal(t, 1, st.Resets)
		assert.Equal(t, 1, a.Board.Get("done"))
	}

	// the cycle restarts from the first child with the wait re-armed
	require.NoError(t, w.Step())
	for _, a := range w.Agents() {
		assert.Equal(t, behavior.Running, a.Stats().Last)
		assert.Equal(t, 2, a.Board.Get("n"))
	}

	s := w.Summary()
	assert.Equal(t, 9, s.Ticks)
	assert.Equal(t, 3, s.Successes)
	assert.Zero(t, s.Failures)
	assert.Zero(t, s.Halted)
	assert.Len(t, s.Agents, 3)
}

func TestStep_TerminalStatusPersistsWithoutReset(t *testing.T) {
	var evaluated int
	root := behavior.NewSequence(
		behavior.NewConditional(func(any) bool {
			evaluated++
			return false
		}),
	)
	w, err := New(root, Options{Logger: quiet()})
	require.NoError(t, err)

	for range 3 {
		require.NoError(t, w.Step())
	}
	st := w.Agents()[0].Stats()
	assert.Equal(t, behavior.Failure, st.Last)
	assert.Equal(t, 3, st.Failures)
	assert.Zero(t, st.Resets)
	assert.Equal(t, 1, evaluated)
}

func TestStep_PanicAbortsStep(t *testing.T) {
	root := behavior.NewExecute(countOrPanic(1, errCursed))
	w, err := New(root, Options{Agents: 3, Logger: quiet(), Seed: victim(1)})
	require.NoError(t, err)

	err = w.Step()
	var panicErr *AgentPanicError
	require.ErrorAs(t, err, &panicErr)
	require.ErrorIs(t, err, errCursed)

	agents := w.Agents()
	assert.Equal(t, agents[1].ID, panicErr.AgentID)
	assert.Equal(t, 1, agents[0].Board.Get("n"))
	assert.False(t, agents[2].Board.Has("n"), "agents after the failure are not ticked")
}

func TestStep_IsolatedPanicHaltsAgent(t *testing.T) {
	var logs bytes.Buffer
	root := behavior.NewExecute(countOrPanic(1, "boom"))
	w, err := New(root, Options{
		Agents:  3,
		Isolate: true,
		Logger:  slog.New(slog.NewTextHandler(&logs, nil)),
		Seed:    victim(1),
	})
	require.NoError(t, err)

	require.NoError(t, w.Step())
	require.NoError(t, w.Step())

	agents := w.Agents()
	assert.Equal(t, 2, agents[0].Board.Get("n"))
	assert.Equal(t, 1, agents[1].Board.Get("n"))
	assert.Equal(t, 2, agents[2].Board.Get("n"))

	st := agents[1].Stats()
	var panicErr *AgentPanicError
	require.ErrorAs(t, st.Err, &panicErr)
	assert.Equal(t, "boom", panicErr.Value)
	assert.Nil(t, panicErr.Unwrap())

	assert.Equal(t, 1, w.Summary().Halted)
	assert.Contains(t, logs.String(), "agent halted")
}

func TestRun_Frames(t *testing.T) {
	root := behavior.NewExecute(incr("n"))
	w, err := New(root, Options{
		Agents:          4,
		Frames:          5,
		ResetOnTerminal: true,
		Logger:          quiet(),
	})
	require.NoError(t, err)

	require.NoError(t, runWithTimeout(t, w, context.Background(), time.Millisecond))

	for _, a := range w.Agents() {
		st := a.Stats()
		assert.Equal(t, 5, st.Ticks)
		assert.Equal(t, 5, st.Successes)
		assert.Equal(t, 5, a.Board.Get("n"))
	}
	assert.Equal(t, 20, w.Summary().Ticks)
}

func TestRun_PanicAbortsRun(t *testing.T) {
	root := behavior.NewExecute(countOrPanic(3, errCursed))
	w, err := New(root, Options{Agents: 3, Logger: quiet(), Seed: victim(0)})
	require.NoError(t, err)

	err = runWithTimeout(t, w, context.Background(), time.Millisecond)
	var panicErr *AgentPanicError
	require.ErrorAs(t, err, &panicErr)
	assert.Equal(t, w.Agents()[0].ID, panicErr.AgentID)
	assert.ErrorIs(t, err, errCursed)
}

func TestRun_PanicStopsOtherAgents(t *testing.T) {
	root := behavior.NewExecute(countOrPanic(5, errCursed))
	w, err := New(root, Options{Agents: 4, Logger: quiet(), Seed: victim(2)})
	require.NoError(t, err)

	err = runWithTimeout(t, w, context.Background(), time.Millisecond)
	var panicErr *AgentPanicError
	require.ErrorAs(t, err, &panicErr)
	// the agent's own error, not an aggregate
	assert.Equal(t, panicErr.Error(), err.Error())
	assert.Equal(t, w.Agents()[2].ID, panicErr.AgentID)

	before := w.Summary().Ticks
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, before, w.Summary().Ticks)
	assert.Equal(t, 1, w.Summary().Halted)
}

func TestRun_IsolatedPanicHaltsOnlyThatAgent(t *testing.T) {
	root := behavior.NewExecute(countOrPanic(2, "boom"))
	w, err := New(root, Options{
		Agents:  3,
		Frames:  5,
		Isolate: true,
		Logger:  quiet(),
		Seed:    victim(0),
	})
	require.NoError(t, err)

	require.NoError(t, runWithTimeout(t, w, context.Background(), time.Millisecond))

	agents := w.Agents()
	assert.Equal(t, 2, agents[0].Board.Get("n"))
	assert.Error(t, agents[0].Stats().Err)
	assert.Equal(t, 5, agents[1].Board.Get("n"))
	assert.Equal(t, 5, agents[2].Board.Get("n"))
	assert.Equal(t, 1, w.Summary().Halted)
}

func TestRun_Cancelled(t *testing.T) {
	root := behavior.NewExecute(incr("n"))
	w, err := New(root, Options{Agents: 2, Logger: quiet()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_, _ = testutil.WaitForState(ctx, w.Agents()[0].Stats,
			func(s Stats) bool { return s.Ticks >= 3 },
			5*time.Second, time.Millisecond)
		cancel()
	}()

	err = runWithTimeout(t, w, ctx, time.Millisecond)
	require.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, w.Agents()[0].Stats().Ticks, 3)
}

func TestRun_InvalidInterval(t *testing.T) {
	w, err := New(behavior.NewExecute(func(any) {}), Options{Logger: quiet()})
	require.NoError(t, err)
	require.ErrorIs(t, w.Run(context.Background(), 0), ErrInvalidInterval)
}
