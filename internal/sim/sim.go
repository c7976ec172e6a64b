// Package sim hosts behavior tree traversals for a population of agents.
//
// A World shares one immutable tree between all of its agents. Each agent
// owns a blackboard payload and a behavior.Context, and is ticked either in
// lock-step (Step) or by its own go-behaviortree ticker (Run). The world is
// also where host policy lives: resetting traversals that reach a terminal
// status, and isolating or aborting on callback panics.
package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	bt "github.com/joeycumines/go-behaviortree"

	"github.com/exectails/Yggdrasil-sub001/internal/behavior"
	"github.com/exectails/Yggdrasil-sub001/internal/blackboard"
)

// Options configures a World.
type Options struct {
	// Agents is the population size. Zero means one agent.
	Agents int
	// Frames bounds Run to this many ticks per agent. Zero runs until the
	// context is cancelled. Step ignores it.
	Frames int
	// ResetOnTerminal resets an agent's whole traversal after every tick
	// that ends in Success or Failure, restarting its decision cycle.
	ResetOnTerminal bool
	// Isolate confines a panicking callback to its agent, which is halted,
	// instead of aborting the whole step or run.
	Isolate bool
	// Clock is handed to every agent context. Defaults to behavior.SystemClock.
	Clock behavior.Clock
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Seed, if set, initialises each agent before its first tick.
	Seed func(a *Agent)
}

// ErrInvalidInterval is returned by Run for a non-positive tick interval.
var ErrInvalidInterval = errors.New("tick interval must be positive")

// AgentPanicError is a panic recovered while ticking an agent.
type AgentPanicError struct {
	AgentID uuid.UUID
	Value   any
}

func (e *AgentPanicError) Error() string {
	return fmt.Sprintf("agent %s: panic: %v", e.AgentID, e.Value)
}

// Unwrap exposes the panic value when it is an error.
func (e *AgentPanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// Stats counts an agent's ticks.
type Stats struct {
	Ticks     int
	Successes int
	Failures  int
	Resets    int
	Last      behavior.Status
	// Err is set once the agent has been halted.
	Err error
}

// Agent is one independent traversal of the world's tree.
type Agent struct {
	ID      uuid.UUID
	Index   int
	Board   *blackboard.Blackboard
	Context *behavior.Context

	node  bt.Node
	mu    sync.Mutex
	stats Stats
}

// Stats returns a copy of the agent's counters. Safe to call while running.
func (a *Agent) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

func (a *Agent) halted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats.Err != nil
}

// World ticks a shared tree for every agent.
type World struct {
	root   behavior.Node
	opts   Options
	logger *slog.Logger
	agents []*Agent
}

// New creates a world of opts.Agents agents sharing root.
func New(root behavior.Node, opts Options) (*World, error) {
	if root == nil {
		return nil, errors.New("sim: nil root node")
	}
	if opts.Agents < 0 {
		return nil, fmt.Errorf("sim: invalid agent count %d", opts.Agents)
	}
	if opts.Frames < 0 {
		return nil, fmt.Errorf("sim: invalid frame count %d", opts.Frames)
	}
	if opts.Agents == 0 {
		opts.Agents = 1
	}
	if opts.Clock == nil {
		opts.Clock = behavior.SystemClock
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	w := &World{
		root:   root,
		opts:   opts,
		logger: logger,
		agents: make([]*Agent, opts.Agents),
	}
	for i := range w.agents {
		board := new(blackboard.Blackboard)
		ctx := behavior.NewContext(board, behavior.WithClock(opts.Clock))
		a := &Agent{
			ID:      uuid.New(),
			Index:   i,
			Board:   board,
			Context: ctx,
			node:    behavior.ToBT(root, ctx),
		}
		if opts.Seed != nil {
			opts.Seed(a)
		}
		w.agents[i] = a
	}

	var nodes int
	behavior.Walk(root, func(behavior.Node, int) bool {
		nodes++
		return true
	})
	logger.Debug("world created",
		"agents", len(w.agents),
		"nodes", nodes,
		"resetOnTerminal", opts.ResetOnTerminal,
		"isolate", opts.Isolate)
	return w, nil
}

// Agents returns the population, in index order.
func (w *World) Agents() []*Agent {
	return append([]*Agent(nil), w.agents...)
}

// Step ticks every live agent once, in index order, on the calling
// goroutine. Without Isolate, the first panic aborts the step and is
// returned as an *AgentPanicError.
func (w *World) Step() error {
	for _, a := range w.agents {
		if a.halted() {
			continue
		}
		if _, err := w.tick(a, a.node); err != nil && !w.opts.Isolate {
			return err
		}
	}
	return nil
}

// Run drives every live agent from its own ticker, firing each interval,
// until each has done opts.Frames ticks, ctx is cancelled, or (without
// Isolate) an agent panics. The tickers share a bt.Manager, which stops
// all of them as soon as one fails. The agents' contexts are each driven
// by a single ticker goroutine while the tree itself is shared.
//
// Run returns the aborting *AgentPanicError, ctx's error if it was
// cancelled, or nil.
func (w *World) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}

	manager := bt.NewManager()
	tickers := make([]bt.Ticker, 0, len(w.agents))
	for _, a := range w.agents {
		if a.halted() {
			continue
		}
		ticker := bt.NewTickerStopOnFailure(ctx, interval, w.driver(a))
		if err := manager.Add(ticker); err != nil {
			// already stopped by a failing agent
			ticker.Stop()
			<-ticker.Done()
			break
		}
		tickers = append(tickers, ticker)
	}
	for _, ticker := range tickers {
		<-ticker.Done()
	}
	// Done only closes after Stop.
	manager.Stop()
	<-manager.Done()

	if manager.Err() == nil {
		return nil
	}
	var cancelled error
	for _, ticker := range tickers {
		switch err := ticker.Err(); {
		case err == nil:
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			cancelled = err
		default:
			return err
		}
	}
	return cancelled
}

// driver wraps an agent's node so that the ticker stops, by way of a
// Failure status, once the agent is done. A propagated panic becomes the
// ticker's error.
func (w *World) driver(a *Agent) bt.Node {
	return bt.New(func(children []bt.Node) (bt.Status, error) {
		if w.framesDone(a) {
			return bt.Failure, nil
		}
		if _, err := w.tick(a, children[0]); err != nil {
			if w.opts.Isolate {
				return bt.Failure, nil
			}
			return bt.Failure, err
		}
		if w.framesDone(a) {
			return bt.Failure, nil
		}
		return bt.Running, nil
	}, a.node)
}

func (w *World) framesDone(a *Agent) bool {
	return w.opts.Frames > 0 && a.Stats().Ticks >= w.opts.Frames
}

// tick acts once on a's traversal via node and applies host policy.
func (w *World) tick(a *Agent, node bt.Node) (status behavior.Status, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &AgentPanicError{AgentID: a.ID, Value: r}
			w.halt(a, err)
		}
	}()

	raw, err := node.Tick()
	if err != nil {
		w.halt(a, err)
		return 0, err
	}
	status, err = behavior.StatusFromBT(raw)
	if err != nil {
		w.halt(a, err)
		return 0, err
	}

	reset := w.opts.ResetOnTerminal && status.Terminal()
	if reset {
		a.Context.Reset()
	}

	a.mu.Lock()
	a.stats.Ticks++
	a.stats.Last = status
	switch status {
	case behavior.Success:
		a.stats.Successes++
	case behavior.Failure:
		a.stats.Failures++
	}
	if reset {
		a.stats.Resets++
	}
	ticks := a.stats.Ticks
	a.mu.Unlock()

	w.logger.Debug("agent ticked",
		"agent", a.ID,
		"tick", ticks,
		"status", status,
		"reset", reset)
	return status, nil
}

func (w *World) halt(a *Agent, err error) {
	a.mu.Lock()
	a.stats.Ticks++
	a.stats.Err = err
	a.mu.Unlock()
	if w.opts.Isolate {
		w.logger.Warn("agent halted", "agent", a.ID, "error", err)
	} else {
		w.logger.Error("agent failed, aborting", "agent", a.ID, "error", err)
	}
}

// AgentSummary is one row of a Summary.
type AgentSummary struct {
	ID    uuid.UUID
	Index int
	Stats
}

// Summary aggregates the agents' counters.
type Summary struct {
	Agents    []AgentSummary
	Ticks     int
	Successes int
	Failures  int
	Halted    int
}

// Summary returns a snapshot of every agent's counters.
func (w *World) Summary() Summary {
	var s Summary
	for _, a := range w.agents {
		st := a.Stats()
		s.Agents = append(s.Agents, AgentSummary{ID: a.ID, Index: a.Index, Stats: st})
		s.Ticks += st.Ticks
		s.Successes += st.Successes
		s.Failures += st.Failures
		if st.Err != nil {
			s.Halted++
		}
	}
	return s
}
