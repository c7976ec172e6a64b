// Package testutil holds helpers shared by tests: a manually advanced clock
// for deterministic Wait timing, and polling for state produced by
// background tickers.
package testutil

import (
	"context"
	"fmt"
	"time"
)

// Poll checks condition every interval until it holds, timeout elapses, or
// ctx is done.
func Poll(ctx context.Context, condition func() bool, timeout, interval time.Duration) error {
	_, err := WaitForState(ctx, condition, func(ok bool) bool { return ok }, timeout, interval)
	if err != nil {
		return fmt.Errorf("condition not met: %w", err)
	}
	return nil
}

// WaitForState polls getter until predicate accepts its value, returning
// that value.
//
//	stats, err := WaitForState(ctx, agent.Stats,
//		func(s sim.Stats) bool { return s.Ticks >= 3 },
//		5*time.Second, 5*time.Millisecond)
func WaitForState[T any](ctx context.Context, getter func() T, predicate func(T) bool, timeout, interval time.Duration) (T, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	poll := time.NewTicker(interval)
	defer poll.Stop()

	for {
		state := getter()
		if predicate(state) {
			return state, nil
		}
		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-deadline.C:
			var zero T
			return zero, fmt.Errorf("timed out after %v waiting for %T", timeout, zero)
		case <-poll.C:
		}
	}
}
