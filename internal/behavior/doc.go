/*
Package behavior implements a tick-driven behavior tree engine.

A tree is assembled once from leaves (Execute, Conditional, Wait, Print),
decorators (Inverter, Succeeder, Repeater) and composites (Sequence,
Selector). It is then ticked by calling Act on the root, once per
simulation step. Every Act returns exactly one of Success, Failure or
Running, and never blocks: long-running work is expressed by returning
Running and being ticked again later.

# Topology and progress

Nodes are immutable. All per-node progress (a composite's position, a
repeater's counter, a wait's deadline) lives in a Context, keyed by the
node's NodeID. One tree can therefore be shared by any number of Contexts,
one per agent, each driven by its own goroutine:

	tree := behavior.NewSequence(
		behavior.NewExecute(func(p any) { p.(*Agent).Aim() }),
		behavior.NewWait(500*time.Millisecond),
		behavior.NewExecute(func(p any) { p.(*Agent).Fire() }),
	)
	ctx := behavior.NewContext(agent)
	for frame := range frames {
		if tree.Act(ctx) != behavior.Running {
			ctx.Reset()
		}
	}

Reaching Success or Failure never resets anything on its own. Composites
and repeaters stay terminal until the host calls Context.Reset, or
Context.ResetNode for a subtree. Resetting a composite or decorator
cascades into its children by id, without walking the node graph.
Inverter and Succeeder keep no progress, but still store their child's id
so that such a cascade passes through them.

# Repeaters

Two repeat policies are provided as distinct constructors. NewRepeater
consumes a repetition for every terminal child result. NewRepeatUntilFailure
consumes one only for Success, and fails as soon as the child fails.

# Errors

Programming errors (nil children, a state fetched under the wrong type, a
child reporting an undefined status) panic with a *ContractError before
any state is changed. Panics raised by user callbacks propagate to the
caller of Act unchanged. The host decides whether to abort or isolate.

# Scheduling

The engine never schedules itself. ToBT adapts a node and its Context to
github.com/joeycumines/go-behaviortree, whose Ticker can drive it at a fixed
cadence. Time-aware leaves sample the Context's Clock, which tests replace
with a controllable one.
*/
package behavior
