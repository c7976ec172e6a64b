package behavior

import (
	"fmt"

	bt "github.com/joeycumines/go-behaviortree"
)

// ToBT exposes node, bound to the traversal c, as a go-behaviortree node.
// This lets go-behaviortree's Ticker and Manager act as the scheduler that
// decides when the tree is ticked.
//
// The returned node has no children and never returns an error. Panics
// raised while acting are not recovered. As with Act, the returned node
// must not be ticked concurrently, since it drives a single Context.
func ToBT(node Node, c *Context) bt.Node {
	requireChild("to bt", node)
	return bt.New(func([]bt.Node) (bt.Status, error) {
		return StatusToBT(checkStatus(node, node.Act(c))), nil
	})
}

// StatusToBT converts s to its go-behaviortree equivalent.
func StatusToBT(s Status) bt.Status {
	switch s {
	case Success:
		return bt.Success
	case Failure:
		return bt.Failure
	default:
		return bt.Running
	}
}

// StatusFromBT converts a go-behaviortree status.
func StatusFromBT(s bt.Status) (Status, error) {
	switch s {
	case bt.Running:
		return Running, nil
	case bt.Success:
		return Success, nil
	case bt.Failure:
		return Failure, nil
	default:
		return 0, fmt.Errorf("%w: go-behaviortree status %d", ErrInvalidStatus, int(s))
	}
}
