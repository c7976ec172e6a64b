package behavior

import (
	"errors"
	"fmt"
)

// Sentinel causes for ContractError. Use errors.Is against a recovered
// *ContractError to tell them apart.
var (
	// ErrNilChild is raised when a composite or decorator is built with a nil child.
	ErrNilChild = errors.New("nil child node")
	// ErrStateType is raised when a node's state is fetched under a different
	// concrete type than the one stored.
	ErrStateType = errors.New("state type mismatch")
	// ErrNotCaptured is raised when a composite state is reset before it has
	// captured its child ids.
	ErrNotCaptured = errors.New("composite state reset before first tick")
	// ErrRepeatCount is raised for a repeat count that is neither >= 1 nor Unlimited.
	ErrRepeatCount = errors.New("invalid repeat count")
	// ErrNilCallback is raised when a leaf is built without its action or predicate.
	ErrNilCallback = errors.New("nil callback")
	// ErrInvalidStatus is raised when a child reports a value outside
	// Success, Failure and Running.
	ErrInvalidStatus = errors.New("invalid status")
)

// ContractError describes a programming error detected by the engine. It is
// always raised via panic, before any state is mutated, and is never
// returned as a Status.
type ContractError struct {
	Op  string
	Err error
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("behavior: %s: %v", e.Op, e.Err)
}

func (e *ContractError) Unwrap() error {
	return e.Err
}

// violate panics with a ContractError.
func violate(op string, err error) {
	panic(&ContractError{Op: op, Err: err})
}
