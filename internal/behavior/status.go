package behavior

import "fmt"

// Status is the result of a single Act call.
//
// Success and Failure are terminal for the current traversal cycle. Running
// means the node wants to be called again on the next tick, resuming from
// the same position. The zero value is not a valid status.
type Status int

const (
	_ Status = iota
	// Running indicates the node has not finished and must be ticked again.
	Running
	// Success indicates the node completed successfully.
	Success
	// Failure indicates the node completed unsuccessfully.
	Failure
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return fmt.Sprintf("unknown status (%d)", int(s))
	}
}

// Terminal reports whether s is Success or Failure.
func (s Status) Terminal() bool {
	return s == Success || s == Failure
}
