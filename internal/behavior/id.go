package behavior

import (
	"strconv"
	"sync/atomic"
)

// NodeID identifies a node within a process. It is used solely as the key
// into a Context's state store.
//
// IDs are allocated from a process-wide monotonic counter, starting at 1.
// They are never reused and are not stable across restarts, so they must
// not be persisted.
type NodeID uint64

var lastID atomic.Uint64

// NextID allocates a fresh NodeID. Safe for concurrent use, so trees may be
// built from multiple goroutines.
func NextID() NodeID {
	return NodeID(lastID.Add(1))
}

// String implements fmt.Stringer.
func (id NodeID) String() string {
	return "#" + strconv.FormatUint(uint64(id), 10)
}
