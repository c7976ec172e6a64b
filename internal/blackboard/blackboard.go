// Package blackboard provides the key/value store agents carry as the
// payload of a behavior tree traversal.
package blackboard

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"sync"
)

// Blackboard is a thread-safe key-value store for agent state. Leaf
// callbacks read and mutate it; the engine never looks inside.
//
// Usage: Create with new(Blackboard). The internal map is lazily initialized
// on the first write.
type Blackboard struct {
	mu   sync.RWMutex
	data map[string]any
}

// init initializes the internal map if needed. Callers must hold mu.
func (b *Blackboard) init() {
	if b.data == nil {
		b.data = make(map[string]any)
	}
}

// Get retrieves a value. Returns nil if the key doesn't exist.
func (b *Blackboard) Get(key string) any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.data[key]
}

// Lookup retrieves a value and reports whether it was present.
func (b *Blackboard) Lookup(key string) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.data[key]
	return v, ok
}

// Set stores a value.
func (b *Blackboard) Set(key string, value any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.init()
	b.data[key] = value
}

// Has returns true if the key exists.
func (b *Blackboard) Has(key string) bool {
	_, ok := b.Lookup(key)
	return ok
}

// Delete removes a key.
func (b *Blackboard) Delete(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
}

// Keys returns all keys, sorted.
func (b *Blackboard) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.data == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(b.data))
}

// Clear removes all entries.
func (b *Blackboard) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = make(map[string]any)
}

// Len returns the number of keys.
func (b *Blackboard) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.data)
}

// Snapshot returns a shallow copy of the data.
//
// WARNING: mutable values (slices, maps, pointers) are shared with the
// blackboard. Callers that modify them must copy first.
func (b *Blackboard) Snapshot() map[string]any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return maps.Clone(b.data)
}

// GetInt returns the value of key as an int. Missing keys read as 0.
// Strings holding integers are parsed, other types are an error.
func (b *Blackboard) GetInt(key string) (int, error) {
	v, ok := b.Lookup(key)
	if !ok {
		return 0, nil
	}
	return toInt(key, v)
}

// Incr adds delta to the integer stored under key and returns the result.
// The read and write happen under a single lock.
func (b *Blackboard) Incr(key string, delta int) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.init()
	cur := 0
	if v, ok := b.data[key]; ok {
		n, err := toInt(key, v)
		if err != nil {
			return 0, err
		}
		cur = n
	}
	cur += delta
	b.data[key] = cur
	return cur, nil
}

func toInt(key string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("blackboard key %q: %w", key, err)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("blackboard key %q: not an integer (%T)", key, v)
	}
}
