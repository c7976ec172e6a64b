package treedef

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/exectails/Yggdrasil-sub001/internal/behavior"
	"github.com/exectails/Yggdrasil-sub001/internal/blackboard"
)

// Registry resolves the action and predicate names a definition refers to.
//
// Besides explicitly registered callbacks, a set of parameterised built-ins
// operate on a *blackboard.Blackboard payload:
//
//	noop               do nothing
//	incr:<key>         add one to an integer key
//	decr:<key>         subtract one from an integer key
//	set:<key>=<value>  store an int, bool or string
//	delete:<key>       remove a key
//	log:<message>      log the message together with the board's keys
//
// and predicates:
//
//	true, false        constants
//	has:<key>          the key is present
type Registry struct {
	actions    map[string]behavior.Action
	predicates map[string]behavior.Predicate
	out        io.Writer
	logger     *slog.Logger
}

// NewRegistry returns a Registry holding only the built-ins. Print nodes
// write to os.Stdout and log: actions use slog.Default.
func NewRegistry() *Registry {
	return &Registry{
		actions:    make(map[string]behavior.Action),
		predicates: make(map[string]behavior.Predicate),
		out:        os.Stdout,
		logger:     slog.Default(),
	}
}

// SetOutput redirects print nodes.
func (r *Registry) SetOutput(w io.Writer) {
	if w != nil {
		r.out = w
	}
}

// SetLogger sets the logger used by log: actions and lenient conditions.
func (r *Registry) SetLogger(logger *slog.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// RegisterAction makes fn available to execute nodes as name. Registered
// names take precedence over built-ins.
func (r *Registry) RegisterAction(name string, fn behavior.Action) {
	r.actions[name] = fn
}

// RegisterPredicate makes fn available to condition nodes as name.
func (r *Registry) RegisterPredicate(name string, fn behavior.Predicate) {
	r.predicates[name] = fn
}

// Action resolves name.
func (r *Registry) Action(name string) (behavior.Action, error) {
	if fn, ok := r.actions[name]; ok {
		return fn, nil
	}
	if name == "noop" {
		return func(any) {}, nil
	}
	op, arg, ok := strings.Cut(name, ":")
	if !ok || arg == "" {
		return nil, fmt.Errorf("unknown action %q", name)
	}
	switch op {
	case "incr", "decr":
		delta := 1
		if op == "decr" {
			delta = -1
		}
		return func(payload any) {
			if _, err := board(payload, name).Incr(arg, delta); err != nil {
				panic(fmt.Errorf("action %q: %w", name, err))
			}
		}, nil
	case "set":
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("action %q: expected set:<key>=<value>", name)
		}
		value := ParseScalar(raw)
		return func(payload any) { board(payload, name).Set(key, value) }, nil
	case "delete":
		return func(payload any) { board(payload, name).Delete(arg) }, nil
	case "log":
		logger := r.logger
		return func(payload any) {
			logger.Info(arg, "keys", board(payload, name).Keys())
		}, nil
	default:
		return nil, fmt.Errorf("unknown action %q", name)
	}
}

// Predicate resolves name.
func (r *Registry) Predicate(name string) (behavior.Predicate, error) {
	if fn, ok := r.predicates[name]; ok {
		return fn, nil
	}
	switch name {
	case "true":
		return func(any) bool { return true }, nil
	case "false":
		return func(any) bool { return false }, nil
	}
	if key, ok := strings.CutPrefix(name, "has:"); ok && key != "" {
		return func(payload any) bool { return board(payload, name).Has(key) }, nil
	}
	return nil, fmt.Errorf("unknown predicate %q", name)
}

// board extracts the blackboard payload the built-ins need. Any other
// payload is a domain error, raised as a panic like any callback failure.
func board(payload any, name string) *blackboard.Blackboard {
	bb, ok := payload.(*blackboard.Blackboard)
	if !ok || bb == nil {
		panic(fmt.Errorf("%q needs a *blackboard.Blackboard payload, got %T", name, payload))
	}
	return bb
}

// ParseScalar converts a textual value to an int or bool when it parses as
// one, and leaves it a string otherwise.
func ParseScalar(raw string) any {
	if i, err := strconv.Atoi(raw); err == nil {
		return i
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}
