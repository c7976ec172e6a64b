// Package condition compiles expr-lang expressions into behavior tree
// predicates.
//
// Expressions are compiled once, when the tree is built, and evaluated
// natively on every tick. The evaluation environment is derived from the
// traversal payload:
//
//   - map[string]any: used as-is, so keys are top-level variables
//   - *blackboard.Blackboard: a snapshot of its entries
//   - anything else: exposed as the single variable "value"
//
// Undefined variables evaluate to nil rather than failing compilation, so
// "ammo > 0" works before anything has written "ammo".
package condition

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/exectails/Yggdrasil-sub001/internal/behavior"
	"github.com/exectails/Yggdrasil-sub001/internal/blackboard"
)

// ErrEmpty is returned by Compile for a blank expression.
var ErrEmpty = errors.New("empty condition expression")

// EvalError reports a failed evaluation. Predicate panics with it, since
// evaluation failures are domain errors the engine does not interpret.
type EvalError struct {
	Expr string
	Err  error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("condition %q: %v", e.Expr, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }

// Expr is a compiled boolean expression. Safe for concurrent use.
type Expr struct {
	source  string
	program *vm.Program
}

// Compile compiles source, which must produce a bool.
func Compile(source string) (*Expr, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, ErrEmpty
	}
	program, err := expr.Compile(source,
		expr.AsBool(),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, fmt.Errorf("compile condition %q: %w", source, err)
	}
	return &Expr{source: source, program: program}, nil
}

// String returns the expression source.
func (e *Expr) String() string { return e.source }

// Eval evaluates the expression against payload.
func (e *Expr) Eval(payload any) (bool, error) {
	out, err := expr.Run(e.program, Env(payload))
	if err != nil {
		return false, &EvalError{Expr: e.source, Err: err}
	}
	b, ok := out.(bool)
	if !ok {
		return false, &EvalError{Expr: e.source, Err: fmt.Errorf("result is %T, not bool", out)}
	}
	return b, nil
}

// Predicate adapts the expression to a Conditional predicate. Evaluation
// errors panic with *EvalError and reach whoever ticks the tree.
func (e *Expr) Predicate() behavior.Predicate {
	return func(payload any) bool {
		b, err := e.Eval(payload)
		if err != nil {
			panic(err)
		}
		return b
	}
}

// LenientPredicate is like Predicate, but logs evaluation errors and
// treats them as false.
func (e *Expr) LenientPredicate(logger *slog.Logger) behavior.Predicate {
	if logger == nil {
		logger = slog.Default()
	}
	return func(payload any) bool {
		b, err := e.Eval(payload)
		if err != nil {
			logger.Warn("condition evaluation failed",
				"expression", e.source,
				"error", err)
			return false
		}
		return b
	}
}

// Env builds the evaluation environment for payload.
func Env(payload any) map[string]any {
	switch p := payload.(type) {
	case map[string]any:
		if p == nil {
			return map[string]any{}
		}
		return p
	case *blackboard.Blackboard:
		if p == nil {
			return map[string]any{}
		}
		if snap := p.Snapshot(); snap != nil {
			return snap
		}
		return map[string]any{}
	default:
		return map[string]any{"value": payload}
	}
}
