package treedef

import (
	"errors"
	"fmt"

	"github.com/exectails/Yggdrasil-sub001/internal/behavior"
	"github.com/exectails/Yggdrasil-sub001/internal/condition"
)

// Build validates def and constructs the tree it describes, resolving
// callbacks through reg. It returns an error, never panics, for invalid or
// unresolvable definitions.
func Build(def *Definition, reg *Registry) (behavior.Node, error) {
	if reg == nil {
		reg = NewRegistry()
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	var errs []error
	node := build(def, "root", reg, &errs)
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return node, nil
}

// build assumes a validated definition. Resolution failures are collected
// and a placeholder is returned so the walk can continue.
func build(d *Definition, path string, reg *Registry, errs *[]error) behavior.Node {
	fail := func(err error) behavior.Node {
		*errs = append(*errs, fmt.Errorf("%s: %w", path, err))
		return behavior.NewSequence()
	}

	children := func() []behavior.Node {
		out := make([]behavior.Node, len(d.Children))
		for i, c := range d.Children {
			out[i] = build(c, fmt.Sprintf("%s.children[%d]", path, i), reg, errs)
		}
		return out
	}
	child := func() behavior.Node {
		return build(d.Child, path+".child", reg, errs)
	}

	switch d.Type {
	case KindSequence:
		return behavior.NewSequence(children()...)
	case KindSelector:
		return behavior.NewSelector(children()...)
	case KindInverter:
		return behavior.NewInverter(child())
	case KindSucceeder:
		return behavior.NewSucceeder(child())
	case KindRepeat:
		return behavior.NewRepeater(d.RepeatCount(), child())
	case KindRepeatUntilFailure:
		return behavior.NewRepeatUntilFailure(d.RepeatCount(), child())
	case KindExecute:
		action, err := reg.Action(d.Action)
		if err != nil {
			return fail(err)
		}
		return behavior.NewExecute(action)
	case KindCondition:
		if d.Expr != "" {
			e, err := condition.Compile(d.Expr)
			if err != nil {
				return fail(err)
			}
			if d.Lenient {
				return behavior.NewConditional(e.LenientPredicate(reg.logger))
			}
			return behavior.NewConditional(e.Predicate())
		}
		pred, err := reg.Predicate(d.Predicate)
		if err != nil {
			return fail(err)
		}
		return behavior.NewConditional(pred)
	case KindWait:
		wait, err := d.WaitDuration()
		if err != nil {
			return fail(err)
		}
		return behavior.NewWait(wait)
	case KindPrint:
		return behavior.NewPrint(d.Text, behavior.PrintTo(reg.out))
	default:
		return fail(fmt.Errorf("unknown type %q", d.Type))
	}
}
