// Package treedef loads behavior trees from YAML documents.
//
// A document is a single node definition; composites nest further
// definitions under "children" and decorators under "child":
//
//	type: selector
//	name: guard
//	children:
//	  - type: sequence
//	    children:
//	      - type: condition
//	        expr: enemy != nil && ammo > 0
//	      - type: execute
//	        action: decr:ammo
//	  - type: repeat
//	    count: 3
//	    child:
//	      type: wait
//	      duration: 250ms
//
// Definitions are validated as a whole before any node is built, so a bad
// document yields an error listing every problem rather than a panic.
package treedef

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/exectails/Yggdrasil-sub001/internal/behavior"
	"github.com/exectails/Yggdrasil-sub001/internal/condition"
)

// Kind names a node type in a definition.
type Kind string

const (
	KindSequence           Kind = "sequence"
	KindSelector           Kind = "selector"
	KindInverter           Kind = "inverter"
	KindSucceeder          Kind = "succeeder"
	KindRepeat             Kind = "repeat"
	KindRepeatUntilFailure Kind = "repeat-until-failure"
	KindExecute            Kind = "execute"
	KindCondition          Kind = "condition"
	KindWait               Kind = "wait"
	KindPrint              Kind = "print"
)

// Category groups kinds by arity.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryComposite
	CategoryDecorator
	CategoryLeaf
)

// Category returns the arity class of k.
func (k Kind) Category() Category {
	switch k {
	case KindSequence, KindSelector:
		return CategoryComposite
	case KindInverter, KindSucceeder, KindRepeat, KindRepeatUntilFailure:
		return CategoryDecorator
	case KindExecute, KindCondition, KindWait, KindPrint:
		return CategoryLeaf
	default:
		return CategoryUnknown
	}
}

// Definition describes one node and, recursively, its subtree.
type Definition struct {
	Type      Kind          `yaml:"type"`
	Name      string        `yaml:"name,omitempty"`
	Children  []*Definition `yaml:"children,omitempty"`
	Child     *Definition   `yaml:"child,omitempty"`
	Count     *int          `yaml:"count,omitempty"`
	Duration  string        `yaml:"duration,omitempty"`
	Text      string        `yaml:"text,omitempty"`
	Action    string        `yaml:"action,omitempty"`
	Predicate string        `yaml:"predicate,omitempty"`
	Expr      string        `yaml:"expr,omitempty"`
	// Lenient makes expression errors evaluate to false instead of
	// propagating to the host.
	Lenient bool `yaml:"lenient,omitempty"`
}

// ErrEmptyDocument is returned when a document holds no definition.
var ErrEmptyDocument = errors.New("empty tree definition")

// Parse decodes a single YAML definition from r. Unknown fields are
// rejected. The result is not validated.
func Parse(r io.Reader) (*Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var def Definition
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("decode tree definition: %w", err)
	}
	return &def, nil
}

// LoadFile parses and validates the definition stored at path.
func LoadFile(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tree definition: %w", err)
	}
	defer f.Close()

	def, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Validate checks the whole subtree and reports every problem found, each
// prefixed with the offending node's path (e.g. "root.children[1].child").
func (d *Definition) Validate() error {
	var errs []error
	d.validate("root", &errs)
	return errors.Join(errs...)
}

func (d *Definition) validate(path string, errs *[]error) {
	fail := func(format string, args ...any) {
		*errs = append(*errs, fmt.Errorf("%s: %s", path, fmt.Sprintf(format, args...)))
	}
	if d == nil {
		fail("missing node definition")
		return
	}

	switch d.Type.Category() {
	case CategoryUnknown:
		if d.Type == "" {
			fail("missing type")
		} else {
			fail("unknown type %q", d.Type)
		}
		return
	case CategoryComposite:
		if d.Child != nil {
			fail("%s takes children, not child", d.Type)
		}
	case CategoryDecorator:
		if len(d.Children) != 0 {
			fail("%s takes a single child, not children", d.Type)
		}
		if d.Child == nil {
			fail("%s requires a child", d.Type)
		}
	case CategoryLeaf:
		if d.Child != nil || len(d.Children) != 0 {
			fail("%s is a leaf and cannot have children", d.Type)
		}
	}

	if d.Count != nil && d.Type != KindRepeat && d.Type != KindRepeatUntilFailure {
		fail("count is only valid for repeat kinds")
	}
	if d.Count != nil && *d.Count < 1 && *d.Count != behavior.Unlimited {
		fail("count must be >= 1 or %d (unlimited), got %d", behavior.Unlimited, *d.Count)
	}

	switch d.Type {
	case KindExecute:
		if d.Action == "" {
			fail("execute requires an action")
		}
	case KindCondition:
		switch {
		case d.Predicate == "" && d.Expr == "":
			fail("condition requires a predicate or an expr")
		case d.Predicate != "" && d.Expr != "":
			fail("condition takes either a predicate or an expr, not both")
		case d.Expr != "":
			if _, err := condition.Compile(d.Expr); err != nil {
				fail("%v", err)
			}
		}
	case KindWait:
		if _, err := d.WaitDuration(); err != nil {
			fail("%v", err)
		}
	}

	for i, child := range d.Children {
		child.validate(fmt.Sprintf("%s.children[%d]", path, i), errs)
	}
	if d.Child != nil {
		d.Child.validate(path+".child", errs)
	}
}

// WaitDuration parses Duration. An empty duration is zero.
func (d *Definition) WaitDuration() (time.Duration, error) {
	if d.Duration == "" {
		return 0, nil
	}
	v, err := time.ParseDuration(d.Duration)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", d.Duration, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative duration %q", d.Duration)
	}
	return v, nil
}

// RepeatCount returns Count, defaulting to behavior.Unlimited.
func (d *Definition) RepeatCount() int {
	if d.Count == nil {
		return behavior.Unlimited
	}
	return *d.Count
}

// Kids returns the definition's direct children in tick order, whichever
// field holds them.
func (d *Definition) Kids() []*Definition {
	if d.Child != nil {
		return []*Definition{d.Child}
	}
	return d.Children
}

// Size returns the number of nodes in the subtree.
func (d *Definition) Size() int {
	n := 1
	for _, k := range d.Kids() {
		n += k.Size()
	}
	return n
}

// Counts tallies the subtree's nodes per category.
func (d *Definition) Counts() map[Category]int {
	out := make(map[Category]int)
	var walk func(*Definition)
	walk = func(d *Definition) {
		out[d.Type.Category()]++
		for _, k := range d.Kids() {
			walk(k)
		}
	}
	walk(d)
	return out
}
