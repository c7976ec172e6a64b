package treedef

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/awalterschulze/gographviz"

	"github.com/exectails/Yggdrasil-sub001/internal/behavior"
)

// DefaultGraphName names the digraph emitted by Dot.
const DefaultGraphName = "tree"

var graphNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Dot renders the definition as a Graphviz digraph. Vertices are labelled
// with the node type, name and main parameter; edges run from parent to
// child and are labelled with the child's tick order.
func Dot(def *Definition) (string, error) {
	return DotNamed(def, DefaultGraphName)
}

// DotNamed is Dot with a caller-chosen graph name, which must be a plain
// DOT identifier.
func DotNamed(def *Definition, graphName string) (string, error) {
	if !graphNamePattern.MatchString(graphName) {
		return "", fmt.Errorf("invalid graph name %q", graphName)
	}
	if err := def.Validate(); err != nil {
		return "", err
	}
	g := gographviz.NewGraph()
	if err := g.SetName(graphName); err != nil {
		return "", err
	}
	if err := g.SetDir(true); err != nil {
		return "", err
	}
	if err := g.AddAttr(graphName, "rankdir", "TB"); err != nil {
		return "", err
	}
	var next int
	if _, err := addVertex(g, graphName, def, &next); err != nil {
		return "", err
	}
	return g.String(), nil
}

func addVertex(g *gographviz.Graph, graphName string, d *Definition, next *int) (string, error) {
	id := fmt.Sprintf("n%d", *next)
	*next++
	attrs := map[string]string{
		"label": strconv.Quote(vertexLabel(d)),
		"shape": vertexShape(d.Type),
	}
	if err := g.AddNode(graphName, id, attrs); err != nil {
		return "", fmt.Errorf("add vertex %s: %w", id, err)
	}
	for i, kid := range d.Kids() {
		kidID, err := addVertex(g, graphName, kid, next)
		if err != nil {
			return "", err
		}
		edgeAttrs := map[string]string{"label": strconv.Quote(strconv.Itoa(i + 1))}
		if err := g.AddEdge(id, kidID, true, edgeAttrs); err != nil {
			return "", fmt.Errorf("add edge %s->%s: %w", id, kidID, err)
		}
	}
	return id, nil
}

func vertexLabel(d *Definition) string {
	parts := []string{string(d.Type)}
	if d.Name != "" {
		parts = append(parts, d.Name)
	}
	switch d.Type {
	case KindRepeat, KindRepeatUntilFailure:
		if n := d.RepeatCount(); n == behavior.Unlimited {
			parts = append(parts, "x inf")
		} else {
			parts = append(parts, fmt.Sprintf("x %d", n))
		}
	case KindExecute:
		parts = append(parts, d.Action)
	case KindCondition:
		if d.Expr != "" {
			parts = append(parts, d.Expr)
		} else {
			parts = append(parts, d.Predicate)
		}
	case KindWait:
		if d.Duration != "" {
			parts = append(parts, d.Duration)
		}
	case KindPrint:
		parts = append(parts, strconv.Quote(d.Text))
	}
	return strings.Join(parts, "\n")
}

func vertexShape(k Kind) string {
	switch k.Category() {
	case CategoryComposite:
		return "box"
	case CategoryDecorator:
		return "diamond"
	default:
		return "ellipse"
	}
}
