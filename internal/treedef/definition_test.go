package treedef

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Guard(t *testing.T) {
	t.Parallel()
	def, err := LoadFile(filepath.Join("testdata", "guard.yaml"))
	require.NoError(t, err)

	assert.Equal(t, KindSelector, def.Type)
	assert.Equal(t, "guard", def.Name)
	require.Len(t, def.Children, 2)
	assert.Equal(t, "enemy == true && ammo > 0", def.Children[0].Children[0].Expr)
	repeat := def.Children[1].Children[2]
	assert.Equal(t, 2, repeat.RepeatCount())
	assert.Equal(t, []*Definition{repeat.Child}, repeat.Kids())
	assert.Equal(t, 10, def.Size())
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()
	_, err := Parse(strings.NewReader(""))
	require.ErrorIs(t, err, ErrEmptyDocument)

	_, err = Parse(strings.NewReader("type: sequence\nbogus: 1\n"))
	require.Error(t, err, "unknown fields are rejected")

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadFile_Invalid(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("type: inverter\n"), 0o644))
	_, err := LoadFile(path)
	require.ErrorContains(t, err, "root: inverter requires a child")
	require.ErrorContains(t, err, path)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	t.Parallel()
	doc := `
type: sequence
child:
  type: print
children:
  - type: teleport
  - type: repeat
    count: 0
    child:
      type: execute
  - type: condition
    predicate: "true"
    expr: "x > 1"
  - type: condition
  - type: wait
    duration: soon
  - type: print
    count: 2
    children:
      - type: print
  - type: succeeder
    children:
      - type: print
  -
`
	def, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	err = def.Validate()
	require.Error(t, err)

	for _, want := range []string{
		"root: sequence takes children, not child",
		`root.children[0]: unknown type "teleport"`,
		"root.children[1]: count must be >= 1 or -1 (unlimited), got 0",
		"root.children[1].child: execute requires an action",
		"root.children[2]: condition takes either a predicate or an expr, not both",
		"root.children[3]: condition requires a predicate or an expr",
		`root.children[4]: invalid duration "soon"`,
		"root.children[5]: print is a leaf and cannot have children",
		"root.children[5]: count is only valid for repeat kinds",
		"root.children[6]: succeeder takes a single child, not children",
		"root.children[6]: succeeder requires a child",
		"root.children[7]: missing node definition",
	} {
		assert.ErrorContains(t, err, want)
	}
}

func TestValidate_BadExpression(t *testing.T) {
	t.Parallel()
	def := &Definition{Type: KindCondition, Expr: "ammo >"}
	require.ErrorContains(t, def.Validate(), "root: compile condition")
}

func TestValidate_NegativeWait(t *testing.T) {
	t.Parallel()
	def := &Definition{Type: KindWait, Duration: "-1s"}
	require.ErrorContains(t, def.Validate(), "negative duration")
}

func TestKind_Category(t *testing.T) {
	t.Parallel()
	assert.Equal(t, CategoryComposite, KindSelector.Category())
	assert.Equal(t, CategoryDecorator, KindRepeatUntilFailure.Category())
	assert.Equal(t, CategoryLeaf, KindPrint.Category())
	assert.Equal(t, CategoryUnknown, Kind("nope").Category())
	assert.Equal(t, CategoryUnknown, Kind("").Category())
}

func TestDefinition_Counts(t *testing.T) {
	t.Parallel()
	def, err := LoadFile(filepath.Join("testdata", "guard.yaml"))
	require.NoError(t, err)
	assert.Equal(t, map[Category]int{
		CategoryComposite: 3,
		CategoryDecorator: 1,
		CategoryLeaf:      6,
	}, def.Counts())
}
