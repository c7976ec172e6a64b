package command

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCommand_Valid(t *testing.T) {
	t.Parallel()
	out, _, err := execute(t, NewCheckCommand(nil), "-color", "never",
		filepath.Join("testdata", "hello.yaml"),
		filepath.Join("testdata", "counter.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "ok   "+filepath.Join("testdata", "hello.yaml")+" (3 nodes: 1 composite, 0 decorator, 2 leaf)\n")
	assert.Contains(t, out, "ok   "+filepath.Join("testdata", "counter.yaml")+" (1 nodes: 0 composite, 0 decorator, 1 leaf)\n")
}

func TestCheckCommand_ReportsEveryFailure(t *testing.T) {
	t.Parallel()
	out, _, err := execute(t, NewCheckCommand(nil), "-color", "never", "-counts=false",
		filepath.Join("testdata", "invalid.yaml"),
		filepath.Join("testdata", "unresolved.yaml"),
		filepath.Join("testdata", "counter.yaml"))
	require.Error(t, err)
	assert.Equal(t, "2 of 3 definitions invalid", err.Error())

	assert.Contains(t, out, "FAIL "+filepath.Join("testdata", "invalid.yaml"))
	assert.Contains(t, out, "count must be")
	assert.Contains(t, out, "invalid duration")
	assert.Contains(t, out, "FAIL "+filepath.Join("testdata", "unresolved.yaml"))
	assert.Contains(t, out, `unknown action "launch-missiles"`)
	assert.Contains(t, out, `unknown predicate "is-friday"`)
	assert.Contains(t, out, "ok   "+filepath.Join("testdata", "counter.yaml")+"\n")
}

func TestCheckCommand_NoArgs(t *testing.T) {
	t.Parallel()
	_, stderr, err := execute(t, NewCheckCommand(nil))
	require.Error(t, err)
	assert.Contains(t, stderr, "Usage: ygg check")
}
