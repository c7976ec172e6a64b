package command

import (
	"bytes"
	"flag"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/exectails/Yggdrasil-sub001/internal/config"
	"github.com/exectails/Yggdrasil-sub001/internal/testutil"
)

// execute parses args against cmd's flags and runs it, returning what it
// wrote to stdout and stderr.
func execute(t *testing.T, cmd Command, args ...string) (string, string, error) {
	t.Helper()
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.SetupFlags(fs)
	require.NoError(t, fs.Parse(args))

	var stdout, stderr bytes.Buffer
	err := cmd.Execute(fs.Args(), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func mustConfig(t *testing.T, content string) *config.Config {
	t.Helper()
	cfg, err := config.LoadFromReader(strings.NewReader(content))
	require.NoError(t, err)
	return cfg
}

// quietEnv removes the environment overrides of logging options. They must
// be unset, not empty: a set variable wins over the config file.
func quietEnv(t *testing.T) {
	testutil.UnsetEnv(t, "YGG_LOG_LEVEL", "YGG_LOG_FILE")
}
