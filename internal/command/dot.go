package command

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/exectails/Yggdrasil-sub001/internal/config"
	"github.com/exectails/Yggdrasil-sub001/internal/treedef"
)

// DotCommand renders a tree definition as Graphviz DOT.
type DotCommand struct {
	*BaseCommand
	config    *config.Config
	graphName string
	output    string
}

// NewDotCommand creates a new dot command.
func NewDotCommand(cfg *config.Config) *DotCommand {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &DotCommand{
		BaseCommand: NewBaseCommand(
			"dot",
			"Render a behavior tree definition as Graphviz DOT",
			"dot [options] <tree.yaml>",
		),
		config: cfg,
	}
}

// SetupFlags configures the flags for the dot command.
func (c *DotCommand) SetupFlags(fs *flag.FlagSet) {
	name := config.DefaultSchema().ResolveFor(c.config, c.Name(), config.KeyDotGraphName)
	fs.StringVar(&c.graphName, "name", name, "Name of the emitted digraph")
	fs.StringVar(&c.output, "o", "", "Write to this file instead of stdout")
}

// Execute renders the definition.
func (c *DotCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) != 1 {
		_, _ = fmt.Fprintf(stderr, "Usage: ygg %s\n", c.Usage())
		return fmt.Errorf("expected one tree definition, got %d arguments", len(args))
	}
	def, err := treedef.LoadFile(args[0])
	if err != nil {
		return err
	}
	out, err := treedef.DotNamed(def, c.graphName)
	if err != nil {
		return err
	}
	if c.output == "" {
		_, err = io.WriteString(stdout, out)
		return err
	}
	if err := os.WriteFile(c.output, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.output, err)
	}
	_, _ = fmt.Fprintf(stdout, "Wrote %s (%d nodes)\n", c.output, def.Size())
	return nil
}
