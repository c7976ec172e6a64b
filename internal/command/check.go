package command

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/exectails/Yggdrasil-sub001/internal/config"
	"github.com/exectails/Yggdrasil-sub001/internal/treedef"
)

// CheckCommand validates tree definitions and resolves their callbacks
// without running them.
type CheckCommand struct {
	*BaseCommand
	config     *config.Config
	showCounts bool
	color      string
}

// NewCheckCommand creates a new check command.
func NewCheckCommand(cfg *config.Config) *CheckCommand {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &CheckCommand{
		BaseCommand: NewBaseCommand(
			"check",
			"Validate behavior tree definitions",
			"check [options] <tree.yaml>...",
		),
		config: cfg,
	}
}

// SetupFlags configures the flags for the check command.
func (c *CheckCommand) SetupFlags(fs *flag.FlagSet) {
	schema := config.DefaultSchema()
	counts, _ := config.ParseBool(schema.ResolveFor(c.config, c.Name(), config.KeyCheckShowCounts))
	fs.BoolVar(&c.showCounts, "counts", counts, "Report node counts per category")
	fs.StringVar(&c.color, "color", schema.ResolveFor(c.config, c.Name(), config.KeyColor), "Colour output: auto, always, never")
}

// Execute checks every definition given, reporting all of them before
// failing.
func (c *CheckCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		_, _ = fmt.Fprintf(stderr, "Usage: ygg %s\n", c.Usage())
		return fmt.Errorf("no tree definitions given")
	}
	p := newPalette(c.color, stdout)
	reg := treedef.NewRegistry()
	reg.SetOutput(io.Discard)

	var failed int
	for _, path := range args {
		def, err := treedef.LoadFile(path)
		if err == nil {
			_, err = treedef.Build(def, reg)
		}
		if err != nil {
			failed++
			_, _ = fmt.Fprintf(stdout, "%s %s\n", p.bad("FAIL"), path)
			for _, line := range strings.Split(err.Error(), "\n") {
				_, _ = fmt.Fprintf(stdout, "     %s\n", line)
			}
			continue
		}
		line := fmt.Sprintf("%s   %s", p.ok("ok"), path)
		if c.showCounts {
			counts := def.Counts()
			line += " " + p.subtle(fmt.Sprintf("(%d nodes: %d composite, %d decorator, %d leaf)",
				def.Size(),
				counts[treedef.CategoryComposite],
				counts[treedef.CategoryDecorator],
				counts[treedef.CategoryLeaf]))
		}
		_, _ = fmt.Fprintln(stdout, line)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d definitions invalid", failed, len(args))
	}
	return nil
}
