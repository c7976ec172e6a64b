package command

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/exectails/Yggdrasil-sub001/internal/config"
	"github.com/exectails/Yggdrasil-sub001/internal/sim"
	"github.com/exectails/Yggdrasil-sub001/internal/treedef"
)

// seed is a blackboard entry given on the command line.
type seed struct {
	key   string
	value any
}

// RunCommand simulates agents running a tree loaded from YAML.
type RunCommand struct {
	*BaseCommand
	config      *config.Config
	settingsErr error

	agents   int
	frames   int
	interval time.Duration
	reset    bool
	isolate  bool
	step     bool
	summary  bool
	color    string
	logPath  string
	logLevel string
	seeds    []seed

	// ctxFactory creates the run context. Nil cancels on SIGINT/SIGTERM.
	ctxFactory func() (context.Context, context.CancelFunc)
}

// NewRunCommand creates a new run command. Flag defaults come from cfg.
func NewRunCommand(cfg *config.Config) *RunCommand {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &RunCommand{
		BaseCommand: NewBaseCommand(
			"run",
			"Simulate agents ticking a behavior tree definition",
			"run [options] <tree.yaml>",
		),
		config: cfg,
	}
}

// SetupFlags configures the flags for the run command.
func (c *RunCommand) SetupFlags(fs *flag.FlagSet) {
	schema := config.DefaultSchema()
	settings, err := schema.Settings(c.config, c.Name())
	c.settingsErr = err
	summary, _ := config.ParseBool(schema.ResolveFor(c.config, c.Name(), config.KeyRunSummary))

	fs.IntVar(&c.agents, "agents", settings.Agents, "Number of agents sharing the tree")
	fs.IntVar(&c.frames, "frames", settings.Frames, "Ticks per agent (0 runs until interrupted)")
	fs.DurationVar(&c.interval, "interval", settings.TickInterval, "Interval between ticks of each agent")
	fs.BoolVar(&c.reset, "reset", settings.ResetOnTerminal, "Restart an agent's traversal after Success or Failure")
	fs.BoolVar(&c.isolate, "isolate", settings.Isolate, "Halt only the failing agent when a callback panics")
	fs.BoolVar(&c.step, "step", false, "Tick all agents in lock-step on one goroutine, ignoring -interval")
	fs.BoolVar(&c.summary, "summary", summary, "Print the per-agent summary")
	fs.StringVar(&c.color, "color", schema.ResolveFor(c.config, c.Name(), config.KeyColor), "Colour output: auto, always, never")
	fs.StringVar(&c.logPath, "log-file", "", "Path to log file (JSON output)")
	fs.StringVar(&c.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.Func("set", "Seed every agent's blackboard with `key=value` (repeatable)", func(s string) error {
		key, value, ok := strings.Cut(s, "=")
		if !ok || key == "" {
			return fmt.Errorf("expected key=value, got %q", s)
		}
		c.seeds = append(c.seeds, seed{key: key, value: treedef.ParseScalar(value)})
		return nil
	})
}

// Execute runs the simulation.
func (c *RunCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if c.settingsErr != nil {
		return fmt.Errorf("invalid configuration: %w", c.settingsErr)
	}
	if len(args) != 1 {
		_, _ = fmt.Fprintf(stderr, "Usage: ygg %s\n", c.Usage())
		return fmt.Errorf("expected one tree definition, got %d arguments", len(args))
	}
	if c.step && c.frames <= 0 {
		return fmt.Errorf("-step needs a positive -frames")
	}

	lc, err := resolveLogConfig(c.logPath, c.logLevel, c.config)
	if err != nil {
		return err
	}
	if lc.logFile != nil {
		defer lc.logFile.Close()
	}
	logger := lc.logger(stderr)

	def, err := treedef.LoadFile(args[0])
	if err != nil {
		return err
	}
	reg := treedef.NewRegistry()
	reg.SetOutput(stdout)
	reg.SetLogger(logger)
	root, err := treedef.Build(def, reg)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	world, err := sim.New(root, sim.Options{
		Agents:          c.agents,
		Frames:          c.frames,
		ResetOnTerminal: c.reset,
		Isolate:         c.isolate,
		Logger:          logger,
		Seed: func(a *sim.Agent) {
			a.Board.Set("agent", a.Index)
			for _, s := range c.seeds {
				a.Board.Set(s.key, s.value)
			}
		},
	})
	if err != nil {
		return err
	}

	var ctx context.Context
	var cancel context.CancelFunc
	if c.ctxFactory != nil {
		ctx, cancel = c.ctxFactory()
	} else {
		ctx, cancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	}
	defer cancel()

	logger.Info("simulation starting",
		"tree", args[0],
		"nodes", def.Size(),
		"agents", c.agents,
		"frames", c.frames,
		"step", c.step)

	start := time.Now()
	var runErr error
	if c.step {
		for i := 0; i < c.frames && ctx.Err() == nil; i++ {
			if runErr = world.Step(); runErr != nil {
				break
			}
		}
	} else {
		runErr = world.Run(ctx, c.interval)
	}
	if errors.Is(runErr, context.Canceled) {
		logger.Info("simulation interrupted")
		runErr = nil
	}
	logger.Info("simulation finished", "elapsed", time.Since(start), "error", runErr)

	if c.summary {
		printSummary(stdout, newPalette(c.color, stdout), world.Summary())
	}
	return runErr
}

// printSummary writes one row per agent followed by totals. The coloured
// status is the last column so escape codes do not skew the alignment.
func printSummary(w io.Writer, p palette, s sim.Summary) {
	_, _ = fmt.Fprintln(w, p.title("Summary"))
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "AGENT\tID\tTICKS\tSUCCESS\tFAILURE\tLAST")
	for _, a := range s.Agents {
		last := p.status(a.Last)
		if a.Err != nil {
			last = p.bad("halted")
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%s\n",
			a.Index, a.ID.String()[:8], a.Ticks, a.Successes, a.Failures, last)
	}
	_ = tw.Flush()
	for _, a := range s.Agents {
		if a.Err != nil {
			_, _ = fmt.Fprintf(w, "agent %d: %v\n", a.Index, a.Err)
		}
	}
	_, _ = fmt.Fprintln(w, p.subtle(fmt.Sprintf("agents=%d ticks=%d successes=%d failures=%d halted=%d",
		len(s.Agents), s.Ticks, s.Successes, s.Failures, s.Halted)))
}
