package config

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"
)

// OptionType is the expected type of a configuration value.
type OptionType string

const (
	TypeString   OptionType = "string"
	TypeBool     OptionType = "bool"
	TypeInt      OptionType = "int"
	TypeDuration OptionType = "duration"
)

// ConfigOption declares a single configuration option.
type ConfigOption struct {
	// Key is the option name as it appears in the config file.
	Key  string
	Type OptionType
	// Default is the default value as a string, or "" for none.
	Default     string
	Description string
	// Section is "" for global options, or a command name.
	Section string
	// EnvVar overrides the option when set, or "".
	EnvVar string
	// Choices, if non-empty, restricts the value to one of its entries.
	Choices []string
	// Min is the smallest accepted value for TypeInt options with HasMin.
	Min    int
	HasMin bool
}

// ConfigSchema declares the known configuration options. It drives
// validation, typed resolution, env var overrides and the schema help text.
type ConfigSchema struct {
	options   []*ConfigOption
	byKey     map[string]*ConfigOption
	bySection map[string]map[string]*ConfigOption
}

// NewSchema creates a new empty ConfigSchema.
func NewSchema() *ConfigSchema {
	return &ConfigSchema{
		byKey:     make(map[string]*ConfigOption),
		bySection: make(map[string]map[string]*ConfigOption),
	}
}

// Register adds opt to the schema. The last registration of a key wins.
func (s *ConfigSchema) Register(opt ConfigOption) {
	ref := new(ConfigOption)
	*ref = opt
	s.options = append(s.options, ref)
	if opt.Section == "" {
		s.byKey[opt.Key] = ref
		return
	}
	if s.bySection[opt.Section] == nil {
		s.bySection[opt.Section] = make(map[string]*ConfigOption)
	}
	s.bySection[opt.Section][opt.Key] = ref
}

// RegisterAll adds multiple ConfigOptions to the schema.
func (s *ConfigSchema) RegisterAll(opts []ConfigOption) {
	for _, opt := range opts {
		s.Register(opt)
	}
}

// Lookup returns the option registered for key in section ("" for global),
// or nil.
func (s *ConfigSchema) Lookup(section, key string) *ConfigOption {
	if section == "" {
		return s.byKey[key]
	}
	if sec, ok := s.bySection[section]; ok {
		return sec[key]
	}
	return nil
}

// lookupEffective finds key in section, then among the globals, which may
// also appear in command sections.
func (s *ConfigSchema) lookupEffective(section, key string) *ConfigOption {
	if opt := s.Lookup(section, key); opt != nil {
		return opt
	}
	return s.byKey[key]
}

// IsKnown reports whether key may appear in section.
func (s *ConfigSchema) IsKnown(section, key string) bool {
	return s.lookupEffective(section, key) != nil
}

// GlobalOptions returns the registered global options in registration order.
func (s *ConfigSchema) GlobalOptions() []ConfigOption {
	return s.SectionOptions("")
}

// SectionOptions returns the options registered for section.
func (s *ConfigSchema) SectionOptions(section string) []ConfigOption {
	var out []ConfigOption
	for _, o := range s.options {
		if o.Section == section {
			out = append(out, *o)
		}
	}
	return out
}

// Sections returns the sorted non-empty section names.
func (s *ConfigSchema) Sections() []string {
	out := make([]string, 0, len(s.bySection))
	for sec := range s.bySection {
		out = append(out, sec)
	}
	sort.Strings(out)
	return out
}

// Resolve returns the effective value of a global key: its environment
// variable, then the config file, then the schema default.
func (s *ConfigSchema) Resolve(c *Config, key string) string {
	return s.ResolveFor(c, "", key)
}

// ResolveFor is Resolve for a command: a value in the command's section
// takes precedence over the global one.
func (s *ConfigSchema) ResolveFor(c *Config, command, key string) string {
	opt := s.lookupEffective(command, key)
	if opt != nil && opt.EnvVar != "" {
		if v, ok := os.LookupEnv(opt.EnvVar); ok {
			return v
		}
	}
	if c != nil {
		var (
			v  string
			ok bool
		)
		if command == "" {
			v, ok = c.GetGlobalOption(key)
		} else {
			v, ok = c.GetCommandOption(command, key)
		}
		if ok {
			return v
		}
	}
	if opt != nil {
		return opt.Default
	}
	return ""
}

// ValidateConfig checks c against the schema, returning sorted,
// human-readable issues. It reports unknown options and values that do not
// match their declared type.
func ValidateConfig(c *Config, s *ConfigSchema) []string {
	var issues []string

	for key, value := range c.Global {
		opt := s.Lookup("", key)
		if opt == nil {
			issues = append(issues, fmt.Sprintf("unknown global option: %q (value: %q)", key, value))
			continue
		}
		if err := opt.Validate(value); err != nil {
			issues = append(issues, fmt.Sprintf("global option %q: %v", key, err))
		}
	}

	for section, opts := range c.Commands {
		for key, value := range opts {
			opt := s.lookupEffective(section, key)
			if opt == nil {
				issues = append(issues, fmt.Sprintf("unknown option for command %q: %q (value: %q)", section, key, value))
				continue
			}
			if err := opt.Validate(value); err != nil {
				issues = append(issues, fmt.Sprintf("option %q in [%s]: %v", key, section, err))
			}
		}
	}

	sort.Strings(issues)
	return issues
}

// Validate checks value against the option's type and constraints.
func (o *ConfigOption) Validate(value string) error {
	switch o.Type {
	case TypeString, "":
	case TypeBool:
		if _, err := ParseBool(value); err != nil {
			return fmt.Errorf("expected bool, got %q", value)
		}
	case TypeInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("expected int, got %q", value)
		}
		if o.HasMin && n < o.Min {
			return fmt.Errorf("must be at least %d, got %d", o.Min, n)
		}
	case TypeDuration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("expected duration, got %q", value)
		}
		if d <= 0 {
			return fmt.Errorf("must be positive, got %v", d)
		}
	default:
		return fmt.Errorf("unknown option type %q", o.Type)
	}
	if len(o.Choices) > 0 && !slices.Contains(o.Choices, value) {
		return fmt.Errorf("expected one of %s, got %q", strings.Join(o.Choices, ", "), value)
	}
	return nil
}

// GetBool returns the global option parsed as a boolean, or false.
func (c *Config) GetBool(key string) bool {
	v, ok := c.GetGlobalOption(key)
	if !ok {
		return false
	}
	b, err := ParseBool(v)
	return err == nil && b
}

// GetInt returns the global option parsed as an integer, or 0.
func (c *Config) GetInt(key string) int {
	v, ok := c.GetGlobalOption(key)
	if !ok {
		return 0
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return i
}

// GetDuration returns the global option parsed as a time.Duration, or 0.
func (c *Config) GetDuration(key string) time.Duration {
	v, ok := c.GetGlobalOption(key)
	if !ok {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

// FormatHelp returns a human-readable reference of every registered option,
// globals first, then each section.
func (s *ConfigSchema) FormatHelp() string {
	var b strings.Builder

	if globals := s.GlobalOptions(); len(globals) > 0 {
		b.WriteString("Global Options:\n")
		for _, o := range globals {
			writeOptionHelp(&b, o)
		}
	}
	for _, sec := range s.Sections() {
		opts := s.SectionOptions(sec)
		if len(opts) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n[%s] Options:\n", sec)
		for _, o := range opts {
			writeOptionHelp(&b, o)
		}
	}
	return b.String()
}

func writeOptionHelp(b *strings.Builder, o ConfigOption) {
	fmt.Fprintf(b, "  %-24s %s", o.Key, o.Description)
	parts := make([]string, 0, 4)
	if o.Type != "" && o.Type != TypeString {
		parts = append(parts, "type: "+string(o.Type))
	}
	if len(o.Choices) > 0 {
		parts = append(parts, "one of: "+strings.Join(o.Choices, "|"))
	}
	if o.Default != "" {
		parts = append(parts, "default: "+o.Default)
	}
	if o.EnvVar != "" {
		parts = append(parts, "env: "+o.EnvVar)
	}
	if len(parts) > 0 {
		fmt.Fprintf(b, " (%s)", strings.Join(parts, ", "))
	}
	b.WriteString("\n")
}

// Option keys.
const (
	KeyLogLevel        = "log.level"
	KeyLogFile         = "log.file"
	KeyColor           = "color"
	KeyTickInterval    = "tick.interval"
	KeySimAgents       = "sim.agents"
	KeySimFrames       = "sim.frames"
	KeySimResetOnTerm  = "sim.reset-on-terminal"
	KeySimIsolate      = "sim.isolate"
	KeyRunSummary      = "summary"
	KeyDotGraphName    = "graph-name"
	KeyCheckShowCounts = "show-counts"
)

// DefaultSchema returns the schema of every option ygg understands.
func DefaultSchema() *ConfigSchema {
	s := NewSchema()
	s.RegisterAll([]ConfigOption{
		{Key: KeyLogLevel, Type: TypeString, Default: "info", Description: "Log level", Choices: []string{"debug", "info", "warn", "error"}, EnvVar: "YGG_LOG_LEVEL"},
		{Key: KeyLogFile, Type: TypeString, Description: "Write JSON logs to this file instead of stderr", EnvVar: "YGG_LOG_FILE"},
		{Key: KeyColor, Type: TypeString, Default: "auto", Description: "Colour status output", Choices: []string{"auto", "always", "never"}},
		{Key: KeyTickInterval, Type: TypeDuration, Default: "100ms", Description: "Interval between ticks of each agent"},
		{Key: KeySimAgents, Type: TypeInt, Default: "1", Description: "Number of agents sharing the tree", Min: 1, HasMin: true},
		{Key: KeySimFrames, Type: TypeInt, Default: "10", Description: "Ticks per agent, 0 to run until interrupted", Min: 0, HasMin: true},
		{Key: KeySimResetOnTerm, Type: TypeBool, Default: "true", Description: "Restart an agent's traversal after Success or Failure"},
		{Key: KeySimIsolate, Type: TypeBool, Default: "false", Description: "Halt only the failing agent when a callback panics"},

		{Key: KeyRunSummary, Section: "run", Type: TypeBool, Default: "true", Description: "Print the per-agent summary table"},
		{Key: KeyDotGraphName, Section: "dot", Type: TypeString, Default: "tree", Description: "Name of the emitted digraph"},
		{Key: KeyCheckShowCounts, Section: "check", Type: TypeBool, Default: "true", Description: "Report node counts per category"},
	})
	return s
}
