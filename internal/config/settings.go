package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Settings are the resolved simulation options of a command.
type Settings struct {
	TickInterval    time.Duration
	Agents          int
	Frames          int
	ResetOnTerminal bool
	Isolate         bool
}

// Settings resolves and parses the simulation options for command. Every
// invalid value is reported in the returned error.
func (s *ConfigSchema) Settings(c *Config, command string) (Settings, error) {
	var (
		out  Settings
		errs []error
	)
	resolve := func(key string) (string, bool) {
		v := s.ResolveFor(c, command, key)
		if opt := s.lookupEffective(command, key); opt != nil {
			if err := opt.Validate(v); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return "", false
			}
		}
		return v, true
	}

	if v, ok := resolve(KeyTickInterval); ok {
		out.TickInterval, _ = time.ParseDuration(v)
	}
	if v, ok := resolve(KeySimAgents); ok {
		out.Agents, _ = strconv.Atoi(v)
	}
	if v, ok := resolve(KeySimFrames); ok {
		out.Frames, _ = strconv.Atoi(v)
	}
	if v, ok := resolve(KeySimResetOnTerm); ok {
		out.ResetOnTerminal, _ = ParseBool(v)
	}
	if v, ok := resolve(KeySimIsolate); ok {
		out.Isolate, _ = ParseBool(v)
	}
	return out, errors.Join(errs...)
}
