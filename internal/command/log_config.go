package command

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/exectails/Yggdrasil-sub001/internal/config"
)

// logConfig holds resolved logging configuration.
type logConfig struct {
	level   slog.Level
	logFile io.WriteCloser // nil if no file logging
}

// resolveLogConfig resolves logging from flags, then config (and its env
// overrides), then defaults. The caller must Close the returned logFile
// when it is non-nil.
func resolveLogConfig(flagPath, flagLevel string, cfg *config.Config) (logConfig, error) {
	schema := config.DefaultSchema()
	var lc logConfig

	levelStr := flagLevel
	if levelStr == "" {
		levelStr = schema.Resolve(cfg, config.KeyLogLevel)
	}
	level, err := parseLevel(levelStr)
	if err != nil {
		return lc, err
	}
	lc.level = level

	logPath := flagPath
	if logPath == "" {
		logPath = schema.Resolve(cfg, config.KeyLogFile)
	}
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return lc, fmt.Errorf("failed to open log file %s: %w", logPath, err)
		}
		lc.logFile = f
	}
	return lc, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", s)
	}
}

// logger builds the command logger: JSON lines to the log file when one is
// configured, text to stderr otherwise.
func (lc logConfig) logger(stderr io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: lc.level}
	if lc.logFile != nil {
		return slog.New(slog.NewJSONHandler(lc.logFile, opts))
	}
	return slog.New(slog.NewTextHandler(stderr, opts))
}
