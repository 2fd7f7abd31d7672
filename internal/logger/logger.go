package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a zap logger writing to stderr. Format "json" uses the
// production encoder, "console" the development one. A non-empty level
// overrides the default: debug, info, warn, error.
//
// stdout is never used: it carries the MCP stdio channel.
func New(format, level string) (*zap.Logger, error) {
	return build(format, level, "stderr")
}

// NewFile is New writing to path instead of stderr, for the terminal UI
// which owns the screen.
func NewFile(path, format, level string) (*zap.Logger, error) {
	return build(format, level, path)
}

func build(format, level, output string) (*zap.Logger, error) {
	var cfg zap.Config
	switch format {
	case "json":
		cfg = zap.NewProductionConfig()
	case "console", "":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	cfg.OutputPaths = []string{output}
	cfg.ErrorOutputPaths = []string{output}

	if level != "" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}
