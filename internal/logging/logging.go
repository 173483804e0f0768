// Package logging builds the zap logger used across ingresos. The dashboard
// owns the terminal, so logs always go to a file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the level, encoding and destination of the log.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // json or console
	File   string
}

// ParseLevel maps a level name to a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("invalid log level: %s", level)
}

// New builds a logger writing to opts.File. An empty File yields a no-op
// logger.
func New(opts Options) (*zap.Logger, error) {
	if opts.File == "" {
		return zap.NewNop(), nil
	}

	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var cfg zap.Config
	switch opts.Format {
	case "console":
		cfg = zap.NewDevelopmentConfig()
	case "", "json":
		cfg = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", opts.Format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o750); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}
	cfg.OutputPaths = []string{opts.File}
	cfg.ErrorOutputPaths = []string{opts.File}

	return cfg.Build()
}
