package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a file-backed zap logger. The terminal belongs to the TUI,
// so nothing may write to stdout or stderr while the program runs; all
// diagnostics land in the log file instead. An empty path defaults to
// ~/.local/share/bayan/bayan.log.
func New(path, level string) (*zap.Logger, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			path = "bayan.log"
		} else {
			path = filepath.Join(home, ".local", "share", "bayan", "bayan.log")
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.Set(level); err != nil {
			return nil, fmt.Errorf("parsing log level %q: %w", level, err)
		}
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}
