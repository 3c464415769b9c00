// Package logging provides categorized zap loggers for pn.
// Until Configure (or SetRoot) is called every category logs to a no-op
// logger, so library code can log unconditionally.
package logging

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pnengine/internal/config"
)

// Category represents a log category/system
type Category string

const (
	CategoryNotation Category = "notation" // Expression parsing and evaluation
	CategoryRows     Category = "rows"     // Row generation
	CategoryAnalysis Category = "analysis" // Report building
	CategoryBattery  Category = "battery"  // Method battery runs
	CategoryCLI      Category = "cli"      // Command dispatch
)

var (
	mu      sync.RWMutex
	root    = zap.NewNop()
	loggers = map[Category]*zap.SugaredLogger{}
)

// Configure builds the root logger from cfg and installs it.
func Configure(cfg config.LoggingConfig) (*zap.Logger, error) {
	var zcfg zap.Config
	if strings.EqualFold(cfg.Format, "json") {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	level := zapcore.WarnLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.DisableStacktrace = true

	zcfg.OutputPaths = []string{"stderr"}
	if cfg.File != "" {
		zcfg.OutputPaths = []string{cfg.File}
	}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	SetRoot(logger)
	return logger, nil
}

// SetRoot installs l as the root logger. A nil l resets to a no-op logger.
func SetRoot(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	root = l
	loggers = map[Category]*zap.SugaredLogger{}
	mu.Unlock()
}

// Root returns the current root logger.
func Root() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// Get returns the logger for a category.
func Get(category Category) *zap.SugaredLogger {
	mu.RLock()
	l, ok := loggers[category]
	mu.RUnlock()
	if ok {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	l = root.Named(string(category)).Sugar()
	loggers[category] = l
	return l
}

// Sync flushes the root logger.
func Sync() error {
	return Root().Sync()
}
