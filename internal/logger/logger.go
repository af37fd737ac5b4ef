// Package logger wraps zap configuration so the rest of the application
// gets a ready-to-use structured logger.
package logger

import (
	"go.uber.org/zap"
)

// Logger wraps a zap.Logger with level re-initialization.
type Logger struct {
	// Log is the underlying zap logger.
	Log *zap.Logger
}

// New returns a Logger with a no-op zap instance; call Init to replace
// it with a configured one.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init builds a production zap logger at the given level ("Debug",
// "Info", "Warn", "Error") and installs it.
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	l.Log = logger
	return nil
}
