package log

import (
	"os"
	"sync"
)

// EnvLevel is read when no logger was installed, so library callers of the
// planner honour the same variable the CLI config layer binds for log.level.
const EnvLevel = "PLANNER_LOG__LEVEL"

var (
	defaultLogger *Logger
	loggerMu      sync.RWMutex
)

// SetDefaultLogger sets the process-wide default logger.
func SetDefaultLogger(logger *Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	defaultLogger = logger
}

// DefaultLogger returns the process-wide default logger.
// If none was configured, it falls back to DefaultConfig at the level
// named by PLANNER_LOG__LEVEL.
func DefaultLogger() *Logger {
	loggerMu.RLock()
	if defaultLogger != nil {
		defer loggerMu.RUnlock()
		return defaultLogger
	}
	loggerMu.RUnlock()

	cfg := DefaultConfig()
	if level, ok := LookupLevel(os.Getenv(EnvLevel)); ok {
		cfg.Level = level
	}
	logger := New(cfg)
	SetDefaultLogger(logger)
	return logger
}
