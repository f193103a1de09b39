package compiler

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the compiler package's logger, a no-op by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the compiler package's logger. Call before compiling
// any program.
func SetLogger(l *zap.Logger) {
	logger = l
}
