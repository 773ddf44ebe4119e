// FILE: lixenwraith/bonfig/log.go
package bonfig

import (
	"sync"

	"go.uber.org/zap"
)

var (
	loggerMu      sync.RWMutex
	packageLogger = zap.NewNop()
)

// SetLogger replaces the package logger used by Collect and by configs created
// without WithLogger. A nil logger restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerMu.Lock()
	packageLogger = l
	loggerMu.Unlock()
}

// Logger returns the current package logger.
func Logger() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return packageLogger
}
