package logger

import (
	"sync"

	"go.uber.org/zap"
)

// Log is the process-wide logger. It is a no-op logger until Init is called.
var Log = zap.NewNop()

var initOnce sync.Once

// Init builds the production logger once.
func Init() {
	initOnce.Do(func() {
		l, err := zap.NewProduction()
		if err != nil {
			return
		}
		Log = l
	})
}

// SetLogger replaces the global logger, mostly for tests and hosts that bring their own.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	Log = l
}

// Sync flushes buffered entries.
func Sync() {
	_ = Log.Sync()
}
