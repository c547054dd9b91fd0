// Package logger provides the process-wide debug logger.
package logger

import (
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	logger     = zerolog.Nop()
	loggerLock sync.RWMutex
)

// Setup configures the logger. Logging stays disabled unless debug is set,
// in which case debug-level console output goes to w.
func Setup(w io.Writer, debug bool) {
	l := zerolog.Nop()
	if debug {
		l = zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.Kitchen,
			NoColor:    true,
		}).
			Level(zerolog.DebugLevel).
			With().
			Timestamp().
			Logger()
	}
	loggerLock.Lock()
	logger = l
	loggerLock.Unlock()
}

// Logger returns the current logger.
func Logger() zerolog.Logger {
	loggerLock.RLock()
	defer loggerLock.RUnlock()
	return logger
}

// Debug logs a debug message
func Debug() *zerolog.Event {
	l := Logger()
	return l.Debug()
}

// Warn logs a warning message
func Warn() *zerolog.Event {
	l := Logger()
	return l.Warn()
}

// Error logs an error message
func Error() *zerolog.Event {
	l := Logger()
	return l.Error()
}
