// Package logger wraps zerolog with the single process-wide logger the rest
// of NQPV logs through. The shape follows gnark's internal logger package:
// callers fetch the shared Logger() and chain fields with With() before
// emitting at a level.
package logger

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).
		With().Timestamp().Logger().
		Level(zerolog.InfoLevel)
)

// Logger returns the shared NQPV logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// SetSilent raises the logger to zerolog.Disabled when silent is true, and
// restores zerolog.InfoLevel otherwise. The level is process-wide; cmd/nqpv
// sets it from its --silent flag. scope.Settings.Silent does not call this:
// the transformer checks that setting itself before its Debug messages.
func SetSilent(silent bool) {
	mu.Lock()
	defer mu.Unlock()
	if silent {
		logger = logger.Level(zerolog.Disabled)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}
}
