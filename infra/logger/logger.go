// Package logger provides the zerolog-backed implementation of core/logger.
package logger

import corelogger "github.com/kilianp07/soilmatch/core/logger"

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// New returns a Logger for the given component at the process-wide level.
// The output format follows APP_ENV.
func New(component string) Logger {
	return NewZerologLogger(component)
}
