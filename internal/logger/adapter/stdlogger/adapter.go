// Package stdlogger adapts zerolog to printf style logger interfaces,
// e.g. the error logger of the fasthttp server below fiber.
package stdlogger

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger writes printf style messages to zerolog.
type Logger struct {
	logger zerolog.Logger
}

// New creates a Logger on the global zerolog logger.
// Call it after logger.Init.
func New() *Logger {
	return WithLogger(log.Logger)
}

// WithLogger creates a Logger on l.
func WithLogger(l zerolog.Logger) *Logger {
	return &Logger{logger: l}
}

// Printf logs at error level, fasthttp only reports failures through it.
func (l *Logger) Printf(format string, args ...any) {
	l.logger.Error().Msgf(format, args...)
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...any) {
	l.logger.Debug().Msgf(format, args...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) {
	l.logger.Info().Msgf(format, args...)
}

// Warningf logs at warn level.
func (l *Logger) Warningf(format string, args ...any) {
	l.logger.Warn().Msgf(format, args...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) {
	l.logger.Error().Msgf(format, args...)
}
