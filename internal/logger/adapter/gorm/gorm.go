// Package gorm routes gorm statement logging into zerolog.
package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	gormlogger "gorm.io/gorm/logger"
)

// Logger implements gorm logger.Interface on top of zerolog.
type Logger struct {
	level         gormlogger.LogLevel
	slowThreshold time.Duration

	// zl returns the target logger, the global one unless set by tests.
	zl func() *zerolog.Logger
}

var _ gormlogger.Interface = (*Logger)(nil)

// New creates a gorm logger. Statements slower than slowThreshold are logged
// as warnings, a zero threshold disables the check.
func New(slowThreshold time.Duration) *Logger {
	return &Logger{
		level:         gormlogger.Warn,
		slowThreshold: slowThreshold,
		zl: func() *zerolog.Logger {
			return &log.Logger
		},
	}
}

// WithLogger returns a copy writing to zl instead of the global logger.
func (l *Logger) WithLogger(zl zerolog.Logger) *Logger {
	n := *l
	n.zl = func() *zerolog.Logger { return &zl }

	return &n
}

// LogMode implements gorm logger.Interface.
func (l *Logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	n := *l
	n.level = level

	return &n
}

// Info implements gorm logger.Interface.
func (l *Logger) Info(_ context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Info {
		l.zl().Info().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Warn implements gorm logger.Interface.
func (l *Logger) Warn(_ context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.zl().Warn().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Error implements gorm logger.Interface.
func (l *Logger) Error(_ context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Error {
		l.zl().Error().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Trace implements gorm logger.Interface.
// Failed statements are errors, except record not found which is a normal outcome.
func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	var event *zerolog.Event

	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gormlogger.ErrRecordNotFound):
		event = l.zl().Error().Err(err)
	case l.slowThreshold != 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		event = l.zl().Warn().Dur("threshold", l.slowThreshold)
	case l.level >= gormlogger.Info:
		event = l.zl().Trace()
	default:
		return
	}

	sql, rows := fc()

	event.Str("component", "gorm").
		Dur("elapsed", elapsed).
		Str("sql", sql).
		Int64("rows", rows).
		Msg("sql statement")
}
