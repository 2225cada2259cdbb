// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

var (
	defaultLogger = log.NewNopLogger()

	callerKey    interface{} = "caller"
	messageKey   interface{} = "msg"
	errorKey     interface{} = "error"
	timestampKey interface{} = "ts"
)

// CallerKey returns the logging key to be used for the stack location of the logging call
func CallerKey() interface{} {
	return callerKey
}

// MessageKey returns the logging key to be used for the textual message of the log entry
func MessageKey() interface{} {
	return messageKey
}

// ErrorKey returns the logging key to be used for error instances
func ErrorKey() interface{} {
	return errorKey
}

// TimestampKey returns the logging key to be used for the timestamp
func TimestampKey() interface{} {
	return timestampKey
}

// DefaultLogger returns a global singleton NOP logger, safe for concurrent access.
func DefaultLogger() log.Logger {
	return defaultLogger
}

// New creates a go-kit Logger from a set of options, which may be nil.  A nil Options
// logs logfmt to os.Stdout at the ERROR level.  Caller information is not included; use
// DefaultCaller or one of the level functions for that.
func New(o *Options) log.Logger {
	return NewFilter(
		log.WithPrefix(
			o.loggerFactory()(o.output()),
			TimestampKey(), log.DefaultTimestampUTC,
		),
		o,
	)
}

// NewFilter applies the level in o to an arbitrary go-kit Logger.
func NewFilter(next log.Logger, o *Options) log.Logger {
	var allow level.Option
	switch strings.ToUpper(o.level()) {
	case "DEBUG":
		allow = level.AllowDebug()
	case "INFO":
		allow = level.AllowInfo()
	case "WARN":
		allow = level.AllowWarn()
	default:
		allow = level.AllowError()
	}

	return level.NewFilter(next, allow)
}

// DefaultCaller is log.With with the caller prepended under CallerKey.  Decorate next
// before passing it here, otherwise the reported caller is the decorator.
func DefaultCaller(next log.Logger, keyvals ...interface{}) log.Logger {
	return log.WithPrefix(
		next,
		append([]interface{}{CallerKey(), log.DefaultCaller}, keyvals...)...,
	)
}

func leveled(next log.Logger, value level.Value, keyvals []interface{}) log.Logger {
	return log.WithPrefix(
		next,
		append([]interface{}{CallerKey(), log.DefaultCaller, level.Key(), value}, keyvals...)...,
	)
}

// Error prefixes the caller and the error level, plus any extra key/value pairs.
func Error(next log.Logger, keyvals ...interface{}) log.Logger {
	return leveled(next, level.ErrorValue(), keyvals)
}

// Info prefixes the caller and the info level, plus any extra key/value pairs.
func Info(next log.Logger, keyvals ...interface{}) log.Logger {
	return leveled(next, level.InfoValue(), keyvals)
}

// Warn prefixes the caller and the warn level, plus any extra key/value pairs.
func Warn(next log.Logger, keyvals ...interface{}) log.Logger {
	return leveled(next, level.WarnValue(), keyvals)
}

// Debug prefixes the caller and the debug level, plus any extra key/value pairs.
func Debug(next log.Logger, keyvals ...interface{}) log.Logger {
	return leveled(next, level.DebugValue(), keyvals)
}
