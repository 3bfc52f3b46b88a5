// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"log/slog"
	"math"
	"os"
	"sync/atomic"
)

const (
	LevelTrace slog.Level = -8
	LevelDebug            = slog.LevelDebug
	LevelInfo             = slog.LevelInfo
	LevelWarn             = slog.LevelWarn
	LevelError            = slog.LevelError
	LevelCrit  slog.Level = 12

	levelMaxVerbosity slog.Level = math.MinInt
)

// for backward-compatibility with the 0-9 verbosity flag
const (
	LegacyLevelCrit = iota
	LegacyLevelError
	LegacyLevelWarn
	LegacyLevelInfo
	LegacyLevelDebug
	LegacyLevelTrace
)

// FromLegacyLevel converts a verbosity flag value into a slog level.
func FromLegacyLevel(lvl int) slog.Level {
	switch lvl {
	case LegacyLevelCrit:
		return LevelCrit
	case LegacyLevelError:
		return slog.LevelError
	case LegacyLevelWarn:
		return slog.LevelWarn
	case LegacyLevelInfo:
		return slog.LevelInfo
	case LegacyLevelDebug:
		return slog.LevelDebug
	case LegacyLevelTrace:
		return LevelTrace
	}
	// anything above trace is just more trace
	if lvl > LegacyLevelTrace {
		return LevelTrace - slog.Level(lvl-LegacyLevelTrace)
	}
	return LevelCrit
}

// LevelAlignedString returns a 5-character string containing the name of a level.
func LevelAlignedString(l slog.Level) string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO "
	case slog.LevelWarn:
		return "WARN "
	case slog.LevelError:
		return "ERROR"
	case LevelCrit:
		return "CRIT "
	default:
		return "unknw"
	}
}

// LevelString returns a string containing the name of a level.
func LevelString(l slog.Level) string {
	switch l {
	case LevelTrace:
		return "trace"
	case slog.LevelDebug:
		return "debug"
	case slog.LevelInfo:
		return "info"
	case slog.LevelWarn:
		return "warn"
	case slog.LevelError:
		return "error"
	case LevelCrit:
		return "crit"
	default:
		return "unknown"
	}
}

// A Logger writes key/value pairs to a Handler.
type Logger interface {
	// With returns a new Logger that has this logger's attributes plus the given attributes
	With(ctx ...any) Logger

	// New returns a new Logger that has this logger's attributes plus the given attributes. Identical to 'With'.
	New(ctx ...any) Logger

	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)

	// Enabled reports whether l emits log records at the given context and level.
	Enabled(ctx context.Context, level slog.Level) bool

	// Handler returns the underlying handler of the inner logger.
	Handler() slog.Handler
}

type logger struct {
	inner *slog.Logger
}

// NewLogger returns a logger with the specified handler set
func NewLogger(h slog.Handler) Logger {
	return &logger{slog.New(h)}
}

func (l *logger) Handler() slog.Handler {
	return l.inner.Handler()
}

func (l *logger) write(level slog.Level, msg string, attrs ...any) {
	if !l.inner.Enabled(context.Background(), level) {
		return
	}
	l.inner.Log(context.Background(), level, msg, attrs...)
}

func (l *logger) With(ctx ...any) Logger {
	return &logger{l.inner.With(ctx...)}
}

func (l *logger) New(ctx ...any) Logger {
	return l.With(ctx...)
}

func (l *logger) Enabled(ctx context.Context, level slog.Level) bool {
	return l.inner.Enabled(ctx, level)
}

func (l *logger) Trace(msg string, ctx ...any) { l.write(LevelTrace, msg, ctx...) }
func (l *logger) Debug(msg string, ctx ...any) { l.write(slog.LevelDebug, msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)  { l.write(slog.LevelInfo, msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)  { l.write(slog.LevelWarn, msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any) { l.write(slog.LevelError, msg, ctx...) }

func (l *logger) Crit(msg string, ctx ...any) {
	l.write(LevelCrit, msg, ctx...)
	os.Exit(1)
}

var root atomic.Value

func init() {
	root.Store(NewLogger(DiscardHandler()))
}

// SetDefault sets the default global logger
func SetDefault(l Logger) {
	root.Store(l)
	if lg, ok := l.(*logger); ok {
		slog.SetDefault(lg.inner)
	}
}

// Root returns the root logger
func Root() Logger {
	return root.Load().(Logger)
}

// WithContext returns a logger which prefixes every record with ctx and
// follows later SetDefault calls.
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx: ctx}
}

// lazyLogger resolves the root logger on every call, so package level
// loggers created before SetDefault still end up in the configured handler.
type lazyLogger struct {
	ctx []any
}

func (l *lazyLogger) get() Logger { return Root().With(l.ctx...) }

func (l *lazyLogger) With(ctx ...any) Logger {
	return &lazyLogger{ctx: append(append([]any{}, l.ctx...), ctx...)}
}
func (l *lazyLogger) New(ctx ...any) Logger { return l.With(ctx...) }

func (l *lazyLogger) Trace(msg string, ctx ...any) { l.get().Trace(msg, ctx...) }
func (l *lazyLogger) Debug(msg string, ctx ...any) { l.get().Debug(msg, ctx...) }
func (l *lazyLogger) Info(msg string, ctx ...any)  { l.get().Info(msg, ctx...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)  { l.get().Warn(msg, ctx...) }
func (l *lazyLogger) Error(msg string, ctx ...any) { l.get().Error(msg, ctx...) }
func (l *lazyLogger) Crit(msg string, ctx ...any)  { l.get().Crit(msg, ctx...) }

func (l *lazyLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return Root().Enabled(ctx, level)
}

func (l *lazyLogger) Handler() slog.Handler { return l.get().Handler() }

func Trace(msg string, ctx ...any) { Root().Trace(msg, ctx...) }
func Debug(msg string, ctx ...any) { Root().Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { Root().Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { Root().Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { Root().Error(msg, ctx...) }
func Crit(msg string, ctx ...any)  { Root().Crit(msg, ctx...) }
