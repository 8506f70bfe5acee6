package frost

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that SetLogger
// can be called concurrently with logging from media loader goroutines.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the logger for frost. By default, frost produces no
// log output. Pass nil to restore the default silent behavior.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
//
// Log levels used by frost:
//   - [slog.LevelDebug]: render target resizes, tick-mode switches
//   - [slog.LevelInfo]: media bound, pipeline lifecycle
//   - [slog.LevelWarn]: failed or superseded media loads, capture I/O errors
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// logger returns the active logger.
func logger() *slog.Logger {
	return loggerPtr.Load()
}
