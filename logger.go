package winclip

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler drops every record. It reports every level as disabled, so
// the record and copy-on-write paths never format their attributes.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h nopHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h nopHandler) WithGroup(string) slog.Handler           { return h }

var silent = slog.New(nopHandler{})

// current is read on every record event and may be swapped by SetLogger
// from another goroutine.
var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(silent)
}

// SetLogger configures the logger for winclip and its sub-packages.
// By default nothing is logged. Pass nil to restore the silent default.
//
// Log levels used by winclip:
//   - [slog.LevelDebug]: heap record allocation, copy-on-write splits,
//     mask cache evictions
//
// Example:
//
//	winclip.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	current.Store(l)
}

// Logger returns the current logger. The mask and scissor packages log
// through it so one SetLogger call configures the whole module.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return current.Load()
}
