// Package camlog wraps log/slog for the kernel's debug-only diagnostic
// logging: caught numerical failures inside the intersection dispatcher
// and extension attempts (§4.F, §7) are logged at debug level only, so
// a host application's default log level stays quiet. Call sites guard
// on Enabled() before building a log record to keep the offset/intersect
// hot path allocation-free when logging is off.
package camlog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
}

// SetLogger replaces the package-level logger used by Debug/Debugf.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

// Enabled reports whether debug-level records are currently recorded,
// letting a hot-path caller skip building log arguments entirely.
func Enabled() bool {
	return logger.Load().Enabled(context.Background(), slog.LevelDebug)
}

// Debug logs msg with args at debug level.
func Debug(msg string, args ...any) {
	logger.Load().Debug(msg, args...)
}

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...any) {
	if !Enabled() {
		return
	}
	logger.Load().Debug(fmt.Sprintf(format, args...))
}
