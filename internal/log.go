package internal

import (
	"log/slog"
	"os"
	"sync/atomic"
)

// logLevel is the level of the default logger. Configure changes it.
var logLevel = func() *slog.LevelVar {
	v := new(slog.LevelVar)
	v.Set(slog.LevelWarn)
	return v
}()

var pkgLogger atomic.Pointer[slog.Logger]

func init() {
	pkgLogger.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

// SetLogger replaces the logger used for runtime diagnostics. A nil logger
// restores the default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	}
	pkgLogger.Store(l)
}

func logger() *slog.Logger {
	return pkgLogger.Load()
}

// misuse logs a violated programming invariant. The caller continues with a
// nil result.
func misuse(msg string, args ...interface{}) {
	logger().Debug("sbx: "+msg, args...)
}
