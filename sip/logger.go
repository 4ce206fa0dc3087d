package sip

import "log/slog"

var defLogger *slog.Logger

// SetDefaultLogger sets the logger used for message construction and parsing
// diagnostics within this package. Must be called before any other use of
// the package if the default (slog.Default()) sink is not wanted.
func SetDefaultLogger(l *slog.Logger) {
	defLogger = l
}

func DefaultLogger() *slog.Logger {
	if defLogger != nil {
		return defLogger
	}
	return slog.Default()
}
