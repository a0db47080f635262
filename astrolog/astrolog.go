// Package astrolog builds logrus loggers for the core, adapted from
// Valkyrie's pkg/utils/logger.go. Unlike that package, this one
// deliberately does not expose a package-level global logger: a nil logger
// anywhere the core accepts a *logrus.Entry simply means "log nothing",
// since correctness of a propagation run must never depend on logging
// configuration.
package astrolog

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a JSON-formatted logrus.Logger at the given level ("debug",
// "info", "warn", "error"; anything else defaults to "info"), writing to w
// (os.Stdout if w is nil).
func New(level string, w io.Writer) *logrus.Logger {
	logger := logrus.New()

	switch level {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	if w == nil {
		w = os.Stdout
	}
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	return logger
}

// Quiet returns a logger with output discarded, suitable as the default
// when a caller does not supply one.
func Quiet() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// Entry returns l.WithField("component", component) if l is non-nil, or a
// discarding entry otherwise, so callers can write "log := astrolog.Entry(e,
// \"integrator\")" once and call log.Warn(...) unconditionally.
func Entry(l *logrus.Logger, component string) *logrus.Entry {
	if l == nil {
		l = Quiet()
	}
	return l.WithField("component", component)
}
