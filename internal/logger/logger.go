// Package logger wraps logrus with the JSON configuration every
// component shares. Instances are passed explicitly; there is no
// package-level logger state.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is a structured logger scoped to one component.
type Logger struct {
	inner *logrus.Logger
}

// NewLogger creates a logger writing JSON to stdout. The level comes
// from LOG_LEVEL (debug, warn, error) and defaults to info.
func NewLogger() *Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)

	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		l.SetLevel(logrus.DebugLevel)
	case "warn":
		l.SetLevel(logrus.WarnLevel)
	case "error":
		l.SetLevel(logrus.ErrorLevel)
	default:
		l.SetLevel(logrus.InfoLevel)
	}

	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})

	return &Logger{inner: l}
}

// Logrus exposes the underlying logrus logger for components that take
// one directly.
func (l *Logger) Logrus() *logrus.Logger {
	return l.inner
}

// WithFields creates an entry with the given fields.
func (l *Logger) WithFields(fields map[string]interface{}) *logrus.Entry {
	return l.inner.WithFields(logrus.Fields(fields))
}

// WithField creates an entry with a single field.
func (l *Logger) WithField(key string, value interface{}) *logrus.Entry {
	return l.inner.WithField(key, value)
}

// WithError creates an entry with an error field.
func (l *Logger) WithError(err error) *logrus.Entry {
	return l.inner.WithError(err)
}

// Info logs an info message.
func (l *Logger) Info(msg string) {
	l.inner.Info(msg)
}

// Error logs an error message.
func (l *Logger) Error(msg string) {
	l.inner.Error(msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string) {
	l.inner.Debug(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.inner.Warn(msg)
}
