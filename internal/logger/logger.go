package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Fields represents structured log fields
type Fields map[string]interface{}

// Logger provides structured logging
type Logger struct {
	zl zerolog.Logger
}

var defaultLogger *Logger

func init() {
	zerolog.TimestampFieldName = "timestamp"
	zerolog.TimeFieldFormat = time.RFC3339
	defaultLogger = New(LevelInfo, os.Stderr)
}

// New creates a JSON logger writing to output. Messages below level are discarded.
func New(level Level, output io.Writer) *Logger {
	return &Logger{
		zl: zerolog.New(output).Level(level.zerolog()).With().Timestamp().Logger(),
	}
}

// NewConsole creates a logger with a human-readable, uncoloured layout.
func NewConsole(level Level, output io.Writer) *Logger {
	w := zerolog.ConsoleWriter{Out: output, NoColor: true, TimeFormat: time.TimeOnly}
	return New(level, w)
}

// ParseLevel accepts level names case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToUpper(strings.TrimSpace(s))); l {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return l, nil
	case "WARNING":
		return LevelWarn, nil
	default:
		return "", fmt.Errorf("unknown log level %q", s)
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetDefault sets the logger used by the package-level functions.
func SetDefault(logger *Logger) {
	defaultLogger = logger
}

// Default returns the logger used by the package-level functions.
func Default() *Logger {
	return defaultLogger
}

// With returns a child logger that adds fields to every entry.
func (l *Logger) With(fields Fields) *Logger {
	return &Logger{zl: l.zl.With().Fields(map[string]interface{}(fields)).Logger()}
}

func (l *Logger) log(level Level, message string, fields Fields, err error) {
	ev := l.zl.WithLevel(level.zerolog())
	if ev == nil {
		return
	}
	if len(fields) > 0 {
		ev = ev.Fields(map[string]interface{}(fields))
	}
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg(message)
}

// Debug logs detailed diagnostic information.
func (l *Logger) Debug(message string, fields Fields) {
	l.log(LevelDebug, message, fields, nil)
}

// Info logs general operational information.
func (l *Logger) Info(message string, fields Fields) {
	l.log(LevelInfo, message, fields, nil)
}

// Warn logs issues that don't prevent operation.
func (l *Logger) Warn(message string, fields Fields) {
	l.log(LevelWarn, message, fields, nil)
}

// Error logs a failure together with its cause.
func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(LevelError, message, fields, err)
}

// Package-level convenience functions using default logger

// Debug logs a debug message with the default logger
func Debug(message string, fields Fields) {
	defaultLogger.Debug(message, fields)
}

// Info logs an info message with the default logger
func Info(message string, fields Fields) {
	defaultLogger.Info(message, fields)
}

// Warn logs a warning message with the default logger
func Warn(message string, fields Fields) {
	defaultLogger.Warn(message, fields)
}

// Error logs an error message with the default logger
func Error(message string, fields Fields, err error) {
	defaultLogger.Error(message, fields, err)
}
