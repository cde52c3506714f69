package internal

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// LogLevel represents logging verbosity
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// ParseLogLevel maps a LOG_LEVEL string onto a level, defaulting to info
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LogLevelError
	case "WARN":
		return LogLevelWarn
	case "DEBUG":
		return LogLevelDebug
	default:
		return LogLevelInfo
	}
}

// Logger provides leveled logging for the service and CLI layers. The
// computation packages never log; failures propagate as errors instead.
type Logger struct {
	level LogLevel
	out   *log.Logger
}

// NewLogger creates a logger writing to w at the given level
func NewLogger(w io.Writer, level LogLevel) *Logger {
	return &Logger{level: level, out: log.New(w, "", log.LstdFlags)}
}

// NewDefaultLogger creates a stderr logger honoring the LOG_LEVEL env var
func NewDefaultLogger() *Logger {
	return NewLogger(os.Stderr, ParseLogLevel(os.Getenv("LOG_LEVEL")))
}

func (l *Logger) logf(level LogLevel, tag, format string, args ...interface{}) {
	if l.level < level {
		return
	}
	l.out.Printf("%s %s", tag, fmt.Sprintf(format, args...))
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.logf(LogLevelError, "[ERROR]", format, args...)
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	l.logf(LogLevelWarn, "[WARN]", format, args...)
}

// Info logs info messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.logf(LogLevelInfo, "[INFO]", format, args...)
}

// Debug logs debug messages
func (l *Logger) Debug(format string, args ...interface{}) {
	l.logf(LogLevelDebug, "[DEBUG]", format, args...)
}

// Level returns the current log level
func (l *Logger) Level() LogLevel {
	return l.level
}
