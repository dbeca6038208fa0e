// Package internal holds cross-cutting pipeline plumbing: the leveled
// logger shared by every stage.
package internal

import (
	"log"
	"os"
	"strings"
)

// LogLevel orders logging verbosity from quiet to chatty
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// Logger writes leveled, printf-style messages. Stage progress logs at
// Info; per-row detail belongs at Debug.
type Logger struct {
	level LogLevel
}

// NewLogger creates a logger at a fixed level
func NewLogger(level LogLevel) *Logger {
	return &Logger{level: level}
}

// NewDefaultLogger reads the level from LOG_LEVEL, defaulting to Info
func NewDefaultLogger() *Logger {
	level := LogLevelInfo
	switch strings.ToUpper(os.Getenv("LOG_LEVEL")) {
	case "ERROR":
		level = LogLevelError
	case "WARN":
		level = LogLevelWarn
	case "DEBUG":
		level = LogLevelDebug
	}
	return &Logger{level: level}
}

func (l *Logger) printf(at LogLevel, tag, format string, args []interface{}) {
	if l.level >= at {
		log.Printf(tag+" "+format, args...)
	}
}

// Error logs failures that abort the run
func (l *Logger) Error(format string, args ...interface{}) {
	l.printf(LogLevelError, "[ERROR]", format, args)
}

// Warn logs recoverable oddities
func (l *Logger) Warn(format string, args ...interface{}) {
	l.printf(LogLevelWarn, "[WARN]", format, args)
}

// Info logs stage progress
func (l *Logger) Info(format string, args ...interface{}) {
	l.printf(LogLevelInfo, "[INFO]", format, args)
}

// Debug logs per-row and per-fold detail
func (l *Logger) Debug(format string, args ...interface{}) {
	l.printf(LogLevelDebug, "[DEBUG]", format, args)
}

// DefaultLogger is the process-wide logger used when none is injected
var DefaultLogger = NewDefaultLogger()
