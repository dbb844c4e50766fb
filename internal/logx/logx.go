// Package logx is a small level-gated wrapper over the standard log
// package. Neither this codebase nor the system it models reaches for a
// structured-logging library; both gate plain formatted output behind a
// verbosity flag, so this package does the same rather than introducing
// a dependency the rest of the codebase doesn't otherwise need.
package logx

import (
	"io"
	"log"
	"os"
)

// Level is an ascending verbosity: higher levels include everything
// lower levels print.
type Level int

const (
	LevelError Level = iota
	LevelInfo
	LevelDebug
	LevelTrace
)

// ParseLevel maps the -log flag's accepted strings to a Level, defaulting
// to LevelInfo for anything unrecognized.
func ParseLevel(s string) Level {
	switch s {
	case "error":
		return LevelError
	case "debug":
		return LevelDebug
	case "trace":
		return LevelTrace
	default:
		return LevelInfo
	}
}

// Logger prints messages at or below its configured Level and discards
// the rest.
type Logger struct {
	level Level
	*log.Logger
}

// New returns a Logger writing to out, filtered to level.
func New(out io.Writer, level Level) *Logger {
	return &Logger{level: level, Logger: log.New(out, "", log.LstdFlags)}
}

// Default returns a Logger writing to stderr at LevelInfo.
func Default() *Logger {
	return New(os.Stderr, LevelInfo)
}

func (l *Logger) log(level Level, prefix, format string, args []any) {
	if level > l.level {
		return
	}
	l.Logger.Printf(prefix+format, args...)
}

func (l *Logger) Errorf(format string, args ...any) { l.log(LevelError, "ERROR ", format, args) }
func (l *Logger) Infof(format string, args ...any)  { l.log(LevelInfo, "INFO  ", format, args) }
func (l *Logger) Debugf(format string, args ...any) { l.log(LevelDebug, "DEBUG ", format, args) }
func (l *Logger) Tracef(format string, args ...any) { l.log(LevelTrace, "TRACE ", format, args) }
