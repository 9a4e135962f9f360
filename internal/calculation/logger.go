package calculation

import (
	"fmt"
	"log"
	"strings"
)

// Logger is a minimal logging interface for the calculation engine.
// Implementations should be fast; the default is a no-op.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger implements Logger with no output.
type NopLogger struct{}

func (NopLogger) Debugf(format string, args ...any) {}
func (NopLogger) Infof(format string, args ...any)  {}
func (NopLogger) Warnf(format string, args ...any)  {}
func (NopLogger) Errorf(format string, args ...any) {}

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps "debug", "info", "warn" and "error" to a Level. Unknown
// values fall back to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	}
	return LevelInfo
}

// StdLogger writes leveled lines through a standard library *log.Logger.
type StdLogger struct {
	Out   *log.Logger
	Level Level
}

func (l StdLogger) logf(level Level, tag, format string, args ...any) {
	if level < l.Level || l.Out == nil {
		return
	}
	l.Out.Print(tag + " " + fmt.Sprintf(format, args...))
}

func (l StdLogger) Debugf(format string, args ...any) { l.logf(LevelDebug, "DEBUG", format, args...) }
func (l StdLogger) Infof(format string, args ...any)  { l.logf(LevelInfo, "INFO", format, args...) }
func (l StdLogger) Warnf(format string, args ...any)  { l.logf(LevelWarn, "WARN", format, args...) }
func (l StdLogger) Errorf(format string, args ...any) { l.logf(LevelError, "ERROR", format, args...) }
