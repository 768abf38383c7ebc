// Package log is the leveled logger used by the HDX-SFX binaries.
package log

import (
	"io"
	"log"
	"strings"
	"sync/atomic"

	"hdxsfx/pkg/sfx"
)

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelNone
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelNone:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

// LevelFromString parses a level name; unknown names mean INFO.
func LevelFromString(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO", "":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "NONE", "OFF":
		return LevelNone
	default:
		return LevelInfo
	}
}

type Logger struct {
	logger *log.Logger
	level  atomic.Int32
}

// New writes to out with a timestamp and the given tag, e.g. "[sfx] ".
func New(out io.Writer, tag string, level Level) *Logger {
	l := &Logger{logger: log.New(out, tag, log.LstdFlags)}
	l.level.Store(int32(level))
	return l
}

// Discard drops everything.
func Discard() *Logger { return New(io.Discard, "", LevelNone) }

func (l *Logger) enabled(lv Level) bool { return Level(l.level.Load()) <= lv }

func (l *Logger) Debugf(format string, v ...any) {
	if l.enabled(LevelDebug) {
		l.logger.Printf("DEBUG: "+format, v...)
	}
}

func (l *Logger) Infof(format string, v ...any) {
	if l.enabled(LevelInfo) {
		l.logger.Printf("INFO: "+format, v...)
	}
}

func (l *Logger) Warnf(format string, v ...any) {
	if l.enabled(LevelWarn) {
		l.logger.Printf("WARN: "+format, v...)
	}
}

func (l *Logger) Errorf(format string, v ...any) {
	if l.enabled(LevelError) {
		l.logger.Printf("ERROR: "+format, v...)
	}
}

func (l *Logger) SetLevel(level Level) { l.level.Store(int32(level)) }

func (l *Logger) Level() Level { return Level(l.level.Load()) }

// Diagnostics routes manager diagnostics into l: misuse as WARN, muted
// plays as DEBUG, everything else as INFO.
func Diagnostics(l *Logger) sfx.Diagnostics {
	return sfx.DiagnosticsFunc(func(d sfx.Diagnostic) {
		switch {
		case d.Kind.Warning():
			l.Warnf("%s", d.Message)
		case d.Kind == sfx.KindSuppressed:
			l.Debugf("%s", d.Message)
		default:
			l.Infof("%s", d.Message)
		}
	})
}
