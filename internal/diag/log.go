package diag

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Level controls how much output is emitted.
type Level int

const (
	// LevelQuiet emits warnings and errors only.
	LevelQuiet Level = iota
	// LevelInfo additionally emits per-item progress messages.
	LevelInfo
	// LevelDebug emits everything.
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelQuiet:
		return "quiet"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Logger writes prefixed, leveled lines to a single destination.
// It is safe for concurrent use.
type Logger struct {
	mu    sync.Mutex
	level Level
	out   io.Writer
}

// New creates a Logger writing to out at the given level.
// A nil out defaults to os.Stderr.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}
	return &Logger{level: level, out: out}
}

// Debugf emits a debug-level message.
func (l *Logger) Debugf(format string, args ...any) {
	if l.level >= LevelDebug {
		l.emit("debug", format, args...)
	}
}

// Infof emits an info-level message.
func (l *Logger) Infof(format string, args ...any) {
	if l.level >= LevelInfo {
		l.emit("info", format, args...)
	}
}

// Warnf emits a warning. Warnings are printed at every level.
func (l *Logger) Warnf(format string, args ...any) {
	l.emit("warning", format, args...)
}

// Errorf emits an error. Errors are printed at every level.
func (l *Logger) Errorf(format string, args ...any) {
	l.emit("error", format, args...)
}

func (l *Logger) emit(kind, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "[alkisfetch] %s: %s\n", kind, fmt.Sprintf(format, args...))
}
