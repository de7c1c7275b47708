// Package logx is a compact step/progress logger.
package logx

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Logger prints progress steps to a writer.
type Logger struct {
	w          io.Writer
	stepStart  time.Time
	totalStart time.Time
}

// New creates a logger writing to w, stdout when w is nil.
func New(w io.Writer) *Logger {
	if w == nil {
		w = os.Stdout
	}
	return &Logger{
		w:          w,
		totalStart: time.Now(),
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(io.Discard)
}

// Step starts a processing step.
// Format: [name] param ...
func (l *Logger) Step(name string, params ...interface{}) {
	l.stepStart = time.Now()
	if len(params) > 0 {
		fmt.Fprintf(l.w, "[%s] %v ... ", name, params[0])
	} else {
		fmt.Fprintf(l.w, "[%s] ", name)
	}
}

// Done finishes the current step.
// Format: → result (elapsed)
func (l *Logger) Done(result string) {
	elapsed := time.Since(l.stepStart)
	if elapsed > 100*time.Millisecond {
		fmt.Fprintf(l.w, "→ %s (%.2fs)\n", result, elapsed.Seconds())
	} else {
		fmt.Fprintf(l.w, "→ %s\n", result)
	}
}

// Total prints the elapsed time since New.
func (l *Logger) Total() {
	total := time.Since(l.totalStart)
	fmt.Fprintf(l.w, "\n✓ total: %.2fs\n", total.Seconds())
}

// Info prints an untimed line.
func (l *Logger) Info(format string, args ...interface{}) {
	fmt.Fprintf(l.w, "  • "+format+"\n", args...)
}

// Warn prints a warning line.
func (l *Logger) Warn(format string, args ...interface{}) {
	fmt.Fprintf(l.w, "  ⚠ "+format+"\n", args...)
}

var Debug = debug
var debugEnabled = os.Getenv("DEBUG") != ""

func debug(format string, args ...interface{}) {
	if debugEnabled {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
