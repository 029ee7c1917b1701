// Package logger provides a simple logging interface for pixelbar components.
// It allows packages to log debug, info, warn, and error messages without
// being coupled to a specific logging implementation.
package logger

import (
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
)

// DebugEnv enables debug output when set to any non-empty value.
const DebugEnv = "PIXELBAR_DEBUG"

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// verbose forces debug output regardless of the environment (--verbose).
var verbose atomic.Bool

// SetVerbose turns debug output on or off for every env logger.
func SetVerbose(v bool) {
	verbose.Store(v)
}

func debugEnabled() bool {
	return verbose.Load() || os.Getenv(DebugEnv) != ""
}

// envLogger implements Logger and logs through the standard log package.
// Debug messages are only printed when PIXELBAR_DEBUG is set or verbose
// mode is on.
type envLogger struct {
	prefix string
}

// NewEnvLogger creates a logger that respects the PIXELBAR_DEBUG environment variable.
// The prefix is prepended to all log messages (e.g., "[sampler]" or "[sparkle]").
func NewEnvLogger(prefix string) Logger {
	return &envLogger{prefix: prefix}
}

func (l *envLogger) Debug(format string, args ...interface{}) {
	if debugEnabled() {
		log.Printf(l.prefix+" "+format, args...)
	}
}

func (l *envLogger) Info(format string, args ...interface{}) {
	log.Printf(l.prefix+" "+format, args...)
}

func (l *envLogger) Warn(format string, args ...interface{}) {
	log.Printf(l.prefix+" WARN: "+format, args...)
}

func (l *envLogger) Error(format string, args ...interface{}) {
	log.Printf(l.prefix+" ERROR: "+format, args...)
}

// prefixLogger decorates another Logger with a component prefix.
type prefixLogger struct {
	prefix string
	next   Logger
}

// WithPrefix returns a Logger that prepends prefix to every message before
// handing it to l. Routines and samplers use it to tag their output while
// still writing through whatever logger the caller injected.
func WithPrefix(l Logger, prefix string) Logger {
	if l == nil {
		l = Default()
	}
	return &prefixLogger{prefix: prefix, next: l}
}

func (l *prefixLogger) Debug(format string, args ...interface{}) {
	l.next.Debug(l.prefix+" "+format, args...)
}

func (l *prefixLogger) Info(format string, args ...interface{}) {
	l.next.Info(l.prefix+" "+format, args...)
}

func (l *prefixLogger) Warn(format string, args ...interface{}) {
	l.next.Warn(l.prefix+" "+format, args...)
}

func (l *prefixLogger) Error(format string, args ...interface{}) {
	l.next.Error(l.prefix+" "+format, args...)
}

// noopLogger implements Logger but discards all messages.
type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return &noopLogger{}
}

func (l *noopLogger) Debug(format string, args ...interface{}) {}
func (l *noopLogger) Info(format string, args ...interface{})  {}
func (l *noopLogger) Warn(format string, args ...interface{})  {}
func (l *noopLogger) Error(format string, args ...interface{}) {}

// LogMessage represents a captured log message.
type LogMessage struct {
	Level   string
	Message string
}

// BufferLogger captures log messages for testing. It is safe for concurrent
// use since routines and samplers log from their own goroutines; read
// Messages directly only after those goroutines have stopped, otherwise use
// Snapshot.
type BufferLogger struct {
	mu       sync.Mutex
	Messages []LogMessage
}

// NewBufferLogger creates a logger that captures messages for inspection.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{
		Messages: make([]LogMessage, 0),
	}
}

func (l *BufferLogger) record(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = append(l.Messages, LogMessage{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Debug(format string, args ...interface{}) {
	l.record("debug", format, args...)
}

func (l *BufferLogger) Info(format string, args ...interface{}) {
	l.record("info", format, args...)
}

func (l *BufferLogger) Warn(format string, args ...interface{}) {
	l.record("warn", format, args...)
}

func (l *BufferLogger) Error(format string, args ...interface{}) {
	l.record("error", format, args...)
}

// Snapshot returns a copy of the captured messages.
func (l *BufferLogger) Snapshot() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogMessage, len(l.Messages))
	copy(out, l.Messages)
	return out
}

// HasLevel returns true if any message was logged at the given level.
func (l *BufferLogger) HasLevel(level string) bool {
	for _, m := range l.Snapshot() {
		if m.Level == level {
			return true
		}
	}
	return false
}

// Clear removes all captured messages.
func (l *BufferLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = l.Messages[:0]
}

// defaultLogger is the package-level default logger.
var defaultLogger = NewEnvLogger("[pixelbar]")

// Default returns the default logger for the package.
func Default() Logger {
	return defaultLogger
}

// SetDefault sets the default logger for the package.
func SetDefault(l Logger) {
	defaultLogger = l
}

// heldLimit bounds how many messages a HeldLogger queues; older ones are
// dropped first.
const heldLimit = 256

// HeldLogger queues messages while something else owns the terminal, such
// as a simulated display on the alternate screen, and replays them to next
// on Release. After Release it passes messages straight through.
type HeldLogger struct {
	mu       sync.Mutex
	next     Logger
	queue    []LogMessage
	dropped  int
	released bool
}

// NewHeldLogger creates a HeldLogger in front of next.
func NewHeldLogger(next Logger) *HeldLogger {
	if next == nil {
		next = Default()
	}
	return &HeldLogger{next: next}
}

func (l *HeldLogger) hold(level, format string, args ...interface{}) {
	l.mu.Lock()
	if l.released {
		l.mu.Unlock()
		emit(l.next, level, format, args...)
		return
	}
	if len(l.queue) == heldLimit {
		l.queue = l.queue[1:]
		l.dropped++
	}
	l.queue = append(l.queue, LogMessage{Level: level, Message: fmt.Sprintf(format, args...)})
	l.mu.Unlock()
}

func (l *HeldLogger) Debug(format string, args ...interface{}) {
	l.hold("debug", format, args...)
}

func (l *HeldLogger) Info(format string, args ...interface{}) {
	l.hold("info", format, args...)
}

func (l *HeldLogger) Warn(format string, args ...interface{}) {
	l.hold("warn", format, args...)
}

func (l *HeldLogger) Error(format string, args ...interface{}) {
	l.hold("error", format, args...)
}

// Release writes the queued messages in order and stops holding. It is
// safe to call more than once.
func (l *HeldLogger) Release() {
	l.mu.Lock()
	if l.released {
		l.mu.Unlock()
		return
	}
	l.released = true
	queue, dropped := l.queue, l.dropped
	l.queue = nil
	l.mu.Unlock()

	if dropped > 0 {
		l.next.Warn("%d earlier log messages dropped while the display was open", dropped)
	}
	for _, m := range queue {
		emit(l.next, m.Level, "%s", m.Message)
	}
}

func emit(l Logger, level, format string, args ...interface{}) {
	switch level {
	case "debug":
		l.Debug(format, args...)
	case "info":
		l.Info(format, args...)
	case "warn":
		l.Warn(format, args...)
	default:
		l.Error(format, args...)
	}
}
