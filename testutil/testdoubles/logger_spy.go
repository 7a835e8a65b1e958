package testdoubles

import (
	"context"
	"sync"
)

// LogEntry is one captured log call.
type LogEntry struct {
	Level string
	Msg   string
	Args  []any
}

// LoggerSpy captures log calls for testing. It implements both the
// bookcatalog.Logger and bookcatalog.ContextualLogger interfaces.
type LoggerSpy struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewLoggerSpy creates a new LoggerSpy.
func NewLoggerSpy() *LoggerSpy {
	return &LoggerSpy{entries: make([]LogEntry, 0)}
}

// Debug captures a debug level log call.
func (s *LoggerSpy) Debug(msg string, args ...any) { s.record("debug", msg, args) }

// Info captures an info level log call.
func (s *LoggerSpy) Info(msg string, args ...any) { s.record("info", msg, args) }

// Warn captures a warn level log call.
func (s *LoggerSpy) Warn(msg string, args ...any) { s.record("warn", msg, args) }

// Error captures an error level log call.
func (s *LoggerSpy) Error(msg string, args ...any) { s.record("error", msg, args) }

// DebugContext captures a debug level log call, ignoring the context.
func (s *LoggerSpy) DebugContext(_ context.Context, msg string, args ...any) {
	s.record("debug", msg, args)
}

// InfoContext captures an info level log call, ignoring the context.
func (s *LoggerSpy) InfoContext(_ context.Context, msg string, args ...any) {
	s.record("info", msg, args)
}

// WarnContext captures a warn level log call, ignoring the context.
func (s *LoggerSpy) WarnContext(_ context.Context, msg string, args ...any) {
	s.record("warn", msg, args)
}

// ErrorContext captures an error level log call, ignoring the context.
func (s *LoggerSpy) ErrorContext(_ context.Context, msg string, args ...any) {
	s.record("error", msg, args)
}

func (s *LoggerSpy) record(level, msg string, args []any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, LogEntry{Level: level, Msg: msg, Args: args})
}

// Entries returns a copy of all captured log entries.
func (s *LoggerSpy) Entries() []LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]LogEntry, len(s.entries))
	copy(entries, s.entries)

	return entries
}

// HasEntry reports whether a log call with the given level and message was captured.
func (s *LoggerSpy) HasEntry(level, msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.entries {
		if entry.Level == level && entry.Msg == msg {
			return true
		}
	}

	return false
}

// Reset clears all captured log entries.
func (s *LoggerSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = s.entries[:0]
}
