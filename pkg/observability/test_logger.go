package observability

import (
	"context"
	"sync"
	"time"

	"github.com/mossrock/siteplan/pkg/sanitization"
)

type testLoggerCore struct {
	mu      sync.Mutex
	entries []LogEntry
}

// TestLogger is an in-memory logger implementation for deterministic unit
// tests.
//
// Derived loggers (via With* calls) share the same underlying core.
type TestLogger struct {
	core *testLoggerCore

	fields   map[string]any
	sanitize SanitizerFunc
	runID    string
}

var _ StructuredLogger = (*TestLogger)(nil)

func NewTestLogger() *TestLogger {
	return &TestLogger{
		core:     &testLoggerCore{},
		fields:   map[string]any{},
		sanitize: sanitization.SanitizeFieldValue,
	}
}

// Entries returns a copy of everything logged through this logger and its
// derivatives.
func (l *TestLogger) Entries() []LogEntry {
	if l == nil || l.core == nil {
		return nil
	}
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	out := make([]LogEntry, len(l.core.entries))
	copy(out, l.core.entries)
	return out
}

func (l *TestLogger) Debug(message string, fields ...map[string]any) {
	l.log("debug", message, fields...)
}
func (l *TestLogger) Info(message string, fields ...map[string]any) {
	l.log("info", message, fields...)
}
func (l *TestLogger) Warn(message string, fields ...map[string]any) {
	l.log("warn", message, fields...)
}
func (l *TestLogger) Error(message string, fields ...map[string]any) {
	l.log("error", message, fields...)
}

func (l *TestLogger) log(level, message string, fields ...map[string]any) {
	merged := map[string]any{}
	for k, v := range l.fields {
		merged[k] = v
	}
	for _, extra := range fields {
		for k, v := range extra {
			merged[k] = l.sanitize(k, v)
		}
	}
	entry := LogEntry{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   message,
		Fields:    merged,
		RunID:     l.runID,
	}
	l.core.mu.Lock()
	l.core.entries = append(l.core.entries, entry)
	l.core.mu.Unlock()
}

func (l *TestLogger) derive() *TestLogger {
	fields := make(map[string]any, len(l.fields))
	for k, v := range l.fields {
		fields[k] = v
	}
	return &TestLogger{core: l.core, fields: fields, sanitize: l.sanitize, runID: l.runID}
}

func (l *TestLogger) WithField(key string, value any) StructuredLogger {
	next := l.derive()
	next.fields[key] = l.sanitize(key, value)
	return next
}

func (l *TestLogger) WithFields(fields map[string]any) StructuredLogger {
	next := l.derive()
	for k, v := range fields {
		next.fields[k] = l.sanitize(k, v)
	}
	return next
}

func (l *TestLogger) WithRunID(runID string) StructuredLogger {
	next := l.derive()
	next.runID = runID
	return next
}

func (l *TestLogger) Flush(_ context.Context) error { return nil }
func (l *TestLogger) Close() error                  { return nil }
