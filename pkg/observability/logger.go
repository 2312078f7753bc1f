package observability

import (
	"context"
	"time"
)

type SanitizerFunc func(key string, value any) any

// ErrorNotifier forwards error-level entries to an out-of-band channel, e.g.
// an SNS topic watched by the ops inbox.
type ErrorNotifier interface {
	Notify(ctx context.Context, entry LogEntry) error
}

// LogEntry represents a structured log entry.
//
// This type is intentionally small and stable so implementations can adapt
// it to their backend.
type LogEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`

	// RunID ties the entry to one planning run.
	RunID string `json:"run_id,omitempty"`
}

// StructuredLogger is the logging surface used by the planner and the
// provisioning binaries. Implementations must sanitize field values before
// they leave the process.
type StructuredLogger interface {
	Debug(message string, fields ...map[string]any)
	Info(message string, fields ...map[string]any)
	Warn(message string, fields ...map[string]any)
	Error(message string, fields ...map[string]any)

	WithField(key string, value any) StructuredLogger
	WithFields(fields map[string]any) StructuredLogger
	WithRunID(runID string) StructuredLogger

	Flush(ctx context.Context) error
	Close() error
}

// LoggerConfig configures logger implementations.
type LoggerConfig struct {
	// Level is the minimum level to emit: debug, info, warn, or error.
	Level string `json:"level"`

	// Format is "json" or "console".
	Format string `json:"format"`

	EnableCaller bool `json:"enable_caller"`
}

type LoggerFactory interface {
	CreateConsoleLogger(config LoggerConfig) (StructuredLogger, error)
	CreateTestLogger() StructuredLogger
	CreateNoOpLogger() StructuredLogger
}
