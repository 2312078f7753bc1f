package zap

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	ubzap "go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mossrock/siteplan/pkg/observability"
	"github.com/mossrock/siteplan/pkg/sanitization"
)

const (
	levelDebug = "debug"
	levelInfo  = "info"
	levelWarn  = "warn"
	levelError = "error"
)

type Option func(*loggerOptions)

type loggerOptions struct {
	zapLogger *ubzap.Logger
	sanitizer observability.SanitizerFunc
	notifier  observability.ErrorNotifier
}

// WithZapLogger supplies a pre-built zap logger instead of the one derived
// from LoggerConfig.
func WithZapLogger(logger *ubzap.Logger) Option {
	return func(opts *loggerOptions) {
		opts.zapLogger = logger
	}
}

func WithSanitizer(fn observability.SanitizerFunc) Option {
	return func(opts *loggerOptions) {
		opts.sanitizer = fn
	}
}

// WithErrorNotifier forwards error-level entries to the notifier after they
// are written locally. Notification failures never fail the log call.
func WithErrorNotifier(notifier observability.ErrorNotifier) Option {
	return func(opts *loggerOptions) {
		opts.notifier = notifier
	}
}

// Logger adapts zap to the observability.StructuredLogger surface.
type Logger struct {
	zap      *ubzap.Logger
	sanitize observability.SanitizerFunc
	notifier observability.ErrorNotifier

	fields map[string]any
	runID  string
}

var _ observability.StructuredLogger = (*Logger)(nil)

func NewZapLogger(config observability.LoggerConfig, options ...Option) (*Logger, error) {
	opts := loggerOptions{sanitizer: sanitization.SanitizeFieldValue}
	for _, option := range options {
		option(&opts)
	}

	zl := opts.zapLogger
	if zl == nil {
		built, err := buildZapLogger(config)
		if err != nil {
			return nil, err
		}
		zl = built
	}

	return &Logger{
		zap:      zl,
		sanitize: opts.sanitizer,
		notifier: opts.notifier,
		fields:   map[string]any{},
	}, nil
}

func buildZapLogger(config observability.LoggerConfig) (*ubzap.Logger, error) {
	level, err := parseLevel(config.Level)
	if err != nil {
		return nil, err
	}

	encoderConfig := ubzap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if strings.EqualFold(config.Format, "console") {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)

	var zapOpts []ubzap.Option
	if config.EnableCaller {
		zapOpts = append(zapOpts, ubzap.AddCaller())
	}
	return ubzap.New(core, zapOpts...), nil
}

func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", levelInfo:
		return zapcore.InfoLevel, nil
	case levelDebug:
		return zapcore.DebugLevel, nil
	case levelWarn:
		return zapcore.WarnLevel, nil
	case levelError:
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InvalidLevel, errors.New("observability/zap: unknown log level " + level)
	}
}

func (l *Logger) Debug(message string, fields ...map[string]any) {
	l.write(levelDebug, message, fields...)
}
func (l *Logger) Info(message string, fields ...map[string]any) {
	l.write(levelInfo, message, fields...)
}
func (l *Logger) Warn(message string, fields ...map[string]any) {
	l.write(levelWarn, message, fields...)
}
func (l *Logger) Error(message string, fields ...map[string]any) {
	l.write(levelError, message, fields...)
}

func (l *Logger) write(level, message string, fields ...map[string]any) {
	message = sanitization.SanitizeLogString(message)
	merged := l.mergedFields(fields...)

	zapFields := make([]ubzap.Field, 0, len(merged)+1)
	if l.runID != "" {
		zapFields = append(zapFields, ubzap.String("run_id", l.runID))
	}
	for key, value := range merged {
		zapFields = append(zapFields, ubzap.Any(key, value))
	}

	switch level {
	case levelDebug:
		l.zap.Debug(message, zapFields...)
	case levelWarn:
		l.zap.Warn(message, zapFields...)
	case levelError:
		l.zap.Error(message, zapFields...)
	default:
		l.zap.Info(message, zapFields...)
	}

	if level == levelError && l.notifier != nil {
		entry := observability.LogEntry{
			Timestamp: time.Now().UTC(),
			Level:     level,
			Message:   message,
			Fields:    merged,
			RunID:     l.runID,
		}
		// Best effort; a broken notification channel must not take the
		// planner down with it.
		_ = l.notifier.Notify(context.Background(), entry)
	}
}

func (l *Logger) mergedFields(fields ...map[string]any) map[string]any {
	merged := make(map[string]any, len(l.fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for _, extra := range fields {
		for k, v := range extra {
			merged[k] = l.sanitize(k, v)
		}
	}
	return merged
}

func (l *Logger) derive() *Logger {
	fields := make(map[string]any, len(l.fields))
	for k, v := range l.fields {
		fields[k] = v
	}
	return &Logger{zap: l.zap, sanitize: l.sanitize, notifier: l.notifier, fields: fields, runID: l.runID}
}

func (l *Logger) WithField(key string, value any) observability.StructuredLogger {
	next := l.derive()
	next.fields[key] = l.sanitize(key, value)
	return next
}

func (l *Logger) WithFields(fields map[string]any) observability.StructuredLogger {
	next := l.derive()
	for k, v := range fields {
		next.fields[k] = l.sanitize(k, v)
	}
	return next
}

func (l *Logger) WithRunID(runID string) observability.StructuredLogger {
	next := l.derive()
	next.runID = runID
	return next
}

func (l *Logger) Flush(_ context.Context) error {
	err := l.zap.Sync()
	// Syncing stderr fails on some platforms; that is not a logging error.
	if err != nil && (errors.Is(err, os.ErrInvalid) || strings.Contains(err.Error(), "sync")) {
		return nil
	}
	return err
}

func (l *Logger) Close() error {
	return l.Flush(context.Background())
}
