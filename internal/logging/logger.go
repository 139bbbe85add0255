// Package logging provides the structured logger used by every prism
// component. It wraps log/slog with context-first methods and per-component
// child loggers.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/conneroisu/prism/internal/errors"
)

// LogLevel represents different log levels
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) slog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel converts a configured level name into a LogLevel.
func ParseLevel(name string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// Logger interface for structured logging
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...interface{})
	Info(ctx context.Context, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
	Error(ctx context.Context, err error, msg string, fields ...interface{})

	With(fields ...interface{}) Logger
	WithComponent(component string) Logger
}

// PrismLogger implements Logger on top of slog.
type PrismLogger struct {
	logger    *slog.Logger
	level     LogLevel
	component string
	fields    []interface{}
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level     LogLevel
	Format    string // "json" or "text"
	Output    io.Writer
	AddSource bool
	Component string
}

// DefaultConfig returns default logger configuration
func DefaultConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:  LevelInfo,
		Format: "text",
		Output: os.Stderr,
	}
}

// NewLogger creates a new structured logger
func NewLogger(config *LoggerConfig) *PrismLogger {
	if config == nil {
		config = DefaultConfig()
	}

	output := config.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     config.Level.slog(),
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	return &PrismLogger{
		logger:    slog.New(handler),
		level:     config.Level,
		component: config.Component,
	}
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *PrismLogger {
	return NewLogger(&LoggerConfig{Level: LevelError + 1, Output: io.Discard})
}

// Debug logs a debug message
func (l *PrismLogger) Debug(ctx context.Context, msg string, fields ...interface{}) {
	if l.level > LevelDebug {
		return
	}
	l.log(ctx, slog.LevelDebug, nil, msg, fields...)
}

// Info logs an info message
func (l *PrismLogger) Info(ctx context.Context, msg string, fields ...interface{}) {
	if l.level > LevelInfo {
		return
	}
	l.log(ctx, slog.LevelInfo, nil, msg, fields...)
}

// Warn logs a warning message
func (l *PrismLogger) Warn(ctx context.Context, err error, msg string, fields ...interface{}) {
	if l.level > LevelWarn {
		return
	}
	l.log(ctx, slog.LevelWarn, err, msg, fields...)
}

// Error logs an error message
func (l *PrismLogger) Error(ctx context.Context, err error, msg string, fields ...interface{}) {
	if l.level > LevelError {
		return
	}
	l.log(ctx, slog.LevelError, err, msg, fields...)
}

// With creates a new logger with additional fields
func (l *PrismLogger) With(fields ...interface{}) Logger {
	merged := make([]interface{}, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)

	return &PrismLogger{
		logger:    l.logger,
		level:     l.level,
		component: l.component,
		fields:    merged,
	}
}

// WithComponent creates a new logger with component context
func (l *PrismLogger) WithComponent(component string) Logger {
	return &PrismLogger{
		logger:    l.logger,
		level:     l.level,
		component: component,
		fields:    l.fields,
	}
}

// log is the internal logging method
func (l *PrismLogger) log(ctx context.Context, level slog.Level, err error, msg string, fields ...interface{}) {
	if !l.logger.Enabled(ctx, level) {
		return
	}

	attrs := make([]slog.Attr, 0, len(l.fields)/2+len(fields)/2+5)

	if l.component != "" {
		attrs = append(attrs, slog.String("component", l.component))
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		attrs = append(attrs, errorAttrs(err)...)
	}

	attrs = appendFields(attrs, l.fields)
	attrs = appendFields(attrs, fields)

	record := slog.NewRecord(time.Now(), level, msg, 0)
	record.AddAttrs(attrs...)

	_ = l.logger.Handler().Handle(ctx, record)
}

// errorAttrs expands the structured parts of a PrismError.
func errorAttrs(err error) []slog.Attr {
	var pe *errors.PrismError
	if !errors.As(err, &pe) {
		return nil
	}

	attrs := []slog.Attr{slog.String("error_type", string(pe.Type))}
	if pe.Code != "" {
		attrs = append(attrs, slog.String("error_code", pe.Code))
	}
	if pe.Artifact != "" {
		attrs = append(attrs, slog.String("artifact", pe.Artifact))
	}
	if pe.Path != "" {
		attrs = append(attrs, slog.String("path", pe.Path))
	}
	return attrs
}

func appendFields(attrs []slog.Attr, fields []interface{}) []slog.Attr {
	for i := 0; i+1 < len(fields); i += 2 {
		if key, ok := fields[i].(string); ok {
			attrs = append(attrs, slog.Any(key, fields[i+1]))
		}
	}
	return attrs
}

// Performance logging utilities

// PerfLogger tracks performance metrics
type PerfLogger struct {
	Logger
	startTime time.Time
	operation string
}

// StartOperation begins performance tracking
func StartOperation(logger Logger, operation string) *PerfLogger {
	return &PerfLogger{
		Logger:    logger.With("operation", operation),
		startTime: time.Now(),
		operation: operation,
	}
}

// Elapsed returns the time since the operation started.
func (p *PerfLogger) Elapsed() time.Duration {
	return time.Since(p.startTime)
}

// End completes performance tracking and logs the duration
func (p *PerfLogger) End(ctx context.Context, fields ...interface{}) {
	duration := p.Elapsed()
	p.Info(ctx, "Operation completed",
		append([]interface{}{"duration_ms", duration.Milliseconds()}, fields...)...,
	)
}

// EndWithError completes performance tracking and logs an error
func (p *PerfLogger) EndWithError(ctx context.Context, err error, fields ...interface{}) {
	duration := p.Elapsed()
	p.Error(ctx, err, "Operation failed",
		append([]interface{}{"duration_ms", duration.Milliseconds()}, fields...)...,
	)
}
