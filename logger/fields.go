package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for structured logging across attrbind.
// Use these constants instead of raw strings.
const (
	// Identity and context
	FieldSession   = "session"
	FieldComponent = "component"
	FieldOperation = "operation"

	// Binding
	FieldAttribute   = "attribute"
	FieldClass       = "class"
	FieldConstructor = "constructor"
	FieldHasErrors   = "has_errors"
	FieldOmitted     = "omitted"
	FieldQuality     = "quality"
	FieldDiagCode    = "diag_code"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount   = "count"
	FieldWorkers = "workers"
	FieldErrors  = "errors"

	// Files and paths
	FieldFile = "file"
	FieldLine = "line"
)

// Context keys for propagating logging context
type contextKey string

const (
	sessionKey   contextKey = "logger_session"
	componentKey contextKey = "logger_component"
)

// WithSession adds a binding session ID to the context for logging
func WithSession(ctx context.Context, session string) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if session, ok := ctx.Value(sessionKey).(string); ok && session != "" {
		fields = append(fields, FieldSession, session)
	}
	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}

	return fields
}

// LoggerFromContext returns parent with the fields carried by ctx attached.
func LoggerFromContext(ctx context.Context, parent *zap.SugaredLogger) *zap.SugaredLogger {
	if parent == nil {
		parent = Logger
	}
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return parent
	}
	return parent.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	func NewResolver(...) *Resolver {
//	    return &Resolver{
//	        logger: logger.ComponentLogger("binder.resolver"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
// Example:
//
//	appLogger := logger.ChildLogger(baseLogger, logger.FieldAttribute, node.Name)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
