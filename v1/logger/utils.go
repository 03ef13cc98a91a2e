package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// convertToZapFields converts error and additional field maps into Zap's structured logging fields.
// This internal helper transforms the simplified field maps used by this logger wrapper
// into the zap.Field format required by the underlying Zap logger.
//
// If multiple field maps contain the same key, the later maps override earlier ones.
func (l *Logger) convertToZapFields(err error, fields ...map[string]interface{}) []zap.Field {
	var zapFields []zap.Field
	if err != nil {
		zapFields = append(zapFields, zap.Error(err))
	}

	for _, fieldMap := range fields {
		for key, value := range fieldMap {
			zapFields = append(zapFields, zap.Any(key, value))
		}
	}
	return zapFields
}

// traceFields extracts the active trace and span IDs from the context.
// Returns nil when tracing integration is disabled or the context carries
// no recording span.
func (l *Logger) traceFields(ctx context.Context) map[string]interface{} {
	if !l.tracingEnabled || ctx == nil {
		return nil
	}

	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return nil
	}

	return map[string]interface{}{
		"trace_id": spanCtx.TraceID().String(),
		"span_id":  spanCtx.SpanID().String(),
	}
}

// Debug logs a debug-level message, useful for development and troubleshooting.
//
// Example:
//
//	log.Debug("resolving embedding function", nil, map[string]interface{}{
//	    "collection": "articles",
//	    "provider":   "openai",
//	})
func (l *Logger) Debug(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Debug(msg, l.convertToZapFields(err, fields...)...)
}

// Info logs an informational message, along with an optional error and structured fields.
// Use Info for general application progress and successful operations.
func (l *Logger) Info(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Info(msg, l.convertToZapFields(err, fields...)...)
}

// Warn logs a warning message, indicating potential issues that aren't necessarily errors.
func (l *Logger) Warn(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Warn(msg, l.convertToZapFields(err, fields...)...)
}

// Error logs an error message, including details of the error and additional context fields.
func (l *Logger) Error(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Error(msg, l.convertToZapFields(err, fields...)...)
}

// Fatal logs a critical error message and terminates the application.
// This method calls os.Exit(1) after logging the message and does not return.
func (l *Logger) Fatal(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Fatal(msg, l.convertToZapFields(err, fields...)...)
}

// DebugWithContext logs a debug-level message enriched with trace context.
// When tracing is enabled and the context carries an active span, the entry
// includes trace_id and span_id fields.
func (l *Logger) DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	if tf := l.traceFields(ctx); tf != nil {
		fields = append(fields, tf)
	}
	l.Zap.Debug(msg, l.convertToZapFields(err, fields...)...)
}

// InfoWithContext logs an informational message enriched with trace context.
func (l *Logger) InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	if tf := l.traceFields(ctx); tf != nil {
		fields = append(fields, tf)
	}
	l.Zap.Info(msg, l.convertToZapFields(err, fields...)...)
}

// WarnWithContext logs a warning message enriched with trace context.
func (l *Logger) WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	if tf := l.traceFields(ctx); tf != nil {
		fields = append(fields, tf)
	}
	l.Zap.Warn(msg, l.convertToZapFields(err, fields...)...)
}

// ErrorWithContext logs an error message enriched with trace context.
func (l *Logger) ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	if tf := l.traceFields(ctx); tf != nil {
		fields = append(fields, tf)
	}
	l.Zap.Error(msg, l.convertToZapFields(err, fields...)...)
}
