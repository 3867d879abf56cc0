package logger

import (
	"context"

	"github.com/octabyte/prediction-portal/utils/logger"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// InfoCtx logs an info message with trace context
func InfoCtx(ctx context.Context, msg string, fields ...zap.Field) {
	logger.LogInfo(msg, withTrace(ctx, fields)...)
}

// WarnCtx logs a warning message with trace context
func WarnCtx(ctx context.Context, msg string, fields ...zap.Field) {
	logger.LogWarn(msg, withTrace(ctx, fields)...)
}

// DebugCtx logs a debug message with trace context
func DebugCtx(ctx context.Context, msg string, fields ...zap.Field) {
	logger.LogDebug(msg, withTrace(ctx, fields)...)
}

// ErrorCtx logs an error message with trace context
func ErrorCtx(ctx context.Context, msg string, err error, fields ...zap.Field) {
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	logger.LogError(msg, withTrace(ctx, fields)...)
}

func withTrace(ctx context.Context, fields []zap.Field) []zap.Field {
	spanContext := trace.SpanContextFromContext(ctx)
	if !spanContext.IsValid() {
		return fields
	}
	return append(fields,
		zap.String("trace_id", spanContext.TraceID().String()),
		zap.String("span_id", spanContext.SpanID().String()),
	)
}
