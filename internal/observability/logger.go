// Package observability provides structured logging and metrics for query
// execution.
package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	// LogFieldRequestID is the field name for request ID.
	LogFieldRequestID = "request_id"
	// LogFieldOwnerID is the field name for calendar owner ID.
	LogFieldOwnerID = "owner_id"
	// LogFieldIntent is the field name for query intent.
	LogFieldIntent = "intent"
	// LogFieldDuration is the field name for duration in milliseconds.
	LogFieldDuration = "duration_ms"
	// LogFieldErrorCode is the field name for error code.
	LogFieldErrorCode = "error_code"
	// LogFieldResultCount is the field name for the number of returned items.
	LogFieldResultCount = "result_count"
	// LogFieldParser is the field name for the parser that produced a query.
	LogFieldParser = "parser"
)

// RequestContext carries the identifiers of a single query request for
// structured logging.
type RequestContext struct {
	RequestID string
	OwnerID   string
	Intent    string
	StartTime time.Time
	Logger    *slog.Logger
}

// NewRequestContext creates a new request context with a generated request ID.
func NewRequestContext(logger *slog.Logger, ownerID, intent string) *RequestContext {
	if logger == nil {
		logger = slog.Default()
	}
	return &RequestContext{
		RequestID: uuid.New().String(),
		OwnerID:   ownerID,
		Intent:    intent,
		StartTime: time.Now(),
		Logger:    logger,
	}
}

// Elapsed returns the time spent since the request started.
func (r *RequestContext) Elapsed() time.Duration {
	return time.Since(r.StartTime)
}

// Info logs an info message with the request's base fields.
func (r *RequestContext) Info(msg string, attrs ...slog.Attr) {
	r.log(slog.LevelInfo, msg, attrs...)
}

// Debug logs a debug message with the request's base fields.
func (r *RequestContext) Debug(msg string, attrs ...slog.Attr) {
	r.log(slog.LevelDebug, msg, attrs...)
}

// Warn logs a warning with the request's base fields.
func (r *RequestContext) Warn(msg string, attrs ...slog.Attr) {
	r.log(slog.LevelWarn, msg, attrs...)
}

// Error logs an error with the request's base fields.
func (r *RequestContext) Error(msg string, attrs ...slog.Attr) {
	r.log(slog.LevelError, msg, attrs...)
}

func (r *RequestContext) log(level slog.Level, msg string, attrs ...slog.Attr) {
	base := []slog.Attr{
		slog.String(LogFieldRequestID, r.RequestID),
		slog.String(LogFieldOwnerID, r.OwnerID),
		slog.String(LogFieldIntent, r.Intent),
	}
	r.Logger.LogAttrs(context.Background(), level, msg, append(base, attrs...)...)
}
