package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/invoicebook/backend/internal/infrastructure/logger"
	"github.com/invoicebook/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TraceIDHeader carries the server trace ID back to the caller
const TraceIDHeader = "X-Trace-ID"

// TracingConfig holds configuration for the tracing middleware
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// Tracing returns the otelgin server middleware, or a pass-through when tracing is off.
// Span names follow "METHOD route", e.g. "GET /api/v1/clients/:client_id".
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// TracingAttributes tags the server span with the request and client IDs
// and echoes the trace ID in the X-Trace-ID response header.
// It must run after Tracing, which puts the span on the request context.
func TracingAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		if traceID := telemetry.GetTraceID(c.Request.Context()); traceID != "" {
			c.Header(TraceIDHeader, traceID)
		}
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if id := GetRequestID(c); id != "" {
				span.SetAttributes(attribute.String("request_id", id))
			}
			if id := c.Param(logger.ClientIDParam); id != "" {
				span.SetAttributes(attribute.String(telemetry.SpanAttrClientID, id))
			}
		}
		c.Next()
	}
}

// SpanErrorMarker marks the server span as failed for 5xx responses
// and records the status code for every error response.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
