package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved() (*zap.Logger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return zap.New(core), recorded
}

func fieldMap(entry observer.LoggedEntry) map[string]any {
	return entry.ContextMap()
}

func sampledSpanContext(t *testing.T) trace.SpanContext {
	t.Helper()
	traceID, err := trace.TraceIDFromHex("0af7651916cd43dd8448eb211c80319c")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("b7ad6b7169203331")
	require.NoError(t, err)
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
}

func TestFromContext(t *testing.T) {
	logger, _ := newObserved()
	ctx := WithContext(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))

	assert.NotNil(t, FromContext(context.Background()), "missing logger falls back to no-op")

	wrong := context.WithValue(context.Background(), LoggerKey, "not a logger")
	assert.NotNil(t, FromContext(wrong))
}

func TestWithRequestID(t *testing.T) {
	base, recorded := newObserved()

	ctx, enriched := WithRequestID(context.Background(), base, "req-123")
	assert.Equal(t, "req-123", GetRequestID(ctx))

	enriched.Info("hello")
	require.Len(t, recorded.All(), 1)
	assert.Equal(t, "req-123", fieldMap(recorded.All()[0])["request_id"])
}

func TestWithClientID(t *testing.T) {
	ctx := WithClientID(context.Background(), "c-1")
	assert.Equal(t, "c-1", GetClientID(ctx))
	assert.Empty(t, GetClientID(context.Background()))
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestTraceCorrelation(t *testing.T) {
	assert.Nil(t, traceFields(context.Background()))

	base, recorded := newObserved()
	assert.Same(t, base, WithTraceContext(context.Background(), base))

	ctx := trace.ContextWithSpanContext(context.Background(), sampledSpanContext(t))
	WithTraceContext(ctx, base).Info("traced")

	fields := fieldMap(recorded.All()[0])
	assert.Equal(t, "0af7651916cd43dd8448eb211c80319c", fields["trace_id"])
	assert.Equal(t, "b7ad6b7169203331", fields["span_id"])
}

func TestContextLogger_EnrichesWithContextFields(t *testing.T) {
	base, recorded := newObserved()

	ctx := WithContext(context.Background(), base)
	ctx = context.WithValue(ctx, RequestIDKey, "req-9")
	ctx = WithClientID(ctx, "client-42")
	ctx = trace.ContextWithSpanContext(ctx, sampledSpanContext(t))

	L(ctx).Info("invoice recorded", zap.String("invoice_id", "inv-1"))

	require.Len(t, recorded.All(), 1)
	fields := fieldMap(recorded.All()[0])
	assert.Equal(t, "req-9", fields["request_id"])
	assert.Equal(t, "client-42", fields["client_id"])
	assert.Equal(t, "inv-1", fields["invoice_id"])
	assert.Contains(t, fields, "trace_id")
}

func TestContextLogger_EmptyContextFields(t *testing.T) {
	base, recorded := newObserved()

	WithLogger(context.Background(), base).Warn("plain")

	require.Len(t, recorded.All(), 1)
	assert.Empty(t, recorded.All()[0].Context)
	assert.Equal(t, zapcore.WarnLevel, recorded.All()[0].Level)
}

func TestContextLogger_LogLevels(t *testing.T) {
	base, recorded := newObserved()
	cl := WithLogger(context.Background(), base)

	cl.Debug("d")
	cl.Info("i")
	cl.Warn("w")
	cl.Error("e")

	levels := make([]zapcore.Level, 0, 4)
	for _, e := range recorded.All() {
		levels = append(levels, e.Level)
	}
	assert.Equal(t, []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}, levels)
}

func TestContextLogger_WithChaining(t *testing.T) {
	base, recorded := newObserved()
	ctx := WithClientID(context.Background(), "c-7")

	WithLogger(ctx, base).With(zap.String("op", "record")).Zap().Info("done")

	fields := fieldMap(recorded.All()[0])
	assert.Equal(t, "record", fields["op"])
	assert.Equal(t, "c-7", fields["client_id"])
}

func TestContextLogger_NilLogger(t *testing.T) {
	cl := WithLogger(context.Background(), nil)
	assert.NotPanics(t, func() {
		cl.Info("dropped")
		cl.With(zap.String("k", "v")).Error("dropped")
	})
}
