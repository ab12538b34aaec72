package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

func query(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestNewGormLogger(t *testing.T) {
	base, _ := newObserved()

	gl := NewGormLogger(base, gormlogger.Info,
		WithSlowThreshold(500*time.Millisecond),
		WithIgnoreRecordNotFoundError(false),
		WithSQL(false),
	)

	assert.Equal(t, gormlogger.Info, gl.logLevel)
	assert.Equal(t, 500*time.Millisecond, gl.slowThreshold)
	assert.False(t, gl.ignoreRecordNotFoundError)
	assert.False(t, gl.logSQL)

	var _ gormlogger.Interface = gl
}

func TestGormLogger_LogMode(t *testing.T) {
	base, _ := newObserved()
	gl := NewGormLogger(base, gormlogger.Info)

	changed, ok := gl.LogMode(gormlogger.Warn).(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, changed.logLevel)
	assert.Equal(t, gormlogger.Info, gl.logLevel, "original is unchanged")
}

func TestGormLogger_Messages(t *testing.T) {
	base, recorded := newObserved()
	gl := NewGormLogger(base, gormlogger.Warn)

	gl.Info(context.Background(), "suppressed %s", "info")
	gl.Warn(context.Background(), "warning %d", 42)
	gl.Error(context.Background(), "failure")

	logs := recorded.All()
	require.Len(t, logs, 2)
	assert.Equal(t, "warning 42", logs[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, logs[1].Level)
	assert.Equal(t, "store", logs[0].LoggerName)
}

func TestGormLogger_Trace(t *testing.T) {
	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		opts    []GormLoggerOption
		begin   time.Time
		err     error
		wantMsg string
	}{
		{
			name:    "error",
			level:   gormlogger.Error,
			begin:   time.Now(),
			err:     errors.New("constraint failed"),
			wantMsg: "SQL Error",
		},
		{
			name:  "record not found ignored",
			level: gormlogger.Error,
			begin: time.Now(),
			err:   gormlogger.ErrRecordNotFound,
		},
		{
			name:    "record not found logged when configured",
			level:   gormlogger.Error,
			opts:    []GormLoggerOption{WithIgnoreRecordNotFoundError(false)},
			begin:   time.Now(),
			err:     gormlogger.ErrRecordNotFound,
			wantMsg: "SQL Error",
		},
		{
			name:    "slow query",
			level:   gormlogger.Warn,
			opts:    []GormLoggerOption{WithSlowThreshold(time.Nanosecond)},
			begin:   time.Now().Add(-time.Second),
			wantMsg: "SLOW SQL >= 1ns",
		},
		{
			name:    "normal query at info",
			level:   gormlogger.Info,
			begin:   time.Now(),
			wantMsg: "SQL Query",
		},
		{
			name:  "silent",
			level: gormlogger.Silent,
			begin: time.Now(),
			err:   errors.New("ignored"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, recorded := newObserved()
			gl := NewGormLogger(base, tt.level, tt.opts...)

			gl.Trace(context.Background(), tt.begin, query(`SELECT * FROM "clients"`, 1), tt.err)

			if tt.wantMsg == "" {
				assert.Empty(t, recorded.All())
				return
			}
			require.Len(t, recorded.All(), 1)
			assert.Equal(t, tt.wantMsg, recorded.All()[0].Message)
		})
	}
}

func TestGormLogger_Trace_ContextFields(t *testing.T) {
	base, recorded := newObserved()
	gl := NewGormLogger(base, gormlogger.Info)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = WithClientID(ctx, "client-1")
	gl.Trace(ctx, time.Now(), query(`INSERT INTO "invoices"`, 1), nil)

	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "client-1", fields["client_id"])
	assert.Equal(t, `INSERT INTO "invoices"`, fields["sql"])
}

func TestGormLogger_Trace_WithoutSQL(t *testing.T) {
	base, recorded := newObserved()
	gl := NewGormLogger(base, gormlogger.Info, WithSQL(false))

	gl.Trace(context.Background(), time.Now(), query(`SELECT phone FROM "clients"`, 1), nil)

	assert.NotContains(t, recorded.All()[0].ContextMap(), "sql")
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"unknown", gormlogger.Warn},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapGormLogLevel(tt.level))
		})
	}
}
