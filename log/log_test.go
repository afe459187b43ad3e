package log

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(opts ...HandlerOption) (*slog.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	opts = append([]HandlerOption{WithLogger(zap.New(core))}, opts...)
	return New(opts...), logs
}

func TestToZapField(t *testing.T) {
	tests := []struct {
		name     string
		attr     slog.Attr
		wantType zapcore.FieldType
	}{
		{name: "string", attr: slog.String("key", "value"), wantType: zapcore.StringType},
		{name: "int64", attr: slog.Int64("key", 123), wantType: zapcore.Int64Type},
		{name: "uint64", attr: slog.Uint64("key", 123), wantType: zapcore.Uint64Type},
		{name: "bool", attr: slog.Bool("key", true), wantType: zapcore.BoolType},
		{name: "float64", attr: slog.Float64("key", 1.23), wantType: zapcore.Float64Type},
		{name: "time", attr: slog.Time("key", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), wantType: zapcore.TimeType},
		{name: "duration", attr: slog.Duration("key", time.Hour), wantType: zapcore.DurationType},
		{name: "error", attr: slog.Any("key", errors.New("test error")), wantType: zapcore.ErrorType},
		{name: "group", attr: slog.Group("key", slog.Int("a", 1)), wantType: zapcore.ObjectMarshalerType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := toZapField(tt.attr)
			require.True(t, ok)
			assert.Equal(t, tt.attr.Key, f.Key)
			assert.Equal(t, tt.wantType, f.Type)
		})
	}
}

func TestToZapField_DropsEmpty(t *testing.T) {
	_, ok := toZapField(slog.Attr{})
	assert.False(t, ok)

	_, ok = toZapField(slog.Group("empty"))
	assert.False(t, ok)
}

func TestToZapField_LogValuer(t *testing.T) {
	f, ok := toZapField(slog.Any("key", logValuer{val: "resolved"}))
	require.True(t, ok)
	assert.Equal(t, zapcore.StringType, f.Type)
	assert.Equal(t, "resolved", f.String)
}

type logValuer struct {
	val string
}

func (l logValuer) LogValue() slog.Value {
	return slog.StringValue(l.val)
}

func TestNewHandler_Defaults(t *testing.T) {
	h := NewHandler()
	assert.NotNil(t, h)
	// the default nop logger accepts nothing
	assert.False(t, h.Enabled(context.TODO(), slog.LevelError))
}

func TestNewHandler_Options(t *testing.T) {
	core, _ := observer.New(zapcore.DebugLevel)

	h := NewHandler(WithLogger(zap.New(core)))
	assert.True(t, h.Enabled(context.TODO(), slog.LevelInfo))
	assert.False(t, h.Enabled(context.TODO(), slog.LevelDebug))

	h = NewHandler(WithLogger(zap.New(core)), WithLevel(slog.LevelDebug), WithSource(true))
	assert.True(t, h.Enabled(context.TODO(), slog.LevelDebug))
}

func TestHandle(t *testing.T) {
	logger, logs := observed(WithLevel(slog.LevelDebug), WithSource(true))

	logger.Debug("opened file", "path", "vaspout.db")
	logger.Warn("old version", slog.String("version", "6.1.0"))

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "opened file", entries[0].Message)
	assert.Equal(t, "vaspout.db", entries[0].ContextMap()["path"])
	assert.True(t, entries[0].Caller.Defined)
	assert.Contains(t, entries[0].Caller.File, "log_test.go")

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestWithAttrsAndGroup(t *testing.T) {
	logger, logs := observed()

	logger.With("quantity", "dos").WithGroup("file").Info("acquired", "path", "a.db")

	entries := logs.AllUntimed()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "dos", ctx["quantity"])
	assert.Equal(t, map[string]interface{}{"path": "a.db"}, ctx["file"])
}

func TestNewZapLogger(t *testing.T) {
	for _, mode := range []string{ModeDevelopment, ModeProduction, ModeNop} {
		logger, err := NewZapLogger(mode, slog.LevelDebug)
		require.NoError(t, err, mode)
		assert.NotNil(t, logger)
	}

	_, err := NewZapLogger("verbose", slog.LevelInfo)
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
