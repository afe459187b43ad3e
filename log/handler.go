// Package log provides structured logging (slog) backed by zap.
package log

import (
	"context"
	"log/slog"
	"runtime"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapHandler implements slog.Handler by forwarding records to a zap logger.
type ZapHandler struct {
	logger *zap.Logger
	opts   handlerConfig
}

// HandlerOption configures the ZapHandler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	logger    *zap.Logger
	level     slog.Level
	addSource bool
}

// defaultHandlerConfig returns the default configuration.
func defaultHandlerConfig() handlerConfig {
	return handlerConfig{
		level: slog.LevelInfo,
	}
}

// WithLevel sets the minimum log level to report.
func WithLevel(level slog.Level) HandlerOption {
	return func(c *handlerConfig) {
		c.level = level
	}
}

// WithSource enables reporting of source location (file/line).
func WithSource(enabled bool) HandlerOption {
	return func(c *handlerConfig) {
		c.addSource = enabled
	}
}

// WithLogger sets the zap logger records are written to.
// Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) HandlerOption {
	return func(c *handlerConfig) {
		c.logger = logger
	}
}

// NewHandler creates a new ZapHandler with the given options.
func NewHandler(opts ...HandlerOption) *ZapHandler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapHandler{logger: logger, opts: cfg}
}

// New returns a slog.Logger writing through a ZapHandler.
func New(opts ...HandlerOption) *slog.Logger {
	return slog.New(NewHandler(opts...))
}

// Enabled reports whether the handler handles records at the given level.
func (h *ZapHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.level && h.logger.Core().Enabled(toZapLevel(level))
}

// Handle writes the record to the zap logger.
func (h *ZapHandler) Handle(_ context.Context, record slog.Record) error {
	ce := h.logger.Check(toZapLevel(record.Level), record.Message)
	if ce == nil {
		return nil
	}
	if !record.Time.IsZero() {
		ce.Time = record.Time
	}
	if h.opts.addSource && record.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{record.PC}).Next()
		ce.Caller = zapcore.NewEntryCaller(frame.PC, frame.File, frame.Line, true)
	}

	fields := make([]zap.Field, 0, record.NumAttrs())
	record.Attrs(func(attr slog.Attr) bool {
		if f, ok := toZapField(attr); ok {
			fields = append(fields, f)
		}
		return true
	})
	ce.Write(fields...)
	return nil
}

// WithAttrs returns a new ZapHandler that includes the given attributes.
func (h *ZapHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	fields := make([]zap.Field, 0, len(attrs))
	for _, attr := range attrs {
		if f, ok := toZapField(attr); ok {
			fields = append(fields, f)
		}
	}
	return &ZapHandler{logger: h.logger.With(fields...), opts: h.opts}
}

// WithGroup returns a new ZapHandler nesting later attributes under name.
func (h *ZapHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &ZapHandler{logger: h.logger.With(zap.Namespace(name)), opts: h.opts}
}

func toZapLevel(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
