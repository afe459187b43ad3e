package log

import (
	"fmt"
	"log/slog"
	"strings"

	"go.uber.org/zap"
)

// Logger modes accepted by NewZapLogger.
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
	ModeNop         = "nop"
)

// NewZapLogger builds a zap logger for the given mode and minimum level.
// Both real modes log to stderr.
func NewZapLogger(mode string, level slog.Level) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case ModeDevelopment, "dev":
		cfg = zap.NewDevelopmentConfig()
	case ModeProduction, "prod", "":
		cfg = zap.NewProductionConfig()
	case ModeNop, "none":
		return zap.NewNop(), nil
	default:
		return nil, fmt.Errorf("unknown log mode %q", mode)
	}
	cfg.Level = zap.NewAtomicLevelAt(toZapLevel(level))
	return cfg.Build()
}

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
