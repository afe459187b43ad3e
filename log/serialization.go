package log

import (
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// toZapField converts a slog.Attr to a zap field.
// Empty attributes are dropped, as slog handlers must.
func toZapField(attr slog.Attr) (zap.Field, bool) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return zap.Skip(), false
	}

	switch attr.Value.Kind() {
	case slog.KindString:
		return zap.String(attr.Key, attr.Value.String()), true
	case slog.KindInt64:
		return zap.Int64(attr.Key, attr.Value.Int64()), true
	case slog.KindUint64:
		return zap.Uint64(attr.Key, attr.Value.Uint64()), true
	case slog.KindBool:
		return zap.Bool(attr.Key, attr.Value.Bool()), true
	case slog.KindFloat64:
		return zap.Float64(attr.Key, attr.Value.Float64()), true
	case slog.KindTime:
		return zap.Time(attr.Key, attr.Value.Time()), true
	case slog.KindDuration:
		return zap.Duration(attr.Key, attr.Value.Duration()), true
	case slog.KindGroup:
		group := attr.Value.Group()
		if len(group) == 0 {
			return zap.Skip(), false
		}
		if attr.Key == "" {
			// inlined group
			return zap.Inline(groupMarshaler(group)), true
		}
		return zap.Object(attr.Key, groupMarshaler(group)), true
	default:
		v := attr.Value.Any()
		if err, ok := v.(error); ok {
			return zap.NamedError(attr.Key, err), true
		}
		return zap.Any(attr.Key, v), true
	}
}

// groupMarshaler encodes a slog group as a nested zap object.
type groupMarshaler []slog.Attr

func (g groupMarshaler) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	for _, attr := range g {
		if f, ok := toZapField(attr); ok {
			f.AddTo(enc)
		}
	}
	return nil
}
