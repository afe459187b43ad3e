// Package config provides keyword options for refinements.
//
// Refinements accept additional arguments as an Options map so that the same
// call can come from Go code, the CLI ("selection=B,p") or a dump.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jrbp/p4vasp/domain/errors"
)

// Options are keyword arguments passed through to a refinement.
type Options = map[string]any

// GetString extracts a string from opts, returning (value, found).
func GetString(opts Options, key string) (string, bool) {
	v, ok := opts[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetInt extracts an int from opts, handling int, int64, float64 and numeric strings.
func GetInt(opts Options, key string) (int, bool) {
	v, ok := opts[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	default:
		return 0, false
	}
}

// GetFloat extracts a float64 from opts, handling float64, int, int64 and numeric strings.
func GetFloat(opts Options, key string) (float64, bool) {
	v, ok := opts[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// GetBool extracts a bool from opts, handling bool and "true"/"false" strings.
func GetBool(opts Options, key string) (bool, bool) {
	v, ok := opts[key]
	if !ok {
		return false, false
	}
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(b)
		return parsed, err == nil
	default:
		return false, false
	}
}

// MustGetString extracts a required string from opts or returns error.
func MustGetString(opts Options, key string) (string, error) {
	s, ok := GetString(opts, key)
	if !ok {
		return "", &errors.ConfigError{
			Field: key,
			Err:   fmt.Errorf("required string field '%s' is missing or not a string", key),
		}
	}
	return s, nil
}

// GetStringDefault extracts a string from opts or returns the default value.
func GetStringDefault(opts Options, key, defaultValue string) string {
	s, ok := GetString(opts, key)
	if !ok {
		return defaultValue
	}
	return s
}

// IntOr returns the int option key, or fallback when it is unset.
// A value that is set but not an integer is a ConfigError.
func IntOr(opts Options, key string, fallback int) (int, error) {
	if _, ok := opts[key]; !ok {
		return fallback, nil
	}
	i, ok := GetInt(opts, key)
	if !ok {
		return 0, invalid(opts, key, "an integer")
	}
	return i, nil
}

// FloatOr returns the float option key, or fallback when it is unset.
// A value that is set but not a number is a ConfigError.
func FloatOr(opts Options, key string, fallback float64) (float64, error) {
	if _, ok := opts[key]; !ok {
		return fallback, nil
	}
	f, ok := GetFloat(opts, key)
	if !ok {
		return 0, invalid(opts, key, "a number")
	}
	return f, nil
}

// BoolOr returns the bool option key, or fallback when it is unset.
// A value that is set but not a boolean is a ConfigError.
func BoolOr(opts Options, key string, fallback bool) (bool, error) {
	if _, ok := opts[key]; !ok {
		return fallback, nil
	}
	b, ok := GetBool(opts, key)
	if !ok {
		return false, invalid(opts, key, "a boolean")
	}
	return b, nil
}

func invalid(opts Options, key, want string) error {
	return &errors.ConfigError{Field: key, Err: fmt.Errorf("expected %s, got %v", want, opts[key])}
}

// ParseArgs turns "key=value" arguments into Options. Values stay (trimmed) strings;
// the typed getters convert them on access.
func ParseArgs(args []string) (Options, error) {
	opts := make(Options, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, &errors.ConfigError{Field: arg, Err: fmt.Errorf("expected key=value")}
		}
		opts[key] = strings.TrimSpace(value)
	}
	return opts, nil
}
