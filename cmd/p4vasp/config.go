package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	DefaultEnvPrefix = "P4VASP"

	DefaultPath     = "."
	DefaultLogLevel = "warn"
	DefaultLogMode  = "production"
)

// Config is the command line configuration. Flags override P4VASP_* environment variables.
type Config struct {
	Path     string `json:"path,omitempty"      mapstructure:"path"`
	LogLevel string `json:"log_level,omitempty" mapstructure:"log_level"`
	LogMode  string `json:"log_mode,omitempty"  mapstructure:"log_mode"`
}

func loadConfig(cmd *cobra.Command) (*Config, error) {
	v := viper.NewWithOptions(
		viper.KeyDelimiter("."),
		viper.EnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_")),
	)

	v.SetEnvPrefix(DefaultEnvPrefix)
	v.AllowEmptyEnv(false)
	v.AutomaticEnv()

	bindings := []struct {
		key, flag, value string
	}{
		{key: "path", flag: "path", value: DefaultPath},
		{key: "log_level", flag: "log-level", value: DefaultLogLevel},
		{key: "log_mode", flag: "log-mode", value: DefaultLogMode},
	}
	for _, b := range bindings {
		_ = v.BindEnv(b.key)
		v.SetDefault(b.key, b.value)
		if f := cmd.Flags().Lookup(b.flag); f != nil {
			if err := v.BindPFlag(b.key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", b.flag, err)
			}
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return config, nil
}
