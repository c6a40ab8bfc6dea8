package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/zjrosen/impexls/internal/config"
	"github.com/zjrosen/impexls/internal/flags"
)

// EnvPrefix prefixes environment overrides, e.g. IMPEXLS_HIGHLIGHT_LOOKAHEAD.
const EnvPrefix = "IMPEXLS"

// resolveConfigPath returns the config file to read, or "" when none exists.
// Lookup order:
//  1. --config
//  2. .impexls/config.yaml (current directory)
//  3. ~/.config/impexls/config.yaml
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(config.LocalConfigPath); err == nil {
		return config.LocalConfigPath
	}
	if p := config.DefaultUserConfigPath(); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func setDefaults(v *viper.Viper) {
	d := config.Defaults()
	v.SetDefault("index.delimiter", d.Index.Delimiter)
	v.SetDefault("index.comment_markers", d.Index.CommentMarkers)
	v.SetDefault("highlight.lookahead", d.Highlight.Lookahead)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("watch_config", d.WatchConfig)
	v.SetDefault("flags", flags.Defaults())
}

// loadConfig reads path (when set) over the defaults and environment
// overrides, then validates the result.
func loadConfig(v *viper.Viper, path string) (config.Config, error) {
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return config.Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var out config.Config
	if err := v.Unmarshal(&out); err != nil {
		return config.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := config.Validate(out); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return out, nil
}

// reloadConfig reads path with a fresh viper instance.
func reloadConfig(path string) (config.Config, error) {
	return loadConfig(viper.New(), path)
}
