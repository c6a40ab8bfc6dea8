// Package config provides configuration types and defaults for impexls.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/zjrosen/impexls/internal/impex"
	"github.com/zjrosen/impexls/internal/log"
	"github.com/zjrosen/impexls/internal/tracing"
)

// Config lookup locations, relative to the working directory and the home
// directory respectively.
const (
	LocalConfigPath = ".impexls/config.yaml"
	UserConfigDir   = ".config/impexls"
)

// Config holds all configuration options for impexls.
type Config struct {
	Index       IndexConfig     `mapstructure:"index"`
	Highlight   HighlightConfig `mapstructure:"highlight"`
	Tracing     TracingConfig   `mapstructure:"tracing"`
	Flags       map[string]bool `mapstructure:"flags"`
	WatchConfig bool            `mapstructure:"watch_config"` // Reload this file when it changes (server only)
}

// IndexConfig controls how lines are turned into records.
type IndexConfig struct {
	// Delimiter is the single character separating fields. Default ";".
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`

	// CommentMarkers are prefixes of lines skipped by the comment filter.
	// Default ["#"].
	CommentMarkers []string `mapstructure:"comment_markers" yaml:"comment_markers"`
}

// HighlightConfig controls the field highlighter.
type HighlightConfig struct {
	// Lookahead is how many lines below a header are scanned. Default 30.
	Lookahead int `mapstructure:"lookahead" yaml:"lookahead"`
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/impexls/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// DefaultUserConfigPath returns ~/.config/impexls/config.yaml, or an empty
// string if the home directory is unavailable.
func DefaultUserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, "config.yaml")
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/impexls/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Index: IndexConfig{
			Delimiter:      string(impex.DefaultDelimiter),
			CommentMarkers: []string{impex.DefaultCommentMarker},
		},
		Highlight: HighlightConfig{
			Lookahead: impex.DefaultLookahead,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from home dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		WatchConfig: true,
	}
}

// Validate checks the whole configuration.
func Validate(cfg Config) error {
	if err := ValidateIndex(cfg.Index); err != nil {
		return err
	}
	if err := ValidateHighlight(cfg.Highlight); err != nil {
		return err
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateIndex checks index configuration for errors.
// Empty values fall back to defaults.
func ValidateIndex(idx IndexConfig) error {
	if idx.Delimiter != "" {
		if utf8.RuneCountInString(idx.Delimiter) != 1 {
			return fmt.Errorf("index.delimiter must be a single character, got %q", idx.Delimiter)
		}
		for _, m := range idx.CommentMarkers {
			if m == idx.Delimiter {
				return fmt.Errorf("index.comment_markers must not contain the delimiter %q", idx.Delimiter)
			}
		}
	}
	return nil
}

// ValidateHighlight checks highlight configuration for errors.
func ValidateHighlight(h HighlightConfig) error {
	if h.Lookahead < 0 || h.Lookahead > impex.MaxLookahead {
		return fmt.Errorf("highlight.lookahead must be between 0 and %d, got %d", impex.MaxLookahead, h.Lookahead)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if tracing.Enabled {
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// IndexOptions converts the index and highlight sections into indexer
// options. filterComments is the state of the comment-filter flag.
func (c Config) IndexOptions(filterComments bool) impex.Options {
	opts := impex.DefaultOptions()
	if r, size := utf8.DecodeRuneInString(c.Index.Delimiter); size > 0 && r != utf8.RuneError {
		opts.Delimiter = r
	}
	if c.Index.CommentMarkers != nil {
		opts.CommentMarkers = append([]string(nil), c.Index.CommentMarkers...)
	}
	if c.Highlight.Lookahead > 0 {
		opts.Lookahead = c.Highlight.Lookahead
	}
	opts.FilterComments = filterComments
	return opts
}

// TraceConfig converts the tracing section for the tracing package,
// filling in the default trace file path.
func (c Config) TraceConfig(instanceID string) tracing.Config {
	out := tracing.DefaultConfig()
	out.Enabled = c.Tracing.Enabled
	if c.Tracing.Exporter != "" {
		out.Exporter = c.Tracing.Exporter
	}
	out.FilePath = c.Tracing.FilePath
	if out.FilePath == "" {
		out.FilePath = DefaultTracesFilePath()
	}
	if c.Tracing.OTLPEndpoint != "" {
		out.OTLPEndpoint = c.Tracing.OTLPEndpoint
	}
	out.SampleRate = c.Tracing.SampleRate
	out.InstanceID = instanceID
	return out
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# impexls configuration

# How lines are indexed
index:
  delimiter: ";"          # Field delimiter (a single character)
  comment_markers:        # Lines starting with one of these are skipped
    - "#"

# Field highlighting
highlight:
  lookahead: 30           # Lines scanned below a header

# Reload this file while the language server runs
watch_config: true

# Feature flags
# flags:
#   comment-filter: true  # Skip comment lines when indexing (default: true)
#   config-watch: true    # Allow watch_config to take effect (default: true)

# Distributed tracing
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/impexls/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
