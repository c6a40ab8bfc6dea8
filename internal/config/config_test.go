package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/impexls/internal/impex"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Equal(t, ";", cfg.Index.Delimiter)
	require.Equal(t, []string{"#"}, cfg.Index.CommentMarkers)
	require.Equal(t, 30, cfg.Highlight.Lookahead)
	require.False(t, cfg.Tracing.Enabled)
	require.Equal(t, "file", cfg.Tracing.Exporter)
	require.Equal(t, 1.0, cfg.Tracing.SampleRate)
	require.True(t, cfg.WatchConfig)
	require.NoError(t, Validate(cfg))
}

func TestValidateIndex(t *testing.T) {
	tests := []struct {
		name    string
		idx     IndexConfig
		wantErr string
	}{
		{name: "empty uses defaults", idx: IndexConfig{}},
		{name: "pipe", idx: IndexConfig{Delimiter: "|"}},
		{name: "multibyte rune", idx: IndexConfig{Delimiter: "¦"}},
		{name: "two characters", idx: IndexConfig{Delimiter: ";;"}, wantErr: "single character"},
		{name: "marker equals delimiter", idx: IndexConfig{Delimiter: ";", CommentMarkers: []string{";"}}, wantErr: "must not contain the delimiter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIndex(tt.idx)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateHighlight(t *testing.T) {
	require.NoError(t, ValidateHighlight(HighlightConfig{}))
	require.NoError(t, ValidateHighlight(HighlightConfig{Lookahead: 100}))

	err := ValidateHighlight(HighlightConfig{Lookahead: -1})
	require.Error(t, err)
	require.Contains(t, err.Error(), "highlight.lookahead")

	require.NoError(t, ValidateHighlight(HighlightConfig{Lookahead: impex.MaxLookahead}))
	err = ValidateHighlight(HighlightConfig{Lookahead: impex.MaxLookahead + 1})
	require.ErrorContains(t, err, "highlight.lookahead")
}

func TestValidateTracing(t *testing.T) {
	tests := []struct {
		name    string
		tracing TracingConfig
		wantErr string
	}{
		{name: "defaults", tracing: Defaults().Tracing},
		{name: "sample rate too high", tracing: TracingConfig{SampleRate: 1.5}, wantErr: "sample_rate"},
		{name: "sample rate negative", tracing: TracingConfig{SampleRate: -0.1}, wantErr: "sample_rate"},
		{name: "unknown exporter", tracing: TracingConfig{Exporter: "zipkin"}, wantErr: "tracing.exporter"},
		{name: "otlp without endpoint", tracing: TracingConfig{Enabled: true, Exporter: "otlp"}, wantErr: "otlp_endpoint"},
		{name: "disabled otlp without endpoint", tracing: TracingConfig{Exporter: "otlp"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTracing(tt.tracing)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsFirstBadSection(t *testing.T) {
	cfg := Defaults()
	cfg.Highlight.Lookahead = -5
	cfg.Tracing.SampleRate = 7

	err := Validate(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "highlight.lookahead")
}

func TestIndexOptions(t *testing.T) {
	cfg := Defaults()
	cfg.Index.Delimiter = "|"
	cfg.Index.CommentMarkers = []string{"//"}
	cfg.Highlight.Lookahead = 5

	opts := cfg.IndexOptions(false)

	require.Equal(t, '|', opts.Delimiter)
	require.Equal(t, []string{"//"}, opts.CommentMarkers)
	require.Equal(t, 5, opts.Lookahead)
	require.False(t, opts.FilterComments)

	// The options own their marker slice.
	opts.CommentMarkers[0] = "--"
	require.Equal(t, "//", cfg.Index.CommentMarkers[0])
}

func TestIndexOptions_EmptyConfigUsesDefaults(t *testing.T) {
	opts := Config{}.IndexOptions(true)

	require.Equal(t, impex.DefaultOptions(), opts)
}

func TestTraceConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Tracing.Enabled = true
	cfg.Tracing.Exporter = "stdout"
	cfg.Tracing.SampleRate = 0.5

	tc := cfg.TraceConfig("instance-1")

	require.True(t, tc.Enabled)
	require.Equal(t, "stdout", tc.Exporter)
	require.Equal(t, 0.5, tc.SampleRate)
	require.Equal(t, "instance-1", tc.InstanceID)
	require.Equal(t, "impexls", tc.ServiceName)
	require.Equal(t, DefaultTracesFilePath(), tc.FilePath)
}

func TestDefaultConfigTemplate_MatchesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o644))

	cfg := loadWithViper(t, configPath)
	def := Defaults()
	require.Equal(t, def.Index, cfg.Index)
	require.Equal(t, def.Highlight, cfg.Highlight)
	require.Equal(t, def.WatchConfig, cfg.WatchConfig)
}

func TestWriteDefaultConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

	require.NoError(t, WriteDefaultConfig(configPath))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}

func TestDefaultPaths(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	require.Equal(t, filepath.Join(home, ".config", "impexls", "config.yaml"), DefaultUserConfigPath())
	require.Equal(t, filepath.Join(home, ".config", "impexls", "traces", "traces.jsonl"), DefaultTracesFilePath())
}
