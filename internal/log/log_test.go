package log

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/impexls/internal/pubsub"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(Reset)
	return &buf
}

func TestWrite_Format(t *testing.T) {
	buf := capture(t)

	Info(CatIndex, "index rebuilt", "uri", "file:///a.impex", "records", 5)

	line := buf.String()
	require.Contains(t, line, "[INFO] [index] index rebuilt uri=file:///a.impex records=5")
	require.True(t, strings.HasSuffix(line, "\n"))
}

func TestWrite_OddFields(t *testing.T) {
	buf := capture(t)

	Warn(CatLSP, "odd", "key")

	require.Contains(t, buf.String(), "odd key=<missing>")
}

func TestErrorErr(t *testing.T) {
	buf := capture(t)

	ErrorErr(CatConfig, "reload failed", errors.New("boom"), "path", "x.yaml")
	ErrorErr(CatConfig, "no error", nil)

	out := buf.String()
	require.Contains(t, out, "[ERROR] [config] reload failed path=x.yaml error=boom")
	require.Contains(t, out, "no error error=<nil>")
}

func TestMinLevel(t *testing.T) {
	buf := capture(t)
	SetMinLevel(LevelWarn)

	Debug(CatLSP, "hidden")
	Info(CatLSP, "hidden too")
	Error(CatLSP, "shown")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
}

func TestSetEnabled(t *testing.T) {
	buf := capture(t)
	SetEnabled(false)

	Error(CatLSP, "muted")
	require.Empty(t, buf.String())

	SetEnabled(true)
	Error(CatLSP, "back")
	require.Contains(t, buf.String(), "back")
}

func TestNoLogger(t *testing.T) {
	Reset()
	require.NotPanics(t, func() {
		Info(CatLSP, "dropped")
		SetMinLevel(LevelError)
		SetEnabled(false)
	})
	require.Nil(t, NewListener(context.Background()))
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"info":    LevelInfo,
		"WARN":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"debug":   LevelDebug,
		"bogus":   LevelDebug,
	}
	for in, want := range tests {
		require.Equal(t, want, ParseLevel(in), in)
	}
	require.Equal(t, "UNKNOWN", Level(42).String())
}

func TestNewListener_ReceivesEntries(t *testing.T) {
	capture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener := NewListener(ctx)
	require.NotNil(t, listener)

	Info(CatWatcher, "config changed")

	msg := listener.Listen()()
	ev, ok := msg.(LogEvent)
	require.True(t, ok)
	require.Equal(t, pubsub.CreatedEvent, ev.Type)
	require.Contains(t, ev.Payload, "[watcher] config changed")
}

func TestInitFromEnv_Disabled(t *testing.T) {
	t.Setenv(EnvDebug, "")
	Reset()

	cleanup, err := InitFromEnv(false, "test")
	require.NoError(t, err)
	require.NotNil(t, cleanup)
	cleanup()
	require.Nil(t, current())
}

func TestInitFromEnv_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "impexls.log")
	t.Setenv(EnvPath, path)
	t.Setenv(EnvLevel, "warn")
	t.Cleanup(Reset)

	cleanup, err := InitFromEnv(true, "test")
	require.NoError(t, err)

	Info(CatLSP, "below threshold")
	Warn(CatLSP, "kept")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "below threshold")
	require.Contains(t, string(data), "[WARN] [lsp] kept")
}
