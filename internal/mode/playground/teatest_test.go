package playground

import (
	"bytes"
	"os"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/impexls/internal/impex"
)

func waitForOutput(t *testing.T, tm *teatest.TestModel, want string) {
	t.Helper()
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte(want))
	}, teatest.WithDuration(5*time.Second), teatest.WithCheckInterval(20*time.Millisecond))
}

func TestProgram_NavigateAndQuit(t *testing.T) {
	m, _ := newModel(t, catalog(t), false)
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 30))

	waitForOutput(t, tm, "5 records")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	waitForOutput(t, tm, "Matches (2)")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	tm.WaitFinished(t, teatest.WithFinalTimeout(5*time.Second))

	final, ok := tm.FinalModel(t).(Model)
	require.True(t, ok)
	line, char := final.Cursor()
	require.Equal(t, 1, line)
	require.Equal(t, 22, char)
	require.Equal(t, []impex.Span{{Line: 2, Start: 1, End: 4}, {Line: 3, Start: 1, End: 4}}, final.Highlights())
}

func TestProgram_ReloadsOnFileChange(t *testing.T) {
	m, path := newModel(t, catalog(t), true)
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 30))

	waitForOutput(t, tm, "5 records")

	require.NoError(t, os.WriteFile(path, []byte("INSERT X;a\n;1\n;2\n"), 0o644))
	waitForOutput(t, tm, "3 records")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	tm.WaitFinished(t, teatest.WithFinalTimeout(5*time.Second))

	final := tm.FinalModel(t).(Model)
	require.GreaterOrEqual(t, final.version, 2)
	require.Equal(t, 3, final.doc.Index.Len())
}
