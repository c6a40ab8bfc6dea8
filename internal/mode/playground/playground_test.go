package playground

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/impexls/internal/impex"
	"github.com/zjrosen/impexls/internal/pubsub"
	"github.com/zjrosen/impexls/internal/testutil"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.ANSI256)
	os.Exit(m.Run())
}

func newModel(t *testing.T, text string, watch bool) (Model, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.impex")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))

	svc := impex.NewService(impex.DefaultOptions())
	t.Cleanup(svc.Close)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	m, err := New(ctx, Config{Path: path, Service: svc, Watch: watch})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m, path
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func loaded(t *testing.T, text string) Model {
	t.Helper()
	m, _ := newModel(t, text, false)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = update(t, m, m.load()())
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m, _ = update(t, m, keyMsg(k))
	}
	return m
}

func catalog(t *testing.T) string {
	return testutil.NewBuilder(t).WithProductCatalog().Build()
}

func TestNew_RequiresService(t *testing.T) {
	_, err := New(context.Background(), Config{Path: "x.impex"})
	require.Error(t, err)
}

func TestModel_LoadIndexesDocument(t *testing.T) {
	m := loaded(t, catalog(t))

	doc, ok := m.svc.Document(context.Background(), m.URI())
	require.True(t, ok)
	require.Equal(t, 1, doc.Version)
	require.Equal(t, 5, doc.Index.Len())

	view := ansi.Strip(m.View())
	require.Contains(t, view, "catalog.impex")
	require.Contains(t, view, "v1")
	require.Contains(t, view, "5 records · 2 headers")
	require.Contains(t, view, "INSERT_UPDATE Product;code[unique=true]")
	require.Contains(t, view, "Ln 1, Col 1")
}

func TestModel_FieldNavigationHighlights(t *testing.T) {
	tests := []struct {
		name  string
		keys  []string
		line  int
		char  int
		spans []impex.Span
	}{
		{
			name: "comment line",
			keys: nil,
			line: 0, char: 0,
		},
		{
			name: "header first field",
			keys: []string{"j"},
			line: 1, char: 0,
			spans: []impex.Span{{Line: 2, Start: 0, End: 0}, {Line: 3, Start: 0, End: 0}},
		},
		{
			name: "header second field",
			keys: []string{"j", "w"},
			line: 1, char: 22,
			spans: []impex.Span{{Line: 2, Start: 1, End: 4}, {Line: 3, Start: 1, End: 4}},
		},
		{
			name: "tab is next field",
			keys: []string{"j", "tab", "tab"},
			line: 1, char: 40,
			spans: []impex.Span{{Line: 2, Start: 5, End: 11}, {Line: 3, Start: 5, End: 11}},
		},
		{
			name: "row clamps to line end",
			keys: []string{"j", "w", "w", "j"},
			line: 2, char: 18,
		},
		{
			name: "prev field from line end",
			keys: []string{"j", "w", "w", "j", "b"},
			line: 2, char: 12,
			spans: []impex.Span{{Line: 1, Start: 54, End: 64}},
		},
		{
			name: "cursor on delimiter",
			keys: []string{"j", "j", "$", "0"},
			line: 2, char: 0,
		},
		{
			name: "step right into a field",
			keys: []string{"j", "j", "l"},
			line: 2, char: 1,
			spans: []impex.Span{{Line: 1, Start: 22, End: 39}},
		},
		{
			name: "blank line",
			keys: []string{"j", "j", "j", "j"},
			line: 4, char: 0,
		},
		{
			name: "up stops at top",
			keys: []string{"k", "k"},
			line: 0, char: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(t, loaded(t, catalog(t)), tt.keys...)

			line, char := m.Cursor()
			require.Equal(t, tt.line, line)
			require.Equal(t, tt.char, char)
			require.Equal(t, tt.spans, m.Highlights())
		})
	}
}

func TestModel_SidebarDescribesField(t *testing.T) {
	m := press(t, loaded(t, catalog(t)), "j", "j", "w", "w")

	view := ansi.Strip(m.View())
	require.Contains(t, view, "row of header 2")
	require.Contains(t, view, "Field: 3")
	require.Contains(t, view, "Column: name[lang=en]")
	require.Contains(t, view, "Value: Widget")
	require.Contains(t, view, "Matches (1)")
	require.Contains(t, view, "Ln 2  40-53")
}

func TestModel_MoveCharSkipsSurrogatePairs(t *testing.T) {
	m := press(t, loaded(t, "INSERT X;🙂a;b\n;1;2"), "w", "l")

	_, char := m.Cursor()
	require.Equal(t, 11, char)

	m = press(t, m, "h")
	_, char = m.Cursor()
	require.Equal(t, 9, char)
}

func TestModel_PageMovesClamp(t *testing.T) {
	m := loaded(t, catalog(t))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})
	line, _ := m.Cursor()
	require.Equal(t, 6, line)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyPgUp})
	line, _ = m.Cursor()
	require.Zero(t, line)
}

func TestModel_ScrollsToCursor(t *testing.T) {
	b := testutil.NewBuilder(t).WithHeader("INSERT", "X", "a")
	for range 60 {
		b.WithRow("v")
	}
	m := loaded(t, b.Build())

	for range 50 {
		m = press(t, m, "j")
	}
	line, _ := m.Cursor()
	require.Equal(t, 50, line)
	require.LessOrEqual(t, m.viewport.YOffset, 50)
	require.Greater(t, m.viewport.YOffset+m.viewport.Height, 50)
	require.Contains(t, ansi.Strip(m.View()), "↑")
}

func TestModel_LoadError(t *testing.T) {
	m, path := newModel(t, "", false)
	require.NoError(t, os.Remove(path))

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = update(t, m, m.load()())

	require.Error(t, m.err)
	require.Contains(t, ansi.Strip(m.View()), "error:")
}

func TestModel_ReloadBumpsVersion(t *testing.T) {
	m, path := newModel(t, catalog(t), false)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = update(t, m, m.load()())

	require.NoError(t, os.WriteFile(path, []byte("INSERT X;a\n;1"), 0o644))
	m, cmd := update(t, m, keyMsg("r"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	require.Equal(t, 2, m.version)
	require.Equal(t, 2, m.doc.Index.Len())
	require.Contains(t, ansi.Strip(m.View()), "v2")
}

func TestModel_DocumentEventsUpdateStatus(t *testing.T) {
	m := loaded(t, catalog(t))

	m.svc.OnDocumentText(context.Background(), m.URI(), 7, "INSERT X;a\n;1")

	for {
		msg := m.listener.Listen()()
		ev, ok := msg.(pubsub.Event[impex.DocumentEvent])
		require.True(t, ok)
		var cmd tea.Cmd
		m, cmd = update(t, m, ev)
		require.NotNil(t, cmd, "listening continues")
		if ev.Payload.Version == 7 {
			break
		}
	}

	require.Equal(t, "indexed v7: 2 records", m.status)
	require.Len(t, m.lines, 2)
	require.Contains(t, ansi.Strip(m.View()), "indexed v7")
}

func TestModel_EventsForOtherDocumentsIgnored(t *testing.T) {
	m := loaded(t, catalog(t))
	m.status = ""

	m, cmd := update(t, m, pubsub.Event[impex.DocumentEvent]{
		Type:    pubsub.UpdatedEvent,
		Payload: impex.DocumentEvent{URI: "file:///other.impex", Version: 3},
	})

	require.NotNil(t, cmd)
	require.Empty(t, m.status)
}

func TestModel_HelpToggle(t *testing.T) {
	m := loaded(t, catalog(t))
	short := m.viewport.Height

	m = press(t, m, "?")
	require.True(t, m.help.ShowAll)
	require.Less(t, m.viewport.Height, short, "full help takes rows from the document")
	require.Contains(t, ansi.Strip(m.View()), "reload file")

	m = press(t, m, "?")
	require.False(t, m.help.ShowAll)
	require.Equal(t, short, m.viewport.Height)
}

func TestModel_Quit(t *testing.T) {
	m := loaded(t, catalog(t))

	m, cmd := update(t, m, keyMsg("q"))
	require.NotNil(t, cmd)
	require.Equal(t, tea.QuitMsg{}, cmd())
	require.Empty(t, m.View())
}

func TestModel_NarrowHidesSidebar(t *testing.T) {
	m := loaded(t, catalog(t))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})

	view := ansi.Strip(m.View())
	require.NotContains(t, view, "Matches")
	require.Equal(t, 58, m.viewport.Width)
}

func TestFieldText(t *testing.T) {
	ix := impex.Build("INSERT X;🙂a;b", impex.DefaultOptions())
	rec, ok := ix.Line(0)
	require.True(t, ok)

	span, ok := rec.Field(1)
	require.True(t, ok)
	require.Equal(t, "🙂a", fieldText(rec, span))
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		ev   pubsub.Event[impex.DocumentEvent]
		want string
	}{
		{pubsub.Event[impex.DocumentEvent]{Type: pubsub.CreatedEvent, Payload: impex.DocumentEvent{Records: 5}}, "opened: 5 records"},
		{pubsub.Event[impex.DocumentEvent]{Type: pubsub.UpdatedEvent, Payload: impex.DocumentEvent{Version: 2, Records: 1}}, "indexed v2: 1 records"},
		{pubsub.Event[impex.DocumentEvent]{Type: pubsub.DeletedEvent}, "closed"},
		{pubsub.Event[impex.DocumentEvent]{Type: pubsub.ReconfiguredEvent}, "options changed"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, describe(tt.ev))
	}
}
