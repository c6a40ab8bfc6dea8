// Package playground is an interactive terminal view of one document: move
// the cursor through its fields and watch the matching fields of the record
// light up, exactly as an editor would show them.
package playground

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/impexls/internal/impex"
	"github.com/zjrosen/impexls/internal/keys"
	"github.com/zjrosen/impexls/internal/log"
	"github.com/zjrosen/impexls/internal/pubsub"
	"github.com/zjrosen/impexls/internal/watcher"
)

// Config configures a playground.
type Config struct {
	// Path is the file shown.
	Path string
	// Service indexes the file. It is shared with nothing else.
	Service *impex.Service
	// Watch reloads the file when it changes on disk.
	Watch bool
}

// fileLoadedMsg carries the contents of the file after a (re)load.
type fileLoadedMsg struct {
	text string
	err  error
}

// fileChangedMsg is sent when the watcher reports a change on disk.
type fileChangedMsg struct{}

// Model holds the playground state.
type Model struct {
	ctx      context.Context
	svc      *impex.Service
	path     string
	uri      string
	listener *pubsub.ContinuousListener[impex.DocumentEvent]
	watcher  *watcher.Watcher
	changes  <-chan struct{}

	keys     keys.KeyMap
	help     help.Model
	viewport viewport.Model

	doc     *impex.Document
	lines   []string
	version int
	line    int
	char    int // UTF-16 offset on line
	xOffset int
	spans   []impex.Span

	status   string
	err      error
	width    int
	height   int
	quitting bool
}

// New creates a playground for cfg.Path. The file is read by Init.
func New(ctx context.Context, cfg Config) (Model, error) {
	if cfg.Service == nil {
		return Model{}, fmt.Errorf("playground: no service")
	}
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return Model{}, fmt.Errorf("resolving %s: %w", cfg.Path, err)
	}

	m := Model{
		ctx:      ctx,
		svc:      cfg.Service,
		path:     abs,
		uri:      "file://" + filepath.ToSlash(abs),
		listener: pubsub.NewContinuousListener(ctx, cfg.Service.Events()),
		keys:     keys.DefaultKeyMap(),
		help:     help.New(),
		viewport: viewport.New(0, 0),
	}

	if cfg.Watch {
		w, err := watcher.New(watcher.DefaultConfig(abs))
		if err != nil {
			return Model{}, fmt.Errorf("watching %s: %w", cfg.Path, err)
		}
		changes, err := w.Start()
		if err != nil {
			return Model{}, fmt.Errorf("watching %s: %w", cfg.Path, err)
		}
		m.watcher = w
		m.changes = changes
	}
	return m, nil
}

// Close stops the file watcher.
func (m Model) Close() error {
	if m.watcher == nil {
		return nil
	}
	return m.watcher.Stop()
}

// URI returns the document URI the file is indexed under.
func (m Model) URI() string {
	return m.uri
}

// Cursor returns the zero-based line and UTF-16 character of the cursor.
func (m Model) Cursor() (int, int) {
	return m.line, m.char
}

// Highlights returns the spans currently highlighted.
func (m Model) Highlights() []impex.Span {
	return m.spans
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.load(), m.listener.Listen()}
	if m.changes != nil {
		cmds = append(cmds, waitForChange(m.ctx, m.changes))
	}
	return tea.Batch(cmds...)
}

func (m Model) load() tea.Cmd {
	path := m.path
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return fileLoadedMsg{err: err}
		}
		return fileLoadedMsg{text: string(data)}
	}
}

func waitForChange(ctx context.Context, ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			return fileChangedMsg{}
		}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		m.render()
		return m, nil

	case fileLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			log.ErrorErr(log.CatUI, "loading document failed", msg.err, "path", m.path)
			return m, nil
		}
		m.err = nil
		m.version++
		m.svc.OnDocumentText(m.ctx, m.uri, m.version, msg.text)
		m.refresh()
		return m, nil

	case fileChangedMsg:
		return m, tea.Batch(m.load(), waitForChange(m.ctx, m.changes))

	case pubsub.Event[impex.DocumentEvent]:
		if msg.Payload.URI == m.uri || msg.Type == pubsub.ReconfiguredEvent {
			m.status = describe(msg)
			m.refresh()
		}
		return m, m.listener.Listen()

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
	case key.Matches(msg, m.keys.Reload):
		return m, m.load()
	case key.Matches(msg, m.keys.Up):
		m.moveLine(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveLine(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveLine(-max(m.viewport.Height, 1))
	case key.Matches(msg, m.keys.PageDown):
		m.moveLine(max(m.viewport.Height, 1))
	case key.Matches(msg, m.keys.Left):
		m.moveChar(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveChar(1)
	case key.Matches(msg, m.keys.NextField):
		m.nextField()
	case key.Matches(msg, m.keys.PrevField):
		m.prevField()
	case key.Matches(msg, m.keys.LineStart):
		m.char = 0
	case key.Matches(msg, m.keys.LineEnd):
		m.char = impex.UTF16Len(m.currentLine())
	default:
		return m, nil
	}
	m.highlight()
	return m, nil
}

// refresh picks up the latest document generation and recomputes highlights.
func (m *Model) refresh() {
	doc, ok := m.svc.Document(m.ctx, m.uri)
	if !ok {
		return
	}
	m.doc = doc
	m.lines = impex.SplitLines(doc.Text)
	m.line = min(m.line, len(m.lines)-1)
	m.char = min(m.char, impex.UTF16Len(m.currentLine()))
	m.highlight()
}

func (m *Model) highlight() {
	m.spans = m.svc.RequestHighlights(m.ctx, m.uri, m.line, m.char)
	m.scrollHorizontal()
	m.render()
	m.scrollVertical()
}

func describe(ev pubsub.Event[impex.DocumentEvent]) string {
	p := ev.Payload
	switch ev.Type {
	case pubsub.CreatedEvent:
		return fmt.Sprintf("opened: %d records", p.Records)
	case pubsub.UpdatedEvent:
		return fmt.Sprintf("indexed v%d: %d records", p.Version, p.Records)
	case pubsub.DeletedEvent:
		return "closed"
	case pubsub.ReconfiguredEvent:
		return "options changed"
	default:
		return string(ev.Type)
	}
}
