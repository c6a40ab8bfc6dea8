package playground

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/impexls/internal/impex"
	"github.com/zjrosen/impexls/internal/ui/docview"
	"github.com/zjrosen/impexls/internal/ui/panes"
	"github.com/zjrosen/impexls/internal/ui/styles"
)

const (
	sidebarCols     = 34
	minWidthSidebar = 80
)

func (m *Model) sidebarWidth() int {
	if m.width < minWidthSidebar {
		return 0
	}
	return sidebarCols
}

func (m *Model) paneHeight() int {
	return max(m.height-lipgloss.Height(m.help.View(m.keys)), 3)
}

// resize fits the viewport inside the document pane.
func (m *Model) resize() {
	m.viewport.Width = max(m.width-m.sidebarWidth()-2, 1)
	m.viewport.Height = max(m.paneHeight()-2, 1)
}

func (m *Model) gutterWidth() int {
	return len(strconv.Itoa(max(len(m.lines), 1)))
}

// textWidth is the number of cells left for line text after the gutter.
func (m *Model) textWidth() int {
	return m.viewport.Width - m.gutterWidth() - 1
}

// render rebuilds the viewport content from the current document.
func (m *Model) render() {
	if m.doc == nil {
		m.viewport.SetContent("")
		return
	}

	byLine := make(map[int][]docview.Range, len(m.spans))
	for _, s := range m.spans {
		byLine[s.Line] = append(byLine[s.Line], docview.Range{Start: s.Start, End: s.End})
	}

	opts := m.svc.Options()
	gw := m.gutterWidth()
	out := make([]string, len(m.lines))
	for i, text := range m.lines {
		lo := docview.LineOptions{
			Delimiter:  opts.Delimiter,
			Comment:    opts.IsComment(text),
			Highlights: byLine[i],
			Cursor:     -1,
		}
		if rec, ok := m.doc.Index.Line(i); ok {
			lo.Header = rec.IsHeader()
		}
		numStyle := styles.LineNumberStyle
		if i == m.line {
			lo.Cursor = m.char
			numStyle = styles.LineNumberLineStyle
		}

		body := docview.RenderLine(text, lo)
		if m.xOffset > 0 {
			body = ansi.TruncateLeft(body, m.xOffset, "")
		}
		out[i] = numStyle.Render(fmt.Sprintf("%*d", gw, i+1)) + " " + body
	}
	m.viewport.SetContent(strings.Join(out, "\n"))
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "loading..."
	}

	height := m.paneHeight()
	side := m.sidebarWidth()

	content := m.viewport.View()
	if m.err != nil {
		content = styles.ErrorStyle.Render(wordwrap.String("error: "+m.err.Error(), max(m.viewport.Width, 1)))
	}
	docPane := panes.BorderedPane(panes.BorderConfig{
		Content:     content,
		Width:       m.width - side,
		Height:      height,
		TopLeft:     filepath.Base(m.path),
		TopRight:    fmt.Sprintf("v%d", m.version),
		BottomLeft:  styles.FormatPosition(m.line, m.char),
		BottomRight: panes.ScrollIndicator(m.viewport),
		Focused:     true,
	})

	main := docPane
	if side > 0 {
		sidebar := panes.BorderedPane(panes.BorderConfig{
			Content: wordwrap.String(m.renderSidebar(side-4), side-2),
			Width:   side,
			Height:  height,
			TopLeft: "Record",
		})
		main = lipgloss.JoinHorizontal(lipgloss.Top, docPane, sidebar)
	}
	return main + "\n" + m.help.View(m.keys)
}

// renderSidebar describes the record and field under the cursor.
func (m *Model) renderSidebar(width int) string {
	var b strings.Builder
	section := func(title string) {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styles.SectionTitleStyle.Render(title) + "\n")
	}
	row := func(label, value string) {
		b.WriteString(styles.MutedStyle.Render(label+": ") + value + "\n")
	}

	section("Cursor")
	if m.doc == nil {
		b.WriteString(styles.MutedStyle.Render("no document") + "\n")
		return b.String()
	}

	rec, ok := m.doc.Index.Line(m.line)
	switch {
	case !ok:
		row("Line", styles.MutedStyle.Render("not indexed"))
	case rec.IsHeader():
		row("Line", "header")
	default:
		row("Line", fmt.Sprintf("row of header %d", rec.Header+1))
	}

	if ok {
		if ordinal, onField := rec.FieldAt(m.char); onField {
			row("Field", strconv.Itoa(ordinal+1))
			if head, ok := m.doc.Index.Line(rec.Header); ok && !rec.IsHeader() {
				if span, ok := head.Field(ordinal); ok {
					row("Column", styles.TruncateString(fieldText(head, span), width))
				}
			}
			if span, ok := rec.Field(ordinal); ok {
				row("Value", styles.TruncateString(fieldText(rec, span), width))
			}
		} else {
			row("Field", styles.MutedStyle.Render("none"))
		}
	}

	section(fmt.Sprintf("Matches (%d)", len(m.spans)))
	for _, s := range m.spans {
		fmt.Fprintf(&b, "Ln %d  %d-%d\n", s.Line+1, s.Start, s.End)
	}

	section("Index")
	b.WriteString(styles.FormatIndexSummary(m.doc.Index.Len(), m.doc.Index.Headers()) + "\n")
	opts := m.svc.Options()
	row("Delimiter", strconv.QuoteRune(opts.Delimiter))
	row("Lookahead", strconv.Itoa(opts.Lookahead))
	if m.status != "" {
		b.WriteString(styles.SuccessStyle.Render(m.status) + "\n")
	}
	return b.String()
}

// fieldText returns the text of span on rec.
func fieldText(rec impex.Record, span impex.Span) string {
	runes := []rune(rec.Content)
	start := impex.UTF16ToRune(rec.Content, span.Start)
	end := impex.UTF16ToRune(rec.Content, span.End)
	if start > end || end > len(runes) {
		return ""
	}
	return string(runes[start:end])
}
