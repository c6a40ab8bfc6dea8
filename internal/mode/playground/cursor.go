package playground

import (
	"unicode/utf8"

	"github.com/zjrosen/impexls/internal/impex"
	"github.com/zjrosen/impexls/internal/ui/docview"
)

func (m *Model) currentLine() string {
	if m.line < 0 || m.line >= len(m.lines) {
		return ""
	}
	return m.lines[m.line]
}

func (m *Model) moveLine(delta int) {
	if len(m.lines) == 0 {
		return
	}
	m.line = max(0, min(m.line+delta, len(m.lines)-1))
	m.char = min(m.char, impex.UTF16Len(m.currentLine()))
}

// moveChar moves by whole runes so the cursor never lands inside a
// surrogate pair.
func (m *Model) moveChar(delta int) {
	text := m.currentLine()
	r := impex.UTF16ToRune(text, m.char) + delta
	r = max(0, min(r, utf8.RuneCountInString(text)))
	m.char = impex.RuneToUTF16(text, r)
}

// fieldStarts returns the UTF-16 offset of every field start on the cursor
// line that lies within the line text.
func (m *Model) fieldStarts() []int {
	rec, ok := m.doc.Index.Line(m.line)
	if !ok {
		return nil
	}
	end := impex.UTF16Len(m.currentLine())
	starts := []int{0}
	for _, d := range rec.Delimiters() {
		if d+1 <= end {
			starts = append(starts, d+1)
		}
	}
	return starts
}

func (m *Model) nextField() {
	if m.doc == nil {
		return
	}
	for _, s := range m.fieldStarts() {
		if s > m.char {
			m.char = s
			return
		}
	}
}

func (m *Model) prevField() {
	if m.doc == nil {
		return
	}
	starts := m.fieldStarts()
	for i := len(starts) - 1; i >= 0; i-- {
		if starts[i] < m.char {
			m.char = starts[i]
			return
		}
	}
}

// scrollHorizontal keeps the cursor column inside the text area.
func (m *Model) scrollHorizontal() {
	textWidth := m.textWidth()
	if textWidth <= 0 {
		return
	}
	col := docview.Column(m.currentLine(), m.char)
	switch {
	case col < m.xOffset:
		m.xOffset = col
	case col >= m.xOffset+textWidth:
		m.xOffset = col - textWidth + 1
	}
}

// scrollVertical keeps the cursor line inside the viewport. It must run
// after the content is set because the viewport clamps its offset.
func (m *Model) scrollVertical() {
	h := m.viewport.Height
	if h <= 0 {
		return
	}
	switch {
	case m.line < m.viewport.YOffset:
		m.viewport.SetYOffset(m.line)
	case m.line >= m.viewport.YOffset+h:
		m.viewport.SetYOffset(m.line - h + 1)
	}
}
