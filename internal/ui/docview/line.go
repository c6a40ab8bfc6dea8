// Package docview renders document lines with field highlights for the
// terminal.
package docview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/impexls/internal/impex"
	"github.com/zjrosen/impexls/internal/ui/styles"
)

// TabWidth is the number of cells a tab expands to.
const TabWidth = 4

// Range is a [Start, End) region of a line in UTF-16 code units. An empty
// range marks the delimiter at Start.
type Range struct {
	Start int
	End   int
}

// LineOptions controls how one line is styled.
type LineOptions struct {
	Delimiter  rune
	Header     bool
	Comment    bool
	Highlights []Range
	// Cursor is the UTF-16 offset of the cursor cell, or -1 for none.
	// A cursor at the end of the line renders as a trailing block.
	Cursor int
}

type segmentKind int

const (
	segPlain segmentKind = iota
	segKeyword
	segDelimiter
	segComment
	segHighlight
	segCursor
)

func (k segmentKind) style() lipgloss.Style {
	switch k {
	case segKeyword:
		return styles.HeaderLineStyle
	case segDelimiter:
		return styles.DelimiterStyle
	case segComment:
		return styles.CommentStyle
	case segHighlight:
		return styles.HighlightStyle
	case segCursor:
		return styles.CursorStyle
	default:
		return lipgloss.NewStyle()
	}
}

// RenderLine styles text. Tabs are expanded to TabWidth spaces, so the
// visible width of the result equals ExpandedWidth(text).
func RenderLine(text string, opts LineOptions) string {
	keywordEnd := -1
	if opts.Header {
		keywordEnd = impex.HeaderKeywordEnd(text)
	}

	var (
		out  strings.Builder
		seg  strings.Builder
		kind = segPlain
		u    int
	)
	flush := func() {
		if seg.Len() == 0 {
			return
		}
		if kind == segPlain {
			out.WriteString(seg.String())
		} else {
			out.WriteString(kind.style().Render(seg.String()))
		}
		seg.Reset()
	}

	for _, r := range text {
		next := segPlain
		switch {
		case u == opts.Cursor:
			next = segCursor
		case covered(opts.Highlights, u, r == opts.Delimiter):
			next = segHighlight
		case opts.Comment:
			next = segComment
		case r == opts.Delimiter:
			next = segDelimiter
		case u < keywordEnd:
			next = segKeyword
		}
		if next != kind {
			flush()
			kind = next
		}
		if r == '\t' {
			seg.WriteString(strings.Repeat(" ", TabWidth))
		} else {
			seg.WriteRune(r)
		}
		u += impex.RuneUTF16Len(r)
	}
	flush()

	if opts.Cursor >= u {
		out.WriteString(styles.CursorStyle.Render(" "))
	}
	return out.String()
}

// covered reports whether offset u falls in one of ranges. An empty range
// covers the delimiter it starts on.
func covered(ranges []Range, u int, onDelimiter bool) bool {
	for _, rg := range ranges {
		if u >= rg.Start && u < rg.End {
			return true
		}
		if rg.Start == rg.End && u == rg.Start && onDelimiter {
			return true
		}
	}
	return false
}
