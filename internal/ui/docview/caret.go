package docview

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/impexls/internal/impex"
)

// Column returns the display column of the UTF-16 offset u in text, with
// tabs expanded to TabWidth.
func Column(text string, u int) int {
	prefix := text[:impex.ByteIndex(text, u)]
	tabs := strings.Count(prefix, "\t")
	return runewidth.StringWidth(strings.ReplaceAll(prefix, "\t", "")) + tabs*TabWidth
}

// ExpandedWidth returns the display width of text with tabs expanded.
func ExpandedWidth(text string) int {
	return Column(text, impex.UTF16Len(text))
}

// Underline returns a line of carets under [start, end) of text, padded to
// line up with text as printed. An empty range is drawn as a single caret.
func Underline(text string, start, end int) string {
	from := Column(text, start)
	to := Column(text, end)
	return strings.Repeat(" ", from) + strings.Repeat("^", max(to-from, 1))
}
