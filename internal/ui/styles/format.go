package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// TruncateString truncates a string to fit within maxWidth, adding ellipsis if needed.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}
	return truncate.StringWithTail(s, uint(maxWidth), "...")
}

// FormatPosition renders a zero-based position as the one-based
// "Ln L, Col C" shown to users.
func FormatPosition(line, character int) string {
	return fmt.Sprintf("Ln %d, Col %d", line+1, character+1)
}

// FormatIndexSummary renders record and header counts.
func FormatIndexSummary(records, headers int) string {
	return fmt.Sprintf("%s · %s", plural(records, "record"), plural(headers, "header"))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
