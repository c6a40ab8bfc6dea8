// Package panes contains bordered pane rendering.
package panes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/impexls/internal/ui/styles"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// BorderConfig configures a bordered pane.
type BorderConfig struct {
	Content string // Rendered inside the border, clipped to fit
	Width   int    // Total width including borders
	Height  int    // Total height including borders

	TopLeft     string
	TopRight    string
	BottomLeft  string
	BottomRight string

	Focused bool
}

// BorderedPane renders content inside a rounded border with titles embedded
// in the top and bottom edges. Content lines are clipped rather than wrapped
// so that the pane never grows past Width x Height.
func BorderedPane(cfg BorderConfig) string {
	borderColor := styles.BorderDefaultColor
	if cfg.Focused {
		borderColor = styles.BorderFocusedColor
	}
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(styles.TextSecondaryColor)

	innerWidth := max(cfg.Width-2, 1)
	contentHeight := max(cfg.Height-2, 1)

	var b strings.Builder
	b.WriteString(edge(borderTopLeft, borderTopRight, cfg.TopLeft, cfg.TopRight, innerWidth, borderStyle, titleStyle))
	b.WriteString("\n")

	lines := strings.Split(cfg.Content, "\n")
	side := borderStyle.Render(borderVertical)
	for i := range contentHeight {
		var line string
		if i < len(lines) {
			line = ansi.Truncate(lines[i], innerWidth, "")
		}
		if w := ansi.StringWidth(line); w < innerWidth {
			line += strings.Repeat(" ", innerWidth-w)
		}
		b.WriteString(side + line + side + "\n")
	}

	b.WriteString(edge(borderBottomLeft, borderBottomRight, cfg.BottomLeft, cfg.BottomRight, innerWidth, borderStyle, titleStyle))
	return b.String()
}

// edge builds one horizontal border: ╭─ Left ───── Right ─╮
// A title that does not fit is truncated; the right title is dropped first.
func edge(leftCorner, rightCorner, left, right string, innerWidth int, borderStyle, titleStyle lipgloss.Style) string {
	if (left == "" && right == "") || innerWidth < 5 {
		return borderStyle.Render(leftCorner + strings.Repeat(borderHorizontal, innerWidth) + rightCorner)
	}

	// "─ " + title + " " for each title, at least one dash in between.
	chrome := func(title string) int {
		if title == "" {
			return 0
		}
		return lipgloss.Width(title) + 3
	}
	if chrome(left)+chrome(right)+1 > innerWidth {
		right = ""
	}
	if left != "" && chrome(left)+1 > innerWidth {
		left = styles.TruncateString(left, innerWidth-4)
	}
	if right != "" && chrome(right)+1 > innerWidth {
		right = styles.TruncateString(right, innerWidth-4)
	}

	var b strings.Builder
	b.WriteString(borderStyle.Render(leftCorner))
	if left != "" {
		b.WriteString(borderStyle.Render(borderHorizontal + " "))
		b.WriteString(titleStyle.Render(left))
		b.WriteString(borderStyle.Render(" "))
	}
	dashes := max(innerWidth-chrome(left)-chrome(right), 1)
	b.WriteString(borderStyle.Render(strings.Repeat(borderHorizontal, dashes)))
	if right != "" {
		b.WriteString(borderStyle.Render(" "))
		b.WriteString(titleStyle.Render(right))
		b.WriteString(borderStyle.Render(" " + borderHorizontal))
	}
	b.WriteString(borderStyle.Render(rightCorner))
	return b.String()
}

// ScrollIndicator returns "↑XX%" when vp is not showing its last line, or ""
// when the content fits or is scrolled to the bottom.
func ScrollIndicator(vp viewport.Model) string {
	if vp.TotalLineCount() <= vp.Height || vp.AtBottom() {
		return ""
	}
	return styles.MutedStyle.Render(fmt.Sprintf("↑%.0f%%", vp.ScrollPercent()*100))
}
