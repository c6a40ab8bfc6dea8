// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#CCCCCC"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"}

	// Borders
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}
	BorderFocusedColor = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}

	// Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	// Document syntax (Catppuccin)
	HeaderKeywordColor = lipgloss.AdaptiveColor{Light: "#8839EF", Dark: "#CBA6F7"} // mauve
	DelimiterColor     = lipgloss.AdaptiveColor{Light: "#9CA0B0", Dark: "#6C7086"} // overlay0
	CommentColor       = lipgloss.AdaptiveColor{Light: "#7C7F93", Dark: "#9399B2"} // overlay2
	HighlightBgColor   = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#F9E2AF"} // yellow
	HighlightFgColor   = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}
	CursorBgColor      = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"} // blue

	LineNumberStyle      = lipgloss.NewStyle().Foreground(TextMutedColor)
	LineNumberLineStyle  = lipgloss.NewStyle().Foreground(TextPrimaryColor).Bold(true)
	HeaderLineStyle      = lipgloss.NewStyle().Foreground(HeaderKeywordColor).Bold(true)
	DelimiterStyle       = lipgloss.NewStyle().Foreground(DelimiterColor)
	CommentStyle         = lipgloss.NewStyle().Foreground(CommentColor).Italic(true)
	HighlightStyle       = lipgloss.NewStyle().Foreground(HighlightFgColor).Background(HighlightBgColor)
	CursorStyle          = lipgloss.NewStyle().Foreground(HighlightFgColor).Background(CursorBgColor)
	MutedStyle           = lipgloss.NewStyle().Foreground(TextMutedColor)
	SecondaryStyle       = lipgloss.NewStyle().Foreground(TextSecondaryColor)
	ErrorStyle           = lipgloss.NewStyle().Foreground(StatusErrorColor)
	SuccessStyle         = lipgloss.NewStyle().Foreground(StatusSuccessColor)
	SectionTitleStyle    = lipgloss.NewStyle().Foreground(TextPrimaryColor).Bold(true)
	SelectionMarkerStyle = lipgloss.NewStyle().Foreground(CursorBgColor).Bold(true)
)
