package testutil

import "strings"

// lineData holds a line while options are applied.
type lineData struct {
	text     string
	indent   string
	trailing bool
}

func (l lineData) render() string {
	s := l.indent + l.text
	if l.trailing && !strings.HasSuffix(s, ";") {
		s += ";"
	}
	return s
}

// LineOption configures a header or row.
type LineOption func(*lineData)

// Indent prefixes the line with s.
func Indent(s string) LineOption {
	return func(l *lineData) { l.indent = s }
}

// Trailing ends the line with a delimiter.
func Trailing() LineOption {
	return func(l *lineData) { l.trailing = true }
}
