// Package testutil builds ImpEx documents for tests.
package testutil

import (
	"strings"
	"testing"
)

// Builder accumulates document lines and remembers where each record starts.
type Builder struct {
	t       *testing.T
	lines   []string
	headers []int
}

// NewBuilder creates an empty document builder.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t}
}

// WithHeader adds a header line "KEYWORD Type;attr1;attr2".
func (b *Builder) WithHeader(keyword, itemType string, attrs ...string) *Builder {
	return b.WithHeaderOpts(keyword, itemType, attrs)
}

// WithHeaderOpts adds a header line with options applied.
func (b *Builder) WithHeaderOpts(keyword, itemType string, attrs []string, opts ...LineOption) *Builder {
	l := lineData{text: keyword + " " + itemType + ";" + strings.Join(attrs, ";")}
	for _, opt := range opts {
		opt(&l)
	}
	b.headers = append(b.headers, len(b.lines))
	b.lines = append(b.lines, l.render())
	return b
}

// WithRow adds a continuation line ";v1;v2".
func (b *Builder) WithRow(values ...string) *Builder {
	return b.WithRowOpts(values)
}

// WithRowOpts adds a continuation line with options applied.
func (b *Builder) WithRowOpts(values []string, opts ...LineOption) *Builder {
	l := lineData{text: ";" + strings.Join(values, ";")}
	for _, opt := range opts {
		opt(&l)
	}
	b.lines = append(b.lines, l.render())
	return b
}

// WithComment adds a "# text" line.
func (b *Builder) WithComment(text string) *Builder {
	b.lines = append(b.lines, "# "+text)
	return b
}

// WithBlank adds an empty line.
func (b *Builder) WithBlank() *Builder {
	b.lines = append(b.lines, "")
	return b
}

// WithRaw adds a line verbatim.
func (b *Builder) WithRaw(line string) *Builder {
	b.lines = append(b.lines, line)
	return b
}

// Headers returns the line numbers of the headers added so far.
func (b *Builder) Headers() []int {
	return append([]int(nil), b.headers...)
}

// Line returns line n of the document.
func (b *Builder) Line(n int) string {
	b.t.Helper()
	if n < 0 || n >= len(b.lines) {
		b.t.Fatalf("testutil: line %d out of range (%d lines)", n, len(b.lines))
	}
	return b.lines[n]
}

// LineCount returns the number of lines added.
func (b *Builder) LineCount() int {
	return len(b.lines)
}

// Build joins the lines with "\n".
func (b *Builder) Build() string {
	return strings.Join(b.lines, "\n")
}

// BuildCRLF joins the lines with "\r\n".
func (b *Builder) BuildCRLF() string {
	return strings.Join(b.lines, "\r\n")
}
