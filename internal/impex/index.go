// Package impex indexes ImpEx-style documents and computes cross-line field
// highlights.
//
// A document is a sequence of records. A record starts with a header line
// (INSERT, UPDATE, ...) and owns the delimited lines below it until the next
// header. All character offsets are UTF-16 code units, matching LSP positions.
package impex

import (
	"slices"
	"strings"
)

// Record is one indexed line.
type Record struct {
	// Line is the zero-based line number.
	Line int
	// Content is the line text with one delimiter appended, so the last field
	// of every line is closed by a delimiter.
	Content string
	// Header is the line number of the header that owns this line.
	// Equal to Line for a header.
	Header int

	delims []int // UTF-16 offsets of every delimiter in Content, ascending
}

// IsHeader reports whether the record is its own header.
func (r Record) IsHeader() bool {
	return r.Header == r.Line
}

// Delimiters returns the UTF-16 offsets of the delimiters in Content.
func (r Record) Delimiters() []int {
	return slices.Clone(r.delims)
}

// Fields returns the number of fields on the line, not counting the empty
// field that the appended delimiter would close on a line ending in a delimiter.
func (r Record) Fields() int {
	n := len(r.delims)
	if n == 0 {
		return 0
	}
	if _, ok := r.Field(n - 1); !ok {
		n--
	}
	return n
}

// Index maps line numbers to records for one version of a document.
// An Index is immutable once built.
type Index struct {
	records map[int]Record
	lines   int
	headers int
}

// Build indexes text in a single forward pass.
//
// Lines end at "\r\n", "\n" or "\r". Lines without a delimiter, comment
// lines and lines preceding the first header are left out.
func Build(text string, opts Options) *Index {
	opts = opts.normalized()
	delim := string(opts.Delimiter)

	ix := &Index{records: make(map[int]Record)}
	header := -1

	lines := SplitLines(text)
	n := len(lines)
	if lines[n-1] == "" {
		// A trailing terminator does not open another line.
		n--
	}
	for num, line := range lines[:n] {
		if !strings.Contains(line, delim) || opts.IsComment(line) {
			continue
		}
		if IsHeader(line) {
			header = num
			ix.headers++
		}
		if header < 0 {
			continue
		}

		content := line + delim
		ix.records[num] = Record{
			Line:    num,
			Content: content,
			Header:  header,
			delims:  delimiterOffsets(content, opts.Delimiter),
		}
	}
	ix.lines = n
	return ix
}

// Line returns the record for line n.
func (ix *Index) Line(n int) (Record, bool) {
	if ix == nil {
		return Record{}, false
	}
	r, ok := ix.records[n]
	return r, ok
}

// Len returns the number of indexed lines.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.records)
}

// Headers returns the number of header lines.
func (ix *Index) Headers() int {
	if ix == nil {
		return 0
	}
	return ix.headers
}

// LineCount returns the number of lines in the source text.
func (ix *Index) LineCount() int {
	if ix == nil {
		return 0
	}
	return ix.lines
}

// Records returns all records ordered by line number.
func (ix *Index) Records() []Record {
	if ix == nil {
		return nil
	}
	out := make([]Record, 0, len(ix.records))
	for _, r := range ix.records {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b Record) int { return a.Line - b.Line })
	return out
}

// delimiterOffsets returns the UTF-16 offset of every delim in s.
func delimiterOffsets(s string, delim rune) []int {
	var offs []int
	u16 := 0
	for _, r := range s {
		if r == delim {
			offs = append(offs, u16)
		}
		u16 += RuneUTF16Len(r)
	}
	return offs
}
