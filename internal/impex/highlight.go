package impex

import "sort"

// Span is a highlighted field on one line, [Start, End) in UTF-16 code units.
type Span struct {
	Line  int `json:"line" yaml:"line"`
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// FieldAt returns the ordinal of the field containing the UTF-16 offset
// character. It reports false when the offset sits on a delimiter, which is
// ambiguous, or lies outside the line.
func (r Record) FieldAt(character int) (int, bool) {
	if character < 0 || len(r.delims) == 0 || character >= r.delims[len(r.delims)-1] {
		return 0, false
	}
	i := sort.SearchInts(r.delims, character)
	if r.delims[i] == character {
		return 0, false
	}
	return i, true
}

// Field returns the span of the field with the given ordinal.
//
// The field runs from just after delimiter ordinal-1 (or the start of the
// line) up to delimiter ordinal. A line without enough delimiters has no such
// field. Neither does the empty field closed only by the appended delimiter:
// ";r;" has fields 0 and 1, not 2.
func (r Record) Field(ordinal int) (Span, bool) {
	if ordinal < 0 || ordinal >= len(r.delims) {
		return Span{}, false
	}
	start := 0
	if ordinal > 0 {
		start = r.delims[ordinal-1] + 1
	}
	end := r.delims[ordinal]
	if ordinal == len(r.delims)-1 && start == end {
		return Span{}, false
	}
	return Span{Line: r.Line, Start: start, End: end}, true
}

// Highlight returns the spans of the field under (line, character) on the
// other lines of its record, in ascending line order. It returns nil when
// there is nothing to highlight.
//
// From a header, continuation lines up to lookahead lines below are scanned
// until a line of another record shows up. From a continuation line, only the
// header is considered.
func Highlight(ix *Index, line, character, lookahead int) []Span {
	rec, ok := ix.Line(line)
	if !ok {
		return nil
	}
	ordinal, ok := rec.FieldAt(character)
	if !ok {
		return nil
	}
	if lookahead <= 0 {
		lookahead = DefaultLookahead
	}

	var spans []Span
	if !rec.IsHeader() {
		head, ok := ix.Line(rec.Header)
		if !ok {
			return nil
		}
		if s, ok := head.Field(ordinal); ok {
			spans = append(spans, s)
		}
		return spans
	}

	// Never past the last line; lookahead may be huge.
	last := line + min(lookahead, ix.LineCount()-1-line)
	for n := line + 1; n <= last; n++ {
		next, ok := ix.Line(n)
		if !ok {
			continue
		}
		if next.Header != line {
			break
		}
		if s, ok := next.Field(ordinal); ok {
			spans = append(spans, s)
		}
	}
	return spans
}
