package impex

// Position is a zero-based line and UTF-16 character offset.
type Position struct {
	Line      int
	Character int
}

// Change is one text edit. A nil Range replaces the whole document.
type Change struct {
	Range *ChangeRange
	Text  string
}

// ChangeRange is the [Start, End) region replaced by a Change.
type ChangeRange struct {
	Start Position
	End   Position
}

// Document is one generation of an open document: its text and the index
// built from it. Documents are never mutated; every edit produces a new one.
type Document struct {
	URI        string
	Version    int
	Text       string
	Index      *Index
	Generation uint64
}

// ApplyChanges applies changes to text in order. Each ranged change is
// computed against the result of the previous one.
func ApplyChanges(text string, changes []Change) string {
	for _, ch := range changes {
		if ch.Range == nil {
			text = ch.Text
			continue
		}
		starts := lineStarts(text)
		start := byteOffset(starts, text, ch.Range.Start)
		end := byteOffset(starts, text, ch.Range.End)
		if end < start {
			start, end = end, start
		}
		text = text[:start] + ch.Text + text[end:]
	}
	return text
}
