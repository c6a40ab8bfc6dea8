package impex

// SplitLines splits text at "\r\n", "\n" and a lone "\r", the line endings
// LSP clients may send. Terminators are dropped. Text ending in a terminator
// yields a final empty line, so the result always has at least one element.
func SplitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, text[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	return append(lines, text[start:])
}

// lineStarts returns the byte offset of each line start, with the same line
// endings as SplitLines.
func lineStarts(text string) []int {
	offs := []int{0}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			offs = append(offs, i+1)
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			offs = append(offs, i+1)
		}
	}
	return offs
}
