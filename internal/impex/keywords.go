package impex

import "strings"

// Keyword is a header action keyword together with its completion detail.
type Keyword struct {
	Name   string
	Detail string
}

// keywords is fixed. INSERT_UPDATE is listed before INSERT only for completion
// ordering; header detection is a membership test.
var keywords = []Keyword{
	{Name: "INSERT_UPDATE", Detail: "Insert/Update data"},
	{Name: "INSERT", Detail: "Insert data"},
	{Name: "UPDATE", Detail: "Update data"},
	{Name: "DELETE", Detail: "Delete data"},
	{Name: "REMOVE", Detail: "Remove data"},
}

// Keywords returns a copy of the header keywords.
func Keywords() []Keyword {
	out := make([]Keyword, len(keywords))
	copy(out, keywords)
	return out
}

// IsHeader reports whether line, after trimming leading whitespace, starts
// with one of the header keywords.
func IsHeader(line string) bool {
	return HeaderKeywordEnd(line) >= 0
}

// HeaderKeywordEnd returns the UTF-16 offset just past the header keyword
// of line, or -1 when line is not a header.
func HeaderKeywordEnd(line string) int {
	trimmed := trimLeft(line)
	for _, kw := range keywords {
		if strings.HasPrefix(trimmed, kw.Name) {
			return UTF16Len(line[:len(line)-len(trimmed)]) + len(kw.Name)
		}
	}
	return -1
}
