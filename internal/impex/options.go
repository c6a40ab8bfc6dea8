package impex

import (
	"strings"
	"unicode"
)

// DefaultLookahead bounds how many lines below a header are scanned for
// continuation lines. It caps the cost of a single highlight request.
const DefaultLookahead = 30

// MaxLookahead is the largest lookahead settings may ask for.
const MaxLookahead = 10000

// DefaultDelimiter separates fields.
const DefaultDelimiter = ';'

// DefaultCommentMarker starts a comment line.
const DefaultCommentMarker = "#"

// Options controls how documents are indexed and highlighted.
type Options struct {
	Delimiter      rune
	CommentMarkers []string
	FilterComments bool
	Lookahead      int
}

// DefaultOptions returns the standard ImpEx settings.
func DefaultOptions() Options {
	return Options{
		Delimiter:      DefaultDelimiter,
		CommentMarkers: []string{DefaultCommentMarker},
		FilterComments: true,
		Lookahead:      DefaultLookahead,
	}
}

// normalized fills zero values with defaults.
func (o Options) normalized() Options {
	if o.Delimiter == 0 {
		o.Delimiter = DefaultDelimiter
	}
	if o.Lookahead <= 0 {
		o.Lookahead = DefaultLookahead
	}
	o.Lookahead = min(o.Lookahead, MaxLookahead)
	markers := make([]string, 0, len(o.CommentMarkers))
	for _, m := range o.CommentMarkers {
		if m != "" {
			markers = append(markers, m)
		}
	}
	o.CommentMarkers = markers
	return o
}

// IsComment reports whether line is a comment under o. Always false when
// the comment filter is off.
func (o Options) IsComment(line string) bool {
	if !o.FilterComments {
		return false
	}
	trimmed := trimLeft(line)
	for _, m := range o.CommentMarkers {
		if strings.HasPrefix(trimmed, m) {
			return true
		}
	}
	return false
}

func trimLeft(s string) string {
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}
