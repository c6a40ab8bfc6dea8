package lsp

import (
	"encoding/json"
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/zjrosen/impexls/internal/impex"
)

// SettingsSection is the key clients nest impexls settings under.
const SettingsSection = "impexls"

// Settings are the client-side options accepted in initializationOptions
// and workspace/didChangeConfiguration. Unset fields keep their value.
type Settings struct {
	Delimiter      string   `json:"delimiter,omitempty"`
	CommentMarkers []string `json:"commentMarkers,omitempty"`
	FilterComments *bool    `json:"filterComments,omitempty"`
	Lookahead      *int     `json:"lookahead,omitempty"`
}

// parseSettings accepts both {"impexls": {...}} and the bare section.
func parseSettings(raw json.RawMessage) (Settings, error) {
	var st Settings
	if len(raw) == 0 || string(raw) == "null" {
		return st, nil
	}
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return st, fmt.Errorf("decoding settings: %w", err)
	}
	if inner, ok := wrapped[SettingsSection]; ok {
		raw = inner
	}
	if err := json.Unmarshal(raw, &st); err != nil {
		return st, fmt.Errorf("decoding %s settings: %w", SettingsSection, err)
	}
	return st, nil
}

func (st Settings) empty() bool {
	return st.Delimiter == "" && st.CommentMarkers == nil && st.FilterComments == nil && st.Lookahead == nil
}

// apply overlays st on opts.
func (st Settings) apply(opts impex.Options) (impex.Options, error) {
	if st.Delimiter != "" {
		r, size := utf8.DecodeRuneInString(st.Delimiter)
		if r == utf8.RuneError || size != len(st.Delimiter) {
			return opts, fmt.Errorf("delimiter must be a single character, got %q", st.Delimiter)
		}
		opts.Delimiter = r
	}
	if st.CommentMarkers != nil {
		opts.CommentMarkers = slices.Clone(st.CommentMarkers)
	}
	if st.FilterComments != nil {
		opts.FilterComments = *st.FilterComments
	}
	if st.Lookahead != nil {
		if *st.Lookahead < 0 || *st.Lookahead > impex.MaxLookahead {
			return opts, fmt.Errorf("lookahead must be between 0 and %d, got %d", impex.MaxLookahead, *st.Lookahead)
		}
		opts.Lookahead = *st.Lookahead
	}
	return opts, nil
}
