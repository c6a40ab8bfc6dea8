package impex

import "unicode/utf8"

// RuneUTF16Len returns the number of UTF-16 code units encoding r.
func RuneUTF16Len(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}

// UTF16Len returns the length of s in UTF-16 code units.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += RuneUTF16Len(r)
	}
	return n
}

// RuneToUTF16 converts a rune index within s into a UTF-16 offset.
// Indexes past the end clamp to the end of s.
func RuneToUTF16(s string, runes int) int {
	u16 := 0
	i := 0
	for _, r := range s {
		if i >= runes {
			break
		}
		u16 += RuneUTF16Len(r)
		i++
	}
	return u16
}

// ByteIndex converts a UTF-16 offset within s into a byte index, clamped to
// s. An offset inside a surrogate pair maps past the rune that contains it.
func ByteIndex(s string, u16 int) int {
	if u16 <= 0 {
		return 0
	}
	seen := 0
	for i, r := range s {
		if seen >= u16 {
			return i
		}
		seen += RuneUTF16Len(r)
	}
	return len(s)
}

// UTF16ToRune converts a UTF-16 offset within s into a rune index.
// An offset inside a surrogate pair maps to the rune that contains it.
func UTF16ToRune(s string, u16 int) int {
	n := 0
	i := 0
	for _, r := range s {
		if n >= u16 {
			break
		}
		n += RuneUTF16Len(r)
		i++
	}
	if n > u16 {
		i--
	}
	return i
}

// byteOffset converts a position into a byte offset within text, clamping
// lines past the end to len(text) and characters past the line end to the
// line end.
func byteOffset(starts []int, text string, p Position) int {
	if p.Line < 0 {
		return 0
	}
	if p.Line >= len(starts) {
		return len(text)
	}
	i := starts[p.Line]
	need := p.Character
	for i < len(text) && need > 0 {
		r, sz := utf8.DecodeRuneInString(text[i:])
		if r == '\n' || r == '\r' {
			break
		}
		need -= RuneUTF16Len(r)
		i += sz
	}
	return i
}
