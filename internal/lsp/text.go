package lsp

import "unicode/utf8"

// offsetForPositionInText is the string twin of offsetForPositionInFile,
// for edits that arrive against the live document buffer. Same rules:
// UTF-16 columns, column clamps to line end, missing line fails.
func offsetForPositionInText(text string, pos position) (int, bool) {
	if pos.Line < 0 || pos.Character < 0 {
		return 0, false
	}
	line := 0
	i := 0
	for i < len(text) && line < pos.Line {
		if text[i] == '\n' {
			line++
		}
		i++
	}
	if line < pos.Line {
		return 0, false
	}
	units := 0
	for i < len(text) && text[i] != '\n' {
		r, size := utf8.DecodeRuneInString(text[i:])
		need := 1
		if r > 0xFFFF {
			need = 2
		}
		if units+need > pos.Character {
			break
		}
		units += need
		i += size
		if units == pos.Character {
			break
		}
	}
	return i, true
}
