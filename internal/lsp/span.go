package lsp

import (
	"sort"
	"unicode/utf8"

	"fortio.org/safecast"

	"chert/internal/source"
)

const maxUint32 = ^uint32(0)

func safeUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return maxUint32
	}
	return v
}

// offsetForPositionInFile maps a wire position onto a byte offset.
// The column counts UTF-16 units and clamps to the line end; a line
// past the end of the file fails. The two directions round-trip for
// every offset that starts a rune.
func offsetForPositionInFile(file *source.File, pos position) (uint32, bool) {
	if file == nil || pos.Line < 0 || pos.Character < 0 {
		return 0, false
	}
	if pos.Line > len(file.LineIdx) {
		return 0, false
	}
	content := file.Content
	var lineStart uint32
	if pos.Line > 0 {
		lineStart = file.LineIdx[pos.Line-1] + 1
	}
	lineEnd := safeUint32(len(content))
	if pos.Line < len(file.LineIdx) {
		lineEnd = file.LineIdx[pos.Line]
	}
	if lineStart > lineEnd {
		return lineEnd, true
	}
	units := 0
	off := lineStart
	for off < lineEnd {
		r, size := utf8.DecodeRune(content[off:lineEnd])
		need := 1
		if r > 0xFFFF {
			need = 2
		}
		if units+need > pos.Character {
			break
		}
		units += need
		off += safeUint32(size)
		if units == pos.Character {
			break
		}
	}
	return off, true
}

// positionForOffsetInFile maps a byte offset back onto a wire position.
// Offsets past the end clamp; the column is counted in UTF-16 units
// from the line start.
func positionForOffsetInFile(file *source.File, offset uint32) position {
	if file == nil {
		return position{}
	}
	if max := safeUint32(len(file.Content)); offset > max {
		offset = max
	}
	lineIdx := file.LineIdx
	line := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= offset })
	var lineStart uint32
	if line > 0 {
		lineStart = lineIdx[line-1] + 1
	}
	if lineStart > offset {
		lineStart = offset
	}
	units := 0
	for off := lineStart; off < offset; {
		r, size := utf8.DecodeRune(file.Content[off:offset])
		if off+safeUint32(size) > offset {
			break
		}
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
		off += safeUint32(size)
	}
	return position{Line: line, Character: units}
}

func rangeForSpan(file *source.File, span source.Span) lspRange {
	if file == nil {
		return lspRange{}
	}
	return lspRange{
		Start: positionForOffsetInFile(file, span.Start),
		End:   positionForOffsetInFile(file, span.End),
	}
}

// lineEndOffset returns the offset just past the last character of the
// line containing off, before its newline.
func lineEndOffset(file *source.File, off uint32) uint32 {
	idx := sort.Search(len(file.LineIdx), func(i int) bool { return file.LineIdx[i] >= off })
	if idx < len(file.LineIdx) {
		return file.LineIdx[idx]
	}
	return safeUint32(len(file.Content))
}
