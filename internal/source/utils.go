package source

import (
	"path/filepath"
	"slices"
	"strings"
)

// normalizeCRLF replaces every \r\n with \n, leaving lone \r alone.
// The second result reports whether anything was replaced.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/24)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// With no newlines the whole file is one line.
	if len(lineIdx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	// Count newlines strictly before off; a '\n' belongs to the line
	// it terminates, the byte after it starts the next line.
	lo, hi := 0, len(lineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	line := lo

	var startOff uint32
	if line > 0 {
		startOff = lineIdx[line-1] + 1
	}

	return LineCol{Line: uint32(line + 1), Col: off - startOff + 1}
}

func normalizePath(p string) string {
	// one canonical form for cross-platform diffs and map keys
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath normalizes p to an absolute slash path.
func AbsolutePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath rewrites target relative to baseDir. Targets outside
// baseDir fall back to the absolute form instead of ../ chains.
func RelativePath(target, baseDir string) (string, error) {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return normalizePath(absTarget), nil
	}
	return normalizePath(rel), nil
}

// BaseName returns the final path element.
func BaseName(p string) string {
	return filepath.Base(p)
}
