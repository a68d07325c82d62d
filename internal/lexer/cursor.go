package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"chert/internal/source"
)

// Cursor is a byte position within a file's content.
type Cursor struct {
	File *source.File
	Off  uint32
}

// NewCursor creates a cursor at the start of the provided file.
func NewCursor(f *source.File) Cursor {
	if _, err := safecast.Conv[uint32](len(f.Content)); err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{File: f, Off: 0}
}

func (c *Cursor) limit() uint32 {
	return uint32(len(c.File.Content))
}

// EOF reports whether the cursor reached the end of the file.
func (c *Cursor) EOF() bool {
	return c.Off >= c.limit()
}

// Peek reads the current byte, or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// Peek2 reads the current and next byte, reporting whether both exist.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= c.limit() {
		return 0, 0, false
	}
	return c.File.Content[c.Off], c.File.Content[c.Off+1], true
}

// Bump advances one byte and returns what it consumed.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	return b
}

// Mark is a saved cursor position for building spans.
type Mark uint32

// Mark saves the current position.
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom builds the span from a mark to the current position.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{
		File:  c.File.ID,
		Start: uint32(m),
		End:   c.Off,
	}
}

// Reset rewinds the cursor to a mark.
func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}

// Eat consumes the next byte if it matches b.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.File.Content[c.Off] == b {
		c.Off++
		return true
	}
	return false
}
