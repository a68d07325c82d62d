package lexer

import (
	"testing"

	"chert/internal/source"
)

func newTestCursor(t *testing.T, text string) Cursor {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("cursor.ch", []byte(text))
	return NewCursor(fs.Get(id))
}

func TestCursorPeekBump(t *testing.T) {
	c := newTestCursor(t, "ab")

	if c.Peek() != 'a' {
		t.Fatalf("expected peek 'a', got %q", c.Peek())
	}
	if c.Bump() != 'a' || c.Bump() != 'b' {
		t.Fatalf("bump order wrong")
	}
	if !c.EOF() {
		t.Fatalf("expected EOF after consuming everything")
	}
	if c.Peek() != 0 || c.Bump() != 0 {
		t.Fatalf("peek/bump at EOF must return 0")
	}
}

func TestCursorMarkSpanReset(t *testing.T) {
	c := newTestCursor(t, "hello")

	m := c.Mark()
	c.Bump()
	c.Bump()
	sp := c.SpanFrom(m)
	if sp.Start != 0 || sp.End != 2 {
		t.Fatalf("expected span 0-2, got %d-%d", sp.Start, sp.End)
	}

	c.Reset(m)
	if c.Off != 0 {
		t.Fatalf("expected reset to offset 0, got %d", c.Off)
	}
}

func TestCursorEat(t *testing.T) {
	c := newTestCursor(t, "=x")

	if !c.Eat('=') {
		t.Fatalf("expected to eat '='")
	}
	if c.Eat('=') {
		t.Fatalf("must not eat byte that does not match")
	}
	if c.Peek() != 'x' {
		t.Fatalf("failed eat must not advance")
	}
}
