package source

import "testing"

func TestSpanEmptyAndLen(t *testing.T) {
	s := Span{File: 0, Start: 3, End: 3}
	if !s.Empty() {
		t.Fatalf("expected span %v to be empty", s)
	}
	if s.Len() != 0 {
		t.Fatalf("expected zero length, got %d", s.Len())
	}

	s.End = 7
	if s.Empty() {
		t.Fatalf("expected span %v to be non-empty", s)
	}
	if s.Len() != 4 {
		t.Fatalf("expected length 4, got %d", s.Len())
	}
}

func TestSpanContains(t *testing.T) {
	s := Span{Start: 2, End: 5}

	for _, off := range []uint32{2, 3, 4} {
		if !s.Contains(off) {
			t.Fatalf("expected span to contain offset %d", off)
		}
	}
	for _, off := range []uint32{0, 1, 5, 6} {
		if s.Contains(off) {
			t.Fatalf("expected span not to contain offset %d", off)
		}
	}

	empty := Span{Start: 3, End: 3}
	if empty.Contains(3) {
		t.Fatalf("empty span must contain nothing")
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 6}
	b := Span{File: 1, Start: 2, End: 5}

	got := a.Cover(b)
	if got.Start != 2 || got.End != 6 {
		t.Fatalf("expected cover 2-6, got %d-%d", got.Start, got.End)
	}

	// covering a span from another file is a no-op
	c := Span{File: 2, Start: 0, End: 100}
	got = a.Cover(c)
	if got != a {
		t.Fatalf("cross-file cover must not change the span, got %v", got)
	}
}
