package lsp

import (
	"reflect"
	"testing"
)

func TestSpliceReplacesRange(t *testing.T) {
	ds := NewDocumentStore()
	ds.Open("main.ch", "int a=1;")
	rng := lspRange{Start: position{Line: 0, Character: 4}, End: position{Line: 0, Character: 5}}
	if !ds.Splice("main.ch", rng, "bb") {
		t.Fatal("splice failed")
	}
	if got, _ := ds.Get("main.ch"); got != "int bb=1;" {
		t.Fatalf("got %q", got)
	}
}

func TestSpliceInsertsAtPoint(t *testing.T) {
	ds := NewDocumentStore()
	ds.Open("main.ch", "int a=1;")
	at := position{Line: 0, Character: 4}
	if !ds.Splice("main.ch", lspRange{Start: at, End: at}, "b") {
		t.Fatal("splice failed")
	}
	if got, _ := ds.Get("main.ch"); got != "int ba=1;" {
		t.Fatalf("got %q", got)
	}
}

// Each range resolves against the document as left by the previous
// edit, so the same two edits give different results in different
// orders.
func TestSpliceOrderMatters(t *testing.T) {
	first := spliceAt(position{Line: 0, Character: 0}, position{Line: 0, Character: 1}, "XX")
	second := spliceAt(position{Line: 0, Character: 3}, position{Line: 0, Character: 4}, "YY")

	forward := NewDocumentStore()
	forward.Open("main.ch", "abcdef")
	for _, e := range []textDocumentContentChangeEvent{first, second} {
		if !forward.Splice("main.ch", *e.Range, e.Text) {
			t.Fatal("splice failed")
		}
	}
	reversed := NewDocumentStore()
	reversed.Open("main.ch", "abcdef")
	for _, e := range []textDocumentContentChangeEvent{second, first} {
		if !reversed.Splice("main.ch", *e.Range, e.Text) {
			t.Fatal("splice failed")
		}
	}

	got1, _ := forward.Get("main.ch")
	got2, _ := reversed.Get("main.ch")
	if got1 != "XXbYYdef" {
		t.Fatalf("forward order: got %q", got1)
	}
	if got2 != "XXbcYYef" {
		t.Fatalf("reversed order: got %q", got2)
	}
	if got1 == got2 {
		t.Fatal("orders should disagree")
	}
}

func TestSpliceAcrossLines(t *testing.T) {
	ds := NewDocumentStore()
	ds.Open("main.ch", "ab\ncd")
	rng := lspRange{Start: position{Line: 0, Character: 1}, End: position{Line: 1, Character: 1}}
	if !ds.Splice("main.ch", rng, "-") {
		t.Fatal("splice failed")
	}
	if got, _ := ds.Get("main.ch"); got != "a-d" {
		t.Fatalf("got %q", got)
	}
}

func TestSpliceRejectsMissingLine(t *testing.T) {
	ds := NewDocumentStore()
	ds.Open("main.ch", "int a=1;")
	rng := lspRange{Start: position{Line: 5, Character: 0}, End: position{Line: 5, Character: 1}}
	if ds.Splice("main.ch", rng, "x") {
		t.Fatal("splice should fail past the last line")
	}
	if got, _ := ds.Get("main.ch"); got != "int a=1;" {
		t.Fatalf("document changed: %q", got)
	}
}

func TestSpliceSwappedEndpointsInsert(t *testing.T) {
	ds := NewDocumentStore()
	ds.Open("main.ch", "abcdef")
	rng := lspRange{Start: position{Line: 0, Character: 3}, End: position{Line: 0, Character: 1}}
	if !ds.Splice("main.ch", rng, "Z") {
		t.Fatal("splice failed")
	}
	if got, _ := ds.Get("main.ch"); got != "abcZdef" {
		t.Fatalf("got %q", got)
	}
}

func TestEditUntrackedDropped(t *testing.T) {
	ds := NewDocumentStore()
	if ds.Replace("ghost.ch", "x") {
		t.Fatal("replace of untracked path should fail")
	}
	if ds.Splice("ghost.ch", lspRange{}, "x") {
		t.Fatal("splice of untracked path should fail")
	}
	if ds.Len() != 0 {
		t.Fatalf("store grew to %d", ds.Len())
	}
}

func TestOpenOverwrites(t *testing.T) {
	ds := NewDocumentStore()
	ds.Open("main.ch", "old")
	ds.Open("main.ch", "new")
	if got, _ := ds.Get("main.ch"); got != "new" {
		t.Fatalf("got %q", got)
	}
	if ds.Len() != 1 {
		t.Fatalf("len %d", ds.Len())
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	ds := NewDocumentStore()
	ds.Open("main.ch", "text")
	snap := ds.Snapshot()
	snap["main.ch"] = "mutated"
	snap["other.ch"] = "new"
	if got, _ := ds.Get("main.ch"); got != "text" {
		t.Fatalf("store changed through snapshot: %q", got)
	}
	if ds.Len() != 1 {
		t.Fatalf("len %d", ds.Len())
	}
}

func TestPathsSorted(t *testing.T) {
	ds := NewDocumentStore()
	ds.Open("b.ch", "")
	ds.Open("a.ch", "")
	ds.Open("c.ch", "")
	want := []string{"a.ch", "b.ch", "c.ch"}
	if got := ds.Paths(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v", got)
	}
}
