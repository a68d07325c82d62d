package diag

import (
	"testing"

	"chert/internal/source"
)

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	if !bag.Add(NewError(SynUnexpectedToken, source.Span{}, "one")) {
		t.Fatalf("first add must succeed")
	}
	if !bag.Add(NewError(SynUnexpectedToken, source.Span{}, "two")) {
		t.Fatalf("second add must succeed")
	}
	if bag.Add(NewError(SynUnexpectedToken, source.Span{}, "three")) {
		t.Fatalf("add past the limit must be dropped")
	}
	if bag.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", bag.Len())
	}
}

func TestBagHasErrorsAndWarnings(t *testing.T) {
	bag := NewBag(8)
	bag.Add(New(SevInfo, LexInfo, source.Span{}, "fyi"))
	if bag.HasWarnings() || bag.HasErrors() {
		t.Fatalf("info-only bag must report no warnings or errors")
	}

	bag.Add(NewWarning(SemaUnusedLocal, source.Span{}, "unused"))
	if !bag.HasWarnings() {
		t.Fatalf("expected HasWarnings after adding a warning")
	}
	if bag.HasErrors() {
		t.Fatalf("warning must not count as error")
	}

	bag.Add(NewError(SemaTypeMismatch, source.Span{}, "bad"))
	if !bag.HasErrors() {
		t.Fatalf("expected HasErrors after adding an error")
	}
}

func TestBagSortIsDeterministic(t *testing.T) {
	bag := NewBag(8)
	bag.Add(NewError(SemaTypeMismatch, source.Span{File: 1, Start: 5, End: 6}, "b"))
	bag.Add(NewError(SynUnexpectedToken, source.Span{File: 0, Start: 9, End: 10}, "a"))
	bag.Add(NewWarning(SemaUnusedLocal, source.Span{File: 0, Start: 9, End: 10}, "w"))
	bag.Sort()

	items := bag.Items()
	if items[0].Code != SynUnexpectedToken {
		t.Fatalf("expected file 0 error first, got %v", items[0].Code)
	}
	if items[1].Code != SemaUnusedLocal {
		t.Fatalf("same span orders by severity desc then code; got %v", items[1].Code)
	}
	if items[2].Primary.File != 1 {
		t.Fatalf("expected file 1 last, got file %d", items[2].Primary.File)
	}
}

func TestBagDedup(t *testing.T) {
	span := source.Span{File: 0, Start: 3, End: 7}
	bag := NewBag(8)
	bag.Add(NewError(SemaUnresolvedSymbol, span, "x"))
	bag.Add(NewError(SemaUnresolvedSymbol, span, "x again"))
	bag.Add(NewError(SemaUnresolvedSymbol, source.Span{File: 0, Start: 8, End: 9}, "y"))

	bag.Dedup()
	if bag.Len() != 2 {
		t.Fatalf("expected 2 after dedup, got %d", bag.Len())
	}
}

func TestReportBuilderEmitOnce(t *testing.T) {
	bag := NewBag(8)
	b := ReportError(BagReporter{Bag: bag}, SemaDuplicateSymbol, source.Span{Start: 1, End: 2}, "duplicate").
		WithNote(source.Span{Start: 10, End: 12}, "previous declaration is here")
	b.Emit()
	b.Emit()

	if bag.Len() != 1 {
		t.Fatalf("expected a single emission, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if len(d.Notes) != 1 || d.Notes[0].Msg != "previous declaration is here" {
		t.Fatalf("expected the note to survive emission, got %+v", d.Notes)
	}
}

func TestCodeIDRanges(t *testing.T) {
	cases := []struct {
		code Code
		want string
	}{
		{LexUnknownChar, "LEX1001"},
		{SynUnexpectedToken, "SYN2001"},
		{SemaDuplicateSymbol, "SEM3001"},
		{IOLoadFileError, "IO4001"},
		{UnknownCode, "E0000"},
	}
	for _, tc := range cases {
		if got := tc.code.ID(); got != tc.want {
			t.Fatalf("code %d: expected ID %q, got %q", tc.code, tc.want, got)
		}
	}
}
