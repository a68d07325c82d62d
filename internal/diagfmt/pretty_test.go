package diagfmt

import (
	"strings"
	"testing"

	"chert/internal/diag"
	"chert/internal/source"
)

// fixture adds one virtual file and returns its set plus a span over
// the first occurrence of needle.
func fixture(t *testing.T, path, content, needle string) (*source.FileSet, source.Span) {
	t.Helper()
	fset := source.NewFileSet()
	id := fset.AddVirtual(path, []byte(content))
	off := strings.Index(content, needle)
	if off < 0 {
		t.Fatalf("needle %q not found", needle)
	}
	return fset, source.Span{File: id, Start: uint32(off), End: uint32(off + len(needle))}
}

func TestPrettyHeaderAndUnderline(t *testing.T) {
	fset, sp := fixture(t, "main.ch",
		"uint run(uint n) {\n\tuint x = total;\n}\n", "total")
	bag := diag.NewBag(8)
	bag.Add(diag.NewError(diag.SemaUnresolvedSymbol, sp, "unknown name 'total'"))

	var out strings.Builder
	Pretty(&out, bag, fset, PrettyOpts{PathMode: PathModeBasename})
	got := out.String()

	if !strings.Contains(got, "main.ch:2:11: ERROR SEM3002: unknown name 'total'") {
		t.Errorf("missing header in:\n%s", got)
	}
	// Tab expands to four spaces in both the line and the underline pad.
	if !strings.Contains(got, "  2 |     uint x = total;\n") {
		t.Errorf("missing source line in:\n%s", got)
	}
	wantUnderline := "    | " + strings.Repeat(" ", len("    uint x = ")) + "^~~~~\n"
	if !strings.Contains(got, wantUnderline) {
		t.Errorf("missing underline %q in:\n%s", wantUnderline, got)
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	content := "int v = 1;\nint v = 2;\n"
	fset, sp := fixture(t, "dup.ch", content, "v = 2")
	first := uint32(strings.Index(content, "v = 1"))
	prev := source.Span{File: sp.File, Start: first, End: first + 1}
	sp.End = sp.Start + 1

	bag := diag.NewBag(8)
	bag.Add(diag.NewError(diag.SemaDuplicateSymbol, sp, "duplicate declaration of 'v'").
		WithNote(prev, "previous declaration here").
		WithFix("remove duplicate", diag.FixEdit{Span: sp, NewText: ""}))

	var out strings.Builder
	Pretty(&out, bag, fset, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true, ShowFixes: true})
	got := out.String()

	if !strings.Contains(got, "dup.ch:1:5: NOTE: previous declaration here") {
		t.Errorf("missing note header in:\n%s", got)
	}
	if !strings.Contains(got, "fix: remove duplicate") {
		t.Errorf("missing fix line in:\n%s", got)
	}
	if strings.Count(got, " | ") != 4 {
		t.Errorf("want two source blocks (4 gutter lines), got:\n%s", got)
	}
}

func TestPrettyNotesHiddenByDefault(t *testing.T) {
	fset, sp := fixture(t, "a.ch", "int q = 1;\n", "q")
	bag := diag.NewBag(8)
	bag.Add(diag.NewWarning(diag.SemaShadowedDecl, sp, "declaration of 'q' shadows an earlier declaration").
		WithNote(sp, "shadowed declaration here"))

	var out strings.Builder
	Pretty(&out, bag, fset, PrettyOpts{PathMode: PathModeBasename})
	if strings.Contains(out.String(), "NOTE") {
		t.Errorf("notes rendered despite ShowNotes=false:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "WARNING SEM3017") {
		t.Errorf("warning header missing:\n%s", out.String())
	}
}

func TestPrettyWideRuneAlignment(t *testing.T) {
	// Each CJK rune before the span is 3 bytes but 2 columns wide; the
	// underline pad must follow display width, not byte count.
	fset, sp := fixture(t, "w.ch", "string 宽名 = z;\n", "z")
	bag := diag.NewBag(8)
	bag.Add(diag.NewError(diag.SemaUnresolvedSymbol, sp, "unknown name 'z'"))

	var out strings.Builder
	Pretty(&out, bag, fset, PrettyOpts{PathMode: PathModeBasename})
	got := out.String()

	// "string " is 7 columns, the two wide runes are 2 each, " = " is 3.
	wantUnderline := "    | " + strings.Repeat(" ", 7+4+3) + "^\n"
	if !strings.Contains(got, wantUnderline) {
		t.Errorf("want underline %q in:\n%s", wantUnderline, got)
	}
}
