package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAddAndResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("main.ch", []byte("uint x = 1;\nuint y = 2;\n"))

	f := fs.Get(id)
	if f.Path != "main.ch" {
		t.Fatalf("expected path %q, got %q", "main.ch", f.Path)
	}
	if f.Flags&FileVirtual == 0 {
		t.Fatalf("expected virtual flag on %q", f.Path)
	}

	// "y" sits at offset 17, line 2 col 6
	start, end := fs.Resolve(Span{File: id, Start: 17, End: 18})
	if start.Line != 2 || start.Col != 6 {
		t.Fatalf("expected start 2:6, got %d:%d", start.Line, start.Col)
	}
	if end.Line != 2 || end.Col != 7 {
		t.Fatalf("expected end 2:7, got %d:%d", end.Line, end.Col)
	}
}

func TestAddVirtualNormalizes(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("crlf.ch", []byte{0xEF, 0xBB, 0xBF, 'a', '\r', '\n', 'b'})
	if got := string(fs.Get(id).Content); got != "a\nb" {
		t.Fatalf("expected normalized content %q, got %q", "a\nb", got)
	}
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lib.ch")
	if err := os.WriteFile(path, []byte("int a = 1;\r\nint b = 2;\r\n"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	f := fs.Get(id)
	if f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("expected CRLF normalization flag")
	}
	if string(f.Content) != "int a = 1;\nint b = 2;\n" {
		t.Fatalf("unexpected content after normalization: %q", string(f.Content))
	}
}

func TestGetByPathUsesLatestAdd(t *testing.T) {
	fs := NewFileSet()
	fs.AddVirtual("a.ch", []byte("old"))
	second := fs.AddVirtual("a.ch", []byte("new"))

	f, ok := fs.GetByPath("a.ch")
	if !ok {
		t.Fatalf("expected a.ch to be present")
	}
	if f.ID != second {
		t.Fatalf("expected latest id %d, got %d", second, f.ID)
	}
	if string(f.Content) != "new" {
		t.Fatalf("expected latest content, got %q", string(f.Content))
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("m.ch", []byte("first\nsecond\n\nlast"))
	f := fs.Get(id)

	cases := []struct {
		line uint32
		want string
	}{
		{1, "first"},
		{2, "second"},
		{3, ""},
		{4, "last"},
		{5, ""},
		{0, ""},
	}
	for _, tc := range cases {
		if got := f.GetLine(tc.line); got != tc.want {
			t.Fatalf("line %d: expected %q, got %q", tc.line, tc.want, got)
		}
	}
}

func TestFormatPathModes(t *testing.T) {
	f := &File{Path: "src/main.ch"}

	if got := f.FormatPath("basename", ""); got != "main.ch" {
		t.Fatalf("basename: expected %q, got %q", "main.ch", got)
	}
	if got := f.FormatPath("auto", ""); got != "src/main.ch" {
		t.Fatalf("auto must keep short relative paths, got %q", got)
	}
	if got := f.FormatPath("", ""); got != "src/main.ch" {
		t.Fatalf("unknown mode must fall through to the raw path, got %q", got)
	}
}
