package fuzztests

import (
	"testing"
	"time"

	"chert/internal/diag"
	"chert/internal/parser"
	"chert/internal/source"
	"chert/internal/testkit"
)

// parseTimeout bounds one parse; exceeding it means the parser lost
// its forward-progress guarantee.
const parseTimeout = 5 * time.Second

func FuzzParserBuildsUnit(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		id := fs.AddVirtual("fuzz.ch", input)
		bag := diag.NewBag(128)
		unit := parser.ParseFile(fs.Get(id), "fuzz.ch", parser.Options{
			Reporter:  diag.BagReporter{Bag: bag},
			MaxErrors: 128,
		})
		if unit == nil {
			t.Fatalf("parser returned no unit")
		}
		if err := testkit.CheckSpanInvariants(unit, fs.Get(id)); err != nil {
			t.Fatalf("span invariant broken: %v", err)
		}
	})
}

func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)
	// inputs that stress error recovery
	f.Add([]byte("uint x = 1\nuint y = 2;"))
	f.Add([]byte("void f() { { { { } } } }"))
	f.Add([]byte("contract C { uint x"))
	f.Add([]byte("import \"a.ch\" as"))
	f.Add([]byte("((((((((("))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		done := make(chan struct{})
		go func() {
			defer close(done)
			fs := source.NewFileSet()
			id := fs.AddVirtual("fuzz.ch", input)
			bag := diag.NewBag(128)
			_ = parser.ParseFile(fs.Get(id), "fuzz.ch", parser.Options{
				Reporter:  diag.BagReporter{Bag: bag},
				MaxErrors: 128,
			})
		}()

		select {
		case <-done:
		case <-time.After(parseTimeout):
			t.Fatalf("parser hang: %d bytes %q", len(input), truncateForLog(input, 200))
		}
	})
}

func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
