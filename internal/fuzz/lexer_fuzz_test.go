package fuzztests

import (
	"testing"

	"chert/internal/diag"
	"chert/internal/lexer"
	"chert/internal/source"
	"chert/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(_ *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.ch", input))

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		for {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				break
			}
		}
	})
}
