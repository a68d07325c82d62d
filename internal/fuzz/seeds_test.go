package fuzztests

import "testing"

const maxFuzzInput = 1 << 16 // 64 KiB

// languageSeeds covers the grammar surface: declarations, members,
// imports, doc lines, unicode identifiers and a few broken inputs.
var languageSeeds = []string{
	"",
	"uint total = 0;\n",
	"/// Running total.\nuint total = 0;\n",
	"uint add(uint a, uint b) {\n    return a + b;\n}\n",
	"struct Point { int x; int y; }\n",
	"contract Counter {\n    uint count;\n    uint get() { return count; }\n    void bump(uint by) { count = count + by; }\n}\n",
	"import \"lib.ch\";\nimport \"geo.ch\" as geo;\n",
	"string greeting = \"hi \\\"there\\\"\";\n",
	"uint π = 1;\n",
	"bool ok = 1 < 2;\n",
	"int x = \"unterminated",
	"uint = = ;;; } {",
}

func addCorpusSeeds(f *testing.F) {
	for _, seed := range languageSeeds {
		f.Add([]byte(seed))
	}
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
