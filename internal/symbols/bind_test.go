package symbols

import (
	"testing"

	"chert/internal/ast"
	"chert/internal/diag"
	"chert/internal/parser"
	"chert/internal/source"
	"chert/internal/types"
)

// bindSources parses and binds a set of named sources, returning the
// table and the semantic diagnostics.
func bindSources(t *testing.T, sources map[string]string, opts BindOptions) (*Table, *diag.Bag) {
	t.Helper()
	fset := source.NewFileSet()
	units := make(map[string]*ast.SourceUnit, len(sources))
	parseBag := diag.NewBag(64)
	for p, text := range sources {
		id := fset.AddVirtual(p, []byte(text))
		unit := parser.ParseFile(fset.Get(id), p, parser.Options{Reporter: diag.BagReporter{Bag: parseBag}})
		units[p] = unit
	}
	if parseBag.Len() != 0 {
		t.Fatalf("unexpected parse diagnostics: %v", parseBag.Items())
	}

	bag := diag.NewBag(64)
	if opts.Reporter == nil {
		opts.Reporter = diag.BagReporter{Bag: bag}
	}
	return Bind(fset, units, opts), bag
}

func codesOf(bag *diag.Bag) []diag.Code {
	codes := make([]diag.Code, 0, bag.Len())
	for _, d := range bag.Items() {
		codes = append(codes, d.Code)
	}
	return codes
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestBindDeclaresTopLevel(t *testing.T) {
	table, bag := bindSources(t, map[string]string{
		"main.ch": `
uint supply = 100;
struct Point { uint x; uint y; }
contract Counter { uint count; uint get() { return count; } }
uint add(uint a, uint b) { return a + b; }
`,
	}, BindOptions{})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	u := table.Unit("main.ch")
	if u == nil {
		t.Fatalf("missing unit")
	}
	for _, name := range []string{"supply", "Point", "Counter", "add"} {
		if len(u.Lookup(name)) == 0 {
			t.Fatalf("expected %s to be declared", name)
		}
	}

	pt := u.Lookup("Point")[0]
	if pt.Kind != KindStruct || pt.Members.Len() != 2 {
		t.Fatalf("struct bound wrong: kind=%v members=%d", pt.Kind, pt.Members.Len())
	}
	if info, ok := table.Types.StructInfo(pt.Type); !ok || len(info.Fields) != 2 {
		t.Fatalf("struct type info missing fields")
	}

	cnt := u.Lookup("Counter")[0]
	get := cnt.Members.Named("get")
	if len(get) != 1 || get[0].Kind != KindFunc || get[0].Owner != cnt {
		t.Fatalf("member function bound wrong: %+v", get)
	}
}

func TestBindAllowsOverloads(t *testing.T) {
	table, bag := bindSources(t, map[string]string{
		"main.ch": `
uint add(uint a, uint b) { return a + b; }
uint add(uint a) { return a; }
`,
	}, BindOptions{})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	ds := table.Unit("main.ch").Lookup("add")
	if len(ds) != 2 {
		t.Fatalf("expected 2 overloads, got %d", len(ds))
	}
	if table.Types.SameParams(ds[0].Type, ds[1].Type) {
		t.Fatalf("overloads must differ by parameters")
	}
}

func TestBindDuplicateReported(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"var", "uint x = 1;\nuint x = 2;\n"},
		{"sameSignature", "uint f(uint a) { return a; }\nuint f(uint b) { return b; }\n"},
		{"varVsStruct", "struct P { uint x; }\nuint P = 1;\n"},
		{"field", "struct P { uint x; uint x; }\n"},
		{"param", "uint f(uint a, uint a) { return a; }\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, bag := bindSources(t, map[string]string{"main.ch": c.src}, BindOptions{})
			if !hasCode(bag, diag.SemaDuplicateSymbol) {
				t.Fatalf("expected SemaDuplicateSymbol, got %v", codesOf(bag))
			}
			d := bag.Items()[0]
			if len(d.Notes) == 0 {
				t.Fatalf("duplicate diagnostic should carry a previous-declaration note")
			}
		})
	}
}

func TestBindPlainImportMerges(t *testing.T) {
	table, bag := bindSources(t, map[string]string{
		"lib/geo.ch": "struct Point { uint x; uint y; }\nPoint origin() { return Point(0, 0); }\n",
		"main.ch":    "import \"lib/geo.ch\";\nPoint p = origin();\n",
	}, BindOptions{})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	u := table.Unit("main.ch")
	pt := u.Lookup("Point")
	if len(pt) != 1 || pt[0].UnitPath != "lib/geo.ch" {
		t.Fatalf("merged struct should resolve to the origin unit, got %+v", pt)
	}
	if len(u.Lookup("origin")) != 1 {
		t.Fatalf("merged function should be visible")
	}
	// merges are not re-exported
	if len(u.Exports()) != 1 {
		t.Fatalf("exports must list own declarations only, got %d", len(u.Exports()))
	}
}

func TestBindAliasImport(t *testing.T) {
	table, bag := bindSources(t, map[string]string{
		"lib/geo.ch": "struct Point { uint x; uint y; }\n",
		"main.ch":    "import \"lib/geo.ch\" as geo;\ngeo.Point p;\n",
	}, BindOptions{})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	u := table.Unit("main.ch")
	mods := u.Lookup("geo")
	if len(mods) != 1 || mods[0].Kind != KindModule {
		t.Fatalf("alias should bind a module symbol, got %+v", mods)
	}
	// alias does not merge the target's names
	if len(u.Lookup("Point")) != 0 {
		t.Fatalf("alias import must not merge declarations")
	}

	// the qualified type resolved to the struct in the target unit
	v := table.Unit("main.ch").Exports()
	var bound *Decl
	for _, d := range v {
		if d.Kind == KindVar {
			bound = d
		}
	}
	if bound == nil || table.Types.KindOf(bound.Type) != types.KindStruct {
		t.Fatalf("qualified type did not resolve, got %+v", bound)
	}
}

func TestBindRelativeAndRemappedImports(t *testing.T) {
	table, bag := bindSources(t, map[string]string{
		"lib/geo.ch":  "struct Point { uint x; }\n",
		"lib/main.ch": "import \"./geo.ch\";\nPoint p;\n",
		"app.ch":      "import \"@lib/geo.ch\" as geo;\n",
	}, BindOptions{Remappings: []string{"@lib/=lib/"}})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	if len(table.Unit("lib/main.ch").Lookup("Point")) != 1 {
		t.Fatalf("relative import did not resolve")
	}
	mods := table.Unit("app.ch").Lookup("geo")
	if len(mods) != 1 {
		t.Fatalf("remapped import did not resolve")
	}
	info, ok := table.Types.ModuleInfo(mods[0].Type)
	if !ok || info.Unit != "lib/geo.ch" {
		t.Fatalf("remapped module target wrong: %+v", info)
	}
}

func TestBindImportNotFound(t *testing.T) {
	_, bag := bindSources(t, map[string]string{
		"main.ch": "import \"missing.ch\";\n",
	}, BindOptions{})
	if !hasCode(bag, diag.SemaImportNotFound) {
		t.Fatalf("expected SemaImportNotFound, got %v", codesOf(bag))
	}
}

func TestBindImportCycle(t *testing.T) {
	_, bag := bindSources(t, map[string]string{
		"a.ch": "import \"b.ch\";\nuint fromA = 1;\n",
		"b.ch": "import \"a.ch\";\nuint fromB = 2;\n",
	}, BindOptions{})
	if !hasCode(bag, diag.SemaImportCycle) {
		t.Fatalf("expected SemaImportCycle, got %v", codesOf(bag))
	}
}

func TestBindUnknownTypeReported(t *testing.T) {
	_, bag := bindSources(t, map[string]string{
		"main.ch": "Missing v;\n",
	}, BindOptions{})
	if !hasCode(bag, diag.SemaUnresolvedSymbol) {
		t.Fatalf("expected SemaUnresolvedSymbol, got %v", codesOf(bag))
	}
}

func TestBindNotAModule(t *testing.T) {
	_, bag := bindSources(t, map[string]string{
		"main.ch": "uint q = 1;\nq.Point v;\n",
	}, BindOptions{})
	if !hasCode(bag, diag.SemaNotAModule) {
		t.Fatalf("expected SemaNotAModule, got %v", codesOf(bag))
	}
}

func TestBindVoidVariableRejected(t *testing.T) {
	_, bag := bindSources(t, map[string]string{
		"main.ch": "void v = 1;\n",
	}, BindOptions{})
	if !hasCode(bag, diag.SemaVoidValue) {
		t.Fatalf("expected SemaVoidValue, got %v", codesOf(bag))
	}
}
