package sema

import (
	"strings"
	"testing"

	"chert/internal/ast"
	"chert/internal/diag"
	"chert/internal/parser"
	"chert/internal/source"
	"chert/internal/symbols"
	"chert/internal/types"
)

// checkSources parses, binds and checks a set of named sources. Parse
// and bind diagnostics must be clean; the returned bag holds only what
// the checker reported.
func checkSources(t *testing.T, sources map[string]string, lints Lints) (*source.FileSet, *Result, *diag.Bag) {
	t.Helper()
	fset := source.NewFileSet()
	units := make(map[string]*ast.SourceUnit, len(sources))
	parseBag := diag.NewBag(64)
	for p, text := range sources {
		id := fset.AddVirtual(p, []byte(text))
		units[p] = parser.ParseFile(fset.Get(id), p, parser.Options{Reporter: diag.BagReporter{Bag: parseBag}})
	}
	if parseBag.Len() != 0 {
		t.Fatalf("unexpected parse diagnostics: %v", parseBag.Items())
	}

	bindBag := diag.NewBag(64)
	table := symbols.Bind(fset, units, symbols.BindOptions{Reporter: diag.BagReporter{Bag: bindBag}})
	if bindBag.Len() != 0 {
		t.Fatalf("unexpected bind diagnostics: %v", bindBag.Items())
	}

	bag := diag.NewBag(64)
	res := Check(fset, table, Options{Reporter: diag.BagReporter{Bag: bag}, Lints: lints})
	return fset, res, bag
}

// nodeAt finds the smallest node at the first occurrence of needle.
func nodeAt(t *testing.T, fset *source.FileSet, res *Result, path, needle string) ast.Node {
	t.Helper()
	f, ok := fset.GetByPath(path)
	if !ok {
		t.Fatalf("no file %q", path)
	}
	off := strings.Index(string(f.Content), needle)
	if off < 0 {
		t.Fatalf("needle %q not found in %s", needle, path)
	}
	u := res.Table.Unit(path)
	if u == nil {
		t.Fatalf("no unit %q", path)
	}
	n := ast.NodeAt(u.Ast, uint32(off))
	if n == nil {
		t.Fatalf("no node at %q", needle)
	}
	return n
}

func identAt(t *testing.T, fset *source.FileSet, res *Result, path, needle string) *ast.Ident {
	t.Helper()
	n := nodeAt(t, fset, res, path, needle)
	id, ok := n.(*ast.Ident)
	if !ok {
		t.Fatalf("node at %q is %T, want *ast.Ident", needle, n)
	}
	return id
}

func countCode(bag *diag.Bag, code diag.Code) int {
	n := 0
	for _, d := range bag.Items() {
		if d.Code == code {
			n++
		}
	}
	return n
}

func TestCheckCleanProgram(t *testing.T) {
	_, _, bag := checkSources(t, map[string]string{
		"main.ch": `
uint supply = 100;

struct Point { int x; int y; }

uint add(uint a, uint b) { return a + b; }
int add(int a, int b) { return a + b; }

contract Counter {
	uint count = 0;
	uint bump() { count = count + 1; return count; }
	uint bump(uint by) { count = count + by; return count; }
}

uint run(uint n) {
	uint total = add(supply, n);
	Point p = Point(1, 2);
	p.x = p.y + 1;
	if (total > 10) {
		return total;
	}
	while (total < 10) {
		total = total + 1;
	}
	return total + 0;
}
`,
	}, Lints{})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestParamAndLocalResolution(t *testing.T) {
	fset, res, bag := checkSources(t, map[string]string{
		"main.ch": `
uint double(uint v) {
	uint twice = v + v;
	return twice;
}
`,
	}, Lints{})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	use := identAt(t, fset, res, "main.ch", "v + v")
	d := res.Uses[use]
	if d == nil || d.Kind != symbols.KindParam || d.Name != "v" {
		t.Fatalf("v resolved to %+v", d)
	}

	ret := identAt(t, fset, res, "main.ch", "twice;")
	ld := res.Uses[ret]
	if ld == nil || ld.Kind != symbols.KindLocal {
		t.Fatalf("twice resolved to %+v", ld)
	}
	if ld.NameSpan.Start >= use.Sp.Start {
		t.Fatalf("local declared after use: %v", ld.NameSpan)
	}
}

func TestOverloadExactMatch(t *testing.T) {
	fset, res, bag := checkSources(t, map[string]string{
		"main.ch": `
int add(int v) { return v; }
uint add(uint v) { return v; }
uint run(uint n) { return add(n); }
`,
	}, Lints{})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	callee := identAt(t, fset, res, "main.ch", "add(n)")
	d := res.Uses[callee]
	if d == nil || d.Kind != symbols.KindFunc {
		t.Fatalf("callee resolved to %+v", d)
	}
	if got := len(res.Candidates[callee]); got != 0 {
		t.Fatalf("exact match recorded %d candidates", got)
	}
	// the uint overload is declared second
	ds := res.DeclsForIdent(callee)
	if len(ds) != 1 || ds[0] != d {
		t.Fatalf("DeclsForIdent = %v", ds)
	}
}

func TestOverloadAmbiguousLiteral(t *testing.T) {
	fset, res, bag := checkSources(t, map[string]string{
		"main.ch": `
int add(int v) { return v; }
uint add(uint v) { return v; }
void run() { add(1); }
`,
	}, Lints{})
	if countCode(bag, diag.SemaAmbiguousCall) != 1 {
		t.Fatalf("want one ambiguous call, got %v", bag.Items())
	}

	callee := identAt(t, fset, res, "main.ch", "add(1)")
	cands := res.Candidates[callee]
	if len(cands) != 2 {
		t.Fatalf("want 2 candidates, got %d", len(cands))
	}
	if res.Uses[callee] != cands[0] {
		t.Fatalf("primary is not the first candidate")
	}
	// declaration order: the int overload comes first
	first, _ := res.Table.Types.FnInfo(cands[0].Type)
	if first == nil || res.Table.Types.KindOf(first.Result) != types.KindInt {
		t.Fatalf("candidates out of declaration order")
	}
}

func TestOverloadNoMatch(t *testing.T) {
	fset, res, bag := checkSources(t, map[string]string{
		"main.ch": `
int add(int v) { return v; }
uint add(uint v) { return v; }
void run() { add(true); }
`,
	}, Lints{})
	if countCode(bag, diag.SemaNoMatchingOverload) != 1 {
		t.Fatalf("want one no-match report, got %v", bag.Items())
	}
	for _, d := range bag.Items() {
		if d.Code == diag.SemaNoMatchingOverload && len(d.Notes) != 2 {
			t.Fatalf("want a candidate note per overload, got %d", len(d.Notes))
		}
	}

	callee := identAt(t, fset, res, "main.ch", "add(true)")
	if res.Uses[callee] != nil {
		t.Fatalf("no-match call should not record a primary")
	}
	if len(res.Candidates[callee]) != 2 {
		t.Fatalf("no-match call should keep candidates navigable")
	}
}

func TestStructConstructorAndMembers(t *testing.T) {
	fset, res, bag := checkSources(t, map[string]string{
		"main.ch": `
struct Point { int x; int y; }
int run() {
	Point p = Point(1, 2);
	p.x = 3;
	return p.y;
}
`,
	}, Lints{})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	ctor := identAt(t, fset, res, "main.ch", "Point(1")
	if d := res.Uses[ctor]; d == nil || d.Kind != symbols.KindStruct {
		t.Fatalf("constructor resolved to %+v", d)
	}

	n := nodeAt(t, fset, res, "main.ch", ".y;")
	m, ok := n.(*ast.MemberExpr)
	if !ok {
		t.Fatalf("node at member name is %T", n)
	}
	fd := res.MemberRefs[m]
	if fd == nil || fd.Kind != symbols.KindField || fd.Name != "y" {
		t.Fatalf("member resolved to %+v", fd)
	}
	if fd.Owner == nil || fd.Owner.Name != "Point" {
		t.Fatalf("field owner = %+v", fd.Owner)
	}
}

func TestConstructorMismatch(t *testing.T) {
	_, _, bag := checkSources(t, map[string]string{
		"main.ch": `
struct Point { int x; int y; }
void run() { Point p = Point(1); p.x = 1; }
`,
	}, Lints{})
	if countCode(bag, diag.SemaNoMatchingOverload) != 1 {
		t.Fatalf("want constructor mismatch, got %v", bag.Items())
	}
	// recovery keeps the value typed: no cascade on p.x
	if countCode(bag, diag.SemaUnknownMember) != 0 {
		t.Fatalf("constructor failure poisoned the value: %v", bag.Items())
	}
}

func TestImportedFunctionResolution(t *testing.T) {
	fset, res, bag := checkSources(t, map[string]string{
		"lib/util.ch": `uint twice(uint v) { return v + v; }`,
		"main.ch": `
import "lib/util.ch";
uint run(uint n) { return twice(n); }
`,
	}, Lints{})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	callee := identAt(t, fset, res, "main.ch", "twice(n)")
	d := res.Uses[callee]
	if d == nil || d.UnitPath != "lib/util.ch" {
		t.Fatalf("merged function resolved to %+v", d)
	}
}

func TestModuleMemberCall(t *testing.T) {
	fset, res, bag := checkSources(t, map[string]string{
		"lib/geo.ch": `
struct Point { int x; int y; }
Point origin() { return Point(0, 0); }
`,
		"main.ch": `
import "lib/geo.ch" as geo;
geo.Point start() { return geo.origin(); }
`,
	}, Lints{})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	n := nodeAt(t, fset, res, "main.ch", "origin()")
	m, ok := n.(*ast.MemberExpr)
	if !ok {
		t.Fatalf("node at call is %T", n)
	}
	d := res.MemberRefs[m]
	if d == nil || d.Kind != symbols.KindFunc || d.UnitPath != "lib/geo.ch" {
		t.Fatalf("module member resolved to %+v", d)
	}

	alias := identAt(t, fset, res, "main.ch", "geo.origin")
	if ad := res.Uses[alias]; ad == nil || ad.Kind != symbols.KindModule {
		t.Fatalf("alias resolved to %+v", res.Uses[alias])
	}
}

func TestTypeMismatchOnInitAndAssign(t *testing.T) {
	_, _, bag := checkSources(t, map[string]string{
		"main.ch": `
uint supply = 100;
void run() {
	uint x = true;
	x = "nope";
	supply = x;
}
`,
	}, Lints{})
	if got := countCode(bag, diag.SemaTypeMismatch); got != 2 {
		t.Fatalf("want 2 mismatches, got %d: %v", got, bag.Items())
	}
}

func TestConditionMustBeBool(t *testing.T) {
	_, _, bag := checkSources(t, map[string]string{
		"main.ch": `
void run(uint n) {
	if (n) { }
	while ("x") { }
}
`,
	}, Lints{})
	if got := countCode(bag, diag.SemaCondNotBool); got != 2 {
		t.Fatalf("want 2 condition reports, got %d: %v", got, bag.Items())
	}
}

func TestMissingReturnWarning(t *testing.T) {
	fset, _, bag := checkSources(t, map[string]string{
		"main.ch": `
uint open(uint n) {
	if (n > 0) { return n; }
}
uint closed(uint n) {
	if (n > 0) { return n; } else { return 0; }
}
void quiet() { }
`,
	}, Lints{})
	if got := countCode(bag, diag.SemaMissingReturn); got != 1 {
		t.Fatalf("want 1 missing-return warning, got %d: %v", got, bag.Items())
	}
	for _, d := range bag.Items() {
		if d.Code != diag.SemaMissingReturn {
			continue
		}
		if d.Severity != diag.SevWarning {
			t.Fatalf("missing return must be a warning, got %v", d.Severity)
		}
		f, _ := fset.GetByPath("main.ch")
		if got := string(f.Content[d.Primary.Start:d.Primary.End]); got != "open" {
			t.Fatalf("warning points at %q", got)
		}
	}
}

func TestReturnValueChecks(t *testing.T) {
	_, _, bag := checkSources(t, map[string]string{
		"main.ch": `
uint bad() { return true; }
void noisy() { return 1; }
uint empty() { return; }
`,
	}, Lints{})
	if got := countCode(bag, diag.SemaTypeMismatch); got != 3 {
		t.Fatalf("want 3 return reports, got %d: %v", got, bag.Items())
	}
}

func TestVoidValueRejected(t *testing.T) {
	_, _, bag := checkSources(t, map[string]string{
		"main.ch": `
void ping() { }
void run() {
	uint x = ping();
	x = 1 + ping();
	ping();
}
`,
	}, Lints{})
	if got := countCode(bag, diag.SemaVoidValue); got != 2 {
		t.Fatalf("want 2 void-value reports, got %d: %v", got, bag.Items())
	}
}

func TestNotCallable(t *testing.T) {
	_, _, bag := checkSources(t, map[string]string{
		"main.ch": `
uint n = 4;
contract Vault { }
void run() {
	n();
	Vault();
}
`,
	}, Lints{})
	if got := countCode(bag, diag.SemaNotCallable); got != 2 {
		t.Fatalf("want 2 not-callable reports, got %d: %v", got, bag.Items())
	}
}

func TestNotAssignable(t *testing.T) {
	_, _, bag := checkSources(t, map[string]string{
		"main.ch": `
uint ten() { return 10; }
void run() { ten = 5; }
`,
	}, Lints{})
	if got := countCode(bag, diag.SemaNotAssignable); got != 1 {
		t.Fatalf("want 1 not-assignable report, got %d: %v", got, bag.Items())
	}
}

func TestUnknownMemberReported(t *testing.T) {
	_, _, bag := checkSources(t, map[string]string{
		"main.ch": `
struct Point { int x; }
void run(Point p) {
	p.z = 1;
	int a = 1;
	a = p.x;
}
`,
	}, Lints{})
	if got := countCode(bag, diag.SemaUnknownMember); got != 1 {
		t.Fatalf("want 1 unknown-member report, got %d: %v", got, bag.Items())
	}
}

func TestUnusedLocalLint(t *testing.T) {
	src := map[string]string{
		"main.ch": `
void run() {
	uint x = 1;
	uint y = 2;
	y = y + 1;
}
`,
	}

	_, _, off := checkSources(t, src, Lints{})
	if off.Len() != 0 {
		t.Fatalf("lints fired while disabled: %v", off.Items())
	}

	fset, _, bag := checkSources(t, src, Lints{UnusedLocals: true})
	if got := countCode(bag, diag.SemaUnusedLocal); got != 1 {
		t.Fatalf("want 1 unused local, got %d: %v", got, bag.Items())
	}
	// the fix removes the whole statement, semicolon included
	f, _ := fset.GetByPath("main.ch")
	for _, d := range bag.Items() {
		if d.Code != diag.SemaUnusedLocal || len(d.Fixes) == 0 {
			continue
		}
		edit := d.Fixes[0].Edits[0]
		got := string(f.Content[edit.Span.Start:edit.Span.End])
		if !strings.HasSuffix(got, ";") {
			t.Fatalf("fix span %q does not cover the semicolon", got)
		}
		break
	}
}

func TestShadowLint(t *testing.T) {
	src := map[string]string{
		"main.ch": `
uint f(uint x) {
	{
		uint x = 2;
		return x;
	}
}
`,
	}

	_, _, off := checkSources(t, src, Lints{})
	if off.Len() != 0 {
		t.Fatalf("lints fired while disabled: %v", off.Items())
	}

	_, _, bag := checkSources(t, src, Lints{ShadowedDecls: true})
	if got := countCode(bag, diag.SemaShadowedDecl); got != 1 {
		t.Fatalf("want 1 shadow warning, got %d: %v", got, bag.Items())
	}
	for _, d := range bag.Items() {
		if d.Code == diag.SemaShadowedDecl && len(d.Notes) != 1 {
			t.Fatalf("shadow warning needs the shadowed site note")
		}
	}
}

func TestDuplicateLocalReported(t *testing.T) {
	_, _, bag := checkSources(t, map[string]string{
		"main.ch": `
void run() {
	uint x = 1;
	uint x = 2;
	x = x + 1;
}
`,
	}, Lints{})
	if got := countCode(bag, diag.SemaDuplicateSymbol); got != 1 {
		t.Fatalf("want 1 duplicate report, got %d: %v", got, bag.Items())
	}
}

func TestExprTypesRecorded(t *testing.T) {
	_, res, bag := checkSources(t, map[string]string{
		"main.ch": `
uint add(uint a, uint b) { return a + b; }
uint run(uint n) { return add(n, 2); }
`,
	}, Lints{})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	u := res.Table.Unit("main.ch")
	var call *ast.CallExpr
	ast.Inspect(u.Ast, func(n ast.Node) bool {
		if c, ok := n.(*ast.CallExpr); ok {
			call = c
		}
		return true
	})
	if call == nil {
		t.Fatalf("no call expression found")
	}
	if got := res.ExprTypes[call]; got != res.Table.Types.Builtins().Uint {
		t.Fatalf("call typed as %v", got)
	}
}
