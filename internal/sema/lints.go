package sema

import (
	"fmt"

	"chert/internal/diag"
	"chert/internal/source"
	"chert/internal/symbols"
)

// checkShadowing warns when a new local hides a declaration from an
// outer scope, the enclosing contract, or the unit's top level. Same
// scope collisions are duplicates, handled by the caller.
func (tc *typeChecker) checkShadowing(local *symbols.Decl) {
	if !tc.lints.ShadowedDecls {
		return
	}
	var prev *symbols.Decl
	for s := tc.scope.Parent; s != nil && prev == nil; s = s.Parent {
		if ds := s.Named(local.Name); len(ds) > 0 {
			prev = ds[0]
		}
	}
	if prev == nil && tc.owner != nil {
		if ds := tc.owner.Members.Named(local.Name); len(ds) > 0 {
			prev = ds[0]
		}
	}
	if prev == nil {
		if ds := tc.unit.Lookup(local.Name); len(ds) > 0 {
			prev = ds[0]
		}
	}
	if prev == nil {
		return
	}
	builder := diag.ReportWarning(tc.reporter, diag.SemaShadowedDecl, local.NameSpan,
		fmt.Sprintf("declaration of '%s' shadows an earlier declaration", local.Name))
	builder.WithNote(declNote(prev), "shadowed declaration here")
	builder.Emit()
}

// runFunctionLints fires once the whole body has been walked, so every
// read of every local is already recorded.
func (tc *typeChecker) runFunctionLints(fnScope *symbols.Scope) {
	if !tc.lints.UnusedLocals {
		return
	}
	tc.reportUnusedLocals(fnScope)
}

// reportUnusedLocals flags locals that are never read. Assignments do
// not count as reads.
func (tc *typeChecker) reportUnusedLocals(s *symbols.Scope) {
	for _, d := range s.Decls() {
		if d.Kind != symbols.KindLocal || tc.reads[d] {
			continue
		}
		builder := diag.ReportWarning(tc.reporter, diag.SemaUnusedLocal, d.NameSpan,
			fmt.Sprintf("local variable '%s' is never used", d.Name))
		builder.WithFix("remove unused local",
			diag.FixEdit{Span: tc.removalSpan(d.Span), NewText: ""})
		builder.Emit()
	}
	for _, c := range s.Children {
		tc.reportUnusedLocals(c)
	}
}

// removalSpan widens a declaration span through its trailing semicolon
// so the suggested fix removes the whole statement.
func (tc *typeChecker) removalSpan(sp source.Span) source.Span {
	if tc.fset == nil {
		return sp
	}
	f := tc.fset.Get(sp.File)
	if f == nil {
		return sp
	}
	end := sp.End
	for end < uint32(len(f.Content)) {
		c := f.Content[end]
		if c == ' ' || c == '\t' {
			end++
			continue
		}
		if c == ';' {
			end++
		}
		break
	}
	sp.End = end
	return sp
}
