package sema

import (
	"fmt"

	"chert/internal/ast"
	"chert/internal/diag"
	"chert/internal/source"
	"chert/internal/symbols"
	"chert/internal/types"
)

// Lints gates the advisory passes that run after type checking.
type Lints struct {
	UnusedLocals  bool
	ShadowedDecls bool
}

// Options configure a semantic pass over a bound source set.
type Options struct {
	Reporter diag.Reporter
	Lints    Lints
}

// Result stores the use-resolution side tables the session serves
// queries from. Keys are AST nodes owned by the snapshot.
type Result struct {
	Table *symbols.Table

	// Uses maps each resolved identifier to its primary declaration.
	// Identifiers that failed to resolve have no entry.
	Uses map[*ast.Ident]*symbols.Decl

	// Candidates holds the full candidate list for identifiers naming
	// an overload set, primary first when a primary exists. Uniquely
	// resolved identifiers have no entry.
	Candidates map[*ast.Ident][]*symbols.Decl

	// MemberRefs and MemberCandidates mirror Uses and Candidates for
	// member accesses, keyed by the access node.
	MemberRefs       map[*ast.MemberExpr]*symbols.Decl
	MemberCandidates map[*ast.MemberExpr][]*symbols.Decl

	// ExprTypes records the computed type of every checked expression.
	ExprTypes map[ast.Expr]types.TypeID
}

// DeclsForIdent returns every declaration an identifier can refer to,
// primary first.
func (r *Result) DeclsForIdent(id *ast.Ident) []*symbols.Decl {
	if ds := r.Candidates[id]; len(ds) > 0 {
		return ds
	}
	if d := r.Uses[id]; d != nil {
		return []*symbols.Decl{d}
	}
	return nil
}

// DeclsForMember returns every declaration a member access can refer
// to, primary first.
func (r *Result) DeclsForMember(m *ast.MemberExpr) []*symbols.Decl {
	if ds := r.MemberCandidates[m]; len(ds) > 0 {
		return ds
	}
	if d := r.MemberRefs[m]; d != nil {
		return []*symbols.Decl{d}
	}
	return nil
}

// Check type-checks every unit in the table and returns the populated
// side tables. It never fails: problems become diagnostics and the
// affected expressions type as unknown.
func Check(fset *source.FileSet, table *symbols.Table, opts Options) *Result {
	res := &Result{
		Table:            table,
		Uses:             make(map[*ast.Ident]*symbols.Decl),
		Candidates:       make(map[*ast.Ident][]*symbols.Decl),
		MemberRefs:       make(map[*ast.MemberExpr]*symbols.Decl),
		MemberCandidates: make(map[*ast.MemberExpr][]*symbols.Decl),
		ExprTypes:        make(map[ast.Expr]types.TypeID),
	}
	if table == nil {
		return res
	}
	tc := &typeChecker{
		table:    table,
		fset:     fset,
		reporter: opts.Reporter,
		lints:    opts.Lints,
		result:   res,
		reads:    make(map[*symbols.Decl]bool),
	}
	for _, u := range table.Units() {
		tc.checkUnit(u)
	}
	return res
}

type typeChecker struct {
	table    *symbols.Table
	fset     *source.FileSet
	reporter diag.Reporter
	lints    Lints
	result   *Result
	reads    map[*symbols.Decl]bool

	unit  *symbols.Unit
	owner *symbols.Decl  // enclosing contract for member function bodies
	fnRet types.TypeID   // expected return type inside a function
	scope *symbols.Scope // innermost local scope, nil at top level
}

func (tc *typeChecker) errorf(code diag.Code, sp source.Span, format string, args ...any) {
	diag.ReportError(tc.reporter, code, sp, fmt.Sprintf(format, args...)).Emit()
}

func (tc *typeChecker) warnf(code diag.Code, sp source.Span, format string, args ...any) {
	diag.ReportWarning(tc.reporter, code, sp, fmt.Sprintf(format, args...)).Emit()
}

// lookup resolves a name from the innermost local scope outwards,
// then the enclosing contract's members, then the unit's top level
// (which includes plain-import merges).
func (tc *typeChecker) lookup(name string) []*symbols.Decl {
	for s := tc.scope; s != nil; s = s.Parent {
		if ds := s.Named(name); len(ds) > 0 {
			return ds
		}
	}
	if tc.owner != nil {
		if ds := tc.owner.Members.Named(name); len(ds) > 0 {
			return ds
		}
	}
	return tc.unit.Lookup(name)
}

func (tc *typeChecker) markRead(d *symbols.Decl) {
	if d != nil {
		tc.reads[d] = true
	}
}

func (tc *typeChecker) kindOf(id types.TypeID) types.Kind {
	return tc.table.Types.KindOf(id)
}

func (tc *typeChecker) label(id types.TypeID) string {
	return types.Label(tc.table.Types, id)
}
