package symbols

import (
	"sort"

	"chert/internal/ast"
	"chert/internal/types"
)

// Unit aggregates binding results for one source unit.
type Unit struct {
	Path  string
	Ast   *ast.SourceUnit
	Scope *Scope

	// merged lists units whose exports a plain import pulled in,
	// in import order. Lookup consults them after the unit's own
	// scope, so local declarations win and earlier imports beat
	// later ones. Merges are not transitive.
	merged []*Unit
}

// Lookup resolves a name visible at the unit's top level: own
// declarations first, then plain-import merges in import order.
// Function overloads from several origins concatenate.
func (u *Unit) Lookup(name string) []*Decl {
	ds := u.Scope.Named(name)
	for _, m := range u.merged {
		more := m.Scope.Named(name)
		if len(more) == 0 {
			continue
		}
		if len(ds) == 0 {
			ds = more
			continue
		}
		if allFuncs(ds) && allFuncs(more) {
			joined := make([]*Decl, 0, len(ds)+len(more))
			joined = append(joined, ds...)
			joined = append(joined, more...)
			ds = joined
		}
		// non-function collision: the earlier origin wins
	}
	return ds
}

// Exports returns the unit's own top-level declarations. Plain-import
// merges are deliberately excluded: re-export would make import graphs
// order-dependent.
func (u *Unit) Exports() []*Decl {
	return u.Scope.Decls()
}

func allFuncs(ds []*Decl) bool {
	for _, d := range ds {
		if d.Kind != KindFunc {
			return false
		}
	}
	return true
}

// Table aggregates binding results for a whole source set.
type Table struct {
	Types *types.Interner

	// ImportTargets maps each import directive to the file set path
	// it resolved to, absent when resolution failed.
	ImportTargets map[*ast.ImportDecl]string

	// TypeRefs maps resolved type expressions to the declaration they
	// name. Builtin types have no entry.
	TypeRefs map[ast.TypeExpr]*Decl

	// TypeDecls maps nominal TypeIDs back to the declaration that
	// registered them, for member lookup on typed values.
	TypeDecls map[types.TypeID]*Decl

	// Defs maps AST declaration nodes to their symbol. The binder
	// fills top-level declarations, members and parameters; the
	// checker adds locals.
	Defs map[ast.Node]*Decl

	units map[string]*Unit
	order []string
}

// NewTable builds an empty table around a type interner.
func NewTable(ti *types.Interner) *Table {
	if ti == nil {
		ti = types.NewInterner()
	}
	return &Table{
		Types:         ti,
		ImportTargets: make(map[*ast.ImportDecl]string),
		TypeRefs:      make(map[ast.TypeExpr]*Decl),
		TypeDecls:     make(map[types.TypeID]*Decl),
		Defs:          make(map[ast.Node]*Decl),
		units:         make(map[string]*Unit),
	}
}

// AddUnit registers a unit under its file set path.
func (t *Table) AddUnit(path string, unitAst *ast.SourceUnit, scope *Scope) *Unit {
	u := &Unit{Path: path, Ast: unitAst, Scope: scope}
	if _, exists := t.units[path]; !exists {
		t.order = append(t.order, path)
	}
	t.units[path] = u
	return u
}

// Unit returns the unit bound under path, nil when absent.
func (t *Table) Unit(path string) *Unit {
	return t.units[path]
}

// Units returns all units ordered by path.
func (t *Table) Units() []*Unit {
	paths := append([]string(nil), t.order...)
	sort.Strings(paths)
	us := make([]*Unit, 0, len(paths))
	for _, p := range paths {
		us = append(us, t.units[p])
	}
	return us
}
