// Package refs collects the occurrences of a declaration inside one
// source unit: the declaration itself, resolved identifiers, member
// accesses and qualified type path segments.
package refs

import (
	"sort"

	"chert/internal/ast"
	"chert/internal/sema"
	"chert/internal/source"
	"chert/internal/symbols"
)

// Kind classifies an occurrence the way document highlight does.
type Kind uint8

const (
	KindText  Kind = 1
	KindRead  Kind = 2
	KindWrite Kind = 3
)

// Occurrence is one mention of the target: the span of the name token
// itself, never a whole expression.
type Occurrence struct {
	Span source.Span
	Kind Kind
}

// Collect walks the unit once and returns every occurrence of any of
// the target declarations, in source order. Identifiers count when
// they resolve to a target or carry it as an overload candidate.
func Collect(unit *symbols.Unit, info *sema.Result, targets []*symbols.Decl) []Occurrence {
	if unit == nil || unit.Ast == nil || info == nil || len(targets) == 0 {
		return nil
	}
	want := make(map[*symbols.Decl]bool, len(targets))
	for _, d := range targets {
		if d != nil {
			want[d] = true
		}
	}
	if len(want) == 0 {
		return nil
	}

	writes := assignTargets(unit.Ast)
	var out []Occurrence
	add := func(sp source.Span, k Kind) {
		if !sp.Empty() {
			out = append(out, Occurrence{Span: sp, Kind: k})
		}
	}
	hit := func(ds []*symbols.Decl) bool {
		for _, d := range ds {
			if want[d] {
				return true
			}
		}
		return false
	}

	ast.Inspect(unit.Ast, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.VarDecl, *ast.FuncDecl, *ast.StructDecl, *ast.ContractDecl,
			*ast.ParamDecl, *ast.ImportDecl:
			if d := info.Table.Defs[n]; d != nil && want[d] {
				add(n.(ast.Decl).NameSpan(), KindWrite)
			}
		case *ast.Ident:
			if hit(info.DeclsForIdent(n)) {
				add(n.Sp, readOrWrite(writes[n]))
			}
		case *ast.MemberExpr:
			if hit(info.DeclsForMember(n)) {
				add(n.MemberSp, readOrWrite(writes[n]))
			}
		case *ast.NamedType:
			if d := info.Table.TypeRefs[n]; d != nil && want[d] {
				add(n.Last().Sp, KindRead)
			}
		}
		return true
	})

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Span.Start != out[j].Span.Start {
			return out[i].Span.Start < out[j].Span.Start
		}
		return out[i].Span.End < out[j].Span.End
	})
	return out
}

func readOrWrite(write bool) Kind {
	if write {
		return KindWrite
	}
	return KindRead
}

// assignTargets marks the left-hand node of every assignment.
func assignTargets(unit *ast.SourceUnit) map[ast.Node]bool {
	out := make(map[ast.Node]bool)
	ast.Inspect(unit, func(n ast.Node) bool {
		if a, ok := n.(*ast.AssignStmt); ok && a.Target != nil {
			out[a.Target] = true
		}
		return true
	})
	return out
}
