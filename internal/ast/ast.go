// Package ast defines the chert syntax tree. Nodes are plain pointers
// owned by the analysis snapshot that produced them; consumers copy
// scalar values out instead of holding nodes across re-analyses.
package ast

import (
	"chert/internal/source"
)

// Node is implemented by every syntax tree node.
type Node interface {
	Span() source.Span
}

// Expr is implemented by expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is implemented by declaration nodes. Name is "" for unnamed
// declarations (a plain import without an alias).
type Decl interface {
	Node
	declNode()
	Name() string
	NameSpan() source.Span
	Doc() string
}

// TypeExpr is implemented by type syntax nodes.
type TypeExpr interface {
	Node
	typeExprNode()
}

// SourceUnit is one parsed file.
type SourceUnit struct {
	Path  string // workspace-relative slash path
	File  source.FileID
	Decls []Decl // file-scope declarations in source order, imports included
	Sp    source.Span
}

func (u *SourceUnit) Span() source.Span { return u.Sp }

// Imports returns the unit's import declarations in source order.
func (u *SourceUnit) Imports() []*ImportDecl {
	var out []*ImportDecl
	for _, d := range u.Decls {
		if imp, ok := d.(*ImportDecl); ok {
			out = append(out, imp)
		}
	}
	return out
}
