package ast

import (
	"chert/internal/source"
	"chert/internal/token"
)

// Ident is a bare identifier used as an expression.
type Ident struct {
	Sp   source.Span
	Text string
}

func (e *Ident) Span() source.Span { return e.Sp }
func (e *Ident) exprNode()         {}

// IntLit is a decimal integer literal.
type IntLit struct {
	Sp   source.Span
	Text string
}

func (e *IntLit) Span() source.Span { return e.Sp }
func (e *IntLit) exprNode()         {}

// StringLit is a string literal; Value carries the decoded text.
type StringLit struct {
	Sp    source.Span
	Raw   string
	Value string
}

func (e *StringLit) Span() source.Span { return e.Sp }
func (e *StringLit) exprNode()         {}

// BoolLit is `true` or `false`.
type BoolLit struct {
	Sp    source.Span
	Value bool
}

func (e *BoolLit) Span() source.Span { return e.Sp }
func (e *BoolLit) exprNode()         {}

// MemberExpr is `x.member`.
type MemberExpr struct {
	Sp       source.Span
	X        Expr
	Member   string
	MemberSp source.Span
}

func (e *MemberExpr) Span() source.Span { return e.Sp }
func (e *MemberExpr) exprNode()         {}

// CallExpr is `callee(args)`; calling a struct type name constructs a value.
type CallExpr struct {
	Sp     source.Span
	Callee Expr
	Args   []Expr
}

func (e *CallExpr) Span() source.Span { return e.Sp }
func (e *CallExpr) exprNode()         {}

// BinaryExpr is `x op y`.
type BinaryExpr struct {
	Sp source.Span
	Op token.Kind
	X  Expr
	Y  Expr
}

func (e *BinaryExpr) Span() source.Span { return e.Sp }
func (e *BinaryExpr) exprNode()         {}

// UnaryExpr is `-x` or `!x`.
type UnaryExpr struct {
	Sp source.Span
	Op token.Kind
	X  Expr
}

func (e *UnaryExpr) Span() source.Span { return e.Sp }
func (e *UnaryExpr) exprNode()         {}

// ParenExpr is `(x)`.
type ParenExpr struct {
	Sp source.Span
	X  Expr
}

func (e *ParenExpr) Span() source.Span { return e.Sp }
func (e *ParenExpr) exprNode()         {}
