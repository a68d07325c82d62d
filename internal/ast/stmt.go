package ast

import (
	"chert/internal/source"
)

// BlockStmt is `{ stmts }`.
type BlockStmt struct {
	Sp    source.Span
	Stmts []Stmt
}

func (s *BlockStmt) Span() source.Span { return s.Sp }
func (s *BlockStmt) stmtNode()         {}

// AssignStmt is `target = value;`. Target is an identifier or member
// access; the parser reports anything else.
type AssignStmt struct {
	Sp     source.Span
	Target Expr
	Value  Expr
}

func (s *AssignStmt) Span() source.Span { return s.Sp }
func (s *AssignStmt) stmtNode()         {}

// ReturnStmt is `return;` or `return expr;`.
type ReturnStmt struct {
	Sp    source.Span
	Value Expr // nil for a bare return
}

func (s *ReturnStmt) Span() source.Span { return s.Sp }
func (s *ReturnStmt) stmtNode()         {}

// IfStmt is `if (cond) { } else ...`; Else is nil, a *BlockStmt, or a
// chained *IfStmt.
type IfStmt struct {
	Sp   source.Span
	Cond Expr
	Then *BlockStmt
	Else Stmt
}

func (s *IfStmt) Span() source.Span { return s.Sp }
func (s *IfStmt) stmtNode()         {}

// WhileStmt is `while (cond) { }`.
type WhileStmt struct {
	Sp   source.Span
	Cond Expr
	Body *BlockStmt
}

func (s *WhileStmt) Span() source.Span { return s.Sp }
func (s *WhileStmt) stmtNode()         {}

// ExprStmt is an expression evaluated for effect: `f(x);`.
type ExprStmt struct {
	Sp source.Span
	X  Expr
}

func (s *ExprStmt) Span() source.Span { return s.Sp }
func (s *ExprStmt) stmtNode()         {}
