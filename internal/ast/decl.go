package ast

import (
	"chert/internal/source"
)

// ImportDecl is `import "path";` or `import "path" as alias;`.
// Path is the decoded string literal value; Name is the alias or "".
type ImportDecl struct {
	Sp       source.Span
	Path     string
	PathSpan source.Span
	Alias    string
	AliasSp  source.Span
	DocText  string
}

func (d *ImportDecl) Span() source.Span     { return d.Sp }
func (d *ImportDecl) Name() string          { return d.Alias }
func (d *ImportDecl) NameSpan() source.Span { return d.AliasSp }
func (d *ImportDecl) Doc() string           { return d.DocText }
func (d *ImportDecl) declNode()             {}

// VarDecl is a typed variable declaration: top-level, local, contract
// member, or struct field. Init is nil where the grammar forbids an
// initializer.
type VarDecl struct {
	Sp      source.Span
	Type    TypeExpr
	VarName string
	NameSp  source.Span
	Init    Expr
	DocText string
}

func (d *VarDecl) Span() source.Span     { return d.Sp }
func (d *VarDecl) Name() string          { return d.VarName }
func (d *VarDecl) NameSpan() source.Span { return d.NameSp }
func (d *VarDecl) Doc() string           { return d.DocText }
func (d *VarDecl) declNode()             {}
func (d *VarDecl) stmtNode()             {}

// ParamDecl is one function parameter.
type ParamDecl struct {
	Sp        source.Span
	Type      TypeExpr
	ParamName string
	NameSp    source.Span
}

func (d *ParamDecl) Span() source.Span     { return d.Sp }
func (d *ParamDecl) Name() string          { return d.ParamName }
func (d *ParamDecl) NameSpan() source.Span { return d.NameSp }
func (d *ParamDecl) Doc() string           { return "" }
func (d *ParamDecl) declNode()             {}

// FuncDecl is `RetType name(params) { body }`. Functions overload by
// signature; Body is never nil.
type FuncDecl struct {
	Sp       source.Span
	RetType  TypeExpr
	FuncName string
	NameSp   source.Span
	Params   []*ParamDecl
	Body     *BlockStmt
	DocText  string
}

func (d *FuncDecl) Span() source.Span     { return d.Sp }
func (d *FuncDecl) Name() string          { return d.FuncName }
func (d *FuncDecl) NameSpan() source.Span { return d.NameSp }
func (d *FuncDecl) Doc() string           { return d.DocText }
func (d *FuncDecl) declNode()             {}

// StructDecl is `struct Name { fields }`.
type StructDecl struct {
	Sp         source.Span
	StructName string
	NameSp     source.Span
	Fields     []*VarDecl
	DocText    string
}

func (d *StructDecl) Span() source.Span     { return d.Sp }
func (d *StructDecl) Name() string          { return d.StructName }
func (d *StructDecl) NameSpan() source.Span { return d.NameSp }
func (d *StructDecl) Doc() string           { return d.DocText }
func (d *StructDecl) declNode()             {}

// ContractDecl is `contract Name { members }`; members are VarDecls and
// FuncDecls in source order.
type ContractDecl struct {
	Sp           source.Span
	ContractName string
	NameSp       source.Span
	Members      []Decl
	DocText      string
}

func (d *ContractDecl) Span() source.Span     { return d.Sp }
func (d *ContractDecl) Name() string          { return d.ContractName }
func (d *ContractDecl) NameSpan() source.Span { return d.NameSp }
func (d *ContractDecl) Doc() string           { return d.DocText }
func (d *ContractDecl) declNode()             {}
