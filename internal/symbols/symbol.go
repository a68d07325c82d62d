package symbols

import (
	"chert/internal/ast"
	"chert/internal/source"
	"chert/internal/types"
)

// Kind classifies the semantic meaning of a declaration.
type Kind uint8

const (
	KindInvalid  Kind = iota
	KindModule        // import alias binding
	KindVar           // top-level variable
	KindField         // struct field or contract member variable
	KindFunc          // function or member function
	KindStruct        // struct type
	KindContract      // contract type
	KindParam         // function parameter
	KindLocal         // function-local variable
)

func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindVar:
		return "variable"
	case KindField:
		return "field"
	case KindFunc:
		return "function"
	case KindStruct:
		return "struct"
	case KindContract:
		return "contract"
	case KindParam:
		return "parameter"
	case KindLocal:
		return "local"
	default:
		return "invalid"
	}
}

// IsType reports whether the declaration names a type.
func (k Kind) IsType() bool {
	return k == KindStruct || k == KindContract
}

// Decl describes a named entity. Every declaration the engine knows
// about, from contracts down to locals, is one of these; resolver
// replies are built from its spans.
type Decl struct {
	Name     string
	Kind     Kind
	NameSpan source.Span // the identifier itself, zero when synthesized
	Span     source.Span // the whole declaration
	Type     types.TypeID
	Doc      string
	UnitPath string   // file set path of the declaring unit
	Node     ast.Decl // originating AST node, nil for synthesized decls
	Owner    *Decl    // enclosing struct or contract for members
	Params   []*Decl  // function parameters, in order
	Members  *MemberSet
}

// MemberSet holds the ordered members of a struct or contract.
type MemberSet struct {
	order []*Decl
	names map[string][]*Decl
}

func NewMemberSet() *MemberSet {
	return &MemberSet{names: make(map[string][]*Decl)}
}

// Insert appends a member. Overloaded member functions stack under one name.
func (m *MemberSet) Insert(d *Decl) {
	m.order = append(m.order, d)
	m.names[d.Name] = append(m.names[d.Name], d)
}

// Named returns all members with the given name, in declaration order.
func (m *MemberSet) Named(name string) []*Decl {
	if m == nil {
		return nil
	}
	return m.names[name]
}

// All returns the members in declaration order. The slice aliases the
// set's storage; callers must not modify it.
func (m *MemberSet) All() []*Decl {
	if m == nil {
		return nil
	}
	return m.order
}

func (m *MemberSet) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}
