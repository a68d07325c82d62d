package symbols

import "chert/internal/source"

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeUnit               // top-level declarations of one source unit
	ScopeFunction           // function parameters and body
	ScopeBlock              // nested block
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeUnit:
		return "unit"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	default:
		return "invalid"
	}
}

// Scope models a lexical scope with a parent-child hierarchy.
type Scope struct {
	Kind     ScopeKind
	Parent   *Scope
	Span     source.Span
	Children []*Scope

	names map[string][]*Decl
	order []*Decl
}

// NewScope creates a scope and links it under parent (nil for roots).
func NewScope(kind ScopeKind, parent *Scope, span source.Span) *Scope {
	s := &Scope{
		Kind:   kind,
		Parent: parent,
		Span:   span,
		names:  make(map[string][]*Decl),
	}
	if parent != nil {
		parent.Children = append(parent.Children, s)
	}
	return s
}

// Insert adds a declaration without any checks. Callers run duplicate
// detection first.
func (s *Scope) Insert(d *Decl) {
	s.order = append(s.order, d)
	s.names[d.Name] = append(s.names[d.Name], d)
}

// Named returns declarations with the given name in this scope only.
func (s *Scope) Named(name string) []*Decl {
	if s == nil {
		return nil
	}
	return s.names[name]
}

// Lookup walks the scope chain from innermost outwards and returns the
// first scope's matches. Overloads within one scope come back together.
func (s *Scope) Lookup(name string) []*Decl {
	for sc := s; sc != nil; sc = sc.Parent {
		if ds := sc.names[name]; len(ds) > 0 {
			return ds
		}
	}
	return nil
}

// Decls returns this scope's declarations in declaration order. The
// slice aliases the scope's storage; callers must not modify it.
func (s *Scope) Decls() []*Decl {
	if s == nil {
		return nil
	}
	return s.order
}
