package ast

import (
	"chert/internal/source"
)

// BuiltinType is a builtin type keyword in type position: int, uint,
// bool, string, void.
type BuiltinType struct {
	Sp       source.Span
	TypeName string
}

func (t *BuiltinType) Span() source.Span { return t.Sp }
func (t *BuiltinType) typeExprNode()     {}

// PathSeg is one segment of a possibly qualified type path.
type PathSeg struct {
	Text string
	Sp   source.Span
}

// NamedType is a user type reference in type position: `Point` or
// `geo.Point`. A single segment is the common case; two segments go
// through an import alias.
type NamedType struct {
	Sp       source.Span
	Segments []PathSeg
}

func (t *NamedType) Span() source.Span { return t.Sp }
func (t *NamedType) typeExprNode()     {}

// Last returns the final path segment.
func (t *NamedType) Last() PathSeg {
	return t.Segments[len(t.Segments)-1]
}
