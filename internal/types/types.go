package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindBool
	KindString
	KindInt
	KindUint
	KindStruct
	KindContract
	KindModule
	KindFn
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindStruct:
		return "struct"
	case KindContract:
		return "contract"
	case KindModule:
		return "module"
	case KindFn:
		return "fn"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact descriptor for any supported type. Payload indexes
// the interner's side tables for nominal and function kinds.
type Type struct {
	Kind    Kind
	Payload uint32
}

// IsNumeric reports whether the kind is int or uint.
func (k Kind) IsNumeric() bool {
	return k == KindInt || k == KindUint
}

// IsValue reports whether values of this kind can be stored in variables.
// Modules and functions are named entities, not first-class values.
func (k Kind) IsValue() bool {
	switch k {
	case KindBool, KindString, KindInt, KindUint, KindStruct, KindContract:
		return true
	default:
		return false
	}
}
