package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for the primitive types.
type Builtins struct {
	Invalid TypeID
	Void    TypeID
	Bool    TypeID
	String  TypeID
	Int     TypeID
	Uint    TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Nominal kinds (struct, contract, module) get a fresh ID per
// registration; primitives and function types are deduplicated.
type Interner struct {
	types     []Type
	index     map[Type]TypeID
	builtins  Builtins
	structs   []StructInfo
	contracts []ContractInfo
	modules   []ModuleInfo
	fns       []FnInfo
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[Type]TypeID, 32),
	}
	// reserve slot 0 of every side table as an invalid sentinel
	in.structs = append(in.structs, StructInfo{})
	in.contracts = append(in.contracts, ContractInfo{})
	in.modules = append(in.modules, ModuleInfo{})
	in.fns = append(in.fns, FnInfo{})
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Void = in.Intern(Type{Kind: KindVoid})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.String = in.Intern(Type{Kind: KindString})
	in.builtins.Int = in.Intern(Type{Kind: KindInt})
	in.builtins.Uint = in.Intern(Type{Kind: KindUint})
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// KindOf returns the kind of the type, KindInvalid for the zero id.
func (in *Interner) KindOf(id TypeID) Kind {
	tt, ok := in.Lookup(id)
	if !ok {
		return KindInvalid
	}
	return tt.Kind
}
