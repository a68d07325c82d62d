package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"chert/internal/source"
)

// Field describes a single field inside a struct or contract type.
type Field struct {
	Name string
	Type TypeID
}

// StructInfo stores metadata for a struct type.
type StructInfo struct {
	Name   string
	Decl   source.Span
	Fields []Field
}

// ContractInfo stores metadata for a contract type. Fields cover the
// member variables; member functions live in the symbol tables because
// overloads share a name.
type ContractInfo struct {
	Name   string
	Decl   source.Span
	Fields []Field
}

// ModuleInfo stores metadata for an import binding.
type ModuleInfo struct {
	Path string // import path as written
	Unit string // resolved file set path, "" when unresolved
	Decl source.Span
}

// RegisterStruct allocates a nominal struct type slot and returns its TypeID.
func (in *Interner) RegisterStruct(name string, decl source.Span) TypeID {
	slot := in.appendStructInfo(StructInfo{Name: name, Decl: decl})
	return in.internRaw(Type{Kind: KindStruct, Payload: slot})
}

// SetStructFields stores the resolved field descriptors for the struct type.
func (in *Interner) SetStructFields(typeID TypeID, fields []Field) {
	info := in.structInfo(typeID)
	if info == nil {
		return
	}
	info.Fields = cloneFields(fields)
}

// StructInfo returns metadata for the provided struct TypeID.
func (in *Interner) StructInfo(typeID TypeID) (*StructInfo, bool) {
	info := in.structInfo(typeID)
	if info == nil {
		return nil, false
	}
	return info, true
}

// RegisterContract allocates a nominal contract type slot and returns its TypeID.
func (in *Interner) RegisterContract(name string, decl source.Span) TypeID {
	slot := in.appendContractInfo(ContractInfo{Name: name, Decl: decl})
	return in.internRaw(Type{Kind: KindContract, Payload: slot})
}

// SetContractFields stores the member variable descriptors for the contract.
func (in *Interner) SetContractFields(typeID TypeID, fields []Field) {
	info := in.contractInfo(typeID)
	if info == nil {
		return
	}
	info.Fields = cloneFields(fields)
}

// ContractInfo returns metadata for the provided contract TypeID.
func (in *Interner) ContractInfo(typeID TypeID) (*ContractInfo, bool) {
	info := in.contractInfo(typeID)
	if info == nil {
		return nil, false
	}
	return info, true
}

// RegisterModule allocates a module type slot and returns its TypeID.
func (in *Interner) RegisterModule(path, unit string, decl source.Span) TypeID {
	slot := in.appendModuleInfo(ModuleInfo{Path: path, Unit: unit, Decl: decl})
	return in.internRaw(Type{Kind: KindModule, Payload: slot})
}

// ModuleInfo returns metadata for the provided module TypeID.
func (in *Interner) ModuleInfo(typeID TypeID) (*ModuleInfo, bool) {
	info := in.moduleInfo(typeID)
	if info == nil {
		return nil, false
	}
	return info, true
}

// FieldNamed finds the named field on a struct or contract type.
func (in *Interner) FieldNamed(typeID TypeID, name string) (Field, bool) {
	var fields []Field
	if info := in.structInfo(typeID); info != nil {
		fields = info.Fields
	} else if info := in.contractInfo(typeID); info != nil {
		fields = info.Fields
	}
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (in *Interner) structInfo(typeID TypeID) *StructInfo {
	tt, ok := in.Lookup(typeID)
	if !ok || tt.Kind != KindStruct {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.structs) {
		return nil
	}
	return &in.structs[tt.Payload]
}

func (in *Interner) contractInfo(typeID TypeID) *ContractInfo {
	tt, ok := in.Lookup(typeID)
	if !ok || tt.Kind != KindContract {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.contracts) {
		return nil
	}
	return &in.contracts[tt.Payload]
}

func (in *Interner) moduleInfo(typeID TypeID) *ModuleInfo {
	tt, ok := in.Lookup(typeID)
	if !ok || tt.Kind != KindModule {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.modules) {
		return nil
	}
	return &in.modules[tt.Payload]
}

func (in *Interner) appendStructInfo(info StructInfo) uint32 {
	in.structs = append(in.structs, StructInfo{
		Name:   info.Name,
		Decl:   info.Decl,
		Fields: cloneFields(info.Fields),
	})
	slot, err := safecast.Conv[uint32](len(in.structs) - 1)
	if err != nil {
		panic(fmt.Errorf("struct info overflow: %w", err))
	}
	return slot
}

func (in *Interner) appendContractInfo(info ContractInfo) uint32 {
	in.contracts = append(in.contracts, ContractInfo{
		Name:   info.Name,
		Decl:   info.Decl,
		Fields: cloneFields(info.Fields),
	})
	slot, err := safecast.Conv[uint32](len(in.contracts) - 1)
	if err != nil {
		panic(fmt.Errorf("contract info overflow: %w", err))
	}
	return slot
}

func (in *Interner) appendModuleInfo(info ModuleInfo) uint32 {
	in.modules = append(in.modules, info)
	slot, err := safecast.Conv[uint32](len(in.modules) - 1)
	if err != nil {
		panic(fmt.Errorf("module info overflow: %w", err))
	}
	return slot
}

func cloneFields(fields []Field) []Field {
	if len(fields) == 0 {
		return nil
	}
	return slices.Clone(fields)
}
