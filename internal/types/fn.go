package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// FnInfo stores metadata for function types.
type FnInfo struct {
	Params []TypeID // parameter types, in order
	Result TypeID   // return type, Void for procedures
}

// RegisterFn creates or finds a function type. Function types are
// structural: two declarations with the same parameter list and result
// share a TypeID, which is what makes overload signatures comparable.
func (in *Interner) RegisterFn(params []TypeID, result TypeID) TypeID {
	for id := TypeID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind != KindFn {
			continue
		}
		if int(tt.Payload) >= len(in.fns) {
			continue
		}
		info := in.fns[tt.Payload]
		if info.Result == result && slices.Equal(info.Params, params) {
			return id
		}
	}
	slot := in.appendFnInfo(FnInfo{
		Params: cloneTypeIDs(params),
		Result: result,
	})
	return in.internRaw(Type{Kind: KindFn, Payload: slot})
}

// FnInfo retrieves function type metadata by TypeID.
func (in *Interner) FnInfo(id TypeID) (*FnInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFn {
		return nil, false
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.fns) {
		return nil, false
	}
	return &in.fns[tt.Payload], true
}

// SameParams reports whether two function TypeIDs take identical
// parameter lists, ignoring the result. Overload redeclaration checks
// key on this.
func (in *Interner) SameParams(a, b TypeID) bool {
	ai, aok := in.FnInfo(a)
	bi, bok := in.FnInfo(b)
	if !aok || !bok {
		return false
	}
	return slices.Equal(ai.Params, bi.Params)
}

func (in *Interner) appendFnInfo(info FnInfo) uint32 {
	in.fns = append(in.fns, FnInfo{
		Params: cloneTypeIDs(info.Params),
		Result: info.Result,
	})
	slot, err := safecast.Conv[uint32](len(in.fns) - 1)
	if err != nil {
		panic(fmt.Errorf("fn info overflow: %w", err))
	}
	return slot
}

func cloneTypeIDs(ids []TypeID) []TypeID {
	if len(ids) == 0 {
		return nil
	}
	return slices.Clone(ids)
}
