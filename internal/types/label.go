package types

import "strings"

// Label returns a user-friendly label for a TypeID, as it would appear
// in source.
func Label(in *Interner, id TypeID) string {
	return labelDepth(in, id, 0)
}

func labelDepth(in *Interner, id TypeID, depth int) string {
	if id == NoTypeID || in == nil {
		return "?"
	}
	if depth > 4 {
		return "..."
	}
	tt, ok := in.Lookup(id)
	if !ok {
		return "?"
	}
	switch tt.Kind {
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
		if info, ok := in.StructInfo(id); ok && info.Name != "" {
			return info.Name
		}
		return "?"
	case KindContract:
		if info, ok := in.ContractInfo(id); ok && info.Name != "" {
			return info.Name
		}
		return "?"
	case KindModule:
		if info, ok := in.ModuleInfo(id); ok && info.Path != "" {
			return "module \"" + info.Path + "\""
		}
		return "module"
	case KindFn:
		info, ok := in.FnInfo(id)
		if !ok {
			return "fn(?)"
		}
		params := make([]string, len(info.Params))
		for i, param := range info.Params {
			params[i] = labelDepth(in, param, depth+1)
		}
		ret := labelDepth(in, info.Result, depth+1)
		return ret + "(" + strings.Join(params, ", ") + ")"
	default:
		return "?"
	}
}
