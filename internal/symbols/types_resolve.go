package symbols

import (
	"fmt"

	"chert/internal/ast"
	"chert/internal/diag"
	"chert/internal/source"
	"chert/internal/types"
)

// ResolveType resolves a type expression in the context of a unit,
// reporting failures through r and returning NoTypeID so callers
// degrade quietly. Resolved named types land in TypeRefs. Both the
// binder and the checker (for locals) go through here.
func (t *Table) ResolveType(u *Unit, te ast.TypeExpr, r diag.Reporter) types.TypeID {
	switch te := te.(type) {
	case nil:
		return types.NoTypeID
	case *ast.BuiltinType:
		return t.builtinType(te.TypeName)
	case *ast.NamedType:
		return t.resolveNamedType(u, te, r)
	default:
		return types.NoTypeID
	}
}

// ResolveValueType is ResolveType plus the rule that variables, fields
// and parameters cannot be void.
func (t *Table) ResolveValueType(u *Unit, te ast.TypeExpr, r diag.Reporter) types.TypeID {
	id := t.ResolveType(u, te, r)
	if t.Types.KindOf(id) == types.KindVoid {
		diag.ReportError(r, diag.SemaVoidValue, te.Span(),
			"variables cannot have type void").Emit()
		return types.NoTypeID
	}
	return id
}

func (t *Table) builtinType(name string) types.TypeID {
	bi := t.Types.Builtins()
	switch name {
	case "int":
		return bi.Int
	case "uint":
		return bi.Uint
	case "bool":
		return bi.Bool
	case "string":
		return bi.String
	case "void":
		return bi.Void
	default:
		return types.NoTypeID
	}
}

func (t *Table) resolveNamedType(u *Unit, te *ast.NamedType, r diag.Reporter) types.TypeID {
	if len(te.Segments) == 0 {
		return types.NoTypeID
	}
	if len(te.Segments) == 1 {
		seg := te.Segments[0]
		ds := u.Lookup(seg.Text)
		if len(ds) == 0 {
			diag.ReportError(r, diag.SemaUnresolvedSymbol, seg.Sp,
				fmt.Sprintf("unknown type '%s'", seg.Text)).Emit()
			return types.NoTypeID
		}
		for _, d := range ds {
			if d.Kind.IsType() {
				t.TypeRefs[te] = d
				return d.Type
			}
		}
		t.reportNotAType(r, seg.Text, seg.Sp, ds[0])
		return types.NoTypeID
	}

	// module-qualified: alias.TypeName
	first, last := te.Segments[0], te.Last()
	ds := u.Lookup(first.Text)
	if len(ds) == 0 {
		diag.ReportError(r, diag.SemaUnresolvedSymbol, first.Sp,
			fmt.Sprintf("unknown name '%s'", first.Text)).Emit()
		return types.NoTypeID
	}
	mod := firstOfKind(ds, KindModule)
	if mod == nil {
		builder := diag.ReportError(r, diag.SemaNotAModule, first.Sp,
			fmt.Sprintf("'%s' is not a module", first.Text))
		builder.WithNote(declNoteSpan(ds[0]), "declared here")
		builder.Emit()
		return types.NoTypeID
	}
	target := t.ModuleTarget(mod)
	if target == nil {
		// the import itself already failed and was reported
		return types.NoTypeID
	}
	named := target.Scope.Named(last.Text)
	for _, d := range named {
		if d.Kind.IsType() {
			t.TypeRefs[te] = d
			return d.Type
		}
	}
	if len(named) > 0 {
		t.reportNotAType(r, last.Text, last.Sp, named[0])
		return types.NoTypeID
	}
	info, _ := t.Types.ModuleInfo(mod.Type)
	modPath := ""
	if info != nil {
		modPath = info.Path
	}
	diag.ReportError(r, diag.SemaUnknownMember, last.Sp,
		fmt.Sprintf("module %q has no member '%s'", modPath, last.Text)).Emit()
	return types.NoTypeID
}

// ModuleTarget returns the unit a module declaration points at, nil
// when the import behind it never resolved.
func (t *Table) ModuleTarget(mod *Decl) *Unit {
	if mod == nil || mod.Kind != KindModule {
		return nil
	}
	info, ok := t.Types.ModuleInfo(mod.Type)
	if !ok || info.Unit == "" {
		return nil
	}
	return t.Unit(info.Unit)
}

func (t *Table) reportNotAType(r diag.Reporter, name string, sp source.Span, prev *Decl) {
	builder := diag.ReportError(r, diag.SemaNotAType, sp,
		fmt.Sprintf("'%s' is not a type", name))
	builder.WithNote(declNoteSpan(prev), "declared here")
	builder.Emit()
}

func firstOfKind(ds []*Decl, kind Kind) *Decl {
	for _, d := range ds {
		if d.Kind == kind {
			return d
		}
	}
	return nil
}
