package symbols

import (
	"fmt"
	"sort"

	"chert/internal/ast"
	"chert/internal/diag"
	"chert/internal/source"
	"chert/internal/types"
)

// BindOptions controls a binding pass over a source set.
type BindOptions struct {
	Reporter   diag.Reporter
	Remappings []string // "prefix=target" pairs, applied longest prefix first
}

// Bind collects top-level declarations for every unit, resolves imports
// and declaration signatures, and returns the populated table.
//
// The pass is layered so that order between units never matters: first
// every type name in every unit, then imports, then signatures. A field
// typed by a struct from a plain import resolves regardless of which
// file was added first.
func Bind(fset *source.FileSet, units map[string]*ast.SourceUnit, opts BindOptions) *Table {
	b := &binder{
		table:    NewTable(types.NewInterner()),
		fset:     fset,
		reporter: opts.Reporter,
		remaps:   parseRemappings(opts.Remappings),
	}

	paths := make([]string, 0, len(units))
	for p := range units {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		unitAst := units[p]
		scope := NewScope(ScopeUnit, nil, unitAst.Sp)
		b.table.AddUnit(p, unitAst, scope)
	}
	for _, p := range paths {
		b.declareTypes(b.table.Unit(p))
	}
	for _, p := range paths {
		b.resolveImports(b.table.Unit(p))
	}
	b.reportImportCycles(paths)
	for _, p := range paths {
		b.declareSignatures(b.table.Unit(p))
	}
	return b.table
}

type binder struct {
	table    *Table
	fset     *source.FileSet
	reporter diag.Reporter
	remaps   []remapping
}

// declareTypes installs struct and contract names so signature
// resolution can reference them in any order.
func (b *binder) declareTypes(u *Unit) {
	for _, d := range u.Ast.Decls {
		switch d := d.(type) {
		case *ast.StructDecl:
			sym := &Decl{
				Name:     d.StructName,
				Kind:     KindStruct,
				NameSpan: d.NameSp,
				Span:     d.Sp,
				Type:     b.table.Types.RegisterStruct(d.StructName, d.Sp),
				Doc:      d.DocText,
				UnitPath: u.Path,
				Node:     d,
				Members:  NewMemberSet(),
			}
			if b.declare(u, sym) {
				b.table.Defs[d] = sym
				b.table.TypeDecls[sym.Type] = sym
			}
		case *ast.ContractDecl:
			sym := &Decl{
				Name:     d.ContractName,
				Kind:     KindContract,
				NameSpan: d.NameSp,
				Span:     d.Sp,
				Type:     b.table.Types.RegisterContract(d.ContractName, d.Sp),
				Doc:      d.DocText,
				UnitPath: u.Path,
				Node:     d,
				Members:  NewMemberSet(),
			}
			if b.declare(u, sym) {
				b.table.Defs[d] = sym
				b.table.TypeDecls[sym.Type] = sym
			}
		}
	}
}

// declareSignatures resolves declared types for variables, fields and
// functions, now that every type name and import is in place.
func (b *binder) declareSignatures(u *Unit) {
	for _, d := range u.Ast.Decls {
		switch d := d.(type) {
		case *ast.StructDecl:
			b.bindStructMembers(u, d)
		case *ast.ContractDecl:
			b.bindContractMembers(u, d)
		case *ast.FuncDecl:
			b.bindFunc(u, d, nil)
		case *ast.VarDecl:
			b.bindVar(u, d, KindVar, nil)
		}
	}
}

func (b *binder) bindStructMembers(u *Unit, d *ast.StructDecl) {
	owner := b.table.Defs[d]
	if owner == nil {
		return
	}
	fields := make([]types.Field, 0, len(d.Fields))
	for _, f := range d.Fields {
		sym := b.memberVar(u, owner, f)
		if sym == nil {
			continue
		}
		fields = append(fields, types.Field{Name: sym.Name, Type: sym.Type})
	}
	b.table.Types.SetStructFields(owner.Type, fields)
}

func (b *binder) bindContractMembers(u *Unit, d *ast.ContractDecl) {
	owner := b.table.Defs[d]
	if owner == nil {
		return
	}
	var fields []types.Field
	for _, m := range d.Members {
		switch m := m.(type) {
		case *ast.VarDecl:
			sym := b.memberVar(u, owner, m)
			if sym == nil {
				continue
			}
			fields = append(fields, types.Field{Name: sym.Name, Type: sym.Type})
		case *ast.FuncDecl:
			b.bindFunc(u, m, owner)
		}
	}
	b.table.Types.SetContractFields(owner.Type, fields)
}

// memberVar binds one struct field or contract member variable.
func (b *binder) memberVar(u *Unit, owner *Decl, f *ast.VarDecl) *Decl {
	sym := &Decl{
		Name:     f.VarName,
		Kind:     KindField,
		NameSpan: f.NameSp,
		Span:     f.Sp,
		Type:     b.table.ResolveValueType(u, f.Type, b.reporter),
		Doc:      f.DocText,
		UnitPath: u.Path,
		Node:     f,
		Owner:    owner,
	}
	if !b.declareMember(owner, sym) {
		return nil
	}
	b.table.Defs[f] = sym
	return sym
}

// bindFunc binds a function declaration, top-level or contract member.
func (b *binder) bindFunc(u *Unit, d *ast.FuncDecl, owner *Decl) {
	paramIDs := make([]types.TypeID, 0, len(d.Params))
	params := make([]*Decl, 0, len(d.Params))
	for _, p := range d.Params {
		pt := b.table.ResolveValueType(u, p.Type, b.reporter)
		paramIDs = append(paramIDs, pt)
		params = append(params, &Decl{
			Name:     p.ParamName,
			Kind:     KindParam,
			NameSpan: p.NameSp,
			Span:     p.Sp,
			Type:     pt,
			UnitPath: u.Path,
			Node:     p,
		})
	}
	ret := b.table.ResolveType(u, d.RetType, b.reporter)

	sym := &Decl{
		Name:     d.FuncName,
		Kind:     KindFunc,
		NameSpan: d.NameSp,
		Span:     d.Sp,
		Type:     b.table.Types.RegisterFn(paramIDs, ret),
		Doc:      d.DocText,
		UnitPath: u.Path,
		Node:     d,
		Owner:    owner,
		Params:   params,
	}
	for _, p := range params {
		p.Owner = sym
	}

	declared := false
	if owner != nil {
		declared = b.declareMember(owner, sym)
	} else {
		declared = b.declare(u, sym)
	}
	if !declared {
		return
	}
	b.table.Defs[d] = sym
	b.declareParams(sym)
}

// declareParams installs parameter symbols, rejecting duplicate names.
func (b *binder) declareParams(fn *Decl) {
	seen := make(map[string]*Decl, len(fn.Params))
	for _, p := range fn.Params {
		if prev, dup := seen[p.Name]; dup {
			b.reportDuplicate(p, prev)
			continue
		}
		seen[p.Name] = p
		if node, ok := p.Node.(ast.Node); ok {
			b.table.Defs[node] = p
		}
	}
}

// bindVar binds a top-level variable declaration.
func (b *binder) bindVar(u *Unit, d *ast.VarDecl, kind Kind, owner *Decl) {
	sym := &Decl{
		Name:     d.VarName,
		Kind:     kind,
		NameSpan: d.NameSp,
		Span:     d.Sp,
		Type:     b.table.ResolveValueType(u, d.Type, b.reporter),
		Doc:      d.DocText,
		UnitPath: u.Path,
		Node:     d,
		Owner:    owner,
	}
	if !b.declare(u, sym) {
		return
	}
	b.table.Defs[d] = sym
}

// declare installs a declaration into the unit scope. Functions may
// share a name as long as parameter lists differ; everything else must
// be unique.
func (b *binder) declare(u *Unit, d *Decl) bool {
	for _, prev := range u.Scope.Named(d.Name) {
		if d.Kind == KindFunc && prev.Kind == KindFunc &&
			!b.table.Types.SameParams(prev.Type, d.Type) {
			continue
		}
		b.reportDuplicate(d, prev)
		return false
	}
	u.Scope.Insert(d)
	return true
}

// declareMember mirrors declare for struct and contract member sets.
func (b *binder) declareMember(owner *Decl, d *Decl) bool {
	for _, prev := range owner.Members.Named(d.Name) {
		if d.Kind == KindFunc && prev.Kind == KindFunc &&
			!b.table.Types.SameParams(prev.Type, d.Type) {
			continue
		}
		b.reportDuplicate(d, prev)
		return false
	}
	owner.Members.Insert(d)
	return true
}

func (b *binder) reportDuplicate(d, prev *Decl) {
	msg := fmt.Sprintf("duplicate declaration of '%s'", d.Name)
	builder := diag.ReportError(b.reporter, diag.SemaDuplicateSymbol, d.NameSpan, msg)
	if prevSpan := declNoteSpan(prev); prevSpan != (source.Span{}) {
		builder.WithNote(prevSpan, "previous declaration here")
	}
	builder.Emit()
}

func declNoteSpan(d *Decl) source.Span {
	if d.NameSpan != (source.Span{}) {
		return d.NameSpan
	}
	return d.Span
}
