package sema

import (
	"chert/internal/ast"
	"chert/internal/diag"
	"chert/internal/symbols"
	"chert/internal/types"
)

func (tc *typeChecker) checkUnit(u *symbols.Unit) {
	tc.unit = u
	for _, d := range u.Ast.Decls {
		switch d := d.(type) {
		case *ast.VarDecl:
			tc.checkTopVar(d)
		case *ast.FuncDecl:
			tc.checkFunc(d, nil)
		case *ast.ContractDecl:
			tc.checkContract(d)
		}
	}
}

func (tc *typeChecker) checkTopVar(d *ast.VarDecl) {
	sym := tc.table.Defs[d]
	if sym == nil || d.Init == nil {
		return
	}
	vt := tc.typeExpr(d.Init)
	tc.ensureAssignable(sym.Type, vt, d.Init)
}

func (tc *typeChecker) checkContract(d *ast.ContractDecl) {
	owner := tc.table.Defs[d]
	if owner == nil {
		return
	}
	prevOwner := tc.owner
	tc.owner = owner
	for _, m := range d.Members {
		switch m := m.(type) {
		case *ast.VarDecl:
			if sym := tc.table.Defs[m]; sym != nil && m.Init != nil {
				vt := tc.typeExpr(m.Init)
				tc.ensureAssignable(sym.Type, vt, m.Init)
			}
		case *ast.FuncDecl:
			tc.checkFunc(m, owner)
		}
	}
	tc.owner = prevOwner
}

func (tc *typeChecker) checkFunc(d *ast.FuncDecl, owner *symbols.Decl) {
	sym := tc.table.Defs[d]
	if sym == nil || d.Body == nil {
		return
	}
	info, ok := tc.table.Types.FnInfo(sym.Type)
	ret := types.NoTypeID
	if ok {
		ret = info.Result
	}

	prevOwner, prevRet, prevScope := tc.owner, tc.fnRet, tc.scope
	tc.owner = owner
	tc.fnRet = ret
	fnScope := symbols.NewScope(symbols.ScopeFunction, nil, d.Sp)
	for _, p := range sym.Params {
		fnScope.Insert(p)
	}
	tc.scope = fnScope

	for _, s := range d.Body.Stmts {
		tc.checkStmt(s)
	}

	if tc.kindOf(ret) != types.KindVoid && ret != types.NoTypeID {
		if tc.returnStatus(d.Body) != returnClosed {
			tc.warnf(diag.SemaMissingReturn, d.NameSp,
				"function '%s' may finish without returning a value", d.FuncName)
		}
	}
	tc.runFunctionLints(fnScope)

	tc.owner, tc.fnRet, tc.scope = prevOwner, prevRet, prevScope
}

func (tc *typeChecker) checkStmt(s ast.Stmt) {
	switch s := s.(type) {
	case nil:
	case *ast.VarDecl:
		tc.checkLocal(s)
	case *ast.BlockStmt:
		tc.checkBlock(s)
	case *ast.AssignStmt:
		tc.checkAssign(s)
	case *ast.ReturnStmt:
		tc.checkReturn(s)
	case *ast.IfStmt:
		tc.checkCond(s.Cond)
		tc.checkBlock(s.Then)
		tc.checkStmt(s.Else)
	case *ast.WhileStmt:
		tc.checkCond(s.Cond)
		tc.checkBlock(s.Body)
	case *ast.ExprStmt:
		tc.typeExpr(s.X)
	}
}

func (tc *typeChecker) checkBlock(b *ast.BlockStmt) {
	if b == nil {
		return
	}
	prev := tc.scope
	tc.scope = symbols.NewScope(symbols.ScopeBlock, prev, b.Sp)
	for _, s := range b.Stmts {
		tc.checkStmt(s)
	}
	tc.scope = prev
}

func (tc *typeChecker) checkLocal(d *ast.VarDecl) {
	t := tc.table.ResolveValueType(tc.unit, d.Type, tc.reporter)
	local := &symbols.Decl{
		Name:     d.VarName,
		Kind:     symbols.KindLocal,
		NameSpan: d.NameSp,
		Span:     d.Sp,
		Type:     t,
		Doc:      d.DocText,
		UnitPath: tc.unit.Path,
		Node:     d,
	}

	if prev := tc.scope.Named(d.VarName); len(prev) > 0 {
		builder := diag.ReportError(tc.reporter, diag.SemaDuplicateSymbol, d.NameSp,
			"duplicate declaration of '"+d.VarName+"'")
		builder.WithNote(declNote(prev[0]), "previous declaration here")
		builder.Emit()
	} else {
		tc.checkShadowing(local)
		tc.scope.Insert(local)
		tc.table.Defs[d] = local
	}

	if d.Init != nil {
		vt := tc.typeExpr(d.Init)
		tc.ensureAssignable(t, vt, d.Init)
	}
}

func (tc *typeChecker) checkCond(e ast.Expr) {
	if e == nil {
		return
	}
	t := tc.typeExpr(e)
	if t == types.NoTypeID {
		return
	}
	if tc.kindOf(t) != types.KindBool {
		tc.errorf(diag.SemaCondNotBool, e.Span(),
			"condition must be bool, got %s", tc.label(t))
	}
}

func (tc *typeChecker) checkReturn(s *ast.ReturnStmt) {
	wantsValue := tc.fnRet != types.NoTypeID && tc.kindOf(tc.fnRet) != types.KindVoid
	if s.Value == nil {
		if wantsValue {
			tc.errorf(diag.SemaTypeMismatch, s.Sp,
				"missing return value, function returns %s", tc.label(tc.fnRet))
		}
		return
	}
	vt := tc.typeExpr(s.Value)
	if !wantsValue {
		tc.errorf(diag.SemaTypeMismatch, s.Value.Span(),
			"void function cannot return a value")
		return
	}
	tc.ensureAssignable(tc.fnRet, vt, s.Value)
}

func (tc *typeChecker) checkAssign(s *ast.AssignStmt) {
	vt := tc.typeExpr(s.Value)

	switch target := s.Target.(type) {
	case *ast.Ident:
		ds := tc.lookup(target.Text)
		if len(ds) == 0 {
			tc.errorf(diag.SemaUnresolvedSymbol, target.Sp, "unknown name '%s'", target.Text)
			return
		}
		d := ds[0]
		tc.result.Uses[target] = d
		tc.result.ExprTypes[target] = d.Type
		// assignment alone does not count as a read for the unused lint
		if !assignableKind(d.Kind) {
			tc.errorf(diag.SemaNotAssignable, target.Sp,
				"cannot assign to %s '%s'", d.Kind, d.Name)
			return
		}
		tc.ensureAssignable(d.Type, vt, s.Value)
	case *ast.MemberExpr:
		d := tc.resolveMember(target)
		if d == nil {
			return
		}
		if !assignableKind(d.Kind) {
			tc.errorf(diag.SemaNotAssignable, target.MemberSp,
				"cannot assign to %s '%s'", d.Kind, d.Name)
			return
		}
		tc.ensureAssignable(d.Type, vt, s.Value)
	default:
		// the parser already rejected other targets
	}
}

func assignableKind(k symbols.Kind) bool {
	switch k {
	case symbols.KindVar, symbols.KindField, symbols.KindLocal, symbols.KindParam:
		return true
	default:
		return false
	}
}
