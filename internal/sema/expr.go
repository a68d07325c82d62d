package sema

import (
	"chert/internal/ast"
	"chert/internal/diag"
	"chert/internal/symbols"
	"chert/internal/token"
	"chert/internal/types"
)

// typeExpr computes the type of e, recording name resolutions and the
// expression type on the way. NoTypeID means typing failed and the
// failure is already reported; callers degrade quietly.
func (tc *typeChecker) typeExpr(e ast.Expr) types.TypeID {
	if e == nil {
		return types.NoTypeID
	}
	t := tc.typeExprInner(e)
	if t != types.NoTypeID {
		tc.result.ExprTypes[e] = t
	}
	return t
}

func (tc *typeChecker) typeExprInner(e ast.Expr) types.TypeID {
	switch e := e.(type) {
	case *ast.IntLit:
		return tc.table.Types.Builtins().Int
	case *ast.StringLit:
		return tc.table.Types.Builtins().String
	case *ast.BoolLit:
		return tc.table.Types.Builtins().Bool
	case *ast.Ident:
		return tc.typeIdent(e)
	case *ast.MemberExpr:
		d := tc.resolveMember(e)
		if d == nil {
			return types.NoTypeID
		}
		return d.Type
	case *ast.CallExpr:
		return tc.typeCall(e)
	case *ast.BinaryExpr:
		return tc.typeBinary(e)
	case *ast.UnaryExpr:
		return tc.typeUnary(e)
	case *ast.ParenExpr:
		return tc.typeExpr(e.X)
	default:
		return types.NoTypeID
	}
}

func (tc *typeChecker) typeIdent(e *ast.Ident) types.TypeID {
	ds := tc.lookup(e.Text)
	if len(ds) == 0 {
		tc.errorf(diag.SemaUnresolvedSymbol, e.Sp, "unknown name '%s'", e.Text)
		return types.NoTypeID
	}
	d := ds[0]
	tc.result.Uses[e] = d
	if len(ds) > 1 {
		tc.result.Candidates[e] = append([]*symbols.Decl(nil), ds...)
	}
	tc.markRead(d)
	return d.Type
}

// resolveMember resolves x.member against the type of x: module alias,
// struct, or contract. Returns nil with a report on failure.
func (tc *typeChecker) resolveMember(e *ast.MemberExpr) *symbols.Decl {
	ds := tc.memberSet(e)
	if len(ds) == 0 {
		return nil
	}
	return tc.recordMember(e, ds)
}

// memberSet types the base of x.member and returns every declaration
// the member name resolves to. Call resolution needs the whole set;
// plain member access takes the first.
func (tc *typeChecker) memberSet(e *ast.MemberExpr) []*symbols.Decl {
	base := tc.typeExpr(e.X)
	if base == types.NoTypeID {
		return nil
	}
	switch tc.kindOf(base) {
	case types.KindModule:
		info, ok := tc.table.Types.ModuleInfo(base)
		if !ok {
			return nil
		}
		target := tc.table.Unit(info.Unit)
		if target == nil {
			return nil
		}
		ds := target.Scope.Named(e.Member)
		if len(ds) == 0 {
			tc.errorf(diag.SemaUnknownMember, e.MemberSp,
				"module %q has no member '%s'", info.Path, e.Member)
			return nil
		}
		return ds
	case types.KindStruct, types.KindContract:
		owner := tc.table.TypeDecls[base]
		if owner == nil || owner.Members == nil {
			return nil
		}
		ds := owner.Members.Named(e.Member)
		if len(ds) == 0 {
			tc.errorf(diag.SemaUnknownMember, e.MemberSp,
				"type '%s' has no member '%s'", owner.Name, e.Member)
			return nil
		}
		return ds
	default:
		tc.errorf(diag.SemaUnknownMember, e.MemberSp,
			"%s has no member '%s'", tc.label(base), e.Member)
		return nil
	}
}

func (tc *typeChecker) recordMember(e *ast.MemberExpr, ds []*symbols.Decl) *symbols.Decl {
	d := ds[0]
	tc.result.MemberRefs[e] = d
	if len(ds) > 1 {
		tc.result.MemberCandidates[e] = append([]*symbols.Decl(nil), ds...)
	}
	tc.markRead(d)
	return d
}

func (tc *typeChecker) typeBinary(e *ast.BinaryExpr) types.TypeID {
	lt := tc.typeExpr(e.X)
	rt := tc.typeExpr(e.Y)
	bi := tc.table.Types.Builtins()
	switch e.Op {
	case token.Plus, token.Minus, token.Star, token.Slash, token.Percent:
		return tc.unifyNumeric(e, lt, rt)
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		if tc.unifyNumeric(e, lt, rt) == types.NoTypeID {
			return types.NoTypeID
		}
		return bi.Bool
	case token.EqEq, token.BangEq:
		if !tc.unifyEquatable(e, lt, rt) {
			return types.NoTypeID
		}
		return bi.Bool
	case token.AndAnd, token.OrOr:
		lok := tc.requireBool(e.X, lt)
		rok := tc.requireBool(e.Y, rt)
		if !lok || !rok {
			return types.NoTypeID
		}
		return bi.Bool
	default:
		return types.NoTypeID
	}
}

func (tc *typeChecker) typeUnary(e *ast.UnaryExpr) types.TypeID {
	t := tc.typeExpr(e.X)
	if t == types.NoTypeID {
		return types.NoTypeID
	}
	switch e.Op {
	case token.Minus:
		if tc.voidOperand(e.X, t) {
			return types.NoTypeID
		}
		if !tc.kindOf(t).IsNumeric() {
			tc.errorf(diag.SemaTypeMismatch, e.X.Span(),
				"operator %s needs a numeric operand, got %s", e.Op, tc.label(t))
			return types.NoTypeID
		}
		return t
	case token.Bang:
		if !tc.requireBool(e.X, t) {
			return types.NoTypeID
		}
		return tc.table.Types.Builtins().Bool
	default:
		return types.NoTypeID
	}
}

// unifyNumeric types an arithmetic or ordering operator: both operands
// numeric and of the same kind, with an untyped integer literal
// adapting to the other side.
func (tc *typeChecker) unifyNumeric(e *ast.BinaryExpr, lt, rt types.TypeID) types.TypeID {
	if lt == types.NoTypeID || rt == types.NoTypeID {
		return types.NoTypeID
	}
	if tc.voidOperand(e.X, lt) || tc.voidOperand(e.Y, rt) {
		return types.NoTypeID
	}
	lk, rk := tc.kindOf(lt), tc.kindOf(rt)
	switch {
	case lk.IsNumeric() && rk.IsNumeric() && lk == rk:
		return lt
	case lk.IsNumeric() && isIntLiteral(e.Y):
		return lt
	case rk.IsNumeric() && isIntLiteral(e.X):
		return rt
	}
	tc.errorf(diag.SemaTypeMismatch, e.Sp,
		"operator %s needs matching numeric operands, got %s and %s",
		e.Op, tc.label(lt), tc.label(rt))
	return types.NoTypeID
}

func (tc *typeChecker) unifyEquatable(e *ast.BinaryExpr, lt, rt types.TypeID) bool {
	if lt == types.NoTypeID || rt == types.NoTypeID {
		return false
	}
	if tc.voidOperand(e.X, lt) || tc.voidOperand(e.Y, rt) {
		return false
	}
	if lt == rt {
		if equatableKind(tc.kindOf(lt)) {
			return true
		}
		tc.errorf(diag.SemaTypeMismatch, e.Sp,
			"values of type %s cannot be compared", tc.label(lt))
		return false
	}
	lk, rk := tc.kindOf(lt), tc.kindOf(rt)
	if lk.IsNumeric() && isIntLiteral(e.Y) {
		return true
	}
	if rk.IsNumeric() && isIntLiteral(e.X) {
		return true
	}
	tc.errorf(diag.SemaTypeMismatch, e.Sp,
		"cannot compare %s to %s", tc.label(lt), tc.label(rt))
	return false
}

func equatableKind(k types.Kind) bool {
	switch k {
	case types.KindInt, types.KindUint, types.KindBool, types.KindString:
		return true
	default:
		return false
	}
}

func (tc *typeChecker) requireBool(e ast.Expr, t types.TypeID) bool {
	if t == types.NoTypeID {
		return false
	}
	if tc.voidOperand(e, t) {
		return false
	}
	if tc.kindOf(t) != types.KindBool {
		tc.errorf(diag.SemaTypeMismatch, e.Span(),
			"operand must be bool, got %s", tc.label(t))
		return false
	}
	return true
}

// voidOperand reports a void-typed expression used where a value is
// required.
func (tc *typeChecker) voidOperand(e ast.Expr, t types.TypeID) bool {
	if t != types.NoTypeID && tc.kindOf(t) == types.KindVoid {
		tc.errorf(diag.SemaVoidValue, e.Span(), "expression has no value")
		return true
	}
	return false
}

// ensureAssignable reports when src cannot flow into dst. Either side
// already failed means stay quiet.
func (tc *typeChecker) ensureAssignable(dst, src types.TypeID, at ast.Expr) {
	if dst == types.NoTypeID || src == types.NoTypeID {
		return
	}
	if tc.voidOperand(at, src) {
		return
	}
	if tc.assignable(dst, src, at) {
		return
	}
	tc.errorf(diag.SemaTypeMismatch, at.Span(),
		"cannot assign %s to %s", tc.label(src), tc.label(dst))
}

func (tc *typeChecker) assignable(dst, src types.TypeID, at ast.Expr) bool {
	if dst == src {
		return true
	}
	return tc.kindOf(dst).IsNumeric() && isIntLiteral(at)
}

// isIntLiteral reports whether e is an untyped integer literal after
// unwrapping parentheses. Negated literals keep their int type.
func isIntLiteral(e ast.Expr) bool {
	for {
		switch x := e.(type) {
		case *ast.IntLit:
			return true
		case *ast.ParenExpr:
			e = x.X
		default:
			return false
		}
	}
}
