package sema

import (
	"fmt"
	"strings"

	"chert/internal/ast"
	"chert/internal/diag"
	"chert/internal/source"
	"chert/internal/symbols"
	"chert/internal/types"
)

type overloadStatus int

const (
	overloadOne overloadStatus = iota
	overloadNone
	overloadAmbiguous
	overloadUnchecked // an argument failed to type, resolution skipped
)

// typeCall resolves callee(args): function overloads, struct
// constructors, member and module function calls.
func (tc *typeChecker) typeCall(e *ast.CallExpr) types.TypeID {
	ats := make([]types.TypeID, len(e.Args))
	for i, a := range e.Args {
		ats[i] = tc.typeExpr(a)
	}

	callee := e.Callee
	for {
		p, ok := callee.(*ast.ParenExpr)
		if !ok {
			break
		}
		callee = p.X
	}

	switch callee := callee.(type) {
	case *ast.Ident:
		return tc.typeIdentCall(e, callee, ats)
	case *ast.MemberExpr:
		return tc.typeMemberCall(e, callee, ats)
	default:
		t := tc.typeExpr(callee)
		if t == types.NoTypeID {
			return types.NoTypeID
		}
		tc.errorf(diag.SemaNotCallable, callee.Span(),
			"expression of type %s is not callable", tc.label(t))
		return types.NoTypeID
	}
}

func (tc *typeChecker) typeIdentCall(call *ast.CallExpr, id *ast.Ident, ats []types.TypeID) types.TypeID {
	ds := tc.lookup(id.Text)
	if len(ds) == 0 {
		tc.errorf(diag.SemaUnresolvedSymbol, id.Sp, "unknown name '%s'", id.Text)
		return types.NoTypeID
	}
	switch ds[0].Kind {
	case symbols.KindStruct:
		tc.result.Uses[id] = ds[0]
		tc.markRead(ds[0])
		return tc.typeConstructor(call, id, ds[0], ats)
	case symbols.KindContract:
		tc.result.Uses[id] = ds[0]
		tc.markRead(ds[0])
		tc.errorf(diag.SemaNotCallable, id.Sp, "contract '%s' is not callable", id.Text)
		return types.NoTypeID
	}
	funcs := funcsOf(ds)
	if len(funcs) == 0 {
		d := ds[0]
		tc.result.Uses[id] = d
		tc.markRead(d)
		tc.errorf(diag.SemaNotCallable, id.Sp, "cannot call %s '%s'", d.Kind, d.Name)
		return types.NoTypeID
	}

	primary, matches, status := tc.resolveOverloads(funcs, call.Args, ats)
	switch status {
	case overloadNone:
		tc.result.Candidates[id] = append([]*symbols.Decl(nil), funcs...)
		tc.reportOverloadMiss(diag.SemaNoMatchingOverload, id.Sp,
			fmt.Sprintf("no matching overload for call to '%s'", id.Text), funcs)
		return types.NoTypeID
	case overloadAmbiguous:
		tc.result.Uses[id] = primary
		tc.result.Candidates[id] = matches
		tc.markRead(primary)
		tc.reportOverloadMiss(diag.SemaAmbiguousCall, id.Sp,
			fmt.Sprintf("ambiguous call to '%s'", id.Text), matches)
		return tc.fnResult(primary)
	default:
		tc.result.Uses[id] = primary
		tc.markRead(primary)
		if status == overloadUnchecked && len(funcs) > 1 {
			tc.result.Candidates[id] = append([]*symbols.Decl(nil), funcs...)
		}
		return tc.fnResult(primary)
	}
}

func (tc *typeChecker) typeMemberCall(call *ast.CallExpr, m *ast.MemberExpr, ats []types.TypeID) types.TypeID {
	ds := tc.memberSet(m)
	if len(ds) == 0 {
		return types.NoTypeID
	}
	funcs := funcsOf(ds)
	if len(funcs) == 0 {
		d := tc.recordMember(m, ds)
		tc.errorf(diag.SemaNotCallable, m.MemberSp, "cannot call %s '%s'", d.Kind, d.Name)
		return types.NoTypeID
	}

	primary, matches, status := tc.resolveOverloads(funcs, call.Args, ats)
	switch status {
	case overloadNone:
		tc.result.MemberCandidates[m] = append([]*symbols.Decl(nil), funcs...)
		tc.reportOverloadMiss(diag.SemaNoMatchingOverload, m.MemberSp,
			fmt.Sprintf("no matching overload for call to '%s'", m.Member), funcs)
		return types.NoTypeID
	case overloadAmbiguous:
		tc.result.MemberRefs[m] = primary
		tc.result.MemberCandidates[m] = matches
		tc.markRead(primary)
		tc.reportOverloadMiss(diag.SemaAmbiguousCall, m.MemberSp,
			fmt.Sprintf("ambiguous call to '%s'", m.Member), matches)
		return tc.fnResult(primary)
	default:
		tc.result.MemberRefs[m] = primary
		tc.markRead(primary)
		if status == overloadUnchecked && len(funcs) > 1 {
			tc.result.MemberCandidates[m] = append([]*symbols.Decl(nil), funcs...)
		}
		return tc.fnResult(primary)
	}
}

// typeConstructor checks Point(args) against the struct's fields. The
// value is the struct type even when the arguments mismatch, so member
// access on the result keeps working.
func (tc *typeChecker) typeConstructor(call *ast.CallExpr, id *ast.Ident, d *symbols.Decl, ats []types.TypeID) types.TypeID {
	info, ok := tc.table.Types.StructInfo(d.Type)
	if !ok {
		return types.NoTypeID
	}
	for _, t := range ats {
		if t == types.NoTypeID {
			return d.Type
		}
	}
	if tc.constructorMatches(info.Fields, call.Args, ats) {
		return d.Type
	}
	builder := diag.ReportError(tc.reporter, diag.SemaNoMatchingOverload, id.Sp,
		fmt.Sprintf("no matching constructor for '%s'", d.Name))
	builder.WithNote(declNote(d), "candidate: "+tc.constructorSignature(info))
	builder.Emit()
	return d.Type
}

// resolveOverloads filters the overload set by argument compatibility.
// The primary is the first match in declaration order.
func (tc *typeChecker) resolveOverloads(funcs []*symbols.Decl, args []ast.Expr, ats []types.TypeID) (*symbols.Decl, []*symbols.Decl, overloadStatus) {
	for _, t := range ats {
		if t == types.NoTypeID {
			return funcs[0], nil, overloadUnchecked
		}
	}
	var matches []*symbols.Decl
	for _, f := range funcs {
		if tc.callMatches(f, args, ats) {
			matches = append(matches, f)
		}
	}
	switch len(matches) {
	case 0:
		return nil, nil, overloadNone
	case 1:
		return matches[0], nil, overloadOne
	default:
		return matches[0], matches, overloadAmbiguous
	}
}

func (tc *typeChecker) callMatches(f *symbols.Decl, args []ast.Expr, ats []types.TypeID) bool {
	info, ok := tc.table.Types.FnInfo(f.Type)
	if !ok || len(info.Params) != len(args) {
		return false
	}
	for i, p := range info.Params {
		if p == ats[i] {
			continue
		}
		if tc.kindOf(p).IsNumeric() && isIntLiteral(args[i]) {
			continue
		}
		return false
	}
	return true
}

func (tc *typeChecker) constructorMatches(fields []types.Field, args []ast.Expr, ats []types.TypeID) bool {
	if len(fields) != len(args) {
		return false
	}
	for i, f := range fields {
		if f.Type == ats[i] {
			continue
		}
		if tc.kindOf(f.Type).IsNumeric() && isIntLiteral(args[i]) {
			continue
		}
		return false
	}
	return true
}

func (tc *typeChecker) reportOverloadMiss(code diag.Code, sp source.Span, msg string, candidates []*symbols.Decl) {
	builder := diag.ReportError(tc.reporter, code, sp, msg)
	for _, c := range candidates {
		builder.WithNote(declNote(c), "candidate: "+tc.signature(c))
	}
	builder.Emit()
}

func (tc *typeChecker) fnResult(d *symbols.Decl) types.TypeID {
	info, ok := tc.table.Types.FnInfo(d.Type)
	if !ok {
		return types.NoTypeID
	}
	return info.Result
}

// signature renders a function declaration the way it was written:
// `uint add(uint, uint)`.
func (tc *typeChecker) signature(d *symbols.Decl) string {
	info, ok := tc.table.Types.FnInfo(d.Type)
	if !ok {
		return d.Name
	}
	var b strings.Builder
	b.WriteString(tc.label(info.Result))
	b.WriteByte(' ')
	b.WriteString(d.Name)
	b.WriteByte('(')
	for i, p := range info.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(tc.label(p))
	}
	b.WriteByte(')')
	return b.String()
}

func (tc *typeChecker) constructorSignature(info *types.StructInfo) string {
	var b strings.Builder
	b.WriteString(info.Name)
	b.WriteByte('(')
	for i, f := range info.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(tc.label(f.Type))
	}
	b.WriteByte(')')
	return b.String()
}

func funcsOf(ds []*symbols.Decl) []*symbols.Decl {
	var out []*symbols.Decl
	for _, d := range ds {
		if d.Kind == symbols.KindFunc {
			out = append(out, d)
		}
	}
	return out
}

func declNote(d *symbols.Decl) source.Span {
	if !d.NameSpan.Empty() {
		return d.NameSpan
	}
	return d.Span
}
