package ast

// Inspect traverses the tree rooted at n in source order, calling f for
// each node. If f returns false the node's children are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}

	switch x := n.(type) {
	case *SourceUnit:
		for _, d := range x.Decls {
			Inspect(d, f)
		}

	case *ImportDecl:
		// path and alias are tokens, not child nodes

	case *VarDecl:
		Inspect(x.Type, f)
		if x.Init != nil {
			Inspect(x.Init, f)
		}

	case *ParamDecl:
		Inspect(x.Type, f)

	case *FuncDecl:
		Inspect(x.RetType, f)
		for _, p := range x.Params {
			Inspect(p, f)
		}
		Inspect(x.Body, f)

	case *StructDecl:
		for _, fd := range x.Fields {
			Inspect(fd, f)
		}

	case *ContractDecl:
		for _, m := range x.Members {
			Inspect(m, f)
		}

	case *BlockStmt:
		for _, s := range x.Stmts {
			Inspect(s, f)
		}

	case *AssignStmt:
		Inspect(x.Target, f)
		Inspect(x.Value, f)

	case *ReturnStmt:
		if x.Value != nil {
			Inspect(x.Value, f)
		}

	case *IfStmt:
		Inspect(x.Cond, f)
		Inspect(x.Then, f)
		if x.Else != nil {
			Inspect(x.Else, f)
		}

	case *WhileStmt:
		Inspect(x.Cond, f)
		Inspect(x.Body, f)

	case *ExprStmt:
		Inspect(x.X, f)

	case *MemberExpr:
		Inspect(x.X, f)

	case *CallExpr:
		Inspect(x.Callee, f)
		for _, a := range x.Args {
			Inspect(a, f)
		}

	case *BinaryExpr:
		Inspect(x.X, f)
		Inspect(x.Y, f)

	case *UnaryExpr:
		Inspect(x.X, f)

	case *ParenExpr:
		Inspect(x.X, f)

	case *Ident, *IntLit, *StringLit, *BoolLit, *BuiltinType, *NamedType:
		// leaves
	}
}

// NodeAt returns the smallest node in unit whose span contains the byte
// offset, or nil when nothing does (offset past EOF). Whitespace between
// declarations resolves to the unit itself.
func NodeAt(unit *SourceUnit, off uint32) Node {
	if unit == nil || !unit.Sp.Contains(off) {
		return nil
	}
	var best Node
	bestLen := ^uint32(0)
	Inspect(unit, func(n Node) bool {
		sp := n.Span()
		if !sp.Contains(off) {
			return false
		}
		// children sit inside parents, so the later and smaller match wins
		if sp.Len() <= bestLen {
			best = n
			bestLen = sp.Len()
		}
		return true
	})
	return best
}
