package sema

import "chert/internal/ast"

// returnState tracks whether control can fall out of a statement list.
type returnState int

const (
	returnOpen returnState = iota
	returnClosed
)

// returnStatus reports whether every path through the block ends in a
// return statement. A while body never closes a path: the loop may not
// run at all.
func (tc *typeChecker) returnStatus(b *ast.BlockStmt) returnState {
	if b == nil {
		return returnOpen
	}
	for _, s := range b.Stmts {
		if tc.stmtCloses(s) {
			return returnClosed
		}
	}
	return returnOpen
}

func (tc *typeChecker) stmtCloses(s ast.Stmt) bool {
	switch s := s.(type) {
	case *ast.ReturnStmt:
		return true
	case *ast.BlockStmt:
		return tc.returnStatus(s) == returnClosed
	case *ast.IfStmt:
		return s.Else != nil && tc.stmtCloses(s.Then) && tc.stmtCloses(s.Else)
	default:
		return false
	}
}
