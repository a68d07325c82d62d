package parser

import (
	"chert/internal/ast"
	"chert/internal/diag"
	"chert/internal/token"
)

func (p *Parser) parseBlock() *ast.BlockStmt {
	lb, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	if !ok {
		return nil
	}
	block := &ast.BlockStmt{Sp: lb.Span}

	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.pos
		if s := p.parseStmt(); s != nil {
			block.Stmts = append(block.Stmts, s)
		}
		if p.pos == before {
			p.next()
		}
	}

	if rb, ok := p.eat(token.RBrace); ok {
		block.Sp = block.Sp.Cover(rb.Span)
	} else {
		p.errHere(diag.SynUnclosedBrace, "unclosed '{'")
	}
	return block
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur().Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwInt, token.KwUint, token.KwBool, token.KwString, token.KwVoid:
		return p.parseLocalVar()
	case token.Ident:
		if p.startsLocalVar() {
			return p.parseLocalVar()
		}
		return p.parseExprOrAssign()
	default:
		return p.parseExprOrAssign()
	}
}

// startsLocalVar distinguishes `Point p = ...` and `geo.Point p = ...`
// from expression statements like `p.x = 1;`.
func (p *Parser) startsLocalVar() bool {
	if p.peekAt(1).Kind == token.Ident {
		return true // IDENT IDENT
	}
	if p.peekAt(1).Kind == token.Dot &&
		p.peekAt(2).Kind == token.Ident &&
		p.peekAt(3).Kind == token.Ident {
		return true // IDENT '.' IDENT IDENT
	}
	return false
}

func (p *Parser) parseLocalVar() ast.Stmt {
	startTok := p.cur()
	typ := p.parseType()
	if typ == nil {
		p.syncStmt()
		return nil
	}
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected variable name")
	if !ok {
		p.syncStmt()
		return nil
	}

	v := &ast.VarDecl{
		Sp:      startTok.Span.Cover(nameTok.Span),
		Type:    typ,
		VarName: nameTok.Text,
		NameSp:  nameTok.Span,
		DocText: startTok.DocText(),
	}
	if _, ok := p.eat(token.Assign); ok {
		v.Init = p.parseExpr()
		if v.Init != nil {
			v.Sp = v.Sp.Cover(v.Init.Span())
		}
	}
	p.semi()
	return v
}

func (p *Parser) parseReturn() ast.Stmt {
	kw := p.next()
	s := &ast.ReturnStmt{Sp: kw.Span}
	if !p.at(token.Semicolon) && !p.at(token.RBrace) && !p.at(token.EOF) {
		s.Value = p.parseExpr()
		if s.Value != nil {
			s.Sp = s.Sp.Cover(s.Value.Span())
		}
	}
	p.semi()
	return s
}

func (p *Parser) parseIf() ast.Stmt {
	kw := p.next()
	s := &ast.IfStmt{Sp: kw.Span}

	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'if'"); !ok {
		p.syncStmt()
		return nil
	}
	s.Cond = p.parseExpr()
	if _, ok := p.eat(token.RParen); !ok {
		p.errHere(diag.SynUnclosedParen, "unclosed '(' in if condition")
	}

	s.Then = p.parseBlock()
	if s.Then != nil {
		s.Sp = s.Sp.Cover(s.Then.Sp)
	}

	if _, ok := p.eat(token.KwElse); ok {
		if p.at(token.KwIf) {
			s.Else = p.parseIf()
		} else {
			s.Else = p.parseBlock()
		}
		if s.Else != nil {
			s.Sp = s.Sp.Cover(s.Else.Span())
		}
	}
	return s
}

func (p *Parser) parseWhile() ast.Stmt {
	kw := p.next()
	s := &ast.WhileStmt{Sp: kw.Span}

	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'while'"); !ok {
		p.syncStmt()
		return nil
	}
	s.Cond = p.parseExpr()
	if _, ok := p.eat(token.RParen); !ok {
		p.errHere(diag.SynUnclosedParen, "unclosed '(' in while condition")
	}

	s.Body = p.parseBlock()
	if s.Body != nil {
		s.Sp = s.Sp.Cover(s.Body.Sp)
	}
	return s
}

func (p *Parser) parseExprOrAssign() ast.Stmt {
	x := p.parseExpr()
	if x == nil {
		p.syncStmt()
		return nil
	}

	if _, ok := p.eat(token.Assign); ok {
		switch x.(type) {
		case *ast.Ident, *ast.MemberExpr:
		default:
			p.err(diag.SynBadAssignTarget, x.Span(), "invalid assignment target")
		}
		value := p.parseExpr()
		s := &ast.AssignStmt{Sp: x.Span(), Target: x, Value: value}
		if value != nil {
			s.Sp = s.Sp.Cover(value.Span())
		}
		p.semi()
		return s
	}

	s := &ast.ExprStmt{Sp: x.Span(), X: x}
	p.semi()
	return s
}
