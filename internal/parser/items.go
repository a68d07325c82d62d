package parser

import (
	"fmt"

	"chert/internal/ast"
	"chert/internal/diag"
	"chert/internal/token"
)

func (p *Parser) parseItem() ast.Decl {
	switch p.cur().Kind {
	case token.KwImport:
		return p.parseImport()
	case token.KwStruct:
		return p.parseStruct()
	case token.KwContract:
		return p.parseContract()
	case token.KwInt, token.KwUint, token.KwBool, token.KwString, token.KwVoid, token.Ident:
		return p.parseFuncOrVar()
	default:
		p.errHere(diag.SynStrayTopLevel,
			fmt.Sprintf("expected declaration, found %s", p.cur().Kind))
		p.syncItem()
		return nil
	}
}

// importDecl := 'import' STRING ('as' IDENT)? ';'
func (p *Parser) parseImport() ast.Decl {
	kw := p.next()
	d := &ast.ImportDecl{Sp: kw.Span, DocText: kw.DocText()}

	pathTok, ok := p.expect(token.StringLit, diag.SynExpectImportPath, "expected import path string")
	if !ok {
		p.syncStmt()
		return nil
	}
	d.Path = decodeString(pathTok.Text)
	d.PathSpan = pathTok.Span
	d.Sp = d.Sp.Cover(pathTok.Span)

	if _, ok := p.eat(token.KwAs); ok {
		aliasTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected alias name after 'as'")
		if !ok {
			p.syncStmt()
			return d
		}
		d.Alias = aliasTok.Text
		d.AliasSp = aliasTok.Span
		d.Sp = d.Sp.Cover(aliasTok.Span)
	}

	p.semi()
	return d
}

// structDecl := 'struct' IDENT '{' (type IDENT ';')* '}'
func (p *Parser) parseStruct() ast.Decl {
	kw := p.next()
	d := &ast.StructDecl{Sp: kw.Span, DocText: kw.DocText()}

	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected struct name")
	if !ok {
		p.syncItem()
		return nil
	}
	d.StructName = nameTok.Text
	d.NameSp = nameTok.Span

	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after struct name"); !ok {
		p.syncItem()
		return d
	}

	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.pos
		field := p.parseFieldDecl()
		if field != nil {
			d.Fields = append(d.Fields, field)
		}
		if p.pos == before {
			p.next()
		}
	}

	if rb, ok := p.eat(token.RBrace); ok {
		d.Sp = d.Sp.Cover(rb.Span)
	} else {
		p.errHere(diag.SynUnclosedBrace, "unclosed '{' in struct body")
	}
	return d
}

func (p *Parser) parseFieldDecl() *ast.VarDecl {
	startTok := p.cur()
	typ := p.parseType()
	if typ == nil {
		p.syncStmt()
		return nil
	}

	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected field name")
	if !ok {
		p.syncStmt()
		return nil
	}

	f := &ast.VarDecl{
		Sp:      startTok.Span.Cover(nameTok.Span),
		Type:    typ,
		VarName: nameTok.Text,
		NameSp:  nameTok.Span,
		DocText: startTok.DocText(),
	}
	p.semi()
	return f
}

// contractDecl := 'contract' IDENT '{' member* '}'
// member := funcOrVar
func (p *Parser) parseContract() ast.Decl {
	kw := p.next()
	d := &ast.ContractDecl{Sp: kw.Span, DocText: kw.DocText()}

	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected contract name")
	if !ok {
		p.syncItem()
		return nil
	}
	d.ContractName = nameTok.Text
	d.NameSp = nameTok.Span

	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after contract name"); !ok {
		p.syncItem()
		return d
	}

	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.pos
		if m := p.parseFuncOrVar(); m != nil {
			d.Members = append(d.Members, m)
		}
		if p.pos == before {
			p.next()
		}
	}

	if rb, ok := p.eat(token.RBrace); ok {
		d.Sp = d.Sp.Cover(rb.Span)
	} else {
		p.errHere(diag.SynUnclosedBrace, "unclosed '{' in contract body")
	}
	return d
}

// funcOrVar := type IDENT '(' params ')' block
//            | type IDENT ('=' expr)? ';'
func (p *Parser) parseFuncOrVar() ast.Decl {
	startTok := p.cur()
	typ := p.parseType()
	if typ == nil {
		p.syncStmt()
		return nil
	}

	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected declaration name")
	if !ok {
		p.syncStmt()
		return nil
	}

	if p.at(token.LParen) {
		return p.parseFuncRest(startTok, typ, nameTok)
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

func (p *Parser) parseFuncRest(startTok token.Token, ret ast.TypeExpr, nameTok token.Token) ast.Decl {
	fn := &ast.FuncDecl{
		Sp:       startTok.Span.Cover(nameTok.Span),
		RetType:  ret,
		FuncName: nameTok.Text,
		NameSp:   nameTok.Span,
		DocText:  startTok.DocText(),
	}

	p.next() // '('
	for !p.at(token.RParen) && !p.at(token.EOF) {
		param := p.parseParam()
		if param == nil {
			break
		}
		fn.Params = append(fn.Params, param)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.eat(token.RParen); !ok {
		p.errHere(diag.SynUnclosedParen, "unclosed '(' in parameter list")
	}

	body := p.parseBlock()
	fn.Body = body
	if body != nil {
		fn.Sp = fn.Sp.Cover(body.Sp)
	}
	return fn
}

func (p *Parser) parseParam() *ast.ParamDecl {
	startTok := p.cur()
	typ := p.parseType()
	if typ == nil {
		p.errHere(diag.SynExpectParam, "expected parameter declaration")
		return nil
	}
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected parameter name")
	if !ok {
		return nil
	}
	return &ast.ParamDecl{
		Sp:        startTok.Span.Cover(nameTok.Span),
		Type:      typ,
		ParamName: nameTok.Text,
		NameSp:    nameTok.Span,
	}
}

// type := 'int' | 'uint' | 'bool' | 'string' | 'void'
//       | IDENT ('.' IDENT)?
func (p *Parser) parseType() ast.TypeExpr {
	tok := p.cur()
	if tok.IsTypeKeyword() {
		p.next()
		return &ast.BuiltinType{Sp: tok.Span, TypeName: tok.Text}
	}
	if tok.Kind != token.Ident {
		p.errHere(diag.SynExpectType, "expected type")
		return nil
	}
	p.next()

	nt := &ast.NamedType{
		Sp:       tok.Span,
		Segments: []ast.PathSeg{{Text: tok.Text, Sp: tok.Span}},
	}
	if p.at(token.Dot) && p.peekAt(1).Kind == token.Ident {
		p.next() // '.'
		seg := p.next()
		nt.Segments = append(nt.Segments, ast.PathSeg{Text: seg.Text, Sp: seg.Span})
		nt.Sp = nt.Sp.Cover(seg.Span)
	}
	return nt
}
