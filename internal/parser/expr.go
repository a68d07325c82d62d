package parser

import (
	"fmt"

	"chert/internal/ast"
	"chert/internal/diag"
	"chert/internal/token"
)

// binary operator precedence, loosest first:
// || < && < comparisons < + - < * / %

func (p *Parser) parseExpr() ast.Expr {
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Expr {
	x := p.parseAnd()
	for x != nil && p.at(token.OrOr) {
		op := p.next()
		y := p.parseAnd()
		x = newBinary(op.Kind, x, y)
	}
	return x
}

func (p *Parser) parseAnd() ast.Expr {
	x := p.parseCmp()
	for x != nil && p.at(token.AndAnd) {
		op := p.next()
		y := p.parseCmp()
		x = newBinary(op.Kind, x, y)
	}
	return x
}

func (p *Parser) parseCmp() ast.Expr {
	x := p.parseAdd()
	for x != nil {
		switch p.cur().Kind {
		case token.EqEq, token.BangEq, token.Lt, token.LtEq, token.Gt, token.GtEq:
			op := p.next()
			y := p.parseAdd()
			x = newBinary(op.Kind, x, y)
		default:
			return x
		}
	}
	return x
}

func (p *Parser) parseAdd() ast.Expr {
	x := p.parseMul()
	for x != nil {
		switch p.cur().Kind {
		case token.Plus, token.Minus:
			op := p.next()
			y := p.parseMul()
			x = newBinary(op.Kind, x, y)
		default:
			return x
		}
	}
	return x
}

func (p *Parser) parseMul() ast.Expr {
	x := p.parseUnary()
	for x != nil {
		switch p.cur().Kind {
		case token.Star, token.Slash, token.Percent:
			op := p.next()
			y := p.parseUnary()
			x = newBinary(op.Kind, x, y)
		default:
			return x
		}
	}
	return x
}

func newBinary(op token.Kind, x, y ast.Expr) ast.Expr {
	if x == nil {
		return y
	}
	sp := x.Span()
	if y != nil {
		sp = sp.Cover(y.Span())
	}
	return &ast.BinaryExpr{Sp: sp, Op: op, X: x, Y: y}
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.cur().Kind {
	case token.Minus, token.Bang:
		op := p.next()
		x := p.parseUnary()
		sp := op.Span
		if x != nil {
			sp = sp.Cover(x.Span())
		}
		return &ast.UnaryExpr{Sp: sp, Op: op.Kind, X: x}
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()
	for x != nil {
		switch p.cur().Kind {
		case token.LParen:
			p.next()
			call := &ast.CallExpr{Sp: x.Span(), Callee: x}
			for !p.at(token.RParen) && !p.at(token.EOF) {
				arg := p.parseExpr()
				if arg == nil {
					break
				}
				call.Args = append(call.Args, arg)
				if _, ok := p.eat(token.Comma); !ok {
					break
				}
			}
			if rp, ok := p.eat(token.RParen); ok {
				call.Sp = call.Sp.Cover(rp.Span)
			} else {
				p.errHere(diag.SynUnclosedParen, "unclosed '(' in call")
			}
			x = call

		case token.Dot:
			p.next()
			memberTok, ok := p.expect(token.Ident, diag.SynExpectMember, "expected member name after '.'")
			if !ok {
				return x
			}
			x = &ast.MemberExpr{
				Sp:       x.Span().Cover(memberTok.Span),
				X:        x,
				Member:   memberTok.Text,
				MemberSp: memberTok.Span,
			}

		default:
			return x
		}
	}
	return x
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.cur()
	switch tok.Kind {
	case token.IntLit:
		p.next()
		return &ast.IntLit{Sp: tok.Span, Text: tok.Text}

	case token.StringLit:
		p.next()
		return &ast.StringLit{Sp: tok.Span, Raw: tok.Text, Value: decodeString(tok.Text)}

	case token.KwTrue:
		p.next()
		return &ast.BoolLit{Sp: tok.Span, Value: true}

	case token.KwFalse:
		p.next()
		return &ast.BoolLit{Sp: tok.Span, Value: false}

	case token.Ident:
		p.next()
		return &ast.Ident{Sp: tok.Span, Text: tok.Text}

	case token.LParen:
		p.next()
		inner := p.parseExpr()
		sp := tok.Span
		if rp, ok := p.eat(token.RParen); ok {
			sp = sp.Cover(rp.Span)
		} else {
			p.errHere(diag.SynUnclosedParen, "unclosed '('")
		}
		if inner == nil {
			return nil
		}
		return &ast.ParenExpr{Sp: sp, X: inner}

	default:
		p.errHere(diag.SynExpectExpression,
			fmt.Sprintf("expected expression, found %s", tok.Kind))
		return nil
	}
}
