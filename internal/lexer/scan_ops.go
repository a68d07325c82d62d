package lexer

import (
	"chert/internal/diag"
	"chert/internal/token"
)

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	mk := func(kind token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	// two-byte operators first, longest match wins
	switch {
	case lx.try2('=', '='):
		return mk(token.EqEq)
	case lx.try2('!', '='):
		return mk(token.BangEq)
	case lx.try2('<', '='):
		return mk(token.LtEq)
	case lx.try2('>', '='):
		return mk(token.GtEq)
	case lx.try2('&', '&'):
		return mk(token.AndAnd)
	case lx.try2('|', '|'):
		return mk(token.OrOr)
	}

	b := lx.cursor.Bump()
	switch b {
	case '+':
		return mk(token.Plus)
	case '-':
		return mk(token.Minus)
	case '*':
		return mk(token.Star)
	case '/':
		return mk(token.Slash)
	case '%':
		return mk(token.Percent)
	case '=':
		return mk(token.Assign)
	case '!':
		return mk(token.Bang)
	case '<':
		return mk(token.Lt)
	case '>':
		return mk(token.Gt)
	case ';':
		return mk(token.Semicolon)
	case ',':
		return mk(token.Comma)
	case '.':
		return mk(token.Dot)
	case '(':
		return mk(token.LParen)
	case ')':
		return mk(token.RParen)
	case '{':
		return mk(token.LBrace)
	case '}':
		return mk(token.RBrace)
	}

	// anything else is a single unknown byte; for stray UTF-8 continue
	// to the end of the rune so we do not report per continuation byte
	if b >= utf8RuneSelf {
		for !lx.cursor.EOF() && lx.cursor.Peek() >= 0x80 && lx.cursor.Peek() < 0xC0 {
			lx.cursor.Bump()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	tok := token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	lx.errLex(diag.LexUnknownChar, sp, "unknown character")
	return tok
}
