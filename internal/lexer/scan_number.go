package lexer

import (
	"chert/internal/diag"
	"chert/internal/token"
)

// scanNumber scans a decimal integer literal. A literal running straight
// into identifier characters ("1abc") is consumed whole and reported.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	if b := lx.cursor.Peek(); isIdentStartByte(b) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadNumber, sp, "malformed number literal")
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.IntLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
