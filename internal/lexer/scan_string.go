package lexer

import (
	"chert/internal/diag"
	"chert/internal/token"
)

// scanString scans a double-quoted string literal. Token.Text is the raw
// source slice including quotes; escape decoding happens in the parser
// when the value is needed. Strings do not span lines.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()

		if b == '\\' {
			lx.cursor.Bump()
			esc := lx.cursor.Peek()
			switch esc {
			case '"', '\\', 'n', 't', 'r':
				lx.cursor.Bump()
			default:
				escStart := lx.cursor.Off - 1
				lx.cursor.Bump()
				lx.errLex(diag.LexBadEscape,
					lx.spanAt(escStart, lx.cursor.Off),
					"invalid escape sequence")
			}
			continue
		}

		if b == '\n' {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "newline in string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}

		lx.cursor.Bump()
		if b == '"' {
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
	}

	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
