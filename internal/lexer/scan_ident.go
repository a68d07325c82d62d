package lexer

import (
	"golang.org/x/text/unicode/norm"

	"chert/internal/diag"
	"chert/internal/token"
)

// scanIdentOrKeyword scans an identifier and classifies keywords via
// LookupKeyword. Keywords are case-sensitive. Token.Text is the exact
// source slice.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.peekRune()
	if sz == 0 {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.Invalid, Span: sp}
	}

	hasUnicode := false
	if r < utf8RuneSelf {
		if !isIdentStartByte(byte(r)) {
			return lx.scanOperatorOrPunct()
		}
		lx.cursor.Bump()
	} else {
		if !isIdentStartRune(r) {
			return lx.scanOperatorOrPunct()
		}
		hasUnicode = true
		lx.bumpRune()
	}

	for {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r2, sz2 := lx.peekRune()
		if sz2 == 0 || !isIdentContinueRune(r2) {
			break
		}
		hasUnicode = true
		lx.bumpRune()
	}

	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])

	if hasUnicode && !norm.NFC.IsNormalString(text) {
		lx.warnLex(diag.LexNonNFCIdent, sp, "identifier is not NFC-normalized; it will not match its composed form")
	}

	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}
