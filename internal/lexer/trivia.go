package lexer

import (
	"strings"

	"chert/internal/diag"
	"chert/internal/token"
)

// collectLeadingTrivia gathers consecutive trivia before a significant token:
// runs of spaces/tabs coalesce into one TriviaSpace, runs of newlines into
// one TriviaNewline, '//...' becomes TriviaLineComment, '///...' becomes
// TriviaDocLine with the marker stripped, and '/* ... */' (nesting allowed)
// becomes TriviaBlockComment. An unterminated block comment is reported and
// clipped at EOF.
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		if b == ' ' || b == '\t' {
			for {
				b2 := lx.cursor.Peek()
				if b2 != ' ' && b2 != '\t' {
					break
				}
				lx.cursor.Bump()
			}
			sp := lx.cursor.SpanFrom(start)
			lx.hold = append(lx.hold, token.Trivia{
				Kind: token.TriviaSpace,
				Span: sp,
				Text: string(lx.file.Content[sp.Start:sp.End]),
			})
			continue
		}

		if b == '\n' {
			for lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
			}
			sp := lx.cursor.SpanFrom(start)
			lx.hold = append(lx.hold, token.Trivia{
				Kind: token.TriviaNewline,
				Span: sp,
				Text: string(lx.file.Content[sp.Start:sp.End]),
			})
			continue
		}

		if b == '/' {
			if lx.scanCommentIntoHold() {
				continue
			}
		}

		break
	}
}

func (lx *Lexer) scanCommentIntoHold() bool {
	start := lx.cursor.Mark()
	if !lx.cursor.Eat('/') {
		return false
	}

	switch lx.cursor.Peek() {
	case '/': // "//" or "///"
		lx.cursor.Bump()
		kind := token.TriviaLineComment
		if lx.cursor.Peek() == '/' {
			lx.cursor.Bump()
			kind = token.TriviaDocLine
		}
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		text := string(lx.file.Content[sp.Start:sp.End])
		if kind == token.TriviaDocLine {
			text = strings.TrimPrefix(text, "///")
			text = strings.TrimPrefix(text, " ")
		}
		lx.hold = append(lx.hold, token.Trivia{Kind: kind, Span: sp, Text: text})
		return true

	case '*': // "/* ... */" with nesting
		lx.cursor.Bump()
		depth := 1
		for !lx.cursor.EOF() && depth > 0 {
			if b0, b1, ok := lx.cursor.Peek2(); ok {
				if b0 == '/' && b1 == '*' {
					lx.cursor.Bump()
					lx.cursor.Bump()
					depth++
					continue
				}
				if b0 == '*' && b1 == '/' {
					lx.cursor.Bump()
					lx.cursor.Bump()
					depth--
					continue
				}
			}
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		if depth > 0 {
			lx.errLex(diag.LexUnterminatedBlockComment, sp, "unterminated block comment")
		}
		lx.hold = append(lx.hold, token.Trivia{
			Kind: token.TriviaBlockComment,
			Span: sp,
			Text: string(lx.file.Content[sp.Start:sp.End]),
		})
		return true

	default:
		// not a comment, let it scan as the '/' operator
		lx.cursor.Reset(start)
		return false
	}
}
