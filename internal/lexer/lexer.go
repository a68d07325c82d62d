package lexer

import (
	"chert/internal/diag"
	"chert/internal/source"
	"chert/internal/token"
)

type Options struct {
	// Reporter receives lexical diagnostics; nil drops them but scanning
	// continues either way.
	Reporter diag.Reporter
}

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token   // one-token lookahead buffer
	hold   []token.Trivia // leading trivia collected for the next token
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next returns the next significant token with its Leading trivia attached.
// After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	// trivia before EOF is dropped, EOF carries no Leading
	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: lx.emptySpan(),
		}
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		tok = lx.scanIdentOrKeyword()
	case isDec(ch):
		tok = lx.scanNumber()
	case ch == '"':
		tok = lx.scanString()
	default:
		tok = lx.scanOperatorOrPunct()
	}

	tok.Leading = lx.hold
	lx.hold = nil
	return tok
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// Scan lexes the whole file into a slice ending with the EOF token.
func Scan(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	out := make([]token.Token, 0, len(file.Content)/6)
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil, nil)
	}
}

func (lx *Lexer) warnLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevWarning, sp, msg, nil, nil)
	}
}
