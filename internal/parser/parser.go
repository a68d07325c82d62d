package parser

import (
	"strings"

	"chert/internal/ast"
	"chert/internal/diag"
	"chert/internal/lexer"
	"chert/internal/source"
	"chert/internal/token"
)

type Options struct {
	// MaxErrors stops reporting (not parsing) once reached; 0 is unlimited.
	MaxErrors uint
	Reporter  diag.Reporter
}

// Parser holds the state for parsing a single file.
type Parser struct {
	toks     []token.Token
	pos      int
	file     *source.File
	path     string
	opts     Options
	errCount uint
}

// ParseFile lexes and parses one file into a SourceUnit. The unit is
// always returned; syntax errors go through opts.Reporter.
func ParseFile(file *source.File, path string, opts Options) *ast.SourceUnit {
	toks := lexer.Scan(file, lexer.Options{Reporter: opts.Reporter})
	p := Parser{
		toks: toks,
		file: file,
		path: path,
		opts: opts,
	}
	return p.parseUnit()
}

func (p *Parser) parseUnit() *ast.SourceUnit {
	unit := &ast.SourceUnit{
		Path: p.path,
		File: p.file.ID,
		Sp:   source.Span{File: p.file.ID, Start: 0, End: uint32(len(p.file.Content))},
	}
	for !p.at(token.EOF) {
		before := p.pos
		if d := p.parseItem(); d != nil {
			unit.Decls = append(unit.Decls, d)
		}
		// always make progress, even on garbage
		if p.pos == before {
			p.next()
		}
	}
	return unit
}

// ===== token access =====

func (p *Parser) cur() token.Token {
	return p.toks[p.pos]
}

// peekAt looks n tokens ahead; out of range clamps to EOF.
func (p *Parser) peekAt(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) at(k token.Kind) bool {
	return p.cur().Kind == k
}

func (p *Parser) next() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// eat consumes the current token when it matches.
func (p *Parser) eat(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.next(), true
	}
	return token.Token{}, false
}

// expect consumes a token of kind k or reports code at the current token.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if tok, ok := p.eat(k); ok {
		return tok, true
	}
	p.errHere(code, msg)
	return token.Token{}, false
}

// ===== diagnostics =====

func (p *Parser) enough() bool {
	return p.opts.MaxErrors != 0 && p.errCount >= p.opts.MaxErrors
}

func (p *Parser) err(code diag.Code, sp source.Span, msg string) {
	if p.enough() {
		return
	}
	p.errCount++
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(code, diag.SevError, sp, msg, nil, nil)
	}
}

func (p *Parser) errHere(code diag.Code, msg string) {
	p.err(code, p.cur().Span, msg)
}

// ===== recovery =====

// syncItem skips ahead to something that can start a top-level item.
func (p *Parser) syncItem() {
	for !p.at(token.EOF) {
		switch p.cur().Kind {
		case token.KwImport, token.KwStruct, token.KwContract,
			token.KwInt, token.KwUint, token.KwBool, token.KwString, token.KwVoid:
			return
		case token.Semicolon, token.RBrace:
			p.next()
			return
		}
		p.next()
	}
}

// syncStmt skips to the end of the broken statement.
func (p *Parser) syncStmt() {
	for !p.at(token.EOF) {
		switch p.cur().Kind {
		case token.Semicolon:
			p.next()
			return
		case token.RBrace:
			return
		}
		p.next()
	}
}

// ===== small helpers =====

func (p *Parser) semi() {
	if _, ok := p.eat(token.Semicolon); !ok {
		p.errHere(diag.SynExpectSemicolon, "expected ';'")
		p.syncStmt()
	}
}

// decodeString strips quotes and resolves the escapes the lexer accepted.
func decodeString(raw string) string {
	raw = strings.TrimPrefix(raw, `"`)
	raw = strings.TrimSuffix(raw, `"`)
	if !strings.Contains(raw, `\`) {
		return raw
	}
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			b.WriteByte(c)
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		default:
			// lexer already reported it; keep the bytes
			b.WriteByte('\\')
			b.WriteByte(raw[i])
		}
	}
	return b.String()
}
