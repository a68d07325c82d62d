package token

import (
	"chert/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric, boolean, or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, StringLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool {
	switch t.Kind {
	case Plus, Minus, Star, Slash, Percent, Assign, EqEq, Bang, BangEq,
		Lt, LtEq, Gt, GtEq, AndAnd, OrOr, Semicolon, Comma, Dot,
		LParen, RParen, LBrace, RBrace:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwImport, KwAs, KwStruct, KwContract, KwReturn, KwIf, KwElse,
		KwWhile, KwTrue, KwFalse, KwInt, KwUint, KwBool, KwString, KwVoid:
		return true
	default:
		return false
	}
}

// IsTypeKeyword reports whether the token names a builtin type.
func (t Token) IsTypeKeyword() bool {
	switch t.Kind {
	case KwInt, KwUint, KwBool, KwString, KwVoid:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// DocText returns the doc comment attached to the token, assembled from
// leading '///' trivia lines, or "" when there is none.
func (t Token) DocText() string {
	var out []byte
	for _, tr := range t.Leading {
		if tr.Kind != TriviaDocLine {
			continue
		}
		if len(out) > 0 {
			out = append(out, '\n')
		}
		out = append(out, tr.Text...)
	}
	return string(out)
}
