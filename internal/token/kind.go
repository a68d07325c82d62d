package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident

	// KwImport represents the 'import' keyword.
	KwImport // import
	// KwAs represents the 'as' keyword.
	KwAs // as
	// KwStruct represents the 'struct' keyword.
	KwStruct // struct
	// KwContract represents the 'contract' keyword.
	KwContract // contract
	// KwReturn represents the 'return' keyword.
	KwReturn // return
	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwElse represents the 'else' keyword.
	KwElse // else
	// KwWhile represents the 'while' keyword.
	KwWhile // while
	// KwTrue represents the 'true' keyword.
	KwTrue // true
	// KwFalse represents the 'false' keyword.
	KwFalse // false
	// KwInt represents the 'int' builtin type keyword.
	KwInt // int
	// KwUint represents the 'uint' builtin type keyword.
	KwUint // uint
	// KwBool represents the 'bool' builtin type keyword.
	KwBool // bool
	// KwString represents the 'string' builtin type keyword.
	KwString // string
	// KwVoid represents the 'void' builtin type keyword.
	KwVoid // void

	// IntLit represents the integer literal token.
	IntLit
	// StringLit represents the string literal token.
	StringLit

	// Plus represents the plus operator token.
	Plus // +
	// Minus represents the minus operator token.
	Minus // -
	// Star represents the star operator token.
	Star // *
	// Slash represents the slash operator token.
	Slash // /
	// Percent represents the percent operator token.
	Percent // %
	// Assign represents the assign operator token.
	Assign // =
	// EqEq represents the equality operator token.
	EqEq // ==
	// Bang represents the logical not operator token.
	Bang // !
	// BangEq represents the inequality operator token.
	BangEq // !=
	// Lt represents the less-than operator token.
	Lt // <
	// LtEq represents the less-or-equal operator token.
	LtEq // <=
	// Gt represents the greater-than operator token.
	Gt // >
	// GtEq represents the greater-or-equal operator token.
	GtEq // >=
	// AndAnd represents the logical and operator token.
	AndAnd // &&
	// OrOr represents the logical or operator token.
	OrOr // ||
	// Semicolon represents the semicolon token.
	Semicolon // ;
	// Comma represents the comma token.
	Comma // ,
	// Dot represents the dot token.
	Dot // .
	// LParen represents the left parenthesis token.
	LParen // (
	// RParen represents the right parenthesis token.
	RParen // )
	// LBrace represents the left brace token.
	LBrace // {
	// RBrace represents the right brace token.
	RBrace // }
)

var kindNames = map[Kind]string{
	Invalid:    "invalid token",
	EOF:        "end of file",
	Ident:      "identifier",
	KwImport:   "'import'",
	KwAs:       "'as'",
	KwStruct:   "'struct'",
	KwContract: "'contract'",
	KwReturn:   "'return'",
	KwIf:       "'if'",
	KwElse:     "'else'",
	KwWhile:    "'while'",
	KwTrue:     "'true'",
	KwFalse:    "'false'",
	KwInt:      "'int'",
	KwUint:     "'uint'",
	KwBool:     "'bool'",
	KwString:   "'string'",
	KwVoid:     "'void'",
	IntLit:     "integer literal",
	StringLit:  "string literal",
	Plus:       "'+'",
	Minus:      "'-'",
	Star:       "'*'",
	Slash:      "'/'",
	Percent:    "'%'",
	Assign:     "'='",
	EqEq:       "'=='",
	Bang:       "'!'",
	BangEq:     "'!='",
	Lt:         "'<'",
	LtEq:       "'<='",
	Gt:         "'>'",
	GtEq:       "'>='",
	AndAnd:     "'&&'",
	OrOr:       "'||'",
	Semicolon:  "';'",
	Comma:      "','",
	Dot:        "'.'",
	LParen:     "'('",
	RParen:     "')'",
	LBrace:     "'{'",
	RBrace:     "'}'",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown token"
}
