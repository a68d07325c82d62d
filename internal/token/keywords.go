package token

var keywords = map[string]Kind{
	"import":   KwImport,
	"as":       KwAs,
	"struct":   KwStruct,
	"contract": KwContract,
	"return":   KwReturn,
	"if":       KwIf,
	"else":     KwElse,
	"while":    KwWhile,
	"true":     KwTrue,
	"false":    KwFalse,
	"int":      KwInt,
	"uint":     KwUint,
	"bool":     KwBool,
	"string":   KwString,
	"void":     KwVoid,
}

// LookupKeyword returns the keyword kind for ident, if it is one.
// Keywords are case-sensitive; only the lowercase forms are recognized.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
