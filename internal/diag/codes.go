package diag

import (
	"fmt"
)

// Code is a compact, stable identifier of a diagnostic kind. Ranges are
// reserved per pipeline phase: 1000 lexer, 2000 parser, 3000 semantic
// analysis, 4000 driver I/O.
type Code uint16

const (
	UnknownCode Code = 0

	// lexical
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexBadEscape                Code = 1005
	LexNonNFCIdent              Code = 1006

	// syntax
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynExpectSemicolon  Code = 2002
	SynExpectIdentifier Code = 2003
	SynExpectType       Code = 2004
	SynExpectExpression Code = 2005
	SynUnclosedParen    Code = 2006
	SynUnclosedBrace    Code = 2007
	SynExpectImportPath Code = 2008
	SynExpectMember     Code = 2009
	SynBadAssignTarget  Code = 2010
	SynStrayTopLevel    Code = 2011
	SynExpectParam      Code = 2012

	// semantic
	SemaInfo               Code = 3000
	SemaDuplicateSymbol    Code = 3001
	SemaUnresolvedSymbol   Code = 3002
	SemaUnknownMember      Code = 3003
	SemaTypeMismatch       Code = 3004
	SemaNotCallable        Code = 3005
	SemaNoMatchingOverload Code = 3006
	SemaAmbiguousCall      Code = 3007
	SemaCondNotBool        Code = 3008
	SemaNotAssignable      Code = 3009
	SemaVoidValue          Code = 3010
	SemaImportNotFound     Code = 3011
	SemaImportCycle        Code = 3012
	SemaNotAType           Code = 3013
	SemaNotAModule         Code = 3014
	SemaMissingReturn      Code = 3015
	SemaUnusedLocal        Code = 3016
	SemaShadowedDecl       Code = 3017

	// driver I/O
	IOInfo          Code = 4000
	IOLoadFileError Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown diagnostic",

	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed number literal",
	LexBadEscape:                "Invalid escape sequence",
	LexNonNFCIdent:              "Identifier is not NFC-normalized",

	SynInfo:             "Syntax information",
	SynUnexpectedToken:  "Unexpected token",
	SynExpectSemicolon:  "Expected ';'",
	SynExpectIdentifier: "Expected identifier",
	SynExpectType:       "Expected type",
	SynExpectExpression: "Expected expression",
	SynUnclosedParen:    "Unclosed '('",
	SynUnclosedBrace:    "Unclosed '{'",
	SynExpectImportPath: "Expected import path string",
	SynExpectMember:     "Expected member name after '.'",
	SynBadAssignTarget:  "Invalid assignment target",
	SynStrayTopLevel:    "Declaration expected at top level",
	SynExpectParam:      "Expected parameter declaration",

	SemaInfo:               "Semantic information",
	SemaDuplicateSymbol:    "Duplicate declaration",
	SemaUnresolvedSymbol:   "Unresolved symbol",
	SemaUnknownMember:      "Unknown member",
	SemaTypeMismatch:       "Type mismatch",
	SemaNotCallable:        "Expression is not callable",
	SemaNoMatchingOverload: "No matching overload",
	SemaAmbiguousCall:      "Ambiguous call",
	SemaCondNotBool:        "Condition must be bool",
	SemaNotAssignable:      "Cannot assign to this expression",
	SemaVoidValue:          "void used as a value",
	SemaImportNotFound:     "Imported file not found",
	SemaImportCycle:        "Import cycle",
	SemaNotAType:           "Not a type",
	SemaNotAModule:         "Not an imported module",
	SemaMissingReturn:      "Missing return value",
	SemaUnusedLocal:        "Unused local variable",
	SemaShadowedDecl:       "Declaration shadows an earlier one",

	IOInfo:          "Driver information",
	IOLoadFileError: "I/O load file error",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
