// Package token defines the token kinds produced by the lexer, the
// Token value carried through the frontend, and the trivia model used
// to preserve comments and doc lines.
package token
