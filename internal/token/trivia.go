package token

import "chert/internal/source"

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	// TriviaDocLine is a '///' line; its Text carries the content with the
	// marker and one leading space stripped.
	TriviaDocLine
)

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}
