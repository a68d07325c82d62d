package source

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) within a single file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

// Contains reports whether the byte offset falls inside the span.
// Empty spans contain nothing.
func (s Span) Contains(off uint32) bool {
	return s.Start <= off && off < s.End
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover widens the span to include other. Spans from different files
// are left untouched.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}
