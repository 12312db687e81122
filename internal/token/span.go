package token

import (
	"muscript/internal/source"
)

// Span is a half-open range [Start, End) of token IDs. The zero value is
// the empty span. A non-empty span's tokens all belong to one source file.
type Span struct {
	Start ID
	End   ID
}

// Single returns the span covering exactly one token.
func Single(id ID) Span {
	return Span{Start: id, End: id + 1}
}

// Empty reports whether the span covers no tokens.
func (s Span) Empty() bool {
	return s.End <= s.Start
}

// Len returns the number of tokens the span covers.
func (s Span) Len() uint32 {
	if s.Empty() {
		return 0
	}
	return uint32(s.End - s.Start)
}

// Join returns the minimal span covering both s and other.
// Joining with an empty span is the identity.
func (s Span) Join(other Span) Span {
	if s.Empty() {
		return other
	}
	if other.Empty() {
		return s
	}
	out := s
	if other.Start < out.Start {
		out.Start = other.Start
	}
	if other.End > out.End {
		out.End = other.End
	}
	return out
}

// Source resolves the token span into the covering byte span.
func (s Span) Source(a *Arena) source.Span {
	if s.Empty() {
		return source.Span{}
	}
	first := a.Get(s.Start).Span
	last := a.Get(s.End - 1).Span
	return first.Cover(last)
}
