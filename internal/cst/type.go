package cst

import (
	"muscript/internal/caseins"
	"muscript/internal/token"
)

// TypeRef is a syntactic type: a name, optionally with one generic argument
// (`Class<Pawn>`, `Array<Int>`). Resolution to a semantic type happens in
// the analyzer.
type TypeRef struct {
	Spanned
	Name     caseins.Name
	NameSpan token.Span
	Arg      *TypeRef // nil unless `Name<Arg>`
}

// IsGeneric reports whether the reference carries a generic argument.
func (t *TypeRef) IsGeneric() bool { return t.Arg != nil }
