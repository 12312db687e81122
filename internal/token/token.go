package token

import (
	"muscript/internal/caseins"
	"muscript/internal/source"
)

// Token represents a single source token.
type Token struct {
	Kind    Kind
	Channel Channel
	Span    source.Span
	Text    string
}

// IsKeyword reports whether the token is an identifier spelled like kw,
// ignoring ASCII case. UnrealScript keywords are recognized this way at the
// parser level; the lexer only ever emits Ident.
func (t Token) IsKeyword(kw string) bool {
	return t.Kind == Ident && caseins.Equal(t.Text, kw)
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsOperator reports whether the token is an operator or punctuation.
func (t Token) IsOperator() bool {
	return t.Kind >= Plus && t.Kind <= Hash
}

// IsDelimiter reports whether the token is a bracket delimiter.
func (t Token) IsDelimiter() bool {
	return t.Kind.IsOpenDelim() || t.Kind.IsCloseDelim()
}
