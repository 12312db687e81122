package token

import (
	"fmt"

	"fortio.org/safecast"

	"muscript/internal/source"
)

// ID is a stable index into the token arena. An ID identifies both the
// token and, through the token's span, the source file it came from.
type ID uint32

// Arena is a process-wide append-only store of tokens. Tokens are never
// moved or freed; IDs stay valid for the lifetime of the compilation.
type Arena struct {
	tokens []Token
}

// NewArena creates an empty token arena.
func NewArena() *Arena {
	return &Arena{tokens: make([]Token, 0, 1024)}
}

// Push appends a token and returns its ID.
func (a *Arena) Push(t Token) ID {
	lenTokens, err := safecast.Conv[uint32](len(a.tokens))
	if err != nil {
		panic(fmt.Errorf("token arena overflow: %w", err))
	}
	id := ID(lenTokens)
	a.tokens = append(a.tokens, t)
	return id
}

// Get returns the token with the given ID.
func (a *Arena) Get(id ID) Token {
	return a.tokens[id]
}

// Len returns the number of tokens in the arena.
func (a *Arena) Len() int {
	return len(a.tokens)
}

// File returns the source file the token belongs to.
func (a *Arena) File(id ID) source.FileID {
	return a.tokens[id].Span.File
}
