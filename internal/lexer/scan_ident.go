package lexer

import (
	"muscript/internal/token"
)

// scanIdent читает [A-Za-z_][A-Za-z0-9_]*.
// Ключевые слова здесь НЕ распознаются: UnrealScript регистронезависим и
// многие ключевые слова контекстные, поэтому парсер сверяет текст сам.
func (lx *Lexer) scanIdent() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Ident, Span: sp, Text: lx.text(sp)}
}
