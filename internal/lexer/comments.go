package lexer

import (
	"muscript/internal/diag"
	"muscript/internal/token"
)

// scanComment читает // до конца строки или вложимый /* ... */.
// Комментарий — полноценный токен на канале Comment.
func (lx *Lexer) scanComment() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '/'
	second := lx.cursor.Bump()

	if second == '/' {
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.Comment, Channel: token.ChannelComment, Span: sp, Text: lx.text(sp)}
	}

	// /* ... */ с поддержкой вложенности
	depth := 1
	for depth > 0 && !lx.cursor.EOF() {
		b0, b1, ok := lx.cursor.Peek2()
		if ok && b0 == '/' && b1 == '*' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			depth++
			continue
		}
		if ok && b0 == '*' && b1 == '/' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			depth--
			continue
		}
		lx.cursor.Bump()
	}

	sp := lx.cursor.SpanFrom(start)
	if depth > 0 {
		lx.report(diag.LexUnterminatedBlockComment, sp, "unterminated block comment")
	}
	return token.Token{Kind: token.Comment, Channel: token.ChannelComment, Span: sp, Text: lx.text(sp)}
}
