package lexer

import (
	"muscript/internal/diag"
	"muscript/internal/token"
)

// scanString читает двухкавычечный литерал с экранированием \\ и \".
// Незакрытая строка (EOL/EOF) — диагностика; токен обрезается на месте.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case '"':
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp)}
		case '\n':
			sp := lx.cursor.SpanFrom(start)
			lx.report(diag.LexUnterminatedString, sp, "unterminated string literal")
			return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp)}
		case '\\':
			escMark := lx.cursor.Mark()
			lx.cursor.Bump()
			switch lx.cursor.Peek() {
			case '\\', '"', 'n', 't':
				lx.cursor.Bump()
			default:
				lx.cursor.Bump()
				lx.report(diag.LexBadEscape, lx.cursor.SpanFrom(escMark), "invalid escape sequence")
			}
		default:
			lx.cursor.Bump()
		}
	}

	sp := lx.cursor.SpanFrom(start)
	lx.report(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp)}
}

// scanName читает 'Имя' — однокавычечный литерал с содержимым-идентификатором
// (движок допускает также пробелы и точки внутри имён объектов).
func (lx *Lexer) scanName() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '\''

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\'' {
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.NameLit, Span: sp, Text: lx.text(sp)}
		}
		if b == '\n' {
			break
		}
		lx.cursor.Bump()
	}

	sp := lx.cursor.SpanFrom(start)
	lx.report(diag.LexUnterminatedName, sp, "unterminated name literal")
	return token.Token{Kind: token.NameLit, Span: sp, Text: lx.text(sp)}
}
