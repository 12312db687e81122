package lexer

import (
	"muscript/internal/diag"
	"muscript/internal/source"
	"muscript/internal/token"
)

// TextBlob читает сырые символы до предиката isEnd, не потребляя сам
// терминатор. Используется для значений метаданных вида
// `<Tooltip=any text|Other=more>`: внутри допустим любой байт.
func (lx *Lexer) TextBlob(isEnd func(b byte) bool) token.Token {
	lx.look = nil
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && !isEnd(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Blob, Span: sp, Text: lx.text(sp)}
}

// BracedString читает сбалансированный `{ ... }`-регион как один спан,
// начиная сразу после уже съеденной открывающей скобки openSpan.
// Возвращаемый спан покрывает регион вместе со скобками.
// Незакрытый регион — одна диагностика с меткой на открывающей скобке.
func (lx *Lexer) BracedString(openSpan source.Span) source.Span {
	inner, closeSpan, ok := lx.rawBraced(openSpan)
	if !ok {
		return openSpan.Cover(inner)
	}
	return openSpan.Cover(closeSpan)
}

// rawBraced сканирует сырой текст до парной `}`, считая вложенные скобки.
// Скобки внутри строк и комментариев C++ не считаются.
func (lx *Lexer) rawBraced(openSpan source.Span) (inner, closeSpan source.Span, ok bool) {
	lx.look = nil
	innerStart := lx.cursor.Mark()
	depth := 1

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case '{':
			lx.cursor.Bump()
			depth++
		case '}':
			innerEnd := lx.cursor.SpanFrom(innerStart)
			closeMark := lx.cursor.Mark()
			lx.cursor.Bump()
			depth--
			if depth == 0 {
				return innerEnd, lx.cursor.SpanFrom(closeMark), true
			}
		case '"':
			lx.skipRawString()
		case '/':
			if lx.isCommentStart() {
				lx.scanComment()
			} else {
				lx.cursor.Bump()
			}
		default:
			lx.cursor.Bump()
		}
	}

	inner = lx.cursor.SpanFrom(innerStart)
	if lx.opts.Reporter != nil {
		diag.Error(lx.opts.Reporter, diag.LexUnterminatedBrace, openSpan, "missing `}` to close braced region").
			WithPrimaryMsg("region opened here").
			Emit()
	}
	return inner, source.Span{}, false
}

// skipRawString пропускает "..." без валидации экранирования.
func (lx *Lexer) skipRawString() {
	lx.cursor.Bump() // '"'
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		if b == '\\' {
			lx.cursor.Bump()
			continue
		}
		if b == '"' || b == '\n' {
			return
		}
	}
}
