package lexer

import (
	"strconv"

	"muscript/internal/diag"
	"muscript/internal/source"
	"muscript/internal/token"
)

// Поддержка: 123, 0x1ABC, 1.0, 1e-3, 1.5e+10, .25.
// Неверные формы и переполнение — репорт в opts.Reporter; токен по
// возможности завершаем, значение при переполнении считается нулём.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	// ведущая точка — формат ".digits" (вызывается после isNumberAfterDot)
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		kind = token.FloatLit
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return lx.finishNumber(start, kind, lx.scanExponent(&kind))
	}

	// ведущий 0x?
	if lx.cursor.Peek() == '0' {
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == 'x' || b == 'X' {
			lx.cursor.Bump()
			if !isHex(lx.cursor.Peek()) {
				sp := lx.cursor.SpanFrom(start)
				lx.report(diag.LexBadNumber, sp, "expected hex digit after `0x`")
				return token.Token{Kind: token.IntLit, Span: sp, Text: lx.text(sp)}
			}
			for isHex(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
			return lx.finishNumber(start, token.IntLit, true)
		}
	}

	// десятичная целая часть
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	// дробная часть: '.' за которой цифра; '..' — не часть числа
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && isDec(b1) {
		kind = token.FloatLit
		lx.cursor.Bump() // '.'
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	return lx.finishNumber(start, kind, lx.scanExponent(&kind))
}

// scanExponent съедает [eE][+-]?digits, если есть.
// Возвращает false при ошибке формата (уже зарепорченной).
func (lx *Lexer) scanExponent(kind *token.Kind) bool {
	b := lx.cursor.Peek()
	if b != 'e' && b != 'E' {
		return true
	}
	// после целого без точки 1e5 — тоже float
	*kind = token.FloatLit
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	if b := lx.cursor.Peek(); b == '+' || b == '-' {
		lx.cursor.Bump()
	}
	if !isDec(lx.cursor.Peek()) {
		sp := lx.cursor.SpanFrom(start)
		lx.report(diag.LexBadNumber, sp, "expected digit after exponent")
		return false
	}
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return true
}

func (lx *Lexer) finishNumber(start Mark, kind token.Kind, wellFormed bool) token.Token {
	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	if wellFormed {
		lx.checkOverflow(kind, sp, text)
	}
	return token.Token{Kind: kind, Span: sp, Text: text}
}

// checkOverflow валидирует значение: int — 32 бита, float — float32.
func (lx *Lexer) checkOverflow(kind token.Kind, sp source.Span, text string) {
	switch kind {
	case token.IntLit:
		var err error
		if len(text) > 2 && (text[1] == 'x' || text[1] == 'X') {
			_, err = strconv.ParseUint(text[2:], 16, 32)
		} else {
			_, err = strconv.ParseInt(text, 10, 32)
		}
		if err != nil {
			lx.report(diag.LexBadNumber, sp, "integer literal does not fit in 32 bits")
		}
	case token.FloatLit:
		if _, err := strconv.ParseFloat(text, 32); err != nil {
			lx.report(diag.LexBadNumber, sp, "float literal out of range")
		}
	}
}
