package lexer

import (
	"muscript/internal/caseins"
	"muscript/internal/diag"
	"muscript/internal/source"
	"muscript/internal/token"
)

// Lexer produces tokens for a single .uc source file. It is a streaming
// scanner: Next returns one token at a time, whitespace is skipped, and
// comments come back as tokens on the Comment channel.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // 1-элементный буфер для токена
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		look:   nil,
	}
}

// Next возвращает следующий токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipSpace()

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.EmptySpan()}
	}

	ch := lx.cursor.Peek()

	switch {
	case ch == '/' && lx.isCommentStart():
		return lx.scanComment()

	case isIdentStartByte(ch):
		return lx.scanIdent()

	case isDec(ch):
		return lx.scanNumber()

	case ch == '.' && lx.isNumberAfterDot():
		return lx.scanNumber()

	case ch == '"':
		return lx.scanString()

	case ch == '\'':
		return lx.scanName()

	case ch >= 0x80:
		// stray non-ASCII outside literals and comments
		start := lx.cursor.Mark()
		for !lx.cursor.EOF() && lx.cursor.Peek() >= 0x80 {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.report(diag.LexNonASCII, sp, "non-ASCII character in code")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}

	default:
		return lx.scanOperatorOrPunct()
	}
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// EmptySpan returns a zero-length span at the current position.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}

func (lx *Lexer) skipSpace() {
	for !lx.cursor.EOF() && isSpaceByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) isCommentStart() bool {
	b0, b1, ok := lx.cursor.Peek2()
	return ok && b0 == '/' && (b1 == '/' || b1 == '*')
}

func (lx *Lexer) isNumberAfterDot() bool {
	_, b1, ok := lx.cursor.Peek2()
	return ok && isDec(b1)
}

// Tokenize лексирует весь файл в арену и возвращает диапазон ID
// (включая завершающий EOF).
//
// A `cpptext` or `structcpptext` identifier followed by `{` switches the
// scanner into raw mode: the braced region is C++, not UnrealScript, and
// must not be tokenized. The interior is captured whole as a single Blob
// token between ordinary brace tokens, so the parser still sees a balanced
// lazy block.
func Tokenize(file *source.File, arena *token.Arena, opts Options) token.Span {
	lx := New(file, opts)
	start := token.ID(arena.Len())
	for {
		tok := lx.Next()
		arena.Push(tok)

		if tok.Kind == token.Ident && isCppBlobIntro(tok.Text) {
			lx.cppBlobInto(arena)
		}

		if tok.Kind == token.EOF {
			break
		}
	}
	return token.Span{Start: start, End: token.ID(arena.Len())}
}

func isCppBlobIntro(text string) bool {
	return caseins.Equal(text, "cpptext") || caseins.Equal(text, "structcpptext")
}

// cppBlobInto consumes `{ raw }` after a cpptext introducer, emitting the
// brace tokens and one Blob token for the raw interior.
func (lx *Lexer) cppBlobInto(arena *token.Arena) {
	lx.skipSpace()
	if lx.cursor.Peek() != '{' {
		// не блок — пусть обычный проход разбирается
		return
	}
	openMark := lx.cursor.Mark()
	lx.cursor.Bump()
	openSpan := lx.cursor.SpanFrom(openMark)
	arena.Push(token.Token{Kind: token.LBrace, Span: openSpan, Text: "{"})

	inner, closeSpan, ok := lx.rawBraced(openSpan)
	arena.Push(token.Token{Kind: token.Blob, Span: inner, Text: lx.text(inner)})
	if ok {
		arena.Push(token.Token{Kind: token.RBrace, Span: closeSpan, Text: "}"})
	}
}
