package parser

import (
	"muscript/internal/cst"
	"muscript/internal/diag"
	"muscript/internal/source"
	"muscript/internal/token"
)

// recoverBracket drains tokens until the bracket nesting drops back to
// openLevel (the depth recorded before the opening delimiter was consumed)
// or EOF. If the draining consumed the matching close its ID is returned;
// otherwise a sentinel close token is pushed to the arena. One malformed
// bracket region costs exactly one diagnostic — the caller's.
func (p *Parser) recoverBracket(openLevel int, close token.Kind) token.ID {
	for p.level() > openLevel && !p.at(token.EOF) {
		tok := p.peek()

		// точка остановки: `;` на уровне самого региона — пусть его заберёт
		// внешний парсер инструкции
		if tok.Kind == token.Semicolon && p.level() == openLevel+1 {
			p.brackets = p.brackets[:openLevel]
			return p.sentinelClose(close)
		}
		// закрывающая скобка внешнего региона: не съедаем чужое
		if tok.Kind.IsCloseDelim() && !p.innerHasOpen(openLevel, tok.Kind.Matching()) {
			p.brackets = p.brackets[:openLevel]
			return p.sentinelClose(close)
		}
		p.advance()
	}
	if p.level() <= openLevel && p.arena.Get(p.lastID).Kind == close {
		return p.lastID
	}
	if len(p.brackets) > openLevel {
		p.brackets = p.brackets[:openLevel]
	}
	return p.sentinelClose(close)
}

// innerHasOpen reports whether the bracket stack above base holds an open
// delimiter of the given kind — i.e. the next close token belongs to this
// region, not an enclosing one.
func (p *Parser) innerHasOpen(base int, open token.Kind) bool {
	for i := len(p.brackets) - 1; i >= base; i-- {
		if p.brackets[i] == open {
			return true
		}
	}
	return false
}

// sentinelClose fabricates a zero-width closing token at the cursor so the
// outer parser sees a well-formed region.
func (p *Parser) sentinelClose(kind token.Kind) token.ID {
	at := p.diagSpan()
	return p.arena.Push(token.Token{
		Kind: kind,
		Span: source.Span{File: at.File, Start: at.Start, End: at.Start},
	})
}

// parseLazyBlock consumes `{`, then skims tokens without interpreting them
// until the matching `}`, capturing the interior as a raw token span. The
// interior is parsed only if the analyzer opens the block later.
func (p *Parser) parseLazyBlock() (*cst.LazyBlock, bool) {
	open, ok := p.expect(token.LBrace, diag.SynExpectLBrace, "expected `{`")
	if !ok {
		return nil, false
	}
	openLevel := p.level() - 1

	var inner token.Span
	first := p.st.PeekID()
	for p.level() > openLevel && !p.at(token.EOF) {
		p.advance()
	}

	if p.level() > openLevel {
		// EOF раньше закрывающей скобки
		p.errAt(diag.SynUnclosedBlock, p.diagSpan(), "missing `}` to close block").
			WithLabel(p.spanOf(open), "block opened here").
			Emit()
		close := p.sentinelClose(token.RBrace)
		if p.lastID >= first {
			inner = token.Span{Start: first, End: p.lastID + 1}
		}
		blk := &cst.LazyBlock{Open: open, Inner: inner, Close: close}
		blk.SetSpan(token.Span{Start: open, End: close + 1})
		return blk, true
	}

	close := p.lastID
	if close > first {
		inner = token.Span{Start: first, End: close}
	}
	blk := &cst.LazyBlock{Open: open, Inner: inner, Close: close}
	blk.SetSpan(token.Span{Start: open, End: close + 1})
	return blk, true
}
