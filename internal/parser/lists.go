package parser

import (
	"muscript/internal/diag"
	"muscript/internal/token"
)

// delimitedList parses `open elem (, elem)* close`. elem returns false when
// it could not parse an element; the list then drains the bracket region and
// reports nothing further. Returns the IDs of the delimiters (close may be a
// sentinel) and whether parsing stayed on the rails.
func (p *Parser) delimitedList(open, close token.Kind, what string, elem func() bool) (token.ID, token.ID, bool) {
	openID, ok := p.expect(open, diag.SynUnexpectedToken, "expected `"+open.String()+"`")
	if !ok {
		return p.lastID, p.lastID, false
	}
	openLevel := p.level() - 1

	if p.at(close) {
		return openID, p.advance(), true
	}
	for {
		if !elem() {
			return openID, p.recoverBracket(openLevel, close), false
		}
		switch {
		case p.at(token.Comma):
			p.advance()
			if p.at(close) {
				p.err(diag.SynTrailingSeparator, "trailing `,` before `"+close.String()+"`").Emit()
				return openID, p.advance(), true
			}
		case p.at(close):
			return openID, p.advance(), true
		case p.at(token.EOF):
			p.err(diag.SynMissingTerminator, "missing `"+close.String()+"` to close "+what).
				WithLabel(p.spanOf(openID), what+" opened here").
				Emit()
			return openID, p.sentinelClose(close), false
		default:
			p.err(diag.SynMissingSeparator, "expected `,` or `"+close.String()+"` in "+what).Emit()
			return openID, p.recoverBracket(openLevel, close), false
		}
	}
}

// separatedUntil parses `elem (sep elem)*` terminated by a token for which
// stop returns true. The terminator is not consumed. Used for lists closed
// by a keyword rather than a bracket.
func (p *Parser) separatedUntil(sep token.Kind, what string, stop func(token.Token) bool, elem func() bool) bool {
	if stop(p.peek()) {
		return true
	}
	for {
		if !elem() {
			return false
		}
		if p.at(sep) {
			p.advance()
			if stop(p.peek()) {
				p.err(diag.SynTrailingSeparator, "trailing `"+sep.String()+"` in "+what).Emit()
				return true
			}
			continue
		}
		if stop(p.peek()) || p.at(token.EOF) {
			return true
		}
		p.err(diag.SynMissingSeparator, "expected `"+sep.String()+"` in "+what).Emit()
		return false
	}
}
