package parser

import (
	"muscript/internal/caseins"
	"muscript/internal/cst"
	"muscript/internal/diag"
	"muscript/internal/token"
)

// parseTypeRef parses a syntactic type: an identifier, optionally carrying
// one generic argument (`array<Int>`, `class<Pawn>`).
func (p *Parser) parseTypeRef() (*cst.TypeRef, bool) {
	if !p.at(token.Ident) {
		p.err(diag.SynExpectType, "expected type, found `"+p.peek().Text+"`").Emit()
		return nil, false
	}
	nameID := p.advance()
	name := p.arena.Get(nameID)

	ref := &cst.TypeRef{
		Name:     caseins.NewName(name.Text),
		NameSpan: token.Single(nameID),
	}
	span := token.Single(nameID)

	if p.at(token.Lt) {
		p.advance()
		arg, ok := p.parseTypeRef()
		if !ok {
			return ref, false
		}
		ref.Arg = arg
		gt, ok := p.expect(token.Gt, diag.SynUnexpectedToken, "expected `>` to close generic argument")
		if ok {
			span = span.Join(token.Single(gt))
		} else {
			span = span.Join(arg.Span())
		}
	}
	ref.SetSpan(span)
	return ref, true
}
