package parser

import (
	"muscript/internal/diag"
	"muscript/internal/source"
	"muscript/internal/token"
)

func (p *Parser) peek() token.Token  { return p.st.Peek() }
func (p *Parser) peek2() token.Token { return p.st.Peek2() }

func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) atKw(kw string) bool { return p.peek().IsKeyword(kw) }

// advance consumes the next token, maintaining the bracket stack and the
// last-consumed span used for end-of-input diagnostics.
func (p *Parser) advance() token.ID {
	id := p.st.Next()
	tok := p.arena.Get(id)
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
		p.lastID = id
	}
	switch {
	case tok.Kind.IsOpenDelim():
		p.brackets = append(p.brackets, tok.Kind)
	case tok.Kind.IsCloseDelim():
		if n := len(p.brackets); n > 0 && p.brackets[n-1] == tok.Kind.Matching() {
			p.brackets = p.brackets[:n-1]
		}
	}
	return id
}

// level is the current bracket nesting depth.
func (p *Parser) level() int { return len(p.brackets) }

// diagSpan returns the best span for a diagnostic at the cursor: the next
// token, or the position just past the last consumed token at EOF.
func (p *Parser) diagSpan() source.Span {
	tok := p.peek()
	if tok.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return tok.Span
}

// expect consumes a token of kind k or reports code with msg.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.ID, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.err(code, msg).Emit()
	return p.lastID, false
}

// expectIdent consumes an identifier or reports what was expected instead.
func (p *Parser) expectIdent(what string) (token.Token, token.ID, bool) {
	if p.at(token.Ident) {
		id := p.advance()
		return p.arena.Get(id), id, true
	}
	p.err(diag.SynExpectIdentifier, "expected "+what+", found `"+p.peek().Text+"`").Emit()
	return token.Token{Kind: token.Invalid, Span: p.diagSpan()}, p.lastID, false
}

// expectSemicolon consumes a statement/declaration terminator.
func (p *Parser) expectSemicolon() {
	if p.at(token.Semicolon) {
		p.advance()
		return
	}
	p.err(diag.SynExpectSemicolon, "expected `;`").Emit()
}

func (p *Parser) err(code diag.Code, msg string) *diag.ReportBuilder {
	return p.errAt(code, p.diagSpan(), msg)
}

// errAt builds an error diagnostic, honoring the error budget. Callers must
// finish the chain with Emit; the builder is nil when over budget, and the
// builder methods tolerate nil.
func (p *Parser) errAt(code diag.Code, sp source.Span, msg string) *diag.ReportBuilder {
	p.opts.CurrentErrors++
	if p.opts.Enough() && p.opts.CurrentErrors > p.opts.MaxErrors {
		return nil
	}
	return diag.Error(p.opts.Reporter, code, sp, msg)
}

// spanOf resolves a token ID to its byte span.
func (p *Parser) spanOf(id token.ID) source.Span {
	return p.arena.Get(id).Span
}
