package parser

import (
	"muscript/internal/caseins"
	"muscript/internal/cst"
	"muscript/internal/diag"
	"muscript/internal/token"
)

// parseStmt dispatches on the first token of a statement.
func (p *Parser) parseStmt() (cst.Stmt, bool) {
	tok := p.peek()
	start := p.st.PeekID()

	switch {
	case tok.Kind == token.Semicolon:
		id := p.advance()
		s := &cst.Empty{}
		s.SetSpan(token.Single(id))
		return s, true

	case tok.Kind == token.LBrace:
		return p.parseBlock()

	case tok.IsKeyword("local"):
		return p.parseLocal(start)

	case tok.IsKeyword("if"):
		return p.parseIf(start)

	case tok.IsKeyword("while"):
		return p.parseWhile(start)

	case tok.IsKeyword("do"):
		return p.parseDo(start)

	case tok.IsKeyword("for"):
		return p.parseFor(start)

	case tok.IsKeyword("foreach"):
		return p.parseForEach(start)

	case tok.IsKeyword("switch"):
		return p.parseSwitch(start)

	case tok.IsKeyword("case"):
		p.advance()
		value, ok := p.parseExpr()
		if ok {
			p.expect(token.Colon, diag.SynUnexpectedToken, "expected `:` after case value")
		}
		s := &cst.Case{Value: value}
		p.closeSpan(&s.Spanned, start)
		return s, ok

	case tok.IsKeyword("default") && p.peek2().Kind == token.Colon:
		p.advance()
		p.advance()
		s := &cst.Case{}
		p.closeSpan(&s.Spanned, start)
		return s, true

	case tok.IsKeyword("return"):
		p.advance()
		s := &cst.Return{}
		ok := true
		if !p.at(token.Semicolon) && !p.at(token.RBrace) && !p.at(token.EOF) {
			s.Value, ok = p.parseExpr()
		}
		if ok {
			p.expectSemicolon()
		}
		p.closeSpan(&s.Spanned, start)
		return s, ok

	case tok.IsKeyword("break"):
		p.advance()
		p.expectSemicolon()
		s := &cst.Break{}
		p.closeSpan(&s.Spanned, start)
		return s, true

	case tok.IsKeyword("continue"):
		p.advance()
		p.expectSemicolon()
		s := &cst.Continue{}
		p.closeSpan(&s.Spanned, start)
		return s, true

	case tok.Kind == token.Ident && p.peek2().Kind == token.Colon && !startsItem(tok):
		p.advance()
		p.advance()
		s := &cst.Labeled{Name: caseins.NewName(tok.Text)}
		p.closeSpan(&s.Spanned, start)
		return s, true

	default:
		expr, ok := p.parseExpr()
		if ok {
			p.expectSemicolon()
		}
		s := &cst.ExprStmt{Expr: expr}
		p.closeSpan(&s.Spanned, start)
		return s, ok
	}
}

// parseBlock parses `{ stmt* }` eagerly. A missing close brace costs exactly
// one diagnostic, labeled at the opening brace.
func (p *Parser) parseBlock() (*cst.Block, bool) {
	openID, ok := p.expect(token.LBrace, diag.SynExpectLBrace, "expected `{`")
	if !ok {
		return nil, false
	}
	openLevel := p.level() - 1
	blk := &cst.Block{Open: openID}

	for !p.at(token.RBrace) && !p.at(token.EOF) {
		s, ok := p.parseStmt()
		if s != nil {
			blk.Stmts = append(blk.Stmts, s)
		}
		if !ok {
			p.resyncStmt(openLevel + 1)
		}
	}

	if p.at(token.RBrace) {
		blk.Close = p.advance()
	} else {
		p.errAt(diag.SynUnclosedBlock, p.spanOf(openID), "missing `}` to close block").
			WithPrimaryMsg("block opened here").
			Emit()
		blk.Close = p.sentinelClose(token.RBrace)
		if n := len(p.brackets); n > 0 {
			p.brackets = p.brackets[:n-1]
		}
	}
	blk.SetSpan(token.Span{Start: openID, End: blk.Close + 1})
	return blk, true
}

// resyncStmt skips to the next statement boundary at the given nesting
// level: past a `;`, or up to a `}` / EOF.
func (p *Parser) resyncStmt(level int) {
	for !p.at(token.EOF) {
		if p.level() > level {
			p.advance()
			continue
		}
		if p.level() < level {
			return
		}
		switch p.peek().Kind {
		case token.Semicolon:
			p.advance()
			return
		case token.RBrace:
			return
		}
		p.advance()
	}
}

func (p *Parser) parseLocal(start token.ID) (cst.Stmt, bool) {
	p.advance() // local
	s := &cst.Local{}

	ty, ok := p.parseTypeRef()
	s.Type = ty
	if !ok {
		p.closeSpan(&s.Spanned, start)
		return s, false
	}

	for {
		name, ok := p.parseDeclName()
		if !ok {
			p.closeSpan(&s.Spanned, start)
			return s, false
		}
		s.Names = append(s.Names, name)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	p.expectSemicolon()
	p.closeSpan(&s.Spanned, start)
	return s, true
}

// parseDeclName parses one declared name with an optional `[size]` suffix.
func (p *Parser) parseDeclName() (cst.DeclName, bool) {
	name, nameID, ok := p.expectIdent("variable name")
	if !ok {
		return cst.DeclName{}, false
	}
	dn := cst.DeclName{Name: caseins.NewName(name.Text)}
	span := token.Single(nameID)

	if p.at(token.LBracket) {
		openLevel := p.level()
		p.advance()
		size, ok := p.parseExpr()
		dn.ArraySize = size
		var closeID token.ID
		if !ok {
			closeID = p.recoverBracket(openLevel, token.RBracket)
		} else {
			closeID, _ = p.expect(token.RBracket, diag.SynUnclosedDelimiter, "missing `]` to close array size")
		}
		span = span.Join(token.Span{Start: nameID, End: closeID + 1})
	}
	dn.SetSpan(span)
	return dn, true
}

// parseParenCond parses the `( expr )` head of a control statement.
func (p *Parser) parseParenCond(what string) (cst.Expr, bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected `(` after `"+what+"`"); !ok {
		return nil, false
	}
	openLevel := p.level() - 1
	cond, ok := p.parseExpr()
	if !ok {
		p.recoverBracket(openLevel, token.RParen)
		return cond, true
	}
	p.expect(token.RParen, diag.SynUnclosedDelimiter, "missing `)` after "+what+" condition")
	return cond, true
}

func (p *Parser) parseIf(start token.ID) (cst.Stmt, bool) {
	p.advance() // if
	s := &cst.If{}

	cond, _ := p.parseParenCond("if")
	s.Cond = cond
	then, ok := p.parseStmt()
	s.Then = then
	if ok && p.atKw("else") {
		p.advance()
		s.Else, ok = p.parseStmt()
	}
	p.closeSpan(&s.Spanned, start)
	return s, ok
}

func (p *Parser) parseWhile(start token.ID) (cst.Stmt, bool) {
	p.advance() // while
	s := &cst.While{}
	s.Cond, _ = p.parseParenCond("while")
	body, ok := p.parseStmt()
	s.Body = body
	p.closeSpan(&s.Spanned, start)
	return s, ok
}

func (p *Parser) parseDo(start token.ID) (cst.Stmt, bool) {
	p.advance() // do
	s := &cst.Do{}
	body, ok := p.parseStmt()
	s.Body = body
	if !ok {
		p.closeSpan(&s.Spanned, start)
		return s, false
	}
	if !p.atKw("until") {
		p.err(diag.SynUnexpectedToken, "expected `until` after `do` body").Emit()
		p.closeSpan(&s.Spanned, start)
		return s, false
	}
	p.advance()
	s.Cond, _ = p.parseParenCond("until")
	if p.at(token.Semicolon) {
		p.advance()
	}
	p.closeSpan(&s.Spanned, start)
	return s, true
}

func (p *Parser) parseFor(start token.ID) (cst.Stmt, bool) {
	p.advance() // for
	s := &cst.For{}

	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected `(` after `for`"); !ok {
		p.closeSpan(&s.Spanned, start)
		return s, false
	}
	openLevel := p.level() - 1

	ok := true
	if !p.at(token.Semicolon) {
		s.Init, ok = p.parseExpr()
	}
	ok = ok && p.expectHeadSemicolon()
	if ok && !p.at(token.Semicolon) {
		s.Cond, ok = p.parseExpr()
	}
	ok = ok && p.expectHeadSemicolon()
	if ok && !p.at(token.RParen) {
		s.Update, ok = p.parseExpr()
	}
	if !ok {
		p.recoverBracket(openLevel, token.RParen)
	} else {
		p.expect(token.RParen, diag.SynUnclosedDelimiter, "missing `)` to close `for` header")
	}

	body, bodyOK := p.parseStmt()
	s.Body = body
	p.closeSpan(&s.Spanned, start)
	return s, bodyOK
}

func (p *Parser) expectHeadSemicolon() bool {
	if p.at(token.Semicolon) {
		p.advance()
		return true
	}
	p.err(diag.SynExpectSemicolon, "expected `;` in `for` header").Emit()
	return false
}

func (p *Parser) parseForEach(start token.ID) (cst.Stmt, bool) {
	p.advance() // foreach
	s := &cst.ForEach{}
	iter, ok := p.parseExpr()
	s.Iterator = iter
	if !ok {
		p.closeSpan(&s.Spanned, start)
		return s, false
	}
	body, ok := p.parseStmt()
	s.Body = body
	p.closeSpan(&s.Spanned, start)
	return s, ok
}

func (p *Parser) parseSwitch(start token.ID) (cst.Stmt, bool) {
	p.advance() // switch
	s := &cst.Switch{}
	s.Subject, _ = p.parseParenCond("switch")

	openID, ok := p.expect(token.LBrace, diag.SynExpectLBrace, "expected `{` to open switch body")
	if !ok {
		p.closeSpan(&s.Spanned, start)
		return s, false
	}
	s.Open = openID
	openLevel := p.level() - 1

	for !p.at(token.RBrace) && !p.at(token.EOF) {
		clause, ok := p.parseStmt()
		if clause != nil {
			s.Clauses = append(s.Clauses, clause)
		}
		if !ok {
			p.resyncStmt(openLevel + 1)
		}
	}
	if p.at(token.RBrace) {
		s.Close = p.advance()
	} else {
		p.errAt(diag.SynUnclosedBlock, p.spanOf(openID), "missing `}` to close switch body").
			WithPrimaryMsg("switch body opened here").
			Emit()
		s.Close = p.sentinelClose(token.RBrace)
		if n := len(p.brackets); n > 0 {
			p.brackets = p.brackets[:n-1]
		}
	}
	p.closeSpan(&s.Spanned, start)
	return s, true
}

// closeSpan sets the node span from its first token to the last consumed.
func (p *Parser) closeSpan(sp *cst.Spanned, start token.ID) {
	end := p.lastID + 1
	if end <= start {
		end = start + 1
	}
	sp.SetSpan(token.Span{Start: start, End: end})
}
