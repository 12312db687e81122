package parser

import (
	"muscript/internal/caseins"
	"muscript/internal/cst"
	"muscript/internal/diag"
	"muscript/internal/token"
)

// Bracket nesting beyond this falls back to recovery instead of recursing.
const maxNesting = 4096

// parseExpr parses a full expression, assignment included.
func (p *Parser) parseExpr() (cst.Expr, bool) {
	return p.parseBinary(precAssign)
}

func (p *Parser) parseBinary(minPrec int) (cst.Expr, bool) {
	lhs, ok := p.parseUnary()
	if !ok {
		return lhs, false
	}

	for {
		tok := p.peek()

		if tok.Kind == token.Question && minPrec <= precTernary {
			p.advance()
			then, ok := p.parseBinary(precAssign)
			if !ok {
				return then, false
			}
			if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected `:` in conditional expression"); !ok {
				return lhs, false
			}
			els, ok := p.parseBinary(precTernary)
			node := &cst.Ternary{Cond: lhs, Then: then, Else: els}
			node.SetSpan(lhs.Span().Join(spanOrEmpty(els)))
			if !ok {
				return node, false
			}
			lhs = node
			continue
		}

		info, isOp := infixOps[tok.Kind]
		if !isOp || info.prec < minPrec {
			return lhs, true
		}
		opID := p.advance()
		nextMin := info.prec + 1
		if info.rightAssoc {
			nextMin = info.prec
		}
		rhs, ok := p.parseBinary(nextMin)
		node := &cst.Infix{
			Lhs:    lhs,
			Op:     tok.Kind,
			OpSpan: token.Single(opID),
			Rhs:    rhs,
		}
		node.SetSpan(lhs.Span().Join(token.Single(opID)).Join(spanOrEmpty(rhs)))
		if !ok {
			return node, false
		}
		lhs = node
	}
}

func (p *Parser) parseUnary() (cst.Expr, bool) {
	tok := p.peek()
	if isPrefixOp(tok.Kind) {
		opID := p.advance()
		operand, ok := p.parseUnary()
		node := &cst.Prefix{Op: tok.Kind, OpSpan: token.Single(opID), Operand: operand}
		node.SetSpan(token.Single(opID).Join(spanOrEmpty(operand)))
		return node, ok
	}
	return p.parsePostfix()
}

// parsePostfix parses a primary and its postfix chain: member access,
// calls, indexing, `++`/`--`, and `Outer::Name` static references.
func (p *Parser) parsePostfix() (cst.Expr, bool) {
	expr, ok := p.parsePrimary()
	if !ok {
		return expr, false
	}

	for {
		switch p.peek().Kind {
		case token.Dot:
			p.advance()
			name, nameID, ok := p.expectIdent("member name after `.`")
			if !ok {
				return expr, false
			}
			node := &cst.Member{Target: expr, Name: caseins.NewName(name.Text), NameSpan: token.Single(nameID)}
			node.SetSpan(expr.Span().Join(token.Single(nameID)))
			expr = node

		case token.ColonColon:
			ident, isIdent := expr.(*cst.Ident)
			if !isIdent {
				p.err(diag.SynUnexpectedToken, "`::` requires a type or enum name on the left").Emit()
				return expr, false
			}
			p.advance()
			name, nameID, ok := p.expectIdent("name after `::`")
			if !ok {
				return expr, false
			}
			node := &cst.StaticRef{
				Outer:     ident.Name,
				OuterSpan: ident.Span(),
				Name:      caseins.NewName(name.Text),
				NameSpan:  token.Single(nameID),
			}
			node.SetSpan(ident.Span().Join(token.Single(nameID)))
			expr = node

		case token.LParen:
			call, ok := p.parseCallArgs(expr)
			expr = call
			if !ok {
				return expr, true // скобочное восстановление уже отработало
			}

		case token.LBracket:
			openLevel := p.level()
			openID := p.advance()
			idx, ok := p.parseExpr()
			var closeID token.ID
			if !ok {
				closeID = p.recoverBracket(openLevel, token.RBracket)
			} else {
				closeID, _ = p.expect(token.RBracket, diag.SynUnclosedDelimiter, "missing `]` to close index")
			}
			node := &cst.Index{Target: expr, Idx: idx}
			node.SetSpan(expr.Span().Join(token.Span{Start: openID, End: closeID + 1}))
			expr = node

		case token.PlusPlus, token.MinusMinus:
			opTok := p.peek()
			opID := p.advance()
			node := &cst.Postfix{Operand: expr, Op: opTok.Kind, OpSpan: token.Single(opID)}
			node.SetSpan(expr.Span().Join(token.Single(opID)))
			expr = node

		default:
			return expr, true
		}
	}
}

// parseCallArgs parses `(arg, ...)` after a callee. Skipped optional
// arguments (`f(, x)`) appear as nil entries.
func (p *Parser) parseCallArgs(callee cst.Expr) (*cst.Call, bool) {
	node := &cst.Call{Callee: callee}
	openID, closeID, ok := p.delimitedList(token.LParen, token.RParen, "argument list", func() bool {
		if p.at(token.Comma) || p.at(token.RParen) {
			node.Args = append(node.Args, nil)
			return true
		}
		arg, ok := p.parseExpr()
		node.Args = append(node.Args, arg)
		return ok
	})
	node.SetSpan(callee.Span().Join(token.Span{Start: openID, End: closeID + 1}))
	return node, ok
}

func (p *Parser) parsePrimary() (cst.Expr, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit:
		return p.litExpr(cst.LitInt), true
	case token.FloatLit:
		return p.litExpr(cst.LitFloat), true
	case token.StringLit:
		return p.litExpr(cst.LitString), true
	case token.NameLit:
		return p.litExpr(cst.LitName), true

	case token.Ident:
		switch {
		case tok.IsKeyword("none"):
			return p.litExpr(cst.LitNone), true
		case tok.IsKeyword("true"), tok.IsKeyword("false"):
			return p.litExpr(cst.LitBool), true
		}
		id := p.advance()
		// ссылка на объект: ClassName'Obj.Path'
		if p.at(token.NameLit) {
			litID := p.advance()
			node := &cst.ObjectLit{Class: caseins.NewName(tok.Text), Name: p.arena.Get(litID).Text}
			node.SetSpan(token.Span{Start: id, End: litID + 1})
			return node, true
		}
		node := &cst.Ident{Name: caseins.NewName(tok.Text)}
		node.SetSpan(token.Single(id))
		return node, true

	case token.LParen:
		if p.level() >= maxNesting {
			p.err(diag.SynUnclosedDelimiter, "bracket nesting is too deep").Emit()
			openLevel := p.level()
			p.advance()
			p.recoverBracket(openLevel, token.RParen)
			bad := &cst.Bad{}
			bad.SetSpan(token.Single(p.lastID))
			return bad, false
		}
		openLevel := p.level()
		openID := p.advance()
		inner, ok := p.parseExpr()
		var closeID token.ID
		if !ok {
			closeID = p.recoverBracket(openLevel, token.RParen)
		} else {
			closeID, _ = p.expect(token.RParen, diag.SynUnclosedDelimiter, "missing `)` to close parenthesized expression")
		}
		node := &cst.Paren{Inner: inner}
		node.SetSpan(token.Span{Start: openID, End: closeID + 1})
		return node, true

	default:
		p.err(diag.SynExpectExpression, "expected expression, found `"+tok.Text+"`").Emit()
		bad := &cst.Bad{}
		bad.SetSpan(token.Single(p.st.PeekID()))
		return bad, false
	}
}

func (p *Parser) litExpr(kind cst.LitKind) *cst.Lit {
	tok := p.peek()
	id := p.advance()
	node := &cst.Lit{Kind: kind, Text: tok.Text}
	node.SetSpan(token.Single(id))
	return node
}

func spanOrEmpty(e cst.Expr) token.Span {
	if e == nil {
		return token.Span{}
	}
	return e.Span()
}
