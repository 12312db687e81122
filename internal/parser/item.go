package parser

import (
	"strings"

	"muscript/internal/caseins"
	"muscript/internal/cst"
	"muscript/internal/diag"
	"muscript/internal/token"
)

var functionKinds = map[caseins.Key]bool{
	"function": true, "event": true, "delegate": true,
	"operator": true, "preoperator": true, "postoperator": true,
}

var functionSpecifiers = map[caseins.Key]bool{
	"native": true, "final": true, "static": true, "exec": true,
	"latent": true, "iterator": true, "singular": true,
	"reliable": true, "unreliable": true, "server": true, "client": true,
	"private": true, "protected": true, "public": true, "auto": true,
}

var varSpecifiers = map[caseins.Key]bool{
	"const": true, "config": true, "globalconfig": true, "localized": true,
	"transient": true, "native": true, "private": true, "protected": true,
	"public": true, "editconst": true, "editinline": true, "deprecated": true,
	"repnotify": true, "export": true, "noexport": true, "interp": true,
	"input": true, "duplicatetransient": true,
}

var paramSpecifiers = map[caseins.Key]bool{
	"out": true, "optional": true, "coerce": true, "skip": true, "const": true,
}

// parseItem chooses the item parser by the first token.
func (p *Parser) parseItem() (cst.Item, bool) {
	tok := p.peek()
	start := p.st.PeekID()

	switch {
	case tok.IsKeyword("class"):
		return p.parseClassHeader(), true
	case tok.IsKeyword("var"):
		return p.parseVarDecl(start)
	case tok.IsKeyword("const"):
		return p.parseConstDecl(start)
	case tok.IsKeyword("struct"):
		return p.parseStructDecl(start, nil)
	case tok.IsKeyword("enum"):
		return p.parseEnumDecl(start)
	case tok.IsKeyword("state"):
		return p.parseStateDecl(start, nil)
	case tok.IsKeyword("defaultproperties"):
		p.advance()
		body, ok := p.parseCppBody()
		item := &cst.DefaultProperties{Body: body}
		p.closeSpan(&item.Spanned, start)
		return item, ok
	case tok.IsKeyword("replication"):
		p.advance()
		body, ok := p.parseLazyBlock()
		item := &cst.Replication{Body: body}
		p.closeSpan(&item.Spanned, start)
		return item, ok
	case tok.IsKeyword("cpptext"), tok.IsKeyword("structcpptext"):
		p.advance()
		body, ok := p.parseCppBody()
		item := &cst.CppText{Body: body}
		p.closeSpan(&item.Spanned, start)
		return item, ok
	case tok.IsKeyword("simulated"):
		p.advance()
		inner, ok := p.parseItem()
		if !ok {
			return nil, false
		}
		item := &cst.Simulated{Item: inner}
		p.closeSpan(&item.Spanned, start)
		return item, true

	case tok.Kind == token.Ident && functionKinds[caseins.Fold(tok.Text)]:
		return p.parseFunctionDecl(start, nil)

	case tok.Kind == token.Ident && functionSpecifiers[caseins.Fold(tok.Text)]:
		specs := p.parseSpecifierRun(functionSpecifiers)
		switch {
		case p.at(token.Ident) && functionKinds[caseins.Fold(p.peek().Text)]:
			return p.parseFunctionDecl(start, specs)
		case p.atKw("state"):
			return p.parseStateDecl(start, specs)
		case p.atKw("struct"):
			return p.parseStructDecl(start, specs)
		default:
			p.err(diag.SynUnexpectedItem, "expected a declaration after specifiers").Emit()
			return nil, false
		}

	default:
		// statement at item position: keeps the tree total, the analyzer rejects it
		stmt, ok := p.parseStmt()
		if stmt == nil {
			return nil, ok
		}
		item := &cst.StmtItem{Stmt: stmt}
		item.SetSpan(stmt.Span())
		return item, ok
	}
}

// parseClassHeader parses `class Name [extends P] [within O] spec* ;`.
func (p *Parser) parseClassHeader() *cst.ClassHeader {
	start := p.st.PeekID()
	p.advance() // class
	h := &cst.ClassHeader{}

	name, nameID, ok := p.expectIdent("class name")
	if ok {
		h.Name = caseins.NewName(name.Text)
		h.NameSpan = token.Single(nameID)
	}

	for !p.at(token.Semicolon) && !p.at(token.EOF) {
		tok := p.peek()
		switch {
		case tok.IsKeyword("extends"):
			p.advance()
			if n, sp, ok := p.parseDottedName(); ok {
				h.Extends = &n
				h.ExtendsSpan = sp
			}
		case tok.IsKeyword("within"):
			p.advance()
			if n, sp, ok := p.parseDottedName(); ok {
				h.Within = &n
				h.WithinSpan = sp
			}
		case tok.Kind == token.Ident:
			h.Specifiers = append(h.Specifiers, p.parseSpecifier())
		default:
			p.err(diag.SynUnexpectedToken, "unexpected `"+tok.Text+"` in class header").Emit()
			p.advance()
		}
	}
	p.expectSemicolon()
	p.closeSpan(&h.Spanned, start)
	return h
}

// parseDottedName parses `Ident (. Ident)*` and returns the last segment:
// package qualifiers select a file, not a different class name.
func (p *Parser) parseDottedName() (caseins.Name, token.Span, bool) {
	tok, id, ok := p.expectIdent("name")
	if !ok {
		return caseins.Name{}, token.Span{}, false
	}
	name := tok.Text
	span := token.Single(id)
	for p.at(token.Dot) && p.peek2().Kind == token.Ident {
		p.advance()
		next := p.advance()
		name = p.arena.Get(next).Text
		span = span.Join(token.Single(next))
	}
	return caseins.NewName(name), span, true
}

// parseSpecifier parses one specifier, swallowing an argument group like
// `config(Game)` or `dependson(A,B)` into the specifier's span.
func (p *Parser) parseSpecifier() cst.Specifier {
	id := p.advance()
	tok := p.arena.Get(id)
	spec := cst.Specifier{Name: caseins.NewName(tok.Text)}
	span := token.Single(id)

	if p.at(token.LParen) {
		openLevel := p.level()
		p.advance()
		for p.level() > openLevel && !p.at(token.EOF) {
			p.advance()
		}
		span = span.Join(token.Single(p.lastID))
	}
	spec.SetSpan(span)
	return spec
}

func (p *Parser) parseSpecifierRun(allowed map[caseins.Key]bool) []cst.Specifier {
	var specs []cst.Specifier
	for p.at(token.Ident) && allowed[caseins.Fold(p.peek().Text)] {
		if functionKinds[caseins.Fold(p.peek().Text)] {
			break
		}
		specs = append(specs, p.parseSpecifier())
	}
	return specs
}

// parseVarDecl parses `var(Category)? spec* Type Name (, Name)* <meta>? ;`.
func (p *Parser) parseVarDecl(start token.ID) (cst.Item, bool) {
	p.advance() // var
	v := &cst.VarDecl{}

	if p.at(token.LParen) {
		v.Category = p.parseMetaGroup(token.LParen, token.RParen)
	}
	v.Specifiers = p.parseSpecifierRun(varSpecifiers)

	ty, ok := p.parseTypeRef()
	v.Type = ty
	if !ok {
		p.closeSpan(&v.Spanned, start)
		return v, false
	}

	for {
		name, ok := p.parseDeclName()
		if !ok {
			p.closeSpan(&v.Spanned, start)
			return v, false
		}
		v.Names = append(v.Names, name)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}

	if p.at(token.Lt) {
		v.Meta = p.parseMetaGroup(token.Lt, token.Gt)
	}
	p.expectSemicolon()
	p.closeSpan(&v.Spanned, start)
	return v, true
}

// parseMetaGroup captures `open ... close` verbatim as display text. Used
// for `var(Category)` groups and `<Key=Value|...>` metadata tails.
func (p *Parser) parseMetaGroup(open, close token.Kind) *cst.Metadata {
	openID := p.advance()
	var parts []string
	span := token.Single(openID)
	depth := 1
	for depth > 0 && !p.at(token.EOF) {
		tok := p.peek()
		switch tok.Kind {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				span = span.Join(token.Single(p.advance()))
				m := &cst.Metadata{Text: strings.Join(parts, " ")}
				m.SetSpan(span)
				return m
			}
		}
		parts = append(parts, tok.Text)
		span = span.Join(token.Single(p.advance()))
	}
	p.errAt(diag.SynUnclosedDelimiter, p.spanOf(openID), "missing `"+close.String()+"` to close metadata").Emit()
	m := &cst.Metadata{Text: strings.Join(parts, " ")}
	m.SetSpan(span)
	return m
}

func (p *Parser) parseConstDecl(start token.ID) (cst.Item, bool) {
	p.advance() // const
	c := &cst.ConstDecl{}

	name, nameID, ok := p.expectIdent("constant name")
	if !ok {
		return nil, false
	}
	c.Name = caseins.NewName(name.Text)
	c.NameSpan = token.Single(nameID)

	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected `=` after constant name"); !ok {
		p.closeSpan(&c.Spanned, start)
		return c, false
	}
	value, ok := p.parseExpr()
	c.Value = value
	if ok {
		p.expectSemicolon()
	}
	p.closeSpan(&c.Spanned, start)
	return c, ok
}

// parseFunctionDecl parses a function-like declaration after an optional
// specifier run: `kind [ret-type] name (params) (body | ;)`.
func (p *Parser) parseFunctionDecl(start token.ID, specs []cst.Specifier) (cst.Item, bool) {
	f := &cst.FunctionDecl{Specifiers: specs}
	kindID := p.advance()
	kindTok := p.arena.Get(kindID)
	f.KindSpan = token.Single(kindID)
	isOperator := strings.Contains(strings.ToLower(kindTok.Text), "operator")

	// приоритет оператора: operator(24)
	if isOperator && p.at(token.LParen) {
		p.advance()
		if p.at(token.IntLit) {
			p.advance()
		}
		p.expect(token.RParen, diag.SynUnclosedDelimiter, "missing `)` after operator precedence")
	}

	if isOperator {
		ty, ok := p.parseTypeRef()
		if !ok {
			p.closeSpan(&f.Spanned, start)
			return f, false
		}
		f.ReturnType = ty
		// имя оператора — идентификатор или символ операции
		nameID := p.advance()
		nameTok := p.arena.Get(nameID)
		f.Name = caseins.NewName(nameTok.Text)
		f.NameSpan = token.Single(nameID)
	} else {
		candidate, ok := p.parseTypeRef()
		if !ok {
			p.closeSpan(&f.Spanned, start)
			return f, false
		}
		if p.at(token.Ident) {
			f.ReturnType = candidate
			name, nameID, _ := p.expectIdent("function name")
			f.Name = caseins.NewName(name.Text)
			f.NameSpan = token.Single(nameID)
		} else {
			if candidate.IsGeneric() {
				p.err(diag.SynExpectIdentifier, "expected function name after return type").Emit()
				p.closeSpan(&f.Spanned, start)
				return f, false
			}
			f.Name = candidate.Name
			f.NameSpan = candidate.NameSpan
		}
	}

	_, _, listOK := p.delimitedList(token.LParen, token.RParen, "parameter list", func() bool {
		param, ok := p.parseParam()
		if ok {
			f.Params = append(f.Params, param)
		}
		return ok
	})
	if !listOK && !p.at(token.LBrace) && !p.at(token.Semicolon) {
		p.closeSpan(&f.Spanned, start)
		return f, false
	}

	switch {
	case p.at(token.Semicolon):
		p.advance()
	case p.at(token.LBrace):
		body, _ := p.parseBlock()
		f.Body = body
	default:
		p.err(diag.SynUnexpectedToken, "expected `;` or function body").Emit()
		p.closeSpan(&f.Spanned, start)
		return f, false
	}
	p.closeSpan(&f.Spanned, start)
	return f, true
}

func (p *Parser) parseParam() (cst.Param, bool) {
	start := p.st.PeekID()
	param := cst.Param{Specifiers: p.parseSpecifierRun(paramSpecifiers)}

	ty, ok := p.parseTypeRef()
	param.Type = ty
	if !ok {
		return param, false
	}
	name, nameID, ok := p.expectIdent("parameter name")
	if !ok {
		return param, false
	}
	param.Name = caseins.NewName(name.Text)
	param.NameSpan = token.Single(nameID)

	if p.at(token.Assign) {
		p.advance()
		def, ok := p.parseExpr()
		param.Default = def
		if !ok {
			return param, false
		}
	}
	p.closeSpan(&param.Spanned, start)
	return param, true
}

func (p *Parser) parseStructDecl(start token.ID, specs []cst.Specifier) (cst.Item, bool) {
	p.advance() // struct
	s := &cst.StructDecl{Specifiers: specs}
	s.Specifiers = append(s.Specifiers, p.parseSpecifierRun(varSpecifiers)...)

	name, nameID, ok := p.expectIdent("struct name")
	if !ok {
		return nil, false
	}
	s.Name = caseins.NewName(name.Text)
	s.NameSpan = token.Single(nameID)

	if p.atKw("extends") {
		p.advance()
		if n, _, ok := p.parseDottedName(); ok {
			s.Extends = &n
		}
	}

	openID, ok := p.expect(token.LBrace, diag.SynExpectLBrace, "expected `{` to open struct body")
	if !ok {
		p.closeSpan(&s.Spanned, start)
		return s, false
	}
	openLevel := p.level() - 1

	for !p.at(token.RBrace) && !p.at(token.EOF) {
		switch {
		case p.atKw("var"):
			member, ok := p.parseVarDecl(p.st.PeekID())
			if member != nil {
				s.Members = append(s.Members, member)
			}
			if !ok {
				p.resyncStmt(openLevel + 1)
			}
		case p.atKw("structcpptext"):
			p.advance()
			body, ok := p.parseCppBody()
			s.CppText = body
			if !ok {
				p.resyncStmt(openLevel + 1)
			}
		default:
			p.err(diag.SynUnexpectedItem, "expected `var` declaration in struct body").Emit()
			p.resyncStmt(openLevel + 1)
		}
	}
	if p.at(token.RBrace) {
		p.advance()
	} else {
		p.errAt(diag.SynUnclosedBlock, p.spanOf(openID), "missing `}` to close struct body").
			WithPrimaryMsg("struct body opened here").
			Emit()
	}
	if p.at(token.Semicolon) {
		p.advance()
	}
	p.closeSpan(&s.Spanned, start)
	return s, true
}

func (p *Parser) parseEnumDecl(start token.ID) (cst.Item, bool) {
	p.advance() // enum
	e := &cst.EnumDecl{}

	name, nameID, ok := p.expectIdent("enum name")
	if !ok {
		return nil, false
	}
	e.Name = caseins.NewName(name.Text)
	e.NameSpan = token.Single(nameID)

	_, _, ok = p.delimitedList(token.LBrace, token.RBrace, "enum body", func() bool {
		vstart := p.st.PeekID()
		vname, _, ok := p.expectIdent("enum variant")
		if !ok {
			return false
		}
		variant := cst.EnumVariant{Name: caseins.NewName(vname.Text)}
		if p.at(token.Lt) {
			variant.Meta = p.parseMetaGroup(token.Lt, token.Gt)
		}
		p.closeSpan(&variant.Spanned, vstart)
		e.Variants = append(e.Variants, variant)
		return true
	})
	if p.at(token.Semicolon) {
		p.advance()
	}
	p.closeSpan(&e.Spanned, start)
	return e, ok
}

func (p *Parser) parseStateDecl(start token.ID, specs []cst.Specifier) (cst.Item, bool) {
	p.advance() // state
	s := &cst.StateDecl{Specifiers: specs}

	// state() — редкая форма с пустыми скобками
	if p.at(token.LParen) {
		p.advance()
		p.expect(token.RParen, diag.SynUnclosedDelimiter, "missing `)` after `state(`")
	}

	name, nameID, ok := p.expectIdent("state name")
	if !ok {
		return nil, false
	}
	s.Name = caseins.NewName(name.Text)
	s.NameSpan = token.Single(nameID)

	if p.atKw("extends") {
		p.advance()
		if n, _, ok := p.parseDottedName(); ok {
			s.Extends = &n
		}
	}

	body, ok := p.parseLazyBlock()
	s.Body = body
	p.closeSpan(&s.Spanned, start)
	return s, ok
}

// parseCppBody handles regions whose interior the lexer captured as one raw
// Blob token; it degrades to a lazy block when no blob is present.
func (p *Parser) parseCppBody() (*cst.LazyBlock, bool) {
	if p.at(token.LBrace) && p.peek2().Kind == token.Blob {
		open := p.advance()
		blob := p.advance()
		close, _ := p.expect(token.RBrace, diag.SynUnclosedBlock, "missing `}` to close block")
		blk := &cst.LazyBlock{Open: open, Inner: token.Single(blob), Close: close}
		blk.SetSpan(token.Span{Start: open, End: close + 1})
		return blk, true
	}
	return p.parseLazyBlock()
}
