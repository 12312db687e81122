package pp

import (
	"muscript/internal/caseins"
	"muscript/internal/diag"
	"muscript/internal/source"
	"muscript/internal/token"
)

// directive dispatches the token after a backtick. On a malformed directive
// the preprocessor reports once and skips to the next plausible position.
func (p *Preprocessor) directive(w *walker, btSpan source.Span, stack []caseins.Key, invocation source.Span) {
	tok := w.peekTok()
	if tok.Kind != token.Ident {
		if p.emitting() {
			diag.Error(p.rep, diag.PpUnknownDirective, btSpan.Cover(tok.Span), "expected directive or macro name after `").Emit()
		}
		return
	}
	nameID := w.next()
	nameTok := p.arena.Get(nameID)

	switch caseins.Fold(nameTok.Text) {
	case "define":
		p.handleDefine(w, btSpan, nameTok)
	case "undef":
		p.handleUndef(w)
	case "if":
		p.handleIf(w, btSpan.Cover(nameTok.Span))
	case "else":
		p.handleElse(btSpan.Cover(nameTok.Span))
	case "endif":
		p.handleEndif(btSpan.Cover(nameTok.Span))
	case "include":
		p.handleInclude(w, btSpan.Cover(nameTok.Span), stack)
	case "isdefined", "notdefined":
		if p.emitting() {
			diag.Error(p.rep, diag.PpUnknownDirective, btSpan.Cover(nameTok.Span),
				"`"+nameTok.Text+" is only valid inside an `if condition").Emit()
		}
		p.skipParenGroup(w)
	default:
		p.handleExpand(w, btSpan, nameTok, stack)
	}
}

// handleDefine captures `define NAME [(params)] body-to-end-of-line.
// Внутри неактивной ветки `if определение не регистрируется.
func (p *Preprocessor) handleDefine(w *walker, btSpan source.Span, defineTok token.Token) {
	lineEnd := p.logicalLineEnd(btSpan)
	if w.peekTok().Kind != token.Ident || w.peekTok().Span.Start >= lineEnd {
		if p.emitting() {
			diag.Error(p.rep, diag.PpUnknownDirective, btSpan, "expected macro name after `define").Emit()
		}
		w.skipUntilOffset(lineEnd)
		return
	}
	macroNameID := w.next()
	macroName := p.arena.Get(macroNameID)

	var params []caseins.Key
	// параметры только если '(' прижата к имени
	if lp := w.peekTok(); lp.Kind == token.LParen && lp.Span.Start == macroName.Span.End && lp.Span.Start < lineEnd {
		w.next()
		params = []caseins.Key{}
		for {
			t := w.peekTok()
			if t.Kind == token.RParen {
				w.next()
				break
			}
			if t.Kind == token.EOF || t.Span.Start >= lineEnd {
				if p.emitting() {
					diag.Error(p.rep, diag.PpUnknownDirective, btSpan, "missing `)` in macro parameter list").Emit()
				}
				break
			}
			if t.Kind == token.Ident {
				params = append(params, caseins.Fold(t.Text))
			}
			w.next()
		}
	}

	body := make([]token.ID, 0, 8)
	for {
		t := w.peekTok()
		if t.Kind == token.EOF || t.Span.Start >= lineEnd {
			break
		}
		body = append(body, w.next())
	}

	if !p.emitting() {
		return
	}
	p.macros.Set(&Define{
		Name:   caseins.NewName(macroName.Text),
		Params: params,
		Body:   body,
		Span:   btSpan.Cover(defineTok.Span).Cover(macroName.Span),
	})
}

func (p *Preprocessor) handleUndef(w *walker) {
	if w.peekTok().Kind != token.Ident {
		return
	}
	nameID := w.next()
	if p.emitting() {
		p.macros.Undef(p.arena.Get(nameID).Text)
	}
}

func (p *Preprocessor) handleIf(w *walker, dirSpan source.Span) {
	cond := p.parseCondition(w, dirSpan)
	p.conds = append(p.conds, condFrame{
		span:   dirSpan,
		active: cond,
		taken:  cond,
	})
}

func (p *Preprocessor) handleElse(dirSpan source.Span) {
	if len(p.conds) == 0 {
		diag.Error(p.rep, diag.PpUnbalancedIf, dirSpan, "`else without matching `if").Emit()
		return
	}
	top := &p.conds[len(p.conds)-1]
	if top.sawElse {
		diag.Error(p.rep, diag.PpUnbalancedIf, dirSpan, "duplicate `else in one `if region").Emit()
		return
	}
	top.sawElse = true
	top.active = !top.taken
	if top.active {
		top.taken = true
	}
}

func (p *Preprocessor) handleEndif(dirSpan source.Span) {
	if len(p.conds) == 0 {
		diag.Error(p.rep, diag.PpUnbalancedIf, dirSpan, "`endif without matching `if").Emit()
		return
	}
	p.conds = p.conds[:len(p.conds)-1]
}

// parseCondition evaluates the parenthesized `if predicate: a bare NAME or
// integer, or `isdefined(NAME) / `notdefined(NAME).
func (p *Preprocessor) parseCondition(w *walker, dirSpan source.Span) bool {
	bad := func(sp source.Span) bool {
		if p.emitting() {
			diag.Error(p.rep, diag.PpBadCondition, sp,
				"`if supports `isdefined(NAME), `notdefined(NAME), a macro name, or an integer").Emit()
		}
		return false
	}

	if w.peekTok().Kind != token.LParen {
		return bad(dirSpan)
	}
	w.next()

	value := false
	switch t := w.peekTok(); t.Kind {
	case token.Backtick:
		w.next()
		pred := w.peekTok()
		if pred.Kind != token.Ident {
			return bad(dirSpan.Cover(pred.Span))
		}
		w.next()
		negate := false
		switch caseins.Fold(pred.Text) {
		case "isdefined":
		case "notdefined":
			negate = true
		default:
			return bad(dirSpan.Cover(pred.Span))
		}
		if w.peekTok().Kind != token.LParen {
			return bad(dirSpan.Cover(pred.Span))
		}
		w.next()
		arg := w.peekTok()
		if arg.Kind != token.Ident {
			return bad(dirSpan.Cover(arg.Span))
		}
		w.next()
		if w.peekTok().Kind == token.RParen {
			w.next()
		}
		value = p.macros.IsDefined(arg.Text) != negate

	case token.Ident:
		w.next()
		value = p.macros.IsDefined(t.Text)

	case token.IntLit:
		w.next()
		value = t.Text != "0"

	default:
		return bad(dirSpan.Cover(t.Span))
	}

	if w.peekTok().Kind == token.RParen {
		w.next()
	} else {
		return bad(dirSpan)
	}
	return value
}

// handleInclude splices a pre-lexed file in place of the directive.
func (p *Preprocessor) handleInclude(w *walker, dirSpan source.Span, stack []caseins.Key) {
	if w.peekTok().Kind != token.LParen {
		if p.emitting() {
			diag.Error(p.rep, diag.PpIncludeFailed, dirSpan, "expected `(path)` after `include").Emit()
		}
		return
	}
	w.next()

	// путь — либо строковый литерал, либо произвольные токены до ')'
	var path string
	for {
		t := w.peekTok()
		if t.Kind == token.RParen {
			w.next()
			break
		}
		if t.Kind == token.EOF {
			if p.emitting() {
				diag.Error(p.rep, diag.PpIncludeFailed, dirSpan, "missing `)` after `include path").Emit()
			}
			return
		}
		if t.Kind == token.StringLit {
			path += t.Text[1 : len(t.Text)-1]
		} else {
			path += t.Text
		}
		w.next()
	}

	if !p.emitting() {
		return
	}
	if p.include == nil {
		diag.Error(p.rep, diag.PpIncludeFailed, dirSpan, "`include is not available here").Emit()
		return
	}
	span, ok := p.include(path)
	if !ok {
		diag.Error(p.rep, diag.PpIncludeFailed, dirSpan, "cannot include file `"+path+"`").Emit()
		return
	}
	ids := make([]token.ID, 0, span.Len())
	for id := span.Start; id < span.End; id++ {
		if p.arena.Get(id).Kind == token.EOF {
			continue
		}
		ids = append(ids, id)
	}
	p.run(ids, stack, source.Span{})
}

// skipParenGroup discards a balanced (...) group if one follows.
func (p *Preprocessor) skipParenGroup(w *walker) {
	if w.peekTok().Kind != token.LParen {
		return
	}
	w.next()
	depth := 1
	for depth > 0 {
		t := w.peekTok()
		if t.Kind == token.EOF {
			return
		}
		switch t.Kind {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
		}
		w.next()
	}
}

// logicalLineEnd returns the byte offset ending the directive's line,
// honoring `\`-newline continuations.
func (p *Preprocessor) logicalLineEnd(from source.Span) uint32 {
	content := p.fs.Get(from.File).Content
	i := from.Start
	for int(i) < len(content) {
		switch content[i] {
		case '\\':
			if int(i)+1 < len(content) && content[i+1] == '\n' {
				i += 2
				continue
			}
			i++
		case '\n':
			return i
		default:
			i++
		}
	}
	return uint32(len(content))
}
