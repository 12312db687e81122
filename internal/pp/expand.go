package pp

import (
	"slices"

	"muscript/internal/caseins"
	"muscript/internal/diag"
	"muscript/internal/source"
	"muscript/internal/token"
)

// handleExpand expands `NAME or `NAME(args). Expansion is textual: the
// macro body is re-scanned, so bodies may invoke other macros. A macro may
// not expand itself transitively within one expansion stack.
func (p *Preprocessor) handleExpand(w *walker, btSpan source.Span, nameTok token.Token, stack []caseins.Key) {
	if !p.emitting() {
		p.skipParenGroup(w)
		return
	}

	invSpan := btSpan.Cover(nameTok.Span)
	key := caseins.Fold(nameTok.Text)

	def, ok := p.macros.Lookup(nameTok.Text)
	if !ok {
		p.skipParenGroup(w)
		diag.Error(p.rep, diag.PpUndefinedMacro, invSpan, "undefined macro `"+nameTok.Text).Emit()
		return
	}

	if slices.Contains(stack, key) {
		p.skipParenGroup(w)
		diag.Error(p.rep, diag.PpRecursiveMacro, invSpan,
			"macro `"+nameTok.Text+" expands itself recursively").Emit()
		return
	}

	var args [][]token.ID
	if def.HasParams() {
		var ok bool
		args, ok = p.parseArgs(w, invSpan)
		if !ok {
			return
		}
		if len(args) != len(def.Params) {
			diag.Error(p.rep, diag.PpMacroArgCount, invSpan, "wrong number of macro arguments").
				WithNote(def.Name.String() + " is defined with a different arity").
				Emit()
			return
		}
	}

	// подстановка параметров в тело
	spliced := make([]token.ID, 0, len(def.Body))
	for _, id := range def.Body {
		t := p.arena.Get(id)
		if t.Kind == token.Ident {
			if i := slices.Index(def.Params, caseins.Fold(t.Text)); i >= 0 {
				spliced = append(spliced, args[i]...)
				continue
			}
		}
		spliced = append(spliced, id)
	}

	p.run(spliced, append(stack, key), invSpan)
}

// parseArgs reads `(a, b, c)` splitting on top-level commas. An empty
// argument list yields zero arguments, not one empty one.
func (p *Preprocessor) parseArgs(w *walker, invSpan source.Span) ([][]token.ID, bool) {
	if w.peekTok().Kind != token.LParen {
		diag.Error(p.rep, diag.PpMacroArgCount, invSpan, "expected `(` with macro arguments").Emit()
		return nil, false
	}
	w.next()

	args := make([][]token.ID, 0, 4)
	current := []token.ID{}
	sawComma := false
	depth := 1

	for {
		t := w.peekTok()
		if t.Kind == token.EOF {
			diag.Error(p.rep, diag.PpMacroArgCount, invSpan, "missing `)` to close macro arguments").Emit()
			return nil, false
		}
		switch t.Kind {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
			if depth == 0 {
				w.next()
				if len(current) > 0 || sawComma || len(args) > 0 {
					args = append(args, current)
				}
				return args, true
			}
		case token.Comma:
			if depth == 1 {
				args = append(args, current)
				current = []token.ID{}
				sawComma = true
				w.next()
				continue
			}
		}
		current = append(current, w.next())
	}
}
