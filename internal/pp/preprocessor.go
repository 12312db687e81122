// Package pp implements the UnrealScript textual macro preprocessor.
//
// It operates on the lexed token stream: `define / `undef / `if / `else /
// `endif / `include directives are interpreted, macro invocations `NAME and
// `NAME(args) are expanded, and the result is a spliced view — a slice of
// token IDs the parser consumes instead of the raw file tokens. Expanded
// tokens are copies pushed to the arena with the span of the invocation and
// the Macro channel, so diagnostics near expansions stay anchored in user
// code.
package pp

import (
	"muscript/internal/caseins"
	"muscript/internal/diag"
	"muscript/internal/source"
	"muscript/internal/token"
)

// IncludeFunc resolves an `include path to a pre-lexed token span.
type IncludeFunc func(path string) (token.Span, bool)

type Preprocessor struct {
	fs      *source.FileSet
	arena   *token.Arena
	macros  *Macros
	rep     diag.Reporter
	include IncludeFunc

	out []token.ID
	// стек незакрытых `if: спан директивы + активность ветки
	conds []condFrame
}

type condFrame struct {
	span     source.Span
	active   bool // текущая ветка эмитит токены
	taken    bool // какая-то ветка уже была активна
	sawElse  bool
	parentOn bool
}

func New(fs *source.FileSet, arena *token.Arena, macros *Macros, rep diag.Reporter, include IncludeFunc) *Preprocessor {
	return &Preprocessor{
		fs:      fs,
		arena:   arena,
		macros:  macros,
		rep:     rep,
		include: include,
	}
}

// Expand обрабатывает весь файл (диапазон span, включая EOF) и возвращает
// срез ID для парсера. EOF-токен всегда остаётся последним.
func (p *Preprocessor) Expand(span token.Span) []token.ID {
	p.out = make([]token.ID, 0, span.Len())
	ids := make([]token.ID, 0, span.Len())
	for id := span.Start; id < span.End; id++ {
		ids = append(ids, id)
	}
	p.run(ids, nil, source.Span{})

	if len(p.conds) > 0 {
		for _, c := range p.conds {
			diag.Error(p.rep, diag.PpMissingEndIf, c.span, "missing `endif").
				WithPrimaryMsg("`if opened here").
				Emit()
		}
		p.conds = p.conds[:0]
	}
	return p.out
}

// emitting reports whether tokens currently pass the conditional stack.
func (p *Preprocessor) emitting() bool {
	for i := range p.conds {
		if !p.conds[i].active {
			return false
		}
	}
	return true
}

// run walks a token ID sequence. When invocation is a non-empty span the
// sequence is macro output: every emitted token becomes an arena copy
// attributed to the invocation site.
func (p *Preprocessor) run(ids []token.ID, stack []caseins.Key, invocation source.Span) {
	w := walker{arena: p.arena, ids: ids}
	for !w.eof() {
		tok := w.peekTok()

		if tok.Kind == token.Backtick {
			backtickID := w.next()
			p.directive(&w, p.arena.Get(backtickID).Span, stack, invocation)
			continue
		}

		id := w.next()
		if !p.emitting() {
			continue
		}
		if tok.Kind == token.EOF && !invocation.Empty() {
			// EOF вложенных включений не эмитим
			continue
		}
		p.emit(id, invocation)
	}
}

func (p *Preprocessor) emit(id token.ID, invocation source.Span) {
	if invocation.Empty() {
		p.out = append(p.out, id)
		return
	}
	orig := p.arena.Get(id)
	copied := token.Token{
		Kind:    orig.Kind,
		Channel: token.ChannelMacro,
		Span:    invocation,
		Text:    orig.Text,
	}
	p.out = append(p.out, p.arena.Push(copied))
}

// walker is a simple cursor over a token ID slice.
type walker struct {
	arena *token.Arena
	ids   []token.ID
	pos   int
}

func (w *walker) eof() bool { return w.pos >= len(w.ids) }

func (w *walker) peekTok() token.Token {
	if w.eof() {
		return token.Token{Kind: token.EOF}
	}
	return w.arena.Get(w.ids[w.pos])
}

func (w *walker) next() token.ID {
	id := w.ids[w.pos]
	w.pos++
	return id
}

// skipTo advances past tokens whose span starts before off.
func (w *walker) skipUntilOffset(off uint32) {
	for !w.eof() {
		t := w.peekTok()
		if t.Kind == token.EOF || t.Span.Start >= off {
			return
		}
		w.pos++
	}
}
