// Package parser implements the hand-written predictive parser for
// UnrealScript. It consumes the preprocessed token stream and produces a
// concrete syntax tree; every alternative is chosen by a one- or two-token
// lookahead predicate, and malformed bracket regions are drained to the
// enclosing nesting level so one mistake costs one diagnostic.
package parser

import (
	"muscript/internal/cst"
	"muscript/internal/diag"
	"muscript/internal/source"
	"muscript/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the error budget is exhausted.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Parser is the per-file parse state.
type Parser struct {
	st    *Stream
	arena *token.Arena
	opts  Options

	// стек открытых скобок; глубина ограничивает восстановление
	brackets []token.Kind
	lastSpan source.Span
	lastID   token.ID
}

// ParseFile parses a class source file: an optional `class` header followed
// by items. A missing header is not a parse error; partitioning reports it.
func ParseFile(arena *token.Arena, ids []token.ID, opts Options) (*cst.File, *Parser) {
	p := newParser(arena, ids, opts)
	file := &cst.File{}
	start := p.st.PeekID()

	if p.peek().IsKeyword("class") {
		file.Header = p.parseClassHeader()
	}
	file.Items = p.parseItems()
	file.EOF = p.st.PeekID()
	file.SetSpan(token.Span{Start: start, End: file.EOF})
	return file, p
}

// ParseBareFile parses an item sequence with no header expectation: the
// shape used for empty files and item re-parse checks.
func ParseBareFile(arena *token.Arena, ids []token.ID, opts Options) (*cst.BareFile, *Parser) {
	p := newParser(arena, ids, opts)
	file := &cst.BareFile{}
	start := p.st.PeekID()

	file.Items = p.parseItems()
	file.EOF = p.st.PeekID()
	file.SetSpan(token.Span{Start: start, End: file.EOF})
	return file, p
}

func newParser(arena *token.Arena, ids []token.ID, opts Options) *Parser {
	return &Parser{
		st:    NewStream(arena, ids),
		arena: arena,
		opts:  opts,
	}
}

// ErrorCount returns the number of error diagnostics this parser emitted.
func (p *Parser) ErrorCount() uint { return p.opts.CurrentErrors }

func (p *Parser) parseItems() []cst.Item {
	var items []cst.Item
	for !p.at(token.EOF) {
		item, ok := p.parseItem()
		if !ok {
			p.resyncTop()
			continue
		}
		items = append(items, item)
	}
	return items
}

// resyncTop skips to the next plausible item start at nesting level zero:
// past a `;`, or up to a token that can begin an item.
func (p *Parser) resyncTop() {
	for !p.at(token.EOF) {
		if p.level() > 0 {
			p.advance()
			continue
		}
		tok := p.peek()
		if tok.Kind == token.Semicolon {
			p.advance()
			return
		}
		if tok.Kind == token.Ident && startsItem(tok) {
			return
		}
		p.advance()
	}
}

func startsItem(tok token.Token) bool {
	for _, kw := range itemKeywords {
		if tok.IsKeyword(kw) {
			return true
		}
	}
	return false
}

var itemKeywords = []string{
	"class", "var", "const", "function", "event", "delegate",
	"operator", "preoperator", "postoperator",
	"struct", "enum", "state", "simulated", "auto",
	"defaultproperties", "replication", "cpptext", "native", "static", "final",
}
