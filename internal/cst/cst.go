// Package cst defines the concrete syntax tree for UnrealScript sources.
//
// Every node carries the covering token span, so any subtree can be mapped
// back to source bytes exactly. The three syntactic categories — items,
// statements, expressions — are closed sums expressed as marker interfaces;
// the analyzer switches over them exhaustively.
package cst

import "muscript/internal/token"

// Node is implemented by every syntax node.
type Node interface {
	Span() token.Span
}

// Spanned is embedded by every node and records its covering token span.
type Spanned struct {
	TokenSpan token.Span
}

func (s *Spanned) Span() token.Span      { return s.TokenSpan }
func (s *Spanned) SetSpan(sp token.Span) { s.TokenSpan = sp }

// Item is a top-level declaration inside a class source file.
type Item interface {
	Node
	isItem()
}

// Stmt is a statement inside a function body or a block.
type Stmt interface {
	Node
	isStmt()
}

// Expr is an expression.
type Expr interface {
	Node
	isExpr()
}

// File is a parsed class source: the `class` header line followed by items.
type File struct {
	Spanned
	Header *ClassHeader // nil when the file has no class line
	Items  []Item
	EOF    token.ID
}

// BareFile is a parsed item sequence without a class header requirement:
// the shape used for empty files, include fragments, and re-parse checks.
type BareFile struct {
	Spanned
	Items []Item
	EOF   token.ID
}
