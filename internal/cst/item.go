package cst

import (
	"muscript/internal/caseins"
	"muscript/internal/token"
)

// Specifier is a keyword modifier on a declaration (abstract, native,
// transient, out, optional, ...). Recognition is case-insensitive; the
// display spelling is preserved.
type Specifier struct {
	Spanned
	Name caseins.Name
}

// Metadata is a raw `<Key=Value|Key=Value>` tail captured verbatim.
type Metadata struct {
	Spanned
	Text string
}

// LazyBlock is a balanced `{ ... }` region captured as a raw token span.
// The interior is parsed only if the analyzer opens it.
type LazyBlock struct {
	Spanned
	Open  token.ID   // the `{`
	Inner token.Span // tokens strictly between the braces; may be empty
	Close token.ID   // the `}`; a sentinel ID after bracket recovery
}

// ClassHeader is the `class Name [extends Parent] [within Outer] spec* ;` line.
type ClassHeader struct {
	Spanned
	Name        caseins.Name
	NameSpan    token.Span
	Extends     *caseins.Name // nil when the class has no explicit parent
	ExtendsSpan token.Span
	Within      *caseins.Name
	WithinSpan  token.Span
	Specifiers  []Specifier
}

func (*ClassHeader) isItem() {}

// VarDecl is `var(...)? spec* Type Name (, Name)* meta? ;`.
// One declaration may introduce several names.
type VarDecl struct {
	Spanned
	Category   *Metadata // the optional `var(Category)` editor group
	Specifiers []Specifier
	Type       *TypeRef
	Names      []DeclName
	Meta       *Metadata
}

func (*VarDecl) isItem() {}

// DeclName is one declared name, optionally with a static array suffix.
type DeclName struct {
	Spanned
	Name      caseins.Name
	ArraySize Expr // nil unless `Name[expr]`
}

// ConstDecl is `const Name = literal ;`.
type ConstDecl struct {
	Spanned
	Name     caseins.Name
	NameSpan token.Span
	Value    Expr
}

func (*ConstDecl) isItem() {}

// FunctionDecl covers `function`, `event`, `operator`, and friends: an
// optional specifier run, an optional return type, a name, a parameter
// list, and either a body block or a `;` for declarations without one.
type FunctionDecl struct {
	Spanned
	Specifiers []Specifier
	KindSpan   token.Span // the `function` / `event` / `operator` keyword
	ReturnType *TypeRef   // nil for procedures
	Name       caseins.Name
	NameSpan   token.Span
	Params     []Param
	Body       *Block // nil for native/declared-only functions
}

func (*FunctionDecl) isItem() {}

// Param is one formal parameter: spec* Type Name [= default].
type Param struct {
	Spanned
	Specifiers []Specifier
	Type       *TypeRef
	Name       caseins.Name
	NameSpan   token.Span
	Default    Expr // nil unless `optional` with a default value
}

// IsOut reports whether the parameter carries the `out` specifier.
func (p *Param) IsOut() bool {
	for i := range p.Specifiers {
		if p.Specifiers[i].Name.Key() == "out" {
			return true
		}
	}
	return false
}

// Simulated wraps the item that follows a `simulated` keyword.
type Simulated struct {
	Spanned
	Item Item
}

func (*Simulated) isItem() {}

// StructDecl is `struct spec* Name [extends Parent] { var-decls } ;?`.
type StructDecl struct {
	Spanned
	Specifiers []Specifier
	Name       caseins.Name
	NameSpan   token.Span
	Extends    *caseins.Name
	Members    []Item
	CppText    *LazyBlock // structcpptext interior, if present
}

func (*StructDecl) isItem() {}

// EnumDecl is `enum Name { A, B, C } ;?`.
type EnumDecl struct {
	Spanned
	Name     caseins.Name
	NameSpan token.Span
	Variants []EnumVariant
}

func (*EnumDecl) isItem() {}

type EnumVariant struct {
	Spanned
	Name caseins.Name
	Meta *Metadata
}

// StateDecl is `state spec* Name [extends Parent] { ... }` captured lazily:
// state interiors are not analyzed yet.
type StateDecl struct {
	Spanned
	Specifiers []Specifier
	Name       caseins.Name
	NameSpan   token.Span
	Extends    *caseins.Name
	Body       *LazyBlock
}

func (*StateDecl) isItem() {}

// DefaultProperties is the `defaultproperties { ... }` lazy region.
type DefaultProperties struct {
	Spanned
	Body *LazyBlock
}

func (*DefaultProperties) isItem() {}

// Replication is the `replication { ... }` lazy region.
type Replication struct {
	Spanned
	Body *LazyBlock
}

func (*Replication) isItem() {}

// CppText is a `cpptext { ... }` region; the interior is a raw blob token.
type CppText struct {
	Spanned
	Body *LazyBlock
}

func (*CppText) isItem() {}

// StmtItem is the fallback: a bare statement at item position. It keeps the
// parser total over slightly malformed files; the analyzer rejects it.
type StmtItem struct {
	Spanned
	Stmt Stmt
}

func (*StmtItem) isItem() {}
