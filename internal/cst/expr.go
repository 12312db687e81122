package cst

import (
	"muscript/internal/caseins"
	"muscript/internal/token"
)

// LitKind classifies literal expressions.
type LitKind uint8

const (
	LitNone LitKind = iota
	LitBool
	LitInt
	LitFloat
	LitString
	LitName
)

func (k LitKind) String() string {
	switch k {
	case LitNone:
		return "none"
	case LitBool:
		return "bool"
	case LitInt:
		return "int"
	case LitFloat:
		return "float"
	case LitString:
		return "string"
	case LitName:
		return "name"
	}
	return "?"
}

// Lit is a literal: none, true/false, numbers, strings, names.
type Lit struct {
	Spanned
	Kind LitKind
	Text string // raw source text, e.g. `0x1ABC`, `"hi"`, `'Mesh'`
}

func (*Lit) isExpr() {}

// Ident is a bare identifier reference.
type Ident struct {
	Spanned
	Name caseins.Name
}

func (*Ident) isExpr() {}

// Member is `target.Name`.
type Member struct {
	Spanned
	Target   Expr
	Name     caseins.Name
	NameSpan token.Span
}

func (*Member) isExpr() {}

// Prefix is `op operand`, e.g. `!x`, `-x`, `++i`.
type Prefix struct {
	Spanned
	Op      token.Kind
	OpSpan  token.Span
	Operand Expr
}

func (*Prefix) isExpr() {}

// Postfix is `operand op`, e.g. `i++`.
type Postfix struct {
	Spanned
	Operand Expr
	Op      token.Kind
	OpSpan  token.Span
}

func (*Postfix) isExpr() {}

// Infix is `lhs op rhs` for every binary operator, assignment included.
type Infix struct {
	Spanned
	Lhs    Expr
	Op     token.Kind
	OpSpan token.Span
	Rhs    Expr
}

func (*Infix) isExpr() {}

// Call is `callee(arg, ...)`. A skipped optional argument is a nil entry.
type Call struct {
	Spanned
	Callee Expr
	Args   []Expr
}

func (*Call) isExpr() {}

// Index is `target[index]`.
type Index struct {
	Spanned
	Target Expr
	Idx    Expr
}

func (*Index) isExpr() {}

// Paren is `(expr)`; kept so spans round-trip through the delimiters.
type Paren struct {
	Spanned
	Inner Expr
}

func (*Paren) isExpr() {}

// StaticRef is `Outer::Name` — enum variant or const qualified access.
type StaticRef struct {
	Spanned
	Outer     caseins.Name
	OuterSpan token.Span
	Name      caseins.Name
	NameSpan  token.Span
}

func (*StaticRef) isExpr() {}

// ObjectLit is a typed object reference literal, `ClassName'Obj.Path'`.
type ObjectLit struct {
	Spanned
	Class caseins.Name
	Name  string // raw name literal text, quotes included
}

func (*ObjectLit) isExpr() {}

// Ternary is `cond ? then : else`.
type Ternary struct {
	Spanned
	Cond Expr
	Then Expr
	Else Expr
}

func (*Ternary) isExpr() {}

// Bad is the placeholder produced when expression parsing fails. The span
// covers the tokens consumed by recovery.
type Bad struct {
	Spanned
}

func (*Bad) isExpr() {}
