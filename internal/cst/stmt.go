package cst

import (
	"muscript/internal/caseins"
	"muscript/internal/token"
)

// Empty is a lone `;`.
type Empty struct {
	Spanned
}

func (*Empty) isStmt() {}

// Block is `{ stmt* }`.
type Block struct {
	Spanned
	Open  token.ID
	Stmts []Stmt
	Close token.ID // sentinel after bracket recovery
}

func (*Block) isStmt() {}

// Local is `local Type Name (, Name)* ;`.
type Local struct {
	Spanned
	Type  *TypeRef
	Names []DeclName
}

func (*Local) isStmt() {}

// If is `if (cond) stmt [else stmt]`.
type If struct {
	Spanned
	Cond Expr
	Then Stmt
	Else Stmt // nil when absent
}

func (*If) isStmt() {}

// While is `while (cond) stmt`.
type While struct {
	Spanned
	Cond Expr
	Body Stmt
}

func (*While) isStmt() {}

// Do is `do stmt until (cond) ;`.
type Do struct {
	Spanned
	Body Stmt
	Cond Expr
}

func (*Do) isStmt() {}

// For is `for (init; cond; update) stmt`. Any of the three heads may be nil.
type For struct {
	Spanned
	Init   Expr
	Cond   Expr
	Update Expr
	Body   Stmt
}

func (*For) isStmt() {}

// ForEach is `foreach IteratorCall stmt`.
type ForEach struct {
	Spanned
	Iterator Expr
	Body     Stmt
}

func (*ForEach) isStmt() {}

// Switch is `switch (subject) { case-clauses }`.
type Switch struct {
	Spanned
	Subject Expr
	Open    token.ID
	Clauses []Stmt // Case clauses and their statements in source order
	Close   token.ID
}

func (*Switch) isStmt() {}

// Case is `case expr :` or `default :` (Value nil).
type Case struct {
	Spanned
	Value Expr
}

func (*Case) isStmt() {}

// Return is `return [expr] ;`.
type Return struct {
	Spanned
	Value Expr
}

func (*Return) isStmt() {}

// Break is `break ;`.
type Break struct {
	Spanned
}

func (*Break) isStmt() {}

// Continue is `continue ;`.
type Continue struct {
	Spanned
}

func (*Continue) isStmt() {}

// ExprStmt is an expression at statement position, `expr ;`.
type ExprStmt struct {
	Spanned
	Expr Expr
}

func (*ExprStmt) isStmt() {}

// Labeled is `Name:` — a state label or goto target. Kept for structure;
// the analyzer reports it as unsupported.
type Labeled struct {
	Spanned
	Name caseins.Name
}

func (*Labeled) isStmt() {}
