// Package env holds the compilation environment: interned classes,
// variables and functions, per-class partitions, and the memoizing
// namespaces used for name lookup. Entities are integer IDs into
// append-only vectors, so cyclic references (a class naming its parent)
// never become ownership cycles.
package env

import (
	"muscript/internal/caseins"
	"muscript/internal/cst"
	"muscript/internal/ir"
	"muscript/internal/source"
	"muscript/internal/types"
)

// VarID identifies an interned variable (class field, local, or parameter).
type VarID uint32

// FunctionID identifies an interned function.
type FunctionID uint32

// NoVar and NoFunction are the miss sentinels stored by memoizing
// namespaces: a present key holding the sentinel means "looked up, absent".
const (
	NoVar      VarID      = ^VarID(0)
	NoFunction FunctionID = ^FunctionID(0)
)

// VarKind classifies where a variable was declared.
type VarKind uint8

const (
	VarKindField VarKind = iota
	VarKindLocal
	VarKindParam
)

// Var is one interned variable.
type Var struct {
	File     source.FileID
	Name     caseins.Name
	NameSpan source.Span
	Ty       types.TypeID
	Kind     VarKind
}

// Param is one formal parameter of an interned function.
type Param struct {
	Var      VarID
	Out      bool
	Optional bool
}

// Function is one interned function. IR is nil until the driver lowers the
// body; Decl keeps the syntax for that lowering.
type Function struct {
	File     source.FileID
	Class    types.ClassID
	Name     caseins.Name
	NameSpan source.Span
	Result   types.TypeID
	Params   []Param
	Decl     *cst.FunctionDecl
	IR       *ir.Func // nil until the body is lowered
}

type classInfo struct {
	name  caseins.Name
	super types.ClassID

	// nil + set=false: никогда не строились; set=true: материализованы
	partitions    []*UntypedClassPartition
	partitionsSet bool

	ns namespace
}

// Env is the mutable half of the compilation state. All mutation funnels
// through the Compiler; readers treat it as append-only.
type Env struct {
	Types *types.Interner

	classNames map[caseins.Key]types.ClassID
	classes    []classInfo // индекс ClassID-1; 0 — NoClass

	vars      []Var
	functions []Function

	intrinsics map[caseins.Key]FunctionID
}

func New() *Env {
	e := &Env{
		Types:      types.NewInterner(),
		classNames: make(map[caseins.Key]types.ClassID),
		intrinsics: make(map[caseins.Key]FunctionID),
	}
	e.Types.ClassNames = func(c types.ClassID) string {
		return e.ClassName(c).String()
	}
	return e
}

// AllocateClassID interns a class name. IDs grow monotonically and
// re-interning any spelling of the same name returns the same ID.
func (e *Env) AllocateClassID(name string) types.ClassID {
	key := caseins.Fold(name)
	if id, ok := e.classNames[key]; ok {
		return id
	}
	e.classes = append(e.classes, classInfo{name: caseins.NewName(name)})
	id := types.ClassID(len(e.classes))
	e.classNames[key] = id
	return id
}

// FindClass resolves an interned class by folded name.
// Implements types.ClassScope.
func (e *Env) FindClass(name caseins.Key) (types.ClassID, bool) {
	id, ok := e.classNames[name]
	return id, ok
}

// ClassName returns the display name a class was first interned under.
func (e *Env) ClassName(c types.ClassID) caseins.Name {
	if c == types.NoClass || int(c) > len(e.classes) {
		return caseins.NewName("<none>")
	}
	return e.classes[c-1].name
}

// ClassCount returns the number of interned classes.
func (e *Env) ClassCount() int { return len(e.classes) }

func (e *Env) class(c types.ClassID) *classInfo {
	return &e.classes[c-1]
}

// SetSuper records the parent class discovered in the class header.
func (e *Env) SetSuper(c, super types.ClassID) {
	e.class(c).super = super
}

// SuperOf returns the parent class, if any. Implements types.Hierarchy.
func (e *Env) SuperOf(c types.ClassID) (types.ClassID, bool) {
	if c == types.NoClass || int(c) > len(e.classes) {
		return types.NoClass, false
	}
	super := e.class(c).super
	return super, super != types.NoClass
}

// Partitions returns the materialized partitions of a class. The second
// result distinguishes "materialized as empty" from "never materialized".
func (e *Env) Partitions(c types.ClassID) ([]*UntypedClassPartition, bool) {
	ci := e.class(c)
	return ci.partitions, ci.partitionsSet
}

// SetPartitions memoizes the partitions of a class.
func (e *Env) SetPartitions(c types.ClassID, parts []*UntypedClassPartition) {
	ci := e.class(c)
	ci.partitions = parts
	ci.partitionsSet = true
}

// NewVar interns a variable.
func (e *Env) NewVar(v Var) VarID {
	id := VarID(len(e.vars))
	e.vars = append(e.vars, v)
	return id
}

// GetVar returns an interned variable.
func (e *Env) GetVar(id VarID) *Var { return &e.vars[id] }

// VarCount returns the number of interned variables.
func (e *Env) VarCount() int { return len(e.vars) }

// NewFunction interns a function.
func (e *Env) NewFunction(f Function) FunctionID {
	id := FunctionID(len(e.functions))
	e.functions = append(e.functions, f)
	return id
}

// GetFunction returns an interned function.
func (e *Env) GetFunction(id FunctionID) *Function { return &e.functions[id] }

// Intrinsic interns the built-in operator carrier with the given spelling
// (`+`, `==`, ...). Built-in operators have no declaring class and no body;
// the analyzer types them from its own rule table, and lowered calls point
// at the carrier so every operation in the flow is a function call.
func (e *Env) Intrinsic(name string) FunctionID {
	key := caseins.Fold(name)
	if id, ok := e.intrinsics[key]; ok {
		return id
	}
	id := e.NewFunction(Function{
		Class:  types.NoClass,
		Name:   caseins.NewName(name),
		Result: types.Error,
	})
	e.intrinsics[key] = id
	return id
}

// IsIntrinsic reports whether id names a built-in operator carrier.
func (e *Env) IsIntrinsic(id FunctionID) bool {
	return e.GetFunction(id).Class == types.NoClass && e.GetFunction(id).Decl == nil
}

// FunctionCount returns the number of interned functions.
func (e *Env) FunctionCount() int { return len(e.functions) }
