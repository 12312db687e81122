// Package compiler orchestrates the per-class pipeline: partition the
// parsed sources, resolve the class hierarchy, intern declarations, and
// lower function bodies. Every query memoizes in the environment, so a
// class pulled in as a parent or a field type is materialized once no
// matter how many classes reference it.
package compiler

import (
	"errors"
	"fmt"

	"muscript/internal/caseins"
	"muscript/internal/cst"
	"muscript/internal/diag"
	"muscript/internal/env"
	"muscript/internal/ir"
	"muscript/internal/sema"
	"muscript/internal/source"
	"muscript/internal/token"
	"muscript/internal/types"
)

// ErrCompileFailed is returned when compilation produced at least one
// error diagnostic. The diagnostics themselves are in the bag; the error
// only signals the exit path.
var ErrCompileFailed = errors.New("compilation failed")

// ParsedSource is one parsed file contributing to a class.
type ParsedSource struct {
	File source.FileID
	CST  *cst.File
}

// SourceInput feeds parsed sources to the compiler. Implementations own
// lexing, preprocessing, and parsing; the compiler never touches raw text.
type SourceInput interface {
	// ClassExists reports whether a source for the class exists, without
	// forcing a parse.
	ClassExists(name caseins.Key) bool
	// ClassSourceIDs registers the class's source files and returns their
	// IDs without parsing their contents. Ok is false for unknown classes.
	ClassSourceIDs(name caseins.Key) ([]source.FileID, bool)
	// ClassSources parses (or returns cached) sources for the class.
	ClassSources(name caseins.Key) ([]ParsedSource, error)
}

// CompiledClass is the per-class output: interned declarations in source
// order.
type CompiledClass struct {
	Class     types.ClassID
	Vars      []env.VarID
	Functions []env.FunctionID
}

// Package is the result of CompilePackage.
type Package struct {
	Classes map[types.ClassID]*CompiledClass
}

// Compiler drives compilation over one environment and one token arena.
type Compiler struct {
	Env   *env.Env
	Arena *token.Arena
	Input SourceInput
	Bag   *diag.Bag

	rep      diag.Reporter
	compiled map[types.ClassID]*CompiledClass
	// классы, чьи заголовки уже разрешены (защита от циклов extends)
	linking map[types.ClassID]bool
	linked  map[types.ClassID]bool
}

// New creates a compiler writing diagnostics into bag.
func New(arena *token.Arena, input SourceInput, bag *diag.Bag) *Compiler {
	return &Compiler{
		Env:      env.New(),
		Arena:    arena,
		Input:    input,
		Bag:      bag,
		rep:      diag.BagReporter{Bag: bag},
		compiled: make(map[types.ClassID]*CompiledClass),
		linking:  make(map[types.ClassID]bool),
		linked:   make(map[types.ClassID]bool),
	}
}

// FindClass resolves a class name against the environment first and the
// source input second, interning on first sight. Implements
// types.ClassScope for type resolution.
func (c *Compiler) FindClass(name caseins.Key) (types.ClassID, bool) {
	if id, ok := c.Env.FindClass(name); ok {
		return id, true
	}
	if c.Input != nil && c.Input.ClassExists(name) {
		return c.Env.AllocateClassID(string(name)), true
	}
	return types.NoClass, false
}

// SuperOf delegates to the environment after making sure the class header
// has been linked. Implements types.Hierarchy.
func (c *Compiler) SuperOf(id types.ClassID) (types.ClassID, bool) {
	c.linkClass(id)
	return c.Env.SuperOf(id)
}

// partitions materializes (once) the partitions of a class.
func (c *Compiler) partitions(id types.ClassID) []*env.UntypedClassPartition {
	if parts, ok := c.Env.Partitions(id); ok {
		return parts
	}
	var parts []*env.UntypedClassPartition
	if c.Input != nil {
		sources, err := c.Input.ClassSources(c.Env.ClassName(id).Key())
		if err != nil {
			diag.Error(c.rep, diag.DrvFileRead, source.Span{},
				fmt.Sprintf("cannot load sources of class `%s`: %v", c.Env.ClassName(id), err)).
				Emit()
		}
		for _, src := range sources {
			parts = append(parts, env.BuildPartition(c.Arena, src.File, src.CST, c.rep))
		}
	}
	c.Env.SetPartitions(id, parts)
	return parts
}

// linkClass resolves the header of a class: its parent and header-level
// support checks. Safe to call repeatedly; cycles in `extends` degrade to
// a rootless class after a diagnostic.
func (c *Compiler) linkClass(id types.ClassID) {
	if id == types.NoClass || c.linked[id] || c.linking[id] {
		return
	}
	c.linking[id] = true
	defer func() {
		delete(c.linking, id)
		c.linked[id] = true
	}()

	for _, part := range c.partitions(id) {
		h := part.Header
		if h == nil || h.Extends == nil {
			continue
		}
		super, ok := c.FindClass(h.Extends.Key())
		if !ok {
			diag.Error(c.rep, diag.SemaMissingClass, h.ExtendsSpan.Source(c.Arena),
				fmt.Sprintf("cannot find class `%s`", h.Extends)).
				Emit()
			continue
		}
		if super == id {
			diag.Error(c.rep, diag.SemaMissingClass, h.ExtendsSpan.Source(c.Arena),
				fmt.Sprintf("class `%s` extends itself", c.Env.ClassName(id))).
				Emit()
			continue
		}
		c.Env.SetSuper(id, super)
		c.linkClass(super)
	}
}

// ClassVar resolves a field declared directly on the class, interning it
// on first lookup and memoizing hits and misses alike. Implements
// sema.ClassFields.
func (c *Compiler) ClassVar(id types.ClassID, name caseins.Key) (env.VarID, bool) {
	if v, ok, known := c.Env.CachedVar(id, name); known {
		return v, ok
	}
	for _, part := range c.partitions(id) {
		entry, ok := part.Vars[name]
		if !ok {
			continue
		}
		v := c.internVar(id, part, entry)
		c.Env.MemoizeVar(id, name, v)
		return v, true
	}
	c.Env.MemoizeVarMiss(id, name)
	return env.NoVar, false
}

// ClassFunction resolves a function declared directly on the class.
// Implements sema.ClassFields.
func (c *Compiler) ClassFunction(id types.ClassID, name caseins.Key) (env.FunctionID, bool) {
	if f, ok, known := c.Env.CachedFunction(id, name); known {
		return f, ok
	}
	for _, part := range c.partitions(id) {
		decl, ok := part.Functions[name]
		if !ok {
			continue
		}
		f := c.internFunction(id, part, decl)
		c.Env.MemoizeFunction(id, name, f)
		return f, true
	}
	c.Env.MemoizeFunctionMiss(id, name)
	return env.NoFunction, false
}

func (c *Compiler) internVar(id types.ClassID, part *env.UntypedClassPartition, entry env.VarEntry) env.VarID {
	ty := c.Env.Types.Resolve(entry.Decl.Type, c.Arena, c, c.rep)
	return c.Env.NewVar(env.Var{
		File:     part.File,
		Name:     entry.Name.Name,
		NameSpan: entry.Name.Span().Source(c.Arena),
		Ty:       ty,
		Kind:     env.VarKindField,
	})
}

func (c *Compiler) internFunction(id types.ClassID, part *env.UntypedClassPartition, decl *cst.FunctionDecl) env.FunctionID {
	result := types.Void
	if decl.ReturnType != nil {
		result = c.Env.Types.Resolve(decl.ReturnType, c.Arena, c, c.rep)
	}
	fn := env.Function{
		File:     part.File,
		Class:    id,
		Name:     decl.Name,
		NameSpan: decl.NameSpan.Source(c.Arena),
		Result:   result,
		Decl:     decl,
	}
	for i := range decl.Params {
		p := &decl.Params[i]
		ty := c.Env.Types.Resolve(p.Type, c.Arena, c, c.rep)
		v := c.Env.NewVar(env.Var{
			File:     part.File,
			Name:     p.Name,
			NameSpan: p.NameSpan.Source(c.Arena),
			Ty:       ty,
			Kind:     env.VarKindParam,
		})
		optional := false
		for _, s := range p.Specifiers {
			if s.Name.Key() == "optional" {
				optional = true
			}
		}
		fn.Params = append(fn.Params, env.Param{Var: v, Out: p.IsOut(), Optional: optional})
	}
	return c.Env.NewFunction(fn)
}

// CompileClass fully compiles one class: links the header, interns every
// declaration in source order, lowers every body, and runs the support
// checks. Repeat calls return the memoized result.
func (c *Compiler) CompileClass(id types.ClassID) *CompiledClass {
	if out, ok := c.compiled[id]; ok {
		return out
	}
	out := &CompiledClass{Class: id}
	c.compiled[id] = out

	c.linkClass(id)
	parts := c.partitions(id)

	// сначала все поля, затем все функции — в исходном порядке
	for _, part := range parts {
		for _, key := range part.VarOrder {
			if v, ok := c.ClassVar(id, key); ok {
				out.Vars = append(out.Vars, v)
			}
		}
	}
	for _, part := range parts {
		for _, key := range part.FunctionOrder {
			f, ok := c.ClassFunction(id, key)
			if !ok {
				continue
			}
			out.Functions = append(out.Functions, f)
			c.lowerBody(id, f)
		}
	}
	for _, part := range parts {
		part.CheckItemSupport(c.Arena, c.rep)
	}
	return out
}

func (c *Compiler) lowerBody(id types.ClassID, f env.FunctionID) {
	fn := c.Env.GetFunction(f)
	if fn.IR != nil || fn.Decl == nil || fn.Decl.Body == nil {
		return
	}
	fb := sema.NewFunctionBuilder(c.Env, c, id, c.Arena, c.rep, fn)
	lowered := fb.Lower(fn.Decl.Body)
	for _, err := range ir.Validate(lowered) {
		diag.Bug(c.rep, diag.BugInternal, fn.NameSpan, err.Error()).Emit()
	}
	fn.IR = lowered
}

// CompilePackage compiles every named class and returns the package.
// Classes are visited in the order the caller listed them, so diagnostics
// across classes follow the input list. The error is ErrCompileFailed
// exactly when the bag holds an error; the partial package is returned
// either way.
func (c *Compiler) CompilePackage(names []string) (*Package, error) {
	pkg := &Package{Classes: make(map[types.ClassID]*CompiledClass)}
	for _, name := range names {
		id, ok := c.FindClass(caseins.Fold(name))
		if !ok {
			diag.Error(c.rep, diag.SemaMissingClass, source.Span{},
				fmt.Sprintf("cannot find class `%s`", name)).
				Emit()
			continue
		}
		pkg.Classes[id] = c.CompileClass(id)
	}
	if c.Bag != nil && c.Bag.HasErrors() {
		return pkg, ErrCompileFailed
	}
	return pkg, nil
}
