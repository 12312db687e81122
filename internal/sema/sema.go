// Package sema lowers parsed function bodies into basic-block IR while
// checking names and types. Lowering never aborts: every failed expression
// produces a typed sentinel register, so one mistake yields one diagnostic
// and the rest of the body is still analyzed.
package sema

import (
	"muscript/internal/caseins"
	"muscript/internal/cst"
	"muscript/internal/diag"
	"muscript/internal/env"
	"muscript/internal/ir"
	"muscript/internal/source"
	"muscript/internal/token"
	"muscript/internal/types"
)

// ClassFields resolves names declared directly on one class. Implementations
// memoize; the analyzer walks the super chain itself.
type ClassFields interface {
	ClassVar(c types.ClassID, name caseins.Key) (env.VarID, bool)
	ClassFunction(c types.ClassID, name caseins.Key) (env.FunctionID, bool)
}

// frame is one enclosing breakable construct. Switch frames have no
// continue target; `continue` skips them.
type frame struct {
	breakTo     ir.BlockID
	continueTo  ir.BlockID
	hasContinue bool
}

// FunctionBuilder lowers one function body.
type FunctionBuilder struct {
	env    *env.Env
	fields ClassFields
	class  types.ClassID
	file   source.FileID
	arena  *token.Arena
	rep    diag.Reporter

	b      *ir.Builder
	result types.TypeID
	scopes []map[caseins.Key]env.VarID
	frames []frame
}

// NewFunctionBuilder prepares lowering for fn. The function's parameters
// must already be interned; they seed the outermost scope.
func NewFunctionBuilder(e *env.Env, fields ClassFields, class types.ClassID, arena *token.Arena, rep diag.Reporter, fn *env.Function) *FunctionBuilder {
	fb := &FunctionBuilder{
		env:    e,
		fields: fields,
		class:  class,
		file:   fn.File,
		arena:  arena,
		rep:    rep,
		b:      ir.NewBuilder(fn.Name.String(), fn.Result),
		result: fn.Result,
	}
	fb.pushScope()
	for _, p := range fn.Params {
		v := e.GetVar(p.Var)
		fb.scopes[0][v.Name.Key()] = p.Var
	}
	return fb
}

// Lower lowers the body and returns the finished function. A body that
// falls off the end gets an implicit bare return.
func (fb *FunctionBuilder) Lower(body *cst.Block) *ir.Func {
	fb.pushScope()
	fb.lowerStmts(body.Stmts)
	fb.popScope()

	if !fb.b.Terminated() {
		if fb.result != types.Void && fb.result != types.Error {
			diag.Warning(fb.rep, diag.SemaInfo, fb.spanOf(body),
				"control reaches the end of `"+fb.b.Func().Name+"` without returning a value").Emit()
		}
		fb.b.Return(0, false)
	}
	return fb.b.Func()
}

func (fb *FunctionBuilder) pushScope() {
	fb.scopes = append(fb.scopes, make(map[caseins.Key]env.VarID))
}

func (fb *FunctionBuilder) popScope() {
	fb.scopes = fb.scopes[:len(fb.scopes)-1]
}

// lookupLocal searches the scope stack innermost first.
func (fb *FunctionBuilder) lookupLocal(name caseins.Key) (env.VarID, bool) {
	for i := len(fb.scopes) - 1; i >= 0; i-- {
		if id, ok := fb.scopes[i][name]; ok {
			return id, true
		}
	}
	return env.NoVar, false
}

// lookupField searches class fields from `from` up the super chain.
func (fb *FunctionBuilder) lookupField(from types.ClassID, name caseins.Key) (env.VarID, bool) {
	if fb.fields == nil {
		return env.NoVar, false
	}
	for c := from; c != types.NoClass; {
		if id, ok := fb.fields.ClassVar(c, name); ok {
			return id, true
		}
		super, ok := fb.env.SuperOf(c)
		if !ok {
			break
		}
		c = super
	}
	return env.NoVar, false
}

// lookupFunction searches class functions from `from` up the super chain.
func (fb *FunctionBuilder) lookupFunction(from types.ClassID, name caseins.Key) (env.FunctionID, bool) {
	if fb.fields == nil {
		return env.NoFunction, false
	}
	for c := from; c != types.NoClass; {
		if id, ok := fb.fields.ClassFunction(c, name); ok {
			return id, true
		}
		super, ok := fb.env.SuperOf(c)
		if !ok {
			break
		}
		c = super
	}
	return env.NoFunction, false
}

func (fb *FunctionBuilder) spanOf(n cst.Node) source.Span {
	return n.Span().Source(fb.arena)
}

// tyOf returns the type of a register in the function under construction.
func (fb *FunctionBuilder) tyOf(id ir.NodeID) types.TypeID {
	return fb.b.Func().Node(id).Ty
}

// isLValue reports whether a register names a storage location.
func (fb *FunctionBuilder) isLValue(id ir.NodeID) bool {
	switch fb.b.Func().Node(id).Kind {
	case ir.RegLocal, ir.RegField, ir.RegIndex:
		return true
	case ir.RegVoid:
		// уже ошибка — не каскадируем
		return true
	}
	return false
}

func (fb *FunctionBuilder) pushFrame(f frame) { fb.frames = append(fb.frames, f) }
func (fb *FunctionBuilder) popFrame()         { fb.frames = fb.frames[:len(fb.frames)-1] }

// breakTarget returns the innermost break target.
func (fb *FunctionBuilder) breakTarget() (ir.BlockID, bool) {
	if len(fb.frames) == 0 {
		return 0, false
	}
	return fb.frames[len(fb.frames)-1].breakTo, true
}

// continueTarget returns the innermost loop's continue target, skipping
// switch frames.
func (fb *FunctionBuilder) continueTarget() (ir.BlockID, bool) {
	for i := len(fb.frames) - 1; i >= 0; i-- {
		if fb.frames[i].hasContinue {
			return fb.frames[i].continueTo, true
		}
	}
	return 0, false
}
