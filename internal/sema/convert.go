package sema

import (
	"fmt"

	"muscript/internal/cst"
	"muscript/internal/diag"
	"muscript/internal/ir"
	"muscript/internal/source"
	"muscript/internal/types"
)

// convertible reports whether a value of type `from` may be used where
// `to` is expected without an explicit cast. Bool never converts either
// way; that mistake gets its own diagnostic with a concrete rewrite.
func (fb *FunctionBuilder) convertible(from, to types.TypeID) bool {
	if from == to {
		return true
	}
	// ошибка уже отравила выражение — не каскадируем
	if from == types.Error || to == types.Error {
		return true
	}
	switch from {
	case types.Byte:
		return to == types.Int || to == types.Float
	case types.Int:
		return to == types.Float || to == types.Byte
	case types.Float:
		return false
	case types.Void:
		// `none` подходит любому классовому типу
		return fb.env.Types.Get(to).Kind == types.KindClass
	}
	ft := fb.env.Types.Get(from)
	tt := fb.env.Types.Get(to)
	if ft.Kind == types.KindClass && tt.Kind == types.KindClass {
		return types.IsSubclass(ft.Class, tt.Class, fb.env)
	}
	return false
}

// coerce checks a register against an expected type and returns a register
// of a compatible type: the original when it fits, a typed sentinel after a
// diagnostic when it does not.
func (fb *FunctionBuilder) coerce(id ir.NodeID, to types.TypeID, sp source.Span) ir.NodeID {
	from := fb.tyOf(id)
	if fb.convertible(from, to) {
		return id
	}
	if to == types.Bool {
		b := diag.Error(fb.rep, diag.SemaBoolConversion, sp,
			fmt.Sprintf("`%s` is not a Bool and does not convert to one", fb.display(from)))
		switch {
		case from == types.Int || from == types.Byte || from == types.Float:
			b = b.WithNote("compare explicitly instead: `x != 0`")
		case fb.env.Types.Get(from).Kind == types.KindClass:
			b = b.WithNote("compare explicitly instead: `x != none`")
		}
		b.Emit()
	} else {
		diag.Error(fb.rep, diag.SemaTypeMismatch, sp,
			fmt.Sprintf("expected `%s`, found `%s`", fb.display(to), fb.display(from))).
			Emit()
	}
	return fb.b.EmitVoid(to)
}

// cond lowers a branch condition. A non-Bool condition is an error, but the
// register still feeds the branch so control-flow shape survives the
// mistake.
func (fb *FunctionBuilder) cond(e cst.Expr) ir.NodeID {
	id := fb.expr(e)
	t := fb.tyOf(id)
	if t == types.Bool || t == types.Error {
		return id
	}
	b := diag.Error(fb.rep, diag.SemaNonBoolCondition, fb.spanOf(e),
		fmt.Sprintf("condition must be `Bool`, found `%s`", fb.display(t)))
	switch {
	case t == types.Int || t == types.Byte || t == types.Float:
		b = b.WithNote("compare explicitly instead: `x != 0`")
	case fb.env.Types.Get(t).Kind == types.KindClass:
		b = b.WithNote("compare explicitly instead: `x != none`")
	}
	b.Emit()
	return id
}

func (fb *FunctionBuilder) display(t types.TypeID) string {
	return fb.env.Types.Display(t)
}
