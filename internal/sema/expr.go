package sema

import (
	"fmt"
	"strconv"
	"strings"

	"muscript/internal/cst"
	"muscript/internal/diag"
	"muscript/internal/env"
	"muscript/internal/ir"
	"muscript/internal/types"
)

// expr lowers an expression and returns its register. The register always
// carries a meaningful type; failures produce an ERROR-typed sentinel after
// exactly one diagnostic.
func (fb *FunctionBuilder) expr(e cst.Expr) ir.NodeID {
	switch x := e.(type) {
	case *cst.Lit:
		return fb.lowerLit(x)
	case *cst.Ident:
		return fb.lowerIdent(x)
	case *cst.Member:
		return fb.lowerMember(x)
	case *cst.Paren:
		return fb.expr(x.Inner)
	case *cst.Infix:
		return fb.lowerInfix(x)
	case *cst.Prefix:
		return fb.lowerPrefix(x)
	case *cst.Postfix:
		return fb.lowerPostfix(x)
	case *cst.Call:
		return fb.lowerCall(x)
	case *cst.Index:
		return fb.lowerIndex(x)
	case *cst.Ternary:
		diag.Error(fb.rep, diag.SemaUnsupported, fb.spanOf(x),
			"conditional `? :` expressions are not yet supported").
			WithNote("analysis of this construct is a work in progress").
			Emit()
		return fb.b.EmitVoid(types.Error)
	case *cst.StaticRef:
		diag.Error(fb.rep, diag.SemaUnsupported, fb.spanOf(x),
			"qualified `::` references are not yet supported").
			WithNote("analysis of this construct is a work in progress").
			Emit()
		return fb.b.EmitVoid(types.Error)
	case *cst.ObjectLit:
		diag.Error(fb.rep, diag.SemaUnsupported, fb.spanOf(x),
			"object reference literals are not yet supported outside defaultproperties").
			WithNote("analysis of this construct is a work in progress").
			Emit()
		return fb.b.EmitVoid(types.Error)
	case *cst.Bad:
		// парсер уже сообщил об ошибке
		return fb.b.EmitVoid(types.Error)
	}
	diag.Bug(fb.rep, diag.BugInternal, fb.spanOf(e),
		fmt.Sprintf("no lowering for expression %T", e)).Emit()
	return fb.b.EmitVoid(types.Error)
}

// exprExpect lowers an expression and coerces it to the expected type.
func (fb *FunctionBuilder) exprExpect(e cst.Expr, want types.TypeID) ir.NodeID {
	return fb.coerce(fb.expr(e), want, fb.spanOf(e))
}

func (fb *FunctionBuilder) lowerLit(x *cst.Lit) ir.NodeID {
	switch x.Kind {
	case cst.LitNone:
		return fb.b.Emit(ir.Node{Kind: ir.RegVoid, Ty: types.Void})
	case cst.LitBool:
		return fb.b.EmitConst(types.Bool, ir.ConstNode{
			Kind: ir.ConstBool,
			Bool: strings.EqualFold(x.Text, "true"),
		})
	case cst.LitInt:
		v, err := strconv.ParseInt(x.Text, 0, 64)
		if err != nil {
			// лексер гарантирует форму; переполнение — единственный случай
			diag.Error(fb.rep, diag.SemaTypeMismatch, fb.spanOf(x),
				"integer literal does not fit in 64 bits").Emit()
			return fb.b.EmitVoid(types.Int)
		}
		return fb.b.EmitConst(types.Int, ir.ConstNode{Kind: ir.ConstInt, Int: v})
	case cst.LitFloat:
		v, err := strconv.ParseFloat(strings.TrimSuffix(x.Text, "f"), 64)
		if err != nil {
			diag.Error(fb.rep, diag.SemaTypeMismatch, fb.spanOf(x),
				"float literal is out of range").Emit()
			return fb.b.EmitVoid(types.Float)
		}
		return fb.b.EmitConst(types.Float, ir.ConstNode{Kind: ir.ConstFloat, Float: v})
	case cst.LitString:
		return fb.b.EmitConst(types.String, ir.ConstNode{
			Kind: ir.ConstString,
			Str:  unquoteString(x.Text),
		})
	case cst.LitName:
		return fb.b.EmitConst(types.Name, ir.ConstNode{
			Kind: ir.ConstName,
			Str:  strings.Trim(x.Text, "'"),
		})
	}
	return fb.b.EmitVoid(types.Error)
}

// unquoteString strips the quotes and resolves the escapes the lexer
// accepted. Unknown escapes were already reported; keep the char as-is.
func unquoteString(text string) string {
	body := strings.TrimSuffix(strings.TrimPrefix(text, `"`), `"`)
	if !strings.Contains(body, `\`) {
		return body
	}
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			b.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		default:
			b.WriteByte(body[i])
		}
	}
	return b.String()
}

func (fb *FunctionBuilder) lowerIdent(x *cst.Ident) ir.NodeID {
	key := x.Name.Key()
	if key == "self" {
		return fb.b.Emit(ir.Node{Kind: ir.RegThis, Ty: fb.env.Types.ClassType(fb.class)})
	}
	if id, ok := fb.lookupLocal(key); ok {
		return fb.b.Emit(ir.Node{
			Kind:  ir.RegLocal,
			Ty:    fb.env.GetVar(id).Ty,
			Local: ir.LocalNode{Var: ir.VarRef(id)},
		})
	}
	if id, ok := fb.lookupField(fb.class, key); ok {
		return fb.b.Emit(ir.Node{
			Kind:  ir.RegField,
			Ty:    fb.env.GetVar(id).Ty,
			Field: ir.FieldNode{Var: ir.VarRef(id)},
		})
	}
	diag.Error(fb.rep, diag.SemaUnknownVar, fb.spanOf(x),
		fmt.Sprintf("cannot find variable `%s` in this scope", x.Name)).Emit()
	return fb.b.EmitVoid(types.Error)
}

func (fb *FunctionBuilder) lowerMember(x *cst.Member) ir.NodeID {
	target := fb.expr(x.Target)
	tt := fb.tyOf(target)
	if tt == types.Error {
		return fb.b.EmitVoid(types.Error)
	}
	shape := fb.env.Types.Get(tt)
	if shape.Kind == types.KindArray && x.Name.Key() == "length" {
		return fb.b.EmitConst(types.Int, ir.ConstNode{Kind: ir.ConstInt})
	}
	if shape.Kind != types.KindClass {
		diag.Error(fb.rep, diag.SemaUnknownVar, x.NameSpan.Source(fb.arena),
			fmt.Sprintf("`%s` has no members: it is not an object", fb.display(tt))).Emit()
		return fb.b.EmitVoid(types.Error)
	}
	if id, ok := fb.lookupField(shape.Class, x.Name.Key()); ok {
		return fb.b.Emit(ir.Node{
			Kind:  ir.RegField,
			Ty:    fb.env.GetVar(id).Ty,
			Field: ir.FieldNode{Var: ir.VarRef(id)},
		})
	}
	diag.Error(fb.rep, diag.SemaUnknownVar, x.NameSpan.Source(fb.arena),
		fmt.Sprintf("cannot find variable `%s` in class `%s`", x.Name, fb.env.ClassName(shape.Class))).Emit()
	return fb.b.EmitVoid(types.Error)
}

func (fb *FunctionBuilder) lowerCall(x *cst.Call) ir.NodeID {
	var (
		fid  env.FunctionID
		ok   bool
		name string
	)
	switch callee := x.Callee.(type) {
	case *cst.Ident:
		name = callee.Name.String()
		fid, ok = fb.lookupFunction(fb.class, callee.Name.Key())
	case *cst.Member:
		name = callee.Name.String()
		target := fb.expr(callee.Target)
		tt := fb.tyOf(target)
		if tt == types.Error {
			fb.exprArgsForEffect(x.Args)
			return fb.b.EmitVoid(types.Error)
		}
		shape := fb.env.Types.Get(tt)
		if shape.Kind != types.KindClass {
			diag.Error(fb.rep, diag.SemaUnknownFunction, callee.NameSpan.Source(fb.arena),
				fmt.Sprintf("`%s` has no functions: it is not an object", fb.display(tt))).Emit()
			fb.exprArgsForEffect(x.Args)
			return fb.b.EmitVoid(types.Error)
		}
		fid, ok = fb.lookupFunction(shape.Class, callee.Name.Key())
	default:
		diag.Error(fb.rep, diag.SemaUnsupported, fb.spanOf(x.Callee),
			"only named functions can be called").
			WithNote("analysis of this construct is a work in progress").
			Emit()
		fb.exprArgsForEffect(x.Args)
		return fb.b.EmitVoid(types.Error)
	}
	if !ok {
		diag.Error(fb.rep, diag.SemaUnknownFunction, fb.spanOf(x.Callee),
			fmt.Sprintf("cannot find function `%s` in this scope", name)).Emit()
		fb.exprArgsForEffect(x.Args)
		return fb.b.EmitVoid(types.Error)
	}

	fn := fb.env.GetFunction(fid)
	if len(x.Args) > len(fn.Params) {
		diag.Error(fb.rep, diag.SemaArgCount, fb.spanOf(x),
			fmt.Sprintf("`%s` takes %d argument(s), %d given", fn.Name, len(fn.Params), len(x.Args))).
			WithLabel(fn.NameSpan, "declared here").
			Emit()
	}

	args := make([]ir.NodeID, 0, len(fn.Params))
	for i, p := range fn.Params {
		pv := fb.env.GetVar(p.Var)
		if i >= len(x.Args) || x.Args[i] == nil {
			if !p.Optional && i >= len(x.Args) {
				diag.Error(fb.rep, diag.SemaArgCount, fb.spanOf(x),
					fmt.Sprintf("missing argument `%s` in call to `%s`", pv.Name, fn.Name)).
					WithLabel(pv.NameSpan, "declared here").
					Emit()
			}
			if i < len(x.Args) && x.Args[i] == nil && !p.Optional {
				diag.Error(fb.rep, diag.SemaArgCount, fb.spanOf(x),
					fmt.Sprintf("argument `%s` of `%s` is not optional and cannot be skipped", pv.Name, fn.Name)).
					Emit()
			}
			args = append(args, fb.b.EmitVoid(pv.Ty))
			continue
		}
		arg := fb.exprExpect(x.Args[i], pv.Ty)
		if p.Out && !fb.isLValue(arg) {
			diag.Error(fb.rep, diag.SemaOutArgNotLValue, fb.spanOf(x.Args[i]),
				fmt.Sprintf("argument `%s` is `out`: the caller must pass a variable", pv.Name)).
				WithLabel(pv.NameSpan, "declared here").
				Emit()
		}
		args = append(args, arg)
	}
	// лишние аргументы всё равно вычисляем ради их собственных ошибок
	for i := len(fn.Params); i < len(x.Args); i++ {
		if x.Args[i] != nil {
			fb.expr(x.Args[i])
		}
	}

	return fb.b.Emit(ir.Node{
		Kind: ir.RegCall,
		Ty:   fn.Result,
		Call: ir.CallNode{Func: ir.FuncRef(fid), Args: args},
	})
}

// exprArgsForEffect lowers arguments of an already-failed call so their own
// mistakes still get reported.
func (fb *FunctionBuilder) exprArgsForEffect(args []cst.Expr) {
	for _, a := range args {
		if a != nil {
			fb.expr(a)
		}
	}
}

func (fb *FunctionBuilder) lowerIndex(x *cst.Index) ir.NodeID {
	target := fb.expr(x.Target)
	idx := fb.exprExpect(x.Idx, types.Int)

	tt := fb.tyOf(target)
	if tt == types.Error {
		return fb.b.EmitVoid(types.Error)
	}
	shape := fb.env.Types.Get(tt)
	if shape.Kind != types.KindArray {
		diag.Error(fb.rep, diag.SemaIndexNonArray, fb.spanOf(x),
			fmt.Sprintf("indexing `[]` can only be done on arrays, found `%s`", fb.display(tt))).
			Emit()
		return fb.b.EmitVoid(types.Error)
	}
	return fb.b.Emit(ir.Node{
		Kind:  ir.RegIndex,
		Ty:    shape.Elem,
		Index: ir.IndexNode{Target: target, Index: idx},
	})
}
