package sema

import (
	"fmt"

	"muscript/internal/caseins"
	"muscript/internal/cst"
	"muscript/internal/diag"
	"muscript/internal/env"
	"muscript/internal/ir"
	"muscript/internal/source"
	"muscript/internal/token"
	"muscript/internal/types"
)

// compoundBase maps a compound assignment operator to the operator applied
// before the store.
var compoundBase = map[token.Kind]token.Kind{
	token.PlusAssign:   token.Plus,
	token.MinusAssign:  token.Minus,
	token.StarAssign:   token.Star,
	token.SlashAssign:  token.Slash,
	token.DollarAssign: token.Dollar,
	token.AtAssign:     token.At,
}

func isAssignOp(op token.Kind) bool {
	if op == token.Assign {
		return true
	}
	_, ok := compoundBase[op]
	return ok
}

func (fb *FunctionBuilder) lowerInfix(x *cst.Infix) ir.NodeID {
	if isAssignOp(x.Op) {
		return fb.lowerAssign(x)
	}

	lhs := fb.expr(x.Lhs)
	rhs := fb.expr(x.Rhs)
	lt, rt := fb.tyOf(lhs), fb.tyOf(rhs)
	if lt == types.Error || rt == types.Error {
		return fb.b.EmitVoid(types.Error)
	}
	return fb.applyOperator(x.Op, lhs, rhs, x.OpSpan.Source(fb.arena))
}

// applyOperator resolves a binary operator over typed registers and emits
// the call. User-declared operator functions take precedence over the
// built-in table.
func (fb *FunctionBuilder) applyOperator(op token.Kind, lhs, rhs ir.NodeID, at source.Span) ir.NodeID {
	lt, rt := fb.tyOf(lhs), fb.tyOf(rhs)

	if fid, result, status := fb.resolveUserOperator(op, lt, rt); status != overloadNone {
		if status == overloadAmbiguous {
			diag.Error(fb.rep, diag.SemaAmbiguousOverload, at,
				fmt.Sprintf("operator `%s` is ambiguous for `%s` and `%s`", op, fb.display(lt), fb.display(rt))).
				WithNote("more than one declared operator matches after conversions").
				Emit()
			return fb.b.EmitVoid(types.Error)
		}
		return fb.b.Emit(ir.Node{
			Kind: ir.RegCall,
			Ty:   result,
			Call: ir.CallNode{Func: ir.FuncRef(fid), Args: []ir.NodeID{lhs, rhs}},
		})
	}

	if result, ok := builtinInfix(op, lt, rt, fb); ok {
		fid := fb.env.Intrinsic(op.String())
		return fb.b.Emit(ir.Node{
			Kind: ir.RegCall,
			Ty:   result,
			Call: ir.CallNode{Func: ir.FuncRef(fid), Args: []ir.NodeID{lhs, rhs}},
		})
	}

	diag.Error(fb.rep, diag.SemaNoOverload, at,
		fmt.Sprintf("no operator `%s` for `%s` and `%s`", op, fb.display(lt), fb.display(rt))).
		Emit()
	return fb.b.EmitVoid(types.Error)
}

type overloadStatus uint8

const (
	overloadNone overloadStatus = iota
	overloadFound
	overloadAmbiguous
)

// resolveUserOperator searches the super chain for operator functions whose
// declared name is the operator's spelling and picks the best match by
// conversion rank: exact beats convertible, a tie between distinct
// signatures is ambiguous.
func (fb *FunctionBuilder) resolveUserOperator(op token.Kind, lt, rt types.TypeID) (env.FunctionID, types.TypeID, overloadStatus) {
	if fb.fields == nil {
		return env.NoFunction, types.Error, overloadNone
	}
	key := caseins.Fold(op.String())
	best := env.NoFunction
	bestScore := 0
	ambiguous := false

	for c := fb.class; c != types.NoClass; {
		if fid, ok := fb.fields.ClassFunction(c, key); ok {
			if score := fb.operatorScore(fid, lt, rt); score > 0 {
				switch {
				case score > bestScore:
					best, bestScore, ambiguous = fid, score, false
				case score == bestScore && fid != best:
					ambiguous = true
				}
			}
		}
		super, ok := fb.env.SuperOf(c)
		if !ok {
			break
		}
		c = super
	}
	if best == env.NoFunction {
		return env.NoFunction, types.Error, overloadNone
	}
	if ambiguous {
		return best, types.Error, overloadAmbiguous
	}
	return best, fb.env.GetFunction(best).Result, overloadFound
}

// operatorScore ranks a candidate: 2 per exactly-matching operand, 1 per
// convertible one, 0 when the candidate cannot apply at all.
func (fb *FunctionBuilder) operatorScore(fid env.FunctionID, lt, rt types.TypeID) int {
	fn := fb.env.GetFunction(fid)
	if len(fn.Params) != 2 {
		return 0
	}
	score := 0
	for i, have := range []types.TypeID{lt, rt} {
		want := fb.env.GetVar(fn.Params[i].Var).Ty
		switch {
		case have == want:
			score += 2
		case fb.convertible(have, want):
			score++
		default:
			return 0
		}
	}
	return score
}

// builtinInfix types the built-in operators. The result type is independent
// of which operand drove a promotion: Int op Float is Float either way.
func builtinInfix(op token.Kind, lt, rt types.TypeID, fb *FunctionBuilder) (types.TypeID, bool) {
	numeric := func(t types.TypeID) bool {
		return t == types.Int || t == types.Float || t == types.Byte
	}
	intish := func(t types.TypeID) bool {
		return t == types.Int || t == types.Byte
	}
	classRef := func(t types.TypeID) bool {
		return t == types.Void || fb.env.Types.Get(t).Kind == types.KindClass
	}

	switch op {
	case token.Plus, token.Minus, token.Star, token.Slash, token.Percent:
		if numeric(lt) && numeric(rt) {
			if lt == types.Float || rt == types.Float {
				return types.Float, true
			}
			return types.Int, true
		}
	case token.StarStar:
		if numeric(lt) && numeric(rt) {
			return types.Float, true
		}
	case token.Shl, token.Shr, token.ShrShr, token.Amp, token.Pipe, token.Caret:
		if intish(lt) && intish(rt) {
			return types.Int, true
		}
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		if numeric(lt) && numeric(rt) {
			return types.Bool, true
		}
		if lt == types.String && rt == types.String {
			return types.Bool, true
		}
	case token.EqEq, token.BangEq:
		switch {
		case numeric(lt) && numeric(rt),
			lt == types.Bool && rt == types.Bool,
			lt == types.String && rt == types.String,
			lt == types.Name && rt == types.Name,
			classRef(lt) && classRef(rt):
			return types.Bool, true
		}
	case token.TildeEq:
		if (lt == types.Float || lt == types.Int) && (rt == types.Float || rt == types.Int) {
			return types.Bool, true
		}
		if lt == types.String && rt == types.String {
			return types.Bool, true
		}
	case token.AndAnd, token.OrOr, token.CaretCaret:
		if lt == types.Bool && rt == types.Bool {
			return types.Bool, true
		}
	case token.Dollar, token.At:
		if concatible(lt) && concatible(rt) {
			return types.String, true
		}
	}
	return types.Error, false
}

// concatible reports whether `$`/`@` can stringify an operand.
func concatible(t types.TypeID) bool {
	switch t {
	case types.String, types.Int, types.Float, types.Byte, types.Bool, types.Name:
		return true
	}
	return false
}

func (fb *FunctionBuilder) lowerAssign(x *cst.Infix) ir.NodeID {
	lhs := fb.expr(x.Lhs)
	if !fb.isLValue(lhs) {
		diag.Error(fb.rep, diag.SemaNotAssignable, fb.spanOf(x.Lhs),
			"left side of assignment cannot be assigned to").
			WithNote("only variables, fields, and array elements are assignable").
			Emit()
		fb.expr(x.Rhs)
		return fb.b.EmitVoid(types.Error)
	}
	lt := fb.tyOf(lhs)

	var rhs ir.NodeID
	opName := "="
	if base, ok := compoundBase[x.Op]; ok {
		raw := fb.expr(x.Rhs)
		if fb.tyOf(raw) == types.Error || lt == types.Error {
			return fb.b.EmitVoid(types.Error)
		}
		if _, ok := builtinInfix(base, lt, fb.tyOf(raw), fb); !ok {
			diag.Error(fb.rep, diag.SemaNoOverload, x.OpSpan.Source(fb.arena),
				fmt.Sprintf("no operator `%s` for `%s` and `%s`", base, fb.display(lt), fb.display(fb.tyOf(raw)))).
				Emit()
			return fb.b.EmitVoid(types.Error)
		}
		rhs = raw
		opName = x.Op.String()
	} else {
		rhs = fb.exprExpect(x.Rhs, lt)
	}

	fid := fb.env.Intrinsic(opName)
	return fb.b.Emit(ir.Node{
		Kind: ir.RegCall,
		Ty:   lt,
		Call: ir.CallNode{Func: ir.FuncRef(fid), Args: []ir.NodeID{lhs, rhs}},
	})
}

func (fb *FunctionBuilder) lowerPrefix(x *cst.Prefix) ir.NodeID {
	operand := fb.expr(x.Operand)
	t := fb.tyOf(operand)
	if t == types.Error {
		return fb.b.EmitVoid(types.Error)
	}
	at := x.OpSpan.Source(fb.arena)

	var result types.TypeID
	switch x.Op {
	case token.Bang:
		if t != types.Bool {
			return fb.badUnary(x.Op, t, at)
		}
		result = types.Bool
	case token.Minus:
		if t != types.Int && t != types.Float && t != types.Byte {
			return fb.badUnary(x.Op, t, at)
		}
		result = t
		if t == types.Byte {
			result = types.Int
		}
	case token.Tilde:
		if t != types.Int && t != types.Byte {
			return fb.badUnary(x.Op, t, at)
		}
		result = types.Int
	case token.PlusPlus, token.MinusMinus:
		return fb.lowerIncDec(x.Op, operand, t, at)
	default:
		return fb.badUnary(x.Op, t, at)
	}

	fid := fb.env.Intrinsic(x.Op.String())
	return fb.b.Emit(ir.Node{
		Kind: ir.RegCall,
		Ty:   result,
		Call: ir.CallNode{Func: ir.FuncRef(fid), Args: []ir.NodeID{operand}},
	})
}

func (fb *FunctionBuilder) lowerPostfix(x *cst.Postfix) ir.NodeID {
	operand := fb.expr(x.Operand)
	t := fb.tyOf(operand)
	if t == types.Error {
		return fb.b.EmitVoid(types.Error)
	}
	return fb.lowerIncDec(x.Op, operand, t, x.OpSpan.Source(fb.arena))
}

func (fb *FunctionBuilder) lowerIncDec(op token.Kind, operand ir.NodeID, t types.TypeID, at source.Span) ir.NodeID {
	if t != types.Int && t != types.Byte {
		return fb.badUnary(op, t, at)
	}
	if !fb.isLValue(operand) {
		diag.Error(fb.rep, diag.SemaNotAssignable, at,
			fmt.Sprintf("`%s` needs a variable to modify", op)).Emit()
		return fb.b.EmitVoid(types.Error)
	}
	fid := fb.env.Intrinsic(op.String())
	return fb.b.Emit(ir.Node{
		Kind: ir.RegCall,
		Ty:   types.Int,
		Call: ir.CallNode{Func: ir.FuncRef(fid), Args: []ir.NodeID{operand}},
	})
}

func (fb *FunctionBuilder) badUnary(op token.Kind, t types.TypeID, at source.Span) ir.NodeID {
	diag.Error(fb.rep, diag.SemaNoOverload, at,
		fmt.Sprintf("no operator `%s` for `%s`", op, fb.display(t))).Emit()
	return fb.b.EmitVoid(types.Error)
}
