package sema

import (
	"fmt"

	"muscript/internal/cst"
	"muscript/internal/diag"
	"muscript/internal/env"
	"muscript/internal/ir"
	"muscript/internal/token"
	"muscript/internal/types"
)

// lowerStmts lowers a statement list. Statements after a terminator are
// still lowered (their own mistakes should surface), but the first one
// gets an unreachable warning and the rest land in a dead block.
func (fb *FunctionBuilder) lowerStmts(stmts []cst.Stmt) {
	warned := false
	for _, s := range stmts {
		if fb.b.Terminated() {
			if !warned {
				diag.Warning(fb.rep, diag.SemaUnreachable, fb.spanOf(s),
					"this statement is never reached").
					WithNote("the block above already ended with a return or jump").
					Emit()
				warned = true
			}
			fb.b.MoveTo(fb.b.NewBlock("unreachable"))
		}
		fb.lowerStmt(s)
	}
}

func (fb *FunctionBuilder) lowerStmt(s cst.Stmt) {
	switch x := s.(type) {
	case *cst.Empty:
		diag.Warning(fb.rep, diag.SemaEmptyStatement, fb.spanOf(x),
			"empty statement has no effect").Emit()
	case *cst.Block:
		fb.pushScope()
		fb.lowerStmts(x.Stmts)
		fb.popScope()
	case *cst.Local:
		fb.lowerLocal(x)
	case *cst.ExprStmt:
		id := fb.expr(x.Expr)
		fb.b.EmitDiscard(id)
	case *cst.If:
		fb.lowerIf(x)
	case *cst.While:
		fb.lowerWhile(x)
	case *cst.Do:
		fb.lowerDo(x)
	case *cst.For:
		fb.lowerFor(x)
	case *cst.ForEach:
		fb.lowerForEach(x)
	case *cst.Switch:
		fb.lowerSwitch(x)
	case *cst.Return:
		fb.lowerReturn(x)
	case *cst.Break:
		if target, ok := fb.breakTarget(); ok {
			fb.b.Goto(target)
		} else {
			diag.Error(fb.rep, diag.SemaMisplacedControl, fb.spanOf(x),
				"`break` outside of a loop or switch").Emit()
		}
	case *cst.Continue:
		if target, ok := fb.continueTarget(); ok {
			fb.b.Goto(target)
		} else {
			diag.Error(fb.rep, diag.SemaMisplacedControl, fb.spanOf(x),
				"`continue` outside of a loop").Emit()
		}
	case *cst.Case:
		// case вне switch — парсер такого не строит, но recovery может
		diag.Error(fb.rep, diag.SemaMisplacedControl, fb.spanOf(x),
			"`case` outside of a switch").Emit()
	case *cst.Labeled:
		diag.Error(fb.rep, diag.SemaUnsupported, fb.spanOf(x),
			"labels are not yet supported").
			WithNote("analysis of this construct is a work in progress").
			Emit()
	default:
		diag.Bug(fb.rep, diag.BugInternal, fb.spanOf(s),
			fmt.Sprintf("no lowering for statement %T", s)).Emit()
	}
}

func (fb *FunctionBuilder) lowerLocal(x *cst.Local) {
	ty := fb.env.Types.Resolve(x.Type, fb.arena, fb.env, fb.rep)
	for i := range x.Names {
		name := &x.Names[i]
		if name.ArraySize != nil {
			diag.Error(fb.rep, diag.SemaUnsupported, fb.spanOf(name),
				"static array locals are not yet supported").
				WithNote("analysis of this construct is a work in progress").
				Emit()
		}
		if prev, ok := fb.lookupLocal(name.Name.Key()); ok {
			diag.Error(fb.rep, diag.SemaRedefinedLocal, fb.spanOf(name),
				fmt.Sprintf("local variable `%s` is already declared in this function", name.Name)).
				WithPrimaryMsg("redeclared here").
				WithLabel(fb.env.GetVar(prev).NameSpan, "first declared here").
				Emit()
			continue
		}
		id := fb.env.NewVar(env.Var{
			File:     fb.file,
			Name:     name.Name,
			NameSpan: fb.spanOf(name),
			Ty:       ty,
			Kind:     env.VarKindLocal,
		})
		fb.scopes[len(fb.scopes)-1][name.Name.Key()] = id
	}
}

// lowerIf wires the three-block pattern: the condition branches from the
// current block, each arm jumps to past_if when it does not already end.
// When both arms end on their own, no Goto into past_if survives and the
// join block is unreachable, which gets one warning at the `if` itself.
func (fb *FunctionBuilder) lowerIf(x *cst.If) {
	cond := fb.cond(x.Cond)

	ifTrue := fb.b.NewBlock("if_true")
	var ifFalse, past ir.BlockID
	if x.Else != nil {
		ifFalse = fb.b.NewBlock("if_false")
		past = fb.b.NewBlock("past_if")
	} else {
		past = fb.b.NewBlock("past_if")
		ifFalse = past
	}
	fb.b.GotoIf(cond, ifTrue, ifFalse)

	fb.b.MoveTo(ifTrue)
	fb.lowerStmt(x.Then)
	joinReached := !fb.b.Terminated()
	fb.b.Goto(past)

	if x.Else != nil {
		fb.b.MoveTo(ifFalse)
		fb.lowerStmt(x.Else)
		joinReached = joinReached || !fb.b.Terminated()
		fb.b.Goto(past)

		if !joinReached {
			diag.Warning(fb.rep, diag.SemaUnreachable, fb.spanOf(x),
				"code after this `if` is never reached").
				WithNote("both branches end with a return or jump").
				Emit()
		}
	}
	fb.b.MoveTo(past)
}

func (fb *FunctionBuilder) lowerWhile(x *cst.While) {
	condBlk := fb.b.NewBlock("loop_cond")
	body := fb.b.NewBlock("loop_body")
	past := fb.b.NewBlock("past_loop")

	fb.b.Goto(condBlk)
	fb.b.MoveTo(condBlk)
	cond := fb.cond(x.Cond)
	fb.b.GotoIf(cond, body, past)

	fb.pushFrame(frame{breakTo: past, continueTo: condBlk, hasContinue: true})
	fb.b.MoveTo(body)
	fb.lowerStmt(x.Body)
	fb.b.Goto(condBlk)
	fb.popFrame()

	fb.b.MoveTo(past)
}

func (fb *FunctionBuilder) lowerDo(x *cst.Do) {
	body := fb.b.NewBlock("do_body")
	condBlk := fb.b.NewBlock("do_cond")
	past := fb.b.NewBlock("past_do")

	fb.b.Goto(body)

	fb.pushFrame(frame{breakTo: past, continueTo: condBlk, hasContinue: true})
	fb.b.MoveTo(body)
	fb.lowerStmt(x.Body)
	fb.b.Goto(condBlk)
	fb.popFrame()

	// `until (c)` выходит из цикла, когда условие истинно
	fb.b.MoveTo(condBlk)
	cond := fb.cond(x.Cond)
	fb.b.GotoIf(cond, past, body)

	fb.b.MoveTo(past)
}

func (fb *FunctionBuilder) lowerFor(x *cst.For) {
	fb.pushScope()
	if x.Init != nil {
		fb.b.EmitDiscard(fb.expr(x.Init))
	}

	condBlk := fb.b.NewBlock("for_cond")
	body := fb.b.NewBlock("for_body")
	update := fb.b.NewBlock("for_update")
	past := fb.b.NewBlock("past_for")

	fb.b.Goto(condBlk)
	fb.b.MoveTo(condBlk)
	if x.Cond != nil {
		cond := fb.cond(x.Cond)
		fb.b.GotoIf(cond, body, past)
	} else {
		fb.b.Goto(body)
	}

	// continue внутри for идёт в блок обновления, не в условие
	fb.pushFrame(frame{breakTo: past, continueTo: update, hasContinue: true})
	fb.b.MoveTo(body)
	fb.lowerStmt(x.Body)
	fb.b.Goto(update)
	fb.popFrame()

	fb.b.MoveTo(update)
	if x.Update != nil {
		fb.b.EmitDiscard(fb.expr(x.Update))
	}
	fb.b.Goto(condBlk)

	fb.b.MoveTo(past)
	fb.popScope()
}

// lowerForEach models the iterator protocol as a loop whose header
// re-evaluates the iterator call; the call's register doubles as the
// continue-iterating condition.
func (fb *FunctionBuilder) lowerForEach(x *cst.ForEach) {
	next := fb.b.NewBlock("foreach_next")
	body := fb.b.NewBlock("foreach_body")
	past := fb.b.NewBlock("past_foreach")

	fb.b.Goto(next)
	fb.b.MoveTo(next)
	iter := fb.expr(x.Iterator)
	if _, isCall := x.Iterator.(*cst.Call); !isCall {
		diag.Error(fb.rep, diag.SemaUnsupported, fb.spanOf(x.Iterator),
			"`foreach` expects an iterator function call").Emit()
	}
	fb.b.GotoIf(iter, body, past)

	fb.pushFrame(frame{breakTo: past, continueTo: next, hasContinue: true})
	fb.b.MoveTo(body)
	fb.lowerStmt(x.Body)
	fb.b.Goto(next)
	fb.popFrame()

	fb.b.MoveTo(past)
}

// lowerSwitch chains equality tests. Case bodies fall through to the next
// body unless they break, matching source semantics.
func (fb *FunctionBuilder) lowerSwitch(x *cst.Switch) {
	subject := fb.expr(x.Subject)

	// группируем: каждая метка начинает клаузу, за ней хвост стейтментов
	type clause struct {
		label *cst.Case
		stmts []cst.Stmt
	}
	var clauses []clause
	for _, s := range x.Clauses {
		if c, ok := s.(*cst.Case); ok {
			clauses = append(clauses, clause{label: c})
			continue
		}
		if len(clauses) == 0 {
			diag.Error(fb.rep, diag.SemaMisplacedControl, fb.spanOf(s),
				"statement before the first `case` of a switch").Emit()
			continue
		}
		last := &clauses[len(clauses)-1]
		last.stmts = append(last.stmts, s)
	}

	past := fb.b.NewBlock("past_switch")
	bodies := make([]ir.BlockID, len(clauses))
	tests := make([]ir.BlockID, 0, len(clauses))
	defaultBody := past
	for i, c := range clauses {
		bodies[i] = fb.b.NewBlock("case_body")
		if c.label.Value == nil {
			defaultBody = bodies[i]
		} else {
			tests = append(tests, fb.b.NewBlock("case_test"))
		}
	}

	if len(tests) > 0 {
		fb.b.Goto(tests[0])
	} else {
		fb.b.Goto(defaultBody)
	}

	ti := 0
	for i, c := range clauses {
		if c.label.Value == nil {
			continue
		}
		fb.b.MoveTo(tests[ti])
		value := fb.exprExpect(c.label.Value, fb.tyOf(subject))
		cmp := fb.applyOperator(token.EqEq, subject, value, fb.spanOf(c.label))
		next := defaultBody
		if ti+1 < len(tests) {
			next = tests[ti+1]
		}
		fb.b.GotoIf(cmp, bodies[i], next)
		ti++
	}

	fb.pushFrame(frame{breakTo: past})
	for i, c := range clauses {
		fb.b.MoveTo(bodies[i])
		fb.pushScope()
		fb.lowerStmts(c.stmts)
		fb.popScope()
		// проваливаемся в следующее тело
		if i+1 < len(bodies) {
			fb.b.Goto(bodies[i+1])
		} else {
			fb.b.Goto(past)
		}
	}
	fb.popFrame()

	fb.b.MoveTo(past)
}

func (fb *FunctionBuilder) lowerReturn(x *cst.Return) {
	if x.Value == nil {
		if fb.result != types.Void && fb.result != types.Error {
			diag.Error(fb.rep, diag.SemaTypeMismatch, fb.spanOf(x),
				fmt.Sprintf("`%s` must return a `%s`", fb.b.Func().Name, fb.display(fb.result))).
				Emit()
		}
		fb.b.Return(0, false)
		return
	}
	if fb.result == types.Void {
		diag.Error(fb.rep, diag.SemaTypeMismatch, fb.spanOf(x),
			fmt.Sprintf("`%s` has no return type and cannot return a value", fb.b.Func().Name)).
			Emit()
		fb.expr(x.Value)
		fb.b.Return(0, false)
		return
	}
	value := fb.exprExpect(x.Value, fb.result)
	fb.b.Return(value, true)
}
