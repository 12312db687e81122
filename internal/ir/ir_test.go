package ir_test

import (
	"strings"
	"testing"

	"muscript/internal/ir"
	"muscript/internal/types"
)

func TestBuilderShapesControlFlow(t *testing.T) {
	b := ir.NewBuilder("F", types.Void)

	ifTrue := b.NewBlock("if_true")
	ifFalse := b.NewBlock("if_false")
	past := b.NewBlock("past_if")

	cond := b.EmitConst(types.Bool, ir.ConstNode{Kind: ir.ConstBool, Bool: true})
	b.GotoIf(cond, ifTrue, ifFalse)

	b.MoveTo(ifTrue)
	b.Return(0, false)
	b.MoveTo(ifFalse)
	b.Return(0, false)
	b.MoveTo(past)
	b.Return(0, false)

	fn := b.Func()
	if len(fn.Blocks) != 4 {
		t.Fatalf("blocks = %d, want 4", len(fn.Blocks))
	}
	begin := fn.Block(fn.Entry)
	if begin.Term.Kind != ir.TermGotoIf {
		t.Fatalf("entry terminator = %v", begin.Term.Kind)
	}
	if begin.Term.GotoIf.IfTrue != ifTrue || begin.Term.GotoIf.IfFalse != ifFalse {
		t.Fatal("goto_if targets are wrong")
	}
	if errs := ir.Validate(fn); len(errs) != 0 {
		t.Fatalf("validate: %v", errs)
	}
}

func TestTerminateTwiceKeepsFirst(t *testing.T) {
	b := ir.NewBuilder("F", types.Void)
	b.Return(0, false)
	b.Goto(0)
	if b.CurrentBlock().Term.Kind != ir.TermReturn {
		t.Fatal("second terminator must not replace the first")
	}
}

func TestValidateRejectsOpenBlock(t *testing.T) {
	b := ir.NewBuilder("F", types.Void)
	errs := ir.Validate(b.Func())
	if len(errs) != 1 || !strings.Contains(errs[0].Error(), "no terminator") {
		t.Fatalf("errs = %v", errs)
	}
}

func TestDump(t *testing.T) {
	in := types.NewInterner()
	b := ir.NewBuilder("F", types.Int)
	c := b.EmitConst(types.Int, ir.ConstNode{Kind: ir.ConstInt, Int: 42})
	b.Return(c, true)

	got := ir.Dump(b.Func(), in)
	for _, want := range []string{"func F -> Int", "begin:", "const 42 : Int", "return %0"} {
		if !strings.Contains(got, want) {
			t.Fatalf("dump missing %q:\n%s", want, got)
		}
	}
}
