package ir

import (
	"fmt"
	"strings"

	"muscript/internal/types"
)

// Dump renders a function for debugging and golden tests. Types are shown
// through the interner when one is supplied.
func Dump(fn *Func, in *types.Interner) string {
	var b strings.Builder
	fmt.Fprintf(&b, "func %s -> %s\n", fn.Name, tyName(in, fn.Result))
	for bi := range fn.Blocks {
		blk := &fn.Blocks[bi]
		fmt.Fprintf(&b, "%s:\n", blk.Label)
		for _, id := range blk.Flow {
			b.WriteString("  ")
			b.WriteString(nodeString(fn, in, id))
			b.WriteString("\n")
		}
		b.WriteString("  ")
		b.WriteString(termString(fn, blk.Term))
		b.WriteString("\n")
	}
	return b.String()
}

func nodeString(fn *Func, in *types.Interner, id NodeID) string {
	n := fn.Node(id)
	switch n.Kind {
	case RegLocal:
		return fmt.Sprintf("%%%d = local v%d : %s", id, n.Local.Var, tyName(in, n.Ty))
	case RegField:
		return fmt.Sprintf("%%%d = field v%d : %s", id, n.Field.Var, tyName(in, n.Ty))
	case RegThis:
		return fmt.Sprintf("%%%d = this : %s", id, tyName(in, n.Ty))
	case RegConst:
		return fmt.Sprintf("%%%d = const %s : %s", id, constString(n.Const), tyName(in, n.Ty))
	case RegCall:
		args := make([]string, len(n.Call.Args))
		for i, a := range n.Call.Args {
			args[i] = fmt.Sprintf("%%%d", a)
		}
		return fmt.Sprintf("%%%d = call f%d(%s) : %s", id, n.Call.Func, strings.Join(args, ", "), tyName(in, n.Ty))
	case RegIndex:
		return fmt.Sprintf("%%%d = index %%%d[%%%d] : %s", id, n.Index.Target, n.Index.Index, tyName(in, n.Ty))
	case RegVoid:
		return fmt.Sprintf("%%%d = void : %s", id, tyName(in, n.Ty))
	case SinkDiscard:
		return fmt.Sprintf("discard %%%d", n.Discard.Value)
	}
	return fmt.Sprintf("%%%d = ???", id)
}

func constString(c ConstNode) string {
	switch c.Kind {
	case ConstNone:
		return "none"
	case ConstBool:
		return fmt.Sprintf("%t", c.Bool)
	case ConstInt:
		return fmt.Sprintf("%d", c.Int)
	case ConstFloat:
		return fmt.Sprintf("%g", c.Float)
	case ConstString:
		return fmt.Sprintf("%q", c.Str)
	case ConstName:
		return "'" + c.Str + "'"
	}
	return "?"
}

func termString(fn *Func, t Terminator) string {
	switch t.Kind {
	case TermGoto:
		return "goto " + fn.Block(t.Goto.Target).Label
	case TermGotoIf:
		return fmt.Sprintf("goto_if %%%d ? %s : %s",
			t.GotoIf.Cond,
			fn.Block(t.GotoIf.IfTrue).Label,
			fn.Block(t.GotoIf.IfFalse).Label)
	case TermReturn:
		if t.Return.HasValue {
			return fmt.Sprintf("return %%%d", t.Return.Value)
		}
		return "return"
	}
	return "<no terminator>"
}

func tyName(in *types.Interner, id types.TypeID) string {
	if in == nil {
		return fmt.Sprintf("#%d", id)
	}
	return in.Display(id)
}
