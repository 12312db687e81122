package ir

import "fmt"

// Validate checks the structural invariants of a lowered function:
// every block ends with exactly one terminator, every referenced node and
// block exists, and a node is defined in the flow before anything consumes
// it. Violations are lowering bugs, not user errors.
func Validate(fn *Func) []error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("func %s: "+format, append([]any{fn.Name}, args...)...))
	}

	nodeOK := func(id NodeID) bool { return int(id) < len(fn.Nodes) }
	blockOK := func(id BlockID) bool { return int(id) < len(fn.Blocks) }

	if !blockOK(fn.Entry) {
		bad("entry block %d out of range", fn.Entry)
		return errs
	}

	// позиция определения каждого узла в потоке своего блока
	defined := make(map[NodeID]bool, len(fn.Nodes))

	for bi := range fn.Blocks {
		blk := &fn.Blocks[bi]
		if blk.Term.Kind == TermNone {
			bad("block %s has no terminator", blk.Label)
		}
		for _, id := range blk.Flow {
			if !nodeOK(id) {
				bad("block %s refers to node %%%d outside the function", blk.Label, id)
				continue
			}
			n := fn.Node(id)
			switch n.Kind {
			case RegCall:
				for _, a := range n.Call.Args {
					if !nodeOK(a) || !defined[a] && !inFlowBefore(blk, a, id) {
						bad("call %%%d uses %%%d before its definition", id, a)
					}
				}
			case RegIndex:
				if !nodeOK(n.Index.Target) || !nodeOK(n.Index.Index) {
					bad("index %%%d refers outside the function", id)
				}
			case SinkDiscard:
				if !nodeOK(n.Discard.Value) {
					bad("discard %%%d consumes an unknown register", id)
				}
			}
			defined[id] = true
		}

		switch blk.Term.Kind {
		case TermGoto:
			if !blockOK(blk.Term.Goto.Target) {
				bad("block %s jumps to an unknown block", blk.Label)
			}
		case TermGotoIf:
			t := blk.Term.GotoIf
			if !nodeOK(t.Cond) {
				bad("block %s branches on an unknown register", blk.Label)
			}
			if !blockOK(t.IfTrue) || !blockOK(t.IfFalse) {
				bad("block %s branches to an unknown block", blk.Label)
			}
		case TermReturn:
			if blk.Term.Return.HasValue && !nodeOK(blk.Term.Return.Value) {
				bad("block %s returns an unknown register", blk.Label)
			}
		}
	}
	return errs
}

func inFlowBefore(blk *Block, needle, before NodeID) bool {
	for _, id := range blk.Flow {
		if id == before {
			return false
		}
		if id == needle {
			return true
		}
	}
	return false
}
