package ir

import "muscript/internal/types"

// Builder appends nodes to a function under construction. The cursor points
// at the block receiving new nodes; lowering moves it as control flow forks
// and joins.
type Builder struct {
	fn  *Func
	cur BlockID
}

// NewBuilder starts a function with an empty `begin` block.
func NewBuilder(name string, result types.TypeID) *Builder {
	fn := &Func{Name: name, Result: result}
	fn.Blocks = append(fn.Blocks, Block{Label: "begin"})
	return &Builder{fn: fn}
}

// Func returns the function under construction.
func (b *Builder) Func() *Func { return b.fn }

// NewBlock appends an empty block without moving the cursor.
func (b *Builder) NewBlock(label string) BlockID {
	id := BlockID(len(b.fn.Blocks))
	b.fn.Blocks = append(b.fn.Blocks, Block{Label: label})
	return id
}

// MoveTo points the cursor at block id.
func (b *Builder) MoveTo(id BlockID) { b.cur = id }

// Current returns the cursor block ID.
func (b *Builder) Current() BlockID { return b.cur }

// CurrentBlock returns the cursor block.
func (b *Builder) CurrentBlock() *Block { return &b.fn.Blocks[b.cur] }

// Emit appends a node to the function and to the cursor block's flow.
func (b *Builder) Emit(n Node) NodeID {
	id := NodeID(len(b.fn.Nodes))
	b.fn.Nodes = append(b.fn.Nodes, n)
	blk := b.CurrentBlock()
	blk.Flow = append(blk.Flow, id)
	return id
}

// Terminate sets the cursor block's terminator. Terminating a block twice
// is a lowering bug; the second terminator is dropped so downstream
// diagnostics keep flowing, and validation reports the first offender.
func (b *Builder) Terminate(t Terminator) {
	blk := b.CurrentBlock()
	if blk.Terminated() {
		return
	}
	blk.Term = t
}

// Terminated reports whether the cursor block already ends.
func (b *Builder) Terminated() bool { return b.CurrentBlock().Terminated() }

// EmitVoid emits the error-sentinel register with the given type.
func (b *Builder) EmitVoid(ty types.TypeID) NodeID {
	return b.Emit(Node{Kind: RegVoid, Ty: ty})
}

// EmitConst emits a constant register.
func (b *Builder) EmitConst(ty types.TypeID, c ConstNode) NodeID {
	return b.Emit(Node{Kind: RegConst, Ty: ty, Const: c})
}

// EmitDiscard emits a sink consuming value.
func (b *Builder) EmitDiscard(value NodeID) NodeID {
	return b.Emit(Node{Kind: SinkDiscard, Discard: DiscardNode{Value: value}})
}

// Goto terminates the cursor block with an unconditional jump.
func (b *Builder) Goto(target BlockID) {
	b.Terminate(Terminator{Kind: TermGoto, Goto: GotoTerm{Target: target}})
}

// GotoIf terminates the cursor block with a conditional jump.
func (b *Builder) GotoIf(cond NodeID, ifTrue, ifFalse BlockID) {
	b.Terminate(Terminator{Kind: TermGotoIf, GotoIf: GotoIfTerm{Cond: cond, IfTrue: ifTrue, IfFalse: ifFalse}})
}

// Return terminates the cursor block with a return.
func (b *Builder) Return(value NodeID, hasValue bool) {
	b.Terminate(Terminator{Kind: TermReturn, Return: ReturnTerm{HasValue: hasValue, Value: value}})
}
