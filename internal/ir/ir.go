// Package ir defines the basic-block intermediate representation functions
// are lowered into. A function owns a flat node arena and a list of blocks;
// every block carries an ordered flow of node IDs and exactly one
// terminator. Nodes split into registers, which produce a typed value, and
// sinks, which consume registers for their side effect.
package ir

import "muscript/internal/types"

// NodeID indexes the owning function's node arena.
type NodeID uint32

// BlockID indexes the owning function's block list.
type BlockID uint32

// VarRef and FuncRef are environment IDs carried opaquely; the IR never
// dereferences them.
type (
	VarRef  uint32
	FuncRef uint32
)

// NodeKind discriminates the node sum.
type NodeKind uint8

const (
	NodeInvalid NodeKind = iota

	// registers: produce a typed value
	RegLocal
	RegField
	RegThis
	RegConst
	RegCall
	RegIndex
	RegVoid // error sentinel and `none`

	// sinks: consume a register, produce nothing
	SinkDiscard
)

func (k NodeKind) IsRegister() bool {
	return k >= RegLocal && k <= RegVoid
}

func (k NodeKind) IsSink() bool {
	return k == SinkDiscard
}

func (k NodeKind) String() string {
	switch k {
	case RegLocal:
		return "local"
	case RegField:
		return "field"
	case RegThis:
		return "this"
	case RegConst:
		return "const"
	case RegCall:
		return "call"
	case RegIndex:
		return "index"
	case RegVoid:
		return "void"
	case SinkDiscard:
		return "discard"
	}
	return "invalid"
}

// Node is one IR node. Ty is meaningful for registers only.
type Node struct {
	Kind NodeKind
	Ty   types.TypeID

	Local   LocalNode
	Field   FieldNode
	Const   ConstNode
	Call    CallNode
	Index   IndexNode
	Discard DiscardNode
}

type LocalNode struct {
	Var VarRef
}

type FieldNode struct {
	Var VarRef
}

// ConstKind discriminates constant payloads.
type ConstKind uint8

const (
	ConstNone ConstKind = iota
	ConstBool
	ConstInt
	ConstFloat
	ConstString
	ConstName
)

type ConstNode struct {
	Kind  ConstKind
	Bool  bool
	Int   int64
	Float float64
	Str   string // string and name payloads, quotes stripped
}

type CallNode struct {
	Func FuncRef
	Args []NodeID
}

type IndexNode struct {
	Target NodeID
	Index  NodeID
}

type DiscardNode struct {
	Value NodeID
}

// TermKind discriminates terminators. TermNone marks an unfinished block;
// validation rejects it.
type TermKind uint8

const (
	TermNone TermKind = iota
	TermGoto
	TermGotoIf
	TermReturn
)

type Terminator struct {
	Kind TermKind

	Goto   GotoTerm
	GotoIf GotoIfTerm
	Return ReturnTerm
}

type GotoTerm struct {
	Target BlockID
}

type GotoIfTerm struct {
	Cond    NodeID
	IfTrue  BlockID
	IfFalse BlockID
}

type ReturnTerm struct {
	HasValue bool
	Value    NodeID
}

// Block is a basic block: a stable label, the ordered node flow, and one
// terminator.
type Block struct {
	Label string
	Flow  []NodeID
	Term  Terminator
}

// Terminated reports whether the block already has its terminator.
func (b *Block) Terminated() bool {
	return b != nil && b.Term.Kind != TermNone
}

// Func is one lowered function.
type Func struct {
	Name   string
	Result types.TypeID

	Nodes  []Node
	Blocks []Block
	Entry  BlockID
}

// Node returns the node with the given ID.
func (f *Func) Node(id NodeID) *Node {
	return &f.Nodes[id]
}

// Block returns the block with the given ID.
func (f *Func) Block(id BlockID) *Block {
	return &f.Blocks[id]
}
