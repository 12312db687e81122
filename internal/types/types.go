// Package types implements the semantic type system: a closed sum of type
// shapes, an interner with reserved IDs for the built-ins, syntactic type
// resolution, and subtyping along the class hierarchy.
package types

import "fmt"

// TypeID indexes the type interner. The reserved IDs below are stable and
// identical in every compilation.
type TypeID uint32

// ClassID identifies an interned class. The environment allocates them; the
// type system only compares and stores them.
type ClassID uint32

// NoClass is the zero sentinel for an absent class reference.
const NoClass ClassID = 0

// Reserved type IDs, allocated by NewInterner in this exact order.
const (
	Error TypeID = iota
	Void
	Bool
	Byte
	Int
	Float
	String
	Name

	numReserved
)

// Kind discriminates the Type sum.
type Kind uint8

const (
	KindError Kind = iota
	KindVoid
	KindPrimitive
	KindClass
	KindArray
)

// Primitive enumerates the built-in scalar types.
type Primitive uint8

const (
	PrimBool Primitive = iota
	PrimByte
	PrimInt
	PrimFloat
	PrimString
	PrimName
)

func (p Primitive) String() string {
	switch p {
	case PrimBool:
		return "Bool"
	case PrimByte:
		return "Byte"
	case PrimInt:
		return "Int"
	case PrimFloat:
		return "Float"
	case PrimString:
		return "String"
	case PrimName:
		return "Name"
	}
	return "?"
}

// Type is one interned type shape.
type Type struct {
	Kind  Kind
	Prim  Primitive // KindPrimitive
	Class ClassID   // KindClass
	Elem  TypeID    // KindArray
}

func (t Type) String() string {
	switch t.Kind {
	case KindError:
		return "ERROR"
	case KindVoid:
		return "Void"
	case KindPrimitive:
		return t.Prim.String()
	case KindClass:
		return fmt.Sprintf("Class#%d", t.Class)
	case KindArray:
		return fmt.Sprintf("Array<#%d>", t.Elem)
	}
	return "?"
}
