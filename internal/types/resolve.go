package types

import (
	"muscript/internal/caseins"
	"muscript/internal/cst"
	"muscript/internal/diag"
	"muscript/internal/source"
	"muscript/internal/token"
)

// ClassScope finds a class visible from the resolution site. Implemented by
// the environment; name matching is case-insensitive.
type ClassScope interface {
	FindClass(name caseins.Key) (ClassID, bool)
}

// Resolve turns a syntactic type into a TypeID:
//
//  1. a primitive name resolves to the reserved primitive (no generics);
//  2. `Class<T>` and `Array<T>` recurse on T;
//  3. a bare name resolving to a class in scope yields that class's type;
//  4. anything else reports "cannot find type" and yields ERROR.
func (in *Interner) Resolve(ref *cst.TypeRef, arena *token.Arena, scope ClassScope, rep diag.Reporter) TypeID {
	if ref == nil {
		return Error
	}
	at := ref.Span().Source(arena)

	if prim, ok := primitiveByName(ref.Name.Key()); ok {
		if ref.IsGeneric() {
			diag.Error(rep, diag.SemaGenericOnPrimitive, at,
				"primitive type `"+ref.Name.String()+"` cannot have type arguments").Emit()
			return Error
		}
		return prim
	}

	switch ref.Name.Key() {
	case "array":
		return in.resolveGeneric(ref, arena, scope, rep, at, func(elem TypeID) TypeID {
			return in.ArrayOf(elem)
		})
	case "class":
		return in.resolveGeneric(ref, arena, scope, rep, at, func(elem TypeID) TypeID {
			// class<T> сужает метакласс; представляем типом класса T
			return elem
		})
	}

	if ref.IsGeneric() {
		diag.Error(rep, diag.SemaUnknownType, at,
			"type `"+ref.Name.String()+"` cannot have type arguments").Emit()
		return Error
	}
	if scope != nil {
		if c, ok := scope.FindClass(ref.Name.Key()); ok {
			return in.ClassType(c)
		}
	}
	diag.Error(rep, diag.SemaUnknownType, at,
		"cannot find type `"+ref.Name.String()+"` in this scope").Emit()
	return Error
}

func (in *Interner) resolveGeneric(ref *cst.TypeRef, arena *token.Arena, scope ClassScope, rep diag.Reporter, at source.Span, wrap func(TypeID) TypeID) TypeID {
	if ref.Arg == nil {
		diag.Error(rep, diag.SemaUnknownType, at,
			"`"+ref.Name.String()+"` requires a type argument").Emit()
		return Error
	}
	elem := in.Resolve(ref.Arg, arena, scope, rep)
	if elem == Error {
		return Error
	}
	return wrap(elem)
}

func primitiveByName(key caseins.Key) (TypeID, bool) {
	switch key {
	case "bool":
		return Bool, true
	case "byte":
		return Byte, true
	case "int":
		return Int, true
	case "float":
		return Float, true
	case "string":
		return String, true
	case "name":
		return Name, true
	default:
		return Error, false
	}
}

// Hierarchy walks the class inheritance chain. Implemented by the
// environment.
type Hierarchy interface {
	SuperOf(ClassID) (ClassID, bool)
}

// IsSubclass reports whether child equals ancestor or inherits from it.
func IsSubclass(child, ancestor ClassID, h Hierarchy) bool {
	for {
		if child == ancestor {
			return true
		}
		parent, ok := h.SuperOf(child)
		if !ok {
			return false
		}
		child = parent
	}
}
