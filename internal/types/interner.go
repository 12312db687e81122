package types

// Interner owns every Type of a compilation. IDs are allocated
// monotonically; interning the same shape twice returns the same ID.
type Interner struct {
	types   []Type
	classes map[ClassID]TypeID
	arrays  map[TypeID]TypeID

	// ClassNames resolves a ClassID to a display name for diagnostics and
	// dumps. Set by the environment after construction.
	ClassNames func(ClassID) string
}

// NewInterner seeds the reserved built-in IDs.
func NewInterner() *Interner {
	in := &Interner{
		types:   make([]Type, 0, 64),
		classes: make(map[ClassID]TypeID),
		arrays:  make(map[TypeID]TypeID),
	}
	// порядок обязан совпадать с зарезервированными константами
	in.push(Type{Kind: KindError})
	in.push(Type{Kind: KindVoid})
	in.push(Type{Kind: KindPrimitive, Prim: PrimBool})
	in.push(Type{Kind: KindPrimitive, Prim: PrimByte})
	in.push(Type{Kind: KindPrimitive, Prim: PrimInt})
	in.push(Type{Kind: KindPrimitive, Prim: PrimFloat})
	in.push(Type{Kind: KindPrimitive, Prim: PrimString})
	in.push(Type{Kind: KindPrimitive, Prim: PrimName})
	return in
}

func (in *Interner) push(t Type) TypeID {
	id := TypeID(len(in.types))
	in.types = append(in.types, t)
	return id
}

// Get returns the shape of an interned type.
func (in *Interner) Get(id TypeID) Type {
	return in.types[id]
}

// ClassType interns (or returns) the type of a class instance.
func (in *Interner) ClassType(c ClassID) TypeID {
	if id, ok := in.classes[c]; ok {
		return id
	}
	id := in.push(Type{Kind: KindClass, Class: c})
	in.classes[c] = id
	return id
}

// ArrayOf interns (or returns) `Array<elem>`.
func (in *Interner) ArrayOf(elem TypeID) TypeID {
	if id, ok := in.arrays[elem]; ok {
		return id
	}
	id := in.push(Type{Kind: KindArray, Elem: elem})
	in.arrays[elem] = id
	return id
}

// Len returns the number of interned types.
func (in *Interner) Len() int { return len(in.types) }

// Display renders a type for diagnostics.
func (in *Interner) Display(id TypeID) string {
	t := in.Get(id)
	switch t.Kind {
	case KindClass:
		if in.ClassNames != nil {
			return in.ClassNames(t.Class)
		}
	case KindArray:
		return "Array<" + in.Display(t.Elem) + ">"
	}
	return t.String()
}
