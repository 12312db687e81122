package types_test

import (
	"testing"

	"muscript/internal/caseins"
	"muscript/internal/cst"
	"muscript/internal/diag"
	"muscript/internal/token"
	"muscript/internal/types"
)

type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(d diag.Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
}

type testScope map[caseins.Key]types.ClassID

func (s testScope) FindClass(name caseins.Key) (types.ClassID, bool) {
	c, ok := s[name]
	return c, ok
}

func typeRef(name string, arg *cst.TypeRef) *cst.TypeRef {
	return &cst.TypeRef{Name: caseins.NewName(name), Arg: arg}
}

func TestReservedIDs(t *testing.T) {
	in := types.NewInterner()
	tests := []struct {
		id   types.TypeID
		kind types.Kind
	}{
		{types.Error, types.KindError},
		{types.Void, types.KindVoid},
		{types.Bool, types.KindPrimitive},
		{types.Byte, types.KindPrimitive},
		{types.Int, types.KindPrimitive},
		{types.Float, types.KindPrimitive},
		{types.String, types.KindPrimitive},
		{types.Name, types.KindPrimitive},
	}
	for _, tt := range tests {
		if got := in.Get(tt.id).Kind; got != tt.kind {
			t.Errorf("type %d: kind = %v, want %v", tt.id, got, tt.kind)
		}
	}
}

func TestInterningIsStable(t *testing.T) {
	in := types.NewInterner()
	a1 := in.ArrayOf(types.Int)
	a2 := in.ArrayOf(types.Int)
	if a1 != a2 {
		t.Errorf("ArrayOf(Int) interned twice: %d vs %d", a1, a2)
	}
	c1 := in.ClassType(7)
	c2 := in.ClassType(7)
	if c1 != c2 {
		t.Errorf("ClassType(7) interned twice: %d vs %d", c1, c2)
	}
	if in.ArrayOf(types.Float) == a1 {
		t.Error("distinct element types must intern distinct arrays")
	}
}

func TestResolve(t *testing.T) {
	in := types.NewInterner()
	arena := token.NewArena()
	scope := testScope{"pawn": 3}

	tests := []struct {
		name string
		ref  *cst.TypeRef
		want types.TypeID
		code diag.Code // 0 — без диагностики
	}{
		{"primitive", typeRef("Int", nil), types.Int, 0},
		{"primitive case-insensitive", typeRef("FLOAT", nil), types.Float, 0},
		{"array of primitive", typeRef("array", typeRef("bool", nil)), in.ArrayOf(types.Bool), 0},
		{"class generic", typeRef("class", typeRef("Pawn", nil)), in.ClassType(3), 0},
		{"class in scope", typeRef("PAWN", nil), in.ClassType(3), 0},
		{"unknown", typeRef("Widget", nil), types.Error, diag.SemaUnknownType},
		{"generic on primitive", typeRef("int", typeRef("bool", nil)), types.Error, diag.SemaGenericOnPrimitive},
		{"array without argument", typeRef("array", nil), types.Error, diag.SemaUnknownType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := &testReporter{}
			got := in.Resolve(tt.ref, arena, scope, rep)
			if got != tt.want {
				t.Fatalf("resolved to %d, want %d", got, tt.want)
			}
			if tt.code == 0 {
				if len(rep.diagnostics) != 0 {
					t.Fatalf("unexpected diagnostics: %v", rep.diagnostics)
				}
				return
			}
			if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != tt.code {
				t.Fatalf("want one %v, got %v", tt.code, rep.diagnostics)
			}
		})
	}
}

type testHierarchy map[types.ClassID]types.ClassID

func (h testHierarchy) SuperOf(c types.ClassID) (types.ClassID, bool) {
	p, ok := h[c]
	return p, ok
}

func TestIsSubclass(t *testing.T) {
	// 3 (Pawn) -> 2 (Actor) -> 1 (Object)
	h := testHierarchy{3: 2, 2: 1}
	if !types.IsSubclass(3, 1, h) {
		t.Error("Pawn should be a subclass of Object")
	}
	if !types.IsSubclass(2, 2, h) {
		t.Error("a class is its own subclass")
	}
	if types.IsSubclass(1, 3, h) {
		t.Error("Object is not a subclass of Pawn")
	}
}
