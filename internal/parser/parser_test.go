package parser_test

import (
	"fmt"
	"strings"
	"testing"

	"muscript/internal/cst"
	"muscript/internal/diag"
	"muscript/internal/lexer"
	"muscript/internal/parser"
	"muscript/internal/source"
	"muscript/internal/token"
)

type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(d diag.Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
}

func (r *testReporter) errors() []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range r.diagnostics {
		if d.Severity >= diag.SevError {
			out = append(out, d)
		}
	}
	return out
}

// lex tokenizes input into a fresh arena and returns the ID sequence.
func lex(t *testing.T, input string) (*token.Arena, []token.ID) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.uc", []byte(input))
	arena := token.NewArena()
	rep := &testReporter{}
	span := lexer.Tokenize(fs.Get(id), arena, lexer.Options{Reporter: rep})
	if len(rep.errors()) != 0 {
		t.Fatalf("lex errors: %v", rep.diagnostics)
	}
	ids := make([]token.ID, 0, span.Len())
	for i := span.Start; i < span.End; i++ {
		ids = append(ids, i)
	}
	return arena, ids
}

func parseFile(t *testing.T, input string) (*cst.File, *token.Arena, *testReporter) {
	t.Helper()
	arena, ids := lex(t, input)
	rep := &testReporter{}
	file, _ := parser.ParseFile(arena, ids, parser.Options{Reporter: rep})
	return file, arena, rep
}

func TestEmptyFile(t *testing.T) {
	arena, ids := lex(t, "")
	rep := &testReporter{}
	file, _ := parser.ParseBareFile(arena, ids, parser.Options{Reporter: rep})
	if len(file.Items) != 0 {
		t.Fatalf("items = %d, want 0", len(file.Items))
	}
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.diagnostics)
	}
}

func TestCommentsOnlyFile(t *testing.T) {
	arena, ids := lex(t, "// just a comment\n/* and a block */\n")
	rep := &testReporter{}
	file, _ := parser.ParseBareFile(arena, ids, parser.Options{Reporter: rep})
	if len(file.Items) != 0 || len(rep.diagnostics) != 0 {
		t.Fatalf("items = %d, diags = %v", len(file.Items), rep.diagnostics)
	}
}

func TestClassHeader(t *testing.T) {
	file, _, rep := parseFile(t, "class MyPawn extends Engine.Pawn within PlayerController native config(Game) abstract;")
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.diagnostics)
	}
	h := file.Header
	if h == nil {
		t.Fatal("no class header")
	}
	if h.Name.String() != "MyPawn" {
		t.Errorf("name = %q", h.Name)
	}
	if h.Extends == nil || h.Extends.Key() != "pawn" {
		t.Errorf("extends = %v", h.Extends)
	}
	if h.Within == nil || h.Within.Key() != "playercontroller" {
		t.Errorf("within = %v", h.Within)
	}
	if len(h.Specifiers) != 3 {
		t.Fatalf("specifiers = %d, want 3", len(h.Specifiers))
	}
	if h.Specifiers[1].Name.Key() != "config" {
		t.Errorf("spec[1] = %q", h.Specifiers[1].Name)
	}
}

func TestVarConstEnumStruct(t *testing.T) {
	src := `class A extends Object;

const MaxHealth = 100;

var private config int Health, Armor;
var() float Speed <ToolTip=How fast>;

enum EState
{
	ES_Idle,
	ES_Moving
};

struct native SPoint
{
	var float X;
	var float Y;
};
`
	file, _, rep := parseFile(t, src)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.diagnostics)
	}
	if len(file.Items) != 5 {
		t.Fatalf("items = %d, want 5", len(file.Items))
	}

	c := file.Items[0].(*cst.ConstDecl)
	if c.Name.Key() != "maxhealth" {
		t.Errorf("const name = %q", c.Name)
	}

	v := file.Items[1].(*cst.VarDecl)
	if len(v.Specifiers) != 2 || v.Type.Name.Key() != "int" || len(v.Names) != 2 {
		t.Errorf("var decl shape: specs=%d type=%q names=%d", len(v.Specifiers), v.Type.Name, len(v.Names))
	}

	v2 := file.Items[2].(*cst.VarDecl)
	if v2.Category == nil || v2.Meta == nil {
		t.Error("var() category and <meta> should be captured")
	}

	e := file.Items[3].(*cst.EnumDecl)
	if len(e.Variants) != 2 || e.Variants[1].Name.Key() != "es_moving" {
		t.Errorf("enum shape: %v", e.Variants)
	}

	s := file.Items[4].(*cst.StructDecl)
	if s.Name.Key() != "spoint" || len(s.Members) != 2 {
		t.Errorf("struct shape: name=%q members=%d", s.Name, len(s.Members))
	}
}

func TestFunctionDecl(t *testing.T) {
	src := `class A extends Object;

function int Sum(int a, optional int b = 2)
{
	return a + b;
}

native static final function bool IsAlive();

simulated event Tick(float DeltaTime)
{
	;
}
`
	file, _, rep := parseFile(t, src)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.diagnostics)
	}
	if len(file.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(file.Items))
	}

	f := file.Items[0].(*cst.FunctionDecl)
	if f.ReturnType == nil || f.ReturnType.Name.Key() != "int" || f.Name.Key() != "sum" {
		t.Errorf("fn shape: ret=%v name=%q", f.ReturnType, f.Name)
	}
	if len(f.Params) != 2 || f.Params[1].Default == nil {
		t.Fatalf("params: %d", len(f.Params))
	}
	if f.Body == nil || len(f.Body.Stmts) != 1 {
		t.Fatal("body should hold one return")
	}

	n := file.Items[1].(*cst.FunctionDecl)
	if n.Body != nil || len(n.Specifiers) != 3 {
		t.Errorf("native decl: body=%v specs=%d", n.Body, len(n.Specifiers))
	}

	sim := file.Items[2].(*cst.Simulated)
	ev := sim.Item.(*cst.FunctionDecl)
	if ev.Name.Key() != "tick" || ev.ReturnType != nil {
		t.Errorf("event shape: %q", ev.Name)
	}
}

func TestLazyRegions(t *testing.T) {
	src := `class A extends Object;

cpptext
{
	int* Native; if (x) { y(); }
}

state Idle
{
	function BeginState() { }
}

replication
{
	if (bNetDirty)
		Health;
}

defaultproperties
{
	Health=100
	Mesh=StaticMesh'Package.Group.Name'
}
`
	file, arena, rep := parseFile(t, src)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.diagnostics)
	}
	if len(file.Items) != 4 {
		t.Fatalf("items = %d, want 4", len(file.Items))
	}

	cpp := file.Items[0].(*cst.CppText)
	if cpp.Body.Inner.Len() != 1 || arena.Get(cpp.Body.Inner.Start).Kind != token.Blob {
		t.Error("cpptext interior should be one raw blob token")
	}

	st := file.Items[1].(*cst.StateDecl)
	if st.Name.Key() != "idle" || st.Body.Inner.Empty() {
		t.Error("state body should be captured lazily")
	}
	// интерьер не интерпретируется, но скобки сбалансированы
	if arena.Get(st.Body.Close).Kind != token.RBrace {
		t.Error("state close should be the real `}`")
	}

	if _, ok := file.Items[2].(*cst.Replication); !ok {
		t.Error("replication item missing")
	}
	if _, ok := file.Items[3].(*cst.DefaultProperties); !ok {
		t.Error("defaultproperties item missing")
	}
}

func TestStatements(t *testing.T) {
	src := `class A extends Object;

function F()
{
	local int i, j[4];

	for (i = 0; i < 10; i++)
	{
		if (i % 2 == 0)
			continue;
		else
			j[0] += i;
	}

	while (i > 0)
		i--;

	do
	{
		i++;
	} until (i >= 3);

	switch (i)
	{
	case 0:
		break;
	default:
		break;
	}

	foreach AllActors(class'Pawn', P)
		P.Health = 0;
}
`
	file, _, rep := parseFile(t, src)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.diagnostics)
	}
	f := file.Items[0].(*cst.FunctionDecl)
	kinds := make([]string, 0, len(f.Body.Stmts))
	for _, s := range f.Body.Stmts {
		kinds = append(kinds, fmt.Sprintf("%T", s))
	}
	want := []string{"*cst.Local", "*cst.For", "*cst.While", "*cst.Do", "*cst.Switch", "*cst.ForEach"}
	if strings.Join(kinds, " ") != strings.Join(want, " ") {
		t.Fatalf("stmts = %v, want %v", kinds, want)
	}
}

func TestUnterminatedFunctionBlock(t *testing.T) {
	src := "function F() {"
	arena, ids := lex(t, src)
	rep := &testReporter{}
	file, _ := parser.ParseBareFile(arena, ids, parser.Options{Reporter: rep})

	errs := rep.errors()
	if len(errs) != 1 {
		t.Fatalf("errors = %d, want 1 (%v)", len(errs), rep.diagnostics)
	}
	if errs[0].Code != diag.SynUnclosedBlock {
		t.Fatalf("code = %v", errs[0].Code)
	}
	// первичная метка указывает на `{`
	openOff := uint32(strings.Index(src, "{"))
	prim := errs[0].Primary()
	if prim.Start != openOff {
		t.Fatalf("primary label = %+v, want start %d", prim, openOff)
	}
	// разбор продолжается: функция в дереве есть
	if len(file.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(file.Items))
	}
}

func TestRecoveryContinuesAfterBadBracketRegion(t *testing.T) {
	src := `class A extends Object;

function F()
{
	x = (1 + ;
	y = 2;
}

function G() { }
`
	file, _, rep := parseFile(t, src)
	if len(rep.errors()) != 1 {
		t.Fatalf("errors = %d, want 1 (%v)", len(rep.errors()), rep.diagnostics)
	}
	if len(file.Items) != 2 {
		t.Fatalf("items = %d, want 2: recovery must reach G", len(file.Items))
	}
	g := file.Items[1].(*cst.FunctionDecl)
	if g.Name.Key() != "g" {
		t.Fatalf("second item = %q", g.Name)
	}
}

func TestDeepNestingDoesNotOverflow(t *testing.T) {
	depth := 1500
	src := "function F() { x = " + strings.Repeat("(", depth) + "1" + strings.Repeat(")", depth) + "; }"
	arena, ids := lex(t, src)
	rep := &testReporter{}
	_, _ = parser.ParseBareFile(arena, ids, parser.Options{Reporter: rep})
	if len(rep.errors()) != 0 {
		t.Fatalf("unexpected errors: %d", len(rep.errors()))
	}
}

// Every child's span lies within its parent's span and in the same file.
func TestSpanContainment(t *testing.T) {
	src := `class A extends Object;

var int Health;

function int F(int a)
{
	local int x;
	if (a > 0) { x = a * 2; } else { x = -a; }
	return x + Health;
}
`
	file, arena, rep := parseFile(t, src)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.diagnostics)
	}

	var check func(n cst.Node)
	check = func(n cst.Node) {
		parent := n.Span()
		for _, child := range cst.Children(n) {
			cs := child.Span()
			if cs.Empty() {
				continue
			}
			if cs.Start < parent.Start || cs.End > parent.End {
				t.Fatalf("%T span %v escapes parent %T span %v", child, cs, n, parent)
			}
			src := cs.Source(arena)
			if !src.Empty() && src.File != parent.Source(arena).File {
				t.Fatalf("%T crosses files", child)
			}
			check(child)
		}
	}
	check(file)
}

// shape renders the structural skeleton of a tree, ignoring spans and IDs.
func shape(n cst.Node) string {
	var b strings.Builder
	var walk func(n cst.Node)
	walk = func(n cst.Node) {
		b.WriteString(fmt.Sprintf("%T", n))
		switch v := n.(type) {
		case *cst.Ident:
			b.WriteString("(" + string(v.Name.Key()) + ")")
		case *cst.Lit:
			b.WriteString("(" + v.Text + ")")
		case *cst.Infix:
			b.WriteString("(" + v.Op.String() + ")")
		case *cst.VarDecl:
			for _, n := range v.Names {
				b.WriteString("(" + string(n.Name.Key()) + ")")
			}
		case *cst.FunctionDecl:
			b.WriteString("(" + string(v.Name.Key()) + ")")
		}
		b.WriteString("[")
		for _, c := range cst.Children(n) {
			walk(c)
			b.WriteString(" ")
		}
		b.WriteString("]")
	}
	walk(n)
	return b.String()
}

// Re-parsing the token span of an item yields a structurally equal item.
func TestItemReparseRoundTrip(t *testing.T) {
	src := `class A extends Object;

var int Health;

function int F(int a)
{
	return a + Health;
}
`
	file, arena, rep := parseFile(t, src)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.diagnostics)
	}

	for _, item := range file.Items {
		span := item.Span()
		ids := make([]token.ID, 0, span.Len()+1)
		for i := span.Start; i < span.End; i++ {
			ids = append(ids, i)
		}
		ids = append(ids, file.EOF)

		rep2 := &testReporter{}
		refile, _ := parser.ParseBareFile(arena, ids, parser.Options{Reporter: rep2})
		if len(rep2.diagnostics) != 0 {
			t.Fatalf("%T re-parse diagnostics: %v", item, rep2.diagnostics)
		}
		if len(refile.Items) != 1 {
			t.Fatalf("%T re-parse yielded %d items", item, len(refile.Items))
		}
		if got, want := shape(refile.Items[0]), shape(item); got != want {
			t.Fatalf("%T re-parse shape mismatch:\n got %s\nwant %s", item, got, want)
		}
	}
}
