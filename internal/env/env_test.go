package env_test

import (
	"testing"

	"muscript/internal/caseins"
	"muscript/internal/diag"
	"muscript/internal/env"
	"muscript/internal/lexer"
	"muscript/internal/parser"
	"muscript/internal/source"
	"muscript/internal/token"
	"muscript/internal/types"
)

type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(d diag.Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
}

func (r *testReporter) codes() []diag.Code {
	var out []diag.Code
	for _, d := range r.diagnostics {
		out = append(out, d.Code)
	}
	return out
}

func partition(t *testing.T, input string) (*env.UntypedClassPartition, *token.Arena, *testReporter) {
	t.Helper()
	fs := source.NewFileSet()
	fid := fs.AddVirtual("test.uc", []byte(input))
	arena := token.NewArena()
	rep := &testReporter{}
	span := lexer.Tokenize(fs.Get(fid), arena, lexer.Options{Reporter: rep})
	ids := make([]token.ID, 0, span.Len())
	for i := span.Start; i < span.End; i++ {
		ids = append(ids, i)
	}
	file, _ := parser.ParseFile(arena, ids, parser.Options{Reporter: rep})
	return env.BuildPartition(arena, fid, file, rep), arena, rep
}

func TestClassInterningIsCaseInsensitive(t *testing.T) {
	e := env.New()
	a := e.AllocateClassID("Pawn")
	b := e.AllocateClassID("PAWN")
	c := e.AllocateClassID("pawn")
	if a != b || b != c {
		t.Fatalf("same name interned to different IDs: %d %d %d", a, b, c)
	}
	other := e.AllocateClassID("Actor")
	if other == a {
		t.Fatal("distinct names share an ID")
	}
	if got := e.ClassName(a).String(); got != "Pawn" {
		t.Fatalf("display name = %q, want first spelling", got)
	}
	if id, ok := e.FindClass(caseins.Fold("pAwN")); !ok || id != a {
		t.Fatalf("FindClass = %d, %t", id, ok)
	}
}

func TestSuperChain(t *testing.T) {
	e := env.New()
	object := e.AllocateClassID("Object")
	actor := e.AllocateClassID("Actor")
	pawn := e.AllocateClassID("Pawn")
	e.SetSuper(actor, object)
	e.SetSuper(pawn, actor)

	if s, ok := e.SuperOf(pawn); !ok || s != actor {
		t.Fatalf("SuperOf(Pawn) = %d, %t", s, ok)
	}
	if _, ok := e.SuperOf(object); ok {
		t.Fatal("Object must have no parent")
	}
	if !types.IsSubclass(pawn, object, e) {
		t.Fatal("Pawn must be a subclass of Object")
	}
	if types.IsSubclass(object, pawn, e) {
		t.Fatal("Object must not be a subclass of Pawn")
	}
}

func TestPartitionsAbsentVersusEmpty(t *testing.T) {
	e := env.New()
	c := e.AllocateClassID("Pawn")

	if _, ok := e.Partitions(c); ok {
		t.Fatal("fresh class must report partitions as never materialized")
	}
	e.SetPartitions(c, nil)
	if parts, ok := e.Partitions(c); !ok || parts != nil {
		t.Fatalf("materialized-empty lost: %v, %t", parts, ok)
	}
}

func TestNamespaceMemoizesMisses(t *testing.T) {
	e := env.New()
	c := e.AllocateClassID("Pawn")
	key := caseins.Fold("Health")

	if _, _, known := e.CachedVar(c, key); known {
		t.Fatal("lookup must start unknown")
	}
	e.MemoizeVarMiss(c, key)
	if _, ok, known := e.CachedVar(c, key); !known || ok {
		t.Fatalf("miss not memoized: ok=%t known=%t", ok, known)
	}

	id := e.NewVar(env.Var{Name: caseins.NewName("Armor"), Ty: types.Int})
	e.MemoizeVar(c, caseins.Fold("Armor"), id)
	if got, ok, known := e.CachedVar(c, caseins.Fold("armor")); !known || !ok || got != id {
		t.Fatalf("hit not memoized: got=%d ok=%t known=%t", got, ok, known)
	}
}

func TestBuildPartitionBucketsItems(t *testing.T) {
	p, _, rep := partition(t, `
class Pawn extends Actor;

var int Health, Armor;
const MaxHealth = 100;
enum EMode { M_Walk, M_Run };
struct Vec { var float X; var float Y; };

function TakeDamage(int Amount) {
}

defaultproperties
{
}
`)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.diagnostics)
	}
	if p.Header == nil || p.Header.Name.Key() != "pawn" {
		t.Fatal("header not captured")
	}
	if _, ok := p.Vars[caseins.Fold("HEALTH")]; !ok {
		t.Fatal("Health missing from var bucket")
	}
	if _, ok := p.Vars[caseins.Fold("armor")]; !ok {
		t.Fatal("Armor missing from var bucket")
	}
	if _, ok := p.Functions[caseins.Fold("takedamage")]; !ok {
		t.Fatal("TakeDamage missing from function bucket")
	}
	if len(p.Consts) != 1 || len(p.Enums) != 1 || len(p.Structs) != 1 || len(p.DefaultProperties) != 1 {
		t.Fatalf("bucket counts: consts=%d enums=%d structs=%d defprops=%d",
			len(p.Consts), len(p.Enums), len(p.Structs), len(p.DefaultProperties))
	}
	if len(p.VarOrder) != 2 || p.VarOrder[0] != caseins.Fold("Health") {
		t.Fatalf("var order = %v", p.VarOrder)
	}
}

func TestBuildPartitionReportsDuplicates(t *testing.T) {
	p, _, rep := partition(t, `
class Pawn;
var int Health;
var float health;
`)
	found := false
	for _, d := range rep.diagnostics {
		if d.Code == diag.SemaRedefinedLocal {
			found = true
			if len(d.Labels) < 2 {
				t.Fatal("duplicate diagnostic must point at both declarations")
			}
		}
	}
	if !found {
		t.Fatalf("no duplicate diagnostic: %v", rep.codes())
	}
	if entry := p.Vars[caseins.Fold("health")]; entry.Decl == nil {
		t.Fatal("first declaration must win")
	} else if entry.Decl.Type.Name.Key() != "int" {
		t.Fatal("duplicate replaced the first declaration")
	}
}

func TestBuildPartitionMissingHeader(t *testing.T) {
	_, _, rep := partition(t, "var int Health;\n")
	for _, d := range rep.diagnostics {
		if d.Code == diag.SemaMissingClass {
			return
		}
	}
	t.Fatalf("missing-header not reported: %v", rep.codes())
}

func TestCheckItemSupport(t *testing.T) {
	p, arena, _ := partition(t, `
class Pawn within LevelInfo;

state Idle
{
}

replication
{
}
`)
	rep := &testReporter{}
	p.CheckItemSupport(arena, rep)
	got := 0
	for _, d := range rep.diagnostics {
		if d.Code == diag.SemaUnsupported {
			got++
		}
	}
	if got != 3 {
		t.Fatalf("unsupported count = %d, want 3 (within, state, replication): %v", got, rep.codes())
	}
}
