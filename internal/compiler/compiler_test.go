package compiler_test

import (
	"errors"
	"strings"
	"testing"

	"muscript/internal/caseins"
	"muscript/internal/compiler"
	"muscript/internal/diag"
	"muscript/internal/lexer"
	"muscript/internal/parser"
	"muscript/internal/source"
	"muscript/internal/token"
	"muscript/internal/types"
)

// memInput parses in-memory sources on demand and counts the parses, so
// tests can assert that partitions are materialized exactly once.
type memInput struct {
	fs      *source.FileSet
	arena   *token.Arena
	bag     *diag.Bag
	sources map[caseins.Key]string
	parses  map[caseins.Key]int
	fids    map[caseins.Key]source.FileID
}

func newMemInput(arena *token.Arena, bag *diag.Bag, sources map[string]string) *memInput {
	in := &memInput{
		fs:      source.NewFileSet(),
		arena:   arena,
		bag:     bag,
		sources: make(map[caseins.Key]string),
		parses:  make(map[caseins.Key]int),
		fids:    make(map[caseins.Key]source.FileID),
	}
	for name, text := range sources {
		in.sources[caseins.Fold(name)] = text
	}
	return in
}

func (in *memInput) ClassExists(name caseins.Key) bool {
	_, ok := in.sources[name]
	return ok
}

// fileID registers the class's single virtual file once.
func (in *memInput) fileID(name caseins.Key) source.FileID {
	if fid, ok := in.fids[name]; ok {
		return fid
	}
	fid := in.fs.AddVirtual(string(name)+".uc", []byte(in.sources[name]))
	in.fids[name] = fid
	return fid
}

func (in *memInput) ClassSourceIDs(name caseins.Key) ([]source.FileID, bool) {
	if _, ok := in.sources[name]; !ok {
		return nil, false
	}
	return []source.FileID{in.fileID(name)}, true
}

func (in *memInput) ClassSources(name caseins.Key) ([]compiler.ParsedSource, error) {
	if _, ok := in.sources[name]; !ok {
		return nil, nil
	}
	in.parses[name]++
	rep := diag.BagReporter{Bag: in.bag}
	fid := in.fileID(name)
	span := lexer.Tokenize(in.fs.Get(fid), in.arena, lexer.Options{Reporter: rep})
	ids := make([]token.ID, 0, span.Len())
	for i := span.Start; i < span.End; i++ {
		ids = append(ids, i)
	}
	file, _ := parser.ParseFile(in.arena, ids, parser.Options{Reporter: rep})
	return []compiler.ParsedSource{{File: fid, CST: file}}, nil
}

func compile(t *testing.T, sources map[string]string, roots ...string) (*compiler.Package, *compiler.Compiler, error) {
	t.Helper()
	arena := token.NewArena()
	bag := diag.NewBag(0)
	input := newMemInput(arena, bag, sources)
	c := compiler.New(arena, input, bag)
	pkg, err := c.CompilePackage(roots)
	return pkg, c, err
}

func TestCompileTwoClassesWithInheritance(t *testing.T) {
	pkg, c, err := compile(t, map[string]string{
		"Actor": `
class Actor;
var int Health;
function TakeDamage(int Amount) {
	Health = Health - Amount;
}
`,
		"Pawn": `
class Pawn extends Actor;
function Heal() {
	health = 100;
	TakeDamage(0);
}
`,
	}, "Actor", "Pawn")
	if err != nil {
		t.Fatalf("compile: %v\n%v", err, c.Bag.Items())
	}
	if len(pkg.Classes) != 2 {
		t.Fatalf("classes = %d, want 2", len(pkg.Classes))
	}

	pawn, _ := c.Env.FindClass(caseins.Fold("pawn"))
	actor, _ := c.Env.FindClass(caseins.Fold("actor"))
	if super, ok := c.Env.SuperOf(pawn); !ok || super != actor {
		t.Fatalf("Pawn's parent = %d, %t", super, ok)
	}

	// поле родителя видно из функции наследника, регистр не важен
	if _, ok := c.ClassVar(actor, caseins.Fold("HEALTH")); !ok {
		t.Fatal("Health must resolve on Actor")
	}

	compiled := pkg.Classes[actor]
	if len(compiled.Vars) != 1 || len(compiled.Functions) != 1 {
		t.Fatalf("Actor: vars=%d functions=%d", len(compiled.Vars), len(compiled.Functions))
	}
	fn := c.Env.GetFunction(compiled.Functions[0])
	if fn.IR == nil {
		t.Fatal("TakeDamage body was not lowered")
	}
}

func TestPartitionsMaterializeOnce(t *testing.T) {
	arena := token.NewArena()
	bag := diag.NewBag(0)
	input := newMemInput(arena, bag, map[string]string{
		"Actor": "class Actor;\nvar int Health;\n",
	})
	c := compiler.New(arena, input, bag)

	id, _ := c.FindClass(caseins.Fold("actor"))
	c.ClassVar(id, caseins.Fold("health"))
	c.ClassVar(id, caseins.Fold("health"))
	c.ClassFunction(id, caseins.Fold("missing"))

	if got := input.parses[caseins.Fold("actor")]; got != 1 {
		t.Fatalf("class parsed %d times, want 1", got)
	}
}

func TestLookupMissIsMemoized(t *testing.T) {
	_, c, err := compile(t, map[string]string{
		"Actor": "class Actor;\n",
	}, "Actor")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	id, _ := c.Env.FindClass(caseins.Fold("actor"))

	if _, ok := c.ClassVar(id, caseins.Fold("ghost")); ok {
		t.Fatal("ghost must not resolve")
	}
	if _, ok, known := c.Env.CachedVar(id, caseins.Fold("ghost")); !known || ok {
		t.Fatalf("miss not memoized: ok=%t known=%t", ok, known)
	}
	// повторный промах обслуживается из кэша
	if _, ok := c.ClassVar(id, caseins.Fold("ghost")); ok {
		t.Fatal("memoized miss must stay a miss")
	}
}

func TestUnknownParentIsReported(t *testing.T) {
	_, c, err := compile(t, map[string]string{
		"Pawn": "class Pawn extends Actor;\n",
	}, "Pawn")
	if !errors.Is(err, compiler.ErrCompileFailed) {
		t.Fatalf("err = %v, want ErrCompileFailed", err)
	}
	found := false
	for _, d := range c.Bag.Items() {
		if d.Code == diag.SemaMissingClass {
			found = true
		}
	}
	if !found {
		t.Fatalf("no missing-class diagnostic: %v", c.Bag.Items())
	}
}

func TestSelfExtendsDoesNotLoop(t *testing.T) {
	_, c, err := compile(t, map[string]string{
		"Pawn": "class Pawn extends Pawn;\n",
	}, "Pawn")
	if !errors.Is(err, compiler.ErrCompileFailed) {
		t.Fatalf("err = %v, want ErrCompileFailed", err)
	}
	id, _ := c.Env.FindClass(caseins.Fold("pawn"))
	if _, ok := c.Env.SuperOf(id); ok {
		t.Fatal("self-extending class must stay rootless")
	}
}

func TestSemanticErrorFailsPackage(t *testing.T) {
	pkg, c, err := compile(t, map[string]string{
		"Actor": `
class Actor;
function F() {
	y = 1;
}
`,
	}, "Actor")
	if !errors.Is(err, compiler.ErrCompileFailed) {
		t.Fatalf("err = %v, want ErrCompileFailed", err)
	}
	// пакет возвращается и при ошибке — с тем, что удалось собрать
	if pkg == nil || len(pkg.Classes) != 1 {
		t.Fatal("partial package must survive the failure")
	}
	if !c.Bag.HasErrors() {
		t.Fatal("bag must hold the error")
	}
}

func TestUnsupportedConstructsAreReported(t *testing.T) {
	_, c, err := compile(t, map[string]string{
		"Actor": `
class Actor;
state Idle
{
}
`,
	}, "Actor")
	if !errors.Is(err, compiler.ErrCompileFailed) {
		t.Fatalf("err = %v, want ErrCompileFailed", err)
	}
	for _, d := range c.Bag.Items() {
		if d.Code == diag.SemaUnsupported {
			return
		}
	}
	t.Fatalf("no unsupported diagnostic: %v", c.Bag.Items())
}

func TestPackageFollowsInputOrder(t *testing.T) {
	_, c, err := compile(t, map[string]string{
		"Zeta":  "class Zeta;\nfunction F() {\n\tZetaGhost = 1;\n}\n",
		"Alpha": "class Alpha;\nfunction G() {\n\tAlphaGhost = 1;\n}\n",
	}, "Zeta", "Alpha")
	if !errors.Is(err, compiler.ErrCompileFailed) {
		t.Fatalf("err = %v, want ErrCompileFailed", err)
	}
	// Zeta назван первым, значит и его диагностика идёт первой —
	// алфавитный порядок имён здесь ни при чём
	var first string
	for _, d := range c.Bag.Items() {
		if d.Severity >= diag.SevError {
			first = d.Message
			break
		}
	}
	if !strings.Contains(first, "ZetaGhost") {
		t.Fatalf("first error is %q, want Zeta's", first)
	}
}

func TestClassSourceIDsSkipsParsing(t *testing.T) {
	arena := token.NewArena()
	bag := diag.NewBag(0)
	input := newMemInput(arena, bag, map[string]string{
		"Actor": "class Actor;\n",
	})

	ids, ok := input.ClassSourceIDs(caseins.Fold("ACTOR"))
	if !ok || len(ids) != 1 {
		t.Fatalf("ids = %v, ok = %t", ids, ok)
	}
	if _, ok := input.ClassSourceIDs(caseins.Fold("ghost")); ok {
		t.Fatal("unknown class must report ok=false")
	}
	if input.parses[caseins.Fold("actor")] != 0 {
		t.Fatal("ClassSourceIDs must not force a parse")
	}

	// последующий парс видит тот же файл
	sources, err := input.ClassSources(caseins.Fold("actor"))
	if err != nil || len(sources) != 1 {
		t.Fatalf("sources = %v, err = %v", sources, err)
	}
	if sources[0].File != ids[0] {
		t.Fatalf("file id changed: %v vs %v", sources[0].File, ids[0])
	}
}

func TestFieldTypeReferencesOtherClass(t *testing.T) {
	_, c, err := compile(t, map[string]string{
		"Actor": "class Actor;\nvar Pawn Rider;\n",
		"Pawn":  "class Pawn;\n",
	}, "Actor")
	if err != nil {
		t.Fatalf("compile: %v\n%v", err, c.Bag.Items())
	}
	actor, _ := c.Env.FindClass(caseins.Fold("actor"))
	v, ok := c.ClassVar(actor, caseins.Fold("rider"))
	if !ok {
		t.Fatal("Rider must resolve")
	}
	ty := c.Env.Types.Get(c.Env.GetVar(v).Ty)
	if ty.Kind != types.KindClass {
		t.Fatalf("Rider's type kind = %v, want class", ty.Kind)
	}
	if c.Env.ClassName(ty.Class).Key() != caseins.Fold("pawn") {
		t.Fatal("Rider must be typed as Pawn")
	}
}
