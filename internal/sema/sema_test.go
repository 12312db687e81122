package sema_test

import (
	"strings"
	"testing"

	"muscript/internal/caseins"
	"muscript/internal/diag"
	"muscript/internal/env"
	"muscript/internal/ir"
	"muscript/internal/lexer"
	"muscript/internal/parser"
	"muscript/internal/sema"
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

func (r *testReporter) count(code diag.Code) int {
	n := 0
	for _, d := range r.diagnostics {
		if d.Code == code {
			n++
		}
	}
	return n
}

func (r *testReporter) errorCount() int {
	n := 0
	for _, d := range r.diagnostics {
		if d.Severity >= diag.SevError {
			n++
		}
	}
	return n
}

// fakeFields indexes one class's interned declarations for lookup.
type fakeFields struct {
	vars  map[types.ClassID]map[caseins.Key]env.VarID
	funcs map[types.ClassID]map[caseins.Key]env.FunctionID
}

func (f *fakeFields) ClassVar(c types.ClassID, name caseins.Key) (env.VarID, bool) {
	id, ok := f.vars[c][name]
	return id, ok
}

func (f *fakeFields) ClassFunction(c types.ClassID, name caseins.Key) (env.FunctionID, bool) {
	id, ok := f.funcs[c][name]
	return id, ok
}

// lower parses src, interns the single class the way the driver would, and
// lowers the named function.
func lower(t *testing.T, src, fnName string) (*ir.Func, *env.Env, *testReporter) {
	t.Helper()
	fs := source.NewFileSet()
	fid := fs.AddVirtual("test.uc", []byte(src))
	arena := token.NewArena()
	rep := &testReporter{}
	span := lexer.Tokenize(fs.Get(fid), arena, lexer.Options{Reporter: rep})
	ids := make([]token.ID, 0, span.Len())
	for i := span.Start; i < span.End; i++ {
		ids = append(ids, i)
	}
	file, _ := parser.ParseFile(arena, ids, parser.Options{Reporter: rep})
	if rep.errorCount() != 0 {
		t.Fatalf("parse errors: %v", rep.diagnostics)
	}
	part := env.BuildPartition(arena, fid, file, rep)

	e := env.New()
	class := e.AllocateClassID(part.Header.Name.String())
	fields := &fakeFields{
		vars:  map[types.ClassID]map[caseins.Key]env.VarID{class: {}},
		funcs: map[types.ClassID]map[caseins.Key]env.FunctionID{class: {}},
	}
	for _, key := range part.VarOrder {
		entry := part.Vars[key]
		ty := e.Types.Resolve(entry.Decl.Type, arena, e, rep)
		fields.vars[class][key] = e.NewVar(env.Var{
			File:     fid,
			Name:     entry.Name.Name,
			NameSpan: entry.Name.Span().Source(arena),
			Ty:       ty,
			Kind:     env.VarKindField,
		})
	}

	var target *env.Function
	for _, key := range part.FunctionOrder {
		decl := part.Functions[key]
		result := types.Void
		if decl.ReturnType != nil {
			result = e.Types.Resolve(decl.ReturnType, arena, e, rep)
		}
		fn := env.Function{
			File:     fid,
			Class:    class,
			Name:     decl.Name,
			NameSpan: decl.NameSpan.Source(arena),
			Result:   result,
			Decl:     decl,
		}
		for i := range decl.Params {
			p := &decl.Params[i]
			pty := e.Types.Resolve(p.Type, arena, e, rep)
			v := e.NewVar(env.Var{
				File:     fid,
				Name:     p.Name,
				NameSpan: p.NameSpan.Source(arena),
				Ty:       pty,
				Kind:     env.VarKindParam,
			})
			optional := false
			for _, s := range p.Specifiers {
				if s.Name.Key() == "optional" {
					optional = true
				}
			}
			fn.Params = append(fn.Params, env.Param{Var: v, Out: p.IsOut(), Optional: optional})
		}
		id := e.NewFunction(fn)
		fields.funcs[class][key] = id
		if caseins.Equal(decl.Name.String(), fnName) {
			target = e.GetFunction(id)
		}
	}
	if target == nil || target.Decl.Body == nil {
		t.Fatalf("function %s not found or has no body", fnName)
	}

	fb := sema.NewFunctionBuilder(e, fields, class, arena, rep, target)
	fn := fb.Lower(target.Decl.Body)
	if errs := ir.Validate(fn); len(errs) != 0 {
		t.Fatalf("invalid IR: %v\n%s", errs, ir.Dump(fn, e.Types))
	}
	return fn, e, rep
}

func labels(fn *ir.Func) []string {
	out := make([]string, len(fn.Blocks))
	for i := range fn.Blocks {
		out[i] = fn.Blocks[i].Label
	}
	return out
}

func TestStraightLineBody(t *testing.T) {
	fn, _, rep := lower(t, `
class A;
function F() {
	local int x;
	x = 1 + 2;
	;
}
`, "F")
	if len(fn.Blocks) != 1 {
		t.Fatalf("blocks = %v, want just begin", labels(fn))
	}
	if fn.Blocks[0].Term.Kind != ir.TermReturn {
		t.Fatalf("terminator = %v, want implicit return", fn.Blocks[0].Term.Kind)
	}
	if rep.count(diag.SemaEmptyStatement) != 1 {
		t.Fatalf("empty-statement warnings = %d, want 1", rep.count(diag.SemaEmptyStatement))
	}
	if rep.errorCount() != 0 {
		t.Fatalf("unexpected errors: %v", rep.diagnostics)
	}
}

func TestIfElseShapesFourBlocks(t *testing.T) {
	fn, _, rep := lower(t, `
class A;
function F(bool c) {
	if (c) {
		c = false;
	} else {
		c = true;
	}
}
`, "F")
	if rep.errorCount() != 0 {
		t.Fatalf("unexpected errors: %v", rep.diagnostics)
	}
	got := strings.Join(labels(fn), " ")
	if got != "begin if_true if_false past_if" {
		t.Fatalf("blocks = %q", got)
	}
	begin := fn.Block(fn.Entry)
	if begin.Term.Kind != ir.TermGotoIf {
		t.Fatalf("entry terminator = %v", begin.Term.Kind)
	}
	if fn.Block(begin.Term.GotoIf.IfTrue).Label != "if_true" ||
		fn.Block(begin.Term.GotoIf.IfFalse).Label != "if_false" {
		t.Fatal("goto_if targets are wrong")
	}
	// обе ветки продолжаются в past_if — предупреждения быть не должно
	if rep.count(diag.SemaUnreachable) != 0 {
		t.Fatalf("fall-through branches must not warn: %v", rep.diagnostics)
	}
}

func TestIfElseBothReturnWarnsUnreachableJoin(t *testing.T) {
	fn, _, rep := lower(t, `
class A;
function F(bool c) {
	if (c) {
		return;
	} else {
		return;
	}
}
`, "F")
	got := strings.Join(labels(fn), " ")
	if got != "begin if_true if_false past_if" {
		t.Fatalf("blocks = %q", got)
	}
	trueBlk := fn.Block(fn.Block(fn.Entry).Term.GotoIf.IfTrue)
	falseBlk := fn.Block(fn.Block(fn.Entry).Term.GotoIf.IfFalse)
	if trueBlk.Term.Kind != ir.TermReturn || falseBlk.Term.Kind != ir.TermReturn {
		t.Fatal("both arms must end with Return")
	}
	if rep.count(diag.SemaUnreachable) != 1 {
		t.Fatalf("unreachable warnings = %d, want 1: %v",
			rep.count(diag.SemaUnreachable), rep.diagnostics)
	}
	if rep.errorCount() != 0 {
		t.Fatalf("unexpected errors: %v", rep.diagnostics)
	}
}

func TestIfWithoutElseNeverWarnsJoin(t *testing.T) {
	_, _, rep := lower(t, `
class A;
function F(bool c) {
	if (c) {
		return;
	}
	c = false;
}
`, "F")
	// без else переход по ложной ветке всегда ведёт в past_if
	if rep.count(diag.SemaUnreachable) != 0 {
		t.Fatalf("else-less if must not warn: %v", rep.diagnostics)
	}
}

func TestIndexOnNonArray(t *testing.T) {
	fn, _, rep := lower(t, `
class A;
var int x;
function F() {
	x[0];
	x = 3;
}
`, "F")
	if rep.count(diag.SemaIndexNonArray) != 1 {
		t.Fatalf("index diagnostics = %d, want 1: %v", rep.count(diag.SemaIndexNonArray), rep.diagnostics)
	}
	// провал индексации не мешает анализу остального тела
	if rep.errorCount() != 1 {
		t.Fatalf("errors = %d, want exactly the index error: %v", rep.errorCount(), rep.diagnostics)
	}
	hasSentinel := false
	for i := range fn.Nodes {
		if fn.Nodes[i].Kind == ir.RegVoid && fn.Nodes[i].Ty == types.Error {
			hasSentinel = true
		}
	}
	if !hasSentinel {
		t.Fatal("failed expression must leave an ERROR-typed sentinel register")
	}
}

func TestUnknownVariable(t *testing.T) {
	_, _, rep := lower(t, `
class A;
function F() {
	y = 1;
}
`, "F")
	if rep.count(diag.SemaUnknownVar) != 1 {
		t.Fatalf("unknown-var diagnostics = %d: %v", rep.count(diag.SemaUnknownVar), rep.diagnostics)
	}
	for _, d := range rep.diagnostics {
		if d.Code == diag.SemaUnknownVar && !strings.Contains(d.Message, "cannot find variable `y` in this scope") {
			t.Fatalf("message = %q", d.Message)
		}
	}
}

func TestFieldLookupIsCaseInsensitive(t *testing.T) {
	fn, e, rep := lower(t, `
class A;
var int Bar;
function F() {
	bar = 2;
}
`, "F")
	if rep.errorCount() != 0 {
		t.Fatalf("unexpected errors: %v", rep.diagnostics)
	}
	found := false
	for i := range fn.Nodes {
		if fn.Nodes[i].Kind == ir.RegField {
			v := e.GetVar(env.VarID(fn.Nodes[i].Field.Var))
			if v.Name.String() == "Bar" {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("`bar` did not resolve to field `Bar`")
	}
}

func TestNonBoolConditionStillBranches(t *testing.T) {
	fn, _, rep := lower(t, `
class A;
function F(int n) {
	if (n) {
		n = 0;
	}
}
`, "F")
	if rep.count(diag.SemaNonBoolCondition) != 1 {
		t.Fatalf("condition diagnostics = %d: %v", rep.count(diag.SemaNonBoolCondition), rep.diagnostics)
	}
	if fn.Block(fn.Entry).Term.Kind != ir.TermGotoIf {
		t.Fatal("control-flow shape must survive the bad condition")
	}
}

func TestWhileLoopShape(t *testing.T) {
	fn, _, rep := lower(t, `
class A;
function F(int n) {
	while (n > 0) {
		n = n - 1;
	}
}
`, "F")
	if rep.errorCount() != 0 {
		t.Fatalf("unexpected errors: %v", rep.diagnostics)
	}
	got := strings.Join(labels(fn), " ")
	if got != "begin loop_cond loop_body past_loop" {
		t.Fatalf("blocks = %q", got)
	}
	body := fn.Blocks[2]
	if body.Term.Kind != ir.TermGoto || fn.Block(body.Term.Goto.Target).Label != "loop_cond" {
		t.Fatal("loop body must jump back to the condition")
	}
}

func TestForContinueGoesToUpdate(t *testing.T) {
	fn, _, rep := lower(t, `
class A;
function F() {
	local int i;
	for (i = 0; i < 10; i++) {
		continue;
	}
}
`, "F")
	if rep.errorCount() != 0 {
		t.Fatalf("unexpected errors: %v", rep.diagnostics)
	}
	for i := range fn.Blocks {
		if fn.Blocks[i].Label == "for_body" {
			term := fn.Blocks[i].Term
			if term.Kind != ir.TermGoto || fn.Block(term.Goto.Target).Label != "for_update" {
				t.Fatalf("continue target = %v", term)
			}
			return
		}
	}
	t.Fatalf("no for_body block: %v", labels(fn))
}

func TestRedefinedLocal(t *testing.T) {
	_, _, rep := lower(t, `
class A;
function F() {
	local int x;
	local float x;
}
`, "F")
	if rep.count(diag.SemaRedefinedLocal) != 1 {
		t.Fatalf("redefinition diagnostics = %d: %v", rep.count(diag.SemaRedefinedLocal), rep.diagnostics)
	}
	for _, d := range rep.diagnostics {
		if d.Code == diag.SemaRedefinedLocal && len(d.Labels) < 2 {
			t.Fatal("redefinition must point at both declarations")
		}
	}
}

func TestReturnChecksType(t *testing.T) {
	_, _, rep := lower(t, `
class A;
function int F(bool c) {
	if (c) {
		return true;
	}
	return 1;
}
`, "F")
	if rep.count(diag.SemaTypeMismatch) != 1 {
		t.Fatalf("mismatch diagnostics = %d: %v", rep.count(diag.SemaTypeMismatch), rep.diagnostics)
	}
}

func TestUnreachableAfterReturn(t *testing.T) {
	_, _, rep := lower(t, `
class A;
function F() {
	return;
	F();
	F();
}
`, "F")
	if rep.count(diag.SemaUnreachable) != 1 {
		t.Fatalf("unreachable warnings = %d, want 1: %v", rep.count(diag.SemaUnreachable), rep.diagnostics)
	}
}

func TestCallArityAndOutArgs(t *testing.T) {
	_, _, rep := lower(t, `
class A;
function Take(int a, out int b, optional int c) {
}
function F() {
	local int x;
	Take(1, x);
	Take(1, 2);
	Take(1);
}
`, "F")
	if rep.count(diag.SemaOutArgNotLValue) != 1 {
		t.Fatalf("out-arg diagnostics = %d: %v", rep.count(diag.SemaOutArgNotLValue), rep.diagnostics)
	}
	if rep.count(diag.SemaArgCount) != 1 {
		t.Fatalf("arity diagnostics = %d: %v", rep.count(diag.SemaArgCount), rep.diagnostics)
	}
}

func TestBoolNeverConverts(t *testing.T) {
	_, _, rep := lower(t, `
class A;
function F(bool b) {
	b = 1;
}
`, "F")
	if rep.count(diag.SemaBoolConversion) != 1 {
		t.Fatalf("bool-conversion diagnostics = %d: %v", rep.count(diag.SemaBoolConversion), rep.diagnostics)
	}
	for _, d := range rep.diagnostics {
		if d.Code == diag.SemaBoolConversion {
			joined := strings.Join(d.Notes, " ")
			if !strings.Contains(joined, "x != 0") {
				t.Fatalf("notes = %v, want the explicit-compare hint", d.Notes)
			}
		}
	}
}

func TestSwitchLowersToTests(t *testing.T) {
	fn, _, rep := lower(t, `
class A;
function F(int n) {
	switch (n) {
	case 1:
		n = 10;
		break;
	case 2:
		n = 20;
	default:
		n = 30;
	}
}
`, "F")
	if rep.errorCount() != 0 {
		t.Fatalf("unexpected errors: %v", rep.diagnostics)
	}
	tests, bodies := 0, 0
	for _, l := range labels(fn) {
		switch l {
		case "case_test":
			tests++
		case "case_body":
			bodies++
		}
	}
	if tests != 2 || bodies != 3 {
		t.Fatalf("tests=%d bodies=%d: %v", tests, bodies, labels(fn))
	}
}

func TestBreakOutsideLoop(t *testing.T) {
	_, _, rep := lower(t, `
class A;
function F() {
	break;
}
`, "F")
	if rep.count(diag.SemaMisplacedControl) != 1 {
		t.Fatalf("misplaced-control diagnostics = %d: %v", rep.count(diag.SemaMisplacedControl), rep.diagnostics)
	}
}

func TestDoUntilExitsWhenTrue(t *testing.T) {
	fn, _, rep := lower(t, `
class A;
function F(int n) {
	do {
		n = n - 1;
	} until (n == 0);
}
`, "F")
	if rep.errorCount() != 0 {
		t.Fatalf("unexpected errors: %v", rep.diagnostics)
	}
	for i := range fn.Blocks {
		if fn.Blocks[i].Label == "do_cond" {
			term := fn.Blocks[i].Term
			if term.Kind != ir.TermGotoIf {
				t.Fatalf("do_cond terminator = %v", term.Kind)
			}
			if fn.Block(term.GotoIf.IfTrue).Label != "past_do" {
				t.Fatal("until must leave the loop when the condition holds")
			}
			return
		}
	}
	t.Fatalf("no do_cond block: %v", labels(fn))
}
