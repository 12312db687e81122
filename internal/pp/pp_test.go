package pp_test

import (
	"testing"

	"muscript/internal/diag"
	"muscript/internal/lexer"
	"muscript/internal/pp"
	"muscript/internal/source"
	"muscript/internal/token"
)

type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(d diag.Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
}

func (r *testReporter) codes() []diag.Code {
	out := make([]diag.Code, len(r.diagnostics))
	for i, d := range r.diagnostics {
		out[i] = d.Code
	}
	return out
}

// expand прогоняет вход через лексер и препроцессор, возвращая итоговые токены
func expand(t *testing.T, input string, include pp.IncludeFunc) (*token.Arena, []token.ID, *testReporter) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.uc", []byte(input))
	arena := token.NewArena()
	rep := &testReporter{}

	span := lexer.Tokenize(fs.Get(id), arena, lexer.Options{Reporter: rep})
	if len(rep.diagnostics) != 0 {
		t.Fatalf("lex errors: %v", rep.diagnostics)
	}

	p := pp.New(fs, arena, pp.NewMacros(), rep, include)
	out := p.Expand(span)
	return arena, out, rep
}

// texts returns the significant token texts: comments and the trailing EOF
// are dropped so tests compare only what the parser would see.
func texts(arena *token.Arena, ids []token.ID) []string {
	var out []string
	for _, id := range ids {
		tok := arena.Get(id)
		if tok.Kind == token.EOF || tok.Channel == token.ChannelComment {
			continue
		}
		out = append(out, tok.Text)
	}
	return out
}

func wantTexts(t *testing.T, arena *token.Arena, ids []token.ID, want ...string) {
	t.Helper()
	got := texts(arena, ids)
	if len(got) != len(want) {
		t.Fatalf("tokens = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tokens = %v, want %v", got, want)
		}
	}
}

func TestDefineAndExpand(t *testing.T) {
	arena, out, rep := expand(t, "`define GREET hello world\nvar `GREET;", nil)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.diagnostics)
	}
	wantTexts(t, arena, out, "var", "hello", "world", ";")

	// расширенные токены — копии на macro-канале со спаном вызова
	expanded := arena.Get(out[1])
	if expanded.Channel != token.ChannelMacro {
		t.Errorf("channel = %v, want ChannelMacro", expanded.Channel)
	}
	inv := expanded.Span
	if arena.Get(out[2]).Span != inv {
		t.Error("all tokens of one expansion should share the invocation span")
	}
	if arena.Get(out[0]).Channel != token.ChannelCode {
		t.Error("tokens outside expansions stay on the code channel")
	}
}

func TestParameterizedMacro(t *testing.T) {
	arena, out, rep := expand(t, "`define MAX(a,b) ((a) > (b) ? (a) : (b))\nx = `MAX(1 + 2, y);", nil)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.diagnostics)
	}
	wantTexts(t, arena, out,
		"x", "=",
		"(", "(", "1", "+", "2", ")", ">", "(", "y", ")", "?", "(", "1", "+", "2", ")", ":", "(", "y", ")", ")",
		";")
}

func TestNestedExpansion(t *testing.T) {
	arena, out, rep := expand(t, "`define INNER 42\n`define OUTER `INNER + 1\nx = `OUTER;", nil)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.diagnostics)
	}
	wantTexts(t, arena, out, "x", "=", "42", "+", "1", ";")
}

func TestMacroArgCountMismatch(t *testing.T) {
	_, _, rep := expand(t, "`define PAIR(a,b) a b\n`PAIR(1)", nil)
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.PpMacroArgCount {
		t.Fatalf("want one PpMacroArgCount, got %v", rep.codes())
	}
}

func TestRecursiveMacro(t *testing.T) {
	_, _, rep := expand(t, "`define LOOP `LOOP\n`LOOP", nil)
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.PpRecursiveMacro {
		t.Fatalf("want one PpRecursiveMacro, got %v", rep.codes())
	}
}

func TestMutuallyRecursiveMacros(t *testing.T) {
	_, _, rep := expand(t, "`define A `B\n`define B `A\n`A", nil)
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.PpRecursiveMacro {
		t.Fatalf("want one PpRecursiveMacro, got %v", rep.codes())
	}
}

func TestUndefinedMacro(t *testing.T) {
	_, _, rep := expand(t, "`NOPE", nil)
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.PpUndefinedMacro {
		t.Fatalf("want one PpUndefinedMacro, got %v", rep.codes())
	}
}

func TestUndef(t *testing.T) {
	_, _, rep := expand(t, "`define X 1\n`undef X\n`X", nil)
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.PpUndefinedMacro {
		t.Fatalf("want one PpUndefinedMacro after `undef, got %v", rep.codes())
	}
}

func TestConditionals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			"isdefined taken",
			"`define DBG 1\n`if(`isdefined(DBG))\nyes\n`else\nno\n`endif",
			[]string{"yes"},
		},
		{
			"isdefined not taken",
			"`if(`isdefined(DBG))\nyes\n`else\nno\n`endif",
			[]string{"no"},
		},
		{
			"notdefined",
			"`if(`notdefined(DBG))\nyes\n`endif",
			[]string{"yes"},
		},
		{
			"bare name",
			"`define ON 1\n`if(ON)\nyes\n`endif",
			[]string{"yes"},
		},
		{
			"integer zero",
			"`if(0)\nyes\n`else\nno\n`endif",
			[]string{"no"},
		},
		{
			"nested",
			"`define A 1\n`if(A)\n`if(`isdefined(B))\nx\n`else\ny\n`endif\n`endif",
			[]string{"y"},
		},
		{
			"define inside inactive branch ignored",
			"`if(0)\n`define HIDDEN 1\n`endif\n`if(`isdefined(HIDDEN))\nbad\n`else\ngood\n`endif",
			[]string{"good"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arena, out, rep := expand(t, tt.input, nil)
			if len(rep.diagnostics) != 0 {
				t.Fatalf("unexpected diagnostics: %v", rep.diagnostics)
			}
			wantTexts(t, arena, out, tt.want...)
		})
	}
}

func TestMissingEndif(t *testing.T) {
	_, _, rep := expand(t, "`if(1)\nbody", nil)
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.PpMissingEndIf {
		t.Fatalf("want one PpMissingEndIf, got %v", rep.codes())
	}
}

func TestUnbalancedElse(t *testing.T) {
	_, _, rep := expand(t, "`else", nil)
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.PpUnbalancedIf {
		t.Fatalf("want one PpUnbalancedIf, got %v", rep.codes())
	}
}

func TestBadCondition(t *testing.T) {
	_, _, rep := expand(t, "`if(+)\n`endif", nil)
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.PpBadCondition {
		t.Fatalf("want one PpBadCondition, got %v", rep.codes())
	}
}

func TestInclude(t *testing.T) {
	fs := source.NewFileSet()
	arena := token.NewArena()
	rep := &testReporter{}

	incID := fs.AddVirtual("Globals.uci", []byte("`define RADIANS 57"))
	incSpan := lexer.Tokenize(fs.Get(incID), arena, lexer.Options{Reporter: rep})

	include := func(path string) (token.Span, bool) {
		if path == "Globals.uci" {
			return incSpan, true
		}
		return token.Span{}, false
	}

	mainID := fs.AddVirtual("A.uc", []byte("`include(Globals.uci)\nx = `RADIANS;"))
	mainSpan := lexer.Tokenize(fs.Get(mainID), arena, lexer.Options{Reporter: rep})

	p := pp.New(fs, arena, pp.NewMacros(), rep, include)
	out := p.Expand(mainSpan)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.diagnostics)
	}
	wantTexts(t, arena, out, "x", "=", "57", ";")
}

func TestIncludeFailed(t *testing.T) {
	include := func(path string) (token.Span, bool) { return token.Span{}, false }
	_, _, rep := expand(t, "`include(Missing.uci)", include)
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.PpIncludeFailed {
		t.Fatalf("want one PpIncludeFailed, got %v", rep.codes())
	}
}
