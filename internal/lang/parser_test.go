package lang

import (
	"strings"
	"testing"

	"hawk/internal/symbol"
)

// recordSink captures the full event stream for assertions.
type recordSink struct {
	defines    []*symbol.Definition
	uses       []symbol.Usage
	diags      []symbol.Diagnostic
	includes   []string
	callEvents []symbol.ParameterUsage
	regions    []string
}

func (s *recordSink) Define(t symbol.Type, scope *symbol.Definition, name string, pos symbol.Position, doc string) *symbol.Definition {
	def := &symbol.Definition{Type: t, Scope: scope, Name: name, Start: pos, Doc: doc}
	s.defines = append(s.defines, def)
	return def
}

func (s *recordSink) Use(t symbol.Type, scope *symbol.Definition, name string, pos symbol.Position) {
	s.uses = append(s.uses, symbol.Usage{Name: name, Type: t, Pos: pos})
}

func (s *recordSink) Message(sev symbol.Severity, msg string, pos symbol.Position, length int) {
	s.diags = append(s.diags, symbol.Diagnostic{Severity: sev, Pos: pos, Length: length, Message: msg})
}

func (s *recordSink) Include(path string, relative bool, pos symbol.Position, length int) {
	s.includes = append(s.includes, path)
}

func (s *recordSink) CallBoundary(start bool, pos symbol.Position) {
	s.callEvents = append(s.callEvents, symbol.ParameterUsage{Index: symbol.CallClose, Start: start, Pos: pos})
}

func (s *recordSink) ParamBoundary(index int, start bool, pos symbol.Position) {
	s.callEvents = append(s.callEvents, symbol.ParameterUsage{Index: index, Start: start, Pos: pos})
}

func (s *recordSink) EnterRegion(seg string, pos symbol.Position) {
	s.regions = append(s.regions, "+"+seg)
}

func (s *recordSink) RegionValue(pos symbol.Position) {}

func (s *recordSink) LeaveRegion(pos symbol.Position) {
	s.regions = append(s.regions, "-")
}

func parseInto(src string, opts Options) *recordSink {
	sink := &recordSink{}
	Parse(src, opts, sink)
	return sink
}

func (s *recordSink) definitionsOf(t symbol.Type) []*symbol.Definition {
	var out []*symbol.Definition
	for _, d := range s.defines {
		if d.Type == t {
			out = append(out, d)
		}
	}
	return out
}

func (s *recordSink) diagContaining(substr string) (symbol.Diagnostic, bool) {
	for _, d := range s.diags {
		if strings.Contains(d.Message, substr) {
			return d, true
		}
	}
	return symbol.Diagnostic{}, false
}

func TestParse_FunctionDefinition(t *testing.T) {
	sink := parseInto("## joins two fields\nfunction join(a, b) { return a b }", Options{Gawk: true})

	fns := sink.definitionsOf(symbol.DefineFunction)
	if len(fns) != 1 {
		t.Fatalf("expected 1 function definition, got %d", len(fns))
	}
	if fns[0].Name != "join" {
		t.Errorf("expected function 'join', got %q", fns[0].Name)
	}
	if fns[0].Doc != "joins two fields" {
		t.Errorf("expected doc comment, got %q", fns[0].Doc)
	}

	params := sink.definitionsOf(symbol.DefineParam)
	if len(params) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(params))
	}
	for _, p := range params {
		if p.Scope != fns[0] {
			t.Errorf("parameter %q not scoped to its function", p.Name)
		}
	}
}

func TestParse_ParamLocalSplit(t *testing.T) {
	// two spaces before "tmp" shift it and everything after into locals
	sink := parseInto("function f(a, b,  tmp, i) { return a }", Options{Gawk: true})

	params := sink.definitionsOf(symbol.DefineParam)
	locals := sink.definitionsOf(symbol.DefineLocalVar)
	if len(params) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(params))
	}
	if len(locals) != 2 {
		t.Fatalf("expected 2 locals, got %d", len(locals))
	}
	if params[0].Name != "a" || params[1].Name != "b" {
		t.Errorf("unexpected parameters: %q %q", params[0].Name, params[1].Name)
	}
	if locals[0].Name != "tmp" || locals[1].Name != "i" {
		t.Errorf("unexpected locals: %q %q", locals[0].Name, locals[1].Name)
	}
}

func TestParse_ParamSplitOnNewline(t *testing.T) {
	sink := parseInto("function f(a,\n    tmp) { return a }", Options{Gawk: true})

	if n := len(sink.definitionsOf(symbol.DefineParam)); n != 1 {
		t.Errorf("expected 1 parameter, got %d", n)
	}
	if n := len(sink.definitionsOf(symbol.DefineLocalVar)); n != 1 {
		t.Errorf("expected 1 local, got %d", n)
	}
}

func TestParse_FirstParamCanShift(t *testing.T) {
	// the split applies to every parameter, including the first
	sink := parseInto("function f(  tmp) { return tmp }", Options{Gawk: true})

	if n := len(sink.definitionsOf(symbol.DefineParam)); n != 0 {
		t.Errorf("expected 0 parameters, got %d", n)
	}
	if n := len(sink.definitionsOf(symbol.DefineLocalVar)); n != 1 {
		t.Errorf("expected 1 local, got %d", n)
	}
}

func TestParse_UsageClassification(t *testing.T) {
	sink := parseInto("function f(a,  loc) { return a loc other }", Options{Gawk: true})

	byName := map[string]symbol.Type{}
	for _, u := range sink.uses {
		byName[u.Name] = u.Type
	}
	if byName["a"] != symbol.Param {
		t.Errorf("expected 'a' to be a parameter usage, got %v", byName["a"])
	}
	if byName["loc"] != symbol.LocalVar {
		t.Errorf("expected 'loc' to be a local usage, got %v", byName["loc"])
	}
	if byName["other"] != symbol.GlobalVar {
		t.Errorf("expected 'other' to be a global usage, got %v", byName["other"])
	}
}

func TestParse_CallBoundaries(t *testing.T) {
	sink := parseInto("BEGIN { f(1, x) }", Options{Gawk: true})

	if len(sink.uses) == 0 || sink.uses[0].Name != "f" || sink.uses[0].Type != symbol.Function {
		t.Fatalf("expected function usage 'f' first, got %+v", sink.uses)
	}

	var indexes []int
	for _, ev := range sink.callEvents {
		if ev.Start && ev.Index >= 0 {
			indexes = append(indexes, ev.Index)
		}
	}
	if len(indexes) != 2 || indexes[0] != 0 || indexes[1] != 1 {
		t.Errorf("expected parameter indexes [0 1], got %v", indexes)
	}

	first := sink.callEvents[0]
	last := sink.callEvents[len(sink.callEvents)-1]
	if !(first.Index == symbol.CallClose && first.Start) {
		t.Errorf("expected opening call boundary first, got %+v", first)
	}
	if !(last.Index == symbol.CallClose && !last.Start) {
		t.Errorf("expected closing call boundary last, got %+v", last)
	}
}

func TestParse_ZeroArgCall(t *testing.T) {
	sink := parseInto("BEGIN { f() }", Options{Gawk: true})

	var opens, closes int
	for _, ev := range sink.callEvents {
		if ev.Index == symbol.CallClose {
			if ev.Start {
				opens++
			} else {
				closes++
			}
		}
	}
	if opens != 1 {
		t.Errorf("expected 1 call open, got %d", opens)
	}
	// paren close plus call close
	if closes != 2 {
		t.Errorf("expected 2 closing events, got %d", closes)
	}
}

func TestParse_IncludeDirective(t *testing.T) {
	sink := parseInto("@include \"lib/util\"\nBEGIN { print }", Options{Gawk: true})
	if len(sink.includes) != 1 || sink.includes[0] != "lib/util" {
		t.Fatalf("expected include lib/util, got %v", sink.includes)
	}

	sink = parseInto("@include \"lib\"", Options{Gawk: false, CompatWarnings: true})
	if _, ok := sink.diagContaining("gawk extension"); !ok {
		t.Error("expected compat warning for @include in POSIX mode")
	}
}

func TestParse_CompatWarnings(t *testing.T) {
	posix := Options{Gawk: false, CompatWarnings: true}

	cases := []string{
		"BEGIN { switch (x) { case 1: break } }",
		"BEGIN { s = gensub(/a/, \"b\", \"g\") }",
		"BEGIN { print \"x\" |& \"cmd\" }",
	}
	for _, src := range cases {
		sink := parseInto(src, posix)
		if _, ok := sink.diagContaining("gawk extension"); !ok {
			t.Errorf("expected compat warning for %q", src)
		}
	}

	// the same constructs pass silently in gawk mode
	for _, src := range cases {
		sink := parseInto(src, Options{Gawk: true, CompatWarnings: true})
		if d, ok := sink.diagContaining("gawk extension"); ok {
			t.Errorf("unexpected compat warning in gawk mode for %q: %s", src, d.Message)
		}
	}
}

func TestParse_ShebangForcesGawk(t *testing.T) {
	src := "#!/usr/bin/gawk -f\nBEGIN { switch (x) { default: break } }"
	sink := parseInto(src, Options{Gawk: false, CompatWarnings: true})
	if d, ok := sink.diagContaining("gawk extension"); ok {
		t.Errorf("shebang should force gawk mode, got %s", d.Message)
	}
}

func TestParse_MissingSemicolon(t *testing.T) {
	src := "BEGIN {\n\tx = 1\n\ty = 2;\n}"

	sink := parseInto(src, Options{Gawk: false, SemicolonWarnings: true})
	d, ok := sink.diagContaining("without ';'")
	if !ok {
		t.Fatal("expected missing-semicolon diagnostic in strict mode")
	}
	if d.Severity != symbol.SeverityError {
		t.Errorf("strict mode should report an error, got %v", d.Severity)
	}

	sink = parseInto(src, Options{Gawk: true, SemicolonWarnings: true})
	d, ok = sink.diagContaining("without ';'")
	if !ok {
		t.Fatal("expected missing-semicolon diagnostic in gawk mode")
	}
	if d.Severity != symbol.SeverityWarning {
		t.Errorf("gawk mode should report a warning, got %v", d.Severity)
	}

	sink = parseInto(src, Options{Gawk: false, SemicolonWarnings: false})
	if _, ok := sink.diagContaining("without ';'"); ok {
		t.Error("toggle off should suppress missing-semicolon diagnostics")
	}
}

func TestParse_ForMembership(t *testing.T) {
	sink := parseInto("BEGIN { for (k in arr) print k }", Options{Gawk: true})
	if len(sink.diags) != 0 {
		t.Errorf("for-in loop should parse cleanly, got %v", sink.diags)
	}

	sink = parseInto("BEGIN { for (i = 0; i < 3; i++) print i }", Options{Gawk: true})
	if len(sink.diags) != 0 {
		t.Errorf("three-clause for should parse cleanly, got %v", sink.diags)
	}

	// membership where an init clause is required
	sink = parseInto("BEGIN { for (k in arr; k < 3; k++) print k }", Options{Gawk: true})
	if _, ok := sink.diagContaining("membership test"); !ok {
		t.Error("expected membership-in-three-clause-for diagnostic")
	}

	// non-membership expression before ')'
	sink = parseInto("BEGIN { for (x) print }", Options{Gawk: true})
	if _, ok := sink.diagContaining("variable in array"); !ok {
		t.Error("expected for-clause diagnostic for bare expression")
	}
}

func TestParse_PrintRedirect(t *testing.T) {
	sink := parseInto("BEGIN { print x > \"out.txt\"; print a, b }", Options{Gawk: true})
	if len(sink.diags) != 0 {
		t.Errorf("print with redirect should parse cleanly, got %v", sink.diags)
	}

	sink = parseInto("BEGIN { printf }", Options{Gawk: true})
	if _, ok := sink.diagContaining("format argument"); !ok {
		t.Error("expected diagnostic for printf without arguments")
	}
}

func TestParse_Concatenation(t *testing.T) {
	sink := parseInto("BEGIN { s = \"a\" x 3 $1 }", Options{Gawk: true})
	if len(sink.diags) != 0 {
		t.Errorf("concatenation by juxtaposition should parse cleanly, got %v", sink.diags)
	}
}

func TestParse_BuiltinShadow(t *testing.T) {
	sink := parseInto("function length(s) { return 1 }", Options{Gawk: false, CompatWarnings: true})
	if _, ok := sink.diagContaining("shadows a built-in"); !ok {
		t.Error("expected builtin-shadow warning")
	}
}

func TestParse_IndirectCall(t *testing.T) {
	sink := parseInto("BEGIN { @fname(1, 2) }", Options{Gawk: false, CompatWarnings: true})
	if _, ok := sink.diagContaining("indirect function calls"); !ok {
		t.Error("expected compat warning for indirect call in POSIX mode")
	}

	// the target is a variable usage, never a call boundary
	sink = parseInto("BEGIN { @fname(1) }", Options{Gawk: true})
	for _, ev := range sink.callEvents {
		if ev.Index == symbol.CallClose && ev.Start {
			t.Fatal("indirect call must not open a call boundary")
		}
	}
}

func TestParse_ErrorRecovery(t *testing.T) {
	// the bad rule reports once; the next function still parses
	sink := parseInto("BEGIN { x = }\nfunction ok(a) { return a }", Options{Gawk: true})
	if len(sink.diags) == 0 {
		t.Fatal("expected a syntax diagnostic")
	}
	fns := sink.definitionsOf(symbol.DefineFunction)
	if len(fns) != 1 || fns[0].Name != "ok" {
		t.Errorf("parser did not recover to the following function: %+v", fns)
	}
}

func TestParse_DuplicateParam(t *testing.T) {
	sink := parseInto("function f(a, a) { return a }", Options{Gawk: true})
	if _, ok := sink.diagContaining("duplicate parameter"); !ok {
		t.Error("expected duplicate-parameter warning")
	}
}

func TestParse_Regions(t *testing.T) {
	sink := parseInto("BEGIN { print }\nfunction f() { { print } }", Options{Gawk: true})
	joined := strings.Join(sink.regions, " ")
	want := "+BEGIN - +function +f +block - - -"
	if joined != want {
		t.Errorf("region stream mismatch:\n got %q\nwant %q", joined, want)
	}
}

func TestParse_NeverPanics(t *testing.T) {
	srcs := []string{
		"function",
		"function (",
		"@",
		"@include",
		"BEGIN { f( }",
		"{ x = ((((( }",
		"END",
	}
	for _, src := range srcs {
		sink := parseInto(src, Options{Gawk: true})
		if len(sink.diags) == 0 {
			t.Errorf("expected diagnostics for %q", src)
		}
	}
}
