// # internal/document/document.go
//
// Document owns one file's analysis results. It implements lang.Sink, so a
// parse is wired as: clear the document, run lang.Parse with the document
// as the sink, then FinishParse. All mutation happens on the coordinator's
// single control thread; the struct itself carries no locking.
package document

import (
	"fmt"

	"hawk/internal/lang"
	"hawk/internal/symbol"
)

// Span is a text range: a start position plus a length on the start line.
type Span struct {
	Pos    symbol.Position
	Length int
}

// IncludeDirective is one "@include" occurrence recorded during a parse,
// waiting for the coordinator to resolve it.
type IncludeDirective struct {
	Path     string
	Relative bool
	Span     Span
}

// CallSite pairs a call's callee name with the position of its opening
// boundary, in call-open order.
type CallSite struct {
	Name string
	Pos  symbol.Position
}

type callFrame struct {
	name string
	pos  symbol.Position
}

type Document struct {
	URI  string
	Root bool // opened in the editor; never garbage-collected

	defs   [symbol.TypeCount]map[string][]*symbol.Definition
	usages []symbol.Usage
	paths  *PathTree

	// include edges; the *Span is shared between the includer's Includes
	// entry and the target's IncludedBy entry
	Includes   map[*Document]*Span
	IncludedBy map[*Document]*Span

	// pending directives for the coordinator, drained after each parse
	PendingIncludes []IncludeDirective

	parseDiags    []symbol.Diagnostic
	analysisDiags []symbol.Diagnostic
	parseDone     bool
	diagsDirty    bool

	callStack   []callFrame
	calls       []CallSite
	paramUsages []symbol.ParameterUsage

	funcParams     map[string]int
	prevFuncParams map[string]int
}

func New(uri string) *Document {
	d := &Document{URI: uri}
	d.reset()
	return d
}

func (d *Document) reset() {
	for i := range d.defs {
		d.defs[i] = nil
	}
	d.usages = nil
	d.paths = NewPathTree()
	if d.Includes == nil {
		d.Includes = make(map[*Document]*Span)
	}
	if d.IncludedBy == nil {
		d.IncludedBy = make(map[*Document]*Span)
	}
	d.PendingIncludes = nil
	d.parseDiags = nil
	d.analysisDiags = nil
	d.parseDone = false
	d.callStack = nil
	d.calls = nil
	d.paramUsages = nil
	d.funcParams = make(map[string]int)
}

// Clear resets all parse-derived state, first severing this document's
// outgoing include edges from the targets' included-by sets. It reports
// whether any edge was removed, and keeps the previous function-parameter
// snapshot so FinishParse can detect signature changes.
func (d *Document) Clear() bool {
	severed := false
	for target := range d.Includes {
		delete(target.IncludedBy, d)
		delete(d.Includes, target)
		severed = true
	}
	d.prevFuncParams = d.funcParams
	d.reset()
	d.diagsDirty = true
	return severed
}

// Close is Clear plus the expectation that the caller publishes an empty
// diagnostic set for this URI.
func (d *Document) Close() bool {
	severed := d.Clear()
	d.prevFuncParams = nil
	return severed
}

// FinishParse freezes the parse-phase diagnostics and reports whether any
// function's declared parameter count changed since the previous parse.
func (d *Document) FinishParse() (signaturesChanged bool) {
	d.parseDone = true
	if len(d.callStack) > 0 {
		// unbalanced boundaries from an aborted parse; drop them
		d.callStack = nil
	}
	if d.prevFuncParams == nil {
		return len(d.funcParams) > 0
	}
	if len(d.prevFuncParams) != len(d.funcParams) {
		return true
	}
	for name, n := range d.funcParams {
		if prev, ok := d.prevFuncParams[name]; !ok || prev != n {
			return true
		}
	}
	return false
}

// IsIncluded reports whether any live document includes this one.
func (d *Document) IsIncluded() bool { return len(d.IncludedBy) > 0 }

// AddInclude records an include edge to target. A repeated edge is legal
// but warned about; its range is updated to the latest occurrence.
func (d *Document) AddInclude(target *Document, span Span) {
	if existing, ok := d.Includes[target]; ok {
		d.addParseDiag(symbol.Diagnostic{
			Severity: symbol.SeverityWarning,
			Pos:      span.Pos,
			Length:   span.Length,
			Message:  fmt.Sprintf("'%s' is already included", target.URI),
		})
		*existing = span
		return
	}
	shared := &Span{Pos: span.Pos, Length: span.Length}
	d.Includes[target] = shared
	target.IncludedBy[d] = shared
}

// AddDefinition appends def to the per-type, per-name table. Redefinition
// is legal and expected.
func (d *Document) AddDefinition(name string, def *symbol.Definition) {
	t := def.Type
	if d.defs[t] == nil {
		d.defs[t] = make(map[string][]*symbol.Definition)
	}
	d.defs[t][name] = append(d.defs[t][name], def)
}

// AddUsage appends to the position-ordered usage list; callers emit in
// non-decreasing position order.
func (d *Document) AddUsage(u symbol.Usage) {
	d.usages = append(d.usages, u)
}

// IsDefined reports whether name has at least one definition of type t.
func (d *Document) IsDefined(name string, t symbol.Type) bool {
	return len(d.defs[t][name]) > 0
}

// Definitions returns the ordered definition list for (name, t).
func (d *Document) Definitions(name string, t symbol.Type) []*symbol.Definition {
	return d.defs[t][name]
}

// EachDefinition visits every definition of type t in the document.
func (d *Document) EachDefinition(t symbol.Type, fn func(*symbol.Definition)) {
	for _, list := range d.defs[t] {
		for _, def := range list {
			fn(def)
		}
	}
}

// Usages returns the position-ordered usage list.
func (d *Document) Usages() []symbol.Usage { return d.usages }

// FunctionParams returns the declared parameter count for name.
func (d *Document) FunctionParams(name string) (int, bool) {
	n, ok := d.funcParams[name]
	return n, ok
}

// Paths returns the document's position index.
func (d *Document) Paths() *PathTree { return d.paths }

// ── diagnostics ─────────────────────────────────────────────────────────────

// addParseDiag appends a parse-phase diagnostic, collapsing cascades: a
// diagnostic starting at the same position as the immediately preceding one
// is dropped.
func (d *Document) addParseDiag(diag symbol.Diagnostic) {
	if d.parseDone {
		return
	}
	if n := len(d.parseDiags); n > 0 && d.parseDiags[n-1].Pos == diag.Pos {
		return
	}
	d.parseDiags = append(d.parseDiags, diag)
	d.diagsDirty = true
}

// ReportIncludeFailure attaches a terminal include-read failure. Unlike
// grammar messages it may arrive after the parse phase is frozen, since the
// read completes asynchronously.
func (d *Document) ReportIncludeFailure(msg string, span Span) {
	d.parseDiags = append(d.parseDiags, symbol.Diagnostic{
		Severity: symbol.SeverityError,
		Pos:      span.Pos,
		Length:   span.Length,
		Message:  msg,
	})
	d.diagsDirty = true
}

// Diagnostics returns parse-phase then analysis-phase diagnostics.
func (d *Document) Diagnostics() []symbol.Diagnostic {
	out := make([]symbol.Diagnostic, 0, len(d.parseDiags)+len(d.analysisDiags))
	out = append(out, d.parseDiags...)
	out = append(out, d.analysisDiags...)
	return out
}

// DiagsDirty reports and clears the "diagnostics need re-publishing" flag.
func (d *Document) DiagsDirty() bool {
	dirty := d.diagsDirty
	d.diagsDirty = false
	return dirty
}

// MarkDiagsDirty forces the next flush to re-publish.
func (d *Document) MarkDiagsDirty() { d.diagsDirty = true }

// ── lang.Sink implementation ────────────────────────────────────────────────

// Define creates a definition owned by this document. Parameters and locals
// are additionally appended to their enclosing function's owned lists, and
// function definitions seed the parameter-count map.
func (d *Document) Define(t symbol.Type, scope *symbol.Definition, name string, pos symbol.Position, doc string) *symbol.Definition {
	def := &symbol.Definition{
		URI:   d.URI,
		Start: pos,
		Type:  t,
		Doc:   doc,
		Scope: scope,
		Name:  name,
	}
	switch t {
	case symbol.DefineFunction:
		if _, dup := d.funcParams[name]; !dup {
			d.funcParams[name] = 0
		}
	case symbol.DefineParam:
		if scope != nil {
			scope.Params = append(scope.Params, def)
			d.funcParams[scope.Name] = len(scope.Params)
		}
	case symbol.DefineLocalVar:
		if scope != nil {
			scope.Locals = append(scope.Locals, def)
		}
	}
	d.AddDefinition(name, def)
	return def
}

// Use records a usage. A global variable's first encountered use
// synthesizes an implicit definition so the name counts as defined without
// a navigable declaration site.
func (d *Document) Use(t symbol.Type, scope *symbol.Definition, name string, pos symbol.Position) {
	d.AddUsage(symbol.Usage{Name: name, Type: t, Pos: pos})
	if t == symbol.GlobalVar && !d.IsDefined(name, symbol.DefineGlobalVar) {
		implicit := &symbol.Definition{
			URI:      d.URI,
			Start:    pos,
			Type:     symbol.DefineGlobalVar,
			Name:     name,
			Implicit: true,
		}
		d.AddDefinition(name, implicit)
	}
}

func (d *Document) Message(sev symbol.Severity, msg string, pos symbol.Position, length int) {
	d.addParseDiag(symbol.Diagnostic{Severity: sev, Pos: pos, Length: length, Message: msg})
}

func (d *Document) Include(path string, relative bool, pos symbol.Position, length int) {
	d.PendingIncludes = append(d.PendingIncludes, IncludeDirective{
		Path:     path,
		Relative: relative,
		Span:     Span{Pos: pos, Length: length},
	})
}

// CallBoundary consumes the grammar's call-boundary events, keeping a stack
// of in-flight calls so nesting works. The opening boundary captures the
// callee from the most recent function usage. The closing boundary only
// unwinds the stack; the closing parenthesis already appears in the
// parameter stream as a CallClose parameter event, and recording it twice
// would unbalance replays.
func (d *Document) CallBoundary(start bool, pos symbol.Position) {
	if start {
		name := ""
		for i := len(d.usages) - 1; i >= 0; i-- {
			if d.usages[i].Type == symbol.Function {
				name = d.usages[i].Name
				break
			}
		}
		d.callStack = append(d.callStack, callFrame{name: name, pos: pos})
		d.calls = append(d.calls, CallSite{Name: name, Pos: pos})
		d.paramUsages = append(d.paramUsages, symbol.ParameterUsage{Index: symbol.CallClose, Start: true, Pos: pos})
		return
	}
	if n := len(d.callStack); n > 0 {
		d.callStack = d.callStack[:n-1]
	}
}

func (d *Document) ParamBoundary(index int, start bool, pos symbol.Position) {
	d.paramUsages = append(d.paramUsages, symbol.ParameterUsage{Index: index, Start: start, Pos: pos})
}

func (d *Document) EnterRegion(seg string, pos symbol.Position) { d.paths.Enter(seg, pos) }
func (d *Document) RegionValue(pos symbol.Position)             { d.paths.Value(pos) }
func (d *Document) LeaveRegion(pos symbol.Position)             { d.paths.Leave(pos) }

var _ lang.Sink = (*Document)(nil)
