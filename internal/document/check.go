// # internal/document/check.go
//
// Second-pass analysis: function existence and arity, validated against the
// transitive closure of includes plus the fixed builtin table. Analysis
// diagnostics are recomputed in full on every call and kept apart from the
// parse-phase list so either can be cleared independently.
package document

import (
	"fmt"

	"hawk/internal/lang"
	"hawk/internal/symbol"
)

// IncludeClosure returns every document reachable from d over include
// edges, excluding d itself. Cycles terminate because a visited document is
// never re-expanded.
func (d *Document) IncludeClosure() []*Document {
	visited := map[*Document]bool{d: true}
	var out []*Document
	queue := make([]*Document, 0, len(d.Includes))
	for inc := range d.Includes {
		queue = append(queue, inc)
	}
	for len(queue) > 0 {
		doc := queue[0]
		queue = queue[1:]
		if visited[doc] {
			continue
		}
		visited[doc] = true
		out = append(out, doc)
		for inc := range doc.Includes {
			queue = append(queue, inc)
		}
	}
	return out
}

// CheckFunctionCalls replays the parameter-usage stream against the
// functions visible from this document. gawk selects the builtin dialect.
// The pass is a no-op when the document recorded no calls, and always
// starts by dropping previous analysis diagnostics.
func (d *Document) CheckFunctionCalls(gawk bool) {
	prior := len(d.analysisDiags)
	d.analysisDiags = nil
	if prior > 0 {
		d.diagsDirty = true
	}
	if len(d.calls) == 0 {
		return
	}

	merged := d.mergedFunctions()
	d.flagDuplicateFunctions()

	type frame struct {
		min, max int
		count    int
		known    bool
		site     CallSite
	}
	var stack []frame
	nextCall := 0

	for _, ev := range d.paramUsages {
		switch {
		case ev.Index == symbol.CallClose && ev.Start:
			if nextCall >= len(d.calls) {
				continue
			}
			site := d.calls[nextCall]
			nextCall++
			f := frame{site: site}
			if n, ok := merged[site.Name]; ok {
				f.known = true
				f.min, f.max = n, n
			} else if b, ok := lang.LookupBuiltin(site.Name, gawk); ok {
				f.known = true
				f.min, f.max = b.Arity()
			} else {
				d.addAnalysisDiag(symbol.Diagnostic{
					Severity: symbol.SeverityError,
					Pos:      site.Pos,
					Length:   len(site.Name),
					Message:  fmt.Sprintf("function '%s' is not defined", site.Name),
				})
			}
			stack = append(stack, f)
		case ev.Index == symbol.CallClose:
			n := len(stack)
			if n == 0 {
				continue
			}
			f := stack[n-1]
			stack = stack[:n-1]
			if !f.known {
				continue
			}
			if f.count < f.min {
				d.addAnalysisDiag(symbol.Diagnostic{
					Severity: symbol.SeverityError,
					Pos:      f.site.Pos,
					Length:   len(f.site.Name),
					Message:  fmt.Sprintf("not enough arguments for '%s': got %d, expected at least %d", f.site.Name, f.count, f.min),
				})
			} else if f.max >= 0 && f.count > f.max {
				d.addAnalysisDiag(symbol.Diagnostic{
					Severity: symbol.SeverityError,
					Pos:      f.site.Pos,
					Length:   len(f.site.Name),
					Message:  fmt.Sprintf("too many arguments for '%s': got %d, expected at most %d", f.site.Name, f.count, f.max),
				})
			}
		case ev.Start:
			if n := len(stack); n > 0 && ev.Index+1 > stack[n-1].count {
				stack[n-1].count = ev.Index + 1
			}
		}
	}
}

// mergedFunctions combines this document's function-parameter map with
// every included document's, nearest declaration winning.
func (d *Document) mergedFunctions() map[string]int {
	merged := make(map[string]int, len(d.funcParams))
	for _, inc := range d.IncludeClosure() {
		for name, n := range inc.funcParams {
			merged[name] = n
		}
	}
	for name, n := range d.funcParams {
		merged[name] = n
	}
	return merged
}

// flagDuplicateFunctions reports any function declared both here and in an
// included document, on the local declaration.
func (d *Document) flagDuplicateFunctions() {
	if len(d.funcParams) == 0 {
		return
	}
	for _, inc := range d.IncludeClosure() {
		for name := range inc.funcParams {
			if _, local := d.funcParams[name]; !local {
				continue
			}
			for _, def := range d.defs[symbol.DefineFunction][name] {
				d.addAnalysisDiag(symbol.Diagnostic{
					Severity: symbol.SeverityWarning,
					Pos:      def.Start,
					Length:   len(name),
					Message:  fmt.Sprintf("function '%s' is already declared in '%s'", name, inc.URI),
				})
			}
		}
	}
}

func (d *Document) addAnalysisDiag(diag symbol.Diagnostic) {
	d.analysisDiags = append(d.analysisDiags, diag)
	d.diagsDirty = true
}
