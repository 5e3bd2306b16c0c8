// # internal/document/lookup.go
package document

import (
	"sort"

	"hawk/internal/symbol"
)

// UsageAt returns the usage whose character span contains pos. A usage's
// span is half-open, [start, start+len(name)), so a cursor anywhere inside
// an identifier resolves to it while the position one past the last
// character already belongs to whatever follows. A zero-length usage
// matches only its exact position.
func (d *Document) UsageAt(pos symbol.Position) (symbol.Usage, bool) {
	i := sort.Search(len(d.usages), func(i int) bool {
		return pos.Before(d.usages[i].Pos)
	})
	if i == 0 {
		return symbol.Usage{}, false
	}
	u := d.usages[i-1]
	if len(u.Name) == 0 {
		if u.Pos == pos {
			return u, true
		}
		return symbol.Usage{}, false
	}
	if pos.Line == u.Pos.Line && pos.Col < u.Pos.Col+len(u.Name) {
		return u, true
	}
	return symbol.Usage{}, false
}

// ParamUsageAt returns the nearest parameter-usage event at or before pos,
// which tells a signature-help collaborator which call and parameter the
// cursor sits in.
func (d *Document) ParamUsageAt(pos symbol.Position) (symbol.ParameterUsage, bool) {
	i := sort.Search(len(d.paramUsages), func(i int) bool {
		return pos.Before(d.paramUsages[i].Pos)
	})
	if i == 0 {
		return symbol.ParameterUsage{}, false
	}
	return d.paramUsages[i-1], true
}

// ParameterUsages returns the position-ordered parameter event stream.
func (d *Document) ParameterUsages() []symbol.ParameterUsage { return d.paramUsages }

// Calls returns the recorded call sites in call-open order.
func (d *Document) Calls() []CallSite { return d.calls }
