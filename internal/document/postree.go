// # internal/document/postree.go
//
// PathTree records the start/end positions of nested structural regions
// (rules, functions, blocks) keyed by an attribute path. Nodes live in an
// arena and reference each other by index, so the tree owns no pointers;
// children stay in creation order, which is text order, so every level can
// be binary searched.
package document

import (
	"sort"

	"hawk/internal/symbol"
)

type pathNode struct {
	Seg        string
	Start      symbol.Position
	ValueStart symbol.Position
	End        symbol.Position
	hasValue   bool
	hasEnd     bool
	children   []int
}

type PathTree struct {
	nodes []pathNode
	roots []int
	open  []int // stack of node indices still being built
}

func NewPathTree() *PathTree {
	return &PathTree{}
}

// Enter opens a region named seg starting at pos, nested under the
// innermost open region.
func (t *PathTree) Enter(seg string, pos symbol.Position) {
	idx := len(t.nodes)
	t.nodes = append(t.nodes, pathNode{Seg: seg, Start: pos})
	if n := len(t.open); n > 0 {
		parent := t.open[n-1]
		t.nodes[parent].children = append(t.nodes[parent].children, idx)
	} else {
		t.roots = append(t.roots, idx)
	}
	t.open = append(t.open, idx)
}

// Value marks where the innermost open region's embedded content starts.
func (t *PathTree) Value(pos symbol.Position) {
	if n := len(t.open); n > 0 {
		node := &t.nodes[t.open[n-1]]
		if !node.hasValue {
			node.ValueStart = pos
			node.hasValue = true
		}
	}
}

// SetEnd records a region's end position. Only the first assignment is
// honored; a later write succeeds only while the end is still unset.
func (t *PathTree) setEnd(idx int, pos symbol.Position) {
	node := &t.nodes[idx]
	if !node.hasEnd {
		node.End = pos
		node.hasEnd = true
	}
}

// Leave closes the innermost open region, filling its end position if the
// grammar never set one.
func (t *PathTree) Leave(pos symbol.Position) {
	n := len(t.open)
	if n == 0 {
		return
	}
	t.setEnd(t.open[n-1], pos)
	t.open = t.open[:n-1]
}

// CloseAll force-closes any regions left open by an aborted parse.
func (t *PathTree) CloseAll(pos symbol.Position) {
	for len(t.open) > 0 {
		t.Leave(pos)
	}
}

// PathAt returns the attribute path enclosing pos, outermost segment
// first, or nil when pos lies outside every region. Each level is resolved
// by binary search over the creation-ordered children.
func (t *PathTree) PathAt(pos symbol.Position) []string {
	var path []string
	level := t.roots
	for len(level) > 0 {
		idx, ok := t.findAt(level, pos)
		if !ok {
			break
		}
		path = append(path, t.nodes[idx].Seg)
		level = t.nodes[idx].children
	}
	return path
}

// findAt picks the last node in level starting at or before pos that still
// contains pos.
func (t *PathTree) findAt(level []int, pos symbol.Position) (int, bool) {
	i := sort.Search(len(level), func(i int) bool {
		return pos.Before(t.nodes[level[i]].Start)
	})
	if i == 0 {
		return 0, false
	}
	idx := level[i-1]
	node := t.nodes[idx]
	if node.hasEnd && node.End.Before(pos) {
		return 0, false
	}
	return idx, true
}

// Len returns the number of recorded regions.
func (t *PathTree) Len() int { return len(t.nodes) }
