package document

import (
	"reflect"
	"testing"

	"hawk/internal/symbol"
)

func pos(line, col int) symbol.Position {
	return symbol.Position{Line: line, Col: col}
}

func TestPathTree_Nesting(t *testing.T) {
	tr := NewPathTree()
	tr.Enter("function", pos(0, 0))
	tr.Enter("f", pos(0, 9))
	tr.Value(pos(0, 14))
	tr.Enter("block", pos(1, 4))
	tr.Leave(pos(2, 4))
	tr.Leave(pos(3, 0))
	tr.Leave(pos(3, 0))

	if tr.Len() != 3 {
		t.Fatalf("expected 3 regions, got %d", tr.Len())
	}

	got := tr.PathAt(pos(1, 6))
	want := []string{"function", "f", "block"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PathAt inside block = %v, want %v", got, want)
	}

	got = tr.PathAt(pos(2, 8))
	want = []string{"function", "f"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PathAt after block = %v, want %v", got, want)
	}

	if got := tr.PathAt(pos(5, 0)); got != nil {
		t.Errorf("PathAt outside all regions = %v, want nil", got)
	}
}

func TestPathTree_Siblings(t *testing.T) {
	tr := NewPathTree()
	tr.Enter("BEGIN", pos(0, 0))
	tr.Leave(pos(0, 20))
	tr.Enter("rule", pos(2, 0))
	tr.Leave(pos(2, 30))
	tr.Enter("END", pos(4, 0))
	tr.Leave(pos(4, 15))

	cases := []struct {
		at   symbol.Position
		want string
	}{
		{pos(0, 5), "BEGIN"},
		{pos(2, 10), "rule"},
		{pos(4, 3), "END"},
	}
	for _, tc := range cases {
		got := tr.PathAt(tc.at)
		if len(got) != 1 || got[0] != tc.want {
			t.Errorf("PathAt(%v) = %v, want [%s]", tc.at, got, tc.want)
		}
	}

	// between siblings
	if got := tr.PathAt(pos(1, 0)); got != nil {
		t.Errorf("PathAt between rules = %v, want nil", got)
	}
}

func TestPathTree_FirstEndWins(t *testing.T) {
	tr := NewPathTree()
	tr.Enter("rule", pos(0, 0))
	tr.Leave(pos(1, 0))
	// CloseAll after a normal Leave must not move the recorded end
	tr.CloseAll(pos(9, 9))

	if got := tr.PathAt(pos(5, 0)); got != nil {
		t.Errorf("region end moved by CloseAll: PathAt = %v", got)
	}
	if got := tr.PathAt(pos(0, 3)); len(got) != 1 {
		t.Errorf("region lost: PathAt = %v", got)
	}
}

func TestPathTree_OpenRegionIsUnbounded(t *testing.T) {
	tr := NewPathTree()
	tr.Enter("rule", pos(0, 0))

	// an unclosed region contains everything after its start
	if got := tr.PathAt(pos(100, 0)); len(got) != 1 || got[0] != "rule" {
		t.Errorf("open region should be open-ended, got %v", got)
	}

	tr.CloseAll(pos(200, 0))
	if got := tr.PathAt(pos(300, 0)); got != nil {
		t.Errorf("CloseAll should bound the region, got %v", got)
	}
}
