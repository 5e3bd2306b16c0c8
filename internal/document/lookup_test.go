package document

import (
	"testing"

	"hawk/internal/symbol"
)

func TestUsageAt_HalfOpenSpan(t *testing.T) {
	d := New("a.awk")
	d.AddUsage(symbol.Usage{Name: "foo", Type: symbol.GlobalVar, Pos: pos(0, 10)})

	cases := []struct {
		at    symbol.Position
		found bool
	}{
		{pos(0, 9), false},  // before the first character
		{pos(0, 10), true},  // first character
		{pos(0, 11), true},  // inside
		{pos(0, 12), true},  // last character
		{pos(0, 13), false}, // one past the end belongs to what follows
		{pos(1, 10), false}, // other line
	}
	for _, tc := range cases {
		u, ok := d.UsageAt(tc.at)
		if ok != tc.found {
			t.Errorf("UsageAt(%v): found=%v, want %v", tc.at, ok, tc.found)
		}
		if ok && u.Name != "foo" {
			t.Errorf("UsageAt(%v) resolved %q", tc.at, u.Name)
		}
	}
}

func TestUsageAt_ZeroLength(t *testing.T) {
	d := New("a.awk")
	d.AddUsage(symbol.Usage{Name: "", Pos: pos(2, 5)})

	if _, ok := d.UsageAt(pos(2, 5)); !ok {
		t.Error("zero-length usage must match its exact position")
	}
	if _, ok := d.UsageAt(pos(2, 6)); ok {
		t.Error("zero-length usage must not match a neighboring position")
	}
}

func TestUsageAt_PicksNearest(t *testing.T) {
	d := New("a.awk")
	d.AddUsage(symbol.Usage{Name: "aa", Pos: pos(0, 0)})
	d.AddUsage(symbol.Usage{Name: "bb", Pos: pos(0, 5)})

	u, ok := d.UsageAt(pos(0, 6))
	if !ok || u.Name != "bb" {
		t.Errorf("expected bb, got %v %v", u, ok)
	}
	if _, ok := d.UsageAt(pos(0, 3)); ok {
		t.Error("gap between usages must not resolve")
	}
}

func TestParamUsageAt(t *testing.T) {
	d := New("a.awk")
	d.ParamBoundary(symbol.CallClose, true, pos(0, 2))
	d.ParamBoundary(0, true, pos(0, 4))
	d.ParamBoundary(0, false, pos(0, 7))
	d.ParamBoundary(1, true, pos(0, 9))

	ev, ok := d.ParamUsageAt(pos(0, 5))
	if !ok || ev.Index != 0 || !ev.Start {
		t.Errorf("expected first parameter open event, got %+v %v", ev, ok)
	}

	ev, ok = d.ParamUsageAt(pos(0, 20))
	if !ok || ev.Index != 1 {
		t.Errorf("expected second parameter event, got %+v %v", ev, ok)
	}

	if _, ok := d.ParamUsageAt(pos(0, 0)); ok {
		t.Error("position before every event must not resolve")
	}
}
