package lang

import "testing"

func TestLookupBuiltin(t *testing.T) {
	if _, ok := LookupBuiltin("substr", false); !ok {
		t.Error("substr should resolve in POSIX mode")
	}
	if _, ok := LookupBuiltin("gensub", false); ok {
		t.Error("gensub must not resolve in POSIX mode")
	}
	if _, ok := LookupBuiltin("gensub", true); !ok {
		t.Error("gensub should resolve in gawk mode")
	}
	if _, ok := LookupBuiltin("no_such_fn", true); ok {
		t.Error("unknown name resolved")
	}
}

func TestBuiltinArity(t *testing.T) {
	b, _ := LookupBuiltin("sprintf", false)
	min, max := b.Arity()
	if min != 1 || max != -1 {
		t.Errorf("sprintf arity: got (%d, %d), want (1, -1)", min, max)
	}

	b, _ = LookupBuiltin("atan2", false)
	min, max = b.Arity()
	if min != 2 || max != 2 {
		t.Errorf("atan2 arity: got (%d, %d), want (2, 2)", min, max)
	}
}
