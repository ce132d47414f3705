package accountant

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func boolItems(names ...string) []Item {
	out := make([]Item, 0, len(names))
	for _, n := range names {
		out = append(out, Item{Name: n, Kind: KindBool, Default: Bool(false)})
	}
	return out
}

func bools(kv map[string]bool) map[string]Value {
	out := map[string]Value{}
	for k, v := range kv {
		out[k] = Bool(v)
	}
	return out
}

func TestResolveOptions_AllSemantics(t *testing.T) {
	declared := boolItems("all", "x", "y")
	cases := []struct {
		name string
		raw  map[string]bool
		want map[string]any
	}{
		{
			name: "nothing true forces all",
			raw:  map[string]bool{"all": false, "x": false, "y": false},
			want: map[string]any{"all": true, "x": true, "y": true},
		},
		{
			name: "specific flag kept",
			raw:  map[string]bool{"all": false, "x": true, "y": false},
			want: map[string]any{"all": false, "x": true, "y": false},
		},
		{
			name: "explicit all",
			raw:  map[string]bool{"all": true, "x": false, "y": false},
			want: map[string]any{"all": true, "x": true, "y": true},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveOptions(declared, bools(tc.raw))
			if diff := cmp.Diff(tc.want, got.Plain()); diff != "" {
				t.Fatalf("resolved mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveOptions_NoAllKeyLeavesValues(t *testing.T) {
	declared := boolItems("x", "y")
	got := ResolveOptions(declared, bools(map[string]bool{"x": false, "y": false}))
	want := map[string]any{"x": false, "y": false}
	if diff := cmp.Diff(want, got.Plain()); diff != "" {
		t.Fatalf("resolved mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveOptions_KeySetMatchesDeclared(t *testing.T) {
	declared := append(boolItems("all", "cache"), Item{Name: "env", Kind: KindString, Default: String("local")})
	raw := map[string]Value{
		"cache":   Bool(true),
		"verbose": Bool(true),
		"quiet":   Bool(false),
	}
	got := ResolveOptions(declared, raw)
	want := map[string]any{"all": false, "cache": true, "env": "local"}
	if diff := cmp.Diff(want, got.Plain()); diff != "" {
		t.Fatalf("resolved mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveOptions_AllLeavesStringOptions(t *testing.T) {
	declared := append(boolItems("all", "cache"), Item{Name: "env", Kind: KindString})
	got := ResolveOptions(declared, map[string]Value{"env": String("testing")})
	want := map[string]any{"all": true, "cache": true, "env": "testing"}
	if diff := cmp.Diff(want, got.Plain()); diff != "" {
		t.Fatalf("resolved mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveOptions_Idempotent(t *testing.T) {
	declared := boolItems("all", "x", "y")
	raw := bools(map[string]bool{"x": true})
	first := ResolveOptions(declared, raw)
	second := ResolveOptions(declared, raw)
	if diff := cmp.Diff(first.Plain(), second.Plain()); diff != "" {
		t.Fatalf("not idempotent (-first +second):\n%s", diff)
	}
	if !raw["x"].IsTrue() || len(raw) != 1 {
		t.Fatalf("raw input mutated: %v", raw)
	}
}

func TestResolveArguments_NoAllSemantics(t *testing.T) {
	declared := []Item{{Name: "all", Kind: KindBool, Default: Bool(false)}, {Name: "delete", Kind: KindString, Optional: true}}
	got := ResolveArguments(declared, map[string]Value{"all": Bool(false)})
	want := map[string]any{"all": false, "delete": nil}
	if diff := cmp.Diff(want, got.Plain()); diff != "" {
		t.Fatalf("resolved mismatch (-want +got):\n%s", diff)
	}
}

func TestCountOptionUnits(t *testing.T) {
	cases := []struct {
		name     string
		resolved map[string]bool
		defaults map[string]bool
		want     int
	}{
		{
			name:     "only changed options",
			resolved: map[string]bool{"cache": true, "route": false, "bootstrap": false},
			defaults: map[string]bool{"cache": false, "route": false, "bootstrap": false},
			want:     1,
		},
		{
			name:     "all true excludes all",
			resolved: map[string]bool{"all": true, "cache": true, "route": true},
			defaults: map[string]bool{"all": true, "cache": true, "route": true},
			want:     2,
		},
		{
			name:     "nothing true counts everything",
			resolved: map[string]bool{"cache": false, "route": false},
			defaults: map[string]bool{"cache": false, "route": false},
			want:     2,
		},
		{
			name:     "all false with specific flags",
			resolved: map[string]bool{"all": false, "cache": true, "route": true, "bootstrap": false},
			defaults: map[string]bool{"all": false, "cache": false, "route": false, "bootstrap": false},
			want:     2,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CountOptionUnits(ResolvedSet(bools(tc.resolved)), ResolvedSet(bools(tc.defaults)))
			if got != tc.want {
				t.Fatalf("units: want %d got %d", tc.want, got)
			}
		})
	}
}

func TestCountArgumentUnits(t *testing.T) {
	defaults := ResolvedSet{"delete": Null(), "path": String("storage")}
	if got := CountArgumentUnits(defaults.Clone(), defaults); got != 0 {
		t.Fatalf("untouched arguments: want 0 got %d", got)
	}
	resolved := ResolvedSet{"delete": String("delete"), "path": String("storage")}
	if got := CountArgumentUnits(resolved, defaults); got != 1 {
		t.Fatalf("one supplied argument: want 1 got %d", got)
	}
}

type recordingStepper struct{ max []int }

func (r *recordingStepper) SetMaxSteps(n int) { r.max = append(r.max, n) }

func TestAccountant_AdjustPropagates(t *testing.T) {
	sig := Signature{Name: "clear", Options: boolItems("a", "b", "c", "d", "e")}
	a := New(sig, nil, nil)
	if a.Units() != 5 {
		t.Fatalf("initial units: want 5 got %d", a.Units())
	}
	st := &recordingStepper{}
	a.Bind(st)
	a.Adjust(-1)
	a.Adjust(-1)
	if a.Units() != 3 {
		t.Fatalf("units after adjust: want 3 got %d", a.Units())
	}
	if diff := cmp.Diff([]int{4, 3}, st.max); diff != "" {
		t.Fatalf("propagated max steps (-want +got):\n%s", diff)
	}
}

func TestAccountant_OptionsAndArgumentsSum(t *testing.T) {
	sig := Signature{
		Name:      "clear",
		Options:   boolItems("cache", "log", "all"),
		Arguments: []Item{{Name: "delete", Kind: KindString, Optional: true}},
	}
	a := New(sig, bools(map[string]bool{"cache": true}), map[string]Value{"delete": String("delete")})
	if a.Units() != 2 {
		t.Fatalf("units: want 2 got %d", a.Units())
	}
	a.Override(7)
	if a.Units() != 7 {
		t.Fatalf("override: want 7 got %d", a.Units())
	}
	a.Recount()
	if a.Units() != 2 {
		t.Fatalf("recount: want 2 got %d", a.Units())
	}
}

func TestAccountant_Lookups(t *testing.T) {
	sig := Signature{
		Name:      "clear",
		Options:   boolItems("cache", "all"),
		Arguments: []Item{{Name: "delete", Kind: KindString, Optional: true}},
	}
	a := New(sig, bools(map[string]bool{"cache": true}), nil)
	if !a.Enabled("cache") || a.Enabled("all") {
		t.Fatalf("unexpected enabled state: %v", a.Options())
	}
	if got := a.Option("missing", String("fallback")); got != String("fallback") {
		t.Fatalf("missing option fallback: %v", got)
	}
	if got := a.Argument("missing", Null()); !got.IsNull() {
		t.Fatalf("missing argument fallback: %v", got)
	}
	if a.Supplied("delete") {
		t.Fatalf("delete should not be supplied")
	}
	opts := a.Options()
	opts["cache"] = Bool(false)
	if !a.Enabled("cache") {
		t.Fatalf("Options must return a copy")
	}
}

func TestSignatureValidate(t *testing.T) {
	sig := Signature{Name: "x", Options: []Item{{Name: "a", Kind: KindBool}, {Name: "a", Kind: KindBool}}}
	if err := sig.Validate(); err == nil {
		t.Fatalf("expected duplicate error")
	}
	sig = Signature{Name: "x", Options: []Item{{Name: "a", Kind: KindBool, Default: String("no")}}}
	if err := sig.Validate(); err == nil {
		t.Fatalf("expected kind mismatch error")
	}
	sig = Signature{Name: "x", Options: []Item{{Name: "a", Kind: KindBool}}, Arguments: []Item{{Name: "a", Kind: KindString}}}
	if err := sig.Validate(); err != nil {
		t.Fatalf("options and arguments may share names: %v", err)
	}
}
