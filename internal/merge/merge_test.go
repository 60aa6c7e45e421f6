package merge

import (
	"strings"
	"testing"

	"github.com/jcdickinson/crateskel/internal/graph"
)

func buildGraph(t *testing.T, data string) *graph.Graph {
	t.Helper()
	g, err := graph.Build([]byte(data))
	if err != nil {
		t.Fatalf("building graph: %v", err)
	}
	return g
}

// duplicateImplCrate has the same trait implemented for the same target
// twice, as happens when a type is reachable through two re-export
// paths. Impl 20 and 21 both implement trait 100 for struct 1; impl 22
// is inherent. Method "get" appears in both trait impls with identical
// signatures, "len" appears with divergent outputs.
const duplicateImplCrate = `{
	"root": 0,
	"crate_version": null,
	"index": {
		"0": {"id": 0, "name": "c", "visibility": "public", "inner": {"module": {"is_crate": true, "items": [1], "is_stripped": false}}},
		"1": {"id": 1, "name": "Store", "visibility": "public", "inner": {"struct": {"kind": "unit", "generics": {"params": [], "where_predicates": []}, "impls": [20, 21, 22]}}},
		"2": {"id": 2, "name": "get", "visibility": "default", "inner": {"function": {"sig": {"inputs": [], "output": null, "is_c_variadic": false}, "generics": {"params": [], "where_predicates": []}, "header": {"is_const": false, "is_unsafe": false, "is_async": false}, "has_body": true}}},
		"3": {"id": 3, "name": "get", "visibility": "default", "inner": {"function": {"sig": {"inputs": [], "output": null, "is_c_variadic": false}, "generics": {"params": [], "where_predicates": []}, "header": {"is_const": false, "is_unsafe": false, "is_async": false}, "has_body": true}}},
		"4": {"id": 4, "name": "len", "visibility": "default", "inner": {"function": {"sig": {"inputs": [], "output": {"primitive": "usize"}, "is_c_variadic": false}, "generics": {"params": [], "where_predicates": []}, "header": {"is_const": false, "is_unsafe": false, "is_async": false}, "has_body": true}}},
		"5": {"id": 5, "name": "len", "visibility": "default", "inner": {"function": {"sig": {"inputs": [], "output": {"primitive": "u64"}, "is_c_variadic": false}, "generics": {"params": [], "where_predicates": []}, "header": {"is_const": false, "is_unsafe": false, "is_async": false}, "has_body": true}}},
		"6": {"id": 6, "name": "new", "visibility": "public", "inner": {"function": {"sig": {"inputs": [], "output": null, "is_c_variadic": false}, "generics": {"params": [], "where_predicates": []}, "header": {"is_const": false, "is_unsafe": false, "is_async": false}, "has_body": true}}},
		"20": {"id": 20, "visibility": "default", "inner": {"impl": {"is_unsafe": false, "generics": {"params": [], "where_predicates": []}, "trait": {"path": "Reader", "id": 100, "args": null}, "for": {"resolved_path": {"path": "Store", "id": 1, "args": null}}, "items": [2, 4], "is_negative": false, "is_synthetic": false, "blanket_impl": null}}},
		"21": {"id": 21, "visibility": "default", "inner": {"impl": {"is_unsafe": false, "generics": {"params": [], "where_predicates": []}, "trait": {"path": "Reader", "id": 100, "args": null}, "for": {"resolved_path": {"path": "Store", "id": 1, "args": null}}, "items": [3, 5], "is_negative": false, "is_synthetic": false, "blanket_impl": null}}},
		"22": {"id": 22, "visibility": "default", "inner": {"impl": {"is_unsafe": false, "generics": {"params": [], "where_predicates": []}, "trait": null, "for": {"resolved_path": {"path": "Store", "id": 1, "args": null}}, "items": [6], "is_negative": false, "is_synthetic": false, "blanket_impl": null}}}
	},
	"paths": {},
	"external_crates": {},
	"format_version": 43
}`

func TestGroupsMergesDuplicateTraitImpls(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, duplicateImplCrate)
	groups, warnings := Groups(g, []int{20, 21, 22}, Options{})

	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2 (trait + inherent)", len(groups))
	}

	trait := groups[0]
	if trait.Key.Trait == "" {
		t.Fatal("first group should be the trait impl, in encounter order")
	}
	if len(trait.Sources) != 2 || trait.Sources[0] != 20 || trait.Sources[1] != 21 {
		t.Errorf("sources = %v, want [20 21]", trait.Sources)
	}
	// get deduplicates, len keeps the first definition.
	if len(trait.Members) != 2 || trait.Members[0] != 2 || trait.Members[1] != 4 {
		t.Errorf("members = %v, want [2 4]", trait.Members)
	}

	inherent := groups[1]
	if inherent.Key.Trait != "" {
		t.Error("second group should be inherent")
	}
	if len(inherent.Members) != 1 || inherent.Members[0] != 6 {
		t.Errorf("inherent members = %v, want [6]", inherent.Members)
	}

	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", warnings)
	}
	if !strings.Contains(warnings[0], "conflicting definitions of len") {
		t.Errorf("warning = %q, want it to name len", warnings[0])
	}
}

func TestGroupsIsIdempotentOverRepeats(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, duplicateImplCrate)

	once, _ := Groups(g, []int{20, 21, 22}, Options{})
	again, _ := Groups(g, []int{20, 21, 22, 20, 21, 22}, Options{})

	if len(once) != len(again) {
		t.Fatalf("group count changed: %d vs %d", len(once), len(again))
	}
	for i := range once {
		if len(once[i].Members) != len(again[i].Members) {
			t.Errorf("group %d member count changed: %v vs %v", i, once[i].Members, again[i].Members)
		}
		for j := range once[i].Members {
			if once[i].Members[j] != again[i].Members[j] {
				t.Errorf("group %d members diverged: %v vs %v", i, once[i].Members, again[i].Members)
				break
			}
		}
	}
}

func TestIncludeFiltersSyntheticAndBlanket(t *testing.T) {
	t.Parallel()

	synthetic := &graph.Impl{IsSynthetic: true}
	if Include(synthetic, Options{}) {
		t.Error("synthetic impl included without AutoImpls")
	}
	if !Include(synthetic, Options{AutoImpls: true}) {
		t.Error("synthetic impl excluded with AutoImpls")
	}

	blanket := &graph.Impl{
		Trait:       &graph.PathRef{Path: "Reader", ID: 100},
		BlanketImpl: &graph.Type{Generic: strPtr("T")},
	}
	if Include(blanket, Options{}) {
		t.Error("blanket impl included without BlanketImpls")
	}
	if !Include(blanket, Options{BlanketImpls: true}) {
		t.Error("blanket impl excluded with BlanketImpls")
	}
}

func TestIncludeSkipsNoisyBlanketTraits(t *testing.T) {
	t.Parallel()

	noisy := &graph.Impl{
		Trait:       &graph.PathRef{Path: "core::convert::From", ID: 100},
		BlanketImpl: &graph.Type{Generic: strPtr("T")},
	}
	if Include(noisy, Options{BlanketImpls: true}) {
		t.Error("From blanket impl included without AutoImpls")
	}
	if !Include(noisy, Options{BlanketImpls: true, AutoImpls: true}) {
		t.Error("From blanket impl excluded with AutoImpls")
	}

	// A non-filtered trait's blanket impl stays when blanket impls are on.
	useful := &graph.Impl{
		Trait:       &graph.PathRef{Path: "serde::Serialize", ID: 101},
		BlanketImpl: &graph.Type{Generic: strPtr("T")},
	}
	if !Include(useful, Options{BlanketImpls: true}) {
		t.Error("Serialize blanket impl excluded")
	}
}

func strPtr(s string) *string { return &s }
