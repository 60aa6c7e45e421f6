package graph

import (
	"errors"
	"testing"
)

// reexportCrate has a nested module whose struct is re-exported from the
// root, both by name and through a second, longer alias module.
const reexportCrate = `{
	"root": 0,
	"crate_version": null,
	"index": {
		"0": {"id": 0, "name": "mylib", "visibility": "public", "inner": {"module": {"is_crate": true, "items": [1, 3, 4], "is_stripped": false}}},
		"1": {"id": 1, "name": "net", "visibility": "public", "inner": {"module": {"is_crate": false, "items": [2], "is_stripped": false}}},
		"2": {"id": 2, "name": "Client", "visibility": "public", "inner": {"struct": {"kind": "unit", "generics": {"params": [], "where_predicates": []}, "impls": []}}},
		"3": {"id": 3, "name": "Client", "visibility": "public", "inner": {"use": {"source": "net::Client", "name": "Client", "id": 2, "is_glob": false}}},
		"4": {"id": 4, "name": "transport", "visibility": "public", "inner": {"module": {"is_crate": false, "items": [5], "is_stripped": false}}},
		"5": {"id": 5, "name": "Client", "visibility": "public", "inner": {"use": {"source": "crate::net::Client", "name": "Client", "id": 2, "is_glob": false}}}
	},
	"paths": {},
	"external_crates": {},
	"format_version": 43
}`

func TestResolvePathsRecordsAliases(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, reexportCrate)
	table := ResolvePaths(g)

	ps := table.Paths(2)
	if len(ps) != 3 {
		t.Fatalf("got %d paths for Client, want 3: %v", len(ps), ps)
	}

	primary, ok := table.Primary(2)
	if !ok {
		t.Fatal("expected a primary path")
	}
	if got := primary.String(); got != "mylib::Client" {
		t.Errorf("primary = %q, want the shortest path mylib::Client", got)
	}
	if !ps[0].Primary || ps[1].Primary || ps[2].Primary {
		t.Errorf("exactly the first path must be primary: %v", ps)
	}
}

func TestPrimaryTieBreaksLexicographically(t *testing.T) {
	t.Parallel()

	// Two same-length routes to the same struct: a::Thing and b::Thing.
	g := buildGraph(t, `{
		"root": 0,
		"crate_version": null,
		"index": {
			"0": {"id": 0, "name": "c", "visibility": "public", "inner": {"module": {"is_crate": true, "items": [1, 3], "is_stripped": false}}},
			"1": {"id": 1, "name": "b", "visibility": "public", "inner": {"module": {"is_crate": false, "items": [2], "is_stripped": false}}},
			"2": {"id": 2, "name": "Thing", "visibility": "public", "inner": {"struct": {"kind": "unit", "generics": {"params": [], "where_predicates": []}, "impls": []}}},
			"3": {"id": 3, "name": "a", "visibility": "public", "inner": {"module": {"is_crate": false, "items": [4], "is_stripped": false}}},
			"4": {"id": 4, "name": "Thing", "visibility": "public", "inner": {"use": {"source": "crate::b::Thing", "name": "Thing", "id": 2, "is_glob": false}}}
		},
		"paths": {},
		"external_crates": {},
		"format_version": 43
	}`)
	table := ResolvePaths(g)

	primary, ok := table.Primary(2)
	if !ok {
		t.Fatal("expected a primary path")
	}
	if got := primary.String(); got != "c::a::Thing" {
		t.Errorf("primary = %q, want c::a::Thing", got)
	}
}

func TestResolveChainFollowsModulePaths(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, reexportCrate)
	table := ResolvePaths(g)

	chain, ok := table.ResolveChain("mylib::net::Client")
	if !ok {
		t.Fatal("expected a chain for mylib::net::Client")
	}
	if len(chain) != 3 || chain[0] != 0 || chain[1] != 1 || chain[2] != 2 {
		t.Errorf("chain = %v, want [0 1 2]", chain)
	}

	// The package-name prefix is optional, same as filters.
	short, ok := table.ResolveChain("net::Client")
	if !ok {
		t.Fatal("expected a chain for net::Client")
	}
	if len(short) != 3 || short[2] != 2 {
		t.Errorf("chain = %v, want the same target", short)
	}

	if _, ok := table.ResolveChain("mylib::nope"); ok {
		t.Error("expected no chain for an unknown path")
	}
}

func TestResolvePathsBreaksReexportCycles(t *testing.T) {
	t.Parallel()

	// a re-exports b and b re-exports a.
	g := buildGraph(t, `{
		"root": 0,
		"crate_version": null,
		"index": {
			"0": {"id": 0, "name": "c", "visibility": "public", "inner": {"module": {"is_crate": true, "items": [1, 2], "is_stripped": false}}},
			"1": {"id": 1, "name": "a", "visibility": "public", "inner": {"module": {"is_crate": false, "items": [3], "is_stripped": false}}},
			"2": {"id": 2, "name": "b", "visibility": "public", "inner": {"module": {"is_crate": false, "items": [4], "is_stripped": false}}},
			"3": {"id": 3, "name": "b", "visibility": "public", "inner": {"use": {"source": "crate::b", "name": "b", "id": 2, "is_glob": false}}},
			"4": {"id": 4, "name": "a", "visibility": "public", "inner": {"use": {"source": "crate::a", "name": "a", "id": 1, "is_glob": false}}}
		},
		"paths": {},
		"external_crates": {},
		"format_version": 43
	}`)

	table := ResolvePaths(g)

	if _, ok := table.Primary(1); !ok {
		t.Error("module a lost its path")
	}
	if _, ok := table.Primary(2); !ok {
		t.Error("module b lost its path")
	}
	for _, p := range table.Paths(1) {
		if len(p.Segments) > 4 {
			t.Errorf("cycle not broken, runaway path %v", p)
		}
	}
}

func TestMatchesFilterSkipsPackagePrefix(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, reexportCrate)
	table := ResolvePaths(g)

	if !table.MatchesFilter(2, "mylib::net") {
		t.Error("full-path filter should match")
	}
	if !table.MatchesFilter(2, "net") {
		t.Error("filter without the package prefix should match")
	}
	if table.MatchesFilter(1, "transport") {
		t.Error("net module must not match the transport filter")
	}
}

func TestFindModule(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, reexportCrate)
	table := ResolvePaths(g)

	id, err := table.FindModule("mylib::net")
	if err != nil {
		t.Fatalf("FindModule: %v", err)
	}
	if id != 1 {
		t.Errorf("id = %d, want 1", id)
	}

	if _, err := table.FindModule("mylib::nope"); err == nil {
		t.Fatal("expected error for unknown module")
	} else {
		var notFound *ModuleNotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("error = %v, want *ModuleNotFoundError", err)
		}
	}
}
