package docfmt

import (
	"strings"
	"testing"

	"github.com/jcdickinson/crateskel/internal/graph"
)

func TestRewriteLinks_InlineLinks(t *testing.T) {
	t.Parallel()
	src := "See [Error](Error) for details."
	got := RewriteLinks(src, map[string]string{"Error": "mylib::io::Error"})
	want := "See [Error](mylib::io::Error) for details."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRewriteLinks_ReferenceStyleLinks(t *testing.T) {
	t.Parallel()
	src := "See [Error][ref] for details.\n\n[ref]: Error"
	got := RewriteLinks(src, map[string]string{"Error": "mylib::io::Error"})
	if !strings.Contains(got, "[ref]: mylib::io::Error") {
		t.Errorf("reference link not rewritten: %q", got)
	}
}

func TestRewriteLinks_EmptyMap(t *testing.T) {
	t.Parallel()
	src := "Hello [world](url)."
	if got := RewriteLinks(src, nil); got != src {
		t.Errorf("expected unchanged, got %q", got)
	}
}

func TestRewriteLinks_NoMatchingLinks(t *testing.T) {
	t.Parallel()
	src := "Check [this](keep-me) out."
	if got := RewriteLinks(src, map[string]string{"other": "x"}); got != src {
		t.Errorf("expected unchanged, got %q", got)
	}
}

const linkedCrate = `{
	"root": 0,
	"crate_version": null,
	"index": {
		"0": {"id": 0, "name": "mylib", "visibility": "public", "inner": {"module": {"is_crate": true, "items": [1, 2], "is_stripped": false}}},
		"1": {"id": 1, "name": "io", "visibility": "public", "inner": {"module": {"is_crate": false, "items": [3], "is_stripped": false}}},
		"2": {"id": 2, "name": "open", "visibility": "public", "docs": "Returns an [Error](Error) on failure.", "links": {"Error": 3, "Vec": 50}, "inner": {"function": {"sig": {"inputs": [], "output": null, "is_c_variadic": false}, "generics": {"params": [], "where_predicates": []}, "header": {"is_const": false, "is_unsafe": false, "is_async": false}, "has_body": true}}},
		"3": {"id": 3, "name": "Error", "visibility": "public", "inner": {"struct": {"kind": "unit", "generics": {"params": [], "where_predicates": []}, "impls": []}}}
	},
	"paths": {
		"50": {"crate_id": 2, "path": ["alloc", "vec", "Vec"], "kind": "struct"}
	},
	"external_crates": {},
	"format_version": 43
}`

func TestLinkMapResolvesLocalAndExternal(t *testing.T) {
	t.Parallel()

	g, err := graph.Build([]byte(linkedCrate))
	if err != nil {
		t.Fatalf("building graph: %v", err)
	}
	table := graph.ResolvePaths(g)
	std := graph.DefaultStdMap()

	item, _ := g.Item(2)
	m := LinkMap(g, table, std, item)

	if got := m["Error"]; got != "mylib::io::Error" {
		t.Errorf("Error -> %q, want mylib::io::Error", got)
	}
	if got := m["Vec"]; got != "std::vec::Vec" {
		t.Errorf("Vec -> %q, want std::vec::Vec (alloc prefix rewritten)", got)
	}

	rewritten := RewriteLinks(*item.Docs, m)
	if !strings.Contains(rewritten, "[Error](mylib::io::Error)") {
		t.Errorf("docs not rewritten: %q", rewritten)
	}
}

func TestLinkMapRewritesPartitionPrimaries(t *testing.T) {
	t.Parallel()

	// Rendering the alloc crate itself: Vec resolves through the path
	// table, and its alloc prefix still displays as std.
	g, err := graph.Build([]byte(`{
		"root": 0,
		"crate_version": null,
		"index": {
			"0": {"id": 0, "name": "alloc", "visibility": "public", "inner": {"module": {"is_crate": true, "items": [1, 3], "is_stripped": false}}},
			"1": {"id": 1, "name": "vec", "visibility": "public", "inner": {"module": {"is_crate": false, "items": [2], "is_stripped": false}}},
			"2": {"id": 2, "name": "Vec", "visibility": "public", "inner": {"struct": {"kind": "unit", "generics": {"params": [], "where_predicates": []}, "impls": []}}},
			"3": {"id": 3, "name": "with_capacity", "visibility": "public", "docs": "Builds a [Vec](Vec).", "links": {"Vec": 2}, "inner": {"function": {"sig": {"inputs": [], "output": null, "is_c_variadic": false}, "generics": {"params": [], "where_predicates": []}, "header": {"is_const": false, "is_unsafe": false, "is_async": false}, "has_body": true}}}
		},
		"paths": {},
		"external_crates": {},
		"format_version": 43
	}`))
	if err != nil {
		t.Fatalf("building graph: %v", err)
	}

	item, _ := g.Item(3)
	m := LinkMap(g, graph.ResolvePaths(g), graph.DefaultStdMap(), item)
	if got := m["Vec"]; got != "std::vec::Vec" {
		t.Errorf("Vec -> %q, want std::vec::Vec", got)
	}
}
