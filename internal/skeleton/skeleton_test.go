package skeleton

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jcdickinson/crateskel/internal/provider"
)

const fixtureCrate = `{
	"root": 0,
	"crate_version": "0.1.0",
	"index": {
		"0": {"id": 0, "name": "shapes", "visibility": "public", "inner": {"module": {"is_crate": true, "items": [1, 10], "is_stripped": false}}},
		"1": {"id": 1, "name": "Point", "visibility": "public", "docs": "A [Point](Point) in the plane.", "links": {"Point": 1}, "inner": {"struct": {"kind": {"plain": {"fields": [2], "has_stripped_fields": false}}, "generics": {"params": [], "where_predicates": []}, "impls": []}}},
		"2": {"id": 2, "name": "x", "visibility": "public", "inner": {"struct_field": {"primitive": "f64"}}},
		"10": {"id": 10, "name": "net", "visibility": "public", "inner": {"module": {"is_crate": false, "items": [11], "is_stripped": false}}},
		"11": {"id": 11, "name": "connect", "visibility": "public", "docs": "Opens a connection.", "inner": {"function": {"sig": {"inputs": [], "output": null, "is_c_variadic": false}, "generics": {"params": [], "where_predicates": []}, "header": {"is_const": false, "is_unsafe": false, "is_async": true}, "has_body": true}}}
	},
	"paths": {},
	"external_crates": {},
	"format_version": 43
}`

// allocCrate is a tiny stand-in for the real alloc partition crate.
const allocCrate = `{
	"root": 0,
	"crate_version": null,
	"index": {
		"0": {"id": 0, "name": "alloc", "visibility": "public", "inner": {"module": {"is_crate": true, "items": [1], "is_stripped": false}}},
		"1": {"id": 1, "name": "vec", "visibility": "public", "inner": {"module": {"is_crate": false, "items": [2], "is_stripped": false}}},
		"2": {"id": 2, "name": "Vec", "visibility": "public", "inner": {"struct": {"kind": "unit", "generics": {"params": [], "where_predicates": []}, "impls": []}}}
	},
	"paths": {},
	"external_crates": {},
	"format_version": 43
}`

// newFixtureService seeds the on-disk cache and returns an offline
// service, so no test touches the network.
func newFixtureService(t *testing.T) *Service {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	if err := provider.SaveCrateCache([]byte(fixtureCrate), "shapes", ""); err != nil {
		t.Fatalf("seeding cache: %v", err)
	}
	if err := provider.SaveCrateCache([]byte(allocCrate), "alloc", ""); err != nil {
		t.Fatalf("seeding cache: %v", err)
	}
	p := provider.New(provider.NewClient(time.Second), provider.Options{Offline: true})
	return NewService(p)
}

func TestServiceRender(t *testing.T) {
	svc := newFixtureService(t)

	out, warnings, err := svc.Render(context.Background(), Request{Target: "shapes"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	for _, want := range []string{
		"// Crateskel skeleton",
		"// settings: target=shapes, visibility=public",
		"pub struct Point {",
		"/// A [Point](shapes::Point) in the plane.",
		"pub async fn connect() {}",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestServiceRenderWithPathFilter(t *testing.T) {
	svc := newFixtureService(t)

	out, _, err := svc.Render(context.Background(), Request{Target: "shapes::net"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "pub async fn connect() {}") {
		t.Errorf("filter target missing:\n%s", out)
	}
	if strings.Contains(out, "struct Point") {
		t.Errorf("sibling leaked through filter:\n%s", out)
	}
	if !strings.Contains(out, "path=shapes::net") {
		t.Errorf("header missing resolved path:\n%s", out)
	}
}

func TestServiceHeaderShowsStdDisplayPath(t *testing.T) {
	svc := newFixtureService(t)

	out, _, err := svc.Render(context.Background(), Request{Target: "std::vec::Vec"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "path=std::vec::Vec") {
		t.Errorf("header path not rewritten for display:\n%s", out)
	}
	if !strings.Contains(out, "pub struct Vec;") {
		t.Errorf("filter target missing:\n%s", out)
	}
}

func TestServiceRenderSearch(t *testing.T) {
	svc := newFixtureService(t)

	out, _, err := svc.Render(context.Background(), Request{Target: "shapes", Query: "connect"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `// search: query="connect"`) {
		t.Errorf("search header missing:\n%s", out)
	}
	if !strings.Contains(out, "//   - shapes::net::connect") {
		t.Errorf("hit listing missing:\n%s", out)
	}
	if !strings.Contains(out, "pub async fn connect() {}") {
		t.Errorf("matched item missing:\n%s", out)
	}
	if strings.Contains(out, "struct Point") {
		t.Errorf("non-matching item leaked:\n%s", out)
	}
}

func TestServiceRenderSearchExpandsContainersByDefault(t *testing.T) {
	svc := newFixtureService(t)

	out, _, err := svc.Render(context.Background(), Request{Target: "shapes", Query: "net"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "pub async fn connect() {}") {
		t.Errorf("matched module did not expand:\n%s", out)
	}

	direct, _, err := svc.Render(context.Background(), Request{Target: "shapes", Query: "net", DirectMatchOnly: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(direct, "pub mod net {") {
		t.Errorf("matched module shell missing:\n%s", direct)
	}
	if strings.Contains(direct, "connect") {
		t.Errorf("direct match rendered module contents:\n%s", direct)
	}
}

func TestServiceRenderSearchNoMatches(t *testing.T) {
	svc := newFixtureService(t)

	_, _, err := svc.Render(context.Background(), Request{Target: "shapes", Query: "zzzfrobnicate"})
	if err == nil {
		t.Fatal("expected error for a query with no matches")
	}
}

func TestServiceList(t *testing.T) {
	svc := newFixtureService(t)

	rows, err := svc.List(context.Background(), "shapes", false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	found := map[string]string{}
	for _, row := range rows {
		found[row.Path] = string(row.Kind)
	}
	if found["shapes::Point"] != "struct" {
		t.Errorf("shapes::Point listed as %q, want struct", found["shapes::Point"])
	}
	if found["shapes::net::connect"] != "function" {
		t.Errorf("connect listed as %q, want function", found["shapes::net::connect"])
	}
}

func TestServiceGraphCaching(t *testing.T) {
	svc := newFixtureService(t)

	target, err := svc.Resolve("shapes")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	first, err := svc.Graph(context.Background(), target)
	if err != nil {
		t.Fatalf("graph: %v", err)
	}
	second, err := svc.Graph(context.Background(), target)
	if err != nil {
		t.Fatalf("graph: %v", err)
	}
	if first != second {
		t.Error("expected the cached graph pointer on the second load")
	}
}
